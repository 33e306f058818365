package client

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	donor   = Participant{ID: "d1", Role: "Donor"}
	charity = Party{ID: "c1", Model: "Charity", Name: "Food Bank"}
)

const realID = "Charity:c1_Donor:d1"

func TestOpenCreatesOneProvisionalPerCounterpart(t *testing.T) {
	inbox := NewInbox(donor)

	ref := inbox.Open(charity)
	provisional, ok := ref.(Provisional)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(provisional.TempID, "temp_"))
	assert.Equal(t, Participant{ID: "c1", Role: "Charity"}, provisional.Counterpart)

	assert.Equal(t, ref, inbox.Open(charity))

	thread, ok := inbox.Thread(provisional.TempID)
	require.True(t, ok)
	assert.Empty(t, thread.Messages)
}

func TestOpenReturnsLoadedConversation(t *testing.T) {
	inbox := NewInbox(donor)
	inbox.Load([]Conversation{{ID: realID, OtherParty: charity, UnreadCount: 2}})

	assert.Equal(t, Persisted{ConversationID: realID}, inbox.Open(charity))
}

func TestPersistReKeysExactlyOnce(t *testing.T) {
	inbox := NewInbox(donor)
	ref := inbox.Open(charity).(Provisional)
	require.NoError(t, inbox.Append(ref.TempID, Message{ID: "m1", Text: "hello", CreatedAt: time.Now()}))

	persisted, err := inbox.Persist(ref.TempID, realID)
	require.NoError(t, err)
	assert.Equal(t, Persisted{ConversationID: realID}, persisted)

	_, ok := inbox.Thread(ref.TempID)
	assert.False(t, ok)

	thread, ok := inbox.Thread(realID)
	require.True(t, ok)
	assert.Equal(t, persisted, thread.Ref)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, "hello", thread.LastMessage.Text)

	_, err = inbox.Persist(ref.TempID, realID)
	assert.ErrorIs(t, err, ErrUnknownThread)

	_, err = inbox.Persist(realID, "other")
	assert.ErrorIs(t, err, ErrAlreadyPersisted)
}

func TestPersistMergesIntoExistingThread(t *testing.T) {
	inbox := NewInbox(donor)
	ref := inbox.Open(charity).(Provisional)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, inbox.Append(ref.TempID, Message{ID: "m2", Text: "second", CreatedAt: base.Add(time.Minute)}))
	inbox.Load([]Conversation{{
		ID:          realID,
		OtherParty:  charity,
		LastMessage: &Message{ID: "m1", Text: "first", CreatedAt: base},
		UnreadCount: 1,
	}})

	_, err := inbox.Persist(ref.TempID, realID)
	require.NoError(t, err)

	threads := inbox.Threads()
	require.Len(t, threads, 1)
	assert.Len(t, threads[0].Messages, 2)
	assert.Equal(t, "second", threads[0].LastMessage.Text)
	assert.Equal(t, int64(1), threads[0].UnreadCount)
}

func TestSelectZeroesUnreadAndSurvivesReload(t *testing.T) {
	inbox := NewInbox(donor)
	inbox.Load([]Conversation{{ID: realID, OtherParty: charity, UnreadCount: 3}})

	ref, err := inbox.Select(realID)
	require.NoError(t, err)
	assert.Equal(t, Persisted{ConversationID: realID}, ref)
	assert.Equal(t, realID, inbox.Selected())

	thread, _ := inbox.Thread(realID)
	assert.Equal(t, int64(0), thread.UnreadCount)

	inbox.Load([]Conversation{{ID: realID, OtherParty: charity, UnreadCount: 3}})
	thread, _ = inbox.Thread(realID)
	assert.Equal(t, int64(0), thread.UnreadCount)

	_, err = inbox.Select("missing")
	assert.ErrorIs(t, err, ErrUnknownThread)
}

func TestThreadsOrder(t *testing.T) {
	inbox := NewInbox(donor)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	inbox.Load([]Conversation{
		{ID: "Charity:c1_Donor:d1", OtherParty: charity, LastMessage: &Message{ID: "a", CreatedAt: base}},
		{ID: "Charity:c2_Donor:d1", OtherParty: Party{ID: "c2", Model: "Charity"}, LastMessage: &Message{ID: "b", CreatedAt: base.Add(time.Hour)}},
	})
	provisional := inbox.Open(Party{ID: "c3", Model: "Charity"})

	threads := inbox.Threads()
	require.Len(t, threads, 3)
	assert.Equal(t, provisional, threads[0].Ref)
	assert.Equal(t, "Charity:c2_Donor:d1", threads[1].Ref.Key())
	assert.Equal(t, "Charity:c1_Donor:d1", threads[2].Ref.Key())
}

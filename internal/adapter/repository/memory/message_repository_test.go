package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charityconnect/internal/domain/entity"
	apperrors "charityconnect/pkg/errors"
)

var (
	donor   = entity.Participant{ID: "d1", Role: entity.RoleDonor}
	charity = entity.Participant{ID: "c1", Role: entity.RoleCharity}
)

func ledgerMessage(from, to entity.Participant, text string, at time.Time) *entity.Message {
	return &entity.Message{
		From:           from.ID,
		FromModel:      from.Role,
		To:             to.ID,
		ToModel:        to.Role,
		Text:           text,
		ConversationID: entity.DeriveConversationID(from, to),
		CreatedAt:      at,
		UpdatedAt:      at,
	}
}

func TestMessageRepositoryOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository()
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, ledgerMessage(donor, charity, "first", at)))
	require.NoError(t, repo.Create(ctx, ledgerMessage(charity, donor, "second", at)))
	require.NoError(t, repo.Create(ctx, ledgerMessage(donor, charity, "third", at.Add(time.Minute))))

	convID := entity.DeriveConversationID(donor, charity)
	history, err := repo.ListByConversation(ctx, convID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{history[0].Text, history[1].Text, history[2].Text})

	latest, err := repo.Latest(ctx, convID)
	require.NoError(t, err)
	assert.Equal(t, "third", latest.Text)

	involving, err := repo.ListByParticipant(ctx, donor)
	require.NoError(t, err)
	require.Len(t, involving, 3)
	assert.Equal(t, "third", involving[0].Text)
	assert.Equal(t, "second", involving[1].Text)
}

func TestMessageRepositoryParticipantMatchesRole(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository()
	sameIDCharity := entity.Participant{ID: "d1", Role: entity.RoleCharity}

	require.NoError(t, repo.Create(ctx, ledgerMessage(sameIDCharity, charity, "other role", time.Now())))

	involving, err := repo.ListByParticipant(ctx, donor)
	require.NoError(t, err)
	assert.Empty(t, involving)
}

func TestMessageRepositoryMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, ledgerMessage(donor, charity, "a", now)))
	require.NoError(t, repo.Create(ctx, ledgerMessage(donor, charity, "b", now)))
	require.NoError(t, repo.Create(ctx, ledgerMessage(charity, donor, "c", now)))

	convID := entity.DeriveConversationID(donor, charity)
	unread, err := repo.CountUnread(ctx, convID, charity)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	modified, err := repo.MarkRead(ctx, convID, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), modified)

	modified, err = repo.MarkRead(ctx, convID, "c1")
	require.NoError(t, err)
	assert.Zero(t, modified)

	unread, err = repo.CountUnread(ctx, convID, donor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestMessageRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository()
	msg := ledgerMessage(donor, charity, "hello", time.Now())
	require.NoError(t, repo.Create(ctx, msg))

	msg.Text = "mutated"
	latest, err := repo.Latest(ctx, msg.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "hello", latest.Text)

	_, err = repo.Latest(ctx, "Charity:x_Donor:y")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

package client

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

const tempPrefix = "temp_"

var (
	ErrUnknownThread    = errors.New("unknown thread")
	ErrAlreadyPersisted = errors.New("thread already persisted")
)

// Participant is one side of a conversation; Role is "Donor" or "Charity".
type Participant struct {
	ID   string
	Role string
}

// ConversationRef is either Provisional or Persisted.
type ConversationRef interface {
	Key() string
	conversationRef()
}

// Provisional is a thread opened locally that has no server conversation yet.
type Provisional struct {
	TempID      string
	Counterpart Participant
}

func (p Provisional) Key() string { return p.TempID }
func (Provisional) conversationRef() {}

// Persisted is a thread known to the server by its conversation id.
type Persisted struct {
	ConversationID string
}

func (p Persisted) Key() string { return p.ConversationID }
func (Persisted) conversationRef() {}

type Thread struct {
	Ref         ConversationRef
	Counterpart Party
	LastMessage *Message
	UnreadCount int64
	Messages    []Message
}

func (t *Thread) clone() Thread {
	out := *t
	out.Messages = append([]Message(nil), t.Messages...)
	if t.LastMessage != nil {
		last := *t.LastMessage
		out.LastMessage = &last
	}
	return out
}

func (t *Thread) add(m Message) {
	for _, existing := range t.Messages {
		if existing.ID != "" && existing.ID == m.ID {
			return
		}
	}
	t.Messages = append(t.Messages, m)
	if t.LastMessage == nil || !m.CreatedAt.Before(t.LastMessage.CreatedAt) {
		last := m
		t.LastMessage = &last
	}
}

// Inbox is the local thread list of one participant. Threads are keyed by conversation id, or by
// temp id while provisional.
type Inbox struct {
	mutex    sync.Mutex
	self     Participant
	threads  map[string]*Thread
	selected string
}

func NewInbox(self Participant) *Inbox {
	return &Inbox{
		self:    self,
		threads: make(map[string]*Thread),
	}
}

// Load merges server conversations into the inbox. Known threads take the server's last message
// and unread count, except the selected thread which stays read.
func (i *Inbox) Load(conversations []Conversation) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	for _, c := range conversations {
		thread, ok := i.threads[c.ID]
		if !ok {
			thread = &Thread{Ref: Persisted{ConversationID: c.ID}}
			i.threads[c.ID] = thread
		}
		thread.Counterpart = c.OtherParty
		thread.UnreadCount = c.UnreadCount
		if c.ID == i.selected {
			thread.UnreadCount = 0
		}
		if c.LastMessage != nil {
			thread.add(*c.LastMessage)
		}
	}
}

// Open returns the thread with counterpart, creating a provisional one when none exists.
func (i *Inbox) Open(counterpart Party) ConversationRef {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	var provisional ConversationRef
	for _, thread := range i.threads {
		if thread.Counterpart.ID != counterpart.ID || thread.Counterpart.Model != counterpart.Model {
			continue
		}
		if _, ok := thread.Ref.(Persisted); ok {
			return thread.Ref
		}
		provisional = thread.Ref
	}
	if provisional != nil {
		return provisional
	}

	ref := Provisional{
		TempID:      tempPrefix + uuid.NewString(),
		Counterpart: Participant{ID: counterpart.ID, Role: counterpart.Model},
	}
	i.threads[ref.TempID] = &Thread{Ref: ref, Counterpart: counterpart, Messages: []Message{}}
	return ref
}

// Persist moves a provisional thread to its server conversation id. It succeeds once per thread.
// When the inbox already holds a thread under conversationID the provisional messages are merged into it.
func (i *Inbox) Persist(tempID, conversationID string) (Persisted, error) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	thread, ok := i.threads[tempID]
	if !ok {
		return Persisted{}, ErrUnknownThread
	}
	if _, ok := thread.Ref.(Persisted); ok {
		return Persisted{}, ErrAlreadyPersisted
	}

	ref := Persisted{ConversationID: conversationID}
	delete(i.threads, tempID)

	if existing, ok := i.threads[conversationID]; ok {
		for _, m := range thread.Messages {
			existing.add(m)
		}
	} else {
		thread.Ref = ref
		i.threads[conversationID] = thread
	}

	if i.selected == tempID {
		i.selected = conversationID
	}
	return ref, nil
}

// Append records a message on the thread stored under key.
func (i *Inbox) Append(key string, m Message) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	thread, ok := i.threads[key]
	if !ok {
		return ErrUnknownThread
	}
	thread.add(m)
	return nil
}

// Select marks key as the open thread and zeroes its unread count locally.
func (i *Inbox) Select(key string) (ConversationRef, error) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	thread, ok := i.threads[key]
	if !ok {
		return nil, ErrUnknownThread
	}
	thread.UnreadCount = 0
	i.selected = key
	return thread.Ref, nil
}

func (i *Inbox) Selected() string {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.selected
}

func (i *Inbox) Thread(key string) (Thread, bool) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	thread, ok := i.threads[key]
	if !ok {
		return Thread{}, false
	}
	return thread.clone(), true
}

// Threads lists every thread, provisional ones first, then by last message newest first.
func (i *Inbox) Threads() []Thread {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	out := make([]Thread, 0, len(i.threads))
	for _, thread := range i.threads {
		out = append(out, thread.clone())
	}
	sort.SliceStable(out, func(a, b int) bool {
		_, pa := out[a].Ref.(Provisional)
		_, pb := out[b].Ref.(Provisional)
		if pa != pb {
			return pa
		}
		la, lb := out[a].LastMessage, out[b].LastMessage
		switch {
		case la == nil && lb == nil:
			return out[a].Ref.Key() < out[b].Ref.Key()
		case la == nil:
			return false
		case lb == nil:
			return true
		}
		return la.CreatedAt.After(lb.CreatedAt)
	})
	return out
}

// Messenger drives an Inbox against the server.
type Messenger struct {
	client *Client
	self   Participant
	inbox  *Inbox
}

func NewMessenger(client *Client, self Participant) *Messenger {
	return &Messenger{
		client: client,
		self:   self,
		inbox:  NewInbox(self),
	}
}

func (m *Messenger) Inbox() *Inbox {
	return m.inbox
}

// Refresh reloads the conversation list from the server.
func (m *Messenger) Refresh(ctx context.Context) error {
	conversations, err := m.client.Conversations(ctx, m.self.ID, m.self.Role)
	if err != nil {
		return err
	}
	m.inbox.Load(conversations)
	return nil
}

// Send posts text on the thread stored under key. The first successful send of a provisional thread
// persists it under the server's conversation id; a failed send leaves it provisional.
func (m *Messenger) Send(ctx context.Context, key, text string) (*Message, error) {
	thread, ok := m.inbox.Thread(key)
	if !ok {
		return nil, ErrUnknownThread
	}

	message, err := m.client.SendMessage(ctx, SendMessageRequest{
		From:      m.self.ID,
		FromModel: m.self.Role,
		To:        thread.Counterpart.ID,
		ToModel:   thread.Counterpart.Model,
		Text:      text,
	})
	if err != nil {
		return nil, err
	}

	if provisional, ok := thread.Ref.(Provisional); ok {
		if _, err := m.inbox.Persist(provisional.TempID, message.ConversationID); err != nil && !errors.Is(err, ErrUnknownThread) {
			return message, err
		}
	}
	if err := m.inbox.Append(message.ConversationID, *message); err != nil {
		return message, err
	}
	return message, nil
}

// Select opens the thread and tells the server its messages were read. The local unread count is
// zeroed first and stays zero if the server call fails; the error is returned for the caller to report.
func (m *Messenger) Select(ctx context.Context, key string) error {
	ref, err := m.inbox.Select(key)
	if err != nil {
		return err
	}

	persisted, ok := ref.(Persisted)
	if !ok {
		return nil
	}
	_, err = m.client.MarkRead(ctx, persisted.ConversationID, m.self.ID)
	return err
}

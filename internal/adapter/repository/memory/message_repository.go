package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/pkg/errors"
)

// MessageRepository keeps the ledger in insertion order, which breaks createdAt ties.
type MessageRepository struct {
	mutex    sync.RWMutex
	messages []*entity.Message
}

var _ repository.MessageRepository = (*MessageRepository)(nil)

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) Create(_ context.Context, message *entity.Message) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *MessageRepository) filter(keep func(*entity.Message) bool) []*entity.Message {
	out := []*entity.Message{}
	for _, m := range r.messages {
		if keep(m) {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out
}

func (r *MessageRepository) ListByConversation(_ context.Context, conversationID string) ([]*entity.Message, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := r.filter(func(m *entity.Message) bool { return m.ConversationID == conversationID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MessageRepository) ListByParticipant(_ context.Context, p entity.Participant) ([]*entity.Message, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := r.filter(func(m *entity.Message) bool { return m.Involves(p) })
	newestFirst(out)
	return out, nil
}

func (r *MessageRepository) Latest(_ context.Context, conversationID string) (*entity.Message, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := r.filter(func(m *entity.Message) bool { return m.ConversationID == conversationID })
	if len(out) == 0 {
		return nil, errors.NotFound("Message", nil)
	}
	newestFirst(out)
	return out[0], nil
}

func (r *MessageRepository) CountUnread(_ context.Context, conversationID string, recipient entity.Participant) (int64, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var count int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.Recipient() == recipient && !m.Read {
			count++
		}
	}
	return count, nil
}

func (r *MessageRepository) MarkRead(_ context.Context, conversationID, recipientID string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	var modified int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.To == recipientID && !m.Read {
			m.Read = true
			m.UpdatedAt = now
			modified++
		}
	}
	return modified, nil
}

// newestFirst reverses insertion order first so the stable sort keeps later inserts ahead on ties.
func newestFirst(out []*entity.Message) {
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
}

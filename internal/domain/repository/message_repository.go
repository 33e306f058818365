package repository

import (
	"context"

	"charityconnect/internal/domain/entity"
)

// MessageRepository is the ledger.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// ListByConversation returns the conversation's messages oldest first.
	ListByConversation(ctx context.Context, conversationID string) ([]*entity.Message, error)
	// ListByParticipant returns every message p sent or received, newest first.
	ListByParticipant(ctx context.Context, p entity.Participant) ([]*entity.Message, error)
	// Latest returns the most recent message of the conversation.
	Latest(ctx context.Context, conversationID string) (*entity.Message, error)
	CountUnread(ctx context.Context, conversationID string, recipient entity.Participant) (int64, error)
	// MarkRead flips read=false to true for messages of the conversation addressed to recipientID.
	MarkRead(ctx context.Context, conversationID, recipientID string) (int64, error)
}

package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/internal/infrastructure/mongodb"
	"charityconnect/pkg/errors"
)

// ObjectID hex ids grow with insertion time, so _id breaks createdAt ties in send order.
var (
	oldestFirst = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
)

type mongoMessageRepository struct {
	collection *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &mongoMessageRepository{
		collection: db.Collection(mongodb.MessagesCollection),
	}
}

func (r *mongoMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = bson.NewObjectID().Hex()
	}
	if _, err := r.collection.InsertOne(ctx, message); err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *mongoMessageRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]*entity.Message, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, errors.Internal("Failed to get messages", err)
	}

	messages := []*entity.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, errors.Internal("Failed to decode messages", err)
	}
	return messages, nil
}

func (r *mongoMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	return r.find(ctx, bson.M{"conversationId": conversationID}, oldestFirst)
}

func (r *mongoMessageRepository) ListByParticipant(ctx context.Context, p entity.Participant) ([]*entity.Message, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"from": p.ID, "fromModel": p.Role},
		bson.M{"to": p.ID, "toModel": p.Role},
	}}, newestFirst)
}

func (r *mongoMessageRepository) Latest(ctx context.Context, conversationID string) (*entity.Message, error) {
	var message entity.Message
	err := r.collection.FindOne(ctx,
		bson.M{"conversationId": conversationID},
		options.FindOne().SetSort(newestFirst),
	).Decode(&message)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("Message", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get latest message", err)
	}
	return &message, nil
}

func (r *mongoMessageRepository) CountUnread(ctx context.Context, conversationID string, recipient entity.Participant) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"conversationId": conversationID,
		"to":             recipient.ID,
		"toModel":        recipient.Role,
		"read":           false,
	})
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}
	return count, nil
}

func (r *mongoMessageRepository) MarkRead(ctx context.Context, conversationID, recipientID string) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"conversationId": conversationID, "to": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, errors.Internal("Failed to mark messages as read", err)
	}
	return res.ModifiedCount, nil
}

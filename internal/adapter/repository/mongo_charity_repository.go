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

type mongoCharityRepository struct {
	collection *mongo.Collection
}

func NewMongoCharityRepository(db *mongo.Database) repository.CharityRepository {
	return &mongoCharityRepository{
		collection: db.Collection(mongodb.CharitiesCollection),
	}
}

func (r *mongoCharityRepository) Create(ctx context.Context, charity *entity.Charity) error {
	if charity.ID == "" {
		charity.ID = bson.NewObjectID().Hex()
	}
	if charity.Followers == nil {
		charity.Followers = []string{}
	}
	if charity.Posts == nil {
		charity.Posts = []entity.Post{}
	}
	if charity.PaymentLinks == nil {
		charity.PaymentLinks = []entity.PaymentLink{}
	}
	if charity.Messages == nil {
		charity.Messages = []entity.EmbeddedMessage{}
	}

	if _, err := r.collection.InsertOne(ctx, charity); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Conflict("Charity with this email already exists")
		}
		return errors.Internal("Failed to create charity", err)
	}
	return nil
}

func (r *mongoCharityRepository) findOne(ctx context.Context, filter bson.M) (*entity.Charity, error) {
	var charity entity.Charity
	err := r.collection.FindOne(ctx, filter).Decode(&charity)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("Charity", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get charity", err)
	}
	return &charity, nil
}

func (r *mongoCharityRepository) GetByID(ctx context.Context, id string) (*entity.Charity, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoCharityRepository) GetByEmail(ctx context.Context, email string) (*entity.Charity, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoCharityRepository) find(ctx context.Context, filter bson.M) ([]*entity.Charity, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, errors.Internal("Failed to list charities", err)
	}

	charities := []*entity.Charity{}
	if err := cursor.All(ctx, &charities); err != nil {
		return nil, errors.Internal("Failed to decode charities", err)
	}
	return charities, nil
}

func (r *mongoCharityRepository) List(ctx context.Context) ([]*entity.Charity, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoCharityRepository) ListByIDs(ctx context.Context, ids []string) ([]*entity.Charity, error) {
	if len(ids) == 0 {
		return []*entity.Charity{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoCharityRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	res, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Conflict("Charity with this email already exists")
		}
		return errors.Internal("Failed to update charity", err)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("Charity", nil)
	}
	return nil
}

func (r *mongoCharityRepository) Update(ctx context.Context, charity *entity.Charity) error {
	charity.UpdatedAt = time.Now()
	return r.updateByID(ctx, charity.ID, bson.M{"$set": bson.M{
		"name":         charity.Name,
		"email":        charity.Email,
		"address":      charity.Address,
		"phone":        charity.Phone,
		"paymentLinks": charity.PaymentLinks,
		"bankDetails":  charity.BankDetails,
		"updatedAt":    charity.UpdatedAt,
	}})
}

func (r *mongoCharityRepository) SetFollowers(ctx context.Context, id string, followers []string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"followers": followers, "updatedAt": time.Now()}})
}

func (r *mongoCharityRepository) AppendMessages(ctx context.Context, id string, messages ...entity.EmbeddedMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return r.updateByID(ctx, id, bson.M{
		"$push": bson.M{"messages": bson.M{"$each": messages}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *mongoCharityRepository) AddPost(ctx context.Context, charityID string, post *entity.Post) error {
	if post.ID == "" {
		post.ID = bson.NewObjectID().Hex()
	}
	if post.Comments == nil {
		post.Comments = []entity.Comment{}
	}
	return r.updateByID(ctx, charityID, bson.M{
		"$push": bson.M{"posts": post},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *mongoCharityRepository) AddComment(ctx context.Context, charityID, postID string, comment *entity.Comment) error {
	if comment.ID == "" {
		comment.ID = bson.NewObjectID().Hex()
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": charityID, "posts._id": postID},
		bson.M{
			"$push": bson.M{"posts.$.comments": comment},
			"$set":  bson.M{"posts.$.updatedAt": comment.CreatedAt},
		},
	)
	if err != nil {
		return errors.Internal("Failed to add comment", err)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("Post", nil)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/internal/infrastructure/mongodb"
	"charityconnect/pkg/errors"
)

type mongoDonorRepository struct {
	collection *mongo.Collection
}

func NewMongoDonorRepository(db *mongo.Database) repository.DonorRepository {
	return &mongoDonorRepository{
		collection: db.Collection(mongodb.DonorsCollection),
	}
}

func (r *mongoDonorRepository) Create(ctx context.Context, donor *entity.Donor) error {
	if donor.ID == "" {
		donor.ID = bson.NewObjectID().Hex()
	}
	if donor.Following == nil {
		donor.Following = []string{}
	}
	if donor.Messages == nil {
		donor.Messages = []entity.EmbeddedMessage{}
	}

	if _, err := r.collection.InsertOne(ctx, donor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Conflict("Donor with this email already exists")
		}
		return errors.Internal("Failed to create donor", err)
	}
	return nil
}

func (r *mongoDonorRepository) findOne(ctx context.Context, filter bson.M) (*entity.Donor, error) {
	var donor entity.Donor
	err := r.collection.FindOne(ctx, filter).Decode(&donor)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("Donor", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get donor", err)
	}
	return &donor, nil
}

func (r *mongoDonorRepository) GetByID(ctx context.Context, id string) (*entity.Donor, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoDonorRepository) GetByEmail(ctx context.Context, email string) (*entity.Donor, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoDonorRepository) update(ctx context.Context, id string, update bson.M) error {
	res, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return errors.Internal("Failed to update donor", err)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("Donor", nil)
	}
	return nil
}

func (r *mongoDonorRepository) SetFollowing(ctx context.Context, id string, following []string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"following": following, "updatedAt": time.Now()}})
}

func (r *mongoDonorRepository) AppendMessages(ctx context.Context, id string, messages ...entity.EmbeddedMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return r.update(ctx, id, bson.M{
		"$push": bson.M{"messages": bson.M{"$each": messages}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

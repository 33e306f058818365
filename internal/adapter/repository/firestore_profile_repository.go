package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/pkg/errors"
)

const profilesCollection = "profiles"

type firestoreProfileRepository struct {
	client *firestore.Client
}

func NewFirestoreProfileRepository(client *firestore.Client) repository.ProfileRepository {
	return &firestoreProfileRepository{
		client: client,
	}
}

func (r *firestoreProfileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	_, err := r.client.Collection(profilesCollection).Doc(profile.ID).Create(ctx, profile)
	if status.Code(err) == codes.AlreadyExists {
		return errors.Conflict("Profile already exists")
	}
	return err
}

func (r *firestoreProfileRepository) findByEmail(ctx context.Context, email string) (*firestore.DocumentSnapshot, error) {
	iter := r.client.Collection(profilesCollection).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Profile", nil)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *firestoreProfileRepository) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	doc, err := r.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var profile entity.Profile
	if err := doc.DataTo(&profile); err != nil {
		return nil, err
	}
	if profile.ID == "" {
		profile.ID = doc.Ref.ID
	}

	return &profile, nil
}

func (r *firestoreProfileRepository) UpdateContact(ctx context.Context, email, name, phone string) error {
	doc, err := r.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	updates := []firestore.Update{{Path: "updatedAt", Value: time.Now()}}
	if name != "" {
		updates = append(updates, firestore.Update{Path: "name", Value: name})
	}
	if phone != "" {
		updates = append(updates, firestore.Update{Path: "phone", Value: phone})
	}

	_, err = doc.Ref.Update(ctx, updates)
	return err
}

// IncrementCounter applies delta server-side so concurrent increments never lose updates.
func (r *firestoreProfileRepository) IncrementCounter(ctx context.Context, email string, counter entity.ProfileCounter, delta int64) error {
	if !counter.Valid() {
		return fmt.Errorf("unknown profile counter %q", counter)
	}

	doc, err := r.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	_, err = doc.Ref.Update(ctx, []firestore.Update{
		{Path: string(counter), Value: firestore.Increment(delta)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if status.Code(err) == codes.NotFound {
		return errors.NotFound("Profile", err)
	}
	return err
}

package repository

import (
	"context"

	"charityconnect/internal/domain/entity"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
	UpdateContact(ctx context.Context, email, name, phone string) error
	IncrementCounter(ctx context.Context, email string, counter entity.ProfileCounter, delta int64) error
}

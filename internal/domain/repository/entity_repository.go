package repository

import (
	"context"

	"charityconnect/internal/domain/entity"
)

// Lookups return an errors.NotFound AppError when nothing matches.

type DonorRepository interface {
	Create(ctx context.Context, donor *entity.Donor) error
	GetByID(ctx context.Context, id string) (*entity.Donor, error)
	GetByEmail(ctx context.Context, email string) (*entity.Donor, error)
	SetFollowing(ctx context.Context, id string, following []string) error
	AppendMessages(ctx context.Context, id string, messages ...entity.EmbeddedMessage) error
}

type CharityRepository interface {
	Create(ctx context.Context, charity *entity.Charity) error
	GetByID(ctx context.Context, id string) (*entity.Charity, error)
	GetByEmail(ctx context.Context, email string) (*entity.Charity, error)
	List(ctx context.Context) ([]*entity.Charity, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Charity, error)
	Update(ctx context.Context, charity *entity.Charity) error
	SetFollowers(ctx context.Context, id string, followers []string) error
	AppendMessages(ctx context.Context, id string, messages ...entity.EmbeddedMessage) error
	AddPost(ctx context.Context, charityID string, post *entity.Post) error
	AddComment(ctx context.Context, charityID, postID string, comment *entity.Comment) error
}

package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/pkg/errors"
)

type CharityUseCase struct {
	charityRepo repository.CharityRepository
	profileRepo repository.ProfileRepository
	images      ImageStore
	publisher   EventPublisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewCharityUseCase builds the use case; images may be nil, in which case post images are stored inline.
func NewCharityUseCase(
	charityRepo repository.CharityRepository,
	profileRepo repository.ProfileRepository,
	images ImageStore,
	publisher EventPublisher,
	logger *slog.Logger,
) *CharityUseCase {
	return &CharityUseCase{
		charityRepo: charityRepo,
		profileRepo: profileRepo,
		images:      images,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

type CreateCharityInput struct {
	Name         string
	Email        string
	Address      string
	Phone        string
	PaymentLinks []entity.PaymentLink
}

type UpdateCharityInput struct {
	Name         string
	Email        string
	Address      string
	Phone        string
	PaymentLinks []entity.PaymentLink
	BankDetails  *entity.BankDetails
}

type CreatePostInput struct {
	Text  string
	Image string
}

type AddCommentInput struct {
	From    string
	To      string
	Message string
}

func (uc *CharityUseCase) CreateCharity(ctx context.Context, input CreateCharityInput) (*entity.Charity, error) {
	now := uc.now()
	paymentLinks := input.PaymentLinks
	if paymentLinks == nil {
		paymentLinks = []entity.PaymentLink{}
	}

	charity := &entity.Charity{
		Name:         input.Name,
		Email:        input.Email,
		Address:      input.Address,
		Phone:        input.Phone,
		Followers:    []string{},
		Posts:        []entity.Post{},
		PaymentLinks: paymentLinks,
		Messages:     entity.WelcomeMessages(input.Name, entity.RoleCharity, now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.charityRepo.Create(ctx, charity); err != nil {
		return nil, err
	}

	uc.logger.Info("Charity created", "id", charity.ID, "notices", len(charity.Messages))
	return charity, nil
}

func (uc *CharityUseCase) GetCharity(ctx context.Context, id string) (*entity.Charity, error) {
	return uc.charityRepo.GetByID(ctx, id)
}

func (uc *CharityUseCase) GetCharityByEmail(ctx context.Context, email string) (*entity.Charity, error) {
	return uc.charityRepo.GetByEmail(ctx, email)
}

func (uc *CharityUseCase) ListCharities(ctx context.Context) ([]entity.CharitySummary, error) {
	charities, err := uc.charityRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]entity.CharitySummary, 0, len(charities))
	for _, charity := range charities {
		summaries = append(summaries, charity.Summary())
	}
	return summaries, nil
}

// UpdateCharity replaces the editable fields and mirrors name and phone onto the profile record.
func (uc *CharityUseCase) UpdateCharity(ctx context.Context, id string, input UpdateCharityInput) (*entity.Charity, error) {
	charity, err := uc.charityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	charity.Name = input.Name
	charity.Email = input.Email
	charity.Address = input.Address
	charity.Phone = input.Phone
	if input.PaymentLinks != nil {
		charity.PaymentLinks = input.PaymentLinks
	}
	if input.BankDetails != nil {
		charity.BankDetails = input.BankDetails
	}

	if err := uc.charityRepo.Update(ctx, charity); err != nil {
		return nil, err
	}

	if err := uc.profileRepo.UpdateContact(ctx, charity.Email, charity.Name, charity.Phone); err != nil && !errors.Is(err, errors.CodeNotFound) {
		uc.logger.Error("Failed to sync profile contact", "email", charity.Email, "error", err)
	}

	return charity, nil
}

func (uc *CharityUseCase) CreatePost(ctx context.Context, charityID string, input CreatePostInput) (*entity.Post, error) {
	charity, err := uc.charityRepo.GetByID(ctx, charityID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Text) == "" {
		return nil, errors.BadRequest("Post text is required", nil)
	}
	if len(input.Image) > entity.MaxPostImageSize {
		return nil, errors.BadRequest("Image too large. Please use an image smaller than 5MB.", nil)
	}

	image := input.Image
	if uc.images != nil && strings.HasPrefix(image, "data:") {
		url, err := uc.images.UploadDataURI(ctx, image, "posts/"+charityID)
		if err != nil {
			return nil, errors.Internal("Failed to upload post image", err)
		}
		image = url
	}

	now := uc.now()
	post := &entity.Post{
		Text:      input.Text,
		Image:     image,
		Comments:  []entity.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.charityRepo.AddPost(ctx, charityID, post); err != nil {
		return nil, err
	}

	publishCounter(uc.publisher, uc.logger, charity.Email, entity.CounterPosts, 1)
	return post, nil
}

func (uc *CharityUseCase) ListPosts(ctx context.Context, charityID string) ([]entity.FeedPost, error) {
	charity, err := uc.charityRepo.GetByID(ctx, charityID)
	if err != nil {
		return nil, err
	}

	posts := make([]entity.FeedPost, 0, len(charity.Posts))
	for i := range charity.Posts {
		posts = append(posts, charity.Posts[i].FeedPost(nil))
	}
	return posts, nil
}

func (uc *CharityUseCase) GetPost(ctx context.Context, charityID, postID string) (*entity.Post, error) {
	charity, err := uc.charityRepo.GetByID(ctx, charityID)
	if err != nil {
		return nil, err
	}

	post := charity.Post(postID)
	if post == nil {
		return nil, errors.NotFound("Post", nil)
	}
	return post, nil
}

func (uc *CharityUseCase) AddComment(ctx context.Context, charityID, postID string, input AddCommentInput) (*entity.Comment, error) {
	if _, err := uc.GetPost(ctx, charityID, postID); err != nil {
		return nil, err
	}

	now := uc.now()
	comment := &entity.Comment{
		From:      input.From,
		To:        input.To,
		Message:   input.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.charityRepo.AddComment(ctx, charityID, postID, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Feed returns every charity's posts, newest first.
func (uc *CharityUseCase) Feed(ctx context.Context) ([]entity.FeedPost, error) {
	charities, err := uc.charityRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return feedOf(charities), nil
}

func (uc *CharityUseCase) InitMessages(ctx context.Context, charityID string) ([]entity.EmbeddedMessage, error) {
	charity, err := uc.charityRepo.GetByID(ctx, charityID)
	if err != nil {
		return nil, err
	}
	if len(charity.Messages) > 0 {
		return charity.Messages, nil
	}

	welcome := entity.WelcomeMessages(charity.Name, entity.RoleCharity, uc.now())
	if err := uc.charityRepo.AppendMessages(ctx, charityID, welcome...); err != nil {
		return nil, err
	}
	return welcome, nil
}

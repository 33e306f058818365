package usecase

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"time"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/pkg/errors"
)

type DonorUseCase struct {
	donorRepo   repository.DonorRepository
	charityRepo repository.CharityRepository
	publisher   EventPublisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewDonorUseCase(
	donorRepo repository.DonorRepository,
	charityRepo repository.CharityRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) *DonorUseCase {
	return &DonorUseCase{
		donorRepo:   donorRepo,
		charityRepo: charityRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

type CreateDonorInput struct {
	Name    string
	Email   string
	Address string
	Phone   string
}

type FollowResult struct {
	FollowingCount int `json:"followingCount"`
	FollowersCount int `json:"followersCount"`
}

func (uc *DonorUseCase) CreateDonor(ctx context.Context, input CreateDonorInput) (*entity.Donor, error) {
	now := uc.now()
	donor := &entity.Donor{
		Name:      input.Name,
		Email:     input.Email,
		Address:   input.Address,
		Phone:     input.Phone,
		Following: []string{},
		Messages:  entity.WelcomeMessages(input.Name, entity.RoleDonor, now),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.donorRepo.Create(ctx, donor); err != nil {
		return nil, err
	}

	uc.logger.Info("Donor created", "id", donor.ID, "notices", len(donor.Messages))
	return donor, nil
}

func (uc *DonorUseCase) GetDonor(ctx context.Context, id string) (*entity.Donor, error) {
	return uc.donorRepo.GetByID(ctx, id)
}

func (uc *DonorUseCase) GetDonorByEmail(ctx context.Context, email string) (*entity.Donor, error) {
	return uc.donorRepo.GetByEmail(ctx, email)
}

func (uc *DonorUseCase) load(ctx context.Context, donorID, charityID string) (*entity.Donor, *entity.Charity, error) {
	donor, err := uc.donorRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, nil, err
	}
	charity, err := uc.charityRepo.GetByID(ctx, charityID)
	if err != nil {
		return nil, nil, err
	}
	return donor, charity, nil
}

func (uc *DonorUseCase) Follow(ctx context.Context, donorID, charityID string) (*FollowResult, error) {
	donor, charity, err := uc.load(ctx, donorID, charityID)
	if err != nil {
		return nil, err
	}
	if donor.IsFollowing(charityID) {
		return nil, errors.BadRequest("Already following this charity", nil)
	}

	following := append(donor.Following, charityID)
	if err := uc.donorRepo.SetFollowing(ctx, donorID, following); err != nil {
		return nil, err
	}

	followers := charity.Followers
	if !slices.Contains(followers, donorID) {
		followers = append(followers, donorID)
	}
	if err := uc.charityRepo.SetFollowers(ctx, charityID, followers); err != nil {
		return nil, err
	}

	uc.afterFollowChange(ctx, donor, charity, true)
	return &FollowResult{FollowingCount: len(following), FollowersCount: len(followers)}, nil
}

func (uc *DonorUseCase) Unfollow(ctx context.Context, donorID, charityID string) (*FollowResult, error) {
	donor, charity, err := uc.load(ctx, donorID, charityID)
	if err != nil {
		return nil, err
	}
	if !donor.IsFollowing(charityID) {
		return nil, errors.BadRequest("Not following this charity", nil)
	}

	following := slices.DeleteFunc(slices.Clone(donor.Following), func(id string) bool { return id == charityID })
	if err := uc.donorRepo.SetFollowing(ctx, donorID, following); err != nil {
		return nil, err
	}

	followers := slices.DeleteFunc(slices.Clone(charity.Followers), func(id string) bool { return id == donorID })
	if err := uc.charityRepo.SetFollowers(ctx, charityID, followers); err != nil {
		return nil, err
	}

	uc.afterFollowChange(ctx, donor, charity, false)
	return &FollowResult{FollowingCount: len(following), FollowersCount: len(followers)}, nil
}

// afterFollowChange notifies the charity and queues the counter updates. Both are best effort.
func (uc *DonorUseCase) afterFollowChange(ctx context.Context, donor *entity.Donor, charity *entity.Charity, follow bool) {
	notice := entity.FollowNotice(donor.Name, charity.Name, follow, uc.now())
	if err := uc.charityRepo.AppendMessages(ctx, charity.ID, notice); err != nil {
		uc.logger.Error("Failed to store follow notice", "charityId", charity.ID, "error", err)
	}

	var delta int64 = 1
	if !follow {
		delta = -1
	}
	publishCounter(uc.publisher, uc.logger, donor.Email, entity.CounterFollowing, delta)
	publishCounter(uc.publisher, uc.logger, charity.Email, entity.CounterFollowers, delta)
}

// Feed returns the posts of every charity the donor follows, newest first.
func (uc *DonorUseCase) Feed(ctx context.Context, donorID string) ([]entity.FeedPost, error) {
	donor, err := uc.donorRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if len(donor.Following) == 0 {
		return []entity.FeedPost{}, nil
	}

	charities, err := uc.charityRepo.ListByIDs(ctx, donor.Following)
	if err != nil {
		return nil, err
	}
	return feedOf(charities), nil
}

// InitMessages seeds the welcome notices when the donor has none; otherwise it returns what is stored.
func (uc *DonorUseCase) InitMessages(ctx context.Context, donorID string) ([]entity.EmbeddedMessage, error) {
	donor, err := uc.donorRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if len(donor.Messages) > 0 {
		return donor.Messages, nil
	}

	welcome := entity.WelcomeMessages(donor.Name, entity.RoleDonor, uc.now())
	if err := uc.donorRepo.AppendMessages(ctx, donorID, welcome...); err != nil {
		return nil, err
	}
	return welcome, nil
}

func feedOf(charities []*entity.Charity) []entity.FeedPost {
	posts := []entity.FeedPost{}
	for _, charity := range charities {
		for i := range charity.Posts {
			posts = append(posts, charity.Posts[i].FeedPost(charity))
		}
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts
}

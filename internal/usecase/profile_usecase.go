package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/internal/infrastructure/events"
	"charityconnect/pkg/errors"
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	donorRepo   repository.DonorRepository
	charityRepo repository.CharityRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewProfileUseCase(
	profileRepo repository.ProfileRepository,
	donorRepo repository.DonorRepository,
	charityRepo repository.CharityRepository,
	logger *slog.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		donorRepo:   donorRepo,
		charityRepo: charityRepo,
		logger:      logger,
		now:         time.Now,
	}
}

type CreateProfileInput struct {
	Name    string
	Email   string
	Phone   string
	Role    string
	Address string
}

// GetProfile returns the profile with role-specific fields. If the entity lookup fails the plain
// profile is still returned.
func (uc *ProfileUseCase) GetProfile(ctx context.Context, email string) (*entity.ProfileView, error) {
	if email == "" {
		return nil, errors.BadRequest("Email is required", nil)
	}

	profile, err := uc.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	view := &entity.ProfileView{Profile: profile}

	switch profile.Role {
	case entity.RoleCharity.ProfileRole():
		charity, err := uc.charityRepo.GetByEmail(ctx, email)
		if err != nil {
			uc.logger.Warn("Charity details unavailable for profile", "email", email, "error", err)
			break
		}
		posts := len(charity.Posts)
		view.CharityID = charity.ID
		view.Address = charity.Address
		view.Followers = charity.Followers
		view.Posts = &posts
		view.PaymentLinks = charity.PaymentLinks
	case entity.RoleDonor.ProfileRole():
		donor, err := uc.donorRepo.GetByEmail(ctx, email)
		if err != nil {
			uc.logger.Warn("Donor details unavailable for profile", "email", email, "error", err)
			break
		}
		view.DonorID = donor.ID
		view.Address = donor.Address
		view.Following = donor.Following
	}

	return view, nil
}

func (uc *ProfileUseCase) CreateProfile(ctx context.Context, input CreateProfileInput) (*entity.Profile, error) {
	if _, err := uc.profileRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, errors.BadRequest("User with this email already exists", nil)
	} else if !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	now := uc.now()
	profile := &entity.Profile{
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		Phone:     input.Phone,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, errors.CodeConflict) {
			return nil, errors.BadRequest("User with this email already exists", err)
		}
		return nil, err
	}
	return profile, nil
}

// HandleCounterChanged applies a CounterChanged event. Entities without a profile record are skipped.
func (uc *ProfileUseCase) HandleCounterChanged(ctx context.Context, evt events.Event) error {
	change, ok := evt.(CounterChanged)
	if !ok {
		return fmt.Errorf("unexpected event %T", evt)
	}

	err := uc.profileRepo.IncrementCounter(ctx, change.Email, change.Counter, change.Delta)
	if errors.Is(err, errors.CodeNotFound) {
		uc.logger.Debug("No profile for counter update", "email", change.Email, "counter", change.Counter)
		return nil
	}
	return err
}

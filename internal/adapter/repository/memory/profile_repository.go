package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/pkg/errors"
)

type ProfileRepository struct {
	mutex    sync.RWMutex
	profiles map[string]*entity.Profile // by email
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]*entity.Profile)}
}

func (r *ProfileRepository) Create(_ context.Context, profile *entity.Profile) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.profiles[profile.Email]; exists {
		return errors.Conflict("Profile already exists")
	}
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	stored := *profile
	r.profiles[profile.Email] = &stored
	return nil
}

func (r *ProfileRepository) GetByEmail(_ context.Context, email string) (*entity.Profile, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	profile, ok := r.profiles[email]
	if !ok {
		return nil, errors.NotFound("Profile", nil)
	}
	copied := *profile
	return &copied, nil
}

func (r *ProfileRepository) UpdateContact(_ context.Context, email, name, phone string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	profile, ok := r.profiles[email]
	if !ok {
		return errors.NotFound("Profile", nil)
	}
	if name != "" {
		profile.Name = name
	}
	if phone != "" {
		profile.Phone = phone
	}
	profile.UpdatedAt = time.Now()
	return nil
}

func (r *ProfileRepository) IncrementCounter(_ context.Context, email string, counter entity.ProfileCounter, delta int64) error {
	if !counter.Valid() {
		return fmt.Errorf("unknown profile counter %q", counter)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	profile, ok := r.profiles[email]
	if !ok {
		return errors.NotFound("Profile", nil)
	}
	profile.Apply(counter, delta)
	profile.UpdatedAt = time.Now()
	return nil
}

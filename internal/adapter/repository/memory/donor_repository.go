package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/pkg/errors"
)

type DonorRepository struct {
	mutex  sync.RWMutex
	donors map[string]*entity.Donor
}

var _ repository.DonorRepository = (*DonorRepository)(nil)

func NewDonorRepository() *DonorRepository {
	return &DonorRepository{donors: make(map[string]*entity.Donor)}
}

func (r *DonorRepository) Create(_ context.Context, donor *entity.Donor) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.donors {
		if existing.Email == donor.Email {
			return errors.Conflict("Donor with this email already exists")
		}
	}
	if donor.ID == "" {
		donor.ID = uuid.New().String()
	}
	donor.Following = orEmpty(donor.Following)
	donor.Messages = orEmpty(donor.Messages)

	r.donors[donor.ID] = cloneDonor(donor)
	return nil
}

func (r *DonorRepository) GetByID(_ context.Context, id string) (*entity.Donor, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	donor, ok := r.donors[id]
	if !ok {
		return nil, errors.NotFound("Donor", nil)
	}
	return cloneDonor(donor), nil
}

func (r *DonorRepository) GetByEmail(_ context.Context, email string) (*entity.Donor, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, donor := range r.donors {
		if donor.Email == email {
			return cloneDonor(donor), nil
		}
	}
	return nil, errors.NotFound("Donor", nil)
}

func (r *DonorRepository) SetFollowing(_ context.Context, id string, following []string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	donor, ok := r.donors[id]
	if !ok {
		return errors.NotFound("Donor", nil)
	}
	donor.Following = orEmpty(append([]string(nil), following...))
	donor.UpdatedAt = time.Now()
	return nil
}

func (r *DonorRepository) AppendMessages(_ context.Context, id string, messages ...entity.EmbeddedMessage) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	donor, ok := r.donors[id]
	if !ok {
		return errors.NotFound("Donor", nil)
	}
	donor.Messages = append(donor.Messages, messages...)
	donor.UpdatedAt = time.Now()
	return nil
}

package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/pkg/errors"
)

type CharityRepository struct {
	mutex     sync.RWMutex
	charities map[string]*entity.Charity
	order     []string
}

var _ repository.CharityRepository = (*CharityRepository)(nil)

func NewCharityRepository() *CharityRepository {
	return &CharityRepository{charities: make(map[string]*entity.Charity)}
}

func (r *CharityRepository) emailTaken(email, exceptID string) bool {
	for id, existing := range r.charities {
		if id != exceptID && existing.Email == email {
			return true
		}
	}
	return false
}

func (r *CharityRepository) Create(_ context.Context, charity *entity.Charity) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.emailTaken(charity.Email, "") {
		return errors.Conflict("Charity with this email already exists")
	}
	if charity.ID == "" {
		charity.ID = uuid.New().String()
	}
	charity.Followers = orEmpty(charity.Followers)
	charity.Posts = orEmpty(charity.Posts)
	charity.PaymentLinks = orEmpty(charity.PaymentLinks)
	charity.Messages = orEmpty(charity.Messages)

	r.charities[charity.ID] = cloneCharity(charity)
	r.order = append(r.order, charity.ID)
	return nil
}

func (r *CharityRepository) GetByID(_ context.Context, id string) (*entity.Charity, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	charity, ok := r.charities[id]
	if !ok {
		return nil, errors.NotFound("Charity", nil)
	}
	return cloneCharity(charity), nil
}

func (r *CharityRepository) GetByEmail(_ context.Context, email string) (*entity.Charity, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, charity := range r.charities {
		if charity.Email == email {
			return cloneCharity(charity), nil
		}
	}
	return nil, errors.NotFound("Charity", nil)
}

func (r *CharityRepository) List(_ context.Context) ([]*entity.Charity, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]*entity.Charity, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneCharity(r.charities[id]))
	}
	return out, nil
}

func (r *CharityRepository) ListByIDs(_ context.Context, ids []string) ([]*entity.Charity, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := []*entity.Charity{}
	for _, id := range r.order {
		if slices.Contains(ids, id) {
			out = append(out, cloneCharity(r.charities[id]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *CharityRepository) Update(_ context.Context, charity *entity.Charity) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.charities[charity.ID]
	if !ok {
		return errors.NotFound("Charity", nil)
	}
	if r.emailTaken(charity.Email, charity.ID) {
		return errors.Conflict("Charity with this email already exists")
	}

	charity.UpdatedAt = time.Now()
	stored.Name = charity.Name
	stored.Email = charity.Email
	stored.Address = charity.Address
	stored.Phone = charity.Phone
	stored.PaymentLinks = slices.Clone(charity.PaymentLinks)
	stored.BankDetails = nil
	if charity.BankDetails != nil {
		bank := *charity.BankDetails
		stored.BankDetails = &bank
	}
	stored.UpdatedAt = charity.UpdatedAt
	return nil
}

func (r *CharityRepository) SetFollowers(_ context.Context, id string, followers []string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	charity, ok := r.charities[id]
	if !ok {
		return errors.NotFound("Charity", nil)
	}
	charity.Followers = orEmpty(append([]string(nil), followers...))
	charity.UpdatedAt = time.Now()
	return nil
}

func (r *CharityRepository) AppendMessages(_ context.Context, id string, messages ...entity.EmbeddedMessage) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	charity, ok := r.charities[id]
	if !ok {
		return errors.NotFound("Charity", nil)
	}
	charity.Messages = append(charity.Messages, messages...)
	charity.UpdatedAt = time.Now()
	return nil
}

func (r *CharityRepository) AddPost(_ context.Context, charityID string, post *entity.Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	charity, ok := r.charities[charityID]
	if !ok {
		return errors.NotFound("Charity", nil)
	}
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	post.Comments = orEmpty(post.Comments)

	charity.Posts = append(charity.Posts, clonePost(*post))
	charity.UpdatedAt = time.Now()
	return nil
}

func (r *CharityRepository) AddComment(_ context.Context, charityID, postID string, comment *entity.Comment) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	charity, ok := r.charities[charityID]
	if !ok {
		return errors.NotFound("Charity", nil)
	}
	post := charity.Post(postID)
	if post == nil {
		return errors.NotFound("Post", nil)
	}
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}

	post.Comments = append(post.Comments, *comment)
	post.UpdatedAt = comment.CreatedAt
	return nil
}

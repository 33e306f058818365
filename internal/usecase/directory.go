package usecase

import (
	"context"
	"fmt"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/pkg/errors"
)

// Directory resolves participants against the donor and charity collections.
type Directory struct {
	donorRepo   repository.DonorRepository
	charityRepo repository.CharityRepository
}

func NewDirectory(donorRepo repository.DonorRepository, charityRepo repository.CharityRepository) *Directory {
	return &Directory{
		donorRepo:   donorRepo,
		charityRepo: charityRepo,
	}
}

// Identity loads p's display information. A missing entity is a NotFound naming the role.
func (d *Directory) Identity(ctx context.Context, p entity.Participant) (entity.Identity, error) {
	switch p.Role {
	case entity.RoleDonor:
		donor, err := d.donorRepo.GetByID(ctx, p.ID)
		if err != nil {
			return entity.Identity{}, err
		}
		return donor.Identity(), nil
	case entity.RoleCharity:
		charity, err := d.charityRepo.GetByID(ctx, p.ID)
		if err != nil {
			return entity.Identity{}, err
		}
		return charity.Identity(), nil
	}
	return entity.Identity{}, errors.BadRequest(fmt.Sprintf("Invalid role %q", p.Role), nil)
}

// Notices returns the system notices stored on p's document.
func (d *Directory) Notices(ctx context.Context, p entity.Participant) (entity.Identity, []entity.EmbeddedMessage, error) {
	switch p.Role {
	case entity.RoleDonor:
		donor, err := d.donorRepo.GetByID(ctx, p.ID)
		if err != nil {
			return entity.Identity{}, nil, err
		}
		return donor.Identity(), donor.Messages, nil
	case entity.RoleCharity:
		charity, err := d.charityRepo.GetByID(ctx, p.ID)
		if err != nil {
			return entity.Identity{}, nil, err
		}
		return charity.Identity(), charity.Messages, nil
	}
	return entity.Identity{}, nil, errors.BadRequest(fmt.Sprintf("Invalid role %q", p.Role), nil)
}

// Resolve turns an id plus an optional role into a Participant. Without a role the id is looked up
// in both collections; it must exist in exactly one.
func (d *Directory) Resolve(ctx context.Context, id, role string) (entity.Participant, error) {
	if role != "" {
		r, err := entity.ParseRole(role)
		if err != nil {
			return entity.Participant{}, errors.BadRequest(`Invalid role. Must be "Donor" or "Charity"`, err)
		}
		return entity.Participant{ID: id, Role: r}, nil
	}

	_, donorErr := d.donorRepo.GetByID(ctx, id)
	if donorErr != nil && !errors.Is(donorErr, errors.CodeNotFound) {
		return entity.Participant{}, donorErr
	}
	_, charityErr := d.charityRepo.GetByID(ctx, id)
	if charityErr != nil && !errors.Is(charityErr, errors.CodeNotFound) {
		return entity.Participant{}, charityErr
	}

	isDonor, isCharity := donorErr == nil, charityErr == nil
	switch {
	case isDonor && isCharity:
		return entity.Participant{}, errors.BadRequest(fmt.Sprintf("Id %s matches both a Donor and a Charity; specify its role", id), nil)
	case isDonor:
		return entity.Participant{ID: id, Role: entity.RoleDonor}, nil
	case isCharity:
		return entity.Participant{ID: id, Role: entity.RoleCharity}, nil
	}
	return entity.Participant{}, errors.NotFound("Participant "+id, nil)
}

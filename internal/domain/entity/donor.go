package entity

import (
	"slices"
	"time"
)

type Donor struct {
	ID        string            `json:"id" bson:"_id"`
	Name      string            `json:"name" bson:"name"`
	Email     string            `json:"email" bson:"email"`
	Address   string            `json:"address,omitempty" bson:"address,omitempty"`
	Phone     string            `json:"phone,omitempty" bson:"phone,omitempty"`
	Following []string          `json:"following" bson:"following"`
	Messages  []EmbeddedMessage `json:"messages" bson:"messages"`
	CreatedAt time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt" bson:"updatedAt"`
}

func (d *Donor) Identity() Identity {
	return Identity{
		Participant: Participant{ID: d.ID, Role: RoleDonor},
		Name:        d.Name,
		Email:       d.Email,
	}
}

func (d *Donor) IsFollowing(charityID string) bool {
	return slices.Contains(d.Following, charityID)
}

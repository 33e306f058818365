package entity

import "fmt"

// Role tags which collection an entity id belongs to.
type Role string

const (
	RoleDonor   Role = "Donor"
	RoleCharity Role = "Charity"
)

func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleCharity
}

func (r Role) String() string {
	return string(r)
}

// ProfileRole is the lower-case form stored on profile records ("donor", "charity").
func (r Role) ProfileRole() string {
	switch r {
	case RoleDonor:
		return "donor"
	case RoleCharity:
		return "charity"
	}
	return ""
}

// ParseRole accepts exactly "Donor" or "Charity".
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q: must be %q or %q", s, RoleDonor, RoleCharity)
	}
	return r, nil
}

// Participant identifies one side of a conversation.
type Participant struct {
	ID   string `json:"id" bson:"id"`
	Role Role   `json:"role" bson:"role"`
}

func (p Participant) key() string {
	return string(p.Role) + ":" + p.ID
}

// Identity is the display information the messaging core needs about an entity.
type Identity struct {
	Participant
	Name  string `json:"name"`
	Email string `json:"email"`
}

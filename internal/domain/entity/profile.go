package entity

import "time"

// Profile is the auxiliary per-user record holding denormalized counters.
type Profile struct {
	ID             string    `json:"id" firestore:"id"`
	Name           string    `json:"name" firestore:"name"`
	Email          string    `json:"email" firestore:"email"`
	Role           string    `json:"role" firestore:"role"` // "donor" or "charity"
	Phone          string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	Address        string    `json:"address,omitempty" firestore:"address,omitempty"`
	PostsCount     int64     `json:"postsCount" firestore:"postsCount"`
	MessagesCount  int64     `json:"messagesCount" firestore:"messagesCount"`
	FollowersCount int64     `json:"followersCount" firestore:"followersCount"`
	FollowingCount int64     `json:"followingCount" firestore:"followingCount"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// ProfileCounter names a counter field on Profile.
type ProfileCounter string

const (
	CounterPosts     ProfileCounter = "postsCount"
	CounterMessages  ProfileCounter = "messagesCount"
	CounterFollowers ProfileCounter = "followersCount"
	CounterFollowing ProfileCounter = "followingCount"
)

func (c ProfileCounter) Valid() bool {
	switch c {
	case CounterPosts, CounterMessages, CounterFollowers, CounterFollowing:
		return true
	}
	return false
}

// Apply adds delta to the named counter in memory.
func (p *Profile) Apply(counter ProfileCounter, delta int64) {
	switch counter {
	case CounterPosts:
		p.PostsCount += delta
	case CounterMessages:
		p.MessagesCount += delta
	case CounterFollowers:
		p.FollowersCount += delta
	case CounterFollowing:
		p.FollowingCount += delta
	}
}

// ProfileView is a profile plus the role-specific fields looked up from the entity store.
type ProfileView struct {
	*Profile
	DonorID      string        `json:"donorId,omitempty"`
	CharityID    string        `json:"charityId,omitempty"`
	Following    []string      `json:"following,omitempty"`
	Followers    []string      `json:"followers,omitempty"`
	Posts        *int          `json:"posts,omitempty"`
	PaymentLinks []PaymentLink `json:"paymentLinks,omitempty"`
}

package entity

import "time"

type PaymentLink struct {
	GpayNo   string `json:"gpayNo,omitempty" bson:"gpayNo,omitempty"`
	Razorpay string `json:"razorpay,omitempty" bson:"razorpay,omitempty"`
}

type BankDetails struct {
	BankName          string `json:"bankName,omitempty" bson:"bankName,omitempty"`
	AccountNumber     string `json:"accountNumber,omitempty" bson:"accountNumber,omitempty"`
	IfscCode          string `json:"ifscCode,omitempty" bson:"ifscCode,omitempty"`
	Branch            string `json:"branch,omitempty" bson:"branch,omitempty"`
	AccountType       string `json:"accountType,omitempty" bson:"accountType,omitempty"`
	AccountHolderName string `json:"accountHolderName,omitempty" bson:"accountHolderName,omitempty"`
}

type Charity struct {
	ID           string            `json:"id" bson:"_id"`
	Name         string            `json:"name" bson:"name"`
	Email        string            `json:"email" bson:"email"`
	Address      string            `json:"address" bson:"address"`
	Phone        string            `json:"phone,omitempty" bson:"phone,omitempty"`
	Followers    []string          `json:"followers" bson:"followers"`
	Posts        []Post            `json:"posts" bson:"posts"`
	PaymentLinks []PaymentLink     `json:"paymentLinks" bson:"paymentLinks"`
	BankDetails  *BankDetails      `json:"bankDetails,omitempty" bson:"bankDetails,omitempty"`
	Messages     []EmbeddedMessage `json:"messages" bson:"messages"`
	CreatedAt    time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt" bson:"updatedAt"`
}

func (c *Charity) Identity() Identity {
	return Identity{
		Participant: Participant{ID: c.ID, Role: RoleCharity},
		Name:        c.Name,
		Email:       c.Email,
	}
}

func (c *Charity) Post(postID string) *Post {
	for i := range c.Posts {
		if c.Posts[i].ID == postID {
			return &c.Posts[i]
		}
	}
	return nil
}

// CharitySummary is the listing shape used by the charity directory.
type CharitySummary struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Address      string        `json:"address"`
	Phone        string        `json:"phone,omitempty"`
	Followers    []string      `json:"followers"`
	PostsCount   int           `json:"postsCount"`
	PaymentLinks []PaymentLink `json:"paymentLinks"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func (c *Charity) Summary() CharitySummary {
	return CharitySummary{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Address:      c.Address,
		Phone:        c.Phone,
		Followers:    c.Followers,
		PostsCount:   len(c.Posts),
		PaymentLinks: c.PaymentLinks,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// Package memory holds map-backed repositories for STORAGE_DRIVER=memory and for tests.
package memory

import (
	"slices"

	"charityconnect/internal/domain/entity"
)

func cloneDonor(d *entity.Donor) *entity.Donor {
	out := *d
	out.Following = slices.Clone(d.Following)
	out.Messages = slices.Clone(d.Messages)
	return &out
}

func clonePost(p entity.Post) entity.Post {
	p.Comments = slices.Clone(p.Comments)
	return p
}

func cloneCharity(c *entity.Charity) *entity.Charity {
	out := *c
	out.Followers = slices.Clone(c.Followers)
	out.PaymentLinks = slices.Clone(c.PaymentLinks)
	out.Messages = slices.Clone(c.Messages)
	out.Posts = make([]entity.Post, len(c.Posts))
	for i, p := range c.Posts {
		out.Posts[i] = clonePost(p)
	}
	if c.BankDetails != nil {
		bank := *c.BankDetails
		out.BankDetails = &bank
	}
	return &out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

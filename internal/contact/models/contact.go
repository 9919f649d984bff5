// Package models holds the contact entity and the pure functions used to
// reason about identity chains.
package models

import "time"

// LinkPrecedence marks whether a contact row is the canonical record of an
// identity or an additional fact linked under one.
type LinkPrecedence string

const (
	LinkPrecedencePrimary   LinkPrecedence = "primary"
	LinkPrecedenceSecondary LinkPrecedence = "secondary"
)

// Contact is a single row of the contact table. Rows are never deleted;
// after creation only LinkedID, LinkPrecedence, and UpdatedAt may change,
// and only to demote a primary during a merge.
type Contact struct {
	ID             int64          `json:"id"`
	Email          *string        `json:"email,omitempty"`
	PhoneNumber    *string        `json:"phoneNumber,omitempty"`
	LinkedID       *int64         `json:"linkedId,omitempty"`
	LinkPrecedence LinkPrecedence `json:"linkPrecedence"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// IsPrimary reports whether the row is the canonical record of its chain.
func (c *Contact) IsPrimary() bool {
	return c.LinkPrecedence == LinkPrecedencePrimary
}

// PrimaryID names the primary of the chain this row belongs to: the row
// itself when primary, otherwise the row its LinkedID points at. Chains are
// flattened, so one hop always lands on the primary.
func (c *Contact) PrimaryID() int64 {
	if c.LinkedID != nil {
		return *c.LinkedID
	}
	return c.ID
}

// Matches reports whether the row carries exactly the requested email and
// phone. An absent request field is not required to match, so a request with
// only an email matches any row holding that email.
func (c *Contact) Matches(email, phone *string) bool {
	if email != nil && (c.Email == nil || *c.Email != *email) {
		return false
	}
	if phone != nil && (c.PhoneNumber == nil || *c.PhoneNumber != *phone) {
		return false
	}
	return true
}

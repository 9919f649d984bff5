package models

import (
	platformstrings "contactgraph/pkg/platform/strings"
)

// ConsolidatedIdentity is the caller-facing aggregate of a primary contact
// and every distinct email and phone number known across its chain.
type ConsolidatedIdentity struct {
	PrimaryContactID    int64    `json:"primaryContactId"`
	Emails              []string `json:"emails"`
	PhoneNumbers        []string `json:"phoneNumbers"`
	SecondaryContactIDs []int64  `json:"secondaryContactIds"`
}

// Consolidate assembles the identity view from a full chain fetched for a
// primary. The primary's values come first; secondary values follow in
// creation order with duplicates dropped. The chain is expected in ascending
// creation order, which makes the primary the earliest row.
func Consolidate(primaryID int64, chain []*Contact) *ConsolidatedIdentity {
	var primary *Contact
	secondaries := make([]*Contact, 0, len(chain))
	for _, c := range chain {
		if c.ID == primaryID {
			primary = c
			continue
		}
		secondaries = append(secondaries, c)
	}

	emails := make([]string, 0, len(chain))
	phones := make([]string, 0, len(chain))
	if primary != nil {
		if primary.Email != nil {
			emails = append(emails, *primary.Email)
		}
		if primary.PhoneNumber != nil {
			phones = append(phones, *primary.PhoneNumber)
		}
	}

	secondaryIDs := make([]int64, 0, len(secondaries))
	for _, c := range secondaries {
		secondaryIDs = append(secondaryIDs, c.ID)
		if c.Email != nil {
			emails = append(emails, *c.Email)
		}
		if c.PhoneNumber != nil {
			phones = append(phones, *c.PhoneNumber)
		}
	}

	return &ConsolidatedIdentity{
		PrimaryContactID:    primaryID,
		Emails:              platformstrings.DedupeAndTrim(emails),
		PhoneNumbers:        platformstrings.DedupeAndTrim(phones),
		SecondaryContactIDs: secondaryIDs,
	}
}

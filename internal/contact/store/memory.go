package store

import (
	"context"
	"sync"
	"time"

	"contactgraph/internal/contact/models"
	"contactgraph/pkg/platform/sentinel"
)

// InMemory keeps the contact table in process memory. It backs unit tests and
// local development; the postgres store is the production implementation.
type InMemory struct {
	mu          sync.RWMutex
	rows        []*models.Contact
	nextID      int64
	lastCreated time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{nextID: 1}
}

func (s *InMemory) FindByEmailOrPhone(_ context.Context, email, phone *string) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Contact
	for _, row := range s.rows {
		if matchesEither(row, email, phone) {
			out = append(out, cloneContact(row))
		}
	}
	return out, nil
}

func (s *InMemory) FindByPrimaryID(_ context.Context, primaryID int64) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Contact
	for _, row := range s.rows {
		if row.ID == primaryID || (row.LinkedID != nil && *row.LinkedID == primaryID) {
			out = append(out, cloneContact(row))
		}
	}
	return out, nil
}

func (s *InMemory) Insert(_ context.Context, email, phone *string, linkedID *int64, precedence models.LinkPrecedence) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	// Creation order decides which contact is primary, so timestamps must be
	// strictly increasing even when inserts land in the same clock tick.
	if !now.After(s.lastCreated) {
		now = s.lastCreated.Add(time.Microsecond)
	}
	s.lastCreated = now

	row := &models.Contact{
		ID:             s.nextID,
		Email:          cloneString(email),
		PhoneNumber:    cloneString(phone),
		LinkedID:       cloneInt64(linkedID),
		LinkPrecedence: precedence,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.nextID++
	s.rows = append(s.rows, row)
	return cloneContact(row), nil
}

func (s *InMemory) Relink(_ context.Context, id, linkedID int64) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.ID != id {
			continue
		}
		target := linkedID
		row.LinkedID = &target
		row.LinkPrecedence = models.LinkPrecedenceSecondary
		row.UpdatedAt = time.Now()
		return cloneContact(row), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListAll(_ context.Context) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Contact, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, cloneContact(row))
	}
	return out, nil
}

func matchesEither(row *models.Contact, email, phone *string) bool {
	if email != nil && row.Email != nil && *row.Email == *email {
		return true
	}
	if phone != nil && row.PhoneNumber != nil && *row.PhoneNumber == *phone {
		return true
	}
	return false
}

func cloneContact(row *models.Contact) *models.Contact {
	clone := *row
	clone.Email = cloneString(row.Email)
	clone.PhoneNumber = cloneString(row.PhoneNumber)
	clone.LinkedID = cloneInt64(row.LinkedID)
	return &clone
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

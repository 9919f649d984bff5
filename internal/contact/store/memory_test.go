package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"contactgraph/internal/contact/models"
	"contactgraph/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func strPtr(v string) *string { return &v }

func (s *MemoryStoreSuite) insert(email, phone string, linkedID *int64, precedence models.LinkPrecedence) *models.Contact {
	s.T().Helper()
	var emailPtr, phonePtr *string
	if email != "" {
		emailPtr = &email
	}
	if phone != "" {
		phonePtr = &phone
	}
	row, err := s.store.Insert(s.ctx, emailPtr, phonePtr, linkedID, precedence)
	s.Require().NoError(err)
	return row
}

// TestInsertAssignsIdentityAndOrder verifies IDs and creation timestamps are
// strictly increasing, which the resolver's primary election depends on.
func (s *MemoryStoreSuite) TestInsertAssignsIdentityAndOrder() {
	first := s.insert("a@x.com", "123", nil, models.LinkPrecedencePrimary)
	second := s.insert("b@x.com", "", nil, models.LinkPrecedencePrimary)

	s.Less(first.ID, second.ID)
	s.True(first.CreatedAt.Before(second.CreatedAt),
		"created timestamps must be strictly increasing")
	s.Equal(first.CreatedAt, first.UpdatedAt)
}

func (s *MemoryStoreSuite) TestFindByEmailOrPhone() {
	a := s.insert("a@x.com", "123", nil, models.LinkPrecedencePrimary)
	b := s.insert("b@x.com", "456", nil, models.LinkPrecedencePrimary)
	s.insert("c@x.com", "789", nil, models.LinkPrecedencePrimary)

	s.Run("matches either field", func() {
		rows, err := s.store.FindByEmailOrPhone(s.ctx, strPtr("a@x.com"), strPtr("456"))
		s.Require().NoError(err)
		s.Require().Len(rows, 2)
		s.Equal(a.ID, rows[0].ID)
		s.Equal(b.ID, rows[1].ID)
	})

	s.Run("nil fields are ignored", func() {
		rows, err := s.store.FindByEmailOrPhone(s.ctx, nil, strPtr("789"))
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
	})

	s.Run("no match returns empty", func() {
		rows, err := s.store.FindByEmailOrPhone(s.ctx, strPtr("nobody@x.com"), nil)
		s.Require().NoError(err)
		s.Empty(rows)
	})
}

func (s *MemoryStoreSuite) TestFindByPrimaryID() {
	primary := s.insert("a@x.com", "123", nil, models.LinkPrecedencePrimary)
	secondary := s.insert("a@x.com", "456", &primary.ID, models.LinkPrecedenceSecondary)
	s.insert("other@x.com", "", nil, models.LinkPrecedencePrimary)

	rows, err := s.store.FindByPrimaryID(s.ctx, primary.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(primary.ID, rows[0].ID)
	s.Equal(secondary.ID, rows[1].ID)
}

func (s *MemoryStoreSuite) TestRelink() {
	older := s.insert("a@x.com", "", nil, models.LinkPrecedencePrimary)
	younger := s.insert("", "999", nil, models.LinkPrecedencePrimary)

	updated, err := s.store.Relink(s.ctx, younger.ID, older.ID)
	s.Require().NoError(err)
	s.Equal(models.LinkPrecedenceSecondary, updated.LinkPrecedence)
	s.Require().NotNil(updated.LinkedID)
	s.Equal(older.ID, *updated.LinkedID)
	s.True(updated.UpdatedAt.After(younger.UpdatedAt) || updated.UpdatedAt.Equal(younger.UpdatedAt))

	s.Run("unknown id returns ErrNotFound", func() {
		_, err := s.store.Relink(s.ctx, 4242, older.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestReturnsCopies verifies callers cannot mutate stored rows through the
// returned pointers.
func (s *MemoryStoreSuite) TestReturnsCopies() {
	row := s.insert("a@x.com", "123", nil, models.LinkPrecedencePrimary)
	*row.Email = "tampered@x.com"

	rows, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal("a@x.com", *rows[0].Email)
}

func (s *MemoryStoreSuite) TestListAllOrdersByID() {
	s.insert("a@x.com", "", nil, models.LinkPrecedencePrimary)
	s.insert("b@x.com", "", nil, models.LinkPrecedencePrimary)
	s.insert("c@x.com", "", nil, models.LinkPrecedencePrimary)

	rows, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	for i := 1; i < len(rows); i++ {
		s.Less(rows[i-1].ID, rows[i].ID)
	}
}

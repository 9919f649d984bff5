// Package service implements identity resolution: deciding whether an
// incoming (email, phone) pair belongs to a known person, a new person, or
// bridges two previously unrelated people, and mutating the contact graph
// accordingly.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"contactgraph/internal/contact/models"
	"contactgraph/internal/platform/metrics"
	dErrors "contactgraph/pkg/domain-errors"
	"contactgraph/pkg/platform/sentinel"
)

// ValidationMessage is surfaced verbatim to callers that supply neither field.
const ValidationMessage = "Either email or phoneNumber must be provided"

// Store is the contact table as seen by the resolver: a fixed set of
// parameterized query contracts. Implementations must return rows in
// ascending creation order for both find operations.
type Store interface {
	FindByEmailOrPhone(ctx context.Context, email, phone *string) ([]*models.Contact, error)
	FindByPrimaryID(ctx context.Context, primaryID int64) ([]*models.Contact, error)
	Insert(ctx context.Context, email, phone *string, linkedID *int64, precedence models.LinkPrecedence) (*models.Contact, error)
	Relink(ctx context.Context, id, linkedID int64) (*models.Contact, error)
	ListAll(ctx context.Context) ([]*models.Contact, error)
}

// StoreTx provides the transactional boundary for a resolve. The whole
// read-decide-write sequence runs against the store handed to fn and either
// commits as one unit or leaves no trace. Implementations may wrap a database
// transaction or, in-memory, a store-wide lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(store Store) error) error
}

// Service is the identity resolver.
type Service struct {
	tx      StoreTx
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(tx StoreTx, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{tx: tx, logger: logger, metrics: m}
}

// outcome describes what a reconciliation pass did.
type outcome struct {
	primaryID int64
	contact   *models.Contact // created row, or the existing exact duplicate
	created   bool
	kind      string
}

// Resolve reconciles the submitted pair against the contact graph and returns
// the consolidated identity view for the surviving primary.
func (s *Service) Resolve(ctx context.Context, email, phone *string) (*models.ConsolidatedIdentity, error) {
	email, phone = normalizeValue(email), normalizeValue(phone)
	if email == nil && phone == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, ValidationMessage)
	}

	var (
		view *models.ConsolidatedIdentity
		out  outcome
	)
	err := s.tx.RunInTx(ctx, func(store Store) error {
		var err error
		out, err = s.reconcile(ctx, store, email, phone)
		if err != nil {
			return err
		}
		chain, err := store.FindByPrimaryID(ctx, out.primaryID)
		if err != nil {
			return err
		}
		view = models.Consolidate(out.primaryID, chain)
		return nil
	})
	if err != nil {
		return nil, s.failure(ctx, "resolve", err)
	}

	s.metrics.IncResolve(out.kind)
	if out.created {
		s.metrics.IncContactsCreated()
	}
	return view, nil
}

// CreateStandalone runs the same matching-and-linking logic as Resolve but
// returns the affected row instead of the consolidated view. An exact
// duplicate returns the already-existing row without inserting.
func (s *Service) CreateStandalone(ctx context.Context, email, phone *string) (*models.Contact, error) {
	email, phone = normalizeValue(email), normalizeValue(phone)
	if email == nil && phone == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, ValidationMessage)
	}

	var out outcome
	err := s.tx.RunInTx(ctx, func(store Store) error {
		var err error
		out, err = s.reconcile(ctx, store, email, phone)
		return err
	})
	if err != nil {
		return nil, s.failure(ctx, "create contact", err)
	}

	s.metrics.IncResolve(out.kind)
	if out.created {
		s.metrics.IncContactsCreated()
	}
	return out.contact, nil
}

// ListAll returns every contact row, oldest ID first.
func (s *Service) ListAll(ctx context.Context) ([]*models.Contact, error) {
	var rows []*models.Contact
	err := s.tx.RunInTx(ctx, func(store Store) error {
		var err error
		rows, err = store.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, s.failure(ctx, "list contacts", err)
	}
	return rows, nil
}

// reconcile executes steps 1-3 of the resolution algorithm against the
// transaction-bound store and reports the surviving primary.
func (s *Service) reconcile(ctx context.Context, store Store, email, phone *string) (outcome, error) {
	matches, err := store.FindByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return outcome{}, err
	}

	if len(matches) == 0 {
		created, err := store.Insert(ctx, email, phone, nil, models.LinkPrecedencePrimary)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			primaryID: created.ID,
			contact:   created,
			created:   true,
			kind:      metrics.OutcomeCreatedPrimary,
		}, nil
	}

	// Distinct primaries reachable from the matched rows, discovered in
	// ascending creation order of the matches.
	var primaryIDs []int64
	seen := make(map[int64]struct{})
	for _, m := range matches {
		pid := m.PrimaryID()
		if _, ok := seen[pid]; !ok {
			seen[pid] = struct{}{}
			primaryIDs = append(primaryIDs, pid)
		}
	}

	var (
		primaries []*models.Contact
		chains    = make(map[int64][]*models.Contact, len(primaryIDs))
		allRows   []*models.Contact
	)
	for _, pid := range primaryIDs {
		chain, err := store.FindByPrimaryID(ctx, pid)
		if err != nil {
			return outcome{}, err
		}
		var primary *models.Contact
		for _, row := range chain {
			if row.ID == pid {
				primary = row
				break
			}
		}
		if primary == nil {
			return outcome{}, dErrors.New(dErrors.CodeInternal, "contact chain references a missing primary")
		}
		primaries = append(primaries, primary)
		chains[pid] = chain
		allRows = append(allRows, chain...)
	}

	// The earliest-created primary survives; every other primary and all of
	// its secondaries are repointed directly at it so chains stay flat.
	sort.SliceStable(primaries, func(i, j int) bool {
		if primaries[i].CreatedAt.Equal(primaries[j].CreatedAt) {
			return primaries[i].ID < primaries[j].ID
		}
		return primaries[i].CreatedAt.Before(primaries[j].CreatedAt)
	})
	survivor := primaries[0]

	merged := false
	for _, demoted := range primaries[1:] {
		merged = true
		if _, err := store.Relink(ctx, demoted.ID, survivor.ID); err != nil {
			return outcome{}, err
		}
		for _, row := range chains[demoted.ID] {
			if row.ID == demoted.ID {
				continue
			}
			if _, err := store.Relink(ctx, row.ID, survivor.ID); err != nil {
				return outcome{}, err
			}
		}
	}

	kind := metrics.OutcomeNoop
	if merged {
		kind = metrics.OutcomeMerged
	}

	// The submitted pair is only re-inserted when no row of the resulting
	// chain already carries exactly these values.
	for _, row := range allRows {
		if row.Matches(email, phone) {
			return outcome{primaryID: survivor.ID, contact: row, kind: kind}, nil
		}
	}

	created, err := store.Insert(ctx, email, phone, &survivor.ID, models.LinkPrecedenceSecondary)
	if err != nil {
		return outcome{}, err
	}
	if !merged {
		kind = metrics.OutcomeLinkedSecondary
	}
	return outcome{primaryID: survivor.ID, contact: created, created: true, kind: kind}, nil
}

// failure logs store detail server-side and hands callers a coded error.
// Domain errors pass through untouched; everything else becomes an internal
// error with a generic message.
func (s *Service) failure(ctx context.Context, op string, err error) error {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}

	s.logger.ErrorContext(ctx, "store failure",
		"op", op,
		"error", err.Error(),
	)
	if ctx.Err() != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request cancelled before commit")
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "conflicted with a concurrent request")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "Internal server error")
}

func normalizeValue(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

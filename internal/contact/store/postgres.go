package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"contactgraph/internal/contact/models"
	"contactgraph/pkg/platform/sentinel"
)

// Postgres serialization_failure; a transaction hitting it rolled back cleanly
// and the whole resolve may be retried by the caller.
const pqSerializationFailure = "40001"

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists contacts in PostgreSQL. Queries are a fixed set of
// parameterized statements; the resolver never builds SQL.
type PostgresStore struct {
	db dbtx
}

// NewPostgres constructs a store over a connection pool. Suitable for reads
// that need no transactional boundary.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx binds a store to an open transaction so the resolver's whole
// read-decide-write sequence commits or rolls back as one unit.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{db: tx}
}

const contactColumns = `id, email, phonenumber, linkedid, linkprecedence, createdat, updatedat`

func (s *PostgresStore) FindByEmailOrPhone(ctx context.Context, email, phone *string) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contact
		WHERE ($1::text IS NOT NULL AND email = $1)
		   OR ($2::text IS NOT NULL AND phonenumber = $2)
		ORDER BY createdat ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, nullString(email), nullString(phone))
	if err != nil {
		return nil, translateErr("find by email or phone", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

func (s *PostgresStore) FindByPrimaryID(ctx context.Context, primaryID int64) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contact
		WHERE id = $1 OR linkedid = $1
		ORDER BY createdat ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, primaryID)
	if err != nil {
		return nil, translateErr("find by primary id", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

func (s *PostgresStore) Insert(ctx context.Context, email, phone *string, linkedID *int64, precedence models.LinkPrecedence) (*models.Contact, error) {
	query := `
		INSERT INTO contact (email, phonenumber, linkedid, linkprecedence, createdat, updatedat)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + contactColumns
	row := s.db.QueryRowContext(ctx, query,
		nullString(email),
		nullString(phone),
		nullInt64(linkedID),
		string(precedence),
	)
	contact, err := scanContact(row)
	if err != nil {
		return nil, translateErr("insert contact", err)
	}
	return contact, nil
}

func (s *PostgresStore) Relink(ctx context.Context, id, linkedID int64) (*models.Contact, error) {
	query := `
		UPDATE contact
		SET linkedid = $1, linkprecedence = 'secondary', updatedat = NOW()
		WHERE id = $2
		RETURNING ` + contactColumns
	contact, err := scanContact(s.db.QueryRowContext(ctx, query, linkedID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, translateErr("relink contact", err)
	}
	return contact, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contact ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, translateErr("list contacts", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var (
		c          models.Contact
		email      sql.NullString
		phone      sql.NullString
		linkedID   sql.NullInt64
		precedence string
	)
	if err := row.Scan(&c.ID, &email, &phone, &linkedID, &precedence, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.PhoneNumber = &phone.String
	}
	if linkedID.Valid {
		c.LinkedID = &linkedID.Int64
	}
	c.LinkPrecedence = models.LinkPrecedence(precedence)
	return &c, nil
}

func scanContacts(rows *sql.Rows) ([]*models.Contact, error) {
	var out []*models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}

// translateErr maps driver failures onto sentinel errors so the service layer
// never inspects postgres error codes.
func translateErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqSerializationFailure {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

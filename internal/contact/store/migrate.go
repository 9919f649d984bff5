package store

import (
	"context"
	"database/sql"
)

// Table and column names follow the original service's layout so existing
// databases keep working.
const contactMigration = `
CREATE TABLE IF NOT EXISTS contact (
    id BIGSERIAL PRIMARY KEY,
    phonenumber TEXT,
    email TEXT,
    linkedid BIGINT REFERENCES contact(id),
    linkprecedence TEXT NOT NULL CHECK (linkprecedence IN ('primary', 'secondary')),
    createdat TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updatedat TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CHECK (email IS NOT NULL OR phonenumber IS NOT NULL),
    CHECK ((linkprecedence = 'primary') = (linkedid IS NULL))
);

CREATE INDEX IF NOT EXISTS contact_email_idx ON contact (email);
CREATE INDEX IF NOT EXISTS contact_phonenumber_idx ON contact (phonenumber);
CREATE INDEX IF NOT EXISTS contact_linkedid_idx ON contact (linkedid);
`

// RunMigration creates the contact table and its indexes if missing.
func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, contactMigration)
	return err
}

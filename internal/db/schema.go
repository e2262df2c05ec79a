package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// schema is the full database schema. Entity records are stored as encoded
// documents keyed by kind and id.
const schema = `
CREATE TABLE IF NOT EXISTS records (
    kind TEXT   NOT NULL,
    id   BIGINT NOT NULL,
    data {{blob}} NOT NULL,
    PRIMARY KEY (kind, id)
);

CREATE TABLE IF NOT EXISTS counters (
    kind  TEXT PRIMARY KEY,
    value BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS images (
    id         TEXT PRIMARY KEY,
    mime       TEXT NOT NULL,
    data       {{blob}} NOT NULL,
    created_at BIGINT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB, d Dialect) error {
	_, err := db.Exec(strings.ReplaceAll(schema, "{{blob}}", d.BlobType))
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

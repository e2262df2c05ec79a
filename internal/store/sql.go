package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/wastewise/internal/db"
)

// sqlTable stores encoded records of one kind in the shared records table.
type sqlTable[T any] struct {
	db   *sql.DB
	d    db.Dialect
	kind Kind
}

func newSQLTable[T any](database *sql.DB, d db.Dialect, kind Kind) *sqlTable[T] {
	return &sqlTable[T]{db: database, d: d, kind: kind}
}

func (t *sqlTable[T]) NextID(ctx context.Context) (int64, error) {
	_, err := t.db.ExecContext(ctx, t.d.Rebind(
		`INSERT INTO counters (kind, value) VALUES (?, 0) ON CONFLICT (kind) DO NOTHING`),
		string(t.kind),
	)
	if err != nil {
		return 0, fmt.Errorf("initializing %s counter: %w", t.kind, err)
	}

	var id int64
	err = t.db.QueryRowContext(ctx, t.d.Rebind(
		`UPDATE counters SET value = value + 1 WHERE kind = ? RETURNING value`),
		string(t.kind),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("advancing %s counter: %w", t.kind, err)
	}
	return id, nil
}

func (t *sqlTable[T]) Put(ctx context.Context, id int64, rec T) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	_, err = t.db.ExecContext(ctx, t.d.Rebind(
		`INSERT INTO records (kind, id, data) VALUES (?, ?, ?)
		 ON CONFLICT (kind, id) DO UPDATE SET data = excluded.data`),
		string(t.kind), id, data,
	)
	if err != nil {
		return fmt.Errorf("storing %s %d: %w", t.kind, id, err)
	}
	return nil
}

func (t *sqlTable[T]) Get(ctx context.Context, id int64) (T, bool, error) {
	var zero T
	var data []byte
	err := t.db.QueryRowContext(ctx, t.d.Rebind(
		`SELECT data FROM records WHERE kind = ? AND id = ?`),
		string(t.kind), id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("getting %s %d: %w", t.kind, id, err)
	}
	rec, err := decode[T](data)
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

func (t *sqlTable[T]) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := t.db.ExecContext(ctx, t.d.Rebind(
		`DELETE FROM records WHERE kind = ? AND id = ?`),
		string(t.kind), id,
	)
	if err != nil {
		return false, fmt.Errorf("deleting %s %d: %w", t.kind, id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting %s %d: %w", t.kind, id, err)
	}
	return n > 0, nil
}

func (t *sqlTable[T]) All(ctx context.Context) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, t.d.Rebind(
		`SELECT data FROM records WHERE kind = ? ORDER BY id`),
		string(t.kind),
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s records: %w", t.kind, err)
	}
	defer rows.Close()

	recs := []T{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning %s record: %w", t.kind, err)
		}
		rec, err := decode[T](data)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type sqlRevocations struct {
	db *sql.DB
	d  db.Dialect
}

// Revoke adds a token's JTI to the revocation list.
func (r *sqlRevocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, r.d.Rebind(
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?) ON CONFLICT (jti) DO NOTHING`),
		jti, expiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	// Opportunistically clean up expired revocations.
	_, _ = r.db.ExecContext(ctx, r.d.Rebind(
		`DELETE FROM revoked_tokens WHERE expires_at < ?`), time.Now().Unix(),
	)

	return nil
}

// IsRevoked checks if a token's JTI has been revoked.
func (r *sqlRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, r.d.Rebind(
		`SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`), jti,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return count > 0, nil
}

type sqlImages struct {
	db *sql.DB
	d  db.Dialect
}

func (s *sqlImages) PutImage(ctx context.Context, img Image) error {
	_, err := s.db.ExecContext(ctx, s.d.Rebind(
		`INSERT INTO images (id, mime, data, created_at) VALUES (?, ?, ?, ?)`),
		img.ID, img.MIME, img.Data, img.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("storing image: %w", err)
	}
	return nil
}

func (s *sqlImages) GetImage(ctx context.Context, id string) (*Image, error) {
	img := &Image{ID: id}
	var created int64
	err := s.db.QueryRowContext(ctx, s.d.Rebind(
		`SELECT mime, data, created_at FROM images WHERE id = ?`), id,
	).Scan(&img.MIME, &img.Data, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting image: %w", err)
	}
	img.CreatedAt = time.Unix(created, 0).UTC()
	return img, nil
}

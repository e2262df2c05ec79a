// Package store holds entity records keyed by numeric identifier, one table
// per entity kind. It assigns identifiers but enforces no business rules:
// uniqueness and referential checks belong to callers.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/wastewise/internal/db"
	"github.com/erazemk/wastewise/internal/model"
)

// Kind names an entity kind. It doubles as the table, counter and bucket key
// in persistent backends.
type Kind string

// Entity kinds.
const (
	KindUser           Kind = "user"
	KindItem           Kind = "item"
	KindChat           Kind = "chat"
	KindMessage        Kind = "message"
	KindDisposalCenter Kind = "disposal_center"
	KindEvent          Kind = "event"
)

// Kinds lists every entity kind.
var Kinds = []Kind{KindUser, KindItem, KindChat, KindMessage, KindDisposalCenter, KindEvent}

// Table is a keyed collection of records of a single kind.
//
// NextID reserves the next identifier: identifiers start at 1, increase
// strictly and are never handed out twice, even if the reserving create
// fails. All returns records in identifier order, which is creation order.
type Table[T any] interface {
	NextID(ctx context.Context) (int64, error)
	Put(ctx context.Context, id int64, rec T) error
	Get(ctx context.Context, id int64) (T, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	All(ctx context.Context) ([]T, error)
}

// Revocations records session and token identifiers that must no longer be
// accepted.
type Revocations interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Image is an uploaded listing photo.
type Image struct {
	ID        string
	MIME      string
	Data      []byte
	CreatedAt time.Time
}

// Images stores uploaded photos.
type Images interface {
	PutImage(ctx context.Context, img Image) error
	// GetImage returns nil if no image has the given id.
	GetImage(ctx context.Context, id string) (*Image, error)
}

// Store groups the tables of every entity kind with the auxiliary stores.
type Store struct {
	Users           Table[model.User]
	Items           Table[model.Item]
	Chats           Table[model.Chat]
	Messages        Table[model.Message]
	DisposalCenters Table[model.DisposalCenter]
	Events          Table[model.Event]
	Revocations     Revocations
	Images          Images

	close func() error
}

// Close releases the resources held by the backend.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// Open creates a store for the named driver. The dsn is ignored by the
// memory driver, is a file path for sqlite and bolt, and a connection
// string for postgres.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverBolt:
		return OpenBolt(dsn)
	case DriverSQLite, DriverPostgres:
		d, err := db.DialectFor(driver)
		if err != nil {
			return nil, err
		}
		database, err := db.Open(d, dsn)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(database, d); err != nil {
			database.Close()
			return nil, fmt.Errorf("migrating %s store: %w", driver, err)
		}
		s := NewSQL(database, d)
		s.close = database.Close
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// NewSQL returns a store backed by an already migrated database. The caller
// keeps ownership of the connection.
func NewSQL(database *sql.DB, d db.Dialect) *Store {
	return &Store{
		Users:           newSQLTable[model.User](database, d, KindUser),
		Items:           newSQLTable[model.Item](database, d, KindItem),
		Chats:           newSQLTable[model.Chat](database, d, KindChat),
		Messages:        newSQLTable[model.Message](database, d, KindMessage),
		DisposalCenters: newSQLTable[model.DisposalCenter](database, d, KindDisposalCenter),
		Events:          newSQLTable[model.Event](database, d, KindEvent),
		Revocations:     &sqlRevocations{db: database, d: d},
		Images:          &sqlImages{db: database, d: d},
	}
}

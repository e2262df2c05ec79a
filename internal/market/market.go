// Package market is the query and mutation layer over the entity store.
// Handlers call it instead of touching tables directly.
//
// Lookups by id return a nil record and a nil error when the id is
// unknown. Sequences that read and then write (registration, item stats,
// view and inquiry counters, chat deduplication, message fan-out) run under
// a per-kind mutex. Locks are always taken in the order chats, items,
// users.
package market

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/erazemk/wastewise/internal/store"
)

// DonationBonus is the number of green points awarded for listing a donation.
const DonationBonus = 10

// DefaultRadiusKm is the search radius used when a caller gives none.
const DefaultRadiusKm = 5.0

// ErrUsernameTaken is returned when registering a username that exists.
var ErrUsernameTaken = errors.New("username already exists")

// ErrNotFound is returned by mutations that require an existing record.
var ErrNotFound = errors.New("not found")

// Market mediates all access to a store.
type Market struct {
	store *store.Store
	now   func() time.Time

	chatMu sync.Mutex
	itemMu sync.Mutex
	userMu sync.Mutex
}

// Option configures a Market.
type Option func(*Market)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Market) { m.now = now }
}

// New returns a Market over s.
func New(s *store.Store, opts ...Option) *Market {
	m := &Market{store: s, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// sameFold reports whether a and b are equal under Unicode case folding.
func sameFold(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

// filterAll is the category or type value that disables filtering.
const filterAll = "all"

// wantFilter reports whether a category or type filter is active.
func wantFilter(value string) bool {
	return value != "" && !sameFold(value, filterAll)
}

package store

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/erazemk/wastewise/internal/model"
)

// NewMemory returns a store that keeps everything in process memory.
// Its contents and counters are lost when the process exits.
func NewMemory() *Store {
	return &Store{
		Users:           newMemTable[model.User](),
		Items:           newMemTable[model.Item](),
		Chats:           newMemTable[model.Chat](),
		Messages:        newMemTable[model.Message](),
		DisposalCenters: newMemTable[model.DisposalCenter](),
		Events:          newMemTable[model.Event](),
		Revocations:     &memRevocations{revoked: map[string]time.Time{}},
		Images:          &memImages{images: map[string]Image{}},
	}
}

type memTable[T any] struct {
	mu   sync.RWMutex
	last int64
	rows map[int64][]byte
}

func newMemTable[T any]() *memTable[T] {
	return &memTable[T]{rows: map[int64][]byte{}}
}

func (t *memTable[T]) NextID(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last++
	return t.last, nil
}

func (t *memTable[T]) Put(ctx context.Context, id int64, rec T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(rec)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = data
	return nil
}

func (t *memTable[T]) Get(ctx context.Context, id int64) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	t.mu.RLock()
	data, ok := t.rows[id]
	t.mu.RUnlock()
	if !ok {
		return zero, false, nil
	}
	rec, err := decode[T](data)
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

func (t *memTable[T]) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false, nil
	}
	delete(t.rows, id)
	return true, nil
}

func (t *memTable[T]) All(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(t.rows))
	recs := make([]T, 0, len(ids))
	for _, id := range ids {
		rec, err := decode[T](t.rows[id])
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

type memRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (r *memRevocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for k, exp := range r.revoked {
		if exp.Before(now) {
			delete(r.revoked, k)
		}
	}
	if _, ok := r.revoked[jti]; !ok {
		r.revoked[jti] = expiresAt
	}
	return nil
}

func (r *memRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[jti]
	return ok, nil
}

type memImages struct {
	mu     sync.RWMutex
	images map[string]Image
}

func (m *memImages) PutImage(ctx context.Context, img Image) error {
	img.Data = slices.Clone(img.Data)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[img.ID] = img
	return nil
}

func (m *memImages) GetImage(ctx context.Context, id string) (*Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.images[id]
	if !ok {
		return nil, nil
	}
	img.Data = slices.Clone(img.Data)
	return &img, nil
}

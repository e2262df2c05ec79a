package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/erazemk/wastewise/internal/model"
)

const (
	revokedBucket = "revoked_tokens"
	imagesBucket  = "images"
)

// OpenBolt opens a store backed by a BoltDB file at path, creating the file
// and its buckets if needed.
func OpenBolt(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	bdb, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt store: %w", err)
	}

	err = bdb.Update(func(tx *bbolt.Tx) error {
		buckets := []string{revokedBucket, imagesBucket}
		for _, k := range Kinds {
			buckets = append(buckets, string(k))
		}
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("creating %s bucket: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		bdb.Close()
		return nil, err
	}

	return &Store{
		Users:           &boltTable[model.User]{db: bdb, bucket: []byte(KindUser)},
		Items:           &boltTable[model.Item]{db: bdb, bucket: []byte(KindItem)},
		Chats:           &boltTable[model.Chat]{db: bdb, bucket: []byte(KindChat)},
		Messages:        &boltTable[model.Message]{db: bdb, bucket: []byte(KindMessage)},
		DisposalCenters: &boltTable[model.DisposalCenter]{db: bdb, bucket: []byte(KindDisposalCenter)},
		Events:          &boltTable[model.Event]{db: bdb, bucket: []byte(KindEvent)},
		Revocations:     &boltRevocations{db: bdb},
		Images:          &boltImages{db: bdb},
		close:           bdb.Close,
	}, nil
}

// boltTable keeps one bucket per kind. Keys are big-endian ids so cursor
// order is identifier order.
type boltTable[T any] struct {
	db     *bbolt.DB
	bucket []byte
}

func idKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

func (t *boltTable[T]) NextID(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var id int64
	err := t.db.Update(func(tx *bbolt.Tx) error {
		seq, err := tx.Bucket(t.bucket).NextSequence()
		if err != nil {
			return fmt.Errorf("advancing %s sequence: %w", t.bucket, err)
		}
		id = int64(seq)
		return nil
	})
	return id, err
}

func (t *boltTable[T]) Put(ctx context.Context, id int64, rec T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(rec)
	if err != nil {
		return err
	}
	return t.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(t.bucket).Put(idKey(id), data)
	})
}

func (t *boltTable[T]) Get(ctx context.Context, id int64) (T, bool, error) {
	var rec T
	if err := ctx.Err(); err != nil {
		return rec, false, err
	}
	found := false
	err := t.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(t.bucket).Get(idKey(id))
		if data == nil {
			return nil
		}
		var err error
		rec, err = decode[T](data)
		found = err == nil
		return err
	})
	return rec, found, err
}

func (t *boltTable[T]) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	deleted := false
	err := t.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(t.bucket)
		key := idKey(id)
		if b.Get(key) == nil {
			return nil
		}
		deleted = true
		return b.Delete(key)
	})
	return deleted, err
}

func (t *boltTable[T]) All(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs := []T{}
	err := t.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(t.bucket).ForEach(func(_, data []byte) error {
			rec, err := decode[T](data)
			if err != nil {
				return err
			}
			recs = append(recs, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

type boltRevocations struct {
	db *bbolt.DB
}

func (r *boltRevocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(revokedBucket))

		now := time.Now().Unix()
		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if int64(binary.BigEndian.Uint64(v)) < now {
				expired = append(expired, k)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		if b.Get([]byte(jti)) != nil {
			return nil
		}
		return b.Put([]byte(jti), idKey(expiresAt.Unix()))
	})
}

func (r *boltRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	revoked := false
	err := r.db.View(func(tx *bbolt.Tx) error {
		revoked = tx.Bucket([]byte(revokedBucket)).Get([]byte(jti)) != nil
		return nil
	})
	return revoked, err
}

type boltImages struct {
	db *bbolt.DB
}

func (s *boltImages) PutImage(ctx context.Context, img Image) error {
	data, err := encode(img)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(imagesBucket)).Put([]byte(img.ID), data)
	})
}

func (s *boltImages) GetImage(ctx context.Context, id string) (*Image, error) {
	var img *Image
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(imagesBucket)).Get([]byte(id))
		if data == nil {
			return nil
		}
		decoded, err := decode[Image](data)
		if err != nil {
			return err
		}
		img = &decoded
		return nil
	})
	return img, err
}

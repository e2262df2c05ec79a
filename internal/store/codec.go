package store

import (
	"encoding/json"
	"fmt"

	"github.com/erazemk/wastewise/internal/model"
)

// userRecord is the stored form of a user. The password hash is hidden from
// API responses but must be persisted.
type userRecord struct {
	model.User
	PasswordHash string `json:"passwordHash"`
}

// encode serializes a record for storage. Records never share memory with
// their stored form, so callers may mutate what they get back.
func encode[T any](rec T) ([]byte, error) {
	var v any = rec
	if u, ok := v.(model.User); ok {
		v = userRecord{User: u, PasswordHash: u.PasswordHash}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return data, nil
}

func decode[T any](data []byte) (T, error) {
	var rec T
	if u, ok := any(&rec).(*model.User); ok {
		var stored userRecord
		if err := json.Unmarshal(data, &stored); err != nil {
			return rec, fmt.Errorf("decoding record: %w", err)
		}
		*u = stored.User
		u.PasswordHash = stored.PasswordHash
		return rec, nil
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decoding record: %w", err)
	}
	return rec, nil
}

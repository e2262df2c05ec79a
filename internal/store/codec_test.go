package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/wastewise/internal/model"
)

func TestUserPasswordHashPersisted(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := model.User{ID: 1, Username: "alice", PasswordHash: "$2a$10$hash", CreatedAt: time.Now()}
			if err := s.Users.Put(ctx, 1, u); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, ok, err := s.Users.Get(ctx, 1)
			if err != nil || !ok {
				t.Fatalf("Get: %v %v", ok, err)
			}
			if got.PasswordHash != u.PasswordHash {
				t.Errorf("expected hash %q, got %q", u.PasswordHash, got.PasswordHash)
			}
		})
	}
}

func TestZeroPointersSurvive(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			zero := 0.0
			item := model.Item{ID: 1, Title: "Free lamp", Price: &zero, Latitude: &zero, Longitude: &zero}
			if err := s.Items.Put(ctx, 1, item); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, _, err := s.Items.Get(ctx, 1)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Price == nil || *got.Price != 0 {
				t.Errorf("expected zero price, got %v", got.Price)
			}
			if _, ok := got.Coordinates(); !ok {
				t.Error("expected coordinates at the origin to be kept")
			}
		})
	}
}

package market

import (
	"context"
	"fmt"

	"github.com/erazemk/wastewise/internal/geo"
	"github.com/erazemk/wastewise/internal/model"
)

// GetItem returns an item by ID.
func (m *Market) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	item, ok, err := m.store.Items.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// GetItemsByUserID returns every item owned by userID.
func (m *Market) GetItemsByUserID(ctx context.Context, userID int64) ([]model.Item, error) {
	items, err := m.store.Items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing user items: %w", err)
	}
	owned := []model.Item{}
	for _, item := range items {
		if item.UserID == userID {
			owned = append(owned, item)
		}
	}
	return owned, nil
}

// GetNearbyItems returns available items, optionally restricted to a
// category. With a nil origin no distance filter is applied. Otherwise only
// items with coordinates within radiusKm of origin are returned.
func (m *Market) GetNearbyItems(ctx context.Context, origin *geo.Point, radiusKm float64, category string) ([]model.Item, error) {
	items, err := m.store.Items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing nearby items: %w", err)
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	nearby := []model.Item{}
	for _, item := range items {
		if item.Status != model.ItemStatusAvailable {
			continue
		}
		if wantFilter(category) && !sameFold(item.Category, category) {
			continue
		}
		if origin != nil {
			p, ok := item.Coordinates()
			if !ok || !geo.Within(*origin, p, radiusKm) {
				continue
			}
		}
		nearby = append(nearby, item)
	}
	return nearby, nil
}

// CreateItem stores a new listing and credits its owner: every listing
// counts towards itemsShared, donations also count towards donationsMade
// and earn DonationBonus green points. The owner must exist.
func (m *Market) CreateItem(ctx context.Context, in model.ItemInput) (*model.Item, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	owner, ok, err := m.store.Users.Get(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	if !ok {
		return nil, &model.ValidationError{Fields: []model.FieldError{
			{Field: "userId", Message: "does not reference an existing user"},
		}}
	}

	id, err := m.store.Items.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	item := model.Item{
		ID:          id,
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Type:        in.Type,
		Price:       in.Price,
		Images:      in.Images,
		Tags:        in.Tags,
		Location:    in.Location,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		ExpiryDate:  in.ExpiryDate,
		Status:      in.Status,
		CreatedAt:   m.now(),
	}
	if item.Status == "" {
		item.Status = model.ItemStatusAvailable
	}
	if item.Type == model.ItemTypeDonate {
		item.Price = nil
	}
	if err := m.store.Items.Put(ctx, id, item); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	owner.ItemsShared++
	if item.Type == model.ItemTypeDonate {
		owner.DonationsMade++
		owner.GreenPoints += DonationBonus
	}
	if err := m.store.Users.Put(ctx, owner.ID, owner); err != nil {
		return nil, fmt.Errorf("updating owner stats: %w", err)
	}

	return &item, nil
}

// UpdateItem merges patch into an item. It returns nil if the item does
// not exist.
func (m *Market) UpdateItem(ctx context.Context, id int64, patch model.ItemPatch) (*model.Item, error) {
	m.itemMu.Lock()
	defer m.itemMu.Unlock()
	return m.updateItem(ctx, id, patch.Apply)
}

// ViewItem increments an item's view counter and returns the updated item,
// or nil if it does not exist.
func (m *Market) ViewItem(ctx context.Context, id int64) (*model.Item, error) {
	m.itemMu.Lock()
	defer m.itemMu.Unlock()
	return m.updateItem(ctx, id, func(item model.Item) model.Item {
		item.Views++
		return item
	})
}

// RecordInquiry increments an item's inquiry counter and returns the
// updated item, or nil if it does not exist.
func (m *Market) RecordInquiry(ctx context.Context, id int64) (*model.Item, error) {
	m.itemMu.Lock()
	defer m.itemMu.Unlock()
	return m.updateItem(ctx, id, func(item model.Item) model.Item {
		item.Inquiries++
		return item
	})
}

// updateItem applies fn to a stored item. Callers hold itemMu.
func (m *Market) updateItem(ctx context.Context, id int64, fn func(model.Item) model.Item) (*model.Item, error) {
	item, ok, err := m.store.Items.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if !ok {
		return nil, nil
	}
	item = fn(item)
	item.ID = id
	if err := m.store.Items.Put(ctx, id, item); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return &item, nil
}

// DeleteItem removes an item. It reports whether the item existed.
func (m *Market) DeleteItem(ctx context.Context, id int64) (bool, error) {
	m.itemMu.Lock()
	defer m.itemMu.Unlock()
	deleted, err := m.store.Items.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return deleted, nil
}

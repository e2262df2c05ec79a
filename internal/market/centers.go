package market

import (
	"context"
	"fmt"

	"github.com/erazemk/wastewise/internal/geo"
	"github.com/erazemk/wastewise/internal/model"
)

// GetDisposalCenters returns every disposal center.
func (m *Market) GetDisposalCenters(ctx context.Context) ([]model.DisposalCenter, error) {
	centers, err := m.store.DisposalCenters.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing disposal centers: %w", err)
	}
	if centers == nil {
		centers = []model.DisposalCenter{}
	}
	return centers, nil
}

// GetDisposalCenter returns a disposal center by ID.
func (m *Market) GetDisposalCenter(ctx context.Context, id int64) (*model.DisposalCenter, error) {
	c, ok, err := m.store.DisposalCenters.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting disposal center: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetDisposalCentersByType returns the centers of the given type.
func (m *Market) GetDisposalCentersByType(ctx context.Context, centerType string) ([]model.DisposalCenter, error) {
	centers, err := m.GetDisposalCenters(ctx)
	if err != nil {
		return nil, err
	}
	matching := []model.DisposalCenter{}
	for _, c := range centers {
		if sameFold(c.Type, centerType) {
			matching = append(matching, c)
		}
	}
	return matching, nil
}

// GetNearbyDisposalCenters returns centers of the given type within
// radiusKm of origin. A nil origin disables the distance filter and an empty
// or "all" type disables the type filter.
func (m *Market) GetNearbyDisposalCenters(ctx context.Context, origin *geo.Point, radiusKm float64, centerType string) ([]model.DisposalCenter, error) {
	centers, err := m.GetDisposalCenters(ctx)
	if err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	nearby := []model.DisposalCenter{}
	for _, c := range centers {
		if wantFilter(centerType) && !sameFold(c.Type, centerType) {
			continue
		}
		if origin != nil && !geo.Within(*origin, c.Point(), radiusKm) {
			continue
		}
		nearby = append(nearby, c)
	}
	return nearby, nil
}

// CreateDisposalCenter validates and stores a new disposal center.
func (m *Market) CreateDisposalCenter(ctx context.Context, in model.DisposalCenterInput) (*model.DisposalCenter, error) {
	if err := model.ValidateDisposalCenterInput(in); err != nil {
		return nil, err
	}
	id, err := m.store.DisposalCenters.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating disposal center: %w", err)
	}
	c := model.DisposalCenter{
		ID:            id,
		Name:          in.Name,
		Description:   in.Description,
		Type:          in.Type,
		Address:       in.Address,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		OpenHours:     in.OpenHours,
		AcceptedItems: in.AcceptedItems,
		ContactInfo:   in.ContactInfo,
		Image:         in.Image,
	}
	if err := m.store.DisposalCenters.Put(ctx, id, c); err != nil {
		return nil, fmt.Errorf("creating disposal center: %w", err)
	}
	return &c, nil
}

package market

import (
	"context"
	"fmt"
	"slices"

	"github.com/erazemk/wastewise/internal/model"
)

// GetEvents returns every event in creation order.
func (m *Market) GetEvents(ctx context.Context) ([]model.Event, error) {
	events, err := m.store.Events.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

// GetEvent returns an event by ID.
func (m *Market) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	e, ok, err := m.store.Events.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting event: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// GetUpcomingEvents returns events dated strictly after now, soonest first.
func (m *Market) GetUpcomingEvents(ctx context.Context) ([]model.Event, error) {
	events, err := m.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	now := m.now()
	upcoming := []model.Event{}
	for _, e := range events {
		if e.Date.After(now) {
			upcoming = append(upcoming, e)
		}
	}
	slices.SortStableFunc(upcoming, func(a, b model.Event) int {
		return a.Date.Compare(b.Date)
	})
	return upcoming, nil
}

// CreateEvent validates and stores a new event.
func (m *Market) CreateEvent(ctx context.Context, in model.EventInput) (*model.Event, error) {
	if err := model.ValidateEventInput(in); err != nil {
		return nil, err
	}
	id, err := m.store.Events.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	e := model.Event{
		ID:                id,
		Title:             in.Title,
		Description:       in.Description,
		Type:              in.Type,
		Date:              in.Date,
		Location:          in.Location,
		Latitude:          in.Latitude,
		Longitude:         in.Longitude,
		GreenPointsReward: in.GreenPointsReward,
		Image:             in.Image,
	}
	if err := m.store.Events.Put(ctx, id, e); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	return &e, nil
}

package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/wastewise/internal/auth"
	"github.com/erazemk/wastewise/internal/model"
)

// Demo account created by Seed.
const (
	DemoUsername = "demouser"
	DemoPassword = "password123"
)

const demoLocation = "San Francisco, CA"

// Seed fills an empty store with sample disposal centers, a demo user with
// a few listings and upcoming events. Each part is skipped if its table
// already holds records, so an interrupted seed can be rerun.
func (m *Market) Seed(ctx context.Context) error {
	centers, err := m.store.DisposalCenters.All(ctx)
	if err != nil {
		return fmt.Errorf("seeding: %w", err)
	}
	if len(centers) == 0 {
		for _, in := range seedCenters() {
			if _, err := m.CreateDisposalCenter(ctx, in); err != nil {
				return fmt.Errorf("seeding disposal centers: %w", err)
			}
		}
	}

	users, err := m.store.Users.All(ctx)
	if err != nil {
		return fmt.Errorf("seeding: %w", err)
	}
	if len(users) == 0 {
		if err := m.seedDemoUser(ctx); err != nil {
			return err
		}
	}

	events, err := m.store.Events.All(ctx)
	if err != nil {
		return fmt.Errorf("seeding: %w", err)
	}
	if len(events) == 0 {
		for _, in := range seedEvents(m.now()) {
			if _, err := m.CreateEvent(ctx, in); err != nil {
				return fmt.Errorf("seeding events: %w", err)
			}
		}
	}

	slog.Info("seeded sample data", "user", DemoUsername)
	return nil
}

func (m *Market) seedDemoUser(ctx context.Context) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}
	demo, err := m.RegisterUser(ctx, model.UserInput{
		Username:     DemoUsername,
		Password:     hash,
		Name:         "Demo User",
		Email:        "demo@example.com",
		Location:     demoLocation,
		ProfileImage: "https://images.unsplash.com/photo-1633332755192-727a05c4013d?w=400&h=400&fit=crop",
	})
	if err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}

	for _, in := range seedItems(demo.ID) {
		if _, err := m.CreateItem(ctx, in); err != nil {
			return fmt.Errorf("seeding items: %w", err)
		}
	}
	return nil
}

func seedCenters() []model.DisposalCenterInput {
	return []model.DisposalCenterInput{
		{
			Name:          "GreenTech Recycling Center",
			Description:   "E-waste recycling center accepting computers, phones, and batteries",
			Type:          model.CenterTypeEWaste,
			Address:       "123 Green Street",
			Latitude:      37.7749,
			Longitude:     -122.4194,
			OpenHours:     "9AM - 6PM",
			AcceptedItems: []string{"Computers", "Phones", "Batteries"},
			ContactInfo:   "info@greentech.example.com",
			Image:         "https://images.unsplash.com/photo-1532996122724-e3c354a0b15b",
		},
		{
			Name:          "EcoElectronics Depot",
			Description:   "Electronics recycling center specializing in TVs and appliances",
			Type:          model.CenterTypeEWaste,
			Address:       "456 Eco Avenue",
			Latitude:      37.7833,
			Longitude:     -122.4167,
			OpenHours:     "10AM - 8PM",
			AcceptedItems: []string{"TVs", "Appliances", "Cables"},
			ContactInfo:   "info@ecoelectronics.example.com",
			Image:         "https://images.unsplash.com/photo-1605600659873-d808a13e4d2a",
		},
		{
			Name:          "City Recycling Hub",
			Description:   "General recycling center accepting electronics and metals",
			Type:          model.CenterTypeEWaste,
			Address:       "789 Recycle Road",
			Latitude:      37.7694,
			Longitude:     -122.4862,
			OpenHours:     "8AM - 5PM",
			AcceptedItems: []string{"All Electronics", "Metals"},
			ContactInfo:   "info@cityrecycling.example.com",
			Image:         "https://images.unsplash.com/photo-1567177662154-dfeb4c93b6ae",
		},
		{
			Name:          "Furniture Donation Center",
			Description:   "Accepts used furniture for redistribution to those in need",
			Type:          model.CenterTypeFurniture,
			Address:       "101 Donation Drive",
			Latitude:      37.7855,
			Longitude:     -122.4071,
			OpenHours:     "9AM - 4PM",
			AcceptedItems: []string{"Chairs", "Tables", "Sofas", "Desks"},
			ContactInfo:   "info@furnituredonation.example.com",
			Image:         "https://images.unsplash.com/photo-1555041469-a586c61ea9bc",
		},
	}
}

func seedItems(userID int64) []model.ItemInput {
	lat, lon := 37.7749, -122.4194
	price := func(v float64) *float64 { return &v }
	item := func(title, description, category, itemType string, p *float64, image string, tags ...string) model.ItemInput {
		return model.ItemInput{
			UserID:      userID,
			Title:       title,
			Description: description,
			Category:    category,
			Type:        itemType,
			Price:       p,
			Images:      []string{image},
			Tags:        tags,
			Location:    demoLocation,
			Latitude:    &lat,
			Longitude:   &lon,
			Status:      model.ItemStatusAvailable,
		}
	}
	return []model.ItemInput{
		item("Unused Kitchen Blender",
			"Barely used kitchen blender in great condition. Free to a good home.",
			"kitchen", model.ItemTypeDonate, nil,
			"https://images.unsplash.com/photo-1626806819282-2c1dc01a5e0c?w=400&h=300&fit=crop",
			"appliance", "kitchen", "blender"),
		item("Office Chair",
			"Ergonomic office chair, adjustable height. Minor wear but still very comfortable.",
			"furniture", model.ItemTypeSell, price(40),
			"https://images.unsplash.com/photo-1589384267710-7a170981ca78?w=400&h=300&fit=crop",
			"furniture", "office", "chair"),
		item("Surplus Organic Apples",
			"Organic apples from my garden. Too many for me to eat!",
			"food", model.ItemTypeDonate, nil,
			"https://images.unsplash.com/photo-1570913149827-d2ac84ab3f9a?w=400&h=300&fit=crop",
			"food", "organic", "fruit"),
		item("Unused Paint Cans",
			"Leftover paint from home renovation. Various colors, water-based.",
			"home_improvement", model.ItemTypeSell, price(50),
			"https://images.unsplash.com/photo-1589939705384-5185137a7f0f?w=400&h=300&fit=crop",
			"paint", "renovation", "home"),
		item("Children's Books",
			"Collection of children's books in excellent condition. Suitable for ages 3-8.",
			"books", model.ItemTypeDonate, nil,
			"https://images.unsplash.com/photo-1512820790803-83ca734da794?w=400&h=300&fit=crop",
			"books", "children", "education"),
	}
}

func seedEvents(now time.Time) []model.EventInput {
	day := 24 * time.Hour
	coords := func(lat, lon float64) (*float64, *float64) { return &lat, &lon }
	reward := func(v int) *int { return &v }

	lat1, lon1 := coords(37.7855, -122.4071)
	lat2, lon2 := coords(37.7695, -122.4830)
	lat3, lon3 := coords(37.7790, -122.4120)
	return []model.EventInput{
		{
			Title:             "E-Waste Collection Drive",
			Description:       "Community center is hosting an electronics recycling event this weekend. Bring your old devices and earn double GreenPoints!",
			Type:              "collection_drive",
			Date:              now.Add(7 * day),
			Location:          "City Community Center, 100 Main St",
			Latitude:          lat1,
			Longitude:         lon1,
			GreenPointsReward: reward(20),
			Image:             "https://images.unsplash.com/photo-1532996122724-e3c354a0b15b",
		},
		{
			Title:             "Neighborhood Clean-up Day",
			Description:       "Join us for a community clean-up event. We'll provide gloves and bags!",
			Type:              "cleanup",
			Date:              now.Add(3 * day),
			Location:          "Green Park, West Entrance",
			Latitude:          lat2,
			Longitude:         lon2,
			GreenPointsReward: reward(15),
			Image:             "https://images.unsplash.com/photo-1567817886411-5d9c509e2b7e?w=800&h=600&fit=crop",
		},
		{
			Title:             "Furniture Upcycling Workshop",
			Description:       "Learn how to transform old furniture into beautiful new pieces. Materials provided.",
			Type:              "workshop",
			Date:              now.Add(14 * day),
			Location:          "Design Center, 200 Innovation Blvd",
			Latitude:          lat3,
			Longitude:         lon3,
			GreenPointsReward: reward(10),
			Image:             "https://images.unsplash.com/photo-1555041469-a586c61ea9bc?w=800&h=600&fit=crop",
		},
	}
}

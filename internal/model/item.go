package model

import (
	"slices"
	"time"

	"github.com/erazemk/wastewise/internal/geo"
)

// Item is a listing offered for sale or donation.
type Item struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Type        string     `json:"type"`
	Price       *float64   `json:"price"`
	Images      Strings    `json:"images"`
	Tags        Strings    `json:"tags"`
	Location    string     `json:"location"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	ExpiryDate  *time.Time `json:"expiryDate"`
	Status      string     `json:"status"`
	Views       int        `json:"views"`
	Inquiries   int        `json:"inquiries"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Listing types.
const (
	ItemTypeSell   = "sell"
	ItemTypeDonate = "donate"
)

// Item statuses.
const (
	ItemStatusAvailable = "available"
	ItemStatusReserved  = "reserved"
	ItemStatusCompleted = "completed"
)

// Coordinates returns the item's position if both coordinates are set.
func (i Item) Coordinates() (geo.Point, bool) {
	if i.Latitude == nil || i.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *i.Latitude, Lon: *i.Longitude}, true
}

// Summary returns the projection of i shown in chat lists.
func (i Item) Summary() ItemSummary {
	return ItemSummary{ID: i.ID, Title: i.Title, Images: i.Images}
}

// ItemSummary is the short form of an item used in enriched chats.
type ItemSummary struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Images Strings `json:"images"`
}

// ItemInput holds the fields accepted when creating a listing.
type ItemInput struct {
	UserID      int64      `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Type        string     `json:"type"`
	Price       *float64   `json:"price"`
	Images      []string   `json:"images"`
	Tags        []string   `json:"tags"`
	Location    string     `json:"location"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	ExpiryDate  *time.Time `json:"expiryDate"`
	Status      string     `json:"status"`
}

// ItemPatch is a partial update of an item. Nil fields are left unchanged.
type ItemPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Type        *string    `json:"type"`
	Price       *float64   `json:"price"`
	Images      *[]string  `json:"images"`
	Tags        *[]string  `json:"tags"`
	Location    *string    `json:"location"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	ExpiryDate  *time.Time `json:"expiryDate"`
	Status      *string    `json:"status"`
	Views       *int       `json:"-"`
	Inquiries   *int       `json:"-"`
}

// Apply returns a copy of i with the patch merged in. Donations never carry
// a price, whichever field the patch touches.
func (p ItemPatch) Apply(i Item) Item {
	merge(&i.Title, p.Title)
	merge(&i.Description, p.Description)
	merge(&i.Category, p.Category)
	merge(&i.Type, p.Type)
	if p.Price != nil {
		price := *p.Price
		i.Price = &price
	}
	if p.Images != nil {
		i.Images = slices.Clone(*p.Images)
	}
	if p.Tags != nil {
		i.Tags = slices.Clone(*p.Tags)
	}
	merge(&i.Location, p.Location)
	if p.Latitude != nil {
		lat := *p.Latitude
		i.Latitude = &lat
	}
	if p.Longitude != nil {
		lon := *p.Longitude
		i.Longitude = &lon
	}
	if p.ExpiryDate != nil {
		exp := *p.ExpiryDate
		i.ExpiryDate = &exp
	}
	merge(&i.Status, p.Status)
	merge(&i.Views, p.Views)
	merge(&i.Inquiries, p.Inquiries)
	if i.Type == ItemTypeDonate {
		i.Price = nil
	}
	return i
}

// ValidateItemInput checks a listing payload.
func ValidateItemInput(in ItemInput) error {
	var v validator
	v.positive("userId", in.UserID)
	v.required("title", in.Title)
	v.maxLen("title", in.Title, 200)
	v.required("description", in.Description)
	v.required("category", in.Category)
	v.oneOf("type", in.Type, ItemTypeSell, ItemTypeDonate)
	if in.Price != nil {
		v.nonNegative("price", *in.Price)
	}
	v.required("location", in.Location)
	v.coordinates(in.Latitude, in.Longitude)
	if in.Status != "" {
		v.oneOf("status", in.Status, ItemStatusAvailable, ItemStatusReserved, ItemStatusCompleted)
	}
	return v.err()
}

// ValidateItemPatch checks a listing update.
func ValidateItemPatch(p ItemPatch) error {
	var v validator
	if p.Title != nil {
		v.required("title", *p.Title)
		v.maxLen("title", *p.Title, 200)
	}
	if p.Description != nil {
		v.required("description", *p.Description)
	}
	if p.Category != nil {
		v.required("category", *p.Category)
	}
	if p.Type != nil {
		v.oneOf("type", *p.Type, ItemTypeSell, ItemTypeDonate)
	}
	if p.Price != nil {
		v.nonNegative("price", *p.Price)
	}
	if p.Location != nil {
		v.required("location", *p.Location)
	}
	if p.Latitude != nil {
		v.latitude("latitude", *p.Latitude)
	}
	if p.Longitude != nil {
		v.longitude("longitude", *p.Longitude)
	}
	if p.Status != nil {
		v.oneOf("status", *p.Status, ItemStatusAvailable, ItemStatusReserved, ItemStatusCompleted)
	}
	return v.err()
}

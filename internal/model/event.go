package model

import "time"

// Event is a scheduled community event.
type Event struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Type              string    `json:"type"`
	Date              time.Time `json:"date"`
	Location          string    `json:"location"`
	Latitude          *float64  `json:"latitude"`
	Longitude         *float64  `json:"longitude"`
	GreenPointsReward *int      `json:"greenPointsReward"`
	Image             string    `json:"image,omitempty"`
}

// EventInput holds the fields accepted when scheduling an event.
type EventInput struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Type              string    `json:"type"`
	Date              time.Time `json:"date"`
	Location          string    `json:"location"`
	Latitude          *float64  `json:"latitude"`
	Longitude         *float64  `json:"longitude"`
	GreenPointsReward *int      `json:"greenPointsReward"`
	Image             string    `json:"image"`
}

// ValidateEventInput checks an event payload.
func ValidateEventInput(in EventInput) error {
	var v validator
	v.required("title", in.Title)
	v.required("description", in.Description)
	v.required("type", in.Type)
	if in.Date.IsZero() {
		v.add("date", "is required")
	}
	v.required("location", in.Location)
	v.coordinates(in.Latitude, in.Longitude)
	if in.GreenPointsReward != nil && *in.GreenPointsReward < 0 {
		v.add("greenPointsReward", "must not be negative")
	}
	return v.err()
}

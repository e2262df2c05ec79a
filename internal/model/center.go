package model

import "github.com/erazemk/wastewise/internal/geo"

// DisposalCenter is a recycling or drop-off location.
type DisposalCenter struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Type          string  `json:"type"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	OpenHours     string  `json:"openHours,omitempty"`
	AcceptedItems Strings `json:"acceptedItems"`
	ContactInfo   string  `json:"contactInfo,omitempty"`
	Image         string  `json:"image,omitempty"`
}

// Disposal center types.
const (
	CenterTypeEWaste    = "e-waste"
	CenterTypeFurniture = "furniture"
	CenterTypeClothes   = "clothes"
	CenterTypePlastics  = "plastics"
	CenterTypeFood      = "food"
)

// Point returns the center's position.
func (c DisposalCenter) Point() geo.Point {
	return geo.Point{Lat: c.Latitude, Lon: c.Longitude}
}

// DisposalCenterInput holds the fields accepted when adding a center.
type DisposalCenterInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Type          string   `json:"type"`
	Address       string   `json:"address"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	OpenHours     string   `json:"openHours"`
	AcceptedItems []string `json:"acceptedItems"`
	ContactInfo   string   `json:"contactInfo"`
	Image         string   `json:"image"`
}

// ValidateDisposalCenterInput checks a center payload.
func ValidateDisposalCenterInput(in DisposalCenterInput) error {
	var v validator
	v.required("name", in.Name)
	v.required("type", in.Type)
	v.required("address", in.Address)
	v.latitude("latitude", in.Latitude)
	v.longitude("longitude", in.Longitude)
	return v.err()
}

package model

import (
	"fmt"
	"math"
	"net/mail"
	"slices"
	"strings"
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a payload fails validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "invalid data: " + strings.Join(parts, "; ")
}

// validator collects field errors.
type validator struct {
	fields []FieldError
}

func (v *validator) add(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

func (v *validator) maxLen(field, value string, max int) {
	if len(value) > max {
		v.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func (v *validator) positive(field string, value int64) {
	if value <= 0 {
		v.add(field, "must be a positive id")
	}
}

func (v *validator) nonNegative(field string, value float64) {
	if value < 0 {
		v.add(field, "must not be negative")
	}
}

func (v *validator) oneOf(field, value string, allowed ...string) {
	if !slices.Contains(allowed, value) {
		v.add(field, "must be one of "+strings.Join(allowed, ", "))
	}
}

func (v *validator) password(field, value string) {
	if len(value) < MinPasswordLength {
		v.add(field, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
}

func (v *validator) email(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "must be a valid email address")
	}
}

func (v *validator) latitude(field string, value float64) {
	if math.IsNaN(value) || value < -90 || value > 90 {
		v.add(field, "must be between -90 and 90")
	}
}

func (v *validator) longitude(field string, value float64) {
	if math.IsNaN(value) || value < -180 || value > 180 {
		v.add(field, "must be between -180 and 180")
	}
}

// coordinates checks an optional latitude/longitude pair, which must be
// given together.
func (v *validator) coordinates(lat, lon *float64) {
	if (lat == nil) != (lon == nil) {
		v.add("latitude", "latitude and longitude must be given together")
		return
	}
	if lat != nil {
		v.latitude("latitude", *lat)
		v.longitude("longitude", *lon)
	}
}

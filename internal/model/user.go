package model

import "time"

// User is a registered member of the marketplace.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	Location      string    `json:"location,omitempty"`
	ProfileImage  string    `json:"profileImage,omitempty"`
	GreenPoints   int       `json:"greenPoints"`
	ItemsShared   int       `json:"itemsShared"`
	ItemsRecycled int       `json:"itemsRecycled"`
	DonationsMade int       `json:"donationsMade"`
	CO2Saved      float64   `json:"co2Saved"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PublicUser is the projection of a user shown to other participants.
type PublicUser struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Public returns the public projection of u.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, ProfileImage: u.ProfileImage}
}

// UserInput holds the fields accepted when registering a user.
type UserInput struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Bio          string `json:"bio"`
	Location     string `json:"location"`
	ProfileImage string `json:"profileImage"`
}

// UserPatch is a partial update of a user. Nil fields are left unchanged.
type UserPatch struct {
	PasswordHash  *string  `json:"-"`
	Name          *string  `json:"name"`
	Email         *string  `json:"email"`
	Phone         *string  `json:"phone"`
	Bio           *string  `json:"bio"`
	Location      *string  `json:"location"`
	ProfileImage  *string  `json:"profileImage"`
	GreenPoints   *int     `json:"-"`
	ItemsShared   *int     `json:"-"`
	ItemsRecycled *int     `json:"-"`
	DonationsMade *int     `json:"-"`
	CO2Saved      *float64 `json:"-"`
}

// Apply returns a copy of u with the patch merged in.
func (p UserPatch) Apply(u User) User {
	merge(&u.PasswordHash, p.PasswordHash)
	merge(&u.Name, p.Name)
	merge(&u.Email, p.Email)
	merge(&u.Phone, p.Phone)
	merge(&u.Bio, p.Bio)
	merge(&u.Location, p.Location)
	merge(&u.ProfileImage, p.ProfileImage)
	merge(&u.GreenPoints, p.GreenPoints)
	merge(&u.ItemsShared, p.ItemsShared)
	merge(&u.ItemsRecycled, p.ItemsRecycled)
	merge(&u.DonationsMade, p.DonationsMade)
	merge(&u.CO2Saved, p.CO2Saved)
	return u
}

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// ValidatePassword checks that a password meets the minimum requirements.
func ValidatePassword(password string) error {
	var v validator
	v.password("password", password)
	return v.err()
}

// ValidateUserInput checks a registration payload.
func ValidateUserInput(in UserInput) error {
	var v validator
	v.required("username", in.Username)
	v.maxLen("username", in.Username, 64)
	v.password("password", in.Password)
	v.required("name", in.Name)
	v.email("email", in.Email)
	return v.err()
}

// ValidateUserPatch checks a profile update.
func ValidateUserPatch(p UserPatch) error {
	var v validator
	if p.Name != nil {
		v.required("name", *p.Name)
	}
	if p.Email != nil {
		v.email("email", *p.Email)
	}
	return v.err()
}

// merge copies *src into *dst when src is set.
func merge[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

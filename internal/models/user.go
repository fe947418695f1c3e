package models

import (
	"fmt"
	"net/mail"
	"time"
)

// User represents a profile in the user record store.
//
// Preferences is append-only; entries are attached after a successful
// track enrichment and never merged or rewritten.
type User struct {
	ID          string       `json:"id"`
	Sequence    int          `json:"sequence"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Preferences []Preference `json:"preferences"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DeletedAt   *time.Time   `json:"-"`
}

var _ Model = (*User)(nil)

// NewUser creates a user with the given sequence, email and name.
func NewUser(sequence int, email, name string) *User {
	now := time.Now()
	return &User{
		Sequence:    sequence,
		Email:       email,
		Name:        name,
		Preferences: []Preference{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (u *User) GetID() string      { return u.ID }
func (u *User) Created() time.Time { return u.CreatedAt }
func (u *User) Updated() time.Time { return u.UpdatedAt }

// Validate checks that the user has a name and a well-formed email address.
func (u *User) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("user name is required")
	}
	if u.Email == "" {
		return fmt.Errorf("user email is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("invalid email address %q: %w", u.Email, err)
	}
	return nil
}

// Preference is a single enriched listening preference attached to a user.
type Preference struct {
	TrackInfo TrackInfo `json:"track_info"`
	AddedAt   time.Time `json:"added_at"`
}

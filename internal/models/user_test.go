package models

import (
	"testing"
)

func TestUserValidate(t *testing.T) {
	t.Run("Valid User", func(t *testing.T) {
		user := NewUser(1, "ana@example.com", "Ana")
		if err := user.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("Missing Name", func(t *testing.T) {
		user := NewUser(1, "ana@example.com", "")
		if err := user.Validate(); err == nil {
			t.Error("expected error for missing name")
		}
	})

	t.Run("Missing Email", func(t *testing.T) {
		user := NewUser(1, "", "Ana")
		if err := user.Validate(); err == nil {
			t.Error("expected error for missing email")
		}
	})

	t.Run("Malformed Email", func(t *testing.T) {
		user := NewUser(1, "not-an-email", "Ana")
		if err := user.Validate(); err == nil {
			t.Error("expected error for malformed email")
		}
	})
}

func TestNewUser(t *testing.T) {
	user := NewUser(3, "ana@example.com", "Ana")

	if user.Sequence != 3 {
		t.Errorf("expected sequence 3, got %d", user.Sequence)
	}
	if user.Preferences == nil {
		t.Error("expected preferences to be initialized")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

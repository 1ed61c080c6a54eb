package models

import (
	"encoding/json"
	"time"
)

// User represents a registered user account.
type User struct {
	// UserID is assigned by the database.
	UserID int64 `json:"user_id"`

	// Email is the login name. Unique across users.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a User with the given email and password hash.
// UserID is left zero for the store to assign.
func NewUser(email, passwordHash string) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// SectionOrder is a user's preferred ordering of dashboard sections.
// Order is kept as raw JSON; its elements are whatever the client sent.
type SectionOrder struct {
	UserID int64           `json:"user_id"`
	Order  json.RawMessage `json:"order"`
}

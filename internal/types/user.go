package types

import "time"

// User represents the core user entity in the domain.
type User struct {
	ID        string    `json:"id"`         // Unique identifier (UUID).
	Username  string    `json:"username"`   // Display name, not unique.
	Email     string    `json:"email"`      // Unique email address used for login, stored lowercase.
	Password  string    `json:"-"`          // Hashed password (never exposed).
	CreatedAt time.Time `json:"created_at"` // Timestamp when the user was created.
	UpdatedAt time.Time `json:"updated_at"` // Timestamp when the user was last updated.
}

package domain

import "time"

// User represents a registered account allowed to manage the catalog.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the claim set carried by a session token.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

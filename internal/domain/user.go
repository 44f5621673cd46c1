package domain

import "time"

// User is the domain model for accounts that authenticate against the API.
// Email is the login key and is unique.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

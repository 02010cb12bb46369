package domain

import "time"

// Account is the minimal identity record returned by credential verification.
// PasswordHash never leaves the repository/auth layers.
type Account struct {
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

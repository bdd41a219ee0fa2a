// Package models defines the server-side data model.
package models

import "time"

// Account is the durable representation of one registered user, exactly as
// stored in the accounts file. The password hash never leaves the server;
// outward-facing responses are built with Public().
type Account struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLoginAt  time.Time `json:"lastLoginAt"`
}

// PublicAccount is the outward-facing account record: everything the client
// may see, with the password hash stripped.
type PublicAccount struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}

// Public returns the outward-facing view of the account.
func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Username:    a.Username,
		Email:       a.Email,
		CreatedAt:   a.CreatedAt,
		LastLoginAt: a.LastLoginAt,
	}
}

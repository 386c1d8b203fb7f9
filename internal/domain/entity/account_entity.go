package entity

import (
	"time"
)

// Account is the aggregate root for the auth domain
// PasswordHash holds the output of the credential hasher, never the plaintext.
// Email is stored normalized (trimmed, lower-cased) and is unique.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary is the public view of an Account returned to clients.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *Account) Summary() Summary {
	return Summary{ID: a.ID, Name: a.Name, Email: a.Email}
}

package domain

import "time"

// User is the durable identity record. The id is assigned by the store and
// immutable once set; the email is unique and stored lowercase.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string // argon2 encoded, never the plaintext
	Permissions  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the minimal identity shape that gets signed into a token: the
// subject's numeric id plus a snapshot of their permissions at issuance.
// It is a value object; once a token is minted from it, later changes to the
// user record do not reach back into the token.
type Profile struct {
	UID         int64
	Permissions []string
}

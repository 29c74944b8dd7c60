package domain

import (
	"errors"
	"time"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")

	// ErrAuthenticationFailed is the only failure Login reports, whether the
	// email is unknown or the password is wrong.
	ErrAuthenticationFailed = errors.New("incorrect email or password")
	// ErrCredentialsInvalid is the only failure reported when resolving a
	// bearer token: bad token and vanished account look the same.
	ErrCredentialsInvalid = errors.New("could not validate credentials")

	ErrValidation = errors.New("validation failed")
)

// User models a registered account. Email is the natural key.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account in the system.
// It contains the stored credential and login metadata for user management.
type User struct {
	// ID is the unique identifier for the user.
	ID uint

	// Username is the login name chosen at registration.
	// It must be unique across all users.
	Username string

	// PasswordHash is the hashed password for the user.
	// This should never store plaintext passwords.
	PasswordHash string

	// CreatedAt is the timestamp when the user registered.
	CreatedAt time.Time

	// LastLogin is the timestamp of the most recent successful login.
	// It is nil until the first login succeeds.
	LastLogin *time.Time
}

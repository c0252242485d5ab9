// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when a user cannot be found by username.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when attempting to register a username that already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned when a login fails because the username is
	// unknown or the password does not match. Callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrStorage is returned when the credential store fails for reasons unrelated
	// to the request itself, such as an unreachable database or a timed-out query.
	ErrStorage = errors.New("storage failure")

	// ErrHashing is returned when password hashing fails for reasons other than
	// a plain mismatch, such as an exhausted entropy source.
	ErrHashing = errors.New("hashing failure")
)

// ValidationError is returned when registration or login input breaks a
// syntactic rule. Field names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

package dto

import "time"

// ProfileRes represents the response for the authenticated profile endpoint.
// LastLogin is omitted until the user has logged in at least once.
type ProfileRes struct {
	Username  string     `json:"username"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

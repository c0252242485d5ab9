// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

import "time"

// RegisterReq represents the request body for the /register endpoint.
// Presence is checked by Gin's binding; length rules live in the usecase.
type RegisterReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRes represents the response for a successful registration.
// The password hash is never part of a response.
type RegisterRes struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

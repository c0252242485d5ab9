package dto

// ErrorRes represents the body of every error response.
type ErrorRes struct {
	Error string `json:"error"`
}

package model

import "time"

// ErrorResponse is the uniform body written for every mapped failure.
// Message carries the underlying cause text and is null when the cause has none.
type ErrorResponse struct {
	Date    time.Time `json:"date"`
	Error   string    `json:"error"`
	Message *string   `json:"message"`
	Status  int       `json:"status"`
	Path    string    `json:"path"`
}

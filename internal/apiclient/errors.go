package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrResponseTooLarge = errors.New("backend response too large")

// APIError is a response the backend rejected, either by status code or by an
// envelope with success=false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// MessageOf returns the backend-provided message when err carries one and
// fallback otherwise. Transport failures always yield fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

package generation

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/quill/internal/prompts"
)

// Sentinel errors for generation operations.
var (
	ErrProviderUnavailable = errors.New("generation provider not configured")
	ErrEmptyResponse       = errors.New("provider returned no choices")
	ErrInvalidResponse     = errors.New("provider response is not a valid story")
	ErrTooManyChapters     = errors.New("provider returned more chapters than allowed")
)

// MapHTTPStatus maps generation errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, prompts.ErrInvalidState) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrProviderUnavailable) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrEmptyResponse) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrTooManyChapters) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

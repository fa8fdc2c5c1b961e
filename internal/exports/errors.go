package exports

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/export"
)

// Domain errors for export operations.
var (
	ErrNotFound      = errors.New("export not found")
	ErrDuplicate     = errors.New("export already exists")
	ErrInvalidExport = errors.New("invalid export request")
)

// MapHTTPStatus maps export domain errors to appropriate HTTP status codes.
// Prompt errors surfaced while resolving a saved prompt keep their own mapping.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, prompts.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidExport) || errors.Is(err, export.ErrInvalidFilename) {
		return http.StatusBadRequest
	}
	if errors.Is(err, prompts.ErrInvalidState) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

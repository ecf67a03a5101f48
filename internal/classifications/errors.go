package classifications

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/validation"
)

// Domain errors for classification operations.
var (
	ErrNotFound      = errors.New("classification not found")
	ErrDuplicate     = errors.New("document is already classified")
	ErrInvalidStatus = errors.New("invalid status transition")
)

// MapHTTPStatus maps classification domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, documents.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInvalidStatus) {
		return http.StatusConflict
	}
	if errors.Is(err, validation.ErrInvalid) || errors.Is(err, documents.ErrInvalidType) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

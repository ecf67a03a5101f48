package registers

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/validation"
)

var (
	ErrNotFound    = errors.New("register not found")
	ErrUnavailable = errors.New("register archive is not configured")
)

// MapHTTPStatus maps register errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, validation.ErrInvalid), errors.Is(err, documents.ErrInvalidType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

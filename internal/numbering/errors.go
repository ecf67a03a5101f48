package numbering

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/docket/internal/classifications"
	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/validation"
)

// Domain errors for numbering operations.
var (
	ErrConflict       = errors.New("duplicate reference number")
	ErrConfigNotFound = errors.New("numbering config not found")
	ErrMismatch       = errors.New("classification does not belong to document")
)

// MapHTTPStatus maps numbering domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrConfigNotFound),
		errors.Is(err, classifications.ErrNotFound),
		errors.Is(err, documents.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, ErrMismatch),
		errors.Is(err, classifications.ErrInvalidStatus),
		errors.Is(err, documents.ErrInvalidType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Kind names the error category of err: conflict, not_found, validation, or internal.
func Kind(err error) string {
	switch MapHTTPStatus(err) {
	case http.StatusConflict:
		return "conflict"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "validation"
	}
	return "internal"
}

package documents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/docket/pkg/validation"
)

// Domain errors for document operations.
var (
	ErrNotFound    = errors.New("document not found")
	ErrDuplicate   = errors.New("document already exists")
	ErrInvalidType = errors.New("invalid document type")
)

// MapHTTPStatus maps document domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidType) || errors.Is(err, validation.ErrInvalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Package documents implements the canonical ordinance and resolution records.
// The numbering core reads these rows and writes only their official number column.
package documents

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is one of the two legislative document kinds tracked by the service.
type Type string

const (
	TypeOrdinance  Type = "ordinance"
	TypeResolution Type = "resolution"
)

// Types lists every supported document type.
var Types = []Type{TypeOrdinance, TypeResolution}

// ParseType validates s as a document type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// Valid reports whether t is a supported document type.
func (t Type) Valid() bool {
	return t == TypeOrdinance || t == TypeResolution
}

// Table returns the canonical table holding documents of type t.
func (t Type) Table() string {
	switch t {
	case TypeOrdinance:
		return "ordinances"
	case TypeResolution:
		return "resolutions"
	}
	return ""
}

// NumberColumn returns the column of Table that holds the official number.
func (t Type) NumberColumn() string {
	switch t {
	case TypeOrdinance:
		return "ordinance_number"
	case TypeResolution:
		return "resolution_number"
	}
	return ""
}

// Prefix returns the reference number prefix derived from t.
func (t Type) Prefix() string {
	switch t {
	case TypeOrdinance:
		return "QC-ORD"
	case TypeResolution:
		return "QC-RES"
	}
	return ""
}

// Ref identifies a document across both canonical tables.
type Ref struct {
	ID   uuid.UUID `json:"document_id"`
	Type Type      `json:"document_type"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s", r.Type, r.ID)
}

// Document is a canonical ordinance or resolution row.
// Number is nil until a reference number has been assigned.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Type      Type      `json:"document_type"`
	Title     string    `json:"title"`
	Number    *string   `json:"number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref returns the document's reference.
func (d Document) Ref() Ref {
	return Ref{ID: d.ID, Type: d.Type}
}

// CreateCommand carries the data needed to register a new document.
type CreateCommand struct {
	Type  Type   `json:"document_type" validate:"required,oneof=ordinance resolution"`
	Title string `json:"title" validate:"required,max=500"`
}

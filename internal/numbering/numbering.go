// Package numbering allocates reference numbers for classified documents and
// keeps the append-only audit trail of every number change.
//
// Each assignment runs as one transaction: the registry increment, the
// uniqueness check, the classification and document updates, and the log
// entry commit or roll back together.
package numbering

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/documents"
)

// Scheme selects how a reference number is produced.
type Scheme string

const (
	// SchemeAuto draws the next sequence value from the registry.
	SchemeAuto Scheme = "auto"
	// SchemeCustom assigns a caller supplied literal number.
	SchemeCustom Scheme = "custom"
)

// DefaultPattern renders {prefix}-{year}-{sequence:04d}.
const DefaultPattern = "{PREFIX}-{YEAR}-{SEQ}"

// ConfigKey identifies a numbering sequence.
type ConfigKey struct {
	Prefix       string         `json:"prefix"`
	DocumentType documents.Type `json:"document_type"`
	Year         int            `json:"year"`
}

func (k ConfigKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Prefix, k.DocumentType, k.Year)
}

// Config is a registered numbering sequence. Sequence holds the value the
// next auto allocation will embed.
type Config struct {
	Prefix        string         `json:"prefix"`
	DocumentType  documents.Type `json:"document_type"`
	Year          int            `json:"year"`
	Sequence      int64          `json:"sequence"`
	FormatPattern string         `json:"format_pattern"`
	Description   string         `json:"description"`
	LastUsedDate  *time.Time     `json:"last_used_date"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Key returns the registry key of c.
func (c Config) Key() ConfigKey {
	return ConfigKey{Prefix: c.Prefix, DocumentType: c.DocumentType, Year: c.Year}
}

// UpsertCommand registers a sequence or replaces its sequence, pattern, and description.
type UpsertCommand struct {
	Prefix        string         `json:"prefix" validate:"required,max=32,refnum"`
	DocumentType  documents.Type `json:"document_type" validate:"required,oneof=ordinance resolution"`
	Year          int            `json:"year" validate:"required,gte=1900,lte=9999"`
	Sequence      int64          `json:"sequence" validate:"required,gte=1"`
	FormatPattern string         `json:"format_pattern" validate:"omitempty,max=100,contains={SEQ}"`
	Description   string         `json:"description" validate:"max=500"`
}

// Key returns the registry key targeted by cmd.
func (c UpsertCommand) Key() ConfigKey {
	return ConfigKey{Prefix: c.Prefix, DocumentType: c.DocumentType, Year: c.Year}
}

// AssignCommand requests a reference number for a classification record.
// An empty Scheme means custom when ReferenceNumber is set and auto otherwise.
type AssignCommand struct {
	DocumentID       uuid.UUID      `json:"document_id" validate:"required"`
	DocumentType     documents.Type `json:"document_type" validate:"required,oneof=ordinance resolution"`
	ClassificationID uuid.UUID      `json:"classification_id" validate:"required"`
	ReferenceNumber  string         `json:"reference_number,omitempty" validate:"omitempty,max=64,refnum"`
	Scheme           Scheme         `json:"scheme,omitempty" validate:"omitempty,oneof=auto custom"`
	Reason           string         `json:"reason" validate:"required,max=1000"`
}

// Ref returns the document targeted by cmd.
func (c AssignCommand) Ref() documents.Ref {
	return documents.Ref{ID: c.DocumentID, Type: c.DocumentType}
}

// Assignment is the outcome of a committed assignment.
type Assignment struct {
	ClassificationID uuid.UUID      `json:"classification_id"`
	DocumentID       uuid.UUID      `json:"document_id"`
	DocumentType     documents.Type `json:"document_type"`
	ReferenceNumber  string         `json:"reference_number"`
	OldNumber        *string        `json:"old_number"`
	Scheme           Scheme         `json:"scheme"`
	Fallback         bool           `json:"fallback"`
	LogID            int64          `json:"log_id"`
	AssignedAt       time.Time      `json:"assigned_at"`
}

// BulkAssignCommand assigns numbers to several records in one action.
// Items without a reason or scheme take Reason and Scheme from the command.
type BulkAssignCommand struct {
	Items  []AssignCommand `json:"items" validate:"required,min=1"`
	Scheme Scheme          `json:"scheme,omitempty" validate:"omitempty,oneof=auto custom"`
	Reason string          `json:"reason,omitempty" validate:"max=1000"`
}

// BulkItemResult reports the outcome of one bulk item. Exactly one of
// Assignment and Error is set.
type BulkItemResult struct {
	Index            int         `json:"index"`
	ClassificationID uuid.UUID   `json:"classification_id"`
	Assignment       *Assignment `json:"assignment,omitempty"`
	Error            string      `json:"error,omitempty"`
	Kind             string      `json:"kind,omitempty"`
}

// BulkResult collects per-item outcomes in request order.
type BulkResult struct {
	Results   []BulkItemResult `json:"results"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}

// Preview describes the number the next auto allocation for a type would produce.
// Fallback previews end in RRRR where the random suffix will go.
type Preview struct {
	Key             ConfigKey `json:"key"`
	ReferenceNumber string    `json:"reference_number"`
	Fallback        bool      `json:"fallback"`
}

// LogEntry is one immutable numbering audit record.
type LogEntry struct {
	ID               int64          `json:"id"`
	DocumentID       uuid.UUID      `json:"document_id"`
	DocumentType     documents.Type `json:"document_type"`
	ClassificationID uuid.UUID      `json:"classification_id"`
	OldNumber        *string        `json:"old_number"`
	NewNumber        string         `json:"new_number"`
	Scheme           Scheme         `json:"scheme"`
	Reason           string         `json:"reason"`
	ActorID          string         `json:"actor_id"`
	ActorRole        string         `json:"actor_role"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Ref returns the document the entry belongs to.
func (e LogEntry) Ref() documents.Ref {
	return documents.Ref{ID: e.DocumentID, Type: e.DocumentType}
}

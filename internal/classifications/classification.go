// Package classifications implements classification records: the row linking a
// document to its category, priority, status, and assigned reference number.
// Records are never deleted; they move through status transitions only.
package classifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/documents"
)

// Status is the lifecycle state of a classification record.
type Status string

const (
	StatusUnclassified Status = "unclassified"
	StatusClassified   Status = "classified"
	StatusReviewed     Status = "reviewed"
	StatusApproved     Status = "approved"
)

// transitions lists the review steps handled here. Moving a record into
// classified happens only through reference number assignment.
var transitions = map[Status]Status{
	StatusReviewed: StatusClassified,
	StatusApproved: StatusReviewed,
}

// CanTransition reports whether a record in from may move to to.
func CanTransition(from, to Status) bool {
	required, ok := transitions[to]
	return ok && required == from
}

// Priority ranks how urgently a document should be handled.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Classification is a stored classification record.
type Classification struct {
	ID              uuid.UUID      `json:"id"`
	DocumentID      uuid.UUID      `json:"document_id"`
	DocumentType    documents.Type `json:"document_type"`
	CategoryID      *uuid.UUID     `json:"category_id"`
	PriorityLevel   Priority       `json:"priority_level"`
	ReferenceNumber *string        `json:"reference_number"`
	Status          Status         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Ref returns the reference of the classified document.
func (c Classification) Ref() documents.Ref {
	return documents.Ref{ID: c.DocumentID, Type: c.DocumentType}
}

// CreateCommand carries the data needed to first classify a document.
// PriorityLevel defaults to normal.
type CreateCommand struct {
	DocumentID    uuid.UUID      `json:"document_id" validate:"required"`
	DocumentType  documents.Type `json:"document_type" validate:"required,oneof=ordinance resolution"`
	CategoryID    *uuid.UUID     `json:"category_id"`
	PriorityLevel Priority       `json:"priority_level" validate:"omitempty,oneof=low normal high urgent"`
}

// TransitionCommand moves a record through review.
type TransitionCommand struct {
	Status Status `json:"status" validate:"required,oneof=reviewed approved"`
}

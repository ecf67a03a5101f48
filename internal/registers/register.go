// Package registers publishes the annual numbering register of a document
// type: the registered sequences and every audit entry of the year, archived
// as a JSON blob.
package registers

import (
	"fmt"
	"time"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/internal/numbering"
)

// Register is the archived numbering record of one document type and year.
type Register struct {
	DocumentType documents.Type       `json:"document_type"`
	Year         int                  `json:"year"`
	GeneratedAt  time.Time            `json:"generated_at"`
	GeneratedBy  string               `json:"generated_by"`
	Configs      []numbering.Config   `json:"configs"`
	Entries      []numbering.LogEntry `json:"entries"`
	Issued       []string             `json:"issued"`
}

// Key returns the blob key of the register for t and year.
func Key(t documents.Type, year int) string {
	return fmt.Sprintf("registers/%s/%d.json", t, year)
}

// issued lists the distinct numbers handed out by entries in first-use order.
func issued(entries []numbering.LogEntry) []string {
	seen := make(map[string]bool, len(entries))
	numbers := make([]string, 0, len(entries))
	for _, e := range entries {
		if seen[e.NewNumber] {
			continue
		}
		seen[e.NewNumber] = true
		numbers = append(numbers, e.NewNumber)
	}
	return numbers
}

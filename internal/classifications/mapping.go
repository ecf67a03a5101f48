package classifications

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/query"
	"github.com/JaimeStill/docket/pkg/repository"
)

var projection = query.
	NewProjectionMap("", "document_classifications", "c").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("document_type", "DocumentType").
	Project("category_id", "CategoryID").
	Project("priority_level", "PriorityLevel").
	Project("reference_number", "ReferenceNumber").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for classification queries.
// Nil fields are ignored. ReferenceNumber uses case-insensitive contains
// matching; Numbered selects records with (true) or without (false) a number.
type Filters struct {
	Status          *Status         `json:"status,omitempty"`
	DocumentType    *documents.Type `json:"document_type,omitempty"`
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	PriorityLevel   *Priority       `json:"priority_level,omitempty"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	Numbered        *bool           `json:"numbered,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("CategoryID", f.CategoryID).
		WhereEquals("PriorityLevel", f.PriorityLevel).
		WhereContains("ReferenceNumber", f.ReferenceNumber).
		WherePresent("ReferenceNumber", f.Numbered)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		status := Status(s)
		f.Status = &status
	}

	if t := values.Get("document_type"); t != "" {
		dt := documents.Type(t)
		f.DocumentType = &dt
	}

	if c := values.Get("category_id"); c != "" {
		if id, err := uuid.Parse(c); err == nil {
			f.CategoryID = &id
		}
	}

	if p := values.Get("priority_level"); p != "" {
		priority := Priority(p)
		f.PriorityLevel = &priority
	}

	if n := values.Get("reference_number"); n != "" {
		f.ReferenceNumber = &n
	}

	if n := values.Get("numbered"); n != "" {
		if v, err := strconv.ParseBool(n); err == nil {
			f.Numbered = &v
		}
	}

	return f
}

func scanClassification(s repository.Scanner) (Classification, error) {
	var c Classification
	err := s.Scan(
		&c.ID,
		&c.DocumentID,
		&c.DocumentType,
		&c.CategoryID,
		&c.PriorityLevel,
		&c.ReferenceNumber,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

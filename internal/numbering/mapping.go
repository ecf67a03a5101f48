package numbering

import (
	"net/url"
	"strconv"
	"time"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/query"
	"github.com/JaimeStill/docket/pkg/repository"
)

const configColumns = `prefix, document_type, year, sequence, format_pattern,
	description, last_used_date, created_at, updated_at`

const logColumns = `id, document_id, document_type, classification_id, old_number,
	new_number, scheme, reason, actor_id, actor_role, created_at`

var configProjection = query.
	NewProjectionMap("", "numbering_configs", "n").
	Project("prefix", "Prefix").
	Project("document_type", "DocumentType").
	Project("year", "Year").
	Project("sequence", "Sequence").
	Project("format_pattern", "FormatPattern").
	Project("description", "Description").
	Project("last_used_date", "LastUsedDate").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var configSort = []query.SortField{
	{Field: "Year", Descending: true},
	{Field: "DocumentType"},
	{Field: "Prefix"},
}

var logProjection = query.
	NewProjectionMap("", "numbering_logs", "l").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("document_type", "DocumentType").
	Project("classification_id", "ClassificationID").
	Project("old_number", "OldNumber").
	Project("new_number", "NewNumber").
	Project("scheme", "Scheme").
	Project("reason", "Reason").
	Project("actor_id", "ActorID").
	Project("actor_role", "ActorRole").
	Project("created_at", "CreatedAt")

// logSort is reverse-chronological; id breaks ties between entries written
// within the same clock tick.
var logSort = []query.SortField{
	{Field: "CreatedAt", Descending: true},
	{Field: "ID", Descending: true},
}

// ConfigFilters contains optional filtering criteria for registry queries.
type ConfigFilters struct {
	Prefix       *string         `json:"prefix,omitempty"`
	DocumentType *documents.Type `json:"document_type,omitempty"`
	Year         *int            `json:"year,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f ConfigFilters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Prefix", f.Prefix).
		WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("Year", f.Year)
}

// ConfigFiltersFromQuery extracts registry filter values from URL query parameters.
func ConfigFiltersFromQuery(values url.Values) ConfigFilters {
	var f ConfigFilters

	if p := values.Get("prefix"); p != "" {
		f.Prefix = &p
	}

	if t := values.Get("document_type"); t != "" {
		dt := documents.Type(t)
		f.DocumentType = &dt
	}

	if y := values.Get("year"); y != "" {
		if year, err := strconv.Atoi(y); err == nil {
			f.Year = &year
		}
	}

	return f
}

// LogFilters contains optional filtering criteria for audit log queries.
// From is inclusive and To exclusive.
type LogFilters struct {
	DocumentType *documents.Type `json:"document_type,omitempty"`
	ActorID      *string         `json:"actor_id,omitempty"`
	Scheme       *Scheme         `json:"scheme,omitempty"`
	NewNumber    *string         `json:"new_number,omitempty"`
	From         *time.Time      `json:"from,omitempty"`
	To           *time.Time      `json:"to,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f LogFilters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("ActorID", f.ActorID).
		WhereEquals("Scheme", f.Scheme).
		WhereContains("NewNumber", f.NewNumber).
		WhereOnOrAfter("CreatedAt", f.From).
		WhereBefore("CreatedAt", f.To)
}

// LogFiltersFromQuery extracts audit log filter values from URL query parameters.
// from and to accept RFC 3339 timestamps; unparseable values are ignored.
func LogFiltersFromQuery(values url.Values) LogFilters {
	var f LogFilters

	if t := values.Get("document_type"); t != "" {
		dt := documents.Type(t)
		f.DocumentType = &dt
	}

	if a := values.Get("actor_id"); a != "" {
		f.ActorID = &a
	}

	if s := values.Get("scheme"); s != "" {
		scheme := Scheme(s)
		f.Scheme = &scheme
	}

	if n := values.Get("new_number"); n != "" {
		f.NewNumber = &n
	}

	if v := values.Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from := t.UTC()
			f.From = &from
		}
	}

	if v := values.Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to := t.UTC()
			f.To = &to
		}
	}

	return f
}

func scanConfig(s repository.Scanner) (Config, error) {
	var c Config
	err := s.Scan(
		&c.Prefix,
		&c.DocumentType,
		&c.Year,
		&c.Sequence,
		&c.FormatPattern,
		&c.Description,
		&c.LastUsedDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func scanLogEntry(s repository.Scanner) (LogEntry, error) {
	var e LogEntry
	err := s.Scan(
		&e.ID,
		&e.DocumentID,
		&e.DocumentType,
		&e.ClassificationID,
		&e.OldNumber,
		&e.NewNumber,
		&e.Scheme,
		&e.Reason,
		&e.ActorID,
		&e.ActorRole,
		&e.CreatedAt,
	)
	return e, err
}

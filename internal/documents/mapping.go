package documents

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/docket/pkg/query"
	"github.com/JaimeStill/docket/pkg/repository"
)

var projections = map[Type]*query.ProjectionMap{
	TypeOrdinance:  newProjection(TypeOrdinance),
	TypeResolution: newProjection(TypeResolution),
}

func newProjection(t Type) *query.ProjectionMap {
	return query.
		NewProjectionMap("", t.Table(), "d").
		Project("id", "ID").
		Project("title", "Title").
		Project(t.NumberColumn(), "Number").
		Project("created_at", "CreatedAt").
		Project("updated_at", "UpdatedAt")
}

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Title and Number use case-insensitive contains matching. Numbered selects
// documents with (true) or without (false) an assigned number.
type Filters struct {
	Title    *string `json:"title,omitempty"`
	Number   *string `json:"number,omitempty"`
	Numbered *bool   `json:"numbered,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Title", f.Title).
		WhereContains("Number", f.Number).
		WherePresent("Number", f.Numbered)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	if n := values.Get("number"); n != "" {
		f.Number = &n
	}

	if n := values.Get("numbered"); n != "" {
		if v, err := strconv.ParseBool(n); err == nil {
			f.Numbered = &v
		}
	}

	return f
}

func scanner(t Type) repository.ScanFunc[Document] {
	return func(s repository.Scanner) (Document, error) {
		d := Document{Type: t}
		err := s.Scan(
			&d.ID,
			&d.Title,
			&d.Number,
			&d.CreatedAt,
			&d.UpdatedAt,
		)
		return d, err
	}
}

package documents_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/dbtest"
	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/pagination"
	"github.com/JaimeStill/docket/pkg/validation"
)

var pages = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestTypeMapping(t *testing.T) {
	tests := []struct {
		typ    documents.Type
		table  string
		column string
		prefix string
	}{
		{documents.TypeOrdinance, "ordinances", "ordinance_number", "QC-ORD"},
		{documents.TypeResolution, "resolutions", "resolution_number", "QC-RES"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Table(); got != tt.table {
				t.Errorf("Table() = %q, want %q", got, tt.table)
			}
			if got := tt.typ.NumberColumn(); got != tt.column {
				t.Errorf("NumberColumn() = %q, want %q", got, tt.column)
			}
			if got := tt.typ.Prefix(); got != tt.prefix {
				t.Errorf("Prefix() = %q, want %q", got, tt.prefix)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	if got, err := documents.ParseType("resolution"); err != nil || got != documents.TypeResolution {
		t.Errorf("ParseType(resolution) = %q, %v", got, err)
	}
	if _, err := documents.ParseType("memo"); !errors.Is(err, documents.ErrInvalidType) {
		t.Errorf("ParseType(memo) err = %v, want ErrInvalidType", err)
	}
}

func TestCreateFind(t *testing.T) {
	db := dbtest.Open(t)
	sys := documents.New(db, dbtest.Logger(), pages)
	ctx := context.Background()

	d, err := sys.Create(ctx, documents.CreateCommand{Type: documents.TypeOrdinance, Title: "Noise control"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Number != nil {
		t.Errorf("Number = %q, want nil", *d.Number)
	}

	got, err := sys.Find(ctx, d.Ref())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.Title != "Noise control" || got.Type != documents.TypeOrdinance {
		t.Errorf("document = %+v", got)
	}

	wrongTable := documents.Ref{ID: d.ID, Type: documents.TypeResolution}
	if _, err := sys.Find(ctx, wrongTable); !errors.Is(err, documents.ErrNotFound) {
		t.Errorf("Find in resolutions: err = %v, want ErrNotFound", err)
	}

	if _, err := sys.Create(ctx, documents.CreateCommand{Type: documents.TypeOrdinance}); !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("Create without title: err = %v, want ErrInvalid", err)
	}
}

func TestSetNumber(t *testing.T) {
	db := dbtest.Open(t)
	sys := documents.New(db, dbtest.Logger(), pages)
	ctx := context.Background()
	at := time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)

	d, err := sys.Create(ctx, documents.CreateCommand{Type: documents.TypeResolution, Title: "Budget transfer"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := documents.SetNumber(ctx, db, d.Ref(), "QC-RES-2026-0001", at); err != nil {
		t.Fatalf("SetNumber: %v", err)
	}

	got, err := sys.Find(ctx, d.Ref())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.Number == nil || *got.Number != "QC-RES-2026-0001" {
		t.Errorf("Number = %v, want QC-RES-2026-0001", got.Number)
	}

	missing := documents.Ref{ID: uuid.New(), Type: documents.TypeResolution}
	if err := documents.SetNumber(ctx, db, missing, "QC-RES-2026-0002", at); !errors.Is(err, documents.ErrNotFound) {
		t.Errorf("SetNumber missing: err = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	db := dbtest.Open(t)
	sys := documents.New(db, dbtest.Logger(), pages)
	ctx := context.Background()

	titles := []string{"Water rates", "Water quality", "Parking permits"}
	for _, title := range titles {
		if _, err := sys.Create(ctx, documents.CreateCommand{Type: documents.TypeOrdinance, Title: title}); err != nil {
			t.Fatalf("Create %q: %v", title, err)
		}
	}

	search := "WATER"
	result, err := sys.List(ctx, documents.TypeOrdinance, pagination.PageRequest{Search: &search}, documents.Filters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("search total = %d, want 2", result.Total)
	}

	unnumbered := false
	result, err = sys.List(ctx, documents.TypeOrdinance, pagination.PageRequest{PageSize: 2}, documents.Filters{Numbered: &unnumbered})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 3 || len(result.Data) != 2 || result.TotalPages != 2 {
		t.Errorf("page = total %d, len %d, pages %d; want 3, 2, 2", result.Total, len(result.Data), result.TotalPages)
	}

	if _, err := sys.List(ctx, "memo", pagination.PageRequest{}, documents.Filters{}); !errors.Is(err, documents.ErrInvalidType) {
		t.Errorf("List(memo) err = %v, want ErrInvalidType", err)
	}
}

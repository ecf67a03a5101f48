package classifications_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/classifications"
	"github.com/JaimeStill/docket/internal/dbtest"
	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/auth"
	"github.com/JaimeStill/docket/pkg/pagination"
	"github.com/JaimeStill/docket/pkg/validation"
)

var (
	pages    = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	reviewer = auth.Actor{ID: "u-300", Role: "reviewer"}
)

func setup(t *testing.T) (documents.System, classifications.System, func(dt documents.Type) *classifications.Classification) {
	t.Helper()

	db := dbtest.Open(t)
	docs := documents.New(db, dbtest.Logger(), pages)
	sys := classifications.New(db, dbtest.Logger(), pages)

	create := func(dt documents.Type) *classifications.Classification {
		t.Helper()
		doc, err := docs.Create(context.Background(), documents.CreateCommand{Type: dt, Title: "Street lighting"})
		if err != nil {
			t.Fatalf("create document: %v", err)
		}
		c, err := sys.Create(context.Background(), classifications.CreateCommand{
			DocumentID:   doc.ID,
			DocumentType: dt,
		})
		if err != nil {
			t.Fatalf("create classification: %v", err)
		}
		return c
	}

	return docs, sys, create
}

func TestCreate(t *testing.T) {
	docs, sys, create := setup(t)
	ctx := context.Background()

	c := create(documents.TypeOrdinance)
	if c.Status != classifications.StatusUnclassified {
		t.Errorf("Status = %q, want unclassified", c.Status)
	}
	if c.PriorityLevel != classifications.PriorityNormal {
		t.Errorf("PriorityLevel = %q, want normal", c.PriorityLevel)
	}
	if c.ReferenceNumber != nil {
		t.Errorf("ReferenceNumber = %q, want nil", *c.ReferenceNumber)
	}

	t.Run("document classified twice", func(t *testing.T) {
		_, err := sys.Create(ctx, classifications.CreateCommand{DocumentID: c.DocumentID, DocumentType: c.DocumentType})
		if !errors.Is(err, classifications.ErrDuplicate) {
			t.Errorf("err = %v, want ErrDuplicate", err)
		}
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := sys.Create(ctx, classifications.CreateCommand{DocumentID: uuid.New(), DocumentType: documents.TypeResolution})
		if !errors.Is(err, documents.ErrNotFound) {
			t.Errorf("err = %v, want documents.ErrNotFound", err)
		}
	})

	t.Run("category and priority", func(t *testing.T) {
		doc, err := docs.Create(ctx, documents.CreateCommand{Type: documents.TypeResolution, Title: "Budget"})
		if err != nil {
			t.Fatalf("create document: %v", err)
		}
		category := uuid.New()

		got, err := sys.Create(ctx, classifications.CreateCommand{
			DocumentID:    doc.ID,
			DocumentType:  documents.TypeResolution,
			CategoryID:    &category,
			PriorityLevel: classifications.PriorityUrgent,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if got.CategoryID == nil || *got.CategoryID != category {
			t.Errorf("CategoryID = %v, want %s", got.CategoryID, category)
		}
		if got.PriorityLevel != classifications.PriorityUrgent {
			t.Errorf("PriorityLevel = %q, want urgent", got.PriorityLevel)
		}
	})

	t.Run("invalid priority", func(t *testing.T) {
		_, err := sys.Create(ctx, classifications.CreateCommand{
			DocumentID:    uuid.New(),
			DocumentType:  documents.TypeOrdinance,
			PriorityLevel: "someday",
		})
		if !errors.Is(err, validation.ErrInvalid) {
			t.Errorf("err = %v, want ErrInvalid", err)
		}
	})
}

func TestFindByDocument(t *testing.T) {
	_, sys, create := setup(t)
	ctx := context.Background()
	c := create(documents.TypeResolution)

	got, err := sys.FindByDocument(ctx, c.Ref())
	if err != nil {
		t.Fatalf("FindByDocument: %v", err)
	}
	if got.ID != c.ID {
		t.Errorf("ID = %s, want %s", got.ID, c.ID)
	}

	other := documents.Ref{ID: c.DocumentID, Type: documents.TypeOrdinance}
	if _, err := sys.FindByDocument(ctx, other); !errors.Is(err, classifications.ErrNotFound) {
		t.Errorf("wrong type: err = %v, want ErrNotFound", err)
	}
}

func TestTransition(t *testing.T) {
	db := dbtest.Open(t)
	docs := documents.New(db, dbtest.Logger(), pages)
	sys := classifications.New(db, dbtest.Logger(), pages)
	ctx := context.Background()

	doc, err := docs.Create(ctx, documents.CreateCommand{Type: documents.TypeOrdinance, Title: "Parks"})
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	c, err := sys.Create(ctx, classifications.CreateCommand{DocumentID: doc.ID, DocumentType: documents.TypeOrdinance})
	if err != nil {
		t.Fatalf("create classification: %v", err)
	}

	review := classifications.TransitionCommand{Status: classifications.StatusReviewed}
	approve := classifications.TransitionCommand{Status: classifications.StatusApproved}

	if _, err := sys.Transition(ctx, c.ID, review, reviewer); !errors.Is(err, classifications.ErrInvalidStatus) {
		t.Fatalf("review unclassified: err = %v, want ErrInvalidStatus", err)
	}

	if err := classifications.SetNumber(ctx, db, c.ID, "QC-ORD-2026-0001", clockNow()); err != nil {
		t.Fatalf("SetNumber: %v", err)
	}

	if _, err := sys.Transition(ctx, c.ID, approve, reviewer); !errors.Is(err, classifications.ErrInvalidStatus) {
		t.Fatalf("approve classified: err = %v, want ErrInvalidStatus", err)
	}

	got, err := sys.Transition(ctx, c.ID, review, reviewer)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if got.Status != classifications.StatusReviewed {
		t.Errorf("Status = %q, want reviewed", got.Status)
	}

	got, err = sys.Transition(ctx, c.ID, approve, reviewer)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != classifications.StatusApproved {
		t.Errorf("Status = %q, want approved", got.Status)
	}

	back := classifications.TransitionCommand{Status: classifications.StatusClassified}
	if _, err := sys.Transition(ctx, c.ID, back, reviewer); !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("to classified: err = %v, want ErrInvalid", err)
	}

	if _, err := sys.Transition(ctx, uuid.New(), review, reviewer); !errors.Is(err, classifications.ErrNotFound) {
		t.Errorf("unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to classifications.Status
		want     bool
	}{
		{classifications.StatusClassified, classifications.StatusReviewed, true},
		{classifications.StatusReviewed, classifications.StatusApproved, true},
		{classifications.StatusUnclassified, classifications.StatusReviewed, false},
		{classifications.StatusClassified, classifications.StatusApproved, false},
		{classifications.StatusApproved, classifications.StatusReviewed, false},
		{classifications.StatusUnclassified, classifications.StatusClassified, false},
	}

	for _, tt := range tests {
		if got := classifications.CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestNumberHelpers(t *testing.T) {
	db := dbtest.Open(t)
	docs := documents.New(db, dbtest.Logger(), pages)
	sys := classifications.New(db, dbtest.Logger(), pages)
	ctx := context.Background()

	var records []*classifications.Classification
	for range 2 {
		doc, err := docs.Create(ctx, documents.CreateCommand{Type: documents.TypeOrdinance, Title: "Signage"})
		if err != nil {
			t.Fatalf("create document: %v", err)
		}
		c, err := sys.Create(ctx, classifications.CreateCommand{DocumentID: doc.ID, DocumentType: documents.TypeOrdinance})
		if err != nil {
			t.Fatalf("create classification: %v", err)
		}
		records = append(records, c)
	}
	a, b := records[0], records[1]

	if err := classifications.SetNumber(ctx, db, a.ID, "QC-ORD-2026-0001", clockNow()); err != nil {
		t.Fatalf("SetNumber: %v", err)
	}

	taken, err := classifications.NumberTaken(ctx, db, "QC-ORD-2026-0001", b.ID)
	if err != nil || !taken {
		t.Errorf("NumberTaken for other record = %v, %v; want true", taken, err)
	}

	taken, err = classifications.NumberTaken(ctx, db, "QC-ORD-2026-0001", a.ID)
	if err != nil || taken {
		t.Errorf("NumberTaken excluding holder = %v, %v; want false", taken, err)
	}

	err = classifications.SetNumber(ctx, db, b.ID, "QC-ORD-2026-0001", clockNow())
	if !errors.Is(err, classifications.ErrDuplicate) {
		t.Errorf("SetNumber duplicate: err = %v, want ErrDuplicate", err)
	}

	if err := classifications.Lock(ctx, db, uuid.New(), clockNow()); !errors.Is(err, classifications.ErrNotFound) {
		t.Errorf("Lock unknown: err = %v, want ErrNotFound", err)
	}

	numbered := true
	result, err := sys.List(ctx, pagination.PageRequest{}, classifications.Filters{Numbered: &numbered})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 1 || result.Data[0].ID != a.ID {
		t.Errorf("numbered records = %+v, want only %s", result.Data, a.ID)
	}

	classified := classifications.StatusClassified
	result, err = sys.List(ctx, pagination.PageRequest{}, classifications.Filters{Status: &classified})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("classified records = %d, want 1", result.Total)
	}
}

func clockNow() time.Time {
	return time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
}

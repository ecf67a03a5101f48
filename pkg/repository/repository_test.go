package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/JaimeStill/docket/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

type config struct {
	Prefix   string
	Sequence int64
}

func scanConfig(s repository.Scanner) (config, error) {
	var c config
	err := s.Scan(&c.Prefix, &c.Sequence)
	return c, err
}

func open(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE configs (prefix TEXT PRIMARY KEY, sequence INTEGER NOT NULL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func TestWithTx(t *testing.T) {
	db := open(t)
	ctx := context.Background()

	got, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (config, error) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO configs (prefix, sequence) VALUES ($1, $2)`, "QC-ORD", 1); err != nil {
			return config{}, err
		}
		return repository.QueryOne(ctx, tx,
			`UPDATE configs SET sequence = sequence + 1 WHERE prefix = $1 RETURNING prefix, sequence - 1`,
			[]any{"QC-ORD"}, scanConfig)
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if got.Sequence != 1 {
		t.Errorf("allocated %d, want 1", got.Sequence)
	}

	_, err = repository.WithTx(ctx, db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, `UPDATE configs SET sequence = 99`); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, errDuplicate
	})
	if !errors.Is(err, errDuplicate) {
		t.Fatalf("err = %v, want the callback error", err)
	}

	c, err := repository.QueryOne(ctx, db, `SELECT prefix, sequence FROM configs WHERE prefix = $1`, []any{"QC-ORD"}, scanConfig)
	if err != nil {
		t.Fatalf("QueryOne: %v", err)
	}
	if c.Sequence != 2 {
		t.Errorf("sequence = %d, want 2 after rollback", c.Sequence)
	}
}

func TestQueryHelpers(t *testing.T) {
	db := open(t)
	ctx := context.Background()

	for _, p := range []string{"QC-ORD", "QC-RES"} {
		if _, err := db.Exec(`INSERT INTO configs (prefix, sequence) VALUES ($1, 1)`, p); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := repository.QueryMany(ctx, db, `SELECT prefix, sequence FROM configs ORDER BY prefix`, nil, scanConfig)
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}
	if len(all) != 2 || all[1].Prefix != "QC-RES" {
		t.Errorf("QueryMany = %+v", all)
	}

	none, err := repository.QueryMany(ctx, db, `SELECT prefix, sequence FROM configs WHERE prefix = $1`, []any{"X"}, scanConfig)
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("QueryMany empty = %v, %v", none, err)
	}

	ok, err := repository.Exists(ctx, db, `SELECT 1 FROM configs WHERE prefix = $1`, "QC-RES")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
	ok, err = repository.Exists(ctx, db, `SELECT 1 FROM configs WHERE prefix = $1`, "X")
	if err != nil || ok {
		t.Errorf("Exists missing = %v, %v", ok, err)
	}

	if err := repository.ExecExpectOne(ctx, db, `UPDATE configs SET sequence = 5 WHERE prefix = $1`, "QC-ORD"); err != nil {
		t.Errorf("ExecExpectOne: %v", err)
	}
	if err := repository.ExecExpectOne(ctx, db, `UPDATE configs SET sequence = 5 WHERE prefix = $1`, "X"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ExecExpectOne missing = %v, want sql.ErrNoRows", err)
	}
}

func TestMapError(t *testing.T) {
	db := open(t)
	ctx := context.Background()

	if _, err := db.Exec(`INSERT INTO configs (prefix, sequence) VALUES ('QC-ORD', 1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, dupErr := db.ExecContext(ctx, `INSERT INTO configs (prefix, sequence) VALUES ('QC-ORD', 2)`)
	if dupErr == nil {
		t.Fatal("duplicate insert succeeded")
	}

	_, missErr := repository.QueryOne(ctx, db, `SELECT prefix, sequence FROM configs WHERE prefix = $1`, []any{"X"}, scanConfig)

	other := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", missErr, errNotFound},
		{"unique", dupErr, errDuplicate},
		{"other", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.MapError(tt.err, errNotFound, errDuplicate); !errors.Is(got, tt.want) && got != tt.want {
				t.Errorf("MapError = %v, want %v", got, tt.want)
			}
		})
	}

	if !repository.IsUniqueViolation(dupErr) {
		t.Error("IsUniqueViolation(dup) = false")
	}
}

package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/pagination"
	"github.com/JaimeStill/docket/pkg/query"
	"github.com/JaimeStill/docket/pkg/repository"
)

// record appends e to the numbering log through q, the assignment's transaction.
func record(ctx context.Context, q repository.Querier, e LogEntry) (LogEntry, error) {
	sqlText := `
		INSERT INTO numbering_logs(
			document_id, document_type, classification_id, old_number, new_number,
			scheme, reason, actor_id, actor_role, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + logColumns

	args := []any{
		e.DocumentID, string(e.DocumentType), e.ClassificationID, e.OldNumber, e.NewNumber,
		string(e.Scheme), e.Reason, e.ActorID, e.ActorRole, e.CreatedAt,
	}

	entry, err := repository.QueryOne(ctx, q, sqlText, args, scanLogEntry)
	if err != nil {
		return LogEntry{}, fmt.Errorf("record numbering log: %w", err)
	}
	return entry, nil
}

// History returns the audit entries of ref, newest first.
func (r *repo) History(
	ctx context.Context,
	ref documents.Ref,
	page pagination.PageRequest,
) (*pagination.PageResult[LogEntry], error) {
	if !ref.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", documents.ErrInvalidType, ref.Type)
	}
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(logProjection, logSort...).
		WhereEquals("DocumentType", string(ref.Type)).
		WhereEquals("DocumentID", ref.ID)

	return r.pageLogs(ctx, qb, page)
}

func (r *repo) Logs(
	ctx context.Context,
	page pagination.PageRequest,
	filters LogFilters,
) (*pagination.PageResult[LogEntry], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(logProjection, logSort...).
		WhereSearch(page.Search, "NewNumber", "OldNumber", "Reason")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	return r.pageLogs(ctx, qb, page)
}

// LogsForYear returns every entry for documents of type t written during year
// in the configured location, oldest first.
func (r *repo) LogsForYear(ctx context.Context, t documents.Type, year int) ([]LogEntry, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, r.opts.Location).UTC()
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, r.opts.Location).UTC()

	q, args := query.
		NewBuilder(logProjection,
			query.SortField{Field: "CreatedAt"},
			query.SortField{Field: "ID"},
		).
		WhereEquals("DocumentType", string(t)).
		WhereOnOrAfter("CreatedAt", from).
		WhereBefore("CreatedAt", to).
		Build()

	entries, err := repository.QueryMany(ctx, r.db, q, args, scanLogEntry)
	if err != nil {
		return nil, fmt.Errorf("query numbering logs: %w", err)
	}
	return entries, nil
}

func (r *repo) pageLogs(
	ctx context.Context,
	qb *query.Builder,
	page pagination.PageRequest,
) (*pagination.PageResult[LogEntry], error) {
	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count numbering logs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	entries, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanLogEntry)
	if err != nil {
		return nil, fmt.Errorf("query numbering logs: %w", err)
	}

	result := pagination.NewPageResult(entries, total, page.Page, page.PageSize)
	return &result, nil
}

package documents

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/pkg/pagination"
	"github.com/JaimeStill/docket/pkg/query"
	"github.com/JaimeStill/docket/pkg/repository"
	"github.com/JaimeStill/docket/pkg/validation"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
		now:        time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	t Type,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projections[t], defaultSort).
		WhereSearch(page.Search, "Title", "Number")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count %s: %w", t.Table(), err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanner(t))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.Table(), err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, ref Ref) (*Document, error) {
	return Find(ctx, r.db, ref)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	now := r.now().UTC()
	q := fmt.Sprintf(`
		INSERT INTO %s(id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, %s, created_at, updated_at`,
		cmd.Type.Table(), cmd.Type.NumberColumn(),
	)

	args := []any{uuid.New(), cmd.Title, now, now}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, args, scanner(cmd.Type))
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "ref", d.Ref(), "title", d.Title)
	return &d, nil
}

// Find loads the document for ref through q, which may be a transaction.
func Find(ctx context.Context, q repository.Querier, ref Ref) (*Document, error) {
	if !ref.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, ref.Type)
	}

	sqlText, args := query.NewBuilder(projections[ref.Type]).BuildSingle("ID", ref.ID)

	d, err := repository.QueryOne(ctx, q, sqlText, args, scanner(ref.Type))
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

// SetNumber writes the official number column of the document for ref through e,
// normally the transaction that assigned the number. Returns ErrNotFound when
// the document row does not exist.
func SetNumber(ctx context.Context, e repository.Executor, ref Ref, number string, at time.Time) error {
	if !ref.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, ref.Type)
	}

	q := fmt.Sprintf(
		"UPDATE %s SET %s = $1, updated_at = $2 WHERE id = $3",
		ref.Type.Table(), ref.Type.NumberColumn(),
	)

	if err := repository.ExecExpectOne(ctx, e, q, number, at, ref.ID); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

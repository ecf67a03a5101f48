package classifications

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/auth"
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

// New creates a classification repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "classifications"),
		pagination: pagination,
		now:        time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Classification], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ReferenceNumber")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count classifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Classification, error) {
	return Find(ctx, r.db, id)
}

func (r *repo) FindByDocument(ctx context.Context, ref documents.Ref) (*Classification, error) {
	if !ref.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", documents.ErrInvalidType, ref.Type)
	}

	q, args := query.
		NewBuilder(projection).
		WhereEquals("DocumentType", string(ref.Type)).
		WhereEquals("DocumentID", ref.ID).
		BuildSingleOrNull()

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Classification, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	priority := cmd.PriorityLevel
	if priority == "" {
		priority = PriorityNormal
	}

	now := r.now().UTC()
	ref := documents.Ref{ID: cmd.DocumentID, Type: cmd.DocumentType}

	q := `
		INSERT INTO document_classifications(
			id, document_id, document_type, category_id, priority_level,
			status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, document_id, document_type, category_id, priority_level,
			reference_number, status, created_at, updated_at`

	args := []any{
		uuid.New(), cmd.DocumentID, string(cmd.DocumentType), cmd.CategoryID,
		string(priority), string(StatusUnclassified), now, now,
	}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Classification, error) {
		if _, err := documents.Find(ctx, tx, ref); err != nil {
			return Classification{}, err
		}
		return repository.QueryOne(ctx, tx, q, args, scanClassification)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("classification created", "id", c.ID, "ref", ref)
	return &c, nil
}

func (r *repo) Transition(
	ctx context.Context,
	id uuid.UUID,
	cmd TransitionCommand,
	actor auth.Actor,
) (*Classification, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	from := transitions[cmd.Status]
	now := r.now().UTC()

	q := `
		UPDATE document_classifications
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING id, document_id, document_type, category_id, priority_level,
			reference_number, status, created_at, updated_at`

	args := []any{string(cmd.Status), now, id, string(from)}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Classification, error) {
		current, err := Find(ctx, tx, id)
		if err != nil {
			return Classification{}, err
		}
		if !CanTransition(current.Status, cmd.Status) {
			return Classification{}, fmt.Errorf(
				"%w: %s to %s", ErrInvalidStatus, current.Status, cmd.Status,
			)
		}
		return repository.QueryOne(ctx, tx, q, args, scanClassification)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidStatus, ErrDuplicate)
	}

	r.logger.Info("classification transitioned",
		"id", c.ID,
		"status", c.Status,
		"actor_id", actor.ID,
	)
	return &c, nil
}

// Find loads a classification record through q, which may be a transaction.
func Find(ctx context.Context, q repository.Querier, id uuid.UUID) (*Classification, error) {
	sqlText, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, q, sqlText, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

// Lock claims the record's row for the rest of the transaction behind e by
// touching updated_at. Later reads in the same transaction observe the latest
// committed reference number. Returns ErrNotFound when no record exists.
func Lock(ctx context.Context, e repository.Executor, id uuid.UUID, at time.Time) error {
	err := repository.ExecExpectOne(ctx, e,
		"UPDATE document_classifications SET updated_at = $1 WHERE id = $2",
		at, id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

// NumberTaken reports whether any record other than excludeID holds number.
func NumberTaken(ctx context.Context, q repository.Querier, number string, excludeID uuid.UUID) (bool, error) {
	return repository.Exists(ctx, q,
		"SELECT 1 FROM document_classifications WHERE reference_number = $1 AND id <> $2",
		number, excludeID,
	)
}

// SetNumber stores number on the record and marks it classified. A unique index
// violation is returned as ErrDuplicate so callers can map it to their own conflict.
func SetNumber(ctx context.Context, e repository.Executor, id uuid.UUID, number string, at time.Time) error {
	err := repository.ExecExpectOne(ctx, e, `
		UPDATE document_classifications
		SET reference_number = $1, status = $2, updated_at = $3
		WHERE id = $4`,
		number, string(StatusClassified), at, id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

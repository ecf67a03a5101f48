package numbering

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/auth"
	"github.com/JaimeStill/docket/pkg/pagination"
	"github.com/JaimeStill/docket/pkg/query"
	"github.com/JaimeStill/docket/pkg/repository"
	"github.com/JaimeStill/docket/pkg/validation"
)

func (r *repo) FindConfig(ctx context.Context, key ConfigKey) (*Config, error) {
	c, err := findConfig(ctx, r.db, key)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) ListConfigs(
	ctx context.Context,
	page pagination.PageRequest,
	filters ConfigFilters,
) (*pagination.PageResult[Config], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(configProjection, configSort...).
		WhereSearch(page.Search, "Prefix", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count numbering configs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	configs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanConfig)
	if err != nil {
		return nil, fmt.Errorf("query numbering configs: %w", err)
	}

	result := pagination.NewPageResult(configs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) ConfigsForYear(ctx context.Context, t documents.Type, year int) ([]Config, error) {
	q, args := query.
		NewBuilder(configProjection, query.SortField{Field: "Prefix"}).
		WhereEquals("DocumentType", string(t)).
		WhereEquals("Year", year).
		Build()

	configs, err := repository.QueryMany(ctx, r.db, q, args, scanConfig)
	if err != nil {
		return nil, fmt.Errorf("query numbering configs: %w", err)
	}
	return configs, nil
}

// UpsertConfig inserts the sequence for cmd's key or replaces its sequence,
// pattern, and description in one statement. A sequence lower than the stored
// one is rejected so values already handed out cannot be issued again.
func (r *repo) UpsertConfig(ctx context.Context, actor auth.Actor, cmd UpsertCommand) (*Config, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	pattern := cmd.FormatPattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	now := r.opts.Now().UTC()

	q := `
		INSERT INTO numbering_configs(
			prefix, document_type, year, sequence, format_pattern, description,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (prefix, document_type, year) DO UPDATE
		SET sequence = EXCLUDED.sequence,
			format_pattern = EXCLUDED.format_pattern,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at
		WHERE numbering_configs.sequence <= EXCLUDED.sequence
		RETURNING ` + configColumns

	args := []any{
		cmd.Prefix, string(cmd.DocumentType), cmd.Year, cmd.Sequence,
		pattern, cmd.Description, now, now,
	}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanConfig)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.regressed(ctx, cmd.Key())
	}
	if err != nil {
		return nil, fmt.Errorf("upsert numbering config %s: %w", cmd.Key(), err)
	}

	r.logger.Info("numbering config upserted",
		"key", c.Key(),
		"sequence", c.Sequence,
		"actor_id", actor.ID,
	)
	return &c, nil
}

// regressed builds the validation error for an upsert the stored row refused.
func (r *repo) regressed(ctx context.Context, key ConfigKey) error {
	current, err := findConfig(ctx, r.db, key)
	if err != nil {
		return err
	}
	return validation.Failed("sequence", "gte", strconv.FormatInt(current.Sequence, 10))
}

func findConfig(ctx context.Context, q repository.Querier, key ConfigKey) (Config, error) {
	sqlText, args := query.
		NewBuilder(configProjection).
		WhereEquals("Prefix", key.Prefix).
		WhereEquals("DocumentType", string(key.DocumentType)).
		WhereEquals("Year", key.Year).
		BuildSingleOrNull()

	c, err := repository.QueryOne(ctx, q, sqlText, args, scanConfig)
	if err != nil {
		return Config{}, repository.MapError(err, fmt.Errorf("%w: %s", ErrConfigNotFound, key), ErrConflict)
	}
	return c, nil
}

// incrementAndFetch advances the sequence for key and returns the value it held
// before the increment along with the key's format pattern. The UPDATE holds
// the row lock until the enclosing transaction ends, so concurrent allocations
// for the same key serialize. Returns ErrConfigNotFound when key has no row.
func incrementAndFetch(
	ctx context.Context,
	q repository.Querier,
	key ConfigKey,
	at time.Time,
) (int64, string, error) {
	var (
		seq     int64
		pattern string
	)

	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

	err := q.QueryRowContext(ctx, `
		UPDATE numbering_configs
		SET sequence = sequence + 1, last_used_date = $1, updated_at = $2
		WHERE prefix = $3 AND document_type = $4 AND year = $5
		RETURNING sequence - 1, format_pattern`,
		day, at.UTC(), key.Prefix, string(key.DocumentType), key.Year,
	).Scan(&seq, &pattern)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", fmt.Errorf("%w: %s", ErrConfigNotFound, key)
	}
	if err != nil {
		return 0, "", fmt.Errorf("increment sequence %s: %w", key, err)
	}
	return seq, pattern, nil
}

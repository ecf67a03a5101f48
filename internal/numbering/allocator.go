package numbering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/repository"
)

// allocation is a reference number drawn for an auto assignment.
type allocation struct {
	number   string
	fallback bool
}

// allocate draws the next number for t at the instant at, consuming a sequence
// value through q. Without a registered sequence it falls back to a
// date+random number unless RequireConfig is set.
func (r *repo) allocate(ctx context.Context, q repository.Querier, t documents.Type, at time.Time) (allocation, error) {
	key := ConfigKey{Prefix: t.Prefix(), DocumentType: t, Year: at.Year()}

	seq, pattern, err := incrementAndFetch(ctx, q, key, at)
	if errors.Is(err, ErrConfigNotFound) {
		if r.opts.RequireConfig {
			return allocation{}, err
		}
		return allocation{
			number:   FormatFallback(key.Prefix, at, r.opts.Random()),
			fallback: true,
		}, nil
	}
	if err != nil {
		return allocation{}, err
	}

	return allocation{number: Render(pattern, key.Prefix, key.Year, at, seq)}, nil
}

// Preview reports the number the next auto allocation for t would produce
// without consuming a sequence value.
func (r *repo) Preview(ctx context.Context, t documents.Type) (*Preview, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", documents.ErrInvalidType, t)
	}

	at := r.now()
	key := ConfigKey{Prefix: t.Prefix(), DocumentType: t, Year: at.Year()}

	c, err := findConfig(ctx, r.db, key)
	if errors.Is(err, ErrConfigNotFound) && !r.opts.RequireConfig {
		return &Preview{
			Key:             key,
			ReferenceNumber: fmt.Sprintf("%s-%s-RRRR", key.Prefix, at.Format("2006-01-02")),
			Fallback:        true,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return &Preview{
		Key:             key,
		ReferenceNumber: Render(c.FormatPattern, key.Prefix, key.Year, at, c.Sequence),
	}, nil
}

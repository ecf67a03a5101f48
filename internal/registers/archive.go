package registers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/internal/numbering"
	"github.com/JaimeStill/docket/pkg/auth"
	"github.com/JaimeStill/docket/pkg/storage"
	"github.com/JaimeStill/docket/pkg/validation"
)

const (
	contentType = "application/json"
	minYear     = 1900
	maxYear     = 9999
)

type archive struct {
	numbering numbering.System
	store     storage.System
	logger    *slog.Logger
	roles     []string
	now       func() time.Time
}

// New creates the register system. A nil store leaves every operation
// reporting ErrUnavailable.
func New(
	num numbering.System,
	store storage.System,
	logger *slog.Logger,
	roles []string,
) System {
	return &archive{
		numbering: num,
		store:     store,
		logger:    logger.With("system", "registers"),
		roles:     roles,
		now:       time.Now,
	}
}

func (a *archive) Handler() *Handler {
	return NewHandler(a, a.logger, a.roles)
}

// Export assembles the register for t and year and replaces the archived copy.
func (a *archive) Export(ctx context.Context, actor auth.Actor, t documents.Type, year int) (*Register, error) {
	if err := a.check(t, year); err != nil {
		return nil, err
	}

	reg := Register{
		DocumentType: t,
		Year:         year,
		GeneratedAt:  a.now().UTC(),
		GeneratedBy:  actor.ID,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		configs, err := a.numbering.ConfigsForYear(gctx, t, year)
		if err != nil {
			return fmt.Errorf("gather configs: %w", err)
		}
		reg.Configs = configs
		return nil
	})

	g.Go(func() error {
		entries, err := a.numbering.LogsForYear(gctx, t, year)
		if err != nil {
			return fmt.Errorf("gather numbering logs: %w", err)
		}
		reg.Entries = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	reg.Issued = issued(reg.Entries)

	body, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode register: %w", err)
	}

	key := Key(t, year)
	if err := a.store.Upload(ctx, key, bytes.NewReader(body), contentType); err != nil {
		return nil, err
	}

	a.logger.Info("register exported",
		"key", key,
		"configs", len(reg.Configs),
		"entries", len(reg.Entries),
		"actor_id", actor.ID,
	)
	return &reg, nil
}

func (a *archive) Find(ctx context.Context, t documents.Type, year int) (*Register, error) {
	if err := a.check(t, year); err != nil {
		return nil, err
	}

	rc, err := a.store.Download(ctx, Key(t, year))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()

	var reg Register
	if err := json.NewDecoder(rc).Decode(&reg); err != nil {
		return nil, fmt.Errorf("decode register %s: %w", Key(t, year), err)
	}
	return &reg, nil
}

func (a *archive) Delete(ctx context.Context, actor auth.Actor, t documents.Type, year int) error {
	if err := a.check(t, year); err != nil {
		return err
	}

	key := Key(t, year)
	if err := a.store.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	a.logger.Info("register deleted", "key", key, "actor_id", actor.ID)
	return nil
}

func (a *archive) check(t documents.Type, year int) error {
	if a.store == nil {
		return ErrUnavailable
	}
	if !t.Valid() {
		return fmt.Errorf("%w: %q", documents.ErrInvalidType, t)
	}
	if year < minYear {
		return validation.Failed("year", "gte", strconv.Itoa(minYear))
	}
	if year > maxYear {
		return validation.Failed("year", "lte", strconv.Itoa(maxYear))
	}
	return nil
}

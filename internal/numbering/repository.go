package numbering

import (
	"database/sql"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/JaimeStill/docket/pkg/pagination"
)

// DefaultBulkLimit caps the items of one bulk assignment when Options leaves it unset.
const DefaultBulkLimit = 100

// DefaultRoles may change numbering state when Options leaves Roles unset.
var DefaultRoles = []string{"admin", "records_officer"}

// Options tunes allocation. Zero values select the defaults.
type Options struct {
	// Location decides the current year and the fallback date. Defaults to UTC.
	Location *time.Location
	// RequireConfig rejects auto allocation without a registered sequence
	// instead of falling back to date+random numbers.
	RequireConfig bool
	BulkLimit     int
	Roles         []string

	// Now and Random replace the clock and the fallback suffix source.
	// Random must return a value in [1000, 9999].
	Now    func() time.Time
	Random func() int
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.BulkLimit <= 0 {
		o.BulkLimit = DefaultBulkLimit
	}
	if len(o.Roles) == 0 {
		o.Roles = DefaultRoles
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Random == nil {
		o.Random = func() int { return 1000 + rand.IntN(9000) }
	}
	return o
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	opts       Options
}

// New creates the numbering system over db.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	opts Options,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "numbering"),
		pagination: pagination,
		opts:       opts.withDefaults(),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination, r.opts.Roles)
}

// now returns the current instant in the configured location.
func (r *repo) now() time.Time {
	return r.opts.Now().In(r.opts.Location)
}

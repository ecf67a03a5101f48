package numbering

import (
	"context"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/auth"
	"github.com/JaimeStill/docket/pkg/pagination"
)

// System defines the public contract for reference numbering and its audit trail.
type System interface {
	Handler() *Handler

	FindConfig(ctx context.Context, key ConfigKey) (*Config, error)
	ListConfigs(ctx context.Context, page pagination.PageRequest, filters ConfigFilters) (*pagination.PageResult[Config], error)
	UpsertConfig(ctx context.Context, actor auth.Actor, cmd UpsertCommand) (*Config, error)
	ConfigsForYear(ctx context.Context, t documents.Type, year int) ([]Config, error)

	Preview(ctx context.Context, t documents.Type) (*Preview, error)
	Assign(ctx context.Context, actor auth.Actor, cmd AssignCommand) (*Assignment, error)
	BulkAssign(ctx context.Context, actor auth.Actor, cmd BulkAssignCommand) (*BulkResult, error)

	History(ctx context.Context, ref documents.Ref, page pagination.PageRequest) (*pagination.PageResult[LogEntry], error)
	Logs(ctx context.Context, page pagination.PageRequest, filters LogFilters) (*pagination.PageResult[LogEntry], error)
	LogsForYear(ctx context.Context, t documents.Type, year int) ([]LogEntry, error)
}

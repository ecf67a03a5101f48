package documents

import (
	"context"

	"github.com/JaimeStill/docket/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		t Type,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, ref Ref) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
}

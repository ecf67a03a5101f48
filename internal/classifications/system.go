package classifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/auth"
	"github.com/JaimeStill/docket/pkg/pagination"
)

// System defines the public contract for classification record operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Classification], error)
	Find(ctx context.Context, id uuid.UUID) (*Classification, error)
	FindByDocument(ctx context.Context, ref documents.Ref) (*Classification, error)
	Create(ctx context.Context, cmd CreateCommand) (*Classification, error)
	Transition(ctx context.Context, id uuid.UUID, cmd TransitionCommand, actor auth.Actor) (*Classification, error)
}

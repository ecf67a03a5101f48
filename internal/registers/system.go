package registers

import (
	"context"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/auth"
)

// System defines the public contract for numbering register archives.
type System interface {
	Handler() *Handler

	Export(ctx context.Context, actor auth.Actor, t documents.Type, year int) (*Register, error)
	Find(ctx context.Context, t documents.Type, year int) (*Register, error)
	Delete(ctx context.Context, actor auth.Actor, t documents.Type, year int) error
}

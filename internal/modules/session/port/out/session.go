package out

import (
	"context"

	"cxassist/internal/modules/session/domain"
)

type IdentityStore interface {
	Save(ctx context.Context, identity domain.Identity) error
	Load(ctx context.Context) (domain.Identity, error)
	Clear(ctx context.Context) error
}

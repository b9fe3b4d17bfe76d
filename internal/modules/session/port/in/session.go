package in

import (
	"context"

	"cxassist/internal/modules/session/dto"
)

// Usecase is the explicit session context handed to every screen that needs
// the identity. Nothing else reads or writes the persisted value.
type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.IdentityOutput, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (dto.IdentityOutput, error)
	Check(ctx context.Context) (dto.GateOutput, error)
	IsAuthorized(ctx context.Context, domainSuffix string) (bool, error)
}

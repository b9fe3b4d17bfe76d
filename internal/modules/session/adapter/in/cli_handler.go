package in

import (
	"context"

	sessiondto "cxassist/internal/modules/session/dto"
	sessionin "cxassist/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, email string) (sessiondto.IdentityOutput, error) {
	return h.usecase.Login(ctx, sessiondto.LoginInput{Email: email})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (sessiondto.IdentityOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Check(ctx context.Context) (sessiondto.GateOutput, error) {
	return h.usecase.Check(ctx)
}

func (h CLIHandler) IsAuthorized(ctx context.Context, suffix string) (bool, error) {
	return h.usecase.IsAuthorized(ctx, suffix)
}

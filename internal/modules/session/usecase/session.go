package usecase

import (
	"context"

	"cxassist/internal/modules/session/domain"
	sessiondto "cxassist/internal/modules/session/dto"
	sessionin "cxassist/internal/modules/session/port/in"
	"cxassist/internal/modules/session/service"
	apperrors "cxassist/internal/platform/errors"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Login(ctx context.Context, input sessiondto.LoginInput) (sessiondto.IdentityOutput, error) {
	identity, err := i.svc.Login(ctx, input.Email)
	if err != nil {
		return sessiondto.IdentityOutput{}, err
	}
	return sessiondto.IdentityOutput{Email: identity.Email}, nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.svc.Logout(ctx)
}

func (i *Interactor) Current(ctx context.Context) (sessiondto.IdentityOutput, error) {
	identity, err := i.svc.Current(ctx)
	if err != nil {
		return sessiondto.IdentityOutput{}, err
	}
	return sessiondto.IdentityOutput{Email: identity.Email}, nil
}

func (i *Interactor) Check(ctx context.Context) (sessiondto.GateOutput, error) {
	identity, decision, err := i.svc.Gate(ctx)
	if err != nil {
		return sessiondto.GateOutput{}, err
	}
	return sessiondto.GateOutput{
		Allowed: decision.Verdict == domain.Allow,
		Cleared: decision.Clear,
		Email:   identity.Email,
	}, nil
}

// IsAuthorized checks the stored identity against an arbitrary suffix without
// mutating the store.
func (i *Interactor) IsAuthorized(ctx context.Context, domainSuffix string) (bool, error) {
	identity, err := i.svc.Current(ctx)
	if err != nil {
		if err == apperrors.ErrNoIdentity {
			return false, nil
		}
		return false, err
	}
	return domain.Evaluate(identity, true, domainSuffix).Verdict == domain.Allow, nil
}

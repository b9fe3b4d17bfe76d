package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cxassist/internal/modules/session/domain"
	sessionout "cxassist/internal/modules/session/port/out"
	apperrors "cxassist/internal/platform/errors"
)

type SessionService struct {
	suffix string
	store  sessionout.IdentityStore
	logger *zap.Logger
}

func NewSessionService(suffix string, store sessionout.IdentityStore, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{suffix: suffix, store: store, logger: logger}
}

func (s *SessionService) Suffix() string { return s.suffix }

func (s *SessionService) Login(ctx context.Context, email string) (domain.Identity, error) {
	identity := domain.Identity{Email: strings.TrimSpace(email)}
	if !identity.Present() {
		return domain.Identity{}, fmt.Errorf("email is required: %w", apperrors.ErrInvalidInput)
	}
	if !identity.HasSuffix(s.suffix) {
		s.logger.Info("login rejected", zap.String("email", identity.Email))
		return domain.Identity{}, apperrors.AccessDeniedError{Suffix: s.suffix}
	}
	if err := s.store.Save(ctx, identity); err != nil {
		return domain.Identity{}, err
	}
	s.logger.Info("login accepted", zap.String("email", identity.Email))
	return identity, nil
}

// Gate loads the stored identity and applies the gate rule, clearing the store
// when the rule asks for it.
func (s *SessionService) Gate(ctx context.Context) (domain.Identity, domain.Decision, error) {
	identity, err := s.store.Load(ctx)
	present := true
	if err != nil {
		if !errors.Is(err, apperrors.ErrNoIdentity) {
			return domain.Identity{}, domain.Decision{}, err
		}
		present = false
	}
	decision := domain.Evaluate(identity, present, s.suffix)
	if decision.Clear {
		if err := s.store.Clear(ctx); err != nil {
			return domain.Identity{}, domain.Decision{}, err
		}
		s.logger.Info("cleared identity outside allowed domain", zap.String("email", identity.Email))
		identity = domain.Identity{}
	}
	return identity, decision, nil
}

func (s *SessionService) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *SessionService) Current(ctx context.Context) (domain.Identity, error) {
	return s.store.Load(ctx)
}

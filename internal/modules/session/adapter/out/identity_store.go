package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cxassist/internal/modules/session/domain"
	sessionout "cxassist/internal/modules/session/port/out"
	apperrors "cxassist/internal/platform/errors"
)

type FileIdentityStore struct {
	path string
}

func NewFileIdentityStore(path string) sessionout.IdentityStore {
	return &FileIdentityStore{path: path}
}

type identityFile struct {
	SchemaVersion int    `json:"schema_version"`
	UserEmail     string `json:"user_email"`
}

func (s *FileIdentityStore) Save(_ context.Context, identity domain.Identity) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}
	payload, err := json.MarshalIndent(identityFile{SchemaVersion: domain.SchemaVersion, UserEmail: identity.Email}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}
	return nil
}

func (s *FileIdentityStore) Load(_ context.Context) (domain.Identity, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Identity{}, apperrors.ErrNoIdentity
		}
		return domain.Identity{}, fmt.Errorf("read identity: %w", err)
	}
	stored := identityFile{}
	if err := json.Unmarshal(payload, &stored); err != nil {
		return domain.Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	if stored.UserEmail == "" {
		return domain.Identity{}, apperrors.ErrNoIdentity
	}
	return domain.Identity{Email: stored.UserEmail}, nil
}

func (s *FileIdentityStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}

// Package auth validates credentials, binds authenticated identities to
// sessions, and runs the password-change workflow.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ddc-crew/tournament-planner/internal/credentials"
	"github.com/ddc-crew/tournament-planner/internal/domain"
	"github.com/ddc-crew/tournament-planner/internal/email"
	"github.com/ddc-crew/tournament-planner/internal/logging"
	"github.com/ddc-crew/tournament-planner/internal/password"
)

// fallbackHash is a valid Argon2id hash of a throwaway password. When a
// username does not exist we still verify against it so that "unknown user"
// and "wrong password" take indistinguishable time.
const fallbackHash = "$argon2id$v=19$m=15000,t=2,p=1$" +
	"gZiV/M1gPc22ElAH/Jh1Hw$CWOrkoo7oJBQ/iyh7uJ0LO2aLEfrHwTWllSAxT0zRno"

// CredentialStore is the persistence surface the authentication core
// consumes. *credentials.Repository implements it.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*credentials.Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (*credentials.Record, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, newHash string) error
}

// Notifier delivers account notifications. *email.Client implements it.
type Notifier interface {
	Send(ctx context.Context, msg email.Message) error
}

// Service handles credential validation and the password-change workflow.
type Service struct {
	store    CredentialStore
	hasher   *password.Hasher
	notifier Notifier
	logger   *logging.Logger
}

func NewService(store CredentialStore, hasher *password.Hasher, notifier Notifier, logger *logging.Logger) *Service {
	return &Service{
		store:    store,
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
	}
}

// Authenticate validates a username/password pair and returns the account's
// user id. User-correctable failures are always ErrInvalidCredentials;
// anything else is a storage fault.
func (s *Service) Authenticate(ctx context.Context, username domain.UserName, pass string) (uuid.UUID, error) {
	rec, err := s.store.GetByUsername(ctx, username.String())
	if errors.Is(err, credentials.ErrNotFound) {
		// Burn the same hashing work as the known-user path.
		_ = s.hasher.Verify(pass, fallbackHash)
		return uuid.Nil, ErrInvalidCredentials
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("look up credentials: %w", err)
	}

	if err := s.hasher.Verify(pass, rec.PasswordHash); err != nil {
		return uuid.Nil, ErrInvalidCredentials
	}

	return rec.UserID, nil
}

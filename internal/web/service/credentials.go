package service

import (
	"context"
	"errors"
	"strings"

	"github.com/whisperlabs/whisperwall/internal/web/domain"
	"github.com/whisperlabs/whisperwall/internal/web/store"
	"github.com/whisperlabs/whisperwall/pkg/cryptox"
	"github.com/whisperlabs/whisperwall/pkg/idx"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

var (
	// ErrUsernameTaken is returned by Register when the username exists.
	ErrUsernameTaken = errors.New("username_taken")

	// ErrInvalidCredentials covers unknown usernames, accounts without a
	// password, and password mismatches. Callers must not distinguish.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrUserNotFound is returned when an authenticated user id no longer
	// resolves to a record.
	ErrUserNotFound = errors.New("user_not_found")
)

// CredentialService handles local username/password registration and login.
type CredentialService struct {
	Store store.Store
}

// Register derives a salted argon2id hash from the plaintext password and
// persists a new local user. Returns ErrUsernameTaken when the username is
// already in use; no record is created in that case.
func (s *CredentialService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: &hash,
	}

	// Check-then-insert under one transaction; the unique index is the
	// backstop for anything that slips between the two statements.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByUsername(ctx, username)
		if err == nil {
			return ErrUsernameTaken
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Users().CreateUser(ctx, user)
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		err = ErrUsernameTaken
	}
	if err != nil {
		return domain.User{}, err
	}

	created, err := s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", created.ID)
	return created, nil
}

// Verify looks up the user by username and compares the supplied password
// against the stored hash. It has no side effects on failure.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	// External-only accounts have no password to check against.
	if user.PasswordHash == nil {
		return domain.User{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, *user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

package service

import (
	"context"
	"errors"

	"github.com/whisperlabs/whisperwall/internal/web/domain"
	"github.com/whisperlabs/whisperwall/internal/web/store"
)

// SecretService owns the shared board: one secret per user, overwritten
// wholesale on each submission. Concurrent submissions by the same user are
// last-write-wins.
type SecretService struct {
	Store store.Store
}

// Share overwrites the user's current secret. Returns ErrUserNotFound when
// the id no longer resolves to a record (stale session).
func (s *SecretService) Share(ctx context.Context, userID, secret string) error {
	err := s.Store.Users().UpdateSecret(ctx, userID, secret)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// ListShared returns every user that has shared a secret, newest first.
func (s *SecretService) ListShared(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsersWithSecrets(ctx)
}

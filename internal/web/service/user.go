package service

import (
	"context"
	"errors"

	"github.com/whisperlabs/whisperwall/internal/web/domain"
	"github.com/whisperlabs/whisperwall/internal/web/store"
)

type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id. Session restore re-reads the record on
// every request so profile changes are visible without re-authentication.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/whisperlabs/whisperwall/internal/web/domain"
	"github.com/whisperlabs/whisperwall/internal/web/store"
	"github.com/whisperlabs/whisperwall/pkg/idx"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

// ErrMissingSubject is returned when the identity provider callback did not
// carry a stable subject id.
var ErrMissingSubject = errors.New("missing_subject")

// FederatedService resolves externally verified identities to local user
// records. The provider handshake itself happens upstream; this service only
// consumes the already-verified subject id.
type FederatedService struct {
	Store store.Store
}

// FindOrCreate returns the user whose google_id matches subjectID, creating
// one on first login. Absence always resolves to creation; the only failure
// modes are store errors. The username is set to the subject id so the
// uniqueness invariant holds without a username of its own.
func (s *FederatedService) FindOrCreate(ctx context.Context, subjectID string) (domain.User, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return domain.User{}, ErrMissingSubject
	}

	user, err := s.Store.Users().GetUserByGoogleID(ctx, subjectID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	created := domain.User{
		ID:       idx.New().String(),
		Username: subjectID,
		GoogleID: &subjectID,
	}
	err = s.Store.Users().CreateUser(ctx, created)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race against a concurrent first login; the winner's record
		// is the canonical one.
		return s.Store.Users().GetUserByGoogleID(ctx, subjectID)
	}
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("external user created", "user_id", created.ID)
	return s.Store.Users().GetUserByID(ctx, created.ID)
}

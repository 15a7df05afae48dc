package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/whisperlabs/whisperwall/internal/web/domain"
)

func TestFederatedService_FindOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("first login creates the account", func(t *testing.T) {
		st := newTestStore(t)
		svc := &FederatedService{Store: st}

		user, err := svc.FindOrCreate(ctx, "108204385300259684732")
		require.NoError(t, err)
		require.NotEmpty(t, user.ID)
		require.NotNil(t, user.GoogleID)
		require.Equal(t, "108204385300259684732", *user.GoogleID)
		require.Nil(t, user.PasswordHash)
		require.Equal(t, domain.AccountExternal, user.Kind())
	})

	t.Run("repeat logins resolve to the same account", func(t *testing.T) {
		st := newTestStore(t)
		svc := &FederatedService{Store: st}

		first, err := svc.FindOrCreate(ctx, "sub-42")
		require.NoError(t, err)

		second, err := svc.FindOrCreate(ctx, "sub-42")
		require.NoError(t, err)
		require.Equal(t, first.ID, second.ID)

		count, err := st.Users().CountUsers(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 1, count, "a returning subject must not get a second record")
	})

	t.Run("distinct subjects get distinct accounts", func(t *testing.T) {
		st := newTestStore(t)
		svc := &FederatedService{Store: st}

		a, err := svc.FindOrCreate(ctx, "sub-a")
		require.NoError(t, err)
		b, err := svc.FindOrCreate(ctx, "sub-b")
		require.NoError(t, err)
		require.NotEqual(t, a.ID, b.ID)
	})

	t.Run("empty subject is rejected", func(t *testing.T) {
		svc := &FederatedService{Store: newTestStore(t)}

		_, err := svc.FindOrCreate(ctx, "")
		require.ErrorIs(t, err, ErrMissingSubject)
	})
}

package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/whisperlabs/whisperwall/internal/web/domain"
	"github.com/whisperlabs/whisperwall/internal/web/store"
	"github.com/whisperlabs/whisperwall/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func strptr(s string) *string { return &s }

func localUser(username string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: strptr("$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"),
	}
}

func TestUsersRepo_CreateAndGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	u := localUser("alice")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	t.Run("by id", func(t *testing.T) {
		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, "alice", got.Username)
		require.NotNil(t, got.PasswordHash)
		require.Nil(t, got.GoogleID)
		require.Nil(t, got.Secret)
		require.False(t, got.CreatedAt.IsZero())
		require.False(t, got.UpdatedAt.IsZero())
	})

	t.Run("by username", func(t *testing.T) {
		got, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := st.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := st.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersRepo_GoogleID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	u := domain.User{
		ID:       idx.New().String(),
		Username: "108204385300259684732",
		GoogleID: strptr("108204385300259684732"),
	}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	got, err := st.Users().GetUserByGoogleID(ctx, "108204385300259684732")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Nil(t, got.PasswordHash)

	_, err = st.Users().GetUserByGoogleID(ctx, "999999")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersRepo_UniqueConstraints(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Users().CreateUser(ctx, localUser("bob")))

	t.Run("duplicate username", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, localUser("bob"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate google id", func(t *testing.T) {
		first := domain.User{ID: idx.New().String(), Username: "g-1", GoogleID: strptr("sub-1")}
		require.NoError(t, st.Users().CreateUser(ctx, first))

		dup := domain.User{ID: idx.New().String(), Username: "g-2", GoogleID: strptr("sub-1")}
		err := st.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestUsersRepo_UpdateSecret(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	u := localUser("carol")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	t.Run("sets and overwrites", func(t *testing.T) {
		require.NoError(t, st.Users().UpdateSecret(ctx, u.ID, "first secret"))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "first secret", got.SecretText())

		require.NoError(t, st.Users().UpdateSecret(ctx, u.ID, "second secret"))

		got, err = st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "second secret", got.SecretText(),
			"a new secret replaces the old one")
	})

	t.Run("unknown user", func(t *testing.T) {
		err := st.Users().UpdateSecret(ctx, idx.New().String(), "ghost")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersRepo_ListUsersWithSecrets(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	withSecret := localUser("dana")
	require.NoError(t, st.Users().CreateUser(ctx, withSecret))
	require.NoError(t, st.Users().UpdateSecret(ctx, withSecret.ID, "dana's secret"))

	withoutSecret := localUser("erin")
	require.NoError(t, st.Users().CreateUser(ctx, withoutSecret))

	users, err := st.Users().ListUsersWithSecrets(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1, "users without a secret must not be listed")
	require.Equal(t, withSecret.ID, users[0].ID)
	require.Equal(t, "dana's secret", users[0].SecretText())
}

func TestUsersRepo_CountUsers(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	count, err := st.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, st.Users().CreateUser(ctx, localUser("frank")))
	require.NoError(t, st.Users().CreateUser(ctx, localUser("grace")))

	count, err = st.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestStore_WithTx(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		u := localUser("holly")
		err := st.WithTx(ctx, func(tx store.Tx) error {
			return tx.Users().CreateUser(ctx, u)
		})
		require.NoError(t, err)

		_, err = st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		u := localUser("ivan")
		boom := errors.New("boom")

		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = st.Users().GetUserByID(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound, "rolled back insert must not persist")
	})
}

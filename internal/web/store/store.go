package store

import (
	"context"
	"errors"

	"github.com/whisperlabs/whisperwall/internal/web/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep concerns tidy and testable even
// though the board only persists one entity today.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn returns
	// an error and committing otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id (session restore, secret submission).
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during local login and registration.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByGoogleID is used during the find-or-create flow.
	GetUserByGoogleID(ctx context.Context, googleID string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the username or google_id is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateSecret overwrites the user's secret wholesale and bumps updated_at.
	UpdateSecret(ctx context.Context, userID string, secret string) error

	// ListUsersWithSecrets returns every user with a non-null secret,
	// newest first.
	ListUsersWithSecrets(ctx context.Context) ([]domain.User, error)

	// CountUsers returns the total number of user records.
	CountUsers(ctx context.Context) (int64, error)
}

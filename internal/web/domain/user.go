package domain

import "time"

// AccountKind describes which login paths a user record carries. Every record
// has at least one; creation always goes through exactly one of them.
type AccountKind int

const (
	// AccountLocal authenticates with a username and password hash.
	AccountLocal AccountKind = iota
	// AccountExternal authenticates through the external identity provider.
	AccountExternal
	// AccountLinked carries both credential sets.
	AccountLinked
)

func (k AccountKind) String() string {
	switch k {
	case AccountLocal:
		return "local"
	case AccountExternal:
		return "external"
	case AccountLinked:
		return "linked"
	default:
		return "unknown"
	}
}

type User struct {
	ID           string
	Username     string  // unique; set to the Google subject id for external accounts
	PasswordHash *string // argon2 encoded PHC string (nullable)
	GoogleID     *string // stable external subject id (nullable)
	Secret       *string // the one shared secret, nil until first submission
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Kind derives the account variant from which credential fields are set.
func (u User) Kind() AccountKind {
	switch {
	case u.PasswordHash != nil && u.GoogleID != nil:
		return AccountLinked
	case u.GoogleID != nil:
		return AccountExternal
	default:
		return AccountLocal
	}
}

// HasSecret reports whether the user has ever shared a secret.
func (u User) HasSecret() bool { return u.Secret != nil }

// SecretText returns the shared secret, or "" when none has been shared.
func (u User) SecretText() string {
	if u.Secret == nil {
		return ""
	}
	return *u.Secret
}

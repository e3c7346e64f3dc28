package store

import (
	"context"
	"errors"

	"github.com/gatehouselabs/gatehouse/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// UserFilter narrows list and count operations.
type UserFilter struct {
	// EmailContains matches a case-insensitive substring of the email.
	EmailContains string
	// Limit caps the number of returned rows; 0 means no cap.
	Limit int
	// Offset skips rows for paging.
	Offset int
}

type Users interface {
	// CreateUser inserts a new user and returns it with the store-assigned
	// numeric id. A duplicate email surfaces ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByEmail is used during login. The caller passes a normalized
	// (lowercase) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns users matching the filter, ordered by id.
	ListUsers(ctx context.Context, f UserFilter) ([]domain.User, error)

	// CountUsers returns the number of users matching the filter.
	CountUsers(ctx context.Context, f UserFilter) (int64, error)

	// ReplaceUser overwrites email, name and permissions for an existing id
	// and bumps updated_at. The password hash is left untouched.
	ReplaceUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error

	// DeleteUser removes the record.
	DeleteUser(ctx context.Context, userID int64) error
}

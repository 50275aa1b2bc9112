package store

import (
	"context"
	"errors"

	"github.com/bookeez/accounts/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (mongo, sqlite,
// bolt) implement this. Repositories hang off it as methods so a driver can
// scope them however it needs.
type Store interface {
	Users() Users

	// ApplyMigrations prepares the schema: SQL migrations, collection
	// indexes or buckets depending on the driver. Safe to call repeatedly.
	ApplyMigrations(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used by registration and login. The email must
	// already be normalised.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// A second user with the same email fails with ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// PushNotification appends n to the user's notification history.
	PushNotification(ctx context.Context, userID string, n domain.Notification) error

	// UpdatePasswordHash replaces the stored hash, used to move old hashes
	// to the current bcrypt cost.
	UpdatePasswordHash(ctx context.Context, userID, hash string) error

	// ListUsers returns every user ordered by creation, oldest first. Only
	// the summary fields (id, username, email, role, created_at) are loaded.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

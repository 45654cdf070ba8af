package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
)

var (
	// ErrNotFound is returned by lookups that match no record.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by Create when the username is already taken.
	ErrConflict = errors.New("conflict")
)

// UserRepository defines the interface for user-related database operations.
// Username uniqueness is enforced by the storage engine, not by the caller.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// GetByName and GetByAddress return the lowest-id match.
	GetByName(ctx context.Context, name string) (*entity.User, error)
	GetByAddress(ctx context.Context, address string) (*entity.User, error)
	// List returns every user ordered by id.
	List(ctx context.Context) ([]entity.User, error)
	Ping(ctx context.Context) error
}

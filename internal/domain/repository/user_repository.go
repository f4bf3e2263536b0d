package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/booking-api/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// UserRepository defines the interface for user-related database operations.
// Implementations return ErrNotFound for unknown rows and ErrDuplicateEmail
// when the unique email constraint rejects a write.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) (*entity.User, error)
}

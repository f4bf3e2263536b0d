package application

import (
	"context"
	"time"

	"github.com/oksasatya/booking-api/internal/domain/entity"
)

// TokenDenylist records refresh token ids that must no longer mint access tokens.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, userID int64, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// UserIndexer keeps a search index of sanitized users.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]entity.PublicUser, error)
}

// EventPublisher enqueues JSON messages, e.g. email jobs.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

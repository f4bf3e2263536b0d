package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/booking-api/pkg/helpers"
)

const denylistPrefix = "auth:revoked:"

// revocation is stored as the key value for audit; presence alone marks the jti revoked.
type revocation struct {
	UserID    int64     `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
}

// TokenDenylist keeps revoked refresh token ids until the token would have
// expired on its own.
type TokenDenylist struct {
	rdb *goredis.Client
	now func() time.Time
}

func NewTokenDenylist(rdb *goredis.Client) *TokenDenylist {
	return &TokenDenylist{rdb: rdb, now: time.Now}
}

func denylistKey(jti string) string {
	return fmt.Sprintf("%s%s", denylistPrefix, jti)
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, userID int64, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return helpers.RedisSetJSON(ctx, d.rdb, denylistKey(jti), revocation{UserID: userID, RevokedAt: d.now().UTC()}, ttl)
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var rec revocation
	return helpers.RedisGetJSON(ctx, d.rdb, denylistKey(jti), &rec)
}

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "token:revoked:"

// Revoker keeps a deny-list of logged-out tokens in Redis.
type Revoker struct {
	client redis.Cmdable
}

func NewRevoker(client redis.Cmdable) *Revoker {
	return &Revoker{client: client}
}

// Revoke marks id revoked for ttl. A non-positive ttl is a no-op since the token has already expired.
func (r *Revoker) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedPrefix+id, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *Revoker) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}

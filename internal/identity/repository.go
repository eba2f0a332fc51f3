package identity

import (
	"context"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=identity

// Repository is the cross-run identity cache. Only resolved identities are
// stored; a miss is (Identity{}, false, nil).
type Repository interface {
	Get(ctx context.Context, key string) (Identity, bool, error)
	Put(ctx context.Context, key string, id Identity, rawJSON []byte) error
}

// Fresh reports whether an identity resolved at resolvedAt is still inside ttl.
// A zero ttl means entries never expire.
func Fresh(resolvedAt time.Time, ttl time.Duration, now time.Time) bool {
	if resolvedAt.IsZero() {
		return false
	}
	if ttl <= 0 {
		return true
	}
	return now.Sub(resolvedAt) < ttl
}

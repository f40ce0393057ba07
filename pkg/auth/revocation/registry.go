package revocation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/ordermanagement-api/pkg/config"
	redisclient "github.com/angelmondragon/ordermanagement-api/pkg/redis"
)

const (
	revokedMarker  = "1"
	defaultTimeout = time.Second
)

// ErrLookupFailed wraps registry failures such as timeouts or connection
// errors so callers can apply their fail-open/fail-closed policy.
var ErrLookupFailed = errors.New("revocation lookup failed")

type revocationStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

type revocationKeyer interface {
	RevokedTokenKey(jti string) string
}

// Checker exposes the read-only surface needed by the auth gate.
type Checker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Registry records revoked token identifiers in Redis. Entries expire on
// their own once the token could no longer pass expiry checks anyway.
type Registry struct {
	store   revocationStore
	keyer   revocationKeyer
	timeout time.Duration
}

// NewRegistry constructs a revocation registry backed by Redis.
func NewRegistry(client *redisclient.Client, cfg config.RevocationConfig) (*Registry, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	timeout := cfg.LookupTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Registry{
		store:   client,
		keyer:   client,
		timeout: timeout,
	}, nil
}

// Revoke marks jti as revoked for ttl. Revoking an already revoked id simply
// refreshes the entry.
func (r *Registry) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return fmt.Errorf("jti is required")
	}
	if ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.store.Set(ctx, r.keyer.RevokedTokenKey(jti), revokedMarker, ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	return nil
}

// IsRevoked reports whether jti was revoked. The lookup is bounded by the
// configured timeout; any failure is returned wrapped in ErrLookupFailed.
func (r *Registry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, fmt.Errorf("jti is required")
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	exists, err := r.store.Exists(ctx, r.keyer.RevokedTokenKey(jti))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	return exists, nil
}

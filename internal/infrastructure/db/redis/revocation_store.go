package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore keeps logged-out credential ids until their natural expiry.
// Key format: revoked:<credential_id>
type RevocationStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// Revoke marks the credential as revoked until the given time. Credentials
// that already expired are not stored.
func (s *RevocationStore) Revoke(ctx context.Context, credentialID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(credentialID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke credential: %w", err)
	}
	return nil
}

// IsRevoked reports whether the credential was logged out.
func (s *RevocationStore) IsRevoked(ctx context.Context, credentialID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(credentialID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevocationStore) key(credentialID string) string {
	return "revoked:" + credentialID
}

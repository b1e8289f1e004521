package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// SessionService tracks revoked session tokens in Redis. Logout writes the
// token's JTI here; the auth middleware rejects anything listed. Entries
// expire with the token itself, so the set stays bounded.
type SessionService struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewSessionService(client *redis.Client, logger *logrus.Logger) *SessionService {
	return &SessionService{
		client: client,
		logger: logger,
	}
}

func (s *SessionService) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	key := fmt.Sprintf("revoked_session:%s", jti)
	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		s.logger.WithError(err).Error("Failed to revoke session")
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *SessionService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	key := fmt.Sprintf("revoked_session:%s", jti)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return exists > 0, nil
}

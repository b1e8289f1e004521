package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/authcore/authcore/internal/config"
)

// TokenService signs and validates session identity tokens.
type TokenService struct {
	secretKey []byte
	expiry    time.Duration
	logger    *logrus.Logger
}

func NewTokenService(cfg *config.JWTConfig, logger *logrus.Logger) (*TokenService, error) {
	secretKey := []byte(cfg.SecretKey)
	if len(secretKey) < 32 {
		return nil, fmt.Errorf("secret key must be at least 32 bytes")
	}

	return &TokenService{
		secretKey: secretKey,
		expiry:    cfg.Expiry,
		logger:    logger,
	}, nil
}

type Claims struct {
	jwt.RegisteredClaims
}

// AccountID returns the account identifier the token was issued for.
func (c *Claims) AccountID() string {
	return c.Subject
}

// Expiry returns how long a freshly issued token stays valid. The session
// cookie max-age mirrors this.
func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}

// Issue signs a session token bound to accountID.
func (s *TokenService) Issue(accountID string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.WithError(err).Error("Failed to sign session token")
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, claims, nil
}

// Verify parses and validates a session token.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

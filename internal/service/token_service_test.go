package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		SecretKey: "0123456789abcdef0123456789abcdef",
		Expiry:    7 * 24 * time.Hour,
	}
}

func TestTokenIssueAndVerify(t *testing.T) {
	svc, err := NewTokenService(testJWTConfig(), testLogger())
	require.NoError(t, err)

	token, claims, err := svc.Issue("account-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "account-1", claims.AccountID())
	require.NotEmpty(t, claims.ID)

	parsed, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "account-1", parsed.AccountID())
	require.Equal(t, claims.ID, parsed.ID)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), parsed.ExpiresAt.Time, time.Minute)
}

func TestTokenVerifyRejectsTampering(t *testing.T) {
	svc, err := NewTokenService(testJWTConfig(), testLogger())
	require.NoError(t, err)

	token, _, err := svc.Issue("account-1")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Verify(tampered)
	require.Error(t, err)

	_, err = svc.Verify("not-a-token")
	require.Error(t, err)
}

func TestTokenVerifyRejectsForeignSecret(t *testing.T) {
	svc, err := NewTokenService(testJWTConfig(), testLogger())
	require.NoError(t, err)

	other, err := NewTokenService(&config.JWTConfig{
		SecretKey: strings.Repeat("x", 32),
		Expiry:    time.Hour,
	}, testLogger())
	require.NoError(t, err)

	token, _, err := other.Issue("account-1")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
}

func TestTokenServiceRejectsShortSecret(t *testing.T) {
	_, err := NewTokenService(&config.JWTConfig{SecretKey: "short"}, testLogger())
	require.Error(t, err)
}

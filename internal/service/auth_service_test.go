package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/apperr"
	"github.com/authcore/authcore/internal/repository"
)

func newAuthFixture() (*AuthService, *captureMailer, repository.AccountStore) {
	store := repository.NewMemoryRepository()
	mailer := &captureMailer{}
	svc := NewAuthService(store, NewCredentialService(), mailer, testLogger())
	return svc, mailer, store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, mailer, _ := newAuthFixture()
	ctx := context.Background()

	account, err := svc.Register(ctx, "Ann", "a@x.com", "pw12")
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)
	require.False(t, account.IsVerified)
	require.Equal(t, 1, mailer.sent)

	_, err = svc.Login(ctx, "a@x.com", "wrong")
	require.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))

	logged, err := svc.Login(ctx, "a@x.com", "pw12")
	require.NoError(t, err)
	require.Equal(t, account.ID, logged.ID)
	require.Equal(t, "Ann", logged.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ann", "a@x.com", "pw12")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Bob", "a@x.com", "other")
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterWelcomeMailFailureIsIgnored(t *testing.T) {
	svc, mailer, store := newAuthFixture()
	ctx := context.Background()

	mailer.fail = true
	account, err := svc.Register(ctx, "Ann", "a@x.com", "pw12")
	require.NoError(t, err)

	_, err = store.GetByID(ctx, account.ID)
	require.NoError(t, err)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Login(context.Background(), "nobody@x.com", "pw12")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestProfile(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	account, err := svc.Register(ctx, "Ann", "a@x.com", "pw12")
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, "Ann", profile.Name)
	require.False(t, profile.IsVerified)

	_, err = svc.Profile(ctx, uuid.New().String())
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/authcore/authcore/internal/apperr"
	"github.com/authcore/authcore/internal/models"
	"github.com/authcore/authcore/internal/notification"
	"github.com/authcore/authcore/internal/repository"
)

// AuthService handles registration, login and profile lookup.
type AuthService struct {
	store  repository.AccountStore
	creds  *CredentialService
	mailer notification.Mailer
	logger *logrus.Logger
}

func NewAuthService(
	store repository.AccountStore,
	creds *CredentialService,
	mailer notification.Mailer,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		store:  store,
		creds:  creds,
		mailer: mailer,
		logger: logger,
	}
}

// Register creates an unverified account. The store's conditional write is
// the authority on email uniqueness. The welcome email is best-effort.
func (s *AuthService) Register(ctx context.Context, name, email, secret string) (*models.Account, error) {
	digest, err := s.creds.Hash(secret)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: digest,
	}

	if err := s.store.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, apperr.New(apperr.KindConflict, "user already exists, try another one")
		}
		return nil, err
	}

	if err := s.mailer.Send(ctx, email, notification.SubjectWelcome,
		notification.WelcomeBody(name, email)); err != nil {
		s.logger.WithError(err).WithField("to", email).Error("Failed to send welcome email")
	}

	return account, nil
}

// Login checks the secret against the stored hash.
func (s *AuthService) Login(ctx context.Context, email, secret string) (*models.Account, error) {
	account, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		}
		return nil, err
	}

	if !s.creds.Verify(secret, account.PasswordHash) {
		return nil, apperr.New(apperr.KindInvalidCredentials, "invalid password")
	}

	return account, nil
}

// Profile returns the account for the given id.
func (s *AuthService) Profile(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.store.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		}
		return nil, err
	}
	return account, nil
}

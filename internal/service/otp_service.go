package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/authcore/authcore/internal/apperr"
	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/notification"
	"github.com/authcore/authcore/internal/repository"
)

// OTPService drives the one-time-code state machine for email verification
// and password reset. Each slot moves Empty -> Issued -> Empty; issuing over
// an unconsumed code overwrites it, and expiry is only ever checked at
// consumption time.
type OTPService struct {
	store  repository.AccountStore
	creds  *CredentialService
	mailer notification.Mailer
	cfg    *config.OTPConfig
	logger *logrus.Logger
	now    func() time.Time
}

func NewOTPService(
	store repository.AccountStore,
	creds *CredentialService,
	mailer notification.Mailer,
	cfg *config.OTPConfig,
	logger *logrus.Logger,
) *OTPService {
	return &OTPService{
		store:  store,
		creds:  creds,
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// IssueVerificationCode generates a verification code for the account and
// emails it. Any prior unconsumed code is overwritten.
func (s *OTPService) IssueVerificationCode(ctx context.Context, accountID string) error {
	account, err := s.store.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "user not found")
		}
		return err
	}

	if account.IsVerified {
		return apperr.New(apperr.KindAlreadyVerified, "account already verified")
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	account.VerifyOTP = code
	account.VerifyOTPExpiresAt = s.now().Add(s.cfg.VerifyExpiry)
	if err := s.store.Save(ctx, account); err != nil {
		return err
	}

	s.deliver(ctx, account.Email, notification.SubjectVerifyAccount,
		notification.VerifyEmailBody(code, account.Email))

	return nil
}

// ConsumeVerificationCode validates a submitted verification code and, on
// success, marks the account verified and clears the slot. A matching but
// stale code reports Expired, not InvalidCode.
func (s *OTPService) ConsumeVerificationCode(ctx context.Context, accountID, submitted string) error {
	account, err := s.store.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "user not found")
		}
		return err
	}

	if account.VerifyOTP == "" || account.VerifyOTP != submitted {
		return apperr.New(apperr.KindInvalidCode, "invalid OTP")
	}

	if s.now().After(account.VerifyOTPExpiresAt) {
		return apperr.New(apperr.KindExpired, "OTP expired")
	}

	account.IsVerified = true
	account.ClearVerifyOTP()

	return s.store.Save(ctx, account)
}

// IssueResetCode generates a password-reset code for the address and emails
// it.
func (s *OTPService) IssueResetCode(ctx context.Context, email string) error {
	account, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "user not found")
		}
		return err
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	account.ResetOTP = code
	account.ResetOTPExpiresAt = s.now().Add(s.cfg.ResetExpiry)
	if err := s.store.Save(ctx, account); err != nil {
		return err
	}

	s.deliver(ctx, account.Email, notification.SubjectPasswordReset,
		notification.PasswordResetBody(code, account.Email))

	return nil
}

// ConsumeResetCode validates a reset code and replaces the account secret.
// The new secret must differ from the current one; the stored hash is left
// untouched on every failure path.
func (s *OTPService) ConsumeResetCode(ctx context.Context, email, submitted, newSecret string) error {
	account, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "user not found")
		}
		return err
	}

	if account.ResetOTP == "" || account.ResetOTP != submitted {
		return apperr.New(apperr.KindInvalidCode, "invalid OTP")
	}

	if s.now().After(account.ResetOTPExpiresAt) {
		return apperr.New(apperr.KindExpired, "OTP expired")
	}

	if s.creds.Verify(newSecret, account.PasswordHash) {
		return apperr.New(apperr.KindSameAsOldSecret, "new password must differ from the old one")
	}

	digest, err := s.creds.Hash(newSecret)
	if err != nil {
		return err
	}

	account.PasswordHash = digest
	account.ClearResetOTP()

	return s.store.Save(ctx, account)
}

func (s *OTPService) deliver(ctx context.Context, to, subject, body string) {
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.logger.WithError(err).WithField("to", to).Error("Failed to deliver OTP email")
	}
}

// generateCode returns a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

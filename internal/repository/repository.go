package repository

import (
	"context"
	"errors"

	"github.com/authcore/authcore/internal/models"
)

var (
	ErrNotFound    = errors.New("account not found")
	ErrEmailExists = errors.New("email already registered")
)

// AccountStore persists accounts. Save is an upsert keyed by account id;
// email uniqueness is enforced by Create.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) error
}

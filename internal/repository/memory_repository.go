package repository

import (
	"context"
	"sync"
	"time"

	"github.com/authcore/authcore/internal/models"
)

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
	byEmail  map[string]string
}

// NewMemoryRepository builds an in-memory account store for testing.
func NewMemoryRepository() AccountStore {
	return &memoryRepository{
		accounts: make(map[string]models.Account),
		byEmail:  make(map[string]string),
	}
}

func (r *memoryRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[account.Email]; exists {
		return ErrEmailExists
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = *account
	r.byEmail[account.Email] = account.ID
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	account := r.accounts[id]
	return &account, nil
}

func (r *memoryRepository) Save(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account.UpdatedAt = time.Now()
	r.accounts[account.ID] = *account
	return nil
}

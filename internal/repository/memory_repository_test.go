package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/models"
)

func TestMemoryRepository(t *testing.T) {
	store := NewMemoryRepository()
	ctx := context.Background()

	account := &models.Account{ID: "id-1", Name: "Ann", Email: "a@x.com"}
	require.NoError(t, store.Create(ctx, account))
	require.False(t, account.CreatedAt.IsZero())

	err := store.Create(ctx, &models.Account{ID: "id-2", Name: "Bob", Email: "a@x.com"})
	require.ErrorIs(t, err, ErrEmailExists)

	byID, err := store.GetByID(ctx, "id-1")
	require.NoError(t, err)
	require.Equal(t, "Ann", byID.Name)

	byEmail, err := store.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "id-1", byEmail.ID)

	_, err = store.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetByEmail(ctx, "b@x.com")
	require.ErrorIs(t, err, ErrNotFound)

	byID.IsVerified = true
	require.NoError(t, store.Save(ctx, byID))

	saved, err := store.GetByID(ctx, "id-1")
	require.NoError(t, err)
	require.True(t, saved.IsVerified)
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	store := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &models.Account{ID: "id-1", Email: "a@x.com"}))

	first, err := store.GetByID(ctx, "id-1")
	require.NoError(t, err)
	first.Name = "mutated"

	second, err := store.GetByID(ctx, "id-1")
	require.NoError(t, err)
	require.Empty(t, second.Name)
}

package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
)

func TestMemoryRepo_DuplicateIdentityIsConflict(t *testing.T) {
	repo := NewMemoryRepo()
	repo.store["row-1"] = &models.User{ID: "row-1", Identity: "user_A"}
	repo.store["row-2"] = &models.User{ID: "row-2", Identity: "user_A"}

	_, err := repo.GetByIdentity(context.Background(), "user_A")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	u, _, err := repo.UpsertByIdentity(ctx, Profile{Identity: "user_A", Name: "Ann"})
	assert.NoError(t, err)
	u.Name = "mutated"

	got, _ := repo.GetByIdentity(ctx, "user_A")
	assert.Equal(t, "Ann", got.Name)
}

func TestMemoryRepo_PatchUnknown(t *testing.T) {
	repo := NewMemoryRepo()
	ok, err := repo.PatchByIdentity(context.Background(), "ghost", Patch{Name: strPtr("x")})
	assert.NoError(t, err)
	assert.False(t, ok)
}

package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/renter"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTenantRepository_FindByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTenantRepository(db)
	tenant := seedTenant(t, db, "Ana@Example.com", "Ana", "Lopez")

	found, err := repo.FindByID(t.Context(), tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", found.Email)
	assert.Equal(t, "Ana Lopez", found.DisplayName())
	assert.True(t, found.IsActive)

	_, err = repo.FindByID(t.Context(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTenantRepository_FindByID_IgnoresStaff(t *testing.T) {
	db := newTestDB(t)
	staff := seedTenant(t, db, "staff@example.com", "Sam", "Staff")
	require.NoError(t, db.Model(&models.TenantModel{}).Where("id = ?", staff.ID).
		UpdateColumn("role", string(renter.RoleStaff)).Error)

	_, err := NewGormTenantRepository(db).FindByID(t.Context(), staff.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTenantRepository_FindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTenantRepository(db)
	seedTenant(t, db, "ana@example.com", "Ana", "Lopez")
	archived := seedTenant(t, db, "ben@example.com", "Ben", "Okafor")
	require.NoError(t, repo.SetActive(t.Context(), archived.ID, false))

	t.Run("archived tenants are hidden by default", func(t *testing.T) {
		tenants, total, err := repo.FindAll(t.Context(), renter.ListFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, tenants, 1)
		assert.Equal(t, "ana@example.com", tenants[0].Email)
	})

	t.Run("include archived", func(t *testing.T) {
		_, total, err := repo.FindAll(t.Context(), renter.ListFilter{Filter: shared.DefaultFilter(), IncludeArchived: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("search matches names case-insensitively", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "OKA"
		tenants, total, err := repo.FindAll(t.Context(), renter.ListFilter{Filter: filter, IncludeArchived: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, archived.ID, tenants[0].ID)
	})

	t.Run("unknown sort field falls back", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "password; DROP TABLE users"
		_, _, err := repo.FindAll(t.Context(), renter.ListFilter{Filter: filter})
		assert.NoError(t, err)
	})
}

func TestGormTenantRepository_SetActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTenantRepository(db)
	tenant := seedTenant(t, db, "ana@example.com", "Ana", "Lopez")

	var before models.TenantModel
	require.NoError(t, db.First(&before, "id = ?", tenant.ID).Error)

	require.NoError(t, repo.SetActive(t.Context(), tenant.ID, false))

	var after models.TenantModel
	require.NoError(t, db.First(&after, "id = ?", tenant.ID).Error)
	assert.False(t, after.IsActive)
	assert.Equal(t, before.FirstName, after.FirstName)
	assert.Equal(t, before.Version, after.Version)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))

	assert.ErrorIs(t, repo.SetActive(t.Context(), uuid.New(), true), shared.ErrNotFound)
}

func TestGormTenantRepository_Save_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	seedTenant(t, db, "ana@example.com", "Ana", "Lopez")

	dup, err := renter.NewTenant("ana@example.com", "Other", "Ana")
	require.NoError(t, err)
	err = NewGormTenantRepository(db).Save(t.Context(), dup)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	"github.com/Lee-Rose/python-final-diplom/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  company TEXT NOT NULL DEFAULT '',
  position TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT 'buyer',
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRepositoryEmailUnique(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := &models.User{Email: "buyer@example.com", Type: enums.UserTypeBuyer, IsActive: true}
	require.NoError(t, repo.Create(ctx, first))

	dup := &models.User{Email: "buyer@example.com", Type: enums.UserTypeBuyer, IsActive: true}
	require.Error(t, repo.Create(ctx, dup))

	found, err := repo.FindByEmail(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestCheckerIsActive(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	active := &models.User{Email: "active@example.com", Type: enums.UserTypeBuyer, IsActive: true}
	require.NoError(t, repo.Create(ctx, active))
	disabled := &models.User{Email: "disabled@example.com", Type: enums.UserTypeBuyer, IsActive: true}
	require.NoError(t, repo.Create(ctx, disabled))
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", disabled.ID).Update("is_active", false).Error)

	check, err := NewChecker(repo)
	require.NoError(t, err)

	ok, err := check.IsActive(ctx, active.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = check.IsActive(ctx, disabled.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = check.IsActive(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

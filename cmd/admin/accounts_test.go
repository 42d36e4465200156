package main

import (
	"context"
	"testing"

	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/infrastructure/persistence"
	"github.com/dripnest/storefront/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newUserRepo(t *testing.T) identity.UserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.UserModel{}, &models.UserAddressModel{}, &models.WishlistItemModel{}))
	return persistence.NewGormUserRepository(db)
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	repo := newUserRepo(t)

	user, err := createAdmin(ctx, repo, "Ops", "Ops@DripNest.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, user.Role)
	assert.True(t, user.IsEmailVerified)

	stored, err := repo.FindByEmail(ctx, "ops@dripnest.com")
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin())
	assert.True(t, stored.VerifyPassword("s3cret-pass"))

	_, err = createAdmin(ctx, repo, "Ops", "ops@dripnest.com", "s3cret-pass")
	assert.ErrorContains(t, err, "already exists")
}

func TestCreateAdminValidatesInput(t *testing.T) {
	_, err := createAdmin(context.Background(), newUserRepo(t), "Ops", "not-an-email", "123")
	assert.Error(t, err)
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	repo := newUserRepo(t)
	customer, err := identity.NewUser("Sam", "sam@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, customer))

	user, changed, err := setRole(ctx, repo, "SAM@example.com", identity.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, user.IsAdmin())

	_, changed, err = setRole(ctx, repo, "sam@example.com", identity.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, changed)

	user, changed, err = setRole(ctx, repo, "sam@example.com", identity.RoleCustomer)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, identity.RoleCustomer, user.Role)

	_, _, err = setRole(ctx, repo, "ghost@example.com", identity.RoleAdmin)
	assert.ErrorContains(t, err, "no user with email")
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	repo := newUserRepo(t)
	user, err := identity.NewUser("Sam", "sam@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	_, err = resetPassword(ctx, repo, "Sam@Example.com", "new-secret-456")
	require.NoError(t, err)

	stored, err := repo.FindByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.True(t, stored.VerifyPassword("new-secret-456"))
	assert.False(t, stored.VerifyPassword("secret123"))

	_, err = resetPassword(ctx, repo, "ghost@example.com", "new-secret-456")
	assert.ErrorContains(t, err, "no user with email")
}

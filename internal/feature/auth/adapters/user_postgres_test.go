package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
// TranslateError and the UTC NowFunc mirror the production gorm settings.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err, "failed to initialize test database")

	// Create users table
	err = db.AutoMigrate(&UserModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func TestNewUserPostgres(t *testing.T) {
	db := setupTestDB(t)

	repo := NewUserPostgres(db, 0)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
	assert.Equal(t, defaultStorageTimeout, repo.timeout, "zero timeout should fall back to the default")
}

func TestUserPostgres_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db, time.Second)

		user := &entity.User{
			Username:     "alice",
			PasswordHash: "hashed_password",
		}

		err := repo.Create(context.Background(), user)

		assert.NoError(t, err, "failed to create user")
		assert.NotZero(t, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
		assert.Nil(t, user.LastLogin, "LastLogin should be nil before the first login")
	})

	t.Run("duplicate username error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db, time.Second)

		user1 := &entity.User{
			Username:     "duplicate",
			PasswordHash: "password1",
		}
		err := repo.Create(context.Background(), user1)
		require.NoError(t, err, "failed to create first user")

		// Create second user with the same username
		user2 := &entity.User{
			Username:     "duplicate",
			PasswordHash: "password2",
		}
		err = repo.Create(context.Background(), user2)

		assert.Error(t, err, "should return duplicate error")
		assert.ErrorIs(t, err, usecase.ErrUsernameTaken, "should return ErrUsernameTaken")
	})

	t.Run("uniqueness is enforced by the storage engine", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db, time.Second)

		err := repo.Create(context.Background(), &entity.User{Username: "bob", PasswordHash: "h1"})
		require.NoError(t, err, "failed to create first user")

		// Insert directly, bypassing the repository, to show the constraint lives in the schema
		err = db.Create(&UserModel{Username: "bob", PasswordHash: "h2"}).Error
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey, "schema should reject the duplicate insert")
	})
}

func TestUserPostgres_FindByUsername(t *testing.T) {
	t.Run("find user by username successfully", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db, time.Second)

		expected := &entity.User{
			Username:     "findme",
			PasswordHash: "hashed_password",
		}
		err := repo.Create(context.Background(), expected)
		require.NoError(t, err, "failed to create test data")

		found, err := repo.FindByUsername(context.Background(), "findme")

		assert.NoError(t, err, "failed to find user")
		assert.NotNil(t, found, "user is nil")
		assert.Equal(t, expected.ID, found.ID, "ID does not match")
		assert.Equal(t, expected.Username, found.Username, "username does not match")
		assert.Equal(t, expected.PasswordHash, found.PasswordHash, "password hash does not match")
		assert.Nil(t, found.LastLogin, "LastLogin should be nil before the first login")
	})

	t.Run("username not found error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db, time.Second)

		found, err := repo.FindByUsername(context.Background(), "notfound")

		assert.Error(t, err, "should return error")
		assert.Nil(t, found, "user should be nil")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound, "should return ErrUserNotFound")
	})

	t.Run("find correct user when multiple users exist", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db, time.Second)

		users := []*entity.User{
			{Username: "user1", PasswordHash: "pass1"},
			{Username: "user2", PasswordHash: "pass2"},
			{Username: "user3", PasswordHash: "pass3"},
		}
		for _, u := range users {
			err := repo.Create(context.Background(), u)
			require.NoError(t, err, "failed to create test data")
		}

		found, err := repo.FindByUsername(context.Background(), "user2")

		assert.NoError(t, err, "failed to find user")
		assert.NotNil(t, found, "user is nil")
		assert.Equal(t, users[1].ID, found.ID, "ID does not match")
		assert.Equal(t, "user2", found.Username, "username does not match")
		assert.Equal(t, "pass2", found.PasswordHash, "password hash does not match")
	})
}

func TestUserPostgres_RecordLogin(t *testing.T) {
	t.Run("sets lastLogin on first login", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db, time.Second)

		user := &entity.User{Username: "alice", PasswordHash: "hash"}
		require.NoError(t, repo.Create(context.Background(), user), "failed to create user")

		at := time.Now().UTC()
		updated, err := repo.RecordLogin(context.Background(), "alice", at)

		assert.NoError(t, err, "failed to record login")
		require.NotNil(t, updated.LastLogin, "LastLogin is not set")
		assert.Equal(t, at.Unix(), updated.LastLogin.Unix(), "LastLogin does not match")
	})

	t.Run("does not overwrite a newer lastLogin with an older timestamp", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db, time.Second)

		user := &entity.User{Username: "alice", PasswordHash: "hash"}
		require.NoError(t, repo.Create(context.Background(), user), "failed to create user")

		newer := time.Now().UTC()
		_, err := repo.RecordLogin(context.Background(), "alice", newer)
		require.NoError(t, err, "failed to record first login")

		older := newer.Add(-time.Hour)
		updated, err := repo.RecordLogin(context.Background(), "alice", older)

		assert.NoError(t, err, "stale update should not be an error")
		require.NotNil(t, updated.LastLogin, "LastLogin is not set")
		assert.Equal(t, newer.Unix(), updated.LastLogin.Unix(), "LastLogin regressed")
	})

	t.Run("advances lastLogin with each newer login", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db, time.Second)

		user := &entity.User{Username: "alice", PasswordHash: "hash"}
		require.NoError(t, repo.Create(context.Background(), user), "failed to create user")

		first := time.Now().UTC()
		_, err := repo.RecordLogin(context.Background(), "alice", first)
		require.NoError(t, err, "failed to record first login")

		second := first.Add(time.Hour)
		updated, err := repo.RecordLogin(context.Background(), "alice", second)

		assert.NoError(t, err, "failed to record second login")
		require.NotNil(t, updated.LastLogin, "LastLogin is not set")
		assert.Equal(t, second.Unix(), updated.LastLogin.Unix(), "LastLogin does not match")
	})

	t.Run("leaves createdAt and passwordHash untouched", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db, time.Second)

		user := &entity.User{Username: "alice", PasswordHash: "original_hash"}
		require.NoError(t, repo.Create(context.Background(), user), "failed to create user")

		updated, err := repo.RecordLogin(context.Background(), "alice", time.Now().UTC())
		require.NoError(t, err, "failed to record login")

		assert.Equal(t, user.CreatedAt.Unix(), updated.CreatedAt.Unix(), "CreatedAt changed")
		assert.Equal(t, "original_hash", updated.PasswordHash, "PasswordHash changed")
	})

	t.Run("unknown username error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserPostgres(db, time.Second)

		updated, err := repo.RecordLogin(context.Background(), "ghost", time.Now().UTC())

		assert.Error(t, err, "should return error")
		assert.Nil(t, updated, "user should be nil")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound, "should return ErrUserNotFound")
	})
}

// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "auth_backend/internal/feature/auth/adapters"
	"auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/cache"
)

// NewUserRepository creates a UserRepository implementation.
// If Redis is available, the PostgreSQL repository is wrapped with a caching
// decorator for username lookups. Otherwise, the plain repository is returned.
func NewUserRepository(rdb *redis.Client, db *gorm.DB, storageTimeout, cacheTTL time.Duration) usecase.UserRepository {
	users := authadapters.NewUserPostgres(db, storageTimeout)
	if rdb != nil {
		return cache.NewCachingUserRepository(rdb, cacheTTL, users, "users")
	}
	return users
}

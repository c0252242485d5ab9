package db

import (
	"fmt"
	"log"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/adapters"
)

// OpenFunc opens a gorm handle for the given DSN. Injected so connection
// retry logic can be tested without a live database.
type OpenFunc func(dsn string) (*gorm.DB, error)

// ConnectWithRetry keeps calling open until it succeeds or the timeout
// elapses, sleeping 3 seconds between attempts.
func ConnectWithRetry(dsn string, timeout time.Duration, open OpenFunc) (*gorm.DB, error) {
	var (
		handle *gorm.DB
		err    error
	)

	deadline := time.Now().Add(timeout)
	for {
		handle, err = open(dsn)
		if err == nil {
			return handle, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// openPostgres opens a PostgreSQL connection with the handle settings the
// rest of the code relies on. TranslateError turns driver-specific
// duplicate-key failures into gorm.ErrDuplicatedKey; NowFunc keeps
// persisted timestamps in UTC.
func openPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(gpostgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
}

// Open connects to PostgreSQL, retrying for up to a minute, and returns the
// gorm handle. The caller owns the handle and releases it via Close on shutdown.
func Open(dsn string, runMigrations bool) (*gorm.DB, error) {
	handle, err := ConnectWithRetry(dsn, 60*time.Second, openPostgres)
	if err != nil {
		return nil, err
	}

	if runMigrations {
		// マイグレーション（users テーブル）
		if err := handle.AutoMigrate(&adapters.UserModel{}); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	return handle, nil
}

// Close releases the underlying connection pool.
func Close(handle *gorm.DB) error {
	sqlDB, err := handle.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

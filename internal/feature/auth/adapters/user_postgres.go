// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// defaultStorageTimeout は個々のストレージ操作に適用されるタイムアウトの既定値です。
const defaultStorageTimeout = 5 * time.Second

// userPostgres はUserRepositoryインターフェースのPostgreSQL実装です。
// GORMを使用してデータベース操作を行います。
type userPostgres struct {
	db      *gorm.DB
	timeout time.Duration
}

// userPostgresがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userPostgres)(nil)

// NewUserPostgres は指定されたgorm.DB接続でuserPostgresの新しいインスタンスを生成します。
// timeoutが0以下の場合、既定値が使用されます。依存性注入用のコンストラクタです。
func NewUserPostgres(db *gorm.DB, timeout time.Duration) *userPostgres {
	if timeout <= 0 {
		timeout = defaultStorageTimeout
	}
	return &userPostgres{db: db, timeout: timeout}
}

// Create はユーザーをデータベースに追加し、生成されたIDとCreatedAtをエンティティに書き戻します。
// 一意性は挿入と同一のアトミックなストレージ操作で強制されます。
// 同じユーザー名のユーザーが既に存在する場合、usecase.ErrUsernameTakenを返します。
func (r *userPostgres) Create(ctx context.Context, u *entity.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	model := UserModelFromEntity(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// PostgreSQLエラー23505: 一意制約違反
		var pgErr *pgconn.PgError
		if errors.Is(err, gorm.ErrDuplicatedKey) || (errors.As(err, &pgErr) && pgErr.Code == "23505") {
			return usecase.ErrUsernameTaken
		}
		return fmt.Errorf("%w: failed to create user: %v", usecase.ErrStorage, err)
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	return nil
}

// FindByUsername はユーザー名でユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userPostgres) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var model UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: failed to find user by username: %v", usecase.ErrStorage, err)
	}
	return model.ToEntity(), nil
}

// RecordLogin はLastLoginを指定時刻で更新し、更新後のユーザーを返します。
// 保存済みのLastLoginの方が新しい場合は上書きせず、保存済みの値を返します。
// CreatedAtとPasswordHashには一切触れません。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userPostgres) RecordLogin(ctx context.Context, username string, at time.Time) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// 条件付きUPDATEで単調非減少を保証する
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("username = ? AND (last_login IS NULL OR last_login <= ?)", username, at).
		Update("last_login", at)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: failed to record login: %v", usecase.ErrStorage, result.Error)
	}

	// RowsAffected==0はユーザー消失か、より新しいLastLoginの存在を意味する
	// 再読み取りで区別する
	var model UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: failed to reload user after login: %v", usecase.ErrStorage, err)
	}
	return model.ToEntity(), nil
}

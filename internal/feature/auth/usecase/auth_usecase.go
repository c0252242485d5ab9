// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"auth_backend/internal/feature/auth/domain/entity"
)

const (
	// minUsernameLength はユーザー名の最低文字数を定義します。
	minUsernameLength = 3
	// maxUsernameLength はユーザー名の最大文字数を定義します。
	maxUsernameLength = 30
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 6
	// maxPasswordBytes はbcryptが処理できるパスワードの最大バイト数です。
	maxPasswordBytes = 72
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じユーザー名のユーザーが既に存在する場合、ErrUsernameTakenを返します。
	// 一意性チェックと挿入は単一のアトミックなストレージ操作です。
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername は指定されたユーザー名に一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// RecordLogin は指定されたユーザーのLastLoginを更新し、更新後のユーザーを返します。
	// LastLoginは単調非減少で、保存済みの値より古いタイムスタンプでは上書きしません。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	RecordLogin(ctx context.Context, username string, at time.Time) (*entity.User, error)
}

// PasswordHasher はパスワードのハッシュ化と検証を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/hash）ではなくコンシューマー（usecase）が定義します。
type PasswordHasher interface {
	// Hash は平文パスワードからソルト付きハッシュを生成します。
	Hash(password string) (string, error)

	// Compare はハッシュと平文パスワードを比較し、不一致の場合エラーを返します。
	Compare(hashedPassword, password string) error
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, username string) (string, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	hasher       PasswordHasher
	jwtGenerator JWTGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{
		users:        users,
		hasher:       hasher,
		jwtGenerator: jwtGenerator,
	}
}

// validateRegisterInput は登録入力が要件を満たしているかチェックします。
func validateRegisterInput(username, password string) error {
	if username == "" {
		return &ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return &ValidationError{
			Field:  "username",
			Reason: fmt.Sprintf("must be between %d and %d characters", minUsernameLength, maxUsernameLength),
		}
	}
	if password == "" {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return &ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters", minPasswordLength),
		}
	}
	if len(password) > maxPasswordBytes {
		return &ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must not exceed %d bytes", maxPasswordBytes),
		}
	}
	return nil
}

// validateLoginInput はログイン入力の必須フィールドをチェックします。
func validateLoginInput(username, password string) error {
	if username == "" {
		return &ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、作成されたユーザーを返します。
// ユーザー名が既に使用されている場合、ErrUsernameTakenを返します。
func (u *authUsecase) Register(ctx context.Context, username, password string) (*entity.User, error) {
	// 入力を検証（ハッシュ化やストレージ呼び出しより前に行う）
	if err := validateRegisterInput(username, password); err != nil {
		return nil, err
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to hash password: %v", ErrHashing, err)
	}

	user := &entity.User{Username: username, PasswordHash: hashed}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login はユーザーを認証し、成功時に更新済みユーザーとJWTトークンを返します。
// ユーザー名とパスワードを検証し、LastLoginを現在時刻で記録します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもハッシュ比較を実行します。
func (u *authUsecase) Login(ctx context.Context, username, password string) (*entity.User, string, error) {
	if err := validateLoginInput(username, password); err != nil {
		return nil, "", err
	}

	// ユーザー名でユーザーを検索
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		// ストレージ障害は認証失敗として偽装しない
		return nil, "", err
	}

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// ハッシュ比較が常に実行されることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.PasswordHash
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	compareErr := u.hasher.Compare(passwordHash, password)

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return nil, "", ErrInvalidCredentials
	}

	updated, err := u.users.RecordLogin(ctx, user.Username, time.Now().UTC())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// ルックアップと更新の間にユーザーが消えた場合はストレージ異常として扱う
			return nil, "", fmt.Errorf("%w: user vanished during login: %v", ErrStorage, err)
		}
		return nil, "", err
	}

	// 注入されたジェネレーターを使用してJWTトークンを生成
	token, tokenErr := u.jwtGenerator.GenerateToken(updated.ID, updated.Username)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", tokenErr)
	}

	return updated, token, nil
}

// Profile は指定されたユーザー名のユーザーを取得します。
// ユーザーが存在しない場合、ErrUserNotFoundを返します。
func (u *authUsecase) Profile(ctx context.Context, username string) (*entity.User, error) {
	return u.users.FindByUsername(ctx, username)
}

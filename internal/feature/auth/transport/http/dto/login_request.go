// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "time"

// LoginReq は/loginエンドポイントのリクエストボディを表します。
// 必須フィールドのバリデーションを含みます。
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRes はログイン成功時のレスポンスを表します。
type LoginRes struct {
	Username  string    `json:"username"`
	LastLogin time.Time `json:"last_login"`
	Token     string    `json:"token"`
}

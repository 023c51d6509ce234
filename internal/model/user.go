// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはパスワードハッシャーの出力のみを保持し、
// レスポンスには決してシリアライズしない。
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	AvatarPath   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

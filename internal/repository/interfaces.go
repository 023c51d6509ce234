// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/authgate/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	// ログイン時のパスワード検証に使うため、PasswordHashを含む完全なレコードを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	// PasswordHashは取得カラムから除外される。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はEMAIL_CONFLICTのAPIErrorを返す。
	// 同時登録の競合はDBのユニーク制約が唯一の裁定者となる。
	Create(ctx context.Context, user *model.User) error

	// ListAll は全ユーザーを返す。PasswordHashは取得カラムから除外される。
	ListAll(ctx context.Context) ([]*model.User, error)
}

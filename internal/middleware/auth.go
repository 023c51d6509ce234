// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/authgate/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var userContextKey = contextKey("auth_user")

// TokenVerifier はトークン検証に必要なインターフェース。
// token.Serviceの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// UserFinder はユーザー解決に必要なインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// AuthMetrics は認証ゲートの拒否件数を記録するインターフェース。
// metrics.Collectorの部分集合として定義する。
type AuthMetrics interface {
	RecordAuthRejection()
}

// NewAuthMiddleware はAuthorizationヘッダーのベアラートークンを検証し、
// 解決したユーザー（パスワードハッシュ除外済み）をリクエストコンテキストに
// 注入するミドルウェアを返す。
// トークン欠落・無効・期限切れ・ユーザー消失はすべて同じ汎用メッセージの
// 401で拒否する（失敗理由を外部に漏らさない）。metricsはnil可。
func NewAuthMiddleware(verifier TokenVerifier, users UserFinder, metrics AuthMetrics) func(next http.Handler) http.Handler {
	reject := func(w http.ResponseWriter) {
		if metrics != nil {
			metrics.RecordAuthRejection()
		}
		WriteErrorResponse(w, http.StatusUnauthorized,
			model.NewUnauthenticatedError("Invalid or expired token"))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Authorizationヘッダーからトークンを抽出
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				if metrics != nil {
					metrics.RecordAuthRejection()
				}
				WriteErrorResponse(w, http.StatusUnauthorized,
					model.NewUnauthenticatedError("Access denied. No token provided"))
				return
			}

			// 2. トークンの署名と有効期限を検証
			userID, err := verifier.Verify(tokenString)
			if err != nil {
				reject(w)
				return
			}

			// 3. ユーザーを解決（削除済みIDのコンテキストを捏造しない）
			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				slog.Error("failed to resolve authenticated user",
					slog.String("user_id", userID),
					slog.String("error", err.Error()),
				)
				reject(w)
				return
			}
			if user == nil {
				reject(w)
				return
			}

			// 4. 認証済みユーザーをコンテキストに注入
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken はAuthorizationヘッダーからトークンを取り出す。
// 生トークンと"Bearer "プレフィックス付きの両方を受け付ける。
func extractBearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return header
}

// UserFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("authenticated user not found in context")
	}
	return user, nil
}

// UserIDFromContext はリクエストコンテキストから認証済みユーザーIDを取得する。
func UserIDFromContext(ctx context.Context) (string, error) {
	user, err := UserFromContext(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// ContextWithUser はコンテキストにユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

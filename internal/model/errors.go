// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Detailはデバッグ用の内部詳細で、認証に関わるパスでは設定しない
// （どの検証段階で失敗したかを外部に漏らさないため）。
type APIError struct {
	Code    string // エラーコード
	Message string // ユーザー向けメッセージ
	Detail  string // 内部詳細（非認証系パスのみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeEmailConflict      = "EMAIL_CONFLICT"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewValidationError は必須フィールド欠落などの入力エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// NewEmailConflictError はメールアドレス重複エラーを生成する。
func NewEmailConflictError() *APIError {
	return &APIError{
		Code:    ErrCodeEmailConflict,
		Message: "User already exists with this email.",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// 未登録メールとパスワード不一致を区別しない汎用メッセージを使う。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid email or password",
	}
}

// NewUnauthenticatedError はトークン欠落・無効時のエラーを生成する。
func NewUnauthenticatedError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthenticated,
		Message: message,
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeUserNotFound,
		Message: "User not found",
	}
}

// NewInternalError は内部エラーを生成する。
// 元エラーの内容はDetailに保持し、メッセージは汎用に保つ。
func NewInternalError(err error) *APIError {
	apiErr := &APIError{
		Code:    ErrCodeInternal,
		Message: "Internal server error",
	}
	if err != nil {
		apiErr.Detail = err.Error()
	}
	return apiErr
}

package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/authgate/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// ListUsers は全ユーザーの一覧を返す。パスワードハッシュは含まれない。
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// UserHandler はユーザー一覧のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// usersResponse はユーザー一覧のレスポンス。
type usersResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Users   []*userResponse `json:"users"`
}

// List は全ユーザーの一覧を返す。
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := usersResponse{
		Success: true,
		Message: "Fetched all users successfully.",
		Users:   make([]*userResponse, 0, len(users)),
	}
	for _, user := range users {
		resp.Users = append(resp.Users, toUserResponse(user))
	}

	writeJSON(w, http.StatusOK, resp)
}

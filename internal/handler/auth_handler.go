// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/authgate/internal/middleware"
	"github.com/hitoshi/authgate/internal/model"
	"github.com/hitoshi/authgate/internal/upload"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを登録し、トークンと作成ユーザーを返す。
	Register(ctx context.Context, name, email, password, avatarPath string) (*model.User, string, error)
	// Login は資格情報を検証し、トークンとユーザーを返す。
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

// AuthHandler は登録・ログイン・プロフィール取得のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	uploads upload.Saver
}

// NewAuthHandler はAuthHandlerを生成する。
// uploadsはnil可（アバター添付を受け付けない構成）。
func NewAuthHandler(service AuthServiceInterface, uploads upload.Saver) *AuthHandler {
	return &AuthHandler{
		service: service,
		uploads: uploads,
	}
}

// credentialsRequest は登録・ログインリクエストのボディ。
type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse はユーザー情報のAPIレスポンス。
// パスワードハッシュに対応するフィールドは存在しない。
type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// authResponse は登録・ログイン成功のレスポンス。
type authResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    *userResponse `json:"user"`
}

// Register は新規ユーザー登録を処理する。
// POST /api/users/register
// JSONボディとmultipart/form-data（avatarファイル添付あり）の両方を受け付ける。
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	var avatarPath string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewValidationError("Failed to parse multipart form."))
			return
		}
		req.Name = r.FormValue("name")
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")

		path, err := h.saveAvatar(r)
		if err != nil {
			if errors.Is(err, upload.ErrNotAnImage) {
				writeAPIErrorResponse(w, http.StatusBadRequest,
					model.NewValidationError("Only image files are allowed"))
				return
			}
			slog.Error("failed to save avatar", slog.String("error", err.Error()))
			writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewInternalError(err))
			return
		}
		avatarPath = path
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewValidationError("Failed to parse request body."))
			return
		}
	}

	user, token, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password, avatarPath)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Success: true,
		Message: "User registered successfully.",
		Token:   token,
		User:    toUserResponse(user),
	})
}

// saveAvatar はmultipartフォームのavatarフィールドを保存する。
// ファイルが添付されていない場合は空パスを返す。
func (h *AuthHandler) saveAvatar(r *http.Request) (string, error) {
	if h.uploads == nil {
		return "", nil
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	return h.uploads.Save(file, header)
}

// Login はログインを処理する。
// POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("Failed to parse request body."))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "User logged in successfully.",
		Token:   token,
		User:    toUserResponse(user),
	})
}

// Me は現在の認証済みユーザー情報を返す。
// GET /api/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized,
			model.NewUnauthenticatedError("Access denied. No token provided"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile fetched successfully",
		"user":    toUserResponse(user),
	})
}

// toUserResponse はUserモデルをAPIレスポンス形式に変換する。
func toUserResponse(user *model.User) *userResponse {
	resp := &userResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.AvatarPath,
	}
	if !user.CreatedAt.IsZero() {
		resp.CreatedAt = user.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// Package auth はユーザー登録・ログインのビジネスロジックを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/authgate/internal/model"
	"github.com/hitoshi/authgate/internal/password"
	"github.com/hitoshi/authgate/internal/repository"
	"github.com/hitoshi/authgate/internal/token"
)

// Metrics は認証イベントのメトリクス収集インターフェース。
// metrics.Collectorの部分集合として定義する。
type Metrics interface {
	RecordRegistration()
	RecordLoginSuccess()
	RecordLoginFailure()
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	repo    repository.UserRepository
	hasher  *password.Hasher
	tokens  *token.Service
	metrics Metrics
}

// NewService はServiceを生成する。metricsはnil可（収集を行わない）。
func NewService(repo repository.UserRepository, hasher *password.Hasher, tokens *token.Service, metrics Metrics) *Service {
	return &Service{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		metrics: metrics,
	}
}

// Register は新規ユーザーを登録し、発行したトークンと作成ユーザーを返す。
// avatarPathは外部のアップロードコラボレータが保存したファイルパス（省略可）。
//
// 手順: 必須フィールド検証 → メール重複チェック → パスワードハッシュ化 →
// ユーザー作成 → トークン発行。同時登録の競合はDBのユニーク制約で裁定され、
// 敗者にはEMAIL_CONFLICTが返る。
func (s *Service) Register(ctx context.Context, name, email, plainPassword, avatarPath string) (*model.User, string, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || plainPassword == "" {
		return nil, "", model.NewValidationError("All fields are required.")
	}

	// 事前チェック。最終的な一意性はCreate時のユニーク制約が保証する
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, "", model.NewEmailConflictError()
	}

	passwordHash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		AvatarPath:   avatarPath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	tokenString, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}

	// ハッシュは外に出さない
	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, tokenString, nil
}

// Login はメールアドレスとパスワードを検証し、トークンとユーザーを返す。
// 未登録メールとパスワード不一致はどちらもINVALID_CREDENTIALSとする
// （アカウントの存在を漏らさないため、失敗段階を区別しない）。
func (s *Service) Login(ctx context.Context, email, plainPassword string) (*model.User, string, error) {
	if strings.TrimSpace(email) == "" || plainPassword == "" {
		return nil, "", model.NewValidationError("All fields are required.")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return nil, "", model.NewInvalidCredentialsError()
	}

	if !s.hasher.Verify(plainPassword, user.PasswordHash) {
		slog.Warn("login failed", slog.String("user_id", user.ID))
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return nil, "", model.NewInvalidCredentialsError()
	}

	tokenString, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, tokenString, nil
}

// ListUsers は全ユーザーを返す。PasswordHashはリポジトリ層で除外済み。
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

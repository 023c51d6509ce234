// Package token は署名付き有効期限付きのIDトークンの発行と検証を提供する。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL はトークンのデフォルト有効期間（7日）。
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken は構造破損・署名不一致・期限切れのいずれかを示す。
// 呼び出し側がこれらを区別できないよう単一のエラーに集約する
// （オラクル攻撃の防止）。
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims はJWTのクレームセット。標準クレームとユーザーIDを含む。
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Service はHS256署名のJWTを発行・検証する。
// 署名シークレットはプロセス全体の設定として起動時に1回注入される。
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService はServiceを生成する。
// シークレットが空の場合はエラーを返す（プロセスは起動に失敗すべき）。
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// Issue は指定ユーザーIDを主体とする署名付きトークンを発行する。
// 有効期限は発行時刻からTTL後の絶対時刻。
func (s *Service) Issue(userID string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	})

	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、ユーザーIDを返す。
// 失敗理由は区別せずすべてErrInvalidTokenを返す。
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// 署名方式の差し替え（alg=none等）を拒否する
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}

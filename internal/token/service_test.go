package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewService_EmptySecret(t *testing.T) {
	_, err := NewService("", DefaultTTL)
	if err == nil {
		t.Fatal("NewService() with empty secret should fail")
	}
}

func TestService_IssueAndVerify(t *testing.T) {
	svc, err := NewService("test-secret", DefaultTTL)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	tokenString, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if tokenString == "" {
		t.Fatal("Issue() returned empty token")
	}

	userID, err := svc.Verify(tokenString)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want %q", userID, "user-123")
	}
}

func TestService_VerifyExpiredToken(t *testing.T) {
	svc, err := NewService("test-secret", DefaultTTL)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	// 発行時刻を8日前にずらした期限切れトークンを作る
	past := time.Now().Add(-8 * 24 * time.Hour)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(DefaultTTL)),
		},
		UserID: "user-123",
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := svc.Verify(signed); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestService_VerifyWrongKey(t *testing.T) {
	issuer, err := NewService("key-a", DefaultTTL)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	verifier, err := NewService("key-b", DefaultTTL)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	tokenString, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := verifier.Verify(tokenString); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestService_VerifyGarbage(t *testing.T) {
	svc, err := NewService("test-secret", DefaultTTL)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "garbage"},
		{name: "truncated jwt", token: "eyJhbGciOiJIUzI1NiJ9.eyJ1c2VyX2lkIjo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token); err != ErrInvalidToken {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestService_VerifyUnsignedAlgorithm(t *testing.T) {
	svc, err := NewService("test-secret", DefaultTTL)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	// alg=noneのトークンは署名方式チェックで拒否される
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "user-123",
	})
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := svc.Verify(signed); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestService_VerifyMissingUserID(t *testing.T) {
	svc, err := NewService("test-secret", DefaultTTL)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := noSubject.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := svc.Verify(signed); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

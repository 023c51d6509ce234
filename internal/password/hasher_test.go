package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashProducesDifferentOutputs(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash1, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	hash2, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// ソルトが毎回ランダムなため、同一入力でも出力は異なる
	if hash1 == hash2 {
		t.Errorf("two hashes of the same password should differ: %q", hash1)
	}

	if !h.Verify("secret1", hash1) {
		t.Error("Verify() = false for first hash, want true")
	}
	if !h.Verify("secret1", hash2) {
		t.Error("Verify() = false for second hash, want true")
	}
}

func TestHasher_HashNeverEqualsPlaintext(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "secret1" || strings.Contains(hash, "secret1") {
		t.Errorf("hash must not contain the plaintext: %q", hash)
	}
}

func TestHasher_VerifyWrongPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if h.Verify("wrong", hash) {
		t.Error("Verify() = true for wrong password, want false")
	}
}

func TestHasher_VerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "not a bcrypt hash", hash: "plaintext-garbage"},
		{name: "truncated", hash: "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 不正なハッシュはpanicせず不一致になる
			if h.Verify("secret1", tt.hash) {
				t.Error("Verify() = true for malformed hash, want false")
			}
		})
	}
}

func TestNewHasher_CostOutOfRange(t *testing.T) {
	h := NewHasher(99)
	if h.cost != DefaultCost {
		t.Errorf("cost = %d, want %d", h.cost, DefaultCost)
	}

	h = NewHasher(-1)
	if h.cost != DefaultCost {
		t.Errorf("cost = %d, want %d", h.cost, DefaultCost)
	}
}

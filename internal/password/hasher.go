// Package password はパスワードのハッシュ化と検証を提供する。
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost はbcryptのデフォルトコストパラメータ。
// コストを上げるほどオフライン総当たり攻撃への耐性が高まる。
const DefaultCost = 10

// Hasher はbcryptによるパスワードハッシャー。
// ソルトは呼び出しごとにランダム生成され、出力文字列に埋め込まれるため、
// 同一入力でも出力は毎回異なる。
type Hasher struct {
	cost int
}

// NewHasher は指定コストのHasherを生成する。
// コストがbcryptの許容範囲外の場合はDefaultCostを使用する。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash はプレーンテキストのパスワードをハッシュ化する。
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify はパスワードが保存済みハッシュと一致するかを検証する。
// 比較はbcrypt内部で全桁に対して行われ、不一致位置によって実行時間が変わらない。
// ハッシュが不正な形式の場合もエラーを返さず不一致として扱う。
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

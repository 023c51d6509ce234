// Package upload はアバター画像ファイルの保存を提供する。
// 認証コアからは「保存済みファイルのパスを返すコラボレータ」としてのみ扱われる。
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotAnImage は画像以外のファイルが渡されたことを示す。
var ErrNotAnImage = fmt.Errorf("only image files are allowed")

// Saver はアップロードファイルの保存インターフェース。
// ハンドラーはこのインターフェース経由で保存済みパスを受け取る。
type Saver interface {
	Save(file multipart.File, header *multipart.FileHeader) (string, error)
}

// DiskStorage はローカルディスクへのファイル保存を行う。
type DiskStorage struct {
	dir string
}

// NewDiskStorage はDiskStorageを生成する。
// 保存先ディレクトリが存在しない場合は自動作成する。
func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStorage{dir: dir}, nil
}

// Dir は保存先ディレクトリを返す。静的配信のルートとして使用する。
func (s *DiskStorage) Dir() string {
	return s.dir
}

// Save はアップロードされた画像ファイルを保存し、保存先パスを返す。
// 画像以外のContent-TypeはErrNotAnImageで拒否する。
// ファイル名は衝突しないよう タイムスタンプ_乱数 + 元の拡張子 とする。
func (s *DiskStorage) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate filename: %w", err)
	}
	name := fmt.Sprintf("%d_%s%s",
		time.Now().UnixMilli(),
		hex.EncodeToString(suffix),
		filepath.Ext(header.Filename),
	)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return path, nil
}

// compile-time interface check
var _ Saver = (*DiskStorage)(nil)

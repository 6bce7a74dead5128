package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore 把产物写入本地目录。
type LocalStore struct {
	dir string
}

// NewLocalStore 创建以 dir 为根目录的本地存储，目录在首次保存时创建。
func NewLocalStore(dir string) *LocalStore {
	if dir == "" {
		dir = "."
	}
	return &LocalStore{dir: dir}
}

// Save 写入 dir/name，已存在时覆盖，返回完整路径。
func (s *LocalStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	clean, err := SanitizeFileName(name)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	path := filepath.Join(s.dir, clean)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

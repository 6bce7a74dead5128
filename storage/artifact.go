// Package storage 负责保存导出的 PDF：本地目录或 MinIO 对象存储。
package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidName 表示文件名为空或包含路径穿越。
var ErrInvalidName = errors.New("invalid file name")

// ArtifactStore 保存导出产物并返回其位置（本地路径或下载链接）。
type ArtifactStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// SanitizeFileName 去除路径分隔符，拒绝 ".." 与空名。
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidName
	}
	clean := strings.TrimSpace(name)
	clean = strings.ReplaceAll(clean, "/", "_")
	clean = strings.ReplaceAll(clean, "\\", "_")
	if clean == "" {
		return "", ErrInvalidName
	}
	return clean, nil
}

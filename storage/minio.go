package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/ByLCY/cvpress/config"
	"github.com/ByLCY/cvpress/logger"
)

const (
	pdfContentType  = "application/pdf"
	exportRuleID    = "cvpress-export-expiry"
	defaultPresign  = 24 * time.Hour
	bucketOpTimeout = 10 * time.Second
)

// MinIOStore 把产物上传到 MinIO 并返回预签名下载链接。
type MinIOStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	prefix string
}

// NewMinIOStore 建立客户端并确保存储桶存在；ExpireDays > 0 时设置生命周期规则。
func NewMinIOStore(ctx context.Context, cfg config.MinIOConfig) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint 未配置")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 MinIO 客户端失败: %w", err)
	}
	s := &MinIOStore{
		client: client,
		bucket: cfg.Bucket,
		expiry: config.GetDuration(cfg.PresignExpiry, defaultPresign),
		prefix: "exports",
	}

	opCtx, cancel := context.WithTimeout(ctx, bucketOpTimeout)
	defer cancel()
	if err := s.ensureBucketExists(opCtx, cfg.Location); err != nil {
		return nil, err
	}
	if cfg.ExpireDays > 0 {
		if err := s.setupLifecycle(opCtx, cfg.ExpireDays); err != nil {
			return nil, err
		}
	}
	logger.Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("MinIO 存储已就绪")
	return s, nil
}

func (s *MinIOStore) ensureBucketExists(ctx context.Context, location string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 失败: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("创建存储桶 %s 失败: %w", s.bucket, err)
	}
	logger.Info().Str("bucket", s.bucket).Msg("已创建存储桶")
	return nil
}

func (s *MinIOStore) setupLifecycle(ctx context.Context, days int) error {
	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{
		{
			ID:     exportRuleID,
			Status: "Enabled",
			RuleFilter: lifecycle.Filter{
				Prefix: s.prefix + "/",
			},
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(days),
			},
		},
	}
	if err := s.client.SetBucketLifecycle(ctx, s.bucket, lc); err != nil {
		return fmt.Errorf("设置存储桶 %s 生命周期失败: %w", s.bucket, err)
	}
	return nil
}

// ObjectName 返回对象键：exports/<uuid>/<name>，避免同名覆盖。
func (s *MinIOStore) ObjectName(name string) string {
	return path.Join(s.prefix, uuid.NewString(), name)
}

// Save 上传 PDF 并返回预签名下载链接。
func (s *MinIOStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	clean, err := SanitizeFileName(name)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	object := s.ObjectName(clean)
	info, err := s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: pdfContentType})
	if err != nil {
		return "", fmt.Errorf("上传对象 %s/%s 失败: %w", s.bucket, object, err)
	}
	logger.Debug().Str("object", object).Int64("size", info.Size).Msg("已上传导出文件")

	u, err := s.client.PresignedGetObject(ctx, s.bucket, object, s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("生成预签名链接失败: %w", err)
	}
	return u.String(), nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/cvpress/logger"
)

// Config 应用配置，对应 config.yaml。
type Config struct {
	Logger logger.Config `yaml:"logger"`
	Page   PageConfig    `yaml:"page"`
	Photo  PhotoConfig   `yaml:"photo"`
	Export ExportConfig  `yaml:"export"`
	Server ServerConfig  `yaml:"server"`
	Redis  RedisConfig   `yaml:"redis"`
	MinIO  MinIOConfig   `yaml:"minio"`
}

// PageConfig 纸张设置。
type PageConfig struct {
	Size string `yaml:"size"` // A4 / A5 / LETTER
}

// PhotoConfig 照片解码设置。
type PhotoConfig struct {
	DecodeTimeout string  `yaml:"decode_timeout"` // 例如 "3s"
	DPMM          float64 `yaml:"dpmm"`           // 每毫米像素数
	MaxBytes      int64   `yaml:"max_bytes"`
	BaseDir       string  `yaml:"base_dir"` // 相对路径照片的根目录
}

// ExportConfig 导出设置。
type ExportConfig struct {
	DefaultTemplate string `yaml:"default_template"`
	FileName        string `yaml:"file_name"` // 支持 ${path|filter} 占位符
	OutputDir       string `yaml:"output_dir"`
	ThemeFile       string `yaml:"theme_file"`
	Sink            string `yaml:"sink"` // local 或 minio
	Creator         string `yaml:"creator"`
}

// ServerConfig HTTP 服务设置。
type ServerConfig struct {
	Address         string `yaml:"address"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
}

// RedisConfig 草稿存储使用的 Redis；Address 为空时草稿保存在内存中。
type RedisConfig struct {
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
	DraftTTL  string `yaml:"draft_ttl"` // 为空或 0 表示不过期
	PoolSize  int    `yaml:"pool_size"`
	// 超时（秒）
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
}

// MinIOConfig 导出文件上传目标。
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	Bucket          string `yaml:"bucket"`
	Location        string `yaml:"location"`
	PresignExpiry   string `yaml:"presign_expiry"`
	ExpireDays      int    `yaml:"expire_days"` // 导出文件的生命周期，0 表示不设置
}

// Default 返回全部取默认值的配置。
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig 读取 YAML 配置；path 为空时只使用默认值与环境变量。
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CVPRESS_REDIS_ADDR"); v != "" {
		c.Redis.Address = v
	}
	if v := os.Getenv("CVPRESS_MINIO_ENDPOINT"); v != "" {
		c.MinIO.Endpoint = v
	}
	if v := os.Getenv("CVPRESS_MINIO_ACCESS_KEY"); v != "" {
		c.MinIO.AccessKeyID = v
	}
	if v := os.Getenv("CVPRESS_MINIO_SECRET_KEY"); v != "" {
		c.MinIO.SecretAccessKey = v
	}
	if v := os.Getenv("CVPRESS_SERVER_ADDRESS"); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv("CVPRESS_LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "json"
	}
	if c.Page.Size == "" {
		c.Page.Size = "A4"
	}
	if c.Photo.DecodeTimeout == "" {
		c.Photo.DecodeTimeout = "3s"
	}
	if c.Photo.DPMM <= 0 {
		c.Photo.DPMM = 12
	}
	if c.Photo.MaxBytes <= 0 {
		c.Photo.MaxBytes = 10 << 20
	}
	if c.Export.DefaultTemplate == "" {
		c.Export.DefaultTemplate = "modern"
	}
	if c.Export.FileName == "" {
		c.Export.FileName = "${personalInfo.fullName|slug}_CV.pdf"
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = "output"
	}
	if c.Export.Sink == "" {
		c.Export.Sink = "local"
	}
	if c.Export.Creator == "" {
		c.Export.Creator = "cvpress"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "60s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = 16 << 20
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "cvpress:draft:"
	}
	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = "cvpress-exports"
	}
	if c.MinIO.PresignExpiry == "" {
		c.MinIO.PresignExpiry = "24h"
	}
}

// Validate 检查取值范围。
func (c *Config) Validate() error {
	switch strings.ToLower(c.Export.Sink) {
	case "local", "minio":
	default:
		return fmt.Errorf("export.sink 只能是 local 或 minio: %s", c.Export.Sink)
	}
	if strings.EqualFold(c.Export.Sink, "minio") && c.MinIO.Endpoint == "" {
		return fmt.Errorf("export.sink 为 minio 时必须配置 minio.endpoint")
	}
	for name, v := range map[string]string{
		"photo.decode_timeout":    c.Photo.DecodeTimeout,
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"minio.presign_expiry":    c.MinIO.PresignExpiry,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s 不是合法的时长: %q", name, v)
		}
	}
	if c.Redis.DraftTTL != "" {
		if _, err := time.ParseDuration(c.Redis.DraftTTL); err != nil {
			return fmt.Errorf("redis.draft_ttl 不是合法的时长: %q", c.Redis.DraftTTL)
		}
	}
	return nil
}

// GetDuration 解析时长字符串，为空或非法时返回默认值。
func GetDuration(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	// 纯数字按秒处理
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

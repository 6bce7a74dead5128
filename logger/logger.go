package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger 全局日志实例，Init 之前为 zerolog 默认配置。
var Logger = log.Logger

// Config 日志配置。
type Config struct {
	Level        string `json:"level" yaml:"level"`                 // debug / info / warn / error
	Format       string `json:"format" yaml:"format"`               // json 或 pretty（控制台）
	TimeFormat   string `json:"time_format" yaml:"time_format"`     // 为空时使用 RFC3339
	ReportCaller bool   `json:"report_caller" yaml:"report_caller"` // 输出调用位置
}

// Init 按配置初始化全局日志，同时替换 zerolog 的全局 logger。
func Init(config Config) {
	Logger = New(config, os.Stdout)
	log.Logger = Logger
}

// New 创建写入 out 的日志实例，不修改全局状态。
func New(config Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	output := out
	if config.Format == "pretty" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: config.TimeFormat}
	}

	ctx := zerolog.New(output).Level(level).With().Timestamp()
	if config.ReportCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

func Debug() *zerolog.Event { return Logger.Debug() }
func Info() *zerolog.Event  { return Logger.Info() }
func Warn() *zerolog.Event  { return Logger.Warn() }
func Error() *zerolog.Event { return Logger.Error() }

// Fatal 记录后退出进程。
func Fatal() *zerolog.Event { return Logger.Fatal() }

// Ctx 返回上下文中的日志实例；上下文中没有时返回全局实例。
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}

// WithContext 将全局日志实例放入上下文。
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}

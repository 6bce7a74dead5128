package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ByLCY/cvpress/config"
	"github.com/ByLCY/cvpress/drafts"
	"github.com/ByLCY/cvpress/export"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/logger"
	"github.com/ByLCY/cvpress/resume"
	"github.com/ByLCY/cvpress/server"
	"github.com/ByLCY/cvpress/storage"
)

func main() {
	var (
		configPath string
		input      string
		output     string
		template   string
		themePath  string
		debugPath  string
		serve      bool
		upload     bool
	)
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径，为空时使用默认配置")
	pflag.StringVarP(&input, "in", "i", "", "简历 JSON 文件路径")
	pflag.StringVarP(&output, "out", "o", "", "PDF 输出路径，为空时按文件名模板写入 export.output_dir")
	pflag.StringVarP(&template, "template", "t", "", "版式：modern / classic / creative / minimal")
	pflag.StringVar(&themePath, "theme", "", "主题文件路径，覆盖 export.theme_file")
	pflag.StringVar(&debugPath, "debug", "", "布局调试 JSON 输出路径")
	pflag.BoolVar(&serve, "serve", false, "启动 HTTP 服务")
	pflag.BoolVar(&upload, "upload", false, "导出后上传到 MinIO")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if themePath != "" {
		cfg.Export.ThemeFile = themePath
	}
	if upload {
		cfg.Export.Sink = "minio"
	}
	logger.Init(cfg.Logger)

	exp, err := export.FromConfig(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化导出器失败")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serve {
		if err := runServer(ctx, cfg, exp); err != nil {
			logger.Fatal().Err(err).Msg("HTTP 服务异常退出")
		}
		return
	}

	if input == "" {
		fmt.Fprintln(os.Stderr, "缺少 --in 参数")
		pflag.Usage()
		os.Exit(2)
	}
	loc, err := run(ctx, cfg, exp, input, output, template, debugPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("生成 PDF 失败")
	}
	fmt.Printf("已生成 PDF：%s\n", loc)
}

// run 串联读取、排版、渲染与保存，返回产物位置。
func run(ctx context.Context, cfg *config.Config, exp *export.Exporter, inputPath, outputPath, template, debugPath string) (string, error) {
	if exp == nil {
		return "", fmt.Errorf("exporter 不能为空")
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("无法读取简历文件 %s: %w", inputPath, err)
	}

	if debugPath != "" {
		res, _, err := exp.Layout(ctx, resume.NormalizeJSON(data), template)
		if err != nil {
			return "", fmt.Errorf("布局计算失败: %w", err)
		}
		if err := writeDebug(res, debugPath); err != nil {
			return "", err
		}
	}

	art, err := exp.ExportJSON(ctx, data, template)
	if err != nil {
		return "", err
	}

	if outputPath != "" && cfg.Export.Sink != "minio" {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return "", fmt.Errorf("创建输出目录失败: %w", err)
		}
		if err := os.WriteFile(outputPath, art.PDF, 0o644); err != nil {
			return "", fmt.Errorf("写入 PDF 文件失败: %w", err)
		}
		return outputPath, nil
	}

	sink, err := newSink(ctx, cfg)
	if err != nil {
		return "", err
	}
	loc, err := sink.Save(ctx, art.FileName, art.PDF)
	if err != nil {
		return "", fmt.Errorf("保存 PDF 失败: %w", err)
	}
	return loc, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// newSink 按 export.sink 选择本地目录或 MinIO。
func newSink(ctx context.Context, cfg *config.Config) (storage.ArtifactStore, error) {
	if cfg.Export.Sink == "minio" {
		return storage.NewMinIOStore(ctx, cfg.MinIO)
	}
	return storage.NewLocalStore(cfg.Export.OutputDir), nil
}

func runServer(ctx context.Context, cfg *config.Config, exp *export.Exporter) error {
	var store drafts.Store
	if cfg.Redis.Address != "" {
		rs, err := drafts.NewRedisStore(cfg.Redis)
		if err != nil {
			return err
		}
		defer rs.Close()
		store = rs
	} else {
		logger.Warn().Msg("未配置 redis.address，草稿仅保存在内存中")
		store = drafts.NewMemoryStore()
	}

	sink, err := newSink(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, &server.Handler{
		Exporter: exp,
		Drafts:   store,
		Sink:     sink,
	})
	return server.Run(ctx, srv, config.GetDuration(cfg.Server.ShutdownTimeout, 10*time.Second))
}

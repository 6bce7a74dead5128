// Package export 串联数据整理、照片裁剪、排版与 PDF 渲染。
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ByLCY/cvpress/binding"
	"github.com/ByLCY/cvpress/config"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/logger"
	"github.com/ByLCY/cvpress/photo"
	"github.com/ByLCY/cvpress/renderer"
	canvasrenderer "github.com/ByLCY/cvpress/renderer/canvas"
	"github.com/ByLCY/cvpress/resume"
	"github.com/ByLCY/cvpress/storage"
	"github.com/ByLCY/cvpress/templates"
)

// FallbackFileName 在文件名模板无法展开时使用。
const FallbackFileName = "CV.pdf"

// Artifact 一次导出的结果。
type Artifact struct {
	PDF          []byte
	Pages        int
	Template     resume.TemplateChoice
	FileName     string
	Overflows    []layout.Overflow
	PhotoSkipped bool
}

// Options 配置 Exporter。
type Options struct {
	PageSize        string
	DefaultTemplate string
	FileName        string // 支持 ${path|filter} 占位符
	Creator         string
	Themes          templates.ThemeSet
}

// Backend 既负责测量文字，也负责输出 PDF。
type Backend interface {
	renderer.Renderer
	layout.Typesetter
}

// Exporter 可并发使用。
type Exporter struct {
	opts     Options
	width    float64
	height   float64
	clipper  *photo.Clipper
	renderer Backend
}

// New 创建导出器，纸张尺寸无法识别时返回错误。r 为空时使用 canvas 渲染器。
func New(opts Options, clipper *photo.Clipper, r Backend) (*Exporter, error) {
	if opts.PageSize == "" {
		opts.PageSize = "A4"
	}
	w, h, err := layout.PageSize(opts.PageSize)
	if err != nil {
		return nil, err
	}
	if opts.FileName == "" {
		opts.FileName = FallbackFileName
	}
	if opts.Themes == nil {
		opts.Themes = templates.ThemeSet{}
	}
	if clipper == nil {
		clipper = photo.NewClipper(photo.Options{})
	}
	if r == nil {
		r = canvasrenderer.NewRenderer("")
	}
	return &Exporter{opts: opts, width: w, height: h, clipper: clipper, renderer: r}, nil
}

// FromConfig 按配置创建导出器，并加载主题文件。
func FromConfig(cfg *config.Config) (*Exporter, error) {
	themes, err := templates.LoadThemeFile(cfg.Export.ThemeFile)
	if err != nil {
		return nil, err
	}
	clipper := photo.NewClipper(photo.Options{
		BaseDir:  cfg.Photo.BaseDir,
		Timeout:  config.GetDuration(cfg.Photo.DecodeTimeout, 3*time.Second),
		DPMM:     cfg.Photo.DPMM,
		MaxBytes: cfg.Photo.MaxBytes,
	})
	return New(Options{
		PageSize:        cfg.Page.Size,
		DefaultTemplate: cfg.Export.DefaultTemplate,
		FileName:        cfg.Export.FileName,
		Creator:         cfg.Export.Creator,
		Themes:          themes,
	}, clipper, canvasrenderer.NewRenderer(""))
}

// Choose 返回请求的版式，为空时使用默认版式。
func (e *Exporter) Choose(name string) resume.TemplateChoice {
	if name == "" {
		name = e.opts.DefaultTemplate
	}
	return resume.ParseTemplate(name)
}

// Layout 整理数据并排版，不渲染。photoSkipped 表示照片存在但无法使用。
func (e *Exporter) Layout(ctx context.Context, doc resume.Document, template string) (res *layout.Result, photoSkipped bool, err error) {
	choice := e.Choose(template)
	opts := templates.Options{Template: choice, Creator: e.opts.Creator}
	th := e.opts.Themes.For(choice)
	opts.Theme = &th

	if doc.PersonalInfo.HasPhoto() {
		img, err := e.clipper.Clip(ctx, doc.PersonalInfo.Photo, templates.PhotoSpec(choice))
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("template", choice.String()).Msg("照片无法使用，已跳过")
			photoSkipped = true
		} else {
			opts.Photo = img
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, photoSkipped, err
	}

	res, err = templates.Layout(doc, opts, layout.SheetOptions{
		Width:      e.width,
		Height:     e.height,
		Typesetter: e.renderer,
	})
	if err != nil {
		return nil, photoSkipped, err
	}
	for _, o := range res.Overflows {
		logger.Ctx(ctx).Warn().
			Str("block", o.Block).
			Int("page", o.Page).
			Float64("height", o.Height).
			Float64("available", o.Available).
			Msg("内容超出页面可用高度")
	}
	return res, photoSkipped, nil
}

// Export 生成 PDF。raw 为任意形状的原始数据（通常来自 JSON 解码）。
func (e *Exporter) Export(ctx context.Context, raw any, template string) (*Artifact, error) {
	return e.export(ctx, resume.Normalize(raw), template)
}

// ExportJSON 与 Export 相同，输入为 JSON 字节。
func (e *Exporter) ExportJSON(ctx context.Context, data []byte, template string) (*Artifact, error) {
	return e.export(ctx, resume.NormalizeJSON(data), template)
}

func (e *Exporter) export(ctx context.Context, doc resume.Document, template string) (*Artifact, error) {
	start := time.Now()
	res, skipped, err := e.Layout(ctx, doc, template)
	if err != nil {
		return nil, fmt.Errorf("排版失败: %w", err)
	}
	pdf, err := e.renderer.Render(res)
	if err != nil {
		return nil, fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	art := &Artifact{
		PDF:          pdf,
		Pages:        len(res.Pages),
		Template:     e.Choose(template),
		FileName:     e.FileName(doc),
		Overflows:    res.Overflows,
		PhotoSkipped: skipped,
	}
	logger.Ctx(ctx).Info().
		Str("template", art.Template.String()).
		Int("pages", art.Pages).
		Int("bytes", len(pdf)).
		Dur("elapsed", time.Since(start)).
		Msg("导出完成")
	return art, nil
}

// FileName 按模板展开文件名，字段缺失或结果不合法时返回 CV.pdf。
func (e *Exporter) FileName(doc resume.Document) string {
	raw, err := json.Marshal(doc)
	if err != nil {
		return FallbackFileName
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return FallbackFileName
	}
	name, ok := binding.Strict(e.opts.FileName, data)
	if !ok {
		// 保留未展开的占位符，便于定位缺失字段
		logger.Debug().Str("pattern", binding.Interpolate(e.opts.FileName, data)).Msg("文件名模板字段缺失，使用 CV.pdf")
		return FallbackFileName
	}
	clean, err := storage.SanitizeFileName(name)
	if err != nil {
		return FallbackFileName
	}
	return clean
}

// Save 导出并写入 store，返回产物与其位置。
func (e *Exporter) Save(ctx context.Context, store storage.ArtifactStore, raw any, template string) (*Artifact, string, error) {
	art, err := e.Export(ctx, raw, template)
	if err != nil {
		return nil, "", err
	}
	loc, err := store.Save(ctx, art.FileName, art.PDF)
	if err != nil {
		return art, "", fmt.Errorf("保存导出文件失败: %w", err)
	}
	return art, loc, nil
}

package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Shape 照片裁剪形状。
type Shape string

const (
	Circle Shape = "circle"
	Square Shape = "square"
)

// Spec 描述照片在页面上的目标尺寸（mm）与形状。
type Spec struct {
	SizeMM float64
	Shape  Shape
}

// ErrEmptyRef 表示没有提供照片引用。
var ErrEmptyRef = errors.New("照片引用为空")

const (
	defaultTimeout = 3 * time.Second
	defaultDPMM    = 12.0 // 约 300dpi
	maxPixels      = 40_000_000
)

// Options 配置照片解析。
type Options struct {
	BaseDir  string        // 解析相对路径的目录，为空时只接受 data URL 与 base64
	Timeout  time.Duration // 解码超时
	DPMM     float64       // 输出像素密度
	MaxBytes int64         // 原始数据上限，<=0 表示不限制
}

// Clipper 负责读取、解码并裁剪照片，可并发使用。
type Clipper struct {
	baseDir  string
	timeout  time.Duration
	dpmm     float64
	maxBytes int64
}

// NewClipper 创建照片裁剪器。
func NewClipper(opts Options) *Clipper {
	c := &Clipper{
		baseDir:  opts.BaseDir,
		timeout:  opts.Timeout,
		dpmm:     opts.DPMM,
		maxBytes: opts.MaxBytes,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.dpmm <= 0 {
		c.dpmm = defaultDPMM
	}
	return c
}

// Clip 读取 ref 指向的照片并输出裁剪后的方形图像。
func (c *Clipper) Clip(ctx context.Context, ref string, spec Spec) (image.Image, error) {
	data, err := c.Load(ref)
	if err != nil {
		return nil, err
	}
	img, err := c.Decode(ctx, data)
	if err != nil {
		return nil, err
	}
	px := int(math.Round(spec.SizeMM * c.dpmm))
	return Fit(img, px, spec.Shape), nil
}

// Load 解析照片引用：data URL、裸 base64 或相对 BaseDir 的路径。
func (c *Clipper) Load(ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyRef
	}
	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(ref, "data:"):
		data, err = decodeDataURL(ref)
	case looksLikeBase64(ref):
		data, err = base64.StdEncoding.DecodeString(ref)
		if err != nil {
			err = fmt.Errorf("解码 base64 照片失败: %w", err)
		}
	default:
		data, err = c.readFile(ref)
	}
	if err != nil {
		return nil, err
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("照片大小 %d 字节超过上限 %d", len(data), c.maxBytes)
	}
	return data, nil
}

func (c *Clipper) readFile(ref string) ([]byte, error) {
	if c.baseDir == "" && !filepath.IsAbs(ref) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用路径：%s", ref)
	}
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取照片 %s 失败: %w", ref, err)
	}
	return data, nil
}

func decodeDataURL(ref string) ([]byte, error) {
	head, payload, ok := strings.Cut(ref, ",")
	if !ok {
		return nil, fmt.Errorf("data URL 缺少数据部分")
	}
	if !strings.HasSuffix(head, ";base64") {
		return nil, fmt.Errorf("仅支持 base64 编码的 data URL")
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("解码 data URL 失败: %w", err)
	}
	return data, nil
}

func looksLikeBase64(s string) bool {
	if len(s) < 64 || strings.ContainsAny(s, "\\.") {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '/', r == '=':
		default:
			return false
		}
	}
	return true
}

// Decode 在独立 goroutine 中解码，受 ctx 与超时约束。
func (c *Clipper) Decode(ctx context.Context, data []byte) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("解码照片已取消: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("无法识别照片格式: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("照片尺寸 %dx%d 不受支持", cfg.Width, cfg.Height)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type result struct {
		img image.Image
		err error
	}
	ch := make(chan result, 1)
	go func() {
		img, _, err := image.Decode(bytes.NewReader(data))
		ch <- result{img: img, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("解码照片超时: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("解码照片失败: %w", r.err)
		}
		return r.img, nil
	}
}

// AspectFill 计算把 srcW×srcH 的图像等比铺满 size×size 方框时的绘制尺寸与偏移，
// 溢出的一边居中裁掉，偏移为负数。
func AspectFill(srcW, srcH, size int) (drawW, drawH, offX, offY int) {
	if srcW <= 0 || srcH <= 0 || size <= 0 {
		return size, size, 0, 0
	}
	ratio := float64(srcW) / float64(srcH)
	if ratio >= 1 {
		drawH = size
		drawW = int(math.Round(float64(size) * ratio))
	} else {
		drawW = size
		drawH = int(math.Round(float64(size) / ratio))
	}
	offX = (size - drawW) / 2
	offY = (size - drawH) / 2
	return drawW, drawH, offX, offY
}

// Fit 把图像等比铺满 px×px 的方框，Circle 形状会应用圆形透明遮罩。
func Fit(src image.Image, px int, shape Shape) *image.RGBA {
	if px <= 0 {
		px = 1
	}
	b := src.Bounds()
	drawW, drawH, offX, offY := AspectFill(b.Dx(), b.Dy(), px)

	square := image.NewRGBA(image.Rect(0, 0, px, px))
	target := image.Rect(offX, offY, offX+drawW, offY+drawH)
	xdraw.CatmullRom.Scale(square, target, src, b, xdraw.Over, nil)
	if shape != Circle {
		return square
	}

	out := image.NewRGBA(square.Bounds())
	draw.DrawMask(out, out.Bounds(), square, image.Point{}, circleMask{size: px}, image.Point{}, draw.Src)
	return out
}

// circleMask 是内切圆的抗锯齿 alpha 遮罩。
type circleMask struct{ size int }

func (m circleMask) ColorModel() color.Model { return color.AlphaModel }

func (m circleMask) Bounds() image.Rectangle { return image.Rect(0, 0, m.size, m.size) }

func (m circleMask) At(x, y int) color.Color {
	r := float64(m.size) / 2
	d := math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r)
	switch {
	case d <= r-0.5:
		return color.Alpha{A: 255}
	case d >= r+0.5:
		return color.Alpha{A: 0}
	default:
		return color.Alpha{A: uint8((r + 0.5 - d) * 255)}
	}
}

package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("编码 PNG 失败: %v", err)
	}
	return buf.Bytes()
}

func TestAspectFill(t *testing.T) {
	cases := []struct {
		w, h, size         int
		dw, dh, offX, offY int
	}{
		{200, 100, 50, 100, 50, -25, 0},
		{100, 200, 50, 50, 100, 0, -25},
		{80, 80, 40, 40, 40, 0, 0},
	}
	for _, c := range cases {
		dw, dh, ox, oy := AspectFill(c.w, c.h, c.size)
		if dw != c.dw || dh != c.dh || ox != c.offX || oy != c.offY {
			t.Fatalf("AspectFill(%d,%d,%d) = %d,%d,%d,%d", c.w, c.h, c.size, dw, dh, ox, oy)
		}
	}
}

func TestClipDataURLCircle(t *testing.T) {
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t, 120, 60))
	c := NewClipper(Options{DPMM: 2})
	img, err := c.Clip(context.Background(), ref, Spec{SizeMM: 30, Shape: Circle})
	if err != nil {
		t.Fatalf("Clip 失败: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 60 {
		t.Fatalf("期望 60x60，实际 %v", b)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Fatalf("圆形裁剪后角落应透明，alpha=%d", a)
	}
	if _, _, _, a := img.At(30, 30).RGBA(); a != 0xffff {
		t.Fatalf("圆心应不透明，alpha=%d", a)
	}
}

func TestClipSquareFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "me.png"), encodePNG(t, 40, 90), 0o644); err != nil {
		t.Fatalf("写入测试图片失败: %v", err)
	}
	c := NewClipper(Options{BaseDir: dir, DPMM: 1})
	img, err := c.Clip(context.Background(), "me.png", Spec{SizeMM: 25, Shape: Square})
	if err != nil {
		t.Fatalf("Clip 失败: %v", err)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0xffff {
		t.Fatalf("方形裁剪角落应不透明，alpha=%d", a)
	}
}

func TestClipFailures(t *testing.T) {
	c := NewClipper(Options{})
	if _, err := c.Clip(context.Background(), "", Spec{SizeMM: 30}); err != ErrEmptyRef {
		t.Fatalf("空引用应返回 ErrEmptyRef，实际 %v", err)
	}
	corrupt := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("definitely not an image"))
	if _, err := c.Clip(context.Background(), corrupt, Spec{SizeMM: 30}); err == nil {
		t.Fatalf("损坏数据应报错")
	}
	if _, err := c.Clip(context.Background(), "data:image/png,raw", Spec{SizeMM: 30}); err == nil {
		t.Fatalf("非 base64 data URL 应报错")
	}
	if _, err := c.Clip(context.Background(), "me.png", Spec{SizeMM: 30}); err == nil {
		t.Fatalf("未配置目录时相对路径应报错")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Decode(ctx, encodePNG(t, 4, 4)); err == nil {
		t.Fatalf("已取消的 context 应报错")
	}

	limited := NewClipper(Options{MaxBytes: 10})
	ref := base64.StdEncoding.EncodeToString(encodePNG(t, 64, 64))
	if _, err := limited.Load(ref); err == nil {
		t.Fatalf("超过大小上限应报错")
	}
}

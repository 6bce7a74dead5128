package layout

import (
	"bytes"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDebugJSONOmitsPixels 验证调试 JSON 包含页面与越界记录，但不输出图片像素。
func TestDebugJSONOmitsPixels(t *testing.T) {
	sheet := newTestSheet()
	sheet.RegisterImage(ImageResource{Name: "photo", Shape: "circle", Image: image.NewRGBA(image.Rect(0, 0, 4, 3))})
	sheet.AddImage(0, ImageBox{Path: "photo", X: 10, Y: 10, Width: 20, Height: 15})
	sheet.RecordOverflow(Overflow{Page: 0, Block: "experience", Height: 400, Available: 257})

	var buf bytes.Buffer
	if err := EncodeDebugJSON(&buf, sheet.Result()); err != nil {
		t.Fatalf("输出调试 JSON 失败: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if strings.Contains(buf.String(), "Pix") {
		t.Fatalf("调试 JSON 不应包含像素数据")
	}
	if !strings.Contains(buf.String(), `"experience"`) {
		t.Fatalf("调试 JSON 缺少越界记录")
	}
	if err := EncodeDebugJSON(&buf, nil); err == nil {
		t.Fatalf("nil 结果应报错")
	}
}

func TestWriteDebugJSONCreatesDir(t *testing.T) {
	sheet := newTestSheet()
	sheet.EnsurePage(0)
	path := filepath.Join(t.TempDir(), "nested", "layout.json")
	if err := WriteDebugJSON(sheet.Result(), path); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("调试文件不存在: %v", err)
	}
}

package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体文件名，可写为 "embed:Go-Regular.ttf" 或直接 "Go-Regular.ttf"。
const (
	Regular    = "Go-Regular.ttf"
	Bold       = "Go-Bold.ttf"
	Italic     = "Go-Italic.ttf"
	BoldItalic = "Go-BoldItalic.ttf"
)

var builtin = map[string][]byte{
	Regular:    goregular.TTF,
	Bold:       gobold.TTF,
	Italic:     goitalic.TTF,
	BoldItalic: gobolditalic.TTF,
}

// Load 返回内置字体的字节数据。
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "embed:")
	data, ok := builtin[name]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未找到", name)
	}
	return data, nil
}

// Names 列出全部内置字体。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

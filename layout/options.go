package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// SheetOptions 配置一次排版所需的纸张与排版后端。
type SheetOptions struct {
	Width      float64 // mm
	Height     float64 // mm
	Margin     Margin
	Typesetter Typesetter
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 约定 width/fontSize/lineHeight 均为毫米。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

var pagePresets = map[string][2]float64{
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
}

// PageSize 返回预设纸张的宽高（mm，纵向）。
func PageSize(name string) (float64, float64, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		key = "A4"
	}
	base, ok := pagePresets[key]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", name)
	}
	return base[0], base[1], nil
}

// ParseColor 解析 #rgb / #rrggbb / #rrggbbaa 形式的颜色，alpha 被忽略。
func ParseColor(value string) (Color, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(value) {
	case 3:
		value = strings.Repeat(value[0:1], 2) + strings.Repeat(value[1:2], 2) + strings.Repeat(value[2:3], 2)
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var out [3]int
	for i := range out {
		n, err := strconv.ParseUint(value[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		out[i] = int(n)
	}
	return Color{R: out[0], G: out[1], B: out[2]}, nil
}

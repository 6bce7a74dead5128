package templates

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ByLCY/cvpress/dsl"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/resume"
)

// Theme 保存一个版式的配色与字号（pt）。
type Theme struct {
	Accent       layout.Color
	Text         layout.Color
	Muted        layout.Color
	Rule         layout.Color
	OnAccent     layout.Color // 深色背景上的文字
	Sidebar      layout.Color
	SidebarMuted layout.Color

	NameSize    float64
	TitleSize   float64
	HeadingSize float64
	BodySize    float64
	SmallSize   float64
	LineFactor  float64
}

var (
	white = layout.Color{R: 255, G: 255, B: 255}
	black = layout.Color{R: 0, G: 0, B: 0}
)

// DefaultTheme 返回版式的内置主题。
func DefaultTheme(choice resume.TemplateChoice) Theme {
	switch choice {
	case resume.Modern:
		return Theme{
			Accent: layout.Color{R: 41, G: 98, B: 255}, Text: layout.Color{R: 60, G: 60, B: 60},
			Muted: layout.Color{R: 80, G: 80, B: 80}, Rule: layout.Color{R: 220, G: 220, B: 220},
			OnAccent: white, Sidebar: layout.Color{R: 41, G: 98, B: 255}, SidebarMuted: layout.Color{R: 200, G: 215, B: 255},
			NameSize: 24, TitleSize: 13, HeadingSize: 12, BodySize: 10, SmallSize: 9, LineFactor: 1.35,
		}
	case resume.Classic:
		return Theme{
			Accent: black, Text: layout.Color{R: 30, G: 30, B: 30},
			Muted: layout.Color{R: 90, G: 90, B: 90}, Rule: layout.Color{R: 60, G: 60, B: 60},
			OnAccent: white, Sidebar: black, SidebarMuted: layout.Color{R: 120, G: 120, B: 120},
			NameSize: 20, TitleSize: 13, HeadingSize: 13, BodySize: 10, SmallSize: 9, LineFactor: 1.4,
		}
	case resume.Creative:
		return Theme{
			Accent: layout.Color{R: 59, G: 130, B: 246}, Text: layout.Color{R: 50, G: 50, B: 50},
			Muted: layout.Color{R: 110, G: 110, B: 110}, Rule: layout.Color{R: 200, G: 200, B: 200},
			OnAccent: white, Sidebar: layout.Color{R: 30, G: 41, B: 59}, SidebarMuted: layout.Color{R: 100, G: 110, B: 130},
			NameSize: 16, TitleSize: 10, HeadingSize: 14, BodySize: 10, SmallSize: 8, LineFactor: 1.4,
		}
	default:
		return Theme{
			Accent: layout.Color{R: 80, G: 80, B: 80}, Text: layout.Color{R: 60, G: 60, B: 60},
			Muted: layout.Color{R: 100, G: 100, B: 100}, Rule: layout.Color{R: 200, G: 200, B: 200},
			OnAccent: white, Sidebar: white, SidebarMuted: layout.Color{R: 200, G: 200, B: 200},
			NameSize: 18, TitleSize: 11, HeadingSize: 11, BodySize: 10, SmallSize: 9, LineFactor: 1.35,
		}
	}
}

// ThemeSet 保存各版式覆盖后的主题。
type ThemeSet map[resume.TemplateChoice]Theme

// For 返回版式的主题，未覆盖时使用内置主题。
func (ts ThemeSet) For(choice resume.TemplateChoice) Theme {
	if th, ok := ts[choice]; ok {
		return th
	}
	return DefaultTheme(choice)
}

// LoadThemeFile 读取主题文件，path 为空时返回空集合。
func LoadThemeFile(path string) (ThemeSet, error) {
	if path == "" {
		return ThemeSet{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开主题文件 %s: %w", path, err)
	}
	defer f.Close()
	return LoadThemes(f)
}

// LoadThemes 解析主题文件并应用到内置主题上。
// 名为 default 的主题作用于全部版式，其余主题按版式名匹配，可通过 extends 继承。
func LoadThemes(r io.Reader) (ThemeSet, error) {
	file, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析主题文件失败: %w", err)
	}
	set := ThemeSet{}
	for _, choice := range resume.Templates {
		th := DefaultTheme(choice)
		if base := file.Lookup("default"); base != nil {
			if err := applyEntries(&th, base); err != nil {
				return nil, err
			}
		}
		if err := applyChain(&th, file, string(choice), map[string]bool{}); err != nil {
			return nil, err
		}
		set[choice] = th
	}
	// 被 extends 引用的主题可以作为公共基础主题
	bases := map[string]bool{}
	for _, t := range file.Themes {
		if t.Extends != "" {
			bases[t.Extends] = true
		}
	}
	for _, t := range file.Themes {
		if t.Name != "default" && !isTemplateName(t.Name) && t.Extends == "" && !bases[t.Name] {
			return nil, fmt.Errorf("第 %d 行: 未知的版式 %s", t.Pos.Line, t.Name)
		}
	}
	return set, nil
}

func isTemplateName(name string) bool {
	for _, c := range resume.Templates {
		if string(c) == name {
			return true
		}
	}
	return false
}

func applyChain(th *Theme, file *dsl.File, name string, seen map[string]bool) error {
	node := file.Lookup(name)
	if node == nil || name == "default" {
		return nil
	}
	if seen[name] {
		return fmt.Errorf("第 %d 行: 主题 %s 存在循环继承", node.Pos.Line, name)
	}
	seen[name] = true
	if node.Extends != "" {
		if file.Lookup(node.Extends) == nil {
			return fmt.Errorf("第 %d 行: 主题 %s 继承的 %s 不存在", node.Pos.Line, name, node.Extends)
		}
		if err := applyChain(th, file, node.Extends, seen); err != nil {
			return err
		}
	}
	return applyEntries(th, node)
}

func applyEntries(th *Theme, node *dsl.Theme) error {
	for _, e := range node.Entries {
		raw := e.Value.Raw()
		var err error
		switch strings.ToLower(e.Key) {
		case "accent":
			th.Accent, err = layout.ParseColor(raw)
		case "text":
			th.Text, err = layout.ParseColor(raw)
		case "muted":
			th.Muted, err = layout.ParseColor(raw)
		case "rule":
			th.Rule, err = layout.ParseColor(raw)
		case "on-accent":
			th.OnAccent, err = layout.ParseColor(raw)
		case "sidebar":
			th.Sidebar, err = layout.ParseColor(raw)
		case "sidebar-muted":
			th.SidebarMuted, err = layout.ParseColor(raw)
		case "name-size":
			th.NameSize, err = parseFontSize(raw)
		case "title-size":
			th.TitleSize, err = parseFontSize(raw)
		case "heading-size":
			th.HeadingSize, err = parseFontSize(raw)
		case "body-size":
			th.BodySize, err = parseFontSize(raw)
		case "small-size":
			th.SmallSize, err = parseFontSize(raw)
		case "line-height":
			var spec layout.LineHeightSpec
			spec, err = layout.ParseLineHeight(raw)
			if err == nil {
				// 绝对行高按当前正文字号折算为倍数
				body := layout.Length{Value: th.BodySize, Unit: layout.UnitPT}
				th.LineFactor = spec.Resolve(body, layout.UnitPT) / th.BodySize
			}
		default:
			err = fmt.Errorf("未知的主题属性")
		}
		if err != nil {
			return fmt.Errorf("第 %d 行: 主题 %s 的 %s=%q 无效: %w", e.Pos.Line, node.Name, e.Key, raw, err)
		}
	}
	return nil
}

// parseFontSize 把长度解析为 pt，无单位时按 pt 处理。
func parseFontSize(raw string) (float64, error) {
	l := layout.ParseRawLengthStr(raw)
	if l.Unit == layout.UnitNone {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0, err
		}
		l = layout.Length{Value: f, Unit: layout.UnitPT}
	}
	pt := l.ToPT()
	if pt <= 0 {
		return 0, fmt.Errorf("字号必须为正数")
	}
	return pt, nil
}

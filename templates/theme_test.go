package templates

import (
	"strings"
	"testing"

	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/resume"
)

func TestLoadThemesOverrides(t *testing.T) {
	src := `
theme default {
  line-height: 1.2x
  muted: #777777
}

theme brand {
  accent: #0F62FE
}

theme modern extends brand {
  body-size: 11pt
  name-size: 10mm
}
`
	set, err := LoadThemes(strings.NewReader(src))
	if err != nil {
		t.Fatalf("加载主题失败: %v", err)
	}
	modern := set.For(resume.Modern)
	if modern.Accent != (layout.Color{R: 0x0F, G: 0x62, B: 0xFE}) {
		t.Fatalf("accent 未继承: %+v", modern.Accent)
	}
	if modern.BodySize != 11 || modern.LineFactor != 1.2 {
		t.Fatalf("覆盖失败: body=%v factor=%v", modern.BodySize, modern.LineFactor)
	}
	if d := modern.NameSize - 10*layout.MmToPt; d > 1e-9 || d < -1e-9 {
		t.Fatalf("mm 字号换算错误: %v", modern.NameSize)
	}
	classic := set.For(resume.Classic)
	if classic.Muted != (layout.Color{R: 0x77, G: 0x77, B: 0x77}) || classic.LineFactor != 1.2 {
		t.Fatalf("default 主题应作用于全部版式: %+v", classic)
	}
	if classic.Accent != DefaultTheme(resume.Classic).Accent {
		t.Fatalf("未覆盖的属性应保持内置值")
	}
}

func TestLoadThemesErrors(t *testing.T) {
	cases := map[string]string{
		"未知属性": "theme modern { shadow: #000 }",
		"颜色无效": "theme modern { accent: 12pt }",
		"行高为零": "theme modern { line-height: 0 }",
		"未知版式": "theme fancy { accent: #000 }",
		"继承缺失": "theme modern extends nothing { accent: #000 }",
		"循环继承": "theme a extends modern { accent: #000 }\ntheme modern extends a { text: #111 }",
		"语法错误": "theme modern { accent #000 }",
	}
	for name, src := range cases {
		if _, err := LoadThemes(strings.NewReader(src)); err == nil {
			t.Fatalf("%s: 期望报错", name)
		}
	}
}

// TestSharedBaseTheme 验证只被 extends 引用的基础主题可以不对应任何版式。
func TestSharedBaseTheme(t *testing.T) {
	src := "theme corp { accent: #112233 }\ntheme brand extends corp { text: #010101 }\ntheme classic extends brand { muted: #020202 }"
	set, err := LoadThemes(strings.NewReader(src))
	if err != nil {
		t.Fatalf("加载主题失败: %v", err)
	}
	classic := set.For(resume.Classic)
	if classic.Accent != (layout.Color{R: 0x11, G: 0x22, B: 0x33}) || classic.Text != (layout.Color{R: 1, G: 1, B: 1}) {
		t.Fatalf("继承链未生效: %+v", classic)
	}
	if set.For(resume.Modern).Accent != DefaultTheme(resume.Modern).Accent {
		t.Fatalf("基础主题不应作用于未继承它的版式")
	}
}

func TestAbsoluteLineHeight(t *testing.T) {
	set, err := LoadThemes(strings.NewReader("theme minimal { body-size: 10pt\n line-height: 14pt }"))
	if err != nil {
		t.Fatalf("加载主题失败: %v", err)
	}
	if f := set.For(resume.Minimal).LineFactor; f < 1.4-1e-9 || f > 1.4+1e-9 {
		t.Fatalf("绝对行高应折算为 1.4 倍，实际 %v", f)
	}
}

func TestThemeSetFallsBackToBuiltin(t *testing.T) {
	set, err := LoadThemeFile("")
	if err != nil {
		t.Fatalf("空路径不应报错: %v", err)
	}
	for _, choice := range resume.Templates {
		if set.For(choice) != DefaultTheme(choice) {
			t.Fatalf("%s: 应返回内置主题", choice)
		}
	}
}

// TestCustomThemeChangesLayout 验证通过 Options.Theme 传入的主题参与排版。
func TestCustomThemeChangesLayout(t *testing.T) {
	th := DefaultTheme(resume.Modern)
	th.Accent = layout.Color{R: 10, G: 20, B: 30}
	res := mustLayout(t, sampleDoc(1), Options{Template: resume.Modern, Theme: &th})
	header := res.Pages[0].Rects[0]
	if header.FillColor == nil || *header.FillColor != th.Accent {
		t.Fatalf("页眉应使用自定义强调色: %+v", header.FillColor)
	}
}

package layout

import (
	"fmt"
	"math"
	"strings"
)

// TextStyle 描述一次文本排版使用的字体、字号与颜色，尺寸单位为 mm。
type TextStyle struct {
	Font       string
	Size       float64
	LineHeight float64 // <=0 时取 Size * DefaultLineFactor
	Color      Color
	Align      string
	Wrap       string
}

type pageAccumulator struct {
	texts   []TextBox
	images  []ImageBox
	lines   []Line
	rects   []Rect
	circles []Circle
}

// Sheet 收集每一页的绘制元素，是模板排版面对的绘图表面。
// 页面按需创建，新建页面时依次执行已注册的页面装饰（如侧边栏背景）。
type Sheet struct {
	width  float64
	height float64
	margin Margin
	ts     Typesetter

	accs      []*pageAccumulator
	chrome    []func(page int)
	fonts     map[string]FontResource
	images    map[string]ImageResource
	overflows []Overflow
	meta      DocumentMeta
}

// NewSheet 创建空白的排版表面，尚未包含任何页面。
func NewSheet(opts SheetOptions) *Sheet {
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height, _ = PageSize("A4")
	}
	return &Sheet{
		width:  width,
		height: height,
		margin: opts.Margin,
		ts:     opts.Typesetter,
		fonts:  map[string]FontResource{},
		images: map[string]ImageResource{},
	}
}

func (s *Sheet) Width() float64  { return s.width }
func (s *Sheet) Height() float64 { return s.height }
func (s *Sheet) Margin() Margin  { return s.margin }

// SetMargin 设置页边距，仅影响之后创建的光标。
func (s *Sheet) SetMargin(m Margin) { s.margin = m }

// PageCount 返回已创建的页数。
func (s *Sheet) PageCount() int { return len(s.accs) }

// EnsurePage 保证第 page 页（从 0 开始）存在。
func (s *Sheet) EnsurePage(page int) {
	for len(s.accs) <= page {
		s.accs = append(s.accs, &pageAccumulator{})
		idx := len(s.accs) - 1
		for _, fn := range s.chrome {
			fn(idx)
		}
	}
}

// OnNewPage 注册页面装饰，已存在的页面会立即补绘。
func (s *Sheet) OnNewPage(fn func(page int)) {
	if fn == nil {
		return
	}
	s.chrome = append(s.chrome, fn)
	for i := range s.accs {
		fn(i)
	}
}

func (s *Sheet) acc(page int) *pageAccumulator {
	if page < 0 {
		page = 0
	}
	s.EnsurePage(page)
	return s.accs[page]
}

func (s *Sheet) AddText(page int, tb TextBox) {
	a := s.acc(page)
	a.texts = append(a.texts, tb)
}

func (s *Sheet) AddImage(page int, img ImageBox) {
	a := s.acc(page)
	a.images = append(a.images, img)
}

func (s *Sheet) AddLine(page int, ln Line) {
	a := s.acc(page)
	a.lines = append(a.lines, ln)
}

func (s *Sheet) AddRect(page int, rc Rect) {
	a := s.acc(page)
	a.rects = append(a.rects, rc)
}

func (s *Sheet) AddCircle(page int, c Circle) {
	a := s.acc(page)
	a.circles = append(a.circles, c)
}

// RegisterFont 登记字体资源，TextStyle.Font 使用其 Name 引用。
func (s *Sheet) RegisterFont(font FontResource) {
	if font.Name == "" {
		return
	}
	s.fonts[font.Name] = font
}

// RegisterImage 登记已解码的图片，ImageBox.Path 使用其 Name 引用。
func (s *Sheet) RegisterImage(img ImageResource) {
	if img.Name == "" || img.Image == nil {
		return
	}
	b := img.Image.Bounds()
	img.Width, img.Height = b.Dx(), b.Dy()
	s.images[img.Name] = img
}

// RecordOverflow 记录一次越界。
func (s *Sheet) RecordOverflow(o Overflow) { s.overflows = append(s.overflows, o) }

// SetMeta 设置文档元信息。
func (s *Sheet) SetMeta(meta DocumentMeta) { s.meta = meta }

// Compose 在给定宽度内排版文本，返回坐标为 (0,0) 的文本块，调用方负责定位。
func (s *Sheet) Compose(content string, width float64, style TextStyle) (TextBox, error) {
	fontSize := style.Size
	if fontSize <= 0 {
		fontSize = Pt(10)
	}
	lineHeight := style.LineHeight
	if lineHeight <= 0 {
		lineHeight = fontSize * DefaultLineFactor
	}
	font, err := s.resolveFont(style.Font)
	if err != nil {
		return TextBox{}, err
	}
	lines, err := layoutLines(content, width, font, fontSize, lineHeight, s.ts, style.Wrap)
	if err != nil {
		return TextBox{}, fmt.Errorf("排版文本失败: %w", err)
	}
	height := 0.0
	for _, ln := range lines {
		height += ln.GapBefore + ln.Height
	}
	return TextBox{
		Content:    content,
		Width:      width,
		LineHeight: lineHeight,
		Font:       font.Name,
		FontSize:   fontSize,
		Color:      style.Color,
		Lines:      lines,
		Height:     height,
		Align:      style.Align,
		Wrap:       style.Wrap,
	}, nil
}

// TextWidth 测量单行文本的自然宽度。
func (s *Sheet) TextWidth(content string, style TextStyle) (float64, error) {
	style.Wrap = "nowrap"
	tb, err := s.Compose(content, math.MaxFloat64, style)
	if err != nil {
		return 0, err
	}
	w := 0.0
	for _, ln := range tb.Lines {
		w = math.Max(w, ln.Width)
	}
	return w, nil
}

func (s *Sheet) resolveFont(name string) (FontResource, error) {
	if font, ok := s.fonts[name]; ok {
		return font, nil
	}
	if font, ok := s.fonts["Regular"]; ok {
		return font, nil
	}
	if len(s.fonts) == 0 {
		return FontResource{Name: name}, nil
	}
	return FontResource{}, fmt.Errorf("字体 %s 未定义，且没有可用的默认字体", name)
}

// Result 汇总全部页面，Sheet 之后仍可继续使用。
func (s *Sheet) Result() *Result {
	pages := make([]Page, len(s.accs))
	for i, acc := range s.accs {
		pages[i] = Page{
			Width:   s.width,
			Height:  s.height,
			Margin:  s.margin,
			Texts:   acc.texts,
			Images:  acc.images,
			Lines:   acc.lines,
			Rects:   acc.rects,
			Circles: acc.circles,
		}
	}
	res := &Result{
		Pages: pages,
		Resources: ResourceSet{
			Fonts:  make(map[string]FontResource, len(s.fonts)),
			Images: make(map[string]ImageResource, len(s.images)),
		},
		Meta:      s.meta,
		Overflows: append([]Overflow(nil), s.overflows...),
	}
	for k, v := range s.fonts {
		res.Resources.Fonts[k] = v
	}
	for k, v := range s.images {
		res.Resources.Images[k] = v
	}
	return res
}

// layoutLines 在没有排版后端时按显式换行拆分，保证测试与调试场景可用。
func layoutLines(content string, width float64, font FontResource, fontSize, lineHeight float64, ts Typesetter, wrap string) ([]TextLine, error) {
	if ts == nil {
		parts := strings.Split(content, "\n")
		out := make([]TextLine, 0, len(parts))
		leading := math.Max(lineHeight-fontSize, 0)
		for _, l := range parts {
			out = append(out, TextLine{
				Content:   l,
				Width:     math.Min(width, estimateTextWidth(l, fontSize)),
				Height:    fontSize,
				GapBefore: leading,
			})
		}
		out[0].GapBefore = 0
		return out, nil
	}
	lines, err := ts.LayoutLines(content, width, font, fontSize, lineHeight, wrap)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Width: 0, Height: fontSize}}
	}
	lines[0].GapBefore = 0
	return lines, nil
}

func estimateTextWidth(content string, fontSize float64) float64 {
	return fontSize * 0.55 * float64(len([]rune(content)))
}

package templates

import (
	"github.com/ByLCY/cvpress/layout"
)

// Surface 是版式绘制所需的表面能力，*layout.Sheet 实现该接口。
type Surface interface {
	layout.Pager
	Width() float64
	SetMargin(m layout.Margin)
	OnNewPage(fn func(page int))
	Compose(content string, width float64, style layout.TextStyle) (layout.TextBox, error)
	AddText(page int, tb layout.TextBox)
	AddImage(page int, img layout.ImageBox)
	AddLine(page int, ln layout.Line)
	AddRect(page int, rc layout.Rect)
	AddCircle(page int, c layout.Circle)
	RegisterFont(font layout.FontResource)
	RegisterImage(img layout.ImageResource)
	RecordOverflow(o layout.Overflow)
	SetMeta(meta layout.DocumentMeta)
}

var _ Surface = (*layout.Sheet)(nil)

// 文本块语义标记，写入 TextBox.Role。
const (
	roleName     = "name"
	roleTitle    = "title"
	roleContact  = "contact"
	roleHeading  = "heading"
	roleSummary  = "summary"
	rolePosition = "position"
	roleCompany  = "company"
	roleDate     = "date"
	roleDetail   = "description"
	roleSkill    = "skill"
)

// pen 绑定表面与主题，提供各版式共用的排版原语。
type pen struct {
	s     Surface
	th    Theme
	photo bool
}

func (p *pen) style(font string, sizePt float64, col layout.Color) layout.TextStyle {
	size := layout.Pt(sizePt)
	return layout.TextStyle{Font: font, Size: size, LineHeight: size * p.th.LineFactor, Color: col}
}

// lineHeight 返回字号 sizePt 的单行高度（mm）。
func (p *pen) lineHeight(sizePt float64) float64 {
	return layout.Pt(sizePt) * p.th.LineFactor
}

func (p *pen) put(page int, tb layout.TextBox, x, y float64, role string) {
	tb.X, tb.Y, tb.Role = x, y, role
	p.s.AddText(page, tb)
}

// reserve 为高度 h 的块预留空间；新页也放不下时记录越界。
func (p *pen) reserve(c *layout.Cursor, h float64, block string) {
	c.EnsureSpace(h)
	if !c.Fits(h) {
		p.s.RecordOverflow(layout.Overflow{Page: c.Page, Block: block, Height: h, Available: c.Remaining()})
	}
}

// paragraph 测量、预留空间后绘制文本并推进光标。空文本不占位。
func (p *pen) paragraph(c *layout.Cursor, x, width float64, content string, st layout.TextStyle, role string) (bool, error) {
	if isBlank(content) {
		return false, nil
	}
	tb, err := p.s.Compose(content, width, st)
	if err != nil {
		return false, err
	}
	p.reserve(c, tb.Height, role)
	p.put(c.Page, tb, x, c.Y, role)
	c.Advance(tb.Height)
	return true, nil
}

// headingSpec 描述章节标题及其下方的分隔线。
type headingSpec struct {
	X, Width  float64
	Style     layout.TextStyle
	RuleX1    float64
	RuleX2    float64 // RuleX2 <= RuleX1 时不画线
	RuleColor layout.Color
	RuleWidth float64
	RuleGap   float64 // 标题与分隔线的间距
	After     float64 // 分隔线之后的间距
	KeepNext  float64 // 需与标题同页的后续内容高度
}

// heading 绘制章节标题，标题、分隔线与后续首行一起预留空间。
func (p *pen) heading(c *layout.Cursor, title string, h headingSpec) error {
	tb, err := p.s.Compose(title, h.Width, h.Style)
	if err != nil {
		return err
	}
	p.reserve(c, tb.Height+h.RuleGap+h.After+h.KeepNext, roleHeading)
	p.put(c.Page, tb, h.X, c.Y, roleHeading)
	c.Advance(tb.Height + h.RuleGap)
	if h.RuleX2 > h.RuleX1 {
		p.s.AddLine(c.Page, layout.Line{X1: h.RuleX1, Y1: c.Y, X2: h.RuleX2, Y2: c.Y, Color: h.RuleColor, Width: h.RuleWidth})
	}
	c.Advance(h.After)
	return nil
}

// group 是需要整体放在同一页的一组元素，坐标相对于组的左上角。
type group struct {
	texts   []groupText
	circles []layout.Circle
	height  float64
}

type groupText struct {
	tb     layout.TextBox
	dx, dy float64
	role   string
}

func (g *group) text(tb layout.TextBox, dx, dy float64, role string) {
	g.texts = append(g.texts, groupText{tb: tb, dx: dx, dy: dy, role: role})
	if b := dy + tb.Height; b > g.height {
		g.height = b
	}
}

func (g *group) circle(c layout.Circle) {
	g.circles = append(g.circles, c)
	if b := c.CY + c.R; b > g.height {
		g.height = b
	}
}

func (g *group) empty() bool { return len(g.texts) == 0 && len(g.circles) == 0 }

// place 为整组预留空间并绘制，然后推进光标。
func (p *pen) place(c *layout.Cursor, x float64, g *group, block string) {
	if g.empty() {
		return
	}
	p.reserve(c, g.height, block)
	for _, t := range g.texts {
		p.put(c.Page, t.tb, x+t.dx, c.Y+t.dy, t.role)
	}
	for _, ci := range g.circles {
		ci.CX += x
		ci.CY += c.Y
		p.s.AddCircle(c.Page, ci)
	}
	c.Advance(g.height)
}

// compose 是 Surface.Compose 的简写，空文本返回 ok=false。
func (p *pen) compose(content string, width float64, st layout.TextStyle) (layout.TextBox, bool, error) {
	if isBlank(content) {
		return layout.TextBox{}, false, nil
	}
	tb, err := p.s.Compose(content, width, st)
	if err != nil {
		return layout.TextBox{}, false, err
	}
	return tb, true, nil
}

// drawPhoto 在 (x, y) 放置边长 size 的照片，ring 为边框。
func (p *pen) drawPhoto(page int, x, y, size float64, circle bool, ring layout.Color, ringWidth float64) {
	p.s.AddImage(page, layout.ImageBox{Path: PhotoResource, X: x, Y: y, Width: size, Height: size})
	if ringWidth <= 0 {
		return
	}
	if circle {
		p.s.AddCircle(page, layout.Circle{
			CX: x + size/2, CY: y + size/2, R: size / 2,
			StrokeColor: layout.ColorPtr(ring), StrokeWidth: ringWidth, Overlay: true,
		})
		return
	}
	p.s.AddRect(page, layout.Rect{
		X: x, Y: y, Width: size, Height: size,
		StrokeColor: layout.ColorPtr(ring), StrokeWidth: ringWidth, Overlay: true,
	})
}

func (p *pen) rule(page int, x1, x2, y float64, col layout.Color, width float64) {
	p.s.AddLine(page, layout.Line{X1: x1, Y1: y, X2: x2, Y2: y, Color: col, Width: width})
}

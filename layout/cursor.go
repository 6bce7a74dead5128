package layout

// Pager 为光标提供页面尺寸与翻页能力，*Sheet 实现该接口。
type Pager interface {
	Height() float64
	Margin() Margin
	EnsurePage(page int)
}

// Cursor 记录单条排版流的纵向位置与页码。
// Y 只在 Advance 与分页时变化，分页后回到上边距。
type Cursor struct {
	Y    float64
	Page int

	pager  Pager
	top    float64
	bottom float64
}

// NewCursor 在第 0 页上边距处创建光标。
func NewCursor(p Pager) *Cursor {
	return NewCursorAt(p, 0, p.Margin().Top)
}

// NewCursorAt 在指定页与纵坐标处创建光标，用于同页内并行的多栏排版。
func NewCursorAt(p Pager, page int, y float64) *Cursor {
	m := p.Margin()
	p.EnsurePage(page)
	return &Cursor{
		Y:      y,
		Page:   page,
		pager:  p,
		top:    m.Top,
		bottom: p.Height() - m.Bottom,
	}
}

// Top 返回可用区域顶部。
func (c *Cursor) Top() float64 { return c.top }

// Bottom 返回可用区域底部。
func (c *Cursor) Bottom() float64 { return c.bottom }

// Printable 返回一整页的可用高度。
func (c *Cursor) Printable() float64 { return c.bottom - c.top }

// Remaining 返回当前页剩余高度。
func (c *Cursor) Remaining() float64 { return c.bottom - c.Y }

// AtTop 判断光标是否位于页顶（尚未放置内容）。
func (c *Cursor) AtTop() bool { return c.Y <= c.top+1e-6 }

// Advance 向下移动 h 毫米。
func (c *Cursor) Advance(h float64) {
	if h > 0 {
		c.Y += h
	}
}

// Fits 判断高度为 h 的块能否放入当前页。
func (c *Cursor) Fits(h float64) bool { return c.Y+h <= c.bottom+1e-6 }

// EnsureSpace 在剩余空间不足 h 时分页，返回是否发生了分页。
// 光标已在页顶时不再分页，避免产生空白页。
func (c *Cursor) EnsureSpace(h float64) bool {
	if c.Fits(h) || c.AtTop() {
		return false
	}
	c.PageBreak()
	return true
}

// PageBreak 切换到下一页并回到上边距。
func (c *Cursor) PageBreak() {
	c.Page++
	c.pager.EnsurePage(c.Page)
	c.Y = c.top
}

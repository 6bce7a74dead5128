package layout

import "image"

// 该文件定义布局结果与资源描述，供模板排版、渲染与调试 JSON 共用。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
	// Overflows 记录高于整页可用高度、只能越界绘制的块。
	Overflows []Overflow `json:"overflows,omitempty"`
}

// ResourceSet 记录排版中用到的字体与图片。
type ResourceSet struct {
	Fonts  map[string]FontResource  `json:"fonts"`
	Images map[string]ImageResource `json:"images"`
}

// FontResource 描述字体资源，src 可以是文件路径或 embed: 开头的内置字体。
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  string `json:"style"`
	Family string `json:"family"` // 渲染器使用的 Family 名称
}

// ImageResource 记录已解码的图片，宽高为像素。
type ImageResource struct {
	Name   string      `json:"name"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Shape  string      `json:"shape,omitempty"`
	Image  image.Image `json:"-"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸、边距与最终可以直接渲染的元素。
type Page struct {
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
	Margin  Margin     `json:"margin"`
	Texts   []TextBox  `json:"texts"`
	Images  []ImageBox `json:"images"`
	Lines   []Line     `json:"lines,omitempty"`
	Rects   []Rect     `json:"rects,omitempty"`
	Circles []Circle   `json:"circles,omitempty"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextBox 表示一个已经排好坐标的文本块，Y 为首行顶部。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      string     `json:"align,omitempty"` // left/center/right（默认 left）
	Wrap       string     `json:"wrap,omitempty"`  // anywhere(默认)/break-word/nowrap
	Role       string     `json:"role,omitempty"`  // 语义标记，如 name/heading/position
}

// Bottom 返回文本块底边的纵坐标。
func (tb TextBox) Bottom() float64 { return tb.Y + tb.Height }

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// ImageBox 用于描述图片位置与尺寸，Path 对应 Resources.Images 中的名称。
type ImageBox struct {
	Path   string  `json:"path"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// 基本图形：直线、矩形、圆形（单位均为 mm）。
// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形（不包含圆角）。
// Overlay 为 true 时在图片与文字之后绘制，用于照片边框。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor *Color  `json:"strokeColor,omitempty"` // 为空表示不描边
	StrokeWidth float64 `json:"strokeWidth"`           // mm
	FillColor   *Color  `json:"fillColor,omitempty"`   // 为空表示不填充
	Overlay     bool    `json:"overlay,omitempty"`
}

// Circle 表示一个圆，(CX, CY) 为圆心。
type Circle struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	R           float64 `json:"r"`
	StrokeColor *Color  `json:"strokeColor,omitempty"`
	StrokeWidth float64 `json:"strokeWidth"` // mm
	FillColor   *Color  `json:"fillColor,omitempty"`
	Overlay     bool    `json:"overlay,omitempty"`
}

// Overflow 描述一次越界：块高度超过了新页的可用高度。
type Overflow struct {
	Page      int     `json:"page"`
	Block     string  `json:"block"`
	Height    float64 `json:"height"`
	Available float64 `json:"available"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// ColorPtr 返回颜色的指针，便于填写可选的描边与填充。
func ColorPtr(c Color) *Color { return &c }

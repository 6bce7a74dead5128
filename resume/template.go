package resume

import "strings"

// TemplateChoice 选择简历版式。
type TemplateChoice string

const (
	Modern   TemplateChoice = "modern"
	Classic  TemplateChoice = "classic"
	Creative TemplateChoice = "creative"
	Minimal  TemplateChoice = "minimal"
)

// Templates 列出全部版式。
var Templates = []TemplateChoice{Modern, Classic, Creative, Minimal}

// ParseTemplate 忽略大小写解析版式名称，无法识别时回退到 Minimal。
func ParseTemplate(name string) TemplateChoice {
	switch TemplateChoice(strings.ToLower(strings.TrimSpace(name))) {
	case Modern:
		return Modern
	case Classic:
		return Classic
	case Creative:
		return Creative
	default:
		return Minimal
	}
}

func (t TemplateChoice) String() string { return string(t) }

package resume

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// quoteMap 将弯引号与撇号统一为 ASCII，其余字符保持不变。
var quoteMap = runes.Map(func(r rune) rune {
	switch r {
	case '‘', '’', '‚', '‛':
		return '\''
	case '“', '”', '„', '‟':
		return '"'
	}
	return r
})

// Sanitize 把弯引号替换为直引号，不改动其他字符。
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	out, _, err := transform.String(quoteMap, s)
	if err != nil {
		return s
	}
	return out
}

package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Filter 对占位符取到的值做二次处理，写作 ${path|name}。
type Filter func(string) string

var filters = map[string]Filter{
	"slug":  Slug,
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
}

// Interpolate 将文本中的 ${path.to.value} 或 ${path|filter} 替换为 data 中的值。
// 若 data 为空或路径不存在，则返回原占位符。
func Interpolate(text string, data any) string {
	out, _ := expand(text, data, true)
	return out
}

// Strict 与 Interpolate 相同，但只要有占位符缺失或取值为空就返回 ok=false，
// 缺失的占位符替换为空字符串。
func Strict(text string, data any) (string, bool) {
	return expand(text, data, false)
}

func expand(text string, data any, keep bool) (string, bool) {
	complete := true
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		parts := strings.Split(groups[1], "|")
		path := strings.TrimSpace(parts[0])
		var (
			val any
			ok  bool
		)
		if data != nil && path != "" {
			val, ok = resolvePath(data, path)
		}
		if !ok || val == nil {
			complete = false
			if keep {
				return match
			}
			return ""
		}
		str := fmt.Sprint(val)
		for _, name := range parts[1:] {
			if fn, found := filters[strings.TrimSpace(name)]; found {
				str = fn(str)
			}
		}
		if strings.TrimSpace(str) == "" {
			complete = false
		}
		return str
	})
	return out, complete
}

// Slug 去掉首尾空白，并把中间连续的空白替换为单个下划线。
func Slug(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), "_")
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	indexes := []string{}
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 {
			if rest[0] != '[' {
				break
			}
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]interface{}:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []interface{}:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}

package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// Color 的分支按长度从长到短排列，正则按最左优先匹配。
	themeLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(themeLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// File is the root AST node of a theme file.
//
//	theme modern extends default {
//	  accent: #2962FF
//	  heading-size: 12pt
//	}
type File struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Themes []*Theme       `parser:"Newline* ( @@ Newline* )*"`
}

// Theme is a named block of key/value overrides.
type Theme struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'theme' @Ident"`
	Extends string         `parser:"( 'extends' @Ident )?"`
	Entries []*Assignment  `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' @@"`
}

// Value represents a property value.
type Value struct {
	Color  *string        `parser:"  @Color"`
	String *StringLiteral `parser:"| @String"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Raw returns the value as written, with strings unquoted.
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.Color != nil:
		return *v.Color
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Kind returns the token kind of the value.
func (v *Value) Kind() string {
	switch {
	case v == nil:
		return "unknown"
	case v.Color != nil:
		return "color"
	case v.String != nil:
		return "string"
	case v.Number != nil:
		return "number"
	case v.Ident != nil:
		return "ident"
	default:
		return "unknown"
	}
}

// Lookup returns the theme with the given name, or nil.
func (f *File) Lookup(name string) *Theme {
	if f == nil {
		return nil
	}
	for _, th := range f.Themes {
		if th.Name == name {
			return th
		}
	}
	return nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a theme file from an io.Reader.
func Parse(r io.Reader) (*File, error) {
	return fileParser.Parse("", r)
}

// ParseString parses theme content from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}

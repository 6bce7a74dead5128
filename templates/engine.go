package templates

import (
	"fmt"
	"image"
	"strings"

	"github.com/ByLCY/cvpress/fonts"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/photo"
	"github.com/ByLCY/cvpress/resume"
)

// PhotoResource 是照片在 Resources.Images 中的名称。
const PhotoResource = "photo"

// 字体资源名称。
const (
	fontRegular    = "Regular"
	fontBold       = "Bold"
	fontItalic     = "Italic"
	fontBoldItalic = "BoldItalic"
)

// Options 控制一次排版。
type Options struct {
	Template resume.TemplateChoice
	Theme    *Theme      // 为空时使用版式的内置主题
	Photo    image.Image // 已裁剪的照片，为空表示不绘制照片
	Creator  string
}

// PhotoSpec 返回版式对照片尺寸（mm）与形状的要求。
func PhotoSpec(choice resume.TemplateChoice) photo.Spec {
	switch choice {
	case resume.Modern:
		return photo.Spec{SizeMM: 30, Shape: photo.Circle}
	case resume.Classic:
		return photo.Spec{SizeMM: 35, Shape: photo.Circle}
	case resume.Creative:
		return photo.Spec{SizeMM: 40, Shape: photo.Circle}
	default:
		return photo.Spec{SizeMM: 25, Shape: photo.Square}
	}
}

// Layout 新建 Sheet 并按版式排版，返回可直接渲染的结果。
func Layout(doc resume.Document, opts Options, sheetOpts layout.SheetOptions) (*layout.Result, error) {
	sheet := layout.NewSheet(sheetOpts)
	if err := Render(sheet, doc, opts); err != nil {
		return nil, err
	}
	return sheet.Result(), nil
}

// Render 在表面上绘制简历，按 opts.Template 分派到对应版式。
func Render(s Surface, doc resume.Document, opts Options) error {
	choice := resume.ParseTemplate(string(opts.Template))
	th := DefaultTheme(choice)
	if opts.Theme != nil {
		th = *opts.Theme
	}
	if th.LineFactor <= 0 {
		th.LineFactor = layout.DefaultLineFactor
	}

	doc = dropBlankEntries(doc)
	registerFonts(s)
	s.SetMeta(documentMeta(doc, opts.Creator))

	p := &pen{s: s, th: th}
	if opts.Photo != nil {
		shape := PhotoSpec(choice).Shape
		s.RegisterImage(layout.ImageResource{Name: PhotoResource, Shape: string(shape), Image: opts.Photo})
		p.photo = true
	}

	var err error
	switch choice {
	case resume.Modern:
		err = renderModern(p, doc)
	case resume.Classic:
		err = renderClassic(p, doc)
	case resume.Creative:
		err = renderCreative(p, doc)
	default:
		err = renderMinimal(p, doc)
	}
	if err != nil {
		return fmt.Errorf("排版 %s 版式失败: %w", choice, err)
	}
	return nil
}

func registerFonts(s Surface) {
	for name, file := range map[string]string{
		fontRegular:    fonts.Regular,
		fontBold:       fonts.Bold,
		fontItalic:     fonts.Italic,
		fontBoldItalic: fonts.BoldItalic,
	} {
		s.RegisterFont(layout.FontResource{
			Name:   name,
			Src:    "embed:" + file,
			Style:  strings.ToLower(name),
			Family: "Go",
		})
	}
}

func documentMeta(doc resume.Document, creator string) layout.DocumentMeta {
	info := doc.PersonalInfo
	title := "CV"
	if !isBlank(info.FullName) {
		title = strings.TrimSpace(info.FullName) + " - CV"
	}
	keywords := make([]string, 0, len(doc.Skills))
	for _, sk := range doc.Skills {
		if !isBlank(sk.Name) {
			keywords = append(keywords, sk.Name)
		}
	}
	return layout.DocumentMeta{
		Title:    title,
		Author:   strings.TrimSpace(info.FullName),
		Subject:  strings.TrimSpace(info.Title),
		Creator:  creator,
		Keywords: keywords,
	}
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// dropBlankEntries 去掉没有任何可见文字的经历与技能，避免只输出空章节标题。
func dropBlankEntries(doc resume.Document) resume.Document {
	exps := make([]resume.Experience, 0, len(doc.Experiences))
	for _, e := range doc.Experiences {
		if isBlank(e.Position) && isBlank(e.Company) && isBlank(e.StartDate) &&
			isBlank(e.EndDate) && isBlank(e.Description) {
			continue
		}
		exps = append(exps, e)
	}
	skills := make([]resume.Skill, 0, len(doc.Skills))
	for _, sk := range doc.Skills {
		if !isBlank(sk.Name) {
			skills = append(skills, sk)
		}
	}
	doc.Experiences = exps
	doc.Skills = skills
	return doc
}

package templates

import (
	"strings"

	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/resume"
)

const (
	minimalMargin    = 20.0
	minimalPhotoSize = 25.0
	minimalPhotoGap  = 5.0
	minimalHeaderMin = 25.0
)

// renderMinimal 单栏留白版式：右上角方形照片，摘要不加标题，技能写成一段。
func renderMinimal(p *pen, doc resume.Document) error {
	s, th := p.s, p.th
	s.SetMargin(layout.Margin{Top: minimalMargin, Right: minimalMargin, Bottom: minimalMargin, Left: minimalMargin})
	c := layout.NewCursor(s)

	w := s.Width()
	x := minimalMargin
	contentW := w - 2*minimalMargin
	info := doc.PersonalInfo

	// 无论是否有照片都为照片留出宽度，页眉高度至少为照片高度，
	// 正文位置因此与照片无关。
	headerTop := c.Y
	headerW := contentW - minimalPhotoSize - minimalPhotoGap
	if p.photo {
		p.drawPhoto(0, w-minimalMargin-minimalPhotoSize, headerTop, minimalPhotoSize, false, th.Rule, 0.5)
	}

	if ok, err := p.paragraph(c, x, headerW, info.FullName, p.style(fontBold, th.NameSize, th.Text), roleName); err != nil {
		return err
	} else if ok {
		c.Advance(1)
	}
	if ok, err := p.paragraph(c, x, headerW, info.Title, p.style(fontRegular, th.TitleSize, th.Muted), roleTitle); err != nil {
		return err
	} else if ok {
		c.Advance(2)
	}
	contacts := strings.Join(info.Contacts(), " • ")
	if _, err := p.paragraph(c, x, headerW, contacts, p.style(fontRegular, th.SmallSize, th.Muted), roleContact); err != nil {
		return err
	}
	if c.Page == 0 && c.Y < headerTop+minimalHeaderMin {
		c.Y = headerTop + minimalHeaderMin
	}
	c.Advance(4)
	p.rule(c.Page, x, w-minimalMargin, c.Y, th.Rule, 0.3)
	c.Advance(6)

	if ok, err := p.paragraph(c, x, contentW, info.Summary, p.style(fontRegular, th.BodySize, th.Text), roleSummary); err != nil {
		return err
	} else if ok {
		c.Advance(8)
	}

	head := headingSpec{
		X: x, Width: contentW,
		Style:    p.style(fontBold, th.HeadingSize, th.Text),
		RuleGap:  0,
		After:    3,
		KeepNext: p.lineHeight(th.BodySize),
	}

	if len(doc.Experiences) > 0 {
		if err := p.heading(c, "Experience", head); err != nil {
			return err
		}
		for _, exp := range doc.Experiences {
			g, err := minimalEntry(p, exp, contentW)
			if err != nil {
				return err
			}
			p.place(c, x, g, "experience")
			c.Advance(5)
		}
		c.Advance(3)
	}

	if len(doc.Skills) > 0 {
		names := make([]string, 0, len(doc.Skills))
		for _, sk := range doc.Skills {
			if !isBlank(sk.Name) {
				names = append(names, strings.TrimSpace(sk.Name))
			}
		}
		if err := p.heading(c, "Skills", head); err != nil {
			return err
		}
		if _, err := p.paragraph(c, x, contentW, strings.Join(names, " • "), p.style(fontRegular, th.BodySize, th.Text), roleSkill); err != nil {
			return err
		}
	}
	return nil
}

// minimalEntry "职位  •  公司" 与右对齐日期同行，其下为描述。
func minimalEntry(p *pen, exp resume.Experience, width float64) (*group, error) {
	th := p.th
	g := &group{}
	y := 0.0

	rowH := 0.0
	if tb, ok, err := p.compose(joinNonBlank("  •  ", exp.Position, exp.Company), width*0.7, p.style(fontBold, th.BodySize, th.Text)); err != nil {
		return nil, err
	} else if ok {
		g.text(tb, 0, y, rolePosition)
		rowH = tb.Height
	}
	dateStyle := p.style(fontRegular, th.SmallSize, th.Muted)
	dateStyle.Align = "right"
	if tb, ok, err := p.compose(exp.DateRange(), width, dateStyle); err != nil {
		return nil, err
	} else if ok {
		g.text(tb, 0, y, roleDate)
		if tb.Height > rowH {
			rowH = tb.Height
		}
	}
	if rowH > 0 {
		y += rowH + 1.5
	}

	if tb, ok, err := p.compose(exp.Description, width, p.style(fontRegular, th.BodySize, th.Text)); err != nil {
		return nil, err
	} else if ok {
		g.text(tb, 0, y, roleDetail)
	}
	return g, nil
}

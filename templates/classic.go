package templates

import (
	"strings"

	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/resume"
)

const (
	classicMargin    = 20.0
	classicPhotoSize = 35.0
	classicColumns   = 3
)

// renderClassic 居中排布的传统版式：大写姓名、双线分隔、居中标题与三栏技能。
func renderClassic(p *pen, doc resume.Document) error {
	s, th := p.s, p.th
	s.SetMargin(layout.Margin{Top: classicMargin, Right: classicMargin, Bottom: classicMargin, Left: classicMargin})
	c := layout.NewCursor(s)

	w := s.Width()
	x := classicMargin
	contentW := w - 2*classicMargin
	info := doc.PersonalInfo

	if p.photo {
		p.drawPhoto(c.Page, (w-classicPhotoSize)/2, c.Y, classicPhotoSize, true, th.Text, 0.5)
		c.Advance(classicPhotoSize + 6)
	}

	center := func(st layout.TextStyle) layout.TextStyle {
		st.Align = "center"
		return st
	}

	if ok, err := p.paragraph(c, x, contentW, strings.ToUpper(info.FullName), center(p.style(fontBold, th.NameSize, th.Text)), roleName); err != nil {
		return err
	} else if ok {
		c.Advance(2)
	}
	if ok, err := p.paragraph(c, x, contentW, info.Title, center(p.style(fontItalic, th.TitleSize, th.Muted)), roleTitle); err != nil {
		return err
	} else if ok {
		c.Advance(3)
	}

	contactStyle := center(p.style(fontRegular, th.BodySize, th.Muted))
	for _, line := range []string{
		joinNonBlank("  •  ", info.Email, info.Phone),
		joinNonBlank("  •  ", info.Location, info.Website),
	} {
		if ok, err := p.paragraph(c, x, contentW, line, contactStyle, roleContact); err != nil {
			return err
		} else if ok {
			c.Advance(1)
		}
	}

	// 双线分隔
	p.reserve(c, 12, "rule")
	c.Advance(2)
	p.rule(c.Page, x, w-classicMargin, c.Y, th.Rule, 0.2)
	p.rule(c.Page, x, w-classicMargin, c.Y+1.2, th.Rule, 0.8)
	c.Advance(10)

	head := headingSpec{
		X: x, Width: contentW,
		Style:  center(p.style(fontBold, th.HeadingSize, th.Accent)),
		RuleX1: x + 30, RuleX2: w - classicMargin - 30, RuleColor: th.Rule, RuleWidth: 0.3,
		RuleGap: 1.5, After: 5,
		KeepNext: p.lineHeight(th.BodySize),
	}

	if !isBlank(info.Summary) {
		if err := p.heading(c, "PROFESSIONAL SUMMARY", head); err != nil {
			return err
		}
		if _, err := p.paragraph(c, x+5, contentW-10, info.Summary, center(p.style(fontRegular, th.BodySize, th.Text)), roleSummary); err != nil {
			return err
		}
		c.Advance(10)
	}

	if len(doc.Experiences) > 0 {
		if err := p.heading(c, "EXPERIENCE", head); err != nil {
			return err
		}
		for _, exp := range doc.Experiences {
			g, err := classicEntry(p, exp, contentW)
			if err != nil {
				return err
			}
			p.place(c, x, g, "experience")
			c.Advance(6)
		}
		c.Advance(2)
	}

	if len(doc.Skills) > 0 {
		if err := p.heading(c, "SKILLS", head); err != nil {
			return err
		}
		if err := classicSkills(p, c, doc.Skills, x, contentW); err != nil {
			return err
		}
	}
	return nil
}

func classicEntry(p *pen, exp resume.Experience, width float64) (*group, error) {
	th := p.th
	g := &group{}
	y := 0.0

	rowH := 0.0
	if tb, ok, err := p.compose(exp.Position, width*0.7, p.style(fontBold, th.BodySize+1, th.Text)); err != nil {
		return nil, err
	} else if ok {
		g.text(tb, 0, y, rolePosition)
		rowH = tb.Height
	}
	dateStyle := p.style(fontItalic, th.SmallSize, th.Muted)
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
		y += rowH + 1
	}

	if tb, ok, err := p.compose(exp.Company, width, p.style(fontItalic, th.BodySize, th.Text)); err != nil {
		return nil, err
	} else if ok {
		g.text(tb, 0, y, roleCompany)
		y += tb.Height + 1.5
	}

	if tb, ok, err := p.compose(exp.Description, width, p.style(fontRegular, th.BodySize, th.Text)); err != nil {
		return nil, err
	} else if ok {
		g.text(tb, 0, y, roleDetail)
	}
	return g, nil
}

// classicSkills 三栏按列优先排布：每栏 ceil(n/3) 项，逐行预留空间。
func classicSkills(p *pen, c *layout.Cursor, skills []resume.Skill, x, width float64) error {
	perColumn := (len(skills) + classicColumns - 1) / classicColumns
	colW := width / classicColumns
	st := p.style(fontRegular, p.th.BodySize, p.th.Text)
	for row := 0; row < perColumn; row++ {
		var g group
		for col := 0; col < classicColumns; col++ {
			idx := col*perColumn + row
			if idx >= len(skills) {
				continue
			}
			tb, err := p.s.Compose("• "+skills[idx].Name, colW-3, st)
			if err != nil {
				return err
			}
			g.text(tb, float64(col)*colW, 0, roleSkill)
		}
		p.place(c, x, &g, roleSkill)
		c.Advance(2)
	}
	return nil
}

func joinNonBlank(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if !isBlank(s) {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return strings.Join(out, sep)
}

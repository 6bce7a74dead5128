package templates

import (
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/resume"
)

const (
	modernMargin    = 15.0
	modernHeaderH   = 40.0
	modernPhotoSize = 30.0
)

// renderModern 顶部为强调色页眉，正文为两栏联系方式与带色块标题的章节。
func renderModern(p *pen, doc resume.Document) error {
	s, th := p.s, p.th
	s.SetMargin(layout.Margin{Top: modernMargin, Right: modernMargin, Bottom: modernMargin, Left: modernMargin})
	s.EnsurePage(0)

	w := s.Width()
	x := modernMargin
	contentW := w - 2*modernMargin
	info := doc.PersonalInfo

	s.AddRect(0, layout.Rect{X: 0, Y: 0, Width: w, Height: modernHeaderH, FillColor: layout.ColorPtr(th.Accent)})

	// 页眉高度固定，照片只影响姓名可用宽度。
	nameW := contentW
	if p.photo {
		px := w - modernMargin - modernPhotoSize
		p.drawPhoto(0, px, 5, modernPhotoSize, true, th.OnAccent, 1)
		nameW = contentW - modernPhotoSize - 5
	}
	headerY := 10.0
	nameStyle := p.style(fontBold, th.NameSize, th.OnAccent)
	nameStyle.Wrap = "nowrap"
	if tb, ok, err := p.compose(info.FullName, nameW, nameStyle); err != nil {
		return err
	} else if ok {
		p.put(0, tb, x, headerY, roleName)
		headerY += tb.Height + 2
	}
	titleStyle := p.style(fontRegular, th.TitleSize, th.OnAccent)
	titleStyle.Wrap = "nowrap"
	if tb, ok, err := p.compose(info.Title, nameW, titleStyle); err != nil {
		return err
	} else if ok {
		p.put(0, tb, x, headerY, roleTitle)
	}

	c := layout.NewCursorAt(s, 0, modernHeaderH+10)

	contacts := info.Contacts()
	if len(contacts) > 0 {
		colW := contentW / 2
		st := p.style(fontRegular, th.SmallSize, th.Muted)
		for i := 0; i < len(contacts); i += 2 {
			var row group
			for j := 0; j < 2 && i+j < len(contacts); j++ {
				tb, err := s.Compose("• "+contacts[i+j], colW-3, st)
				if err != nil {
					return err
				}
				row.text(tb, float64(j)*colW, 0, roleContact)
			}
			p.place(c, x, &row, roleContact)
			c.Advance(1.5)
		}
		c.Advance(2)
		p.rule(c.Page, x, w-modernMargin, c.Y, th.Rule, 0.5)
		c.Advance(8)
	}

	head := headingSpec{
		X: x, Width: contentW,
		Style:  p.style(fontBold, th.HeadingSize, th.Accent),
		RuleX1: x, RuleX2: w - modernMargin, RuleColor: th.Accent, RuleWidth: 0.3,
		RuleGap: 1.5, After: 4,
		KeepNext: p.lineHeight(th.BodySize),
	}

	if !isBlank(info.Summary) {
		if err := p.heading(c, "PROFESSIONAL SUMMARY", head); err != nil {
			return err
		}
		if _, err := p.paragraph(c, x, contentW-5, info.Summary, p.style(fontRegular, th.BodySize, th.Text), roleSummary); err != nil {
			return err
		}
		c.Advance(8)
	}

	if len(doc.Experiences) > 0 {
		if err := p.heading(c, "EXPERIENCE", head); err != nil {
			return err
		}
		for _, exp := range doc.Experiences {
			g, err := modernEntry(p, exp, contentW)
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
		colW := contentW / 2
		st := p.style(fontRegular, th.BodySize, th.Text)
		for i := 0; i < len(doc.Skills); i += 2 {
			var row group
			for j := 0; j < 2 && i+j < len(doc.Skills); j++ {
				tb, err := s.Compose("• "+doc.Skills[i+j].Name, colW-3, st)
				if err != nil {
					return err
				}
				row.text(tb, float64(j)*colW, 0, roleSkill)
			}
			p.place(c, x, &row, roleSkill)
			c.Advance(2.5)
		}
	}
	return nil
}

// modernEntry 职位一行，公司与右对齐日期一行，其下为描述。
func modernEntry(p *pen, exp resume.Experience, width float64) (*group, error) {
	th := p.th
	g := &group{}
	y := 0.0
	if tb, ok, err := p.compose(exp.Position, width, p.style(fontBold, th.BodySize+1, th.Text)); err != nil {
		return nil, err
	} else if ok {
		g.text(tb, 0, y, rolePosition)
		y += tb.Height + 1
	}

	rowH := 0.0
	if tb, ok, err := p.compose(exp.Company, width*0.65, p.style(fontRegular, th.BodySize, th.Muted)); err != nil {
		return nil, err
	} else if ok {
		g.text(tb, 0, y, roleCompany)
		rowH = tb.Height
	}
	dateStyle := p.style(fontRegular, th.BodySize, th.Muted)
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

	if tb, ok, err := p.compose(exp.Description, width, p.style(fontRegular, th.SmallSize, th.Text)); err != nil {
		return nil, err
	} else if ok {
		g.text(tb, 0, y, roleDetail)
	}
	return g, nil
}

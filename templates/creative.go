package templates

import (
	"strings"

	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/resume"
)

const (
	creativeSidebarW  = 60.0
	creativeInset     = 10.0
	creativePhotoSize = 40.0
	creativeMainX     = 65.0
	creativeMaxSkills = 10
	creativeNameRunes = 15
	creativeDotR      = 1.0
	creativeDotGap    = 3.0
)

// renderCreative 左侧深色侧栏（照片、姓名、联系方式、技能评分），右侧为正文。
// 侧栏在每一页都会绘制，侧栏与正文各自使用独立的光标。
func renderCreative(p *pen, doc resume.Document) error {
	s, th := p.s, p.th
	s.SetMargin(layout.Margin{Top: 20, Right: 15, Bottom: 20, Left: creativeMainX})
	s.OnNewPage(func(page int) {
		s.AddRect(page, layout.Rect{X: 0, Y: 0, Width: creativeSidebarW, Height: s.Height(), FillColor: layout.ColorPtr(th.Sidebar)})
	})

	if err := creativeSidebar(p, doc); err != nil {
		return err
	}

	w := s.Width()
	x := creativeMainX
	mainW := w - creativeMainX - 15
	info := doc.PersonalInfo
	c := layout.NewCursorAt(s, 0, 25)

	head := headingSpec{
		X: x, Width: mainW,
		Style:  p.style(fontBold, th.HeadingSize, th.Sidebar),
		RuleX1: x, RuleX2: x + mainW, RuleColor: th.Accent, RuleWidth: 0.5,
		RuleGap: 1.5, After: 5,
		KeepNext: p.lineHeight(th.BodySize),
	}

	if !isBlank(info.Summary) {
		if err := p.heading(c, "PROFILE", head); err != nil {
			return err
		}
		if _, err := p.paragraph(c, x, mainW, info.Summary, p.style(fontRegular, th.BodySize, th.Text), roleSummary); err != nil {
			return err
		}
		c.Advance(10)
	}

	if len(doc.Experiences) > 0 {
		if err := p.heading(c, "EXPERIENCE", head); err != nil {
			return err
		}
		for _, exp := range doc.Experiences {
			g, err := creativeEntry(p, exp, mainW)
			if err != nil {
				return err
			}
			p.place(c, x, g, "experience")
			c.Advance(7)
		}
	}
	return nil
}

func creativeSidebar(p *pen, doc resume.Document) error {
	th := p.th
	x := creativeInset
	width := creativeSidebarW - 2*creativeInset
	info := doc.PersonalInfo

	sc := layout.NewCursorAt(p.s, 0, 20)
	if p.photo {
		p.drawPhoto(0, x, creativeInset, creativePhotoSize, true, th.OnAccent, 1)
		sc.Y = creativeInset + creativePhotoSize + 8
	}

	first, rest := info.SplitName()
	nameStyle := p.style(fontBold, th.NameSize, th.OnAccent)
	for _, part := range []string{first, rest} {
		if _, err := p.paragraph(sc, x, width, part, nameStyle, roleName); err != nil {
			return err
		}
	}
	sc.Advance(2)
	if ok, err := p.paragraph(sc, x, width, info.Title, p.style(fontRegular, th.TitleSize, th.SidebarMuted), roleTitle); err != nil {
		return err
	} else if ok {
		sc.Advance(2)
	}

	p.reserve(sc, 8, "divider")
	sc.Advance(2)
	p.rule(sc.Page, x, x+width, sc.Y, th.SidebarMuted, 0.3)
	sc.Advance(6)

	contactStyle := p.style(fontRegular, th.SmallSize, th.OnAccent)
	contacts := info.Contacts()
	for _, line := range contacts {
		if _, err := p.paragraph(sc, x, width, line, contactStyle, roleContact); err != nil {
			return err
		}
		sc.Advance(2)
	}

	if len(doc.Skills) == 0 {
		return nil
	}
	if len(contacts) > 0 {
		sc.Advance(6)
	}
	head := headingSpec{
		X: x, Width: width,
		Style:    p.style(fontBold, th.BodySize+1, th.OnAccent),
		After:    3,
		RuleGap:  1,
		KeepNext: p.lineHeight(th.SmallSize) + 2 + 2*creativeDotR,
	}
	if err := p.heading(sc, "SKILLS", head); err != nil {
		return err
	}
	skills := doc.Skills
	if len(skills) > creativeMaxSkills {
		skills = skills[:creativeMaxSkills]
	}
	st := p.style(fontRegular, th.SmallSize, th.OnAccent)
	for _, sk := range skills {
		g := &group{}
		dotY := 0.0
		if tb, ok, err := p.compose(truncateRunes(sk.Name, creativeNameRunes), width, st); err != nil {
			return err
		} else if ok {
			g.text(tb, 0, 0, roleSkill)
			dotY = tb.Height
		}
		dotY += 1 + creativeDotR
		for i := 0; i < resume.MaxSkillLevel; i++ {
			fill := th.SidebarMuted
			if i < sk.Level {
				fill = th.OnAccent
			}
			g.circle(layout.Circle{CX: creativeDotR + float64(i)*creativeDotGap, CY: dotY, R: creativeDotR, FillColor: layout.ColorPtr(fill)})
		}
		p.place(sc, x, g, roleSkill)
		sc.Advance(3)
	}
	return nil
}

// creativeEntry 职位与右对齐日期同行，公司使用强调色，其下为描述。
func creativeEntry(p *pen, exp resume.Experience, width float64) (*group, error) {
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
		y += rowH + 1
	}

	if tb, ok, err := p.compose(exp.Company, width, p.style(fontBold, th.BodySize, th.Accent)); err != nil {
		return nil, err
	} else if ok {
		g.text(tb, 0, y, roleCompany)
		y += tb.Height + 2
	}

	if tb, ok, err := p.compose(exp.Description, width, p.style(fontRegular, th.BodySize, th.Text)); err != nil {
		return nil, err
	} else if ok {
		g.text(tb, 0, y, roleDetail)
	}
	return g, nil
}

// truncateRunes 超过 max 个字符时截断为 max-2 个字符加省略号。
func truncateRunes(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-2]) + "..."
}

package resume

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Normalize 将任意形状的原始数据（通常来自 JSON 解码）整理为完整的 Document。
// 缺失或类型不符的字段取默认值，不返回错误，也不会 panic。
func Normalize(raw any) Document {
	switch v := raw.(type) {
	case Document:
		return normalizeDocument(v)
	case *Document:
		if v == nil {
			return Document{}
		}
		return normalizeDocument(*v)
	}

	root, _ := raw.(map[string]any)
	info, _ := lookup(root, "personalInfo", "personal_info").(map[string]any)

	doc := Document{
		PersonalInfo: PersonalInfo{
			FullName: text(lookup(info, "fullName", "full_name", "name")),
			Title:    text(lookup(info, "title", "headline")),
			Email:    text(lookup(info, "email")),
			Phone:    text(lookup(info, "phone")),
			Location: text(lookup(info, "location")),
			Website:  text(lookup(info, "website", "url")),
			Summary:  text(lookup(info, "summary")),
			Photo:    strings.TrimSpace(text(lookup(info, "photo", "photoUrl"))),
		},
		Experiences: []Experience{},
		Skills:      []Skill{},
	}

	if list, ok := lookup(root, "experiences", "experience").([]any); ok {
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			doc.Experiences = append(doc.Experiences, Experience{
				Position:    text(lookup(m, "position", "title")),
				Company:     text(lookup(m, "company")),
				StartDate:   text(lookup(m, "startDate", "start_date")),
				EndDate:     text(lookup(m, "endDate", "end_date")),
				Current:     flag(lookup(m, "current")),
				Description: text(lookup(m, "description")),
			})
		}
	}

	if list, ok := lookup(root, "skills").([]any); ok {
		for _, item := range list {
			switch s := item.(type) {
			case map[string]any:
				doc.Skills = append(doc.Skills, Skill{
					Name:  text(lookup(s, "name")),
					Level: level(lookup(s, "level")),
				})
			case string:
				doc.Skills = append(doc.Skills, Skill{Name: s, Level: DefaultSkillLevel})
			}
		}
	}

	return normalizeDocument(doc)
}

// NormalizeJSON 解析 JSON 后调用 Normalize，无法解析时返回空 Document。
func NormalizeJSON(data []byte) Document {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Normalize(nil)
	}
	return Normalize(raw)
}

func normalizeDocument(doc Document) Document {
	p := &doc.PersonalInfo
	p.FullName = Sanitize(p.FullName)
	p.Title = Sanitize(p.Title)
	p.Email = Sanitize(p.Email)
	p.Phone = Sanitize(p.Phone)
	p.Location = Sanitize(p.Location)
	p.Website = Sanitize(p.Website)
	p.Summary = Sanitize(p.Summary)

	exps := make([]Experience, 0, len(doc.Experiences))
	for _, e := range doc.Experiences {
		e.Position = Sanitize(e.Position)
		e.Company = Sanitize(e.Company)
		e.StartDate = Sanitize(e.StartDate)
		e.EndDate = Sanitize(e.EndDate)
		e.Description = Sanitize(e.Description)
		exps = append(exps, e)
	}
	doc.Experiences = exps

	skills := make([]Skill, 0, len(doc.Skills))
	for _, s := range doc.Skills {
		s.Name = Sanitize(s.Name)
		s.Level = clampLevel(s.Level)
		skills = append(skills, s)
	}
	doc.Skills = skills
	return doc
}

func lookup(m map[string]any, keys ...string) any {
	if m == nil {
		return nil
	}
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func flag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return false
	}
}

// level 读取技能等级，非数字时取默认值 3。
func level(v any) int {
	var f float64
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return DefaultSkillLevel
		}
		f = n
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	default:
		return DefaultSkillLevel
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultSkillLevel
	}
	return clampLevel(int(math.Round(f)))
}

func clampLevel(l int) int {
	if l == 0 {
		return DefaultSkillLevel
	}
	if l < MinSkillLevel {
		return MinSkillLevel
	}
	if l > MaxSkillLevel {
		return MaxSkillLevel
	}
	return l
}

package resume

import "strings"

// Document 是排版引擎的输入，所有文本字段在排版前已经过 Sanitize。
type Document struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experiences  []Experience `json:"experiences"`
	Skills       []Skill      `json:"skills"`
}

// PersonalInfo 个人信息，字段缺失时为空字符串。
// Photo 为图片引用：data URL、裸 base64 或相对路径。
type PersonalInfo struct {
	FullName string `json:"fullName"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Summary  string `json:"summary"`
	Photo    string `json:"photo,omitempty"`
}

// Experience 工作经历，切片顺序即展示顺序。
type Experience struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Skill 技能，Level 取值 1-5。
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// 技能等级范围。
const (
	MinSkillLevel     = 1
	MaxSkillLevel     = 5
	DefaultSkillLevel = 3
)

// DateRange 返回 "start - end" 形式的时间段，在职时结束写作 Present。
// 两端都为空时返回空字符串。
func (e Experience) DateRange() string {
	end := e.EndDate
	if e.Current {
		end = "Present"
	}
	start := strings.TrimSpace(e.StartDate)
	end = strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " - " + end
}

// Contacts 按 email、phone、location、website 的顺序返回非空联系方式。
func (p PersonalInfo) Contacts() []string {
	var out []string
	for _, v := range []string{p.Email, p.Phone, p.Location, p.Website} {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// SplitName 将姓名拆为首个单词与其余部分。
func (p PersonalInfo) SplitName() (first, rest string) {
	fields := strings.Fields(p.FullName)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// HasPhoto 判断是否提供了照片引用。
func (p PersonalInfo) HasPhoto() bool { return strings.TrimSpace(p.Photo) != "" }

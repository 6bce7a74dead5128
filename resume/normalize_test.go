package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	for _, raw := range []any{nil, 42, "text", []any{1, 2}, map[string]any{}} {
		doc := Normalize(raw)
		assert.Equal(t, PersonalInfo{}, doc.PersonalInfo)
		assert.NotNil(t, doc.Experiences)
		assert.NotNil(t, doc.Skills)
		assert.Empty(t, doc.Experiences)
		assert.Empty(t, doc.Skills)
	}
}

func TestNormalizeWrongTypes(t *testing.T) {
	doc := Normalize(map[string]any{
		"personalInfo": map[string]any{
			"fullName": 12.5,
			"title":    []any{"x"},
			"email":    nil,
			"phone":    true,
		},
		"experiences": []any{
			"not an object",
			map[string]any{"position": "Dev", "current": "true", "startDate": 2020.0},
		},
		"skills": []any{
			map[string]any{"name": "Go", "level": "expert"},
			map[string]any{"name": "SQL", "level": 9.0},
			map[string]any{"name": "Rust", "level": -2.0},
			map[string]any{"name": "C", "level": 4.4},
			"Docker",
		},
	})

	assert.Equal(t, "12.5", doc.PersonalInfo.FullName)
	assert.Equal(t, "", doc.PersonalInfo.Title)
	assert.Equal(t, "", doc.PersonalInfo.Email)
	assert.Equal(t, "true", doc.PersonalInfo.Phone)

	require.Len(t, doc.Experiences, 1)
	assert.Equal(t, "Dev", doc.Experiences[0].Position)
	assert.True(t, doc.Experiences[0].Current)
	assert.Equal(t, "2020", doc.Experiences[0].StartDate)

	require.Len(t, doc.Skills, 5)
	assert.Equal(t, DefaultSkillLevel, doc.Skills[0].Level)
	assert.Equal(t, MaxSkillLevel, doc.Skills[1].Level)
	assert.Equal(t, MinSkillLevel, doc.Skills[2].Level)
	assert.Equal(t, 4, doc.Skills[3].Level)
	assert.Equal(t, Skill{Name: "Docker", Level: DefaultSkillLevel}, doc.Skills[4])
}

func TestNormalizeJSON(t *testing.T) {
	doc := NormalizeJSON([]byte(`{
		"personalInfo": {"fullName": "Seán O’Brien", "summary": "“Quoted” text"},
		"experiences": [{"position": "Lead", "company": "Acme", "startDate": "2019", "endDate": "2021", "description": "Built it’s core"}],
		"skills": [{"name": "Go", "level": 5}]
	}`))
	assert.Equal(t, "Seán O'Brien", doc.PersonalInfo.FullName)
	assert.Equal(t, `"Quoted" text`, doc.PersonalInfo.Summary)
	require.Len(t, doc.Experiences, 1)
	assert.Equal(t, "Built it's core", doc.Experiences[0].Description)
	assert.Equal(t, 5, doc.Skills[0].Level)

	empty := NormalizeJSON([]byte(`{broken`))
	assert.Empty(t, empty.Experiences)
	assert.Equal(t, "", empty.PersonalInfo.FullName)
}

func TestNormalizeTypedDocument(t *testing.T) {
	doc := Normalize(&Document{
		PersonalInfo: PersonalInfo{FullName: "A ‘B’"},
		Skills:       []Skill{{Name: "Go"}},
	})
	assert.Equal(t, "A 'B'", doc.PersonalInfo.FullName)
	assert.Equal(t, DefaultSkillLevel, doc.Skills[0].Level)
	assert.NotNil(t, doc.Experiences)
}

func TestSanitizeRoundTrip(t *testing.T) {
	cases := map[string]string{
		"O’Brien":                 "O'Brien",
		"‘single’ “double”":       `'single' "double"`,
		"„low‟ ‚low‛":             `"low" 'low'`,
		"plain ASCII 123 !?":      "plain ASCII 123 !?",
		"Ünïcödé 中文 — dash\ttab": "Ünïcödé 中文 — dash\ttab",
		"":                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), in)
	}
}

func TestDateRangeAndContacts(t *testing.T) {
	assert.Equal(t, "2019 - 2021", Experience{StartDate: "2019", EndDate: "2021"}.DateRange())
	assert.Equal(t, "2019 - Present", Experience{StartDate: "2019", EndDate: "2021", Current: true}.DateRange())
	assert.Equal(t, "2021", Experience{EndDate: "2021"}.DateRange())
	assert.Equal(t, "", Experience{}.DateRange())

	info := PersonalInfo{Email: "a@b.c", Location: "Dublin", FullName: "Mary Ann Smith"}
	assert.Equal(t, []string{"a@b.c", "Dublin"}, info.Contacts())
	first, rest := info.SplitName()
	assert.Equal(t, "Mary", first)
	assert.Equal(t, "Ann Smith", rest)
}

func TestParseTemplate(t *testing.T) {
	assert.Equal(t, Modern, ParseTemplate("MODERN"))
	assert.Equal(t, Classic, ParseTemplate(" classic "))
	assert.Equal(t, Creative, ParseTemplate("creative"))
	assert.Equal(t, Minimal, ParseTemplate("minimal"))
	assert.Equal(t, Minimal, ParseTemplate("fancy"))
	assert.Equal(t, Minimal, ParseTemplate(""))
}

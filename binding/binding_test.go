package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"personalInfo": map[string]any{"fullName": "  Jane  van Doe "},
		"skills":       []any{map[string]any{"name": "Go"}},
	}
	cases := []struct {
		in, want string
	}{
		{"${personalInfo.fullName|slug}_CV.pdf", "Jane_van_Doe_CV.pdf"},
		{"${skills[0].name|upper}", "GO"},
		{"${skills[3].name}", "${skills[3].name}"},
		{"${missing}-x", "${missing}-x"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data 应原样返回: %q", got)
	}
}

func TestStrict(t *testing.T) {
	data := map[string]any{"personalInfo": map[string]any{"fullName": "   "}}
	if _, ok := Strict("${personalInfo.fullName|slug}_CV.pdf", data); ok {
		t.Fatalf("空白姓名应视为缺失")
	}
	got, ok := Strict("${personalInfo.title}_CV.pdf", data)
	if ok || got != "_CV.pdf" {
		t.Fatalf("缺失路径应替换为空: %q %v", got, ok)
	}
	got, ok = Strict("${personalInfo.fullName|trim}x", map[string]any{"personalInfo": map[string]any{"fullName": " A "}})
	if !ok || got != "Ax" {
		t.Fatalf("Strict 结果错误: %q %v", got, ok)
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("Mary\tJane  Watson"); got != "Mary_Jane_Watson" {
		t.Fatalf("Slug 结果错误: %q", got)
	}
	if got := Slug(""); got != "" {
		t.Fatalf("空串 Slug 应为空: %q", got)
	}
}

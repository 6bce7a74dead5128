package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range Names() {
		data, err := Load("embed:" + name)
		if err != nil {
			t.Fatalf("加载 %s 失败: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s 数据为空", name)
		}
	}
	if _, err := Load("Missing-Regular.ttf"); err == nil {
		t.Fatalf("未知字体应返回错误")
	}
}

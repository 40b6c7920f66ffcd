package textutil

import "testing"

func TestIsSubsequence(t *testing.T) {
	cases := []struct {
		name     string
		needle   string
		haystack string
		want     bool
	}{
		{"identical", "深圳创新", "深圳创新", true},
		{"truncated", "深圳创新", "深圳创新科技有限公司", true},
		{"gapped", "深创科", "深圳创新科技", true},
		{"out of order", "创深", "深圳创新", false},
		{"missing rune", "深圳大学", "深圳创新科技", false},
		{"ascii", "ACME", "A Certain Manufacturing Enterprise", true},
		{"empty needle", "", "深圳", false},
		{"empty haystack", "深圳", "", false},
		{"needle longer than haystack", "深圳创新科技", "深圳", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsSubsequence(tc.needle, tc.haystack); got != tc.want {
				t.Fatalf("IsSubsequence(%q, %q) = %v, want %v", tc.needle, tc.haystack, got, tc.want)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"张三 上海贸易", "张三 上海贸易"},
		{"a/b:c", "a-b-c"},
		{`what?"<>|`, "what"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

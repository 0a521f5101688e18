package app

import "testing"

func TestTruncatePlain(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{name: "fits", text: "short", width: 10, want: "short"},
		{name: "truncated", text: "a longer title", width: 8, want: "a longe…"},
		{name: "width one", text: "abc", width: 1, want: "…"},
		{name: "zero width passthrough", text: "abc", width: 0, want: "abc"},
		{name: "wide runes", text: "日本語タイトル", width: 6, want: "日本…"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncatePlain(tc.text, tc.width); got != tc.want {
				t.Fatalf("truncatePlain(%q, %d) = %q, want %q", tc.text, tc.width, got, tc.want)
			}
		})
	}
}

func TestPadToWidth(t *testing.T) {
	if got := padToWidth("ab", 5); got != "ab   " {
		t.Fatalf("unexpected padding: %q", got)
	}
	if got := padToWidth("abcdef", 3); got != "abcdef" {
		t.Fatalf("padding must not truncate: %q", got)
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(5, 1, 10); got != 5 {
		t.Fatalf("clamp in range: %d", got)
	}
	if got := clamp(-3, 1, 10); got != 1 {
		t.Fatalf("clamp below: %d", got)
	}
	if got := clamp(42, 1, 10); got != 10 {
		t.Fatalf("clamp above: %d", got)
	}
}

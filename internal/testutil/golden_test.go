package testutil

import "testing"

func TestFirstDiff(t *testing.T) {
	tests := []struct {
		want, got string
		line      int
		w, g      string
		ok        bool
	}{
		{"a\nb\n", "a\nb\n", 0, "", "", false},
		{"a\nb\n", "a\nc\n", 2, "b\n", "c\n", true},
		{"a\nb\n", "a\n", 2, "b\n", "", true},
		{"a\n", "a\nb\n", 2, "", "b\n", true},
		{"a", "a\n", 1, "a", "a\n", true},
	}
	for _, tt := range tests {
		line, w, g, ok := firstDiff(tt.want, tt.got)
		if line != tt.line || w != tt.w || g != tt.g || ok != tt.ok {
			t.Errorf("firstDiff(%q, %q) = %d, %q, %q, %v", tt.want, tt.got, line, w, g, ok)
		}
	}
}

package utils

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string gets ellipsis", "hello world", 5, "hello..."},
		{"maxLen zero returns as-is", "x", 0, "x"},
		{"negative maxLen returns as-is", "x", -1, "x"},
		{"multibyte runes cut on rune boundary", "héllo wörld", 5, "héllo..."},
		{"empty string", "", 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.s, tt.maxLen); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

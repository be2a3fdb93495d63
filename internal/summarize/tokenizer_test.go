package summarize

import (
	"testing"
	"unicode/utf8"
)

func TestWordTokenizer_Count(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{" one  two\nthree\t", 3},
	}
	for _, tt := range tests {
		if got := (WordTokenizer{}).Count(tt.text); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestWordTokenizer_Truncate(t *testing.T) {
	tests := []struct {
		text string
		max  int
		want string
	}{
		{"one two three", 2, "one two"},
		{"one  two\nthree", 2, "one  two"},
		{"one two", 5, "one two"},
		{"one two", 2, "one two"},
		{"  lead", 1, "  lead"},
		{"one two", 0, ""},
		{"", 3, ""},
	}
	for _, tt := range tests {
		if got := (WordTokenizer{}).Truncate(tt.text, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
		}
	}
}

func TestTrimPartialRune(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii", "plain text", "plain text"},
		{"empty", "", ""},
		{"two-byte cut", "h\xc3", "h"},
		{"three-byte cut", "\u65e5\xe6\x9c", "\u65e5"},
		{"four-byte cut", "go \xf0\x9f\x99", "go "},
		{"complete emoji", "go \U0001F642", "go \U0001F642"},
		{"replacement char kept", "x\uFFFD", "x\uFFFD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trimPartialRune(tt.in)
			if got != tt.want {
				t.Errorf("trimPartialRune(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("result %q is not valid UTF-8", got)
			}
		})
	}
}

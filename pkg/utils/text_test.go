package utils

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
	if got := Truncate("café au lait", 4); got != "café..." {
		t.Errorf("rune-aware truncate: got %q", got)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"Key Findings Summary", 3},
		{" a\tb\nc  d ", 4},
	}
	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHasAlnum(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"--- ... ---", false},
		{"• • •", false},
		{"3", true},
		{"Résumé", true},
	}
	for _, tt := range tests {
		if got := HasAlnum(tt.in); got != tt.want {
			t.Errorf("HasAlnum(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCollapseSpace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  plain  ", "plain"},
		{"Key\n  Findings\t\tSummary", "Key Findings Summary"},
		{" non breaking ", "non breaking"},
	}
	for _, tt := range tests {
		if got := CollapseSpace(tt.in); got != tt.want {
			t.Errorf("CollapseSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package summarize

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("analyst", "find key findings", "Revenue grew.")
	want := "summarize for a analyst looking to find key findings: Revenue grew."
	if got != want {
		t.Errorf("BuildPrompt = %q, want %q", got, want)
	}
}

func TestPreparePrompt_FitsBudget(t *testing.T) {
	prompt, passage := PreparePrompt(WordTokenizer{}, "analyst", "review", "short passage", 512)
	if passage != "short passage" {
		t.Errorf("passage = %q", passage)
	}
	if prompt != BuildPrompt("analyst", "review", "short passage") {
		t.Errorf("prompt = %q", prompt)
	}
}

func TestPreparePrompt_TruncatesPassageOnly(t *testing.T) {
	tok := WordTokenizer{}
	text := strings.Repeat("word ", 1000)
	prefix := PromptPrefix("analyst", "review")
	prefixTokens := tok.Count(prefix)

	prompt, passage := PreparePrompt(tok, "analyst", "review", text, 512)
	if !strings.HasPrefix(prompt, prefix) {
		t.Fatalf("prefix was modified: %q", prompt[:40])
	}
	if got := tok.Count(passage); got != 512-prefixTokens {
		t.Errorf("passage tokens = %d, want %d", got, 512-prefixTokens)
	}
	if got := tok.Count(prompt); got != 512 {
		t.Errorf("prompt tokens = %d, want 512", got)
	}
}

func TestPreparePrompt_PrefixFillsBudget(t *testing.T) {
	persona := strings.Repeat("very ", 20) + "detailed persona"
	prompt, passage := PreparePrompt(WordTokenizer{}, persona, "review", "the passage", 10)
	if passage != "" {
		t.Errorf("passage = %q, want empty", passage)
	}
	if prompt != PromptPrefix(persona, "review") {
		t.Errorf("prompt should be the untruncated prefix, got %q", prompt)
	}
}

func TestPreparePrompt_DefaultBudget(t *testing.T) {
	text := strings.Repeat("x ", 2000)
	prompt, _ := PreparePrompt(WordTokenizer{}, "a", "b", text, 0)
	if got := (WordTokenizer{}).Count(prompt); got != DefaultMaxInputTokens {
		t.Errorf("prompt tokens = %d, want %d", got, DefaultMaxInputTokens)
	}
}

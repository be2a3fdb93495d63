package embedding

import (
	"testing"
)

func TestSimpleTokenizer_Tokenize(t *testing.T) {
	tok := &SimpleTokenizer{}
	ids, attn, types := tok.Tokenize("hello world", 10)
	if len(ids) != 10 || len(attn) != 10 || len(types) != 10 {
		t.Fatalf("lengths: ids=%d attn=%d types=%d", len(ids), len(attn), len(types))
	}
	if ids[0] != tokenCLS {
		t.Errorf("expected CLS 101, got %d", ids[0])
	}
	if ids[3] != tokenSEP {
		t.Errorf("expected SEP after two words, got %d", ids[3])
	}
	for i, want := range []int64{1, 1, 1, 1, 0} {
		if attn[i] != want {
			t.Errorf("attention[%d] = %d, want %d", i, attn[i], want)
		}
	}
	if ids[1] < 1000 || ids[2] < 1000 {
		t.Errorf("word IDs must not collide with special tokens: %v", ids[:3])
	}
}

func TestSimpleTokenizer_CaseInsensitive(t *testing.T) {
	tok := &SimpleTokenizer{}
	a, _, _ := tok.Tokenize("Budget", 4)
	b, _, _ := tok.Tokenize("budget", 4)
	if a[1] != b[1] {
		t.Errorf("expected same ID for case variants, got %d and %d", a[1], b[1])
	}
}

func TestSimpleTokenizer_Truncates(t *testing.T) {
	tok := &SimpleTokenizer{}
	ids, attn, _ := tok.Tokenize("one two three four five six", 4)
	if len(ids) != 4 {
		t.Fatalf("len(ids)=%d", len(ids))
	}
	for i, v := range attn {
		if v != 1 {
			t.Errorf("attention[%d] = %d, want 1 when truncated", i, v)
		}
	}
}

func TestSplitWords(t *testing.T) {
	words := SplitWords("  a  b\tc\n ")
	if len(words) != 3 {
		t.Errorf("expected 3 words, got %v", words)
	}
	if SplitWords("") != nil {
		t.Error("empty string should return nil")
	}
}

func TestHashString(t *testing.T) {
	h := HashString("abc")
	if h == 0 {
		t.Error("hash should be non-zero")
	}
	if HashString("abc") != HashString("abc") {
		t.Error("hash should be deterministic")
	}
	if HashString("a very long string that would overflow a naive hash many times over") < 0 {
		t.Error("hash must be non-negative")
	}
}

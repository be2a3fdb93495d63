package summarize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts and truncates text in model tokens.
type Tokenizer interface {
	Count(text string) int
	Truncate(text string, maxTokens int) string
}

// Tokenizer names accepted by configuration.
const (
	TokenizerTiktoken = "tiktoken"
	TokenizerWords    = "words"
)

// DefaultEncoding is the BPE encoding used by the tiktoken tokenizer.
const DefaultEncoding = "cl100k_base"

// WordTokenizer treats each whitespace-delimited word as one token.
type WordTokenizer struct{}

// Count returns the number of words in text.
func (WordTokenizer) Count(text string) int {
	return len(strings.Fields(text))
}

// Truncate keeps text up to the end of its maxTokens-th word, preserving the
// original spacing between kept words.
func (WordTokenizer) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	words := 0
	inWord := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inWord && words == maxTokens {
				return text[:i]
			}
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			words++
		}
	}
	return text
}

// TiktokenTokenizer counts BPE tokens with a tiktoken encoding.
type TiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenTokenizer loads the named encoding (DefaultEncoding when empty).
// Encodings are fetched on first use and cached under TIKTOKEN_CACHE_DIR.
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encoding, err)
	}
	return &TiktokenTokenizer{enc: enc}, nil
}

// Count returns the number of BPE tokens in text.
func (t *TiktokenTokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Truncate returns the decoded prefix of text holding at most maxTokens tokens.
func (t *TiktokenTokenizer) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return trimPartialRune(t.enc.Decode(tokens[:maxTokens]))
}

// trimPartialRune drops an incomplete UTF-8 sequence from the end of s.
// Byte-level BPE tokens can split a character across a truncation point.
func trimPartialRune(s string) string {
	for i := 0; i < utf8.UTFMax && s != ""; i++ {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size != 1 {
			return s
		}
		s = s[:len(s)-1]
	}
	return s
}

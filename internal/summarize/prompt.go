package summarize

import "fmt"

// DefaultMaxInputTokens bounds the full prompt, prefix included.
const DefaultMaxInputTokens = 512

// PromptPrefix is the instruction that precedes the passage.
func PromptPrefix(persona, task string) string {
	return fmt.Sprintf("summarize for a %s looking to %s: ", persona, task)
}

// BuildPrompt renders the summarization prompt without any truncation.
func BuildPrompt(persona, task, text string) string {
	return PromptPrefix(persona, task) + text
}

// PreparePrompt builds the prompt within maxInputTokens. Only the passage is
// truncated; if the prefix alone uses the whole budget the passage is dropped.
// It returns the prompt and the passage that made it in.
func PreparePrompt(tok Tokenizer, persona, task, text string, maxInputTokens int) (prompt, passage string) {
	if maxInputTokens <= 0 {
		maxInputTokens = DefaultMaxInputTokens
	}
	prefix := PromptPrefix(persona, task)
	budget := maxInputTokens - tok.Count(prefix)
	if budget > 0 {
		passage = tok.Truncate(text, budget)
	}
	return prefix + passage, passage
}

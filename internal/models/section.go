package models

// Section is one logically contiguous region of a document under a single heading,
// or the document preamble when no heading precedes it.
type Section struct {
	Document   string `json:"document"`
	Title      string `json:"section_title"`
	Text       string `json:"text"`
	PageNumber int    `json:"page_number"` // 1-based page where the section starts
}

// RankedSection is a Section retained by the ranker, tagged with its 1-based rank.
// Text and Score are carried for summarization and diagnostics but not serialized.
type RankedSection struct {
	Document       string  `json:"document"`
	Title          string  `json:"section_title"`
	ImportanceRank int     `json:"importance_rank"`
	PageNumber     int     `json:"page_number"`
	Text           string  `json:"-"`
	Score          float64 `json:"-"`
}

// SummaryRecord is the generated summary of one ranked section.
type SummaryRecord struct {
	Document    string `json:"document"`
	PageNumber  int    `json:"page_number"`
	RefinedText string `json:"refined_text"`
}

package models

import "time"

// Document outcome statuses recorded in the ledger.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one batch invocation over an input directory.
type Run struct {
	ID         string     `json:"id"`
	Persona    string     `json:"persona"`
	Task       string     `json:"task"`
	InputDir   string     `json:"input_dir"`
	OutputDir  string     `json:"output_dir"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Processed  int        `json:"processed"`
	Failed     int        `json:"failed"`
}

// DocumentRecord is the ledger entry for one document within a run.
type DocumentRecord struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"run_id"`
	DocumentID  string    `json:"document_id"`
	Document    string    `json:"document"`
	Status      string    `json:"status"`
	Sections    int       `json:"sections"`
	Ranked      int       `json:"ranked"`
	OutputPath  string    `json:"output_path,omitempty"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	Error       string    `json:"error,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

package models

import "time"

const (
	// DefaultPersona is used when a job does not name a persona.
	DefaultPersona = "analyst"
	// DefaultTask is used when a job does not name a task.
	DefaultTask = "understand the section"
)

// Job is the reader persona and task a document is processed for.
// TopK of zero or less means the pipeline default.
type Job struct {
	Persona string `json:"persona"`
	Task    string `json:"task"`
	TopK    int    `json:"top_k,omitempty"`
}

// WithDefaults returns j with empty fields replaced by the package defaults.
func (j Job) WithDefaults() Job {
	if j.Persona == "" {
		j.Persona = DefaultPersona
	}
	if j.Task == "" {
		j.Task = DefaultTask
	}
	return j
}

// ResultMetadata describes the input and conditions of one pipeline run.
type ResultMetadata struct {
	InputDocument       string    `json:"input_document"`
	Persona             string    `json:"persona"`
	JobToBeDone         string    `json:"job_to_be_done"`
	ProcessingTimestamp time.Time `json:"processing_timestamp"`
}

// PipelineResult is the output record for one input document.
// ExtractedSections and SubsectionAnalysis are parallel and ordered by importance rank.
type PipelineResult struct {
	Metadata           ResultMetadata  `json:"metadata"`
	ExtractedSections  []RankedSection `json:"extracted_sections"`
	SubsectionAnalysis []SummaryRecord `json:"subsection_analysis"`
	// SectionCount is the number of sections found before ranking.
	SectionCount int `json:"-"`
}

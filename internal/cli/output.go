// Package cli formats pipeline results and ledger status for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/sift/internal/models"
	"github.com/hyperjump/sift/pkg/utils"
)

// OutputFormat is the format for result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a format name; empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// WriteResult writes a pipeline result to w in the given format.
// OutputJSON is the record written to disk by batch runs.
func WriteResult(w io.Writer, result *models.PipelineResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, result)
	default:
		writeResultText(w, result)
		return nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeResultText(w io.Writer, result *models.PipelineResult) {
	m := result.Metadata
	fmt.Fprintf(w, "\n%s\n", m.InputDocument)
	fmt.Fprintf(w, "Persona: %s | Task: %s | %s\n\n", m.Persona, m.JobToBeDone, m.ProcessingTimestamp.Format(time.RFC3339))
	for i, sec := range result.ExtractedSections {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "#%d  %s (page %d)\n", sec.ImportanceRank, sec.Title, sec.PageNumber)
		if i < len(result.SubsectionAnalysis) {
			if text := result.SubsectionAnalysis[i].RefinedText; text != "" {
				fmt.Fprintf(w, "\n%s\n", utils.Truncate(utils.CollapseSpace(text), 600))
			}
		}
		fmt.Fprintln(w)
	}
	if len(result.ExtractedSections) == 0 {
		fmt.Fprintln(w, "No sections.")
	}
}

// OutputPath returns dir/<document base name>.json.
func OutputPath(dir, document string) string {
	return filepath.Join(dir, models.BaseName(document)+".json")
}

// WriteResultFile writes result as JSON to path. The file is written to a
// temporary name first and renamed, so readers never see a partial record.
func WriteResultFile(path string, result *models.PipelineResult) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sift-*.json")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := writeJSON(tmp, result); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// WriteStatus writes ledger status in the given format.
func WriteStatus(w io.Writer, status *models.LedgerStatus, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	fmt.Fprintf(w, "Runs: %d\n", status.Runs)
	fmt.Fprintf(w, "Documents: %d (%d ok, %d failed)\n", status.Documents, status.Succeeded, status.Failed)
	if len(status.RecentRuns) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nRecent runs:")
	for _, r := range status.RecentRuns {
		state := "running"
		if r.FinishedAt != nil {
			state = fmt.Sprintf("%d ok, %d failed in %s", r.Processed, r.Failed, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
		}
		fmt.Fprintf(w, "  %s  %s  %q / %q  %s\n", r.ID, r.StartedAt.Format(time.RFC3339), r.Persona, r.Task, state)
	}
	return nil
}

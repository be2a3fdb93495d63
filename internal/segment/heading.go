package segment

import (
	"strings"

	"github.com/hyperjump/sift/internal/models"
	"github.com/hyperjump/sift/pkg/utils"
)

// Rules are the thresholds a styled run must meet to count as a heading.
type Rules struct {
	MinFontSize float64
	MinWords    int
	BoldMarker  string // matched case-insensitively as a substring of the font name
}

// DefaultRules returns the standard heading thresholds: 12pt, three words, bold font.
func DefaultRules() Rules {
	return Rules{MinFontSize: 12, MinWords: 3, BoldMarker: "bold"}
}

// Decision is the per-page heading outcome: either a detected heading or none.
type Decision struct {
	Heading  string
	Detected bool
}

// NoHeading is the decision for pages without a heading candidate.
var NoHeading = Decision{}

// HeadingDetected returns a decision carrying the heading text.
func HeadingDetected(text string) Decision {
	return Decision{Heading: text, Detected: true}
}

// IsCandidate reports whether run satisfies every heading condition.
func (r Rules) IsCandidate(run models.StyledRun) bool {
	text := strings.TrimSpace(run.Text)
	if run.FontSize < r.MinFontSize {
		return false
	}
	if !utils.HasAlnum(text) {
		return false
	}
	if utils.WordCount(text) < r.MinWords {
		return false
	}
	return strings.Contains(strings.ToLower(run.FontName), strings.ToLower(r.BoldMarker))
}

// Detect returns the decision for one page. Only the first candidate in reading order counts;
// a later, truer heading on the same page is ignored.
func (r Rules) Detect(runs []models.StyledRun) Decision {
	for _, run := range runs {
		if r.IsCandidate(run) {
			return HeadingDetected(utils.CollapseSpace(run.Text))
		}
	}
	return NoHeading
}

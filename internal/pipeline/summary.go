package pipeline

import (
	"time"

	"git.home.luguber.info/inful/fitsdoc/internal/catalog"
	"git.home.luguber.info/inful/fitsdoc/internal/fitsmeta"
)

// FileResult is the outcome for one input file.
type FileResult struct {
	Path     string
	Output   string
	Status   catalog.Status
	HDUs     int
	Size     int64
	Warnings []fitsmeta.Warning
	Err      error
	Duration time.Duration
}

// Summary aggregates the results of one run.
type Summary struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Results  []FileResult

	Documented int
	Unchanged  int
	Skipped    int
	Failed     int
	// Warnings counts warnings, not files with warnings.
	Warnings int
}

func (s *Summary) add(res FileResult) {
	s.Results = append(s.Results, res)
	s.Warnings += len(res.Warnings)
	switch res.Status {
	case catalog.StatusFailed:
		s.Failed++
	case catalog.StatusSkipped:
		s.Skipped++
	case catalog.StatusUnchanged:
		s.Unchanged++
	default:
		s.Documented++
	}
}

// HasFailures reports whether any file could not be documented.
func (s *Summary) HasFailures() bool { return s.Failed > 0 }

// Failures returns the failed results in processing order.
func (s *Summary) Failures() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Status == catalog.StatusFailed {
			out = append(out, r)
		}
	}
	return out
}

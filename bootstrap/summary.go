package bootstrap

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RunRecord is one tracked pipeline run.
type RunRecord struct {
	Pipeline string
	RunID    string
	Duration time.Duration
	Err      error
}

// Summary tracks startup time and pipeline runs for the closing
// report.
type Summary struct {
	mu              sync.Mutex
	serviceName     string
	version         string
	startupDuration time.Duration
	runs            []RunRecord
}

// NewSummary creates a summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
	}
}

// SetStartupDuration stores how long NewApp took, for the final report.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startupDuration = d
}

// TrackRun records a completed pipeline run.
func (s *Summary) TrackRun(pipeline, runID string, d time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, RunRecord{
		Pipeline: pipeline,
		RunID:    runID,
		Duration: d,
		Err:      err,
	})
}

// Runs returns a copy of the tracked runs.
func (s *Summary) Runs() []RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RunRecord, len(s.runs))
	copy(out, s.runs)
	return out
}

// Display writes the closing run report.
func (s *Summary) Display(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(w, "\n🚀 %s v%s (started in %.2fs)\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	if len(s.runs) == 0 {
		fmt.Fprintf(w, "   └── No pipeline runs\n\n")
		return
	}

	fmt.Fprintf(w, "📊 Pipeline Runs\n")
	ok := 0
	for i, r := range s.runs {
		prefix := "├──"
		if i == len(s.runs)-1 {
			prefix = "└──"
		}
		icon := "✅"
		detail := fmt.Sprintf("%.2fs", r.Duration.Seconds())
		if r.Err != nil {
			icon = "❌"
			detail = fmt.Sprintf("%s: %v", detail, r.Err)
		} else {
			ok++
		}
		fmt.Fprintf(w, "   %s %s %s [%s] (%s)\n", prefix, icon, r.Pipeline, shortID(r.RunID), detail)
	}
	fmt.Fprintf(w, "\n")

	if ok == len(s.runs) {
		fmt.Fprintf(w, "✅ All runs succeeded (%d/%d)\n\n", ok, len(s.runs))
	} else {
		fmt.Fprintf(w, "⚠️  Some runs failed (%d/%d succeeded)\n\n", ok, len(s.runs))
	}
}

// shortID truncates a run id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

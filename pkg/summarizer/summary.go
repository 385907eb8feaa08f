package summarizer

import (
	"time"

	"github.com/user/reelsort/pkg/review"
)

// Summary contains everything reported about one review run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Run describes the reviewed directory and timing.
	Run RunInfo

	// Stats counts the outcomes of this run.
	Stats review.Stats

	// Entries lists every outcome in the order it happened.
	Entries []review.Result
}

// RunInfo describes the reviewed directory.
type RunInfo struct {
	Dir       string
	TrashDir  string
	Queued    int // files pending when the run started
	Remaining int // files left unreviewed when the run ended
	StartedAt time.Time
	EndedAt   time.Time
	Completed bool
}

// Elapsed returns the wall time of the run.
func (r RunInfo) Elapsed() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRun sets the run information.
func (b *Builder) WithRun(run RunInfo) *Builder {
	b.summary.Run = run
	return b
}

// WithResults sets the outcomes and derives the counts from them.
func (b *Builder) WithResults(results []review.Result) *Builder {
	b.summary.Entries = append([]review.Result(nil), results...)
	var st review.Stats
	for _, r := range results {
		switch r.Outcome {
		case review.OutcomeKept:
			st.Kept++
		case review.OutcomeTrashed:
			st.Trashed++
		case review.OutcomeSkipped:
			st.Skipped++
		case review.OutcomeFailedOpen:
			st.FailedOpen++
		}
	}
	b.summary.Stats = st
	return b
}

// FromSession fills the summary from a finished review session.
func (b *Builder) FromSession(s *review.Session, dir, trashDir string, startedAt time.Time) *Builder {
	remaining := s.Total() - s.Index()
	if remaining < 0 {
		remaining = 0
	}
	b.WithRun(RunInfo{
		Dir:       dir,
		TrashDir:  trashDir,
		Queued:    s.Total(),
		Remaining: remaining,
		StartedAt: startedAt,
		EndedAt:   time.Now(),
		Completed: s.Done(),
	})
	return b.WithResults(s.Results())
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

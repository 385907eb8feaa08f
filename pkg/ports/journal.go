package ports

import (
	"context"
	"time"
)

// JournalEntry is one committed review decision.
type JournalEntry struct {
	File        string
	Decision    Decision
	TrashedPath string // Empty unless the file was moved
	At          time.Time
}

// Journal is an append-only history of commits.
// It is informational only; the decision mapping remains authoritative.
type Journal interface {
	// Record appends an entry.
	Record(ctx context.Context, entry JournalEntry) error

	// Close releases the journal.
	Close() error
}

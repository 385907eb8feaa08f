package mocks

import (
	"context"
	"sync"

	"github.com/user/reelsort/pkg/ports"
)

// Journal is a mock implementation of ports.Journal.
type Journal struct {
	mu sync.Mutex

	RecordFunc func(ctx context.Context, e ports.JournalEntry) error

	Entries []ports.JournalEntry
	Closed  bool
}

func (m *Journal) Record(ctx context.Context, e ports.JournalEntry) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, e)
	return nil
}

func (m *Journal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

var _ ports.Journal = (*Journal)(nil)

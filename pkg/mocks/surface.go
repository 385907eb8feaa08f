package mocks

import (
	"image"
	"sync"

	"github.com/user/reelsort/pkg/ports"
)

// Surface is a mock implementation of ports.Surface.
type Surface struct {
	mu     sync.Mutex
	events chan ports.Event

	// Recorded calls for verification
	Presented int
	LastImage image.Image
	Statuses  []ports.Status
	Notices   []ports.Notice
	Finished  []string
}

// NewSurface creates a mock Surface with a buffered event channel.
func NewSurface() *Surface {
	return &Surface{events: make(chan ports.Event, 64)}
}

// Send queues an event as if the operator had produced it.
func (m *Surface) Send(ev ports.Event) {
	m.events <- ev
}

func (m *Surface) Events() <-chan ports.Event {
	return m.events
}

func (m *Surface) Present(img image.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Presented++
	m.LastImage = img
}

func (m *Surface) SetStatus(st ports.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Statuses = append(m.Statuses, st)
}

func (m *Surface) Notify(n ports.Notice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notices = append(m.Notices, n)
}

func (m *Surface) Finish(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Finished = append(m.Finished, message)
}

// LastStatus returns the most recent status, if any.
func (m *Surface) LastStatus() (ports.Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Statuses) == 0 {
		return ports.Status{}, false
	}
	return m.Statuses[len(m.Statuses)-1], true
}

var _ ports.Surface = (*Surface)(nil)

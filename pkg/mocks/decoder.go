package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/user/reelsort/pkg/ports"
)

// DecodeSession is a mock implementation of ports.DecodeSession.
// It serves a scripted list of frames; Seek moves the cursor to the first
// frame at or after the target time.
type DecodeSession struct {
	mu sync.Mutex

	Frames        []ports.Frame
	DurationValue float64

	NextFrameFunc func(ctx context.Context) (ports.Frame, error)
	SeekFunc      func(ctx context.Context, seconds float64) error
	CloseFunc     func() error

	pos    int
	closed bool

	// Recorded calls for verification
	NextFrameCalls int
	SeekCalls      []float64
	CloseCalls     int
}

// NewDecodeSession creates a session of duration seconds with 2x2 frames at fps.
func NewDecodeSession(duration, fps float64) *DecodeSession {
	s := &DecodeSession{DurationValue: duration}
	if fps <= 0 {
		return s
	}
	for i := 0; float64(i)/fps < duration; i++ {
		s.Frames = append(s.Frames, TestFrame(2, 2, float64(i)/fps))
	}
	return s
}

// TestFrame returns a gray RGB24 frame of the given size.
func TestFrame(width, height int, t float64) ports.Frame {
	pix := make([]byte, width*height*3)
	for i := range pix {
		pix[i] = 0x80
	}
	return ports.Frame{Pix: pix, Width: width, Height: height, Time: t}
}

func (m *DecodeSession) NextFrame(ctx context.Context) (ports.Frame, error) {
	m.mu.Lock()
	m.NextFrameCalls++
	m.mu.Unlock()
	if m.NextFrameFunc != nil {
		return m.NextFrameFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ports.Frame{}, ports.ErrSessionClosed
	}
	if m.pos >= len(m.Frames) {
		return ports.Frame{}, ports.ErrEndOfStream
	}
	f := m.Frames[m.pos]
	m.pos++
	return f, nil
}

func (m *DecodeSession) Seek(ctx context.Context, seconds float64) error {
	m.mu.Lock()
	m.SeekCalls = append(m.SeekCalls, seconds)
	m.mu.Unlock()
	if m.SeekFunc != nil {
		return m.SeekFunc(ctx, seconds)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ports.ErrSessionClosed
	}
	m.pos = len(m.Frames)
	for i, f := range m.Frames {
		if f.Time >= seconds {
			m.pos = i
			break
		}
	}
	return nil
}

func (m *DecodeSession) Duration() float64 {
	return m.DurationValue
}

func (m *DecodeSession) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	m.closed = true
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Closed reports whether Close has been called.
func (m *DecodeSession) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ ports.DecodeSession = (*DecodeSession)(nil)

// ErrUndecodable is the cause reported for paths the mock opener rejects.
var ErrUndecodable = errors.New("mock: undecodable")

// SessionOpener is a mock implementation of ports.SessionOpener.
// Each Open of a known path returns a fresh DecodeSession.
type SessionOpener struct {
	mu sync.Mutex

	// Durations maps paths to stream durations. Unknown paths fail to open.
	Durations map[string]float64
	FPS       float64

	OpenFunc func(ctx context.Context, path string) (ports.DecodeSession, error)

	// Recorded calls for verification
	Opened   []string
	Sessions []*DecodeSession
}

// NewSessionOpener creates an opener serving 10 fps sessions.
func NewSessionOpener(durations map[string]float64) *SessionOpener {
	return &SessionOpener{Durations: durations, FPS: 10}
}

func (m *SessionOpener) Open(ctx context.Context, path string) (ports.DecodeSession, error) {
	m.mu.Lock()
	m.Opened = append(m.Opened, path)
	m.mu.Unlock()
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.Durations[path]
	if !ok {
		return nil, &ports.OpenError{Path: path, Err: ErrUndecodable}
	}
	s := NewDecodeSession(d, m.FPS)
	m.Sessions = append(m.Sessions, s)
	return s, nil
}

// Last returns the most recently opened session.
func (m *SessionOpener) Last() *DecodeSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sessions) == 0 {
		return nil
	}
	return m.Sessions[len(m.Sessions)-1]
}

var _ ports.SessionOpener = (*SessionOpener)(nil)

// Prober is a mock implementation of ports.Prober.
type Prober struct {
	Info      map[string]ports.MediaInfo
	ProbeFunc func(ctx context.Context, path string) (ports.MediaInfo, error)

	// Recorded calls for verification
	Probed []string
}

func (m *Prober) Probe(ctx context.Context, path string) (ports.MediaInfo, error) {
	m.Probed = append(m.Probed, path)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(ctx, path)
	}
	info, ok := m.Info[path]
	if !ok {
		return ports.MediaInfo{}, fmt.Errorf("probe %s: %w", path, ErrUndecodable)
	}
	return info, nil
}

var _ ports.Prober = (*Prober)(nil)

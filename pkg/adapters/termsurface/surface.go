// Package termsurface presents the review in a terminal using Bubble Tea.
// Frames are drawn with half-block characters in true colour.
package termsurface

import (
	"context"
	"image"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/reelsort/pkg/ports"
)

const eventBuffer = 32

// Options configures the terminal surface.
type Options struct {
	Input  io.Reader
	Output io.Writer

	// AltScreen draws in the alternate screen buffer.
	AltScreen bool
}

// Surface implements ports.Surface on a Bubble Tea program.
type Surface struct {
	program *tea.Program
	events  chan ports.Event
	logger  ports.Logger

	mu       sync.Mutex
	finished string
}

// New creates a terminal surface. Run must be called to start it.
func New(logger ports.Logger, opts Options) *Surface {
	s := &Surface{
		events: make(chan ports.Event, eventBuffer),
		logger: logger.WithComponent("surface"),
	}

	var teaOpts []tea.ProgramOption
	if opts.AltScreen {
		teaOpts = append(teaOpts, tea.WithAltScreen())
	}
	if opts.Input != nil {
		teaOpts = append(teaOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		teaOpts = append(teaOpts, tea.WithOutput(opts.Output))
	}
	s.program = tea.NewProgram(newModel(s.emit), teaOpts...)
	return s
}

// Run runs the terminal program until Finish is called, ctx is cancelled or
// the terminal goes away. The events channel is closed on return.
func (s *Surface) Run(ctx context.Context) error {
	defer close(s.events)

	stop := context.AfterFunc(ctx, s.program.Quit)
	defer stop()

	final, err := s.program.Run()
	if m, ok := final.(model); ok && m.finished != "" {
		s.mu.Lock()
		s.finished = m.finished
		s.mu.Unlock()
	}
	return err
}

// FinishMessage returns the message passed to Finish, once the program has
// exited.
func (s *Surface) FinishMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

func (s *Surface) emit(ev ports.Event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("Dropped %s event, review is busy", ev.Kind)
	}
}

// Events returns the channel of operator intents.
func (s *Surface) Events() <-chan ports.Event {
	return s.events
}

// Present shows a frame.
func (s *Surface) Present(img image.Image) {
	s.program.Send(frameMsg{img: img})
}

// SetStatus updates the status line.
func (s *Surface) SetStatus(status ports.Status) {
	s.program.Send(statusMsg{status: status})
}

// Notify shows a message below the picture.
func (s *Surface) Notify(notice ports.Notice) {
	s.program.Send(noticeMsg{notice: notice})
}

// Finish stops the program.
func (s *Surface) Finish(message string) {
	s.program.Send(finishMsg{message: message})
}

var _ ports.Surface = (*Surface)(nil)

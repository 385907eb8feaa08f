// Package linesurface drives a review from line commands, for pipes and
// scripts where no terminal is attached.
//
// Commands, one per line:
//
//	toggle | play | pause
//	seek <fraction>
//	keep | trash
//	commit
//	skip
//	wait <duration>
//	quit
//
// Blank lines and lines starting with # are ignored.
package linesurface

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/reelsort/pkg/ports"
)

// ErrUnknownCommand is returned for lines that are not commands.
var ErrUnknownCommand = errors.New("linesurface: unknown command")

// Command is a parsed input line.
type Command struct {
	Event ports.Event
	Wait  time.Duration
}

// Parse parses one command line. ok is false for blank and comment lines.
func Parse(line string) (cmd Command, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return Command{}, false, nil
	}

	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case "toggle", "play", "pause":
		return Command{Event: ports.Toggle()}, true, nil
	case "keep":
		return Command{Event: ports.Decide(ports.DecisionKeep)}, true, nil
	case "trash":
		return Command{Event: ports.Decide(ports.DecisionTrash)}, true, nil
	case "commit":
		return Command{Event: ports.Commit()}, true, nil
	case "skip":
		return Command{Event: ports.Skip()}, true, nil
	case "quit", "exit":
		return Command{Event: ports.Quit()}, true, nil
	case "seek":
		if len(args) != 1 {
			return Command{}, false, fmt.Errorf("seek: expected one fraction")
		}
		f, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "%"), 64)
		if err != nil {
			return Command{}, false, fmt.Errorf("seek: %w", err)
		}
		if strings.HasSuffix(args[0], "%") {
			f /= 100
		}
		return Command{Event: ports.SeekTo(f)}, true, nil
	case "wait":
		if len(args) != 1 {
			return Command{}, false, fmt.Errorf("wait: expected a duration")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return Command{}, false, fmt.Errorf("wait: %w", err)
		}
		return Command{Wait: d}, true, nil
	}
	return Command{}, false, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

// Surface implements ports.Surface over a command reader and a text writer.
type Surface struct {
	in     io.Reader
	events chan ports.Event

	mu       sync.Mutex
	out      io.Writer
	lastFile string
	frames   int
}

// New creates a line surface reading commands from in and reporting to out.
func New(in io.Reader, out io.Writer) *Surface {
	return &Surface{
		in:     in,
		out:    out,
		events: make(chan ports.Event),
	}
}

// Run reads commands until the input ends or ctx is cancelled, then closes
// the events channel.
func (s *Surface) Run(ctx context.Context) error {
	defer close(s.events)

	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		cmd, ok, err := Parse(scanner.Text())
		if err != nil {
			s.println(err.Error())
			continue
		}
		if !ok {
			continue
		}

		if cmd.Wait > 0 {
			select {
			case <-time.After(cmd.Wait):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		select {
		case s.events <- cmd.Event:
		case <-ctx.Done():
			return nil
		}
		if cmd.Event.Kind == ports.EventQuit {
			return nil
		}
	}
	return scanner.Err()
}

// Events returns the channel of operator intents.
func (s *Surface) Events() <-chan ports.Event {
	return s.events
}

// Present counts frames; nothing is drawn.
func (s *Surface) Present(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
}

// Frames returns the number of frames presented.
func (s *Surface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// SetStatus prints a line when a new file is loaded.
func (s *Surface) SetStatus(status ports.Status) {
	s.mu.Lock()
	changed := status.File != "" && status.File != s.lastFile
	s.lastFile = status.File
	s.mu.Unlock()

	if changed {
		s.println(l10n.F("Video %d of %d: %s (%.1fs)", status.Index+1, status.Total, status.File, status.Duration))
	}
}

// Notify prints the notice.
func (s *Surface) Notify(notice ports.Notice) {
	if notice.Error {
		s.println("! " + notice.Text)
		return
	}
	s.println(notice.Text)
}

// Finish prints the final message.
func (s *Surface) Finish(message string) {
	s.println(l10n.T(message))
}

func (s *Surface) println(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, line)
}

var _ ports.Surface = (*Surface)(nil)

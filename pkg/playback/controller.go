// Package playback drives a decode session on a fixed cadence.
//
// A Controller owns one ports.DecodeSession. It pulls one frame per tick while
// playing, converts it for display and hands it to a publish callback. Seeks
// run with periodic pulls suspended, so a tick can never interleave with a
// repositioned decoder.
//
// A Controller is not safe for concurrent use; the review runner drives it
// from a single goroutine.
package playback

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/user/reelsort/pkg/ports"
)

// DefaultSeekAttempts is the number of frames pulled after a seek while
// looking for a displayable one.
const DefaultSeekAttempts = 10

var (
	// ErrSeekUnavailable is returned when the stream duration is unknown.
	ErrSeekUnavailable = errors.New("playback: seek unavailable, duration unknown")

	// ErrSeekInFlight is returned when a seek is requested during another seek.
	ErrSeekInFlight = errors.New("playback: seek already in progress")

	// ErrNotStarted is returned when seeking before Start.
	ErrNotStarted = errors.New("playback: not started")

	// ErrClosed is returned when a closed controller is used.
	ErrClosed = errors.New("playback: controller closed")
)

// SeekError reports a failed seek. Seek errors leave playback state unchanged.
type SeekError struct {
	Target float64 // Seconds
	Err    error
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("seek to %.2fs: %v", e.Target, e.Err)
}

func (e *SeekError) Unwrap() error { return e.Err }

// State is the playback state.
type State int

const (
	Loading State = iota
	Playing
	Paused
	Seeking
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Seeking:
		return "seeking"
	default:
		return "unknown"
	}
}

// Converter turns decoded frames into presentation buffers.
type Converter interface {
	Convert(f ports.Frame) (image.Image, error)
}

// PublishFunc receives each presentation buffer with its stream time.
type PublishFunc func(img image.Image, position float64)

// Options configures a Controller.
type Options struct {
	// SeekAttempts bounds the frames pulled after a seek.
	SeekAttempts int
}

// Controller implements the playback state machine for one file.
type Controller struct {
	session ports.DecodeSession
	convert Converter
	publish PublishFunc
	logger  ports.Logger
	opts    Options

	state        State
	position     float64
	closed       bool
	frames       int
	skippedTicks int
}

// New creates a Controller in the Loading state.
func New(session ports.DecodeSession, convert Converter, publish PublishFunc, logger ports.Logger, opts Options) *Controller {
	if opts.SeekAttempts <= 0 {
		opts.SeekAttempts = DefaultSeekAttempts
	}
	if publish == nil {
		publish = func(image.Image, float64) {}
	}
	return &Controller{
		session: session,
		convert: convert,
		publish: publish,
		logger:  logger.WithComponent("playback"),
		opts:    opts,
		state:   Loading,
	}
}

// Start begins playback.
func (c *Controller) Start() {
	if c.closed || c.state != Loading {
		return
	}
	c.state = Playing
}

// Tick advances playback by one frame when playing.
// End of stream pauses on the last frame. A decoder stall is logged and the
// next tick retries. Other decode errors pause playback and are returned.
func (c *Controller) Tick(ctx context.Context) error {
	if c.closed {
		return nil
	}

	switch c.state {
	case Seeking:
		c.skippedTicks++
		return nil
	case Playing:
	default:
		return nil
	}

	frame, err := c.session.NextFrame(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrEndOfStream):
		c.logger.Debug("End of stream at %.2fs", c.position)
		c.state = Paused
		return nil
	case errors.Is(err, ports.ErrFrameTimeout):
		c.logger.Warn("Decoder stalled, retrying on next tick")
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		c.state = Paused
		return fmt.Errorf("decode frame: %w", err)
	}

	c.show(frame)
	return nil
}

// Toggle switches between Playing and Paused. It is ignored while loading or
// seeking.
func (c *Controller) Toggle() {
	if c.closed {
		return
	}
	switch c.state {
	case Playing:
		c.state = Paused
	case Paused:
		c.state = Playing
	}
}

// Seek moves playback to fraction of the duration, clamped to [0, 1].
// It shows the first displayable frame at or after the target and restores
// the prior Playing or Paused state. When no frame turns up within the
// configured attempts the previous frame stays visible and the position
// moves to the target, where the decoder now is.
func (c *Controller) Seek(ctx context.Context, fraction float64) error {
	if c.closed {
		return ErrClosed
	}
	switch c.state {
	case Seeking:
		return ErrSeekInFlight
	case Loading:
		return ErrNotStarted
	}

	fraction = clamp(fraction)
	duration := c.session.Duration()
	if duration <= 0 {
		return &SeekError{Target: 0, Err: ErrSeekUnavailable}
	}
	target := fraction * duration

	prior := c.state
	c.state = Seeking
	defer func() {
		if !c.closed {
			c.state = prior
		}
	}()

	if err := c.session.Seek(ctx, target); err != nil {
		return &SeekError{Target: target, Err: err}
	}

	for attempt := 0; attempt < c.opts.SeekAttempts; attempt++ {
		frame, err := c.session.NextFrame(ctx)
		if errors.Is(err, ports.ErrEndOfStream) {
			break
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return &SeekError{Target: target, Err: err}
		}
		if err != nil || !frame.Valid() {
			continue
		}
		c.show(frame)
		c.logger.Debug("Seeked to %.2fs (requested %.2fs)", frame.Time, target)
		return nil
	}

	c.logger.Debug("No frame found after seeking to %.2fs, keeping previous frame", target)
	c.position = target
	return nil
}

func (c *Controller) show(frame ports.Frame) {
	img, err := c.convert.Convert(frame)
	if err != nil {
		c.logger.Warn("Dropped frame at %.2fs: %s", frame.Time, err)
		return
	}
	c.position = frame.Time
	c.frames++
	c.publish(img, frame.Time)
}

// Close releases the decode session. Later ticks are no-ops.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if err := c.session.Close(); err != nil {
		c.logger.Debug("Closing decode session: %s", err)
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Playing reports whether playback is running.
func (c *Controller) Playing() bool { return !c.closed && c.state == Playing }

// Position returns the playback position in seconds: the time of the last
// shown frame, or the seek target when a seek found no frame.
func (c *Controller) Position() float64 { return c.position }

// Duration returns the stream duration in seconds.
func (c *Controller) Duration() float64 { return c.session.Duration() }

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool { return c.closed }

// FramesShown returns the number of frames published.
func (c *Controller) FramesShown() int { return c.frames }

// SkippedTicks returns the number of ticks that arrived during a seek.
func (c *Controller) SkippedTicks() int { return c.skippedTicks }

func clamp(f float64) float64 {
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

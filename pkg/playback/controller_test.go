package playback

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"

	"github.com/user/reelsort/pkg/adapters/logger"
	"github.com/user/reelsort/pkg/mocks"
	"github.com/user/reelsort/pkg/ports"
)

type stubConverter struct {
	err error
}

func (c stubConverter) Convert(f ports.Frame) (image.Image, error) {
	if c.err != nil {
		return nil, c.err
	}
	return image.NewRGBA(image.Rect(0, 0, f.Width, f.Height)), nil
}

type published struct {
	count int
	last  float64
}

func (p *published) publish(img image.Image, position float64) {
	p.count++
	p.last = position
}

func newController(session *mocks.DecodeSession) (*Controller, *published) {
	p := &published{}
	c := New(session, stubConverter{}, p.publish, logger.NewNoop(), Options{})
	return c, p
}

func TestController_StartsLoading(t *testing.T) {
	session := mocks.NewDecodeSession(1, 10)
	c, p := newController(session)

	if c.State() != Loading {
		t.Fatalf("expected Loading, got %s", c.State())
	}
	if err := c.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.NextFrameCalls != 0 || p.count != 0 {
		t.Errorf("expected no pull while loading, got %d pulls", session.NextFrameCalls)
	}

	c.Toggle()
	if c.State() != Loading {
		t.Errorf("expected toggle to be ignored while loading, got %s", c.State())
	}
}

func TestController_TickPublishesFrames(t *testing.T) {
	session := mocks.NewDecodeSession(1, 10)
	c, p := newController(session)
	c.Start()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := c.Tick(ctx); err != nil {
			t.Fatalf("tick %d: unexpected error: %v", i, err)
		}
	}

	if p.count != 3 {
		t.Errorf("expected 3 published frames, got %d", p.count)
	}
	if math.Abs(c.Position()-0.2) > 1e-9 {
		t.Errorf("expected position 0.2, got %v", c.Position())
	}
	if !c.Playing() {
		t.Error("expected to keep playing")
	}
}

func TestController_EndOfStreamPauses(t *testing.T) {
	session := mocks.NewDecodeSession(0.2, 10)
	c, p := newController(session)
	c.Start()

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if err := c.Tick(ctx); err != nil {
			t.Fatalf("tick %d: unexpected error: %v", i, err)
		}
	}

	if c.State() != Paused {
		t.Errorf("expected Paused at end of stream, got %s", c.State())
	}
	if p.count != 2 {
		t.Errorf("expected last frame to stay visible after 2 frames, got %d", p.count)
	}
	if session.NextFrameCalls != 3 {
		t.Errorf("expected no pulls once paused, got %d", session.NextFrameCalls)
	}
}

func TestController_TickErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantState State
		wantErr   bool
	}{
		{"frame timeout retries", ports.ErrFrameTimeout, Playing, false},
		{"decode failure pauses", errors.New("corrupt packet"), Paused, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := mocks.NewDecodeSession(1, 10)
			session.NextFrameFunc = func(ctx context.Context) (ports.Frame, error) {
				return ports.Frame{}, tt.err
			}
			c, p := newController(session)
			c.Start()

			err := c.Tick(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
			if c.State() != tt.wantState {
				t.Errorf("expected %s, got %s", tt.wantState, c.State())
			}
			if p.count != 0 {
				t.Errorf("expected nothing published, got %d", p.count)
			}
		})
	}
}

func TestController_ConvertFailureDropsFrame(t *testing.T) {
	session := mocks.NewDecodeSession(1, 10)
	p := &published{}
	c := New(session, stubConverter{err: errors.New("bad frame")}, p.publish, logger.NewNoop(), Options{})
	c.Start()

	if err := c.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.count != 0 || !c.Playing() {
		t.Errorf("expected dropped frame and continued playback, got %d frames, %s", p.count, c.State())
	}
}

func TestController_Toggle(t *testing.T) {
	session := mocks.NewDecodeSession(1, 10)
	c, _ := newController(session)
	c.Start()

	c.Toggle()
	if c.State() != Paused {
		t.Fatalf("expected Paused, got %s", c.State())
	}
	if err := c.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.NextFrameCalls != 0 {
		t.Errorf("expected no decode movement while paused, got %d pulls", session.NextFrameCalls)
	}

	c.Toggle()
	if c.State() != Playing {
		t.Errorf("expected Playing, got %s", c.State())
	}
}

func TestController_SeekHalfway(t *testing.T) {
	for _, paused := range []bool{false, true} {
		session := mocks.NewDecodeSession(10, 10)
		c, p := newController(session)
		c.Start()
		if paused {
			c.Toggle()
		}
		prior := c.State()

		if err := c.Seek(context.Background(), 0.5); err != nil {
			t.Fatalf("seek failed: %v", err)
		}

		if len(session.SeekCalls) != 1 || session.SeekCalls[0] != 5.0 {
			t.Errorf("expected seek to 5.0s, got %v", session.SeekCalls)
		}
		if math.Abs(c.Position()-5.0) > 1e-9 {
			t.Errorf("expected position 5.0, got %v", c.Position())
		}
		if p.count != 1 || math.Abs(p.last-5.0) > 1e-9 {
			t.Errorf("expected the frame at 5.0 to be published, got %d at %v", p.count, p.last)
		}
		if c.State() != prior {
			t.Errorf("expected state %s to be restored, got %s", prior, c.State())
		}
	}
}

func TestController_SeekClampsFraction(t *testing.T) {
	tests := []struct {
		fraction float64
		want     float64
	}{
		{-0.5, 0},
		{1.5, 10},
		{math.NaN(), 0},
		{0.25, 2.5},
	}

	for _, tt := range tests {
		session := mocks.NewDecodeSession(10, 10)
		c, _ := newController(session)
		c.Start()

		if err := c.Seek(context.Background(), tt.fraction); err != nil {
			t.Fatalf("seek %v failed: %v", tt.fraction, err)
		}
		if session.SeekCalls[0] != tt.want {
			t.Errorf("seek %v: expected target %v, got %v", tt.fraction, tt.want, session.SeekCalls[0])
		}
	}
}

func TestController_SeekZeroDurationIsNoop(t *testing.T) {
	session := mocks.NewDecodeSession(0, 10)
	c, p := newController(session)
	c.Start()
	c.Toggle()

	err := c.Seek(context.Background(), 0.5)
	if !errors.Is(err, ErrSeekUnavailable) {
		t.Fatalf("expected ErrSeekUnavailable, got %v", err)
	}
	var seekErr *SeekError
	if !errors.As(err, &seekErr) {
		t.Errorf("expected *SeekError, got %T", err)
	}
	if len(session.SeekCalls) != 0 || session.NextFrameCalls != 0 {
		t.Errorf("expected no decoder movement, got %d seeks and %d pulls", len(session.SeekCalls), session.NextFrameCalls)
	}
	if c.State() != Paused || p.count != 0 {
		t.Errorf("expected state unchanged, got %s with %d frames", c.State(), p.count)
	}
}

func TestController_TickDuringSeekIsSkipped(t *testing.T) {
	session := mocks.NewDecodeSession(10, 10)
	c, _ := newController(session)
	c.Start()

	var stateDuringSeek State
	session.NextFrameFunc = func(ctx context.Context) (ports.Frame, error) {
		stateDuringSeek = c.State()
		if err := c.Tick(ctx); err != nil {
			t.Errorf("unexpected tick error: %v", err)
		}
		return mocks.TestFrame(2, 2, 5), nil
	}

	if err := c.Seek(context.Background(), 0.5); err != nil {
		t.Fatalf("seek failed: %v", err)
	}

	if stateDuringSeek != Seeking {
		t.Errorf("expected Seeking during the seek, got %s", stateDuringSeek)
	}
	if c.SkippedTicks() != 1 {
		t.Errorf("expected 1 skipped tick, got %d", c.SkippedTicks())
	}
	if session.NextFrameCalls != 1 {
		t.Errorf("expected the tick not to pull, got %d pulls", session.NextFrameCalls)
	}
	if c.State() != Playing {
		t.Errorf("expected Playing after seek, got %s", c.State())
	}
}

func TestController_SeekDuringSeekRejected(t *testing.T) {
	session := mocks.NewDecodeSession(10, 10)
	c, _ := newController(session)
	c.Start()

	var nested error
	session.SeekFunc = func(ctx context.Context, seconds float64) error {
		nested = c.Seek(ctx, 0.9)
		return nil
	}

	if err := c.Seek(context.Background(), 0.5); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if !errors.Is(nested, ErrSeekInFlight) {
		t.Errorf("expected ErrSeekInFlight, got %v", nested)
	}
	if len(session.SeekCalls) != 1 {
		t.Errorf("expected one decoder seek, got %v", session.SeekCalls)
	}
}

func TestController_SeekExhaustionKeepsPreviousFrame(t *testing.T) {
	session := mocks.NewDecodeSession(10, 10)
	c, p := newController(session)
	c.Start()
	if err := c.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session.NextFrameFunc = func(ctx context.Context) (ports.Frame, error) {
		return ports.Frame{Width: 2, Height: 2}, nil
	}

	if err := c.Seek(context.Background(), 0.5); err != nil {
		t.Fatalf("expected best-effort seek to succeed, got %v", err)
	}
	if session.NextFrameCalls != 1+DefaultSeekAttempts {
		t.Errorf("expected %d pulls, got %d", 1+DefaultSeekAttempts, session.NextFrameCalls)
	}
	if p.count != 1 {
		t.Errorf("expected previous frame kept, got %d frames", p.count)
	}
	if c.Position() != 5 {
		t.Errorf("expected position at the seek target 5, got %v", c.Position())
	}
	if c.State() != Playing {
		t.Errorf("expected Playing restored, got %s", c.State())
	}
}

func TestController_SeekDecoderError(t *testing.T) {
	session := mocks.NewDecodeSession(10, 10)
	session.SeekFunc = func(ctx context.Context, seconds float64) error {
		return errors.New("restart failed")
	}
	c, _ := newController(session)
	c.Start()
	c.Toggle()

	err := c.Seek(context.Background(), 0.3)
	var seekErr *SeekError
	if !errors.As(err, &seekErr) {
		t.Fatalf("expected *SeekError, got %v", err)
	}
	if seekErr.Target != 3 {
		t.Errorf("expected target 3, got %v", seekErr.Target)
	}
	if c.State() != Paused {
		t.Errorf("expected Paused restored, got %s", c.State())
	}
}

func TestController_SeekBeforeStart(t *testing.T) {
	c, _ := newController(mocks.NewDecodeSession(10, 10))
	if err := c.Seek(context.Background(), 0.5); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
}

func TestController_CloseIdempotent(t *testing.T) {
	session := mocks.NewDecodeSession(1, 10)
	session.CloseFunc = func() error { return errors.New("already gone") }
	c, p := newController(session)
	c.Start()

	c.Close()
	c.Close()

	if session.CloseCalls != 1 {
		t.Errorf("expected session closed once, got %d", session.CloseCalls)
	}
	if err := c.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.NextFrameCalls != 0 || p.count != 0 {
		t.Error("expected ticks after close to be no-ops")
	}
	if c.Playing() {
		t.Error("expected closed controller not to report playing")
	}
	if err := c.Seek(context.Background(), 0.5); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Loading, "loading"},
		{Playing, "playing"},
		{Paused, "paused"},
		{Seeking, "seeking"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

// Package ffmpegsession implements decode sessions on top of an ffmpeg process.
//
// Each session runs one ffmpeg child that demuxes and decodes the file and
// writes packed RGB24 frames to a pipe. Seeking restarts the child with input
// seeking, which lands on the first frame at or after the requested time.
package ffmpegsession

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/user/reelsort/pkg/adapters/ffmpegbin"
	"github.com/user/reelsort/pkg/ports"
)

const (
	defaultFrameTimeout = 2 * time.Second
	defaultFrameRate    = 25.0
	stopTimeout         = 3 * time.Second
)

// ErrNoDimensions is returned when a file reports no frame size.
var ErrNoDimensions = errors.New("ffmpegsession: video dimensions unknown")

// Options configures decoding.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string

	// MaxWidth and MaxHeight bound the decoded frame size. Frames are scaled
	// down preserving aspect ratio; 0 keeps the native size.
	MaxWidth  int
	MaxHeight int

	// FrameTimeout bounds how long NextFrame waits for the decoder.
	FrameTimeout time.Duration
}

// startFunc launches a decoder and returns its stdout and a wait function
// that must be called after stdout is drained.
type startFunc func(ctx context.Context, name string, args ...string) (io.ReadCloser, func() error, error)

// Opener implements ports.SessionOpener.
type Opener struct {
	opts   Options
	prober ports.Prober
	logger ports.Logger
	start  startFunc
	locate func(custom string) (string, error)
}

// NewOpener creates an Opener that probes files with prober.
func NewOpener(prober ports.Prober, logger ports.Logger, opts Options) *Opener {
	if opts.FrameTimeout <= 0 {
		opts.FrameTimeout = defaultFrameTimeout
	}
	return &Opener{
		opts:   opts,
		prober: prober,
		logger: logger.WithComponent("decoder"),
		start:  startProcess,
		locate: ffmpegbin.FindFFmpeg,
	}
}

// Open probes path and starts decoding from the beginning.
func (o *Opener) Open(ctx context.Context, path string) (ports.DecodeSession, error) {
	ffmpegPath, err := o.locate(o.opts.FFmpegPath)
	if err != nil {
		return nil, &ports.OpenError{Path: path, Err: err}
	}

	info, err := o.prober.Probe(ctx, path)
	if err != nil {
		return nil, &ports.OpenError{Path: path, Err: err}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, &ports.OpenError{Path: path, Err: ErrNoDimensions}
	}

	width, height := fitSize(info.Width, info.Height, o.opts.MaxWidth, o.opts.MaxHeight)
	rate := info.FrameRate
	if rate <= 0 {
		rate = defaultFrameRate
	}

	s := &Session{
		path:         path,
		ffmpegPath:   ffmpegPath,
		duration:     info.Duration,
		frameRate:    rate,
		width:        width,
		height:       height,
		frameTimeout: o.opts.FrameTimeout,
		start:        o.start,
		logger:       o.logger,
	}

	if err := s.startAt(0); err != nil {
		return nil, &ports.OpenError{Path: path, Err: err}
	}

	o.logger.Debug("Opened %s: %dx%d, %.2fs, %s", path, width, height, info.Duration, info.Codec)
	return s, nil
}

// Session implements ports.DecodeSession.
type Session struct {
	path         string
	ffmpegPath   string
	duration     float64
	frameRate    float64
	width        int
	height       int
	frameTimeout time.Duration
	start        startFunc
	logger       ports.Logger

	mu     sync.Mutex
	proc   *decoderProcess
	closed bool
}

// NextFrame returns the next decoded frame.
func (s *Session) NextFrame(ctx context.Context) (ports.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.proc == nil {
		return ports.Frame{}, ports.ErrSessionClosed
	}

	timer := time.NewTimer(s.frameTimeout)
	defer timer.Stop()

	select {
	case r, ok := <-s.proc.results:
		if !ok {
			return ports.Frame{}, ports.ErrEndOfStream
		}
		return r.frame, r.err
	case <-timer.C:
		return ports.Frame{}, ports.ErrFrameTimeout
	case <-ctx.Done():
		return ports.Frame{}, ctx.Err()
	}
}

// Seek restarts decoding at the first frame at or after seconds.
func (s *Session) Seek(ctx context.Context, seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ports.ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if seconds < 0 {
		seconds = 0
	}
	if s.duration > 0 && seconds > s.duration {
		seconds = s.duration
	}

	// The running decoder is kept until its replacement has started.
	p, err := s.launch(seconds)
	if err != nil {
		return err
	}
	if err := s.stopLocked(); err != nil {
		s.logger.Warn("Decoder did not stop cleanly: %s", err)
	}
	s.proc = p
	return nil
}

// Duration returns the stream duration in seconds.
func (s *Session) Duration() float64 {
	return s.duration
}

// Size returns the decoded frame size.
func (s *Session) Size() (int, int) {
	return s.width, s.height
}

// Close stops the decoder and waits for it to exit.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.stopLocked()
}

func (s *Session) startAt(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.launch(seconds)
	if err != nil {
		return err
	}
	s.proc = p
	return nil
}

func (s *Session) launch(seconds float64) (*decoderProcess, error) {
	ctx, cancel := context.WithCancel(context.Background())

	stdout, wait, err := s.start(ctx, s.ffmpegPath, s.args(seconds)...)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start decoder: %w", err)
	}

	p := &decoderProcess{
		results: make(chan frameResult, 2),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
	go p.pump(ctx, stdout, wait, s.width, s.height, seconds, s.frameRate)
	return p, nil
}

func (s *Session) stopLocked() error {
	p := s.proc
	s.proc = nil
	if p == nil {
		return nil
	}

	p.cancel()
	select {
	case <-p.done:
		return nil
	case <-time.After(stopTimeout):
		return fmt.Errorf("decoder for %s did not exit within %s", s.path, stopTimeout)
	}
}

func (s *Session) args(seconds float64) []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", strconv.FormatFloat(seconds, 'f', 3, 64),
		"-i", s.path,
		"-map", "0:v:0",
		"-an", "-sn",
		"-vf", fmt.Sprintf("scale=%d:%d", s.width, s.height),
		"-pix_fmt", "rgb24",
		"-f", "rawvideo",
		"pipe:1",
	}
}

type frameResult struct {
	frame ports.Frame
	err   error
}

type decoderProcess struct {
	results chan frameResult
	done    chan struct{}
	cancel  context.CancelFunc
}

// pump reads fixed-size frames until the stream ends or ctx is cancelled.
func (p *decoderProcess) pump(ctx context.Context, stdout io.ReadCloser, wait func() error, width, height int, base, rate float64) {
	defer close(p.done)
	defer close(p.results)

	frameSize := width * height * 3
	count := 0

	send := func(r frameResult) bool {
		select {
		case p.results <- r:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		buf := make([]byte, frameSize)
		_, err := io.ReadFull(stdout, buf)
		if err != nil {
			stdout.Close()
			waitErr := wait()
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				if waitErr != nil && count == 0 {
					send(frameResult{err: fmt.Errorf("decode: %w", waitErr)})
				}
				return
			}
			send(frameResult{err: fmt.Errorf("read frame: %w", err)})
			return
		}

		frame := ports.Frame{
			Pix:    buf,
			Width:  width,
			Height: height,
			Time:   base + float64(count)/rate,
		}
		count++
		if !send(frameResult{frame: frame}) {
			stdout.Close()
			wait()
			return
		}
	}
}

// startProcess runs ffmpeg with stdout piped back to the caller.
func startProcess(ctx context.Context, name string, args ...string) (io.ReadCloser, func() error, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stderr := &limitedBuffer{max: 4096}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	wait := func() error {
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("%w\nstderr: %s", err, stderr.String())
		}
		return nil
	}
	return stdout, wait, nil
}

// limitedBuffer keeps the first max bytes written to it.
type limitedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fitSize scales w x h down to fit maxW x maxH, keeping even dimensions.
func fitSize(w, h, maxW, maxH int) (int, int) {
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && float64(h)*scale > float64(maxH) {
		scale = float64(maxH) / float64(h)
	}

	outW := int(float64(w)*scale) &^ 1
	outH := int(float64(h)*scale) &^ 1
	if outW < 2 {
		outW = 2
	}
	if outH < 2 {
		outH = 2
	}
	return outW, outH
}

// Ensure types implement ports interfaces
var (
	_ ports.SessionOpener = (*Opener)(nil)
	_ ports.DecodeSession = (*Session)(nil)
)

// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEndOfStream is returned by NextFrame when the stream has no more frames.
	ErrEndOfStream = errors.New("decode: end of stream")

	// ErrFrameTimeout is returned by NextFrame when no frame arrived within the bounded wait.
	ErrFrameTimeout = errors.New("decode: frame timeout")

	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("decode: session closed")
)

// Frame is a decoded video frame.
// Pix holds packed RGB24 pixels, row-major, Width*3 bytes per row.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
	Time   float64 // Presentation time in seconds
}

// Valid reports whether the frame carries a complete pixel buffer.
func (f Frame) Valid() bool {
	return f.Width > 0 && f.Height > 0 && len(f.Pix) >= f.Width*f.Height*3
}

// Stride returns the number of bytes per row.
func (f Frame) Stride() int {
	return f.Width * 3
}

// DecodeSession wraps one open video file.
// Frames are produced lazily in decode order; the sequence cannot be restarted
// except through Seek.
type DecodeSession interface {
	// NextFrame returns the next decodable frame.
	// It returns ErrEndOfStream at the end of the stream and ErrFrameTimeout
	// when the decoder stalls past the configured bound.
	NextFrame(ctx context.Context) (Frame, error)

	// Seek repositions the decode cursor to the first decodable frame at or after
	// seconds. Frames buffered before the call are discarded.
	Seek(ctx context.Context, seconds float64) error

	// Duration returns the stream duration in seconds, or 0 when unknown.
	Duration() float64

	// Close releases the decoder and its file handle. It is safe to call more than once.
	Close() error
}

// SessionOpener opens decode sessions.
type SessionOpener interface {
	// Open opens path for decoding. Failures are reported as *OpenError.
	Open(ctx context.Context, path string) (DecodeSession, error)
}

// OpenError reports a file that could not be probed or decoded.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// IsOpenError reports whether err is an *OpenError.
func IsOpenError(err error) bool {
	var e *OpenError
	return errors.As(err, &e)
}

// MediaInfo describes a video file without decoding it.
type MediaInfo struct {
	Container string
	Codec     string
	Duration  float64 // Seconds, 0 when unknown
	Width     int
	Height    int
	FrameRate float64 // Frames per second, 0 when unknown
}

// Prober reads container metadata.
type Prober interface {
	// Probe returns metadata for the file at path.
	Probe(ctx context.Context, path string) (MediaInfo, error)
}

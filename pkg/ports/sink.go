package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveFrame saves a presented frame for the named video file.
	SaveFrame(file string, img image.Image) error

	// SaveSessionJSON saves the decisions made during this run.
	SaveSessionJSON(data []byte) error
}

package ports

import "image"

// Status is the review state shown alongside the video.
type Status struct {
	File     string
	Index    int // Zero-based position in the queue
	Total    int
	Decision Decision
	Playing  bool
	Position float64 // Seconds
	Duration float64 // Seconds, 0 when unknown
}

// Notice is a message for the operator.
type Notice struct {
	Text  string
	Error bool
}

// Surface presents frames to the operator and reports their intents.
// Implementations must be safe to call from the review loop goroutine while
// their own event source runs concurrently.
type Surface interface {
	// Events returns the channel of operator intents.
	// The channel is closed when the surface goes away.
	Events() <-chan Event

	// Present shows a presentation buffer.
	Present(img image.Image)

	// SetStatus updates the status line.
	SetStatus(status Status)

	// Notify shows a message to the operator.
	Notify(notice Notice)

	// Finish reports that the review is over.
	Finish(message string)
}

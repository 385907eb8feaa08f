package review

import (
	"errors"
	"fmt"

	"github.com/user/reelsort/pkg/ports"
)

var (
	// ErrMalformedMapping is returned when the decision file cannot be parsed.
	ErrMalformedMapping = errors.New("review: malformed decision file")

	// ErrQueueDone is returned when acting on an exhausted queue.
	ErrQueueDone = errors.New("review: no video loaded")
)

// CommitError reports a file action that failed. The decision was not recorded.
type CommitError struct {
	File     string
	Decision ports.Decision
	Err      error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %s as %s: %v", e.File, e.Decision, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// PersistenceError reports a decision that could not be saved.
// TrashedPath names where the file was moved, when it was.
type PersistenceError struct {
	File        string
	Decision    ports.Decision
	TrashedPath string
	Err         error
}

func (e *PersistenceError) Error() string {
	if e.TrashedPath != "" {
		return fmt.Sprintf("save decision for %s (file already moved to %s): %v", e.File, e.TrashedPath, e.Err)
	}
	return fmt.Sprintf("save decision for %s: %v", e.File, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

package ports

import "fmt"

// Decision is the operator's verdict for a video file.
type Decision string

const (
	DecisionKeep  Decision = "keep"
	DecisionTrash Decision = "trash"
)

// Valid reports whether d is a known decision.
func (d Decision) Valid() bool {
	return d == DecisionKeep || d == DecisionTrash
}

// ParseDecision parses the persisted form of a decision.
func ParseDecision(s string) (Decision, error) {
	d := Decision(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown decision %q", s)
	}
	return d, nil
}

// EventKind identifies an operator intent.
type EventKind int

const (
	EventTogglePlayPause EventKind = iota
	EventRequestSeek
	EventSetDecision
	EventCommit
	EventSkip
	EventQuit
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventTogglePlayPause:
		return "toggle"
	case EventRequestSeek:
		return "seek"
	case EventSetDecision:
		return "decide"
	case EventCommit:
		return "commit"
	case EventSkip:
		return "skip"
	case EventQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Event is a discrete operator intent emitted by a Surface.
type Event struct {
	Kind     EventKind
	Fraction float64  // For EventRequestSeek, 0..1
	Decision Decision // For EventSetDecision
}

// Toggle returns a play/pause event.
func Toggle() Event { return Event{Kind: EventTogglePlayPause} }

// SeekTo returns a seek event for a fraction of the duration.
func SeekTo(fraction float64) Event { return Event{Kind: EventRequestSeek, Fraction: fraction} }

// Decide returns a decision event.
func Decide(d Decision) Event { return Event{Kind: EventSetDecision, Decision: d} }

// Commit returns a commit event.
func Commit() Event { return Event{Kind: EventCommit} }

// Skip returns a skip event.
func Skip() Event { return Event{Kind: EventSkip} }

// Quit returns a quit event.
func Quit() Event { return Event{Kind: EventQuit} }

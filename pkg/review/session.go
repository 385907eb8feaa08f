// Package review runs the review of a directory of videos: one file at a
// time, a pending decision, and a transactional commit that moves the file,
// records the decision and advances.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"path/filepath"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/reelsort/pkg/playback"
	"github.com/user/reelsort/pkg/ports"
	"github.com/user/reelsort/pkg/present"
)

// Config contains the settings of a review session.
type Config struct {
	// Dir is the directory under review.
	Dir string

	// TrashDir receives trashed files. It must exist.
	TrashDir string

	// Queue lists the filenames to review, in order.
	Queue []string

	// SeekAttempts bounds the frames pulled after a seek.
	SeekAttempts int

	// Theme colours the debug frame overlay.
	Theme present.Theme
}

// Outcome is what happened to a file during this run.
type Outcome string

const (
	OutcomeKept       Outcome = "keep"
	OutcomeTrashed    Outcome = "trash"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeFailedOpen Outcome = "failed"
)

// Result records the outcome for one file.
type Result struct {
	File        string    `json:"file"`
	Outcome     Outcome   `json:"outcome"`
	TrashedPath string    `json:"trashedPath,omitempty"`
	Error       string    `json:"error,omitempty"`
	At          time.Time `json:"at"`
}

// Stats counts outcomes.
type Stats struct {
	Kept       int
	Trashed    int
	Skipped    int
	FailedOpen int
}

// Session owns the queue position and the one live decode session.
type Session struct {
	cfg      Config
	opener   ports.SessionOpener
	convert  playback.Converter
	surface  ports.Surface
	store    *Store
	fs       ports.FileSystem
	journal  ports.Journal
	sink     ports.DebugSink
	renderer ports.Renderer
	logger   ports.Logger

	index      int
	pending    ports.Decision
	controller *playback.Controller
	captured   bool
	results    []Result
	now        func() time.Time

	// stranded is where the current file was left in trash when a failed
	// save could not be rolled back.
	stranded string
}

// NewSession creates a Session positioned before the first file.
// journal may be nil.
func NewSession(
	cfg Config,
	opener ports.SessionOpener,
	convert playback.Converter,
	surface ports.Surface,
	store *Store,
	fs ports.FileSystem,
	journal ports.Journal,
	sink ports.DebugSink,
	renderer ports.Renderer,
	logger ports.Logger,
) *Session {
	return &Session{
		cfg:      cfg,
		opener:   opener,
		convert:  convert,
		surface:  surface,
		store:    store,
		fs:       fs,
		journal:  journal,
		sink:     sink,
		renderer: renderer,
		logger:   logger.WithComponent("review"),
		pending:  ports.DecisionKeep,
		now:      time.Now,
	}
}

// Done reports whether the queue is exhausted.
func (s *Session) Done() bool {
	return s.index >= len(s.cfg.Queue)
}

// Index returns the zero-based queue position.
func (s *Session) Index() int { return s.index }

// Total returns the queue length.
func (s *Session) Total() int { return len(s.cfg.Queue) }

// Current returns the filename under review, or "" when done.
func (s *Session) Current() string {
	if s.Done() {
		return ""
	}
	return s.cfg.Queue[s.index]
}

// Pending returns the decision that Commit would record.
func (s *Session) Pending() ports.Decision { return s.pending }

// Controller returns the live playback controller, or nil.
func (s *Session) Controller() *playback.Controller { return s.controller }

// Results returns the outcomes recorded so far.
func (s *Session) Results() []Result { return s.results }

// Stats counts the outcomes recorded so far.
func (s *Session) Stats() Stats {
	var st Stats
	for _, r := range s.results {
		switch r.Outcome {
		case OutcomeKept:
			st.Kept++
		case OutcomeTrashed:
			st.Trashed++
		case OutcomeSkipped:
			st.Skipped++
		case OutcomeFailedOpen:
			st.FailedOpen++
		}
	}
	return st
}

// LoadCurrent opens the file at the current index and starts playback.
// Files that cannot be opened are skipped and stay unrecorded.
func (s *Session) LoadCurrent(ctx context.Context) error {
	s.pending = ports.DecisionKeep
	for !s.Done() {
		err := s.open(ctx)
		if err == nil {
			return nil
		}
		if !ports.IsOpenError(err) {
			return err
		}

		name := s.Current()
		s.logger.Warn("Skipping %s: %s", name, err)
		s.surface.Notify(ports.Notice{Text: l10n.F("Cannot open %s, skipped", name), Error: true})
		s.results = append(s.results, Result{File: name, Outcome: OutcomeFailedOpen, Error: err.Error(), At: s.now()})
		s.index++
	}
	s.logger.Debug("Queue exhausted")
	return nil
}

func (s *Session) open(ctx context.Context) error {
	name := s.Current()
	path := filepath.Join(s.cfg.Dir, name)

	session, err := s.opener.Open(ctx, path)
	if err != nil {
		return err
	}

	s.captured = false
	s.controller = playback.New(session, s.convert, s.show, s.logger, playback.Options{
		SeekAttempts: s.cfg.SeekAttempts,
	})
	s.controller.Start()
	s.logger.Info("Reviewing %s (%d of %d)", name, s.index+1, len(s.cfg.Queue))
	return nil
}

func (s *Session) show(img image.Image, position float64) {
	s.surface.Present(img)

	if s.captured || s.sink == nil || !s.sink.Enabled() {
		return
	}
	s.captured = true
	overlay := present.Overlay{
		Label:    s.progressLabel(),
		Decision: s.pending,
		Position: position,
		Duration: s.controller.Duration(),
	}
	if err := s.sink.SaveFrame(s.Current(), present.Annotate(s.renderer, s.cfg.Theme, img, overlay)); err != nil {
		s.logger.Debug("Saving debug frame: %s", err)
	}
}

func (s *Session) progressLabel() string {
	return l10n.F("Video %d of %d", s.index+1, len(s.cfg.Queue))
}

// Tick advances playback by one frame.
func (s *Session) Tick(ctx context.Context) error {
	if s.controller == nil {
		return nil
	}
	return s.controller.Tick(ctx)
}

// TogglePlayPause switches between playing and paused.
func (s *Session) TogglePlayPause() {
	if s.controller != nil {
		s.controller.Toggle()
	}
}

// Seek moves playback to fraction of the duration.
func (s *Session) Seek(ctx context.Context, fraction float64) error {
	if s.controller == nil {
		return ErrQueueDone
	}
	return s.controller.Seek(ctx, fraction)
}

// SetPendingDecision sets the decision Commit will record.
func (s *Session) SetPendingDecision(d ports.Decision) {
	if d.Valid() {
		s.pending = d
	}
}

// Skip moves on without recording anything.
func (s *Session) Skip(ctx context.Context) error {
	if s.Done() {
		return ErrQueueDone
	}
	name := s.Current()
	s.teardown()
	if s.stranded != "" {
		if err := s.restore(); err != nil {
			s.logger.Error("Failed to restore %s from trash: %s", name, err)
			return &CommitError{File: name, Decision: ports.DecisionKeep, Err: err}
		}
	}
	s.results = append(s.results, Result{File: name, Outcome: OutcomeSkipped, At: s.now()})
	s.logger.Info("Skipped %s", name)
	s.index++
	return s.LoadCurrent(ctx)
}

// CommitAndAdvance applies the pending decision to the current file, records
// it and loads the next file. The decision is recorded only after the file
// action succeeded, and a trash move is undone when the decision cannot be
// saved. On *CommitError and *PersistenceError the index does not move.
func (s *Session) CommitAndAdvance(ctx context.Context) error {
	if s.Done() {
		return ErrQueueDone
	}
	name := s.Current()
	decision := s.pending
	s.teardown()

	src := filepath.Join(s.cfg.Dir, name)
	dst := filepath.Join(s.cfg.TrashDir, name)

	var trashed string
	switch {
	case s.stranded != "" && decision == ports.DecisionTrash:
		trashed = s.stranded
	case s.stranded != "":
		if err := s.restore(); err != nil {
			s.logger.Error("Failed to restore %s from trash: %s", name, err)
			return &CommitError{File: name, Decision: decision, Err: err}
		}
	case decision == ports.DecisionTrash:
		if err := s.fs.Rename(src, dst); err != nil {
			commitErr := &CommitError{File: name, Decision: decision, Err: err}
			s.logger.Error("Failed to move %s to trash: %s", name, err)
			if rerr := s.reopen(ctx, decision); rerr != nil {
				s.logger.Warn("Reopening %s: %s", name, rerr)
			}
			return commitErr
		}
		trashed = dst
	}

	if err := s.store.Record(name, decision); err != nil {
		s.logger.Error("Failed to save decision for %s: %s", name, err)
		if trashed != "" {
			if rerr := s.fs.Rename(trashed, src); rerr != nil {
				s.logger.Error("Failed to move %s back from trash: %s", name, rerr)
				s.stranded = trashed
				return &PersistenceError{File: name, Decision: decision, TrashedPath: trashed, Err: err}
			}
			s.stranded = ""
		}
		if rerr := s.reopen(ctx, decision); rerr != nil {
			s.logger.Warn("Reopening %s: %s", name, rerr)
		}
		return &PersistenceError{File: name, Decision: decision, Err: err}
	}

	s.stranded = ""
	s.record(ctx, name, decision, trashed)
	s.index++
	return s.LoadCurrent(ctx)
}

// restore moves a stranded file back to the reviewed directory.
func (s *Session) restore() error {
	src := filepath.Join(s.cfg.Dir, s.Current())
	if err := s.fs.Rename(s.stranded, src); err != nil {
		return err
	}
	s.stranded = ""
	return nil
}

func (s *Session) reopen(ctx context.Context, pending ports.Decision) error {
	if err := s.open(ctx); err != nil {
		return err
	}
	s.pending = pending
	return nil
}

func (s *Session) record(ctx context.Context, name string, decision ports.Decision, trashed string) {
	at := s.now()
	outcome := OutcomeKept
	if decision == ports.DecisionTrash {
		outcome = OutcomeTrashed
		s.logger.Info("Moved %s to %s", name, trashed)
	} else {
		s.logger.Info("Kept %s", name)
	}
	s.results = append(s.results, Result{File: name, Outcome: outcome, TrashedPath: trashed, At: at})

	if s.journal == nil {
		return
	}
	entry := ports.JournalEntry{File: name, Decision: decision, TrashedPath: trashed, At: at}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Warn("Journal write failed for %s: %s", name, err)
	}
}

func (s *Session) teardown() {
	if s.controller == nil {
		return
	}
	s.controller.Close()
	s.controller = nil
}

// Status returns the state shown to the operator.
func (s *Session) Status() ports.Status {
	st := ports.Status{
		File:     s.Current(),
		Index:    s.index,
		Total:    len(s.cfg.Queue),
		Decision: s.pending,
	}
	if s.controller != nil {
		st.Playing = s.controller.Playing()
		st.Position = s.controller.Position()
		st.Duration = s.controller.Duration()
	}
	return st
}

// Close tears down the live controller and writes the debug snapshot.
func (s *Session) Close() {
	s.teardown()

	if s.sink == nil || !s.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		s.logger.Debug("Encoding session snapshot: %s", err)
		return
	}
	if err := s.sink.SaveSessionJSON(data); err != nil {
		s.logger.Debug("Saving session snapshot: %s", err)
	}
}

type snapshot struct {
	Dir       string   `json:"dir"`
	Queue     []string `json:"queue"`
	Index     int      `json:"index"`
	Results   []Result `json:"results"`
	Decisions int      `json:"decisionsRecorded"`
}

func (s *Session) snapshot() snapshot {
	return snapshot{
		Dir:       s.cfg.Dir,
		Queue:     s.cfg.Queue,
		Index:     s.index,
		Results:   s.results,
		Decisions: s.store.Len(),
	}
}

// IsCommitFailure reports whether err came from a failed commit.
func IsCommitFailure(err error) bool {
	var ce *CommitError
	var pe *PersistenceError
	return errors.As(err, &ce) || errors.As(err, &pe)
}

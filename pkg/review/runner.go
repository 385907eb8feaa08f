package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/reelsort/pkg/playback"
	"github.com/user/reelsort/pkg/ports"
)

// DefaultTickInterval is the playback cadence.
const DefaultTickInterval = 33 * time.Millisecond

// Finish messages passed to the surface.
const (
	FinishedAll  = "All videos reviewed"
	FinishedQuit = "Review stopped"
)

// Runner is the single event loop of a review. Operator events and playback
// ticks are handled one at a time on the goroutine calling Run.
type Runner struct {
	session  *Session
	surface  ports.Surface
	logger   ports.Logger
	interval time.Duration

	ticker *time.Ticker
}

// NewRunner creates a Runner ticking every interval.
func NewRunner(session *Session, surface ports.Surface, logger ports.Logger, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Runner{
		session:  session,
		surface:  surface,
		logger:   logger.WithComponent("review"),
		interval: interval,
	}
}

var errQuit = errors.New("review: quit")

// Run loads the first file and processes events until the queue is exhausted,
// the operator quits, the surface goes away or ctx is cancelled.
// The current file is never committed on exit.
func (r *Runner) Run(ctx context.Context) error {
	defer r.session.Close()

	if err := r.session.LoadCurrent(ctx); err != nil {
		return fmt.Errorf("load first video: %w", err)
	}
	r.resetTicker()
	defer r.stopTicker()
	r.pushStatus()

	events := r.surface.Events()
	for {
		if r.session.Done() {
			r.logger.Info("All videos reviewed")
			r.surface.Finish(FinishedAll)
			return nil
		}

		select {
		case <-ctx.Done():
			r.surface.Finish(FinishedQuit)
			return ctx.Err()

		case <-r.ticker.C:
			if err := r.session.Tick(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				r.logger.Warn("Playback error: %s", err)
				r.surface.Notify(ports.Notice{Text: err.Error(), Error: true})
			}
			r.pushStatus()

		case ev, ok := <-events:
			if !ok {
				ev = ports.Quit()
			}
			if err := r.handle(ctx, ev); err != nil {
				if errors.Is(err, errQuit) {
					r.logger.Info("Review stopped at %d of %d", r.session.Index()+1, r.session.Total())
					r.surface.Finish(FinishedQuit)
					return nil
				}
				return err
			}
			r.pushStatus()
		}
	}
}

// handle applies one event. Only fatal errors are returned.
func (r *Runner) handle(ctx context.Context, ev ports.Event) error {
	r.logger.Debug("Event %s", ev.Kind)

	switch ev.Kind {
	case ports.EventTogglePlayPause:
		r.session.TogglePlayPause()

	case ports.EventRequestSeek:
		if err := r.session.Seek(ctx, ev.Fraction); err != nil {
			r.logger.Warn("Seek failed: %s", err)
			if errors.Is(err, playback.ErrSeekUnavailable) {
				r.surface.Notify(ports.Notice{Text: l10n.T("Seeking unavailable: duration unknown")})
			}
		}

	case ports.EventSetDecision:
		r.session.SetPendingDecision(ev.Decision)

	case ports.EventCommit:
		err := r.session.CommitAndAdvance(ctx)
		r.resetTicker()
		if err != nil {
			if !IsCommitFailure(err) && !errors.Is(err, ErrQueueDone) {
				return err
			}
			r.surface.Notify(ports.Notice{Text: err.Error(), Error: true})
		}

	case ports.EventSkip:
		err := r.session.Skip(ctx)
		r.resetTicker()
		if err != nil {
			if !IsCommitFailure(err) && !errors.Is(err, ErrQueueDone) {
				return err
			}
			if IsCommitFailure(err) {
				r.surface.Notify(ports.Notice{Text: err.Error(), Error: true})
			}
		}

	case ports.EventQuit:
		return errQuit
	}
	return nil
}

// resetTicker replaces the ticker so ticks queued for a torn down controller
// are dropped.
func (r *Runner) resetTicker() {
	r.stopTicker()
	r.ticker = time.NewTicker(r.interval)
}

func (r *Runner) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
}

func (r *Runner) pushStatus() {
	r.surface.SetStatus(r.session.Status())
}

// internal/refresh/scheduler.go
package refresh

import "time"

// Trigger says why a refresh fired.
type Trigger int

const (
	// TriggerChange means new content is pending.
	TriggerChange Trigger = iota + 1
	// TriggerStale means the maximum staleness interval elapsed. This path
	// fires even with zero bus traffic so the panel never ghosts on old
	// content silently.
	TriggerStale
)

func (t Trigger) String() string {
	switch t {
	case TriggerChange:
		return "change"
	case TriggerStale:
		return "stale"
	default:
		return "unknown"
	}
}

// State of the scheduler. A render is blocking and non-reentrant, so there
// are exactly two states.
type State int

const (
	Idle State = iota
	Refreshing
)

// Config holds the scheduler intervals.
type Config struct {
	// MaxStale forces a refresh when this much time passed since the last
	// one, change or not.
	MaxStale time.Duration
	// MinInterval rate-limits change-triggered refreshes. Zero disables
	// the limit.
	MinInterval time.Duration
}

// Scheduler decides once per control-loop tick whether the physical redraw
// should run now. It never invokes the render itself; the caller does,
// bracketed by Tick and Done/Fail.
type Scheduler struct {
	cfg Config

	state       State
	pending     bool
	hasRecord   bool
	lastRefresh time.Time
}

// New creates an idle scheduler.
func New(cfg Config) *Scheduler {
	return &Scheduler{cfg: cfg}
}

// NoteDecoded marks that at least one record was successfully decoded.
// Without it the scheduler never leaves Idle: there is nothing to render.
func (s *Scheduler) NoteDecoded() { s.hasRecord = true }

// MarkPending flags that new content is waiting for a redraw.
func (s *Scheduler) MarkPending() { s.pending = true }

// Pending reports the pending-change flag.
func (s *Scheduler) Pending() bool { return s.pending }

// State returns the current state.
func (s *Scheduler) State() State { return s.state }

// LastRefresh returns when the last refresh completed.
func (s *Scheduler) LastRefresh() time.Time { return s.lastRefresh }

// Tick evaluates the transition Idle -> Refreshing. When it returns true
// the caller MUST run the render and then call exactly one of Done or
// Fail. While Refreshing, Tick always returns false.
func (s *Scheduler) Tick(now time.Time) (Trigger, bool) {
	if s.state != Idle || !s.hasRecord {
		return 0, false
	}

	sinceLast := now.Sub(s.lastRefresh)

	if s.pending && (s.cfg.MinInterval <= 0 || s.lastRefresh.IsZero() || sinceLast >= s.cfg.MinInterval) {
		s.state = Refreshing
		return TriggerChange, true
	}

	if s.cfg.MaxStale > 0 && !s.lastRefresh.IsZero() && sinceLast > s.cfg.MaxStale {
		s.state = Refreshing
		return TriggerStale, true
	}

	return 0, false
}

// Done records a completed render: back to Idle, pending cleared, the
// staleness clock restarted.
func (s *Scheduler) Done(now time.Time) {
	s.state = Idle
	s.pending = false
	s.lastRefresh = now
}

// Fail records a render that errored. Pending is kept so the content is
// retried, but the refresh clock still moves so a broken panel does not
// spin the loop hot.
func (s *Scheduler) Fail(now time.Time) {
	s.state = Idle
	s.lastRefresh = now
}

// internal/controller/controller.go

// Package controller owns the control loop: it consumes completed frames
// from the bus assembler, decodes them, gates renders on content change
// and staleness, and drives the renderer.
package controller

import (
	"context"
	"log"
	"time"

	"github.com/dnnspaul/paulander/internal/bus"
	"github.com/dnnspaul/paulander/internal/change"
	"github.com/dnnspaul/paulander/internal/frame"
	"github.com/dnnspaul/paulander/internal/history"
	"github.com/dnnspaul/paulander/internal/refresh"
	"github.com/dnnspaul/paulander/internal/render"
	"github.com/dnnspaul/paulander/internal/status"
)

// Config holds the control-loop parameters.
type Config struct {
	// Tick is the evaluation interval of the loop. Zero selects one second.
	Tick time.Duration
	// Clock is overridable for tests; nil means time.Now.
	Clock func() time.Time
}

// Controller wires assembler, detector, scheduler and renderer together.
// All fields are owned by the Run goroutine after start.
type Controller struct {
	asm      *bus.Assembler
	detector *change.Detector
	sched    *refresh.Scheduler
	renderer render.Renderer
	journal  *history.Store // optional

	tick  time.Duration
	clock func() time.Time

	decodeFailures uint64
	renders        uint64
}

// New creates a controller. journal may be nil to disable the refresh
// journal.
func New(asm *bus.Assembler, sched *refresh.Scheduler, renderer render.Renderer, journal *history.Store, cfg Config) *Controller {
	tick := cfg.Tick
	if tick <= 0 {
		tick = time.Second
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Controller{
		asm:      asm,
		detector: change.New(),
		sched:    sched,
		renderer: renderer,
		journal:  journal,
		tick:     tick,
		clock:    clock,
	}
}

// Snapshot returns the current observability counters.
func (c *Controller) Snapshot() status.Snapshot {
	drops, timeouts := c.asm.Stats()
	return status.Snapshot{
		HasData:        c.detector.Previous() != nil,
		DecodeFailures: c.decodeFailures,
		SkippedRenders: c.detector.Skips(),
		DroppedBytes:   drops,
		Timeouts:       timeouts,
		Renders:        c.renders,
	}
}

// Run drives the loop until ctx is cancelled. A render blocks the loop;
// the transport keeps accumulating the next message meanwhile, so nothing
// is lost during the multi-second panel commit.
func (c *Controller) Run(ctx context.Context) error {

	// Placeholder on start: the panel shows "waiting for data" rather
	// than whatever it held before power-up.
	if err := c.renderer.Render(nil); err != nil {
		log.Printf("placeholder render failed: %v", err)
	}

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw := <-c.asm.Frames():
			c.onFrame(raw)

		case <-ticker.C:
			now := c.clock()

			if c.asm.CheckTimeout(now) {
				log.Printf("incomplete message abandoned after timeout")
			}

			c.onTick(now)
		}
	}
}

// onFrame decodes one completed frame and runs change detection. Decode
// failures are counted and logged; the previous record stays on display.
func (c *Controller) onFrame(raw []byte) {
	rec, err := frame.Decode(raw)
	if err != nil {
		c.decodeFailures++
		log.Printf("decode failed (len=%d kind=%s): %v", len(raw), frame.KindOf(err), err)
		return
	}

	c.asm.MarkDecoded()
	c.sched.NoteDecoded()

	if !c.detector.Observe(&rec) {
		log.Printf("content unchanged (fingerprint=%016x), render skipped", rec.Fingerprint)
		return
	}

	log.Printf("content changed (fingerprint=%016x events=%d), render pending", rec.Fingerprint, rec.EventCount)
	c.sched.MarkPending()
}

// onTick asks the scheduler whether to redraw now and, if so, runs the
// render to completion inline.
func (c *Controller) onTick(now time.Time) {
	trigger, fire := c.sched.Tick(now)
	if !fire {
		return
	}

	rec := c.detector.Previous()
	log.Printf("refresh start (trigger=%s fingerprint=%016x)", trigger, rec.Fingerprint)

	err := c.renderer.Render(rec)
	end := c.clock()

	if err != nil {
		c.sched.Fail(end)
		log.Printf("refresh failed after %s: %v", end.Sub(now).Round(time.Millisecond), err)
	} else {
		c.sched.Done(end)
		c.renders++
		log.Printf("refresh done in %s", end.Sub(now).Round(time.Millisecond))
	}

	if c.journal == nil {
		return
	}
	entry := history.Entry{At: end, Trigger: trigger.String(), Fingerprint: rec.Fingerprint, OK: err == nil}
	jctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if jerr := c.journal.Record(jctx, entry); jerr != nil {
		log.Printf("journal write failed: %v", jerr)
	}
}

// internal/bus/assembler.go
package bus

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dnnspaul/paulander/internal/frame"
	"github.com/dnnspaul/paulander/internal/status"
)

// AssemblerConfig holds the reassembly parameters.
type AssemblerConfig struct {
	// Capacity of the frame buffer in bytes. Zero selects the default.
	Capacity int
	// Timeout after which an in-progress message is abandoned.
	Timeout time.Duration
	// Clock is overridable for tests; nil means time.Now.
	Clock func() time.Time
}

// Assembler reassembles chunked bus writes into complete frames.
//
// It is the single shared-state handle between the transport callback and
// the control loop: all reassembly state sits behind one mutex, the
// has-data flag is atomic. Completed frames are copied out of the live
// buffer before handoff, so reception keeps accumulating the next message
// while the control loop spends seconds inside a render.
type Assembler struct {
	mu        sync.Mutex
	buf       *frame.Buffer
	receiving bool

	timeout time.Duration
	clock   func() time.Time

	frames chan []byte

	hasData  atomic.Bool
	timeouts uint64
	drops    uint64
}

// NewAssembler creates an assembler. The frames channel holds at most one
// completed frame; a newer frame supersedes an unconsumed older one.
func NewAssembler(cfg AssemblerConfig) *Assembler {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Assembler{
		buf:     frame.NewBuffer(cfg.Capacity),
		timeout: timeout,
		clock:   clock,
		frames:  make(chan []byte, 1),
	}
}

var _ Handler = (*Assembler)(nil)

// OnChunk implements Handler. Invoked from the transport goroutine for
// every bus write.
func (a *Assembler) OnChunk(chunk []byte) {
	if len(chunk) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock()

	if !a.receiving {
		// first chunk of a new message
		a.buf.Reset()
		a.receiving = true
	}

	stored := a.buf.Append(chunk, now)
	if stored < len(chunk) {
		a.drops += uint64(len(chunk) - stored)
	}

	if frame.Complete(a.buf.Bytes()) {
		a.handoffLocked()
	}
}

// OnStatusRequest implements Handler: one atomic flag read, no contention
// with reassembly state.
func (a *Assembler) OnStatusRequest() byte {
	return status.Encode(status.Snapshot{HasData: a.hasData.Load()})
}

// Frames returns the channel of completed frames. Each frame is a private
// copy, safe to hold across a render.
func (a *Assembler) Frames() <-chan []byte { return a.frames }

// MarkDecoded records that a frame was successfully decoded; from now on
// status polls answer "has data".
func (a *Assembler) MarkDecoded() { a.hasData.Store(true) }

// CheckTimeout abandons a stalled message. Called once per control-loop
// tick. Before discarding it re-checks completeness once, guarding against
// a detector miss right at the timeout boundary.
func (a *Assembler) CheckTimeout(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.receiving || a.buf.Len() == 0 {
		return false
	}
	if now.Sub(a.buf.LastWrite()) <= a.timeout {
		return false
	}

	if frame.Complete(a.buf.Bytes()) {
		a.handoffLocked()
		return false
	}

	a.buf.Reset()
	a.receiving = false
	a.timeouts++
	return true
}

// Stats returns the cumulative observability counters.
func (a *Assembler) Stats() (drops, timeouts uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.drops, a.timeouts
}

// handoffLocked copies the completed frame out and resets for the next
// message. If the control loop has not consumed the previous frame yet,
// the newer one wins. Caller holds a.mu.
func (a *Assembler) handoffLocked() {
	cp := make([]byte, a.buf.Len())
	copy(cp, a.buf.Bytes())

	a.buf.Reset()
	a.receiving = false

	select {
	case a.frames <- cp:
	default:
		select {
		case <-a.frames:
		default:
		}
		select {
		case a.frames <- cp:
		default:
		}
	}
}

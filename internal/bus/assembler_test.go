// internal/bus/assembler_test.go
package bus

import (
	"testing"
	"time"

	"github.com/dnnspaul/paulander/internal/frame"
)

const testPayload = `{"weather": {"current_temperature": 21.5, "current_description": "Bewölkt",
	"today_min": 14, "today_max": 23, "location": "Berlin", "timestamp": 1700000000},
	"events": [], "event_count": 0, "timestamp": 1700000100}`

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestAssembler(clock *fakeClock) *Assembler {
	return NewAssembler(AssemblerConfig{
		Timeout: 15 * time.Second,
		Clock:   clock.Now,
	})
}

// feed pushes payload through OnChunk in sentinel-prefixed chunks.
func feed(a *Assembler, clock *fakeClock, payload string, chunkSize int) {
	raw := []byte(payload)
	for off := 0; off < len(raw); off += chunkSize {
		end := off + chunkSize
		if end > len(raw) {
			end = len(raw)
		}
		chunk := append([]byte{frame.Sentinel}, raw[off:end]...)
		a.OnChunk(chunk)
		clock.now = clock.now.Add(10 * time.Millisecond)
	}
}

func takeFrame(t *testing.T, a *Assembler) []byte {
	t.Helper()
	select {
	case f := <-a.Frames():
		return f
	default:
		t.Fatalf("no completed frame")
		return nil
	}
}

func TestAssembler_ReassemblesChunkedMessage(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	a := newTestAssembler(clock)

	feed(a, clock, testPayload, MaxChunk)

	raw := takeFrame(t, a)
	if !frame.Complete(raw) {
		t.Fatalf("handed-off frame not complete")
	}
	if _, err := frame.Decode(raw); err != nil {
		t.Fatalf("handed-off frame does not decode: %v", err)
	}
}

func TestAssembler_FrameIsACopy(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	a := newTestAssembler(clock)

	feed(a, clock, testPayload, MaxChunk)
	raw := takeFrame(t, a)
	want := string(raw)

	// Bytes of the next message must not leak into the old frame.
	feed(a, clock, testPayload, 1)

	if string(raw) != want {
		t.Fatalf("completed frame mutated by later reception")
	}
}

func TestAssembler_TimeoutRecovery(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	a := newTestAssembler(clock)

	// N-1 of N chunks, then silence past the timeout.
	stalled := testPayload[:len(testPayload)-10]
	feed(a, clock, stalled, MaxChunk)

	if a.CheckTimeout(clock.now.Add(time.Second)) {
		t.Fatalf("abandoned before timeout")
	}

	if !a.CheckTimeout(clock.now.Add(16 * time.Second)) {
		t.Fatalf("stalled message not abandoned")
	}
	select {
	case <-a.Frames():
		t.Fatalf("stalled message handed off")
	default:
	}

	// A brand-new message must come through without residual bytes.
	clock.now = clock.now.Add(20 * time.Second)
	feed(a, clock, testPayload, MaxChunk)

	raw := takeFrame(t, a)
	if _, err := frame.Decode(raw); err != nil {
		t.Fatalf("fresh message after abandon does not decode: %v", err)
	}

	_, timeouts := a.Stats()
	if timeouts != 1 {
		t.Fatalf("timeouts = %d, want 1", timeouts)
	}
}

func TestAssembler_TimeoutRechecksCompleteness(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	a := newTestAssembler(clock)

	// Whole message delivered, but pretend the completion check was missed
	// by feeding it through the buffer via a frame that completes on the
	// very last chunk, then only calling CheckTimeout.
	feed(a, clock, testPayload, MaxChunk)
	// message completed on arrival; drain it to simulate the boundary case
	takeFrame(t, a)

	if a.CheckTimeout(clock.now.Add(time.Minute)) {
		t.Fatalf("idle assembler reported a timeout")
	}
}

func TestAssembler_NewerFrameSupersedes(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	a := newTestAssembler(clock)

	feed(a, clock, testPayload, MaxChunk)

	second := `{"weather": {"current_temperature": 9, "current_description": "Schnee",
		"today_min": 1, "today_max": 4, "location": "Berlin", "timestamp": 1700000200},
		"events": [], "event_count": 0, "timestamp": 1700000300}`
	feed(a, clock, second, MaxChunk)

	raw := takeFrame(t, a)
	s, err := frame.Decode(raw)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if s.Weather.Temperature != 9 {
		t.Fatalf("older frame was kept; got temperature %v", s.Weather.Temperature)
	}
	select {
	case <-a.Frames():
		t.Fatalf("more than one frame queued")
	default:
	}
}

func TestAssembler_StatusByte(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	a := newTestAssembler(clock)

	if got := a.OnStatusRequest(); got != 0 {
		t.Fatalf("status before first decode = %d, want 0", got)
	}
	a.MarkDecoded()
	if got := a.OnStatusRequest(); got != 1 {
		t.Fatalf("status after decode = %d, want 1", got)
	}
}

func TestAssembler_OverflowCountsDrops(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	a := NewAssembler(AssemblerConfig{Capacity: 32, Timeout: time.Second, Clock: clock.Now})

	feed(a, clock, testPayload, MaxChunk)

	drops, _ := a.Stats()
	if drops == 0 {
		t.Fatalf("overflow not counted")
	}
}

// internal/bus/serial_test.go
package bus

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dnnspaul/paulander/internal/frame"
)

// fakePort is an in-memory stream with scripted read granularity.
type fakePort struct {
	mu     sync.Mutex
	reads  [][]byte
	wrote  bytes.Buffer
	closed bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.reads) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.reads[0])
	if n < len(p.reads[0]) {
		p.reads[0] = p.reads[0][n:]
	} else {
		p.reads = p.reads[1:]
	}
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wrote.Write(b)
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// recordingHandler collects chunks and answers status polls.
type recordingHandler struct {
	mu     sync.Mutex
	chunks [][]byte
	polls  int
}

func (h *recordingHandler) OnChunk(chunk []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cp := make([]byte, len(chunk))
	copy(cp, chunk)
	h.chunks = append(h.chunks, cp)
}

func (h *recordingHandler) OnStatusRequest() byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.polls++
	return 1
}

func (h *recordingHandler) joined() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []byte
	for _, c := range h.chunks {
		out = append(out, c...)
	}
	return out
}

func wireFrame(payload string) []byte {
	raw := []byte(payload)
	var out []byte
	for off := 0; off < len(raw); off += MaxChunk {
		end := off + MaxChunk
		if end > len(raw) {
			end = len(raw)
		}
		out = append(out, frame.Sentinel)
		out = append(out, raw[off:end]...)
	}
	return out
}

func TestSerial_AnyReadGranularity(t *testing.T) {
	wire := wireFrame(testPayload)

	for _, granularity := range []int{1, 3, 17, 64, len(wire)} {
		var reads [][]byte
		for off := 0; off < len(wire); off += granularity {
			end := off + granularity
			if end > len(wire) {
				end = len(wire)
			}
			reads = append(reads, append([]byte(nil), wire[off:end]...))
		}

		h := &recordingHandler{}
		s := NewSerial(&fakePort{reads: reads}, h)

		if err := s.Run(context.Background()); err != nil {
			t.Fatalf("granularity %d: Run err=%v", granularity, err)
		}

		if !bytes.Equal(h.joined(), wire) {
			t.Fatalf("granularity %d: delivered bytes differ from wire", granularity)
		}
		for _, c := range h.chunks {
			if len(c) > MaxChunk+1 {
				t.Fatalf("granularity %d: oversized chunk %d bytes", granularity, len(c))
			}
		}
	}
}

func TestSerial_StatusPollAnswered(t *testing.T) {
	wire := append([]byte{StatusPoll}, wireFrame(testPayload)...)
	wire = append(wire, StatusPoll)

	h := &recordingHandler{}
	port := &fakePort{reads: [][]byte{wire}}
	s := NewSerial(port, h)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run err=%v", err)
	}

	if h.polls != 2 {
		t.Fatalf("polls = %d, want 2", h.polls)
	}
	if got := port.wrote.Bytes(); !bytes.Equal(got, []byte{1, 1}) {
		t.Fatalf("status replies = %v, want [1 1]", got)
	}
	// the poll byte itself never reaches the payload stream
	if bytes.IndexByte(h.joined(), StatusPoll) >= 0 {
		t.Fatalf("status poll leaked into payload chunks")
	}
}

func TestSerial_EndToEndWithAssembler(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	a := NewAssembler(AssemblerConfig{
		Timeout: 15 * time.Second,
		Clock:   func() time.Time { return clock },
	})
	a.MarkDecoded()

	wire := wireFrame(testPayload)
	wire = append(wire, StatusPoll)

	port := &fakePort{reads: [][]byte{wire}}
	s := NewSerial(port, a)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run err=%v", err)
	}

	select {
	case raw := <-a.Frames():
		if _, err := frame.Decode(raw); err != nil {
			t.Fatalf("frame does not decode: %v", err)
		}
	default:
		t.Fatalf("no frame assembled")
	}
	if got := port.wrote.Bytes(); !bytes.Equal(got, []byte{1}) {
		t.Fatalf("status reply = %v, want [1]", got)
	}
}

// internal/bus/serial.go
package bus

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/goburrow/serial"
)

// SerialConfig is the transport config for the serial bridge.
type SerialConfig struct {
	Device string
	Baud   int
}

// Serial services the byte stream coming from the host bridge. It cuts the
// stream into bus-write-sized chunks for the handler and answers in-band
// status polls by writing the reply byte back.
//
// The reader is written against io.ReadWriteCloser so tests drive it with
// a pipe instead of hardware.
type Serial struct {
	port io.ReadWriteCloser
	h    Handler
}

// OpenSerial opens the configured serial device.
func OpenSerial(cfg SerialConfig, h Handler) (*Serial, error) {
	if cfg.Device == "" {
		return nil, errors.New("bus: serial device required")
	}
	baud := cfg.Baud
	if baud <= 0 {
		baud = 115200
	}

	port, err := serial.Open(&serial.Config{
		Address:  cfg.Device,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  500 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}

	return NewSerial(port, h), nil
}

// NewSerial wraps an already-open stream.
func NewSerial(port io.ReadWriteCloser, h Handler) *Serial {
	return &Serial{port: port, h: h}
}

// Run reads the stream until ctx is cancelled or the stream dies.
// Read granularity is irrelevant: chunks are re-cut to at most one
// sentinel prefix plus MaxChunk payload bytes before dispatch, and status
// polls are pulled out of band.
func (s *Serial) Run(ctx context.Context) error {
	buf := make([]byte, 256)

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := s.port.Read(buf)
		if n > 0 {
			s.dispatch(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			if isTimeout(err) {
				continue
			}
			return err
		}
	}
}

// Close closes the underlying stream, unblocking Run.
func (s *Serial) Close() error { return s.port.Close() }

func (s *Serial) dispatch(data []byte) {
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] != StatusPoll {
			continue
		}
		s.deliver(data[start:i])
		if _, err := s.port.Write([]byte{s.h.OnStatusRequest()}); err != nil {
			log.Printf("bus: status reply failed: %v", err)
		}
		start = i + 1
	}
	s.deliver(data[start:])
}

// deliver hands data to the handler in bus-write-sized chunks.
func (s *Serial) deliver(data []byte) {
	const step = MaxChunk + 1 // sentinel prefix + payload
	for len(data) > 0 {
		n := len(data)
		if n > step {
			n = step
		}
		s.h.OnChunk(data[:n])
		data = data[n:]
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	if errors.As(err, &t) {
		return t.Timeout()
	}
	return errors.Is(err, serial.ErrTimeout)
}

// internal/frame/buffer.go
package frame

import "time"

// DefaultCapacity is sized well above the largest expected encoded message,
// so overflow is a safety net and not a normal path.
const DefaultCapacity = 2048

// Buffer accumulates the raw bus writes belonging to one logical message.
// Bytes beyond Len() are not meaningful. Buffer itself is not goroutine
// safe; the owning assembler serializes access.
type Buffer struct {
	data      []byte
	n         int
	lastWrite time.Time
	dropped   int
}

// NewBuffer allocates a buffer with the given fixed capacity.
// capacity <= 0 selects DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Append copies as many bytes of chunk as still fit and returns the number
// stored. Overflow bytes are silently dropped and only counted.
func (b *Buffer) Append(chunk []byte, now time.Time) int {
	stored := copy(b.data[b.n:], chunk)
	b.n += stored
	b.dropped += len(chunk) - stored
	b.lastWrite = now
	return stored
}

// Reset empties the buffer. The drop counter survives, it is cumulative
// observability state.
func (b *Buffer) Reset() {
	b.n = 0
	b.lastWrite = time.Time{}
}

// Bytes returns a view of the valid bytes. The view aliases the backing
// array; callers must copy before handing it across a goroutine or past
// the next Append.
func (b *Buffer) Bytes() []byte { return b.data[:b.n] }

// Len returns the number of valid bytes.
func (b *Buffer) Len() int { return b.n }

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// LastWrite returns the arrival time of the most recent chunk.
func (b *Buffer) LastWrite() time.Time { return b.lastWrite }

// Dropped returns the total bytes dropped on overflow since creation.
func (b *Buffer) Dropped() int { return b.dropped }

// internal/bus/bus.go
package bus

// Wire protocol constants. These define the protocol and MUST NOT be
// configurable.

// MaxChunk is the largest payload one bus write carries. The host splits a
// message into MaxChunk-sized writes, each prefixed with one sentinel byte.
const MaxChunk = 16

// StatusPoll is the in-band status request byte. The payload is sentinel
// framed ASCII JSON, so this value can never occur inside a message.
const StatusPoll byte = 0xFF

// Handler consumes bus events. Both callbacks may be invoked from the
// transport goroutine at any point relative to the control loop.
type Handler interface {
	// OnChunk receives the bytes of one bus write, sentinel prefix
	// included. The slice is only valid for the duration of the call.
	OnChunk(chunk []byte)

	// OnStatusRequest returns the single status reply byte. It must be
	// side-effect-free.
	OnStatusRequest() byte
}

// internal/frame/errors.go
package frame

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a frame was rejected. Every kind is recovered
// locally: the frame is discarded and the last accepted record stays
// authoritative.
type ErrorKind int

const (
	// KindTooShort means fewer bytes than the minimum viable message.
	KindTooShort ErrorKind = iota + 1
	// KindMalformed means the payload did not parse as structured text.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindTooShort:
		return "too_short"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// DecodeError is the tagged rejection result of Decode. The caller is
// forced through the discard path; there is no panic/recover control flow.
type DecodeError struct {
	Kind ErrorKind
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("frame: %s", e.Kind)
	}
	return fmt.Sprintf("frame: %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind carried by err, or 0 if err is not a
// DecodeError.
func KindOf(err error) ErrorKind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

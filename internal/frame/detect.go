// internal/frame/detect.go
package frame

// Sentinel is the register/address byte the bus master prefixes to every
// chunk. It is protocol, not payload, and is ignored everywhere.
//
// Filtering is content-based: any 0x00 in the accumulated bytes is skipped,
// exactly like the shipped firmware. The payload is JSON text and can never
// legitimately contain a zero byte, so this cannot corrupt a frame.
const Sentinel byte = 0x00

// MinMessage is the minimum viable encoded message size. Scanning shorter
// prefixes risks a false-positive completion on a stray delimiter pair.
const MinMessage = 50

// Complete reports whether raw holds a full brace-delimited message.
// It tracks nesting depth over the non-sentinel bytes and reports true the
// instant depth returns to zero after having been opened.
//
// The encoding carries no length field; delimiter balancing is the only
// framing. That is a known fragility of the wire protocol and is kept as-is
// for compatibility with the host.
func Complete(raw []byte) bool {
	if len(raw) < MinMessage {
		return false
	}

	depth := 0
	opened := false

	for _, c := range raw {
		switch c {
		case Sentinel:
			// chunk prefix, skip
		case '{':
			depth++
			opened = true
		case '}':
			if depth == 0 {
				// stray closer before any opener; garbage, but not ours
				// to judge here. The decoder rejects it.
				continue
			}
			depth--
			if depth == 0 && opened {
				return true
			}
		}
	}

	return false
}

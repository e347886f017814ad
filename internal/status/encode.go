// internal/status/encode.go
package status

// Encode converts a Snapshot into the single status reply byte.
// Layout is protocol-locked. No IO. No side effects.
func Encode(s Snapshot) byte {
	if s.HasData {
		return ReplyHasData
	}
	return ReplyNoData
}

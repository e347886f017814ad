// internal/status/snapshot.go
package status

// Snapshot represents exactly what the controller is willing to report.
// It contains no logic and no memory of the past beyond current counters.
type Snapshot struct {
	HasData bool

	// Observability counters. Not on the wire; surfaced through logs and
	// the status command only.
	DecodeFailures uint64
	SkippedRenders uint64
	DroppedBytes   uint64
	Timeouts       uint64
	Renders        uint64
}

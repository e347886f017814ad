// internal/change/detector.go
package change

import "github.com/dnnspaul/paulander/internal/snapshot"

// Detector gates renders on actual content change. It owns the last
// adopted record; the record is only ever replaced wholesale, never
// mutated in place.
type Detector struct {
	prev  *snapshot.Snapshot
	skips uint64
}

// New returns a detector with no previous record; the first observation
// always reports a change.
func New() *Detector {
	return &Detector{}
}

// Observe compares s against the last adopted record and reports whether
// the displayed content differs.
//
// Two independent comparisons: the locally computed fingerprint and, when
// the sender supplied one, the remote hash string. Either differing means
// changed (OR, not AND) — the local recomputation may miss a change the
// sender considers significant, and vice versa.
//
// On change, s is adopted as the new previous record. On no change, only
// the skip counter moves.
func (d *Detector) Observe(s *snapshot.Snapshot) bool {
	if d.prev == nil {
		d.prev = s
		return true
	}

	changed := s.Fingerprint != d.prev.Fingerprint
	if s.RemoteHash != d.prev.RemoteHash {
		changed = true
	}

	if !changed {
		d.skips++
		return false
	}

	d.prev = s
	return true
}

// Previous returns the last adopted record, or nil before the first
// observation. The scheduler renders exactly this record.
func (d *Detector) Previous() *snapshot.Snapshot { return d.prev }

// Skips returns how many observations were discarded as unchanged.
func (d *Detector) Skips() uint64 { return d.skips }

// internal/snapshot/fingerprint.go
package snapshot

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Fingerprint computes the deterministic content hash of s.
// The serialization is fixed-layout and order-dependent; Fingerprint and
// RemoteHash are excluded, as are the message timestamps: the host restamps
// every message and a restamp alone is not a visible change.
// Not cryptographic, only a cheap equality check.
func Fingerprint(s *Snapshot) uint64 {
	h := fnv.New64a()
	var scratch [8]byte

	f64 := func(v float64) {
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(v))
		h.Write(scratch[:])
	}
	i64 := func(v int64) {
		binary.LittleEndian.PutUint64(scratch[:], uint64(v))
		h.Write(scratch[:])
	}
	str := func(v string) {
		h.Write([]byte(v))
		h.Write([]byte{0}) // terminator keeps adjacent fields from merging
	}
	flag := func(v bool) {
		if v {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}

	w := &s.Weather
	f64(w.Temperature)
	str(w.Description)
	f64(w.TodayMin)
	f64(w.TodayMax)
	str(w.TodayDescription)
	f64(w.TomorrowMin)
	f64(w.TomorrowMax)
	str(w.TomorrowDescription)
	flag(w.TomorrowOK)
	str(w.Location)
	i64(int64(w.Humidity))
	f64(w.WindSpeed)

	i64(int64(s.EventCount))
	for i := range s.Events {
		e := &s.Events[i]
		str(e.Title)
		str(e.Location)
		i64(e.Start)
		flag(e.Valid)
	}

	return h.Sum64()
}

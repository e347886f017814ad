// internal/snapshot/types.go
package snapshot

import "unicode/utf8"

// Field limits. These values match what the display layout can hold
// and MUST NOT be configurable.

// MaxEvents is the fixed maximum number of calendar entries kept per message.
const MaxEvents = 6

// ---- STRING LIMITS (bytes) ----

const (
	MaxDescription = 32
	MaxLocation    = 40
	MaxTitle       = 48
	MaxRemoteHash  = 64
)

// NoForecast is substituted for an absent tomorrow forecast so the display
// never shows zeroed numbers as real data.
const NoForecast = "Keine Vorhersage"

// Weather is the weather half of a decoded message.
type Weather struct {
	Temperature float64
	Description string

	TodayMin         float64
	TodayMax         float64
	TodayDescription string

	// Tomorrow fields are only meaningful when TomorrowOK is true.
	TomorrowMin         float64
	TomorrowMax         float64
	TomorrowDescription string
	TomorrowOK          bool

	Location  string
	Humidity  int
	WindSpeed float64

	// Producer timestamp, unix seconds.
	Timestamp int64
}

// Event is one calendar entry.
type Event struct {
	Title    string
	Location string
	Start    int64 // unix seconds
	Valid    bool
}

// Snapshot is one fully decoded message. Entries beyond EventCount are
// zero values and not meaningful.
type Snapshot struct {
	Weather    Weather
	Events     [MaxEvents]Event
	EventCount int

	// Overall message timestamp, unix seconds.
	Timestamp int64

	// Change tracking. Neither field participates in the fingerprint.
	Fingerprint uint64
	RemoteHash  string // empty means the sender did not provide one
}

// Clip truncates s to at most max bytes without splitting a rune.
func Clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	// back off to the start of the rune straddling the cut
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// internal/frame/decode.go
package frame

import (
	"bytes"
	"encoding/json"

	"github.com/dnnspaul/paulander/internal/snapshot"
)

// wireMessage mirrors the JSON the host emits. Pointers distinguish
// "absent" from zero for every optional field.
type wireMessage struct {
	Weather struct {
		CurrentTemperature  *float64 `json:"current_temperature"`
		CurrentDescription  *string  `json:"current_description"`
		TodayMin            *float64 `json:"today_min"`
		TodayMax            *float64 `json:"today_max"`
		TodayDescription    *string  `json:"today_description"`
		TomorrowMin         *float64 `json:"tomorrow_min"`
		TomorrowMax         *float64 `json:"tomorrow_max"`
		TomorrowDescription *string  `json:"tomorrow_description"`
		Location            *string  `json:"location"`
		Humidity            *int     `json:"humidity"`
		WindSpeed           *float64 `json:"wind_speed"`
		Timestamp           *int64   `json:"timestamp"`
	} `json:"weather"`
	Events []struct {
		Title     string `json:"title"`
		Location  string `json:"location"`
		StartTime int64  `json:"start_time"`
		Valid     *bool  `json:"valid"`
	} `json:"events"`
	EventCount *int    `json:"event_count"`
	Timestamp  *int64  `json:"timestamp"`
	DataHash   *string `json:"data_hash"`
}

// Decode turns one complete raw frame into a Snapshot.
//
// Steps: strip sentinel bytes, parse JSON, extract fields with explicit
// defaults, clamp the entry count, substitute the no-forecast sentinel.
// A missing optional field never fails the decode; a parse failure fails
// the whole decode and the caller must discard the frame without touching
// prior state. Same input always yields a bit-identical Snapshot.
func Decode(raw []byte) (snapshot.Snapshot, error) {
	var s snapshot.Snapshot

	clean := stripSentinels(raw)
	if len(clean) < MinMessage {
		return s, &DecodeError{Kind: KindTooShort}
	}

	var msg wireMessage
	if err := json.Unmarshal(clean, &msg); err != nil {
		return s, &DecodeError{Kind: KindMalformed, Err: err}
	}

	// ---- WEATHER ----

	w := &s.Weather
	w.Temperature = f64Or(msg.Weather.CurrentTemperature, 0)
	w.Description = clipOr(msg.Weather.CurrentDescription, "", snapshot.MaxDescription)
	w.TodayMin = f64Or(msg.Weather.TodayMin, 0)
	w.TodayMax = f64Or(msg.Weather.TodayMax, 0)
	w.TodayDescription = clipOr(msg.Weather.TodayDescription, "", snapshot.MaxDescription)
	w.Location = clipOr(msg.Weather.Location, "", snapshot.MaxLocation)
	w.Humidity = intOr(msg.Weather.Humidity, 0)
	w.WindSpeed = f64Or(msg.Weather.WindSpeed, 0)
	w.Timestamp = i64Or(msg.Weather.Timestamp, 0)

	// Tomorrow is only real when the host sent both bounds. Anything less
	// gets the sentinel description, never zeroed numbers posing as data.
	if msg.Weather.TomorrowMin != nil && msg.Weather.TomorrowMax != nil {
		w.TomorrowOK = true
		w.TomorrowMin = *msg.Weather.TomorrowMin
		w.TomorrowMax = *msg.Weather.TomorrowMax
		w.TomorrowDescription = clipOr(msg.Weather.TomorrowDescription, "", snapshot.MaxDescription)
	} else {
		w.TomorrowOK = false
		w.TomorrowDescription = snapshot.NoForecast
	}

	// ---- EVENTS ----

	count := len(msg.Events)
	if msg.EventCount != nil && *msg.EventCount < count {
		count = *msg.EventCount
	}
	if count < 0 {
		count = 0
	}
	if count > snapshot.MaxEvents {
		count = snapshot.MaxEvents
	}
	s.EventCount = count

	for i := 0; i < count; i++ {
		ev := &msg.Events[i]
		s.Events[i] = snapshot.Event{
			Title:    snapshot.Clip(ev.Title, snapshot.MaxTitle),
			Location: snapshot.Clip(ev.Location, snapshot.MaxLocation),
			Start:    ev.StartTime,
			Valid:    boolOr(ev.Valid, true),
		}
	}

	s.Timestamp = i64Or(msg.Timestamp, 0)

	if msg.DataHash != nil {
		s.RemoteHash = snapshot.Clip(*msg.DataHash, snapshot.MaxRemoteHash)
	}

	s.Fingerprint = snapshot.Fingerprint(&s)
	return s, nil
}

// stripSentinels removes every sentinel byte from raw. See the note on
// Sentinel for why this is content-based.
func stripSentinels(raw []byte) []byte {
	if bytes.IndexByte(raw, Sentinel) < 0 {
		return raw
	}
	clean := make([]byte, 0, len(raw))
	for _, c := range raw {
		if c != Sentinel {
			clean = append(clean, c)
		}
	}
	return clean
}

// ---- default helpers ----

func f64Or(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func i64Or(p *int64, def int64) int64 {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func clipOr(p *string, def string, max int) string {
	if p == nil {
		return def
	}
	return snapshot.Clip(*p, max)
}

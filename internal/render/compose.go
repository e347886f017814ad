// internal/render/compose.go
package render

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/fogleman/gg"

	"github.com/dnnspaul/paulander/internal/config"
	"github.com/dnnspaul/paulander/internal/snapshot"
)

// Composer lays out the full-screen bitmap for a decoded record.
// Output is deterministic for a given record and configuration.
type Composer struct {
	width   int
	height  int
	variant config.VariantConfig
	faces   Faces
}

// NewComposer creates a composer for the given geometry and variant.
func NewComposer(width, height int, variant config.VariantConfig, faces Faces) *Composer {
	return &Composer{width: width, height: height, variant: variant, faces: faces}
}

// Compose renders the record into a black-on-white frame. A nil record
// produces the "no data yet" placeholder, the only error-ish screen this
// display ever shows.
func (c *Composer) Compose(s *snapshot.Snapshot) image.Image {
	dc := gg.NewContext(c.width, c.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	if c.variant.Rotate180 {
		dc.RotateAbout(math.Pi, float64(c.width)/2, float64(c.height)/2)
	}

	if s == nil {
		dc.SetFontFace(c.faces.Large)
		dc.DrawStringAnchored(c.text("Waiting for data...", "Warte auf Daten..."),
			float64(c.width)/2, float64(c.height)/2, 0.5, 0.5)
		return dc.Image()
	}

	w := &s.Weather
	margin := 20.0
	y := 48.0

	// ---- weather ----

	dc.SetFontFace(c.faces.Large)
	dc.DrawString(fmt.Sprintf("%.0f°C", w.Temperature), margin, y)

	dc.SetFontFace(c.faces.Medium)
	y += 38
	dc.DrawString(Label(w.Description, c.variant.GermanLabels), margin, y)

	dc.SetFontFace(c.faces.Small)
	if w.Location != "" {
		y += 28
		dc.DrawString(w.Location, margin, y)
	}

	if c.variant.Humidity || c.variant.Wind {
		y += 24
		dc.DrawString(c.conditionsLine(w), margin, y)
	}

	y += 24
	dc.DrawString(fmt.Sprintf("%s: %.0f–%.0f°C  %s",
		c.text("Today", "Heute"), w.TodayMin, w.TodayMax,
		Label(w.TodayDescription, c.variant.GermanLabels)), margin, y)

	if c.variant.Tomorrow {
		y += 24
		if w.TomorrowOK {
			dc.DrawString(fmt.Sprintf("%s: %.0f–%.0f°C  %s",
				c.text("Tomorrow", "Morgen"), w.TomorrowMin, w.TomorrowMax,
				Label(w.TomorrowDescription, c.variant.GermanLabels)), margin, y)
		} else {
			dc.DrawString(fmt.Sprintf("%s: %s",
				c.text("Tomorrow", "Morgen"), w.TomorrowDescription), margin, y)
		}
	}

	// ---- separator ----

	y += 20
	dc.SetLineWidth(2)
	dc.DrawLine(margin, y, float64(c.width)-margin, y)
	dc.Stroke()

	// ---- events ----

	y += 34
	dc.SetFontFace(c.faces.Medium)
	dc.DrawString(c.text("Upcoming events:", "Termine:"), margin, y)

	dc.SetFontFace(c.faces.Small)
	if s.EventCount == 0 {
		y += 30
		dc.DrawString(c.text("No upcoming events", "Keine Termine"), margin, y)
		return dc.Image()
	}

	for i := 0; i < s.EventCount; i++ {
		ev := &s.Events[i]
		if !ev.Valid {
			continue
		}
		y += 30
		if y > float64(c.height)-20 {
			break
		}
		dc.DrawString(c.eventLine(ev), margin, y)
	}

	return dc.Image()
}

func (c *Composer) conditionsLine(w *snapshot.Weather) string {
	line := ""
	if c.variant.Humidity {
		line += fmt.Sprintf("%s %d%%", c.text("Humidity", "Luftfeuchte"), w.Humidity)
	}
	if c.variant.Wind {
		if line != "" {
			line += "  "
		}
		line += fmt.Sprintf("%s %.1f m/s", c.text("Wind", "Wind"), w.WindSpeed)
	}
	return line
}

func (c *Composer) eventLine(ev *snapshot.Event) string {
	// Event times arrive pre-shifted by the host; rendering in UTC keeps
	// the output independent of the controller's zone database.
	start := time.Unix(ev.Start, 0).UTC()
	layout := "01/02 15:04"
	if c.variant.GermanLabels {
		layout = "02.01. 15:04"
	}
	line := start.Format(layout) + "  " + ev.Title
	if ev.Location != "" {
		line += " @ " + ev.Location
	}
	return line
}

// text picks the label language for the variant.
func (c *Composer) text(english, german string) string {
	if c.variant.GermanLabels {
		return german
	}
	return english
}

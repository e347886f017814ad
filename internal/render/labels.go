// internal/render/labels.go
package render

import "strings"

// germanLabels maps OpenWeatherMap condition descriptions to compact
// German labels that fit the display. Unknown descriptions pass through
// unchanged.
var germanLabels = map[string]string{
	// thunderstorm group
	"thunderstorm":       "Gewitter",
	"light thunderstorm": "Gewitter",
	"heavy thunderstorm": "Gewitter",

	// drizzle group
	"drizzle":                 "Nieselregen",
	"light intensity drizzle": "Nieselregen",
	"heavy intensity drizzle": "Nieselregen",

	// rain group
	"light rain":                  "Regen",
	"moderate rain":               "Regen",
	"heavy intensity rain":        "Starkregen",
	"very heavy rain":             "Starkregen",
	"extreme rain":                "Starkregen",
	"freezing rain":               "Eisregen",
	"shower rain":                 "Schauer",
	"light intensity shower rain": "Schauer",
	"heavy intensity shower rain": "Starke Schauer",

	// snow group
	"light snow": "Schnee",
	"snow":       "Schnee",
	"heavy snow": "Starker Schnee",
	"sleet":      "Schneematsch",

	// atmosphere group
	"mist": "Nebel",
	"fog":  "Nebel",
	"haze": "Dunst",

	// clear / clouds
	"clear sky":        "Klar",
	"few clouds":       "Leicht bewölkt",
	"scattered clouds": "Bewölkt",
	"broken clouds":    "Bewölkt",
	"overcast clouds":  "Bedeckt",
}

// Label returns the display label for a weather description.
func Label(description string, german bool) string {
	if !german {
		return description
	}
	if l, ok := germanLabels[strings.ToLower(strings.TrimSpace(description))]; ok {
		return l
	}
	return description
}

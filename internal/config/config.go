// internal/config/config.go
package config

type Config struct {
	Paulander PaulanderConfig `yaml:"paulander"`
}

type PaulanderConfig struct {
	Bus     BusConfig     `yaml:"bus"`
	Frame   FrameConfig   `yaml:"frame"`
	Refresh RefreshConfig `yaml:"refresh"`
	Display DisplayConfig `yaml:"display"`
	Render  RenderConfig  `yaml:"render"`
	History HistoryConfig `yaml:"history"`
}

// ---- BUS ----

type BusConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// ---- FRAME ----

type FrameConfig struct {
	// Buffer capacity in bytes. Sized well above the largest message.
	Capacity int `yaml:"capacity"`
	// Stalled-message timeout in milliseconds.
	TimeoutMs int `yaml:"timeout_ms"`
}

// ---- REFRESH ----

type RefreshConfig struct {
	// Control loop tick in milliseconds.
	TickMs int `yaml:"tick_ms"`
	// Forced refresh after this many minutes without one.
	MaxStaleMinutes int `yaml:"max_stale_minutes"`
	// Change-triggered refreshes are rate limited to one per this many
	// seconds. 0 disables the limit; unset selects the default.
	MinIntervalSeconds *int `yaml:"min_interval_seconds"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	// Mode selects the render sink: "spi" drives the panel, "png" writes
	// the frame to a file (bench mode).
	Mode   string `yaml:"mode"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// SPI wiring, used when mode is "spi".
	SPIPort  string `yaml:"spi_port"`
	DCPin    string `yaml:"dc_pin"`
	ResetPin string `yaml:"reset_pin"`
	BusyPin  string `yaml:"busy_pin"`

	// Output path, used when mode is "png".
	PNGPath string `yaml:"png_path"`
}

// ---- RENDER ----

// VariantConfig selects the optional fields of the device variant. The two
// shipped device builds differed in field set, rotation and label
// language; here they are one core with flags.
type VariantConfig struct {
	Humidity     bool `yaml:"humidity"`
	Wind         bool `yaml:"wind"`
	Tomorrow     bool `yaml:"tomorrow"`
	GermanLabels bool `yaml:"german_labels"`
	Rotate180    bool `yaml:"rotate_180"`
}

type RenderConfig struct {
	// TTF font file. Empty falls back to the builtin bitmap font.
	FontPath string        `yaml:"font_path"`
	Variant  VariantConfig `yaml:"variant"`
}

// ---- HISTORY ----

type HistoryConfig struct {
	// SQLite journal path. Empty disables the journal.
	Path string `yaml:"path"`
}

// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	p := &cfg.Paulander

	if p.Display.Mode == "" {
		p.Display.Mode = "png"
	}
	if p.Display.Width == 0 {
		p.Display.Width = 800
	}
	if p.Display.Height == 0 {
		p.Display.Height = 480
	}
	if p.Display.PNGPath == "" {
		p.Display.PNGPath = "bw_display_output.png"
	}

	if p.Frame.Capacity == 0 {
		p.Frame.Capacity = 2048
	}
	if p.Frame.TimeoutMs == 0 {
		p.Frame.TimeoutMs = 15000
	}

	if p.Refresh.TickMs == 0 {
		p.Refresh.TickMs = 250
	}
	if p.Refresh.MaxStaleMinutes == 0 {
		p.Refresh.MaxStaleMinutes = 30
	}
	if p.Refresh.MinIntervalSeconds == nil {
		def := 60
		p.Refresh.MinIntervalSeconds = &def
	}

	if p.Bus.Baud == 0 {
		p.Bus.Baud = 115200
	}
}

// internal/config/validate.go
package config

import "fmt"

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	p := &cfg.Paulander

	// ------------------------------------------------------------
	// DISPLAY MODE
	// ------------------------------------------------------------

	switch p.Display.Mode {
	case "", "spi", "png":
	default:
		return fmt.Errorf("display.mode %q: must be spi or png", p.Display.Mode)
	}

	if p.Display.Mode == "spi" {
		for name, v := range map[string]string{
			"display.dc_pin":    p.Display.DCPin,
			"display.reset_pin": p.Display.ResetPin,
			"display.busy_pin":  p.Display.BusyPin,
		} {
			if v == "" {
				return fmt.Errorf("%s is required in spi mode", name)
			}
		}
	}

	// ------------------------------------------------------------
	// GEOMETRY AND INTERVALS
	// ------------------------------------------------------------

	if p.Display.Width < 0 || p.Display.Height < 0 {
		return fmt.Errorf("display geometry must not be negative")
	}

	if p.Frame.Capacity != 0 && p.Frame.Capacity < 256 {
		return fmt.Errorf("frame.capacity %d: must be 0 (default) or >= 256", p.Frame.Capacity)
	}
	if p.Frame.TimeoutMs < 0 {
		return fmt.Errorf("frame.timeout_ms must not be negative")
	}

	if p.Refresh.TickMs < 0 {
		return fmt.Errorf("refresh.tick_ms must not be negative")
	}
	if p.Refresh.MaxStaleMinutes < 0 {
		return fmt.Errorf("refresh.max_stale_minutes must not be negative")
	}
	if p.Refresh.MinIntervalSeconds != nil && *p.Refresh.MinIntervalSeconds < 0 {
		return fmt.Errorf("refresh.min_interval_seconds must not be negative")
	}

	if p.Bus.Baud < 0 {
		return fmt.Errorf("bus.baud must not be negative")
	}

	return nil
}

// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadValidateNormalize(t *testing.T) {
	raw := `
paulander:
  bus:
    device: /dev/ttyAMA0
  display:
    mode: png
  render:
    variant:
      humidity: true
      tomorrow: true
      german_labels: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate err=%v", err)
	}
	Normalize(cfg)

	p := cfg.Paulander
	if p.Bus.Device != "/dev/ttyAMA0" || p.Bus.Baud != 115200 {
		t.Fatalf("bus defaults wrong: %+v", p.Bus)
	}
	if p.Frame.Capacity != 2048 || p.Frame.TimeoutMs != 15000 {
		t.Fatalf("frame defaults wrong: %+v", p.Frame)
	}
	if p.Refresh.MaxStaleMinutes != 30 || p.Refresh.TickMs != 250 {
		t.Fatalf("refresh defaults wrong: %+v", p.Refresh)
	}
	if p.Refresh.MinIntervalSeconds == nil || *p.Refresh.MinIntervalSeconds != 60 {
		t.Fatalf("min interval default wrong: %+v", p.Refresh)
	}
	if p.Display.Width != 800 || p.Display.Height != 480 {
		t.Fatalf("display defaults wrong: %+v", p.Display)
	}
	if !p.Render.Variant.Humidity || p.Render.Variant.Wind {
		t.Fatalf("variant flags wrong: %+v", p.Render.Variant)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad mode", func(c *Config) { c.Paulander.Display.Mode = "hdmi" }},
		{"spi without pins", func(c *Config) { c.Paulander.Display.Mode = "spi" }},
		{"tiny capacity", func(c *Config) { c.Paulander.Frame.Capacity = 64 }},
		{"negative timeout", func(c *Config) { c.Paulander.Frame.TimeoutMs = -1 }},
		{"negative stale", func(c *Config) { c.Paulander.Refresh.MaxStaleMinutes = -5 }},
		{"negative min interval", func(c *Config) {
			v := -1
			c.Paulander.Refresh.MinIntervalSeconds = &v
		}},
	}

	for _, tc := range cases {
		var cfg Config
		tc.mutate(&cfg)
		if err := Validate(&cfg); err == nil {
			t.Errorf("%s: Validate accepted invalid config", tc.name)
		}
	}
}

func TestValidate_ExplicitZeroMinInterval(t *testing.T) {
	var cfg Config
	zero := 0
	cfg.Paulander.Refresh.MinIntervalSeconds = &zero

	if err := Validate(&cfg); err != nil {
		t.Fatalf("Validate err=%v", err)
	}
	Normalize(&cfg)
	if *cfg.Paulander.Refresh.MinIntervalSeconds != 0 {
		t.Fatalf("explicit 0 overwritten by default")
	}
}

// internal/render/renderer.go
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"periph.io/x/conn/v3/display"

	"github.com/dnnspaul/paulander/internal/snapshot"
)

// Renderer commits a full redraw for the given record. A render is
// expensive and blocking; there is no partial-region mode and no
// cancellation. A nil record draws the no-data placeholder.
type Renderer interface {
	Render(s *snapshot.Snapshot) error
}

// ---- PNG sink (bench mode) ----

// PNGRenderer writes each frame to a file instead of a panel, mirroring
// the host project's mock display mode.
type PNGRenderer struct {
	Path     string
	Composer *Composer
}

func (r *PNGRenderer) Render(s *snapshot.Snapshot) error {
	img := r.Composer.Compose(s)

	f, err := os.Create(r.Path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", r.Path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("render: encode %s: %w", r.Path, err)
	}
	return nil
}

// ---- panel sink ----

// PanelRenderer commits frames to a physical panel through any periph
// display driver.
type PanelRenderer struct {
	Drawer   display.Drawer
	Composer *Composer
}

func (r *PanelRenderer) Render(s *snapshot.Snapshot) error {
	img := r.Composer.Compose(s)
	b := r.Drawer.Bounds()
	if err := r.Drawer.Draw(b, img, image.Point{}); err != nil {
		return fmt.Errorf("render: panel draw: %w", err)
	}
	return nil
}

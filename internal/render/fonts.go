// internal/render/fonts.go
package render

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Faces bundles the three type sizes the layout uses.
type Faces struct {
	Large  font.Face
	Medium font.Face
	Small  font.Face
}

// LoadFaces opens the configured TTF at the layout's three sizes. An empty
// path selects the builtin bitmap font, which keeps the bench tools and
// tests free of filesystem dependencies.
func LoadFaces(path string) (Faces, error) {
	if path == "" {
		f := basicfont.Face7x13
		return Faces{Large: f, Medium: f, Small: f}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Faces{}, fmt.Errorf("render: read font %s: %w", path, err)
	}
	ft, err := truetype.Parse(raw)
	if err != nil {
		return Faces{}, fmt.Errorf("render: parse font %s: %w", path, err)
	}

	face := func(size float64) font.Face {
		return truetype.NewFace(ft, &truetype.Options{Size: size})
	}
	return Faces{Large: face(28), Medium: face(22), Small: face(18)}, nil
}

package renderer

import (
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Probed in order when no explicit font path is configured. The first
// entry matches the font shipped in the service container.
var systemFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/DejaVuSans.ttf",
	"DejaVuSans.ttf",
}

// fontCache parses one TrueType font and hands out faces per pixel size.
// When no font can be loaded (or a face fails to build) it degrades to
// the embedded Go Regular font, and as a last resort to the fixed-size
// basicfont. Rendering never fails on fonts.
type fontCache struct {
	tt    *opentype.Font
	faces map[int]font.Face
}

func newFontCache(path string) *fontCache {
	c := &fontCache{faces: make(map[int]font.Face)}

	paths := systemFontPaths
	if path != "" {
		paths = append([]string{path}, systemFontPaths...)
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		tt, err := opentype.Parse(data)
		if err != nil {
			continue
		}
		c.tt = tt
		return c
	}

	if tt, err := opentype.Parse(goregular.TTF); err == nil {
		c.tt = tt
	}
	return c
}

func (c *fontCache) face(size int) font.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}

	var f font.Face = basicfont.Face7x13
	if c.tt != nil {
		face, err := opentype.NewFace(c.tt, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			f = face
		}
	}

	c.faces[size] = f
	return f
}

package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/san-kum/collisiongen/internal/dynamo"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// fontCache hands out faces per pixel size. Faces are not safe for
// concurrent use, so all drawing goes through mu.
type fontCache struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[int]font.Face
}

func loadFonts(paths []string, log zerolog.Logger) *fontCache {
	fc := &fontCache{faces: make(map[int]font.Face)}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("skipping unparsable font")
			continue
		}
		fc.font = f
		log.Debug().Str("path", path).Msg("loaded font")
		return fc
	}

	log.Debug().
		Err(fmt.Errorf("%w: no usable font in %v", dynamo.ErrRenderingUnavailable, paths)).
		Msg("falling back to built-in bitmap font")
	return fc
}

func (fc *fontCache) fallback() bool {
	return fc.font == nil
}

func (fc *fontCache) face(size int) font.Face {
	if fc.font == nil || size <= 0 {
		return basicfont.Face7x13
	}
	if f, ok := fc.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(fc.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	fc.faces[size] = f
	return f
}

// drawCentered centers text on (x, y).
func (fc *fontCache) drawCentered(img *image.RGBA, text string, size int, x, y float64, c color.Color) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	face := fc.face(size)
	m := face.Metrics()
	height := (m.Ascent + m.Descent).Ceil()
	fc.draw(img, face, text, x, y-float64(height)/2+float64(m.Ascent.Ceil()), c)
}

// drawAbove places the top of the text at y, centered on x.
func (fc *fontCache) drawAbove(img *image.RGBA, text string, size int, x, y float64, c color.Color) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	face := fc.face(size)
	fc.draw(img, face, text, x, y+float64(face.Metrics().Ascent.Ceil()), c)
}

func (fc *fontCache) draw(img *image.RGBA, face font.Face, text string, x, baseline float64, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(int(x)-width/2, int(baseline))
	d.DrawString(text)
}

func massLabel(mass float64) string {
	return fmt.Sprintf("%.1fkg", mass)
}

func velocityLabel(v float64) string {
	return fmt.Sprintf("%.1fm/s", abs(v))
}

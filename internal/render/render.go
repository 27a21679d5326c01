// Package render draws collision scenarios as raster frames: two balls on a
// white strip, optional mass labels and velocity arrows.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/rs/zerolog"
	"github.com/san-kum/collisiongen/internal/dynamo"
	"golang.org/x/image/vector"
)

const (
	arrowScale     = 10.0 // px per m/s
	arrowMinLength = 5.0
	arrowHead      = 8.0
	arrowWidth     = 3.0
	outlineWidth   = 2.0
	velocityLabelY = 25.0
	velocityFontPx = 14
)

var (
	Background = color.RGBA{255, 255, 255, 255}
	ColorA     = color.RGBA{220, 60, 60, 255}
	ColorB     = color.RGBA{60, 60, 220, 255}
	ArrowColor = color.RGBA{60, 180, 60, 255}
	Outline    = color.RGBA{0, 0, 0, 255}
	LabelColor = color.RGBA{255, 255, 255, 255}
)

type Options struct {
	Width      int
	Height     int
	WorldWidth float64
	Arrows     bool
	Labels     bool
	FontPaths  []string
}

// FrameOptions toggles per-frame layers.
type FrameOptions struct {
	Arrows bool
}

type Renderer struct {
	opts  Options
	fonts *fontCache
}

func New(opts Options, log zerolog.Logger) *Renderer {
	return &Renderer{
		opts:  opts,
		fonts: loadFonts(opts.FontPaths, log),
	}
}

// Fallback reports whether text is drawn with the built-in bitmap face.
func (r *Renderer) Fallback() bool {
	return r.fonts.fallback()
}

// Initial draws the scenario at t=0.
func (r *Renderer) Initial(sc dynamo.Scenario) *image.RGBA {
	return r.Frame(sc, sc.Initial(), FrameOptions{Arrows: r.opts.Arrows})
}

// Final draws the selected post-collision sample.
func (r *Renderer) Final(sc dynamo.Scenario, s dynamo.Sample) *image.RGBA {
	return r.Frame(sc, s, FrameOptions{Arrows: r.opts.Arrows})
}

// Frames draws every trajectory sample without arrows, for video.
func (r *Renderer) Frames(sc dynamo.Scenario, traj dynamo.Trajectory) []*image.RGBA {
	frames := make([]*image.RGBA, 0, traj.Len())
	for _, s := range traj.Samples {
		frames = append(frames, r.Frame(sc, s, FrameOptions{}))
	}
	return frames
}

func (r *Renderer) Frame(sc dynamo.Scenario, s dynamo.Sample, fo FrameOptions) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(r.opts.Width, r.opts.Height)
	cy := float64(r.opts.Height / 2)
	xa := r.toPixels(s.PositionA)
	xb := r.toPixels(s.PositionB)

	r.ball(img, z, xa, cy, sc.RadiusA, ColorA, sc.MassA)
	r.ball(img, z, xb, cy, sc.RadiusB, ColorB, sc.MassB)

	if fo.Arrows {
		r.arrow(img, z, xa, cy, s.VelocityA, sc.RadiusA)
		r.arrow(img, z, xb, cy, s.VelocityB, sc.RadiusB)
	}
	return img
}

func (r *Renderer) toPixels(meters float64) float64 {
	return meters / r.opts.WorldWidth * float64(r.opts.Width)
}

func (r *Renderer) ball(img *image.RGBA, z *vector.Rasterizer, x, y, radius float64, c color.RGBA, mass float64) {
	fillCircle(img, z, x, y, radius, Outline)
	fillCircle(img, z, x, y, radius-outlineWidth, c)

	if r.opts.Labels {
		r.fonts.drawCentered(img, massLabel(mass), int(radius*0.5), x, y, LabelColor)
	}
}

func (r *Renderer) arrow(img *image.RGBA, z *vector.Rasterizer, x, y, v, radius float64) {
	length := v * arrowScale
	if abs(length) < arrowMinLength {
		return
	}

	start := x - radius
	dir := -1.0
	if v > 0 {
		start, dir = x+radius, 1.0
	}
	end := start + length

	fillPolygon(img, z, ArrowColor,
		start, y-arrowWidth/2,
		end, y-arrowWidth/2,
		end, y+arrowWidth/2,
		start, y+arrowWidth/2,
	)
	fillPolygon(img, z, ArrowColor,
		end, y,
		end-dir*arrowHead, y-arrowHead/2,
		end-dir*arrowHead, y+arrowHead/2,
	)

	r.fonts.drawAbove(img, velocityLabel(v), velocityFontPx, (start+end)/2, y-velocityLabelY, ArrowColor)
}

// circle as four cubic arcs
const kappa = 0.5522847498

func fillCircle(img *image.RGBA, z *vector.Rasterizer, cx, cy, r float64, c color.Color) {
	if r <= 0 {
		return
	}
	b := img.Bounds()
	if cx+r < 0 || cx-r > float64(b.Dx()) {
		return
	}
	k := kappa * r
	z.Reset(b.Dx(), b.Dy())
	z.MoveTo(f32(cx+r), f32(cy))
	z.CubeTo(f32(cx+r), f32(cy+k), f32(cx+k), f32(cy+r), f32(cx), f32(cy+r))
	z.CubeTo(f32(cx-k), f32(cy+r), f32(cx-r), f32(cy+k), f32(cx-r), f32(cy))
	z.CubeTo(f32(cx-r), f32(cy-k), f32(cx-k), f32(cy-r), f32(cx), f32(cy-r))
	z.CubeTo(f32(cx+k), f32(cy-r), f32(cx+r), f32(cy-k), f32(cx+r), f32(cy))
	z.ClosePath()
	z.Draw(img, b, image.NewUniform(c), image.Point{})
}

// fillPolygon takes x, y pairs.
func fillPolygon(img *image.RGBA, z *vector.Rasterizer, c color.Color, pts ...float64) {
	b := img.Bounds()
	z.Reset(b.Dx(), b.Dy())
	z.MoveTo(clampX(pts[0], b), f32(pts[1]))
	for i := 2; i+1 < len(pts); i += 2 {
		z.LineTo(clampX(pts[i], b), f32(pts[i+1]))
	}
	z.ClosePath()
	z.Draw(img, b, image.NewUniform(c), image.Point{})
}

func clampX(x float64, b image.Rectangle) float32 {
	return f32(min(max(x, 0), float64(b.Dx())))
}

func f32(v float64) float32 { return float32(v) }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

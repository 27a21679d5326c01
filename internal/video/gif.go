package video

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
)

type GIF struct{}

func NewGIF() *GIF { return &GIF{} }

func (g *GIF) Name() string     { return "gif" }
func (g *GIF) Ext() string      { return "gif" }
func (g *GIF) Available() error { return nil }

func (g *GIF) Encode(path string, frames []*image.RGBA, fps int) error {
	if len(frames) == 0 {
		return errors.New("no frames to encode")
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}

	// delay is in 1/100 s
	delay := max(1, 100/fps)
	anim := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(frames)),
		Delay: make([]int, 0, len(frames)),
	}
	for _, f := range frames {
		pal := image.NewPaletted(f.Bounds(), palette.Plan9)
		draw.Draw(pal, f.Bounds(), f, f.Bounds().Min, draw.Src)
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, delay)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	defer out.Close()

	if err := gif.EncodeAll(out, anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return out.Close()
}

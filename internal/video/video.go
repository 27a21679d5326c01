// Package video assembles rendered frames into a ground-truth clip.
package video

import (
	"fmt"
	"image"

	"github.com/san-kum/collisiongen/internal/dynamo"
)

type Encoder interface {
	Name() string
	// Ext is the file extension, without the dot.
	Ext() string
	// Available returns nil when the encoder can run in this environment.
	Available() error
	Encode(path string, frames []*image.RGBA, fps int) error
}

// Select returns the encoder for format. A missing backend yields
// dynamo.ErrVideoBackendUnavailable so callers can skip the video.
func Select(format string) (Encoder, error) {
	var enc Encoder
	switch format {
	case "gif":
		enc = NewGIF()
	case "mp4":
		enc = NewFFmpeg()
	default:
		return nil, fmt.Errorf("unknown video format %q: %w", format, dynamo.ErrConfiguration)
	}
	if err := enc.Available(); err != nil {
		return nil, err
	}
	return enc, nil
}

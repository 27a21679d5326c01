package video

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"

	"github.com/san-kum/collisiongen/internal/dynamo"
)

// FFmpeg pipes PNG frames into an ffmpeg subprocess and writes H.264 mp4.
type FFmpeg struct {
	binary string
}

func NewFFmpeg() *FFmpeg { return &FFmpeg{binary: "ffmpeg"} }

func (f *FFmpeg) Name() string { return "ffmpeg" }
func (f *FFmpeg) Ext() string  { return "mp4" }

func (f *FFmpeg) Available() error {
	if _, err := exec.LookPath(f.binary); err != nil {
		return fmt.Errorf("%w: %s not found on PATH", dynamo.ErrVideoBackendUnavailable, f.binary)
	}
	return nil
}

func (f *FFmpeg) Encode(path string, frames []*image.RGBA, fps int) error {
	if len(frames) == 0 {
		return errors.New("no frames to encode")
	}
	bin, err := exec.LookPath(f.binary)
	if err != nil {
		return fmt.Errorf("%w: %s not found on PATH", dynamo.ErrVideoBackendUnavailable, f.binary)
	}

	args := []string{
		"-y",
		"-loglevel", "error",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-framerate", strconv.Itoa(fps),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		path,
	}
	cmd := exec.Command(bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	var writeErr error
	for _, frame := range frames {
		if writeErr = png.Encode(stdin, frame); writeErr != nil {
			break
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	if writeErr != nil {
		return fmt.Errorf("write frame: %w", writeErr)
	}
	return nil
}

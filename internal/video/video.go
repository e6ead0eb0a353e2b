package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
)

// Encoder packs an ordered frame sequence into a playable video byte
// stream at the given frame rate. Frames must share one size.
type Encoder interface {
	Encode(ctx context.Context, frames []*image.RGBA, fps int) ([]byte, error)
}

// FFmpegEncoder pipes raw RGBA frames to the ffmpeg binary over stdin and
// reads the finished mp4 back. No audio track is produced.
type FFmpegEncoder struct {
	Codec string // H.264 encoder name, defaults to libx264
}

func (e *FFmpegEncoder) Encode(ctx context.Context, frames []*image.RGBA, fps int) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to encode")
	}

	bounds := frames[0].Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	tmp, err := os.CreateTemp("", "dsl2video_*.mp4")
	if err != nil {
		return nil, fmt.Errorf("temp file error: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	args := buildFFmpegArgs(width, height, fps, e.Codec, tmpPath)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	for i, frame := range frames {
		if err := writeRawRGBA(stdin, frame); err != nil {
			stdin.Close()
			cmd.Wait()
			return nil, fmt.Errorf("write frame %d error: %w", i, err)
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg error: %v, output: %s", err, out.String())
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read encoded video error: %w", err)
	}
	return data, nil
}

func buildFFmpegArgs(width, height, fps int, codec, outPath string) []string {
	if codec == "" {
		codec = "libx264"
	}
	return []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "-",
		// yuv420p needs even dimensions; pad instead of rejecting odd sizes
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-r", fmt.Sprintf("%d", fps),
		"-pix_fmt", "yuv420p",
		"-c:v", codec,
		"-preset", "medium",
		"-movflags", "+faststart",
		outPath,
	}
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

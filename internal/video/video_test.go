package video

import (
	"bytes"
	"context"
	"image"
	"testing"
)

func TestBuildFFmpegArgs(t *testing.T) {
	args := buildFFmpegArgs(640, 360, 24, "", "/tmp/out.mp4")

	pairs := map[string]string{
		"-f":            "rawvideo",
		"-pixel_format": "rgba",
		"-video_size":   "640x360",
		"-framerate":    "24",
		"-pix_fmt":      "yuv420p",
		"-c:v":          "libx264",
		"-preset":       "medium",
		"-movflags":     "+faststart",
	}
	for flag, want := range pairs {
		if got := argAfter(args, flag); got != want {
			t.Errorf("%s = %q, want %q", flag, got, want)
		}
	}

	if args[len(args)-1] != "/tmp/out.mp4" {
		t.Errorf("last arg = %q, want output path", args[len(args)-1])
	}
	if got := argAfter(args, "-i"); got != "-" {
		t.Errorf("input = %q, want stdin", got)
	}
	if got := argAfter(args, "-vf"); got != "pad=ceil(iw/2)*2:ceil(ih/2)*2" {
		t.Errorf("-vf = %q, want the even-dimension pad", got)
	}
}

func TestBuildFFmpegArgsCustomCodec(t *testing.T) {
	args := buildFFmpegArgs(320, 180, 12, "h264_nvenc", "out.mp4")
	if got := argAfter(args, "-c:v"); got != "h264_nvenc" {
		t.Errorf("-c:v = %q, want h264_nvenc", got)
	}
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestEncodeNoFrames(t *testing.T) {
	e := &FFmpegEncoder{}
	if _, err := e.Encode(context.Background(), nil, 24); err == nil {
		t.Error("Encode with no frames succeeded")
	}
}

func TestWriteRawRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}

	var buf bytes.Buffer
	if err := writeRawRGBA(&buf, img); err != nil {
		t.Fatalf("writeRawRGBA() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), img.Pix) {
		t.Error("raw output differs from the pixel buffer")
	}
	if buf.Len() != 2*2*4 {
		t.Errorf("wrote %d bytes, want 16", buf.Len())
	}
}

func TestWriteRawRGBANormalizesSubimage(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range base.Pix {
		base.Pix[i] = 0xAB
	}
	sub := base.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	var buf bytes.Buffer
	if err := writeRawRGBA(&buf, sub); err != nil {
		t.Fatalf("writeRawRGBA() error = %v", err)
	}
	if buf.Len() != 2*2*4 {
		t.Errorf("wrote %d bytes, want 16", buf.Len())
	}
}

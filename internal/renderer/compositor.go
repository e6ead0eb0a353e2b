package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/dsl2video/internal/dsl"
	"github.com/ivlev/dsl2video/internal/system"
)

const (
	defaultWatermark = "dsl2video"
	watermarkPadding = 15
)

// Options tune a Renderer beyond what the script declares.
type Options struct {
	Watermark string // overlay text, defaults to defaultWatermark
	FontPath  string // explicit TrueType font, system paths probed otherwise
}

// Renderer rasterizes every frame of one compiled animation. It owns its
// registries exclusively; a Renderer serves a single render and is not
// safe for concurrent use.
type Renderer struct {
	spec        *dsl.AnimationSpec
	width       int
	height      int
	totalFrames int
	bg          color.RGBA
	watermark   string
	positions   map[string]dsl.Point
	motions     map[string]motion
	fonts       *fontCache
}

func New(spec *dsl.AnimationSpec, width, height int, opts Options) *Renderer {
	if width > dsl.MaxWidth {
		width = dsl.MaxWidth
	}
	if height > dsl.MaxHeight {
		height = dsl.MaxHeight
	}

	watermark := opts.Watermark
	if watermark == "" {
		watermark = defaultWatermark
	}

	bgR, bgG, bgB := dsl.HexToRGB(spec.Background)
	r := &Renderer{
		spec:        spec,
		width:       width,
		height:      height,
		totalFrames: spec.TotalFrames(),
		bg:          color.RGBA{bgR, bgG, bgB, 255},
		watermark:   watermark,
		fonts:       newFontCache(opts.FontPath),
	}
	r.positions, r.motions = buildMotions(spec)
	return r
}

func (r *Renderer) TotalFrames() int { return r.totalFrames }

func (r *Renderer) Width() int { return r.width }

func (r *Renderer) Height() int { return r.height }

// RenderFrame rasterizes one frame: background fill, objects in
// declaration order (later objects occlude earlier ones), watermark last.
// Buffers come from the shared image pool; callers hand them back with
// system.PutImage once encoded.
func (r *Renderer) RenderFrame(frame int) *image.RGBA {
	img := system.GetImage(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), &image.Uniform{r.bg}, image.Point{}, draw.Src)

	for _, obj := range r.spec.Objects {
		switch o := obj.(type) {
		case dsl.TextCommand:
			r.drawText(img, o, frame)
		case dsl.ShapeCommand:
			r.drawShape(img, o, frame)
		}
	}

	r.drawWatermark(img)
	return img
}

// RenderAll rasterizes the full frame sequence in order.
func (r *Renderer) RenderAll() []*image.RGBA {
	frames := make([]*image.RGBA, 0, r.totalFrames)
	for i := 0; i < r.totalFrames; i++ {
		frames = append(frames, r.RenderFrame(i))
	}
	return frames
}

func (r *Renderer) drawText(img *image.RGBA, cmd dsl.TextCommand, frame int) {
	pos := r.position(cmd.ID, frame)
	cr, cg, cb := dsl.HexToRGB(cmd.Color)
	r.drawString(img, cmd.Text, pos.X, pos.Y, cmd.Size, color.RGBA{cr, cg, cb, 255})
}

func (r *Renderer) drawShape(img *image.RGBA, cmd dsl.ShapeCommand, frame int) {
	pos := r.position(cmd.ID, frame)
	cr, cg, cb := dsl.HexToRGB(cmd.Color)
	col := color.RGBA{cr, cg, cb, 255}

	switch cmd.Kind {
	case dsl.ShapeCircle:
		fillCircle(img, pos.X, pos.Y, cmd.Radius, col)
	case dsl.ShapeRect:
		rect := image.Rect(pos.X, pos.Y, pos.X+cmd.Width, pos.Y+cmd.Height).Intersect(img.Bounds())
		draw.Draw(img, rect, &image.Uniform{col}, image.Point{}, draw.Src)
	}
}

// drawString anchors the text's top-left corner at (x, y).
func (r *Renderer) drawString(img *image.RGBA, s string, x, y, size int, col color.Color) {
	face := r.fonts.face(size)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// drawWatermark overlays the branding string in the bottom-right corner,
// sized with the canvas and inked for contrast against the background.
func (r *Renderer) drawWatermark(img *image.RGBA) {
	size := r.height / 12
	if size < 24 {
		size = 24
	}
	face := r.fonts.face(size)
	metrics := face.Metrics()

	textW := font.MeasureString(face, r.watermark).Ceil()
	textH := (metrics.Ascent + metrics.Descent).Ceil()

	x := r.width - textW - watermarkPadding
	y := r.height - textH - watermarkPadding

	r.drawString(img, r.watermark, x, y, size, contrastingColor(r.bg))
}

// contrastingColor picks a semi-transparent ink by background luminance:
// dark ink over light backgrounds, light ink over dark ones. RGBA is
// alpha-premultiplied, so channels must not exceed alpha or the Over
// blend overflows.
func contrastingColor(bg color.RGBA) color.RGBA {
	luminance := (0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)) / 255.0
	if luminance > 0.5 {
		return color.RGBA{50, 50, 50, 200}
	}
	return color.RGBA{200, 200, 200, 200}
}

// fillCircle rasterizes a filled disc centered at (cx, cy) by scanning
// rows and solving the chord extent per row.
func fillCircle(img *image.RGBA, cx, cy, radius int, col color.RGBA) {
	bounds := img.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		y := cy + dy
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		dx := int(math.Sqrt(float64(radius*radius - dy*dy)))
		x0, x1 := cx-dx, cx+dx
		if x0 < bounds.Min.X {
			x0 = bounds.Min.X
		}
		if x1 >= bounds.Max.X {
			x1 = bounds.Max.X - 1
		}
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// PadOptions configures a signature Pad.
type PadOptions struct {
	// Bounds is the pad area in host coordinates.
	Bounds image.Rectangle
	// Scale is the number of raster pixels per host unit.
	Scale int
	// PenWidth is the stroke width in raster pixels.
	PenWidth int
	Ink      color.Color
}

// Pad is a freehand signature surface. Pointer events outside Bounds are left
// to the host, except while a stroke that started inside is still in progress.
type Pad struct {
	bounds   image.Rectangle
	scale    int
	pen      int
	ink      image.Image
	canvas   *image.NRGBA
	drawing  bool
	last     image.Point
	empty    bool
	onStroke func([]byte)
}

// NewPad returns an empty pad.
func NewPad(opts PadOptions) *Pad {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.PenWidth <= 0 {
		opts.PenWidth = 2
	}
	if opts.Ink == nil {
		opts.Ink = color.Black
	}
	pad := &Pad{
		bounds: opts.Bounds.Canon(),
		scale:  opts.Scale,
		pen:    opts.PenWidth,
		ink:    image.NewUniform(opts.Ink),
	}
	pad.reset()
	return pad
}

// OnStrokeEnd registers fn to receive a PNG snapshot after each completed
// stroke, or nil after Clear.
func (p *Pad) OnStrokeEnd(fn func([]byte)) {
	p.onStroke = fn
}

// Bounds returns the pad area in host coordinates.
func (p *Pad) Bounds() image.Rectangle {
	return p.bounds
}

// Press starts a stroke at pt. It reports whether the event was consumed.
func (p *Pad) Press(pt image.Point) bool {
	if !pt.In(p.bounds) {
		return false
	}
	p.drawing = true
	p.last = p.toRaster(pt)
	p.stamp(p.last)
	return true
}

// Drag extends the current stroke to pt. Points outside the pad are clamped to
// its edge. It reports whether the event was consumed.
func (p *Pad) Drag(pt image.Point) bool {
	if !p.drawing {
		return false
	}
	next := p.toRaster(p.clamp(pt))
	p.line(p.last, next)
	p.last = next
	return true
}

// Release ends the current stroke and emits a snapshot. It reports whether the
// event was consumed.
func (p *Pad) Release() bool {
	if !p.drawing {
		return false
	}
	p.drawing = false
	if p.onStroke != nil {
		p.onStroke(p.Snapshot())
	}
	return true
}

// Drawing reports whether a stroke is in progress.
func (p *Pad) Drawing() bool {
	return p.drawing
}

// DrawStroke draws a complete stroke through points in host coordinates.
func (p *Pad) DrawStroke(points []image.Point) {
	if len(points) == 0 {
		return
	}
	if !p.Press(points[0]) {
		return
	}
	for _, pt := range points[1:] {
		p.Drag(pt)
	}
	p.Release()
}

// Clear erases the pad and notifies the stroke listener with nil.
func (p *Pad) Clear() {
	p.reset()
	if p.onStroke != nil {
		p.onStroke(nil)
	}
}

// IsEmpty reports whether nothing has been drawn since the last clear.
func (p *Pad) IsEmpty() bool {
	return p.empty
}

// Snapshot encodes the pad as PNG. An empty pad yields nil.
func (p *Pad) Snapshot() []byte {
	if p.empty {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.canvas); err != nil {
		return nil
	}
	return buf.Bytes()
}

// Image returns the raster backing the pad.
func (p *Pad) Image() image.Image {
	return p.canvas
}

// InkBounds returns the smallest rectangle containing ink, or an empty
// rectangle when the pad is blank.
func InkBounds(img image.Image) image.Rectangle {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y
	found := false
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			if r > 0xf000 && g > 0xf000 && b > 0xf000 {
				continue
			}
			minX, minY = min(minX, x), min(minY, y)
			maxX, maxY = max(maxX, x), max(maxY, y)
			found = true
		}
	}
	if !found {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

func (p *Pad) reset() {
	width := max(p.bounds.Dx()*p.scale, 1)
	height := max(p.bounds.Dy()*p.scale, 1)
	p.canvas = image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(p.canvas, p.canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	p.drawing = false
	p.empty = true
}

func (p *Pad) clamp(pt image.Point) image.Point {
	pt.X = min(max(pt.X, p.bounds.Min.X), p.bounds.Max.X-1)
	pt.Y = min(max(pt.Y, p.bounds.Min.Y), p.bounds.Max.Y-1)
	return pt
}

// toRaster maps a host point to the centre of its raster cell.
func (p *Pad) toRaster(pt image.Point) image.Point {
	local := pt.Sub(p.bounds.Min)
	return image.Pt(local.X*p.scale+p.scale/2, local.Y*p.scale+p.scale/2)
}

func (p *Pad) stamp(center image.Point) {
	half := p.pen / 2
	dot := image.Rect(center.X-half, center.Y-half, center.X-half+p.pen, center.Y-half+p.pen)
	draw.Draw(p.canvas, dot.Intersect(p.canvas.Bounds()), p.ink, image.Point{}, draw.Src)
	p.empty = false
}

// line stamps the pen along the segment from a to b.
func (p *Pad) line(a, b image.Point) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	err := dx + dy
	for {
		p.stamp(a)
		if a == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			a.X += sx
		}
		if e2 <= dx {
			err += dx
			a.Y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

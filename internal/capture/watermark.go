package capture

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TimestampLayout formats the capture time burned into photos.
const TimestampLayout = "02/01/2006 15:04:05"

const (
	barPadding = 6
	barAlpha   = 160
)

// Watermark returns a copy of img with a semi-opaque bar along the bottom edge
// holding one text line per entry in lines.
func Watermark(img image.Image, lines []string) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	if len(lines) == 0 {
		return out
	}

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	barHeight := len(lines)*lineHeight + 2*barPadding
	if barHeight > out.Bounds().Dy() {
		barHeight = out.Bounds().Dy()
	}
	bar := image.Rect(0, out.Bounds().Dy()-barHeight, out.Bounds().Dx(), out.Bounds().Dy())
	draw.Draw(out, bar, image.NewUniform(color.NRGBA{A: barAlpha}), image.Point{}, draw.Over)

	drawer := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	for i, line := range lines {
		drawer.Dot = fixed.P(bar.Min.X+barPadding, bar.Min.Y+barPadding+ascent+i*lineHeight)
		drawer.DrawString(line)
	}
	return out
}

// Downscale shrinks img so its longest side is at most maxDimension. Images
// already within the limit, or a non-positive limit, are returned unchanged.
func Downscale(img image.Image, maxDimension int) image.Image {
	bounds := img.Bounds()
	longest := max(bounds.Dx(), bounds.Dy())
	if maxDimension <= 0 || longest <= maxDimension {
		return img
	}
	ratio := float64(maxDimension) / float64(longest)
	width := max(int(float64(bounds.Dx())*ratio), 1)
	height := max(int(float64(bounds.Dy())*ratio), 1)
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, bounds, draw.Src, nil)
	return out
}

package bmp

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ColorModel implements image.Image.
func (img *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.width, img.height)
}

// At implements image.Image. Out-of-range coordinates return transparent
// black instead of panicking, as image.Image requires.
func (img *Image) At(x, y int) color.Color {
	if !img.InBounds(x, y) {
		return color.RGBA{}
	}
	return img.pixels[y*img.width+x]
}

// FromImage converts any image to a 24-bit Image. Alpha is composited over
// black and then dropped.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Over)
	return fromRGBA(rgba)
}

// Scale returns a copy resampled to width x height.
func (img *Image) Scale(width, height int) *Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return fromRGBA(dst)
}

func fromRGBA(rgba *image.RGBA) *Image {
	out := New(rgba.Rect.Dx(), rgba.Rect.Dy())
	for y := 0; y < out.height; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < out.width; x++ {
			out.pixels[y*out.width+x] = Pixel{R: row[x*4], G: row[x*4+1], B: row[x*4+2]}
		}
	}
	return out
}

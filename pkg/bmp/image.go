package bmp

import (
	"fmt"
	"iter"
)

// Pixel は1ピクセルのRGB値 (アルファなし)
type Pixel struct {
	R, G, B uint8
}

// RGBA implements color.Color. Pixels are always opaque.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	r = uint32(p.R)
	r |= r << 8
	g = uint32(p.G)
	g |= g << 8
	b = uint32(p.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (p Pixel) String() string {
	return fmt.Sprintf("#%02x%02x%02x", p.R, p.G, p.B)
}

// Image はメモリ上の24ビット画像。
// (0, 0) は左上で、ピクセルは上の行から順に格納される。
// 1つのImageを複数のゴルーチンから同時に変更してはならない。
type Image struct {
	width  int
	height int
	pixels []Pixel // len == width*height
}

// New は黒で塗りつぶされた画像を作成する。
// 負のサイズはプログラミングエラーとしてpanicする。
func New(width, height int) *Image {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("bmp: negative image size %dx%d", width, height))
	}
	return &Image{
		width:  width,
		height: height,
		pixels: make([]Pixel, width*height),
	}
}

// Width は画像の幅を返す
func (img *Image) Width() int {
	return img.width
}

// Height は画像の高さを返す
func (img *Image) Height() int {
	return img.height
}

// Pixels はピクセルのコピーを行優先順で返す
func (img *Image) Pixels() []Pixel {
	out := make([]Pixel, len(img.pixels))
	copy(out, img.pixels)
	return out
}

// InBounds は座標が画像内にあるかどうかを返す
func (img *Image) InBounds(x, y int) bool {
	return x >= 0 && x < img.width && y >= 0 && y < img.height
}

// GetPixel は (x, y) のピクセルを返す。範囲外の場合は *BoundsError でpanicする。
func (img *Image) GetPixel(x, y int) Pixel {
	img.mustBeInBounds(x, y)
	return img.pixels[y*img.width+x]
}

// SetPixel は (x, y) のピクセルを設定する。範囲外の場合は *BoundsError でpanicする。
func (img *Image) SetPixel(x, y int, p Pixel) {
	img.mustBeInBounds(x, y)
	img.pixels[y*img.width+x] = p
}

func (img *Image) mustBeInBounds(x, y int) {
	if !img.InBounds(x, y) {
		panic(&BoundsError{X: x, Y: y, Width: img.width, Height: img.height})
	}
}

// Coordinates は全ピクセルの (x, y) を行優先順 (yが外側、xが内側) で列挙する。
// 何度でも呼び出せる。
//
//	for x, y := range img.Coordinates() {
//		img.SetPixel(x, y, bmp.Pixel{R: uint8(x), G: uint8(y), B: 200})
//	}
func (img *Image) Coordinates() iter.Seq2[int, int] {
	width, height := img.width, img.height
	return func(yield func(int, int) bool) {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if !yield(x, y) {
					return
				}
			}
		}
	}
}

// Fill は全ピクセルを p で塗りつぶす
func (img *Image) Fill(p Pixel) {
	for i := range img.pixels {
		img.pixels[i] = p
	}
}

// Resize は画像サイズを変更する。重なる左上の領域は保持され、新しい領域は黒になる。
func (img *Image) Resize(width, height int) {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("bmp: negative image size %dx%d", width, height))
	}
	pixels := make([]Pixel, width*height)
	w := min(width, img.width)
	for y := 0; y < min(height, img.height); y++ {
		copy(pixels[y*width:y*width+w], img.pixels[y*img.width:y*img.width+w])
	}
	img.width = width
	img.height = height
	img.pixels = pixels
}

// Clone は画像の複製を返す
func (img *Image) Clone() *Image {
	return &Image{
		width:  img.width,
		height: img.height,
		pixels: img.Pixels(),
	}
}

// Equal は2つの画像のサイズと全ピクセルが一致するかどうかを返す。
// other が nil の場合は false。
func (img *Image) Equal(other *Image) bool {
	if other == nil {
		return false
	}
	if img.width != other.width || img.height != other.height {
		return false
	}
	for i, p := range img.pixels {
		if other.pixels[i] != p {
			return false
		}
	}
	return true
}

// row は y 行目のピクセルを返す（コピーしない）
func (img *Image) row(y int) []Pixel {
	return img.pixels[y*img.width : (y+1)*img.width]
}

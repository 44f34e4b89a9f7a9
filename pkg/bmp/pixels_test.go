package bmp

import (
	"bytes"
	"errors"
	"testing"
)

func TestRowStride(t *testing.T) {
	tests := []struct {
		width   int
		stride  int
		padding int
	}{
		{0, 0, 0},
		{1, 4, 1},
		{2, 8, 2},
		{3, 12, 3},
		{4, 12, 0},
		{5, 16, 1},
		{6, 20, 2},
		{7, 24, 3},
		{8, 24, 0},
		{256, 768, 0},
	}

	for _, tt := range tests {
		if got := RowStride(tt.width); got != tt.stride {
			t.Errorf("RowStride(%d) = %d, want %d", tt.width, got, tt.stride)
		}
		if got := Padding(tt.width); got != tt.padding {
			t.Errorf("Padding(%d) = %d, want %d", tt.width, got, tt.padding)
		}
	}
}

func TestEncodePixels_ChannelOrder(t *testing.T) {
	img := New(1, 1)
	img.SetPixel(0, 0, Pixel{R: 10, G: 20, B: 30})

	got := EncodePixels(img)
	want := []byte{30, 20, 10, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDecodePixels_ChannelOrder(t *testing.T) {
	img, err := DecodeBytes(buildBMP(1, 1, []byte{30, 20, 10, 0}))
	if err != nil {
		t.Fatalf("DecodeBytes failed: %v", err)
	}

	want := Pixel{R: 10, G: 20, B: 30}
	if got := img.GetPixel(0, 0); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEncodePixels_Padding(t *testing.T) {
	// 幅5 → 15バイト/行 → パディング1バイト
	img := New(5, 2)
	for x, y := range img.Coordinates() {
		img.SetPixel(x, y, Pixel{R: 0xAA, G: 0xBB, B: 0xCC})
	}

	data := EncodePixels(img)
	if len(data) != 2*16 {
		t.Fatalf("expected 32 bytes, got %d", len(data))
	}
	for row := 0; row < 2; row++ {
		if pad := data[row*16+15]; pad != 0 {
			t.Errorf("row %d: padding byte should be 0, got %d", row, pad)
		}
		if data[row*16+14] != 0xAA {
			t.Errorf("row %d: last pixel red should be 0xAA, got %#x", row, data[row*16+14])
		}
	}
}

func TestDecodePixels_PaddingDoesNotLeak(t *testing.T) {
	// パディングにゴミが入っていても次の行を壊さない
	row0 := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 0xFF}
	row1 := []byte{21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 0xEE}
	img, err := DecodeBytes(buildBMP(5, 2, row0, row1))
	if err != nil {
		t.Fatalf("DecodeBytes failed: %v", err)
	}

	// ボトムアップなのでファイルの最初の行が y=1
	if got, want := img.GetPixel(0, 1), (Pixel{R: 3, G: 2, B: 1}); got != want {
		t.Errorf("(0,1): expected %v, got %v", want, got)
	}
	if got, want := img.GetPixel(4, 1), (Pixel{R: 15, G: 14, B: 13}); got != want {
		t.Errorf("(4,1): expected %v, got %v", want, got)
	}
	if got, want := img.GetPixel(0, 0), (Pixel{R: 23, G: 22, B: 21}); got != want {
		t.Errorf("(0,0): expected %v, got %v", want, got)
	}
}

func TestDecodePixels_Orientation(t *testing.T) {
	top := []byte{0, 0, 255, 0}    // 赤
	middle := []byte{0, 255, 0, 0} // 緑
	bottom := []byte{255, 0, 0, 0} // 青

	bottomUp, err := DecodeBytes(buildBMP(1, 3, bottom, middle, top))
	if err != nil {
		t.Fatalf("bottom-up decode failed: %v", err)
	}
	topDown, err := DecodeBytes(buildBMP(1, -3, top, middle, bottom))
	if err != nil {
		t.Fatalf("top-down decode failed: %v", err)
	}

	if !bottomUp.Equal(topDown) {
		t.Error("top-down file should decode to the same image as the reversed bottom-up file")
	}
	if got := topDown.GetPixel(0, 0); got != (Pixel{R: 255}) {
		t.Errorf("top row should be red, got %v", got)
	}
	if got := topDown.GetPixel(0, 2); got != (Pixel{B: 255}) {
		t.Errorf("bottom row should be blue, got %v", got)
	}
}

func TestDecodePixels_Truncated(t *testing.T) {
	data := buildBMP(5, 2, make([]byte, 16), make([]byte, 16))

	for _, cut := range []int{1, 15, 16, 31} {
		_, err := DecodeBytes(data[:len(data)-cut])
		if !errors.Is(err, ErrTruncatedData) {
			t.Errorf("cut %d bytes: expected ErrTruncatedData, got %v", cut, err)
		}
	}
}

func TestDecodePixels_HugeDimensions(t *testing.T) {
	// 巨大なサイズを宣言した小さなファイルは割り当て前に拒否される
	data := buildBMP(1<<30, 1<<30, make([]byte, 16))

	_, err := DecodeBytes(data)
	if !errors.Is(err, ErrTruncatedData) {
		t.Fatalf("expected ErrTruncatedData, got %v", err)
	}

	var bmpErr *Error
	if !errors.As(err, &bmpErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if bmpErr.Field != "pixelData" {
		t.Errorf("expected field pixelData, got %s", bmpErr.Field)
	}
}

func TestDecodePixels_ZeroWidthTallImage(t *testing.T) {
	img, err := DecodeBytes(buildBMP(0, 1<<30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width() != 0 || len(img.Pixels()) != 0 {
		t.Errorf("expected empty pixel plane, got %dx%d", img.Width(), img.Height())
	}
}

func TestWritePixels_MatchesEncodePixels(t *testing.T) {
	img := New(3, 4)
	for x, y := range img.Coordinates() {
		img.SetPixel(x, y, Pixel{R: uint8(x * 40), G: uint8(y * 50), B: uint8(x + y)})
	}

	var buf bytes.Buffer
	if err := img.WritePixels(&buf); err != nil {
		t.Fatalf("WritePixels failed: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), EncodePixels(img)) {
		t.Error("WritePixels and EncodePixels should produce identical bytes")
	}
}

package bmp

import (
	"bufio"
	"io"
)

// RowStride はパディングを含む1行のバイト数を返す (4バイト境界)
func RowStride(width int) int {
	return (width*bytesPerPixel + 3) &^ 3
}

// Padding は1行あたりのパディングバイト数 (0〜3) を返す
func Padding(width int) int {
	return RowStride(width) - width*bytesPerPixel
}

// DecodePixels はピクセル領域をデコードする。
// data は h.File.DataOffset から始まるバイト列で、余分な末尾は無視される。
// パディングの内容は検証しない。
func DecodePixels(data []byte, h *Header) ([]Pixel, error) {
	width := h.Width()
	height := h.Height()
	stride := h.RowStride()

	// 割り当て前に長さを確認する（巨大なサイズを宣言したヘッダー対策）
	need := h.PixelDataLen()
	if uint64(len(data)) < need {
		return nil, truncated(int64(h.File.DataOffset)+int64(len(data)), "pixelData", need, uint64(len(data)))
	}

	pixels := make([]Pixel, width*height)
	if len(pixels) == 0 {
		return pixels, nil
	}
	for y := 0; y < height; y++ {
		// BMPはボトムアップ形式（topDownでない場合）
		destY := y
		if !h.TopDown {
			destY = height - 1 - y
		}

		row := data[y*stride : y*stride+width*bytesPerPixel]
		dst := pixels[destY*width : (destY+1)*width]
		for x := range dst {
			dst[x] = Pixel{
				R: row[x*3+2],
				G: row[x*3+1],
				B: row[x*3],
			}
		}
	}

	return pixels, nil
}

// EncodePixels は画像のピクセル領域をボトムアップ・BGR順・4バイト境界で返す
func EncodePixels(img *Image) []byte {
	stride := RowStride(img.width)
	out := make([]byte, stride*img.height)
	for i := 0; i < img.height; i++ {
		encodeRow(out[i*stride:(i+1)*stride], img.row(img.height-1-i))
	}
	return out
}

// WritePixels はピクセル領域を1行ずつ w に書き出す
func (img *Image) WritePixels(w io.Writer) error {
	bw := bufio.NewWriter(w)
	row := make([]byte, RowStride(img.width))
	for y := img.height - 1; y >= 0; y-- {
		encodeRow(row, img.row(y))
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// encodeRow は1行をBGR順で dst に書き込み、残りを0で埋める
func encodeRow(dst []byte, src []Pixel) {
	for x, p := range src {
		dst[x*3] = p.B
		dst[x*3+1] = p.G
		dst[x*3+2] = p.R
	}
	clear(dst[len(src)*bytesPerPixel:])
}

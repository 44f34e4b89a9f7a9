// Package bmp は非圧縮24ビットBMP画像の読み書きを提供する。
//
// サポートする形式:
//   - BITMAPINFOHEADER (40バイト) のみ
//   - 24ビット/ピクセル、BI_RGB (非圧縮) のみ
//   - ボトムアップ (高さが正) とトップダウン (高さが負) の両方を読み込める
//   - 書き込みは常にボトムアップ
//
// パレット形式 (1/4/8ビット) とRLE圧縮は扱わない。
package bmp

// BMPフォーマットの定数
const (
	fileHeaderSize = 14 // ファイルヘッダー
	infoHeaderSize = 40 // BITMAPINFOHEADER
	headerSize     = fileHeaderSize + infoHeaderSize

	bitsPerPixel  = 24
	bytesPerPixel = bitsPerPixel / 8

	biRGB = 0 // 非圧縮
)

// 各フィールドのファイル先頭からのオフセット
const (
	offsetMagic       = 0
	offsetFileSize    = 2
	offsetDataOffset  = 10
	offsetInfoSize    = 14
	offsetWidth       = 18
	offsetHeight      = 22
	offsetPlanes      = 26
	offsetBitCount    = 28
	offsetCompression = 30
	offsetImageSize   = 34
)

// シグネチャ "BM"
const (
	magic0 = 'B'
	magic1 = 'M'
)

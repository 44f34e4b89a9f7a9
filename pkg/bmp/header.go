package bmp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// FileHeader はBMPファイルヘッダー (14バイト)
type FileHeader struct {
	Signature  [2]byte // "BM"
	FileSize   uint32  // ファイルサイズ
	Reserved1  uint16  // 予約
	Reserved2  uint16  // 予約
	DataOffset uint32  // 画像データへのオフセット
}

// InfoHeader はBMP情報ヘッダー (BITMAPINFOHEADER, 40バイト)
type InfoHeader struct {
	HeaderSize      uint32 // ヘッダーサイズ (40)
	Width           int32  // 画像の幅
	Height          int32  // 画像の高さ (負の場合はトップダウン)
	Planes          uint16 // プレーン数 (常に1)
	BitCount        uint16 // ビット深度 (24のみ)
	Compression     uint32 // 圧縮方式 (0のみ)
	ImageSize       uint32 // 画像データサイズ
	XPixelsPerMeter int32  // 水平解像度
	YPixelsPerMeter int32  // 垂直解像度
	ColorsUsed      uint32 // 使用色数
	ColorsImportant uint32 // 重要な色数
}

// Header は検証済みのファイルヘッダーと情報ヘッダーの組
type Header struct {
	File    FileHeader
	Info    InfoHeader
	TopDown bool // 行がトップダウン順に格納されている
}

// Width は画像の幅を返す
func (h *Header) Width() int {
	return int(h.Info.Width)
}

// Height は画像の高さ (絶対値) を返す
func (h *Header) Height() int {
	if h.Info.Height < 0 {
		return -int(h.Info.Height)
	}
	return int(h.Info.Height)
}

// RowStride はパディングを含む1行のバイト数を返す
func (h *Header) RowStride() int {
	return RowStride(h.Width())
}

// Padding は1行あたりのパディングバイト数を返す
func (h *Header) Padding() int {
	return Padding(h.Width())
}

// PixelDataLen はピクセル領域の必要バイト数を返す。
// 幅と高さが最大でも uint64 に収まる。
func (h *Header) PixelDataLen() uint64 {
	return uint64(h.Height()) * uint64(h.RowStride())
}

// DecodeHeader はファイル先頭54バイトからヘッダーを読み込み、検証する。
// data は54バイト以上あればよく、残りは無視される。
func DecodeHeader(data []byte) (*Header, error) {
	if len(data) < 2 {
		return nil, truncated(offsetMagic, "signature", 2, uint64(len(data)))
	}

	// シグネチャを確認
	if data[0] != magic0 || data[1] != magic1 {
		return nil, malformed(offsetMagic, "signature", `"BM"`, fmt.Sprintf("%q", data[:2]))
	}

	if len(data) < headerSize {
		return nil, truncated(int64(len(data)), "header", headerSize, uint64(len(data)))
	}

	var h Header
	r := bytes.NewReader(data[:headerSize])
	// 長さは確認済みなのでbinary.Readは失敗しない
	if err := binary.Read(r, binary.LittleEndian, &h.File); err != nil {
		return nil, truncated(0, "fileHeader", fileHeaderSize, uint64(len(data)))
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Info); err != nil {
		return nil, truncated(fileHeaderSize, "infoHeader", infoHeaderSize, uint64(len(data)-fileHeaderSize))
	}

	if err := h.validate(); err != nil {
		return nil, err
	}
	return &h, nil
}

// validate はヘッダーの各フィールドを検証する
func (h *Header) validate() error {
	info := &h.Info

	if info.HeaderSize != infoHeaderSize {
		return malformed(offsetInfoSize, "headerSize", fmt.Sprint(infoHeaderSize), info.HeaderSize)
	}

	// サポートするビット深度を確認
	if info.BitCount != bitsPerPixel {
		return &Error{
			Kind:     KindUnsupportedBitDepth,
			Offset:   offsetBitCount,
			Field:    "bitsPerPixel",
			Expected: fmt.Sprint(bitsPerPixel),
			Actual:   fmt.Sprint(info.BitCount),
		}
	}

	// 圧縮方式を確認
	if info.Compression != biRGB {
		return &Error{
			Kind:     KindUnsupportedCompression,
			Offset:   offsetCompression,
			Field:    "compression",
			Expected: fmt.Sprint(biRGB),
			Actual:   fmt.Sprint(info.Compression),
		}
	}

	if info.Planes != 1 {
		return malformed(offsetPlanes, "planes", "1", info.Planes)
	}

	if info.Width < 0 {
		return malformed(offsetWidth, "width", ">= 0", info.Width)
	}

	// MinInt32 は符号を反転できない
	if info.Height == math.MinInt32 {
		return malformed(offsetHeight, "height", fmt.Sprintf("> %d", math.MinInt32), info.Height)
	}
	h.TopDown = info.Height < 0

	if h.File.DataOffset < headerSize {
		return malformed(offsetDataOffset, "dataOffset", fmt.Sprintf(">= %d", headerSize), h.File.DataOffset)
	}

	return nil
}

// checkEncodable は指定サイズがヘッダーのフィールドに収まるかを確認する。
// 幅と高さは int32、ファイルサイズは uint32 に収まらなければならない。
func checkEncodable(width, height int) error {
	if width < 0 || int64(width) > math.MaxInt32 {
		return malformed(offsetWidth, "width", fmt.Sprintf("0..%d", math.MaxInt32), width)
	}
	if height < 0 || int64(height) > math.MaxInt32 {
		return malformed(offsetHeight, "height", fmt.Sprintf("0..%d", math.MaxInt32), height)
	}
	// 幅と高さが int32 に収まれば uint64 でオーバーフローしない
	fileSize := uint64(headerSize) + uint64(height)*uint64(RowStride(width))
	if fileSize > math.MaxUint32 {
		return malformed(offsetFileSize, "fileSize", fmt.Sprintf("<= %d", uint64(math.MaxUint32)), fileSize)
	}
	return nil
}

// NewHeader は指定サイズの画像を書き出すためのヘッダーを作成する。
// 高さは常に正 (ボトムアップ) で、解像度とパレットのフィールドは0になる。
// サイズがヘッダーに収まらない場合は MalformedHeader を返す。
func NewHeader(width, height int) (Header, error) {
	if err := checkEncodable(width, height); err != nil {
		return Header{}, err
	}
	dataLen := uint32(uint64(height) * uint64(RowStride(width)))
	return Header{
		File: FileHeader{
			Signature:  [2]byte{magic0, magic1},
			FileSize:   headerSize + dataLen,
			DataOffset: headerSize,
		},
		Info: InfoHeader{
			HeaderSize:  infoHeaderSize,
			Width:       int32(width),
			Height:      int32(height),
			Planes:      1,
			BitCount:    bitsPerPixel,
			Compression: biRGB,
			ImageSize:   dataLen,
		},
	}, nil
}

// EncodeHeader は指定サイズの54バイトのヘッダーを返す
func EncodeHeader(width, height int) ([]byte, error) {
	h, err := NewHeader(width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(headerSize)
	// bytes.Buffer への書き込みは失敗しない
	_, _ = h.WriteTo(&buf)
	return buf.Bytes(), nil
}

// WriteTo はヘッダーをリトルエンディアンで書き出し、書き込んだバイト数を返す
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := binary.Write(cw, binary.LittleEndian, &h.File); err != nil {
		return cw.n, err
	}
	if err := binary.Write(cw, binary.LittleEndian, &h.Info); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

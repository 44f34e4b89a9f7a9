package bmp

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/zurustar/bmp24/pkg/logger"
)

// Decode は r から全データを読み込み、BMPとしてデコードする
func Decode(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ioFailure("read", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes はバイト列をBMPとしてデコードする。
// 失敗した場合に途中までの画像を返すことはない。
func DecodeBytes(data []byte) (*Image, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	// 画像データの開始位置までスキップ
	offset := int64(h.File.DataOffset)
	if offset > int64(len(data)) {
		return nil, truncated(int64(len(data)), "dataOffset", uint64(offset), uint64(len(data)))
	}

	pixels, err := DecodePixels(data[offset:], h)
	if err != nil {
		return nil, err
	}
	logSizeMismatch(h)

	return &Image{
		width:  h.Width(),
		height: h.Height(),
		pixels: pixels,
	}, nil
}

// logSizeMismatch はサイズ系フィールドが実際のピクセル領域と食い違う場合にログを出す。
// 0 を書くエンコーダーが多いので、エラーにはしない。
func logSizeMismatch(h *Header) {
	dataLen := h.PixelDataLen()
	if h.Info.ImageSize != 0 && uint64(h.Info.ImageSize) != dataLen {
		logger.GetLogger().Debug("bmp: image size field mismatch",
			"imageSize", h.Info.ImageSize, "pixelDataLen", dataLen)
	}
	if want := uint64(h.File.DataOffset) + dataLen; h.File.FileSize != 0 && uint64(h.File.FileSize) != want {
		logger.GetLogger().Debug("bmp: file size field mismatch",
			"fileSize", h.File.FileSize, "expected", want)
	}
}

// DecodeConfig はヘッダーのみを読み込んで検証する
func DecodeConfig(r io.Reader) (*Header, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, ioFailure("read", err)
	}
	return DecodeHeader(buf[:n])
}

// Open はファイルを読み込んでデコードする
func Open(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioFailure("open", err)
	}

	img, err := DecodeBytes(data)
	if err != nil {
		logger.GetLogger().Debug("bmp: decode failed", "path", path, "error", err)
		return nil, err
	}

	logger.GetLogger().Debug("bmp: opened", "path", path, "width", img.width, "height", img.height)
	return img, nil
}

// Encode はヘッダーとピクセル領域を w に書き出す
func (img *Image) Encode(w io.Writer) error {
	h, err := NewHeader(img.width, img.height)
	if err != nil {
		return err
	}
	if _, err := h.WriteTo(w); err != nil {
		return ioFailure("write header", err)
	}
	if err := img.WritePixels(w); err != nil {
		return ioFailure("write pixels", err)
	}
	return nil
}

// Bytes はBMPファイル全体のバイト列を返す
func (img *Image) Bytes() ([]byte, error) {
	header, err := EncodeHeader(img.width, img.height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(headerSize + RowStride(img.width)*img.height)
	buf.Write(header)
	buf.Write(EncodePixels(img))
	return buf.Bytes(), nil
}

// Save は画像をファイルに書き出す。既存のファイルは上書きされる。
func (img *Image) Save(path string) (err error) {
	// 書き出せないサイズなら空のファイルを作らない
	if err := checkEncodable(img.width, img.height); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return ioFailure("create", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ioFailure("close", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := img.Encode(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return ioFailure("flush", err)
	}

	logger.GetLogger().Debug("bmp: saved", "path", path, "width", img.width, "height", img.height)
	return nil
}

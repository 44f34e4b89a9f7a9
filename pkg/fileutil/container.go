package fileutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Container は拡張子で決まる圧縮形式
type Container int

const (
	Plain Container = iota
	Gzip
	Zstd
)

func (c Container) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "plain"
	}
}

// ContainerFor は拡張子 (.gz, .zst, 大文字小文字を無視) から圧縮形式を判定する
func ContainerFor(path string) Container {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return Gzip
	case ".zst":
		return Zstd
	default:
		return Plain
	}
}

// TrimContainer は圧縮の拡張子を取り除いたパスを返す ("a.bmp.zst" → "a.bmp")
func TrimContainer(path string) string {
	if ContainerFor(path) == Plain {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// OpenReader はファイルを開き、必要なら展開するReaderを返す。
// 呼び出し元でCloseする必要がある。
func OpenReader(path string) (io.ReadCloser, error) {
	actual, err := Resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(actual)
	if err != nil {
		return nil, err
	}

	switch ContainerFor(actual) {
	case Gzip:
		zr, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read gzip header of %s: %w", actual, err)
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case Zstd:
		dec, err := zstd.NewReader(bufio.NewReader(f), zstd.WithDecoderConcurrency(1))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create zstd decoder for %s: %w", actual, err)
		}
		rc := dec.IOReadCloser()
		return &readCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	default:
		return f, nil
	}
}

// ReadFile はファイル全体を展開して読み込む
func ReadFile(path string) ([]byte, error) {
	rc, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// CreateWriter はファイルを作成し、必要なら圧縮するWriterを返す。
// Closeで圧縮ストリームを終端してからファイルを閉じる。
func CreateWriter(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	switch ContainerFor(path) {
	case Gzip:
		zw := gzip.NewWriter(f)
		zw.Name = filepath.Base(TrimContainer(path))
		return &writeCloser{Writer: zw, closers: []io.Closer{zw, f}}, nil
	case Zstd:
		enc, err := zstd.NewWriter(f, zstd.WithEncoderConcurrency(1))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create zstd encoder for %s: %w", path, err)
		}
		return &writeCloser{Writer: enc, closers: []io.Closer{enc, f}}, nil
	default:
		return f, nil
	}
}

// WriteFile はデータを（必要なら圧縮して）ファイルに書き込む
func WriteFile(path string, data []byte) (err error) {
	wc, err := CreateWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = wc.Write(data)
	return err
}

// closeAll は全てを順に閉じ、最初のエラーを返す
func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error { return closeAll(r.closers) }

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error { return closeAll(w.closers) }

package bmp

import (
	"errors"
	"fmt"
)

// ErrorKind はBMPエラーの種類を表す
type ErrorKind string

const (
	KindMalformedHeader        ErrorKind = "MALFORMED_HEADER"
	KindUnsupportedBitDepth    ErrorKind = "UNSUPPORTED_BIT_DEPTH"
	KindUnsupportedCompression ErrorKind = "UNSUPPORTED_COMPRESSION"
	KindTruncatedData          ErrorKind = "TRUNCATED_DATA"
	KindIoFailure              ErrorKind = "IO_FAILURE"
)

// errors.Is で種類を判定するための番兵エラー
var (
	// ErrMalformedHeader はヘッダーが不正な場合のエラー
	ErrMalformedHeader = errors.New("malformed header")

	// ErrUnsupportedBitDepth は24ビット以外のビット深度の場合のエラー
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")

	// ErrUnsupportedCompression はBI_RGB以外の圧縮方式の場合のエラー
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrTruncatedData はデータが宣言より短い場合のエラー
	ErrTruncatedData = errors.New("truncated data")

	// ErrIoFailure は読み書き自体が失敗した場合のエラー
	ErrIoFailure = errors.New("i/o failure")
)

var kindSentinels = map[ErrorKind]error{
	KindMalformedHeader:        ErrMalformedHeader,
	KindUnsupportedBitDepth:    ErrUnsupportedBitDepth,
	KindUnsupportedCompression: ErrUnsupportedCompression,
	KindTruncatedData:          ErrTruncatedData,
	KindIoFailure:              ErrIoFailure,
}

// Error はBMPのデコード・エンコードで発生したエラー
type Error struct {
	Kind     ErrorKind
	Offset   int64  // 問題のあるバイト位置 (不明な場合は -1)
	Field    string // フィールド名 (例: "bitsPerPixel")
	Expected string // 期待値
	Actual   string // 実際の値
	Err      error  // 元のエラー (IoFailure の場合など)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("bmp: [%s]", e.Kind)
	if e.Field != "" {
		msg += " " + e.Field
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the kind sentinel and the wrapped cause, so both
// errors.Is(err, ErrTruncatedData) and errors.Is(err, fs.ErrNotExist) work.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var bmpErr *Error
	if !errors.As(err, &bmpErr) {
		return false
	}
	return bmpErr.Kind == kind
}

func malformed(offset int64, field string, expected string, actual any) *Error {
	return &Error{
		Kind:     KindMalformedHeader,
		Offset:   offset,
		Field:    field,
		Expected: expected,
		Actual:   fmt.Sprint(actual),
	}
}

func truncated(offset int64, field string, expected, actual uint64) *Error {
	return &Error{
		Kind:     KindTruncatedData,
		Offset:   offset,
		Field:    field,
		Expected: fmt.Sprintf("%d bytes", expected),
		Actual:   fmt.Sprintf("%d bytes", actual),
	}
}

func ioFailure(op string, err error) *Error {
	return &Error{
		Kind:   KindIoFailure,
		Offset: -1,
		Field:  op,
		Err:    err,
	}
}

// BoundsError is the panic value raised by GetPixel and SetPixel when the
// coordinates fall outside the image. It is not part of the Error taxonomy:
// callers are expected to check coordinates first.
type BoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("bmp: pixel (%d, %d) out of bounds for %dx%d image", e.X, e.Y, e.Width, e.Height)
}

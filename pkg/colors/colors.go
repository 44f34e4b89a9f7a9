// Package colors は名前付きの色 (CSS/SVG の147色) を bmp.Pixel として提供する。
package colors

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/zurustar/bmp24/pkg/bmp"
)

// よく使う色
var (
	Black   = bmp.Pixel{R: 0x00, G: 0x00, B: 0x00}
	White   = bmp.Pixel{R: 0xff, G: 0xff, B: 0xff}
	Red     = bmp.Pixel{R: 0xff, G: 0x00, B: 0x00}
	Lime    = bmp.Pixel{R: 0x00, G: 0xff, B: 0x00}
	Blue    = bmp.Pixel{R: 0x00, G: 0x00, B: 0xff}
	Yellow  = bmp.Pixel{R: 0xff, G: 0xff, B: 0x00}
	Cyan    = bmp.Pixel{R: 0x00, G: 0xff, B: 0xff}
	Magenta = bmp.Pixel{R: 0xff, G: 0x00, B: 0xff}
	Gray    = bmp.Pixel{R: 0x80, G: 0x80, B: 0x80}
)

// Lookup は色名 (大文字小文字を無視) に対応するピクセルを返す
func Lookup(name string) (bmp.Pixel, bool) {
	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return bmp.Pixel{}, false
	}
	return bmp.Pixel{R: c.R, G: c.G, B: c.B}, true
}

// Names は既知の色名をアルファベット順で返す
func Names() []string {
	out := make([]string, len(colornames.Names))
	copy(out, colornames.Names)
	return out
}

// Parse は "#rrggbb"、"#rgb"、または色名を解釈する
func Parse(s string) (bmp.Pixel, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return parseHex(hex)
	}
	if p, ok := Lookup(s); ok {
		return p, nil
	}
	return bmp.Pixel{}, fmt.Errorf("unknown color: %q", s)
}

func parseHex(hex string) (bmp.Pixel, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return bmp.Pixel{}, fmt.Errorf("invalid hex color: %q", "#"+hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return bmp.Pixel{}, fmt.Errorf("invalid hex color %q: %w", "#"+hex, err)
	}
	return bmp.Pixel{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

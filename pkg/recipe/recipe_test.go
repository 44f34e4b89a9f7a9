package recipe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zurustar/bmp24/pkg/bmp"
)

func TestDefault_Gradient(t *testing.T) {
	img, err := Default().Render()
	require.NoError(t, err)

	assert.Equal(t, 256, img.Width())
	assert.Equal(t, 256, img.Height())
	assert.Equal(t, bmp.Pixel{R: 0, G: 0, B: 200}, img.GetPixel(0, 0))
	assert.Equal(t, bmp.Pixel{R: 255, G: 10, B: 200}, img.GetPixel(255, 10))
	assert.Equal(t, bmp.Pixel{R: 17, G: 255, B: 200}, img.GetPixel(17, 255))
}

func TestParse(t *testing.T) {
	data := []byte(`
name: stripes
width: 4
height: 2
background: "#102030"
channels:
  r: x * 100
  b: 200
`)
	r, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "stripes", r.Name)
	assert.Equal(t, 4, r.Width)
	assert.Equal(t, "200", r.Channels.B)
	assert.Empty(t, r.Channels.G)

	img, err := r.Render()
	require.NoError(t, err)

	// G は背景色のまま、R は 300 → 44 に折り返す
	assert.Equal(t, bmp.Pixel{R: 0, G: 0x20, B: 200}, img.GetPixel(0, 1))
	assert.Equal(t, bmp.Pixel{R: 200, G: 0x20, B: 200}, img.GetPixel(2, 0))
	assert.Equal(t, bmp.Pixel{R: 44, G: 0x20, B: 200}, img.GetPixel(3, 0))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"YAMLとして不正", "width: [1, 2"},
		{"未知のキー", "width: 1\nheight: 1\ndepth: 3\n"},
		{"負の幅", "width: -1\nheight: 1\n"},
		{"大きすぎる高さ", "width: 1\nheight: 100000\n"},
		{"未知の背景色", "width: 1\nheight: 1\nbackground: plaid\n"},
		{"式の構文エラー", "width: 1\nheight: 1\nchannels:\n  r: x +\n"},
		{"未知の変数", "width: 1\nheight: 1\nchannels:\n  g: z * 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(tt.yaml))
			assert.Nil(t, r)
			assert.True(t, errors.Is(err, ErrInvalidRecipe), "expected %v, got %v", ErrInvalidRecipe, err)
		})
	}
}

func TestRender_EvaluationErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"真偽値", "x > 1"},
		{"ゼロ除算", "1 / (x - x)"},
		{"NaN", "sqrt(0 - 1 - x)"},
		{"引数の数", "min(x)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Recipe{Width: 2, Height: 2, Channels: Channels{R: tt.expr}}
			img, err := r.Render()
			assert.Nil(t, img)
			assert.Error(t, err)
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{255, 255},
		{256, 0},
		{300, 44},
		{12.9, 12},
		{-1, 255},
		{-0.5, 255},
		{-256, 0},
		{1e9, uint8(int64(1e9) % 256)},
	}

	for _, tt := range tests {
		got, err := wrap(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "wrap(%v)", tt.in)
	}
}

func TestFunctions(t *testing.T) {
	r := &Recipe{
		Width:  3,
		Height: 1,
		Channels: Channels{
			R: "clamp(x * 200)",
			G: "max(x, 1) + min(width, height)",
			B: "abs(0 - hypot(3, 4)) + floor(cos(0))",
		},
	}
	img, err := r.Render()
	require.NoError(t, err)

	assert.Equal(t, bmp.Pixel{R: 0, G: 2, B: 6}, img.GetPixel(0, 0))
	assert.Equal(t, bmp.Pixel{R: 200, G: 2, B: 6}, img.GetPixel(1, 0))
	assert.Equal(t, bmp.Pixel{R: 255, G: 3, B: 6}, img.GetPixel(2, 0))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "r.yml")
	out, err := Default().Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, out, 0644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), r)

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "expected %v, got %v", os.ErrNotExist, err)
}

func TestRender_EmptyImage(t *testing.T) {
	r := &Recipe{Width: 0, Height: 5, Channels: Channels{R: "x"}}
	img, err := r.Render()
	require.NoError(t, err)
	assert.Equal(t, 0, img.Width())
	assert.Equal(t, 5, img.Height())
}

// Package recipe generates images from YAML recipes.
//
// A recipe fixes the image size, a background color, and up to three channel
// expressions evaluated once per pixel. Expressions see the variables x, y,
// width and height and may call the functions listed in Functions. Results
// are truncated toward negative infinity and wrapped modulo 256, so "x" on a
// 300 pixel wide image repeats after 256 columns.
//
//	name: gradient
//	width: 256
//	height: 256
//	background: black
//	channels:
//	  r: x
//	  g: y
//	  b: 200
package recipe

import (
	"errors"
	"fmt"
	"os"

	"github.com/knetic/govaluate"
	"gopkg.in/yaml.v2"

	"github.com/zurustar/bmp24/pkg/bmp"
	"github.com/zurustar/bmp24/pkg/colors"
)

// MaxDimension は幅と高さの上限
const MaxDimension = 16384

// ErrInvalidRecipe はレシピの内容が不正な場合のエラー
var ErrInvalidRecipe = errors.New("invalid recipe")

// Recipe は画像生成の設定
type Recipe struct {
	Name       string   `yaml:"name,omitempty"`
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	Background string   `yaml:"background,omitempty"`
	Channels   Channels `yaml:"channels"`
}

// Channels はチャンネルごとの式。空の式は背景色の値をそのまま使う。
type Channels struct {
	R string `yaml:"r,omitempty"`
	G string `yaml:"g,omitempty"`
	B string `yaml:"b,omitempty"`
}

// Default は 256x256 のグラデーション (R=x, G=y, B=200) を返す
func Default() *Recipe {
	return &Recipe{
		Name:       "gradient",
		Width:      256,
		Height:     256,
		Background: "black",
		Channels: Channels{
			R: "x",
			G: "y",
			B: "200",
		},
	}
}

// Load はYAMLファイルからレシピを読み込む
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse はYAMLのレシピを解析して検証する。未知のキーはエラーになる。
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.UnmarshalStrict(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Marshal はレシピをYAMLに変換する
func (r *Recipe) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

// Validate はサイズ、背景色、式を確認する
func (r *Recipe) Validate() error {
	if r.Width < 0 || r.Width > MaxDimension {
		return fmt.Errorf("%w: width %d out of range [0, %d]", ErrInvalidRecipe, r.Width, MaxDimension)
	}
	if r.Height < 0 || r.Height > MaxDimension {
		return fmt.Errorf("%w: height %d out of range [0, %d]", ErrInvalidRecipe, r.Height, MaxDimension)
	}
	if _, err := r.background(); err != nil {
		return err
	}
	_, err := r.compile()
	return err
}

// Render は画像を生成する
func (r *Recipe) Render() (*bmp.Image, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	bg, _ := r.background()
	exprs, _ := r.compile()

	img := bmp.New(r.Width, r.Height)
	params := &pixelParams{width: r.Width, height: r.Height}
	for x, y := range img.Coordinates() {
		params.x, params.y = x, y
		p := bg
		for i, expr := range exprs {
			if expr == nil {
				continue
			}
			v, err := evalChannel(expr, params)
			if err != nil {
				return nil, fmt.Errorf("channel %s at (%d, %d): %w", channelNames[i], x, y, err)
			}
			switch i {
			case 0:
				p.R = v
			case 1:
				p.G = v
			case 2:
				p.B = v
			}
		}
		img.SetPixel(x, y, p)
	}
	return img, nil
}

var channelNames = [3]string{"r", "g", "b"}

func (r *Recipe) background() (bmp.Pixel, error) {
	if r.Background == "" {
		return colors.Black, nil
	}
	p, err := colors.Parse(r.Background)
	if err != nil {
		return bmp.Pixel{}, fmt.Errorf("%w: background: %v", ErrInvalidRecipe, err)
	}
	return p, nil
}

// compile は R, G, B の順に式をコンパイルする。空の式は nil になる。
func (r *Recipe) compile() ([3]*govaluate.EvaluableExpression, error) {
	var exprs [3]*govaluate.EvaluableExpression
	for i, src := range [3]string{r.Channels.R, r.Channels.G, r.Channels.B} {
		if src == "" {
			continue
		}
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(src, Functions())
		if err != nil {
			return exprs, fmt.Errorf("%w: channel %s: %v", ErrInvalidRecipe, channelNames[i], err)
		}
		for _, v := range expr.Vars() {
			if !knownVars[v] {
				return exprs, fmt.Errorf("%w: channel %s: unknown variable %q", ErrInvalidRecipe, channelNames[i], v)
			}
		}
		exprs[i] = expr
	}
	return exprs, nil
}

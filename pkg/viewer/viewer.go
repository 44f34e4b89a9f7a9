// Package viewer はBMP画像をEbitengineのウィンドウ、またはテキストで表示する。
package viewer

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/zurustar/bmp24/pkg/bmp"
	"github.com/zurustar/bmp24/pkg/logger"
)

const (
	// 論理画面の最小・最大サイズ
	minScreenWidth  = 320
	minScreenHeight = 240
	maxScreenWidth  = 1280
	maxScreenHeight = 960

	maxZoom = 16

	// ステータス行の高さ (basicfont 7x13 の1行分 + 余白)
	statusHeight = 18
)

var (
	// 背景色（暗いグレー）
	backgroundColor = color.RGBA{0x30, 0x30, 0x30, 0xFF}
	// テキスト色（白）
	textColor = color.White
	// デフォルトフォント
	defaultFace = text.NewGoXFace(basicfont.Face7x13)
)

// Game はEbitengineのゲームインターフェースを実装する
type Game struct {
	img       *bmp.Image
	screen    *ebiten.Image // img から遅延生成する
	zoom      int
	width     int // 論理画面の幅
	height    int // 論理画面の高さ
	showInfo  bool
	timeout   time.Duration
	startTime time.Time

	// カーソル位置のピクセル
	cursorX, cursorY int
	cursorIn         bool
}

// NewGame Gameを作成
func NewGame(img *bmp.Image, timeout time.Duration) *Game {
	zoom := FitZoom(img.Width(), img.Height(), maxScreenWidth, maxScreenHeight-statusHeight)
	w, h := screenSize(img.Width(), img.Height(), zoom)
	return &Game{
		img:       img,
		zoom:      zoom,
		width:     w,
		height:    h,
		showInfo:  true,
		timeout:   timeout,
		startTime: time.Now(),
	}
}

// FitZoom は画像が maxW x maxH に収まる最大の整数倍率 (1〜16) を返す
func FitZoom(w, h, maxW, maxH int) int {
	if w <= 0 || h <= 0 {
		return 1
	}
	zoom := min(maxW/w, maxH/h, maxZoom)
	return max(zoom, 1)
}

// screenSize は倍率 zoom の画像とステータス行が入る論理画面サイズを返す
func screenSize(w, h, zoom int) (int, int) {
	sw := min(max(w*zoom, minScreenWidth), maxScreenWidth)
	sh := min(max(h*zoom+statusHeight, minScreenHeight), maxScreenHeight)
	return sw, sh
}

// origin は画像を中央に置いたときの左上の座標を返す
func (g *Game) origin() (int, int) {
	ox := (g.width - g.img.Width()*g.zoom) / 2
	oy := (g.height - statusHeight - g.img.Height()*g.zoom) / 2
	return ox, oy
}

// pixelAt は論理画面の座標を画像の座標に変換する
func (g *Game) pixelAt(sx, sy int) (int, int, bool) {
	ox, oy := g.origin()
	dx, dy := sx-ox, sy-oy
	if dx < 0 || dy < 0 {
		return 0, 0, false
	}
	x, y := dx/g.zoom, dy/g.zoom
	return x, y, g.img.InBounds(x, y)
}

// Update ゲームロジックの更新（Ebitengineが毎フレーム呼び出す）
func (g *Game) Update() error {
	// タイムアウトチェック
	if g.timeout > 0 && time.Since(g.startTime) >= g.timeout {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.showInfo = !g.showInfo
	}

	g.cursorX, g.cursorY, g.cursorIn = g.pixelAt(ebiten.CursorPosition())
	return nil
}

// Draw 画面描画（Ebitengineが毎フレーム呼び出す）
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	if g.img.Width() > 0 && g.img.Height() > 0 {
		if g.screen == nil {
			g.screen = ebiten.NewImageFromImage(g.img)
		}
		ox, oy := g.origin()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(g.zoom), float64(g.zoom))
		op.GeoM.Translate(float64(ox), float64(oy))
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(g.screen, op)
	}

	if g.showInfo {
		op := &text.DrawOptions{}
		op.GeoM.Translate(4, float64(g.height-statusHeight+2))
		op.ColorScale.ScaleWithColor(textColor)
		text.Draw(screen, g.status(), defaultFace, op)
	}
}

// status はステータス行の文字列を返す
func (g *Game) status() string {
	s := fmt.Sprintf("%dx%d  x%d", g.img.Width(), g.img.Height(), g.zoom)
	if g.cursorIn {
		s += fmt.Sprintf("  (%d,%d) %s", g.cursorX, g.cursorY, g.img.GetPixel(g.cursorX, g.cursorY))
	}
	return s
}

// Layout 画面サイズを返す
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run GUIモードでウィンドウを実行
func Run(img *bmp.Image, title string, timeout time.Duration) error {
	game := NewGame(img, timeout)

	ebiten.SetWindowSize(game.width, game.height)
	ebiten.SetWindowTitle(title)
	// リサイズ時はEbitengineがアスペクト比を維持してレターボックスを表示する
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.GetLogger().Info("Opening viewer", "title", title, "width", img.Width(), "height", img.Height(), "zoom", game.zoom)

	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

// RunHeadless はウィンドウを開かずに画像の概要と縮小プレビューを書き出す
func RunHeadless(img *bmp.Image, timeout time.Duration, w io.Writer) error {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan string, 1)
	go func() {
		done <- Preview(img, previewColumns)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("timeout")
	case preview := <-done:
		fmt.Fprintf(w, "Image: %dx%d\n", img.Width(), img.Height())
		fmt.Fprintf(w, "Average: %s\n", Average(img))
		fmt.Fprint(w, preview)
		return nil
	}
}

const previewColumns = 64

// 明るさの低い順
const ramp = " .:-=+*#%@"

// Preview は画像を最大 cols 桁のアスキーアートにする。
// 文字セルは縦長なので行数は半分にする。
func Preview(img *bmp.Image, cols int) string {
	if img.Width() == 0 || img.Height() == 0 || cols <= 0 {
		return ""
	}
	w := min(cols, img.Width())
	h := max(img.Height()*w/img.Width()/2, 1)
	small := img.Scale(w, h)

	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sb.WriteByte(ramp[luminance(small.GetPixel(x, y))*(len(ramp)-1)/255])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// luminance は ITU-R BT.601 の重みで 0〜255 の明るさを返す
func luminance(p bmp.Pixel) int {
	return (299*int(p.R) + 587*int(p.G) + 114*int(p.B)) / 1000
}

// Average は全ピクセルの平均色を返す
func Average(img *bmp.Image) bmp.Pixel {
	var r, g, b, n uint64
	for x, y := range img.Coordinates() {
		p := img.GetPixel(x, y)
		r += uint64(p.R)
		g += uint64(p.G)
		b += uint64(p.B)
		n++
	}
	if n == 0 {
		return bmp.Pixel{}
	}
	return bmp.Pixel{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
}

package app

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"

	xbmp "golang.org/x/image/bmp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zurustar/bmp24/pkg/bmp"
	"github.com/zurustar/bmp24/pkg/fileutil"
	"github.com/zurustar/bmp24/pkg/recipe"
	"github.com/zurustar/bmp24/pkg/viewer"
)

// runInfo はヘッダーの内容と画像サイズを表示する
func (app *Application) runInfo(path string) error {
	data, err := fileutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	h, err := bmp.DecodeHeader(data)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(app.stdout, "File:         %s\n", path)
	p.Fprintf(app.stdout, "Size:         %d bytes (header says %d)\n", len(data), h.File.FileSize)
	p.Fprintf(app.stdout, "Dimensions:   %d x %d\n", h.Width(), h.Height())
	p.Fprintf(app.stdout, "Orientation:  %s\n", orientation(h))
	p.Fprintf(app.stdout, "Bit depth:    %d\n", h.Info.BitCount)
	p.Fprintf(app.stdout, "Data offset:  %d\n", h.File.DataOffset)
	p.Fprintf(app.stdout, "Row stride:   %d bytes (%d padding)\n", h.RowStride(), h.Padding())
	p.Fprintf(app.stdout, "Pixel data:   %d bytes\n", h.PixelDataLen())
	p.Fprintf(app.stdout, "Resolution:   %d x %d px/m\n", h.Info.XPixelsPerMeter, h.Info.YPixelsPerMeter)

	// ピクセル領域まで読めるかを確認する
	if _, err := bmp.DecodeBytes(data); err != nil {
		p.Fprintf(app.stdout, "Status:       %v\n", err)
		return err
	}
	p.Fprintf(app.stdout, "Status:       ok\n")
	return nil
}

func orientation(h *bmp.Header) string {
	if h.TopDown {
		return "top-down"
	}
	return "bottom-up"
}

// runGen はレシピから画像を生成する
func (app *Application) runGen(out string) error {
	r := recipe.Default()
	if app.config.RecipePath != "" {
		loaded, err := recipe.Load(app.config.RecipePath)
		if err != nil {
			return err
		}
		r = loaded
	}
	if app.config.Width > 0 {
		r.Width, r.Height = app.config.Width, app.config.Height
	}

	app.log.Info("Generating image", "recipe", r.Name, "width", r.Width, "height", r.Height)

	img, err := r.Render()
	if err != nil {
		return fmt.Errorf("failed to render recipe: %w", err)
	}
	return app.writeImage(out, img)
}

// runConvert は入力を24ビットBMPとして書き出す
func (app *Application) runConvert(in, out string) error {
	img, err := app.loadImage(in)
	if err != nil {
		return err
	}

	if app.config.Width > 0 {
		app.log.Info("Scaling image", "from", fmt.Sprintf("%dx%d", img.Width(), img.Height()),
			"to", fmt.Sprintf("%dx%d", app.config.Width, app.config.Height))
		img = img.Scale(app.config.Width, app.config.Height)
	}
	return app.writeImage(out, img)
}

// runView は画像を表示する
func (app *Application) runView(path string) error {
	img, err := app.loadImage(path)
	if err != nil {
		return err
	}

	if app.config.Headless {
		app.log.Info("Headless mode: printing preview")
		return viewer.RunHeadless(img, app.config.Timeout, app.stdout)
	}
	return viewer.Run(img, windowTitle(path), app.config.Timeout)
}

// loadImage はBMPまたはPNGを読み込む。
// 24ビット以外のBMPやV4/V5ヘッダーのBMPは x/image/bmp で読み込んで変換する。
func (app *Application) loadImage(path string) (*bmp.Image, error) {
	data, err := fileutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if !bytes.HasPrefix(data, []byte("BM")) {
		src, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		app.log.Debug("Decoded non-BMP input", "path", path, "format", format)
		return bmp.FromImage(src), nil
	}

	img, err := bmp.DecodeBytes(data)
	if err == nil {
		return img, nil
	}
	if errors.Is(err, bmp.ErrTruncatedData) || errors.Is(err, bmp.ErrIoFailure) {
		return nil, err
	}

	app.log.Info("Converting unsupported BMP variant", "path", path, "reason", err)
	src, xerr := xbmp.Decode(bytes.NewReader(data))
	if xerr != nil {
		// 元のエラーの方が原因を正確に示す
		return nil, err
	}
	return bmp.FromImage(src), nil
}

// writeImage は画像を書き出す。拡張子が .gz / .zst なら圧縮する。
func (app *Application) writeImage(path string, img *bmp.Image) (err error) {
	w, err := fileutil.CreateWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := img.Encode(w); err != nil {
		return err
	}

	app.log.Info("Image written", "path", path, "width", img.Width(), "height", img.Height(),
		"container", fileutil.ContainerFor(path).String())
	return nil
}

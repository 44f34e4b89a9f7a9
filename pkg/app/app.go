package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zurustar/bmp24/pkg/cli"
	"github.com/zurustar/bmp24/pkg/logger"
)

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config *cli.Config
	log    *slog.Logger
	stdout io.Writer // コマンドの出力
	stderr io.Writer // ログの出力
}

// New Applicationを作成。nil の場合は標準出力・標準エラー出力を使う。
func New(stdout, stderr io.Writer) *Application {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Application{
		stdout: stdout,
		stderr: stderr,
	}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Debug("Application started", "command", app.config.Command, "args", app.config.Args)

	// 3. コマンドの実行
	var err error
	switch app.config.Command {
	case cli.CommandInfo:
		err = app.runInfo(app.config.Args[0])
	case cli.CommandGen:
		err = app.runGen(app.config.Output)
	case cli.CommandConvert:
		err = app.runConvert(app.config.Args[0], app.config.Args[1])
	case cli.CommandView:
		err = app.runView(app.config.Args[0])
	default:
		err = fmt.Errorf("unknown command: %s", app.config.Command)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", app.config.Command, err)
	}

	app.log.Debug("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLogger(app.config.LogLevel, app.stderr); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// windowTitle はビューアのウィンドウタイトルを返す
func windowTitle(path string) string {
	return fmt.Sprintf("bmp24 - %s", filepath.Base(path))
}

package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// コマンド名
const (
	CommandInfo    = "info"
	CommandGen     = "gen"
	CommandConvert = "convert"
	CommandView    = "view"
)

// コマンドごとの位置引数の数
var commandArgs = map[string]int{
	CommandInfo:    1,
	CommandGen:     0,
	CommandConvert: 2,
	CommandView:    1,
}

// 値を取らないフラグ
var boolFlags = map[string]bool{
	"-h":         true,
	"-help":      true,
	"--help":     true,
	"-headless":  true,
	"--headless": true,
}

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	Command    string        // サブコマンド（info, gen, convert, view）
	Args       []string      // サブコマンドの位置引数
	Output     string        // 出力ファイル（gen）
	RecipePath string        // レシピファイル（gen）
	Width      int           // 出力の幅（0は元のまま）
	Height     int           // 出力の高さ（0は元のまま）
	Timeout    time.Duration // タイムアウト時間（0は無制限）
	LogLevel   string        // ログレベル（debug, info, warn, error）
	Headless   bool          // ヘッドレスモード
	ShowHelp   bool          // ヘルプ表示フラグ
}

// ParseArgs コマンドライン引数を解析してConfigを返す。
// 引数がない場合はヘルプ表示になる。
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("bmp24", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	config := &Config{}

	var timeoutSec int
	fs.IntVar(&timeoutSec, "timeout", 0, "タイムアウト時間（秒）")
	fs.IntVar(&timeoutSec, "t", 0, "タイムアウト時間（秒）（短縮形）")
	fs.StringVar(&config.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.BoolVar(&config.Headless, "headless", false, "ヘッドレスモード")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")
	fs.StringVar(&config.Output, "output", "", "出力ファイル")
	fs.StringVar(&config.Output, "o", "", "出力ファイル（短縮形）")
	fs.StringVar(&config.RecipePath, "recipe", "", "レシピファイル（YAML）")
	fs.IntVar(&config.Width, "width", 0, "出力の幅")
	fs.IntVar(&config.Height, "height", 0, "出力の高さ")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if !config.Headless {
		if headlessEnv := os.Getenv("HEADLESS"); headlessEnv != "" {
			config.Headless = headlessEnv == "1" || strings.ToLower(headlessEnv) == "true"
		}
	}

	// 環境変数からタイムアウトを取得（コマンドラインフラグが優先）
	if timeoutSec == 0 {
		if timeoutEnv := os.Getenv("TIMEOUT"); timeoutEnv != "" {
			if t, err := strconv.Atoi(timeoutEnv); err == nil && t > 0 {
				timeoutSec = t
			}
		}
	}

	// 環境変数からログレベルを取得（コマンドラインフラグが優先）
	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	// タイムアウトの検証
	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	// ログレベルの検証
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	// サイズの検証
	if config.Width < 0 || config.Height < 0 {
		return nil, fmt.Errorf("width and height must be non-negative, got %dx%d", config.Width, config.Height)
	}
	if (config.Width == 0) != (config.Height == 0) {
		return nil, fmt.Errorf("width and height must be given together, got %dx%d", config.Width, config.Height)
	}

	if fs.NArg() == 0 {
		config.ShowHelp = true
		return config, nil
	}

	config.Command = strings.ToLower(fs.Arg(0))
	config.Args = fs.Args()[1:]
	if config.ShowHelp {
		return config, nil
	}

	want, ok := commandArgs[config.Command]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s (must be info, gen, convert, or view)", fs.Arg(0))
	}
	if len(config.Args) != want {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", config.Command, want, len(config.Args))
	}
	if config.Command == CommandGen && config.Output == "" {
		return nil, fmt.Errorf("gen requires an output file (-o)")
	}

	return config, nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 0 && arg[0] == '-' {
			flags = append(flags, arg)

			// -o out.bmp のように次の引数が値である場合も一緒に移動する
			// -width=3 の形式やブール型フラグは次の引数を取らない
			if strings.Contains(arg, "=") || boolFlags[arg] {
				continue
			}
			if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				i++
				flags = append(flags, args[i])
			}
		} else {
			// 位置引数
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `bmp24 - 24-bit BMP tool

Usage:
  bmp24 [options] <command> [arguments]

Commands:
  info <file>                 ヘッダーの内容と画像サイズを表示
  gen -o <out> [--recipe <file.yml>] [--width N --height N]
                              レシピ（省略時はグラデーション）から画像を生成
  convert <in> <out> [--width N --height N]
                              BMPまたはPNGを24ビットBMPとして書き出す（サイズ指定時は拡大縮小）
  view <file>                 ウィンドウで画像を表示（--headless でテキスト表示）

  ファイル名が .gz または .zst で終わる場合は自動的に展開・圧縮する

Options:
  -o, --output <file>         出力ファイル（gen）
  --recipe <file>             レシピファイル（gen）
  --width <N>, --height <N>   出力サイズ（gen, convert）
  -t, --timeout <seconds>     指定秒数後にビューアを終了（デフォルト: 無制限）
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  --headless                  ヘッドレスモード（GUIなし）
  -h, --help                  このヘルプを表示

Environment Variables:
  HEADLESS=1                  ヘッドレスモードを有効化
  TIMEOUT=<seconds>           タイムアウト時間（秒）
  LOG_LEVEL=<level>           ログレベル

Examples:
  bmp24 info photo.bmp
  bmp24 gen -o gradient.bmp
  bmp24 gen --recipe stripes.yml -o stripes.bmp.zst
  bmp24 convert input.png output.bmp --width 64 --height 64
  bmp24 view --timeout 10 gradient.bmp
  HEADLESS=1 bmp24 view gradient.bmp
`)
}

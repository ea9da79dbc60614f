// kozak は KozakScript のインタプリタ。
//
//	kozak [-config path] [-no-strict] [-v] [-trace] run <file.kozak>
//	kozak [-config path] [-no-strict] [-v] repl
//
// 終了コードは、成功なら 0、Vyity で終了したらその値、構文エラー・実行時エラー・
// 予期しないエラーなら 1。
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"kozak/config"
	"kozak/evaluator"
	"kozak/parser"
	"kozak/repl"
)

const usage = `usage: kozak [flags] run <file.kozak>
       kozak [flags] repl

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run はコマンドライン引数を解釈して実行し、終了コードを返す。
// プログラムの出力は stdout に、診断とログは stderr に書く。
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("kozak", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to the project configuration (default: kozak.yml next to the script)")
	noStrict := flags.Bool("no-strict", false, "allow keywords from different dialects in one program")
	verbose := flags.Bool("v", false, "log at debug level")
	trace := flags.Bool("trace", false, "trace the parser's grammar rules")
	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	switch flags.Arg(0) {
	case "run":
		if flags.NArg() < 2 {
			fmt.Fprintln(stderr, "Ay Ay Ay, Kozache! You must provide a file to run. Example: kozak run my_program.kozak")
			return 1
		}
		path := flags.Arg(1)
		cfg, err := loadConfig(*configPath, filepath.Dir(path), *noStrict)
		if err != nil {
			fmt.Fprintf(stderr, "Bida, kozache! %v\n", err)
			return 1
		}
		logger := newLogger(stderr, cfg, *verbose)
		return runFile(path, cfg, logger, *trace, stdin, stdout, stderr)

	case "repl":
		cfg, err := loadConfig(*configPath, ".", *noStrict)
		if err != nil {
			fmt.Fprintf(stderr, "Bida, kozache! %v\n", err)
			return 1
		}
		logger := newLogger(stderr, cfg, *verbose)
		return repl.Run(stdout, repl.Config{
			Strict:  cfg.Strict,
			Hint:    newHinter(cfg),
			Options: []evaluator.Option{evaluator.WithExtension(cfg.Extension), evaluator.WithSeed(cfg.Seed)},
			Logger:  logger,
		})

	case "":
		flags.Usage()
		return 1

	default:
		fmt.Fprintf(stderr, "unknown command %q\n", flags.Arg(0))
		flags.Usage()
		return 1
	}
}

func loadConfig(explicit, dir string, noStrict bool) (*config.Config, error) {
	cfg, err := config.Find(explicit, dir)
	if err != nil {
		return nil, err
	}
	if noStrict {
		cfg.Strict = false
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// runFile はスクリプトを読み込み、パースして実行する。
// 構文エラーが1つでもあれば評価せずに全ての診断を表示する。
func runFile(
	path string,
	cfg *config.Config,
	logger *slog.Logger,
	trace bool,
	stdin io.Reader,
	stdout, stderr io.Writer,
) (code int) {
	hint := newHinter(cfg)
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(stderr, "Neperedbachena bida! An unexpected error occurred:")
			printWithHint(stderr, fmt.Sprint(r), hint)
			code = 1
		}
	}()

	if filepath.Ext(path) != cfg.Extension {
		fmt.Fprintf(stderr, "Oy bida, Kozache! The file must have a '%s' extension.\n", cfg.Extension)
		return 1
	}

	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Oslip ya, chy tviy file znyk, Kozache? The file '%s' was not found\n", path)
		return 1
	}
	if err != nil {
		fmt.Fprintln(stderr, "Neperedbachena bida! An unexpected error occurred:")
		printWithHint(stderr, err.Error(), hint)
		return 1
	}

	opts := []parser.Option{parser.WithStrict(cfg.Strict)}
	if trace {
		opts = append(opts, parser.WithTracer(logger))
	}
	program, err := parser.Parse(string(src), opts...)
	var syntaxErrs parser.ErrorList
	if errors.As(err, &syntaxErrs) {
		fmt.Fprintln(stderr, "Bida, kozache! Errors found:")
		for _, e := range syntaxErrs {
			printWithHint(stderr, e.Error(), hint)
		}
		return 1
	}

	e := evaluator.New(
		evaluator.WithOutput(stdout),
		evaluator.WithInput(stdin),
		evaluator.WithScript(path),
		evaluator.WithStrict(cfg.Strict),
		evaluator.WithExtension(cfg.Extension),
		evaluator.WithSeed(cfg.Seed),
		evaluator.WithLogger(logger),
	)
	logger.Debug("run", slog.String("path", path), slog.String("dialect", program.Dialect.String()))

	_, err = e.Run(program)
	var exit *evaluator.ExitError
	var runtimeErr *evaluator.RuntimeError
	switch {
	case errors.As(err, &exit):
		return exit.Code
	case errors.As(err, &runtimeErr):
		fmt.Fprintln(stderr, "Bida, kozache! Runtime error:")
		printWithHint(stderr, runtimeErr.Message, hint)
		return 1
	case err != nil:
		fmt.Fprintln(stderr, "Neperedbachena bida! An unexpected error occurred:")
		printWithHint(stderr, err.Error(), hint)
		return 1
	}

	fmt.Fprintln(stderr, "Program executed successfully, kozache!")
	return 0
}

func printWithHint(w io.Writer, message string, hint func(string) (string, bool)) {
	fmt.Fprintln(w, message)
	if h, ok := hint(message); ok {
		fmt.Fprintln(w, "Hint:", h)
	}
}

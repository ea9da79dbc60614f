// Package repl は KozakScript のREPL（Read-Eval-Print Loop）を実装するパッケージ。
// ユーザーが入力したコードを字句解析 → 構文解析 → 評価し、結果を表示する。
// プログラム開始キーワードは不要で、1つの評価器をセッション全体で使い回す。
package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"kozak/ast"
	"kozak/evaluator"
	"kozak/lexer"
	"kozak/object"
	"kozak/parser"
)

const (
	// PROMPT はREPLのプロンプト文字列。
	PROMPT = ">> "
	// CONTINUE_PROMPT は括弧が閉じていない間に表示するプロンプト。
	CONTINUE_PROMPT = ".. "
	// QUIT はセッションを終えるコマンド。
	QUIT = ":quit"

	historyFile = ".kozak_history"
)

// LineReader は1行ずつ入力を読む。*liner.State がこれを満たす。
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Config はセッションの設定。
type Config struct {
	Strict bool
	// Hint はエラーメッセージに対する助言を返す。nil なら助言は表示しない。
	Hint func(message string) (string, bool)
	// Options は評価器に渡す追加のオプション。
	Options []evaluator.Option
	Logger  *slog.Logger
}

// Run はターミナルで行編集と履歴付きのREPLを起動し、終了コードを返す。
// 履歴はホームディレクトリの .kozak_history に保存する。
func Run(out io.Writer, cfg Config) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				cfg.logger().Warn("cannot read history", slog.String("path", histPath), slog.Any("error", err))
			}
			f.Close()
		}
	}

	code := Start(ln, out, cfg)

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			if _, err := ln.WriteHistory(f); err != nil {
				cfg.logger().Warn("cannot write history", slog.String("path", histPath), slog.Any("error", err))
			}
			f.Close()
		}
	}
	return code
}

// Start はREPLのループを実行する。
// 入力が尽きるか :quit が入力されると 0 を、Vyity が実行されるとその終了コードを返す。
// 評価器をループの外で作成し、変数・関数・クラスをセッション中保持する。
func Start(in LineReader, out io.Writer, cfg Config) int {
	opts := append([]evaluator.Option{evaluator.WithOutput(out), evaluator.WithStrict(cfg.Strict)}, cfg.Options...)
	if cfg.Logger != nil {
		opts = append(opts, evaluator.WithLogger(cfg.Logger))
	}
	e := evaluator.New(opts...)

	for {
		src, ok := readInput(in)
		if !ok {
			return 0
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if trimmed == QUIT {
			return 0
		}
		in.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		p := parser.New(lexer.New(terminate(trimmed)), parser.WithStrict(cfg.Strict))
		stmts := p.ParseStatements()
		if errs := p.Errors(); len(errs) != 0 {
			printParserErrors(out, errs, cfg.Hint)
			continue
		}

		program := &ast.Program{Dialect: p.Dialect(), Statements: stmts}
		result, err := runInput(e, program)
		var exit *evaluator.ExitError
		var bug *unexpectedError
		switch {
		case errors.As(err, &exit):
			return exit.Code
		case errors.As(err, &bug):
			fmt.Fprintf(out, "Neperedbachena bida! An unexpected error occurred:\n\t%s\n", bug)
			continue
		case err != nil:
			printRuntimeError(out, err, cfg.Hint)
			continue
		}

		if result != nil && result != evaluator.NULL {
			io.WriteString(out, object.Format(result, program.Dialect))
			io.WriteString(out, "\n")
		}
	}
}

// unexpectedError は評価中に起きたパニック。
type unexpectedError struct {
	value any
}

func (e *unexpectedError) Error() string { return fmt.Sprint(e.value) }

// runInput は1つの入力を評価する。パニックは *unexpectedError として返し、セッションは続ける。
func runInput(e *evaluator.Evaluator, program *ast.Program) (result object.Object, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &unexpectedError{value: r}
		}
	}()
	return e.Run(program)
}

func (cfg Config) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// readInput は括弧が閉じるまで行を読み続け、1つの入力にまとめる。
// Ctrl+C は入力中の内容を捨てる。入力の終わりでは ok=false を返す。
func readInput(in LineReader) (string, bool) {
	var b strings.Builder
	prompt := PROMPT

	for {
		line, err := in.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if openBrackets(b.String()) <= 0 {
			return b.String(), true
		}
		prompt = CONTINUE_PROMPT
	}
}

// terminate は単純な文の末尾のセミコロンを省略できるようにする。
func terminate(src string) string {
	if strings.HasSuffix(src, ";") || strings.HasSuffix(src, "}") {
		return src
	}
	return src + ";"
}

// openBrackets は閉じていない括弧の数を返す。文字列とコメントの中は数えない。
func openBrackets(src string) int {
	depth := 0
	runes := []rune(src)

	for i := 0; i < len(runes); i++ {
		switch ch := runes[i]; ch {
		case '"', '\'':
			for i++; i < len(runes) && runes[i] != ch; i++ {
				if runes[i] == '\\' {
					i++
				}
			}
		case '#':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case '/':
			if i+1 < len(runes) && runes[i+1] == '*' {
				for i += 2; i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/'); i++ {
				}
				if i+1 >= len(runes) {
					return depth + 1
				}
				i++
			}
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
	}
	return depth
}

// KOZAK_FACE はエラー時に表示されるコサックのアスキーアート。
const KOZAK_FACE = `        _____
       /     \
      | () () |
       \  ^  /
     ~~~|||||~~~
        '---'
`

// printParserErrors は構文エラーをコサックのAAと共に出力する。
func printParserErrors(out io.Writer, errs parser.ErrorList, hint func(string) (string, bool)) {
	io.WriteString(out, KOZAK_FACE)
	io.WriteString(out, "Bida, kozache! Errors found:\n")
	for _, e := range errs {
		io.WriteString(out, "\t"+e.Error()+"\n")
		if hint == nil {
			continue
		}
		if h, ok := hint(e.Message); ok {
			io.WriteString(out, "\t  Hint: "+h+"\n")
		}
	}
}

func printRuntimeError(out io.Writer, err error, hint func(string) (string, bool)) {
	fmt.Fprintf(out, "Bida, kozache! Runtime error:\n\t%s\n", err)
	if hint == nil {
		return
	}
	if h, ok := hint(err.Error()); ok {
		fmt.Fprintf(out, "\t  Hint: %s\n", h)
	}
}

// Package config はプロジェクト設定ファイル kozak.yml を読み込むパッケージ。
//
// 設定ファイルは省略できる。見つからなければ Default の値で動く。
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName はスクリプトと同じディレクトリで探す設定ファイルの名前。
const FileName = "kozak.yml"

// Config は kozak.yml の内容。
type Config struct {
	Path      string // 読み込んだファイルの絶対パス。デフォルト設定なら空
	Strict    bool   // 方言の一貫性を検査するか
	Extension string // ソースファイルとインポートに必要な拡張子
	LogLevel  string // debug, info, warn, error のいずれか
	Seed      int64  // random の種。0 なら時刻から決まる
	Hints     []Hint // 組み込みのヒントより先に試す追加のヒント
}

// Hint はエラーメッセージにマッチしたときに表示する助言。
type Hint struct {
	Pattern string
	Text    string

	re *regexp.Regexp
}

// Match はエラーメッセージがヒントのパターンにマッチするか判定する。
func (h Hint) Match(message string) bool {
	if h.re == nil {
		return false
	}
	return h.re.MatchString(message)
}

// configFile は YAML 上の表現。省略されたキーを区別するためにポインタを使う。
type configFile struct {
	Strict    *bool      `yaml:"strict"`
	Extension *string    `yaml:"extension"`
	LogLevel  *string    `yaml:"log_level"`
	Seed      *int64     `yaml:"seed"`
	Hints     []hintFile `yaml:"hints"`
}

type hintFile struct {
	Pattern string `yaml:"pattern"`
	Hint    string `yaml:"hint"`
}

// ValidationError は設定の検証で見つかった問題をまとめたもの。
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config: ")
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString("validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Default は設定ファイルがないときの設定を返す。
func Default() *Config {
	return &Config{
		Strict:    true,
		Extension: ".kozak",
		LogLevel:  "info",
	}
}

// Load は path の設定ファイルを読み込んで検証する。空のファイルはデフォルト設定になる。
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	return decode(file, absPath)
}

// Find は設定ファイルを探して読み込む。
// explicit が指定されていればそれを読み、なければ dir（スクリプトのあるディレクトリ）の
// kozak.yml を探す。どちらもなければデフォルト設定を返す。
func Find(explicit, dir string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	candidate := filepath.Join(dir, FileName)
	if _, err := os.Stat(candidate); err == nil {
		return Load(candidate)
	}
	return Default(), nil
}

func decode(r io.Reader, path string) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			cfg := Default()
			cfg.Path = path
			return cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := raw.toConfig()
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (raw *configFile) toConfig() *Config {
	cfg := Default()
	if raw.Strict != nil {
		cfg.Strict = *raw.Strict
	}
	if raw.Extension != nil {
		cfg.Extension = *raw.Extension
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.Seed != nil {
		cfg.Seed = *raw.Seed
	}
	for _, h := range raw.Hints {
		cfg.Hints = append(cfg.Hints, Hint{Pattern: h.Pattern, Text: h.Hint})
	}
	return cfg
}

// validate は値を検査し、ヒントのパターンをコンパイルする。
func (c *Config) validate() error {
	errs := ValidationError{Path: c.Path}

	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("extension must start with '.' and name a suffix, got %q", c.Extension))
	}
	if _, ok := levels[c.LogLevel]; !ok {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel))
	}
	for i := range c.Hints {
		h := &c.Hints[i]
		if h.Pattern == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("hints[%d].pattern must not be empty", i))
			continue
		}
		re, err := regexp.Compile(h.Pattern)
		if err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("hints[%d].pattern is not a valid regular expression: %v", i, err))
			continue
		}
		h.re = re
		if h.Text == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("hints[%d].hint must not be empty", i))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level は LogLevel を slog のレベルに変換する。
func (c *Config) Level() slog.Level {
	if l, ok := levels[c.LogLevel]; ok {
		return l
	}
	return slog.LevelInfo
}

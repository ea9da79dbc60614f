package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
strict: false
extension: .kz
log_level: DEBUG
seed: 42
hints:
  - pattern: "access denied"
    hint: "That field is guarded by the Hetman."
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Path != path {
		t.Errorf("Path wrong. got=%q, want=%q", cfg.Path, path)
	}
	if cfg.Strict {
		t.Errorf("Strict should be false")
	}
	if cfg.Extension != ".kz" {
		t.Errorf("Extension wrong. got=%q", cfg.Extension)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level wrong. got=%v", cfg.Level())
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed wrong. got=%d", cfg.Seed)
	}
	if len(cfg.Hints) != 1 {
		t.Fatalf("expected 1 hint, got %d", len(cfg.Hints))
	}
	if !cfg.Hints[0].Match("access denied: field 'x' of class 'K' is private") {
		t.Errorf("hint should match")
	}
	if cfg.Hints[0].Match("divide by zero") {
		t.Errorf("hint should not match")
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "seed: 7\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.Strict || cfg.Extension != ".kozak" || cfg.LogLevel != "info" || cfg.Seed != 7 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.Strict || cfg.Extension != ".kozak" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "strct: true\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "strct") {
		t.Errorf("error should name the unknown field. got=%v", err)
	}
}

func TestValidationIssuesAreCollected(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
extension: kozak
log_level: loud
hints:
  - pattern: ""
    hint: "x"
  - pattern: "("
    hint: "x"
  - pattern: "ok"
`)

	_, err := Load(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	expected := []string{
		`extension must start with '.' and name a suffix, got "kozak"`,
		`log_level must be one of debug, info, warn, error, got "loud"`,
		"hints[0].pattern must not be empty",
		"hints[1].pattern is not a valid regular expression: ",
		"hints[2].hint must not be empty",
	}
	if len(verr.Issues) != len(expected) {
		t.Fatalf("wrong number of issues. got=%d\n%v", len(verr.Issues), verr)
	}
	for i, want := range expected {
		if !strings.HasPrefix(verr.Issues[i], want) {
			t.Errorf("issues[%d] wrong.\nwant prefix=%q\ngot        =%q", i, want, verr.Issues[i])
		}
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Find("", dir)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("expected default config, got one loaded from %q", cfg.Path)
	}

	writeConfig(t, dir, "seed: 3\n")
	cfg, err = Find("", dir)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if cfg.Seed != 3 {
		t.Errorf("config next to the script was not used: %+v", cfg)
	}

	other := filepath.Join(t.TempDir(), "custom.yml")
	if err := os.WriteFile(other, []byte("seed: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Find(other, dir)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if cfg.Seed != 9 {
		t.Errorf("explicit config was not used: %+v", cfg)
	}

	if _, err := Find(filepath.Join(dir, "missing.yml"), dir); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

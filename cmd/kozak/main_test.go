package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// assertText は期待した文字列と違えば文字単位の差分を表示する。
func assertText(t *testing.T, name, got, want string) {
	t.Helper()
	if got == want {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Errorf("%s mismatch:\n%s\nwant=%q\ngot =%q", name, dmp.DiffPrettyText(diffs), want, got)
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

const banner = "Program executed successfully, kozache!\n"

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello.kozak", `Hetman
# greeting
Zavdannya greet(name) {
  Povernuty "Slava, " + name + "!";
}
Spivaty(greet(Slukhai("name? ")));
`)

	res := runCLI(t, "Ivan\n", "run", path)

	if res.code != 0 {
		t.Errorf("exit code wrong. got=%d, stderr=%q", res.code, res.stderr)
	}
	assertText(t, "stdout", res.stdout, "name? Slava, Ivan!\n")
	assertText(t, "stderr", res.stderr, banner)
}

func TestSyntaxErrorsAreReportedWithHints(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.kozak", "Hetman\nx := 1\nSpivaty(x);\n")

	res := runCLI(t, "", "run", path)

	if res.code != 1 {
		t.Errorf("exit code wrong. got=%d", res.code)
	}
	if res.stdout != "" {
		t.Errorf("program must not run. stdout=%q", res.stdout)
	}
	if !strings.HasPrefix(res.stderr, "Bida, kozache! Errors found:\nline 2, column ") {
		t.Errorf("diagnostics wrong. got=%q", res.stderr)
	}
	if !strings.Contains(res.stderr, "missing ';'") ||
		!strings.Contains(res.stderr, "Hint: Ay Kozache! Even borshch needs a spoon, your code needs a semicolon.\n") {
		t.Errorf("hint missing. got=%q", res.stderr)
	}
}

func TestRuntimeError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "div.kozak", "Hetman\nSpivaty(\"before\");\nSpivaty(1 / 0);\n")

	res := runCLI(t, "", "run", path)

	if res.code != 1 {
		t.Errorf("exit code wrong. got=%d", res.code)
	}
	assertText(t, "stdout", res.stdout, "before\n")
	assertText(t, "stderr", res.stderr,
		"Bida, kozache! Runtime error:\n"+
			"divide by zero\n"+
			"Hint: Dividing by zero? Kozak magic cannot break math, sorry.\n")
}

func TestUndefinedFunctionHint(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "missing.kozak", "Hetman\nfly();\n")

	res := runCLI(t, "", "run", path)

	assertText(t, "stderr", res.stderr,
		"Bida, kozache! Runtime error:\n"+
			"function 'fly' is not defined\n"+
			"Hint: Function not found! Maybe it went to war without telling you.\n")
}

func TestExitCode(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "exit.kozak", "Hetman\nSpivaty(\"a\");\nVyity(3);\nSpivaty(\"b\");\n")

	res := runCLI(t, "", "run", path)

	if res.code != 3 {
		t.Errorf("exit code wrong. got=%d", res.code)
	}
	assertText(t, "stdout", res.stdout, "a\n")
	assertText(t, "stderr", res.stderr, "")
}

func TestDialectMixing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mixed.kozak", "Hetman\nSing(1);\n")

	res := runCLI(t, "", "run", path)
	if res.code != 1 {
		t.Errorf("strict exit code wrong. got=%d", res.code)
	}
	if !strings.Contains(res.stderr, "(use 'Spivaty')") {
		t.Errorf("suggestion missing. got=%q", res.stderr)
	}
	if !strings.Contains(res.stderr, "Hint: One song, one language!") {
		t.Errorf("hint missing. got=%q", res.stderr)
	}

	res = runCLI(t, "", "-no-strict", "run", path)
	if res.code != 0 {
		t.Errorf("non-strict exit code wrong. got=%d, stderr=%q", res.code, res.stderr)
	}
	assertText(t, "stdout", res.stdout, "1\n")
}

func TestFileProblems(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", "Hetman\n")
	missing := filepath.Join(dir, "gone.kozak")

	tests := []struct {
		args   []string
		stderr string
	}{
		{[]string{"run"}, "Ay Ay Ay, Kozache! You must provide a file to run. Example: kozak run my_program.kozak\n"},
		{[]string{"run", txt}, "Oy bida, Kozache! The file must have a '.kozak' extension.\n"},
		{[]string{"run", missing}, "Oslip ya, chy tviy file znyk, Kozache? The file '" + missing + "' was not found\n"},
	}

	for _, tt := range tests {
		res := runCLI(t, "", tt.args...)
		if res.code != 1 {
			t.Errorf("%v: exit code wrong. got=%d", tt.args, res.code)
		}
		assertText(t, strings.Join(tt.args, " "), res.stderr, tt.stderr)
	}
}

func TestUnknownCommand(t *testing.T) {
	res := runCLI(t, "", "fly")
	if res.code != 1 {
		t.Errorf("exit code wrong. got=%d", res.code)
	}
	if !strings.HasPrefix(res.stderr, "unknown command \"fly\"\nusage: kozak") {
		t.Errorf("usage missing. got=%q", res.stderr)
	}
}

func TestProjectConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kozak.yml", `
extension: .kz
hints:
  - pattern: "divide by zero"
    hint: "Not on my watch."
`)
	writeFile(t, dir, "lib.kz", "Hetman\nZavdannya half(x) { Povernuty x / 0; }\n")
	path := writeFile(t, dir, "main.kz", "Hetman\nImportuvaty(\"lib.kz\");\nhalf(1);\n")

	res := runCLI(t, "", "run", path)

	if res.code != 1 {
		t.Errorf("exit code wrong. got=%d", res.code)
	}
	assertText(t, "stderr", res.stderr,
		"Bida, kozache! Runtime error:\n"+
			"divide by zero\n"+
			"Hint: Not on my watch.\n")
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "custom.yml", "log_level: loud\n")
	path := writeFile(t, dir, "main.kozak", "Hetman\n")

	res := runCLI(t, "", "-config", cfg, "run", path)

	if res.code != 1 {
		t.Errorf("exit code wrong. got=%d", res.code)
	}
	if !strings.HasPrefix(res.stderr, "Bida, kozache! config: ") ||
		!strings.Contains(res.stderr, `log_level must be one of debug, info, warn, error, got "loud"`) {
		t.Errorf("config error wrong. got=%q", res.stderr)
	}
}

func TestVerboseLogging(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "classes.kozak", "Hetman\nKlas K { }\n")

	res := runCLI(t, "", "-v", "run", path)

	if res.code != 0 {
		t.Errorf("exit code wrong. got=%d", res.code)
	}
	if !strings.Contains(res.stderr, `msg="class defined" name=K`) {
		t.Errorf("debug log missing. got=%q", res.stderr)
	}
	if !strings.HasSuffix(res.stderr, banner) {
		t.Errorf("banner missing. got=%q", res.stderr)
	}
}

package main

import (
	"regexp"

	"kozak/config"
)

type hint struct {
	pattern *regexp.Regexp
	text    string
}

// builtinHints は先頭から順に試し、最初にマッチしたものだけを表示する。
var builtinHints = []hint{
	{regexp.MustCompile(`(?i)missing ';'`), "Ay Kozache! Even borshch needs a spoon, your code needs a semicolon."},
	{regexp.MustCompile(`(?i)function '.*' is not defined`), "Function not found! Maybe it went to war without telling you."},
	{regexp.MustCompile(`(?i)class '.*' is not defined`), "No such regiment, Kozache. Define the class before you call on it."},
	{regexp.MustCompile(`(?i)not defined`), "Oy, Kozache! You try to ride a horse that is not there."},
	{regexp.MustCompile(`(?i)divide by zero`), "Dividing by zero? Kozak magic cannot break math, sorry."},
	{regexp.MustCompile(`(?i)index out of range`), "You search for varenyky outside the pot, Kozache!"},
	{regexp.MustCompile(`(?i)key not found`), "That key is not in the chest. Check it with has_key first."},
	{regexp.MustCompile(`(?i)access denied`), "Private things stay in the khata. Ask through a public method."},
	{regexp.MustCompile(`(?i)but this program is written in`), "One song, one language! Keep your keywords in the dialect you started with."},
	{regexp.MustCompile(`(?i)must start with the Hetman keyword`), "Every host needs its Hetman. Start the file with the program keyword."},
}

// newHinter は設定ファイルのヒントを先に、組み込みのヒントを後に試す関数を返す。
func newHinter(cfg *config.Config) func(message string) (string, bool) {
	return func(message string) (string, bool) {
		for _, h := range cfg.Hints {
			if h.Match(message) {
				return h.Text, true
			}
		}
		for _, h := range builtinHints {
			if h.pattern.MatchString(message) {
				return h.text, true
			}
		}
		return "", false
	}
}

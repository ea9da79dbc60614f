package parser

import (
	"fmt"
	"sort"
	"strings"
)

// SyntaxError は1件の構文エラー（または方言の混在）を表す。
// Suggestion は方言の混在で置き換えるべきキーワード（なければ空）。
type SyntaxError struct {
	Line       int
	Column     int
	Message    string
	Suggestion string
}

// Error は "line L, column C: message" 形式の文字列を返す。
func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (use '%s')", e.Suggestion)
	}
	return msg
}

// ErrorList は1回のパースで集めた全エラー。空でなければ error として扱える。
type ErrorList []*SyntaxError

// Error は各エラーを1行ずつ並べた文字列を返す。
func (l ErrorList) Error() string {
	lines := make([]string, 0, len(l))
	for _, e := range l {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}

// Err はエラーがなければ nil を、あればリスト自身を返す。
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// sorted は位置順に並べ替えたコピーを返す。同じ位置では発見順を保つ。
func (l ErrorList) sorted() ErrorList {
	out := make(ErrorList, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Column < out[j].Column
	})
	return out
}

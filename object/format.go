package object

import (
	"strconv"
	"strings"

	"kozak/token"
)

const defaultDialect = token.Ukrainian

// Format は値を方言 d で表示用の文字列にする。
// 真偽値と Null は方言のキーワードで表し（Pravda、Lozh、Null など）、
// 配列や辞書の中の文字列は引用符付きで表す。
// 自分自身を含む配列や辞書は、その箇所を [...] や {...} で表す。
func Format(obj Object, d token.Dialect) string {
	f := &formatter{dialect: d, visiting: map[Object]bool{}}
	f.format(obj, false)
	return f.sb.String()
}

type formatter struct {
	sb      strings.Builder
	dialect token.Dialect
	// visiting は表示中の配列と辞書。
	visiting map[Object]bool
}

func (f *formatter) format(obj Object, nested bool) {
	d := f.dialect
	switch obj := obj.(type) {
	case *Boolean:
		if obj.Value {
			f.sb.WriteString(token.Spelling(token.TRUE, d))
		} else {
			f.sb.WriteString(token.Spelling(token.FALSE, d))
		}
	case *Null:
		f.sb.WriteString(token.Spelling(token.NULL, d))
	case *String:
		if nested {
			f.sb.WriteString(strconv.Quote(obj.Value))
		} else {
			f.sb.WriteString(obj.Value)
		}
	case *Array:
		if f.visiting[obj] {
			f.sb.WriteString("[...]")
			return
		}
		f.visiting[obj] = true
		defer delete(f.visiting, obj)

		f.sb.WriteString("[")
		for i, el := range obj.Elements {
			if i > 0 {
				f.sb.WriteString(", ")
			}
			f.format(el, true)
		}
		f.sb.WriteString("]")
	case *Dictionary:
		if f.visiting[obj] {
			f.sb.WriteString("{...}")
			return
		}
		f.visiting[obj] = true
		defer delete(f.visiting, obj)

		f.sb.WriteString("{")
		for i, pair := range obj.Pairs() {
			if i > 0 {
				f.sb.WriteString(", ")
			}
			f.format(pair.Key, true)
			f.sb.WriteString(": ")
			f.format(pair.Value, true)
		}
		f.sb.WriteString("}")
	case nil:
		f.sb.WriteString(token.Spelling(token.NULL, d))
	default:
		f.sb.WriteString(obj.Inspect())
	}
}

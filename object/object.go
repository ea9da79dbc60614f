// Package object は KozakScript のランタイムオブジェクトシステムを定義するパッケージ。
// 評価器（Evaluator）がASTを評価した結果はすべてこのパッケージの Object として表現される。
// 全てのオブジェクトは Object インターフェースを実装する。
//
// 配列・辞書・インスタンスは参照として共有され、代入や引数渡しでコピーされない。
// 数値・文字列・真偽値は値として扱う。
package object

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ObjectType はオブジェクトの種類を識別する文字列型。
type ObjectType string

// オブジェクトの種類を表す定数。
const (
	NULL_OBJ  = "NULL"  // null値
	ERROR_OBJ = "ERROR" // 実行時エラー（Spiimaty で捕捉できる）

	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	STRING_OBJ  = "STRING"
	BOOLEAN_OBJ = "BOOLEAN"

	ARRAY_OBJ      = "ARRAY"
	DICTIONARY_OBJ = "DICTIONARY"
	INSTANCE_OBJ   = "INSTANCE"

	RETURN_VALUE_OBJ = "RETURN_VALUE" // Povernuty の戻り値をラップするシグナル
	EXIT_OBJ         = "EXIT"         // Vyity によるプログラム終了のシグナル
)

// Object は KozakScript の全ての値が実装するインターフェース。
// Type() はオブジェクトの種類を返し、Inspect() は値の文字列表現を返す。
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Integer は整数値を表すオブジェクト。
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

// Float は小数値を表すオブジェクト。
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return FormatFloat(f.Value) }

// FormatFloat は小数を表示用に整形する。
// 整数値でも "2.0" のように小数点を残し、非常に大きい・小さい値は指数表記にする。
func FormatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}

	abs := math.Abs(v)
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// String は文字列を表すオブジェクト。
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Boolean は真偽値を表すオブジェクト。
// 評価器ではシングルトン（TRUE, FALSE）として扱う。
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return Format(b, defaultDialect) }

// Null は値が存在しないことを表す。評価器ではシングルトン（NULL）として扱う。
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return Format(n, defaultDialect) }

// Array は順序付きの可変な配列。参照として共有される。
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string  { return Format(a, defaultDialect) }

// Instance はクラスのインスタンス。Class は定義への参照で、
// Fields は最初に代入されたときに作られる。
type Instance struct {
	Class  *ClassDef
	Fields map[string]Object
}

// NewInstance はフィールドが空のインスタンスを作る。
func NewInstance(class *ClassDef) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Object)}
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return fmt.Sprintf("<%s instance>", i.Class.Name) }

// ReturnValue は Povernuty の戻り値をラップするシグナル。
// 呼び出しの境界まで評価を巻き戻し、そこで取り出される。
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Error は実行時エラーを表すオブジェクト。
// 評価中に伝播し、Spiimaty で捕捉されるかプログラムの外まで到達する。
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }

// Exit は Vyity によるプログラム終了のシグナル。Code は 0〜255。
// finally 節は実行されるが、Spiimaty では捕捉されない。
type Exit struct {
	Code int
}

func (e *Exit) Type() ObjectType { return EXIT_OBJ }
func (e *Exit) Inspect() string  { return fmt.Sprintf("exit(%d)", e.Code) }

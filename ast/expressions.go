package ast

import (
	"bytes"
	"strconv"
	"strings"

	"kozak/token"
)

// =====================
// 式（Expressions）
// =====================

// Identifier は変数名などの識別子を表す。
type Identifier struct {
	Token token.Token // token.IDENT トークン
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// Boolean は Pravda/Nepravda などの真偽値リテラルを表す。
type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) String() string       { return b.Token.Literal }

// NullLiteral は Nishcho などの Null リテラルを表す。
type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return n.Token.Literal }

// IntegerLiteral は整数リテラル（例: 5, 100）を表す。
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// FloatLiteral は小数リテラル（例: 2.5）を表す。
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLiteral) String() string       { return fl.Token.Literal }

// StringLiteral は文字列リテラルを表す。Value は引用符を含まない。
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return strconv.Quote(sl.Value) }

// PrefixExpression は単項演算子式（例: -5, +x）を表す。
type PrefixExpression struct {
	Token    token.Token // 前置演算子のトークン
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }

// String は `(<operator><right>)` の形式で返す（例: "(-5)"）。
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression は算術・論理の二項演算子式（例: 5 + 10, a && b）を表す。
type InfixExpression struct {
	Token    token.Token // 演算子トークン
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }

// String は `(<left> <operator> <right>)` の形式で返す（例: "(5 + 10)"）。
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// ComparisonExpression は比較演算子式（==, !=, <, >, <=, >=）を表す。
type ComparisonExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (ce *ComparisonExpression) expressionNode()      {}
func (ce *ComparisonExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *ComparisonExpression) String() string {
	return "(" + ce.Left.String() + " " + ce.Operator + " " + ce.Right.String() + ")"
}

// ArrayLiteral は `[a, b, c]` を表す。
type ArrayLiteral struct {
	Token    token.Token // '[' トークン
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) String() string       { return "[" + joinExpressions(al.Elements) + "]" }

// DictionaryLiteral は `{k: v, ...}` を表す。Keys と Values は同じ長さで、ソース順に並ぶ。
type DictionaryLiteral struct {
	Token  token.Token // '{' トークン
	Keys   []Expression
	Values []Expression
}

func (dl *DictionaryLiteral) expressionNode()      {}
func (dl *DictionaryLiteral) TokenLiteral() string { return dl.Token.Literal }

// String は `{k: v, ...}` の形式で返す。
func (dl *DictionaryLiteral) String() string {
	var out bytes.Buffer

	pairs := []string{}
	for i, k := range dl.Keys {
		pairs = append(pairs, k.String()+": "+dl.Values[i].String())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")

	return out.String()
}

// IndexExpression は `<left>[<index>]` を表す。配列と辞書の両方に使う。
type IndexExpression struct {
	Token token.Token // '[' トークン
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	return "(" + ie.Left.String() + "[" + ie.Index.String() + "])"
}

// CallExpression は名前による関数呼び出し `<name>(<args>)` を表す。
// 組み込み関数もこのノードで呼ばれる。
type CallExpression struct {
	Token     token.Token // '(' トークン
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + joinExpressions(ce.Arguments) + ")"
}

// MethodCallExpression は `<object>.<method>(<args>)` を表す。
// ライブラリモジュール（math.sqrt など）の呼び出しもこの形になる。
type MethodCallExpression struct {
	Token     token.Token // '.' トークン
	Object    Expression
	Method    *Identifier
	Arguments []Expression
}

func (mc *MethodCallExpression) expressionNode()      {}
func (mc *MethodCallExpression) TokenLiteral() string { return mc.Token.Literal }
func (mc *MethodCallExpression) String() string {
	return mc.Object.String() + "." + mc.Method.String() + "(" + joinExpressions(mc.Arguments) + ")"
}

// PropertyExpression は `<object>.<name>` というプロパティ参照を表す。
type PropertyExpression struct {
	Token    token.Token // '.' トークン
	Object   Expression
	Property *Identifier
}

func (pe *PropertyExpression) expressionNode()      {}
func (pe *PropertyExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PropertyExpression) String() string {
	return pe.Object.String() + "." + pe.Property.String()
}

// NewExpression は `Novyi ClassName(<args>)` というインスタンス生成を表す。
type NewExpression struct {
	Token     token.Token
	Class     *Identifier
	Arguments []Expression
}

func (ne *NewExpression) expressionNode()      {}
func (ne *NewExpression) TokenLiteral() string { return ne.Token.Literal }
func (ne *NewExpression) String() string {
	return "new " + ne.Class.String() + "(" + joinExpressions(ne.Arguments) + ")"
}

// ThisExpression は現在のインスタンス（Tsei）を表す。
type ThisExpression struct {
	Token token.Token
}

func (te *ThisExpression) expressionNode()      {}
func (te *ThisExpression) TokenLiteral() string { return te.Token.Literal }
func (te *ThisExpression) String() string       { return "this" }

// SuperExpression は親クラスの呼び出しを表す。
// Method が nil なら `Batko(<args>)` で親のコンストラクタを、
// そうでなければ `Batko.m(<args>)` で親のメソッドを呼ぶ。
type SuperExpression struct {
	Token     token.Token
	Method    *Identifier
	Arguments []Expression
}

func (se *SuperExpression) expressionNode()      {}
func (se *SuperExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SuperExpression) String() string {
	if se.Method == nil {
		return "super(" + joinExpressions(se.Arguments) + ")"
	}
	return "super." + se.Method.String() + "(" + joinExpressions(se.Arguments) + ")"
}

// InputExpression は `Slukhai(<prompt>)` を表す。Prompt は省略できる。
type InputExpression struct {
	Token  token.Token
	Prompt Expression
}

func (ie *InputExpression) expressionNode()      {}
func (ie *InputExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InputExpression) String() string {
	if ie.Prompt == nil {
		return "input()"
	}
	return "input(" + ie.Prompt.String() + ")"
}

// CastExpression は `Chyslo(<expr>)` などの型変換を表す。
// Type は token.CAST_INT などの正規トークン型。
type CastExpression struct {
	Token token.Token
	Type  token.TokenType
	Value Expression
}

func (ce *CastExpression) expressionNode()      {}
func (ce *CastExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CastExpression) String() string {
	return string(ce.Type) + "(" + ce.Value.String() + ")"
}

// Package ast は KozakScript の抽象構文木（AST）を定義するパッケージ。
// パーサーがトークン列から組み立てた結果がこのASTになる。
// ASTの各ノードは Node インターフェースを実装し、
// 文（Statement）と式（Expression）の2種類に大別される。
//
// ノードは構築後に変更されない。評価器は木を読むだけで、
// 子ノードは親から排他的に所有され、親への参照は持たない。
package ast

import (
	"bytes"
	"strings"

	"kozak/token"
)

// Node はASTの全ノードが実装する基本インターフェース。
// TokenLiteral() はデバッグ用にトークンのリテラル値を返す。
// String() はノードを人間が読める文字列に変換する。
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement は「文」を表すノードのインターフェース。
type Statement interface {
	Node
	statementNode()
}

// Expression は「式」を表すノードのインターフェース。
type Expression interface {
	Node
	expressionNode()
}

// Program はASTのルートノード。
// Dialect はプログラム開始キーワード（Hetman など）から決まる方言で、
// 真偽値や Null の表示に使われる。
type Program struct {
	Token      token.Token // プログラム開始キーワード
	Dialect    token.Dialect
	Statements []Statement
}

// TokenLiteral は最初の文のトークンリテラルを返す。
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// String はプログラム全体を文字列に変換する。
func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
	}

	return out.String()
}

// =====================
// 文（Statements）
// =====================

// AssignStatement は `x := <expression>;` という代入文を表す。
// DeclaredType は `Chyslo x := 5;` のような型付き宣言の型（なければ空）。
type AssignStatement struct {
	Token        token.Token // 代入先の最初のトークン
	DeclaredType token.TokenType
	Name         *Identifier
	Value        Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }

// String は `[<type> ]<name> := <value>;` の形式で返す。
func (as *AssignStatement) String() string {
	var out bytes.Buffer

	if as.DeclaredType != "" {
		out.WriteString(string(as.DeclaredType) + " ")
	}
	out.WriteString(as.Name.String())
	out.WriteString(" := ")
	if as.Value != nil {
		out.WriteString(as.Value.String())
	}
	out.WriteString(";")

	return out.String()
}

// PropertyAssignStatement は `obj.field := <expression>;` を表す。
type PropertyAssignStatement struct {
	Token    token.Token
	Object   Expression
	Property *Identifier
	Value    Expression
}

func (ps *PropertyAssignStatement) statementNode()       {}
func (ps *PropertyAssignStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PropertyAssignStatement) String() string {
	return ps.Object.String() + "." + ps.Property.String() + " := " + ps.Value.String() + ";"
}

// IndexAssignStatement は `arr[i] := <expression>;` を表す。
type IndexAssignStatement struct {
	Token token.Token
	Left  Expression
	Index Expression
	Value Expression
}

func (is *IndexAssignStatement) statementNode()       {}
func (is *IndexAssignStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IndexAssignStatement) String() string {
	return is.Left.String() + "[" + is.Index.String() + "] := " + is.Value.String() + ";"
}

// IncrementStatement は `x++;` / `x--;` を表す。
type IncrementStatement struct {
	Token    token.Token
	Name     *Identifier
	Operator string // "++" または "--"
}

func (is *IncrementStatement) statementNode()       {}
func (is *IncrementStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IncrementStatement) String() string       { return is.Name.String() + is.Operator + ";" }

// EchoStatement は `Spivaty(a, b);` という出力文を表す。
type EchoStatement struct {
	Token     token.Token
	Arguments []Expression
}

func (es *EchoStatement) statementNode()       {}
func (es *EchoStatement) TokenLiteral() string { return es.Token.Literal }
func (es *EchoStatement) String() string {
	return es.TokenLiteral() + "(" + joinExpressions(es.Arguments) + ");"
}

// ReturnStatement は `Povernuty <expression>;` を表す。値は省略できる。
type ReturnStatement struct {
	Token       token.Token
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }

// String は `<keyword> <value>;` の形式で返す。
func (rs *ReturnStatement) String() string {
	var out bytes.Buffer

	out.WriteString(rs.TokenLiteral())
	if rs.ReturnValue != nil {
		out.WriteString(" " + rs.ReturnValue.String())
	}
	out.WriteString(";")

	return out.String()
}

// ExpressionStatement は式だけからなる文を表す（例: `f(1);`）。
type ExpressionStatement struct {
	Token      token.Token // その式の最初のトークン
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ""
}

// BlockStatement は `{ ... }` で囲まれた文の列を表す。
type BlockStatement struct {
	Token      token.Token // '{' トークン
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }

// String は `{ <stmt> <stmt> }` の形式で返す。
func (bs *BlockStatement) String() string {
	var out bytes.Buffer

	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

// ElseIf は if 文の `AboYakscho (<cond>) { ... }` 節。
type ElseIf struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
}

// IfStatement は `Yakscho (<cond>) {...} AboYakscho (...) {...} Inakshe {...}` を表す。
type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
	ElseIfs     []*ElseIf
	Alternative *BlockStatement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }

// String は if 文を人間が読める形式に変換する。
func (is *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("if " + is.Condition.String() + " " + is.Consequence.String())
	for _, ei := range is.ElseIfs {
		out.WriteString(" elif " + ei.Condition.String() + " " + ei.Consequence.String())
	}
	if is.Alternative != nil {
		out.WriteString(" else " + is.Alternative.String())
	}

	return out.String()
}

// WhileStatement は `Doki (<cond>) { ... }` を表す。
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) String() string {
	return "while " + ws.Condition.String() + " " + ws.Body.String()
}

// ForStatement は C 形式の `Dlya (<init>; <cond>; <step>) { ... }` を表す。
type ForStatement struct {
	Token     token.Token
	Init      Statement
	Condition Expression
	Step      Statement
	Body      *BlockStatement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) String() string {
	return "for (" + fs.Init.String() + " " + fs.Condition.String() + "; " +
		strings.TrimSuffix(fs.Step.String(), ";") + ") " + fs.Body.String()
}

// ForEachStatement は `Dlya (x V <iterable>) { ... }` を表す。
type ForEachStatement struct {
	Token    token.Token
	Variable *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (fs *ForEachStatement) statementNode()       {}
func (fs *ForEachStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForEachStatement) String() string {
	return "for (" + fs.Variable.String() + " in " + fs.Iterable.String() + ") " + fs.Body.String()
}

// FunctionStatement は `Zavdannya name(a, b) { ... }` という関数定義を表す。
// クラスのメソッド・コンストラクタ・デストラクタも同じノードで表す。
type FunctionStatement struct {
	Token      token.Token
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Literal }

// String は `fn <name>(<params>) <body>` の形式で返す。
func (fs *FunctionStatement) String() string {
	params := []string{}
	for _, p := range fs.Parameters {
		params = append(params, p.String())
	}
	return "fn " + fs.Name.String() + "(" + strings.Join(params, ", ") + ") " + fs.Body.String()
}

// TryStatement は `Sprobuvaty {...} Spiimaty (e) {...} Naprykintsi {...}` を表す。
// Catch と Finally の少なくとも一方は存在する。CatchName は省略できる。
type TryStatement struct {
	Token     token.Token
	Body      *BlockStatement
	CatchName *Identifier
	Catch     *BlockStatement
	Finally   *BlockStatement
}

func (ts *TryStatement) statementNode()       {}
func (ts *TryStatement) TokenLiteral() string { return ts.Token.Literal }

// String は try 文を人間が読める形式に変換する。
func (ts *TryStatement) String() string {
	var out bytes.Buffer

	out.WriteString("try " + ts.Body.String())
	if ts.Catch != nil {
		out.WriteString(" catch")
		if ts.CatchName != nil {
			out.WriteString(" (" + ts.CatchName.String() + ")")
		}
		out.WriteString(" " + ts.Catch.String())
	}
	if ts.Finally != nil {
		out.WriteString(" finally " + ts.Finally.String())
	}

	return out.String()
}

// ThrowStatement は `Kynuty(<expression>);` を表す。
type ThrowStatement struct {
	Token token.Token
	Value Expression
}

func (ts *ThrowStatement) statementNode()       {}
func (ts *ThrowStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *ThrowStatement) String() string       { return "throw(" + ts.Value.String() + ");" }

// ExitStatement は `Vyity(<code>);` を表す。Code が nil なら終了コードは 0。
type ExitStatement struct {
	Token token.Token
	Code  Expression
}

func (es *ExitStatement) statementNode()       {}
func (es *ExitStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExitStatement) String() string {
	if es.Code == nil {
		return "exit();"
	}
	return "exit(" + es.Code.String() + ");"
}

// ImportStatement は `Importuvaty("path.kozak");` を表す。
type ImportStatement struct {
	Token token.Token
	Path  Expression
}

func (is *ImportStatement) statementNode()       {}
func (is *ImportStatement) TokenLiteral() string { return is.Token.Literal }
func (is *ImportStatement) String() string       { return "import(" + is.Path.String() + ");" }

func joinExpressions(exps []Expression) string {
	parts := make([]string, 0, len(exps))
	for _, e := range exps {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

// Package token は KozakScript のトークン（字句）を定義するパッケージ。
// レキサーがソースコードを分割した最小単位がトークンであり、
// パーサーはこのトークン列を入力として構文解析を行う。
//
// キーワードは方言（dialect）ごとに綴りが異なるが、
// すべて同じ正規のトークン種別（TokenType）に対応付けられる。
package token

import "fmt"

// TokenType はトークンの種類を文字列で表す型。
type TokenType string

const (
	ILLEGAL = "ILLEGAL" // 未知のトークン
	EOF     = "EOF"     // 入力の終端

	// 識別子 + リテラル
	IDENT  = "IDENT"  // x, total, Dog, ...
	INT    = "INT"    // 1343456
	FLOAT  = "FLOAT"  // 3.14
	STRING = "STRING" // "foobar"（引用符は含まない）

	// 演算子
	ASSIGN    = ":="
	PLUS      = "+"
	MINUS     = "-"
	INCREMENT = "++"
	DECREMENT = "--"
	ASTERISK  = "*"
	SLASH     = "/"
	FLOOR_DIV = "//"
	PERCENT   = "%"
	POWER     = "^"
	ROOT      = "^/"
	AND       = "&&"
	OR        = "||"

	LT     = "<"
	GT     = ">"
	LT_EQ  = "<="
	GT_EQ  = ">="
	EQ     = "=="
	NOT_EQ = "!="

	// デリミタ（区切り文字）
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":" // 辞書リテラルのキーと値の区切り、継承の指定
	DOT       = "."

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// キーワード（正規名）
	PROGRAM     = "PROGRAM"
	ECHO        = "ECHO"
	INPUT       = "INPUT"
	RETURN      = "RETURN"
	FUNCTION    = "FUNCTION"
	FOR         = "FOR"
	IN          = "IN"
	WHILE       = "WHILE"
	TRUE        = "TRUE"
	FALSE       = "FALSE"
	NULL        = "NULL"
	CAST_INT    = "CAST_INT"
	CAST_FLOAT  = "CAST_FLOAT"
	CAST_STRING = "CAST_STRING"
	CAST_BOOL   = "CAST_BOOL"
	IF          = "IF"
	ELSE_IF     = "ELSE_IF"
	ELSE        = "ELSE"
	CLASS       = "CLASS"
	NEW         = "NEW"
	THIS        = "THIS"
	SUPER       = "SUPER"
	TRY         = "TRY"
	CATCH       = "CATCH"
	FINALLY     = "FINALLY"
	THROW       = "THROW"
	EXIT        = "EXIT"
	IMPORT      = "IMPORT"
	PUBLIC      = "PUBLIC"
	PRIVATE     = "PRIVATE"
	PROTECTED   = "PROTECTED"
	FRIEND      = "FRIEND"
	CONSTRUCTOR = "CONSTRUCTOR"
	DESTRUCTOR  = "DESTRUCTOR"
)

// Token はトークンの型とリテラル値、ソース上の位置の組。
// Line と Column は1始まりで、Column はルーン単位で数える。
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// Position は "line L, column C" 形式の位置文字列を返す。
func (t Token) Position() string {
	return fmt.Sprintf("line %d, column %d", t.Line, t.Column)
}

// IsCast はトークン型が型変換キーワード（Chyslo など）か判定する。
func IsCast(t TokenType) bool {
	switch t {
	case CAST_INT, CAST_FLOAT, CAST_STRING, CAST_BOOL:
		return true
	}
	return false
}

// StartsStatement は文の先頭になり得るキーワードか判定する。
// パーサーのエラー回復（synchronize）で安全な再開位置として使う。
func StartsStatement(t TokenType) bool {
	switch t {
	case ECHO, RETURN, FUNCTION, FOR, WHILE, IF, CLASS, TRY, THROW, EXIT, IMPORT:
		return true
	}
	return false
}

// LookupIdent は識別子が予約語かどうかを判定する。
// 予約語であればそのトークン型を、そうでなければIDENTを返す。
func LookupIdent(ident string) TokenType {
	if kw, ok := keywords[ident]; ok {
		return kw.Type
	}
	return IDENT
}

// Package lexer は KozakScript のソースコードをトークン列に分割するパッケージ。
// 空白とコメントは読み飛ばし、パーサーには {種別, リテラル, 行, 列} の列だけを渡す。
// 行と列は1始まりで、列はルーン単位で数える。
package lexer

import (
	"strings"
	"unicode"

	"kozak/token"
)

// Lexer はソースコードを1ルーンずつ読み進める字句解析器。
type Lexer struct {
	input        []rune
	position     int  // 現在のルーンの位置（ch の位置）
	readPosition int  // 次に読むルーンの位置
	ch           rune // 現在検査中のルーン（終端では 0）

	line   int // ch の行
	column int // ch の列
}

// New は入力文字列から Lexer を生成し、最初のルーンを読み込む。
func New(input string) *Lexer {
	l := &Lexer{input: []rune(input), line: 1}
	l.readChar()
	return l
}

// readChar は次のルーンを読み込み、行と列を更新する。
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar は位置を進めずに次のルーンを返す。
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken は次のトークンを返す。入力の終端では EOF を返し続ける。
func (l *Lexer) NextToken() token.Token {
	if tok, ok := l.skipIgnored(); !ok {
		return tok
	}

	line, column := l.line, l.column
	tok := token.Token{Line: line, Column: column}

	switch l.ch {
	case ':':
		tok = l.oneOrTwo(tok, '=', token.COLON, token.ASSIGN)
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = token.EQ, "=="
		} else {
			tok.Type, tok.Literal = token.ILLEGAL, "="
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = token.NOT_EQ, "!="
		} else {
			tok.Type, tok.Literal = token.ILLEGAL, "!"
		}
	case '<':
		tok = l.oneOrTwo(tok, '=', token.LT, token.LT_EQ)
	case '>':
		tok = l.oneOrTwo(tok, '=', token.GT, token.GT_EQ)
	case '+':
		tok = l.oneOrTwo(tok, '+', token.PLUS, token.INCREMENT)
	case '-':
		tok = l.oneOrTwo(tok, '-', token.MINUS, token.DECREMENT)
	case '*':
		tok.Type, tok.Literal = token.ASTERISK, "*"
	case '/':
		tok = l.oneOrTwo(tok, '/', token.SLASH, token.FLOOR_DIV)
	case '%':
		tok.Type, tok.Literal = token.PERCENT, "%"
	case '^':
		tok = l.oneOrTwo(tok, '/', token.POWER, token.ROOT)
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok.Type, tok.Literal = token.AND, "&&"
		} else {
			tok.Type, tok.Literal = token.ILLEGAL, "&"
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok.Type, tok.Literal = token.OR, "||"
		} else {
			tok.Type, tok.Literal = token.ILLEGAL, "|"
		}
	case ',':
		tok.Type, tok.Literal = token.COMMA, ","
	case ';':
		tok.Type, tok.Literal = token.SEMICOLON, ";"
	case '.':
		tok.Type, tok.Literal = token.DOT, "."
	case '(':
		tok.Type, tok.Literal = token.LPAREN, "("
	case ')':
		tok.Type, tok.Literal = token.RPAREN, ")"
	case '{':
		tok.Type, tok.Literal = token.LBRACE, "{"
	case '}':
		tok.Type, tok.Literal = token.RBRACE, "}"
	case '[':
		tok.Type, tok.Literal = token.LBRACKET, "["
	case ']':
		tok.Type, tok.Literal = token.RBRACKET, "]"
	case '"', '\'':
		lit, ok := l.readString(l.ch)
		if !ok {
			tok.Type, tok.Literal = token.ILLEGAL, "unterminated string"
			return tok
		}
		tok.Type, tok.Literal = token.STRING, lit
	case 0:
		tok.Type, tok.Literal = token.EOF, ""
		return tok
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			// readIdentifier は識別子の次のルーンまで進めているので readChar しない
			return tok
		}
		if isDigit(l.ch) {
			tok.Type, tok.Literal = l.readNumber()
			return tok
		}
		if kind, ok := token.LookupSymbol(l.ch); ok {
			tok.Type, tok.Literal = kind, string(l.ch)
		} else {
			tok.Type, tok.Literal = token.ILLEGAL, string(l.ch)
		}
	}

	l.readChar()
	return tok
}

// Tokenize は入力全体を EOF を含むトークン列に変換する。
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

// oneOrTwo は次のルーンが next なら2文字の演算子 two を、そうでなければ one を作る。
func (l *Lexer) oneOrTwo(tok token.Token, next rune, one, two token.TokenType) token.Token {
	if l.peekChar() == next {
		first := l.ch
		l.readChar()
		tok.Type, tok.Literal = two, string([]rune{first, l.ch})
		return tok
	}
	tok.Type, tok.Literal = one, string(l.ch)
	return tok
}

// skipIgnored は空白、行コメント（#）、ブロックコメント（/* */）を読み飛ばす。
// 閉じられていないブロックコメントがあれば ILLEGAL トークンと false を返す。
func (l *Lexer) skipIgnored() (token.Token, bool) {
	for {
		switch {
		case unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			tok := token.Token{Type: token.ILLEGAL, Literal: "unterminated comment", Line: l.line, Column: l.column}
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.ch == 0 {
					return tok, false
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return token.Token{}, true
		}
	}
}

// readIdentifier は英字・数字・アンダースコアが続く限り読み進める。
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return string(l.input[position:l.position])
}

// readNumber は整数または小数を読む。小数点を含めば FLOAT になる（"1." も小数）。
func (l *Lexer) readNumber() (token.TokenType, string) {
	position := l.position
	kind := token.TokenType(token.INT)
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && !isLetter(l.peekChar()) {
		kind = token.FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return kind, string(l.input[position:l.position])
}

// readString は quote で囲まれた文字列を読み、エスケープを展開した中身を返す。
// 終了時、ch は閉じ引用符を指している。
func (l *Lexer) readString(quote rune) (string, bool) {
	var out strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case 0:
			return "", false
		case quote:
			return out.String(), true
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				out.WriteRune('\n')
			case 't':
				out.WriteRune('\t')
			case 0:
				return "", false
			default:
				out.WriteRune(l.ch)
			}
		default:
			out.WriteRune(l.ch)
		}
	}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// Package parser は KozakScript のパーサーを実装するパッケージ。
// 式は Pratt Parser（トップダウン演算子順位解析法）で、
// 文は再帰下降でトークン列をAST（抽象構文木）に変換する。
//
// 個々の構文エラーで止まらず、エラーを記録したあと安全な位置まで
// トークンを読み飛ばして（synchronize）解析を続ける。
// そのため1回のパースで独立した複数のエラーを報告できる。
package parser

import (
	"fmt"
	"log/slog"

	"kozak/ast"
	"kozak/lexer"
	"kozak/token"
)

// TokenSource はパーサーにトークンを供給するもの。lexer.Lexer が実装する。
type TokenSource interface {
	NextToken() token.Token
}

// sliceSource はトークンのスライスを TokenSource として扱う。
type sliceSource struct {
	toks []token.Token
	pos  int
}

func (s *sliceSource) NextToken() token.Token {
	if s.pos >= len(s.toks) {
		if len(s.toks) > 0 {
			last := s.toks[len(s.toks)-1]
			return token.Token{Type: token.EOF, Line: last.Line, Column: last.Column}
		}
		return token.Token{Type: token.EOF, Line: 1, Column: 1}
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok
}

// FromTokens は既にトークン化された列から TokenSource を作る。
// 列が EOF で終わっていなくても、末尾の後は EOF を返し続ける。
func FromTokens(toks []token.Token) TokenSource {
	return &sliceSource{toks: toks}
}

type (
	// prefixParseFn は前置解析関数の型。
	// トークンが式の先頭に来た場合に呼ばれる（例: -5, 識別子, 整数リテラル）。
	prefixParseFn func() ast.Expression
	// infixParseFn は中置解析関数の型。
	// 左辺の式を引数に取り、演算子の右辺を解析して完全な式を返す。
	infixParseFn func(ast.Expression) ast.Expression
)

// Option はパーサーの設定を変更する。
type Option func(*Parser)

// WithStrict は方言の一貫性チェックの有無を設定する（既定は有効）。
func WithStrict(strict bool) Option {
	return func(p *Parser) { p.strict = strict }
}

// WithTracer は文法規則のトレースを出力するロガーを設定する。
func WithTracer(logger *slog.Logger) Option {
	return func(p *Parser) { p.tracer = logger }
}

// Parser は KozakScript のパーサー。
// トークン供給元からトークンを読み取り、ASTを構築する。
type Parser struct {
	src    TokenSource
	errors ErrorList

	curToken  token.Token // 現在見ているトークン
	peekToken token.Token // 次のトークン（先読み用）

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	// 方言の一貫性チェック
	strict   bool
	dialect  token.Dialect    // 表示とエラーメッセージに使う方言
	dialects token.DialectSet // これまでのキーワードと矛盾しない方言の集合

	tracer     *slog.Logger
	traceLevel int

	// 現在のトークンまでに開いている '{' と '(' の数
	depth  int
	parens int
}

// New はトークン供給元からパーサーを生成する。
// 各トークンタイプに対して解析関数を登録し、
// 最初の2トークンを読み込んで curToken と peekToken をセットする。
func New(src TokenSource, opts ...Option) *Parser {
	p := &Parser{
		src:      src,
		strict:   true,
		dialect:  token.Ukrainian,
		dialects: token.AllDialects,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.PLUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseDictionaryLiteral)
	p.registerPrefix(token.NEW, p.parseNewExpression)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.SUPER, p.parseSuperExpression)
	p.registerPrefix(token.INPUT, p.parseInputExpression)
	for _, cast := range []token.TokenType{token.CAST_INT, token.CAST_FLOAT, token.CAST_STRING, token.CAST_BOOL} {
		p.registerPrefix(cast, p.parseCastExpression)
	}

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, op := range []token.TokenType{
		token.OR, token.AND,
		token.PLUS, token.MINUS,
		token.ASTERISK, token.SLASH, token.FLOOR_DIV, token.PERCENT,
		token.POWER, token.ROOT,
	} {
		p.registerInfix(op, p.parseInfixExpression)
	}
	for _, op := range []token.TokenType{token.EQ, token.NOT_EQ, token.LT, token.GT, token.LT_EQ, token.GT_EQ} {
		p.registerInfix(op, p.parseComparisonExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseDotExpression)

	// curToken と peekToken の両方をセットするために2回読む
	p.nextToken()
	p.nextToken()

	return p
}

// Parse はソースコードをトークン化してプログラム全体をパースする。
// エラーがあれば ErrorList を返す。
func Parse(input string, opts ...Option) (*ast.Program, error) {
	p := New(lexer.New(input), opts...)
	program := p.ParseProgram()
	return program, p.Errors().Err()
}

// nextToken は次のトークンに進む。新しく現在位置に来たキーワードは方言チェックを受ける。
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.src.NextToken()
	p.checkDialect(p.curToken)

	switch p.curToken.Type {
	case token.LBRACE:
		p.depth++
	case token.RBRACE:
		p.depth--
	case token.LPAREN:
		p.parens++
	case token.RPAREN:
		p.parens--
	}
}

// curTokenIs は現在のトークンが指定された型か判定する。
func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs は次のトークンが指定された型か判定する。
func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek は次のトークンが期待する型であればトークンを進めてtrueを返す。
// 期待と違う場合はエラーを記録して同期し、falseを返す。
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// expectSemicolon は単純文の終端の ';' を要求する。
// 欠けている場合は文の最後のトークンの位置で報告する。
func (p *Parser) expectSemicolon() bool {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return true
	}
	p.error(p.curToken, fmt.Sprintf("missing ';' after %s", describe(p.curToken)))
	return false
}

// Errors はパース中に蓄積されたエラーを位置順に返す。
func (p *Parser) Errors() ErrorList {
	return p.errors.sorted()
}

// Dialect はプログラム開始キーワードから決まった方言を返す。
func (p *Parser) Dialect() token.Dialect {
	return p.dialect
}

// error はエラーを記録し、安全な再開位置まで読み飛ばす。
func (p *Parser) error(tok token.Token, msg string) {
	p.errors = append(p.errors, &SyntaxError{Line: tok.Line, Column: tok.Column, Message: msg})
	p.synchronize()
}

// synchronize はエラー後に解析を再開できる位置までトークンを進める。
// 現在のトークンが ';' なら、その直後から再開する。
// 次のトークンが '}'、EOF、または文を始めるキーワードなら、その直前で止まる。
// 呼び出し側のループが nextToken したときに再開位置へ着く。
func (p *Parser) synchronize() {
	for {
		if p.curTokenIs(token.SEMICOLON) {
			return
		}
		if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) || token.StartsStatement(p.peekToken.Type) {
			return
		}
		p.nextToken()
	}
}

// peekError は次のトークンが期待と違った場合のエラーを記録する。
func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("expected %s, got %s", p.display(t), describe(p.peekToken))
	p.error(p.peekToken, msg)
}

// noPrefixParseFnError は式を始められないトークンに対するエラーを記録する。
func (p *Parser) noPrefixParseFnError(tok token.Token) {
	if tok.Type == token.ILLEGAL {
		p.error(tok, "illegal token: "+tok.Literal)
		return
	}
	p.error(tok, fmt.Sprintf("unexpected %s", describe(tok)))
}

// display はトークン型をエラーメッセージ用に現在の方言の綴りで表す。
func (p *Parser) display(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.EOF:
		return "end of file"
	}
	return "'" + token.Spelling(t, p.dialect) + "'"
}

// describe はトークンの実際の綴りをエラーメッセージ用に表す。
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.STRING:
		return fmt.Sprintf("%q", tok.Literal)
	}
	return "'" + tok.Literal + "'"
}

// =====================
// プログラムと文の列
// =====================

// ParseProgram はプログラム全体をパースしてASTのルートノードを返す。
// 最初のトークンはプログラム開始キーワード（Hetman など）でなければならず、
// そうでなければエラーを1件記録してそれ以上解析しない。
func (p *Parser) ParseProgram() *ast.Program {
	defer p.untrace(p.trace("ParseProgram"))

	program := &ast.Program{Token: p.curToken, Statements: []ast.Statement{}}

	if !p.curTokenIs(token.PROGRAM) {
		p.errors = append(p.errors, &SyntaxError{
			Line:    p.curToken.Line,
			Column:  p.curToken.Column,
			Message: "program must start with the Hetman keyword",
		})
		return program
	}

	if set, ok := token.DialectsOf(p.curToken.Literal); ok {
		p.dialect = set.First()
	}
	program.Dialect = p.dialect
	p.nextToken()

	program.Statements = p.parseStatements()
	return program
}

// ParseStatements はプログラム開始キーワードなしで文の列をパースする。
// REPL が1入力ずつ評価するために使う。strict モードでは使われたキーワードから
// 方言を決め、Dialect で返す。
func (p *Parser) ParseStatements() []ast.Statement {
	stmts := p.parseStatements()
	if p.dialects != token.AllDialects {
		p.dialect = p.dialects.First()
	}
	return stmts
}

func (p *Parser) parseStatements() []ast.Statement {
	stmts := []ast.Statement{}
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	return stmts
}

// registerPrefix は前置解析関数を登録するヘルパー。
func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix は中置解析関数を登録するヘルパー。
func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

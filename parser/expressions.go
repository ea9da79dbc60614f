package parser

import (
	"fmt"
	"strconv"

	"kozak/ast"
	"kozak/token"
)

// 演算子の優先順位を定数で定義する。
// 数値が大きいほど優先順位が高い。どの二項演算子も左結合で、
// `2 ^ 3 ^ 2` は `(2 ^ 3) ^ 2` になる。
const (
	_ int = iota
	LOWEST
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	COMPARE     // == != < > <= >=
	SUM         // + -
	PRODUCT     // * / // %
	POWER       // ^ ^/
	PREFIX      // -X または +X
	POSTFIX     // f(X), a[i], obj.name
)

// precedences はトークンタイプから優先順位への対応表。
var precedences = map[token.TokenType]int{
	token.OR:        LOGICAL_OR,
	token.AND:       LOGICAL_AND,
	token.EQ:        COMPARE,
	token.NOT_EQ:    COMPARE,
	token.LT:        COMPARE,
	token.GT:        COMPARE,
	token.LT_EQ:     COMPARE,
	token.GT_EQ:     COMPARE,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.ASTERISK:  PRODUCT,
	token.SLASH:     PRODUCT,
	token.FLOOR_DIV: PRODUCT,
	token.PERCENT:   PRODUCT,
	token.POWER:     POWER,
	token.ROOT:      POWER,
	token.LPAREN:    POSTFIX,
	token.LBRACKET:  POSTFIX,
	token.DOT:       POSTFIX,
}

// parseExpression は Pratt Parser のメインループ。
// 1. 現在のトークンに対応する前置解析関数を呼んで左辺の式を得る
// 2. 次のトークンの優先順位が現在の優先順位より高い間、
//    中置解析関数を呼んで左辺に演算子と右辺を結合していく
//
// 途中で失敗した場合はエラーを記録済みで nil を返す。
func (p *Parser) parseExpression(precedence int) ast.Expression {
	defer p.untrace(p.trace("parseExpression"))

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

// peekPrecedence は次のトークンの優先順位を返す。
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

// curPrecedence は現在のトークンの優先順位を返す。
func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

// =====================
// 前置解析関数
// =====================

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseIntegerLiteral は整数リテラルをパースする。
func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.error(p.curToken, fmt.Sprintf("could not parse %q as integer", p.curToken.Literal))
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

// parseFloatLiteral は小数リテラルをパースする。
func (p *Parser) parseFloatLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.error(p.curToken, fmt.Sprintf("could not parse %q as float", p.curToken.Literal))
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parseThis() ast.Expression {
	return &ast.ThisExpression{Token: p.curToken}
}

// parsePrefixExpression は単項演算子式（-x, +x）をパースする。
func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()

	if expression.Right = p.parseExpression(PREFIX); expression.Right == nil {
		return nil
	}
	return expression
}

// parseGroupedExpression は括弧で囲まれた式 `(expression)` をパースする。
// 括弧はグループ化のためだけに使われ、AST上には残らない。
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if exp == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseArrayLiteral は `[a, b, c]` をパースする。末尾のカンマは許す。
func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}

	elements, ok := p.parseExpressionList(token.RBRACKET, true)
	if !ok {
		return nil
	}
	array.Elements = elements
	return array
}

// parseDictionaryLiteral は `{key: value, ...}` をパースする。
func (p *Parser) parseDictionaryLiteral() ast.Expression {
	dict := &ast.DictionaryLiteral{Token: p.curToken}

	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if key == nil || !p.expectPeek(token.COLON) {
			return nil
		}

		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}

		dict.Keys = append(dict.Keys, key)
		dict.Values = append(dict.Values, value)

		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return dict
}

// parseNewExpression は `Novyi ClassName(<args>)` をパースする。
func (p *Parser) parseNewExpression() ast.Expression {
	exp := &ast.NewExpression{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	exp.Class = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args, ok := p.parseExpressionList(token.RPAREN, false)
	if !ok {
		return nil
	}
	exp.Arguments = args
	return exp
}

// parseSuperExpression は `Batko(<args>)` または `Batko.method(<args>)` をパースする。
func (p *Parser) parseSuperExpression() ast.Expression {
	exp := &ast.SuperExpression{Token: p.curToken}

	if p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		exp.Method = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args, ok := p.parseExpressionList(token.RPAREN, false)
	if !ok {
		return nil
	}
	exp.Arguments = args
	return exp
}

// parseInputExpression は `Slukhai(<prompt>)` をパースする。プロンプトは省略できる。
func (p *Parser) parseInputExpression() ast.Expression {
	exp := &ast.InputExpression{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return exp
	}

	p.nextToken()
	if exp.Prompt = p.parseExpression(LOWEST); exp.Prompt == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseCastExpression は `Chyslo(<expr>)` などの型変換をパースする。
func (p *Parser) parseCastExpression() ast.Expression {
	exp := &ast.CastExpression{Token: p.curToken, Type: p.curToken.Type}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	if exp.Value = p.parseExpression(LOWEST); exp.Value == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// =====================
// 中置解析関数
// =====================

// parseInfixExpression は算術・論理の二項演算子式をパースする。
// 現在のトークン（演算子）の優先順位で右辺をパースするので左結合になる。
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	if expression.Right = p.parseExpression(precedence); expression.Right == nil {
		return nil
	}
	return expression
}

// parseComparisonExpression は比較演算子式をパースする。
func (p *Parser) parseComparisonExpression(left ast.Expression) ast.Expression {
	expression := &ast.ComparisonExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	if expression.Right = p.parseExpression(precedence); expression.Right == nil {
		return nil
	}
	return expression
}

// parseCallExpression は関数呼び出し `<name>(<args>)` をパースする。
// 呼び出せるのは名前だけで、メソッド呼び出しは parseDotExpression が扱う。
func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	ident, ok := function.(*ast.Identifier)
	if !ok {
		p.error(p.curToken, fmt.Sprintf("cannot call %s", function.String()))
		return nil
	}

	exp := &ast.CallExpression{Token: p.curToken, Function: ident}
	args, ok := p.parseExpressionList(token.RPAREN, false)
	if !ok {
		return nil
	}
	exp.Arguments = args
	return exp
}

// parseIndexExpression は `<left>[<index>]` をパースする。
func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	if exp.Index = p.parseExpression(LOWEST); exp.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return exp
}

// parseDotExpression は `<object>.name` と `<object>.name(<args>)` をパースする。
func (p *Parser) parseDotExpression(object ast.Expression) ast.Expression {
	dot := p.curToken

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.peekTokenIs(token.LPAREN) {
		return &ast.PropertyExpression{Token: dot, Object: object, Property: name}
	}

	p.nextToken()
	args, ok := p.parseExpressionList(token.RPAREN, false)
	if !ok {
		return nil
	}
	return &ast.MethodCallExpression{Token: dot, Object: object, Method: name, Arguments: args}
}

// parseExpressionList はカンマ区切りの式のリストを end まで読む。
// curToken が開き括弧の状態で呼び、成功すると curToken は end を指す。
// allowTrailing が false なら末尾のカンマはエラーになる（関数の引数リスト）。
func (p *Parser) parseExpressionList(end token.TokenType, allowTrailing bool) ([]ast.Expression, bool) {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	for {
		p.nextToken()
		exp := p.parseExpression(LOWEST)
		if exp == nil {
			return nil, false
		}
		list = append(list, exp)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(end) {
			if allowTrailing {
				break
			}
			p.error(p.peekToken, "function arguments cannot have a trailing comma, kozache")
			return nil, false
		}
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

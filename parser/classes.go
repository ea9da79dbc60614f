package parser

import (
	"kozak/ast"
	"kozak/token"
)

// parseClassStatement は `Klas Name [: Parent] { <members> }` をパースする。
func (p *Parser) parseClassStatement() ast.Statement {
	defer p.untrace(p.trace("parseClassStatement"))

	cs := &ast.ClassStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	cs.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		cs.Parent = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		p.parseClassMember(cs)
		p.nextToken()
	}

	if p.curTokenIs(token.EOF) {
		p.error(p.curToken, "expected '}' to close class "+cs.Name.Value)
		return nil
	}
	return cs
}

// parseClassMember はクラス本体の1メンバーをパースして cs に追加する。
//
//	[access] name;
//	[access] Zavdannya m(...) { ... }
//	Tvir(...) { ... }
//	Ruinuvach() { ... }
//	Druh f, g;
func (p *Parser) parseClassMember(cs *ast.ClassStatement) {
	defer p.untrace(p.trace("parseClassMember"))

	var access token.TokenType
	switch p.curToken.Type {
	case token.SEMICOLON:
		return
	case token.PUBLIC, token.PRIVATE, token.PROTECTED:
		access = p.curToken.Type
		p.nextToken()
	}

	switch p.curToken.Type {
	case token.IDENT:
		field := &ast.FieldDeclaration{
			Token:  p.curToken,
			Access: access,
			Name:   &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		}
		if !p.expectSemicolon() {
			return
		}
		cs.Fields = append(cs.Fields, field)

	case token.FUNCTION:
		fn := p.parseFunctionStatement()
		if fn == nil {
			return
		}
		cs.Methods = append(cs.Methods, &ast.MethodDeclaration{Access: access, Function: fn})

	case token.CONSTRUCTOR:
		if cs.Constructor != nil {
			p.error(p.curToken, "class "+cs.Name.Value+" already has a constructor")
			return
		}
		cs.Constructor = p.parseSpecialMethod("constructor")

	case token.DESTRUCTOR:
		if cs.Destructor != nil {
			p.error(p.curToken, "class "+cs.Name.Value+" already has a destructor")
			return
		}
		cs.Destructor = p.parseSpecialMethod("destructor")

	case token.FRIEND:
		for {
			if !p.expectPeek(token.IDENT) {
				return
			}
			cs.Friends = append(cs.Friends, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		p.expectSemicolon()

	default:
		p.error(p.curToken, "unexpected "+describe(p.curToken)+" in class "+cs.Name.Value)
	}
}

// parseSpecialMethod はコンストラクタ `Tvir(...) {...}` と
// デストラクタ `Ruinuvach() {...}` を名前付きの関数としてパースする。
func (p *Parser) parseSpecialMethod(name string) *ast.FunctionStatement {
	fn := &ast.FunctionStatement{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: name},
	}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	fn.Parameters = params

	if fn.Body = p.parseBlock(); fn.Body == nil {
		return nil
	}
	return fn
}

package parser

import (
	"kozak/ast"
	"kozak/token"
)

// parseStatement は現在のトークンに応じて適切な種類の文をパースする。
// 成功すると curToken は文の最後のトークン（';' または '}'）を指す。
// 失敗した場合はエラーを記録済みで nil を返す。
func (p *Parser) parseStatement() ast.Statement {
	defer p.untrace(p.trace("parseStatement"))

	switch p.curToken.Type {
	case token.SEMICOLON:
		// 余分な ';' は読み飛ばす
		return nil
	case token.ECHO:
		return p.parseEchoStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.FUNCTION:
		return p.parseCompound(func() ast.Statement {
			if fn := p.parseFunctionStatement(); fn != nil {
				return fn
			}
			return nil
		})
	case token.FOR:
		return p.parseCompound(p.parseForStatement)
	case token.WHILE:
		return p.parseCompound(p.parseWhileStatement)
	case token.IF:
		return p.parseCompound(p.parseIfStatement)
	case token.CLASS:
		return p.parseCompound(p.parseClassStatement)
	case token.TRY:
		return p.parseCompound(p.parseTryStatement)
	case token.THROW:
		return p.parseThrowStatement()
	case token.EXIT:
		return p.parseExitStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.ELSE_IF, token.ELSE, token.CATCH, token.FINALLY, token.RBRACE, token.PROGRAM:
		p.error(p.curToken, "unexpected "+describe(p.curToken))
		return nil
	}

	if token.IsCast(p.curToken.Type) && p.peekTokenIs(token.IDENT) {
		if decl := p.parseTypedDeclaration(true); decl != nil {
			return decl
		}
		return nil
	}
	return p.parseSimpleStatement(true)
}

// parseCompound はブロックを持つ文をパースする。
// 途中でエラーになった場合はその文のブロックの終わりまで読み飛ばし、
// ブロックの中身がトップレベルの文として解析されないようにする。
func (p *Parser) parseCompound(parse func() ast.Statement) ast.Statement {
	depth, parens, errs := p.depth, p.parens, len(p.errors)
	stmt := parse()
	if stmt == nil && len(p.errors) > errs {
		p.skipBlock(depth, parens)
	}
	return stmt
}

// skipBlock は波括弧の深さが depth に戻る '}' まで進める。
// ブロックがまだ始まっていなければ、条件の ')' を閉じてから
// 直後の '{' から始まるブロックを読み飛ばす。
func (p *Parser) skipBlock(depth, parens int) {
	for p.depth == depth && p.parens > parens && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
	if p.depth == depth {
		if !p.peekTokenIs(token.LBRACE) {
			return
		}
		p.nextToken()
	}
	for p.depth > depth && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

// parseSimpleStatement は代入・インクリメント・式文をパースする。
// terminated が true なら終端の ';' を要求する（for 文の step では false）。
//
//	x := <expr>;  obj.f := <expr>;  arr[i] := <expr>;  x++;  f(1);
func (p *Parser) parseSimpleStatement(terminated bool) ast.Statement {
	defer p.untrace(p.trace("parseSimpleStatement"))

	start := p.curToken

	var stmt ast.Statement
	if p.curTokenIs(token.IDENT) && (p.peekTokenIs(token.INCREMENT) || p.peekTokenIs(token.DECREMENT)) {
		name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()
		stmt = &ast.IncrementStatement{Token: start, Name: name, Operator: p.curToken.Literal}
	} else {
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}

		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			assignTok := p.curToken
			p.nextToken()
			value := p.parseExpression(LOWEST)
			if value == nil {
				return nil
			}
			stmt = p.assignmentTo(start, assignTok, expr, value)
			if stmt == nil {
				return nil
			}
		} else {
			stmt = &ast.ExpressionStatement{Token: start, Expression: expr}
		}
	}

	if terminated && !p.expectSemicolon() {
		return nil
	}
	return stmt
}

// assignmentTo は代入先の式の種類に応じて代入文を組み立てる。
func (p *Parser) assignmentTo(start, assignTok token.Token, target, value ast.Expression) ast.Statement {
	switch t := target.(type) {
	case *ast.Identifier:
		return &ast.AssignStatement{Token: start, Name: t, Value: value}
	case *ast.PropertyExpression:
		return &ast.PropertyAssignStatement{Token: start, Object: t.Object, Property: t.Property, Value: value}
	case *ast.IndexExpression:
		return &ast.IndexAssignStatement{Token: start, Left: t.Left, Index: t.Index, Value: value}
	}
	p.error(assignTok, "cannot assign to "+target.String())
	return nil
}

// parseTypedDeclaration は `Chyslo x := <expr>;` をパースする。
func (p *Parser) parseTypedDeclaration(terminated bool) *ast.AssignStatement {
	defer p.untrace(p.trace("parseTypedDeclaration"))

	stmt := &ast.AssignStatement{Token: p.curToken, DeclaredType: p.curToken.Type}
	p.nextToken()
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if terminated && !p.expectSemicolon() {
		return nil
	}
	return stmt
}

// parseEchoStatement は `Spivaty(<args>);` をパースする。
func (p *Parser) parseEchoStatement() ast.Statement {
	stmt := &ast.EchoStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args, ok := p.parseExpressionList(token.RPAREN, false)
	if !ok {
		return nil
	}
	stmt.Arguments = args

	if !p.expectSemicolon() {
		return nil
	}
	return stmt
}

// parseReturnStatement は `Povernuty [<expression>];` をパースする。
func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	p.nextToken()

	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil {
		return nil
	}
	if !p.expectSemicolon() {
		return nil
	}
	return stmt
}

// parseThrowStatement は `Kynuty(<expression>);` をパースする。
func (p *Parser) parseThrowStatement() ast.Statement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectSemicolon() {
		return nil
	}
	return stmt
}

// parseExitStatement は `Vyity;`、`Vyity();`、`Vyity(<code>);` をパースする。
func (p *Parser) parseExitStatement() ast.Statement {
	stmt := &ast.ExitStatement{Token: p.curToken}

	switch {
	case p.peekTokenIs(token.SEMICOLON):
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			break
		}
		p.nextToken()
		stmt.Code = p.parseExpression(LOWEST)
		if stmt.Code == nil || !p.expectPeek(token.RPAREN) {
			return nil
		}
	default:
		p.nextToken()
		stmt.Code = p.parseExpression(LOWEST)
		if stmt.Code == nil {
			return nil
		}
	}

	if !p.expectSemicolon() {
		return nil
	}
	return stmt
}

// parseImportStatement は `Importuvaty("file.kozak");` をパースする。
func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}
	p.nextToken()

	stmt.Path = p.parseExpression(LOWEST)
	if stmt.Path == nil {
		return nil
	}
	if !p.expectSemicolon() {
		return nil
	}
	return stmt
}

// parseBlockStatement は `{ ... }` 内の文をパースする。
// curToken が '{' の状態で呼び、成功すると curToken は '}' を指す。
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	defer p.untrace(p.trace("parseBlockStatement"))

	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	if p.curTokenIs(token.EOF) {
		p.error(p.curToken, "expected '}' before end of file")
		return nil
	}
	return block
}

// parseBlock は次のトークンが '{' であることを確かめてからブロックをパースする。
func (p *Parser) parseBlock() *ast.BlockStatement {
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	return p.parseBlockStatement()
}

// parseCondition は `(<expression>)` をパースする。
func (p *Parser) parseCondition() ast.Expression {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return cond
}

// parseIfStatement は `Yakscho (<c>) {...} AboYakscho (<c>) {...} Inakshe {...}` をパースする。
func (p *Parser) parseIfStatement() ast.Statement {
	defer p.untrace(p.trace("parseIfStatement"))

	stmt := &ast.IfStatement{Token: p.curToken}

	if stmt.Condition = p.parseCondition(); stmt.Condition == nil {
		return nil
	}
	if stmt.Consequence = p.parseBlock(); stmt.Consequence == nil {
		return nil
	}

	for p.peekTokenIs(token.ELSE_IF) {
		p.nextToken()
		elif := &ast.ElseIf{Token: p.curToken}
		if elif.Condition = p.parseCondition(); elif.Condition == nil {
			return nil
		}
		if elif.Consequence = p.parseBlock(); elif.Consequence == nil {
			return nil
		}
		stmt.ElseIfs = append(stmt.ElseIfs, elif)
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if stmt.Alternative = p.parseBlock(); stmt.Alternative == nil {
			return nil
		}
	}

	return stmt
}

// parseWhileStatement は `Doki (<c>) { ... }` をパースする。
func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	if stmt.Condition = p.parseCondition(); stmt.Condition == nil {
		return nil
	}
	if stmt.Body = p.parseBlock(); stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseForStatement は2種類の for 文をパースする。
//
//	Dlya (i := 0; i < n; i++) { ... }
//	Dlya (x V items) { ... }
func (p *Parser) parseForStatement() ast.Statement {
	defer p.untrace(p.trace("parseForStatement"))

	forTok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.IN) {
		stmt := &ast.ForEachStatement{Token: forTok}
		stmt.Variable = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()
		p.nextToken()
		if stmt.Iterable = p.parseExpression(LOWEST); stmt.Iterable == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		if stmt.Body = p.parseBlock(); stmt.Body == nil {
			return nil
		}
		return stmt
	}

	stmt := &ast.ForStatement{Token: forTok}
	if token.IsCast(p.curToken.Type) && p.peekTokenIs(token.IDENT) {
		init := p.parseTypedDeclaration(true)
		if init == nil {
			return nil
		}
		stmt.Init = init
	} else if stmt.Init = p.parseSimpleStatement(true); stmt.Init == nil {
		return nil
	}

	p.nextToken()
	if stmt.Condition = p.parseExpression(LOWEST); stmt.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	p.nextToken()
	if stmt.Step = p.parseSimpleStatement(false); stmt.Step == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if stmt.Body = p.parseBlock(); stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseFunctionStatement は `Zavdannya name(<params>) { ... }` をパースする。
func (p *Parser) parseFunctionStatement() *ast.FunctionStatement {
	defer p.untrace(p.trace("parseFunctionStatement"))

	fn := &ast.FunctionStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

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

// parseFunctionParameters は関数のパラメータリスト `(x, y, z)` をパースする。
// curToken が '(' の状態で呼び、成功すると curToken は ')' を指す。
func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	identifiers := []*ast.Identifier{}

	// パラメータが0個の場合
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers, true
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			p.error(p.peekToken, "parameters cannot have a trailing comma, kozache")
			return nil, false
		}
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return identifiers, true
}

// parseTryStatement は `Sprobuvaty {...} [Spiimaty [(e)] {...}] [Naprykintsi {...}]` をパースする。
func (p *Parser) parseTryStatement() ast.Statement {
	defer p.untrace(p.trace("parseTryStatement"))

	stmt := &ast.TryStatement{Token: p.curToken}
	if stmt.Body = p.parseBlock(); stmt.Body == nil {
		return nil
	}

	if p.peekTokenIs(token.CATCH) {
		p.nextToken()
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			stmt.CatchName = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
		}
		if stmt.Catch = p.parseBlock(); stmt.Catch == nil {
			return nil
		}
	}

	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if stmt.Finally = p.parseBlock(); stmt.Finally == nil {
			return nil
		}
	}

	if stmt.Catch == nil && stmt.Finally == nil {
		p.error(p.peekToken, "expected "+p.display(token.CATCH)+" or "+p.display(token.FINALLY)+" after "+p.display(token.TRY)+" block")
		return nil
	}
	return stmt
}

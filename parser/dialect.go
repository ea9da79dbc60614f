package parser

import (
	"fmt"

	"kozak/token"
)

// checkDialect は strict モードでキーワードの方言の一貫性を確認する。
// これまでに現れたキーワードと両立する方言の集合を積集合で絞り込み、
// 両立しないキーワードは置き換え候補付きで記録する。解析は止めない。
func (p *Parser) checkDialect(tok token.Token) {
	if !p.strict {
		return
	}
	set, ok := token.DialectsOf(tok.Literal)
	if !ok || token.LookupIdent(tok.Literal) != tok.Type {
		return
	}

	if p.dialects&set == 0 {
		expected := p.dialects.First()
		p.errors = append(p.errors, &SyntaxError{
			Line:       tok.Line,
			Column:     tok.Column,
			Message:    fmt.Sprintf("keyword '%s' is %s, but this program is written in %s", tok.Literal, set, expected),
			Suggestion: token.Spelling(tok.Type, expected),
		})
		return
	}
	p.dialects &= set
}

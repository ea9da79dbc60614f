package lexer

import (
	"testing"

	"kozak/token"
)

func TestNextToken(t *testing.T) {
	input := `Hetman
# line comment
x := 5;
ratio := 2.5 // 2 ^/ 3;
/* block
   comment */
Spivaty("hi\n", 'it''s');
Yakscho (x >= 10 && x != 3 || x <= 1) { x++; } Inakshe { x--; }
arr[0] := {"k": x.y};
z := 7 % 2 ^ 2 == 1 < 2 > 0;
`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.PROGRAM, "Hetman"},
		{token.IDENT, "x"},
		{token.ASSIGN, ":="},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "ratio"},
		{token.ASSIGN, ":="},
		{token.FLOAT, "2.5"},
		{token.FLOOR_DIV, "//"},
		{token.INT, "2"},
		{token.ROOT, "^/"},
		{token.INT, "3"},
		{token.SEMICOLON, ";"},
		{token.ECHO, "Spivaty"},
		{token.LPAREN, "("},
		{token.STRING, "hi\n"},
		{token.COMMA, ","},
		{token.STRING, "it"},
		{token.STRING, "s"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.IF, "Yakscho"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.GT_EQ, ">="},
		{token.INT, "10"},
		{token.AND, "&&"},
		{token.IDENT, "x"},
		{token.NOT_EQ, "!="},
		{token.INT, "3"},
		{token.OR, "||"},
		{token.IDENT, "x"},
		{token.LT_EQ, "<="},
		{token.INT, "1"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.INCREMENT, "++"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.ELSE, "Inakshe"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.DECREMENT, "--"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.IDENT, "arr"},
		{token.LBRACKET, "["},
		{token.INT, "0"},
		{token.RBRACKET, "]"},
		{token.ASSIGN, ":="},
		{token.LBRACE, "{"},
		{token.STRING, "k"},
		{token.COLON, ":"},
		{token.IDENT, "x"},
		{token.DOT, "."},
		{token.IDENT, "y"},
		{token.RBRACE, "}"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "z"},
		{token.ASSIGN, ":="},
		{token.INT, "7"},
		{token.PERCENT, "%"},
		{token.INT, "2"},
		{token.POWER, "^"},
		{token.INT, "2"},
		{token.EQ, "=="},
		{token.INT, "1"},
		{token.LT, "<"},
		{token.INT, "2"},
		{token.GT, ">"},
		{token.INT, "0"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestPositions(t *testing.T) {
	toks := Tokenize("Hetman\n  x := \"ї\";\n\tSpivaty(x);")

	want := []struct {
		literal      string
		line, column int
	}{
		{"Hetman", 1, 1},
		{"x", 2, 3},
		{":=", 2, 5},
		{"ї", 2, 8},
		{";", 2, 11},
		{"Spivaty", 3, 2},
	}

	for i, w := range want {
		tok := toks[i]
		if tok.Literal != w.literal || tok.Line != w.line || tok.Column != w.column {
			t.Errorf("token %d: got %q at %d:%d, want %q at %d:%d",
				i, tok.Literal, tok.Line, tok.Column, w.literal, w.line, w.column)
		}
	}
}

func TestSymbolicDialect(t *testing.T) {
	toks := Tokenize("⊢ ƒ f(a) { ↵ a; } » (⊤, ∅);")

	want := []token.TokenType{
		token.PROGRAM, token.FUNCTION, token.IDENT, token.LPAREN, token.IDENT, token.RPAREN,
		token.LBRACE, token.RETURN, token.IDENT, token.SEMICOLON, token.RBRACE,
		token.ECHO, token.LPAREN, token.TRUE, token.COMMA, token.NULL, token.RPAREN,
		token.SEMICOLON, token.EOF,
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, kind := range want {
		if toks[i].Type != kind {
			t.Errorf("token %d: got %q (%q), want %q", i, toks[i].Type, toks[i].Literal, kind)
		}
	}
}

func TestIllegalInput(t *testing.T) {
	tests := []struct {
		input   string
		literal string
	}{
		{`"open`, "unterminated string"},
		{"/* never closed", "unterminated comment"},
		{"@", "@"},
		{"=", "="},
	}

	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != token.ILLEGAL || tok.Literal != tt.literal {
			t.Errorf("input %q: got %q %q, want ILLEGAL %q", tt.input, tok.Type, tok.Literal, tt.literal)
		}
	}
}

func TestNumbers(t *testing.T) {
	toks := Tokenize("42 3.14 7.")
	if toks[0].Type != token.INT || toks[1].Type != token.FLOAT || toks[2].Type != token.FLOAT {
		t.Fatalf("unexpected number tokens: %v", toks)
	}
	if toks[2].Literal != "7." {
		t.Errorf("literal wrong: %q", toks[2].Literal)
	}
}

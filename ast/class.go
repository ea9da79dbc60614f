package ast

import (
	"bytes"
	"strings"

	"kozak/token"
)

// FieldDeclaration はクラス本体の `[access] name;` を表す。
// Access はアクセス修飾子のトークン型（PUBLIC / PRIVATE / PROTECTED）で、
// 修飾子がなければ空。
type FieldDeclaration struct {
	Token  token.Token
	Access token.TokenType
	Name   *Identifier
}

// MethodDeclaration はクラス本体の `[access] Zavdannya m(...) {...}` を表す。
type MethodDeclaration struct {
	Access   token.TokenType
	Function *FunctionStatement
}

// ClassStatement は `Klas Name [: Parent] { ... }` というクラス定義を表す。
// Constructor と Destructor は省略できる。Destructor は解析されるだけで呼ばれない。
type ClassStatement struct {
	Token       token.Token
	Name        *Identifier
	Parent      *Identifier
	Fields      []*FieldDeclaration
	Methods     []*MethodDeclaration
	Constructor *FunctionStatement
	Destructor  *FunctionStatement
	Friends     []*Identifier
}

func (cs *ClassStatement) statementNode()       {}
func (cs *ClassStatement) TokenLiteral() string { return cs.Token.Literal }

// String はクラス定義を `class Name : Parent { ... }` の形式で返す。
func (cs *ClassStatement) String() string {
	var out bytes.Buffer

	out.WriteString("class " + cs.Name.String())
	if cs.Parent != nil {
		out.WriteString(" : " + cs.Parent.String())
	}
	out.WriteString(" { ")

	for _, f := range cs.Fields {
		out.WriteString(accessPrefix(f.Access) + f.Name.String() + "; ")
	}
	for _, fr := range cs.Friends {
		out.WriteString("friend " + fr.String() + "; ")
	}
	if cs.Constructor != nil {
		out.WriteString("constructor(" + paramList(cs.Constructor) + ") " + cs.Constructor.Body.String() + " ")
	}
	if cs.Destructor != nil {
		out.WriteString("destructor() " + cs.Destructor.Body.String() + " ")
	}
	for _, m := range cs.Methods {
		out.WriteString(accessPrefix(m.Access) + m.Function.String() + " ")
	}
	out.WriteString("}")

	return out.String()
}

func accessPrefix(access token.TokenType) string {
	if access == "" {
		return ""
	}
	return strings.ToLower(string(access)) + " "
}

func paramList(fs *FunctionStatement) string {
	params := []string{}
	for _, p := range fs.Parameters {
		params = append(params, p.String())
	}
	return strings.Join(params, ", ")
}

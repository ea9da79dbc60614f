// dialect.go は4つの方言のキーワード語彙を定義する。
// ウクライナ語・ロシア語（ラテン文字転写）、英語、記号の4方言があり、
// 同じ文法を別々の綴りで書ける。一部の綴りはウクライナ語とロシア語で共有される。
package token

import "strings"

// Dialect はキーワード語彙の1つを表す。
type Dialect int

const (
	Ukrainian Dialect = iota
	Russian
	English
	Symbolic

	dialectCount = 4
)

var dialectNames = [dialectCount]string{"Ukrainian", "Russian", "English", "Symbolic"}

func (d Dialect) String() string {
	if d < 0 || int(d) >= dialectCount {
		return "Unknown"
	}
	return dialectNames[d]
}

// DialectSet は方言の集合をビットで表す。
type DialectSet uint8

// AllDialects は全方言を含む集合。
const AllDialects DialectSet = 1<<dialectCount - 1

// SetOf は与えられた方言からなる集合を作る。
func SetOf(ds ...Dialect) DialectSet {
	var s DialectSet
	for _, d := range ds {
		s |= 1 << d
	}
	return s
}

// Has は集合が方言 d を含むか判定する。
func (s DialectSet) Has(d Dialect) bool { return s&(1<<d) != 0 }

// First は集合に含まれる最初の方言を返す。空集合なら Ukrainian。
func (s DialectSet) First() Dialect {
	for d := Dialect(0); d < dialectCount; d++ {
		if s.Has(d) {
			return d
		}
	}
	return Ukrainian
}

func (s DialectSet) String() string {
	names := []string{}
	for d := Dialect(0); d < dialectCount; d++ {
		if s.Has(d) {
			names = append(names, d.String())
		}
	}
	return strings.Join(names, "/")
}

// vocabulary は正規のキーワード種別から方言ごとの綴りへの対応表。
// 添字は Dialect の値（uk, ru, en, sym）。
var vocabulary = map[TokenType][dialectCount]string{
	PROGRAM:     {"Hetman", "Ataman", "Captain", "⊢"},
	ECHO:        {"Spivaty", "Pet", "Sing", "»"},
	INPUT:       {"Slukhai", "Slushai", "Listen", "«"},
	RETURN:      {"Povernuty", "Vernut", "Return", "↵"},
	FUNCTION:    {"Zavdannya", "Zadacha", "Task", "ƒ"},
	FOR:         {"Dlya", "Dlya", "For", "∀"},
	IN:          {"V", "V", "In", "∈"},
	WHILE:       {"Doki", "Poka", "While", "⟳"},
	TRUE:        {"Pravda", "Pravda", "True", "⊤"},
	FALSE:       {"Nepravda", "Lozh", "False", "⊥"},
	NULL:        {"Nishcho", "Nichto", "Null", "∅"},
	CAST_INT:    {"Chyslo", "Chislo", "Int", "ℤ"},
	CAST_FLOAT:  {"DroboveChyslo", "DrobnoeChislo", "Float", "ℝ"},
	CAST_STRING: {"Ryadok", "Stroka", "Str", "𝕊"},
	CAST_BOOL:   {"Logika", "Logika", "Bool", "𝔹"},
	IF:          {"Yakscho", "Esli", "If", "¿"},
	ELSE_IF:     {"AboYakscho", "InacheEsli", "ElseIf", "⁇"},
	ELSE:        {"Inakshe", "Inache", "Else", "¡"},
	CLASS:       {"Klas", "Klass", "Class", "◇"},
	NEW:         {"Novyi", "Novyj", "New", "✚"},
	THIS:        {"Tsei", "Etot", "This", "◉"},
	SUPER:       {"Batko", "Roditel", "Super", "△"},
	TRY:         {"Sprobuvaty", "Poprobovat", "Try", "⚐"},
	CATCH:       {"Spiimaty", "Poimat", "Catch", "⚑"},
	FINALLY:     {"Naprykintsi", "Nakonets", "Finally", "∎"},
	THROW:       {"Kynuty", "Brosit", "Throw", "⚡"},
	EXIT:        {"Vyity", "Vyiti", "Exit", "⏻"},
	IMPORT:      {"Importuvaty", "Importirovat", "Import", "⇐"},
	PUBLIC:      {"Publichnyi", "Publichnyj", "Public", "⊕"},
	PRIVATE:     {"Pryvatnyi", "Privatnyj", "Private", "⊖"},
	PROTECTED:   {"Zakhyshchenyi", "Zashchishchennyj", "Protected", "⊘"},
	FRIEND:      {"Druh", "Drug", "Friend", "♡"},
	CONSTRUCTOR: {"Tvir", "Sozdatel", "Constructor", "✦"},
	DESTRUCTOR:  {"Ruinuvach", "Razrushitel", "Destructor", "✧"},
}

// keyword は1つの綴りの種別と、その綴りが属する方言集合。
type keyword struct {
	Type     TokenType
	Dialects DialectSet
}

// keywords は綴りからキーワード情報への逆引き表。init で vocabulary から構築する。
var keywords = map[string]keyword{}

// symbols は記号方言の1ルーンキーワード。レキサーが識別子とは別に照合する。
var symbols = map[rune]TokenType{}

func init() {
	for kind, spellings := range vocabulary {
		for d, s := range spellings {
			kw := keywords[s]
			kw.Type = kind
			kw.Dialects |= 1 << d
			keywords[s] = kw
			if Dialect(d) == Symbolic {
				r := []rune(s)
				if len(r) == 1 {
					symbols[r[0]] = kind
				}
			}
		}
	}
}

// DialectsOf は綴りが属する方言集合を返す。キーワードでなければ ok=false。
func DialectsOf(literal string) (DialectSet, bool) {
	kw, ok := keywords[literal]
	return kw.Dialects, ok
}

// Spelling は方言 d におけるキーワード種別 t の綴りを返す。
func Spelling(t TokenType, d Dialect) string {
	spellings, ok := vocabulary[t]
	if !ok || d < 0 || int(d) >= dialectCount {
		return string(t)
	}
	return spellings[d]
}

// LookupSymbol は記号方言のキーワードとなるルーンか判定する。
func LookupSymbol(r rune) (TokenType, bool) {
	t, ok := symbols[r]
	return t, ok
}

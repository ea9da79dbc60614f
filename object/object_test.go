package object

import (
	"testing"

	"kozak/ast"
	"kozak/token"
)

func TestFloatInspect(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{2, "2.0"},
		{0.5, "0.5"},
		{-3.25, "-3.25"},
		{1e16, "1e+16"},
		{0.00001, "1e-05"},
		{0, "0.0"},
	}

	for _, tt := range tests {
		f := &Float{Value: tt.input}
		if got := f.Inspect(); got != tt.expected {
			t.Errorf("Float(%v).Inspect() wrong. want=%q, got=%q", tt.input, tt.expected, got)
		}
	}
}

func TestFormatDialect(t *testing.T) {
	arr := &Array{Elements: []Object{
		&Integer{Value: 1},
		&String{Value: "a"},
		&Boolean{Value: true},
		&Null{},
	}}

	tests := []struct {
		dialect  token.Dialect
		expected string
	}{
		{token.Ukrainian, `[1, "a", Pravda, Nishcho]`},
		{token.Russian, `[1, "a", Pravda, Nichto]`},
		{token.English, `[1, "a", True, Null]`},
	}

	for _, tt := range tests {
		if got := Format(arr, tt.dialect); got != tt.expected {
			t.Errorf("Format in %s wrong. want=%q, got=%q", tt.dialect, tt.expected, got)
		}
	}

	if got := Format(&String{Value: "a"}, token.English); got != "a" {
		t.Errorf("top-level string must not be quoted, got=%q", got)
	}
}

func TestFormatSelfReference(t *testing.T) {
	arr := &Array{Elements: []Object{&Integer{Value: 1}}}
	arr.Elements = append(arr.Elements, arr)

	dict := NewDictionary()
	dict.Set(&String{Value: "self"}, dict)
	dict.Set(&String{Value: "arr"}, arr)

	shared := &Array{Elements: []Object{&Integer{Value: 2}}}
	pair := &Array{Elements: []Object{shared, shared}}

	tests := []struct {
		input    Object
		expected string
	}{
		{arr, `[1, [...]]`},
		{dict, `{"self": {...}, "arr": [1, [...]]}`},
		{pair, `[[2], [2]]`},
	}

	for _, tt := range tests {
		if got := Format(tt.input, token.Ukrainian); got != tt.expected {
			t.Errorf("Format wrong. want=%q, got=%q", tt.expected, got)
		}
	}
}

func TestDictionaryKeepsInsertionOrder(t *testing.T) {
	d := NewDictionary()
	d.Set(&String{Value: "b"}, &Integer{Value: 1})
	d.Set(&String{Value: "a"}, &Integer{Value: 2})
	d.Set(&Integer{Value: 3}, &Integer{Value: 3})
	d.Set(&String{Value: "b"}, &Integer{Value: 10})

	if got := d.Inspect(); got != `{"b": 10, "a": 2, 3: 3}` {
		t.Errorf("Inspect wrong. got=%q", got)
	}

	if !d.Delete(&String{Value: "a"}) {
		t.Fatalf("Delete returned false for existing key")
	}
	if d.Delete(&String{Value: "a"}) {
		t.Fatalf("Delete returned true for missing key")
	}
	if d.Len() != 2 {
		t.Fatalf("Len wrong. got=%d", d.Len())
	}
}

func TestHashKeyNormalizesIntegralFloats(t *testing.T) {
	d := NewDictionary()
	d.Set(&Integer{Value: 2}, &String{Value: "two"})

	v, ok := d.Get(&Float{Value: 2.0})
	if !ok {
		t.Fatalf("2.0 did not find key 2")
	}
	if v.(*String).Value != "two" {
		t.Errorf("value wrong. got=%q", v.Inspect())
	}

	if _, ok := d.Get(&Float{Value: 2.5}); ok {
		t.Errorf("2.5 must not match key 2")
	}
	if (&String{Value: "1"}).HashKey() == (&Integer{Value: 1}).HashKey() {
		t.Errorf("string and integer keys must differ")
	}
	if (&Boolean{Value: true}).HashKey() == (&Integer{Value: 1}).HashKey() {
		t.Errorf("boolean and integer keys must differ")
	}
}

func TestAsHashable(t *testing.T) {
	if _, err := AsHashable(&Array{}); err == nil {
		t.Errorf("array accepted as dictionary key")
	}
	if _, err := AsHashable(&String{Value: "k"}); err != nil {
		t.Errorf("string rejected: %v", err)
	}
}

func TestEnvironmentClone(t *testing.T) {
	env := NewEnvironment()
	env.Set("x", &Integer{Value: 1})
	arr := &Array{}
	env.Set("arr", arr)

	clone := env.Clone()
	clone.Set("x", &Integer{Value: 2})
	clone.Set("y", &Integer{Value: 3})
	got, _ := clone.Get("arr")
	got.(*Array).Elements = append(got.(*Array).Elements, &Integer{Value: 9})

	x, _ := env.Get("x")
	if x.(*Integer).Value != 1 {
		t.Errorf("clone leaked binding into original. x=%d", x.(*Integer).Value)
	}
	if _, ok := env.Get("y"); ok {
		t.Errorf("clone leaked new binding into original")
	}
	if len(arr.Elements) != 1 {
		t.Errorf("arrays must be shared between clones")
	}
}

func method(name string) *ast.FunctionStatement {
	return &ast.FunctionStatement{Name: &ast.Identifier{Value: name}}
}

func TestClassChainLookup(t *testing.T) {
	animal := NewClassDef("Animal", nil)
	animal.Methods["speak"] = method("speak")
	animal.Constructor = method("constructor")
	animal.FieldAccess["name"] = Protected

	dog := NewClassDef("Dog", animal)
	dog.Methods["fetch"] = method("fetch")

	m, owner := dog.FindMethod("speak")
	if m == nil || owner != animal {
		t.Fatalf("speak must resolve to Animal")
	}
	if _, owner := dog.FindMethod("fetch"); owner != dog {
		t.Errorf("fetch must resolve to Dog")
	}
	if m, _ := dog.FindMethod("fly"); m != nil {
		t.Errorf("fly must not resolve")
	}
	if _, owner := dog.FindConstructor(); owner != animal {
		t.Errorf("constructor must be inherited from Animal")
	}
	if dog.FieldAccessOf("name") != Protected {
		t.Errorf("access level must be inherited")
	}
	if dog.FieldAccessOf("age") != Public {
		t.Errorf("unknown members default to public")
	}
	if !dog.IsA(animal) || animal.IsA(dog) {
		t.Errorf("IsA wrong")
	}
}

func TestCanAccess(t *testing.T) {
	base := NewClassDef("Base", nil)
	base.Friends["inspect"] = true
	child := NewClassDef("Child", base)
	other := NewClassDef("Other", nil)

	target := NewInstance(base)
	same := target
	sibling := NewInstance(base)
	sub := NewInstance(child)
	stranger := NewInstance(other)

	tests := []struct {
		name     string
		level    AccessLevel
		target   *Instance
		caller   *Instance
		function string
		expected bool
	}{
		{"public from top level", Public, target, nil, "", true},
		{"private from top level", Private, target, nil, "", false},
		{"private from same instance", Private, target, same, "m", true},
		{"private from another instance of the class", Private, target, sibling, "m", false},
		{"private from friend", Private, target, nil, "inspect", true},
		{"private from subclass", Private, target, sub, "m", false},
		{"protected from subclass", Protected, target, sub, "m", true},
		{"protected from unrelated class", Protected, target, stranger, "m", false},
		{"protected on subclass from base", Protected, sub, sibling, "m", false},
		{"friend inherited by subclass", Private, sub, nil, "inspect", true},
	}

	for _, tt := range tests {
		if got := CanAccess(tt.level, tt.target, tt.caller, tt.function); got != tt.expected {
			t.Errorf("%s: want=%t, got=%t", tt.name, tt.expected, got)
		}
	}
}

func TestClassTable(t *testing.T) {
	table := NewClassTable()
	table.Define(NewClassDef("Kozak", nil))

	if _, ok := table.Get("Kozak"); !ok {
		t.Errorf("Kozak not found")
	}
	if _, ok := table.Get("Tatar"); ok {
		t.Errorf("undefined class found")
	}
}

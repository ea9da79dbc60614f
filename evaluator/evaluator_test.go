package evaluator

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"kozak/object"
	"kozak/parser"
)

// testEval は "Hetman" を先頭に付けたプログラムを評価し、最後の文の結果を返す。
func testEval(t *testing.T, input string) object.Object {
	t.Helper()
	program, err := parser.Parse("Hetman\n" + input)
	if err != nil {
		t.Fatalf("parse error in %q:\n%v", input, err)
	}
	return New(WithOutput(io.Discard)).Eval(program)
}

// run はプログラムを実行し、標準出力に書かれた内容と結果を返す。
func run(t *testing.T, body string, opts ...Option) (string, object.Object, error) {
	t.Helper()
	program, err := parser.Parse("Hetman\n" + body)
	if err != nil {
		t.Fatalf("parse error:\n%v", err)
	}
	var out bytes.Buffer
	e := New(append([]Option{WithOutput(&out)}, opts...)...)
	result, err := e.Run(program)
	return out.String(), result, err
}

// expectOutput はプログラムがエラーなく終わり、期待した出力をすることを確認する。
func expectOutput(t *testing.T, body, expected string, opts ...Option) {
	t.Helper()
	out, _, err := run(t, body, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput so far:\n%s", err, out)
	}
	if out != expected {
		t.Errorf("output wrong.\nwant=%q\ngot =%q", expected, out)
	}
}

// expectRuntimeError はプログラムが実行時エラーで終わることを確認し、出力を返す。
func expectRuntimeError(t *testing.T, body, message string) string {
	t.Helper()
	out, _, err := run(t, body)
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RuntimeError %q, got %v", message, err)
	}
	if rerr.Message != message {
		t.Errorf("wrong error message.\nwant=%q\ngot =%q", message, rerr.Message)
	}
	return out
}

func testIntegerObject(t *testing.T, obj object.Object, expected int64) bool {
	t.Helper()
	result, ok := obj.(*object.Integer)
	if !ok {
		t.Errorf("object is not Integer. got=%T (%+v)", obj, obj)
		return false
	}
	if result.Value != expected {
		t.Errorf("object has wrong value. got=%d, want=%d", result.Value, expected)
		return false
	}
	return true
}

func testFloatObject(t *testing.T, obj object.Object, expected float64) bool {
	t.Helper()
	result, ok := obj.(*object.Float)
	if !ok {
		t.Errorf("object is not Float. got=%T (%+v)", obj, obj)
		return false
	}
	if result.Value != expected {
		t.Errorf("object has wrong value. got=%g, want=%g", result.Value, expected)
		return false
	}
	return true
}

func testStringObject(t *testing.T, obj object.Object, expected string) bool {
	t.Helper()
	result, ok := obj.(*object.String)
	if !ok {
		t.Errorf("object is not String. got=%T (%+v)", obj, obj)
		return false
	}
	if result.Value != expected {
		t.Errorf("object has wrong value. got=%q, want=%q", result.Value, expected)
		return false
	}
	return true
}

func testBooleanObject(t *testing.T, obj object.Object, expected bool) bool {
	t.Helper()
	result, ok := obj.(*object.Boolean)
	if !ok {
		t.Errorf("object is not Boolean. got=%T (%+v)", obj, obj)
		return false
	}
	if result.Value != expected {
		t.Errorf("object has wrong value. got=%t, want=%t", result.Value, expected)
		return false
	}
	return true
}

func TestEvalIntegerExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"5;", 5},
		{"-5;", -5},
		{"+5;", 5},
		{"2 + 3 * 4;", 14},
		{"(2 + 3) * 4;", 20},
		{"2 ^ 3 ^ 2;", 64},
		{"2 ^ 10;", 1024},
		{"7 // 2;", 3},
		{"-7 // 2;", -4},
		{"7 % 3;", 1},
		{"-7 % 3;", 2},
		{"7 % -3;", -2},
		{"10 - 2 - 3;", 5},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)
		if !testIntegerObject(t, evaluated, tt.expected) {
			t.Logf("input: %s", tt.input)
		}
	}
}

func TestEvalFloatExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"7 / 2;", 3.5},
		{"4 / 2;", 2},
		{"1 + 0.5;", 1.5},
		{"9 ^/ 2;", 3},
		{"2 ^ -1;", 0.5},
		{"7.5 // 2;", 3},
		{"-1.5 * 2;", -3},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)
		if !testFloatObject(t, evaluated, tt.expected) {
			t.Logf("input: %s", tt.input)
		}
	}
}

func TestStringOperations(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"Slava" + " " + "kozakam";`, "Slava kozakam"},
		{`"a" + 1;`, "a1"},
		{`1 + "a";`, "1a"},
		{`"n=" + 1.0;`, "n=1.0"},
		{`"x" + Pravda;`, "xPravda"},
		{`"ab" * 3;`, "ababab"},
		{`2 * "ho";`, "hoho"},
		{`"кіт"[1];`, "і"},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)
		if !testStringObject(t, evaluated, tt.expected) {
			t.Logf("input: %s", tt.input)
		}
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 < 2;", true},
		{"2 <= 2;", true},
		{"3 > 4;", false},
		{"1 == 1.0;", true},
		{"1.5 >= 2;", false},
		{`"a" < "b";`, true},
		{`"a" == 1;`, false},
		{`"a" != 1;`, true},
		{"Pravda == Pravda;", true},
		{"Nishcho == Nishcho;", true},
		{"Nishcho == 0;", false},
		{"[1, [2]] == [1, [2]];", true},
		{"[1, 2] == [2, 1];", false},
		{`{"a": 1} == {"a": 1.0};`, true},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)
		if !testBooleanObject(t, evaluated, tt.expected) {
			t.Logf("input: %s", tt.input)
		}
	}
}

func TestLogicalOperatorsReturnDecidingOperand(t *testing.T) {
	testIntegerObject(t, testEval(t, "Pravda && 0;"), 0)
	testStringObject(t, testEval(t, `0 || "x";`), "x")
	testIntegerObject(t, testEval(t, "3 || undefined;"), 3)
	testBooleanObject(t, testEval(t, "Nepravda && undefined;"), false)
}

func TestCasts(t *testing.T) {
	testIntegerObject(t, testEval(t, `Chyslo("42");`), 42)
	testIntegerObject(t, testEval(t, `Chyslo(" 7 ");`), 7)
	testIntegerObject(t, testEval(t, "Chyslo(3.9);"), 3)
	testIntegerObject(t, testEval(t, "Chyslo(Pravda);"), 1)
	testFloatObject(t, testEval(t, "DroboveChyslo(2);"), 2)
	testFloatObject(t, testEval(t, `DroboveChyslo("2.5");`), 2.5)
	testStringObject(t, testEval(t, "Ryadok(1.5);"), "1.5")
	testStringObject(t, testEval(t, "Ryadok(Pravda);"), "Pravda")
	testStringObject(t, testEval(t, "Ryadok([1, \"a\"]);"), `[1, "a"]`)
	testBooleanObject(t, testEval(t, `Logika("Pravda");`), true)
	testBooleanObject(t, testEval(t, `Logika("Nepravda");`), false)
	testBooleanObject(t, testEval(t, `Logika("False");`), false)
	testBooleanObject(t, testEval(t, `Logika("Lozh");`), false)
	testBooleanObject(t, testEval(t, "Logika(1);"), true)
	testBooleanObject(t, testEval(t, "Logika(0);"), false)
	testBooleanObject(t, testEval(t, "Logika(1.0);"), true)
	testBooleanObject(t, testEval(t, "Logika(0.0);"), false)
	testBooleanObject(t, testEval(t, "Logika(-0.0);"), false)
}

func TestErrorHandling(t *testing.T) {
	tests := []struct {
		input           string
		expectedMessage string
	}{
		{"1 / 0;", "divide by zero"},
		{"5 // 0;", "divide by zero"},
		{"5 % 0;", "divide by zero"},
		{"1.0 / 0;", "divide by zero"},
		{"2 ^/ 0;", "root exponent cannot be zero"},
		{"x;", "variable 'x' is not defined"},
		{"f();", "function 'f' is not defined"},
		{"[1, 2][2];", "array index out of range: 2 (length 2)"},
		{"[1][-1];", "array index out of range: -1 (length 1)"},
		{`[1]["a"];`, "array index must be an integer, got STRING"},
		{`{"a": 1}["b"];`, "key not found: b"},
		{`{[1]: 2};`, "unusable as dictionary key: ARRAY"},
		{`"a" < 1;`, "cannot compare STRING < INTEGER"},
		{"Pravda + 1;", "unsupported operand types: BOOLEAN + INTEGER"},
		{"-Pravda;", "unsupported operand type: -BOOLEAN"},
		{"[1] - [1];", "unsupported operand types: ARRAY - ARRAY"},
		{`"ab" * 9223372036854775807;`, "string repeat count too large: 9223372036854775807"},
		{`4611686018427387904 * "ab";`, "string repeat count too large: 4611686018427387904"},
		{`Chyslo("abc");`, `cannot cast "abc" to Chyslo`},
		{`Chyslo("3.5");`, `cannot cast "3.5" to Chyslo`},
		{`Logika("maybe");`, `cannot cast "maybe" to Logika`},
		{"Logika(2);", `cannot cast "2" to Logika`},
		{"Logika(0.5);", `cannot cast "0.5" to Logika`},
		{`Chyslo n := "5";`, "type mismatch: cannot assign STRING to Chyslo variable 'n'"},
		{"Logika b := 1;", "type mismatch: cannot assign INTEGER to Logika variable 'b'"},
		{"Zavdannya f(a) { Povernuty a; } f(1, 2);", "'f' expects 1 arguments, got 2"},
		{"Novyi Ghost();", "class 'Ghost' is not defined"},
		{"Klas B : A { }", "class 'A' is not defined"},
		{"Klas K { } Novyi K(1);", "class 'K' has no constructor, got 1 arguments"},
		{"Klas K { } k := Novyi K(); k.fly();", "method 'fly' not found in class 'K'"},
		{"Klas K { } k := Novyi K(); k.wings;", "property 'wings' not found on K instance"},
		{"x := 5; x.y;", "cannot read property 'y' of INTEGER"},
		{"Tsei;", "Tsei used outside of a method"},
		{"pop([]);", "pop from empty array"},
		{"len(1, 2);", "wrong number of arguments to `len`. got=2, want=1"},
		{"append(1, 2);", "argument to `append` must be ARRAY, got INTEGER"},
		{`s := "a"; s++;`, "operator ++ requires a number, got STRING"},
		{"Vyity(256);", "exit code must be an integer between 0 and 255, got 256"},
		{`Vyity("1");`, "exit code must be an integer between 0 and 255, got 1"},
		{`Kynuty("custom " + 1);`, "custom 1"},
		{"math.sqrt(-1);", "math domain error: sqrt(-1.0)"},
		{"math.nope(1);", "module 'math' has no function 'nope'"},
		{"random(5, 1);", "random: empty range [5, 1]"},
	}

	for _, tt := range tests {
		evaluated := testEval(t, tt.input)

		errObj, ok := evaluated.(*object.Error)
		if !ok {
			t.Errorf("no error object returned for %q. got=%T(%+v)", tt.input, evaluated, evaluated)
			continue
		}
		if errObj.Message != tt.expectedMessage {
			t.Errorf("wrong error message for %q.\nwant=%q\ngot =%q", tt.input, tt.expectedMessage, errObj.Message)
		}
	}
}

func TestEchoFormatsValues(t *testing.T) {
	expectOutput(t,
		`Spivaty("Hello", 1, 2.0, Pravda, Nishcho, [1, "a"], {"k": Nepravda});`,
		`Hello 1 2.0 Pravda Nishcho [1, "a"] {"k": Nepravda}`+"\n")
	expectOutput(t, "Spivaty();", "\n")
}

func TestEchoUsesProgramDialect(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Captain\nSing(True, False, Null);", "True False Null\n"},
		{"Ataman\nPet(Pravda, Lozh, Nichto);", "Pravda Lozh Nichto\n"},
		{"⊢\n»(⊤, ⊥, ∅);", "⊤ ⊥ ∅\n"},
	}

	for _, tt := range tests {
		program, err := parser.Parse(tt.input)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}
		var out bytes.Buffer
		if _, err := New(WithOutput(&out)).Run(program); err != nil {
			t.Fatalf("run error: %v", err)
		}
		if out.String() != tt.expected {
			t.Errorf("output wrong. want=%q, got=%q", tt.expected, out.String())
		}
	}
}

func TestDynamicScope(t *testing.T) {
	input := `
x := 1;
Zavdannya show() { Povernuty x; }
Zavdannya outer() {
  x := 2;
  Povernuty show();
}
a := outer();
Spivaty(a, x);
`
	expectOutput(t, input, "2 1\n")
}

func TestCallerBindingsAreRestoredButReferencesShared(t *testing.T) {
	input := `
arr := [1];
count := 0;
Zavdannya add(a) {
  append(a, 2);
  count := 5;
  fresh := Pravda;
}
add(arr);
Spivaty(arr, count);
Spivaty(fresh);
`
	out := expectRuntimeError(t, input, "variable 'fresh' is not defined")
	if out != "[1, 2] 0\n" {
		t.Errorf("output wrong. got=%q", out)
	}
}

func TestRecursiveFunction(t *testing.T) {
	input := `
Zavdannya fact(n) {
  Yakscho (n <= 1) { Povernuty 1; }
  Povernuty n * fact(n - 1);
}
Spivaty(fact(10));
`
	expectOutput(t, input, "3628800\n")
}

func TestFunctionWithoutReturnYieldsNull(t *testing.T) {
	expectOutput(t, "Zavdannya f() { 1; } Spivaty(f());", "Nishcho\n")
}

func TestBuiltinNamesShadowUserFunctions(t *testing.T) {
	expectOutput(t, "Zavdannya len(x) { Povernuty 99; } Spivaty(len([1]));", "1\n")
}

func TestLoops(t *testing.T) {
	input := `
total := 0;
Dlya (i := 0; i < 5; i++) { total := total + i; }
Spivaty(total);
n := 3;
Doki (n > 0) { n--; }
Spivaty(n);
Dlya (v V [1, 2, 3]) { Spivaty(v); }
Dlya (k V {"a": 1, "b": 2}) { Spivaty(k); }
Dlya (c V "ok") { Spivaty(c); }
`
	expectOutput(t, input, "10\n0\n1\n2\n3\na\nb\no\nk\n")
}

func TestTypedForInit(t *testing.T) {
	expectOutput(t, "Dlya (Chyslo i := 0; i < 2; i++) { Spivaty(i); }", "0\n1\n")
}

func TestIfElseIf(t *testing.T) {
	input := `
Zavdannya grade(n) {
  Yakscho (n > 90) {
    Povernuty "A";
  } AboYakscho (n > 50) {
    Povernuty "B";
  } Inakshe {
    Povernuty "C";
  }
}
Spivaty(grade(95), grade(60), grade(10));
`
	expectOutput(t, input, "A B C\n")
}

func TestTruthiness(t *testing.T) {
	input := `
Dlya (v V [0, 0.0, "", [], {}, Nishcho, Nepravda, 1, "a", [0]]) {
  Yakscho (v) { Spivaty("T"); } Inakshe { Spivaty("F"); }
}
`
	expectOutput(t, input, "F\nF\nF\nF\nF\nF\nF\nT\nT\nT\n")
}

func TestSelfReferencingContainers(t *testing.T) {
	input := `
a := [1];
append(a, a);
b := [1];
append(b, b);
d := {"k": 1};
d["self"] := d;
Spivaty(a);
Spivaty(d);
Spivaty(a == a, a == b, a == [1, [1]]);
`
	expectOutput(t, input, "[1, [...]]\n"+`{"k": 1, "self": {...}}`+"\nPravda Pravda Nepravda\n")
}

func TestDeclaredTypeWidensIntegers(t *testing.T) {
	expectOutput(t, "DroboveChyslo f := 2; Spivaty(f);", "2.0\n")
}

func TestIndexAssignment(t *testing.T) {
	input := `
arr := [1, 2, 3];
arr[0] := 10;
d := {"a": 1};
d["b"] := 2;
d["a"] := 3;
d[2.0] := "two";
Spivaty(arr, d, d[2]);
`
	expectOutput(t, input, `[10, 2, 3] {"a": 3, "b": 2, 2: "two"} two`+"\n")
}

func TestInheritedMethodBindsSubclassInstance(t *testing.T) {
	input := `
Klas Animal {
  Tvir(name) { Tsei.name := name; }
  Zavdannya speak() { Povernuty Tsei.name + " speaks"; }
  Zavdannya self() { Povernuty Tsei; }
}
Klas Dog : Animal {
  Zavdannya fetch() { Povernuty "fetch"; }
}
d := Novyi Dog("Rex");
Spivaty(d.speak());
Spivaty(d.self());
Spivaty(d.self() == d);
`
	expectOutput(t, input, "Rex speaks\n<Dog instance>\nPravda\n")
}

func TestSuperDispatch(t *testing.T) {
	input := `
Klas Animal {
  Tvir(name) { Tsei.name := name; }
  Zavdannya speak() { Povernuty "..."; }
}
Klas Dog : Animal {
  Tvir(name) {
    Batko(name);
    Tsei.tricks := 0;
  }
  Zavdannya speak() { Povernuty Tsei.name + ": woof " + Batko.speak(); }
}
Klas Puppy : Dog {
  Zavdannya speak() { Povernuty "yip " + Batko.speak(); }
}
p := Novyi Puppy("Bo");
Spivaty(p.speak());
Spivaty(p.tricks);
`
	expectOutput(t, input, "yip Bo: woof ...\n0\n")
}

func TestPrivateFieldAccess(t *testing.T) {
	input := `
Klas Safe {
  Pryvatnyi secret;
  Tvir(s) { Tsei.secret := s; }
  Zavdannya reveal() { Povernuty Tsei.secret; }
}
s := Novyi Safe("gold");
Spivaty(s.reveal());
Spivaty(s.secret);
`
	out := expectRuntimeError(t, input, "access denied: field 'secret' of class 'Safe' is private")
	if out != "gold\n" {
		t.Errorf("output wrong. got=%q", out)
	}
}

func TestPrivateRequiresSameInstance(t *testing.T) {
	input := `
Klas Safe {
  Pryvatnyi secret;
  Tvir(s) { Tsei.secret := s; }
  Zavdannya peek(other) { Povernuty other.secret; }
}
a := Novyi Safe(1);
b := Novyi Safe(2);
a.peek(b);
`
	expectRuntimeError(t, input, "access denied: field 'secret' of class 'Safe' is private")
}

func TestPrivateFieldWriteFromOutside(t *testing.T) {
	input := `
Klas Safe {
  Pryvatnyi secret;
}
s := Novyi Safe();
s.secret := 1;
`
	expectRuntimeError(t, input, "access denied: field 'secret' of class 'Safe' is private")
}

func TestFriendFunction(t *testing.T) {
	input := `
Klas Safe {
  Pryvatnyi secret;
  Druh inspector;
  Tvir(s) { Tsei.secret := s; }
}
Zavdannya inspector(x) { Povernuty x.secret; }
Zavdannya thief(x) { Povernuty x.secret; }
s := Novyi Safe(1);
Spivaty(inspector(s));
thief(s);
`
	out := expectRuntimeError(t, input, "access denied: field 'secret' of class 'Safe' is private")
	if out != "1\n" {
		t.Errorf("output wrong. got=%q", out)
	}
}

func TestProtectedField(t *testing.T) {
	input := `
Klas Base {
  Zakhyshchenyi token;
  Tvir() { Tsei.token := 7; }
}
Klas Child : Base {
  Zavdannya read(other) { Povernuty other.token; }
}
c := Novyi Child();
b := Novyi Base();
Spivaty(c.read(b));
Spivaty(b.token);
`
	out := expectRuntimeError(t, input, "access denied: field 'token' of class 'Base' is protected")
	if out != "7\n" {
		t.Errorf("output wrong. got=%q", out)
	}
}

func TestPrivateMethod(t *testing.T) {
	input := `
Klas K {
  Pryvatnyi Zavdannya hidden() { Povernuty 1; }
  Publichnyi Zavdannya open() { Povernuty Tsei.hidden(); }
}
k := Novyi K();
Spivaty(k.open());
k.hidden();
`
	out := expectRuntimeError(t, input, "access denied: method 'hidden' of class 'K' is private")
	if out != "1\n" {
		t.Errorf("output wrong. got=%q", out)
	}
}

func TestDestructorIsNeverCalled(t *testing.T) {
	input := `
Klas K {
  Ruinuvach() { Spivaty("bye"); }
}
k := Novyi K();
k := Nishcho;
Spivaty("done");
`
	expectOutput(t, input, "done\n")
}

func TestFinallyRunsOnceAfterCatchThatReturns(t *testing.T) {
	input := `
log := [];
Zavdannya attempt() {
  Sprobuvaty {
    Kynuty("x");
  } Spiimaty (e) {
    append(log, "caught " + e);
    Povernuty "from catch";
  } Naprykintsi {
    append(log, "finally");
  }
  Povernuty "after";
}
Spivaty(attempt());
Spivaty(log);
`
	expectOutput(t, input, "from catch\n[\"caught x\", \"finally\"]\n")
}

func TestCatchVariableIsRestored(t *testing.T) {
	input := `
e := "outer";
Sprobuvaty { x := 1 / 0; } Spiimaty (e) { Spivaty(e); }
Spivaty(e);
Sprobuvaty { Kynuty(1); } Spiimaty (fresh) { }
Spivaty(fresh);
`
	out := expectRuntimeError(t, input, "variable 'fresh' is not defined")
	if out != "divide by zero\nouter\n" {
		t.Errorf("output wrong. got=%q", out)
	}
}

func TestUncaughtErrorRunsFinally(t *testing.T) {
	input := `
Sprobuvaty { Kynuty("boom"); } Naprykintsi { Spivaty("cleanup"); }
Spivaty("unreachable");
`
	out := expectRuntimeError(t, input, "boom")
	if out != "cleanup\n" {
		t.Errorf("output wrong. got=%q", out)
	}
}

func TestRethrowFromCatch(t *testing.T) {
	input := `
Sprobuvaty {
  Sprobuvaty { Kynuty(42); } Spiimaty (e) { Kynuty("re:" + e); }
} Spiimaty (e) {
  Spivaty(e);
}
`
	expectOutput(t, input, "re:42\n")
}

func TestFinallySignalOverrides(t *testing.T) {
	input := `
Zavdannya f() {
  Sprobuvaty { Povernuty 1; } Naprykintsi { Povernuty 2; }
}
Spivaty(f());
`
	expectOutput(t, input, "2\n")
}

func TestDivideByZeroIsCatchable(t *testing.T) {
	expectOutput(t, "Sprobuvaty { Spivaty(1 / 0); } Spiimaty (e) { Spivaty(\"caught: \" + e); }",
		"caught: divide by zero\n")
}

func TestExitIsNotCaught(t *testing.T) {
	input := `
Sprobuvaty { Vyity(3); } Spiimaty { Spivaty("no"); } Naprykintsi { Spivaty("fin"); }
Spivaty("unreachable");
`
	out, _, err := run(t, input)
	var exit *ExitError
	if !errors.As(err, &exit) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exit.Code != 3 {
		t.Errorf("exit code wrong. got=%d", exit.Code)
	}
	if out != "fin\n" {
		t.Errorf("output wrong. got=%q", out)
	}
}

func TestExitFromFunction(t *testing.T) {
	out, _, err := run(t, `Zavdannya quit() { Vyity; } Spivaty("a"); quit(); Spivaty("b");`)
	var exit *ExitError
	if !errors.As(err, &exit) || exit.Code != 0 {
		t.Fatalf("expected exit 0, got %v", err)
	}
	if out != "a\n" {
		t.Errorf("output wrong. got=%q", out)
	}
}

func TestTopLevelReturnEndsProgram(t *testing.T) {
	out, result, err := run(t, "Spivaty(1); Povernuty 5; Spivaty(2);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testIntegerObject(t, result, 5)
	if out != "1\n" {
		t.Errorf("output wrong. got=%q", out)
	}
}

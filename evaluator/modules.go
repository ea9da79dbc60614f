// modules.go はドット記法で呼び出すライブラリモジュール（math, hash）を定義する。
// モジュール名は変数より先に解決されるので、`math` という変数を定義しても
// `math.sqrt(2)` は常にライブラリを呼ぶ。
package evaluator

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"math"
	"math/big"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"

	"kozak/ast"
	"kozak/object"
)

type moduleFn func(args []object.Object) object.Object

// module はライブラリモジュール。定数と関数を名前で引く。
type module struct {
	name      string
	constants map[string]object.Object
	functions map[string]moduleFn
}

// modules は全ての綴りからモジュールへの対応表。
var modules = map[string]*module{}

func init() {
	for _, alias := range []string{"math", "matematyka", "matematika"} {
		modules[alias] = mathModule
	}
	for _, alias := range []string{"hash", "hesh", "khesh"} {
		modules[alias] = hashModule
	}
}

// moduleOf は式がモジュール名の識別子ならそのモジュールを返す。
func (e *Evaluator) moduleOf(exp ast.Expression) (*module, bool) {
	ident, ok := exp.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	mod, ok := modules[ident.Value]
	return mod, ok
}

func (m *module) call(name string, args []object.Object) object.Object {
	fn, ok := m.functions[name]
	if !ok {
		return newError("module '%s' has no function '%s'", m.name, name)
	}
	return fn(args)
}

func (m *module) constant(name string) object.Object {
	val, ok := m.constants[name]
	if !ok {
		return newError("module '%s' has no constant '%s'", m.name, name)
	}
	return val
}

// =====================
// math
// =====================

var mathModule = &module{
	name: "math",
	constants: map[string]object.Object{
		"pi":  &object.Float{Value: math.Pi},
		"e":   &object.Float{Value: math.E},
		"tau": &object.Float{Value: 2 * math.Pi},
		"inf": &object.Float{Value: math.Inf(1)},
		"nan": &object.Float{Value: math.NaN()},
	},
	functions: map[string]moduleFn{
		"sin":     floatFn("sin", math.Sin),
		"cos":     floatFn("cos", math.Cos),
		"tan":     floatFn("tan", math.Tan),
		"asin":    domainFn("asin", math.Asin, func(x float64) bool { return x >= -1 && x <= 1 }),
		"acos":    domainFn("acos", math.Acos, func(x float64) bool { return x >= -1 && x <= 1 }),
		"atan":    floatFn("atan", math.Atan),
		"sinh":    floatFn("sinh", math.Sinh),
		"cosh":    floatFn("cosh", math.Cosh),
		"tanh":    floatFn("tanh", math.Tanh),
		"asinh":   floatFn("asinh", math.Asinh),
		"acosh":   domainFn("acosh", math.Acosh, func(x float64) bool { return x >= 1 }),
		"atanh":   domainFn("atanh", math.Atanh, func(x float64) bool { return x > -1 && x < 1 }),
		"exp":     floatFn("exp", math.Exp),
		"log10":   domainFn("log10", math.Log10, positive),
		"log2":    domainFn("log2", math.Log2, positive),
		"sqrt":    domainFn("sqrt", math.Sqrt, func(x float64) bool { return x >= 0 }),
		"degrees": floatFn("degrees", func(x float64) float64 { return x * 180 / math.Pi }),
		"radians": floatFn("radians", func(x float64) float64 { return x * math.Pi / 180 }),
		"ceil":    roundingFn("ceil", math.Ceil),
		"floor":   roundingFn("floor", math.Floor),
		"trunc":   roundingFn("trunc", math.Trunc),
		"round":   mathRound,
		"atan2":   float2Fn("atan2", math.Atan2),
		"pow":     float2Fn("pow", math.Pow),
		"hypot":   mathHypot,
		"dist":    mathDist,
		"log":     mathLog,
		"abs":     mathAbs,
		"fabs":    floatFn("fabs", math.Abs),

		"copysign": float2Fn("copysign", math.Copysign),
		"fmod":     mathFmod,
		"modf":     mathModf,

		"factorial": mathFactorial,
		"gcd":       intPairFn("gcd", gcd),
		"lcm":       intPairFn("lcm", lcm),
		"comb":      mathComb,
		"perm":      mathPerm,
		"min":       extremumFn("min", func(a, b float64) bool { return a < b }),
		"max":       extremumFn("max", func(a, b float64) bool { return a > b }),
		"sum":       mathSum,
		"isnan":     predicateFn("isnan", math.IsNaN),
		"isinf":     predicateFn("isinf", func(x float64) bool { return math.IsInf(x, 0) }),
		"isfinite":  predicateFn("isfinite", func(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }),
	},
}

func positive(x float64) bool { return x > 0 }

func numberArgs(name string, args []object.Object, want int) ([]float64, *object.Error) {
	if len(args) != want {
		return nil, newError("wrong number of arguments to `math.%s`. got=%d, want=%d", name, len(args), want)
	}
	out := make([]float64, want)
	for i, arg := range args {
		f, ok := toFloat(arg)
		if !ok {
			return nil, newError("argument to `math.%s` must be a number, got %s", name, arg.Type())
		}
		out[i] = f
	}
	return out, nil
}

func floatFn(name string, f func(float64) float64) moduleFn {
	return domainFn(name, f, nil)
}

// domainFn は定義域の外の引数を実行時エラーにする1引数関数を作る。
func domainFn(name string, f func(float64) float64, inDomain func(float64) bool) moduleFn {
	return func(args []object.Object) object.Object {
		x, errObj := numberArgs(name, args, 1)
		if errObj != nil {
			return errObj
		}
		if inDomain != nil && !inDomain(x[0]) {
			return newError("math domain error: %s(%s)", name, object.FormatFloat(x[0]))
		}
		return &object.Float{Value: f(x[0])}
	}
}

func float2Fn(name string, f func(float64, float64) float64) moduleFn {
	return func(args []object.Object) object.Object {
		x, errObj := numberArgs(name, args, 2)
		if errObj != nil {
			return errObj
		}
		return &object.Float{Value: f(x[0], x[1])}
	}
}

// roundingFn は丸めた結果を整数で返す関数を作る。
func roundingFn(name string, f func(float64) float64) moduleFn {
	return func(args []object.Object) object.Object {
		x, errObj := numberArgs(name, args, 1)
		if errObj != nil {
			return errObj
		}
		if n, ok := args[0].(*object.Integer); ok {
			return n
		}
		r := f(x[0])
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return newError("cannot convert %s to integer", object.FormatFloat(r))
		}
		return &object.Integer{Value: int64(r)}
	}
}

func predicateFn(name string, f func(float64) bool) moduleFn {
	return func(args []object.Object) object.Object {
		x, errObj := numberArgs(name, args, 1)
		if errObj != nil {
			return errObj
		}
		return nativeBoolToBooleanObject(f(x[0]))
	}
}

// mathLog は log(x) と底を指定する log(x, base) を受け付ける。
func mathLog(args []object.Object) object.Object {
	if len(args) == 2 {
		x, errObj := numberArgs("log", args, 2)
		if errObj != nil {
			return errObj
		}
		if x[0] <= 0 || x[1] <= 0 || x[1] == 1 {
			return newError("math domain error: log(%s, %s)", object.FormatFloat(x[0]), object.FormatFloat(x[1]))
		}
		return &object.Float{Value: math.Log(x[0]) / math.Log(x[1])}
	}
	return domainFn("log", math.Log, positive)(args)
}

func mathAbs(args []object.Object) object.Object {
	x, errObj := numberArgs("abs", args, 1)
	if errObj != nil {
		return errObj
	}
	if n, ok := args[0].(*object.Integer); ok {
		if n.Value < 0 {
			return &object.Integer{Value: -n.Value}
		}
		return n
	}
	return &object.Float{Value: math.Abs(x[0])}
}

// mathRound は round(x) と小数点以下の桁数を指定する round(x, ndigits) を受け付ける。
// 桁数を指定すると整数は整数のまま、小数は小数のまま偶数丸めする。
func mathRound(args []object.Object) object.Object {
	if len(args) != 2 {
		return roundingFn("round", math.RoundToEven)(args)
	}
	ndigits, errObj := intArg("math.round", args[1])
	if errObj != nil {
		return errObj
	}
	switch x := args[0].(type) {
	case *object.Integer:
		if ndigits >= 0 {
			return x
		}
		p := math.Pow10(int(-ndigits))
		return &object.Integer{Value: int64(math.RoundToEven(float64(x.Value)/p) * p)}
	case *object.Float:
		if math.IsNaN(x.Value) || math.IsInf(x.Value, 0) {
			return x
		}
		p := math.Pow10(int(ndigits))
		if math.IsInf(p, 0) {
			return x
		}
		return &object.Float{Value: math.RoundToEven(x.Value*p) / p}
	}
	return newError("argument to `math.round` must be a number, got %s", args[0].Type())
}

// mathHypot は原点からのユークリッド距離を返す。引数の数は任意。
func mathHypot(args []object.Object) object.Object {
	nums, errObj := numberList("hypot", args)
	if errObj != nil {
		return errObj
	}
	result := 0.0
	for _, n := range nums {
		f, _ := toFloat(n)
		result = math.Hypot(result, f)
	}
	return &object.Float{Value: result}
}

// mathDist は同じ次元の2点（数値の配列）の距離を返す。
func mathDist(args []object.Object) object.Object {
	if len(args) != 2 {
		return newError("wrong number of arguments to `math.dist`. got=%d, want=2", len(args))
	}
	p, errObj := arrayArg("math.dist", args[0])
	if errObj != nil {
		return errObj
	}
	q, errObj := arrayArg("math.dist", args[1])
	if errObj != nil {
		return errObj
	}
	if len(p.Elements) != len(q.Elements) {
		return newError("both points must have the same number of dimensions, got %d and %d", len(p.Elements), len(q.Elements))
	}
	result := 0.0
	for i := range p.Elements {
		a, ok := toFloat(p.Elements[i])
		b, ok2 := toFloat(q.Elements[i])
		if !ok || !ok2 {
			return newError("coordinates for `math.dist` must be numbers")
		}
		result = math.Hypot(result, a-b)
	}
	return &object.Float{Value: result}
}

// mathFmod は x の符号を持つ剰余を返す。% と違い床関数の規則には従わない。
func mathFmod(args []object.Object) object.Object {
	x, errObj := numberArgs("fmod", args, 2)
	if errObj != nil {
		return errObj
	}
	if x[1] == 0 || math.IsInf(x[0], 0) {
		return newError("math domain error: fmod(%s, %s)", object.FormatFloat(x[0]), object.FormatFloat(x[1]))
	}
	return &object.Float{Value: math.Mod(x[0], x[1])}
}

// mathModf は [小数部, 整数部] を返す。どちらも x の符号を持つ小数。
func mathModf(args []object.Object) object.Object {
	x, errObj := numberArgs("modf", args, 1)
	if errObj != nil {
		return errObj
	}
	whole, frac := math.Modf(x[0])
	return &object.Array{Elements: []object.Object{&object.Float{Value: frac}, &object.Float{Value: whole}}}
}

// combinatoricArgs は comb と perm の引数 n, k を取り出す。
// k を省略できるのは allowOmitted のとき（perm(n) は n!）。
func combinatoricArgs(name string, args []object.Object, allowOmitted bool) (int64, int64, *object.Error) {
	if len(args) != 2 && !(allowOmitted && len(args) == 1) {
		want := "2"
		if allowOmitted {
			want = "1 or 2"
		}
		return 0, 0, newError("wrong number of arguments to `math.%s`. got=%d, want=%s", name, len(args), want)
	}
	n, errObj := intArg("math."+name, args[0])
	if errObj != nil {
		return 0, 0, errObj
	}
	k := n
	if len(args) == 2 {
		if k, errObj = intArg("math."+name, args[1]); errObj != nil {
			return 0, 0, errObj
		}
	}
	if n < 0 || k < 0 {
		return 0, 0, newError("math.%s needs non-negative integers, got %d and %d", name, n, k)
	}
	return n, k, nil
}

// mathComb は n 個から k 個を選ぶ組み合わせの数を返す。k > n なら 0。
func mathComb(args []object.Object) object.Object {
	n, k, errObj := combinatoricArgs("comb", args, false)
	if errObj != nil {
		return errObj
	}
	if k > n {
		return &object.Integer{Value: 0}
	}
	k = min(k, n-k)
	// i 回目の結果は C(n-k+i, i) で、i とともに増える。
	result := big.NewInt(1)
	for i := int64(1); i <= k; i++ {
		result.Mul(result, big.NewInt(n-k+i))
		result.Quo(result, big.NewInt(i))
		if !result.IsInt64() {
			return newError("math.comb result does not fit in an integer")
		}
	}
	return &object.Integer{Value: result.Int64()}
}

// mathPerm は n 個から k 個を選んで並べる順列の数を返す。k > n なら 0。
func mathPerm(args []object.Object) object.Object {
	n, k, errObj := combinatoricArgs("perm", args, true)
	if errObj != nil {
		return errObj
	}
	if k > n {
		return &object.Integer{Value: 0}
	}
	result := big.NewInt(1)
	for i := int64(0); i < k; i++ {
		result.Mul(result, big.NewInt(n-i))
		if !result.IsInt64() {
			return newError("math.perm result does not fit in an integer")
		}
	}
	return &object.Integer{Value: result.Int64()}
}

// mathFactorial は 0 以上 20 以下の整数の階乗を返す。21! は int64 に収まらない。
func mathFactorial(args []object.Object) object.Object {
	if len(args) != 1 {
		return newError("wrong number of arguments to `math.factorial`. got=%d, want=1", len(args))
	}
	n, errObj := intArg("math.factorial", args[0])
	if errObj != nil {
		return errObj
	}
	if n < 0 || n > 20 {
		return newError("factorial is defined for integers from 0 to 20, got %d", n)
	}
	result := int64(1)
	for i := int64(2); i <= n; i++ {
		result *= i
	}
	return &object.Integer{Value: result}
}

func intPairFn(name string, f func(a, b int64) int64) moduleFn {
	return func(args []object.Object) object.Object {
		if len(args) != 2 {
			return newError("wrong number of arguments to `math.%s`. got=%d, want=2", name, len(args))
		}
		a, errObj := intArg("math."+name, args[0])
		if errObj != nil {
			return errObj
		}
		b, errObj := intArg("math."+name, args[1])
		if errObj != nil {
			return errObj
		}
		return &object.Integer{Value: f(a, b)}
	}
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	l := a / gcd(a, b) * b
	if l < 0 {
		l = -l
	}
	return l
}

// numberList は可変長の数値引数か、1つの配列引数を数値の列として取り出す。
func numberList(name string, args []object.Object) ([]object.Object, *object.Error) {
	if len(args) == 1 {
		if arr, ok := args[0].(*object.Array); ok {
			args = arr.Elements
		}
	}
	for _, arg := range args {
		if !isNumber(arg) {
			return nil, newError("argument to `math.%s` must be a number, got %s", name, arg.Type())
		}
	}
	return args, nil
}

// extremumFn は min と max を作る。引数の型（整数か小数か）はそのまま保たれる。
func extremumFn(name string, better func(a, b float64) bool) moduleFn {
	return func(args []object.Object) object.Object {
		nums, errObj := numberList(name, args)
		if errObj != nil {
			return errObj
		}
		if len(nums) == 0 {
			return newError("`math.%s` needs at least one number", name)
		}
		best := nums[0]
		for _, n := range nums[1:] {
			a, _ := toFloat(n)
			b, _ := toFloat(best)
			if better(a, b) {
				best = n
			}
		}
		return best
	}
}

// mathSum は全て整数なら整数で、小数が混じれば小数で合計を返す。
func mathSum(args []object.Object) object.Object {
	nums, errObj := numberList("sum", args)
	if errObj != nil {
		return errObj
	}
	var result object.Object = &object.Integer{Value: 0}
	for _, n := range nums {
		result = evalBinary("+", result, n)
	}
	return result
}

// =====================
// hash
// =====================

var hashModule = &module{
	name:      "hash",
	constants: map[string]object.Object{},
	functions: map[string]moduleFn{
		"md5":      digestFn("md5", md5.New),
		"sha1":     digestFn("sha1", sha1.New),
		"sha256":   digestFn("sha256", sha256.New),
		"sha512":   digestFn("sha512", sha512.New),
		"sha3_256": digestFn("sha3_256", sha3.New256),
		"sha3_512": digestFn("sha3_512", sha3.New512),
		"blake2b":  digestFn("blake2b", newBlake2b),
		"blake2s":  digestFn("blake2s", newBlake2s),
	},
}

// newBlake2b と newBlake2s は鍵なしの 256 ビット版を返す。鍵がなければエラーにならない。
func newBlake2b() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}

func newBlake2s() hash.Hash {
	h, _ := blake2s.New256(nil)
	return h
}

// digestFn は文字列の UTF-8 バイト列のダイジェストを小文字の16進数で返す関数を作る。
func digestFn(name string, newHash func() hash.Hash) moduleFn {
	return func(args []object.Object) object.Object {
		if len(args) != 1 {
			return newError("wrong number of arguments to `hash.%s`. got=%d, want=1", name, len(args))
		}
		s, errObj := stringArg("hash."+name, args[0])
		if errObj != nil {
			return errObj
		}
		h := newHash()
		h.Write([]byte(s))
		return &object.String{Value: hex.EncodeToString(h.Sum(nil))}
	}
}

package evaluator

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"kozak/ast"
	"kozak/object"
	"kozak/token"
)

// =====================
// 前置演算子の評価
// =====================

// evalPrefixExpression は前置演算子式（-x, +x）を評価する。数値にのみ適用できる。
func evalPrefixExpression(operator string, right object.Object) object.Object {
	switch right := right.(type) {
	case *object.Integer:
		if operator == "-" {
			return &object.Integer{Value: -right.Value}
		}
		return right
	case *object.Float:
		if operator == "-" {
			return &object.Float{Value: -right.Value}
		}
		return right
	}
	return newError("unsupported operand type: %s%s", operator, right.Type())
}

// =====================
// 中置演算子の評価
// =====================

// evalInfixExpression は算術と論理の二項演算を評価する。
// && と || は短絡評価し、結果を決めた側のオペランドをそのまま返す。
func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression) object.Object {
	left := e.Eval(node.Left)
	if isSignal(left) {
		return left
	}

	switch node.Operator {
	case token.AND:
		if !isTruthy(left) {
			return left
		}
		return e.Eval(node.Right)
	case token.OR:
		if isTruthy(left) {
			return left
		}
		return e.Eval(node.Right)
	}

	right := e.Eval(node.Right)
	if isSignal(right) {
		return right
	}

	if node.Operator == token.PLUS {
		_, ls := left.(*object.String)
		_, rs := right.(*object.String)
		if ls || rs {
			return &object.String{Value: e.display(left) + e.display(right)}
		}
	}
	return evalBinary(node.Operator, left, right)
}

// evalBinary は文字列連結以外の二項演算を評価する。
func evalBinary(operator string, left, right object.Object) object.Object {
	switch {
	case left.Type() == object.INTEGER_OBJ && right.Type() == object.INTEGER_OBJ:
		return evalIntegerInfixExpression(operator, left.(*object.Integer).Value, right.(*object.Integer).Value)

	case isNumber(left) && isNumber(right):
		l, _ := toFloat(left)
		r, _ := toFloat(right)
		return evalFloatInfixExpression(operator, l, r)

	case operator == token.PLUS && left.Type() == object.ARRAY_OBJ && right.Type() == object.ARRAY_OBJ:
		l := left.(*object.Array).Elements
		r := right.(*object.Array).Elements
		elements := make([]object.Object, 0, len(l)+len(r))
		elements = append(elements, l...)
		elements = append(elements, r...)
		return &object.Array{Elements: elements}

	case operator == token.ASTERISK && left.Type() == object.STRING_OBJ && right.Type() == object.INTEGER_OBJ:
		return repeatString(left.(*object.String).Value, right.(*object.Integer).Value)

	case operator == token.ASTERISK && left.Type() == object.INTEGER_OBJ && right.Type() == object.STRING_OBJ:
		return repeatString(right.(*object.String).Value, left.(*object.Integer).Value)
	}

	return newError("unsupported operand types: %s %s %s", left.Type(), operator, right.Type())
}

// evalIntegerInfixExpression は整数同士の演算を評価する。
// / と ^/ は常に小数、^ は指数が非負なら整数になる。
// // と % は負の数でも床関数の規則に従う。
func evalIntegerInfixExpression(operator string, l, r int64) object.Object {
	switch operator {
	case token.PLUS:
		return &object.Integer{Value: l + r}
	case token.MINUS:
		return &object.Integer{Value: l - r}
	case token.ASTERISK:
		return &object.Integer{Value: l * r}
	case token.FLOOR_DIV:
		if r == 0 {
			return newError("divide by zero")
		}
		q := l / r
		if l%r != 0 && (l < 0) != (r < 0) {
			q--
		}
		return &object.Integer{Value: q}
	case token.PERCENT:
		if r == 0 {
			return newError("divide by zero")
		}
		m := l % r
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return &object.Integer{Value: m}
	case token.POWER:
		if r >= 0 {
			return &object.Integer{Value: intPow(l, r)}
		}
	}
	return evalFloatInfixExpression(operator, float64(l), float64(r))
}

// evalFloatInfixExpression は少なくとも一方が小数の演算を評価する。
func evalFloatInfixExpression(operator string, l, r float64) object.Object {
	switch operator {
	case token.PLUS:
		return &object.Float{Value: l + r}
	case token.MINUS:
		return &object.Float{Value: l - r}
	case token.ASTERISK:
		return &object.Float{Value: l * r}
	case token.SLASH:
		if r == 0 {
			return newError("divide by zero")
		}
		return &object.Float{Value: l / r}
	case token.FLOOR_DIV:
		if r == 0 {
			return newError("divide by zero")
		}
		return &object.Float{Value: math.Floor(l / r)}
	case token.PERCENT:
		if r == 0 {
			return newError("divide by zero")
		}
		m := math.Mod(l, r)
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return &object.Float{Value: m}
	case token.POWER:
		return &object.Float{Value: math.Pow(l, r)}
	case token.ROOT:
		if r == 0 {
			return newError("root exponent cannot be zero")
		}
		return &object.Float{Value: math.Pow(l, 1/r)}
	}
	return newError("unknown operator: %s", operator)
}

// intPow は二乗法で整数のべき乗を計算する。
func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func repeatString(s string, n int64) object.Object {
	if n < 0 {
		n = 0
	}
	if len(s) > 0 && n > int64(math.MaxInt/len(s)) {
		return newError("string repeat count too large: %d", n)
	}
	return &object.String{Value: strings.Repeat(s, int(n))}
}

// =====================
// 比較
// =====================

// evalComparison は比較演算子を評価する。
// 等価性は型が違えば偽（整数と小数は数値として比べる）。
// 大小比較は数値同士か文字列同士でなければエラー。
func evalComparison(operator string, left, right object.Object) object.Object {
	switch operator {
	case token.EQ:
		return nativeBoolToBooleanObject(valuesEqual(left, right))
	case token.NOT_EQ:
		return nativeBoolToBooleanObject(!valuesEqual(left, right))
	}

	var cmp int
	switch {
	case isNumber(left) && isNumber(right):
		if left.Type() == object.INTEGER_OBJ && right.Type() == object.INTEGER_OBJ {
			cmp = compareInts(left.(*object.Integer).Value, right.(*object.Integer).Value)
		} else {
			l, _ := toFloat(left)
			r, _ := toFloat(right)
			if math.IsNaN(l) || math.IsNaN(r) {
				return FALSE
			}
			cmp = compareFloats(l, r)
		}
	case left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		cmp = strings.Compare(left.(*object.String).Value, right.(*object.String).Value)
	default:
		return newError("cannot compare %s %s %s", left.Type(), operator, right.Type())
	}

	switch operator {
	case token.LT:
		return nativeBoolToBooleanObject(cmp < 0)
	case token.GT:
		return nativeBoolToBooleanObject(cmp > 0)
	case token.LT_EQ:
		return nativeBoolToBooleanObject(cmp <= 0)
	case token.GT_EQ:
		return nativeBoolToBooleanObject(cmp >= 0)
	}
	return newError("unknown operator: %s", operator)
}

func compareInts(l, r int64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func compareFloats(l, r float64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

// valuesEqual は2つの値が等しいか判定する。
// 配列と辞書は要素ごとに、インスタンスは同一性で比べる。
func valuesEqual(left, right object.Object) bool {
	return equalValues(left, right, map[[2]object.Object]bool{})
}

// equalValues は valuesEqual の本体。comparing は比較中の配列・辞書の組で、
// 同じ組に戻ってきたら（自分自身を含む値）等しいとみなす。
func equalValues(left, right object.Object, comparing map[[2]object.Object]bool) bool {
	if isNumber(left) && isNumber(right) {
		if left.Type() == object.INTEGER_OBJ && right.Type() == object.INTEGER_OBJ {
			return left.(*object.Integer).Value == right.(*object.Integer).Value
		}
		l, _ := toFloat(left)
		r, _ := toFloat(right)
		return l == r
	}
	if left.Type() != right.Type() {
		return false
	}

	switch left := left.(type) {
	case *object.String:
		return left.Value == right.(*object.String).Value
	case *object.Boolean:
		return left.Value == right.(*object.Boolean).Value
	case *object.Null:
		return true
	case *object.Array:
		r := right.(*object.Array)
		if len(left.Elements) != len(r.Elements) {
			return false
		}
		pair := [2]object.Object{left, r}
		if comparing[pair] {
			return true
		}
		comparing[pair] = true
		defer delete(comparing, pair)
		for i := range left.Elements {
			if !equalValues(left.Elements[i], r.Elements[i], comparing) {
				return false
			}
		}
		return true
	case *object.Dictionary:
		r := right.(*object.Dictionary)
		if left.Len() != r.Len() {
			return false
		}
		pair := [2]object.Object{left, r}
		if comparing[pair] {
			return true
		}
		comparing[pair] = true
		defer delete(comparing, pair)
		for _, p := range left.Pairs() {
			other, ok := r.Get(p.Key.(object.Hashable))
			if !ok || !equalValues(p.Value, other, comparing) {
				return false
			}
		}
		return true
	}
	return left == right
}

// isNumber は整数か小数か判定する。真偽値は数値ではない。
func isNumber(obj object.Object) bool {
	switch obj.(type) {
	case *object.Integer, *object.Float:
		return true
	}
	return false
}

func toFloat(obj object.Object) (float64, bool) {
	switch obj := obj.(type) {
	case *object.Integer:
		return float64(obj.Value), true
	case *object.Float:
		return obj.Value, true
	}
	return 0, false
}

// =====================
// 添字
// =====================

// evalIndexExpression は配列・文字列・辞書の添字アクセスを評価する。
func evalIndexExpression(left, index object.Object) object.Object {
	switch left := left.(type) {
	case *object.Array:
		i, errObj := arrayIndex(left, index)
		if errObj != nil {
			return errObj
		}
		return left.Elements[i]

	case *object.String:
		idx, ok := index.(*object.Integer)
		if !ok {
			return newError("string index must be an integer, got %s", index.Type())
		}
		n := int64(utf8.RuneCountInString(left.Value))
		if idx.Value < 0 || idx.Value >= n {
			return newError("string index out of range: %d (length %d)", idx.Value, n)
		}
		return &object.String{Value: string([]rune(left.Value)[idx.Value])}

	case *object.Dictionary:
		key, err := object.AsHashable(index)
		if err != nil {
			return newError("%s", err)
		}
		val, ok := left.Get(key)
		if !ok {
			return newError("key not found: %s", object.Format(key, token.Ukrainian))
		}
		return val
	}

	return newError("index operator not supported: %s", left.Type())
}

// arrayIndex は添字が整数で範囲内か確かめる。負の添字は範囲外として扱う。
func arrayIndex(arr *object.Array, index object.Object) (int, *object.Error) {
	idx, ok := index.(*object.Integer)
	if !ok {
		return 0, newError("array index must be an integer, got %s", index.Type())
	}
	if idx.Value < 0 || idx.Value >= int64(len(arr.Elements)) {
		return 0, newError("array index out of range: %d (length %d)", idx.Value, len(arr.Elements))
	}
	return int(idx.Value), nil
}

// =====================
// 型変換
// =====================

// evalCast は Chyslo / DroboveChyslo / Ryadok / Logika を評価する。
// 変換できない値は実行時エラーになる。
func (e *Evaluator) evalCast(t token.TokenType, val object.Object) object.Object {
	fail := func() object.Object {
		return newError("cannot cast %s to %s", strconv.Quote(e.display(val)), token.Spelling(t, e.dialect))
	}

	switch t {
	case token.CAST_INT:
		switch val := val.(type) {
		case *object.Integer:
			return val
		case *object.Float:
			if math.IsNaN(val.Value) || math.IsInf(val.Value, 0) {
				return fail()
			}
			return &object.Integer{Value: int64(val.Value)}
		case *object.String:
			n, err := strconv.ParseInt(strings.TrimSpace(val.Value), 10, 64)
			if err != nil {
				return fail()
			}
			return &object.Integer{Value: n}
		case *object.Boolean:
			if val.Value {
				return &object.Integer{Value: 1}
			}
			return &object.Integer{Value: 0}
		}

	case token.CAST_FLOAT:
		switch val := val.(type) {
		case *object.Float:
			return val
		case *object.Integer:
			return &object.Float{Value: float64(val.Value)}
		case *object.String:
			f, err := strconv.ParseFloat(strings.TrimSpace(val.Value), 64)
			if err != nil {
				return fail()
			}
			return &object.Float{Value: f}
		case *object.Boolean:
			if val.Value {
				return &object.Float{Value: 1}
			}
			return &object.Float{Value: 0}
		}

	case token.CAST_STRING:
		return &object.String{Value: e.display(val)}

	case token.CAST_BOOL:
		switch val := val.(type) {
		case *object.Boolean:
			return val
		case *object.Integer:
			switch val.Value {
			case 0:
				return FALSE
			case 1:
				return TRUE
			}
		case *object.Float:
			switch val.Value {
			case 0:
				return FALSE
			case 1:
				return TRUE
			}
		case *object.String:
			switch literalKind(val.Value) {
			case token.TRUE:
				return TRUE
			case token.FALSE:
				return FALSE
			}
		}
	}

	return fail()
}

// literalKind は文字列がいずれかの方言の真偽値リテラルの綴りなら、その種類を返す。
func literalKind(s string) token.TokenType {
	s = strings.TrimSpace(s)
	if r, size := utf8.DecodeRuneInString(s); size > 0 && size == len(s) {
		if t, ok := token.LookupSymbol(r); ok {
			return t
		}
	}
	return token.LookupIdent(s)
}

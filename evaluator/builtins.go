// builtins.go は KozakScript の組み込み関数を定義する。
// これらの名前はユーザー定義関数より先に解決されるので、
// 同じ名前のユーザー関数は呼び出せない。
//
// 組み込み関数一覧（英語 | ウクライナ語 | ロシア語の綴り）:
//   - 配列: len append insert remove pop clear slice index_of contains
//   - 辞書: keys values has_key remove_key
//   - ファイル: read_file write_file append_file
//   - 行列: matrix matrix_size flatten transpose row column set_at
//   - 乱数: random
package evaluator

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"kozak/object"
)

type builtinFn func(e *Evaluator, args ...object.Object) object.Object

// builtins は全ての綴りから組み込み関数への対応表。
var builtins = map[string]builtinFn{}

func register(aliases []string, fn builtinFn) {
	for _, alias := range aliases {
		builtins[alias] = fn
	}
}

func init() {
	register([]string{"len", "dovzhyna", "dlina"}, builtinLen)
	register([]string{"append", "dodaty", "dobavit"}, builtinAppend)
	register([]string{"insert", "vstavyty", "vstavit"}, builtinInsert)
	register([]string{"remove", "vydalyty", "udalit"}, builtinRemove)
	register([]string{"pop", "vytyahnuty", "vytaschit"}, builtinPop)
	register([]string{"clear", "ochystyty", "ochistit"}, builtinClear)
	register([]string{"slice", "zriz", "srez"}, builtinSlice)
	register([]string{"index_of", "pozytsiya", "pozitsiya"}, builtinIndexOf)
	register([]string{"contains", "mistyt", "soderzhit"}, builtinContains)

	register([]string{"keys", "klyuchi"}, builtinKeys)
	register([]string{"values", "znachennya", "znacheniya"}, builtinValues)
	register([]string{"has_key", "maye_klyuch", "imeet_klyuch"}, builtinHasKey)
	register([]string{"remove_key", "vydalyty_klyuch", "udalit_klyuch"}, builtinRemoveKey)

	register([]string{"read_file", "chytaty_fail", "chitat_fail"}, builtinReadFile)
	register([]string{"write_file", "pysaty_fail", "pisat_fail"}, writeFileBuiltin("write_file", os.O_TRUNC))
	register([]string{"append_file", "dopysaty_fail", "dopisat_fail"}, writeFileBuiltin("append_file", os.O_APPEND))

	register([]string{"matrix", "matrytsya", "matritsa"}, builtinMatrix)
	register([]string{"matrix_size", "rozmir_matrytsi", "razmer_matritsy"}, builtinMatrixSize)
	register([]string{"flatten", "splyushchyty", "rasplyushchit"}, builtinFlatten)
	register([]string{"transpose", "transponuvaty", "transponirovat"}, builtinTranspose)
	register([]string{"row", "ryad", "ryad_matritsy"}, builtinRow)
	register([]string{"column", "stovpets", "stolbets"}, builtinColumn)
	register([]string{"set_at", "vstanovyty_v", "ustanovit_v"}, builtinSetAt)

	register([]string{"random", "vypadkove", "sluchainoe"}, builtinRandom)
}

// =====================
// 引数の検証
// =====================

func wrongArgs(name string, got int, want string) *object.Error {
	return newError("wrong number of arguments to `%s`. got=%d, want=%s", name, got, want)
}

func arrayArg(name string, arg object.Object) (*object.Array, *object.Error) {
	arr, ok := arg.(*object.Array)
	if !ok {
		return nil, newError("argument to `%s` must be ARRAY, got %s", name, arg.Type())
	}
	return arr, nil
}

func dictArg(name string, arg object.Object) (*object.Dictionary, *object.Error) {
	dict, ok := arg.(*object.Dictionary)
	if !ok {
		return nil, newError("argument to `%s` must be DICTIONARY, got %s", name, arg.Type())
	}
	return dict, nil
}

func intArg(name string, arg object.Object) (int64, *object.Error) {
	n, ok := arg.(*object.Integer)
	if !ok {
		return 0, newError("argument to `%s` must be INTEGER, got %s", name, arg.Type())
	}
	return n.Value, nil
}

func stringArg(name string, arg object.Object) (string, *object.Error) {
	s, ok := arg.(*object.String)
	if !ok {
		return "", newError("argument to `%s` must be STRING, got %s", name, arg.Type())
	}
	return s.Value, nil
}

// =====================
// 配列
// =====================

// builtinLen は文字列の文字数、配列の要素数、辞書のキー数を返す。
func builtinLen(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 1 {
		return wrongArgs("len", len(args), "1")
	}

	switch arg := args[0].(type) {
	case *object.Array:
		return &object.Integer{Value: int64(len(arg.Elements))}
	case *object.String:
		return &object.Integer{Value: int64(utf8.RuneCountInString(arg.Value))}
	case *object.Dictionary:
		return &object.Integer{Value: int64(arg.Len())}
	default:
		return newError("argument to `len` not supported, got %s", args[0].Type())
	}
}

// builtinAppend は配列の末尾に要素を追加する。元の配列を変更する。
func builtinAppend(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 2 {
		return wrongArgs("append", len(args), "2")
	}
	arr, errObj := arrayArg("append", args[0])
	if errObj != nil {
		return errObj
	}
	arr.Elements = append(arr.Elements, args[1])
	return NULL
}

// builtinInsert は位置 i（0 から len まで）に要素を挿入する。
func builtinInsert(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 3 {
		return wrongArgs("insert", len(args), "3")
	}
	arr, errObj := arrayArg("insert", args[0])
	if errObj != nil {
		return errObj
	}
	i, errObj := intArg("insert", args[1])
	if errObj != nil {
		return errObj
	}
	if i < 0 || i > int64(len(arr.Elements)) {
		return newError("insert index out of range: %d (length %d)", i, len(arr.Elements))
	}

	arr.Elements = append(arr.Elements, nil)
	copy(arr.Elements[i+1:], arr.Elements[i:])
	arr.Elements[i] = args[2]
	return NULL
}

// builtinRemove は位置 i の要素を取り除いて返す。
func builtinRemove(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 2 {
		return wrongArgs("remove", len(args), "2")
	}
	arr, errObj := arrayArg("remove", args[0])
	if errObj != nil {
		return errObj
	}
	i, errObj := arrayIndex(arr, args[1])
	if errObj != nil {
		return errObj
	}

	removed := arr.Elements[i]
	arr.Elements = append(arr.Elements[:i], arr.Elements[i+1:]...)
	return removed
}

// builtinPop は最後の要素を取り除いて返す。空の配列はエラー。
func builtinPop(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 1 {
		return wrongArgs("pop", len(args), "1")
	}
	arr, errObj := arrayArg("pop", args[0])
	if errObj != nil {
		return errObj
	}
	n := len(arr.Elements)
	if n == 0 {
		return newError("pop from empty array")
	}

	last := arr.Elements[n-1]
	arr.Elements = arr.Elements[:n-1]
	return last
}

// builtinClear は配列か辞書を空にする。
func builtinClear(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 1 {
		return wrongArgs("clear", len(args), "1")
	}
	switch arg := args[0].(type) {
	case *object.Array:
		arg.Elements = []object.Object{}
	case *object.Dictionary:
		arg.Clear()
	default:
		return newError("argument to `clear` must be ARRAY or DICTIONARY, got %s", args[0].Type())
	}
	return NULL
}

// builtinSlice は [start, end) の新しい配列（または文字列）を返す。
func builtinSlice(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 3 {
		return wrongArgs("slice", len(args), "3")
	}
	start, errObj := intArg("slice", args[1])
	if errObj != nil {
		return errObj
	}
	end, errObj := intArg("slice", args[2])
	if errObj != nil {
		return errObj
	}

	var n int64
	switch arg := args[0].(type) {
	case *object.Array:
		n = int64(len(arg.Elements))
	case *object.String:
		n = int64(utf8.RuneCountInString(arg.Value))
	default:
		return newError("argument to `slice` must be ARRAY or STRING, got %s", args[0].Type())
	}
	if start < 0 || end < start || end > n {
		return newError("slice bounds out of range: [%d:%d] (length %d)", start, end, n)
	}

	if s, ok := args[0].(*object.String); ok {
		return &object.String{Value: string([]rune(s.Value)[start:end])}
	}
	arr := args[0].(*object.Array)
	elements := make([]object.Object, end-start)
	copy(elements, arr.Elements[start:end])
	return &object.Array{Elements: elements}
}

// builtinIndexOf は最初に一致した位置を返す。見つからなければ -1。
func builtinIndexOf(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 2 {
		return wrongArgs("index_of", len(args), "2")
	}

	switch arg := args[0].(type) {
	case *object.Array:
		for i, el := range arg.Elements {
			if valuesEqual(el, args[1]) {
				return &object.Integer{Value: int64(i)}
			}
		}
	case *object.String:
		sub, errObj := stringArg("index_of", args[1])
		if errObj != nil {
			return errObj
		}
		if i := strings.Index(arg.Value, sub); i >= 0 {
			return &object.Integer{Value: int64(utf8.RuneCountInString(arg.Value[:i]))}
		}
	default:
		return newError("argument to `index_of` must be ARRAY or STRING, got %s", args[0].Type())
	}
	return &object.Integer{Value: -1}
}

// builtinContains は配列の要素、文字列の部分文字列、辞書のキーを調べる。
func builtinContains(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 2 {
		return wrongArgs("contains", len(args), "2")
	}

	switch arg := args[0].(type) {
	case *object.Array:
		for _, el := range arg.Elements {
			if valuesEqual(el, args[1]) {
				return TRUE
			}
		}
		return FALSE
	case *object.String:
		sub, errObj := stringArg("contains", args[1])
		if errObj != nil {
			return errObj
		}
		return nativeBoolToBooleanObject(strings.Contains(arg.Value, sub))
	case *object.Dictionary:
		return builtinHasKey(e, args...)
	}
	return newError("argument to `contains` must be ARRAY, STRING or DICTIONARY, got %s", args[0].Type())
}

// =====================
// 辞書
// =====================

func builtinKeys(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 1 {
		return wrongArgs("keys", len(args), "1")
	}
	dict, errObj := dictArg("keys", args[0])
	if errObj != nil {
		return errObj
	}
	return &object.Array{Elements: dict.Keys()}
}

func builtinValues(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 1 {
		return wrongArgs("values", len(args), "1")
	}
	dict, errObj := dictArg("values", args[0])
	if errObj != nil {
		return errObj
	}
	return &object.Array{Elements: dict.Values()}
}

func builtinHasKey(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 2 {
		return wrongArgs("has_key", len(args), "2")
	}
	dict, errObj := dictArg("has_key", args[0])
	if errObj != nil {
		return errObj
	}
	key, err := object.AsHashable(args[1])
	if err != nil {
		return newError("%s", err)
	}
	_, ok := dict.Get(key)
	return nativeBoolToBooleanObject(ok)
}

// builtinRemoveKey はキーを取り除いてその値を返す。キーがなければエラー。
func builtinRemoveKey(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 2 {
		return wrongArgs("remove_key", len(args), "2")
	}
	dict, errObj := dictArg("remove_key", args[0])
	if errObj != nil {
		return errObj
	}
	key, err := object.AsHashable(args[1])
	if err != nil {
		return newError("%s", err)
	}
	val, ok := dict.Get(key)
	if !ok {
		return newError("key not found: %s", e.display(key))
	}
	dict.Delete(key)
	return val
}

// =====================
// ファイル
// =====================

// resolvePath は実行中のファイルのディレクトリを基準にパスを解決する。
func (e *Evaluator) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.dir, path)
}

func builtinReadFile(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 1 {
		return wrongArgs("read_file", len(args), "1")
	}
	path, errObj := stringArg("read_file", args[0])
	if errObj != nil {
		return errObj
	}

	data, err := os.ReadFile(e.resolvePath(path))
	if err != nil {
		return newError("cannot read file '%s': %s", path, unwrapPathError(err))
	}
	return &object.String{Value: string(data)}
}

// writeFileBuiltin はファイルを作り直すか末尾に追記する組み込み関数を作る。
// 文字列以外の値は表示用の文字列にして書き込む。
func writeFileBuiltin(name string, mode int) builtinFn {
	return func(e *Evaluator, args ...object.Object) object.Object {
		if len(args) != 2 {
			return wrongArgs(name, len(args), "2")
		}
		path, errObj := stringArg(name, args[0])
		if errObj != nil {
			return errObj
		}

		f, err := os.OpenFile(e.resolvePath(path), os.O_WRONLY|os.O_CREATE|mode, 0o644)
		if err != nil {
			return newError("cannot write file '%s': %s", path, unwrapPathError(err))
		}
		defer f.Close()

		if _, err := f.WriteString(e.display(args[1])); err != nil {
			return newError("cannot write file '%s': %s", path, unwrapPathError(err))
		}
		return NULL
	}
}

// unwrapPathError は *os.PathError からパスを除いた原因だけを取り出す。
func unwrapPathError(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err
	}
	return err
}

// =====================
// 行列
// =====================

// matrixArg は配列の配列で、全ての行の長さが等しいことを確かめる。
func matrixArg(name string, arg object.Object) ([]*object.Array, *object.Error) {
	arr, errObj := arrayArg(name, arg)
	if errObj != nil {
		return nil, errObj
	}

	rows := make([]*object.Array, len(arr.Elements))
	for i, el := range arr.Elements {
		row, ok := el.(*object.Array)
		if !ok {
			return nil, newError("argument to `%s` must be a matrix, row %d is %s", name, i, el.Type())
		}
		if i > 0 && len(row.Elements) != len(rows[0].Elements) {
			return nil, newError("argument to `%s` must be a matrix, row %d has %d columns, want %d",
				name, i, len(row.Elements), len(rows[0].Elements))
		}
		rows[i] = row
	}
	return rows, nil
}

// builtinMatrix は rows×cols の行列を fill（省略時 0）で埋めて作る。
func builtinMatrix(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 2 && len(args) != 3 {
		return wrongArgs("matrix", len(args), "2 or 3")
	}
	rows, errObj := intArg("matrix", args[0])
	if errObj != nil {
		return errObj
	}
	cols, errObj := intArg("matrix", args[1])
	if errObj != nil {
		return errObj
	}
	if rows < 0 || cols < 0 {
		return newError("matrix dimensions must not be negative, got %dx%d", rows, cols)
	}
	var fill object.Object = &object.Integer{Value: 0}
	if len(args) == 3 {
		fill = args[2]
	}

	m := make([]object.Object, rows)
	for i := range m {
		row := make([]object.Object, cols)
		for j := range row {
			row[j] = fill
		}
		m[i] = &object.Array{Elements: row}
	}
	return &object.Array{Elements: m}
}

// builtinMatrixSize は [行数, 列数] を返す。
func builtinMatrixSize(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 1 {
		return wrongArgs("matrix_size", len(args), "1")
	}
	rows, errObj := matrixArg("matrix_size", args[0])
	if errObj != nil {
		return errObj
	}
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0].Elements)
	}
	return &object.Array{Elements: []object.Object{
		&object.Integer{Value: int64(len(rows))},
		&object.Integer{Value: int64(cols)},
	}}
}

// builtinFlatten は入れ子の配列を1段だけ平らにする。
func builtinFlatten(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 1 {
		return wrongArgs("flatten", len(args), "1")
	}
	arr, errObj := arrayArg("flatten", args[0])
	if errObj != nil {
		return errObj
	}

	var out []object.Object
	for _, el := range arr.Elements {
		if inner, ok := el.(*object.Array); ok {
			out = append(out, inner.Elements...)
		} else {
			out = append(out, el)
		}
	}
	if out == nil {
		out = []object.Object{}
	}
	return &object.Array{Elements: out}
}

func builtinTranspose(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 1 {
		return wrongArgs("transpose", len(args), "1")
	}
	rows, errObj := matrixArg("transpose", args[0])
	if errObj != nil {
		return errObj
	}
	if len(rows) == 0 {
		return &object.Array{Elements: []object.Object{}}
	}

	cols := len(rows[0].Elements)
	out := make([]object.Object, cols)
	for j := 0; j < cols; j++ {
		col := make([]object.Object, len(rows))
		for i, row := range rows {
			col[i] = row.Elements[j]
		}
		out[j] = &object.Array{Elements: col}
	}
	return &object.Array{Elements: out}
}

// builtinRow は i 行目のコピーを返す。
func builtinRow(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 2 {
		return wrongArgs("row", len(args), "2")
	}
	m, errObj := arrayArg("row", args[0])
	if errObj != nil {
		return errObj
	}
	rows, errObj := matrixArg("row", m)
	if errObj != nil {
		return errObj
	}
	i, errObj := arrayIndex(m, args[1])
	if errObj != nil {
		return errObj
	}
	elements := make([]object.Object, len(rows[i].Elements))
	copy(elements, rows[i].Elements)
	return &object.Array{Elements: elements}
}

// builtinColumn は j 列目を新しい配列で返す。
func builtinColumn(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 2 {
		return wrongArgs("column", len(args), "2")
	}
	rows, errObj := matrixArg("column", args[0])
	if errObj != nil {
		return errObj
	}
	j, errObj := intArg("column", args[1])
	if errObj != nil {
		return errObj
	}
	if len(rows) == 0 || j < 0 || j >= int64(len(rows[0].Elements)) {
		return newError("column index out of range: %d", j)
	}

	col := make([]object.Object, len(rows))
	for i, row := range rows {
		col[i] = row.Elements[j]
	}
	return &object.Array{Elements: col}
}

// builtinSetAt は m[i][j] に値を設定する。
func builtinSetAt(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 4 {
		return wrongArgs("set_at", len(args), "4")
	}
	m, errObj := arrayArg("set_at", args[0])
	if errObj != nil {
		return errObj
	}
	i, errObj := arrayIndex(m, args[1])
	if errObj != nil {
		return errObj
	}
	row, errObj := arrayArg("set_at", m.Elements[i])
	if errObj != nil {
		return errObj
	}
	j, errObj := arrayIndex(row, args[2])
	if errObj != nil {
		return errObj
	}
	row.Elements[j] = args[3]
	return NULL
}

// =====================
// 乱数
// =====================

// builtinRandom は min 以上 max 以下の整数を返す。
func builtinRandom(e *Evaluator, args ...object.Object) object.Object {
	if len(args) != 2 {
		return wrongArgs("random", len(args), "2")
	}
	lo, errObj := intArg("random", args[0])
	if errObj != nil {
		return errObj
	}
	hi, errObj := intArg("random", args[1])
	if errObj != nil {
		return errObj
	}
	if lo > hi {
		return newError("random: empty range [%d, %d]", lo, hi)
	}
	// 幅は int64 に収まらないことがあるので uint64 で数える。
	span := uint64(hi) - uint64(lo)
	if span == math.MaxUint64 {
		return &object.Integer{Value: int64(e.rng.Uint64())}
	}
	return &object.Integer{Value: lo + int64(e.rng.Uint64N(span+1))}
}

// Package evaluator は KozakScript の Tree-walking 評価器を実装するパッケージ。
// ASTを再帰的にたどりながら（tree-walking）、各ノードを評価して
// object.Object としての結果を返す。
//
// 評価器はプログラム1回の実行に対応する状態を持つ。
// 変数の環境、関数表、クラス表、呼び出しフレーム、インポート済みファイルの集合である。
// 実行は単一スレッドで行い、再帰の深さはホストのスタックでのみ制限される。
// 無限再帰は捕捉できる実行時エラーではなく、プロセスの致命的な終了になる。
package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"kozak/ast"
	"kozak/object"
	"kozak/token"
)

// シングルトンオブジェクト。
// true, false, null は常に同じオブジェクトを使い回すことで、
// ポインタ比較で等値判定できるようにする。
var (
	NULL  = &object.Null{}
	TRUE  = &object.Boolean{Value: true}
	FALSE = &object.Boolean{Value: false}
)

// DefaultExtension は KozakScript のソースファイルの拡張子。
const DefaultExtension = ".kozak"

// Evaluator は1回のプログラム実行の状態を保持する。
type Evaluator struct {
	env       *object.Environment
	functions map[string]*ast.FunctionStatement
	classes   *object.ClassTable
	frame     *object.Frame

	out io.Writer
	in  *bufio.Reader

	dir       string // 実行中のファイルがあるディレクトリ
	strict    bool
	extension string
	dialect   token.Dialect
	imported  *linkedhashset.Set
	rng       *rand.Rand
	logger    *slog.Logger
}

// Option は Evaluator の設定を変更する。
type Option func(*Evaluator)

// WithOutput は Spivaty の出力先を設定する。
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.out = w }
}

// WithInput は Slukhai の入力元を設定する。
func WithInput(r io.Reader) Option {
	return func(e *Evaluator) { e.in = bufio.NewReader(r) }
}

// WithDir はインポートとファイル操作の基準ディレクトリを設定する。
func WithDir(dir string) Option {
	return func(e *Evaluator) { e.dir = dir }
}

// WithScript は実行するファイルを指定する。
// そのディレクトリを基準にし、ファイル自身をインポート済みとして記録する。
func WithScript(path string) Option {
	return func(e *Evaluator) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		e.dir = filepath.Dir(abs)
		e.imported.Add(abs)
	}
}

// WithStrict はインポートしたファイルのパースで方言の一貫性を検査するか設定する。
func WithStrict(strict bool) Option {
	return func(e *Evaluator) { e.strict = strict }
}

// WithExtension はインポートできるファイルの拡張子を設定する。
func WithExtension(ext string) Option {
	return func(e *Evaluator) { e.extension = ext }
}

// WithLogger はデバッグログの出力先を設定する。
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// WithSeed は random の乱数の種を固定する。0 なら実行ごとに変わる。
func WithSeed(seed int64) Option {
	return func(e *Evaluator) {
		if seed != 0 {
			e.rng = rand.New(rand.NewPCG(uint64(seed), 0))
		}
	}
}

// New は評価器を生成する。
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		env:       object.NewEnvironment(),
		functions: make(map[string]*ast.FunctionStatement),
		classes:   object.NewClassTable(),
		out:       os.Stdout,
		in:        bufio.NewReader(os.Stdin),
		dir:       ".",
		strict:    true,
		extension: DefaultExtension,
		imported:  linkedhashset.New(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Imported はインポートしたファイルの絶対パスを読み込んだ順に返す。
func (e *Evaluator) Imported() []string {
	out := make([]string, 0, e.imported.Size())
	for _, v := range e.imported.Values() {
		out = append(out, v.(string))
	}
	return out
}

// Run はプログラムを実行し、シグナルを Go のエラーに変換して返す。
// 捕捉されなかったエラーは *RuntimeError、Vyity は *ExitError になる。
// 評価中にパニックが起きると環境とフレームを実行前に戻してからパニックを伝える。
func (e *Evaluator) Run(program *ast.Program) (object.Object, error) {
	env, frame := e.env, e.frame
	defer func() {
		if r := recover(); r != nil {
			e.env, e.frame = env, frame
			panic(r)
		}
	}()

	e.dialect = program.Dialect
	result := e.Eval(program)

	switch result := result.(type) {
	case *object.Error:
		return nil, &RuntimeError{Message: result.Message}
	case *object.Exit:
		e.logger.Debug("program exit", slog.Int("code", result.Code))
		return nil, &ExitError{Code: result.Code}
	}
	return result, nil
}

// Eval はASTノードを評価してオブジェクトを返す、評価器のメイン関数。
// 文は値を持たないことがあり、その場合は nil を返す。
func (e *Evaluator) Eval(node ast.Node) object.Object {
	switch node := node.(type) {

	// === 文（Statements）===

	case *ast.Program:
		return e.evalProgram(node.Statements)

	case *ast.BlockStatement:
		return e.evalBlockStatement(node)

	case *ast.ExpressionStatement:
		return e.Eval(node.Expression)

	// ReturnStatement: 戻り値をReturnValueでラップして呼び出しの境界まで巻き戻す
	case *ast.ReturnStatement:
		if node.ReturnValue == nil {
			return &object.ReturnValue{Value: NULL}
		}
		val := e.Eval(node.ReturnValue)
		if isSignal(val) {
			return val
		}
		return &object.ReturnValue{Value: val}

	case *ast.AssignStatement:
		return e.evalAssignStatement(node)

	case *ast.PropertyAssignStatement:
		return e.evalPropertyAssign(node)

	case *ast.IndexAssignStatement:
		return e.evalIndexAssign(node)

	case *ast.IncrementStatement:
		return e.evalIncrement(node)

	case *ast.EchoStatement:
		return e.evalEcho(node)

	case *ast.IfStatement:
		return e.evalIfStatement(node)

	case *ast.WhileStatement:
		return e.evalWhileStatement(node)

	case *ast.ForStatement:
		return e.evalForStatement(node)

	case *ast.ForEachStatement:
		return e.evalForEachStatement(node)

	// FunctionStatement: 関数表に登録する。クロージャは作らない
	case *ast.FunctionStatement:
		e.functions[node.Name.Value] = node
		e.logger.Debug("function defined",
			slog.String("name", node.Name.Value),
			slog.Int("params", len(node.Parameters)))

	case *ast.ClassStatement:
		return e.evalClassStatement(node)

	case *ast.TryStatement:
		return e.evalTryStatement(node)

	// ThrowStatement: 値を文字列にして実行時エラーとして投げる
	case *ast.ThrowStatement:
		val := e.Eval(node.Value)
		if isSignal(val) {
			return val
		}
		return newError("%s", e.display(val))

	case *ast.ExitStatement:
		return e.evalExitStatement(node)

	case *ast.ImportStatement:
		return e.evalImportStatement(node)

	// === 式（Expressions）===

	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}

	case *ast.FloatLiteral:
		return &object.Float{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value)

	case *ast.NullLiteral:
		return NULL

	case *ast.Identifier:
		return e.evalIdentifier(node)

	case *ast.PrefixExpression:
		right := e.Eval(node.Right)
		if isSignal(right) {
			return right
		}
		return evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		return e.evalInfixExpression(node)

	case *ast.ComparisonExpression:
		left := e.Eval(node.Left)
		if isSignal(left) {
			return left
		}
		right := e.Eval(node.Right)
		if isSignal(right) {
			return right
		}
		return evalComparison(node.Operator, left, right)

	case *ast.ArrayLiteral:
		elements := e.evalExpressions(node.Elements)
		if len(elements) == 1 && isSignal(elements[0]) {
			return elements[0]
		}
		return &object.Array{Elements: elements}

	case *ast.DictionaryLiteral:
		return e.evalDictionaryLiteral(node)

	case *ast.IndexExpression:
		left := e.Eval(node.Left)
		if isSignal(left) {
			return left
		}
		index := e.Eval(node.Index)
		if isSignal(index) {
			return index
		}
		return evalIndexExpression(left, index)

	case *ast.CallExpression:
		return e.evalCallExpression(node)

	case *ast.MethodCallExpression:
		return e.evalMethodCall(node)

	case *ast.PropertyExpression:
		return e.evalProperty(node)

	case *ast.NewExpression:
		return e.evalNewExpression(node)

	case *ast.ThisExpression:
		if e.frame == nil || e.frame.This == nil {
			return newError("%s used outside of a method", token.Spelling(token.THIS, e.dialect))
		}
		return e.frame.This

	case *ast.SuperExpression:
		return e.evalSuperExpression(node)

	case *ast.InputExpression:
		return e.evalInput(node)

	case *ast.CastExpression:
		val := e.Eval(node.Value)
		if isSignal(val) {
			return val
		}
		return e.evalCast(node.Type, val)
	}

	return nil
}

// evalProgram はトップレベルの文を順に評価する。
// トップレベルの Povernuty はプログラムを終わらせ、その値が結果になる。
func (e *Evaluator) evalProgram(stmts []ast.Statement) object.Object {
	var result object.Object

	for _, statement := range stmts {
		result = e.Eval(statement)

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value
		case *object.Error, *object.Exit:
			return result
		}
	}

	return result
}

// evalBlockStatement はブロック内の文を評価する。
// evalProgram との違い: ReturnValueをアンラップしない。
// これにより、ネストされたブロックからのreturnが呼び出しの境界まで伝播する。
func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement) object.Object {
	var result object.Object

	for _, statement := range block.Statements {
		result = e.Eval(statement)
		if isSignal(result) {
			return result
		}
	}

	return result
}

// =====================
// 代入
// =====================

// evalAssignStatement は `name := value` と型付き宣言を評価する。
func (e *Evaluator) evalAssignStatement(node *ast.AssignStatement) object.Object {
	val := e.Eval(node.Value)
	if isSignal(val) {
		return val
	}

	if node.DeclaredType != "" {
		checked, ok := checkDeclaredType(node.DeclaredType, val)
		if !ok {
			return newError("type mismatch: cannot assign %s to %s variable '%s'",
				val.Type(), token.Spelling(node.DeclaredType, e.dialect), node.Name.Value)
		}
		val = checked
	}

	e.env.Set(node.Name.Value, val)
	return nil
}

// checkDeclaredType は値が宣言された型に合うか確かめる。整数は小数に広げる。
func checkDeclaredType(t token.TokenType, val object.Object) (object.Object, bool) {
	switch t {
	case token.CAST_INT:
		return val, val.Type() == object.INTEGER_OBJ
	case token.CAST_FLOAT:
		switch val := val.(type) {
		case *object.Float:
			return val, true
		case *object.Integer:
			return &object.Float{Value: float64(val.Value)}, true
		}
		return val, false
	case token.CAST_STRING:
		return val, val.Type() == object.STRING_OBJ
	case token.CAST_BOOL:
		return val, val.Type() == object.BOOLEAN_OBJ
	}
	return val, true
}

// evalIndexAssign は `target[index] := value` を評価する。
func (e *Evaluator) evalIndexAssign(node *ast.IndexAssignStatement) object.Object {
	left := e.Eval(node.Left)
	if isSignal(left) {
		return left
	}
	index := e.Eval(node.Index)
	if isSignal(index) {
		return index
	}
	val := e.Eval(node.Value)
	if isSignal(val) {
		return val
	}

	switch left := left.(type) {
	case *object.Array:
		i, errObj := arrayIndex(left, index)
		if errObj != nil {
			return errObj
		}
		left.Elements[i] = val
	case *object.Dictionary:
		key, err := object.AsHashable(index)
		if err != nil {
			return newError("%s", err)
		}
		left.Set(key, val)
	default:
		return newError("index assignment not supported: %s", left.Type())
	}
	return nil
}

// evalIncrement は `x++` と `x--` を評価する。
func (e *Evaluator) evalIncrement(node *ast.IncrementStatement) object.Object {
	name := node.Name.Value
	current, ok := e.env.Get(name)
	if !ok {
		return newError("variable '%s' is not defined", name)
	}

	delta := int64(1)
	if node.Operator == "--" {
		delta = -1
	}

	switch current := current.(type) {
	case *object.Integer:
		e.env.Set(name, &object.Integer{Value: current.Value + delta})
	case *object.Float:
		e.env.Set(name, &object.Float{Value: current.Value + float64(delta)})
	default:
		return newError("operator %s requires a number, got %s", node.Operator, current.Type())
	}
	return nil
}

// =====================
// 入出力
// =====================

// evalEcho は引数を空白区切りで出力し、改行する。
func (e *Evaluator) evalEcho(node *ast.EchoStatement) object.Object {
	args := e.evalExpressions(node.Arguments)
	if len(args) == 1 && isSignal(args[0]) {
		return args[0]
	}

	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = e.display(arg)
	}
	fmt.Fprintln(e.out, strings.Join(parts, " "))
	return nil
}

// evalInput はプロンプトを表示して1行読む。入力の終わりでは空文字列になる。
func (e *Evaluator) evalInput(node *ast.InputExpression) object.Object {
	if node.Prompt != nil {
		prompt := e.Eval(node.Prompt)
		if isSignal(prompt) {
			return prompt
		}
		fmt.Fprint(e.out, e.display(prompt))
	}

	line, err := e.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return newError("input failed: %s", err)
	}
	return &object.String{Value: strings.TrimRight(line, "\r\n")}
}

// =====================
// 制御構文
// =====================

// evalIfStatement は条件がtruthyな最初の節を実行する。
func (e *Evaluator) evalIfStatement(node *ast.IfStatement) object.Object {
	condition := e.Eval(node.Condition)
	if isSignal(condition) {
		return condition
	}
	if isTruthy(condition) {
		return e.Eval(node.Consequence)
	}

	for _, elif := range node.ElseIfs {
		condition := e.Eval(elif.Condition)
		if isSignal(condition) {
			return condition
		}
		if isTruthy(condition) {
			return e.Eval(elif.Consequence)
		}
	}

	if node.Alternative != nil {
		return e.Eval(node.Alternative)
	}
	return nil
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement) object.Object {
	for {
		condition := e.Eval(node.Condition)
		if isSignal(condition) {
			return condition
		}
		if !isTruthy(condition) {
			return nil
		}
		if result := e.Eval(node.Body); isSignal(result) {
			return result
		}
	}
}

// evalForStatement は C 形式の Dlya を評価する。
func (e *Evaluator) evalForStatement(node *ast.ForStatement) object.Object {
	if init := e.Eval(node.Init); isSignal(init) {
		return init
	}

	for {
		condition := e.Eval(node.Condition)
		if isSignal(condition) {
			return condition
		}
		if !isTruthy(condition) {
			return nil
		}
		if result := e.Eval(node.Body); isSignal(result) {
			return result
		}
		if step := e.Eval(node.Step); isSignal(step) {
			return step
		}
	}
}

// evalForEachStatement は配列を添字順に、辞書をキーの挿入順に、文字列を1文字ずつ回る。
func (e *Evaluator) evalForEachStatement(node *ast.ForEachStatement) object.Object {
	iterable := e.Eval(node.Iterable)
	if isSignal(iterable) {
		return iterable
	}

	var items []object.Object
	switch it := iterable.(type) {
	case *object.Array:
		items = append(items, it.Elements...)
	case *object.Dictionary:
		items = it.Keys()
	case *object.String:
		for _, r := range it.Value {
			items = append(items, &object.String{Value: string(r)})
		}
	default:
		return newError("cannot iterate over %s", iterable.Type())
	}

	for _, item := range items {
		e.env.Set(node.Variable.Value, item)
		if result := e.Eval(node.Body); isSignal(result) {
			return result
		}
	}
	return nil
}

// evalTryStatement は Sprobuvaty を評価する。
// Spiimaty は実行時エラーだけを捕捉し、Povernuty と Vyity は素通りさせる。
// Naprykintsi はどの経路で抜けるときも最後に1回だけ実行され、
// そこで新しいシグナルが起きればそれが優先される。
func (e *Evaluator) evalTryStatement(node *ast.TryStatement) object.Object {
	result := e.Eval(node.Body)

	if isError(result) && node.Catch != nil {
		result = e.evalCatch(node, result.(*object.Error))
	}

	if node.Finally != nil {
		if fin := e.Eval(node.Finally); isSignal(fin) {
			return fin
		}
	}
	return result
}

// evalCatch は catch 節を実行する。変数はこの節の間だけ束縛し、
// 終わったら以前の束縛（なければ未定義）に戻す。
func (e *Evaluator) evalCatch(node *ast.TryStatement, errObj *object.Error) object.Object {
	if node.CatchName == nil {
		return e.Eval(node.Catch)
	}

	name := node.CatchName.Value
	prev, hadPrev := e.env.Get(name)
	e.env.Set(name, &object.String{Value: errObj.Message})

	result := e.Eval(node.Catch)

	if hadPrev {
		e.env.Set(name, prev)
	} else {
		e.env.Delete(name)
	}
	return result
}

// evalExitStatement は終了コードを検証して Exit シグナルを返す。
func (e *Evaluator) evalExitStatement(node *ast.ExitStatement) object.Object {
	if node.Code == nil {
		return &object.Exit{Code: 0}
	}

	val := e.Eval(node.Code)
	if isSignal(val) {
		return val
	}
	code, ok := val.(*object.Integer)
	if !ok || code.Value < 0 || code.Value > 255 {
		return newError("exit code must be an integer between 0 and 255, got %s", e.display(val))
	}
	return &object.Exit{Code: int(code.Value)}
}

// =====================
// 識別子と変数
// =====================

func (e *Evaluator) evalIdentifier(node *ast.Identifier) object.Object {
	val, ok := e.env.Get(node.Value)
	if !ok {
		return newError("variable '%s' is not defined", node.Value)
	}
	return val
}

// evalExpressions は式のリストを左から右に評価する。
// 途中でシグナルが発生したら、それだけを含むスライスを返す。
func (e *Evaluator) evalExpressions(exps []ast.Expression) []object.Object {
	result := make([]object.Object, 0, len(exps))

	for _, exp := range exps {
		evaluated := e.Eval(exp)
		if isSignal(evaluated) {
			return []object.Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

func (e *Evaluator) evalDictionaryLiteral(node *ast.DictionaryLiteral) object.Object {
	dict := object.NewDictionary()

	for i, keyNode := range node.Keys {
		key := e.Eval(keyNode)
		if isSignal(key) {
			return key
		}
		hashKey, err := object.AsHashable(key)
		if err != nil {
			return newError("%s", err)
		}

		val := e.Eval(node.Values[i])
		if isSignal(val) {
			return val
		}
		dict.Set(hashKey, val)
	}

	return dict
}

// =====================
// ユーティリティ関数
// =====================

// display は値をプログラムの方言で表示用の文字列にする。
func (e *Evaluator) display(obj object.Object) string {
	return object.Format(obj, e.dialect)
}

// nativeBoolToBooleanObject はGoのbool値をシングルトンのBooleanオブジェクトに変換する。
func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// isTruthy はオブジェクトが「真」とみなされるか判定する。
// false、null、0、0.0、空文字列、空の配列と辞書が偽になる。
func isTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Boolean:
		return obj.Value
	case *object.Null, nil:
		return false
	case *object.Integer:
		return obj.Value != 0
	case *object.Float:
		return obj.Value != 0
	case *object.String:
		return obj.Value != ""
	case *object.Array:
		return len(obj.Elements) > 0
	case *object.Dictionary:
		return obj.Len() > 0
	default:
		return true
	}
}

// newError はエラーオブジェクトを生成するヘルパー関数。
func newError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}

// isError はオブジェクトがエラーかどうか判定する。
func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}

// isSignal は評価を巻き戻すオブジェクト（エラー、戻り値、終了）かどうか判定する。
func isSignal(obj object.Object) bool {
	if obj == nil {
		return false
	}
	switch obj.Type() {
	case object.ERROR_OBJ, object.RETURN_VALUE_OBJ, object.EXIT_OBJ:
		return true
	}
	return false
}

package evaluator

import (
	"log/slog"

	"kozak/ast"
	"kozak/object"
	"kozak/token"
)

// =====================
// 関数呼び出し
// =====================

// evalCallExpression は `name(args)` を評価する。
// 組み込み関数の名前はユーザー定義関数より先に解決される。
func (e *Evaluator) evalCallExpression(node *ast.CallExpression) object.Object {
	name := node.Function.Value

	args := e.evalExpressions(node.Arguments)
	if len(args) == 1 && isSignal(args[0]) {
		return args[0]
	}

	if fn, ok := builtins[name]; ok {
		return fn(e, args...)
	}

	fn, ok := e.functions[name]
	if !ok {
		return newError("function '%s' is not defined", name)
	}
	return e.applyFunction(fn, name, args, nil, nil)
}

// applyFunction は関数・メソッド・コンストラクタの本体を実行する。
//  1. 呼び出し元の環境を複製し、仮引数を束縛する（局所変数が外の同名変数を隠す）
//  2. 新しいフレームを積んで本体を評価する
//  3. 呼び出し前の環境とフレームに戻し、ReturnValueをアンラップする
//
// 本体での代入は呼び出しが終わると捨てられる。
// 配列・辞書・インスタンスの中身の変更は参照を通じて残る。
func (e *Evaluator) applyFunction(
	fn *ast.FunctionStatement,
	name string,
	args []object.Object,
	this *object.Instance,
	class *object.ClassDef,
) object.Object {
	if len(args) != len(fn.Parameters) {
		return newError("'%s' expects %d arguments, got %d", name, len(fn.Parameters), len(args))
	}

	saved := e.env
	e.env = saved.Clone()
	for i, param := range fn.Parameters {
		e.env.Set(param.Value, args[i])
	}
	e.frame = object.NewFrame(e.frame, name, this, class, saved)

	evaluated := e.Eval(fn.Body)

	e.env = e.frame.Saved
	e.frame = e.frame.Parent

	return unwrapReturnValue(evaluated)
}

// unwrapReturnValue はReturnValueの中身を取り出す。
// エラーと終了はそのまま伝播し、Povernuty なしで終わった本体は NULL になる。
func unwrapReturnValue(obj object.Object) object.Object {
	switch obj := obj.(type) {
	case *object.ReturnValue:
		return obj.Value
	case *object.Error, *object.Exit:
		return obj
	}
	return NULL
}

// =====================
// クラス
// =====================

// evalClassStatement はクラス定義をクラス表に登録する。
// 親クラスは先に定義されていなければならない。
func (e *Evaluator) evalClassStatement(node *ast.ClassStatement) object.Object {
	var parent *object.ClassDef
	if node.Parent != nil {
		p, ok := e.classes.Get(node.Parent.Value)
		if !ok {
			return newError("class '%s' is not defined", node.Parent.Value)
		}
		parent = p
	}

	class := object.NewClassDef(node.Name.Value, parent)
	for _, field := range node.Fields {
		if field.Access != "" {
			class.FieldAccess[field.Name.Value] = accessLevel(field.Access)
		}
	}
	for _, m := range node.Methods {
		name := m.Function.Name.Value
		class.Methods[name] = m.Function
		if m.Access != "" {
			class.MethodAccess[name] = accessLevel(m.Access)
		}
	}
	for _, friend := range node.Friends {
		class.Friends[friend.Value] = true
	}
	class.Constructor = node.Constructor
	class.Destructor = node.Destructor

	e.classes.Define(class)

	attrs := []any{slog.String("name", class.Name), slog.Int("methods", len(class.Methods))}
	if parent != nil {
		attrs = append(attrs, slog.String("parent", parent.Name))
	}
	e.logger.Debug("class defined", attrs...)
	return nil
}

func accessLevel(t token.TokenType) object.AccessLevel {
	switch t {
	case token.PRIVATE:
		return object.Private
	case token.PROTECTED:
		return object.Protected
	}
	return object.Public
}

// caller は実行中のフレームの this と関数名を返す。トップレベルでは両方とも空。
func (e *Evaluator) caller() (*object.Instance, string) {
	if e.frame == nil {
		return nil, ""
	}
	return e.frame.This, e.frame.Function
}

// checkAccess はメンバーへのアクセスが許可されているか確かめる。
func (e *Evaluator) checkAccess(level object.AccessLevel, target *object.Instance, kind, member string) *object.Error {
	this, function := e.caller()
	if object.CanAccess(level, target, this, function) {
		return nil
	}
	return newError("access denied: %s '%s' of class '%s' is %s", kind, member, target.Class.Name, level)
}

// evalNewExpression はインスタンスを作り、継承チェーンで見つかったコンストラクタを実行する。
func (e *Evaluator) evalNewExpression(node *ast.NewExpression) object.Object {
	class, ok := e.classes.Get(node.Class.Value)
	if !ok {
		return newError("class '%s' is not defined", node.Class.Value)
	}

	args := e.evalExpressions(node.Arguments)
	if len(args) == 1 && isSignal(args[0]) {
		return args[0]
	}

	instance := object.NewInstance(class)

	ctor, owner := class.FindConstructor()
	if ctor == nil {
		if len(args) > 0 {
			return newError("class '%s' has no constructor, got %d arguments", class.Name, len(args))
		}
		return instance
	}

	if result := e.applyFunction(ctor, class.Name, args, instance, owner); isSignal(result) {
		return result
	}
	return instance
}

// evalSuperExpression は Batko(args) と Batko.m(args) を評価する。
// 探索は実行中のメソッドを定義しているクラスの1つ上から始まり、this は変わらない。
func (e *Evaluator) evalSuperExpression(node *ast.SuperExpression) object.Object {
	keyword := token.Spelling(token.SUPER, e.dialect)
	if e.frame == nil || e.frame.This == nil || e.frame.Class == nil {
		return newError("%s used outside of a method", keyword)
	}
	parent := e.frame.Class.Parent
	if parent == nil {
		return newError("class '%s' has no parent class", e.frame.Class.Name)
	}

	args := e.evalExpressions(node.Arguments)
	if len(args) == 1 && isSignal(args[0]) {
		return args[0]
	}
	this := e.frame.This

	if node.Method == nil {
		ctor, owner := parent.FindConstructor()
		if ctor == nil {
			return newError("class '%s' has no constructor", parent.Name)
		}
		if result := e.applyFunction(ctor, owner.Name, args, this, owner); isSignal(result) {
			return result
		}
		return NULL
	}

	method, owner := parent.FindMethod(node.Method.Value)
	if method == nil {
		return newError("method '%s' not found in class '%s'", node.Method.Value, parent.Name)
	}
	return e.applyFunction(method, node.Method.Value, args, this, owner)
}

// evalMethodCall は `obj.m(args)` を評価する。
// ライブラリモジュール（math.sqrt など）が先に解決され、次にインスタンスのメソッドを探す。
func (e *Evaluator) evalMethodCall(node *ast.MethodCallExpression) object.Object {
	if mod, ok := e.moduleOf(node.Object); ok {
		args := e.evalExpressions(node.Arguments)
		if len(args) == 1 && isSignal(args[0]) {
			return args[0]
		}
		return mod.call(node.Method.Value, args)
	}

	obj := e.Eval(node.Object)
	if isSignal(obj) {
		return obj
	}
	instance, ok := obj.(*object.Instance)
	if !ok {
		return newError("cannot call method '%s' on %s", node.Method.Value, obj.Type())
	}

	name := node.Method.Value
	method, owner := instance.Class.FindMethod(name)
	if method == nil {
		return newError("method '%s' not found in class '%s'", name, instance.Class.Name)
	}
	if errObj := e.checkAccess(instance.Class.MethodAccessOf(name), instance, "method", name); errObj != nil {
		return errObj
	}

	args := e.evalExpressions(node.Arguments)
	if len(args) == 1 && isSignal(args[0]) {
		return args[0]
	}
	return e.applyFunction(method, name, args, instance, owner)
}

// evalProperty は `obj.field` を評価する。ライブラリモジュールなら定数を返す。
func (e *Evaluator) evalProperty(node *ast.PropertyExpression) object.Object {
	if mod, ok := e.moduleOf(node.Object); ok {
		return mod.constant(node.Property.Value)
	}

	obj := e.Eval(node.Object)
	if isSignal(obj) {
		return obj
	}
	instance, ok := obj.(*object.Instance)
	if !ok {
		return newError("cannot read property '%s' of %s", node.Property.Value, obj.Type())
	}

	name := node.Property.Value
	if errObj := e.checkAccess(instance.Class.FieldAccessOf(name), instance, "field", name); errObj != nil {
		return errObj
	}
	val, ok := instance.Fields[name]
	if !ok {
		return newError("property '%s' not found on %s instance", name, instance.Class.Name)
	}
	return val
}

// evalPropertyAssign は `obj.field := value` を評価する。フィールドは最初の代入で作られる。
func (e *Evaluator) evalPropertyAssign(node *ast.PropertyAssignStatement) object.Object {
	obj := e.Eval(node.Object)
	if isSignal(obj) {
		return obj
	}
	instance, ok := obj.(*object.Instance)
	if !ok {
		return newError("cannot set property '%s' on %s", node.Property.Value, obj.Type())
	}

	name := node.Property.Value
	if errObj := e.checkAccess(instance.Class.FieldAccessOf(name), instance, "field", name); errObj != nil {
		return errObj
	}

	val := e.Eval(node.Value)
	if isSignal(val) {
		return val
	}
	instance.Fields[name] = val
	return nil
}

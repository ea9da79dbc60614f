// environment.go は変数の環境（スコープ）と呼び出しフレームを管理する。
//
// KozakScript の環境は入れ子のスコープを持たない1枚の対応表である。
// 関数・メソッド・コンストラクタを呼ぶと、呼び出し元の環境を複製して
// 仮引数を上書きした環境で本体を評価し、戻ったら呼び出し前の環境に戻す。
// つまり局所変数による遮蔽を伴う動的スコープであり、
// 呼び出し先は呼び出し元の変数を読めるが、書き込みは呼び出し後に残らない。
package object

// Environment は変数名から値への対応表。
type Environment struct {
	store map[string]Object
}

// NewEnvironment は新しい空の環境を作成する。
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// Get は変数名から値を検索する。
func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	return obj, ok
}

// Set は変数を設定する。
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Delete は変数を削除する。
func (e *Environment) Delete(name string) {
	delete(e.store, name)
}

// Clone は環境の浅いコピーを返す。
// 配列・辞書・インスタンスは参照のままなので、中身の変更は共有される。
func (e *Environment) Clone() *Environment {
	s := make(map[string]Object, len(e.store))
	for k, v := range e.store {
		s[k] = v
	}
	return &Environment{store: s}
}

// Frame は1回の呼び出しの文脈。
// Function は実行中の関数名（friend の判定に使う）、This は束縛されたインスタンス、
// Class はメソッドを定義しているクラス（Batko の探索の起点）、
// Saved は呼び出し前の環境で、呼び出しが終わるとこれに戻す。
type Frame struct {
	Function string
	This     *Instance
	Class    *ClassDef
	Saved    *Environment
	Parent   *Frame
}

// NewFrame は parent の上に新しいフレームを積む。
func NewFrame(parent *Frame, function string, this *Instance, class *ClassDef, saved *Environment) *Frame {
	return &Frame{
		Function: function,
		This:     this,
		Class:    class,
		Saved:    saved,
		Parent:   parent,
	}
}

package object

import (
	"kozak/ast"
)

// AccessLevel はフィールド・メソッドの公開範囲。
type AccessLevel int

const (
	Public AccessLevel = iota
	Private
	Protected
)

func (a AccessLevel) String() string {
	switch a {
	case Private:
		return "private"
	case Protected:
		return "protected"
	}
	return "public"
}

// ClassDef はクラス定義。宣言が評価されたときに1度だけ作られ、以後変更されない。
// アクセス修飾子の表に名前がなければ親クラスの指定を引き継ぎ、
// どこにもなければ public になる。
type ClassDef struct {
	Name         string
	Parent       *ClassDef
	Methods      map[string]*ast.FunctionStatement
	Constructor  *ast.FunctionStatement
	Destructor   *ast.FunctionStatement
	FieldAccess  map[string]AccessLevel
	MethodAccess map[string]AccessLevel
	Friends      map[string]bool
}

// NewClassDef は空の表を持つクラス定義を作る。
func NewClassDef(name string, parent *ClassDef) *ClassDef {
	return &ClassDef{
		Name:         name,
		Parent:       parent,
		Methods:      make(map[string]*ast.FunctionStatement),
		FieldAccess:  make(map[string]AccessLevel),
		MethodAccess: make(map[string]AccessLevel),
		Friends:      make(map[string]bool),
	}
}

// FindMethod は自クラスから祖先へ向かってメソッドを探す。
// 見つかればメソッドと、それを定義しているクラスを返す。
func (c *ClassDef) FindMethod(name string) (*ast.FunctionStatement, *ClassDef) {
	for cls := c; cls != nil; cls = cls.Parent {
		if m, ok := cls.Methods[name]; ok {
			return m, cls
		}
	}
	return nil, nil
}

// FindConstructor は自クラスか最も近い祖先のコンストラクタを返す。
func (c *ClassDef) FindConstructor() (*ast.FunctionStatement, *ClassDef) {
	for cls := c; cls != nil; cls = cls.Parent {
		if cls.Constructor != nil {
			return cls.Constructor, cls
		}
	}
	return nil, nil
}

// FieldAccessOf はフィールドのアクセスレベルを継承チェーンから解決する。
func (c *ClassDef) FieldAccessOf(name string) AccessLevel {
	for cls := c; cls != nil; cls = cls.Parent {
		if level, ok := cls.FieldAccess[name]; ok {
			return level
		}
	}
	return Public
}

// MethodAccessOf はメソッドのアクセスレベルを継承チェーンから解決する。
func (c *ClassDef) MethodAccessOf(name string) AccessLevel {
	for cls := c; cls != nil; cls = cls.Parent {
		if level, ok := cls.MethodAccess[name]; ok {
			return level
		}
	}
	return Public
}

// IsFriend は関数名がこのクラスか祖先の friend に含まれるか判定する。
func (c *ClassDef) IsFriend(function string) bool {
	if function == "" {
		return false
	}
	for cls := c; cls != nil; cls = cls.Parent {
		if cls.Friends[function] {
			return true
		}
	}
	return false
}

// IsA は c が other 自身かその子孫か判定する。名前ではなく定義の同一性で比べる。
func (c *ClassDef) IsA(other *ClassDef) bool {
	for cls := c; cls != nil; cls = cls.Parent {
		if cls == other {
			return true
		}
	}
	return false
}

// CanAccess は caller の文脈から target のメンバーに触れてよいか判定する。
// caller は実行中のメソッドの this（トップレベルや関数では nil）、
// function は実行中の関数名。
//
//	public    常に許可
//	private   caller が target と同一のインスタンス、または function が friend
//	protected private の条件に加え、caller のクラスが target のクラスかその子孫
func CanAccess(level AccessLevel, target, caller *Instance, function string) bool {
	switch level {
	case Public:
		return true
	case Private:
		return caller == target || target.Class.IsFriend(function)
	case Protected:
		if caller == target || target.Class.IsFriend(function) {
			return true
		}
		return caller != nil && caller.Class.IsA(target.Class)
	}
	return false
}

// ClassTable はプロセス全体のクラス定義の登録表。
type ClassTable struct {
	classes map[string]*ClassDef
}

// NewClassTable は空の登録表を作る。
func NewClassTable() *ClassTable {
	return &ClassTable{classes: make(map[string]*ClassDef)}
}

// Define はクラスを登録する。同名のクラスは置き換える。
func (t *ClassTable) Define(c *ClassDef) {
	t.classes[c.Name] = c
}

// Get は名前からクラスを探す。
func (t *ClassTable) Get(name string) (*ClassDef, bool) {
	c, ok := t.classes[name]
	return c, ok
}

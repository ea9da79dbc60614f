package object

import (
	"fmt"
	"math"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// HashKey は辞書のキーを比較可能な形にしたもの。
// 整数値の小数（2.0）は整数（2）と同じキーになる。
type HashKey struct {
	Type  ObjectType
	Int   int64
	Float float64
	Str   string
}

// Hashable は辞書のキーになれるオブジェクト（整数・小数・文字列・真偽値）。
type Hashable interface {
	Object
	HashKey() HashKey
}

func (i *Integer) HashKey() HashKey { return HashKey{Type: INTEGER_OBJ, Int: i.Value} }

func (f *Float) HashKey() HashKey {
	if f.Value == math.Trunc(f.Value) && math.Abs(f.Value) < 1<<63 {
		return HashKey{Type: INTEGER_OBJ, Int: int64(f.Value)}
	}
	return HashKey{Type: FLOAT_OBJ, Float: f.Value}
}

func (s *String) HashKey() HashKey { return HashKey{Type: STRING_OBJ, Str: s.Value} }

func (b *Boolean) HashKey() HashKey {
	if b.Value {
		return HashKey{Type: BOOLEAN_OBJ, Int: 1}
	}
	return HashKey{Type: BOOLEAN_OBJ}
}

// DictPair は辞書の1要素。Key は最初に挿入されたときのキーを保つ。
type DictPair struct {
	Key   Object
	Value Object
}

// Dictionary はキーから値への対応。挿入順を保ち、参照として共有される。
type Dictionary struct {
	pairs *linkedhashmap.Map
}

// NewDictionary は空の辞書を作る。
func NewDictionary() *Dictionary {
	return &Dictionary{pairs: linkedhashmap.New()}
}

func (d *Dictionary) Type() ObjectType { return DICTIONARY_OBJ }
func (d *Dictionary) Inspect() string  { return Format(d, defaultDialect) }

// Set はキーに値を設定する。既存のキーなら位置を変えずに値だけ置き換える。
func (d *Dictionary) Set(key Hashable, value Object) {
	hk := key.HashKey()
	if existing, found := d.pairs.Get(hk); found {
		pair := existing.(*DictPair)
		pair.Value = value
		return
	}
	d.pairs.Put(hk, &DictPair{Key: key, Value: value})
}

// Get はキーの値を返す。
func (d *Dictionary) Get(key Hashable) (Object, bool) {
	v, found := d.pairs.Get(key.HashKey())
	if !found {
		return nil, false
	}
	return v.(*DictPair).Value, true
}

// Delete はキーを削除する。キーが存在していたら true を返す。
func (d *Dictionary) Delete(key Hashable) bool {
	hk := key.HashKey()
	if _, found := d.pairs.Get(hk); !found {
		return false
	}
	d.pairs.Remove(hk)
	return true
}

// Len は要素数を返す。
func (d *Dictionary) Len() int { return d.pairs.Size() }

// Clear は全要素を削除する。
func (d *Dictionary) Clear() { d.pairs.Clear() }

// Pairs は挿入順に並んだ要素を返す。
func (d *Dictionary) Pairs() []DictPair {
	out := make([]DictPair, 0, d.pairs.Size())
	for _, v := range d.pairs.Values() {
		out = append(out, *v.(*DictPair))
	}
	return out
}

// Keys は挿入順のキーを返す。
func (d *Dictionary) Keys() []Object {
	out := make([]Object, 0, d.pairs.Size())
	for _, p := range d.Pairs() {
		out = append(out, p.Key)
	}
	return out
}

// Values は挿入順の値を返す。
func (d *Dictionary) Values() []Object {
	out := make([]Object, 0, d.pairs.Size())
	for _, p := range d.Pairs() {
		out = append(out, p.Value)
	}
	return out
}

// AsHashable はオブジェクトが辞書のキーとして使えるか確かめる。
func AsHashable(obj Object) (Hashable, error) {
	h, ok := obj.(Hashable)
	if !ok {
		return nil, fmt.Errorf("unusable as dictionary key: %s", obj.Type())
	}
	return h, nil
}

package evaluator

import (
	"log/slog"
	"os"
	"path/filepath"

	"kozak/ast"
	"kozak/object"
	"kozak/parser"
)

// evalImportStatement は Importuvaty(path) を評価する。
//
// パスはインポートしているファイルのディレクトリを基準に解決し、絶対パスにする。
// 同じ実行の中で既に読み込んだファイルなら何もしない。
// それ以外は拡張子を確かめてからパースし、トップレベルの文を
// 同じグローバル環境とクラス表に直接評価する（名前空間は作らない）。
// 入れ子のインポートのために、評価中は基準ディレクトリをそのファイルの場所に切り替える。
func (e *Evaluator) evalImportStatement(node *ast.ImportStatement) object.Object {
	val := e.Eval(node.Path)
	if isSignal(val) {
		return val
	}
	pathObj, ok := val.(*object.String)
	if !ok {
		return newError("import path must be a string, got %s", val.Type())
	}

	abs, err := filepath.Abs(e.resolvePath(pathObj.Value))
	if err != nil {
		return newError("import '%s': %s", pathObj.Value, err)
	}
	if e.imported.Contains(abs) {
		e.logger.Debug("import skipped", slog.String("path", abs))
		return nil
	}
	if filepath.Ext(abs) != e.extension {
		return newError("import '%s': file must have the %s extension", pathObj.Value, e.extension)
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		return newError("import '%s': cannot read file: %s", pathObj.Value, unwrapPathError(err))
	}
	e.imported.Add(abs)
	e.logger.Debug("import", slog.String("path", abs))

	program, err := parser.Parse(string(src), parser.WithStrict(e.strict))
	if err != nil {
		return newError("import '%s': syntax errors in %s:\n%s", pathObj.Value, abs, err)
	}

	savedDir := e.dir
	e.dir = filepath.Dir(abs)
	result := e.evalProgram(program.Statements)
	e.dir = savedDir

	if isSignal(result) {
		return result
	}
	return nil
}

package evaluator

import "fmt"

// RuntimeError は捕捉されずにプログラムの外まで到達した実行時エラー。
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// ExitError は Vyity による明示的な終了。失敗ではなく、Code がそのまま終了コードになる。
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

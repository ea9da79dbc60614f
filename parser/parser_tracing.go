// parser_tracing.go はパーサーのデバッグ用トレーシング機能を提供する。
// WithTracer でロガーを渡した場合だけ、各解析関数の入口と出口で
// "BEGIN <rule>" / "END <rule>" をデバッグレベルで出力する。
package parser

import (
	"context"
	"log/slog"
	"strings"
)

const traceIdentPlaceholder string = "\t"

// identLevel は現在のトレースレベルに応じたインデント文字列を返す。
func (p *Parser) identLevel() string {
	if p.traceLevel < 1 {
		return ""
	}
	return strings.Repeat(traceIdentPlaceholder, p.traceLevel-1)
}

// tracePrint はインデント付きでメッセージを出力する。
func (p *Parser) tracePrint(fs string) {
	p.tracer.LogAttrs(context.Background(), slog.LevelDebug, p.identLevel()+fs,
		slog.String("at", p.curToken.Position()),
		slog.String("token", p.curToken.Literal))
}

// trace は解析関数の入口で呼ぶ。"BEGIN <msg>" を出力してインデントを増やす。
//
//	defer p.untrace(p.trace("parseStatement"))
func (p *Parser) trace(msg string) string {
	if p.tracer == nil {
		return msg
	}
	p.traceLevel++
	p.tracePrint("BEGIN " + msg)
	return msg
}

// untrace は解析関数の出口で呼ぶ。"END <msg>" を出力してインデントを減らす。
func (p *Parser) untrace(msg string) {
	if p.tracer == nil {
		return
	}
	p.tracePrint("END " + msg)
	p.traceLevel--
}

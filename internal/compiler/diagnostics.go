package compiler

import (
	"errors"
	"go/scanner"
	"regexp"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var (
	// "name:12:5: message" as printed by go/scanner and starlark.
	positionPattern = regexp.MustCompile(`:(\d+):\d+:\s*(.+)$`)
	// "line:12", "line 12" or "line(12)" anywhere in the text.
	linePattern = regexp.MustCompile(`line[:( ]\s*(\d+)`)
)

// Diagnose converts a compiler error into a *CompileError with one
// diagnostic per reported problem. Errors that already are a
// *CompileError are returned unchanged.
func Diagnose(err error) *CompileError {
	if err == nil {
		return nil
	}

	var cerr *CompileError
	if errors.As(err, &cerr) {
		return cerr
	}

	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		out := &CompileError{}
		for _, e := range list {
			out.Diagnostics = append(out.Diagnostics, Diagnostic{Line: e.Pos.Line, Message: e.Msg})
		}
		return out
	}

	var perr *parse.Error
	if errors.As(err, &perr) {
		line := perr.Pos.Line
		if line == parse.EOF {
			line = 0
		}
		return newCompileError(max(line, 0), strings.TrimSpace(perr.Message))
	}

	var lerr *lua.CompileError
	if errors.As(err, &lerr) {
		return newCompileError(lerr.Line, lerr.Message)
	}

	return diagnoseText(err.Error())
}

// diagnoseText extracts line numbers from an error message, one diagnostic
// per non-empty line of text.
func diagnoseText(text string) *CompileError {
	out := &CompileError{}
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		out.Diagnostics = append(out.Diagnostics, diagnoseLine(raw))
	}
	if len(out.Diagnostics) == 0 {
		out.Diagnostics = []Diagnostic{{Message: "unknown error"}}
	}
	return out
}

func diagnoseLine(text string) Diagnostic {
	if m := positionPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return Diagnostic{Line: n, Message: m[2]}
		}
	}
	if m := linePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return Diagnostic{Line: n, Message: text}
		}
	}
	return Diagnostic{Message: text}
}

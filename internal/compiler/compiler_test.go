package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/scanner"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func compileAndRun(t *testing.T, c Compiler, src string) (any, error) {
	t.Helper()
	unit, err := c.Compile(t.Context(), src)
	require.NoError(t, err)
	require.NotNil(t, unit)
	return Invoke(t.Context(), unit)
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, lang := range Languages() {
		c, err := New(lang)
		require.NoError(t, err)
		assert.Equal(t, lang, c.Language())
	}

	c, err := New("LUA")
	require.NoError(t, err)
	assert.Equal(t, LanguageLua, c.Language())

	_, err = New("cobol")
	require.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestCompilers_EmptySource(t *testing.T) {
	t.Parallel()

	for _, lang := range Languages() {
		t.Run(lang, func(t *testing.T) {
			c, err := New(lang)
			require.NoError(t, err)
			_, err = c.Compile(t.Context(), "   ")
			require.ErrorIs(t, err, ErrEmptySource)
		})
	}
}

func TestGoCompiler(t *testing.T) {
	t.Parallel()

	t.Run("expression value", func(t *testing.T) {
		got, err := compileAndRun(t, NewGo(), "1 + 2")
		require.NoError(t, err)
		assert.EqualValues(t, 3, got)
	})

	t.Run("statements print to output", func(t *testing.T) {
		var out bytes.Buffer
		_, err := compileAndRun(t, NewGo(WithOutput(&out)), `fmt.Println("hi")`)
		require.NoError(t, err)
		assert.Equal(t, "hi\n", out.String())
	})

	t.Run("compile error", func(t *testing.T) {
		_, err := NewGo().Compile(t.Context(), "1 +")
		require.ErrorIs(t, err, ErrCompile)
		var cerr *CompileError
		require.ErrorAs(t, err, &cerr)
		assert.NotEmpty(t, cerr.Diagnostics)
	})

	t.Run("runtime panic", func(t *testing.T) {
		_, err := compileAndRun(t, NewGo(), `panic("boom")`)
		require.Error(t, err)
		assert.Contains(t, InnermostCause(err).Error(), "boom")
	})
}

func TestLuaCompiler(t *testing.T) {
	t.Parallel()

	t.Run("expression value", func(t *testing.T) {
		got, err := compileAndRun(t, NewLua(), "1 + 2")
		require.NoError(t, err)
		assert.Equal(t, int64(3), got)
	})

	t.Run("statement without value", func(t *testing.T) {
		got, err := compileAndRun(t, NewLua(), "local x = 1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("explicit return of a table", func(t *testing.T) {
		got, err := compileAndRun(t, NewLua(), "local t = {1, 'two'}; return t")
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), "two"}, got)
	})

	t.Run("print goes to output", func(t *testing.T) {
		var out bytes.Buffer
		_, err := compileAndRun(t, NewLua(WithOutput(&out)), "print('a', 1)")
		require.NoError(t, err)
		assert.Equal(t, "a\t1\n", out.String())
	})

	t.Run("setup hook", func(t *testing.T) {
		c := NewLua(WithLuaSetup(func(L *lua.LState) {
			L.SetGlobal("answer", lua.LNumber(42))
		}))
		got, err := compileAndRun(t, c, "answer")
		require.NoError(t, err)
		assert.Equal(t, int64(42), got)
	})

	t.Run("compile error has a line", func(t *testing.T) {
		_, err := NewLua().Compile(t.Context(), "x = = 1")
		var cerr *CompileError
		require.ErrorAs(t, err, &cerr)
		require.Len(t, cerr.Diagnostics, 1)
		assert.Equal(t, 1, cerr.Diagnostics[0].Line)
	})

	t.Run("runtime error", func(t *testing.T) {
		_, err := compileAndRun(t, NewLua(), "error('bad')")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad")
	})

	t.Run("cancelled context", func(t *testing.T) {
		unit, err := NewLua().Compile(t.Context(), "while true do end")
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err = unit.Invoke(ctx)
		require.Error(t, err)
	})
}

func TestPolyCompilers(t *testing.T) {
	t.Parallel()

	t.Run("risor expression", func(t *testing.T) {
		got, err := compileAndRun(t, NewRisor(), "1 + 2")
		require.NoError(t, err)
		assert.EqualValues(t, 3, got)
	})

	t.Run("starlark expression", func(t *testing.T) {
		got, err := compileAndRun(t, NewStarlark(), "1 + 2")
		require.NoError(t, err)
		assert.EqualValues(t, 3, got)
	})

	t.Run("starlark statement", func(t *testing.T) {
		got, err := compileAndRun(t, NewStarlark(), "result = 'x' * 2")
		require.NoError(t, err)
		assert.Equal(t, "xx", got)
	})

	t.Run("compile errors", func(t *testing.T) {
		for _, c := range []Compiler{NewRisor(), NewStarlark()} {
			_, err := c.Compile(t.Context(), "1 +")
			require.ErrorIs(t, err, ErrCompile, c.Language())
		}
	})
}

func TestDiagnose(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, Diagnose(nil))
	})

	t.Run("already diagnosed", func(t *testing.T) {
		in := newCompileError(4, "x")
		assert.Same(t, in, Diagnose(fmt.Errorf("wrapped: %w", in)))
	})

	t.Run("go scanner list", func(t *testing.T) {
		var list scanner.ErrorList
		list.Add(token.Position{Line: 2, Column: 1}, "expected operand")
		list.Add(token.Position{Line: 5, Column: 3}, "missing ','")
		got := Diagnose(list.Err())
		assert.Equal(t, []Diagnostic{{2, "expected operand"}, {5, "missing ','"}}, got.Diagnostics)
	})

	t.Run("text positions", func(t *testing.T) {
		got := Diagnose(errors.New("validation error: <expr>:3:7: got '+', want primary\nsecond problem"))
		assert.Equal(t, []Diagnostic{
			{3, "got '+', want primary"},
			{0, "second problem"},
		}, got.Diagnostics)
	})

	t.Run("text line word", func(t *testing.T) {
		got := Diagnose(errors.New("parse error at line 9: unexpected token"))
		require.Len(t, got.Diagnostics, 1)
		assert.Equal(t, 9, got.Diagnostics[0].Line)
	})

	t.Run("empty text", func(t *testing.T) {
		got := Diagnose(errors.New("\n"))
		assert.Equal(t, []Diagnostic{{0, "unknown error"}}, got.Diagnostics)
	})
}

func TestInvoke(t *testing.T) {
	t.Parallel()

	_, err := Invoke(t.Context(), nil)
	require.ErrorIs(t, err, ErrNilUnit)

	_, err = Invoke(t.Context(), UnitFunc(func(context.Context) (any, error) { panic("boom") }))
	require.ErrorIs(t, err, ErrInvocationPanic)
	assert.Equal(t, "panic: boom", InnermostCause(err).Error())

	root := errors.New("root")
	_, err = Invoke(t.Context(), UnitFunc(func(context.Context) (any, error) { panic(fmt.Errorf("ctx: %w", root)) }))
	assert.Same(t, root, InnermostCause(err))

	got, err := Invoke(t.Context(), UnitFunc(func(context.Context) (any, error) { return "ok", nil }))
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestCompileError(t *testing.T) {
	t.Parallel()

	err := &CompileError{Diagnostics: []Diagnostic{{1, "a"}, {2, "b"}}}
	assert.Equal(t, "compilation failed: line 1: a; line 2: b", err.Error())
	assert.ErrorIs(t, err, ErrCompile)
	assert.Nil(t, InnermostCause(nil))
}

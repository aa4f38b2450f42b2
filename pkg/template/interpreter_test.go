// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package template_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/inr-kit/twps/pkg/eval"
	"github.com/inr-kit/twps/pkg/filepos"
	"github.com/inr-kit/twps/pkg/orderedmap"
	"github.com/inr-kit/twps/pkg/template"
	"github.com/k14s/starlark-go/starlark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPos = filepos.NewPositionInFile(3, "tpl")

func TestInterpreterExpression(t *testing.T) {
	interp := template.NewInterpreter(nil)

	outcome := interp.Interpret("1+1", testPos)
	require.Equal(t, eval.OutcomeValue, outcome.Kind)
	assert.Equal(t, "2", outcome.Text)
	assert.Equal(t, "", outcome.Output)

	outcome = interp.Interpret(`"a" + "b"`, testPos)
	assert.Equal(t, "ab", outcome.Text, "strings are not quoted")

	outcome = interp.Interpret("  [1, 'x', None]", testPos)
	assert.Equal(t, `[1, "x", None]`, outcome.Text)
}

func TestInterpreterStatementsShareScope(t *testing.T) {
	interp := template.NewInterpreter(nil)

	outcome := interp.Interpret("a = 5\ndef twice(x):\n  return x * 2", testPos)
	require.Equal(t, eval.OutcomeExecuted, outcome.Kind, "err: %v", outcome.Err)

	outcome = interp.Interpret("twice(a)", testPos)
	require.Equal(t, eval.OutcomeValue, outcome.Kind)
	assert.Equal(t, "10", outcome.Text)

	// existing names can be reassigned by later snippets
	outcome = interp.Interpret("a = a + 1", testPos)
	require.Equal(t, eval.OutcomeExecuted, outcome.Kind, "err: %v", outcome.Err)
	assert.Equal(t, "6", interp.Interpret("a", testPos).Text)
}

func TestInterpreterSingleStatements(t *testing.T) {
	interp := template.NewInterpreter(nil)

	for _, code := range []string{"a = 5", "def f(): return a", "n = 0", "n = n + 1"} {
		outcome := interp.Interpret(code, testPos)
		require.Equal(t, eval.OutcomeExecuted, outcome.Kind, "code %q err: %v", code, outcome.Err)
		assert.Nil(t, outcome.Err)
	}

	assert.Equal(t, "5", interp.Interpret("f()", testPos).Text)
	assert.Equal(t, "1", interp.Interpret("n", testPos).Text)
}

func TestInterpreterKeepsGlobalsBoundBeforeFailure(t *testing.T) {
	interp := template.NewInterpreter(nil)

	outcome := interp.Interpret("early = 1\nlate = 1 // 0", testPos)
	require.Equal(t, eval.OutcomeExecFailed, outcome.Kind)
	assert.Equal(t, "1", interp.Interpret("early", testPos).Text)
}

func TestInterpreterCapturesPrint(t *testing.T) {
	interp := template.NewInterpreter(nil)

	outcome := interp.Interpret("for i in range(3): print(i)", testPos)
	require.Equal(t, eval.OutcomeExecuted, outcome.Kind, "err: %v", outcome.Err)
	assert.Equal(t, "0\n1\n2\n", outcome.Output)

	outcome = interp.Interpret("print('x')", testPos)
	require.Equal(t, eval.OutcomeValue, outcome.Kind)
	assert.Equal(t, "None", outcome.Text)
	assert.Equal(t, "x\n", outcome.Output)
}

func TestInterpreterDedentsStatements(t *testing.T) {
	interp := template.NewInterpreter(nil)

	outcome := interp.Interpret("\n    if True:\n        b = 1\n\n    c = 2\n", testPos)
	require.Equal(t, eval.OutcomeExecuted, outcome.Kind, "err: %v", outcome.Err)
	assert.Equal(t, "3", interp.Interpret("b + c", testPos).Text)
}

func TestInterpreterUndefined(t *testing.T) {
	interp := template.NewInterpreter(nil)

	outcome := interp.Interpret("missing + 1", testPos)
	require.Equal(t, eval.OutcomeUndefined, outcome.Kind)
	assert.Equal(t, "missing", outcome.Name)
	assert.True(t, outcome.Failed())

	outcome = interp.Interpret("true", testPos)
	require.Equal(t, eval.OutcomeUndefined, outcome.Kind)
	assert.Contains(t, outcome.Err.Error(), "use 'True' instead of 'true'")
}

func TestInterpreterExecFailureKeepsOutput(t *testing.T) {
	interp := template.NewInterpreter(nil)

	outcome := interp.Interpret("print('before')\nx = 1 // 0", testPos)
	require.Equal(t, eval.OutcomeExecFailed, outcome.Kind)
	assert.Equal(t, "before\n", outcome.Output)
	assert.Contains(t, outcome.Err.Error(), "by zero")
	assert.Contains(t, outcome.Err.Error(), "(snippet line 2)")
	assert.NotEmpty(t, outcome.Backtrace)

	outcome = interp.Interpret("if True\n  x = 1", testPos)
	require.Equal(t, eval.OutcomeExecFailed, outcome.Kind)
	assert.Contains(t, outcome.Err.Error(), "syntax error")
}

func TestInterpreterEvalFailure(t *testing.T) {
	interp := template.NewInterpreter(nil)

	outcome := interp.Interpret("1 // 0", testPos)
	require.Equal(t, eval.OutcomeEvalFailed, outcome.Kind)
	assert.Contains(t, outcome.Err.Error(), "by zero")
	assert.Contains(t, outcome.Backtrace, "tpl")
}

func TestInterpreterBindAndGet(t *testing.T) {
	interp := template.NewInterpreter(starlark.StringDict{"greeting": starlark.String("hi")})

	m := orderedmap.NewMap()
	m.Set("b", int64(1))
	m.Set("a", []interface{}{"x", 2.5, nil, true})

	require.NoError(t, interp.Bind("n", 3))
	require.NoError(t, interp.Bind("m", m))
	require.NoError(t, interp.Bind("f", 0.5))

	assert.Equal(t, `hi 3 {"b": 1, "a": ["x", 2.5, None, True]} 0.5`,
		interp.Interpret(`"%s %d %s %s" % (greeting, n, m, f)`, testPos).Text)

	// rebinding overwrites
	require.NoError(t, interp.Bind("n", "three"))
	assert.Equal(t, "three", interp.Interpret("n", testPos).Text)

	interp.Interpret("d = {'k': [1, 2]}", testPos)

	val, found, err := interp.Get("d")
	require.NoError(t, err)
	require.True(t, found)
	require.IsType(t, &orderedmap.Map{}, val)
	list, _ := val.(*orderedmap.Map).Get("k")
	assert.Equal(t, []interface{}{int64(1), int64(2)}, list)

	_, found, err = interp.Get("nope")
	require.NoError(t, err)
	assert.False(t, found)

	assert.Contains(t, interp.Names(), "greeting")
	assert.Contains(t, interp.Names(), "d")

	assert.Error(t, interp.Bind("bad", struct{}{}))
}

func TestInterpreterBindFunc(t *testing.T) {
	interp := template.NewInterpreter(nil)

	var seenArgs []interface{}
	var seenKwargs map[string]interface{}

	err := interp.Bind("host", eval.Func(func(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
		seenArgs, seenKwargs = args, kwargs
		if len(args) == 0 {
			return nil, fmt.Errorf("expected an argument")
		}
		return fmt.Sprintf("got %v", args[0]), nil
	}))
	require.NoError(t, err)

	outcome := interp.Interpret("host(1, flag=True)", testPos)
	require.Equal(t, eval.OutcomeValue, outcome.Kind, "err: %v", outcome.Err)
	assert.Equal(t, "got 1", outcome.Text)
	assert.Equal(t, []interface{}{int64(1)}, seenArgs)
	assert.Equal(t, map[string]interface{}{"flag": true}, seenKwargs)

	outcome = interp.Interpret("host()", testPos)
	require.Equal(t, eval.OutcomeEvalFailed, outcome.Kind)
	assert.Contains(t, outcome.Err.Error(), "host: expected an argument")
}

func TestInterpreterRecoversPanics(t *testing.T) {
	interp := template.NewInterpreter(nil)

	err := interp.Bind("boom", eval.Func(func([]interface{}, map[string]interface{}) (interface{}, error) {
		panic("boom")
	}))
	require.NoError(t, err)

	outcome := interp.Interpret("boom()", testPos)
	require.Equal(t, eval.OutcomeEvalFailed, outcome.Kind)
	assert.Contains(t, outcome.Err.Error(), "boom: (p) boom")
	assert.Contains(t, outcome.Backtrace, "goroutine", "Go stack is kept for debug output")

	outcome = interp.Interpret("x = 1\nboom()", testPos)
	require.Equal(t, eval.OutcomeExecFailed, outcome.Kind)
	assert.Contains(t, outcome.Err.Error(), "boom: (p) boom")
	assert.Contains(t, outcome.Backtrace, "goroutine")
}

func TestInterpreterLoad(t *testing.T) {
	dir := t.TempDir()
	helpers := filepath.Join(dir, "helpers.star")
	require.NoError(t, os.WriteFile(helpers, []byte("def square(x):\n  return x * x\n"), 0600))

	interp := template.NewInterpreter(nil)

	outcome := interp.Interpret(fmt.Sprintf("load(%q, \"square\")", helpers), testPos)
	require.Equal(t, eval.OutcomeExecuted, outcome.Kind, "err: %v", outcome.Err)
	assert.Equal(t, "49", interp.Interpret("square(7)", testPos).Text)

	outcome = interp.Interpret(`load("does-not-exist.star", "x")`, testPos)
	require.Equal(t, eval.OutcomeExecFailed, outcome.Kind)
	assert.Contains(t, outcome.Err.Error(), "Reading module 'does-not-exist.star'")
}

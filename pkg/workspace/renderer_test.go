// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package workspace_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/inr-kit/twps/pkg/cmd/ui"
	"github.com/inr-kit/twps/pkg/eval"
	"github.com/inr-kit/twps/pkg/filepos"
	"github.com/inr-kit/twps/pkg/template"
	"github.com/inr-kit/twps/pkg/twpslibrary"
	"github.com/inr-kit/twps/pkg/variants"
	"github.com/inr-kit/twps/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	dir      string
	interp   *template.Interpreter
	renderer *workspace.Renderer
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newTestEnv(t *testing.T, opts workspace.RendererOpts) testEnv {
	t.Helper()

	env := testEnv{
		dir:    t.TempDir(),
		interp: template.NewInterpreter(twpslibrary.NewAPI()),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}

	var err error
	env.renderer, err = workspace.NewRenderer(env.interp, ui.NewCustomWriterTTY(false, env.stdout, env.stderr), opts)
	require.NoError(t, err)

	return env
}

func (e testEnv) writeTemplate(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRenderFileWithoutParams(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{})
	path := env.writeTemplate(t, "model.serp", "#{}\nValue: {1+1}\n")

	written, err := env.renderer.RenderFile(path, workspace.RenderOpts{})
	require.NoError(t, err)

	require.Equal(t, []string{filepath.Join(env.dir, "model.res.serp")}, written)
	assert.Equal(t, "Value: 2\n", readFile(t, written[0]))
	assert.Empty(t, env.stderr.String())
	assert.Contains(t, env.stdout.String(), "Result is written to")

	// rendering again replaces the read-only output
	written, err = env.renderer.RenderFile(path, workspace.RenderOpts{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(env.dir, "model.res.serp")}, written)
}

func TestRenderFileVariants(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{})
	path := env.writeTemplate(t, "model.serp", "#{}\nx={x} y={y}\n")

	written, err := env.renderer.RenderFile(path, workspace.RenderOpts{
		Params: variants.ParameterSet{
			{Name: "x", Values: []interface{}{int64(1), int64(2)}},
			{Name: "y", Values: []interface{}{int64(10), int64(20)}, Start: 1},
		},
	})
	require.NoError(t, err)

	expected := map[string]string{
		"model._0_1.serp": "x=1 y=10\n",
		"model._0_2.serp": "x=1 y=20\n",
		"model._1_1.serp": "x=2 y=10\n",
		"model._1_2.serp": "x=2 y=20\n",
	}

	require.Len(t, written, 4)
	assert.Equal(t, filepath.Join(env.dir, "model._0_1.serp"), written[0])
	assert.Equal(t, filepath.Join(env.dir, "model._1_2.serp"), written[3])

	for name, contents := range expected {
		assert.Equal(t, contents, readFile(t, filepath.Join(env.dir, name)), "file %s", name)
	}
}

func TestRenderFileScopeIsSharedAcrossVariants(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{})
	path := env.writeTemplate(t, "acc.txt", "#{}\n-d{acc.append(x)}{len(acc)}")

	require.Equal(t, eval.OutcomeExecuted, env.interp.Interpret("acc = []", filepos.NewUnknownPosition()).Kind)

	written, err := env.renderer.RenderFile(path, workspace.RenderOpts{
		Params: variants.ParameterSet{{Name: "x", Values: []interface{}{"a", "b", "c"}}},
	})
	require.NoError(t, err)

	require.Len(t, written, 3)
	assert.Equal(t, "1", readFile(t, written[0]))
	assert.Equal(t, "3", readFile(t, written[2]))
}

func TestRenderFilePreamble(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{OutputDir: "out"})
	path := env.writeTemplate(t, "inp", "#{}\nn = {n}\n")

	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(env.dir))
	defer os.Chdir(prevDir)

	written, err := env.renderer.RenderFile(path, workspace.RenderOpts{Preamble: "n = 2 * 21"})
	require.NoError(t, err)

	require.Equal(t, []string{filepath.Join("out", "inp.res")}, written)
	assert.Equal(t, "n = 42\n", readFile(t, filepath.Join(env.dir, "out", "inp.res")))
}

func TestRenderFileSnippetFailuresDoNotAbort(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{})
	path := env.writeTemplate(t, "model.serp", "#{}\na={undefined_name}\nb={1 // 0}\n{x = 1 // 0}\nc={2+2}\n")

	written, err := env.renderer.RenderFile(path, workspace.RenderOpts{})
	require.NoError(t, err)

	assert.Equal(t, "a={undefined_name}\nb={1 // 0}\n{x = 1 // 0}\nc=4\n", readFile(t, written[0]))

	assert.Contains(t, env.stderr.String(), fmt.Sprintf("Warning: %s:2: Evaluating snippet: undefined name 'undefined_name'\n", path))
	assert.Contains(t, env.stderr.String(), fmt.Sprintf("Warning: %s:3: Evaluating snippet:", path))
	assert.Contains(t, env.stderr.String(), fmt.Sprintf("Warning: %s:4: Executing snippet:", path))
}

func TestRenderFileStatementSnippets(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{})
	path := env.writeTemplate(t, "loop.txt", "c {}\n{for i in range(3):\n    print(i)}\n-s{for i in range(3):\n    print(i)}\n")

	written, err := env.renderer.RenderFile(path, workspace.RenderOpts{})
	require.NoError(t, err)

	assert.Equal(t, "{for i in range(3):\nc     print(i)}0\n1\n2\n\n-s{for i in range(3):\n    print(i)}\n", readFile(t, written[0]))
}

func TestRenderFileMalformedHeader(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{})
	path := env.writeTemplate(t, "bad.txt", "{\nbody\n")

	_, err := env.renderer.RenderFile(path, workspace.RenderOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 characters")

	_, err = os.Stat(filepath.Join(env.dir, "bad.res.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenderNestedSharesScope(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{})
	inner := env.writeTemplate(t, "inner.txt", "#{}\n{a * 2}\n-d{b = a + 1}\n\n")
	outer := env.writeTemplate(t, "outer.txt", fmt.Sprintf("#{}\n-d{a = 5}\n{render(%q)}\n{b}\n", inner))

	written, err := env.renderer.RenderFile(outer, workspace.RenderOpts{})
	require.NoError(t, err)

	assert.Equal(t, "\n10\n6\n", readFile(t, written[0]))
	assert.Empty(t, env.stderr.String())

	_, err = os.Stat(filepath.Join(env.dir, "inner.res.txt"))
	assert.True(t, os.IsNotExist(err), "nested renders do not write files")
}

func TestRenderNestedWithSnippet(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{})
	inner := env.writeTemplate(t, "inner.txt", "#{}\nr = {r}\r\n")

	result, err := env.renderer.RenderNested(inner, workspace.RenderOpts{Preamble: "r = 7"})
	require.NoError(t, err)
	assert.Equal(t, "r = 7", result)

	outcome := env.interp.Interpret(fmt.Sprintf("render(%q, snippet='r = 8')", inner), filepos.NewUnknownPosition())
	require.Equal(t, eval.OutcomeValue, outcome.Kind, "err: %v", outcome.Err)
	assert.Equal(t, "r = 8", outcome.Text)
}

func TestRenderNestedWithParams(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{})
	inner := env.writeTemplate(t, "inner.txt", "#{}\n{m}{i}\n")

	outer := env.writeTemplate(t, "outer.txt",
		fmt.Sprintf("#{}\n[{render(%q, params=[('m', 'x y'), ('i', [1, 2], 3)])}]\n", inner))

	written, err := env.renderer.RenderFile(outer, workspace.RenderOpts{})
	require.NoError(t, err)

	assert.Equal(t, "[x1x2y1y2]\n", readFile(t, written[0]))
	assert.Empty(t, env.stderr.String())

	// the last variant stays bound in the shared scope
	assert.Equal(t, "y2", env.interp.Interpret("m + str(i)", filepos.NewUnknownPosition()).Text)
}

func TestRenderNestedWithInvalidParams(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{})
	inner := env.writeTemplate(t, "inner.txt", "#{}\n{i}\n")

	tests := []struct {
		params string
		err    string
	}{
		{"'i'", "expected keyword argument 'params' to be a list"},
		{"[('i',)]", "to be a (name, values[, start]) tuple"},
		{"[('i', 1)]", "to be a list or a string"},
		{"[('i', [])]", "to have at least one value"},
		{"[('not-a-name', [1])]", "to be an identifier"},
		{"[('i', [1], 'x')]", "start index of parameter 'i' to be an int"},
	}

	for _, test := range tests {
		t.Run(test.params, func(t *testing.T) {
			code := fmt.Sprintf("render(%q, params=%s)", inner, test.params)
			outcome := env.interp.Interpret(code, filepos.NewUnknownPosition())
			require.Equal(t, eval.OutcomeEvalFailed, outcome.Kind)
			assert.Contains(t, outcome.Err.Error(), test.err)
		})
	}
}

func TestRenderNestedFailureIsSnippetFailure(t *testing.T) {
	env := newTestEnv(t, workspace.RendererOpts{})
	outer := env.writeTemplate(t, "outer.txt", "#{}\n{render('does-not-exist.txt')}|{1}")

	written, err := env.renderer.RenderFile(outer, workspace.RenderOpts{})
	require.NoError(t, err)

	assert.Equal(t, "{render('does-not-exist.txt')}|1", readFile(t, written[0]))
	assert.Contains(t, env.stderr.String(), "Checking template 'does-not-exist.txt'")
}

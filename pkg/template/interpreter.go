// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/inr-kit/twps/pkg/eval"
	"github.com/inr-kit/twps/pkg/filepos"
	"github.com/inr-kit/twps/pkg/template/core"
	"github.com/k14s/starlark-go/resolve"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/syntax"
)

const undefinedMsgPrefix = "undefined: "

type Interpreter struct {
	globals starlark.StringDict
	loader  *ModuleLoader
}

var _ eval.Interpreter = &Interpreter{}

// NewInterpreter returns an Interpreter whose scope starts with the given
// predeclared values (typically library modules).
func NewInterpreter(predeclared starlark.StringDict) *Interpreter {
	// TODO resolve options are package globals; pass them per file once starlark-go supports FileOptions
	resolve.AllowFloat = true
	resolve.AllowSet = true
	resolve.AllowLambda = true
	resolve.AllowNestedDef = true
	resolve.AllowBitwise = true
	resolve.AllowRecursion = true
	resolve.AllowGlobalReassign = true
	resolve.LoadBindsGlobally = true

	globals := starlark.StringDict{}
	for name, val := range predeclared {
		globals[name] = val
	}

	return &Interpreter{
		globals: globals,
		loader:  NewModuleLoader(predeclared),
	}
}

func (i *Interpreter) Interpret(code string, pos *filepos.Position) (outcome eval.Outcome) {
	output := &strings.Builder{}
	thread := i.newThread(pos, output)

	defer func() {
		if rec := recover(); rec != nil {
			outcome = eval.Outcome{
				Kind:      eval.OutcomeEvalFailed,
				Err:       fmt.Errorf("(p) %v", rec),
				Backtrace: string(debug.Stack()),
			}
		}
		outcome.Output = output.String()
	}()

	val, err := i.evalExpr(thread, code, pos)
	if err == nil {
		return eval.Outcome{Kind: eval.OutcomeValue, Text: core.NewStarlarkValue(val).AsText()}
	}

	switch typedErr := err.(type) {
	case syntax.Error:
		// not an expression; try statements
		return i.exec(thread, code, pos)

	case resolve.ErrorList:
		for _, resolveErr := range typedErr {
			if strings.HasPrefix(resolveErr.Msg, undefinedMsgPrefix) {
				return eval.Outcome{
					Kind: eval.OutcomeUndefined,
					Name: strings.TrimPrefix(resolveErr.Msg, undefinedMsgPrefix),
					Err:  NewSnippetError(err),
				}
			}
		}

	case *starlark.EvalError:
		return eval.Outcome{
			Kind:      eval.OutcomeEvalFailed,
			Err:       NewSnippetError(err),
			Backtrace: i.backtrace(thread, typedErr),
		}
	}

	return eval.Outcome{Kind: eval.OutcomeEvalFailed, Err: NewSnippetError(err)}
}

// evalExpr evaluates code as a single expression. Parse errors raised by
// the expression parser as panics are returned as syntax.Error.
func (i *Interpreter) evalExpr(thread *starlark.Thread, code string, pos *filepos.Position) (val starlark.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			syntaxErr, ok := rec.(syntax.Error)
			if !ok {
				panic(rec)
			}
			val, err = nil, syntaxErr
		}
	}()

	return starlark.Eval(thread, i.filename(pos), strings.TrimLeft(code, " \t"), i.globals)
}

func (i *Interpreter) exec(thread *starlark.Thread, code string, pos *filepos.Position) eval.Outcome {
	f, err := syntax.Parse(i.filename(pos), Dedent(code), 0)
	if err != nil {
		return eval.Outcome{Kind: eval.OutcomeExecFailed, Err: NewSnippetError(err)}
	}

	prog, err := starlark.FileProgram(f, i.globals.Has)
	if err != nil {
		return eval.Outcome{Kind: eval.OutcomeExecFailed, Err: NewSnippetError(err)}
	}

	updatedGlobals, err := prog.Init(thread, i.globals)

	// Globals are reflected back into the scope even after an error
	for name, val := range updatedGlobals {
		i.globals[name] = val
	}

	if err != nil {
		outcome := eval.Outcome{Kind: eval.OutcomeExecFailed, Err: NewSnippetError(err)}
		if evalErr, ok := err.(*starlark.EvalError); ok {
			outcome.Backtrace = i.backtrace(thread, evalErr)
		}
		return outcome
	}

	return eval.Outcome{Kind: eval.OutcomeExecuted}
}

func (i *Interpreter) Bind(name string, val interface{}) error {
	if fn, ok := val.(eval.Func); ok {
		i.globals[name] = i.builtin(name, fn)
		return nil
	}

	starlarkVal, err := core.NewGoValue(val).AsStarlarkValue()
	if err != nil {
		return fmt.Errorf("Binding '%s': %s", name, err)
	}

	i.globals[name] = starlarkVal
	return nil
}

// Get returns the current value of name in the scope converted to a Go value.
func (i *Interpreter) Get(name string) (interface{}, bool, error) {
	val, found := i.globals[name]
	if !found {
		return nil, false, nil
	}
	goVal, err := core.NewStarlarkValue(val).AsGoValue()
	return goVal, true, err
}

// Names lists names currently bound in the scope.
func (i *Interpreter) Names() []string {
	return i.globals.Keys()
}

func (i *Interpreter) builtin(name string, fn eval.Func) *starlark.Builtin {
	return starlark.NewBuiltin(name, core.ErrWrapper(func(thread *starlark.Thread, f *starlark.Builtin,
		args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {

		var goArgs []interface{}
		for _, arg := range args {
			goArg, err := core.NewStarlarkValue(arg).AsGoValue()
			if err != nil {
				return starlark.None, err
			}
			goArgs = append(goArgs, goArg)
		}

		goKwargs := map[string]interface{}{}
		for _, kwarg := range kwargs {
			key, err := core.NewStarlarkValue(kwarg.Index(0)).AsString()
			if err != nil {
				return starlark.None, err
			}
			goKwargs[key], err = core.NewStarlarkValue(kwarg.Index(1)).AsGoValue()
			if err != nil {
				return starlark.None, err
			}
		}

		result, err := fn(goArgs, goKwargs)
		if err != nil {
			return starlark.None, err
		}

		return core.NewGoValue(result).AsStarlarkValue()
	}))
}

func (i *Interpreter) backtrace(thread *starlark.Thread, err *starlark.EvalError) string {
	if stack := core.PanicStack(thread); len(stack) > 0 {
		return err.Backtrace() + "\n" + stack
	}
	return err.Backtrace()
}

func (i *Interpreter) newThread(pos *filepos.Position, output *strings.Builder) *starlark.Thread {
	return &starlark.Thread{
		Name: pos.AsCompactString(),
		Print: func(_ *starlark.Thread, msg string) {
			output.WriteString(msg)
			output.WriteString("\n")
		},
		Load: i.loader.Load,
	}
}

func (i *Interpreter) filename(pos *filepos.Position) string {
	if name := pos.GetFile(); len(name) > 0 {
		return name
	}
	return "snippet"
}

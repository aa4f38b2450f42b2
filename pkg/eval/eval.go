// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

// Package eval defines the boundary between the text preprocessor and the
// language snippets are written in. Everything above this package (tokenizer,
// directives, variants, renderer) is independent of the host language.
package eval

import (
	"github.com/inr-kit/twps/pkg/filepos"
)

// Interpreter evaluates or executes snippet code against a single scope that
// lives as long as the Interpreter. Implementations must be reentrant: a
// snippet may trigger a nested render which calls back into Interpret.
type Interpreter interface {
	// Interpret evaluates code as an expression and, if it is not one,
	// executes it as a sequence of statements. It never panics.
	Interpret(code string, pos *filepos.Position) Outcome

	// Bind sets name in the scope, overwriting any previous value.
	// Supported values are nil, bool, string, integers, float64, lists,
	// maps and Func.
	Bind(name string, val interface{}) error
}

// Func is a host function that snippets can call.
type Func func(args []interface{}, kwargs map[string]interface{}) (interface{}, error)

type OutcomeKind int

const (
	// OutcomeValue means the code was an expression; Text holds its str() form.
	OutcomeValue OutcomeKind = iota
	// OutcomeExecuted means the code was executed as statements.
	OutcomeExecuted
	// OutcomeUndefined means expression evaluation referenced an unknown name.
	OutcomeUndefined
	// OutcomeExecFailed means statement execution raised an error.
	OutcomeExecFailed
	// OutcomeEvalFailed means expression evaluation failed for another reason.
	OutcomeEvalFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeValue:
		return "value"
	case OutcomeExecuted:
		return "executed"
	case OutcomeUndefined:
		return "undefined"
	case OutcomeExecFailed:
		return "exec-failed"
	case OutcomeEvalFailed:
		return "eval-failed"
	default:
		return "unknown"
	}
}

type Outcome struct {
	Kind OutcomeKind

	Text   string // str() of the expression result (OutcomeValue)
	Output string // output printed by the snippet, captured on every path
	Name   string // unresolved identifier (OutcomeUndefined)

	Err       error
	Backtrace string
}

func (o Outcome) Failed() bool {
	return o.Kind == OutcomeUndefined || o.Kind == OutcomeExecFailed || o.Kind == OutcomeEvalFailed
}

// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inr-kit/twps/pkg/cmd/ui"
	"github.com/inr-kit/twps/pkg/eval"
)

// Evaluator substitutes snippets of a parsed template with their results.
// Snippet failures never stop evaluation: they are reported as warnings and
// the snippet text is kept in the output instead.
type Evaluator struct {
	interp eval.Interpreter
	header Header
	ui     ui.UI
}

func NewEvaluator(interp eval.Interpreter, header Header, ui ui.UI) Evaluator {
	return Evaluator{interp, header, ui}
}

// Evaluate walks all nodes once and returns output fragments in order.
func (e Evaluator) Evaluate(root *NodeRoot) []string {
	var result []string
	directive := e.header.Default

	for _, item := range root.Items {
		switch typedItem := item.(type) {
		case *NodeText:
			var text string
			text, directive = ResolveDirective(typedItem.Content, e.header.Default)
			result = append(result, text)

		case *NodeCode:
			result = append(result, e.EvaluateCode(typedItem, directive)...)

		default:
			panic(fmt.Sprintf("unknown node type %T", typedItem))
		}
	}

	return result
}

// EvaluateCode returns output fragments for a single snippet.
func (e Evaluator) EvaluateCode(node *NodeCode, directive Directive) []string {
	if directive == DirectiveSkip {
		return []string{node.Delimited}
	}

	e.ui.Debugf("Evaluating snippet at %s: %s\n", node.Position.AsCompactString(), node.Content)

	outcome := e.interp.Interpret(node.Content, node.Position)

	var result []string

	switch outcome.Kind {
	case eval.OutcomeValue:
		e.ui.Debugf("Snippet at %s evaluated to: %s\n", node.Position.AsCompactString(), outcome.Text)
		if directive != DirectiveDelete {
			result = append(result, directive.Pad(outcome.Text, utf8.RuneCountInString(node.Delimited)))
		}

	case eval.OutcomeUndefined:
		e.ui.Warnf("Warning: %s: Evaluating snippet: undefined name '%s'\n",
			node.Position.AsCompactString(), outcome.Name)
		result = append(result, node.Delimited)

	case eval.OutcomeExecuted, eval.OutcomeExecFailed:
		if directive != DirectiveDelete {
			result = append(result, strings.ReplaceAll(node.Delimited, "\n", "\n"+e.header.Comment))
		}
		if outcome.Kind == eval.OutcomeExecFailed {
			e.ui.Warnf("Warning: %s: Executing snippet: %s\n", node.Position.AsCompactString(), outcome.Err)
			e.debugBacktrace(outcome)
		}

	case eval.OutcomeEvalFailed:
		e.ui.Warnf("Warning: %s: Evaluating snippet: %s\n", node.Position.AsCompactString(), outcome.Err)
		e.debugBacktrace(outcome)
		if directive != DirectiveDelete {
			result = append(result, node.Delimited)
		}

	default:
		panic(fmt.Sprintf("unknown outcome kind %s", outcome.Kind))
	}

	if len(outcome.Output) > 0 {
		result = append(result, outcome.Output)
	}

	return result
}

func (e Evaluator) debugBacktrace(outcome eval.Outcome) {
	if len(outcome.Backtrace) > 0 {
		e.ui.Debugf("%s\n", outcome.Backtrace)
	}
}

// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/k14s/starlark-go/resolve"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/syntax"
)

var (
	binaryOrRegexp  = regexp.MustCompile(`^unknown binary op: .+ \| .+$`)
	binaryAndRegexp = regexp.MustCompile(`^unknown binary op: .+ & .+$`)
)

// SnippetError is a Starlark error reduced to what is useful next to a
// template position: the messages, a hint, and the line within the snippet.
type SnippetError struct {
	Kind string
	Msgs []string
	Line int // 1 based line within the snippet; 0 if unknown
}

var _ error = SnippetError{}

func NewSnippetError(err error) SnippetError {
	switch typedErr := err.(type) {
	case syntax.Error:
		return SnippetError{Kind: "syntax error", Msgs: []string{typedErr.Msg}, Line: int(typedErr.Pos.Line)}

	case resolve.ErrorList:
		result := SnippetError{Kind: "resolve error"}
		for _, resolveErr := range typedErr {
			if result.Line == 0 {
				result.Line = int(resolveErr.Pos.Line)
			}
			result.Msgs = append(result.Msgs, resolveErr.Msg)
		}
		return result

	case *starlark.EvalError:
		result := SnippetError{Kind: "evaluation error", Msgs: []string{typedErr.Msg}}
		if len(typedErr.CallStack) > 0 {
			result.Line = int(typedErr.CallStack[len(typedErr.CallStack)-1].Pos.Line)
		}
		return result

	default:
		return SnippetError{Kind: "error", Msgs: []string{err.Error()}}
	}
}

func (e SnippetError) Error() string {
	var msgs []string
	for _, msg := range e.Msgs {
		msgs = append(msgs, msg+hintMsg(msg))
	}

	result := fmt.Sprintf("%s: %s", e.Kind, strings.Join(msgs, "; "))
	if e.Line > 1 {
		result += fmt.Sprintf(" (snippet line %d)", e.Line)
	}
	return result
}

func hintMsg(msg string) string {
	hint := ""
	switch {
	case msg == "undefined: true":
		hint = "use 'True' instead of 'true' for boolean assignment"
	case msg == "undefined: false":
		hint = "use 'False' instead of 'false' for boolean assignment"
	case msg == "got newline, want ':'":
		hint = "missing colon at the end of 'if/for/def' statement?"
	case msg == "undefined: null", msg == "undefined: nil", msg == "undefined: none":
		hint = fmt.Sprintf("use 'None' instead of '%s' to indicate no value", strings.TrimPrefix(msg, undefinedMsgPrefix))
	case msg == "got '&', want primary expression":
		hint = "use 'and' instead of '&&' for logical-and"
	case msg == "got '|', want primary expression":
		hint = "use 'or' instead of '||' for logical-or"
	case binaryOrRegexp.MatchString(msg):
		hint = "use 'or' instead of '|' for logical-or"
	case binaryAndRegexp.MatchString(msg):
		hint = "use 'and' instead of '&' for logical-and"
	}

	if len(hint) > 0 {
		hint = fmt.Sprintf(" (hint: %s)", hint)
	}
	return hint
}

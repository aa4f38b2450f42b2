// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate_test

import (
	"bytes"
	"fmt"

	"github.com/inr-kit/twps/pkg/cmd/ui"
	"github.com/inr-kit/twps/pkg/eval"
	"github.com/inr-kit/twps/pkg/filepos"
)

// fakeInterpreter returns canned outcomes keyed by snippet code.
type fakeInterpreter struct {
	outcomes map[string]eval.Outcome
	calls    []string
	lines    []int
}

var _ eval.Interpreter = &fakeInterpreter{}

func (f *fakeInterpreter) Interpret(code string, pos *filepos.Position) eval.Outcome {
	f.calls = append(f.calls, code)
	f.lines = append(f.lines, pos.LineNum())
	if outcome, found := f.outcomes[code]; found {
		return outcome
	}
	return eval.Outcome{Kind: eval.OutcomeEvalFailed, Err: fmt.Errorf("no canned outcome for '%s'", code)}
}

func (f *fakeInterpreter) Bind(string, interface{}) error { return nil }

func newTestUI() (ui.UI, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return ui.NewCustomWriterTTY(false, stdout, stderr), stdout, stderr
}

// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filetests houses a test harness for evaluating templates and asserting
the expected output.
*/
package filetests

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inr-kit/twps/pkg/cmd/ui"
	"github.com/inr-kit/twps/pkg/template"
	"github.com/inr-kit/twps/pkg/texttemplate"
	"github.com/inr-kit/twps/pkg/twpslibrary"
	"github.com/inr-kit/twps/pkg/version"
)

// TemplateName is the associated name of the evaluated template, as seen in warnings.
const TemplateName = "tpl"

// Result is the outcome of evaluating a single template.
type Result struct {
	Output   string
	Warnings string
}

// EvaluateTemplate is the processing desired from a source template to the final result.
type EvaluateTemplate func(src string) (Result, *TestErr)

// FileTests contain a suite of test cases, each described in a separate file, verifying the behavior of templates.
//
// Test cases:
// - are found within the directory at "PathToTests"
// - conventionally have a .tpltest extension
// - top-half is the template; bottom-half is the expected output; divided by `+++` and a blank line.
//
// Types of template tests:
// - expected output starting with `ERR:` indicate that expected output is an error message
// - otherwise expected output is the literal output from template (without the final newline of the file),
// optionally followed by a `WARNINGS:` line and the expected warnings.
//
// For example:
//
//	# -r {}
//	x = {1+1  }|
//	+++
//
//	x =     2|
type FileTests struct {
	PathToTests string
	EvalFunc    EvaluateTemplate
	ShowNodes   bool
}

const warningsMarker = "\nWARNINGS:\n"

// Run runs each tests: enumerates each file within FileTests.PathToTests; splits and evaluates using FileTests.EvalFunc.
//
// If FileTests.ShowNodes is set, then the output includes parsed nodes of each template.
func (f FileTests) Run(t *testing.T) {
	var files []string
	version.Version = "0.0.0"

	err := filepath.Walk(f.PathToTests, func(walkedPath string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		files = append(files, walkedPath)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to enumerate filetests: %s", err)
	}

	if f.EvalFunc == nil {
		f.EvalFunc = f.DefaultEvalTemplate
	}

	for _, filePath := range files {
		t.Run(filePath, func(t *testing.T) {
			contents, err := os.ReadFile(filePath)
			if err != nil {
				t.Fatal(err)
			}

			pieces := strings.SplitN(string(contents), "\n+++\n\n", 2)

			if len(pieces) != 2 {
				t.Fatalf("expected file %s to include +++ separator", filePath)
			}
			expectedStr := pieces[1]

			result, testErr := f.EvalFunc(pieces[0])

			switch {
			case strings.HasPrefix(expectedStr, "ERR:"):
				if testErr == nil {
					err = fmt.Errorf("expected eval error, but did not receive it")
				} else {
					resultStr := TrimTrailingMultilineWhitespace(testErr.UserErr().Error())

					expectedStr = strings.TrimPrefix(expectedStr, "ERR:")
					expectedStr = strings.TrimPrefix(expectedStr, " ")
					expectedStr = strings.ReplaceAll(expectedStr, "__TWPS_VERSION__", version.Version)
					expectedStr = TrimTrailingMultilineWhitespace(expectedStr)
					err = f.expectEquals(resultStr, expectedStr)
				}
			default:
				if testErr != nil {
					err = testErr.TestErr()
					break
				}

				expectedStr = strings.TrimSuffix(expectedStr, "\n")
				expectedWarnings := ""

				if idx := strings.Index(expectedStr, warningsMarker); idx >= 0 {
					expectedWarnings = expectedStr[idx+len(warningsMarker):]
					expectedStr = expectedStr[:idx]
				}
				expectedStr = strings.ReplaceAll(expectedStr, "__TWPS_VERSION__", version.Version)

				err = f.expectEquals(result.Output, expectedStr)
				if err == nil {
					err = f.expectEquals(TrimTrailingMultilineWhitespace(result.Warnings),
						TrimTrailingMultilineWhitespace(expectedWarnings))
					if err != nil {
						err = fmt.Errorf("warnings %s", err)
					}
				}
			}

			if err != nil {
				t.Fatalf("%s", err)
			}
		})
	}
}

// TestErr captures an error result from a single test.
type TestErr struct {
	realErr error
	testErr error
}

// NewTestErr creates a new TestErr
func NewTestErr(realErr, testErr error) *TestErr {
	return &TestErr{realErr, testErr}
}

// UserErr yields the error returned to the user
func (e TestErr) UserErr() error { return e.realErr }

// TestErr yields the error wrapped with helpful test context
func (e TestErr) TestErr() error { return e.testErr }

func (f FileTests) expectEquals(resultStr, expectedStr string) error {
	if resultStr != expectedStr {
		return fmt.Errorf("not equal\n\n### result %d chars:\n>>>%s<<<\n###expected %d chars:\n>>>%s<<<", len(resultStr), resultStr, len(expectedStr), expectedStr)
	}
	return nil
}

// DefaultEvalTemplate evaluates the template "src" with a fresh interpreter
// that has the standard library predeclared.
func (f FileTests) DefaultEvalTemplate(src string) (Result, *TestErr) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	testUI := ui.NewCustomWriterTTY(false, stdout, stderr)

	root, err := texttemplate.NewParser(texttemplate.ParserOpts{}, testUI).Parse([]byte(src), TemplateName)
	if err != nil {
		return Result{}, NewTestErr(err, fmt.Errorf("parse error: %v", err))
	}

	if f.ShowNodes {
		fmt.Printf("### nodes:\n")
		for _, code := range root.CodeNodes() {
			fmt.Printf("%s: %q\n", code.Position.AsCompactString(), code.Content)
		}
	}

	interp := template.NewInterpreter(twpslibrary.NewAPI())
	fragments := texttemplate.NewEvaluator(interp, root.Header, testUI).Evaluate(root)

	return Result{Output: strings.Join(fragments, ""), Warnings: stderr.String()}, nil
}

// TrimTrailingMultilineWhitespace returns a string with trailing whitespace trimmed from every line as well
// as trimmed trailing empty lines
func TrimTrailingMultilineWhitespace(s string) string {
	var trimmedLines []string
	for _, line := range strings.Split(s, "\n") {
		trimmedLine := strings.TrimRight(line, "\t ")
		trimmedLines = append(trimmedLines, trimmedLine)
	}
	multiline := strings.Join(trimmedLines, "\n")
	return strings.TrimRight(multiline, "\n")
}

// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"fmt"
	"strings"
	"time"

	"github.com/inr-kit/twps/pkg/cmd/ui"
	"github.com/inr-kit/twps/pkg/eval"
	"github.com/inr-kit/twps/pkg/files"
	"github.com/inr-kit/twps/pkg/texttemplate"
	"github.com/inr-kit/twps/pkg/variants"
)

const renderFuncName = "render"

type RendererOpts struct {
	OutputDir string
	Diff      bool

	// Now is used to name outputs written next to hand-edited ones
	Now func() time.Time
}

// RenderOpts configure a single template render.
type RenderOpts struct {
	Preamble string
	Params   variants.ParameterSet
}

type Renderer struct {
	interp eval.Interpreter
	ui     ui.UI
	opts   RendererOpts
}

// NewRenderer binds the render builtin into the scope of interp.
func NewRenderer(interp eval.Interpreter, ui ui.UI, opts RendererOpts) (*Renderer, error) {
	r := &Renderer{interp, ui, opts}

	err := interp.Bind(renderFuncName, eval.Func(r.renderFunc))
	if err != nil {
		return nil, fmt.Errorf("Binding %s(): %s", renderFuncName, err)
	}

	return r, nil
}

// RenderFile renders the template at path once per variant and writes each
// result to its own file. It returns paths of written files.
func (r *Renderer) RenderFile(path string, opts RenderOpts) ([]string, error) {
	tpl, err := files.NewTemplateFile(path)
	if err != nil {
		return nil, err
	}

	r.ui.Printf("Processing template '%s'\n", path)

	var writtenPaths []string

	err = r.render(tpl, opts, func(variant variants.Variant, result string) error {
		outputFile := files.NewOutputFile(tpl.OutputPath(variant.Suffix(), r.opts.OutputDir), []byte(result))

		writtenPath, err := outputFile.Write(tpl, files.WriteOpts{Diff: r.opts.Diff, Now: r.opts.Now}, r.ui)
		if err != nil {
			return err
		}

		r.ui.Printf("Result is written to '%s'\n", writtenPath)
		writtenPaths = append(writtenPaths, writtenPath)
		return nil
	})

	return writtenPaths, err
}

// RenderNested renders the template at path and returns the joined result of
// all variants without trailing newlines.
func (r *Renderer) RenderNested(path string, opts RenderOpts) (string, error) {
	tpl, err := files.NewTemplateFile(path)
	if err != nil {
		return "", err
	}

	var results []string

	err = r.render(tpl, opts, func(_ variants.Variant, result string) error {
		results = append(results, strings.TrimSuffix(result, "\n"))
		return nil
	})
	if err != nil {
		return "", err
	}

	return strings.TrimRight(strings.Join(results, ""), "\r\n"), nil
}

func (r *Renderer) render(tpl *files.TemplateFile, opts RenderOpts,
	resultFunc func(variants.Variant, string) error) error {

	parser := texttemplate.NewParser(texttemplate.ParserOpts{Preamble: opts.Preamble}, r.ui)

	root, err := parser.Parse(tpl.Bytes(), tpl.Path())
	if err != nil {
		return err
	}

	evaluator := texttemplate.NewEvaluator(r.interp, root.Header, r.ui)
	iter := variants.Expand(opts.Params)

	for {
		variant, ok := iter.Next()
		if !ok {
			return nil
		}

		for _, binding := range variant.Bindings {
			r.ui.Debugf("Binding %s = %v\n", binding.Name, binding.Value)

			err := r.interp.Bind(binding.Name, binding.Value)
			if err != nil {
				return fmt.Errorf("Binding parameter '%s': %s", binding.Name, err)
			}
		}

		err := resultFunc(variant, strings.Join(evaluator.Evaluate(root), ""))
		if err != nil {
			return err
		}
	}
}

// renderFunc implements render(path, snippet="", params=[]) for snippets
func (r *Renderer) renderFunc(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected exactly one argument")
	}

	path, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("expected argument to be a string, but was %T", args[0])
	}

	var opts RenderOpts

	for name, val := range kwargs {
		switch name {
		case "snippet":
			snippet, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("expected keyword argument 'snippet' to be a string, but was %T", val)
			}
			opts.Preamble = snippet
		case "params":
			params, err := paramsFromValue(val)
			if err != nil {
				return nil, err
			}
			opts.Params = params
		default:
			return nil, fmt.Errorf("unexpected keyword argument '%s'", name)
		}
	}

	return r.RenderNested(path, opts)
}

// paramsFromValue converts a list of (name, values[, start]) tuples.
// values is either a list or a string of blank separated values that are
// coerced the same way as command line parameters.
func paramsFromValue(val interface{}) (variants.ParameterSet, error) {
	items, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected keyword argument 'params' to be a list, but was %T", val)
	}

	var params variants.ParameterSet

	for i, item := range items {
		fields, ok := item.([]interface{})
		if !ok || len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("expected params[%d] to be a (name, values[, start]) tuple, but was %v", i, item)
		}

		name, ok := fields[0].(string)
		if !ok {
			return nil, fmt.Errorf("expected params[%d] name to be a string, but was %T", i, fields[0])
		}

		var values []interface{}

		switch typedVals := fields[1].(type) {
		case []interface{}:
			values = typedVals
		case string:
			values = variants.CoerceValues(strings.Fields(typedVals))
		default:
			return nil, fmt.Errorf("expected values of parameter '%s' to be a list or a string, but was %T", name, fields[1])
		}

		var start int64
		if len(fields) == 3 {
			start, ok = fields[2].(int64)
			if !ok {
				return nil, fmt.Errorf("expected start index of parameter '%s' to be an int, but was %T", name, fields[2])
			}
		}

		param, err := variants.NewParam(name, values, int(start))
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}

	return params, nil
}

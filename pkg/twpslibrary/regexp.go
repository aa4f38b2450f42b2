// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package twpslibrary

import (
	"fmt"
	"regexp"

	"github.com/inr-kit/twps/pkg/template/core"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"
)

var (
	RegexpAPI = starlark.StringDict{
		"regexp": &starlarkstruct.Module{
			Name: "regexp",
			Members: starlark.StringDict{
				"match":    starlark.NewBuiltin("regexp.match", core.ErrWrapper(regexpModule{}.Match)),
				"find_all": starlark.NewBuiltin("regexp.find_all", core.ErrWrapper(regexpModule{}.FindAll)),
				"replace":  starlark.NewBuiltin("regexp.replace", core.ErrWrapper(regexpModule{}.Replace)),
			},
		},
	}
)

type regexpModule struct{}

func (b regexpModule) Match(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	re, strs, err := b.compileWithArgs(args, 2)
	if err != nil {
		return starlark.None, err
	}
	return starlark.Bool(re.MatchString(strs[0])), nil
}

// FindAll returns all non-overlapping matches as a list of strings.
func (b regexpModule) FindAll(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	re, strs, err := b.compileWithArgs(args, 2)
	if err != nil {
		return starlark.None, err
	}

	var matches []starlark.Value
	for _, match := range re.FindAllString(strs[0], -1) {
		matches = append(matches, starlark.String(match))
	}
	return starlark.NewList(matches), nil
}

// Replace substitutes matches with a string (which may refer to groups as
// $1) or with the result of calling a function with each match.
func (b regexpModule) Replace(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 3 {
		return starlark.None, fmt.Errorf("expected exactly 3 arguments")
	}

	re, strs, err := b.compileWithArgs(args[:2], 2)
	if err != nil {
		return starlark.None, err
	}

	if callable, ok := args.Index(2).(starlark.Callable); ok {
		return b.replaceFunc(thread, re, strs[0], callable)
	}

	repl, err := core.NewStarlarkValue(args.Index(2)).AsString()
	if err != nil {
		return starlark.None, err
	}
	return starlark.String(re.ReplaceAllString(strs[0], repl)), nil
}

func (b regexpModule) replaceFunc(thread *starlark.Thread, re *regexp.Regexp, source string, repl starlark.Callable) (starlark.Value, error) {
	var firstErr error

	result := re.ReplaceAllStringFunc(source, func(match string) string {
		if firstErr != nil {
			return ""
		}

		val, err := starlark.Call(thread, repl, starlark.Tuple{starlark.String(match)}, nil)
		if err != nil {
			firstErr = err
			return ""
		}

		str, err := core.NewStarlarkValue(val).AsString()
		if err != nil {
			firstErr = err
			return ""
		}
		return str
	})

	if firstErr != nil {
		return starlark.None, firstErr
	}
	return starlark.String(result), nil
}

// compileWithArgs compiles the first arg as a pattern; remaining args must
// be strings.
func (b regexpModule) compileWithArgs(args starlark.Tuple, expected int) (*regexp.Regexp, []string, error) {
	if args.Len() != expected {
		return nil, nil, fmt.Errorf("expected exactly %d arguments", expected)
	}

	var strs []string
	for _, arg := range args {
		str, err := core.NewStarlarkValue(arg).AsString()
		if err != nil {
			return nil, nil, err
		}
		strs = append(strs, str)
	}

	re, err := regexp.Compile(strs[0])
	if err != nil {
		return nil, nil, err
	}
	return re, strs[1:], nil
}

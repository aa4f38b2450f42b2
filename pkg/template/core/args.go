// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/k14s/starlark-go/starlark"
)

func BoolArg(kwargs []starlark.Tuple, keyToFind string) (bool, error) {
	for _, arg := range kwargs {
		key, err := NewStarlarkValue(arg.Index(0)).AsString()
		if err != nil {
			return false, err
		}
		if key == keyToFind {
			return NewStarlarkValue(arg.Index(1)).AsBool()
		}
	}
	return false, nil
}

func Int64Arg(kwargs []starlark.Tuple, keyToFind string) (int64, error) {
	for _, arg := range kwargs {
		key, err := NewStarlarkValue(arg.Index(0)).AsString()
		if err != nil {
			return 0, err
		}
		if key == keyToFind {
			return NewStarlarkValue(arg.Index(1)).AsInt64()
		}
	}
	return 0, nil
}

// CheckArgNames rejects keyword arguments not present in validKwargs.
func CheckArgNames(kwargs []starlark.Tuple, validKwargs map[string]struct{}) error {
	for _, arg := range kwargs {
		name, err := NewStarlarkValue(arg.Index(0)).AsString()
		if err != nil {
			return err
		}
		if _, ok := validKwargs[name]; !ok {
			var valid []string
			for k := range validKwargs {
				valid = append(valid, "'"+k+"'")
			}
			sort.Strings(valid)
			return fmt.Errorf("invalid argument name: %s (expected one of: %s)", name, strings.Join(valid, ", "))
		}
	}
	return nil
}

// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package twpslibrary holds the modules predeclared in every snippet scope:
serializations (json, yaml, toml), struct building, math, regular expressions
and version checks.
*/
package twpslibrary

import (
	"github.com/k14s/starlark-go/starlark"
)

// NewAPI returns a fresh set of predeclared library modules.
func NewAPI() starlark.StringDict {
	result := starlark.StringDict{}
	for _, api := range []starlark.StringDict{JSONAPI, YAMLAPI, TOMLAPI, StructAPI, VersionAPI, MathAPI, RegexpAPI} {
		for name, module := range api {
			result[name] = module
		}
	}
	return result
}

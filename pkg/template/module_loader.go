// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/k14s/starlark-go/starlark"
)

// ModuleLoader implements load("helpers.star", "name") for snippets.
// Paths are relative to the working directory. Each module is executed
// once and sees only the predeclared library, never the template scope.
type ModuleLoader struct {
	predeclared starlark.StringDict
	cache       map[string]*loadedModule
}

type loadedModule struct {
	globals starlark.StringDict
	err     error
}

func NewModuleLoader(predeclared starlark.StringDict) *ModuleLoader {
	return &ModuleLoader{predeclared: predeclared, cache: map[string]*loadedModule{}}
}

func (l *ModuleLoader) Load(thread *starlark.Thread, module string) (starlark.StringDict, error) {
	path, err := filepath.Abs(module)
	if err != nil {
		return nil, fmt.Errorf("Resolving module path '%s': %s", module, err)
	}

	mod, found := l.cache[path]
	if found {
		if mod == nil {
			return nil, fmt.Errorf("Cycle in load graph involving module '%s'", module)
		}
		return mod.globals, mod.err
	}

	// mark as in progress
	l.cache[path] = nil

	src, err := os.ReadFile(path)
	if err != nil {
		delete(l.cache, path)
		return nil, fmt.Errorf("Reading module '%s': %s", module, err)
	}

	moduleThread := &starlark.Thread{Name: "load " + module, Print: thread.Print, Load: l.Load}
	globals, err := starlark.ExecFile(moduleThread, module, src, l.predeclared)
	if err != nil {
		err = fmt.Errorf("Loading module '%s': %s", module, NewSnippetError(err))
	}

	l.cache[path] = &loadedModule{globals, err}
	return globals, err
}

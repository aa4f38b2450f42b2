// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"runtime/debug"

	"github.com/k14s/starlark-go/starlark"
)

const panicStackLocal = "twps.panicStack"

type StarlarkFunc func(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

// ErrWrapper prefixes errors of a builtin with its name. A panic inside the
// builtin is returned as an error and its Go stack is kept on the thread
// (see PanicStack) instead of in the message shown next to the snippet.
func ErrWrapper(wrappedFunc StarlarkFunc) StarlarkFunc {
	return func(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (val starlark.Value, resultErr error) {
		defer func() {
			if rec := recover(); rec != nil {
				if thread != nil {
					thread.SetLocal(panicStackLocal, string(debug.Stack()))
				}
				resultErr = fmt.Errorf("%s: (p) %v", f.Name(), rec)
			}
		}()

		val, err := wrappedFunc(thread, f, args, kwargs)
		if err != nil {
			return val, fmt.Errorf("%s: %s", f.Name(), err)
		}

		return val, nil
	}
}

// PanicStack returns the Go stack of the last builtin that panicked on thread.
func PanicStack(thread *starlark.Thread) string {
	if thread == nil {
		return ""
	}
	stack, _ := thread.Local(panicStackLocal).(string)
	return stack
}

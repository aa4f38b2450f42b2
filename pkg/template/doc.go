// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package template runs snippet code with Starlark.

An Interpreter owns one scope (a starlark.StringDict) for the lifetime of a
twps invocation. Every snippet of every template and every variant reads and
writes that same scope, so names defined by one snippet are visible to later
snippets, nested renders and later variants.

Snippet code is first evaluated as an expression. When it does not parse as
one, it is dedented and executed as a chunk of statements, the same way the
Starlark REPL executes its input: names already present in the scope are
globals that the chunk may read and reassign.
*/
package template

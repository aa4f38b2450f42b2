// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package workspace renders templates: once per variant of the parameters, all
against the same interpreter scope.

A top-level render writes one output file per variant. Snippets may call
render("other.tpl") for a nested render; its result is returned as a string
and it shares (reads and modifies) the scope of the caller. Parameters for
a nested render are given as render("other.tpl", params=[("r", [1, 2])]).
*/
package workspace

// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package pkg is the collection of packages that make up the implementation of twps.

Packages are layered so that each depends on others only to the degree
required. In the inventory below, each package is named alongside its
coupling with the other packages in the codebase.

	(# of dependents) => <package name> => (# of dependencies)

From top-down, twps code is layered in this way:

# Entry Point

twps is built into a command-line tool:

	./cmd/twps

# Commands

The root command renders templates; "version" is its only subcommand.
Command defaults may come from a config file.

	(1) => pkg/cmd => (3)
	(1) => pkg/cmd/render => (6)
	(1) => pkg/config => (1)

# The Workspace

Rendering reads a template, expands parameters into variants and, for each
variant, binds parameter values, evaluates the template and writes the
result next to the template (or into an output directory).

	(1) => pkg/workspace => (5)
	(1) => pkg/files => (1)
	(3) => pkg/variants => (0)

# Templating

A template is text with snippets between single-character delimiters.
pkg/texttemplate parses the header and splits text from snippets, then
substitutes snippets with their values via an eval.Interpreter.
pkg/template is the Starlark implementation of that interpreter; all
snippets of an invocation share one scope.

	(1) => pkg/texttemplate => (3)
	(3) => pkg/eval => (1)
	(1) => pkg/template => (3)
	(2) => pkg/template/core => (1)

# Standard Library

twps predeclares a collection of modules in the snippet scope: json, yaml,
toml, struct, math, regexp and version.

	(1) => pkg/twpslibrary => (3)

# Utilities

Domain-agnostic utilities that provide either an application-level
capability or a specialized piece of logic.

	(5) => pkg/cmd/ui => (0)
	(3) => pkg/filepos => (0)
	(2) => pkg/orderedmap => (0)
	(2) => pkg/version => (0)

# Dependencies

Each package's dependencies on other packages within this module are as follows
(if a package is not listed, it has no dependencies on other packages within
this module):

	pkg/cmd:
	- pkg/cmd/render
	- pkg/cmd/ui
	- pkg/version
	pkg/cmd/render:
	- pkg/cmd/ui
	- pkg/config
	- pkg/template
	- pkg/twpslibrary
	- pkg/variants
	- pkg/workspace
	pkg/config:
	- pkg/variants
	pkg/workspace:
	- pkg/cmd/ui
	- pkg/eval
	- pkg/files
	- pkg/texttemplate
	- pkg/variants
	pkg/files:
	- pkg/cmd/ui
	pkg/texttemplate:
	- pkg/cmd/ui
	- pkg/eval
	- pkg/filepos
	pkg/eval:
	- pkg/filepos
	pkg/template:
	- pkg/eval
	- pkg/filepos
	- pkg/template/core
	pkg/template/core:
	- pkg/orderedmap
	pkg/twpslibrary:
	- pkg/orderedmap
	- pkg/template/core
	- pkg/version
*/
package pkg

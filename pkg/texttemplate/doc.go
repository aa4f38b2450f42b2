// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package texttemplate implements templates made of plain text with embedded
code snippets.

The first line of a template is its header: an optional comment string, an
optional default directive (e.g. "-r") and exactly two delimiter characters.

	#-c{}
	radius = {r}
	-l{r * 2}

Every "{...}" region in the rest of the file is a snippet. A snippet is first
evaluated as an expression and replaced by its value; if it is not an
expression, it is executed as a statement sequence and kept in the output
with continuation lines prefixed by the comment string. A directive written
right before a snippet controls how its value is placed:

	-r  right align within the width of the snippet text
	-l  left align
	-c  center
	-d  drop the snippet text (and its value) from the output
	-s  do not evaluate; keep the snippet text as is
	-D  substitute the value without padding
*/
package texttemplate

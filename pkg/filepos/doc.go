// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filepos provides the concept of Position: a source name (usually a
template file) and line number within that source.

File positions are crucial when reporting snippet warnings to the user: every
warning names the template and the line at which the offending snippet starts.

Not all Positions point within a file (e.g. the snippet given on the command
line). The zero-value of Position (can be created using NewUnknownPosition())
represents this case.
*/
package filepos

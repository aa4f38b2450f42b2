// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package ui provides a thin abstraction over user input and output (typically,
a tty device).

Generated text never goes through UI: it is written to output files. UI
carries progress messages (stdout) and diagnostics (stderr) only.
*/
package ui

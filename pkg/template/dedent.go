// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"strings"
)

// Dedent removes the leading whitespace common to all non-blank lines.
// Lines made only of blanks are emptied and do not count.
func Dedent(text string) string {
	lines := strings.Split(text, "\n")

	var margin string
	var marginFound bool

	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if len(strings.TrimRight(trimmed, "\r")) == 0 {
			lines[i] = ""
			continue
		}

		indent := line[:len(line)-len(trimmed)]
		if !marginFound {
			margin = indent
			marginFound = true
			continue
		}
		margin = commonPrefix(margin, indent)
	}

	if len(margin) > 0 {
		for i, line := range lines {
			lines[i] = strings.TrimPrefix(line, margin)
		}
	}

	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

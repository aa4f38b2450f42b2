// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"strings"
	"unicode/utf8"
)

// Directive controls how the value of the snippet that follows it is placed.
type Directive string

const (
	DirectiveRight   Directive = "-r"
	DirectiveLeft    Directive = "-l"
	DirectiveCenter  Directive = "-c"
	DirectiveDelete  Directive = "-d"
	DirectiveSkip    Directive = "-s"
	DirectiveDefault Directive = "-D"
)

var directives = []Directive{
	DirectiveRight, DirectiveLeft, DirectiveCenter,
	DirectiveDelete, DirectiveSkip, DirectiveDefault,
}

const directiveLen = 2

func NewDirective(token string) (Directive, bool) {
	for _, directive := range directives {
		if string(directive) == token {
			return directive, true
		}
	}
	return "", false
}

// ResolveDirective looks for a directive at the end of text (the text right
// before a snippet). It returns the text to copy into the output and the
// directive for that snippet, or def if there is none.
func ResolveDirective(text string, def Directive) (string, Directive) {
	if len(text) < directiveLen {
		return text, def
	}

	directive, found := NewDirective(text[len(text)-directiveLen:])
	if !found {
		return text, def
	}

	switch directive {
	case DirectiveDelete:
		return text[:len(text)-directiveLen], directive
	case DirectiveSkip:
		// kept so that the skipped snippet reads the same as in the template
		return text, directive
	default:
		return text[:len(text)-directiveLen] + strings.Repeat(" ", directiveLen), directive
	}
}

// Pad aligns val within width characters. Only -r, -l and -c pad;
// values that are not shorter than width are returned as is.
func (d Directive) Pad(val string, width int) string {
	diff := width - utf8.RuneCountInString(val)
	if diff <= 0 {
		return val
	}

	switch d {
	case DirectiveLeft:
		return val + strings.Repeat(" ", diff)
	case DirectiveRight:
		return strings.Repeat(" ", diff) + val
	case DirectiveCenter:
		left := diff / 2
		return strings.Repeat(" ", left) + val + strings.Repeat(" ", diff-left)
	default:
		return val
	}
}

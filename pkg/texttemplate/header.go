// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/inr-kit/twps/pkg/cmd/ui"
	"github.com/inr-kit/twps/pkg/filepos"
)

// Header describes the syntax of a template. It is read from the first line.
type Header struct {
	Comment string
	Default Directive
	Start   rune
	End     rune
}

func ParseHeader(line string, pos *filepos.Position, ui ui.UI) (Header, error) {
	line = strings.TrimRightFunc(line, unicode.IsSpace)

	chars := []rune(line)
	if len(chars) < 2 {
		return Header{}, fmt.Errorf("Expected first line of template (%s) to specify optional comment string, "+
			"optional directive and start and end delimiters (at least 2 characters), but was '%s'",
			pos.AsCompactString(), line)
	}

	header := Header{
		Default: DirectiveDefault,
		Start:   chars[len(chars)-2],
		End:     chars[len(chars)-1],
	}

	rest := string(chars[:len(chars)-2])
	for i := 0; i+1 < len(rest); i++ {
		if directive, found := NewDirective(rest[i : i+2]); found {
			header.Default = directive
			rest = strings.ReplaceAll(rest, string(directive), "")
			break
		}
	}
	header.Comment = rest

	for _, delim := range []rune{header.Start, header.End} {
		if unicode.IsLetter(delim) || unicode.IsDigit(delim) || unicode.IsSpace(delim) {
			ui.Warnf("Warning: %s: Delimiter is alphanumeric or blank "+
				"(comment string: '%s', start delimiter: '%c', end delimiter: '%c')\n",
				pos.AsCompactString(), header.Comment, header.Start, header.End)
			break
		}
	}

	if len(header.Comment) == 0 {
		ui.Warnf("Warning: %s: Comment string is empty, multi-line snippets will not be commented out\n",
			pos.AsCompactString())
	}

	return header, nil
}

// Delimit wraps code in the template's delimiters.
func (h Header) Delimit(code string) string {
	return string(h.Start) + code + string(h.End)
}

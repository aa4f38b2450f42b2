// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"strings"

	"github.com/inr-kit/twps/pkg/cmd/ui"
	"github.com/inr-kit/twps/pkg/filepos"
)

// PreambleFile names the position of a preamble snippet.
const PreambleFile = "<snippet>"

type ParserOpts struct {
	// Preamble is a snippet run before all snippets of the template.
	// It is always deleted from the output.
	Preamble string
}

type Parser struct {
	opts           ParserOpts
	ui             ui.UI
	associatedName string
}

func NewParser(opts ParserOpts, ui ui.UI) *Parser {
	return &Parser{opts: opts, ui: ui}
}

// Parse reads the header from the first line and splits the rest of the
// template into alternating text and code nodes (first and last are text).
func (p *Parser) Parse(dataBs []byte, associatedName string) (*NodeRoot, error) {
	p.associatedName = associatedName

	data := string(dataBs)
	headerLine, body := data, ""
	if idx := strings.Index(data, "\n"); idx >= 0 {
		headerLine, body = data[:idx], data[idx+1:]
	}

	header, err := ParseHeader(headerLine, p.newPosition(1), p.ui)
	if err != nil {
		return nil, err
	}

	root := &NodeRoot{Header: header}

	if len(p.opts.Preamble) > 0 {
		preamblePos := filepos.NewPositionInFile(1, PreambleFile)
		root.Items = append(root.Items,
			&NodeText{Position: preamblePos, Content: string(DirectiveDelete)},
			&NodeCode{Position: preamblePos, Content: p.opts.Preamble, Delimited: header.Delimit(p.opts.Preamble)},
		)
	}

	root.Items = append(root.Items, p.split(body, header)...)

	return root, nil
}

func (p *Parser) split(data string, header Header) []interface{} {
	var nodes []interface{}

	startLen, endLen := len(string(header.Start)), len(string(header.End))
	currPos := p.newPosition(2)
	textStart := 0

	for {
		startIdx := strings.IndexRune(data[textStart:], header.Start)
		if startIdx < 0 {
			break
		}
		startIdx += textStart

		endIdx := strings.IndexRune(data[startIdx+startLen:], header.End)
		if endIdx < 0 {
			break
		}
		endIdx += startIdx + startLen + endLen

		text := &NodeText{Position: currPos, Content: data[textStart:startIdx]}
		currPos = currPos.Advance(text.Content)

		code := &NodeCode{
			Position:  currPos,
			Content:   data[startIdx+startLen : endIdx-endLen],
			Delimited: data[startIdx:endIdx],
		}
		currPos = currPos.Advance(code.Delimited)

		nodes = append(nodes, text, code)
		textStart = endIdx
	}

	lastText := &NodeText{Position: currPos, Content: data[textStart:]}
	nodes = append(nodes, lastText)

	if strings.ContainsRune(lastText.Content, header.Start) || strings.ContainsRune(lastText.Content, header.End) {
		p.ui.Warnf("Warning: %s: Template contains unpaired delimiters\n", lastText.Position.AsCompactString())
	}

	return nodes
}

func (p *Parser) newPosition(line int) *filepos.Position {
	return filepos.NewPositionInFile(line, p.associatedName)
}

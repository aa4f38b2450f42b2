// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"fmt"
	"strings"

	"github.com/inr-kit/twps/pkg/filepos"
)

type NodeRoot struct {
	Header Header
	Items  []interface{}
}

// NodeText is literal text between snippets.
type NodeText struct {
	Position *filepos.Position
	Content  string
}

// NodeCode is a snippet. Content excludes the delimiters, Delimited includes them.
type NodeCode struct {
	Position  *filepos.Position
	Content   string
	Delimited string
}

// AsString returns the template body the nodes were parsed from.
func (n *NodeRoot) AsString() string {
	var result strings.Builder
	for _, item := range n.Items {
		switch typedItem := item.(type) {
		case *NodeText:
			result.WriteString(typedItem.Content)
		case *NodeCode:
			result.WriteString(typedItem.Delimited)
		default:
			panic(fmt.Sprintf("unknown node type %T", typedItem))
		}
	}
	return result.String()
}

func (n *NodeRoot) CodeNodes() []*NodeCode {
	var result []*NodeCode
	for _, item := range n.Items {
		if typedItem, ok := item.(*NodeCode); ok {
			result = append(result, typedItem)
		}
	}
	return result
}

// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package twpslibrary

import (
	"fmt"

	"github.com/inr-kit/twps/pkg/orderedmap"
	"github.com/inr-kit/twps/pkg/template/core"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"
	"gopkg.in/yaml.v3"
)

var (
	YAMLAPI = starlark.StringDict{
		"yaml": &starlarkstruct.Module{
			Name: "yaml",
			Members: starlark.StringDict{
				"encode": starlark.NewBuiltin("yaml.encode", core.ErrWrapper(yamlModule{}.Encode)),
				"decode": starlark.NewBuiltin("yaml.decode", core.ErrWrapper(yamlModule{}.Decode)),
			},
		},
	}
)

type yamlModule struct{}

// Encode renders the provided input as a YAML document keeping dict key order
func (b yamlModule) Encode(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}

	val, err := core.NewStarlarkValue(args.Index(0)).AsGoValue()
	if err != nil {
		return starlark.None, err
	}

	node, err := b.asNode(val)
	if err != nil {
		return starlark.None, err
	}

	valBs, err := yaml.Marshal(node)
	if err != nil {
		return starlark.None, err
	}

	return starlark.String(string(valBs)), nil
}

// Decode parses a single YAML document into dicts, lists, and scalars
func (b yamlModule) Decode(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}

	valEncoded, err := core.NewStarlarkValue(args.Index(0)).AsString()
	if err != nil {
		return starlark.None, err
	}

	var node yaml.Node

	err = yaml.Unmarshal([]byte(valEncoded), &node)
	if err != nil {
		return starlark.None, err
	}

	valDecoded, err := b.fromNode(&node)
	if err != nil {
		return starlark.None, err
	}

	return core.NewGoValue(valDecoded).AsStarlarkValue()
}

func (b yamlModule) asNode(val interface{}) (*yaml.Node, error) {
	switch typedVal := val.(type) {
	case *orderedmap.Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		err := typedVal.IterateErr(func(k, v interface{}) error {
			keyNode, err := b.asNode(k)
			if err != nil {
				return err
			}
			valNode, err := b.asNode(v)
			if err != nil {
				return err
			}
			node.Content = append(node.Content, keyNode, valNode)
			return nil
		})
		return node, err

	case []interface{}:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typedVal {
			itemNode, err := b.asNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil

	default:
		node := &yaml.Node{}
		err := node.Encode(typedVal)
		return node, err
	}
}

func (b yamlModule) fromNode(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case 0:
		// empty input
		return nil, nil

	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return b.fromNode(node.Content[0])

	case yaml.AliasNode:
		return b.fromNode(node.Alias)

	case yaml.MappingNode:
		result := orderedmap.NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := b.fromNode(node.Content[i])
			if err != nil {
				return nil, err
			}
			val, err := b.fromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			result.Set(key, val)
		}
		return result, nil

	case yaml.SequenceNode:
		result := []interface{}{}
		for _, item := range node.Content {
			val, err := b.fromNode(item)
			if err != nil {
				return nil, err
			}
			result = append(result, val)
		}
		return result, nil

	case yaml.ScalarNode:
		var val interface{}
		err := node.Decode(&val)
		if err != nil {
			return nil, err
		}
		switch val.(type) {
		case nil, bool, int, int64, uint64, float64, string:
			return val, nil
		default:
			// e.g. timestamps
			return node.Value, nil
		}

	default:
		return nil, fmt.Errorf("unknown yaml node kind %d", node.Kind)
	}
}

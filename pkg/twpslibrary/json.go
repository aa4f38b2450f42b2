// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package twpslibrary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inr-kit/twps/pkg/orderedmap"
	"github.com/inr-kit/twps/pkg/template/core"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"
)

var (
	// JSONAPI contains the definition of the json module
	JSONAPI = starlark.StringDict{
		"json": &starlarkstruct.Module{
			Name: "json",
			Members: starlark.StringDict{
				"encode": starlark.NewBuiltin("json.encode", core.ErrWrapper(jsonModule{}.Encode)),
				"decode": starlark.NewBuiltin("json.decode", core.ErrWrapper(jsonModule{}.Decode)),
			},
		},
	}
)

type jsonModule struct{}

// Encode is a core.StarlarkFunc that renders the provided input into a JSON formatted string
func (b jsonModule) Encode(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}
	allowedKWArgs := map[string]struct{}{
		"indent": {},
	}
	if err := core.CheckArgNames(kwargs, allowedKWArgs); err != nil {
		return starlark.None, err
	}

	val, err := core.NewStarlarkValue(args.Index(0)).AsGoValue()
	if err != nil {
		return starlark.None, err
	}
	val, err = orderedmap.Conversion{Object: val}.AsUnorderedStringMaps()
	if err != nil {
		return starlark.None, err
	}

	indent, err := core.Int64Arg(kwargs, "indent")
	if err != nil {
		return starlark.None, err
	}

	if indent < 0 || indent > 8 {
		// mitigate https://cwe.mitre.org/data/definitions/409.html
		return starlark.None, fmt.Errorf("indent value must be between 0 and 8")
	}

	var valBs []byte
	if indent > 0 {
		valBs, err = json.MarshalIndent(val, "", strings.Repeat(" ", int(indent)))
	} else {
		valBs, err = json.Marshal(val)
	}
	if err != nil {
		return starlark.None, err
	}

	return starlark.String(string(valBs)), nil
}

// Decode is a core.StarlarkFunc that parses the provided input from JSON format into dicts, lists, and scalars
func (b jsonModule) Decode(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}

	valEncoded, err := core.NewStarlarkValue(args.Index(0)).AsString()
	if err != nil {
		return starlark.None, err
	}

	var valDecoded interface{}

	decoder := json.NewDecoder(strings.NewReader(valEncoded))
	decoder.UseNumber()

	err = decoder.Decode(&valDecoded)
	if err != nil {
		return starlark.None, err
	}

	valDecoded, err = b.convertNumbers(valDecoded)
	if err != nil {
		return starlark.None, err
	}

	return core.NewGoValue(orderedmap.Conversion{Object: valDecoded}.FromUnorderedMaps()).AsStarlarkValue()
}

// convertNumbers keeps integers as integers (1 stays 1, not 1.0)
func (b jsonModule) convertNumbers(val interface{}) (interface{}, error) {
	switch typedVal := val.(type) {
	case json.Number:
		if i, err := typedVal.Int64(); err == nil {
			return i, nil
		}
		return typedVal.Float64()

	case map[string]interface{}:
		for k, v := range typedVal {
			converted, err := b.convertNumbers(v)
			if err != nil {
				return nil, err
			}
			typedVal[k] = converted
		}
		return typedVal, nil

	case []interface{}:
		for i, v := range typedVal {
			converted, err := b.convertNumbers(v)
			if err != nil {
				return nil, err
			}
			typedVal[i] = converted
		}
		return typedVal, nil

	default:
		return typedVal, nil
	}
}

// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"

	"github.com/inr-kit/twps/pkg/orderedmap"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"
)

type GoValueToStarlarkValueConversion interface {
	AsStarlarkValue() starlark.Value
}

// GoValue converts values coming from the host (parameters, decoded
// documents) into Starlark values.
type GoValue struct {
	val  interface{}
	opts GoValueOpts
}

type GoValueOpts struct {
	// MapIsStruct converts maps into structs instead of dicts
	MapIsStruct bool
}

func NewGoValue(val interface{}) GoValue {
	return GoValue{val: val}
}

func NewGoValueWithOpts(val interface{}, opts GoValueOpts) GoValue {
	return GoValue{val: val, opts: opts}
}

func (e GoValue) AsStarlarkValue() (starlark.Value, error) {
	return e.asStarlarkValue(e.val)
}

func (e GoValue) asStarlarkValue(val interface{}) (starlark.Value, error) {
	if obj, ok := val.(GoValueToStarlarkValueConversion); ok {
		return obj.AsStarlarkValue(), nil
	}

	switch typedVal := val.(type) {
	case nil:
		return starlark.None, nil

	case starlark.Value:
		return typedVal, nil

	case bool:
		return starlark.Bool(typedVal), nil

	case string:
		return starlark.String(typedVal), nil

	case int:
		return starlark.MakeInt(typedVal), nil

	case int64:
		return starlark.MakeInt64(typedVal), nil

	case uint64:
		return starlark.MakeUint64(typedVal), nil

	case float64:
		return starlark.Float(typedVal), nil

	case *orderedmap.Map:
		return e.orderedMapAsStarlarkValue(typedVal)

	case map[string]interface{}, map[interface{}]interface{}:
		return e.asStarlarkValue(orderedmap.Conversion{Object: typedVal}.FromUnorderedMaps())

	case []interface{}:
		return e.listAsStarlarkValue(typedVal)

	case fmt.Stringer:
		// e.g. timestamps decoded from toml or yaml
		return starlark.String(typedVal.String()), nil

	default:
		return nil, fmt.Errorf("unknown type %T for conversion to starlark value", val)
	}
}

func (e GoValue) orderedMapAsStarlarkValue(val *orderedmap.Map) (starlark.Value, error) {
	if e.opts.MapIsStruct {
		return e.orderedMapAsStruct(val)
	}

	result := starlark.NewDict(val.Len())
	err := val.IterateErr(func(k, v interface{}) error {
		key, err := e.asStarlarkValue(k)
		if err != nil {
			return err
		}
		value, err := e.asStarlarkValue(v)
		if err != nil {
			return err
		}
		return result.SetKey(key, value)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e GoValue) listAsStarlarkValue(val []interface{}) (starlark.Value, error) {
	result := []starlark.Value{}
	for _, v := range val {
		item, err := e.asStarlarkValue(v)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return starlark.NewList(result), nil
}

func (e GoValue) orderedMapAsStruct(val *orderedmap.Map) (starlark.Value, error) {
	data := starlark.StringDict{}
	err := val.IterateErr(func(k, v interface{}) error {
		key, ok := k.(string)
		if !ok {
			return fmt.Errorf("expected struct field name to be string, but was %T", k)
		}
		value, err := e.asStarlarkValue(v)
		if err != nil {
			return err
		}
		data[key] = value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return starlarkstruct.FromStringDict(starlarkstruct.Default, data), nil
}

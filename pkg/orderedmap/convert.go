// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"fmt"
	"sort"
)

type Conversion struct {
	Object interface{}
}

// AsUnorderedStringMaps replaces every *Map with map[string]interface{},
// as expected by encoders that sort keys themselves (json, toml).
func (c Conversion) AsUnorderedStringMaps() (interface{}, error) {
	return c.asUnorderedStringMaps(c.Object)
}

func (c Conversion) asUnorderedStringMaps(object interface{}) (interface{}, error) {
	switch typedObj := object.(type) {
	case *Map:
		result := map[string]interface{}{}
		err := typedObj.IterateErr(func(k, v interface{}) error {
			strK, ok := k.(string)
			if !ok {
				return fmt.Errorf("Expected map key to be string, but was %T", k)
			}
			val, err := c.asUnorderedStringMaps(v)
			if err != nil {
				return err
			}
			result[strK] = val
			return nil
		})
		return result, err

	case []interface{}:
		result := make([]interface{}, len(typedObj))
		for i, item := range typedObj {
			val, err := c.asUnorderedStringMaps(item)
			if err != nil {
				return nil, err
			}
			result[i] = val
		}
		return result, nil

	default:
		return typedObj, nil
	}
}

// FromUnorderedMaps replaces Go maps (as produced by decoders) with *Map
// whose keys are sorted, so that decoded dicts iterate deterministically.
func (c Conversion) FromUnorderedMaps() interface{} {
	return c.fromUnorderedMaps(c.Object)
}

func (c Conversion) fromUnorderedMaps(object interface{}) interface{} {
	switch typedObj := object.(type) {
	case map[interface{}]interface{}:
		result := NewMap()
		for _, key := range c.sortedMapKeys(c.mapKeysFromInterfaceMap(typedObj)) {
			result.Set(key, c.fromUnorderedMaps(typedObj[key]))
		}
		return result

	case map[string]interface{}:
		result := NewMap()
		for _, key := range c.sortedMapKeys(c.mapKeysFromStringMap(typedObj)) {
			result.Set(key, c.fromUnorderedMaps(typedObj[key.(string)]))
		}
		return result

	case []interface{}:
		result := make([]interface{}, len(typedObj))
		for i, item := range typedObj {
			result[i] = c.fromUnorderedMaps(item)
		}
		return result

	default:
		return typedObj
	}
}

func (Conversion) mapKeysFromInterfaceMap(m map[interface{}]interface{}) []interface{} {
	var keys []interface{}
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func (Conversion) mapKeysFromStringMap(m map[string]interface{}) []interface{} {
	var keys []interface{}
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func (Conversion) sortedMapKeys(keys []interface{}) []interface{} {
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprintf("%v", keys[i]) < fmt.Sprintf("%v", keys[j])
	})
	return keys
}

// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

// Package orderedmap keeps dict entries in insertion order while values
// travel between snippets and the serialization modules (json, yaml, toml).
package orderedmap

import (
	"reflect"
)

type Map struct {
	items []MapItem
}

type MapItem struct {
	Key   interface{}
	Value interface{}
}

func NewMap() *Map {
	return &Map{}
}

func (m *Map) Set(key, value interface{}) {
	for i, item := range m.items {
		if reflect.DeepEqual(item.Key, key) {
			m.items[i].Value = value
			return
		}
	}
	m.items = append(m.items, MapItem{key, value})
}

func (m *Map) Get(key interface{}) (interface{}, bool) {
	for _, item := range m.items {
		if reflect.DeepEqual(item.Key, key) {
			return item.Value, true
		}
	}
	return nil, false
}

func (m *Map) Keys() (keys []interface{}) {
	m.Iterate(func(k, _ interface{}) {
		keys = append(keys, k)
	})
	return
}

func (m *Map) Iterate(iterFunc func(k, v interface{})) {
	for _, item := range m.items {
		iterFunc(item.Key, item.Value)
	}
}

func (m *Map) IterateErr(iterFunc func(k, v interface{}) error) error {
	for _, item := range m.items {
		err := iterFunc(item.Key, item.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Map) Len() int { return len(m.items) }

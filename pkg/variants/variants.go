// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package variants expands named parameter value lists into their cartesian
product. Each combination (a Variant) is rendered separately.
*/
package variants

import (
	"strconv"
	"strings"
)

// Param is a named list of values. Start offsets the indices used to name
// outputs; it does not select values.
type Param struct {
	Name   string
	Values []interface{}
	Start  int
}

type ParameterSet []Param

type Binding struct {
	Name  string
	Value interface{}
}

type Variant struct {
	Indices  []int
	Bindings []Binding
}

// Suffix identifies the variant in output file names, e.g. "_1_2".
// The variant without parameters is "res".
func (v Variant) Suffix() string {
	if len(v.Indices) == 0 {
		return "res"
	}

	var result strings.Builder
	for _, idx := range v.Indices {
		result.WriteString("_")
		result.WriteString(strconv.Itoa(idx))
	}
	return result.String()
}

// Iterator lazily walks variants in row-major order: the first parameter
// changes slowest, the last one fastest.
type Iterator struct {
	params   ParameterSet
	counters []int
	started  bool
	done     bool
}

func Expand(params ParameterSet) *Iterator {
	iter := &Iterator{params: params}
	iter.Reset()
	return iter
}

// Reset restarts iteration from the first variant.
func (i *Iterator) Reset() {
	i.counters = make([]int, len(i.params))
	i.started = false
	i.done = i.Len() == 0
}

// Len returns the total number of variants. It is 1 for an empty ParameterSet
// and 0 if any parameter has no values.
func (i *Iterator) Len() int {
	total := 1
	for _, param := range i.params {
		total *= len(param.Values)
	}
	return total
}

// Next returns the next variant, or false once all were returned.
func (i *Iterator) Next() (Variant, bool) {
	if i.done {
		return Variant{}, false
	}

	if i.started && !i.advance() {
		i.done = true
		return Variant{}, false
	}
	i.started = true

	return i.current(), true
}

// All collects the remaining variants.
func (i *Iterator) All() []Variant {
	var result []Variant
	for {
		variant, ok := i.Next()
		if !ok {
			return result
		}
		result = append(result, variant)
	}
}

func (i *Iterator) advance() bool {
	for pos := len(i.counters) - 1; pos >= 0; pos-- {
		i.counters[pos]++
		if i.counters[pos] < len(i.params[pos].Values) {
			return true
		}
		i.counters[pos] = 0
	}
	return false
}

func (i *Iterator) current() Variant {
	variant := Variant{
		Indices:  make([]int, len(i.params)),
		Bindings: make([]Binding, len(i.params)),
	}
	for pos, param := range i.params {
		variant.Indices[pos] = i.counters[pos] + param.Start
		variant.Bindings[pos] = Binding{Name: param.Name, Value: param.Values[i.counters[pos]]}
	}
	return variant
}

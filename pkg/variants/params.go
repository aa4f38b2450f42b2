// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package variants

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	paramNameRegexp  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:-(\d+))?$`)
	identifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// NewParam builds a parameter from already typed values.
func NewParam(name string, values []interface{}, start int) (Param, error) {
	if !identifierRegexp.MatchString(name) {
		return Param{}, fmt.Errorf("Expected parameter name '%s' to be an identifier", name)
	}
	if len(values) == 0 {
		return Param{}, fmt.Errorf("Expected parameter '%s' to have at least one value", name)
	}
	if start < 0 {
		return Param{}, fmt.Errorf("Expected start index of parameter '%s' to be non-negative, but was %d", name, start)
	}
	return Param{Name: name, Values: values, Start: start}, nil
}

// ParseParam parses "name[-START] value1 value2 ...".
// Values are all ints if every value parses as an int, else all floats if
// every value parses as a float, otherwise they are kept as strings.
func ParseParam(arg string) (Param, error) {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return Param{}, fmt.Errorf("Expected parameter to be specified as 'name[-start] value...', but was empty")
	}

	matches := paramNameRegexp.FindStringSubmatch(fields[0])
	if matches == nil {
		return Param{}, fmt.Errorf("Expected parameter name '%s' to be an identifier optionally followed by '-start'", fields[0])
	}

	param := Param{Name: matches[1]}

	if len(matches[2]) > 0 {
		start, err := strconv.Atoi(matches[2])
		if err != nil {
			return Param{}, fmt.Errorf("Parsing start index of parameter '%s': %s", param.Name, err)
		}
		param.Start = start
	}

	if len(fields) == 1 {
		return Param{}, fmt.Errorf("Expected parameter '%s' to have at least one value", param.Name)
	}

	param.Values = CoerceValues(fields[1:])

	return param, nil
}

// CoerceValues converts all values to int64, else all to float64, else
// leaves them as strings.
func CoerceValues(vals []string) []interface{} {
	if ints, ok := parseAll(vals, func(val string) (interface{}, error) { return strconv.ParseInt(val, 10, 64) }); ok {
		return ints
	}
	if floats, ok := parseAll(vals, func(val string) (interface{}, error) { return strconv.ParseFloat(val, 64) }); ok {
		return floats
	}

	var result []interface{}
	for _, val := range vals {
		result = append(result, val)
	}
	return result
}

func parseAll(vals []string, parseFunc func(string) (interface{}, error)) ([]interface{}, bool) {
	var result []interface{}
	for _, val := range vals {
		parsed, err := parseFunc(val)
		if err != nil {
			return nil, false
		}
		result = append(result, parsed)
	}
	return result, true
}

// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package twpslibrary_test

import (
	"testing"

	"github.com/inr-kit/twps/pkg/eval"
	"github.com/inr-kit/twps/pkg/filepos"
	"github.com/inr-kit/twps/pkg/template"
	"github.com/inr-kit/twps/pkg/twpslibrary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryModules(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{`json.encode({"b": 1, "a": [1, 2.5, "x", None, True]})`, `{"a":[1,2.5,"x",null,true],"b":1}`},
		{`json.encode({"a": 1}, indent=2)`, "{\n  \"a\": 1\n}"},
		{`json.decode('{"z": 1, "a": {"b": [1, 2.5]}}')`, `{"a": {"b": [1, 2.5]}, "z": 1}`},
		{`yaml.encode({"b": 1, "a": "x"})`, "b: 1\na: x\n"},
		{`yaml.decode("z: 1\na: [1, two]\n")`, `{"z": 1, "a": [1, "two"]}`},
		{`yaml.decode("")`, "None"},
		{`toml.encode({"name": "x", "n": 3})`, "n = 3\nname = \"x\"\n"},
		{`toml.decode('a = 1\n[t]\nb = "x"\n')["t"]["b"]`, "x"},
		{`struct.encode({"a": {"b": 1}}).a.b`, "1"},
		{`struct.decode(struct.make(a=1, b=[struct.make(c=2)]))`, `{"a": 1, "b": [{"c": 2}]}`},
		{`version.require_at_least("0.0.1")`, "None"},
		{`math.floor(2.7)`, "2"},
		{`math.ceil(2.1)`, "3"},
		{`math.trunc(-2.7)`, "-2"},
		{`math.floor(5)`, "5"},
		{`int(math.sqrt(16))`, "4"},
		{`math.pow(2, 10) == 1024.0`, "True"},
		{`int(math.round(math.log(100, 10)))`, "2"},
		{`math.pi > 3.14 and math.pi < 3.15`, "True"},
		{`regexp.match("^[a-z]+$", "abc")`, "True"},
		{`regexp.find_all("[0-9]+", "a1b22c333")`, `["1", "22", "333"]`},
		{`regexp.replace("([a-z]+)=", "a=1 b=2", "$1:")`, "a:1 b:2"},
		{`regexp.replace("[0-9]+", "a1b22", lambda m: str(len(m)))`, "a1b2"},
	}

	for _, test := range tests {
		t.Run(test.code, func(t *testing.T) {
			interp := template.NewInterpreter(twpslibrary.NewAPI())

			outcome := interp.Interpret(test.code, filepos.NewPositionInFile(2, "tpl"))
			require.Equal(t, eval.OutcomeValue, outcome.Kind, "err: %v", outcome.Err)
			assert.Equal(t, test.expected, outcome.Text)
		})
	}
}

func TestLibraryErrors(t *testing.T) {
	tests := []struct {
		code        string
		expectedErr string
	}{
		{`json.encode({1: 2})`, "json.encode: Expected map key to be string, but was int64"},
		{`json.encode(1, indent=9)`, "indent value must be between 0 and 8"},
		{`json.encode(1, spaces=2)`, "invalid argument name: spaces"},
		{`toml.encode([1])`, "expected dict, but was list"},
		{`yaml.decode("a: [")`, "yaml.decode:"},
		{`version.require_at_least("999.0.0")`, "does not meet the minimum required version 999.0.0"},
		{`math.sqrt("x")`, "expected starlark.Int or starlark.Float, but was string"},
		{`math.hypot(1)`, "expected exactly 2 argument(s), but was 1"},
		{`math.floor("x")`, "expected int or float value, but was string"},
		{`regexp.match("(", "x")`, "missing closing )"},
		{`regexp.replace("a", "a", lambda m: 1)`, "expected starlark.String, but was int"},
	}

	for _, test := range tests {
		t.Run(test.code, func(t *testing.T) {
			interp := template.NewInterpreter(twpslibrary.NewAPI())

			outcome := interp.Interpret(test.code, filepos.NewPositionInFile(2, "tpl"))
			require.Equal(t, eval.OutcomeEvalFailed, outcome.Kind)
			assert.Contains(t, outcome.Err.Error(), test.expectedErr)
		})
	}
}

func TestNewAPIReturnsFreshDict(t *testing.T) {
	api := twpslibrary.NewAPI()
	delete(api, "json")

	assert.Contains(t, twpslibrary.NewAPI(), "json")
	assert.Len(t, twpslibrary.NewAPI(), 7)
}

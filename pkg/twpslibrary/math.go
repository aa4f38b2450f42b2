// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package twpslibrary

import (
	"fmt"
	"math"

	"github.com/inr-kit/twps/pkg/template/core"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"
)

// MathAPI contains the math module. Functions accept ints and floats and
// return floats, except floor, ceil and trunc which return ints.
var MathAPI = starlark.StringDict{
	"math": &starlarkstruct.Module{
		Name:    "math",
		Members: mathModule{}.members(),
	},
}

type mathModule struct{}

var (
	mathUnaryFuncs = map[string]func(float64) float64{
		"fabs":    math.Abs,
		"round":   math.Round,
		"exp":     math.Exp,
		"sqrt":    math.Sqrt,
		"cbrt":    math.Cbrt,
		"log10":   math.Log10,
		"acos":    math.Acos,
		"asin":    math.Asin,
		"atan":    math.Atan,
		"cos":     math.Cos,
		"sin":     math.Sin,
		"tan":     math.Tan,
		"acosh":   math.Acosh,
		"asinh":   math.Asinh,
		"atanh":   math.Atanh,
		"cosh":    math.Cosh,
		"sinh":    math.Sinh,
		"tanh":    math.Tanh,
		"gamma":   math.Gamma,
		"degrees": func(x float64) float64 { return x * 180 / math.Pi },
		"radians": func(x float64) float64 { return x * math.Pi / 180 },
	}

	mathBinaryFuncs = map[string]func(float64, float64) float64{
		"copysign":  math.Copysign,
		"mod":       math.Mod,
		"pow":       math.Pow,
		"remainder": math.Remainder,
		"atan2":     math.Atan2,
		"hypot":     math.Hypot,
	}

	mathToIntFuncs = map[string]func(float64) float64{
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"trunc": math.Trunc,
	}
)

func (b mathModule) members() starlark.StringDict {
	members := starlark.StringDict{
		"log": starlark.NewBuiltin("math.log", core.ErrWrapper(b.log)),
		"e":   starlark.Float(math.E),
		"pi":  starlark.Float(math.Pi),
		"inf": starlark.Float(math.Inf(1)),
	}
	for name, fn := range mathUnaryFuncs {
		members[name] = b.unary("math."+name, fn)
	}
	for name, fn := range mathBinaryFuncs {
		members[name] = b.binary("math."+name, fn)
	}
	for name, fn := range mathToIntFuncs {
		members[name] = b.toInt("math."+name, fn)
	}
	return members
}

func (b mathModule) unary(name string, fn func(float64) float64) *starlark.Builtin {
	return starlark.NewBuiltin(name, core.ErrWrapper(func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		x, err := b.floatArgs(args, kwargs, 1)
		if err != nil {
			return starlark.None, err
		}
		return starlark.Float(fn(x[0])), nil
	}))
}

func (b mathModule) binary(name string, fn func(float64, float64) float64) *starlark.Builtin {
	return starlark.NewBuiltin(name, core.ErrWrapper(func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		xy, err := b.floatArgs(args, kwargs, 2)
		if err != nil {
			return starlark.None, err
		}
		return starlark.Float(fn(xy[0], xy[1])), nil
	}))
}

// toInt keeps ints as is and rounds floats with fn.
func (b mathModule) toInt(name string, fn func(float64) float64) *starlark.Builtin {
	return starlark.NewBuiltin(name, core.ErrWrapper(func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 || args.Len() != 1 {
			return starlark.None, fmt.Errorf("expected exactly one argument")
		}

		switch typedArg := args.Index(0).(type) {
		case starlark.Int:
			return typedArg, nil
		case starlark.Float:
			return starlark.NumberToInt(starlark.Float(fn(float64(typedArg))))
		default:
			return starlark.None, fmt.Errorf("expected int or float value, but was %s", typedArg.Type())
		}
	}))
}

// log(x[, base]) defaults to the natural logarithm.
func (b mathModule) log(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 || args.Len() < 1 || args.Len() > 2 {
		return starlark.None, fmt.Errorf("expected one or two arguments")
	}

	vals, err := b.floatArgs(args, nil, args.Len())
	if err != nil {
		return starlark.None, err
	}

	if len(vals) == 1 {
		return starlark.Float(math.Log(vals[0])), nil
	}
	return starlark.Float(math.Log(vals[0]) / math.Log(vals[1])), nil
}

func (b mathModule) floatArgs(args starlark.Tuple, kwargs []starlark.Tuple, expected int) ([]float64, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("unexpected keyword arguments")
	}
	if args.Len() != expected {
		return nil, fmt.Errorf("expected exactly %d argument(s), but was %d", expected, args.Len())
	}

	var result []float64
	for _, arg := range args {
		val, err := core.NewStarlarkValue(arg).AsFloat64()
		if err != nil {
			return nil, err
		}
		result = append(result, val)
	}
	return result, nil
}

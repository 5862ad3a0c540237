package builtins

import (
	"fmt"

	"github.com/hemlock-lang/hemlock/internal/value"
)

// caller invokes a Hemlock function value; satisfied by *eval.Evaluator.
type caller interface {
	Call(fn *value.Function, args []value.Value) (value.Value, error)
}

// registerArray wires the free-function array helpers that need to
// call back into a user-supplied function value (map/filter/reduce),
// mirroring the teacher's array helpers in vm_builtins_misc.go
// generalized from a single Length builtin to the full set a
// dynamically-typed array needs.
func registerArray(dst map[string]value.BuiltinFunc, c caller) {
	dst["map"] = func(args []value.Value) (value.Value, error) { return arrayMap(c, args) }
	dst["filter"] = func(args []value.Value) (value.Value, error) { return arrayFilter(c, args) }
	dst["reduce"] = func(args []value.Value) (value.Value, error) { return arrayReduce(c, args) }
}

func requireArrayFn(args []value.Value, name string) (*value.Array, *value.Function, error) {
	if len(args) < 2 {
		return nil, nil, fmt.Errorf("TypeError: %s expects (array, function), got %d arguments", name, len(args))
	}
	arr, ok := args[0].(*value.Array)
	if !ok {
		return nil, nil, fmt.Errorf("TypeError: %s expects an array, got %s", name, args[0].Type())
	}
	fn, ok := args[1].(*value.Function)
	if !ok {
		return nil, nil, fmt.Errorf("TypeError: %s expects a function, got %s", name, args[1].Type())
	}
	return arr, fn, nil
}

func arrayMap(c caller, args []value.Value) (value.Value, error) {
	arr, fn, err := requireArrayFn(args, "map")
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(arr.Elems))
	for i, e := range arr.Elems {
		v, err := c.Call(fn, []value.Value{e, value.NewInt(int64(i))})
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return value.NewArray(out), nil
}

func arrayFilter(c caller, args []value.Value) (value.Value, error) {
	arr, fn, err := requireArrayFn(args, "filter")
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(arr.Elems))
	for i, e := range arr.Elems {
		v, err := c.Call(fn, []value.Value{e, value.NewInt(int64(i))})
		if err != nil {
			return nil, err
		}
		if value.Truthy(v) {
			out = append(out, e)
		}
	}
	return value.NewArray(out), nil
}

func arrayReduce(c caller, args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("TypeError: reduce expects (array, function, initial), got %d arguments", len(args))
	}
	arr, ok := args[0].(*value.Array)
	if !ok {
		return nil, fmt.Errorf("TypeError: reduce expects an array, got %s", args[0].Type())
	}
	fn, ok := args[1].(*value.Function)
	if !ok {
		return nil, fmt.Errorf("TypeError: reduce expects a function, got %s", args[1].Type())
	}
	acc := args[2]
	for i, e := range arr.Elems {
		v, err := c.Call(fn, []value.Value{acc, e, value.NewInt(int64(i))})
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

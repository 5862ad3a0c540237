package builtins

import (
	"fmt"
	"strconv"

	"github.com/hemlock-lang/hemlock/internal/value"
)

// registerConvert wires `typeof` and the to_*/deep_equal conversion
// stand-ins, grounded on the teacher's registerConversionBuiltins
// (type-name queries plus numeric/string coercion helpers).
func registerConvert(dst map[string]value.BuiltinFunc) {
	dst["typeof"] = builtinTypeof
	dst["to_string"] = builtinToString
	dst["to_int"] = builtinToInt
	dst["to_float"] = builtinToFloat
	dst["to_bool"] = builtinToBool
	dst["deep_equal"] = builtinDeepEqual
}

func builtinTypeof(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("TypeError: typeof expects 1 argument, got %d", len(args))
	}
	if intVal, ok := args[0].(*value.Int); ok {
		return value.NewString(intVal.TypeName()), nil
	}
	return value.NewString(args[0].Type()), nil
}

func builtinToString(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("TypeError: to_string expects 1 argument, got %d", len(args))
	}
	return value.NewString(args[0].String()), nil
}

func builtinToInt(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("TypeError: to_int expects 1 argument, got %d", len(args))
	}
	switch x := args[0].(type) {
	case *value.Int:
		return x, nil
	case *value.Float:
		return value.NewInt(int64(x.F)), nil
	case *value.String:
		n, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TypeError: cannot convert %q to int", x.String())
		}
		return value.NewInt(n), nil
	case *value.Bool:
		if x.Value {
			return value.NewInt(1), nil
		}
		return value.NewInt(0), nil
	}
	return nil, fmt.Errorf("TypeError: cannot convert %s to int", args[0].Type())
}

func builtinToFloat(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("TypeError: to_float expects 1 argument, got %d", len(args))
	}
	switch x := args[0].(type) {
	case *value.Int, *value.Float:
		f, _, _ := value.Numeric(x)
		return value.NewFloat(f), nil
	case *value.String:
		f, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return nil, fmt.Errorf("TypeError: cannot convert %q to float", x.String())
		}
		return value.NewFloat(f), nil
	}
	return nil, fmt.Errorf("TypeError: cannot convert %s to float", args[0].Type())
}

func builtinToBool(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("TypeError: to_bool expects 1 argument, got %d", len(args))
	}
	return value.NewBool(value.Truthy(args[0])), nil
}

// builtinDeepEqual exposes spec §9's open-question resolution: `==`
// stays reference identity on arrays/objects; deep_equal is the
// library-level structural-equality hook.
func builtinDeepEqual(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("TypeError: deep_equal expects 2 arguments, got %d", len(args))
	}
	return value.NewBool(value.DeepEqual(args[0], args[1])), nil
}

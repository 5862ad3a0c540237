package builtins

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hemlock-lang/hemlock/internal/value"
)

// registerMath mirrors the teacher's registerMathBuiltins: one entry
// per name, each backed by a small wrapper that argument-count-checks
// before delegating to the stdlib math function.
func registerMath(dst map[string]value.BuiltinFunc) {
	dst["sin"] = unaryFloat(math.Sin)
	dst["cos"] = unaryFloat(math.Cos)
	dst["tan"] = unaryFloat(math.Tan)
	dst["sqrt"] = unaryFloat(math.Sqrt)
	dst["abs"] = builtinAbs
	dst["floor"] = unaryFloat(math.Floor)
	dst["ceil"] = unaryFloat(math.Ceil)
	dst["round"] = unaryFloat(math.Round)
	dst["log"] = unaryFloat(math.Log)
	dst["log10"] = unaryFloat(math.Log10)
	dst["pow"] = builtinPow
	dst["pi"] = builtinPi
	dst["random"] = builtinRandom
	dst["random_int"] = builtinRandomInt
	dst["min"] = builtinMin
	dst["max"] = builtinMax
}

func unaryFloat(fn func(float64) float64) value.BuiltinFunc {
	return func(args []value.Value) (value.Value, error) {
		f, err := requireFloat(args, 0)
		if err != nil {
			return nil, err
		}
		return value.NewFloat(fn(f)), nil
	}
}

func builtinAbs(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("TypeError: abs expects 1 argument, got %d", len(args))
	}
	switch n := args[0].(type) {
	case *value.Int:
		if n.I < 0 {
			return value.NewIntWidth(-n.I, n.Width, n.Signed), nil
		}
		return n, nil
	case *value.Float:
		return value.NewFloat(math.Abs(n.F)), nil
	}
	return nil, fmt.Errorf("TypeError: abs expects a numeric argument, got %s", args[0].Type())
}

func builtinPow(args []value.Value) (value.Value, error) {
	base, err := requireFloat(args, 0)
	if err != nil {
		return nil, err
	}
	exp, err := requireFloat(args, 1)
	if err != nil {
		return nil, err
	}
	return value.NewFloat(math.Pow(base, exp)), nil
}

func builtinPi(args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("TypeError: pi expects no arguments, got %d", len(args))
	}
	return value.NewFloat(math.Pi), nil
}

func builtinRandom(args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("TypeError: random expects no arguments, got %d", len(args))
	}
	return value.NewFloat(rand.Float64()), nil
}

func builtinRandomInt(args []value.Value) (value.Value, error) {
	lo, err := requireInt(args, 0)
	if err != nil {
		return nil, err
	}
	hi, err := requireInt(args, 1)
	if err != nil {
		return nil, err
	}
	if hi <= lo {
		return nil, fmt.Errorf("TypeError: random_int requires hi > lo")
	}
	return value.NewInt(lo + rand.Int63n(hi-lo)), nil
}

func builtinMin(args []value.Value) (value.Value, error) {
	return minMax(args, "min", func(a, b float64) bool { return a < b })
}

func builtinMax(args []value.Value) (value.Value, error) {
	return minMax(args, "max", func(a, b float64) bool { return a > b })
}

func minMax(args []value.Value, name string, better func(a, b float64) bool) (value.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("TypeError: %s expects at least 1 argument", name)
	}
	best := args[0]
	bestF, _, ok := value.Numeric(best)
	if !ok {
		return nil, fmt.Errorf("TypeError: %s expects numeric arguments, got %s", name, best.Type())
	}
	for _, a := range args[1:] {
		f, _, ok := value.Numeric(a)
		if !ok {
			return nil, fmt.Errorf("TypeError: %s expects numeric arguments, got %s", name, a.Type())
		}
		if better(f, bestF) {
			best, bestF = a, f
		}
	}
	return best, nil
}

func requireFloat(args []value.Value, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("TypeError: expected at least %d arguments", i+1)
	}
	f, _, ok := value.Numeric(args[i])
	if !ok {
		return 0, fmt.Errorf("TypeError: expected a numeric argument, got %s", args[i].Type())
	}
	return f, nil
}

func requireInt(args []value.Value, i int) (int64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("TypeError: expected at least %d arguments", i+1)
	}
	n, ok := args[i].(*value.Int)
	if !ok {
		return 0, fmt.Errorf("TypeError: expected an integer argument, got %s", args[i].Type())
	}
	return n.I, nil
}

package builtins

import (
	"fmt"
	"strings"

	"github.com/hemlock-lang/hemlock/internal/eval"
	"github.com/hemlock-lang/hemlock/internal/value"
)

// registerMethods wires the receiver.method(args...) call forms spec
// §8 scenario 6 exercises (`a.push("hello")`), keyed by the receiver's
// Type(). Grounded on the same dispatch-table idiom as the free
// builtins, specialized to method-call syntax since Hemmlock's AST
// distinguishes `f(x)` from `x.f()`.
func registerMethods(dst map[string]map[string]eval.MethodFunc, c caller, rt Runtime) {
	dst["array"] = map[string]eval.MethodFunc{
		"push":     arrayPush,
		"pop":      arrayPop,
		"slice":    arraySlice,
		"index_of": arrayIndexOf,
		"map":      func(r value.Value, args []value.Value) (value.Value, error) { return arrayMap(c, prepend(r, args)) },
		"filter":   func(r value.Value, args []value.Value) (value.Value, error) { return arrayFilter(c, prepend(r, args)) },
		"reduce":   func(r value.Value, args []value.Value) (value.Value, error) { return arrayReduce(c, prepend(r, args)) },
	}
	dst["string"] = map[string]eval.MethodFunc{
		"upper":       methodString(func(s string) (value.Value, error) { return value.NewString(strings.ToUpper(s)), nil }),
		"lower":       methodString(func(s string) (value.Value, error) { return value.NewString(strings.ToLower(s)), nil }),
		"trim":        methodString(func(s string) (value.Value, error) { return value.NewString(strings.TrimSpace(s)), nil }),
		"split":       stringSplitMethod,
		"contains":    stringBinaryMethod(builtinContains),
		"starts_with": stringBinaryMethod(builtinStartsWith),
		"ends_with":   stringBinaryMethod(builtinEndsWith),
	}
	dst["channel"] = map[string]eval.MethodFunc{
		"send":  channelSend(rt),
		"recv":  channelRecv(rt),
		"close": channelClose,
	}
}

// channelSend/channelRecv implement `c.send(v)`/`c.recv()` (spec §8
// scenario 2, §4.5): both are suspension points, so they delegate to
// the task runtime rather than calling value.Channel directly — rt
// releases the scheduler's GIL for the blocking wait.
func channelSend(rt Runtime) eval.MethodFunc {
	return func(recv value.Value, args []value.Value) (value.Value, error) {
		ch, ok := recv.(*value.Channel)
		if !ok {
			return nil, fmt.Errorf("TypeError: send expects a channel receiver, got %s", recv.Type())
		}
		if err := requireRuntime(rt, "send"); err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, fmt.Errorf("TypeError: send expects 1 argument, got %d", len(args))
		}
		if err := rt.ChannelSend(ch, args[0]); err != nil {
			return nil, err
		}
		return value.NullValue, nil
	}
}

func channelRecv(rt Runtime) eval.MethodFunc {
	return func(recv value.Value, args []value.Value) (value.Value, error) {
		ch, ok := recv.(*value.Channel)
		if !ok {
			return nil, fmt.Errorf("TypeError: recv expects a channel receiver, got %s", recv.Type())
		}
		if err := requireRuntime(rt, "recv"); err != nil {
			return nil, err
		}
		return rt.ChannelRecv(ch)
	}
}

func channelClose(recv value.Value, args []value.Value) (value.Value, error) {
	ch, ok := recv.(*value.Channel)
	if !ok {
		return nil, fmt.Errorf("TypeError: close expects a channel receiver, got %s", recv.Type())
	}
	return value.NullValue, ch.Close()
}

func prepend(recv value.Value, args []value.Value) []value.Value {
	out := make([]value.Value, 0, len(args)+1)
	out = append(out, recv)
	out = append(out, args...)
	return out
}

// arrayPush implements spec §8 scenario 6: `a.push(v)` appends v,
// coercing it to the typed array's element type (or raising) exactly
// as index-assignment does.
func arrayPush(recv value.Value, args []value.Value) (value.Value, error) {
	arr, ok := recv.(*value.Array)
	if !ok {
		return nil, fmt.Errorf("TypeError: push expects an array receiver, got %s", recv.Type())
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("TypeError: push expects 1 argument, got %d", len(args))
	}
	v := args[0]
	if arr.ElemType != "" {
		coerced, err := value.CoercePrimitive(v, arr.ElemType)
		if err != nil {
			return nil, err
		}
		v = coerced
	}
	arr.Elems = append(arr.Elems, v)
	return value.NewInt(int64(len(arr.Elems))), nil
}

func arrayPop(recv value.Value, args []value.Value) (value.Value, error) {
	arr, ok := recv.(*value.Array)
	if !ok {
		return nil, fmt.Errorf("TypeError: pop expects an array receiver, got %s", recv.Type())
	}
	if len(arr.Elems) == 0 {
		return value.NullValue, nil
	}
	last := arr.Elems[len(arr.Elems)-1]
	arr.Elems = arr.Elems[:len(arr.Elems)-1]
	return last, nil
}

func arraySlice(recv value.Value, args []value.Value) (value.Value, error) {
	arr, ok := recv.(*value.Array)
	if !ok {
		return nil, fmt.Errorf("TypeError: slice expects an array receiver, got %s", recv.Type())
	}
	start, end := int64(0), int64(len(arr.Elems))
	var err error
	if len(args) > 0 {
		start, err = requireInt(args, 0)
		if err != nil {
			return nil, err
		}
	}
	if len(args) > 1 {
		end, err = requireInt(args, 1)
		if err != nil {
			return nil, err
		}
	}
	if start < 0 || end > int64(len(arr.Elems)) || start > end {
		return nil, fmt.Errorf("IndexError: slice range [%d:%d] out of bounds for length %d", start, end, len(arr.Elems))
	}
	out := make([]value.Value, end-start)
	copy(out, arr.Elems[start:end])
	return value.NewArray(out), nil
}

func arrayIndexOf(recv value.Value, args []value.Value) (value.Value, error) {
	arr, ok := recv.(*value.Array)
	if !ok {
		return nil, fmt.Errorf("TypeError: index_of expects an array receiver, got %s", recv.Type())
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("TypeError: index_of expects 1 argument, got %d", len(args))
	}
	for i, e := range arr.Elems {
		if value.Equals(e, args[0]) {
			return value.NewInt(int64(i)), nil
		}
	}
	return value.NewInt(-1), nil
}

func methodString(fn func(string) (value.Value, error)) eval.MethodFunc {
	return func(recv value.Value, args []value.Value) (value.Value, error) {
		s, ok := recv.(*value.String)
		if !ok {
			return nil, fmt.Errorf("TypeError: expected a string receiver, got %s", recv.Type())
		}
		return fn(s.String())
	}
}

func stringSplitMethod(recv value.Value, args []value.Value) (value.Value, error) {
	s, ok := recv.(*value.String)
	if !ok {
		return nil, fmt.Errorf("TypeError: split expects a string receiver, got %s", recv.Type())
	}
	return builtinSplit(prepend(s, args))
}

func stringBinaryMethod(fn value.BuiltinFunc) eval.MethodFunc {
	return func(recv value.Value, args []value.Value) (value.Value, error) {
		return fn(prepend(recv, args))
	}
}

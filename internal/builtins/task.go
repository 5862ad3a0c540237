package builtins

import (
	"fmt"

	"github.com/hemlock-lang/hemlock/internal/value"
)

// registerTask wires the cooperative-concurrency builtins (spec
// §4.5): spawn/join/detach/sleep delegate to rt, channel construction
// needs no scheduler since value.NewChannel is self-contained. If rt
// is nil (internal/task not wired in by the embedder), the
// scheduler-backed builtins throw RuntimeError instead of panicking,
// so a program that merely references but never calls them still runs.
func registerTask(dst map[string]value.BuiltinFunc, rt Runtime) {
	dst["spawn"] = func(args []value.Value) (value.Value, error) { return builtinSpawn(rt, args) }
	dst["join"] = func(args []value.Value) (value.Value, error) { return builtinTaskJoin(rt, args) }
	dst["detach"] = func(args []value.Value) (value.Value, error) { return builtinDetach(rt, args) }
	dst["sleep"] = func(args []value.Value) (value.Value, error) { return builtinSleep(rt, args) }
	dst["channel"] = builtinChannel
}

func requireRuntime(rt Runtime, name string) error {
	if rt == nil {
		return fmt.Errorf("RuntimeError: %s requires a configured task runtime", name)
	}
	return nil
}

func builtinSpawn(rt Runtime, args []value.Value) (value.Value, error) {
	if err := requireRuntime(rt, "spawn"); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("TypeError: spawn expects at least a function argument")
	}
	fn, ok := args[0].(*value.Function)
	if !ok {
		return nil, fmt.Errorf("TypeError: spawn expects a function, got %s", args[0].Type())
	}
	t, err := rt.Spawn(fn, args[1:])
	if err != nil {
		return nil, err
	}
	return t, nil
}

func builtinTaskJoin(rt Runtime, args []value.Value) (value.Value, error) {
	if err := requireRuntime(rt, "join"); err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("TypeError: join expects 1 argument, got %d", len(args))
	}
	t, ok := args[0].(*value.Task)
	if !ok {
		return nil, fmt.Errorf("TypeError: join expects a task, got %s", args[0].Type())
	}
	return rt.Join(t)
}

func builtinDetach(rt Runtime, args []value.Value) (value.Value, error) {
	if err := requireRuntime(rt, "detach"); err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("TypeError: detach expects 1 argument, got %d", len(args))
	}
	t, ok := args[0].(*value.Task)
	if !ok {
		return nil, fmt.Errorf("TypeError: detach expects a task, got %s", args[0].Type())
	}
	rt.Detach(t)
	return value.NullValue, nil
}

func builtinSleep(rt Runtime, args []value.Value) (value.Value, error) {
	if err := requireRuntime(rt, "sleep"); err != nil {
		return nil, err
	}
	ms, err := requireInt(args, 0)
	if err != nil {
		return nil, err
	}
	if err := rt.Sleep(ms); err != nil {
		return nil, err
	}
	return value.NullValue, nil
}

func builtinChannel(args []value.Value) (value.Value, error) {
	capacity := int64(0)
	if len(args) > 0 {
		c, err := requireInt(args, 0)
		if err != nil {
			return nil, err
		}
		capacity = c
	}
	if capacity < 0 {
		return nil, fmt.Errorf("TypeError: channel capacity must be non-negative")
	}
	return value.NewChannel(int(capacity)), nil
}

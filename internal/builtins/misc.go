package builtins

import (
	"fmt"
	"os"

	"github.com/hemlock-lang/hemlock/internal/value"
)

// registerMisc wires print/println and the file I/O stand-ins,
// mirroring the teacher's registerMiscBuiltins grouping (Print,
// PrintLn, plus array/string helpers promoted elsewhere in this
// package to their own files).
func registerMisc(dst map[string]value.BuiltinFunc) {
	dst["print"] = builtinPrint
	dst["println"] = builtinPrintln
	dst["read_file"] = builtinReadFile
	dst["write_file"] = builtinWriteFile
	dst["open"] = builtinOpen
}

func builtinPrint(args []value.Value) (value.Value, error) {
	for i, a := range args {
		if i > 0 {
			fmt.Fprint(os.Stdout, " ")
		}
		fmt.Fprint(os.Stdout, a.String())
	}
	return value.NullValue, nil
}

func builtinPrintln(args []value.Value) (value.Value, error) {
	builtinPrint(args)
	fmt.Fprintln(os.Stdout)
	return value.NullValue, nil
}

func builtinReadFile(args []value.Value) (value.Value, error) {
	path, err := requireString(args, 0, "read_file")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("IOError: %s", err)
	}
	return value.NewString(string(data)), nil
}

func builtinWriteFile(args []value.Value) (value.Value, error) {
	path, err := requireString(args, 0, "write_file")
	if err != nil {
		return nil, err
	}
	content, err := requireString(args, 1, "write_file")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("IOError: %s", err)
	}
	return value.NullValue, nil
}

// fileCloser adapts an *os.File to value.DestructorHook so the File
// variant's refcount-zero teardown closes the OS handle exactly once.
type fileCloser struct {
	f *os.File
}

func (c *fileCloser) Close() error { return c.f.Close() }

func builtinOpen(args []value.Value) (value.Value, error) {
	path, err := requireString(args, 0, "open")
	if err != nil {
		return nil, err
	}
	mode := "r"
	if len(args) > 1 {
		mode, err = requireString(args, 1, "open")
		if err != nil {
			return nil, err
		}
	}
	var flag int
	switch mode {
	case "r":
		flag = os.O_RDONLY
	case "w":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "a":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return nil, fmt.Errorf("IOError: unknown open mode %q", mode)
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("IOError: %s", err)
	}
	return &value.File{Name: path, Closer: &fileCloser{f: f}}, nil
}

func requireString(args []value.Value, i int, name string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("TypeError: %s expects at least %d arguments", name, i+1)
	}
	s, ok := args[i].(*value.String)
	if !ok {
		return "", fmt.Errorf("TypeError: %s expects a string argument, got %s", name, args[i].Type())
	}
	return s.String(), nil
}

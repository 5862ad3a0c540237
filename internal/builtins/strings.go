package builtins

import (
	"fmt"
	"strings"

	"github.com/hemlock-lang/hemlock/internal/value"
	"golang.org/x/text/unicode/norm"
)

// registerStringBuiltins mirrors the teacher's registerStringBuiltins
// grouping (Copy/SubStr/StrSplit/StrJoin/NormalizeString/…), renamed to
// Hemlock's snake_case builtin-naming convention.
func registerStringBuiltins(dst map[string]value.BuiltinFunc) {
	dst["upper"] = unaryString(strings.ToUpper)
	dst["lower"] = unaryString(strings.ToLower)
	dst["trim"] = unaryString(strings.TrimSpace)
	dst["reverse_string"] = unaryString(reverseString)
	// normalize applies Unicode NFC normalization (grounded on the
	// teacher's NormalizeString, which wraps golang.org/x/text/unicode/norm).
	dst["normalize"] = unaryString(norm.NFC.String)
	dst["split"] = builtinSplit
	dst["join"] = builtinJoin
	dst["contains"] = builtinContains
	dst["starts_with"] = builtinStartsWith
	dst["ends_with"] = builtinEndsWith
	dst["index_of"] = builtinIndexOf
	dst["replace"] = builtinReplace
	dst["substring"] = builtinSubstring
	dst["repeat"] = builtinRepeat
}

func unaryString(fn func(string) string) value.BuiltinFunc {
	return func(args []value.Value) (value.Value, error) {
		s, err := requireString(args, 0, "string builtin")
		if err != nil {
			return nil, err
		}
		return value.NewString(fn(s)), nil
	}
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func builtinSplit(args []value.Value) (value.Value, error) {
	s, err := requireString(args, 0, "split")
	if err != nil {
		return nil, err
	}
	sep, err := requireString(args, 1, "split")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, sep)
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.NewString(p)
	}
	return value.NewArray(elems), nil
}

func builtinJoin(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("TypeError: join expects 2 arguments, got %d", len(args))
	}
	arr, ok := args[0].(*value.Array)
	if !ok {
		return nil, fmt.Errorf("TypeError: join expects an array, got %s", args[0].Type())
	}
	sep, err := requireString(args, 1, "join")
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(arr.Elems))
	for i, e := range arr.Elems {
		parts[i] = e.String()
	}
	return value.NewString(strings.Join(parts, sep)), nil
}

func builtinContains(args []value.Value) (value.Value, error) {
	s, err := requireString(args, 0, "contains")
	if err != nil {
		return nil, err
	}
	sub, err := requireString(args, 1, "contains")
	if err != nil {
		return nil, err
	}
	return value.NewBool(strings.Contains(s, sub)), nil
}

func builtinStartsWith(args []value.Value) (value.Value, error) {
	s, err := requireString(args, 0, "starts_with")
	if err != nil {
		return nil, err
	}
	prefix, err := requireString(args, 1, "starts_with")
	if err != nil {
		return nil, err
	}
	return value.NewBool(strings.HasPrefix(s, prefix)), nil
}

func builtinEndsWith(args []value.Value) (value.Value, error) {
	s, err := requireString(args, 0, "ends_with")
	if err != nil {
		return nil, err
	}
	suffix, err := requireString(args, 1, "ends_with")
	if err != nil {
		return nil, err
	}
	return value.NewBool(strings.HasSuffix(s, suffix)), nil
}

func builtinIndexOf(args []value.Value) (value.Value, error) {
	s, err := requireString(args, 0, "index_of")
	if err != nil {
		return nil, err
	}
	sub, err := requireString(args, 1, "index_of")
	if err != nil {
		return nil, err
	}
	return value.NewInt(int64(strings.Index(s, sub))), nil
}

func builtinReplace(args []value.Value) (value.Value, error) {
	s, err := requireString(args, 0, "replace")
	if err != nil {
		return nil, err
	}
	old, err := requireString(args, 1, "replace")
	if err != nil {
		return nil, err
	}
	newS, err := requireString(args, 2, "replace")
	if err != nil {
		return nil, err
	}
	return value.NewString(strings.ReplaceAll(s, old, newS)), nil
}

func builtinSubstring(args []value.Value) (value.Value, error) {
	s, err := requireString(args, 0, "substring")
	if err != nil {
		return nil, err
	}
	start, err := requireInt(args, 1)
	if err != nil {
		return nil, err
	}
	end, err := requireInt(args, 2)
	if err != nil {
		return nil, err
	}
	r := []rune(s)
	if start < 0 || end > int64(len(r)) || start > end {
		return nil, fmt.Errorf("IndexError: substring range [%d:%d] out of bounds for length %d", start, end, len(r))
	}
	return value.NewString(string(r[start:end])), nil
}

func builtinRepeat(args []value.Value) (value.Value, error) {
	s, err := requireString(args, 0, "repeat")
	if err != nil {
		return nil, err
	}
	n, err := requireInt(args, 1)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("TypeError: repeat count must be non-negative")
	}
	return value.NewString(strings.Repeat(s, int(n))), nil
}

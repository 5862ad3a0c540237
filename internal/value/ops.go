package value

import (
	"fmt"
	"math"
)

// Numeric reports v's numeric payload as a float64, used for mixed
// int/float arithmetic promotion (spec §4.1: "mixed int/float
// promotes to float"). ok is false for non-numeric values.
func Numeric(v Value) (f float64, isFloat bool, ok bool) {
	switch x := v.(type) {
	case *Int:
		return float64(x.I), false, true
	case *Float:
		return x.F, true, true
	}
	return 0, false, false
}

// Add implements the `+` operator per spec §4.1: numeric addition with
// int/float promotion, string concatenation, and array concatenation.
func Add(l, r Value) (Value, error) {
	if ls, ok := l.(*String); ok {
		if rs, ok := r.(*String); ok {
			return NewString(ls.String() + rs.String()), nil
		}
		return nil, typeErr("+", l, r)
	}
	if la, ok := l.(*Array); ok {
		if ra, ok := r.(*Array); ok {
			out := make([]Value, 0, len(la.Elems)+len(ra.Elems))
			out = append(out, la.Elems...)
			out = append(out, ra.Elems...)
			return NewArray(out), nil
		}
		return nil, typeErr("+", l, r)
	}
	return arith("+", l, r)
}

// Arith implements the remaining binary arithmetic operators (-,*,/,%).
func Arith(op string, l, r Value) (Value, error) {
	return arith(op, l, r)
}

func arith(op string, l, r Value) (Value, error) {
	lf, lIsFloat, lok := Numeric(l)
	rf, rIsFloat, rok := Numeric(r)
	if !lok || !rok {
		return nil, typeErr(op, l, r)
	}
	if lIsFloat || rIsFloat {
		return NewFloat(applyFloat(op, lf, rf)), nil
	}
	li := l.(*Int)
	ri := r.(*Int)
	result := applyIntWrapping(op, li.I, ri.I)
	width := li.Width
	if ri.Width > width {
		width = ri.Width
	}
	return NewIntWidth(result, width, li.Signed), nil
}

func applyFloat(op string, l, r float64) float64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "%":
		return math.Mod(l, r)
	}
	return 0
}

// applyIntWrapping implements two's-complement wraparound on overflow
// (spec §4.1: "integer overflow wraps").
func applyIntWrapping(op string, l, r int64) int64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		if r == 0 {
			return 0
		}
		return l / r
	case "%":
		if r == 0 {
			return 0
		}
		return l % r
	}
	return 0
}

func typeErr(op string, l, r Value) error {
	return fmt.Errorf("TypeError: cannot apply %q to %s and %s", op, l.Type(), r.Type())
}

// Equals implements `==` per spec §4.1: structural on strings, numeric
// comparison follows IEEE for floats, reference identity on all other
// heap types (arrays/objects equal only to themselves), function
// equality is reference identity.
func Equals(l, r Value) bool {
	switch lv := l.(type) {
	case *Null:
		_, ok := r.(*Null)
		return ok
	case *Bool:
		rv, ok := r.(*Bool)
		return ok && lv.Value == rv.Value
	case *Int, *Float:
		lf, _, lok := Numeric(l)
		rf, _, rok := Numeric(r)
		return lok && rok && lf == rf
	case *Rune:
		rv, ok := r.(*Rune)
		return ok && lv.R == rv.R
	case *String:
		rv, ok := r.(*String)
		return ok && lv.String() == rv.String()
	default:
		// Arrays, objects, functions, and every other heap variant:
		// reference identity (spec §4.1, §9 open-question resolution).
		return l == r
	}
}

// DeepEqual implements the structural-equality library hook spec §9
// leaves as an escape hatch from reference-identity ==.
func DeepEqual(l, r Value) bool {
	switch lv := l.(type) {
	case *Array:
		rv, ok := r.(*Array)
		if !ok || len(lv.Elems) != len(rv.Elems) {
			return false
		}
		for i := range lv.Elems {
			if !DeepEqual(lv.Elems[i], rv.Elems[i]) {
				return false
			}
		}
		return true
	case *Object:
		rv, ok := r.(*Object)
		if !ok || len(lv.Keys) != len(rv.Keys) {
			return false
		}
		for _, k := range lv.Keys {
			rf, ok := rv.Get(k)
			if !ok || !DeepEqual(lv.Fields[k], rf) {
				return false
			}
		}
		return true
	default:
		return Equals(l, r)
	}
}

// Compare implements relational operators (<,>,<=,>=): requires
// compatible types, numeric comparison follows IEEE for floats.
func Compare(l, r Value) (int, error) {
	lf, _, lok := Numeric(l)
	rf, _, rok := Numeric(r)
	if lok && rok {
		switch {
		case lf < rf:
			return -1, nil
		case lf > rf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if ls, ok := l.(*String); ok {
		if rs, ok := r.(*String); ok {
			switch {
			case ls.String() < rs.String():
				return -1, nil
			case ls.String() > rs.String():
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, fmt.Errorf("TypeError: cannot compare %s with %s", l.Type(), r.Type())
}

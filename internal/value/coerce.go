package value

import "fmt"

// CoercePrimitive coerces v to the named primitive type (spec §4.3
// "Type annotations": a range-checked integer/float cast). Named
// object and array-of-T coercion live one layer up (package eval),
// since they need access to registered object-type definitions.
func CoercePrimitive(v Value, typeName string) (Value, error) {
	switch typeName {
	case "bool":
		if b, ok := v.(*Bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("TypeError: cannot coerce %s to bool", v.Type())
	case "string":
		if s, ok := v.(*String); ok {
			return s, nil
		}
		return nil, fmt.Errorf("TypeError: cannot coerce %s to string", v.Type())
	case "rune":
		if r, ok := v.(*Rune); ok {
			return r, nil
		}
		return nil, fmt.Errorf("TypeError: cannot coerce %s to rune", v.Type())
	case "f32", "f64":
		f, _, ok := Numeric(v)
		if !ok {
			return nil, fmt.Errorf("TypeError: cannot coerce %s to %s", v.Type(), typeName)
		}
		if typeName == "f32" {
			return NewFloat32(float32(f)), nil
		}
		return NewFloat(f), nil
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64":
		return coerceInt(v, typeName)
	default:
		return v, nil // named object types are resolved by package eval
	}
}

func coerceInt(v Value, typeName string) (Value, error) {
	var raw int64
	switch x := v.(type) {
	case *Int:
		raw = x.I
	case *Float:
		raw = int64(x.F)
	default:
		return nil, fmt.Errorf("TypeError: cannot coerce %s to %s", v.Type(), typeName)
	}
	signed := typeName[0] == 'i'
	var w Width
	switch typeName[1:] {
	case "8":
		w = W8
	case "16":
		w = W16
	case "32":
		w = W32
	case "64":
		w = W64
	}
	if !fitsWidth(raw, w, signed) {
		return nil, fmt.Errorf("TypeError: value %d out of range for %s", raw, typeName)
	}
	return NewIntWidth(raw, w, signed), nil
}

func fitsWidth(v int64, w Width, signed bool) bool {
	wrapped := wrapToWidth(v, w, signed)
	if signed {
		return wrapped == v
	}
	return uint64(wrapped) == uint64(v) || (v >= 0 && wrapped == v)
}

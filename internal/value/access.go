package value

import "fmt"

// GetProperty implements `obj.name` per spec §4.1: field access on
// objects, null on non-objects except the well-known virtual
// properties (length, byte_length, capacity, address/port/closed).
func GetProperty(v Value, name string) (Value, error) {
	switch x := v.(type) {
	case *Object:
		if f, ok := x.Get(name); ok {
			return f, nil
		}
		return NullValue, nil
	case *Array:
		if name == "length" {
			return NewInt(int64(len(x.Elems))), nil
		}
	case *String:
		switch name {
		case "length", "byte_length":
			return NewInt(int64(x.Len())), nil
		}
	case *Buffer:
		switch name {
		case "length":
			return NewInt(int64(len(x.Data))), nil
		case "capacity":
			return NewInt(int64(x.Cap)), nil
		}
	case *Socket:
		switch name {
		case "address":
			return NewString(x.Address), nil
		case "port":
			return NewInt(int64(x.Port)), nil
		case "closed":
			return NewBool(x.Closed), nil
		}
	case *File:
		if name == "closed" {
			return NewBool(x.Closed), nil
		}
	}
	return NullValue, nil
}

// Index implements `arr[i]`/`str[i]`/`obj[s]` per spec §4.1: arrays
// bounds-check and return null out of range; strings return a single-
// character string; object string-keyed index is equivalent to
// property access.
func Index(v Value, idx Value) (Value, error) {
	switch x := v.(type) {
	case *Array:
		i, _, ok := Numeric(idx)
		if !ok {
			return nil, fmt.Errorf("TypeError: array index must be numeric")
		}
		n := int(i)
		if n < 0 || n >= len(x.Elems) {
			return NullValue, nil
		}
		return x.Elems[n], nil
	case *String:
		i, _, ok := Numeric(idx)
		if !ok {
			return nil, fmt.Errorf("TypeError: string index must be numeric")
		}
		n := int(i)
		if n < 0 || n >= len(x.Bytes) {
			return nil, fmt.Errorf("IndexError: string index %d out of range", n)
		}
		return NewString(string(x.Bytes[n])), nil
	case *Object:
		if s, ok := idx.(*String); ok {
			return GetProperty(x, s.String())
		}
		return nil, fmt.Errorf("TypeError: object index must be a string")
	case *Null:
		return NullValue, nil
	}
	return nil, fmt.Errorf("TypeError: %s is not indexable", v.Type())
}

// IndexAssign implements `arr[i] = v` with typed-array coercion (spec
// §3.1 invariant: "Typed-array Values carry an element-type tag;
// assignment into the array coerces or raises").
func IndexAssign(v Value, idx Value, newVal Value) error {
	arr, ok := v.(*Array)
	if !ok {
		return fmt.Errorf("TypeError: cannot index-assign into %s", v.Type())
	}
	i, _, ok := Numeric(idx)
	if !ok {
		return fmt.Errorf("TypeError: array index must be numeric")
	}
	n := int(i)
	if n < 0 {
		return fmt.Errorf("IndexError: array index %d out of range", n)
	}
	coerced := newVal
	if arr.ElemType != "" {
		c, err := CoercePrimitive(newVal, arr.ElemType)
		if err != nil {
			return err
		}
		coerced = c
	}
	for n >= len(arr.Elems) {
		arr.Elems = append(arr.Elems, NullValue)
	}
	arr.Elems[n] = coerced
	return nil
}

// Push appends to an array, honoring the element-type tag (spec §8's
// "Typed array coercion" scenario: pushing a string into array<i32>
// throws TypeError).
func Push(arr *Array, v Value) error {
	if arr.ElemType != "" {
		c, err := CoercePrimitive(v, arr.ElemType)
		if err != nil {
			return err
		}
		arr.Elems = append(arr.Elems, c)
		return nil
	}
	arr.Elems = append(arr.Elems, v)
	return nil
}

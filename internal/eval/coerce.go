package eval

import (
	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/hemlock-lang/hemlock/internal/value"
)

// coerceToType implements spec §4.3's "Type annotations": a primitive
// coercion (range-checked cast), a named object type (every required
// field present with its own type coerced, extra fields permitted),
// or an array-of-T (element-wise coercion, tagging the result array
// so later index-assignment/push also enforce the element type).
func (ev *Evaluator) coerceToType(v value.Value, t ast.TypeExpr) (value.Value, error) {
	switch tt := t.(type) {
	case *ast.PrimitiveType:
		return value.CoercePrimitive(v, tt.Name)
	case *ast.ArrayType:
		return ev.coerceArray(v, tt)
	case *ast.NamedType:
		return ev.coerceNamed(v, tt)
	}
	return v, nil
}

func (ev *Evaluator) coerceArray(v value.Value, tt *ast.ArrayType) (value.Value, error) {
	arr, ok := v.(*value.Array)
	if !ok {
		return nil, throwf("TypeError: expected array, got %s", v.Type())
	}
	out := make([]value.Value, len(arr.Elems))
	for i, elem := range arr.Elems {
		c, err := ev.coerceToType(elem, tt.Elem)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	result := value.NewArray(out)
	if pt, ok := tt.Elem.(*ast.PrimitiveType); ok {
		result.ElemType = pt.Name
	}
	return result, nil
}

// coerceNamed validates v against a registered define_object shape,
// mutating the object's declared fields to their coerced values and
// tagging it, but preserving any extra fields it already carries
// (spec §4.3: "extra fields permitted → duck typing").
func (ev *Evaluator) coerceNamed(v value.Value, tt *ast.NamedType) (value.Value, error) {
	fields, ok := ev.Types[tt.Name]
	if !ok {
		return nil, throwf("TypeError: unknown object type %q", tt.Name)
	}
	obj, ok := v.(*value.Object)
	if !ok {
		return nil, throwf("TypeError: expected object of type %q, got %s", tt.Name, v.Type())
	}
	for _, f := range fields {
		fv, present := obj.Get(f.Name)
		if !present {
			if f.Required {
				return nil, throwf("TypeError: missing required field %q for type %q", f.Name, tt.Name)
			}
			continue
		}
		coerced, err := ev.coerceToType(fv, f.Type)
		if err != nil {
			return nil, err
		}
		obj.Set(f.Name, coerced)
	}
	obj.Tag = tt.Name
	return obj, nil
}

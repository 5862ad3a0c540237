package value

import (
	"fmt"
	"math"
	"strconv"
)

// Width identifies the bit width of an integer or float variant.
type Width int

const (
	W8  Width = 8
	W16 Width = 16
	W32 Width = 32
	W64 Width = 64
)

// Int is the integer variant, covering i8..i64 and u8..u64 (spec
// §3.1). A single Go struct represents all widths/signedness
// combinations — the natural Go generalization of the teacher's single
// IntegerValue type (see DESIGN.md).
type Int struct {
	I      int64 // two's-complement bit pattern; reinterpret per Signed/Width
	Width  Width
	Signed bool
}

func (*Int) Type() string { return "int" }
func (i *Int) String() string {
	if i.Signed {
		return strconv.FormatInt(i.I, 10)
	}
	return strconv.FormatUint(uint64(i.I), 10)
}

// TypeName returns the fully qualified variant name, e.g. "i32" or
// "u8", matching spec §3.1's variant list.
func (i *Int) TypeName() string {
	prefix := "i"
	if !i.Signed {
		prefix = "u"
	}
	return fmt.Sprintf("%s%d", prefix, i.Width)
}

// NewInt constructs a signed integer, choosing the narrowest tag that
// fits the value (32-bit if representable, else 64-bit), per spec
// §4.1 "Construction".
func NewInt(v int64) *Int {
	w := W64
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		w = W32
	}
	return &Int{I: v, Width: w, Signed: true}
}

// NewUint constructs an unsigned integer with the same narrowing rule.
func NewUint(v uint64) *Int {
	w := W64
	if v <= math.MaxUint32 {
		w = W32
	}
	return &Int{I: int64(v), Width: w, Signed: false}
}

// NewIntWidth constructs an integer with an explicit width/signedness,
// wrapping v with two's-complement semantics (spec §4.1: "integer
// overflow wraps").
func NewIntWidth(v int64, w Width, signed bool) *Int {
	return &Int{I: wrapToWidth(v, w, signed), Width: w, Signed: signed}
}

func wrapToWidth(v int64, w Width, signed bool) int64 {
	switch w {
	case W8:
		if signed {
			return int64(int8(v))
		}
		return int64(uint8(v))
	case W16:
		if signed {
			return int64(int16(v))
		}
		return int64(uint16(v))
	case W32:
		if signed {
			return int64(int32(v))
		}
		return int64(uint32(v))
	default:
		return v
	}
}

// Uint returns the unsigned bit pattern for unsigned Int values.
func (i *Int) Uint() uint64 { return uint64(i.I) }

// Float is the floating-point variant (f32 or f64).
type Float struct {
	F     float64
	Width Width // W32 or W64
}

func (*Float) Type() string { return "float" }
func (f *Float) String() string {
	if f.Width == W32 {
		return strconv.FormatFloat(f.F, 'g', -1, 32)
	}
	return strconv.FormatFloat(f.F, 'g', -1, 64)
}

// NewFloat constructs a double-precision float value.
func NewFloat(v float64) *Float { return &Float{F: v, Width: W64} }

// NewFloat32 constructs a single-precision float value.
func NewFloat32(v float32) *Float { return &Float{F: float64(v), Width: W32} }

// Rune is a single 32-bit Unicode scalar value.
type Rune struct{ R rune }

func (*Rune) Type() string     { return "rune" }
func (r *Rune) String() string { return string(r.R) }

func NewRune(r rune) *Rune { return &Rune{R: r} }

package idl

import (
	"fmt"
	"math/big"
	"strings"
)

// Value is a compile-time-known result of partially evaluating an
// AstNode (§4.3). It is deliberately NOT an error-carrying type: a
// node whose value cannot be determined returns (nil, false) from
// Value(*Symtab), the same comma-ok shape Go uses for map lookups.
type Value interface {
	Type() Type
	// Cpp renders a C++ literal expression for this value; the prune
	// pass stores it as the Text of the literal it substitutes for a
	// folded sub-expression.
	Cpp() string
	String() string
	Equal(Value) bool
}

// ---- Int ----

// IntValue holds an arbitrary-width two's-complement integer using
// math/big so that shifts and widening ops on large Bits<W> values
// never overflow a machine word.
type IntValue struct {
	Val    *big.Int
	Width  int // UnknownWidth if the producing type had unknown width
	Signed bool
}

func NewIntValue(v int64, width int, signed bool) IntValue {
	return IntValue{Val: big.NewInt(v), Width: width, Signed: signed}
}

func NewIntValueBig(v *big.Int, width int, signed bool) IntValue {
	return IntValue{Val: new(big.Int).Set(v), Width: width, Signed: signed}
}

func (v IntValue) Type() Type {
	if v.Width == UnknownWidth {
		return BitsType{Width: UnknownWidth, Bound: NoBound, Signed: v.Signed}
	}
	return BitsType{Width: v.Width, Bound: NoBound, Signed: v.Signed}
}

func (v IntValue) Cpp() string {
	if v.Width == UnknownWidth {
		return v.Val.String()
	}
	suffix := ""
	if v.Width > 64 {
		suffix = "_mpz" // arbitrary-precision literal suffix
	} else if v.Width > 32 {
		suffix = "ULL"
	}
	return fmt.Sprintf("%s%s", v.Val.String(), suffix)
}

func (v IntValue) String() string { return v.Val.String() }

func (v IntValue) Equal(o Value) bool {
	other, ok := o.(IntValue)
	return ok && v.Val.Cmp(other.Val) == 0 && v.Width == other.Width
}

// Mask returns v truncated/wrapped to its own Width, or v unchanged if
// Width is unknown.
func (v IntValue) Mask() IntValue {
	if v.Width == UnknownWidth {
		return v
	}
	mask := new(big.Int).Lsh(big.NewInt(1), uint(v.Width))
	mask.Sub(mask, big.NewInt(1))
	wrapped := new(big.Int).And(v.Val, mask)
	if v.Signed {
		signBit := new(big.Int).Lsh(big.NewInt(1), uint(v.Width-1))
		if wrapped.Cmp(signBit) >= 0 {
			wrapped.Sub(wrapped, mask)
			wrapped.Sub(wrapped, big.NewInt(1))
		}
	}
	return IntValue{Val: wrapped, Width: v.Width, Signed: v.Signed}
}

// ---- Bool ----

type BoolValue struct{ Val bool }

func NewBoolValue(v bool) BoolValue { return BoolValue{Val: v} }

func (v BoolValue) Type() Type { return BooleanType{} }
func (v BoolValue) Cpp() string {
	if v.Val {
		return "true"
	}
	return "false"
}
func (v BoolValue) String() string { return v.Cpp() }
func (v BoolValue) Equal(o Value) bool {
	other, ok := o.(BoolValue)
	return ok && v.Val == other.Val
}

// ---- String ----

type StringValue struct{ Val string }

func NewStringValue(v string) StringValue { return StringValue{Val: v} }

func (v StringValue) Type() Type     { return StringType{Width: UnknownWidth} }
func (v StringValue) Cpp() string    { return fmt.Sprintf("%q", v.Val) }
func (v StringValue) String() string { return v.Val }
func (v StringValue) Equal(o Value) bool {
	other, ok := o.(StringValue)
	return ok && v.Val == other.Val
}

// ---- Array ----

type ArrayValue struct{ Items []Value }

func NewArrayValue(items []Value) ArrayValue { return ArrayValue{Items: items} }

func (v ArrayValue) Type() Type {
	if len(v.Items) == 0 {
		return ArrayType{Sub: VoidType{}, Width: 0}
	}
	return ArrayType{Sub: v.Items[0].Type(), Width: len(v.Items)}
}

func (v ArrayValue) Cpp() string {
	parts := make([]string, len(v.Items))
	for i, item := range v.Items {
		parts[i] = item.Cpp()
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

func (v ArrayValue) String() string { return v.Cpp() }

func (v ArrayValue) Equal(o Value) bool {
	other, ok := o.(ArrayValue)
	if !ok || len(v.Items) != len(other.Items) {
		return false
	}
	for i, item := range v.Items {
		if !item.Equal(other.Items[i]) {
			return false
		}
	}
	return true
}

// ---- Tuple ----

type TupleValue struct{ Items []Value }

func NewTupleValue(items []Value) TupleValue { return TupleValue{Items: items} }

func (v TupleValue) Type() Type {
	elems := make([]Type, len(v.Items))
	for i, item := range v.Items {
		elems[i] = item.Type()
	}
	return TupleType{Elems: elems}
}

func (v TupleValue) Cpp() string {
	parts := make([]string, len(v.Items))
	for i, item := range v.Items {
		parts[i] = item.Cpp()
	}
	return fmt.Sprintf("std::make_tuple(%s)", strings.Join(parts, ", "))
}

func (v TupleValue) String() string { return v.Cpp() }

func (v TupleValue) Equal(o Value) bool {
	other, ok := o.(TupleValue)
	if !ok || len(v.Items) != len(other.Items) {
		return false
	}
	for i, item := range v.Items {
		if !item.Equal(other.Items[i]) {
			return false
		}
	}
	return true
}

// ---- Struct ----

type StructValue struct {
	TypeName string
	Fields   map[string]Value
}

func NewStructValue(typeName string, fields map[string]Value) StructValue {
	return StructValue{TypeName: typeName, Fields: fields}
}

func (v StructValue) Type() Type {
	fields := make([]StructField, 0, len(v.Fields))
	for _, name := range sortedKeys(v.Fields) {
		fields = append(fields, StructField{Name: name, Type: v.Fields[name].Type()})
	}
	return NewStructType(v.TypeName, fields)
}

func (v StructValue) Cpp() string {
	parts := make([]string, 0, len(v.Fields))
	for _, name := range sortedKeys(v.Fields) {
		parts = append(parts, fmt.Sprintf(".%s = %s", name, v.Fields[name].Cpp()))
	}
	return fmt.Sprintf("%s{%s}", v.TypeName, strings.Join(parts, ", "))
}

func (v StructValue) String() string { return v.Cpp() }

func (v StructValue) Equal(o Value) bool {
	other, ok := o.(StructValue)
	if !ok || v.TypeName != other.TypeName || len(v.Fields) != len(other.Fields) {
		return false
	}
	for name, val := range v.Fields {
		oval, ok := other.Fields[name]
		if !ok || !val.Equal(oval) {
			return false
		}
	}
	return true
}

// ---- Enum ----

type EnumValue struct {
	EnumName  string
	ValueName string
	Raw       int64
}

func NewEnumValue(enumName, valueName string, raw int64) EnumValue {
	return EnumValue{EnumName: enumName, ValueName: valueName, Raw: raw}
}

func (v EnumValue) Type() Type     { return &EnumType{Name: v.EnumName} }
func (v EnumValue) Cpp() string    { return fmt.Sprintf("%s::%s", v.EnumName, v.ValueName) }
func (v EnumValue) String() string { return v.Cpp() }
func (v EnumValue) Equal(o Value) bool {
	other, ok := o.(EnumValue)
	return ok && v.EnumName == other.EnumName && v.ValueName == other.ValueName
}

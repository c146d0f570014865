package idl

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownWidth marks a Bits/Array/String width that is only known at
// run time.
const UnknownWidth = -1

// NoBound marks a Bits type with no knowable upper bound on its
// run-time width (renders to PossiblyUnknownBits<BitsInfinitePrecision>).
const NoBound = -1

// TypeKind discriminates the semantic type families of §3/§4.1. It
// exists purely so Equal/ConvertibleTo can dispatch with a cheap
// switch instead of a chain of type assertions; signedness is a
// qualifier carried on BitsType, not a separate Kind, per §3.
type TypeKind int

const (
	KindBits TypeKind = iota
	KindBoolean
	KindString
	KindVoid
	KindEnum
	KindEnumRef
	KindBitfield
	KindArray
	KindTuple
	KindStruct
	KindCsr
	KindFunction
)

// Type is the semantic type of a value the IDL can produce (§3/§4.1).
type Type interface {
	Kind() TypeKind
	Equal(Type) bool
	ConvertibleTo(Type) bool
	RenderCpp() string
	String() string
	// Default returns the zero Value for types whose shape is fully
	// known (used by uninitialized declarations and for-loop init).
	Default() (Value, bool)
}

// ---- Bits ----

// BitsType is the finite (or run-time-determined) bit-precise integer
// type. Width == UnknownWidth means the width is only known at run
// time; Bound, when not NoBound, is the largest width the value could
// ever take (used to pick a PossiblyUnknownBits<N> rendering instead
// of an unbounded one).
type BitsType struct {
	Width  int
	Bound  int
	Signed bool
}

func NewBitsType(width int) BitsType           { return BitsType{Width: width, Bound: NoBound} }
func NewSignedBitsType(width int) BitsType     { return BitsType{Width: width, Bound: NoBound, Signed: true} }
func NewBoundedBitsType(bound int, signed bool) BitsType {
	return BitsType{Width: UnknownWidth, Bound: bound, Signed: signed}
}

func (t BitsType) Kind() TypeKind { return KindBits }

func (t BitsType) Equal(o Type) bool {
	other, ok := o.(BitsType)
	return ok && t.Width == other.Width
}

func (t BitsType) ConvertibleTo(o Type) bool {
	if o.Kind() == KindBoolean {
		return false
	}
	return true
}

func (t BitsType) RenderCpp() string {
	switch {
	case t.Width != UnknownWidth:
		if t.Signed {
			return fmt.Sprintf("Bits<%d, true>", t.Width)
		}
		return fmt.Sprintf("Bits<%d>", t.Width)
	case t.Bound != NoBound:
		if t.Signed {
			return fmt.Sprintf("PossiblyUnknownBits<%d, true>", t.Bound)
		}
		return fmt.Sprintf("PossiblyUnknownBits<%d>", t.Bound)
	default:
		if t.Signed {
			return "PossiblyUnknownBits<BitsInfinitePrecision, true>"
		}
		return "PossiblyUnknownBits<BitsInfinitePrecision>"
	}
}

func (t BitsType) String() string {
	if t.Width == UnknownWidth {
		return "Bits<unknown>"
	}
	return fmt.Sprintf("Bits<%d>", t.Width)
}

func (t BitsType) Default() (Value, bool) {
	return NewIntValue(0, t.Width, t.Signed), true
}

// ---- Boolean ----

type BooleanType struct{}

func (t BooleanType) Kind() TypeKind           { return KindBoolean }
func (t BooleanType) Equal(o Type) bool        { return o.Kind() == KindBoolean }
func (t BooleanType) ConvertibleTo(o Type) bool { return o.Kind() == KindBoolean }
func (t BooleanType) RenderCpp() string        { return "bool" }
func (t BooleanType) String() string           { return "Boolean" }
func (t BooleanType) Default() (Value, bool)   { return NewBoolValue(false), true }

// ---- String ----

type StringType struct{ Width int }

func (t StringType) Kind() TypeKind { return KindString }
func (t StringType) Equal(o Type) bool {
	other, ok := o.(StringType)
	return ok && t.Width == other.Width
}
func (t StringType) ConvertibleTo(o Type) bool { return o.Kind() == KindString }
func (t StringType) RenderCpp() string         { return "std::string" }
func (t StringType) String() string            { return "String" }
func (t StringType) Default() (Value, bool)    { return NewStringValue(""), true }

// ---- Void ----

type VoidType struct{}

func (t VoidType) Kind() TypeKind            { return KindVoid }
func (t VoidType) Equal(o Type) bool         { return o.Kind() == KindVoid }
func (t VoidType) ConvertibleTo(o Type) bool { return o.Kind() == KindVoid }
func (t VoidType) RenderCpp() string         { return "void" }
func (t VoidType) String() string            { return "Void" }
func (t VoidType) Default() (Value, bool)    { return nil, false }

// ---- Enum ----

type EnumType struct {
	Name   string
	Width  int
	Values map[string]int64
	Order  []string // declaration order, for stable C++ emission
}

func NewEnumType(name string, width int) *EnumType {
	return &EnumType{Name: name, Width: width, Values: map[string]int64{}}
}

func (t *EnumType) AddValue(name string, value int64) {
	if _, ok := t.Values[name]; !ok {
		t.Order = append(t.Order, name)
	}
	t.Values[name] = value
}

func (t *EnumType) Kind() TypeKind { return KindEnum }

func (t *EnumType) Equal(o Type) bool {
	other, ok := o.(*EnumType)
	return ok && t.Name == other.Name
}

func (t *EnumType) ConvertibleTo(o Type) bool {
	switch other := o.(type) {
	case BitsType:
		return t.Width <= other.Width || other.Width == UnknownWidth
	case *EnumType:
		return t.Name == other.Name
	default:
		return false
	}
}

func (t *EnumType) RenderCpp() string { return t.Name }
func (t *EnumType) String() string    { return fmt.Sprintf("Enum(%s)", t.Name) }

func (t *EnumType) Default() (Value, bool) {
	if len(t.Order) == 0 {
		return nil, false
	}
	return NewEnumValue(t.Name, t.Order[0], t.Values[t.Order[0]]), true
}

// EnumRefType is the type of a bare enum class name used as a value
// (e.g. to pass to a templated function parameter), distinct from a
// value already known to inhabit the enum.
type EnumRefType struct{ Enum *EnumType }

func (t EnumRefType) Kind() TypeKind { return KindEnumRef }

func (t EnumRefType) Equal(o Type) bool {
	other, ok := o.(EnumRefType)
	return ok && t.Enum.Equal(other.Enum)
}

func (t EnumRefType) ConvertibleTo(o Type) bool {
	switch other := o.(type) {
	case *EnumType:
		return t.Enum.Equal(other)
	case EnumRefType:
		return t.Enum.Equal(other.Enum)
	default:
		return false
	}
}

func (t EnumRefType) RenderCpp() string      { return t.Enum.Name }
func (t EnumRefType) String() string         { return fmt.Sprintf("EnumRef(%s)", t.Enum.Name) }
func (t EnumRefType) Default() (Value, bool) { return nil, false }

// ---- Bitfield ----

type BitRange struct{ Msb, Lsb int }

type BitfieldType struct {
	Name   string
	Width  int
	Fields map[string]BitRange
	Order  []string
}

func NewBitfieldType(name string, width int) *BitfieldType {
	return &BitfieldType{Name: name, Width: width, Fields: map[string]BitRange{}}
}

func (t *BitfieldType) AddField(name string, msb, lsb int) {
	if _, ok := t.Fields[name]; !ok {
		t.Order = append(t.Order, name)
	}
	t.Fields[name] = BitRange{Msb: msb, Lsb: lsb}
}

func (t *BitfieldType) Kind() TypeKind { return KindBitfield }

func (t *BitfieldType) Equal(o Type) bool {
	other, ok := o.(*BitfieldType)
	return ok && t.Name == other.Name
}

func (t *BitfieldType) ConvertibleTo(o Type) bool {
	switch other := o.(type) {
	case *BitfieldType:
		return t.Name == other.Name
	case BitsType:
		return t.Width == other.Width
	default:
		return false
	}
}

func (t *BitfieldType) RenderCpp() string { return t.Name }
func (t *BitfieldType) String() string    { return fmt.Sprintf("Bitfield(%s)", t.Name) }

func (t *BitfieldType) Default() (Value, bool) {
	return NewIntValue(0, t.Width, false), true
}

// ---- Array ----

// ArrayType's Width is UnknownWidth for a vector (dynamically sized).
type ArrayType struct {
	Sub   Type
	Width int
}

func NewArrayType(sub Type, width int) ArrayType { return ArrayType{Sub: sub, Width: width} }

func (t ArrayType) Kind() TypeKind { return KindArray }

func (t ArrayType) Equal(o Type) bool {
	other, ok := o.(ArrayType)
	return ok && t.Width == other.Width && t.Sub.Equal(other.Sub)
}

func (t ArrayType) ConvertibleTo(o Type) bool {
	other, ok := o.(ArrayType)
	if !ok || t.Width != other.Width {
		return false
	}
	return t.Sub.ConvertibleTo(other.Sub)
}

func (t ArrayType) RenderCpp() string {
	if t.Width == UnknownWidth {
		return fmt.Sprintf("std::vector<%s>", t.Sub.RenderCpp())
	}
	return fmt.Sprintf("std::array<%s, %d>", t.Sub.RenderCpp(), t.Width)
}

func (t ArrayType) String() string {
	if t.Width == UnknownWidth {
		return fmt.Sprintf("Array(%s, unknown)", t.Sub)
	}
	return fmt.Sprintf("Array(%s, %d)", t.Sub, t.Width)
}

func (t ArrayType) Default() (Value, bool) {
	if t.Width == UnknownWidth {
		return NewArrayValue(nil), true
	}
	elem, ok := t.Sub.Default()
	if !ok {
		return nil, false
	}
	items := make([]Value, t.Width)
	for i := range items {
		items[i] = elem
	}
	return NewArrayValue(items), true
}

// ---- Tuple ----

type TupleType struct{ Elems []Type }

func NewTupleType(elems []Type) TupleType { return TupleType{Elems: elems} }

func (t TupleType) Kind() TypeKind { return KindTuple }

func (t TupleType) Equal(o Type) bool {
	other, ok := o.(TupleType)
	if !ok || len(t.Elems) != len(other.Elems) {
		return false
	}
	for i, e := range t.Elems {
		if !e.Equal(other.Elems[i]) {
			return false
		}
	}
	return true
}

func (t TupleType) ConvertibleTo(o Type) bool {
	other, ok := o.(TupleType)
	if !ok || len(t.Elems) != len(other.Elems) {
		return false
	}
	for i, e := range t.Elems {
		if !e.ConvertibleTo(other.Elems[i]) {
			return false
		}
	}
	return true
}

func (t TupleType) RenderCpp() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.RenderCpp()
	}
	return fmt.Sprintf("std::tuple<%s>", strings.Join(parts, ", "))
}

func (t TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Tuple(%s)", strings.Join(parts, ", "))
}

func (t TupleType) Default() (Value, bool) {
	items := make([]Value, len(t.Elems))
	for i, e := range t.Elems {
		v, ok := e.Default()
		if !ok {
			return nil, false
		}
		items[i] = v
	}
	return NewTupleValue(items), true
}

// ---- Struct ----

type StructField struct {
	Name string
	Type Type
}

type StructType struct {
	Name   string
	Fields []StructField
}

func NewStructType(name string, fields []StructField) *StructType {
	return &StructType{Name: name, Fields: fields}
}

func (t *StructType) Kind() TypeKind { return KindStruct }

func (t *StructType) Equal(o Type) bool {
	other, ok := o.(*StructType)
	return ok && t.Name == other.Name
}

func (t *StructType) ConvertibleTo(o Type) bool {
	other, ok := o.(*StructType)
	return ok && t.Name == other.Name
}

func (t *StructType) RenderCpp() string { return t.Name }
func (t *StructType) String() string    { return fmt.Sprintf("Struct(%s)", t.Name) }

func (t *StructType) FieldType(name string) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

func (t *StructType) Default() (Value, bool) {
	fields := make(map[string]Value, len(t.Fields))
	for _, f := range t.Fields {
		v, ok := f.Type.Default()
		if !ok {
			return nil, false
		}
		fields[f.Name] = v
	}
	return NewStructValue(t.Name, fields), true
}

// ---- Csr ----

// CsrAccess is the hardware access policy of a CSR field.
type CsrAccess int

const (
	CsrAccessRO CsrAccess = iota
	CsrAccessROH
	CsrAccessRW
	CsrAccessRWR
	CsrAccessRWH
	CsrAccessRWRH
)

type CsrFieldDescriptor struct {
	Name   string
	Msb    int
	Lsb    int
	Access CsrAccess
	// Type, when set, is a known-constant field type (e.g. an
	// access-policy symbol). Nothing in this package reads it;
	// CompileCsrField works from the type expression it is given.
	Type string
}

// CsrDescriptor is the external, already-resolved metadata for one
// CSR (name, per-xlen width, and field layout). It is supplied by the
// surrounding configuration/resolver system (§1), never constructed
// here.
type CsrDescriptor struct {
	Name       string
	WidthByXlen map[int]int
	Fields     []CsrFieldDescriptor
}

func (c *CsrDescriptor) WidthFor(xlen int) int {
	if w, ok := c.WidthByXlen[xlen]; ok {
		return w
	}
	for _, w := range c.WidthByXlen {
		return w
	}
	return 0
}

type CsrType struct {
	Csr   *CsrDescriptor
	Width int
}

func (t CsrType) Kind() TypeKind { return KindCsr }

func (t CsrType) Equal(o Type) bool {
	other, ok := o.(CsrType)
	return ok && t.Csr.Name == other.Csr.Name
}

func (t CsrType) ConvertibleTo(o Type) bool {
	switch other := o.(type) {
	case CsrType:
		return t.Csr.Name == other.Csr.Name
	case BitsType:
		return true
	default:
		return false
	}
}

func (t CsrType) RenderCpp() string { return fmt.Sprintf("Csr<%s>", mangleIdent(t.Csr.Name)) }
func (t CsrType) String() string    { return fmt.Sprintf("Csr(%s)", t.Csr.Name) }
func (t CsrType) Default() (Value, bool) {
	return NewIntValue(0, t.Width, false), true
}

// ---- Function ----

// FunctionType is the type of a reference to an IDL function
// definition. Call-protocol details (template specialization,
// argument binding) live in symtab.go/analysis.go; the type itself
// only identifies the function.
type FunctionType struct {
	Name           string
	Body           *FunctionDefNode
	DefiningSymtab *Symtab
}

func (t FunctionType) Kind() TypeKind { return KindFunction }

func (t FunctionType) Equal(o Type) bool {
	other, ok := o.(FunctionType)
	return ok && t.Name == other.Name
}

func (t FunctionType) ConvertibleTo(o Type) bool {
	other, ok := o.(FunctionType)
	return ok && t.Name == other.Name
}

func (t FunctionType) RenderCpp() string      { return mangleIdent(t.Name) }
func (t FunctionType) String() string         { return fmt.Sprintf("Function(%s)", t.Name) }
func (t FunctionType) Default() (Value, bool) { return nil, false }

// ---- JSON Schema construction ----

// TypeFromJSONSchema builds a Type from an already-decoded JSON Schema
// document (as produced by encoding/json's map[string]any decoding),
// as used by the parameter layer (§4.1). Supported "type" values:
// boolean, integer (optionally with "width"), string, and array (with
// "items" and optionally "minItems"==("maxItems") for a fixed length).
func TypeFromJSONSchema(schema map[string]any) (Type, error) {
	rawType, _ := schema["type"].(string)
	switch rawType {
	case "boolean":
		return BooleanType{}, nil

	case "integer":
		width := UnknownWidth
		if w, ok := schema["width"]; ok {
			width = int(toFloat(w))
		}
		signed, _ := schema["signed"].(bool)
		return BitsType{Width: width, Bound: NoBound, Signed: signed}, nil

	case "string":
		return StringType{Width: UnknownWidth}, nil

	case "array":
		itemsRaw, ok := schema["items"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("array schema missing \"items\"")
		}
		sub, err := TypeFromJSONSchema(itemsRaw)
		if err != nil {
			return nil, err
		}
		width := UnknownWidth
		if minV, ok := schema["minItems"]; ok {
			if maxV, ok := schema["maxItems"]; ok {
				if toFloat(minV) == toFloat(maxV) {
					width = int(toFloat(minV))
				}
			}
		}
		return NewArrayType(sub, width), nil

	default:
		return nil, fmt.Errorf("unsupported JSON schema type %q", rawType)
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// sortedKeys returns a map's keys in sorted order; StructValue uses it
// to render its fields deterministically (§8 property 7).
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

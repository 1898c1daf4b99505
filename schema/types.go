package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Id is a type reference: by registered name (optionally with generic
// type arguments), by positional index into a registry, or an inline
// anonymous type expression.
type Id interface {
	isId()
	String() string
}

// Name references a type by registered name. Args carries generic type
// arguments for instantiation sites like Pair<u8>.
type Name struct {
	Name string
	Args []Id
}

func (Name) isId() {}

func (n Name) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "<" + strings.Join(args, ",") + ">"
}

// Num references a type by positional index into the registry's
// definition list.
type Num uint32

func (Num) isId() {}

func (n Num) String() string {
	return strconv.FormatUint(uint64(n), 10)
}

// Inline embeds an anonymous type expression in reference position.
type Inline struct {
	Type Type
}

func (Inline) isId() {}

func (i Inline) String() string {
	return i.Type.String()
}

// Type is the closed set of wire type shapes.
type Type interface {
	isType()
	String() string
}

// Primitive is a fixed-width integer, bool, or string type.
type Primitive int

const (
	U8 Primitive = iota
	U16
	U32
	U64
	U128
	I8
	I16
	I32
	I64
	I128
	Bool
	Str
)

var primitiveNames = map[string]Primitive{
	"u8":   U8,
	"u16":  U16,
	"u32":  U32,
	"u64":  U64,
	"u128": U128,
	"i8":   I8,
	"i16":  I16,
	"i32":  I32,
	"i64":  I64,
	"i128": I128,
	"bool": Bool,
	"str":  Str,
}

// PrimitiveByName returns the primitive named by s, if any.
func PrimitiveByName(s string) (Primitive, bool) {
	p, ok := primitiveNames[s]
	return p, ok
}

func (Primitive) isType() {}

func (p Primitive) String() string {
	switch p {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case U128:
		return "u128"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case I128:
		return "i128"
	case Bool:
		return "bool"
	case Str:
		return "str"
	}
	return fmt.Sprintf("primitive(%d)", int(p))
}

// Bits returns the width of an integer primitive, or 0 for bool/str.
func (p Primitive) Bits() int {
	switch p {
	case U8, I8:
		return 8
	case U16, I16:
		return 16
	case U32, I32:
		return 32
	case U64, I64:
		return 64
	case U128, I128:
		return 128
	}
	return 0
}

// Signed reports whether the primitive is a signed integer.
func (p Primitive) Signed() bool {
	switch p {
	case I8, I16, I32, I64, I128:
		return true
	}
	return false
}

// Compact wraps a primitive integer type (or the empty tuple) in the
// variable-length compact integer encoding.
type Compact struct {
	Elem Id
}

func (Compact) isType() {}

func (c Compact) String() string {
	return "@" + c.Elem.String()
}

// Seq is a length-prefixed homogeneous sequence.
type Seq struct {
	Elem Id
}

func (Seq) isType() {}

func (s Seq) String() string {
	return "[" + s.Elem.String() + "]"
}

// Tuple is a fixed heterogeneous sequence encoded positionally with no
// length prefix.
type Tuple struct {
	Elems []Id
}

func (Tuple) isType() {}

func (t Tuple) String() string {
	elems := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.String()
	}
	return "(" + strings.Join(elems, ",") + ")"
}

// Array is a fixed-length homogeneous sequence with no length prefix.
type Array struct {
	Elem Id
	Len  uint32
}

func (Array) isType() {}

func (a Array) String() string {
	return fmt.Sprintf("[%s;%d]", a.Elem.String(), a.Len)
}

// Variant is one case of an Enum. Payload is nil for payload-less
// variants; Tag is nil when the discriminant is the declaration index.
type Variant struct {
	Payload Id
	Tag     *uint32
	Name    string
}

func (v Variant) String() string {
	var b strings.Builder
	b.WriteString(v.Name)
	if v.Payload != nil {
		b.WriteByte(':')
		b.WriteString(v.Payload.String())
	}
	if v.Tag != nil {
		if v.Payload == nil {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, ":%d", *v.Tag)
	}
	return b.String()
}

// Enum is an ordered list of variants discriminated by a one-byte tag.
type Enum struct {
	Variants []Variant
}

func (Enum) isType() {}

func (e Enum) String() string {
	variants := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		variants[i] = v.String()
	}
	return "<" + strings.Join(variants, ",") + ">"
}

// VariantByName finds a variant by name and returns it together with
// its wire discriminant (explicit tag, or declaration index).
func (e Enum) VariantByName(name string) (Variant, uint32, bool) {
	for i, v := range e.Variants {
		if v.Name == name {
			if v.Tag != nil {
				return v, *v.Tag, true
			}
			return v, uint32(i), true
		}
	}
	return Variant{}, 0, false
}

// VariantByTag resolves a decoded discriminant byte. The
// position-matching index is checked first; when the positional variant
// carries a different explicit tag (or the tag is out of range), a full
// linear scan matches on explicit discriminants. This supports
// non-contiguous, reordered, and sparse tag assignments.
func (e Enum) VariantByTag(tag byte) (Variant, bool) {
	if int(tag) < len(e.Variants) {
		v := e.Variants[tag]
		if v.Tag == nil || *v.Tag == uint32(tag) {
			return v, true
		}
	}
	for _, v := range e.Variants {
		if v.Tag != nil && *v.Tag == uint32(tag) {
			return v, true
		}
	}
	return Variant{}, false
}

// VariantNames returns the declared variant names in order.
func (e Enum) VariantNames() []string {
	names := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		names[i] = v.Name
	}
	return names
}

// Field is a named struct field.
type Field struct {
	Type Id
	Name string
}

// Struct is an ordered list of named fields encoded in declaration
// order.
type Struct struct {
	Fields []Field
}

func (Struct) isType() {}

func (s Struct) String() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = f.Name + ":" + f.Type.String()
	}
	return "{" + strings.Join(fields, ",") + "}"
}

// Alias transparently forwards to another type. Resolution replaces it
// before any encode or decode; a resolved shape never contains one.
type Alias struct {
	Target Id
}

func (Alias) isType() {}

func (a Alias) String() string {
	return a.Target.String()
}

// TypeDef is one parsed definition. Name is empty for anonymous
// definitions, which participate only by positional index. TypeParams
// holds generic parameter names for definitions like Pair<T>.
type TypeDef struct {
	Type       Type
	Name       string
	TypeParams []string
}

func (d TypeDef) String() string {
	if d.Name == "" {
		return d.Type.String()
	}
	name := d.Name
	if len(d.TypeParams) > 0 {
		name += "<" + strings.Join(d.TypeParams, ",") + ">"
	}
	return name + "=" + d.Type.String()
}

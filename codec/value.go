package codec

import "math/big"

// Value is the read capability the encoder requires from a dynamic
// value representation. The codec assumes nothing about the concrete
// representation beyond these operations; see the dynamic and ctyval
// packages for implementations.
type Value interface {
	// AsUint coerces to an unsigned integer of the given bit width
	// (8, 16, 32 or 64), failing when the value does not fit.
	AsUint(bits int) (uint64, error)

	// AsInt coerces to a signed integer of the given bit width.
	AsInt(bits int) (int64, error)

	// AsBig coerces to an arbitrary-precision integer, range-checked
	// against the given width. Used for the 128-bit primitives.
	AsBig(bits int, signed bool) (*big.Int, error)

	AsBool() (bool, error)
	AsString() (string, error)

	// AsBytes reads the value as a contiguous byte buffer, accepting
	// either a native byte-buffer value or a hex-encoded string. The
	// second result is false when the value is neither; the byte fast
	// paths then fall through to element-wise encoding.
	AsBytes() ([]byte, bool, error)

	// Len returns the element count of a sequence, tuple or array
	// value.
	Len() (int, error)

	// Index returns the element at position i.
	Index(i int) (Value, error)

	// Field returns the named property of a struct-like value.
	Field(name string) (Value, error)

	// Entries iterates a mapping's key/value pairs. Enum encoding
	// expects a single-entry mapping whose key names the variant.
	Entries() ([]Entry, error)
}

// Entry is one key/value pair of a mapping value.
type Entry struct {
	Value Value
	Key   string
}

// Factory is the construction capability the decoder requires. Decoded
// aggregates preserve append and insertion order.
type Factory interface {
	Uint(bits int, v uint64) Value
	Int(bits int, v int64) Value
	Big(bits int, signed bool, v *big.Int) Value
	Bool(v bool) Value
	String(s string) Value
	Bytes(b []byte) Value

	// Null is the payload of a payload-less enum variant.
	Null() Value

	Array() ArrayBuilder
	Object() ObjectBuilder
}

// ArrayBuilder accumulates an ordered sequence value.
type ArrayBuilder interface {
	Append(v Value)
	Value() Value
}

// ObjectBuilder accumulates a named-field value in insertion order.
type ObjectBuilder interface {
	Set(name string, v Value)
	Value() Value
}

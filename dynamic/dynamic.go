package dynamic

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/errors"
)

// Bytes is a byte-buffer value. It marshals to JSON as a 0x-prefixed
// hex string, the same form the encoder accepts back.
type Bytes []byte

func (b Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(b))
}

// Object is a named-field value that preserves insertion order, so a
// decoded struct keeps its declaration order through JSON round trips.
type Object struct {
	fields map[string]any
	keys   []string
}

func NewObject() *Object {
	return &Object{fields: make(map[string]any)}
}

func (o *Object) Set(name string, v any) {
	if _, ok := o.fields[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.fields[name] = v
}

func (o *Object) Get(name string) (any, bool) {
	v, ok := o.fields[name]
	return v, ok
}

// Keys returns the field names in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(o.fields[k])
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// Wrap adapts a native Go value to the codec's Value capability.
// Supported representations: integers (including json.Number and
// *big.Int), bool, string (hex strings double as byte buffers), []byte
// and Bytes, []any slices, map[string]any, *Object, and nil.
func Wrap(v any) codec.Value {
	if cv, ok := v.(codec.Value); ok {
		return cv
	}
	return value{v: v}
}

// Interface returns the native Go representation underlying a value
// produced by Wrap or by NewFactory's decoder output.
func Interface(v codec.Value) any {
	if dv, ok := v.(value); ok {
		return dv.v
	}
	return v
}

type value struct {
	v any
}

func coerceErr(v any, want string) error {
	return errors.TypeMismatch(errors.PhaseEncode, nil, want, fmt.Sprintf("cannot coerce %T (%v)", v, v))
}

// asBig normalizes every supported numeric representation to a big
// integer; non-integral floats are rejected.
func (v value) asBig() (*big.Int, error) {
	switch n := v.v.(type) {
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, coerceErr(v.v, "integer")
		}
		f := new(big.Float).SetFloat64(n)
		out, _ := f.Int(nil)
		return out, nil
	case json.Number:
		out, ok := new(big.Int).SetString(n.String(), 10)
		if !ok {
			return nil, coerceErr(v.v, "integer")
		}
		return out, nil
	case *big.Int:
		return new(big.Int).Set(n), nil
	}
	return nil, coerceErr(v.v, "integer")
}

func (v value) AsUint(bits int) (uint64, error) {
	b, err := v.asBig()
	if err != nil {
		return 0, err
	}
	if b.Sign() < 0 || b.BitLen() > bits {
		return 0, errors.Overflow(errors.PhaseEncode, v.v, fmt.Sprintf("u%d", bits))
	}
	return b.Uint64(), nil
}

func (v value) AsInt(bits int) (int64, error) {
	b, err := v.asBig()
	if err != nil {
		return 0, err
	}
	if !b.IsInt64() {
		return 0, errors.Overflow(errors.PhaseEncode, v.v, fmt.Sprintf("i%d", bits))
	}
	n := b.Int64()
	if bits < 64 {
		lo := int64(-1) << uint(bits-1)
		hi := int64(1)<<uint(bits-1) - 1
		if n < lo || n > hi {
			return 0, errors.Overflow(errors.PhaseEncode, v.v, fmt.Sprintf("i%d", bits))
		}
	}
	return n, nil
}

func (v value) AsBig(bits int, signed bool) (*big.Int, error) {
	b, err := v.asBig()
	if err != nil {
		return nil, err
	}
	kind := "u"
	if signed {
		kind = "i"
	}
	if signed {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		hi := new(big.Int).Sub(limit, big.NewInt(1))
		lo := new(big.Int).Neg(limit)
		if b.Cmp(lo) < 0 || b.Cmp(hi) > 0 {
			return nil, errors.Overflow(errors.PhaseEncode, v.v, fmt.Sprintf("%s%d", kind, bits))
		}
	} else if b.Sign() < 0 || b.BitLen() > bits {
		return nil, errors.Overflow(errors.PhaseEncode, v.v, fmt.Sprintf("%s%d", kind, bits))
	}
	return b, nil
}

func (v value) AsBool() (bool, error) {
	if b, ok := v.v.(bool); ok {
		return b, nil
	}
	return false, coerceErr(v.v, "bool")
}

func (v value) AsString() (string, error) {
	if s, ok := v.v.(string); ok {
		return s, nil
	}
	return "", coerceErr(v.v, "str")
}

func (v value) AsBytes() ([]byte, bool, error) {
	switch b := v.v.(type) {
	case Bytes:
		return b, true, nil
	case []byte:
		return b, true, nil
	case string:
		data, err := DecodeHex(b)
		if err != nil {
			return nil, true, err
		}
		return data, true, nil
	}
	return nil, false, nil
}

// DecodeHex decodes a hex string with an optional 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	trimmed := strings.TrimPrefix(s, "0x")
	data, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, errors.InvalidData(errors.PhaseEncode, fmt.Sprintf("invalid hex string %q", s))
	}
	return data, nil
}

func (v value) Len() (int, error) {
	switch s := v.v.(type) {
	case []any:
		return len(s), nil
	case Bytes:
		return len(s), nil
	case []byte:
		return len(s), nil
	case string:
		return len(s), nil
	}
	return 0, coerceErr(v.v, "sequence")
}

func (v value) Index(i int) (codec.Value, error) {
	s, ok := v.v.([]any)
	if !ok {
		return nil, coerceErr(v.v, "sequence")
	}
	if i < 0 || i >= len(s) {
		return nil, errors.New(errors.PhaseEncode, errors.KindLengthMismatch).
			Detail("index %d out of range (length %d)", i, len(s)).
			Build()
	}
	return Wrap(s[i]), nil
}

func (v value) Field(name string) (codec.Value, error) {
	switch m := v.v.(type) {
	case map[string]any:
		f, ok := m[name]
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseEncode, []string{name}, "", "missing field")
		}
		return Wrap(f), nil
	case *Object:
		f, ok := m.Get(name)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseEncode, []string{name}, "", "missing field")
		}
		return Wrap(f), nil
	}
	return nil, coerceErr(v.v, "struct")
}

func (v value) Entries() ([]codec.Entry, error) {
	switch m := v.v.(type) {
	case map[string]any:
		out := make([]codec.Entry, 0, len(m))
		for k, e := range m {
			out = append(out, codec.Entry{Key: k, Value: Wrap(e)})
		}
		return out, nil
	case *Object:
		out := make([]codec.Entry, 0, len(m.keys))
		for _, k := range m.keys {
			out = append(out, codec.Entry{Key: k, Value: Wrap(m.fields[k])})
		}
		return out, nil
	}
	return nil, coerceErr(v.v, "enum mapping")
}

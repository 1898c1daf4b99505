package ctyval

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/errors"
)

// Wrap adapts a cty value to the codec's Value capability. Numbers
// must be integral in integer contexts; strings double as byte buffers
// when they hold 0x-prefixed hex.
func Wrap(v cty.Value) codec.Value {
	return value{v: v}
}

// Unwrap recovers the cty value behind a Wrap or Factory result.
func Unwrap(v codec.Value) (cty.Value, bool) {
	cv, ok := v.(value)
	if !ok {
		return cty.NilVal, false
	}
	return cv.v, true
}

type value struct {
	v cty.Value
}

func coerceErr(v cty.Value, want string) error {
	return errors.TypeMismatch(errors.PhaseEncode, nil, want,
		fmt.Sprintf("cannot coerce %s value", v.Type().FriendlyName()))
}

func (v value) asBig() (*big.Int, error) {
	if v.v.IsNull() || !v.v.Type().Equals(cty.Number) {
		return nil, coerceErr(v.v, "integer")
	}
	bf := v.v.AsBigFloat()
	if !bf.IsInt() {
		return nil, coerceErr(v.v, "integer")
	}
	out, _ := bf.Int(nil)
	return out, nil
}

func (v value) AsUint(bits int) (uint64, error) {
	b, err := v.asBig()
	if err != nil {
		return 0, err
	}
	if b.Sign() < 0 || b.BitLen() > bits {
		return 0, errors.Overflow(errors.PhaseEncode, b, fmt.Sprintf("u%d", bits))
	}
	return b.Uint64(), nil
}

func (v value) AsInt(bits int) (int64, error) {
	b, err := v.asBig()
	if err != nil {
		return 0, err
	}
	if !b.IsInt64() {
		return 0, errors.Overflow(errors.PhaseEncode, b, fmt.Sprintf("i%d", bits))
	}
	n := b.Int64()
	if bits < 64 {
		lo := int64(-1) << uint(bits-1)
		hi := int64(1)<<uint(bits-1) - 1
		if n < lo || n > hi {
			return 0, errors.Overflow(errors.PhaseEncode, b, fmt.Sprintf("i%d", bits))
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
			return nil, errors.Overflow(errors.PhaseEncode, b, fmt.Sprintf("%s%d", kind, bits))
		}
	} else if b.Sign() < 0 || b.BitLen() > bits {
		return nil, errors.Overflow(errors.PhaseEncode, b, fmt.Sprintf("%s%d", kind, bits))
	}
	return b, nil
}

func (v value) AsBool() (bool, error) {
	if v.v.IsNull() || !v.v.Type().Equals(cty.Bool) {
		return false, coerceErr(v.v, "bool")
	}
	return v.v.True(), nil
}

func (v value) AsString() (string, error) {
	if v.v.IsNull() || !v.v.Type().Equals(cty.String) {
		return "", coerceErr(v.v, "str")
	}
	return v.v.AsString(), nil
}

func (v value) AsBytes() ([]byte, bool, error) {
	if v.v.IsNull() || !v.v.Type().Equals(cty.String) {
		return nil, false, nil
	}
	s := v.v.AsString()
	if len(s) < 2 || s[0] != '0' || s[1] != 'x' {
		return nil, true, errors.InvalidData(errors.PhaseEncode,
			fmt.Sprintf("invalid hex string %q", s))
	}
	data, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, true, errors.InvalidData(errors.PhaseEncode,
			fmt.Sprintf("invalid hex string %q", s))
	}
	return data, true, nil
}

func (v value) Len() (int, error) {
	if v.v.IsNull() || !v.v.CanIterateElements() {
		return 0, coerceErr(v.v, "sequence")
	}
	return v.v.LengthInt(), nil
}

func (v value) Index(i int) (codec.Value, error) {
	ty := v.v.Type()
	if v.v.IsNull() || !(ty.IsTupleType() || ty.IsListType() || ty.IsSetType()) {
		return nil, coerceErr(v.v, "sequence")
	}
	if i < 0 || i >= v.v.LengthInt() {
		return nil, errors.New(errors.PhaseEncode, errors.KindLengthMismatch).
			Detail("index %d out of range (length %d)", i, v.v.LengthInt()).
			Build()
	}
	if ty.IsSetType() {
		elems := v.v.AsValueSlice()
		return value{v: elems[i]}, nil
	}
	return value{v: v.v.Index(cty.NumberIntVal(int64(i)))}, nil
}

func (v value) Field(name string) (codec.Value, error) {
	ty := v.v.Type()
	switch {
	case v.v.IsNull():
	case ty.IsObjectType():
		if !ty.HasAttribute(name) {
			return nil, errors.TypeMismatch(errors.PhaseEncode, []string{name}, "", "missing field")
		}
		return value{v: v.v.GetAttr(name)}, nil
	case ty.IsMapType():
		key := cty.StringVal(name)
		if !v.v.HasIndex(key).True() {
			return nil, errors.TypeMismatch(errors.PhaseEncode, []string{name}, "", "missing field")
		}
		return value{v: v.v.Index(key)}, nil
	}
	return nil, coerceErr(v.v, "struct")
}

func (v value) Entries() ([]codec.Entry, error) {
	ty := v.v.Type()
	switch {
	case v.v.IsNull():
	case ty.IsObjectType():
		names := make([]string, 0, len(ty.AttributeTypes()))
		for name := range ty.AttributeTypes() {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make([]codec.Entry, 0, len(names))
		for _, name := range names {
			out = append(out, codec.Entry{Key: name, Value: value{v: v.v.GetAttr(name)}})
		}
		return out, nil
	case ty.IsMapType():
		out := make([]codec.Entry, 0, v.v.LengthInt())
		for it := v.v.ElementIterator(); it.Next(); {
			k, e := it.Element()
			out = append(out, codec.Entry{Key: k.AsString(), Value: value{v: e}})
		}
		return out, nil
	}
	return nil, coerceErr(v.v, "enum mapping")
}

package codec

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"strings"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/schema"
)

// MaxDepth bounds the encode/decode recursion. Type definitions and
// payloads are caller-controlled, so without a limit hostile nesting
// could exhaust the stack.
const MaxDepth = 128

// Encode appends the canonical encoding of value as the referenced type
// to a fresh buffer.
func Encode(value Value, id schema.Id, reg *registry.Registry) ([]byte, error) {
	var buf bytes.Buffer
	e := &encoder{reg: reg, out: &buf}
	if err := e.encode(value, id, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeAll encodes the positional elements of values against the
// corresponding type references, joined into one buffer.
func EncodeAll(values Value, ids []schema.Id, reg *registry.Registry) ([]byte, error) {
	var buf bytes.Buffer
	e := &encoder{reg: reg, out: &buf}
	for i, id := range ids {
		sub, err := values.Index(i)
		if err != nil {
			return nil, err
		}
		if err := e.encode(sub, id, 0); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

type encoder struct {
	reg *registry.Registry
	out *bytes.Buffer
}

func (e *encoder) encode(value Value, id schema.Id, depth int) error {
	if depth >= MaxDepth {
		return errors.DepthExceeded(errors.PhaseEncode, MaxDepth)
	}
	t, err := e.reg.Resolve(id, true)
	if err != nil {
		return err
	}

	switch ty := t.(type) {
	case schema.Primitive:
		return e.encodePrimitive(value, ty)

	case schema.Compact:
		// The wrapped reference resolves without literal fallback;
		// the shape has already been interpreted once.
		inner, err := e.reg.Resolve(ty.Elem, false)
		if err != nil {
			return err
		}
		return e.encodeCompact(value, inner)

	case schema.Seq:
		elem, err := e.reg.Resolve(ty.Elem, false)
		if err != nil {
			return err
		}
		if elem == schema.U8 {
			if data, ok, err := value.AsBytes(); err != nil {
				return err
			} else if ok {
				WriteCompact(e.out, uint64(len(data)))
				e.out.Write(data)
				return nil
			}
		}
		length, err := value.Len()
		if err != nil {
			return err
		}
		WriteCompact(e.out, uint64(length))
		for i := 0; i < length; i++ {
			sub, err := value.Index(i)
			if err != nil {
				return err
			}
			if err := e.encode(sub, ty.Elem, depth+1); err != nil {
				return err
			}
		}
		return nil

	case schema.Tuple:
		for i, elem := range ty.Elems {
			sub, err := value.Index(i)
			if err != nil {
				return err
			}
			if err := e.encode(sub, elem, depth+1); err != nil {
				return err
			}
		}
		return nil

	case schema.Array:
		want := int(ty.Len)
		elem, err := e.reg.Resolve(ty.Elem, false)
		if err != nil {
			return err
		}
		if elem == schema.U8 {
			if data, ok, err := value.AsBytes(); err != nil {
				return err
			} else if ok {
				if len(data) != want {
					return errors.LengthMismatch(errors.PhaseEncode, want, len(data))
				}
				e.out.Write(data)
				return nil
			}
		}
		length, err := value.Len()
		if err != nil {
			return err
		}
		if length != want {
			return errors.LengthMismatch(errors.PhaseEncode, want, length)
		}
		for i := 0; i < want; i++ {
			sub, err := value.Index(i)
			if err != nil {
				return err
			}
			if err := e.encode(sub, ty.Elem, depth+1); err != nil {
				return err
			}
		}
		return nil

	case schema.Enum:
		return e.encodeEnum(value, ty, depth)

	case schema.Struct:
		for _, field := range ty.Fields {
			sub, err := value.Field(field.Name)
			if err != nil {
				return err
			}
			if err := e.encode(sub, field.Type, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	// Alias never survives resolution.
	return errors.New(errors.PhaseEncode, errors.KindInvalidData).
		Detail("unresolved type shape %T", t).
		Build()
}

func (e *encoder) encodeEnum(value Value, ty schema.Enum, depth int) error {
	entries, err := value.Entries()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		variant, disc, ok := ty.VariantByName(entry.Key)
		if !ok {
			continue
		}
		if disc > 0xff {
			return errors.New(errors.PhaseEncode, errors.KindOverflow).
				Detail("Variant index %d is too large", disc).
				Build()
		}
		e.out.WriteByte(byte(disc))
		if variant.Payload != nil {
			return e.encode(entry.Value, variant.Payload, depth+1)
		}
		return nil
	}
	return errors.New(errors.PhaseEncode, errors.KindUnknownVariant).
		Detail("expected enum with any variant of %s", strings.Join(ty.VariantNames(), ", ")).
		Build()
}

func (e *encoder) encodePrimitive(value Value, p schema.Primitive) error {
	switch p {
	case schema.Bool:
		b, err := value.AsBool()
		if err != nil {
			return err
		}
		if b {
			e.out.WriteByte(1)
		} else {
			e.out.WriteByte(0)
		}
		return nil

	case schema.Str:
		s, err := value.AsString()
		if err != nil {
			return err
		}
		WriteCompact(e.out, uint64(len(s)))
		e.out.WriteString(s)
		return nil

	case schema.U128, schema.I128:
		v, err := value.AsBig(128, p.Signed())
		if err != nil {
			return err
		}
		return e.writeBig128(v, p.Signed())
	}

	if p.Signed() {
		v, err := value.AsInt(p.Bits())
		if err != nil {
			return err
		}
		e.writeUintLE(uint64(v), p.Bits()/8)
		return nil
	}
	v, err := value.AsUint(p.Bits())
	if err != nil {
		return err
	}
	e.writeUintLE(v, p.Bits()/8)
	return nil
}

func (e *encoder) encodeCompact(value Value, inner schema.Type) error {
	switch ty := inner.(type) {
	case schema.Primitive:
		switch ty {
		case schema.U8, schema.U16, schema.U32, schema.U64:
			v, err := value.AsUint(ty.Bits())
			if err != nil {
				return err
			}
			WriteCompact(e.out, v)
			return nil
		case schema.U128:
			v, err := value.AsBig(128, false)
			if err != nil {
				return err
			}
			return WriteCompactBig(e.out, v)
		}
	case schema.Tuple:
		// Compact of the empty tuple is the canonical unit encoding:
		// zero bytes on the wire.
		if len(ty.Elems) == 0 {
			return nil
		}
	}
	return errCompactable(errors.PhaseEncode)
}

// errCompactable reports a compact wrapper applied to a shape that the
// compact encoding cannot carry.
func errCompactable(phase errors.Phase) error {
	return errors.TypeMismatch(phase, nil, "compact", "expected an unsigned integer or () for compact")
}

func (e *encoder) writeUintLE(v uint64, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	e.out.Write(buf[:n])
}

// writeBig128 writes a 16-byte little-endian integer, two's complement
// for signed values.
func (e *encoder) writeBig128(v *big.Int, signed bool) error {
	x := v
	if signed {
		if v.Cmp(big128MinI) < 0 || v.Cmp(big128MaxI) > 0 {
			return errors.Overflow(errors.PhaseEncode, v, "i128")
		}
		if v.Sign() < 0 {
			x = new(big.Int).Add(v, big128Mod)
		}
	} else {
		if v.Sign() < 0 || v.BitLen() > 128 {
			return errors.Overflow(errors.PhaseEncode, v, "u128")
		}
	}
	var buf [16]byte
	x.FillBytes(buf[:])
	reverse(buf[:])
	e.out.Write(buf[:])
	return nil
}

// big128Mod is 2^128, used for two's complement conversion.
var (
	big128Mod  = new(big.Int).Lsh(big.NewInt(1), 128)
	big128MaxI = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	big128MinI = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

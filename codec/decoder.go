package codec

import (
	"encoding/binary"
	"math/big"
	"unicode/utf8"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/schema"
)

// Decode reads one value of the referenced type from the cursor,
// constructing the result through the factory. Bytes past the decoded
// value are left unread.
func Decode(c *Cursor, id schema.Id, reg *registry.Registry, f Factory) (Value, error) {
	d := &decoder{reg: reg, f: f, c: c}
	return d.decode(id, 0)
}

// DecodeAll splits one buffer into a value per type reference,
// consumed sequentially.
func DecodeAll(c *Cursor, ids []schema.Id, reg *registry.Registry, f Factory) ([]Value, error) {
	d := &decoder{reg: reg, f: f, c: c}
	out := make([]Value, 0, len(ids))
	for _, id := range ids {
		v, err := d.decode(id, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type decoder struct {
	reg *registry.Registry
	f   Factory
	c   *Cursor
}

func (d *decoder) decode(id schema.Id, depth int) (Value, error) {
	if depth >= MaxDepth {
		return nil, errors.DepthExceeded(errors.PhaseDecode, MaxDepth)
	}
	t, err := d.reg.Resolve(id, true)
	if err != nil {
		return nil, err
	}

	switch ty := t.(type) {
	case schema.Primitive:
		return d.decodePrimitive(ty)

	case schema.Compact:
		inner, err := d.reg.Resolve(ty.Elem, false)
		if err != nil {
			return nil, err
		}
		return d.decodeCompact(inner)

	case schema.Seq:
		elem, err := d.reg.Resolve(ty.Elem, false)
		if err != nil {
			return nil, err
		}
		if elem == schema.U8 {
			data, err := d.readByteSeq()
			if err != nil {
				return nil, err
			}
			return d.f.Bytes(data), nil
		}
		length, err := ReadCompact(d.c, 32)
		if err != nil {
			return nil, err
		}
		arr := d.f.Array()
		for i := uint64(0); i < length; i++ {
			sub, err := d.decode(ty.Elem, depth+1)
			if err != nil {
				return nil, err
			}
			arr.Append(sub)
		}
		return arr.Value(), nil

	case schema.Tuple:
		arr := d.f.Array()
		for _, elem := range ty.Elems {
			sub, err := d.decode(elem, depth+1)
			if err != nil {
				return nil, err
			}
			arr.Append(sub)
		}
		return arr.Value(), nil

	case schema.Array:
		elem, err := d.reg.Resolve(ty.Elem, false)
		if err != nil {
			return nil, err
		}
		if elem == schema.U8 {
			data, err := d.c.ReadBytes(int(ty.Len))
			if err != nil {
				return nil, err
			}
			out := make([]byte, len(data))
			copy(out, data)
			return d.f.Bytes(out), nil
		}
		arr := d.f.Array()
		for i := uint32(0); i < ty.Len; i++ {
			sub, err := d.decode(ty.Elem, depth+1)
			if err != nil {
				return nil, err
			}
			arr.Append(sub)
		}
		return arr.Value(), nil

	case schema.Enum:
		tag, err := d.c.ReadByte()
		if err != nil {
			return nil, err
		}
		variant, ok := ty.VariantByTag(tag)
		if !ok {
			return nil, errors.UnknownVariant(errors.PhaseDecode, tag)
		}
		obj := d.f.Object()
		if variant.Payload != nil {
			sub, err := d.decode(variant.Payload, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(variant.Name, sub)
		} else {
			obj.Set(variant.Name, d.f.Null())
		}
		return obj.Value(), nil

	case schema.Struct:
		obj := d.f.Object()
		for _, field := range ty.Fields {
			sub, err := d.decode(field.Type, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(field.Name, sub)
		}
		return obj.Value(), nil
	}

	return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Detail("unresolved type shape %T", t).
		Build()
}

// readByteSeq reads a compact length followed by that many raw bytes,
// copied out of the cursor's buffer.
func (d *decoder) readByteSeq() ([]byte, error) {
	length, err := ReadCompact(d.c, 32)
	if err != nil {
		return nil, err
	}
	data, err := d.c.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (d *decoder) decodePrimitive(p schema.Primitive) (Value, error) {
	switch p {
	case schema.Bool:
		b, err := d.c.ReadByte()
		if err != nil {
			return nil, err
		}
		switch b {
		case 0:
			return d.f.Bool(false), nil
		case 1:
			return d.f.Bool(true), nil
		}
		return nil, errors.InvalidData(errors.PhaseDecode, "invalid bool encoding")

	case schema.Str:
		data, err := d.readByteSeq()
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(data) {
			return nil, errors.InvalidData(errors.PhaseDecode, "invalid UTF-8 in string")
		}
		return d.f.String(string(data)), nil

	case schema.U128, schema.I128:
		data, err := d.c.ReadBytes(16)
		if err != nil {
			return nil, err
		}
		le := make([]byte, 16)
		copy(le, data)
		reverse(le)
		v := new(big.Int).SetBytes(le)
		if p == schema.I128 && v.Cmp(big128MaxI) > 0 {
			v.Sub(v, big128Mod)
		}
		return d.f.Big(128, p.Signed(), v), nil
	}

	data, err := d.c.ReadBytes(p.Bits() / 8)
	if err != nil {
		return nil, err
	}
	var u uint64
	switch len(data) {
	case 1:
		u = uint64(data[0])
	case 2:
		u = uint64(binary.LittleEndian.Uint16(data))
	case 4:
		u = uint64(binary.LittleEndian.Uint32(data))
	case 8:
		u = binary.LittleEndian.Uint64(data)
	}
	if p.Signed() {
		return d.f.Int(p.Bits(), signExtend(u, p.Bits())), nil
	}
	return d.f.Uint(p.Bits(), u), nil
}

func signExtend(u uint64, bits int) int64 {
	shift := 64 - uint(bits)
	return int64(u<<shift) >> shift
}

func (d *decoder) decodeCompact(inner schema.Type) (Value, error) {
	switch ty := inner.(type) {
	case schema.Primitive:
		switch ty {
		case schema.U8, schema.U16, schema.U32, schema.U64:
			v, err := ReadCompact(d.c, ty.Bits())
			if err != nil {
				return nil, err
			}
			return d.f.Uint(ty.Bits(), v), nil
		case schema.U128:
			v, err := ReadCompactBig(d.c)
			if err != nil {
				return nil, err
			}
			return d.f.Big(128, false, v), nil
		}
	case schema.Tuple:
		// Compact of the empty tuple consumes nothing and yields an
		// empty aggregate.
		if len(ty.Elems) == 0 {
			return d.f.Array().Value(), nil
		}
	}
	return nil, errCompactable(errors.PhaseDecode)
}

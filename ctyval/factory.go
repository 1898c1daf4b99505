package ctyval

import (
	"encoding/hex"
	"math/big"

	"github.com/zclconf/go-cty/cty"

	"github.com/wippyai/scale-codec/codec"
)

// Factory builds decoded values as cty values: numbers for every
// integer width, tuples for aggregates and objects for named fields.
// Byte buffers come back as 0x-prefixed hex strings, the same form the
// encoder accepts.
type Factory struct{}

func NewFactory() Factory { return Factory{} }

func (Factory) Uint(bits int, v uint64) codec.Value {
	return value{v: cty.NumberUIntVal(v)}
}

func (Factory) Int(bits int, v int64) codec.Value {
	return value{v: cty.NumberIntVal(v)}
}

func (Factory) Big(bits int, signed bool, v *big.Int) codec.Value {
	return value{v: cty.NumberVal(new(big.Float).SetInt(v))}
}

func (Factory) Bool(v bool) codec.Value {
	return value{v: cty.BoolVal(v)}
}

func (Factory) String(s string) codec.Value {
	return value{v: cty.StringVal(s)}
}

func (Factory) Bytes(b []byte) codec.Value {
	return value{v: cty.StringVal("0x" + hex.EncodeToString(b))}
}

func (Factory) Null() codec.Value {
	return value{v: cty.NullVal(cty.DynamicPseudoType)}
}

func (Factory) Array() codec.ArrayBuilder {
	return &arrayBuilder{}
}

func (Factory) Object() codec.ObjectBuilder {
	return &objectBuilder{fields: make(map[string]cty.Value)}
}

type arrayBuilder struct {
	items []cty.Value
}

func (b *arrayBuilder) Append(v codec.Value) {
	cv, _ := Unwrap(v)
	b.items = append(b.items, cv)
}

func (b *arrayBuilder) Value() codec.Value {
	if len(b.items) == 0 {
		return value{v: cty.EmptyTupleVal}
	}
	return value{v: cty.TupleVal(b.items)}
}

type objectBuilder struct {
	fields map[string]cty.Value
}

func (b *objectBuilder) Set(name string, v codec.Value) {
	cv, _ := Unwrap(v)
	b.fields[name] = cv
}

func (b *objectBuilder) Value() codec.Value {
	if len(b.fields) == 0 {
		return value{v: cty.EmptyObjectVal}
	}
	return value{v: cty.ObjectVal(b.fields)}
}

package dynamic

import (
	"math/big"

	"github.com/wippyai/scale-codec/codec"
)

// Factory builds decoded values out of native Go data: unsigned and
// signed integers, *big.Int for 128-bit widths, []any for aggregates
// and *Object for named fields.
type Factory struct{}

func NewFactory() Factory { return Factory{} }

func (Factory) Uint(bits int, v uint64) codec.Value {
	return value{v: v}
}

func (Factory) Int(bits int, v int64) codec.Value {
	return value{v: v}
}

func (Factory) Big(bits int, signed bool, v *big.Int) codec.Value {
	return value{v: v}
}

func (Factory) Bool(v bool) codec.Value {
	return value{v: v}
}

func (Factory) String(s string) codec.Value {
	return value{v: s}
}

func (Factory) Bytes(b []byte) codec.Value {
	return value{v: Bytes(b)}
}

func (Factory) Null() codec.Value {
	return value{v: nil}
}

func (Factory) Array() codec.ArrayBuilder {
	return &arrayBuilder{}
}

func (Factory) Object() codec.ObjectBuilder {
	return &objectBuilder{obj: NewObject()}
}

type arrayBuilder struct {
	items []any
}

func (b *arrayBuilder) Append(v codec.Value) {
	b.items = append(b.items, Interface(v))
}

func (b *arrayBuilder) Value() codec.Value {
	if b.items == nil {
		return value{v: []any{}}
	}
	return value{v: b.items}
}

type objectBuilder struct {
	obj *Object
}

func (b *objectBuilder) Set(name string, v codec.Value) {
	b.obj.Set(name, Interface(v))
}

func (b *objectBuilder) Value() codec.Value {
	return value{v: b.obj}
}

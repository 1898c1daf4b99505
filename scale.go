package scale

import (
	"fmt"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/dynamic"
	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/schema"
)

// ParseTypes parses type definition source into a fresh registry.
func ParseTypes(src string) (*registry.Registry, error) {
	return registry.Parse(src)
}

// AppendTypes parses additional definitions into an existing registry.
// Redefinitions of an existing name shadow the earlier entry for name
// lookups; numeric references keep pointing at the original slot.
func AppendTypes(reg *registry.Registry, src string) error {
	return reg.AppendSource(src)
}

// Encode encodes a native Go value (or a codec.Value) as the
// referenced type. typeRef accepts a schema.Id, a type name or
// expression string, or a numeric registry index; types accepts a
// *registry.Registry or raw definition source.
func Encode(value any, typeRef any, types any) ([]byte, error) {
	reg, err := toRegistry(types)
	if err != nil {
		return nil, err
	}
	id, err := toId(typeRef)
	if err != nil {
		return nil, err
	}
	return codec.Encode(dynamic.Wrap(value), id, reg)
}

// EncodeAll encodes the positional elements of values against the
// corresponding type references, concatenated into one buffer.
func EncodeAll(values any, typeRefs []any, types any) ([]byte, error) {
	reg, err := toRegistry(types)
	if err != nil {
		return nil, err
	}
	ids, err := toIds(typeRefs)
	if err != nil {
		return nil, err
	}
	return codec.EncodeAll(dynamic.Wrap(values), ids, reg)
}

// Decode decodes one value of the referenced type from data, returned
// as native Go data. Trailing bytes are ignored.
func Decode(data []byte, typeRef any, types any) (any, error) {
	v, err := DecodeWith(data, typeRef, types, dynamic.NewFactory())
	if err != nil {
		return nil, err
	}
	return dynamic.Interface(v), nil
}

// DecodeWith decodes through a caller-supplied value factory.
func DecodeWith(data []byte, typeRef any, types any, f codec.Factory) (codec.Value, error) {
	reg, err := toRegistry(types)
	if err != nil {
		return nil, err
	}
	id, err := toId(typeRef)
	if err != nil {
		return nil, err
	}
	return codec.Decode(codec.NewCursor(data), id, reg, f)
}

// DecodeAll splits data into one native Go value per type reference.
func DecodeAll(data []byte, typeRefs []any, types any) ([]any, error) {
	reg, err := toRegistry(types)
	if err != nil {
		return nil, err
	}
	ids, err := toIds(typeRefs)
	if err != nil {
		return nil, err
	}
	vals, err := codec.DecodeAll(codec.NewCursor(data), ids, reg, dynamic.NewFactory())
	if err != nil {
		return nil, err
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = dynamic.Interface(v)
	}
	return out, nil
}

// Codec is a reusable binding of type references to a registry. A
// handle built from a slice of references encodes and decodes
// positionally; a single reference handles one value.
type Codec struct {
	reg   *registry.Registry
	ids   []schema.Id
	multi bool
}

// NewCodec builds a reusable codec handle. typeRef accepts the same
// forms as Encode, plus a []any slice for the multi-value path.
func NewCodec(typeRef any, types any) (*Codec, error) {
	reg, err := toRegistry(types)
	if err != nil {
		return nil, err
	}
	if refs, ok := typeRef.([]any); ok {
		ids, err := toIds(refs)
		if err != nil {
			return nil, err
		}
		return &Codec{reg: reg, ids: ids, multi: true}, nil
	}
	id, err := toId(typeRef)
	if err != nil {
		return nil, err
	}
	return &Codec{reg: reg, ids: []schema.Id{id}}, nil
}

func (c *Codec) Encode(value any) ([]byte, error) {
	if c.multi {
		return codec.EncodeAll(dynamic.Wrap(value), c.ids, c.reg)
	}
	return codec.Encode(dynamic.Wrap(value), c.ids[0], c.reg)
}

func (c *Codec) Decode(data []byte) (any, error) {
	if c.multi {
		vals, err := codec.DecodeAll(codec.NewCursor(data), c.ids, c.reg, dynamic.NewFactory())
		if err != nil {
			return nil, err
		}
		out := make([]any, len(vals))
		for i, v := range vals {
			out[i] = dynamic.Interface(v)
		}
		return out, nil
	}
	v, err := codec.Decode(codec.NewCursor(data), c.ids[0], c.reg, dynamic.NewFactory())
	if err != nil {
		return nil, err
	}
	return dynamic.Interface(v), nil
}

// Registry exposes the handle's registry for appending definitions.
func (c *Codec) Registry() *registry.Registry {
	return c.reg
}

func toRegistry(types any) (*registry.Registry, error) {
	switch t := types.(type) {
	case *registry.Registry:
		return t, nil
	case string:
		return registry.Parse(t)
	case nil:
		return registry.New(), nil
	}
	return nil, errors.InvalidData(errors.PhaseResolve,
		fmt.Sprintf("types must be a *registry.Registry or definition source, got %T", types))
}

// toId accepts a schema.Id, a name or type-expression string, or a
// numeric index. Strings become bare name references; expressions in
// them are handled by the resolver's literal fallback.
func toId(ref any) (schema.Id, error) {
	switch r := ref.(type) {
	case schema.Id:
		return r, nil
	case string:
		return schema.Name{Name: r}, nil
	case int:
		if r < 0 {
			return nil, errors.InvalidData(errors.PhaseResolve, fmt.Sprintf("negative type index %d", r))
		}
		return schema.Num(r), nil
	case uint32:
		return schema.Num(r), nil
	}
	return nil, errors.InvalidData(errors.PhaseResolve,
		fmt.Sprintf("type reference must be a schema.Id, string or index, got %T", ref))
}

func toIds(refs []any) ([]schema.Id, error) {
	out := make([]schema.Id, 0, len(refs))
	for _, r := range refs {
		id, err := toId(r)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

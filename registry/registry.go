package registry

import (
	"strconv"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/schema"
)

// Registry owns an ordered, append-only list of type definitions plus a
// name lookup. Entries are never removed or mutated; appending a name
// that already exists shadows the earlier entry for future lookups
// while positional references keep working.
//
// A Registry is not synchronized. Append and Resolve must not
// interleave; the host serializes access when sharing a registry across
// goroutines (the guest package does exactly that).
type Registry struct {
	lookup map[string]int
	defs   []schema.TypeDef
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{lookup: make(map[string]int)}
}

// Parse parses type-definition-language source into a fresh registry.
func Parse(src string) (*Registry, error) {
	r := New()
	if err := r.AppendSource(src); err != nil {
		return nil, err
	}
	return r, nil
}

// Append inserts definitions in order, recording the name of each named
// definition. Shapes are not validated eagerly; resolution is lazy.
func (r *Registry) Append(defs []schema.TypeDef) {
	for _, def := range defs {
		if def.Name != "" {
			r.lookup[def.Name] = len(r.defs)
		}
		r.defs = append(r.defs, def)
	}
}

// AppendSource parses source text and appends the definitions.
func (r *Registry) AppendSource(src string) error {
	defs, err := schema.Parse(src)
	if err != nil {
		return err
	}
	r.Append(defs)
	return nil
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Defs returns a copy of the definition list, in registration order.
func (r *Registry) Defs() []schema.TypeDef {
	out := make([]schema.TypeDef, len(r.defs))
	copy(out, r.defs)
	return out
}

// resolveShallow resolves one level of a reference: name or index to
// the registered shape (instantiating generics), inline to the embedded
// shape. The result may still be an Alias.
func (r *Registry) resolveShallow(id schema.Id) (schema.Type, error) {
	switch ref := id.(type) {
	case schema.Name:
		idx, ok := r.lookup[ref.Name]
		if !ok {
			// Registered names shadow primitives, so the builtin
			// table is consulted second.
			if prim, ok := schema.PrimitiveByName(ref.Name); ok {
				return prim, nil
			}
			return nil, errors.UnknownType(ref.Name)
		}
		return r.instantiate(ref, r.defs[idx])
	case schema.Num:
		if int(ref) >= len(r.defs) {
			return nil, errors.UnknownType(strconv.FormatUint(uint64(ref), 10))
		}
		return r.instantiate(schema.Name{}, r.defs[ref])
	case schema.Inline:
		return ref.Type, nil
	}
	return nil, errors.New(errors.PhaseResolve, errors.KindInvalidData).
		Detail("unsupported type reference %T", id).
		Build()
}

// instantiate applies generic substitution when the reference carries
// type arguments. Definitions without parameters pass through
// unmodified.
func (r *Registry) instantiate(ref schema.Name, def schema.TypeDef) (schema.Type, error) {
	if len(def.TypeParams) != len(ref.Args) {
		return nil, errors.ParamCount(def.Name, len(def.TypeParams), len(ref.Args))
	}
	if len(ref.Args) == 0 {
		return def.Type, nil
	}
	sub := newSubstitution(def.TypeParams, ref.Args)
	return sub.rewriteType(def.Type)
}

// resolve resolves a reference to a non-alias shape, chasing alias
// chains. Chasing is bounded by the registry size so that cyclic
// aliases report an error instead of looping forever.
func (r *Registry) resolve(id schema.Id) (schema.Type, error) {
	t, err := r.resolveShallow(id)
	if err != nil {
		return nil, err
	}
	limit := len(r.defs) + 1
	for hops := 0; ; hops++ {
		alias, ok := t.(schema.Alias)
		if !ok {
			return t, nil
		}
		if hops >= limit {
			return nil, errors.AliasCycle(id.String())
		}
		t, err = r.resolveShallow(alias.Target)
		if err != nil {
			return nil, err
		}
	}
}

// Resolve resolves a reference to a concrete non-alias shape. With
// literalFallback set, a name that fails normal resolution is re-parsed
// as an inline type expression, so ad hoc strings like "[u8;32]" work
// as references without prior registration. An Alias produced by the
// fallback is resolved one further level without fallback; re-parsing
// again would recurse on the same text forever.
func (r *Registry) Resolve(id schema.Id, literalFallback bool) (schema.Type, error) {
	t, err := r.resolve(id)
	if err == nil || !literalFallback {
		return t, err
	}
	name, ok := id.(schema.Name)
	if !ok {
		return nil, err
	}
	ty, perr := schema.ParseType(name.Name)
	if perr != nil {
		return nil, perr
	}
	if alias, ok := ty.(schema.Alias); ok {
		return r.Resolve(alias.Target, false)
	}
	return ty, nil
}

package registry

import (
	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/schema"
)

// substitution maps generic parameter names to the concrete type
// arguments of one instantiation site. It is built fresh per site and
// never shared.
type substitution struct {
	args map[string]schema.Id
}

func newSubstitution(params []string, args []schema.Id) *substitution {
	m := make(map[string]schema.Id, len(params))
	for i, p := range params {
		m[p] = args[i]
	}
	return &substitution{args: m}
}

// rewriteId replaces parameter occurrences in a reference. Arguments of
// nested generic references are rewritten recursively so that
// Wrap<T>=[Pair<T>] instantiates all the way down.
func (s *substitution) rewriteId(id schema.Id) (schema.Id, error) {
	switch ref := id.(type) {
	case schema.Name:
		if arg, ok := s.args[ref.Name]; ok {
			if len(ref.Args) > 0 {
				return nil, errors.New(errors.PhaseResolve, errors.KindParamCount).
					TypeName(ref.Name).
					Detail("generic parameter %s cannot take type arguments", ref.Name).
					Build()
			}
			return arg, nil
		}
		if len(ref.Args) == 0 {
			return ref, nil
		}
		out := schema.Name{Name: ref.Name, Args: make([]schema.Id, len(ref.Args))}
		for i, a := range ref.Args {
			rewritten, err := s.rewriteId(a)
			if err != nil {
				return nil, err
			}
			out.Args[i] = rewritten
		}
		return out, nil
	case schema.Num:
		return ref, nil
	case schema.Inline:
		ty, err := s.rewriteType(ref.Type)
		if err != nil {
			return nil, err
		}
		return schema.Inline{Type: ty}, nil
	}
	return nil, errors.New(errors.PhaseResolve, errors.KindInvalidData).
		Detail("unsupported type reference %T", id).
		Build()
}

// rewriteType rebuilds a shape with parameter occurrences substituted.
// Primitive and Compact pass through unchanged; see DESIGN.md for the
// Compact behavior.
func (s *substitution) rewriteType(t schema.Type) (schema.Type, error) {
	switch ty := t.(type) {
	case schema.Primitive:
		return ty, nil
	case schema.Compact:
		return ty, nil
	case schema.Seq:
		elem, err := s.rewriteId(ty.Elem)
		if err != nil {
			return nil, err
		}
		return schema.Seq{Elem: elem}, nil
	case schema.Tuple:
		elems := make([]schema.Id, len(ty.Elems))
		for i, e := range ty.Elems {
			elem, err := s.rewriteId(e)
			if err != nil {
				return nil, err
			}
			elems[i] = elem
		}
		return schema.Tuple{Elems: elems}, nil
	case schema.Array:
		elem, err := s.rewriteId(ty.Elem)
		if err != nil {
			return nil, err
		}
		return schema.Array{Elem: elem, Len: ty.Len}, nil
	case schema.Enum:
		variants := make([]schema.Variant, len(ty.Variants))
		for i, v := range ty.Variants {
			out := v
			if v.Payload != nil {
				payload, err := s.rewriteId(v.Payload)
				if err != nil {
					return nil, err
				}
				out.Payload = payload
			}
			variants[i] = out
		}
		return schema.Enum{Variants: variants}, nil
	case schema.Struct:
		fields := make([]schema.Field, len(ty.Fields))
		for i, f := range ty.Fields {
			ref, err := s.rewriteId(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = schema.Field{Name: f.Name, Type: ref}
		}
		return schema.Struct{Fields: fields}, nil
	case schema.Alias:
		target, err := s.rewriteId(ty.Target)
		if err != nil {
			return nil, err
		}
		return schema.Alias{Target: target}, nil
	}
	return nil, errors.New(errors.PhaseResolve, errors.KindInvalidData).
		Detail("unsupported type shape %T", t).
		Build()
}

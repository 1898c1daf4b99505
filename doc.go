// Package scale encodes and decodes values against type definitions
// written in a compact schema language. Definitions are parsed into a
// registry, and values flow through capability interfaces so any
// dynamic representation can ride the codec.
//
// A minimal session:
//
//	reg, err := scale.ParseTypes(`
//	    Msg = { id: u32, tag: <Ping, Pong: str> }
//	`)
//	data, err := scale.Encode(map[string]any{
//	    "id":  1,
//	    "tag": map[string]any{"Pong": "hi"},
//	}, "Msg", reg)
//	back, err := scale.Decode(data, "Msg", reg)
//
// Subpackages: schema (the definition language and type model),
// registry (name resolution, aliases and generics), codec (the wire
// format), dynamic (native Go values), ctyval (go-cty values), and
// guest (a WebAssembly host module exposing the codec to guests).
package scale

// Package schema defines the type model of the wire format and the
// parser for the textual type-definition language.
//
// The language describes composite shapes with a compact syntax:
//
//	Point={x:u32,y:u32};      // struct
//	List=[Point];             // sequence
//	Hash=[u8;32];             // fixed array
//	Choice=<A,B:u32,C::5>;    // enum with explicit discriminant
//	Pair<T>={a:T,b:T};        // generic definition
//	Len=@u32;                 // compact integer
//	Raw=#u32;                 // primitive, bypassing name lookup
//
// Parse produces []TypeDef for registration in a registry; ParseType
// parses one standalone type expression. Both collect every problem in
// the source instead of stopping at the first.
//
// Type is a closed sum over Primitive, Compact, Seq, Tuple, Array,
// Enum, Struct, and Alias; Id references types by name, index, or as an
// inline expression. Shapes handed to the encoder or decoder never
// contain an Alias; resolution replaces them first.
package schema

// Package codec implements the byte-exact wire encoding: recursive
// value-to-bytes and bytes-to-value conversion driven by resolved type
// shapes.
//
// The wire format uses little-endian fixed-width integers, compact
// variable-length integers, length-prefixed sequences and strings, and
// single-byte enum discriminants. Byte sequences and byte arrays take a
// fast path that copies buffers wholesale instead of visiting elements.
//
// Dynamic values flow through the Value and Factory capability
// interfaces; the codec never assumes a concrete representation. The
// dynamic package provides the native Go implementation and ctyval a
// go-cty one.
//
// All failures are descriptive returned errors. Decoding never reads
// past the buffer ("unexpected end of buffer"), never rewinds, and both
// directions refuse nesting beyond MaxDepth.
package codec

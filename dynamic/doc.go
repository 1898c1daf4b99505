// Package dynamic adapts plain Go data to the codec's value
// capabilities. Wrap turns maps, slices, numbers, strings and byte
// buffers into encodable values; Factory materializes decoded values
// back into the same shapes.
//
// Two conveniences make the representation JSON-friendly: Object keeps
// field insertion order when marshalled, and Bytes marshals as a
// 0x-prefixed hex string, which the encoder accepts back in any byte
// context. Numbers arriving as json.Number keep full 64-bit and 128-bit
// precision.
package dynamic

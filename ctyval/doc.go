// Package ctyval bridges the codec's value capabilities to cty values,
// so configuration pipelines built on go-cty can encode and decode
// without converting through native Go data first.
//
// Encoding accepts cty numbers, bools, strings, tuples, lists, sets,
// objects and maps. Decoding produces numbers, strings, tuples and
// objects; byte buffers surface as 0x-prefixed hex strings.
package ctyval

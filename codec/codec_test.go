package codec_test

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/dynamic"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/schema"
)

func encodeAs(t *testing.T, reg *registry.Registry, ref string, v any) []byte {
	t.Helper()
	data, err := codec.Encode(dynamic.Wrap(v), schema.Name{Name: ref}, reg)
	if err != nil {
		t.Fatalf("Encode(%s): %v", ref, err)
	}
	return data
}

func decodeAs(t *testing.T, reg *registry.Registry, ref string, data []byte) any {
	t.Helper()
	v, err := codec.Decode(codec.NewCursor(data), schema.Name{Name: ref}, reg, dynamic.NewFactory())
	if err != nil {
		t.Fatalf("Decode(%s): %v", ref, err)
	}
	return dynamic.Interface(v)
}

// asJSON normalizes a decoded value for comparison.
func asJSON(t *testing.T, v any) string {
	t.Helper()
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(out)
}

func TestEncodePrimitives(t *testing.T) {
	reg := registry.New()
	tests := []struct {
		value any
		ref   string
		want  []byte
	}{
		{uint64(0x12), "u8", []byte{0x12}},
		{uint64(0x1234), "u16", []byte{0x34, 0x12}},
		{uint64(0x12345678), "u32", []byte{0x78, 0x56, 0x34, 0x12}},
		{uint64(1), "u64", []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{int64(-1), "i8", []byte{0xff}},
		{int64(-2), "i16", []byte{0xfe, 0xff}},
		{int64(-1), "i32", []byte{0xff, 0xff, 0xff, 0xff}},
		{int64(-1), "i64", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
		{true, "bool", []byte{1}},
		{false, "bool", []byte{0}},
		{"hi", "str", []byte{0x08, 'h', 'i'}},
	}

	for _, tt := range tests {
		got := encodeAs(t, reg, tt.ref, tt.value)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("Encode(%v as %s) = %x, want %x", tt.value, tt.ref, got, tt.want)
		}
	}
}

func TestDecodePrimitiveRoundTrip(t *testing.T) {
	reg := registry.New()
	tests := []struct {
		value any
		ref   string
		want  string
	}{
		{uint64(200), "u8", "200"},
		{int64(-100), "i64", "-100"},
		{true, "bool", "true"},
		{"héllo", "str", `"héllo"`},
	}

	for _, tt := range tests {
		data := encodeAs(t, reg, tt.ref, tt.value)
		back := decodeAs(t, reg, tt.ref, data)
		if got := asJSON(t, back); got != tt.want {
			t.Errorf("%s round trip: got %s, want %s", tt.ref, got, tt.want)
		}
	}
}

func TestEncode128Bit(t *testing.T) {
	reg := registry.New()

	v, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	data := encodeAs(t, reg, "u128", v)
	if len(data) != 16 {
		t.Fatalf("u128 encoding is %d bytes, want 16", len(data))
	}
	for _, b := range data {
		if b != 0xff {
			t.Fatalf("u128 max = %x, want all ff", data)
		}
	}

	back := decodeAs(t, reg, "u128", data)
	bi, ok := back.(*big.Int)
	if !ok || bi.Cmp(v) != 0 {
		t.Errorf("got %v, want %s", back, v)
	}
}

func TestEncodeI128Negative(t *testing.T) {
	reg := registry.New()

	data := encodeAs(t, reg, "i128", int64(-1))
	for _, b := range data {
		if b != 0xff {
			t.Fatalf("i128 -1 = %x, want all ff", data)
		}
	}

	back := decodeAs(t, reg, "i128", data)
	bi, ok := back.(*big.Int)
	if !ok || bi.Int64() != -1 {
		t.Errorf("got %v, want -1", back)
	}

	min, _ := new(big.Int).SetString("-170141183460469231731687303715884105728", 10)
	data = encodeAs(t, reg, "i128", min)
	back = decodeAs(t, reg, "i128", data)
	if bi, ok := back.(*big.Int); !ok || bi.Cmp(min) != 0 {
		t.Errorf("got %v, want %s", back, min)
	}
}

func TestEncodeIntegerOverflow(t *testing.T) {
	reg := registry.New()
	tests := []struct {
		value any
		ref   string
	}{
		{uint64(256), "u8"},
		{int64(128), "i8"},
		{int64(-129), "i8"},
		{uint64(65536), "u16"},
		{int64(-1), "u32"},
	}
	for _, tt := range tests {
		if _, err := codec.Encode(dynamic.Wrap(tt.value), schema.Name{Name: tt.ref}, reg); err == nil {
			t.Errorf("Encode(%v as %s): expected overflow", tt.value, tt.ref)
		}
	}
}

func TestEncodeCompact(t *testing.T) {
	reg := registry.New()
	data := encodeAs(t, reg, "@u32", uint64(16384))
	want := []byte{0x02, 0x00, 0x01, 0x00}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}

	back := decodeAs(t, reg, "@u32", data)
	if got := asJSON(t, back); got != "16384" {
		t.Errorf("got %s, want 16384", got)
	}
}

func TestCompactUnit(t *testing.T) {
	reg := registry.New()

	data := encodeAs(t, reg, "@()", map[string]any{})
	if len(data) != 0 {
		t.Fatalf("compact unit = %x, want empty", data)
	}

	back := decodeAs(t, reg, "@()", nil)
	if got := asJSON(t, back); got != "[]" {
		t.Errorf("got %s, want []", got)
	}
}

func TestCompactRejectsOtherShapes(t *testing.T) {
	reg := registry.New()
	_, err := codec.Encode(dynamic.Wrap("x"), schema.Name{Name: "@str"}, reg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "expected an unsigned integer or () for compact") {
		t.Errorf("got %q", err.Error())
	}
}

func TestByteSequenceFastPath(t *testing.T) {
	reg := registry.New()

	data := encodeAs(t, reg, "[u8]", []byte{1, 2, 3})
	want := []byte{0x0c, 1, 2, 3}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}

	// Hex strings take the same path.
	data = encodeAs(t, reg, "[u8]", "0x010203")
	if !bytes.Equal(data, want) {
		t.Errorf("hex input: got %x, want %x", data, want)
	}

	back := decodeAs(t, reg, "[u8]", data)
	buf, ok := back.(dynamic.Bytes)
	if !ok || !bytes.Equal(buf, []byte{1, 2, 3}) {
		t.Errorf("got %#v, want bytes 010203", back)
	}
}

func TestByteSequenceElementFallback(t *testing.T) {
	// Non-buffer values still encode element by element.
	reg := registry.New()
	data := encodeAs(t, reg, "[u8]", []any{uint64(1), uint64(2)})
	want := []byte{0x08, 1, 2}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}
}

func TestByteArrayNoPrefix(t *testing.T) {
	reg := registry.New()

	data := encodeAs(t, reg, "[u8;4]", []byte{1, 2, 3, 4})
	want := []byte{1, 2, 3, 4}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}

	back := decodeAs(t, reg, "[u8;4]", data)
	if buf, ok := back.(dynamic.Bytes); !ok || !bytes.Equal(buf, want) {
		t.Errorf("got %#v, want bytes 01020304", back)
	}
}

func TestByteArrayLengthMismatch(t *testing.T) {
	reg := registry.New()
	_, err := codec.Encode(dynamic.Wrap([]byte{1, 2}), schema.Name{Name: "[u8;4]"}, reg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Expected array of length 4, got 2") {
		t.Errorf("got %q", err.Error())
	}
}

func TestArrayOfStructs(t *testing.T) {
	reg, err := registry.Parse("P = {x:u8, y:u8}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	value := []any{
		map[string]any{"x": uint64(1), "y": uint64(2)},
		map[string]any{"x": uint64(3), "y": uint64(4)},
	}
	data := encodeAs(t, reg, "[P;2]", value)
	want := []byte{1, 2, 3, 4}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}

	back := decodeAs(t, reg, "[P;2]", data)
	if got := asJSON(t, back); got != `[{"x":1,"y":2},{"x":3,"y":4}]` {
		t.Errorf("got %s", got)
	}
}

func TestTupleEncoding(t *testing.T) {
	reg := registry.New()
	data := encodeAs(t, reg, "(u8, str, bool)", []any{uint64(7), "ok", true})
	want := []byte{7, 0x08, 'o', 'k', 1}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}

	back := decodeAs(t, reg, "(u8, str, bool)", data)
	if got := asJSON(t, back); got != `[7,"ok",true]` {
		t.Errorf("got %s", got)
	}
}

func TestEnumPositionalTags(t *testing.T) {
	reg, err := registry.Parse("E = <A, B:u32, C>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	data := encodeAs(t, reg, "E", map[string]any{"B": uint64(7)})
	want := []byte{0x01, 7, 0, 0, 0}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}

	back := decodeAs(t, reg, "E", data)
	if got := asJSON(t, back); got != `{"B":7}` {
		t.Errorf("got %s", got)
	}

	// Payload-less variants decode as an explicit null.
	back = decodeAs(t, reg, "E", []byte{0x02})
	if got := asJSON(t, back); got != `{"C":null}` {
		t.Errorf("got %s", got)
	}
}

func TestEnumExplicitTags(t *testing.T) {
	reg, err := registry.Parse("E = <A::10, B:u8:20>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	data := encodeAs(t, reg, "E", map[string]any{"A": nil})
	if !bytes.Equal(data, []byte{10}) {
		t.Errorf("got %x, want 0a", data)
	}

	data = encodeAs(t, reg, "E", map[string]any{"B": uint64(5)})
	if !bytes.Equal(data, []byte{20, 5}) {
		t.Errorf("got %x, want 1405", data)
	}

	// Decoding scans explicit tags when the positional slot misses.
	back := decodeAs(t, reg, "E", []byte{20, 5})
	if got := asJSON(t, back); got != `{"B":5}` {
		t.Errorf("got %s", got)
	}
}

func TestEnumUnknownVariantName(t *testing.T) {
	reg, err := registry.Parse("E = <A, B>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = codec.Encode(dynamic.Wrap(map[string]any{"Z": nil}), schema.Name{Name: "E"}, reg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "expected enum with any variant of A, B") {
		t.Errorf("got %q", err.Error())
	}
}

func TestEnumUnknownTag(t *testing.T) {
	reg, err := registry.Parse("E = <A, B>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = codec.Decode(codec.NewCursor([]byte{9}), schema.Name{Name: "E"}, reg, dynamic.NewFactory())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Unknown variant 9") {
		t.Errorf("got %q", err.Error())
	}
}

func TestEnumTagTooLarge(t *testing.T) {
	reg, err := registry.Parse("E = <A::300>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = codec.Encode(dynamic.Wrap(map[string]any{"A": nil}), schema.Name{Name: "E"}, reg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Variant index 300 is too large") {
		t.Errorf("got %q", err.Error())
	}
}

func TestStructFieldOrder(t *testing.T) {
	reg, err := registry.Parse("S = {b:u8, a:u8}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Declaration order wins regardless of the value's own ordering.
	data := encodeAs(t, reg, "S", map[string]any{"a": uint64(1), "b": uint64(2)})
	if !bytes.Equal(data, []byte{2, 1}) {
		t.Errorf("got %x, want 0201", data)
	}

	back := decodeAs(t, reg, "S", data)
	if got := asJSON(t, back); got != `{"b":2,"a":1}` {
		t.Errorf("got %s, want declaration order preserved", got)
	}
}

func TestStructMissingField(t *testing.T) {
	reg, err := registry.Parse("S = {a:u8}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := codec.Encode(dynamic.Wrap(map[string]any{}), schema.Name{Name: "S"}, reg); err == nil {
		t.Fatal("expected error for missing field")
	}
}

func TestSeqOfStrings(t *testing.T) {
	reg := registry.New()
	data := encodeAs(t, reg, "[str]", []any{"a", "bc"})
	want := []byte{0x08, 0x04, 'a', 0x08, 'b', 'c'}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}
}

func TestDecodeUnderrun(t *testing.T) {
	reg := registry.New()
	_, err := codec.Decode(codec.NewCursor([]byte{1, 2}), schema.Name{Name: "u32"}, reg, dynamic.NewFactory())
	if err == nil {
		t.Fatal("expected underrun")
	}
	if !strings.Contains(err.Error(), "unexpected end of buffer") {
		t.Errorf("got %q", err.Error())
	}
}

func TestDecodeInvalidBool(t *testing.T) {
	reg := registry.New()
	if _, err := codec.Decode(codec.NewCursor([]byte{2}), schema.Name{Name: "bool"}, reg, dynamic.NewFactory()); err == nil {
		t.Fatal("expected error for bool byte 2")
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	reg := registry.New()
	if _, err := codec.Decode(codec.NewCursor([]byte{0x04, 0xff}), schema.Name{Name: "str"}, reg, dynamic.NewFactory()); err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestDecodeLeavesTrailingBytes(t *testing.T) {
	reg := registry.New()
	c := codec.NewCursor([]byte{7, 0xaa, 0xbb})
	if _, err := codec.Decode(c, schema.Name{Name: "u8"}, reg, dynamic.NewFactory()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Remaining() != 2 {
		t.Errorf("remaining = %d, want 2", c.Remaining())
	}
}

func TestEncodeDepthLimit(t *testing.T) {
	// A self-nesting definition overflows the depth guard instead of the
	// goroutine stack.
	reg, err := registry.Parse("T = (T, u8)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	nested := []any{nil, uint64(1)}
	for i := 0; i < 300; i++ {
		nested = []any{nested, uint64(1)}
	}
	_, err = codec.Encode(dynamic.Wrap(nested), schema.Name{Name: "T"}, reg)
	if err == nil {
		t.Fatal("expected depth error")
	}
	if !strings.Contains(err.Error(), "depth") {
		t.Errorf("got %q", err.Error())
	}
}

func TestEncodeAllDecodeAll(t *testing.T) {
	reg := registry.New()
	ids := []schema.Id{
		schema.Name{Name: "u8"},
		schema.Name{Name: "str"},
	}
	data, err := codec.EncodeAll(dynamic.Wrap([]any{uint64(5), "yo"}), ids, reg)
	if err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	want := []byte{5, 0x08, 'y', 'o'}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}

	vals, err := codec.DecodeAll(codec.NewCursor(data), ids, reg, dynamic.NewFactory())
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(vals) != 2 {
		t.Fatalf("got %d values, want 2", len(vals))
	}
	if got := asJSON(t, dynamic.Interface(vals[1])); got != `"yo"` {
		t.Errorf("got %s", got)
	}
}

func TestNamedTypeResolutionInEncode(t *testing.T) {
	reg, err := registry.Parse(`
		Hash = [u8;4]
		Block = { parent: Hash, number: @u32 }
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	value := map[string]any{
		"parent": "0xdeadbeef",
		"number": uint64(42),
	}
	data := encodeAs(t, reg, "Block", value)
	want := []byte{0xde, 0xad, 0xbe, 0xef, 0xa8}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}

	back := decodeAs(t, reg, "Block", data)
	if got := asJSON(t, back); got != `{"parent":"0xdeadbeef","number":42}` {
		t.Errorf("got %s", got)
	}
}

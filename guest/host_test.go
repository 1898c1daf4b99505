package guest_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/wippyai/scale-codec/guest"
)

func TestHostParseAndEncode(t *testing.T) {
	h := guest.NewHost()
	handle, err := h.ParseTypes("Msg = { id: u32, tag: <Ping, Pong: str> }")
	if err != nil {
		t.Fatalf("ParseTypes: %v", err)
	}
	if handle == 0 {
		t.Fatal("handle must be non-zero")
	}

	data, err := h.Encode(handle, "Msg", []byte(`{"id": 1, "tag": {"Pong": "hi"}}`))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{1, 0, 0, 0, 1, 0x08, 'h', 'i'}
	if !bytes.Equal(data, want) {
		t.Fatalf("got %x, want %x", data, want)
	}

	out, err := h.Decode(handle, "Msg", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(out) != `{"id":1,"tag":{"Pong":"hi"}}` {
		t.Errorf("got %s", out)
	}
}

func TestHostNumericRef(t *testing.T) {
	h := guest.NewHost()
	handle, err := h.ParseTypes("u8; u16")
	if err != nil {
		t.Fatalf("ParseTypes: %v", err)
	}
	data, err := h.Encode(handle, "1", []byte("300"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(data, []byte{0x2c, 0x01}) {
		t.Errorf("got %x, want 2c01", data)
	}
}

func TestHostExpressionRef(t *testing.T) {
	h := guest.NewHost()
	handle, err := h.ParseTypes("")
	if err != nil {
		t.Fatalf("ParseTypes: %v", err)
	}
	data, err := h.Encode(handle, "[u8;2]", []byte(`"0xbeef"`))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(data, []byte{0xbe, 0xef}) {
		t.Errorf("got %x", data)
	}
}

func TestHostAppendTypes(t *testing.T) {
	h := guest.NewHost()
	handle, err := h.ParseTypes("A = u8")
	if err != nil {
		t.Fatalf("ParseTypes: %v", err)
	}
	if err := h.AppendTypes(handle, "B = [A]"); err != nil {
		t.Fatalf("AppendTypes: %v", err)
	}
	data, err := h.Encode(handle, "B", []byte("[1, 2]"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(data, []byte{0x08, 1, 2}) {
		t.Errorf("got %x", data)
	}
}

func TestHostBigNumberPrecision(t *testing.T) {
	// JSON numbers beyond float64 precision must survive intact.
	h := guest.NewHost()
	handle, err := h.ParseTypes("")
	if err != nil {
		t.Fatalf("ParseTypes: %v", err)
	}
	data, err := h.Encode(handle, "u64", []byte("18446744073709551615"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, b := range data {
		if b != 0xff {
			t.Fatalf("got %x, want all ff", data)
		}
	}

	out, err := h.Decode(handle, "u64", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(out) != "18446744073709551615" {
		t.Errorf("got %s", out)
	}
}

func TestHostUnknownHandle(t *testing.T) {
	h := guest.NewHost()
	if _, err := h.Encode(99, "u8", []byte("1")); err == nil {
		t.Fatal("expected error for unknown handle")
	}
	if err := h.AppendTypes(99, "A = u8"); err == nil {
		t.Fatal("expected error for unknown handle")
	}
}

func TestHostDropRegistry(t *testing.T) {
	h := guest.NewHost()
	handle, err := h.ParseTypes("A = u8")
	if err != nil {
		t.Fatalf("ParseTypes: %v", err)
	}
	h.DropRegistry(handle)
	if _, err := h.Encode(handle, "A", []byte("1")); err == nil {
		t.Fatal("expected error after drop")
	}

	// Dropping twice is harmless.
	h.DropRegistry(handle)
}

func TestHostHandlesAreDistinct(t *testing.T) {
	h := guest.NewHost()
	h1, err := h.ParseTypes("A = u8")
	if err != nil {
		t.Fatalf("ParseTypes: %v", err)
	}
	h2, err := h.ParseTypes("A = u16")
	if err != nil {
		t.Fatalf("ParseTypes: %v", err)
	}
	if h1 == h2 {
		t.Fatal("handles must be distinct")
	}

	data, err := h.Encode(h2, "A", []byte("1"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) != 2 {
		t.Errorf("second registry must see its own definition, got %x", data)
	}
}

func TestHostConcurrentAppendAndEncode(t *testing.T) {
	// Appending to a handle while another guest call resolves against it
	// must be serialized by the per-registry lock (run with -race).
	h := guest.NewHost()
	handle, err := h.ParseTypes("A = u8")
	if err != nil {
		t.Fatalf("ParseTypes: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if err := h.AppendTypes(handle, "B = [A]"); err != nil {
				t.Errorf("AppendTypes: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, err := h.Encode(handle, "A", []byte("1")); err != nil {
				t.Errorf("Encode: %v", err)
				return
			}
		}
	}()
	wg.Wait()
}

func TestHostInvalidJSON(t *testing.T) {
	h := guest.NewHost()
	handle, err := h.ParseTypes("")
	if err != nil {
		t.Fatalf("ParseTypes: %v", err)
	}
	if _, err := h.Encode(handle, "u8", []byte("{oops")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

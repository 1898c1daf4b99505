package guest

import (
	"bytes"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/dynamic"
	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/schema"
)

// Host owns the registries handed out to guest modules by integer
// handle, plus the staging buffers guests drain through result_len,
// read_result and last_error. Safe for concurrent guest calls: each
// registry carries its own lock so appends are serialized against
// resolution on the same handle.
type Host struct {
	registries map[uint32]*regEntry
	result     []byte
	lastErr    string
	next       uint32
	mu         sync.Mutex
}

// regEntry pairs a registry with the lock guarding it. Append takes
// the write side; encode and decode resolve under the read side.
type regEntry struct {
	mu  sync.RWMutex
	reg *registry.Registry
}

func NewHost() *Host {
	return &Host{registries: make(map[uint32]*regEntry), next: 1}
}

// ParseTypes parses definition source into a new registry and returns
// its handle.
func (h *Host) ParseTypes(src string) (uint32, error) {
	reg, err := registry.Parse(src)
	if err != nil {
		return 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	handle := h.next
	h.next++
	h.registries[handle] = &regEntry{reg: reg}
	Logger().Debug("parsed type definitions",
		zap.Uint32("handle", handle),
		zap.Int("types", reg.Len()))
	return handle, nil
}

// AppendTypes parses additional definitions into the registry behind
// an existing handle.
func (h *Host) AppendTypes(handle uint32, src string) error {
	e, err := h.entry(handle)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reg.AppendSource(src)
}

// DropRegistry releases a handle. Unknown handles are ignored.
func (h *Host) DropRegistry(handle uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.registries, handle)
}

// Encode encodes a JSON value as the referenced type. The reference is
// a type name, expression or decimal index in source form.
func (h *Host) Encode(handle uint32, typeRef string, jsonValue []byte) ([]byte, error) {
	e, err := h.entry(handle)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(jsonValue))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.InvalidData(errors.PhaseGuest, "invalid JSON value: "+err.Error())
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return codec.Encode(dynamic.Wrap(v), refId(typeRef), e.reg)
}

// Decode decodes bytes as the referenced type and returns the value as
// JSON. Byte buffers surface as 0x-prefixed hex strings and struct
// fields keep declaration order.
func (h *Host) Decode(handle uint32, typeRef string, data []byte) ([]byte, error) {
	e, err := h.entry(handle)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	v, err := codec.Decode(codec.NewCursor(data), refId(typeRef), e.reg, dynamic.NewFactory())
	e.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(dynamic.Interface(v))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindInvalidData, err, "marshal decoded value")
	}
	return out, nil
}

func (h *Host) entry(handle uint32) (*regEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.registries[handle]
	if !ok {
		return nil, errors.New(errors.PhaseGuest, errors.KindInvalidData).
			Detail("unknown registry handle %d", handle).
			Build()
	}
	return e, nil
}

// refId turns a guest-supplied reference into a type id. Decimal
// digits mean a registry index; anything else is a name, with complex
// expressions handled by the resolver's literal fallback.
func refId(ref string) schema.Id {
	if ref != "" && allDigits(ref) {
		var n uint32
		for i := 0; i < len(ref); i++ {
			n = n*10 + uint32(ref[i]-'0')
		}
		return schema.Num(n)
	}
	return schema.Name{Name: ref}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (h *Host) stageResult(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.result = data
}

func (h *Host) stageError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastErr = err.Error()
}

func (h *Host) stagedResult() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

func (h *Host) stagedError() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

package guest

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// ModuleName is the import namespace guests link against.
const ModuleName = "scale"

// Call status codes returned by the fallible guest functions.
const (
	statusOK    = 0
	statusError = 1
)

// Instantiate registers the codec host module into a wazero runtime.
//
// Exported functions (pointers and lengths address guest memory):
//
//	parse_types(src_ptr, src_len) -> handle      (0 on error)
//	append_types(handle, src_ptr, src_len) -> status
//	drop_registry(handle)
//	encode(handle, ref_ptr, ref_len, val_ptr, val_len) -> status
//	decode(handle, ref_ptr, ref_len, data_ptr, data_len) -> status
//	result_len() -> len
//	read_result(dst_ptr, dst_cap) -> copied
//	last_error(dst_ptr, dst_cap) -> copied
//
// encode stages raw bytes and decode stages JSON; both are drained
// through result_len and read_result. Any non-zero status leaves a
// message readable through last_error.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	i32 := api.ValueTypeI32
	b := r.NewHostModuleBuilder(ModuleName)

	b.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.wasmParseTypes), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		Export("parse_types")
	b.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.wasmAppendTypes), []api.ValueType{i32, i32, i32}, []api.ValueType{i32}).
		Export("append_types")
	b.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.wasmDropRegistry), []api.ValueType{i32}, nil).
		Export("drop_registry")
	b.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.wasmEncode), []api.ValueType{i32, i32, i32, i32, i32}, []api.ValueType{i32}).
		Export("encode")
	b.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.wasmDecode), []api.ValueType{i32, i32, i32, i32, i32}, []api.ValueType{i32}).
		Export("decode")
	b.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.wasmResultLen), nil, []api.ValueType{i32}).
		Export("result_len")
	b.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.wasmReadResult), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		Export("read_result")
	b.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.wasmLastError), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		Export("last_error")

	return b.Instantiate(ctx)
}

func readGuestBytes(mod api.Module, ptr, length uint32) ([]byte, bool) {
	data, ok := mod.Memory().Read(ptr, length)
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

func (h *Host) wasmParseTypes(ctx context.Context, mod api.Module, stack []uint64) {
	src, ok := readGuestBytes(mod, api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	if !ok {
		h.stageError(errOutOfRange)
		stack[0] = 0
		return
	}
	handle, err := h.ParseTypes(string(src))
	if err != nil {
		h.stageError(err)
		stack[0] = 0
		return
	}
	stack[0] = uint64(handle)
}

func (h *Host) wasmAppendTypes(ctx context.Context, mod api.Module, stack []uint64) {
	handle := api.DecodeU32(stack[0])
	src, ok := readGuestBytes(mod, api.DecodeU32(stack[1]), api.DecodeU32(stack[2]))
	if !ok {
		h.stageError(errOutOfRange)
		stack[0] = statusError
		return
	}
	if err := h.AppendTypes(handle, string(src)); err != nil {
		h.stageError(err)
		stack[0] = statusError
		return
	}
	stack[0] = statusOK
}

func (h *Host) wasmDropRegistry(ctx context.Context, mod api.Module, stack []uint64) {
	h.DropRegistry(api.DecodeU32(stack[0]))
}

func (h *Host) wasmEncode(ctx context.Context, mod api.Module, stack []uint64) {
	handle := api.DecodeU32(stack[0])
	ref, okRef := readGuestBytes(mod, api.DecodeU32(stack[1]), api.DecodeU32(stack[2]))
	val, okVal := readGuestBytes(mod, api.DecodeU32(stack[3]), api.DecodeU32(stack[4]))
	if !okRef || !okVal {
		h.stageError(errOutOfRange)
		stack[0] = statusError
		return
	}
	out, err := h.Encode(handle, string(ref), val)
	if err != nil {
		Logger().Debug("encode failed",
			zap.Uint32("handle", handle),
			zap.String("type", string(ref)),
			zap.Error(err))
		h.stageError(err)
		stack[0] = statusError
		return
	}
	h.stageResult(out)
	stack[0] = statusOK
}

func (h *Host) wasmDecode(ctx context.Context, mod api.Module, stack []uint64) {
	handle := api.DecodeU32(stack[0])
	ref, okRef := readGuestBytes(mod, api.DecodeU32(stack[1]), api.DecodeU32(stack[2]))
	data, okData := readGuestBytes(mod, api.DecodeU32(stack[3]), api.DecodeU32(stack[4]))
	if !okRef || !okData {
		h.stageError(errOutOfRange)
		stack[0] = statusError
		return
	}
	out, err := h.Decode(handle, string(ref), data)
	if err != nil {
		Logger().Debug("decode failed",
			zap.Uint32("handle", handle),
			zap.String("type", string(ref)),
			zap.Error(err))
		h.stageError(err)
		stack[0] = statusError
		return
	}
	h.stageResult(out)
	stack[0] = statusOK
}

func (h *Host) wasmResultLen(ctx context.Context, mod api.Module, stack []uint64) {
	stack[0] = uint64(uint32(len(h.stagedResult())))
}

func (h *Host) wasmReadResult(ctx context.Context, mod api.Module, stack []uint64) {
	stack[0] = uint64(writeGuest(mod, api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), h.stagedResult()))
}

func (h *Host) wasmLastError(ctx context.Context, mod api.Module, stack []uint64) {
	stack[0] = uint64(writeGuest(mod, api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), []byte(h.stagedError())))
}

// writeGuest copies as much of data as fits into the guest buffer and
// reports the number of bytes written.
func writeGuest(mod api.Module, ptr, capacity uint32, data []byte) uint32 {
	n := uint32(len(data))
	if n > capacity {
		n = capacity
	}
	if n == 0 {
		return 0
	}
	if !mod.Memory().Write(ptr, data[:n]) {
		return 0
	}
	return n
}

// Package guest exposes the codec to WebAssembly guests as a wazero
// host module named "scale". Guests parse definitions into
// host-owned registries addressed by integer handle, then encode JSON
// values to bytes and decode bytes back to JSON through a small
// pointer-and-length ABI with staged results.
package guest

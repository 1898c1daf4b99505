package codec

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"math/bits"

	"github.com/wippyai/scale-codec/errors"
)

// Compact integer encoding: the low two bits of the first byte select
// the mode, the value rides in the remaining bits.
//
//	0b00  single byte, value in the upper six bits      (0..=63)
//	0b01  two bytes little-endian, value << 2           (..=2^14-1)
//	0b10  four bytes little-endian, value << 2          (..=2^30-1)
//	0b11  first byte carries the byte count minus four,
//	      followed by that many little-endian bytes     (..=2^128-1 here)

const (
	compactModeMask   = 0b11
	compactSingleByte = 0b00
	compactTwoBytes   = 0b01
	compactFourBytes  = 0b10
	compactBigNumber  = 0b11
)

// maxCompactBytes caps big-number mode at the largest width the type
// system carries (u128).
const maxCompactBytes = 16

// WriteCompact appends the minimal compact encoding of v.
func WriteCompact(w *bytes.Buffer, v uint64) {
	switch {
	case v < 1<<6:
		w.WriteByte(byte(v) << 2)
	case v < 1<<14:
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(v)<<2|compactTwoBytes)
		w.Write(buf[:])
	case v < 1<<30:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(v)<<2|compactFourBytes)
		w.Write(buf[:])
	default:
		n := (bits.Len64(v) + 7) / 8
		w.WriteByte(byte(n-4)<<2 | compactBigNumber)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], v)
		w.Write(buf[:n])
	}
}

// WriteCompactBig appends the minimal compact encoding of a
// non-negative big integer of at most 128 bits.
func WriteCompactBig(w *bytes.Buffer, v *big.Int) error {
	if v.Sign() < 0 {
		return errors.TypeMismatch(errors.PhaseEncode, nil, "compact", "compact integers cannot be negative")
	}
	if v.IsUint64() {
		WriteCompact(w, v.Uint64())
		return nil
	}
	n := (v.BitLen() + 7) / 8
	if n > maxCompactBytes {
		return errors.Overflow(errors.PhaseEncode, v, "compact u128")
	}
	w.WriteByte(byte(n-4)<<2 | compactBigNumber)
	buf := make([]byte, n)
	v.FillBytes(buf)
	reverse(buf)
	w.Write(buf)
	return nil
}

// ReadCompact reads a compact integer that must fit in the given bit
// width (8, 16, 32 or 64).
func ReadCompact(c *Cursor, width int) (uint64, error) {
	v, err := readCompactU64(c)
	if err != nil {
		return 0, err
	}
	if width < 64 && v >= 1<<uint(width) {
		return 0, errors.Overflow(errors.PhaseDecode, v, compactName(width))
	}
	return v, nil
}

func readCompactU64(c *Cursor) (uint64, error) {
	b0, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	return readCompactTail(c, b0)
}

// readCompactTail finishes a compact read whose first byte has already
// been consumed. The cursor never rewinds, so both the u64 and the big
// path share this instead of peeking.
func readCompactTail(c *Cursor, b0 byte) (uint64, error) {
	switch b0 & compactModeMask {
	case compactSingleByte:
		return uint64(b0 >> 2), nil
	case compactTwoBytes:
		b1, err := c.ReadByte()
		if err != nil {
			return 0, err
		}
		v := uint64(b0)>>2 | uint64(b1)<<6
		if v < 1<<6 {
			return 0, errNonCanonical()
		}
		return v, nil
	case compactFourBytes:
		rest, err := c.ReadBytes(3)
		if err != nil {
			return 0, err
		}
		v := uint64(b0) | uint64(rest[0])<<8 | uint64(rest[1])<<16 | uint64(rest[2])<<24
		v >>= 2
		if v < 1<<14 {
			return 0, errNonCanonical()
		}
		return v, nil
	}
	n := int(b0>>2) + 4
	if n > 8 {
		return 0, errors.Overflow(errors.PhaseDecode, n, "compact u64")
	}
	data, err := c.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(data[i])
	}
	// Minimal form only: the top payload byte must be used and the
	// value must not fit the four-byte mode.
	if data[n-1] == 0 || v < 1<<30 {
		return 0, errNonCanonical()
	}
	return v, nil
}

func errNonCanonical() error {
	return errors.InvalidData(errors.PhaseDecode, "out of range decoding compact integer")
}

// ReadCompactBig reads a compact integer of up to 128 bits.
func ReadCompactBig(c *Cursor) (*big.Int, error) {
	b0, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	if b0&compactModeMask != compactBigNumber {
		v, err := readCompactTail(c, b0)
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetUint64(v), nil
	}
	n := int(b0>>2) + 4
	if n > maxCompactBytes {
		return nil, errors.Overflow(errors.PhaseDecode, n, "compact u128")
	}
	data, err := c.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	le := make([]byte, n)
	copy(le, data)
	reverse(le)
	v := new(big.Int).SetBytes(le)
	if data[n-1] == 0 || v.BitLen() < 31 {
		return nil, errNonCanonical()
	}
	return v, nil
}

func compactName(width int) string {
	switch width {
	case 8:
		return "compact u8"
	case 16:
		return "compact u16"
	case 32:
		return "compact u32"
	}
	return "compact u64"
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

package codec

import (
	"github.com/wippyai/scale-codec/errors"
)

// Cursor addresses an immutable byte buffer during decoding. It only
// advances; every read that would pass the end of the buffer fails with
// a buffer underrun error carrying the current position.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor creates a cursor over buf. The buffer is not copied; the
// caller must not mutate it during the decode pass.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// ReadByte consumes a single byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, errors.Underrun(c.pos)
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadBytes consumes exactly n bytes and returns them as a subslice of
// the underlying buffer. Callers that retain the result copy it.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, errors.Underrun(c.pos)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

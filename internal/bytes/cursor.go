// Package bytes implements the big-endian byte cursor the class-file
// parser reads through. It never panics on malformed input: every read
// past the end of the region returns ErrTruncated instead of indexing
// out of bounds.
package bytes

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrTruncated is returned when a read would run past the end of the
// underlying region.
var ErrTruncated = errors.New("class file truncated")

// Cursor is a position-tracking big-endian reader over a fixed byte
// region. It does not own the region; callers are expected to discard
// it (and the region) once parsing completes.
type Cursor struct {
	data []byte
	pos  int
}

// New wraps data in a Cursor starting at position 0.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, errors.Wrapf(ErrTruncated, "at offset %d wanting %d bytes", c.pos, n)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// U1 reads one unsigned byte.
func (c *Cursor) U1() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U2 reads a big-endian 16-bit unsigned value.
func (c *Cursor) U2() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// U4 reads a big-endian 32-bit unsigned value.
func (c *Cursor) U4() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// U8 reads a big-endian 64-bit unsigned value (high half first, the
// layout of Long/Double constant-pool payloads).
func (c *Cursor) U8() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// I2 reads a big-endian 16-bit value sign-extended to int32 (the
// encoding of branch offsets).
func (c *Cursor) I2() (int32, error) {
	u, err := c.U2()
	if err != nil {
		return 0, err
	}
	return int32(int16(u)), nil
}

// I4 reads a big-endian 32-bit value reinterpreted as signed.
func (c *Cursor) I4() (int32, error) {
	u, err := c.U4()
	if err != nil {
		return 0, err
	}
	return int32(u), nil
}

// F4 reads a big-endian IEEE-754 binary32 value.
func (c *Cursor) F4() (float32, error) {
	u, err := c.U4()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// F8 reads a big-endian IEEE-754 binary64 value.
func (c *Cursor) F8() (float64, error) {
	u, err := c.U8()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// Bytes reads n raw bytes and returns a copy (never an alias into the
// caller's input slice, so the parser can release the input region once
// loading finishes).
func (c *Cursor) Bytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

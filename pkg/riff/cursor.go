// Package riff provides a bounds-checked little-endian cursor over an
// in-memory RIFF buffer.
//
// A Cursor reports absolute offsets even when it is a view over a slice of a
// larger buffer, so errors raised while reading nested chunks still point into
// the whole file.
package riff

import (
	"encoding/binary"
	"fmt"
)

// TruncatedError is returned when a read or seek would run past the end of
// the buffer.
type TruncatedError struct {
	Offset    int // absolute position of the failed read
	Remaining int // bytes left at Offset
	Want      int // bytes requested
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("riff: need %d bytes at offset 0x%x but only %d remain", e.Want, e.Offset, e.Remaining)
}

// Cursor reads and writes little-endian values over a byte buffer.
type Cursor struct {
	buf  []byte
	pos  int
	base int
}

// NewCursor creates a cursor over b positioned at offset 0.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// NewCursorAt creates a cursor over b whose first byte sits at the absolute
// offset base of some larger buffer.
func NewCursorAt(b []byte, base int) *Cursor {
	return &Cursor{buf: b, base: base}
}

// NewWriter creates an empty cursor meant for Put* calls.
func NewWriter(capacity int) *Cursor {
	return &Cursor{buf: make([]byte, 0, capacity)}
}

// Position returns the absolute offset of the cursor.
func (c *Cursor) Position() int { return c.base + c.pos }

// Size returns the absolute end of the buffer.
func (c *Cursor) Size() int { return c.base + len(c.buf) }

// Remaining returns the bytes between the cursor and the end of the buffer.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// HasRemaining reports whether any bytes are left.
func (c *Cursor) HasRemaining() bool { return c.pos < len(c.buf) }

// Bytes returns the whole underlying buffer.
func (c *Cursor) Bytes() []byte { return c.buf }

// SetPosition moves the cursor to an absolute offset. Seeking to exactly the
// end of the buffer is allowed.
func (c *Cursor) SetPosition(offset int) error {
	rel := offset - c.base
	if rel < 0 || rel > len(c.buf) {
		return &TruncatedError{Offset: c.Position(), Remaining: c.Remaining(), Want: rel - c.pos}
	}
	c.pos = rel
	return nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// Sub returns a cursor over the next n bytes and advances past them. The
// returned cursor shares the buffer and keeps absolute offsets.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	sub := &Cursor{buf: c.buf[c.pos : c.pos+n : c.pos+n], base: c.Position()}
	c.pos += n
	return sub, nil
}

func (c *Cursor) need(n int) error {
	if n < 0 || n > c.Remaining() {
		return &TruncatedError{Offset: c.Position(), Remaining: c.Remaining(), Want: n}
	}
	return nil
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:])
	c.pos += n
	return out, nil
}

// ReadString reads a fixed-length string, e.g. a FourCC.
func (c *Cursor) ReadString(n int) (string, error) {
	if err := c.need(n); err != nil {
		return "", err
	}
	s := string(c.buf[c.pos : c.pos+n])
	c.pos += n
	return s, nil
}

func (c *Cursor) ReadUint8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

// ReadUint24 reads a 3-byte little-endian unsigned integer.
func (c *Cursor) ReadUint24() (uint32, error) {
	if err := c.need(3); err != nil {
		return 0, err
	}
	b := c.buf[c.pos:]
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	c.pos += 3
	return v, nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// reserve makes room for n bytes at the cursor, growing the buffer when
// writing past its end, and returns the slice to fill.
func (c *Cursor) reserve(n int) []byte {
	end := c.pos + n
	if end > len(c.buf) {
		if end > cap(c.buf) {
			grown := make([]byte, len(c.buf), 2*cap(c.buf)+n)
			copy(grown, c.buf)
			c.buf = grown
		}
		c.buf = c.buf[:end]
	}
	out := c.buf[c.pos:end]
	c.pos = end
	return out
}

// PutBytes writes b at the cursor, overwriting or extending the buffer.
func (c *Cursor) PutBytes(b []byte) {
	copy(c.reserve(len(b)), b)
}

func (c *Cursor) PutString(s string) {
	copy(c.reserve(len(s)), s)
}

func (c *Cursor) PutUint8(v uint8) {
	c.reserve(1)[0] = v
}

func (c *Cursor) PutUint16(v uint16) {
	binary.LittleEndian.PutUint16(c.reserve(2), v)
}

// PutUint24 writes the low 24 bits of v little-endian.
func (c *Cursor) PutUint24(v uint32) {
	b := c.reserve(3)
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

func (c *Cursor) PutUint32(v uint32) {
	binary.LittleEndian.PutUint32(c.reserve(4), v)
}

package riff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_ReadLittleEndian(t *testing.T) {
	c := NewCursor([]byte{
		'V', 'P', '8', 'L',
		0x01,
		0x02, 0x01,
		0x03, 0x02, 0x01,
		0x04, 0x03, 0x02, 0x01,
	})

	s, err := c.ReadString(4)
	require.NoError(t, err)
	assert.Equal(t, "VP8L", s)

	u8, err := c.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), u8)

	u16, err := c.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), u16)

	u24, err := c.ReadUint24()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x010203), u24)

	u32, err := c.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), u32)

	assert.False(t, c.HasRemaining())
	assert.Equal(t, 14, c.Position())
}

func TestCursor_Truncated(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	require.NoError(t, c.Skip(2))

	_, err := c.ReadUint32()
	var te *TruncatedError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 2, te.Offset)
	assert.Equal(t, 1, te.Remaining)
	assert.Equal(t, 4, te.Want)
	assert.Contains(t, err.Error(), "0x2")

	// a failed read does not move the cursor
	assert.Equal(t, 2, c.Position())
}

func TestCursor_SetPosition(t *testing.T) {
	c := NewCursor(make([]byte, 8))
	require.NoError(t, c.SetPosition(8))
	assert.Equal(t, 0, c.Remaining())
	require.NoError(t, c.SetPosition(4))
	assert.Equal(t, 4, c.Remaining())
	assert.Error(t, c.SetPosition(9))
	assert.Error(t, c.SetPosition(-1))
}

func TestCursor_SubKeepsAbsoluteOffsets(t *testing.T) {
	c := NewCursor([]byte{0, 0, 0, 0, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE})
	require.NoError(t, c.Skip(4))

	sub, err := c.Sub(4)
	require.NoError(t, err)
	assert.Equal(t, 4, sub.Position())
	assert.Equal(t, 8, sub.Size())
	assert.Equal(t, 8, c.Position())

	v, err := sub.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBBAA), v)
	assert.Equal(t, 6, sub.Position())

	// the view cannot read past its own end
	_, err = sub.ReadUint24()
	var te *TruncatedError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 6, te.Offset)
	assert.Equal(t, 2, te.Remaining)

	require.NoError(t, sub.SetPosition(4))
	assert.Equal(t, 4, sub.Remaining())
	assert.Error(t, sub.SetPosition(2))
}

func TestCursor_ReadBytesCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	c := NewCursor(src)
	b, err := c.ReadBytes(3)
	require.NoError(t, err)
	b[0] = 9
	assert.Equal(t, byte(1), src[0])
}

func TestCursor_Put(t *testing.T) {
	w := NewWriter(0)
	w.PutString("RIFF")
	w.PutUint32(0)
	w.PutString("WEBP")
	w.PutUint8(0x20)
	w.PutUint24(0x2C41)
	w.PutUint16(0xBEEF)
	w.PutBytes([]byte{0xDE, 0xAD})

	// patch the length field in place
	end := w.Position()
	require.NoError(t, w.SetPosition(4))
	w.PutUint32(uint32(end - 8))
	require.NoError(t, w.SetPosition(end))

	assert.Equal(t, []byte{
		'R', 'I', 'F', 'F',
		0x0C, 0x00, 0x00, 0x00,
		'W', 'E', 'B', 'P',
		0x20,
		0x41, 0x2C, 0x00,
		0xEF, 0xBE,
		0xDE, 0xAD,
	}, w.Bytes())
	assert.Equal(t, 20, w.Size())
}

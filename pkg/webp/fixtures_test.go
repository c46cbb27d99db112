package webp

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// 11330x446 lossless image header with one byte of data
var vp8lPayload = []byte{0x2F, 0x41, 0x6C, 0x6F, 0x00, 0x6B}

// 16383x16383 lossy keyframe header
var vp8Payload = []byte{0x00, 0x00, 0x00, 0x9D, 0x01, 0x2A, 0xFF, 0xFF, 0xFF, 0xFF}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// chunkOf serializes a chunk with its padding byte.
func chunkOf(fourCC string, payload []byte) []byte {
	out := make([]byte, 8, 8+len(payload)+1)
	copy(out, fourCC)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(payload)))
	out = append(out, payload...)
	if len(payload)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

// riffOf wraps chunks in a RIFF/WEBP header with a correct length.
func riffOf(chunks ...[]byte) []byte {
	out := []byte("RIFF\x00\x00\x00\x00WEBP")
	for _, ch := range chunks {
		out = append(out, ch...)
	}
	binary.LittleEndian.PutUint32(out[4:], uint32(len(out)-8))
	return out
}

// vp8xOf serializes a VP8X chunk from raw (minus one) dimensions.
func vp8xOf(flags byte, rawWidth, rawHeight uint32) []byte {
	p := []byte{flags, 0, 0, 0,
		byte(rawWidth), byte(rawWidth >> 8), byte(rawWidth >> 16),
		byte(rawHeight), byte(rawHeight >> 8), byte(rawHeight >> 16),
	}
	return chunkOf("VP8X", p)
}

// frameOf serializes an ANMF chunk with a zero frame header at 0,0; the
// frame size fields are raw (minus one).
func frameOf(rawWidth, rawHeight uint32, duration uint32, nested ...[]byte) []byte {
	p := make([]byte, AnmfHeaderSize)
	p[6], p[7], p[8] = byte(rawWidth), byte(rawWidth>>8), byte(rawWidth>>16)
	p[9], p[10], p[11] = byte(rawHeight), byte(rawHeight>>8), byte(rawHeight>>16)
	p[12], p[13], p[14] = byte(duration), byte(duration>>8), byte(duration>>16)
	for _, n := range nested {
		p = append(p, n...)
	}
	return chunkOf("ANMF", p)
}

// animPayload is a transparent background, looping forever.
var animPayload = []byte{0, 0, 0, 0, 0, 0}

func animatedFile() []byte {
	return riffOf(
		vp8xOf(flagAnimation, 11329, 445),
		chunkOf("ANIM", animPayload),
		frameOf(11329, 445, 100, chunkOf("VP8L", vp8lPayload)),
		frameOf(11329, 445, 40, chunkOf("ALPH", nil), chunkOf("VP8L", vp8lPayload)),
	)
}

func mustVP8L(t *testing.T) *VP8L {
	t.Helper()
	v, err := NewVP8L(0, vp8lPayload)
	require.NoError(t, err)
	return v
}

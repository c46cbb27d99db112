package webp

import (
	"testing"

	"github.com/jpfielding/webpexif.go/pkg/riff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFrame(b []byte) (Chunk, error) {
	return readChunk(riff.NewCursor(b), false)
}

func TestAnmf_FrameStates(t *testing.T) {
	vp8l := chunkOf("VP8L", vp8lPayload)
	tests := []struct {
		name   string
		nested [][]byte
		chunks int
		err    error
	}{
		{"alpha then bitstream", [][]byte{chunkOf("ALPH", nil), vp8l}, 2, nil},
		{"bitstream then unknown", [][]byte{vp8l, chunkOf("####", nil)}, 2, nil},
		{"bitstream only", [][]byte{vp8l}, 1, nil},
		{"unknowns after bitstream", [][]byte{chunkOf("ALPH", []byte{1}), vp8l, chunkOf("abcd", nil), chunkOf("efgh", nil)}, 4, nil},
		{"unknown first", [][]byte{chunkOf("####", nil), vp8l}, 0, &AnimationFrameWithoutBitstreamError{Offset: 0}},
		{"empty", nil, 0, &EmptyAnimationFrameError{Offset: 0}},
		{"alpha only", [][]byte{chunkOf("ALPH", nil)}, 0, &AnimationFrameWithoutBitstreamError{Offset: 0}},
		{"two alphas", [][]byte{chunkOf("ALPH", nil), chunkOf("ALPH", nil), vp8l}, 0, &AnimationFrameWithoutBitstreamError{Offset: 0}},
		{"two bitstreams", [][]byte{vp8l, vp8l}, 0, &UnexpectedChunkError{FourCC: FourCCVP8L, Offset: 38}},
		{"alpha after bitstream", [][]byte{vp8l, chunkOf("ALPH", nil)}, 0, &UnexpectedChunkError{FourCC: FourCCALPH, Offset: 38}},
		{"metadata in frame", [][]byte{vp8l, chunkOf("EXIF", nil)}, 0, &UnexpectedChunkError{FourCC: FourCCEXIF, Offset: 38}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, err := readFrame(frameOf(0, 0, 0, tt.nested...))
			if tt.err != nil {
				assert.Equal(t, tt.err, err)
				return
			}
			require.NoError(t, err)
			frame, ok := ch.(*Anmf)
			require.True(t, ok)
			assert.Len(t, frame.DataChunks(), tt.chunks)
			assert.NotNil(t, frame.Bitstream())
		})
	}
}

func TestAnmf_TruncatedHeader(t *testing.T) {
	_, err := readFrame(chunkOf("ANMF", make([]byte, 10)))
	assert.Equal(t, &UnexpectedEndOfFileError{Offset: 8, Remaining: 10}, err)
}

func TestAnmf_Geometry(t *testing.T) {
	header := [AnmfHeaderSize]byte{
		0x05, 0, 0,    // x/2
		0x0A, 0, 0,    // y/2
		0x63, 0, 0,    // width-1
		0xC7, 0, 0,    // height-1
		0xE8, 0x03, 0, // duration
		0x03,
	}
	frame, err := NewAnmf(0, header, []Chunk{mustVP8L(t)})
	require.NoError(t, err)

	assert.Equal(t, 10, frame.X())
	assert.Equal(t, 20, frame.Y())
	assert.Equal(t, 100, frame.FrameWidth())
	assert.Equal(t, 200, frame.FrameHeight())
	assert.Equal(t, 1000, frame.Duration())
	assert.True(t, frame.DisposeToBackground())
	assert.True(t, frame.NoBlend())
	assert.Equal(t, header, frame.Header())
	assert.Equal(t, AnmfHeaderSize+14, frame.Len())
}

func TestAnmf_NewMatchesDecoded(t *testing.T) {
	alph := NewAlph(0, []byte{7})
	frame, err := NewAnmf(0, [AnmfHeaderSize]byte{}, []Chunk{alph, mustVP8L(t)})
	require.NoError(t, err)

	decoded, err := readFrame(frameOf(0, 0, 0, chunkOf("ALPH", []byte{7}), chunkOf("VP8L", vp8lPayload)))
	require.NoError(t, err)
	assert.Equal(t, decoded.RawBytes(), frame.RawBytes())
}

func TestAnmf_NewRejects(t *testing.T) {
	_, err := NewAnmf(0, [AnmfHeaderSize]byte{}, nil)
	assert.Equal(t, &EmptyAnimationFrameError{Offset: 0}, err)

	_, err = NewAnmf(0, [AnmfHeaderSize]byte{}, []Chunk{mustVP8L(t), nil})
	assert.Equal(t, &NilChunkError{Index: 1}, err)
	assert.ErrorIs(t, err, ErrMisuse)
}

package webp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_SimpleLossless(t *testing.T) {
	doc, err := Decode(mustHex(t, "5249464612000000574542505650384C060000002F416C6F006B"))
	require.NoError(t, err)

	assert.Equal(t, 11330, doc.Width())
	assert.Equal(t, 446, doc.Height())
	require.Len(t, doc.Chunks(), 1)
	ch := doc.Chunks()[0]
	assert.Equal(t, FourCCVP8L, ch.FourCC())
	assert.Equal(t, 6, ch.Len())
	assert.Equal(t, 12, ch.Offset())
	assert.True(t, doc.ContainsOnlyBitstream())
	assert.Equal(t, 14, doc.ByteLength())
}

func TestDecode_SimpleLossy(t *testing.T) {
	doc, err := Decode(riffOf(chunkOf("VP8 ", vp8Payload)))
	require.NoError(t, err)
	assert.Equal(t, 16383, doc.Width())
	assert.Equal(t, 16383, doc.Height())
	assert.Equal(t, KindVP8, doc.Bitstream().Kind())
}

func TestDecode_DoesNotAliasInput(t *testing.T) {
	b := riffOf(chunkOf("VP8L", vp8lPayload))
	doc, err := Decode(b)
	require.NoError(t, err)
	b[20] = 0xFF
	assert.Equal(t, vp8lPayload, doc.Bitstream().RawBytes())
}

func TestDecode_Read(t *testing.T) {
	doc, err := Read(bytes.NewReader(animatedFile()))
	require.NoError(t, err)
	assert.Len(t, doc.Frames(), 2)
}

func TestDecode_Errors(t *testing.T) {
	valid := mustHex(t, "5249464612000000574542505650384C060000002F416C6F006B")
	sizeMismatch := append([]byte(nil), valid...)
	sizeMismatch[4] = 0x10

	trailing := append(append([]byte(nil), valid...), 0, 0)
	trailing[4] = 0x14

	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"too short", valid[:20], &NotEnoughDataError{Expected: 26, Found: 20}},
		{"not riff", append([]byte("RIFX"), valid[4:]...), &UnrecognizedFileFormatError{RIFF: "RIFX", Format: "WEBP"}},
		{"not webp", append(append([]byte(nil), valid[:8]...), append([]byte("WAVE"), valid[12:]...)...), &UnrecognizedFileFormatError{RIFF: "RIFF", Format: "WAVE"}},
		{"size mismatch", sizeMismatch, &FileSizeMismatchError{Expected: 16, Found: 18}},
		{"data after last chunk", trailing, &DataAfterLastChunkError{Offset: 26, Remaining: 2}},
		{"metadata first", riffOf(chunkOf("EXIF", []byte("abcdef"))), &UnexpectedChunkError{FourCC: FourCCEXIF, Offset: 12}},
		{"truncated header", riffOf(vp8xOf(0, 0, 0), []byte("EXIF")), &UnexpectedEndOfFileError{Offset: 30, Remaining: 4}},
		{"length out of bounds", riffOf(vp8xOf(0, 0, 0), []byte("EXIF\x01\x00\x00\x00")), &LengthOutOfBoundsError{Length: 1, Offset: 34, Remaining: 0}},
		{"missing padding", riffOf(vp8xOf(0, 0, 0), chunkOf("VP8L", vp8lPayload), []byte("XMP \x01\x00\x00\x00x")), &UnexpectedEndOfFileError{Offset: 53, Remaining: 0}},
		{"vp8x alone", riffOf(vp8xOf(0, 0, 0)), &VP8XWithoutChunksError{}},
		{"vp8x without bitstream", riffOf(vp8xOf(0, 0, 0), chunkOf("EXIF", []byte("ab"))), &VP8XMissingImageDataError{StillImage: true}},
		{"nested vp8x", riffOf(vp8xOf(0, 0, 0), vp8xOf(0, 0, 0)), &UnexpectedChunkError{FourCC: FourCCVP8X, Offset: 30}},
		{"second vp8x with bad length", riffOf(vp8xOf(0, 0, 0), chunkOf("VP8L", vp8lPayload), chunkOf("VP8X", []byte{1, 2})), &UnexpectedChunkError{FourCC: FourCCVP8X, Offset: 44}},
		{"vp8x length", riffOf(chunkOf("VP8X", make([]byte, 12))), &VP8XHeaderLengthMismatchError{Expected: 10, Found: 12}},
		{"vp8 interframe", riffOf(chunkOf("VP8 ", append([]byte{0x01}, vp8Payload[1:]...))), &ExpectedKeyFrameError{Offset: 12}},
		{"vp8 start code", riffOf(chunkOf("VP8 ", []byte{0, 0, 0, 0x9D, 0x01, 0x2B, 1, 0, 1, 0})), &MissingMagicByteError{FourCC: FourCCVP8, Offset: 12}},
		{"vp8 short header", riffOf(chunkOf("VP8 ", vp8Payload[:6]), chunkOf("XMP ", []byte("abcd"))), &UnexpectedEndOfFileError{Offset: 26, Remaining: 0}},
		{"vp8 zero width", riffOf(chunkOf("VP8 ", []byte{0, 0, 0, 0x9D, 0x01, 0x2A, 0, 0, 1, 0})), &InvalidDimensionsError{FourCC: FourCCVP8, Offset: 12, Width: 0, Height: 1}},
		{"vp8l signature", riffOf(chunkOf("VP8L", []byte{0x2E, 0x41, 0x6C, 0x6F, 0x00, 0x6B})), &MissingMagicByteError{FourCC: FourCCVP8L, Offset: 12}},
		{"vp8l version", riffOf(chunkOf("VP8L", []byte{0x2F, 0x41, 0x6C, 0x6F, 0x20, 0x6B})), &UnsupportedVersionError{FourCC: FourCCVP8L, Expected: 0, Found: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(tt.input)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Equal(t, tt.want, err)
			assert.True(t, errors.Is(err, ErrMalformed))
			assert.False(t, errors.Is(err, ErrMisuse))
		})
	}
}

func TestDecode_DimensionsOverflow(t *testing.T) {
	_, err := Decode(riffOf(vp8xOf(0, 0xFFFFFF, 0xFFFFFF), chunkOf("VP8L", vp8lPayload)))
	var dim *DimensionsExceedInt32Error
	require.ErrorAs(t, err, &dim)
	assert.Equal(t, 16777216, dim.Width)
	assert.Equal(t, 16777216, dim.Height)

	doc, err := Decode(riffOf(vp8xOf(0, 37, 9999), chunkOf("VP8L", vp8lPayload)))
	require.NoError(t, err)
	assert.Equal(t, 38, doc.Width())
	assert.Equal(t, 10000, doc.Height())
}

func TestDecode_Extended(t *testing.T) {
	unknown := chunkOf("ABCD", []byte("xyz"))
	b := riffOf(
		vp8xOf(flagICCP|flagEXIF|flagXMP, 99, 49),
		chunkOf("ICCP", []byte("icc")),
		chunkOf("VP8L", vp8lPayload),
		chunkOf("EXIF", []byte("exif")),
		chunkOf("XMP ", []byte("<x/>")),
		unknown,
	)
	doc, err := Decode(b)
	require.NoError(t, err)

	assert.Equal(t, 100, doc.Width())
	assert.Equal(t, 50, doc.Height())
	assert.False(t, doc.ContainsOnlyBitstream())
	require.NotNil(t, doc.ICCProfile())
	assert.Equal(t, []byte("icc"), doc.ICCProfile().RawBytes())
	assert.Equal(t, 30, doc.ICCProfile().Offset())
	require.NotNil(t, doc.Exif())
	assert.Equal(t, []byte("exif"), doc.Exif().RawBytes())
	require.NotNil(t, doc.XMP())
	assert.Equal(t, []byte("<x/>"), doc.XMP().RawBytes())
	require.Len(t, doc.UnknownChunks(), 1)
	assert.Equal(t, FourCC("ABCD"), doc.UnknownChunks()[0].FourCC())
	assert.Nil(t, doc.Alpha())
	assert.Nil(t, doc.Animation())
	// the bitstream keeps its own dimensions
	assert.Equal(t, 11330, doc.Bitstream().Width())
}

func TestDecode_Animated(t *testing.T) {
	doc, err := Decode(animatedFile())
	require.NoError(t, err)

	assert.Nil(t, doc.Bitstream())
	require.NotNil(t, doc.Animation())
	loops, ok := doc.Animation().LoopCount()
	assert.True(t, ok)
	assert.Equal(t, 0, loops)

	frames := doc.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, 100, frames[0].Duration())
	assert.Equal(t, 11330, frames[0].FrameWidth())
	assert.Equal(t, 446, frames[0].FrameHeight())
	require.Len(t, frames[1].DataChunks(), 2)
	assert.Equal(t, KindAlph, frames[1].DataChunks()[0].Kind())
	assert.Equal(t, KindVP8L, frames[1].Bitstream().Kind())
}

func TestDecode_AnimatedRequiresAnim(t *testing.T) {
	b := riffOf(
		vp8xOf(flagAnimation, 0, 0),
		frameOf(0, 0, 0, chunkOf("VP8L", vp8lPayload)),
		frameOf(0, 0, 0, chunkOf("VP8L", vp8lPayload)),
	)
	_, err := Decode(b)
	assert.Equal(t, &VP8XAbsentChunkError{FourCC: FourCCANIM}, err)
}

func TestDecode_NestedFrameRejected(t *testing.T) {
	inner := frameOf(0, 0, 0, chunkOf("VP8L", vp8lPayload))
	b := riffOf(
		vp8xOf(flagAnimation, 0, 0),
		chunkOf("ANIM", animPayload),
		frameOf(0, 0, 0, inner),
		frameOf(0, 0, 0, chunkOf("VP8L", vp8lPayload)),
	)
	_, err := Decode(b)
	// ANIM at 30 (14 bytes), outer ANMF at 44, nested ANMF after its 8+16 bytes
	assert.Equal(t, &UnexpectedChunkError{FourCC: FourCCANMF, Offset: 68}, err)
}

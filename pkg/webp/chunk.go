package webp

import (
	"encoding/binary"
)

// Chunk is one RIFF record of a WebP file. The set of implementations is
// closed: *Alph, *Anim, *Anmf, *Exif, *Iccp, *Xmp, *VP8, *VP8L, *VP8X and
// *Unknown. Chunks are immutable once constructed.
type Chunk interface {
	FourCC() FourCC
	Kind() Kind
	// Offset is the absolute position of the chunk header in the source
	// buffer. It is informational only.
	Offset() int
	// RawBytes is the payload without the 8-byte header and padding byte.
	// Callers must not modify it.
	RawBytes() []byte
	// Len is the payload length as declared in the chunk header.
	Len() int

	chunk()
}

// Bitstream is a VP8 or VP8L chunk.
type Bitstream interface {
	Chunk
	Width() int
	Height() int

	bitstream()
}

// envelope carries the fields shared by every chunk kind.
type envelope struct {
	fourCC FourCC
	offset int
	data   []byte
}

func (e envelope) FourCC() FourCC   { return e.fourCC }
func (e envelope) Kind() Kind       { return KindOf(e.fourCC) }
func (e envelope) Offset() int      { return e.offset }
func (e envelope) RawBytes() []byte { return e.data }
func (e envelope) Len() int         { return len(e.data) }
func (e envelope) chunk()           {}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Alph holds the alpha plane of a lossy still image or animation frame.
type Alph struct{ envelope }

// NewAlph creates an ALPH chunk; data is copied.
func NewAlph(offset int, data []byte) *Alph {
	return &Alph{envelope{fourCC: FourCCALPH, offset: offset, data: cloneBytes(data)}}
}

// Anim holds the global animation parameters.
type Anim struct{ envelope }

// NewAnim creates an ANIM chunk; data is copied.
func NewAnim(offset int, data []byte) *Anim {
	return &Anim{envelope{fourCC: FourCCANIM, offset: offset, data: cloneBytes(data)}}
}

// BackgroundColor returns the canvas background color in [B,G,R,A] byte
// order, or false when the payload is too short.
func (a *Anim) BackgroundColor() (uint32, bool) {
	if len(a.data) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(a.data), true
}

// LoopCount returns the number of loops (0 is infinite), or false when the
// payload is too short.
func (a *Anim) LoopCount() (int, bool) {
	if len(a.data) < 6 {
		return 0, false
	}
	return int(binary.LittleEndian.Uint16(a.data[4:])), true
}

// Exif holds raw EXIF metadata.
type Exif struct{ envelope }

// NewExif creates an EXIF chunk; data is copied.
func NewExif(offset int, data []byte) *Exif {
	return &Exif{envelope{fourCC: FourCCEXIF, offset: offset, data: cloneBytes(data)}}
}

// Iccp holds an ICC color profile.
type Iccp struct{ envelope }

// NewIccp creates an ICCP chunk; data is copied.
func NewIccp(offset int, data []byte) *Iccp {
	return &Iccp{envelope{fourCC: FourCCICCP, offset: offset, data: cloneBytes(data)}}
}

// Xmp holds XMP metadata.
type Xmp struct{ envelope }

// NewXmp creates an XMP chunk; data is copied.
func NewXmp(offset int, data []byte) *Xmp {
	return &Xmp{envelope{fourCC: FourCCXMP, offset: offset, data: cloneBytes(data)}}
}

// Unknown is any chunk whose FourCC is not well-known. It is carried through
// decoding and encoding untouched.
type Unknown struct{ envelope }

// NewUnknown creates an unknown chunk; data is copied. It fails when fourCC
// is not exactly 4 bytes or names a well-known chunk.
func NewUnknown(fourCC FourCC, offset int, data []byte) (*Unknown, error) {
	if len(fourCC) != 4 || KindOf(fourCC) != KindUnknown {
		return nil, &UnknownChunkWithKnownFourCCError{FourCC: fourCC}
	}
	return &Unknown{envelope{fourCC: fourCC, offset: offset, data: cloneBytes(data)}}, nil
}

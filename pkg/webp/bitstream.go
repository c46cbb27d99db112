package webp

import (
	"bytes"

	"github.com/jpfielding/webpexif.go/pkg/riff"
)

const (
	vp8FrameHeaderSize = 10
	vp8DimensionMask   = 0x3FFF // top 2 bits are the scale
	vp8lMagicByte      = 0x2F
	vp8lVersion        = 0
)

var vp8StartCode = []byte{0x9D, 0x01, 0x2A}

// VP8 is a lossy bitstream chunk.
type VP8 struct {
	envelope
	width  int
	height int
}

func (v *VP8) Width() int  { return v.width }
func (v *VP8) Height() int { return v.height }
func (v *VP8) bitstream()  {}

// NewVP8 parses a VP8 payload. offset is the position of the chunk header.
func NewVP8(offset int, data []byte) (*VP8, error) {
	return parseVP8(offset, riff.NewCursorAt(cloneBytes(data), offset+chunkHeaderSize))
}

// parseVP8 reads the keyframe header at the start of the payload view p.
func parseVP8(offset int, p *riff.Cursor) (*VP8, error) {
	data := p.Bytes()
	tag, err := p.ReadUint8()
	if err != nil {
		return nil, eof(err)
	}
	if tag&1 != 0 {
		return nil, &ExpectedKeyFrameError{Offset: offset}
	}
	// the rest of the 3-byte frame tag holds version and partition size
	if err := p.Skip(2); err != nil {
		return nil, eof(err)
	}
	marker, err := p.ReadBytes(3)
	if err != nil {
		return nil, eof(err)
	}
	if !bytes.Equal(marker, vp8StartCode) {
		return nil, &MissingMagicByteError{FourCC: FourCCVP8, Offset: offset}
	}
	w, err := p.ReadUint16()
	if err != nil {
		return nil, eof(err)
	}
	h, err := p.ReadUint16()
	if err != nil {
		return nil, eof(err)
	}
	width, height := int(w&vp8DimensionMask), int(h&vp8DimensionMask)
	if width == 0 || height == 0 {
		return nil, &InvalidDimensionsError{FourCC: FourCCVP8, Offset: offset, Width: width, Height: height}
	}
	return &VP8{
		envelope: envelope{fourCC: FourCCVP8, offset: offset, data: data},
		width:    width,
		height:   height,
	}, nil
}

// VP8L is a lossless bitstream chunk.
type VP8L struct {
	envelope
	width  int
	height int
	alpha  bool
}

func (v *VP8L) Width() int  { return v.width }
func (v *VP8L) Height() int { return v.height }
func (v *VP8L) bitstream()  {}

// HasAlpha reports the alpha_is_used hint of the VP8L header.
func (v *VP8L) HasAlpha() bool { return v.alpha }

// NewVP8L parses a VP8L payload. offset is the position of the chunk header.
func NewVP8L(offset int, data []byte) (*VP8L, error) {
	return parseVP8L(offset, riff.NewCursorAt(cloneBytes(data), offset+chunkHeaderSize))
}

// parseVP8L reads the signature and packed header at the start of p:
// bits 0-13 width-1, 14-27 height-1, 28 alpha, 29-31 version.
func parseVP8L(offset int, p *riff.Cursor) (*VP8L, error) {
	data := p.Bytes()
	sig, err := p.ReadUint8()
	if err != nil {
		return nil, eof(err)
	}
	if sig != vp8lMagicByte {
		return nil, &MissingMagicByteError{FourCC: FourCCVP8L, Offset: offset}
	}
	hdr, err := p.ReadUint32()
	if err != nil {
		return nil, eof(err)
	}
	if version := int(hdr >> 29); version != vp8lVersion {
		return nil, &UnsupportedVersionError{FourCC: FourCCVP8L, Expected: vp8lVersion, Found: version}
	}
	return &VP8L{
		envelope: envelope{fourCC: FourCCVP8L, offset: offset, data: data},
		width:    int(hdr&0x3FFF) + 1,
		height:   int((hdr>>14)&0x3FFF) + 1,
		alpha:    hdr>>28&1 == 1,
	}, nil
}

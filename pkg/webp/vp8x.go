package webp

import (
	"log/slog"
	"math"

	"github.com/jpfielding/webpexif.go/pkg/riff"
)

const (
	vp8xChunkSize = 10

	flagAnimation = 0x02
	flagXMP       = 0x04
	flagEXIF      = 0x08
	flagAlpha     = 0x10
	flagICCP      = 0x20
)

// Features are the optional-feature flags of the VP8X header. Bits 0, 6 and 7
// of the flag byte are reserved: ignored on read and zero on write.
type Features struct {
	ICCProfile bool `json:"iccProfile" yaml:"iccProfile"`
	Alpha      bool `json:"alpha" yaml:"alpha"`
	Exif       bool `json:"exif" yaml:"exif"`
	XMP        bool `json:"xmp" yaml:"xmp"`
	Animation  bool `json:"animation" yaml:"animation"`
}

func featuresFromBits(b uint8) Features {
	return Features{
		ICCProfile: b&flagICCP != 0,
		Alpha:      b&flagAlpha != 0,
		Exif:       b&flagEXIF != 0,
		XMP:        b&flagXMP != 0,
		Animation:  b&flagAnimation != 0,
	}
}

// Bits packs the features into the VP8X flag byte.
func (f Features) Bits() uint8 {
	var b uint8
	if f.ICCProfile {
		b |= flagICCP
	}
	if f.Alpha {
		b |= flagAlpha
	}
	if f.Exif {
		b |= flagEXIF
	}
	if f.XMP {
		b |= flagXMP
	}
	if f.Animation {
		b |= flagAnimation
	}
	return b
}

// VP8X is the extended-format header. It has no payload of its own; its
// fields describe the canvas and the chunks that follow it.
type VP8X struct {
	envelope
	width    int
	height   int
	features Features
}

func (v *VP8X) Width() int         { return v.width }
func (v *VP8X) Height() int        { return v.height }
func (v *VP8X) Features() Features { return v.features }

// NewVP8X builds a VP8X header from its fields, applying the same canvas
// limits as decoding.
func NewVP8X(offset, width, height int, features Features) (*VP8X, error) {
	if width < 1 || height < 1 || width > 1<<24 || height > 1<<24 || height > math.MaxInt32/width {
		return nil, &DimensionsExceedInt32Error{Width: width, Height: height}
	}
	return &VP8X{
		envelope: envelope{fourCC: FourCCVP8X, offset: offset, data: []byte{}},
		width:    width,
		height:   height,
		features: features,
	}, nil
}

// parseVP8X reads a VP8X chunk; c is positioned at its length field.
func parseVP8X(offset int, c *riff.Cursor) (*VP8X, error) {
	length, err := c.ReadUint32()
	if err != nil {
		return nil, eof(err)
	}
	if length != vp8xChunkSize {
		return nil, &VP8XHeaderLengthMismatchError{Expected: vp8xChunkSize, Found: length}
	}
	if c.Remaining() < vp8xChunkSize {
		return nil, &LengthOutOfBoundsError{Length: length, Offset: c.Position() - 4, Remaining: c.Remaining()}
	}

	bits, _ := c.ReadUint8()
	_ = c.Skip(3) // reserved
	rawWidth, _ := c.ReadUint24()
	rawHeight, _ := c.ReadUint24()
	width, height := int(rawWidth)+1, int(rawHeight)+1

	// bound height by MaxInt32/width rather than multiplying
	if height > math.MaxInt32/width {
		return nil, &DimensionsExceedInt32Error{Width: width, Height: height}
	}
	return &VP8X{
		envelope: envelope{fourCC: FourCCVP8X, offset: offset, data: []byte{}},
		width:    width,
		height:   height,
		features: featuresFromBits(bits),
	}, nil
}

// filterChunks validates the chunks following a VP8X header against its
// flags. Duplicates of flagged optional chunks are dropped, keeping the first.
// A clear flag does not forbid the chunk.
func (f Features) filterChunks(chunks []Chunk) ([]Chunk, error) {
	if len(chunks) == 0 {
		return nil, &VP8XWithoutChunksError{}
	}
	for _, ch := range chunks {
		if ch.Kind() == KindVP8X {
			return nil, &ExtraVP8XChunkError{Offset: ch.Offset()}
		}
	}

	out := append([]Chunk(nil), chunks...)
	optional := []struct {
		set    bool
		kind   Kind
		fourCC FourCC
	}{
		{f.ICCProfile, KindIccp, FourCCICCP},
		{f.Alpha, KindAlph, FourCCALPH},
		{f.Exif, KindExif, FourCCEXIF},
		{f.XMP, KindXMP, FourCCXMP},
	}
	for _, opt := range optional {
		if !opt.set {
			continue
		}
		var found bool
		out, found = keepFirst(out, opt.kind)
		if !found {
			return nil, &VP8XAbsentChunkError{FourCC: opt.fourCC}
		}
	}

	var frames, bitstreams []Chunk
	var hasAnim bool
	for _, ch := range out {
		switch {
		case ch.Kind() == KindAnmf:
			frames = append(frames, ch)
		case ch.Kind().IsBitstream():
			bitstreams = append(bitstreams, ch)
		case ch.Kind() == KindAnim:
			hasAnim = true
		}
	}

	if f.Animation {
		if len(frames) < 2 {
			return nil, &VP8XMissingImageDataError{StillImage: false}
		}
		if len(bitstreams) > 0 {
			return nil, &UnexpectedChunkError{FourCC: bitstreams[0].FourCC(), Offset: bitstreams[0].Offset()}
		}
		if !hasAnim {
			return nil, &VP8XAbsentChunkError{FourCC: FourCCANIM}
		}
	} else {
		if len(bitstreams) != 1 {
			return nil, &VP8XMissingImageDataError{StillImage: true}
		}
		if len(frames) > 0 {
			return nil, &UnexpectedChunkError{FourCC: frames[0].FourCC(), Offset: frames[0].Offset()}
		}
	}
	return out, nil
}

// keepFirst drops every chunk of kind k after the first one and reports
// whether one was present.
func keepFirst(chunks []Chunk, k Kind) ([]Chunk, bool) {
	out := chunks[:0:0]
	var found bool
	for _, ch := range chunks {
		if ch.Kind() == k {
			if found {
				slog.Debug("dropping duplicate chunk", "fourcc", string(ch.FourCC()), "offset", hexOffset(ch.Offset()))
				continue
			}
			found = true
		}
		out = append(out, ch)
	}
	return out, found
}

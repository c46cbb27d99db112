package webp

import (
	"github.com/jpfielding/webpexif.go/pkg/riff"
)

// AnmfHeaderSize is the fixed frame header at the start of every ANMF payload.
const AnmfHeaderSize = 16

// Anmf is one animation frame: a 16-byte frame header followed by the frame's
// own data chunks (optional ALPH, one VP8/VP8L, then unknown chunks).
type Anmf struct {
	envelope
	header [AnmfHeaderSize]byte
	frames []Chunk
}

// NewAnmf builds an animation frame from its header and data chunks, which
// must satisfy the same ordering rules as a decoded frame.
func NewAnmf(offset int, header [AnmfHeaderSize]byte, dataChunks []Chunk) (*Anmf, error) {
	for i, ch := range dataChunks {
		if ch == nil {
			return nil, &NilChunkError{Index: i}
		}
	}
	if err := validateFrame(offset, dataChunks); err != nil {
		return nil, err
	}
	w := riff.NewWriter(AnmfHeaderSize + chunkListSize(dataChunks))
	w.PutBytes(header[:])
	for _, ch := range dataChunks {
		writeChunk(w, ch)
	}
	return &Anmf{
		envelope: envelope{fourCC: FourCCANMF, offset: offset, data: w.Bytes()},
		header:   header,
		frames:   append([]Chunk(nil), dataChunks...),
	}, nil
}

// DataChunks returns the chunks nested in the frame.
func (a *Anmf) DataChunks() []Chunk { return append([]Chunk(nil), a.frames...) }

// Header returns the raw 16-byte frame header.
func (a *Anmf) Header() [AnmfHeaderSize]byte { return a.header }

// Bitstream returns the frame's VP8 or VP8L chunk.
func (a *Anmf) Bitstream() Bitstream {
	for _, ch := range a.frames {
		if bs, ok := ch.(Bitstream); ok {
			return bs
		}
	}
	return nil
}

func u24(b []byte) int { return int(b[0]) | int(b[1])<<8 | int(b[2])<<16 }

// X and Y are the frame position on the canvas; stored in units of 2 pixels.
func (a *Anmf) X() int { return 2 * u24(a.header[0:3]) }
func (a *Anmf) Y() int { return 2 * u24(a.header[3:6]) }

// FrameWidth and FrameHeight are the frame dimensions from the frame header.
func (a *Anmf) FrameWidth() int  { return 1 + u24(a.header[6:9]) }
func (a *Anmf) FrameHeight() int { return 1 + u24(a.header[9:12]) }

// Duration is the display time in milliseconds.
func (a *Anmf) Duration() int { return u24(a.header[12:15]) }

// DisposeToBackground reports whether the frame area is cleared after display.
func (a *Anmf) DisposeToBackground() bool { return a.header[15]&0x01 != 0 }

// NoBlend reports whether the frame overwrites the canvas instead of alpha blending.
func (a *Anmf) NoBlend() bool { return a.header[15]&0x02 != 0 }

// parseAnmf reads an ANMF chunk; c is positioned at its length field.
func parseAnmf(offset int, c *riff.Cursor) (*Anmf, error) {
	p, err := readPayload(c)
	if err != nil {
		return nil, err
	}
	data := p.Bytes()
	raw, err := p.ReadBytes(AnmfHeaderSize)
	if err != nil {
		return nil, eof(err)
	}
	var frames []Chunk
	for p.HasRemaining() {
		ch, err := readChunk(p, true)
		if err != nil {
			return nil, err
		}
		frames = append(frames, ch)
	}
	if err := validateFrame(offset, frames); err != nil {
		return nil, err
	}
	a := &Anmf{
		envelope: envelope{fourCC: FourCCANMF, offset: offset, data: data},
		frames:   frames,
	}
	copy(a.header[:], raw)
	return a, nil
}

type frameState int

const (
	expectOptionalAlpha frameState = iota
	expectBitstream
	expectOnlyUnknown
)

// validateFrame enforces: [ALPH] (VP8|VP8L) Unknown*.
func validateFrame(offset int, chunks []Chunk) error {
	if len(chunks) == 0 {
		return &EmptyAnimationFrameError{Offset: offset}
	}
	state := expectOptionalAlpha
	for _, ch := range chunks {
		switch state {
		case expectOptionalAlpha:
			if ch.Kind() == KindAlph {
				state = expectBitstream
				continue
			}
			fallthrough
		case expectBitstream:
			if !ch.Kind().IsBitstream() {
				return &AnimationFrameWithoutBitstreamError{Offset: offset}
			}
			state = expectOnlyUnknown
		case expectOnlyUnknown:
			if ch.Kind() != KindUnknown {
				return &UnexpectedChunkError{FourCC: ch.FourCC(), Offset: ch.Offset()}
			}
		}
	}
	if state != expectOnlyUnknown {
		return &AnimationFrameWithoutBitstreamError{Offset: offset}
	}
	return nil
}

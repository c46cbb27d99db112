package webp

import (
	"fmt"
	"io"
	"os"

	"github.com/jpfielding/webpexif.go/pkg/riff"
)

const (
	chunkHeaderSize = 8
	riffHeaderSize  = 12
	minimumFileSize = 26 // RIFF header, VP8L chunk header, signature, packed header and one byte of data
)

// ReadFile decodes the WebP file at path.
func ReadFile(path string) (*WebP, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

// Read decodes a complete WebP file from r.
func Read(r io.Reader) (*WebP, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read webp data: %w", err)
	}
	return Decode(b)
}

// Decode parses and validates a complete WebP file. The returned document does
// not alias b.
func Decode(b []byte) (*WebP, error) {
	if len(b) < minimumFileSize {
		return nil, &NotEnoughDataError{Expected: minimumFileSize, Found: len(b)}
	}
	c := riff.NewCursor(cloneBytes(b))

	riffTag, _ := c.ReadString(4)
	length, _ := c.ReadUint32()
	format, _ := c.ReadString(4)
	if FourCC(riffTag) != FourCCRIFF || FourCC(format) != FourCCWEBP {
		return nil, &UnrecognizedFileFormatError{RIFF: riffTag, Format: format}
	}
	// the RIFF length excludes "RIFF" and itself
	if actual := len(b) - 8; int64(length) != int64(actual) {
		return nil, &FileSizeMismatchError{Expected: int(length), Found: actual}
	}

	first, err := readChunk(c, false)
	if err != nil {
		return nil, err
	}
	switch v := first.(type) {
	case *VP8, *VP8L:
		if c.HasRemaining() {
			return nil, &DataAfterLastChunkError{Offset: c.Position(), Remaining: c.Remaining()}
		}
		bs := v.(Bitstream)
		return &WebP{width: bs.Width(), height: bs.Height(), chunks: []Chunk{first}}, nil
	case *VP8X:
		var chunks []Chunk
		for c.HasRemaining() {
			if f := peekFourCC(c); KindOf(f) == KindVP8X {
				return nil, &UnexpectedChunkError{FourCC: f, Offset: c.Position()}
			}
			ch, err := readChunk(c, false)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, ch)
		}
		filtered, err := v.Features().filterChunks(chunks)
		if err != nil {
			return nil, err
		}
		return &WebP{width: v.Width(), height: v.Height(), chunks: filtered}, nil
	default:
		return nil, &UnexpectedChunkError{FourCC: first.FourCC(), Offset: first.Offset()}
	}
}

// peekFourCC returns the tag at the cursor without consuming it, or "" when
// fewer than four bytes remain.
func peekFourCC(c *riff.Cursor) FourCC {
	if c.Remaining() < 4 {
		return ""
	}
	pos := c.Position()
	tag, _ := c.ReadString(4)
	_ = c.SetPosition(pos)
	return FourCC(tag)
}

// readChunk reads one chunk and its padding byte. Inside an animation frame
// (nested) ANMF and VP8X chunks are rejected before their payload is parsed,
// which keeps nesting to a single level.
func readChunk(c *riff.Cursor, nested bool) (Chunk, error) {
	if c.Remaining() < chunkHeaderSize {
		return nil, &UnexpectedEndOfFileError{Offset: c.Position(), Remaining: c.Remaining()}
	}
	offset := c.Position()
	tag, _ := c.ReadString(4)
	fourCC := FourCC(tag)
	lengthOffset := c.Position()
	length, _ := c.ReadUint32()
	if uint64(length) > uint64(c.Remaining()) {
		return nil, &LengthOutOfBoundsError{Length: length, Offset: lengthOffset, Remaining: c.Remaining()}
	}
	kind := KindOf(fourCC)
	if nested && (kind == KindAnmf || kind == KindVP8X) {
		return nil, &UnexpectedChunkError{FourCC: fourCC, Offset: offset}
	}

	var ch Chunk
	var err error
	switch kind {
	case KindVP8, KindVP8L, KindVP8X, KindAnmf:
		// these evaluate their own length field
		if err := c.SetPosition(lengthOffset); err != nil {
			return nil, eof(err)
		}
		ch, err = parseSized(kind, offset, c)
	default:
		var data []byte
		var p *riff.Cursor
		p, err = c.Sub(int(length))
		if err == nil {
			data = p.Bytes()
		}
		switch kind {
		case KindAlph:
			ch = &Alph{envelope{fourCC: fourCC, offset: offset, data: data}}
		case KindAnim:
			ch = &Anim{envelope{fourCC: fourCC, offset: offset, data: data}}
		case KindExif:
			ch = &Exif{envelope{fourCC: fourCC, offset: offset, data: data}}
		case KindIccp:
			ch = &Iccp{envelope{fourCC: fourCC, offset: offset, data: data}}
		case KindXMP:
			ch = &Xmp{envelope{fourCC: fourCC, offset: offset, data: data}}
		default:
			ch = &Unknown{envelope{fourCC: fourCC, offset: offset, data: data}}
		}
	}
	if err != nil {
		return nil, eof(err)
	}

	if err := c.SetPosition(lengthOffset + 4 + int(length)); err != nil {
		return nil, eof(err)
	}
	if length%2 == 1 {
		if err := c.Skip(1); err != nil {
			return nil, eof(err)
		}
	}
	return ch, nil
}

func parseSized(kind Kind, offset int, c *riff.Cursor) (Chunk, error) {
	switch kind {
	case KindVP8X:
		return parseVP8X(offset, c)
	case KindAnmf:
		return parseAnmf(offset, c)
	}
	p, err := readPayload(c)
	if err != nil {
		return nil, err
	}
	if kind == KindVP8 {
		return parseVP8(offset, p)
	}
	return parseVP8L(offset, p)
}

// readPayload reads the length field at the cursor and returns a view over the
// payload that follows, leaving c at the end of the payload.
func readPayload(c *riff.Cursor) (*riff.Cursor, error) {
	lengthOffset := c.Position()
	length, err := c.ReadUint32()
	if err != nil {
		return nil, eof(err)
	}
	if uint64(length) > uint64(c.Remaining()) {
		return nil, &LengthOutOfBoundsError{Length: length, Offset: lengthOffset, Remaining: c.Remaining()}
	}
	return c.Sub(int(length))
}

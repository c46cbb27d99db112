package webp

// WebP is a decoded, validated WebP document: the canvas size and the
// top-level chunks. The VP8X header of extended files is not retained; its
// dimensions live on the document and its flags are derived on encode.
//
// A WebP value is immutable. The With* methods return a new document.
type WebP struct {
	width  int
	height int
	chunks []Chunk
}

// FromChunks builds a document from a chunk list, validating it exactly like
// decoding does. The first chunk must be VP8/VP8L (simple format, nothing
// may follow) or VP8X (extended format).
func FromChunks(chunks []Chunk) (*WebP, error) {
	if len(chunks) == 0 {
		return nil, &MissingChunksError{}
	}
	for i, ch := range chunks {
		if ch == nil {
			return nil, &NilChunkError{Index: i}
		}
	}
	first, rest := chunks[0], chunks[1:]
	switch v := first.(type) {
	case *VP8, *VP8L:
		if len(rest) > 0 {
			extra := make([]FourCC, len(rest))
			for i, ch := range rest {
				extra[i] = ch.FourCC()
			}
			return nil, &ExtraChunksInSimpleFormatError{FourCC: first.FourCC(), Extra: extra}
		}
		bs := v.(Bitstream)
		return &WebP{width: bs.Width(), height: bs.Height(), chunks: []Chunk{first}}, nil
	case *VP8X:
		filtered, err := v.Features().filterChunks(rest)
		if err != nil {
			return nil, err
		}
		return &WebP{width: v.Width(), height: v.Height(), chunks: filtered}, nil
	default:
		return nil, &UnexpectedChunkError{FourCC: first.FourCC(), Offset: first.Offset()}
	}
}

// Width is the canvas width.
func (w *WebP) Width() int { return w.width }

// Height is the canvas height.
func (w *WebP) Height() int { return w.height }

// Chunks returns a copy of the top-level chunk list.
func (w *WebP) Chunks() []Chunk { return append([]Chunk(nil), w.chunks...) }

// ByteLength is the size of all top-level chunks including their 8-byte
// headers, excluding padding.
func (w *WebP) ByteLength() int {
	n := 0
	for _, ch := range w.chunks {
		n += ch.Len() + chunkHeaderSize
	}
	return n
}

func (w *WebP) encodedChunksSize() int { return chunkListSize(w.chunks) }

// ContainsOnlyBitstream reports whether the document fits the simple format.
func (w *WebP) ContainsOnlyBitstream() bool {
	return len(w.chunks) == 1 && w.chunks[0].Kind().IsBitstream()
}

func (w *WebP) find(k Kind) Chunk {
	for _, ch := range w.chunks {
		if ch.Kind() == k {
			return ch
		}
	}
	return nil
}

func (w *WebP) ICCProfile() *Iccp {
	ch, _ := w.find(KindIccp).(*Iccp)
	return ch
}

func (w *WebP) Alpha() *Alph {
	ch, _ := w.find(KindAlph).(*Alph)
	return ch
}

func (w *WebP) Exif() *Exif {
	ch, _ := w.find(KindExif).(*Exif)
	return ch
}

func (w *WebP) XMP() *Xmp {
	ch, _ := w.find(KindXMP).(*Xmp)
	return ch
}

func (w *WebP) Animation() *Anim {
	ch, _ := w.find(KindAnim).(*Anim)
	return ch
}

// Frames returns the animation frames in order.
func (w *WebP) Frames() []*Anmf {
	var out []*Anmf
	for _, ch := range w.chunks {
		if f, ok := ch.(*Anmf); ok {
			out = append(out, f)
		}
	}
	return out
}

// Bitstream returns the still image's VP8/VP8L chunk, or nil for animations.
func (w *WebP) Bitstream() Bitstream {
	if w.Animation() != nil {
		return nil
	}
	for _, ch := range w.chunks {
		if bs, ok := ch.(Bitstream); ok {
			return bs
		}
	}
	return nil
}

// UnknownChunks returns the unknown chunks in stored order.
func (w *WebP) UnknownChunks() []*Unknown {
	var out []*Unknown
	for _, ch := range w.chunks {
		if u, ok := ch.(*Unknown); ok {
			out = append(out, u)
		}
	}
	return out
}

// without returns a copy of the chunk list minus every chunk of kind k.
func (w *WebP) without(k Kind) []Chunk {
	out := make([]Chunk, 0, len(w.chunks)+1)
	for _, ch := range w.chunks {
		if ch.Kind() != k {
			out = append(out, ch)
		}
	}
	return out
}

func (w *WebP) with(chunks []Chunk) *WebP {
	return &WebP{width: w.width, height: w.height, chunks: chunks}
}

// WithExif replaces the EXIF chunk; nil removes it.
func (w *WebP) WithExif(exif *Exif) *WebP {
	chunks := w.without(KindExif)
	if exif != nil {
		chunks = append(chunks, exif)
	}
	return w.with(chunks)
}

// WithIccp replaces the ICC profile; nil removes it.
func (w *WebP) WithIccp(iccp *Iccp) *WebP {
	chunks := w.without(KindIccp)
	if iccp != nil {
		chunks = append(chunks, iccp)
	}
	return w.with(chunks)
}

// WithXmp replaces the XMP chunk; nil removes it.
func (w *WebP) WithXmp(xmp *Xmp) *WebP {
	chunks := w.without(KindXMP)
	if xmp != nil {
		chunks = append(chunks, xmp)
	}
	return w.with(chunks)
}

// WithUnknownChunks appends unknown chunks after the existing ones. nil
// entries are skipped.
func (w *WebP) WithUnknownChunks(unknown ...*Unknown) *WebP {
	chunks := append(make([]Chunk, 0, len(w.chunks)+len(unknown)), w.chunks...)
	for _, u := range unknown {
		if u != nil {
			chunks = append(chunks, u)
		}
	}
	return w.with(chunks)
}

// WithoutUnknownChunks removes every unknown chunk.
func (w *WebP) WithoutUnknownChunks() *WebP {
	return w.with(w.without(KindUnknown))
}

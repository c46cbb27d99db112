package webp

import (
	"encoding/json"
	"fmt"
	"strings"
)

func hexOffset(n int) string { return fmt.Sprintf("0x%x", n) }

// String returns a multi-line dump of the document and its chunks.
func (w *WebP) String() string {
	if w == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "WebP (length %d, width %d, height %d)\n", w.ByteLength(), w.width, w.height)
	for _, ch := range w.chunks {
		writeChunkLine(&b, ch, "  ")
		if f, ok := ch.(*Anmf); ok {
			for _, sub := range f.frames {
				writeChunkLine(&b, sub, "    ")
			}
		}
	}
	return b.String()
}

func writeChunkLine(b *strings.Builder, ch Chunk, indent string) {
	fmt.Fprintf(b, "%sChunk %s (length %d)", indent, ch.FourCC(), ch.Len())
	switch v := ch.(type) {
	case Bitstream:
		fmt.Fprintf(b, " %dx%d", v.Width(), v.Height())
	case *Anmf:
		fmt.Fprintf(b, " %dx%d at %d,%d for %dms", v.FrameWidth(), v.FrameHeight(), v.X(), v.Y(), v.Duration())
	}
	b.WriteString("\n")
}

// ChunkSummary describes one chunk for reports.
type ChunkSummary struct {
	FourCC string         `json:"fourcc" yaml:"fourcc"`
	Offset int            `json:"offset" yaml:"offset"`
	Length int            `json:"length" yaml:"length"`
	Width  int            `json:"width,omitempty" yaml:"width,omitempty"`
	Height int            `json:"height,omitempty" yaml:"height,omitempty"`
	Frame  *FrameSummary  `json:"frame,omitempty" yaml:"frame,omitempty"`
	Chunks []ChunkSummary `json:"chunks,omitempty" yaml:"chunks,omitempty"`
}

// FrameSummary is the geometry of an animation frame.
type FrameSummary struct {
	X                   int  `json:"x" yaml:"x"`
	Y                   int  `json:"y" yaml:"y"`
	Width               int  `json:"width" yaml:"width"`
	Height              int  `json:"height" yaml:"height"`
	Duration            int  `json:"duration" yaml:"duration"`
	DisposeToBackground bool `json:"disposeToBackground" yaml:"disposeToBackground"`
	NoBlend             bool `json:"noBlend" yaml:"noBlend"`
}

// Summary is a structured report of a document.
type Summary struct {
	Format     string         `json:"format" yaml:"format"`
	Width      int            `json:"width" yaml:"width"`
	Height     int            `json:"height" yaml:"height"`
	ByteLength int            `json:"byteLength" yaml:"byteLength"`
	Chunks     []ChunkSummary `json:"chunks" yaml:"chunks"`
}

// Summary reports the document layout. Format is "simple" or "extended",
// matching what Encode would produce.
func (w *WebP) Summary() Summary {
	s := Summary{
		Format:     "extended",
		Width:      w.width,
		Height:     w.height,
		ByteLength: w.ByteLength(),
		Chunks:     make([]ChunkSummary, 0, len(w.chunks)),
	}
	if w.ContainsOnlyBitstream() {
		s.Format = "simple"
	}
	for _, ch := range w.chunks {
		s.Chunks = append(s.Chunks, summarize(ch))
	}
	return s
}

func summarize(ch Chunk) ChunkSummary {
	cs := ChunkSummary{FourCC: string(ch.FourCC()), Offset: ch.Offset(), Length: ch.Len()}
	switch v := ch.(type) {
	case Bitstream:
		cs.Width, cs.Height = v.Width(), v.Height()
	case *Anmf:
		cs.Frame = &FrameSummary{
			X:                   v.X(),
			Y:                   v.Y(),
			Width:               v.FrameWidth(),
			Height:              v.FrameHeight(),
			Duration:            v.Duration(),
			DisposeToBackground: v.DisposeToBackground(),
			NoBlend:             v.NoBlend(),
		}
		for _, sub := range v.frames {
			cs.Chunks = append(cs.Chunks, summarize(sub))
		}
	}
	return cs
}

// MarshalJSON encodes the document Summary.
func (w *WebP) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Summary())
}

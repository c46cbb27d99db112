package webp

import (
	"io"
	"log/slog"
	"os"

	"github.com/jpfielding/webpexif.go/pkg/riff"
)

// WriteFile encodes doc to the file at path.
func WriteFile(path string, doc *WebP) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Write(f, doc)
}

// Write encodes doc to w and returns the number of bytes written.
func Write(w io.Writer, doc *WebP) (int64, error) {
	n, err := w.Write(Encode(doc))
	return int64(n), err
}

// Encode serializes doc. A document holding a single bitstream chunk is
// written in the simple format, anything else in the extended format with
// VP8X flags derived from the chunks written. Encode does not validate; the
// document was validated when it was built.
//
// The RIFF length is always the file size minus 8, so it counts the padding
// byte of an odd-length simple-format payload. Decode requires the same.
func Encode(doc *WebP) []byte {
	w := riff.NewWriter(riffHeaderSize + chunkHeaderSize + vp8xChunkSize + doc.encodedChunksSize())
	w.PutString(string(FourCCRIFF))
	w.PutUint32(0) // patched below
	w.PutString(string(FourCCWEBP))

	if doc.ContainsOnlyBitstream() {
		writeChunk(w, doc.chunks[0])
	} else {
		writeExtended(w, doc)
	}

	end := w.Position()
	_ = w.SetPosition(4)
	w.PutUint32(uint32(end - 8))
	_ = w.SetPosition(end)
	return w.Bytes()
}

// writeExtended emits VP8X, ICCP, the image data (ANIM+ALPH+ANMF or
// ALPH+bitstream), EXIF, XMP and finally the unknown chunks in stored order.
// Only the first chunk of each optional kind is written.
func writeExtended(w *riff.Cursor, doc *WebP) {
	for _, k := range []Kind{KindIccp, KindAlph, KindAnim, KindExif, KindXMP} {
		logDuplicates(doc, k)
	}

	frames := doc.Frames()
	anim := doc.Animation()
	features := Features{
		ICCProfile: doc.ICCProfile() != nil,
		Alpha:      doc.Alpha() != nil,
		Exif:       doc.Exif() != nil,
		XMP:        doc.XMP() != nil,
		Animation:  anim != nil || len(frames) > 0,
	}

	w.PutString(string(FourCCVP8X))
	w.PutUint32(vp8xChunkSize)
	w.PutUint8(features.Bits())
	w.PutUint24(0) // reserved
	w.PutUint24(uint32(doc.width - 1))
	w.PutUint24(uint32(doc.height - 1))

	if iccp := doc.ICCProfile(); iccp != nil {
		writeChunk(w, iccp)
	}
	if features.Animation {
		if anim != nil {
			writeChunk(w, anim)
		}
		if alph := doc.Alpha(); alph != nil {
			writeChunk(w, alph)
		}
		for _, f := range frames {
			writeChunk(w, f)
		}
	} else {
		if alph := doc.Alpha(); alph != nil {
			writeChunk(w, alph)
		}
		if bs := doc.Bitstream(); bs != nil {
			writeChunk(w, bs)
		}
	}
	if exif := doc.Exif(); exif != nil {
		writeChunk(w, exif)
	}
	if xmp := doc.XMP(); xmp != nil {
		writeChunk(w, xmp)
	}
	for _, u := range doc.UnknownChunks() {
		writeChunk(w, u)
	}
}

func logDuplicates(doc *WebP, k Kind) {
	var seen bool
	for _, ch := range doc.chunks {
		if ch.Kind() != k {
			continue
		}
		if seen {
			slog.Debug("dropping duplicate chunk", "fourcc", string(ch.FourCC()), "offset", hexOffset(ch.Offset()))
		}
		seen = true
	}
}

// writeChunk emits the header, payload and padding byte of ch. ANMF payloads
// already hold their nested chunks in serialized form.
func writeChunk(w *riff.Cursor, ch Chunk) {
	data := ch.RawBytes()
	w.PutString(string(ch.FourCC()))
	w.PutUint32(uint32(len(data)))
	w.PutBytes(data)
	if len(data)%2 == 1 {
		w.PutUint8(0)
	}
}

// chunkListSize is the encoded size of chunks including headers and padding.
func chunkListSize(chunks []Chunk) int {
	n := 0
	for _, ch := range chunks {
		n += chunkHeaderSize + ch.Len() + ch.Len()%2
	}
	return n
}

package webp

// FourCC is the 4-byte ASCII tag of a RIFF chunk.
type FourCC string

// Well-known chunk tags.
const (
	FourCCRIFF FourCC = "RIFF"
	FourCCWEBP FourCC = "WEBP"
	FourCCALPH FourCC = "ALPH"
	FourCCANIM FourCC = "ANIM"
	FourCCANMF FourCC = "ANMF"
	FourCCEXIF FourCC = "EXIF"
	FourCCICCP FourCC = "ICCP"
	FourCCVP8  FourCC = "VP8 "
	FourCCVP8L FourCC = "VP8L"
	FourCCVP8X FourCC = "VP8X"
	FourCCXMP  FourCC = "XMP "
)

// Kind is the discriminant of a Chunk.
type Kind int

const (
	KindUnknown Kind = iota
	KindAlph
	KindAnim
	KindAnmf
	KindExif
	KindIccp
	KindVP8
	KindVP8L
	KindVP8X
	KindXMP
)

// KindOf classifies a FourCC. Anything that is not well-known is KindUnknown.
func KindOf(f FourCC) Kind {
	switch f {
	case FourCCALPH:
		return KindAlph
	case FourCCANIM:
		return KindAnim
	case FourCCANMF:
		return KindAnmf
	case FourCCEXIF:
		return KindExif
	case FourCCICCP:
		return KindIccp
	case FourCCVP8:
		return KindVP8
	case FourCCVP8L:
		return KindVP8L
	case FourCCVP8X:
		return KindVP8X
	case FourCCXMP:
		return KindXMP
	}
	return KindUnknown
}

func (k Kind) String() string {
	switch k {
	case KindAlph:
		return "ALPH"
	case KindAnim:
		return "ANIM"
	case KindAnmf:
		return "ANMF"
	case KindExif:
		return "EXIF"
	case KindIccp:
		return "ICCP"
	case KindVP8:
		return "VP8"
	case KindVP8L:
		return "VP8L"
	case KindVP8X:
		return "VP8X"
	case KindXMP:
		return "XMP"
	}
	return "unknown"
}

// IsBitstream reports whether k carries VP8 or VP8L data.
func (k Kind) IsBitstream() bool {
	return k == KindVP8 || k == KindVP8L
}

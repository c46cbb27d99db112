package webp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jpfielding/webpexif.go/pkg/riff"
)

var (
	// ErrMalformed matches every error caused by the input data.
	ErrMalformed = errors.New("webp: malformed data")
	// ErrMisuse matches errors caused by the caller, never by the data.
	ErrMisuse = errors.New("webp: invalid use of the API")
	// ErrReaderUnavailable is returned when EXIF tags are requested without a tag reader.
	ErrReaderUnavailable = errors.New("webp: no EXIF tag reader available")
	// ErrNoExif is returned when EXIF tags are requested from a document without an EXIF chunk.
	ErrNoExif = errors.New("webp: document has no EXIF chunk")
)

type malformed struct{}

func (malformed) Is(target error) bool { return target == ErrMalformed }

type misuse struct{}

func (misuse) Is(target error) bool { return target == ErrMisuse }

// NotEnoughDataError is returned for inputs shorter than the smallest valid file.
type NotEnoughDataError struct {
	malformed
	Expected int
	Found    int
}

func (e *NotEnoughDataError) Error() string {
	return fmt.Sprintf("webp: file size is expected to be at least %d bytes but is only %d bytes long", e.Expected, e.Found)
}

// UnrecognizedFileFormatError is returned when the RIFF or WEBP signature is missing.
type UnrecognizedFileFormatError struct {
	malformed
	RIFF   string
	Format string
}

func (e *UnrecognizedFileFormatError) Error() string {
	return fmt.Sprintf("webp: not a WebP image (found %q/%q)", e.RIFF, e.Format)
}

// FileSizeMismatchError is returned when the RIFF length does not match the buffer.
type FileSizeMismatchError struct {
	malformed
	Expected int // declared in the RIFF header
	Found    int // actual size minus 8
}

func (e *FileSizeMismatchError) Error() string {
	return fmt.Sprintf("webp: file reports a payload of %d bytes, but actually contains %d bytes", e.Expected, e.Found)
}

// DataAfterLastChunkError is returned for trailing bytes after a simple-format bitstream.
type DataAfterLastChunkError struct {
	malformed
	Offset    int
	Remaining int
}

func (e *DataAfterLastChunkError) Error() string {
	return fmt.Sprintf("webp: file contains %d extra bytes after the last chunk at offset 0x%x", e.Remaining, e.Offset)
}

// UnexpectedEndOfFileError is returned when a chunk header or fixed payload
// field runs past the end of the data.
type UnexpectedEndOfFileError struct {
	malformed
	Offset    int
	Remaining int
}

func (e *UnexpectedEndOfFileError) Error() string {
	return fmt.Sprintf("webp: expected more data after offset 0x%x (%d bytes remaining)", e.Offset, e.Remaining)
}

// LengthOutOfBoundsError is returned when a chunk declares more bytes than remain.
type LengthOutOfBoundsError struct {
	malformed
	Length    uint32
	Offset    int // position of the length field
	Remaining int // bytes after the length field
}

func (e *LengthOutOfBoundsError) Error() string {
	return fmt.Sprintf("webp: found the length %d at offset 0x%x but there are only %d bytes remaining", e.Length, e.Offset, e.Remaining)
}

// ExpectedKeyFrameError is returned for VP8 data that does not start with a keyframe.
type ExpectedKeyFrameError struct {
	malformed
	Offset int
}

func (e *ExpectedKeyFrameError) Error() string {
	return fmt.Sprintf("webp: expected a keyframe in the VP8 chunk at offset 0x%x", e.Offset)
}

// MissingMagicByteError is returned when a bitstream signature is wrong.
type MissingMagicByteError struct {
	malformed
	FourCC FourCC
	Offset int
}

func (e *MissingMagicByteError) Error() string {
	return fmt.Sprintf("webp: data for `%s` at offset 0x%x is missing the magic byte", e.FourCC, e.Offset)
}

// UnsupportedVersionError is returned for VP8L data with a non-zero version.
type UnsupportedVersionError struct {
	malformed
	FourCC   FourCC
	Expected int
	Found    int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("webp: expected version `%d` for `%s` but found `%d`", e.Expected, e.FourCC, e.Found)
}

// InvalidDimensionsError is returned for a bitstream header declaring a zero
// width or height.
type InvalidDimensionsError struct {
	malformed
	FourCC FourCC
	Offset int
	Width  int
	Height int
}

func (e *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("webp: `%s` chunk at offset 0x%x declares invalid dimensions %dx%d", e.FourCC, e.Offset, e.Width, e.Height)
}

// VP8XHeaderLengthMismatchError is returned when the VP8X chunk is not 10 bytes.
type VP8XHeaderLengthMismatchError struct {
	malformed
	Expected uint32
	Found    uint32
}

func (e *VP8XHeaderLengthMismatchError) Error() string {
	return fmt.Sprintf("webp: length of the VP8X header was expected to be %d but found %d", e.Expected, e.Found)
}

// DimensionsExceedInt32Error is returned when the canvas area exceeds 2^31-1.
type DimensionsExceedInt32Error struct {
	malformed
	Width  int
	Height int
}

func (e *DimensionsExceedInt32Error) Error() string {
	return fmt.Sprintf("webp: product of %d and %d exceeds the boundary of 2^31 - 1", e.Width, e.Height)
}

// VP8XWithoutChunksError is returned for an extended file with nothing after VP8X.
type VP8XWithoutChunksError struct {
	malformed
}

func (e *VP8XWithoutChunksError) Error() string {
	return "webp: file uses the extended format but does not provide any other chunks"
}

// ExtraVP8XChunkError is returned when a VP8X chunk follows another one.
type ExtraVP8XChunkError struct {
	malformed
	Offset int
}

func (e *ExtraVP8XChunkError) Error() string {
	return fmt.Sprintf("webp: extended format may only contain a single VP8X chunk, found another at offset 0x%x", e.Offset)
}

// VP8XAbsentChunkError is returned when a VP8X flag announces a chunk that is missing.
type VP8XAbsentChunkError struct {
	malformed
	FourCC FourCC
}

func (e *VP8XAbsentChunkError) Error() string {
	return fmt.Sprintf("webp: VP8X header indicates the presence of one or more `%s` chunks but none are present", e.FourCC)
}

// VP8XMissingImageDataError is returned when an extended file lacks its image data.
type VP8XMissingImageDataError struct {
	malformed
	StillImage bool
}

func (e *VP8XMissingImageDataError) Error() string {
	if e.StillImage {
		return "webp: file did not contain exactly one VP8 or VP8L chunk"
	}
	return "webp: file did not contain multiple ANMF chunks"
}

// UnexpectedChunkError is returned for a chunk outside of its legal position.
type UnexpectedChunkError struct {
	malformed
	FourCC FourCC
	Offset int
}

func (e *UnexpectedChunkError) Error() string {
	return fmt.Sprintf("webp: found the unexpected chunk `%s` at offset 0x%x", e.FourCC, e.Offset)
}

// EmptyAnimationFrameError is returned for an ANMF chunk without nested chunks.
type EmptyAnimationFrameError struct {
	malformed
	Offset int
}

func (e *EmptyAnimationFrameError) Error() string {
	return fmt.Sprintf("webp: ANMF frame at offset 0x%x contains no chunks", e.Offset)
}

// AnimationFrameWithoutBitstreamError is returned for an ANMF chunk lacking VP8/VP8L data.
type AnimationFrameWithoutBitstreamError struct {
	malformed
	Offset int
}

func (e *AnimationFrameWithoutBitstreamError) Error() string {
	return fmt.Sprintf("webp: ANMF frame at offset 0x%x does not contain a bitstream chunk", e.Offset)
}

// MissingChunksError is returned when a document is built from no chunks.
type MissingChunksError struct {
	malformed
}

func (e *MissingChunksError) Error() string {
	return "webp: container must contain at least one data chunk"
}

// ExtraChunksInSimpleFormatError is returned when a simple bitstream is followed by more chunks.
type ExtraChunksInSimpleFormatError struct {
	malformed
	FourCC FourCC
	Extra  []FourCC
}

func (e *ExtraChunksInSimpleFormatError) Error() string {
	names := make([]string, len(e.Extra))
	for i, f := range e.Extra {
		names[i] = string(f)
	}
	return fmt.Sprintf("webp: file was recognized as simple %s but contains extra chunks: %s", e.FourCC, strings.Join(names, ", "))
}

// UnknownChunkWithKnownFourCCError is returned when an Unknown chunk is
// constructed with a well-known or malformed FourCC.
type UnknownChunkWithKnownFourCCError struct {
	misuse
	FourCC FourCC
}

func (e *UnknownChunkWithKnownFourCCError) Error() string {
	if len(e.FourCC) != 4 {
		return fmt.Sprintf("webp: FourCC %q must be exactly 4 bytes", string(e.FourCC))
	}
	return fmt.Sprintf("webp: FourCC `%s` is well-known and must not be used for an unknown chunk", e.FourCC)
}

// NilChunkError is returned when a chunk list passed to a constructor contains nil.
type NilChunkError struct {
	misuse
	Index int
}

func (e *NilChunkError) Error() string {
	return fmt.Sprintf("webp: chunk at index %d is nil", e.Index)
}

// eof converts a cursor truncation into the diagnostic error of this package.
func eof(err error) error {
	var te *riff.TruncatedError
	if errors.As(err, &te) {
		return &UnexpectedEndOfFileError{Offset: te.Offset, Remaining: te.Remaining}
	}
	return err
}

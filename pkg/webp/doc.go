// Package webp reads and writes the RIFF container of WebP images without
// decoding pixel data.
//
// This package provides:
//   - Decoding of simple (VP8/VP8L) and extended (VP8X) files into a validated document
//   - Encoding back to bytes, choosing the simple format whenever possible
//   - Immutable editing of EXIF, XMP, ICC profile and unknown chunks
//
// Basic usage:
//
//	doc, err := webp.ReadFile("/path/to/image.webp")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Drop the EXIF and XMP metadata
//	doc = doc.WithExif(nil).WithXmp(nil)
//
//	if _, err := webp.WriteFile("/path/to/stripped.webp", doc); err != nil {
//		log.Fatal(err)
//	}
//
// Every data error matches ErrMalformed with errors.Is; use errors.As with the
// concrete error types to get offsets and expected values.
package webp

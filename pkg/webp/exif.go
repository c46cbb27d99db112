package webp

import "fmt"

// TagReader interprets a raw EXIF payload as a mapping of tag name to value.
// pkg/exiftag provides one backed by goexif.
type TagReader interface {
	ReadTags(exif []byte) (map[string]string, error)
}

// Tags decodes the EXIF payload with r.
func (e *Exif) Tags(r TagReader) (map[string]string, error) {
	if r == nil {
		return nil, ErrReaderUnavailable
	}
	tags, err := r.ReadTags(e.data)
	if err != nil {
		return nil, fmt.Errorf("failed to read EXIF tags at offset 0x%x: %w", e.offset, err)
	}
	return tags, nil
}

// ExifTags decodes the document's EXIF chunk with r.
func (w *WebP) ExifTags(r TagReader) (map[string]string, error) {
	exif := w.Exif()
	if exif == nil {
		return nil, ErrNoExif
	}
	return exif.Tags(r)
}

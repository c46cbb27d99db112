// Package exiftag reads EXIF tags from raw EXIF payloads with goexif.
package exiftag

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// exifHeader prefixes the TIFF data in JPEG APP1 segments; some WebP writers
// keep it in the EXIF chunk.
var exifHeader = []byte("Exif\x00\x00")

// Reader decodes EXIF payloads into tag name/value pairs.
// The zero value is ready to use.
type Reader struct {
	// Names restricts the result to these tag names when non-empty.
	Names []string
}

// ReadTags parses a TIFF-structured EXIF payload, with or without the
// "Exif\0\0" header.
func (r Reader) ReadTags(data []byte) (map[string]string, error) {
	data = bytes.TrimPrefix(data, exifHeader)
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode exif: %w", err)
	}
	w := walker{tags: map[string]string{}}
	if len(r.Names) > 0 {
		w.only = map[string]bool{}
		for _, n := range r.Names {
			w.only[n] = true
		}
	}
	if err := x.Walk(w); err != nil {
		return nil, fmt.Errorf("failed to walk exif: %w", err)
	}
	return w.tags, nil
}

type walker struct {
	tags map[string]string
	only map[string]bool
}

func (w walker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if w.only != nil && !w.only[string(name)] {
		return nil
	}
	w.tags[string(name)] = Value(tag)
	return nil
}

// Value renders a tag as text. Strings lose their quotes and trailing NULs.
func Value(tag *tiff.Tag) string {
	if tag.Format() == tiff.StringVal {
		s, err := tag.StringVal()
		if err == nil {
			return strings.TrimRight(s, "\x00")
		}
	}
	val := tag.String()
	if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
		val = val[1 : len(val)-1]
	}
	return val
}

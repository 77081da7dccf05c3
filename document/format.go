package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for a file type the document layer cannot
// read or write.
var ErrUnsupportedFormat = errors.New("document: unsupported format")

// Format is the file type of a document.
type Format uint8

const (
	// FormatKSP is the lossless layered KSP container.
	FormatKSP Format = iota
	// FormatPNG is a flat 8-bit PNG. Saving merges the visible layers.
	FormatPNG
)

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatKSP:
		return "ksp"
	case FormatPNG:
		return "png"
	}
	return ""
}

func (f Format) String() string {
	if ext := f.Ext(); ext != "" {
		return ext
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat returns the format named by ext, with or without a leading
// dot, in any case.
func ParseFormat(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "ksp":
		return FormatKSP, nil
	case "png":
		return FormatPNG, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// FormatForPath returns the format of path by its extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Package document is the file-level façade over painter: a named stack with
// a file format, and a Manager that creates, opens, saves, exports and
// reloads the current document.
package document

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/painter"
)

// DefaultName is the name of documents created without one.
const DefaultName = "untitled_document"

// Document is a named layer stack with the format it is saved in.
type Document struct {
	Name   string
	Format Format
	Stack  *painter.Stack

	// Path is the file the document was last opened from or saved to, empty
	// for a new document.
	Path string
}

// New creates a document of width × height at depth d holding one opaque
// white layer. opts apply to every layer the stack creates.
func New(name string, width, height int, format Format, d painter.Depth, opts ...painter.LayerOption) (*Document, error) {
	if format.Ext() == "" {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	s, err := painter.NewStack(width, height, d, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := s.AddLayer(nil); err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultName
	}
	return &Document{Name: name, Format: format, Stack: s}, nil
}

// Title returns the name for display: underscores become spaces and words
// are title-cased, so "untitled_document" reads "Untitled Document".
func (d *Document) Title() string {
	return cases.Title(language.Und).String(strings.ReplaceAll(d.Name, "_", " "))
}

// FileName returns the default file name for the document in format f.
func (d *Document) FileName(f Format) string {
	return FileStem(d.Name) + "." + f.Ext()
}

func (d *Document) String() string {
	return fmt.Sprintf("%s (%s, %dx%d %v, %d layers)",
		d.Name, d.Format, d.Stack.Width(), d.Stack.Height(), d.Stack.Depth(), d.Stack.Len())
}

// FileStem turns a document name into a portable file name stem. The name
// is NFC-normalized, path separators and control characters become
// underscores and surrounding spaces and dots are trimmed. An empty result
// yields DefaultName.
func FileStem(name string) string {
	name = norm.NFC.String(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == filepath.Separator:
			return '_'
		case unicode.IsControl(r):
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, " .")
	if name == "" {
		return DefaultName
	}
	return name
}

// stemOf returns the document name for a file path.
func stemOf(path string) string {
	base := filepath.Base(path)
	return norm.NFC.String(strings.TrimSuffix(base, filepath.Ext(base)))
}

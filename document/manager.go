package document

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/gogpu/painter"
	"github.com/gogpu/painter/imageio"
	"github.com/gogpu/painter/ksp"
)

// ErrNoDocument is returned by Manager operations that need a current
// document when none is loaded.
var ErrNoDocument = errors.New("document: no document loaded")

// Option configures a Manager.
type Option func(*Manager)

// WithSaveDir sets the directory relative paths resolve against. It may
// start with ~. The default is "FILES" in the working directory.
func WithSaveDir(dir string) Option {
	return func(m *Manager) {
		m.saveDir = dir
	}
}

// WithDepth sets the depth of new and imported documents. The default is
// 16-bit.
func WithDepth(d painter.Depth) Option {
	return func(m *Manager) {
		m.depth = d
	}
}

// WithCompression sets the KSP payload compression used by Save.
func WithCompression(c ksp.Compression) Option {
	return func(m *Manager) {
		m.compression = c
	}
}

// WithLayerOptions sets options for every layer the manager creates,
// opens or imports.
func WithLayerOptions(opts ...painter.LayerOption) Option {
	return func(m *Manager) {
		m.layerOpts = append(m.layerOpts, opts...)
	}
}

// Manager owns the current document and maps file operations onto it.
// Opening and reloading build the new stack completely before replacing the
// current one, so a bad file never damages the open document.
//
// Manager is not safe for concurrent use.
type Manager struct {
	saveDir     string
	depth       painter.Depth
	compression ksp.Compression
	layerOpts   []painter.LayerOption

	doc *Document
}

// NewManager creates a manager with no current document.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		saveDir:     "FILES",
		depth:       painter.Depth16,
		compression: ksp.Zlib,
	}
	for _, opt := range opts {
		opt(m)
	}
	dir, err := homedir.Expand(m.saveDir)
	if err != nil {
		return nil, fmt.Errorf("document: save dir: %w", err)
	}
	m.saveDir = dir
	if !m.depth.IsValid() {
		return nil, fmt.Errorf("document: depth %v: %w", m.depth, painter.ErrFormat)
	}
	if !m.compression.IsValid() {
		return nil, fmt.Errorf("document: %v: %w", m.compression, painter.ErrFormat)
	}
	return m, nil
}

// SaveDir returns the directory relative paths resolve against.
func (m *Manager) SaveDir() string { return m.saveDir }

// Document returns the current document.
func (m *Manager) Document() (*Document, error) {
	if m.doc == nil {
		return nil, ErrNoDocument
	}
	return m.doc, nil
}

// New creates a document with one white layer and makes it current.
func (m *Manager) New(name string, width, height int, format Format) (*Document, error) {
	doc, err := New(name, width, height, format, m.depth, m.layerOpts...)
	if err != nil {
		return nil, err
	}
	m.doc = doc
	painter.Logger().Info("document: created", "name", doc.Name, "width", width, "height", height, "format", format)
	return doc, nil
}

// Resolve expands ~ in path and joins relative paths to the save directory.
func (m *Manager) Resolve(path string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("document: %w", err)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(m.saveDir, p)
	}
	return p, nil
}

// Open reads the document at path and makes it current. The format is taken
// from the extension; the name from the file name.
func (m *Manager) Open(path string) (*Document, error) {
	p, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	format, err := FormatForPath(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	s, err := m.decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("document: open %s: %w", p, err)
	}

	m.doc = &Document{Name: stemOf(p), Format: format, Stack: s, Path: p}
	painter.Logger().Info("document: opened", "path", p, "format", format, "layers", s.Len())
	return m.doc, nil
}

func (m *Manager) decode(data []byte, format Format) (*painter.Stack, error) {
	switch format {
	case FormatKSP:
		return ksp.Decode(bytes.NewReader(data), ksp.WithLayerOptions(m.layerOpts...))
	case FormatPNG:
		return imageio.Open(bytes.NewReader(data), m.depth, m.layerOpts...)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
}

// Save writes the current document to path in the format of its extension
// and returns the resolved path. An empty path saves to the save directory
// under the document's name and format. The file is replaced atomically.
func (m *Manager) Save(path string) (string, error) {
	doc, err := m.Document()
	if err != nil {
		return "", err
	}
	if path == "" {
		path = doc.FileName(doc.Format)
	}
	p, err := m.Resolve(path)
	if err != nil {
		return "", err
	}
	format, err := FormatForPath(p)
	if err != nil {
		return "", err
	}
	if err := writeAtomic(p, func(w io.Writer) error { return m.encode(w, doc.Stack, format) }); err != nil {
		return "", err
	}
	if format == doc.Format {
		doc.Path = p
	}
	painter.Logger().Info("document: saved", "path", p, "format", format, "layers", doc.Stack.Len())
	return p, nil
}

// Export writes the visible layers of the current document to path as a
// PNG. The extension is forced to .png; an empty path exports to the save
// directory under the document's name.
func (m *Manager) Export(path string) (string, error) {
	doc, err := m.Document()
	if err != nil {
		return "", err
	}
	if path == "" {
		path = doc.FileName(FormatPNG)
	} else {
		path = path[:len(path)-len(filepath.Ext(path))] + "." + FormatPNG.Ext()
	}
	p, err := m.Resolve(path)
	if err != nil {
		return "", err
	}
	if err := writeAtomic(p, func(w io.Writer) error { return m.encode(w, doc.Stack, FormatPNG) }); err != nil {
		return "", err
	}
	painter.Logger().Info("document: exported", "path", p)
	return p, nil
}

func (m *Manager) encode(w io.Writer, s *painter.Stack, format Format) error {
	switch format {
	case FormatKSP:
		return ksp.Encode(w, s, ksp.WithCompression(m.compression))
	case FormatPNG:
		return imageio.Export(w, s)
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
}

// Reload reads the current document's file again and replaces its layers.
// The document keeps its stack when the file has the same size, so views
// held by callers stay attached. A failed reload leaves the document as it
// was.
func (m *Manager) Reload() error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	if doc.Path == "" {
		return fmt.Errorf("document: %s has never been saved: %w", doc.Name, ErrNoDocument)
	}
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return fmt.Errorf("document: %w", err)
	}

	if doc.Format == FormatKSP {
		err := ksp.DecodeInto(bytes.NewReader(data), doc.Stack, ksp.WithLayerOptions(m.layerOpts...))
		if !errors.Is(err, painter.ErrShapeMismatch) {
			if err != nil {
				return fmt.Errorf("document: reload %s: %w", doc.Path, err)
			}
			painter.Logger().Info("document: reloaded", "path", doc.Path)
			return nil
		}
	}

	s, err := m.decode(data, doc.Format)
	if err != nil {
		return fmt.Errorf("document: reload %s: %w", doc.Path, err)
	}
	if err := doc.Stack.Replace(s); err != nil {
		// The file changed size or depth.
		doc.Stack = s
	}
	painter.Logger().Info("document: reloaded", "path", doc.Path)
	return nil
}

// ImportLayer decodes the image at path into a new layer fitted to the
// current document and adds it on top.
func (m *Manager) ImportLayer(path string) (*painter.Layer, error) {
	doc, err := m.Document()
	if err != nil {
		return nil, err
	}
	p, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	defer f.Close()

	s := doc.Stack
	l, err := imageio.Import(f, s.Width(), s.Height(), s.Depth(), m.layerOpts...)
	if err != nil {
		return nil, fmt.Errorf("document: import %s: %w", p, err)
	}
	l.SetName(stemOf(p))
	return s.AddLayer(l)
}

// AddLayer adds a white layer on top of the current document.
func (m *Manager) AddLayer() (*painter.Layer, error) {
	doc, err := m.Document()
	if err != nil {
		return nil, err
	}
	return doc.Stack.AddLayer(nil)
}

// InsertLayer inserts a white layer at index, clamped into the stack, and
// makes it active.
func (m *Manager) InsertLayer(index int) (*painter.Layer, error) {
	doc, err := m.Document()
	if err != nil {
		return nil, err
	}
	return doc.Stack.InsertLayer(index), nil
}

// SelectLayer makes the layer at index active.
func (m *Manager) SelectLayer(index int) error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	return doc.Stack.SelectLayer(index)
}

// MoveLayer moves a layer within the current document.
func (m *Manager) MoveLayer(from, to int) error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	return doc.Stack.MoveLayer(from, to)
}

// RemoveLayer removes a layer from the current document.
func (m *Manager) RemoveLayer(index int) error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	return doc.Stack.RemoveLayer(index)
}

// DrawBrush paints on the active layer of the current document.
func (m *Manager) DrawBrush(p image.Point, size int, c painter.RGBA) (image.Rectangle, error) {
	doc, err := m.Document()
	if err != nil {
		return image.Rectangle{}, err
	}
	return doc.Stack.DrawBrush(p, size, c)
}

// DrawSplineBrush paints a smoothed stroke on the active layer of the
// current document.
func (m *Manager) DrawSplineBrush(p image.Point, size int, c painter.RGBA) (image.Rectangle, error) {
	doc, err := m.Document()
	if err != nil {
		return image.Rectangle{}, err
	}
	return doc.Stack.DrawSplineBrush(p, size, c)
}

// EndStroke ends the stroke in progress on the active layer of the current
// document.
func (m *Manager) EndStroke() error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	return doc.Stack.EndStroke()
}

// ResetActiveLayer overwrites the active layer of the current document with
// c, alpha included.
func (m *Manager) ResetActiveLayer(c painter.RGBA) error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	return doc.Stack.Reset(c)
}

// ResetActiveLayerRGB overwrites the color channels of the active layer of
// the current document and keeps its alpha.
func (m *Manager) ResetActiveLayerRGB(r, g, b uint16) error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	return doc.Stack.ResetRGB(r, g, b)
}

// FillActiveLayer fills the active layer of the current document.
func (m *Manager) FillActiveLayer(c painter.RGBA) error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	return doc.Stack.Fill(c)
}

// Render composites the current document. The view is borrowed; see
// painter.RenderView.
func (m *Manager) Render() (painter.RenderView, error) {
	doc, err := m.Document()
	if err != nil {
		return painter.RenderView{}, err
	}
	return doc.Stack.Render()
}

// writeAtomic writes a file through a temporary file in the same directory
// and renames it into place, creating the directory if needed.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("document: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := f.Chmod(0o644); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	if err := write(f); err != nil {
		return fmt.Errorf("document: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	return nil
}

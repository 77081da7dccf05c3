package document

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/painter"
	"github.com/gogpu/painter/ksp"
)

func newManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithSaveDir(t.TempDir()), WithDepth(painter.Depth8)}, opts...)
	m, err := NewManager(opts...)
	require.NoError(t, err)
	return m
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"ksp", FormatKSP},
		{".KSP", FormatKSP},
		{"png", FormatPNG},
		{".Png", FormatPNG},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatForPath("/tmp/noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, "Format(7)", Format(7).String())
}

func TestNew(t *testing.T) {
	doc, err := New("", 4, 3, FormatKSP, painter.Depth16)
	require.NoError(t, err)
	assert.Equal(t, DefaultName, doc.Name)
	assert.Equal(t, "Untitled Document", doc.Title())
	assert.Equal(t, 1, doc.Stack.Len())
	assert.Equal(t, "untitled_document.ksp", doc.FileName(FormatKSP))

	_, err = New("x", 4, 3, Format(9), painter.Depth16)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = New("x", 0, 3, FormatKSP, painter.Depth16)
	assert.ErrorIs(t, err, painter.ErrInvalidDimensions)
}

func TestFileStem(t *testing.T) {
	tests := []struct{ in, want string }{
		{"sketch", "sketch"},
		{"a/b\\c", "a_b_c"},
		{"  .hidden. ", "hidden"},
		{"tab\there", "tab_here"},
		{"café", "café"},
		{"", DefaultName},
		{"..", DefaultName},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileStem(tt.in), "FileStem(%q)", tt.in)
	}
}

func TestManager_NoDocument(t *testing.T) {
	m := newManager(t)
	_, err := m.Document()
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = m.Save("")
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = m.Export("")
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = m.DrawBrush(image.Pt(1, 1), 2, painter.Black(painter.Depth8))
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = m.Render()
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.ErrorIs(t, m.Reload(), ErrNoDocument)
}

func TestManager_SaveOpenRoundTrip(t *testing.T) {
	for _, c := range []ksp.Compression{ksp.None, ksp.Zlib, ksp.Zstd} {
		t.Run(c.String(), func(t *testing.T) {
			m := newManager(t, WithCompression(c))
			_, err := m.New("my sketch", 12, 8, FormatKSP)
			require.NoError(t, err)
			_, err = m.DrawBrush(image.Pt(3, 3), 4, painter.Opaque(painter.Depth8, 255, 0, 0))
			require.NoError(t, err)
			_, err = m.AddLayer()
			require.NoError(t, err)
			require.NoError(t, m.FillActiveLayer(painter.RGBA{G: 200, A: 50}))

			p, err := m.Save("")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(m.SaveDir(), "my sketch.ksp"), p)

			orig, _ := m.Document()
			frame, err := orig.Stack.Render()
			require.NoError(t, err)
			want := frame.Snapshot()

			doc, err := m.Open("my sketch.ksp")
			require.NoError(t, err)
			assert.NotSame(t, orig, doc)
			assert.Equal(t, "my sketch", doc.Name)
			assert.Equal(t, FormatKSP, doc.Format)
			assert.Equal(t, 2, doc.Stack.Len())
			got, err := doc.Stack.Render()
			require.NoError(t, err)
			assert.True(t, got.Snapshot().Equal(want))
		})
	}
}

func TestManager_OpenFailureKeepsDocument(t *testing.T) {
	m := newManager(t)
	doc, err := m.New("keep", 4, 4, FormatKSP)
	require.NoError(t, err)

	bad := filepath.Join(m.SaveDir(), "bad.ksp")
	require.NoError(t, os.WriteFile(bad, []byte("KSP1 but not really"), 0o644))
	_, err = m.Open(bad)
	assert.ErrorIs(t, err, painter.ErrFormat)

	cur, err := m.Document()
	require.NoError(t, err)
	assert.Same(t, doc, cur)

	_, err = m.Open("missing.ksp")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = m.Open("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestManager_ExportAndOpenPNG(t *testing.T) {
	m := newManager(t)
	_, err := m.New("flat", 6, 4, FormatKSP)
	require.NoError(t, err)
	require.NoError(t, m.FillActiveLayer(painter.Opaque(painter.Depth8, 10, 20, 30)))

	p, err := m.Export("out/flat.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.SaveDir(), "out", "flat.png"), p)

	doc, err := m.Open(p)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, doc.Format)
	assert.Equal(t, 6, doc.Stack.Width())
	l, err := doc.Stack.Layer(0)
	require.NoError(t, err)
	assert.Equal(t, painter.Opaque(painter.Depth8, 10, 20, 30), l.Pixels().RGBA(5, 3))
}

func TestManager_SaveByExtension(t *testing.T) {
	m := newManager(t)
	doc, err := m.New("both", 3, 3, FormatKSP)
	require.NoError(t, err)

	p, err := m.Save("copy.png")
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
	assert.Empty(t, doc.Path, "saving in another format does not rebind the document")

	_, err = m.Save("copy.bmp")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	entries, err := os.ReadDir(m.SaveDir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".copy", "temporary file left behind")
	}
}

func TestManager_Reload(t *testing.T) {
	m := newManager(t)
	doc, err := m.New("reload", 5, 5, FormatKSP)
	require.NoError(t, err)
	_, err = m.Save("")
	require.NoError(t, err)
	stack := doc.Stack

	require.NoError(t, m.FillActiveLayer(painter.Black(painter.Depth8)))
	_, err = m.AddLayer()
	require.NoError(t, err)

	require.NoError(t, m.Reload())
	assert.Same(t, stack, doc.Stack, "same-size reload keeps the stack")
	assert.Equal(t, 1, doc.Stack.Len())
	l, _ := doc.Stack.Layer(0)
	assert.Equal(t, painter.White(painter.Depth8), l.Pixels().RGBA(2, 2))

	// A corrupt file on disk leaves the document untouched.
	require.NoError(t, os.WriteFile(doc.Path, []byte("junk"), 0o644))
	_, _ = m.AddLayer()
	assert.Error(t, m.Reload())
	assert.Equal(t, 2, doc.Stack.Len())
}

func TestManager_ImportLayer(t *testing.T) {
	m := newManager(t)
	_, err := m.New("src", 4, 4, FormatKSP)
	require.NoError(t, err)
	require.NoError(t, m.FillActiveLayer(painter.Opaque(painter.Depth8, 0, 0, 255)))
	p, err := m.Export("blue")
	require.NoError(t, err)

	_, err = m.New("dst", 8, 8, FormatKSP)
	require.NoError(t, err)
	l, err := m.ImportLayer(p)
	require.NoError(t, err)
	assert.Equal(t, "blue", l.Name())

	doc, _ := m.Document()
	assert.Equal(t, 2, doc.Stack.Len())
	assert.Equal(t, painter.Opaque(painter.Depth8, 0, 0, 255), l.Pixels().RGBA(3, 3))
	assert.Equal(t, painter.White(painter.Depth8), l.Pixels().RGBA(0, 0))
}

func TestManager_LayerOps(t *testing.T) {
	m := newManager(t, WithLayerOptions(painter.WithKernel(painter.ReferenceKernel{})))
	doc, err := m.New("ops", 4, 4, FormatKSP)
	require.NoError(t, err)
	_, err = m.AddLayer()
	require.NoError(t, err)

	require.NoError(t, m.SelectLayer(0))
	require.NoError(t, m.MoveLayer(0, 1))
	_, idx, ok := doc.Stack.Active()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	require.NoError(t, m.RemoveLayer(1))
	assert.Equal(t, 1, doc.Stack.Len())
	assert.ErrorIs(t, m.SelectLayer(4), painter.ErrBounds)

	for _, l := range doc.Stack.Layers() {
		assert.Equal(t, "reference", l.Kernel().Name())
	}

	_, err = m.DrawSplineBrush(image.Pt(1, 1), 2, painter.Black(painter.Depth8))
	require.NoError(t, err)
	require.NoError(t, m.EndStroke())
	l, _, _ := doc.Stack.Active()
	_, anchored := l.Anchor()
	assert.False(t, anchored)

	v, err := m.Render()
	require.NoError(t, err)
	assert.Equal(t, 4, v.Width())
}

func TestManager_InsertAndResetLayer(t *testing.T) {
	m := newManager(t)
	_, err := m.InsertLayer(0)
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.ErrorIs(t, m.EndStroke(), ErrNoDocument)
	assert.ErrorIs(t, m.ResetActiveLayer(painter.RGBA{}), ErrNoDocument)

	doc, err := m.New("reset", 4, 4, FormatKSP)
	require.NoError(t, err)
	l, err := m.InsertLayer(-5)
	require.NoError(t, err)
	got, idx, _ := doc.Stack.Active()
	assert.Same(t, l, got)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 2, doc.Stack.Len())

	require.NoError(t, m.ResetActiveLayer(painter.RGBA{R: 10, G: 20, B: 30, A: 40}))
	assert.Equal(t, painter.RGBA{R: 10, G: 20, B: 30, A: 40}, l.Pixels().RGBA(2, 2))

	require.NoError(t, m.ResetActiveLayerRGB(1, 2, 3))
	assert.Equal(t, painter.RGBA{R: 1, G: 2, B: 3, A: 40}, l.Pixels().RGBA(2, 2))
}

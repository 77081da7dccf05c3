package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/gogpu/painter"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestImport_SmallerIsCenteredOnWhite(t *testing.T) {
	src := solid(2, 2, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 0, G: 128, B: 0, A: 255})

	l, err := Import(bytes.NewReader(encodePNG(t, src)), 5, 4, painter.Depth16)
	require.NoError(t, err)
	assert.Equal(t, 5, l.Width())
	assert.Equal(t, 4, l.Height())

	// (5-2)/2 = 1 column and (4-2)/2 = 1 row of padding before the image.
	red := painter.RGBA{R: 65535, A: 65535}
	green := painter.RGBA{G: 128 * 257, A: 65535}
	white := painter.White(painter.Depth16)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			want := white
			switch {
			case x == 2 && y == 2:
				want = green
			case x >= 1 && x <= 2 && y >= 1 && y <= 2:
				want = red
			}
			assert.Equal(t, want, l.Pixels().RGBA(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestImport_LargerIsCenterCropped(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 6, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	l, err := Import(bytes.NewReader(encodePNG(t, src)), 2, 2, painter.Depth8)
	require.NoError(t, err)

	// Crop origin is ((6-2)/2, (5-2)/2) = (2, 1).
	assert.Equal(t, painter.RGBA{R: 2, G: 1, A: 255}, l.Pixels().RGBA(0, 0))
	assert.Equal(t, painter.RGBA{R: 3, G: 2, A: 255}, l.Pixels().RGBA(1, 1))
}

func TestImport_KeepsStraightAlpha(t *testing.T) {
	src := solid(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	l, err := Import(bytes.NewReader(encodePNG(t, src)), 1, 1, painter.Depth8)
	require.NoError(t, err)
	assert.Equal(t, painter.RGBA{R: 200, G: 100, B: 50, A: 128}, l.Pixels().RGBA(0, 0))
}

func TestImport_OtherFormats(t *testing.T) {
	src := solid(3, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	var b bytes.Buffer
	require.NoError(t, bmp.Encode(&b, src))
	l, err := Import(&b, 3, 3, painter.Depth8)
	require.NoError(t, err)
	assert.Equal(t, painter.RGBA{R: 10, G: 20, B: 30, A: 255}, l.Pixels().RGBA(1, 1))

	var j bytes.Buffer
	require.NoError(t, jpeg.Encode(&j, src, &jpeg.Options{Quality: 100}))
	format, err := Sniff(j.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpg", format)
	_, err = Import(&j, 3, 3, painter.Depth8)
	require.NoError(t, err)
}

func TestImport_Rejects(t *testing.T) {
	_, err := Import(bytes.NewReader([]byte("definitely not an image")), 4, 4, painter.Depth8)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, err, painter.ErrFormat)

	data := encodePNG(t, solid(4, 4, color.NRGBA{A: 255}))
	_, err = Import(bytes.NewReader(data[:len(data)/2]), 4, 4, painter.Depth8)
	assert.ErrorIs(t, err, painter.ErrDecode)

	_, err = Import(bytes.NewReader(data), 0, 4, painter.Depth8)
	assert.ErrorIs(t, err, painter.ErrInvalidDimensions)
}

func TestPlace_LockedLayer(t *testing.T) {
	l := painter.NewLayer(1, 1, painter.Depth8)
	l.SetLocked(true)
	require.NoError(t, Place(l, solid(1, 1, color.NRGBA{R: 9, A: 255})))
	assert.True(t, l.Locked())
	assert.Equal(t, painter.RGBA{R: 9, A: 255}, l.Pixels().RGBA(0, 0))
}

func TestOpen(t *testing.T) {
	s, err := Open(bytes.NewReader(encodePNG(t, solid(7, 3, color.NRGBA{B: 255, A: 255}))), painter.Depth8)
	require.NoError(t, err)
	assert.Equal(t, 7, s.Width())
	assert.Equal(t, 3, s.Height())
	assert.Equal(t, 1, s.Len())
}

func TestExport(t *testing.T) {
	s, err := painter.NewStack(3, 2, painter.Depth16)
	require.NoError(t, err)
	bottom, _ := s.AddLayer(nil)
	require.NoError(t, bottom.Fill(painter.Opaque(painter.Depth16, 0, 0, 65535)))
	top, _ := s.AddLayer(nil)
	require.NoError(t, top.Fill(painter.Opaque(painter.Depth16, 65535, 0, 0)))
	top.SetOpacity(0.5)
	hidden, _ := s.AddLayer(nil)
	hidden.SetVisible(false)

	before := top.Pixels().Snapshot()
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, s))
	assert.True(t, top.Pixels().Equal(before), "Export modified a layer")
	assert.Equal(t, 3, s.Len())

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	c := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	assert.InDelta(t, 128, int(c.R), 1)
	assert.InDelta(t, 127, int(c.B), 1)
	assert.Equal(t, uint8(255), c.A)
}

func TestExport_EmptyStackIsTransparent(t *testing.T) {
	s, err := painter.NewStack(2, 2, painter.Depth8)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, s))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	_, _, _, a := img.At(1, 1).RGBA()
	assert.Zero(t, a)
}

func TestThumbnail(t *testing.T) {
	s, err := painter.NewStack(40, 10, painter.Depth8)
	require.NoError(t, err)
	_, _ = s.AddLayer(nil)

	img, err := Thumbnail(s, 8)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 2), img.Bounds())

	img, err = Thumbnail(s, 100)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 10), img.Bounds())

	_, err = Thumbnail(s, 0)
	assert.ErrorIs(t, err, painter.ErrInvalidDimensions)
}

func TestThumbSize(t *testing.T) {
	tests := []struct {
		w, h, side   int
		wantW, wantH int
	}{
		{100, 50, 10, 10, 5},
		{50, 100, 10, 5, 10},
		{1000, 1, 10, 10, 1},
		{5, 5, 10, 5, 5},
	}
	for _, tt := range tests {
		w, h := thumbSize(tt.w, tt.h, tt.side)
		assert.Equal(t, [2]int{tt.wantW, tt.wantH}, [2]int{w, h}, "thumbSize(%d, %d, %d)", tt.w, tt.h, tt.side)
	}
}

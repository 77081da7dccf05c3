package imageio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io"

	"github.com/h2non/filetype"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP

	"github.com/gogpu/painter"
)

// ErrUnsupported is returned when the input is not an image format Import
// can decode. It wraps painter.ErrFormat.
var ErrUnsupported = fmt.Errorf("imageio: unsupported image: %w", painter.ErrFormat)

// Formats lists the file extensions Import accepts, as reported by content
// sniffing.
var Formats = []string{"png", "jpg", "gif", "bmp", "tif", "webp"}

// Sniff reports the image format of data by its content, one of Formats.
func Sniff(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", ErrUnsupported
	}
	for _, f := range Formats {
		if kind.Extension == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, kind.MIME.Value)
}

// Decode reads an image and converts it to straight-alpha NRGBA.
func Decode(r io.Reader) (*image.NRGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: read: %w", err)
	}
	format, err := Sniff(data)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %v: %w", format, err, painter.ErrDecode)
	}
	painter.Logger().Debug("imageio: decoded", "format", format, "bounds", img.Bounds())
	return toNRGBA(img), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Import decodes an image from r into a new layer of width × height at
// depth d. Channels are rescaled with round(v/255 × max). An image larger
// than the canvas is cropped around its center; a smaller one is centered
// on opaque white.
func Import(r io.Reader, width, height int, d painter.Depth, opts ...painter.LayerOption) (*painter.Layer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imageio: import into %dx%d: %w", width, height, painter.ErrInvalidDimensions)
	}
	if !d.IsValid() {
		return nil, fmt.Errorf("imageio: import at %v: %w", d, painter.ErrFormat)
	}
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	l := painter.NewLayer(width, height, d, opts...)
	if err := Place(l, img); err != nil {
		return nil, err
	}
	return l, nil
}

// Open decodes an image from r into a new stack of the image's size with
// one layer.
func Open(r io.Reader, d painter.Depth, opts ...painter.LayerOption) (*painter.Stack, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	s, err := painter.NewStack(b.Dx(), b.Dy(), d, opts...)
	if err != nil {
		return nil, err
	}
	l := s.NewLayer()
	if err := Place(l, img); err != nil {
		return nil, err
	}
	if _, err := s.AddLayer(l); err != nil {
		return nil, err
	}
	return s, nil
}

// Place writes img into l, center-cropped or center-padded to the layer
// size. Padding is left as it is in l. The write goes through l's scoped
// unlock, so locked layers are filled too.
func Place(l *painter.Layer, img *image.NRGBA) error {
	src, dst := fitRects(img.Bounds().Size(), image.Pt(l.Width(), l.Height()))
	if dst.Empty() {
		return nil
	}
	if src.Size() != img.Bounds().Size() {
		painter.Logger().Warn("imageio: image cropped to canvas",
			"image", img.Bounds().Size(), "canvas", dst.Size(), "kept", src)
	}

	d := l.Depth()
	vals := make([]uint16, 0, dst.Dx()*dst.Dy()*4)
	for y := src.Min.Y; y < src.Max.Y; y++ {
		i := img.PixOffset(src.Min.X, y)
		for _, v := range img.Pix[i : i+src.Dx()*4] {
			vals = append(vals, d.FromByte(v))
		}
	}
	err := l.Unlocked(func(l *painter.Layer) error {
		return l.WriteRegion(dst, vals)
	})
	if err != nil {
		return fmt.Errorf("imageio: place %v at %v: %w", src, dst, err)
	}
	return nil
}

// fitRects returns the part of an image of size img that is kept and where
// it lands on a canvas of size canvas. Odd remainders go to the bottom and
// right.
func fitRects(img, canvas image.Point) (src, dst image.Rectangle) {
	w, h := min(img.X, canvas.X), min(img.Y, canvas.Y)
	sx, sy := max(0, (img.X-canvas.X)/2), max(0, (img.Y-canvas.Y)/2)
	dx, dy := (canvas.X-w)/2, (canvas.Y-h)/2
	return image.Rect(sx, sy, sx+w, sy+h), image.Rect(dx, dy, dx+w, dy+h)
}

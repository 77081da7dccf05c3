package painter

import (
	"fmt"
	"image"
	"image/color"
)

// Pixmap is a rectangular straight-alpha RGBA buffer at a fixed bit depth.
//
// Pixels are stored row by row, four uint16 channels per pixel in R, G, B, A
// order, each in [0, Depth().Max()]. The buffer shape is (height, width, 4).
type Pixmap struct {
	width  int
	height int
	depth  Depth
	data   []uint16
}

// NewPixmap creates a transparent pixmap. Negative dimensions are treated as
// zero.
func NewPixmap(width, height int, depth Depth) *Pixmap {
	width, height = max(width, 0), max(height, 0)
	return &Pixmap{
		width:  width,
		height: height,
		depth:  depth,
		data:   make([]uint16, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Depth returns the bit depth of the pixmap.
func (p *Pixmap) Depth() Depth {
	return p.depth
}

// Data returns the raw channel data.
func (p *Pixmap) Data() []uint16 {
	return p.data
}

// SameShape reports whether p and o have equal width, height and depth.
func (p *Pixmap) SameShape(o *Pixmap) bool {
	return p.width == o.width && p.height == o.height && p.depth == o.depth
}

func shapeErr(op string, a, b *Pixmap) error {
	return fmt.Errorf("%s: %dx%d %v vs %dx%d %v: %w",
		op, a.width, a.height, a.depth, b.width, b.height, b.depth, ErrShapeMismatch)
}

// Set sets the color of a single pixel. Out of bounds coordinates are
// ignored.
func (p *Pixmap) Set(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	c = c.Clamp(p.depth)
	p.data[i+0] = c.R
	p.data[i+1] = c.G
	p.data[i+2] = c.B
	p.data[i+3] = c.A
}

// RGBA returns the color of a single pixel, transparent when out of bounds.
func (p *Pixmap) RGBA(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return RGBA{R: p.data[i+0], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Clear fills the entire pixmap with a color, alpha included.
func (p *Pixmap) Clear(c RGBA) {
	c = c.Clamp(p.depth)
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = c.R
		p.data[i+1] = c.G
		p.data[i+2] = c.B
		p.data[i+3] = c.A
	}
}

// ClearRGB sets the color channels of every pixel and keeps alpha.
func (p *Pixmap) ClearRGB(r, g, b uint16) {
	c := RGBA{R: r, G: g, B: b}.Clamp(p.depth)
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = c.R
		p.data[i+1] = c.G
		p.data[i+2] = c.B
	}
}

// fillMask writes c to every pixel of win whose mask entry is set. mask is
// row-major over win. win must lie inside the pixmap.
func (p *Pixmap) fillMask(win image.Rectangle, mask []bool, c RGBA) {
	w := win.Dx()
	for y := win.Min.Y; y < win.Max.Y; y++ {
		row := mask[(y-win.Min.Y)*w : (y-win.Min.Y+1)*w]
		i := (y*p.width + win.Min.X) * 4
		for _, set := range row {
			if set {
				p.data[i+0] = c.R
				p.data[i+1] = c.G
				p.data[i+2] = c.B
				p.data[i+3] = c.A
			}
			i += 4
		}
	}
}

// CopyFrom overwrites p with the contents of src.
func (p *Pixmap) CopyFrom(src *Pixmap) error {
	if !p.SameShape(src) {
		return shapeErr("copy", p, src)
	}
	copy(p.data, src.data)
	return nil
}

// Clone returns a deep copy of p.
func (p *Pixmap) Clone() *Pixmap {
	c := &Pixmap{width: p.width, height: p.height, depth: p.depth, data: make([]uint16, len(p.data))}
	copy(c.data, p.data)
	return c
}

// Equal reports whether p and o have the same shape and identical pixels.
func (p *Pixmap) Equal(o *Pixmap) bool {
	if !p.SameShape(o) {
		return false
	}
	for i := range p.data {
		if p.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// ToNRGBA converts the pixmap to an 8-bit straight-alpha image, rescaling
// each channel with round(v/max * 255).
func (p *Pixmap) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for i, v := range p.data {
		img.Pix[i] = p.depth.ToByte(v)
	}
	return img
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.RGBA(x, y).NRGBA64(p.depth)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBA64Model
}

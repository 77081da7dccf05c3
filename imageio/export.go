package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/anthonynsimon/bild/transform"

	"github.com/gogpu/painter"
)

// Composite returns the visible layers of s composited into a new 8-bit
// NRGBA image, rescaling channels with round(v/max × 255). The stack and its
// layers are not modified. With no visible layer the image is transparent.
func Composite(s *painter.Stack) (*image.NRGBA, error) {
	pm := painter.NewPixmap(s.Width(), s.Height(), s.Depth())
	if err := s.Composite(pm); err != nil {
		return nil, err
	}
	return pm.ToNRGBA(), nil
}

// Export writes the composite of s to w as an 8-bit RGBA PNG.
func Export(w io.Writer, s *painter.Stack) error {
	img, err := Composite(s)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("imageio: encode png: %w", err)
	}
	painter.Logger().Debug("imageio: exported png", "width", s.Width(), "height", s.Height(), "layers", s.Len())
	return nil
}

// Thumbnail returns the composite of s scaled so its longer side is maxSide
// pixels, keeping the aspect ratio. Stacks already within maxSide are
// returned at full size.
func Thumbnail(s *painter.Stack, maxSide int) (image.Image, error) {
	if maxSide <= 0 {
		return nil, fmt.Errorf("imageio: thumbnail side %d: %w", maxSide, painter.ErrInvalidDimensions)
	}
	img, err := Composite(s)
	if err != nil {
		return nil, err
	}
	w, h := thumbSize(s.Width(), s.Height(), maxSide)
	if w == s.Width() && h == s.Height() {
		return img, nil
	}
	return transform.Resize(img, w, h, transform.Linear), nil
}

func thumbSize(w, h, maxSide int) (int, int) {
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w >= h {
		return maxSide, max(1, (h*maxSide+w/2)/w)
	}
	return max(1, (w*maxSide+h/2)/h), maxSide
}

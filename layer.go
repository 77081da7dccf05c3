package painter

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/google/uuid"
)

// Layer is one fixed-size RGBA buffer with its own visibility, opacity and
// lock state, plus the stroke state of the brush rasterizer.
//
// Every mutating method fails with ErrLocked while the layer is locked and
// leaves the buffer untouched. Pixels change only through Reset, Fill,
// Resize, WriteRegion, Mutate and the brush methods.
//
// Layer is not safe for concurrent use; the lock flag guards against
// accidental mutation, not concurrent access.
type Layer struct {
	id      string
	name    string
	pm      *Pixmap
	visible bool
	locked  bool
	opacity float64

	// Stroke state.
	anchor    image.Point
	hasAnchor bool
	recent    pointRing
	smoothing uint16

	kernel  MaskKernel
	mask    []bool        // scratch for CapsuleMask
	samples []image.Point // scratch for spline sampling
}

// NewLayer creates a visible, unlocked, fully opaque white layer.
func NewLayer(width, height int, depth Depth, opts ...LayerOption) *Layer {
	o := defaultLayerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.kernel == nil {
		o.kernel = DefaultKernel()
	}

	pm := NewPixmap(width, height, depth)
	pm.Clear(White(depth))

	l := &Layer{
		id:      uuid.NewString(),
		name:    o.name,
		pm:      pm,
		visible: true,
		opacity: 1,
		kernel:  o.kernel,
	}
	l.SetSmoothing(uint16(clampUnit(o.smoothing)*float64(depth.Max()) + 0.5))
	return l
}

// ID returns the unique identifier assigned at creation.
func (l *Layer) ID() string { return l.id }

// Name returns the display name.
func (l *Layer) Name() string { return l.name }

// SetName sets the display name.
func (l *Layer) SetName(name string) { l.name = name }

// Width returns the width in pixels.
func (l *Layer) Width() int { return l.pm.width }

// Height returns the height in pixels.
func (l *Layer) Height() int { return l.pm.height }

// Depth returns the bit depth.
func (l *Layer) Depth() Depth { return l.pm.depth }

// Bounds returns the pixel rectangle of the layer.
func (l *Layer) Bounds() image.Rectangle { return l.pm.Bounds() }

// Visible reports whether the layer takes part in rendering and merging.
func (l *Layer) Visible() bool { return l.visible }

// SetVisible shows or hides the layer.
func (l *Layer) SetVisible(v bool) { l.visible = v }

// Opacity returns the opacity in [0, 1].
func (l *Layer) Opacity() float64 { return l.opacity }

// SetOpacity sets the opacity, clamped to [0, 1].
func (l *Layer) SetOpacity(v float64) { l.opacity = clampUnit(v) }

// Locked reports whether mutations are refused.
func (l *Layer) Locked() bool { return l.locked }

// SetLocked locks or unlocks the layer.
func (l *Layer) SetLocked(v bool) { l.locked = v }

// Kernel returns the mask kernel used by the brush rasterizer.
func (l *Layer) Kernel() MaskKernel { return l.kernel }

// Smoothing returns the spline smoothing factor in [0, Depth().Max()].
func (l *Layer) Smoothing() uint16 { return l.smoothing }

// SetSmoothing sets the spline smoothing factor, clamped to
// [0, Depth().Max()]. At the maximum, points are recorded as given.
func (l *Layer) SetSmoothing(alpha uint16) {
	l.smoothing = min(alpha, l.pm.depth.Max())
}

// Anchor returns the previous stroke point, if a stroke is in progress.
func (l *Layer) Anchor() (image.Point, bool) { return l.anchor, l.hasAnchor }

// Pixels returns a read-only view of the buffer.
func (l *Layer) Pixels() View { return View{pm: l.pm} }

// Unlocked runs fn with the lock forced off and restores the previous lock
// state when fn returns, fails or panics. It is the path trusted callers such
// as decoders and merges use to write into a locked layer without clearing
// its lock.
func (l *Layer) Unlocked(fn func(*Layer) error) error {
	was := l.locked
	l.locked = false
	defer func() { l.locked = was }()
	return fn(l)
}

// Mutate gives fn mutable access to the buffer. fn must not retain the
// pixmap or change its shape.
func (l *Layer) Mutate(fn func(pm *Pixmap)) error {
	if l.locked {
		return lockedErr("mutate")
	}
	fn(l.pm)
	return nil
}

// WriteRegion copies values, row-major RGBA channels covering r, into the
// buffer. r must lie inside the layer and len(values) must equal
// r.Dx()*r.Dy()*4.
func (l *Layer) WriteRegion(r image.Rectangle, values []uint16) error {
	if l.locked {
		return lockedErr("write region")
	}
	if !r.In(l.pm.Bounds()) {
		return fmt.Errorf("write region %v outside %v: %w", r, l.pm.Bounds(), ErrBounds)
	}
	if want := r.Dx() * r.Dy() * 4; len(values) != want {
		return fmt.Errorf("write region: %d values for %d channels: %w", len(values), want, ErrShapeMismatch)
	}

	w := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := values[(y-r.Min.Y)*w : (y-r.Min.Y+1)*w]
		i := (y*l.pm.width + r.Min.X) * 4
		dst := l.pm.data[i : i+w]
		if m := l.pm.depth.Max(); m != 0xffff {
			for k, v := range src {
				dst[k] = min(v, m)
			}
			continue
		}
		copy(dst, src)
	}
	return nil
}

// Reset overwrites every pixel with c, alpha included.
func (l *Layer) Reset(c RGBA) error {
	if l.locked {
		return lockedErr("reset")
	}
	l.pm.Clear(c)
	return nil
}

// ResetRGB overwrites the color channels of every pixel and keeps the
// existing alpha channel.
func (l *Layer) ResetRGB(r, g, b uint16) error {
	if l.locked {
		return lockedErr("reset")
	}
	l.pm.ClearRGB(r, g, b)
	return nil
}

// Fill overwrites every channel of every pixel with c.
func (l *Layer) Fill(c RGBA) error {
	if l.locked {
		return lockedErr("fill")
	}
	l.pm.Clear(c)
	return nil
}

// Resize reallocates the buffer at the new size, filled with opaque white.
// Existing content is discarded, not resampled. The stroke state is reset.
func (l *Layer) Resize(width, height int) error {
	if l.locked {
		return lockedErr("resize")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize to %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	pm := NewPixmap(width, height, l.pm.depth)
	pm.Clear(White(l.pm.depth))
	l.pm = pm
	l.mask = nil
	l.EndStroke()
	return nil
}

// Clone returns a deep copy with a fresh ID and no stroke in progress.
func (l *Layer) Clone() *Layer {
	c := &Layer{
		id:        uuid.NewString(),
		name:      l.name,
		pm:        l.pm.Clone(),
		visible:   l.visible,
		locked:    l.locked,
		opacity:   l.opacity,
		smoothing: l.smoothing,
		kernel:    l.kernel,
	}
	return c
}

func (l *Layer) String() string {
	return fmt.Sprintf("Layer(%q %dx%d %v visible=%t locked=%t opacity=%.2f)",
		l.name, l.pm.width, l.pm.height, l.pm.depth, l.visible, l.locked, l.opacity)
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// View is a read-only handle on a layer's buffer. It stays valid while the
// layer exists; its contents follow later mutations of the layer.
type View struct {
	pm *Pixmap
}

// Width returns the width in pixels.
func (v View) Width() int { return v.pm.width }

// Height returns the height in pixels.
func (v View) Height() int { return v.pm.height }

// Depth returns the bit depth.
func (v View) Depth() Depth { return v.pm.depth }

// RGBA returns the pixel at (x, y), transparent when out of bounds.
func (v View) RGBA(x, y int) RGBA { return v.pm.RGBA(x, y) }

// CopyTo copies the buffer into dst, which must have the same shape.
func (v View) CopyTo(dst *Pixmap) error { return dst.CopyFrom(v.pm) }

// Snapshot returns an owned copy of the buffer.
func (v View) Snapshot() *Pixmap { return v.pm.Clone() }

// Equal reports whether the buffer is identical to p.
func (v View) Equal(p *Pixmap) bool { return v.pm.Equal(p) }

// Bounds implements the image.Image interface.
func (v View) Bounds() image.Rectangle { return v.pm.Bounds() }

// At implements the image.Image interface.
func (v View) At(x, y int) color.Color { return v.pm.At(x, y) }

// ColorModel implements the image.Image interface.
func (v View) ColorModel() color.Model { return v.pm.ColorModel() }

package painter

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/painter/internal/damage"
)

// Stack is an ordered set of equally sized layers, bottom (index 0) to top,
// with one active layer for drawing.
//
// The stack owns a single render buffer allocated at creation and reused by
// every Render call. It also records which parts of the canvas changed
// through its drawing methods and layer edits; see Damage.
//
// Stack is not safe for concurrent use.
type Stack struct {
	width  int
	height int
	depth  Depth

	layers []*Layer
	active int // -1 when empty

	out       *Pixmap
	damage    *damage.Region
	layerOpts []LayerOption
}

// NewStack creates an empty stack for width x height layers at the given
// depth. opts are applied to every layer the stack creates itself.
func NewStack(width, height int, depth Depth, opts ...LayerOption) (*Stack, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new stack %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	if !depth.IsValid() {
		return nil, fmt.Errorf("new stack: %v: %w", depth, ErrFormat)
	}
	return &Stack{
		width:     width,
		height:    height,
		depth:     depth,
		active:    -1,
		out:       NewPixmap(width, height, depth),
		damage:    damage.NewRegion(width, height),
		layerOpts: opts,
	}, nil
}

// Width returns the canvas width.
func (s *Stack) Width() int { return s.width }

// Height returns the canvas height.
func (s *Stack) Height() int { return s.height }

// Depth returns the bit depth of every layer.
func (s *Stack) Depth() Depth { return s.depth }

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.layers) }

// Layer returns the layer at index.
func (s *Stack) Layer(index int) (*Layer, error) {
	if index < 0 || index >= len(s.layers) {
		return nil, boundsErr("layer", index, len(s.layers))
	}
	return s.layers[index], nil
}

// Layers returns the layers bottom to top. The slice is a copy; the layers
// are shared.
func (s *Stack) Layers() []*Layer {
	return append([]*Layer(nil), s.layers...)
}

// Active returns the active layer and its index, or ok=false when the stack
// is empty.
func (s *Stack) Active() (l *Layer, index int, ok bool) {
	if s.active < 0 {
		return nil, -1, false
	}
	return s.layers[s.active], s.active, true
}

// NewLayer creates a default layer matching the stack's shape without
// adding it.
func (s *Stack) NewLayer(opts ...LayerOption) *Layer {
	all := append(append([]LayerOption(nil), s.layerOpts...), opts...)
	return NewLayer(s.width, s.height, s.depth, all...)
}

// AddLayer appends l on top and makes it active. A nil l appends a fresh
// opaque white layer. The added layer is returned.
func (s *Stack) AddLayer(l *Layer) (*Layer, error) {
	if l == nil {
		l = s.NewLayer()
	} else if err := s.checkShape("add layer", l); err != nil {
		return nil, err
	}
	s.layers = append(s.layers, l)
	s.active = len(s.layers) - 1
	s.damage.MarkAll()
	return l, nil
}

// InsertLayer inserts a fresh layer at index, clamped into [0, Len()], and
// makes it active.
func (s *Stack) InsertLayer(index int) *Layer {
	index = min(max(index, 0), len(s.layers))
	l := s.NewLayer()
	s.layers = append(s.layers, nil)
	copy(s.layers[index+1:], s.layers[index:])
	s.layers[index] = l
	s.active = index
	s.damage.MarkAll()
	return l
}

// RemoveLayer removes the layer at index. Afterwards the active index is
// min(index, Len()-1), or none when the stack became empty.
func (s *Stack) RemoveLayer(index int) error {
	if index < 0 || index >= len(s.layers) {
		return boundsErr("remove layer", index, len(s.layers))
	}
	s.layers = append(s.layers[:index], s.layers[index+1:]...)
	if len(s.layers) == 0 {
		s.active = -1
	} else {
		s.active = min(index, len(s.layers)-1)
	}
	s.damage.MarkAll()
	return nil
}

// MoveLayer moves the layer at from to position to, clamped into
// [0, Len()-1]. If the moved layer was active the active index follows it;
// otherwise the active index is left unchanged.
func (s *Stack) MoveLayer(from, to int) error {
	n := len(s.layers)
	if from < 0 || from >= n {
		return boundsErr("move layer", from, n)
	}
	to = min(max(to, 0), n-1)
	if from == to {
		return nil
	}

	l := s.layers[from]
	if from < to {
		copy(s.layers[from:to], s.layers[from+1:to+1])
	} else {
		copy(s.layers[to+1:from+1], s.layers[to:from])
	}
	s.layers[to] = l

	if s.active == from {
		s.active = to
	}
	s.damage.MarkAll()
	return nil
}

// SelectLayer makes the layer at index active.
func (s *Stack) SelectLayer(index int) error {
	if index < 0 || index >= len(s.layers) {
		return boundsErr("select layer", index, len(s.layers))
	}
	s.active = index
	return nil
}

// SetVisible shows or hides the layer at index and marks the canvas dirty.
func (s *Stack) SetVisible(index int, visible bool) error {
	l, err := s.Layer(index)
	if err != nil {
		return err
	}
	l.SetVisible(visible)
	s.damage.MarkAll()
	return nil
}

// SetOpacity sets the opacity of the layer at index and marks the canvas
// dirty.
func (s *Stack) SetOpacity(index int, opacity float64) error {
	l, err := s.Layer(index)
	if err != nil {
		return err
	}
	l.SetOpacity(opacity)
	s.damage.MarkAll()
	return nil
}

// Render composites all visible layers into the stack's render buffer and
// returns a view of it. See RenderView for the lifetime rules.
//
// A layer resized after it joined the stack makes Render fail with
// ErrShapeMismatch; the buffer is then left as it was.
func (s *Stack) Render() (RenderView, error) {
	if err := RenderLayers(s.layers, s.out); err != nil {
		return RenderView{}, fmt.Errorf("render: %w", err)
	}
	return RenderView{pm: s.out}, nil
}

// Composite renders into dst instead of the stack's buffer. dst must have
// the stack's shape. It is the allocation-free way to keep a frame around.
func (s *Stack) Composite(dst *Pixmap) error {
	return RenderLayers(s.layers, dst)
}

// MergeVisible merges all visible layers into the bottom-most visible one
// and returns it. The other layers stay in the stack unchanged, as does the
// active index. ErrEmptyStack is returned when no layer is visible.
func (s *Stack) MergeVisible() (*Layer, error) {
	visible := s.visibleLayers()
	if len(visible) == 0 {
		return nil, fmt.Errorf("merge visible: %w", ErrEmptyStack)
	}
	merged, err := MergeLayers(visible)
	if err != nil {
		return nil, err
	}
	s.damage.MarkAll()
	return merged, nil
}

// FlattenVisible merges the visible layers like MergeVisible, then removes
// the merged-away layers and makes the merged layer active. Hidden layers
// are kept.
func (s *Stack) FlattenVisible() (*Layer, error) {
	merged, err := s.MergeVisible()
	if err != nil {
		return nil, err
	}

	kept := s.layers[:0]
	for _, l := range s.layers {
		if l == merged || !l.visible {
			kept = append(kept, l)
		}
	}
	clear(s.layers[len(kept):])
	s.layers = kept
	s.active = s.indexOf(merged)
	s.damage.MarkAll()
	return merged, nil
}

// Replace swaps in the layers of other, which must have the same shape. It
// is used to install a fully decoded stack without touching the current one
// until the replacement is complete. other must not be used afterwards.
func (s *Stack) Replace(other *Stack) error {
	if other.width != s.width || other.height != s.height || other.depth != s.depth {
		return fmt.Errorf("replace %dx%d %v with %dx%d %v: %w",
			s.width, s.height, s.depth, other.width, other.height, other.depth, ErrShapeMismatch)
	}
	s.layers = other.layers
	s.active = other.active
	other.layers, other.active = nil, -1
	s.damage.MarkAll()
	return nil
}

// DrawBrush paints with a round brush on the active layer. See
// Layer.DrawBrush.
func (s *Stack) DrawBrush(p image.Point, size int, c RGBA) (image.Rectangle, error) {
	l, err := s.activeLayer("draw brush")
	if err != nil {
		return image.Rectangle{}, err
	}
	r, err := l.DrawBrush(p, size, c)
	s.damage.Mark(r)
	return r, err
}

// DrawSplineBrush paints a smoothed stroke on the active layer. See
// Layer.DrawSplineBrush.
func (s *Stack) DrawSplineBrush(p image.Point, size int, c RGBA) (image.Rectangle, error) {
	l, err := s.activeLayer("draw spline brush")
	if err != nil {
		return image.Rectangle{}, err
	}
	r, err := l.DrawSplineBrush(p, size, c)
	s.damage.Mark(r)
	return r, err
}

// EndStroke ends the stroke in progress on the active layer.
func (s *Stack) EndStroke() error {
	l, err := s.activeLayer("end stroke")
	if err != nil {
		return err
	}
	l.EndStroke()
	return nil
}

// Fill overwrites the active layer with c, alpha included.
func (s *Stack) Fill(c RGBA) error {
	l, err := s.activeLayer("fill")
	if err != nil {
		return err
	}
	if err := l.Fill(c); err != nil {
		return err
	}
	s.damage.MarkAll()
	return nil
}

// Reset overwrites every pixel of the active layer with c, alpha included.
func (s *Stack) Reset(c RGBA) error {
	l, err := s.activeLayer("reset")
	if err != nil {
		return err
	}
	if err := l.Reset(c); err != nil {
		return err
	}
	s.damage.MarkAll()
	return nil
}

// ResetRGB overwrites the color channels of the active layer and keeps its
// alpha.
func (s *Stack) ResetRGB(r, g, b uint16) error {
	l, err := s.activeLayer("reset")
	if err != nil {
		return err
	}
	if err := l.ResetRGB(r, g, b); err != nil {
		return err
	}
	s.damage.MarkAll()
	return nil
}

// Damage returns the canvas tiles changed since the last call, as pixel
// rectangles, and forgets them.
func (s *Stack) Damage() []image.Rectangle {
	return s.damage.Collect()
}

// Invalidate marks the whole canvas as changed.
func (s *Stack) Invalidate() {
	s.damage.MarkAll()
}

func (s *Stack) activeLayer(op string) (*Layer, error) {
	if s.active < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyStack)
	}
	return s.layers[s.active], nil
}

func (s *Stack) visibleLayers() []*Layer {
	var visible []*Layer
	for _, l := range s.layers {
		if l.visible {
			visible = append(visible, l)
		}
	}
	return visible
}

func (s *Stack) indexOf(l *Layer) int {
	for i, x := range s.layers {
		if x == l {
			return i
		}
	}
	return -1
}

func (s *Stack) checkShape(op string, l *Layer) error {
	if l.pm.width != s.width || l.pm.height != s.height || l.pm.depth != s.depth {
		return fmt.Errorf("%s: layer %dx%d %v on %dx%d %v stack: %w",
			op, l.pm.width, l.pm.height, l.pm.depth, s.width, s.height, s.depth, ErrShapeMismatch)
	}
	return nil
}

// RenderView is a borrowed view of a stack's render buffer. It is valid
// until the next Render on the same stack, which overwrites the buffer in
// place; call Snapshot to keep a frame.
type RenderView struct {
	pm *Pixmap
}

// Width returns the width in pixels.
func (v RenderView) Width() int { return v.pm.width }

// Height returns the height in pixels.
func (v RenderView) Height() int { return v.pm.height }

// Depth returns the bit depth.
func (v RenderView) Depth() Depth { return v.pm.depth }

// RGBA returns the composited pixel at (x, y).
func (v RenderView) RGBA(x, y int) RGBA { return v.pm.RGBA(x, y) }

// Data returns the raw channels. The slice is borrowed like the view.
func (v RenderView) Data() []uint16 { return v.pm.data }

// Snapshot returns an owned copy of the frame.
func (v RenderView) Snapshot() *Pixmap { return v.pm.Clone() }

// Bounds implements the image.Image interface.
func (v RenderView) Bounds() image.Rectangle { return v.pm.Bounds() }

// At implements the image.Image interface.
func (v RenderView) At(x, y int) color.Color { return v.pm.At(x, y) }

// ColorModel implements the image.Image interface.
func (v RenderView) ColorModel() color.Model { return v.pm.ColorModel() }

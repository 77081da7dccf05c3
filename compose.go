package painter

import (
	"fmt"

	"github.com/gogpu/painter/internal/blend"
)

// Over composites top over bottom into dst with the straight-alpha over
// operator, in integer arithmetic scaled by the channel maximum.
//
// The effective top alpha is top.A × opacity (opacity clamped to [0, 1]).
// When visible is false dst receives bottom unchanged. dst may alias bottom
// or top. All three pixmaps must have the same shape, otherwise
// ErrShapeMismatch is returned and dst is not touched.
func Over(dst, top, bottom *Pixmap, opacity float64, visible bool) error {
	if !top.SameShape(bottom) {
		return shapeErr("over", top, bottom)
	}
	if !dst.SameShape(bottom) {
		return shapeErr("over", dst, bottom)
	}
	if !visible {
		if dst != bottom {
			copy(dst.data, bottom.data)
		}
		return nil
	}
	blend.Over(dst.data, top.data, bottom.data, bottom.depth.Max(), clampUnit(opacity))
	return nil
}

// MergeInto composites top onto bottom in place, using top's opacity and
// visibility. bottom is written through its scoped unlock, so a locked
// bottom layer is merged into and stays locked.
func MergeInto(top, bottom *Layer) error {
	if !top.pm.SameShape(bottom.pm) {
		return shapeErr("merge", top.pm, bottom.pm)
	}
	return bottom.Unlocked(func(l *Layer) error {
		return l.Mutate(func(pm *Pixmap) {
			_ = Over(pm, top.pm, pm, top.opacity, top.visible)
		})
	})
}

// MergeLayers folds layers, ordered bottom to top, into layers[0] and returns
// it. The other layers are left unchanged. ErrEmptyStack is returned for an
// empty slice.
func MergeLayers(layers []*Layer) (*Layer, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("merge layers: %w", ErrEmptyStack)
	}
	bottom := layers[0]
	for _, top := range layers[1:] {
		if !top.pm.SameShape(bottom.pm) {
			return nil, shapeErr("merge layers", top.pm, bottom.pm)
		}
	}
	for _, top := range layers[1:] {
		if err := MergeInto(top, bottom); err != nil {
			return nil, err
		}
	}
	Logger().Debug("painter: merged layers", "count", len(layers))
	return bottom, nil
}

// RenderLayers composites the visible layers, ordered bottom to top, into
// out. The bottom-most visible layer is copied verbatim and each further
// visible layer is composited over the result in place. With no visible
// layer out is left untouched. RenderLayers does not allocate.
func RenderLayers(layers []*Layer, out *Pixmap) error {
	for _, l := range layers {
		if !l.pm.SameShape(out) {
			return shapeErr("render", l.pm, out)
		}
	}
	first := true
	for _, l := range layers {
		if !l.visible {
			continue
		}
		if first {
			copy(out.data, l.pm.data)
			first = false
			continue
		}
		blend.Over(out.data, l.pm.data, out.data, out.depth.Max(), l.opacity)
	}
	return nil
}

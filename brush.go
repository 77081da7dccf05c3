package painter

import "image"

// maxReach bounds stroke coordinates so the capsule math stays within int64.
// Points further out are clamped; they lie far outside any canvas.
const maxReach = 1 << 24

func clampReach(p image.Point) image.Point {
	p.X = min(max(p.X, -maxReach), maxReach)
	p.Y = min(max(p.Y, -maxReach), maxReach)
	return p
}

// DrawBrush paints with a round brush of diameter size.
//
// With no stroke in progress it stamps a disk of radius size/2 centered at p.
// Otherwise it fills the capsule between the previous stroke point and p, so
// consecutive calls leave no gaps however far apart the points are. Each
// pixel is written at most once per call and only the segment's bounding
// box, expanded by the radius and clipped to the layer, is examined.
//
// p becomes the new stroke anchor. The returned rectangle covers every
// pixel that may have changed; it is empty when the brush is entirely
// outside the layer.
func (l *Layer) DrawBrush(p image.Point, size int, c RGBA) (image.Rectangle, error) {
	if l.locked {
		return image.Rectangle{}, lockedErr("draw brush")
	}
	p = clampReach(p)
	r := min(max(size, 0)/2, maxReach)

	a := p
	if l.hasAnchor {
		a = l.anchor
	}
	l.anchor, l.hasAnchor = p, true

	win := image.Rect(
		min(a.X, p.X)-r, min(a.Y, p.Y)-r,
		max(a.X, p.X)+r+1, max(a.Y, p.Y)+r+1,
	).Intersect(l.pm.Bounds())
	if win.Empty() {
		return image.Rectangle{}, nil
	}

	n := win.Dx() * win.Dy()
	if cap(l.mask) < n {
		l.mask = make([]bool, n)
	}
	mask := l.mask[:n]
	l.kernel.CapsuleMask(mask, win, a, p, r)
	l.pm.fillMask(win, mask, c.Clamp(l.pm.depth))
	return win, nil
}

// DrawSplineBrush paints a smoothed stroke through the recent points.
//
// p is first pulled toward the previously recorded point by
// Smoothing()/Depth().Max() and recorded. Once four points are recorded, the
// Catmull-Rom segment between the second- and third-newest points is sampled
// and DrawBrush is called for every sample at least max(1, size/4) pixels
// (Manhattan distance) from the last drawn sample. The returned rectangle is
// the union of everything drawn.
func (l *Layer) DrawSplineBrush(p image.Point, size int, c RGBA) (image.Rectangle, error) {
	if l.locked {
		return image.Rectangle{}, lockedErr("draw spline brush")
	}
	p = l.smoothedPoint(clampReach(p))
	l.recent.push(p)
	if l.recent.len() < 4 {
		return image.Rectangle{}, nil
	}

	p0, p1, p2, p3 := l.recent.at(3), l.recent.at(2), l.recent.at(1), l.recent.at(0)
	l.samples = splineSamples(p0, p1, p2, p3, l.samples)

	gap := max(1, size/4)
	var (
		dirty image.Rectangle
		last  image.Point
		drawn bool
	)
	for _, q := range l.samples {
		if drawn && abs(q.X-last.X)+abs(q.Y-last.Y) < gap {
			continue
		}
		rect, err := l.DrawBrush(q, size, c)
		if err != nil {
			return dirty, err
		}
		dirty = dirty.Union(rect)
		last, drawn = q, true
	}
	return dirty, nil
}

// smoothedPoint moves p toward the newest recorded point by the smoothing
// factor, truncating toward zero.
func (l *Layer) smoothedPoint(p image.Point) image.Point {
	if l.recent.len() == 0 {
		return p
	}
	last := l.recent.at(0)
	a := float64(l.smoothing) / float64(l.pm.depth.Max())
	return image.Pt(
		int(float64(last.X)+a*float64(p.X-last.X)),
		int(float64(last.Y)+a*float64(p.Y-last.Y)),
	)
}

// EndStroke forgets the stroke in progress: the recent points are cleared
// and the next DrawBrush stamps a fresh disk.
func (l *Layer) EndStroke() {
	l.recent.reset()
	l.anchor, l.hasAnchor = image.Point{}, false
}

package painter

import (
	"fmt"
	"image"

	"github.com/gogpu/painter/internal/wide"
)

// MaskKernel computes which pixels of a window a capsule covers.
//
// CapsuleMask sets mask[(y-win.Min.Y)*win.Dx() + (x-win.Min.X)] for every
// pixel (x, y) in win whose squared distance to the segment a-b is at most
// r*r. A zero-length segment is a disk. len(mask) must be
// win.Dx()*win.Dy().
//
// Every implementation must produce the same mask as ReferenceKernel for all
// inputs; they differ only in speed.
type MaskKernel interface {
	Name() string
	CapsuleMask(mask []bool, win image.Rectangle, a, b image.Point, r int)
}

// KernelByName returns the kernel registered under name: "reference",
// "wide", or "" for the build default.
func KernelByName(name string) (MaskKernel, error) {
	switch name {
	case "":
		return DefaultKernel(), nil
	case ReferenceKernel{}.Name():
		return ReferenceKernel{}, nil
	case WideKernel{}.Name():
		return WideKernel{}, nil
	}
	return nil, fmt.Errorf("painter: unknown mask kernel %q", name)
}

// DefaultKernel returns the kernel selected at build time. Building with the
// purego tag selects ReferenceKernel, otherwise WideKernel.
func DefaultKernel() MaskKernel {
	return defaultKernel
}

// capsule holds a segment in exact integer form. Coordinates are bounded by
// maxReach so every product below fits in int64; only the interior distance
// test needs 128-bit comparison.
type capsule struct {
	ax, ay int64
	bx, by int64
	dx, dy int64
	len2   int64
	r2     int64
}

func newCapsule(a, b image.Point, r int) capsule {
	dx, dy := int64(b.X-a.X), int64(b.Y-a.Y)
	return capsule{
		ax: int64(a.X), ay: int64(a.Y),
		bx: int64(b.X), by: int64(b.Y),
		dx: dx, dy: dy,
		len2: dx*dx + dy*dy,
		r2:   int64(r) * int64(r),
	}
}

// covers reports whether pixel (px, py) lies within the capsule. The
// projection parameter t = dot/len2 is clamped to [0, 1]; inside the segment
// the squared distance is cross²/len2.
func (c *capsule) covers(px, py int64) bool {
	qx, qy := px-c.ax, py-c.ay
	if c.len2 == 0 {
		return qx*qx+qy*qy <= c.r2
	}
	dot := qx*c.dx + qy*c.dy
	if dot <= 0 {
		return qx*qx+qy*qy <= c.r2
	}
	if dot >= c.len2 {
		ex, ey := px-c.bx, py-c.by
		return ex*ex+ey*ey <= c.r2
	}
	cross := qx*c.dy - qy*c.dx
	if cross < 0 {
		cross = -cross
	}
	return wide.MulLE(uint64(cross), uint64(cross), uint64(c.r2), uint64(c.len2))
}

// ReferenceKernel is the portable scalar kernel. It is always available and
// defines the expected output of every other kernel.
type ReferenceKernel struct{}

// Name implements MaskKernel.
func (ReferenceKernel) Name() string { return "reference" }

// CapsuleMask implements MaskKernel.
func (ReferenceKernel) CapsuleMask(mask []bool, win image.Rectangle, a, b image.Point, r int) {
	c := newCapsule(a, b, r)
	i := 0
	for y := win.Min.Y; y < win.Max.Y; y++ {
		for x := win.Min.X; x < win.Max.X; x++ {
			mask[i] = c.covers(int64(x), int64(y))
			i++
		}
	}
}

// WideKernel evaluates eight horizontally adjacent pixels per step using
// wide.I64x8 lanes. The per-lane formulas are the ones ReferenceKernel uses,
// so the masks are identical.
type WideKernel struct{}

// Name implements MaskKernel.
func (WideKernel) Name() string { return "wide" }

// CapsuleMask implements MaskKernel.
func (WideKernel) CapsuleMask(mask []bool, win image.Rectangle, a, b image.Point, r int) {
	c := newCapsule(a, b, r)
	w := win.Dx()

	for y := win.Min.Y; y < win.Max.Y; y++ {
		row := mask[(y-win.Min.Y)*w : (y-win.Min.Y+1)*w]
		py := int64(y)
		qy := py - c.ay
		ey := py - c.by

		for x0 := 0; x0 < w; x0 += wide.Lanes {
			xs := wide.Iota(int64(win.Min.X + x0))
			qx := xs.SubScalar(c.ax)
			ex := xs.SubScalar(c.bx)

			// Squared distances to both endpoints.
			da := qx.Mul(qx).AddScalar(qy * qy)
			db := ex.Mul(ex).AddScalar(ey * ey)
			inA := da.LEScalar(c.r2)
			inB := db.LEScalar(c.r2)

			dot := qx.MulScalar(c.dx).AddScalar(qy * c.dy)
			cross := qx.MulScalar(c.dy).SubScalar(qy * c.dx).Abs()

			n := min(wide.Lanes, w-x0)
			for k := 0; k < n; k++ {
				var hit bool
				switch {
				case c.len2 == 0, dot[k] <= 0:
					hit = inA[k]
				case dot[k] >= c.len2:
					hit = inB[k]
				default:
					hit = wide.MulLE(uint64(cross[k]), uint64(cross[k]), uint64(c.r2), uint64(c.len2))
				}
				row[x0+k] = hit
			}
		}
	}
}

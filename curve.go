package painter

import (
	"image"
	"math"
)

// maxSplineSteps bounds the number of samples taken along one spline
// segment.
const maxSplineSteps = 200

// catmullRom evaluates the uniform Catmull-Rom segment between p1 and p2 at
// t in [0, 1], with p0 and p3 as the outer control points.
func catmullRom(p0, p1, p2, p3 float64, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// splineSamples returns the integer sample points along the middle segment
// of p0..p3. The step count is the Chebyshev distance between p1 and p2,
// at least 1 and at most maxSplineSteps; t runs evenly from 0 to 1
// inclusive. Coordinates are rounded half to even.
func splineSamples(p0, p1, p2, p3 image.Point, dst []image.Point) []image.Point {
	steps := max(abs(p2.X-p1.X), abs(p2.Y-p1.Y), 1)
	steps = min(steps, maxSplineSteps)

	dst = dst[:0]
	for i := 0; i < steps; i++ {
		t := 0.0
		if steps > 1 {
			t = float64(i) / float64(steps-1)
		}
		x := catmullRom(float64(p0.X), float64(p1.X), float64(p2.X), float64(p3.X), t)
		y := catmullRom(float64(p0.Y), float64(p1.Y), float64(p2.Y), float64(p3.Y), t)
		dst = append(dst, image.Pt(int(math.RoundToEven(x)), int(math.RoundToEven(y))))
	}
	return dst
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Package blend provides integer math helpers for alpha blending at an
// arbitrary channel depth.
//
// Channel values are unsigned integers in [0, max] where max is the channel
// maximum of the pixel depth (255 for 8-bit, 65535 for 16-bit). Intermediate
// products are carried in uint64 so 16-bit channels never overflow.
package blend

// divRound divides n by d rounding half up. d must be non-zero.
func divRound(n, d uint64) uint64 {
	return (n + d/2) / d
}

// clampMax clamps x to [0, max].
func clampMax(x, max uint64) uint16 {
	if x > max {
		return uint16(max)
	}
	return uint16(x)
}

// ScaleAlpha applies an opacity in [0, 1] to a raw alpha value, rounding to
// the nearest channel step. Opacity 1 returns a unchanged and opacity 0
// returns 0.
func ScaleAlpha(a uint16, opacity float64) uint16 {
	switch {
	case opacity >= 1:
		return a
	case opacity <= 0:
		return 0
	}
	return uint16(float64(a)*opacity + 0.5)
}

// Rescale converts v from a channel range of [0, from] to [0, to] with
// rounding, e.g. 8-bit 0x80 to 16-bit 0x8080.
func Rescale(v uint16, from, to uint32) uint16 {
	if from == to || from == 0 {
		return v
	}
	return clampMax(divRound(uint64(v)*uint64(to), uint64(from)), uint64(to))
}

package blend

// Over composites straight-alpha RGBA pixels of top over bottom into dst.
//
// The slices hold interleaved R, G, B, A channels and must have the same
// length, a multiple of four. dst may alias bottom or top: every pixel is
// read before it is written. max is the channel maximum and opacity scales
// the top alpha before blending.
//
// The result per pixel is
//
//	ta   = top.A * opacity
//	outA = ta + bottom.A * (max - ta) / max
//	out  = (top.C*ta*max + bottom.C*bottom.A*(max-ta)) / (outA*max)
//
// evaluated exactly in integers and rounded once at the end. An effective top
// alpha of 0 leaves the bottom pixel untouched, and a fully opaque top pixel
// replaces it.
func Over(dst, top, bottom []uint16, max uint16, opacity float64) {
	m := uint64(max)
	n := len(dst)
	for i := 0; i+3 < n; i += 4 {
		ta := ScaleAlpha(top[i+3], opacity)
		switch ta {
		case 0:
			copy(dst[i:i+4], bottom[i:i+4])
			continue
		case max:
			copy(dst[i:i+4], top[i:i+4])
			continue
		}
		overPixel(dst[i:i+4], top[i:i+4], bottom[i:i+4], uint64(ta), m)
	}
}

// overPixel blends one pixel with an effective top alpha strictly between
// 0 and m.
func overPixel(dst, top, bottom []uint16, ta, m uint64) {
	ba := uint64(bottom[3])
	inv := m - ta

	// outA scaled by m: ta*m + ba*(m-ta). Non-zero because ta > 0.
	den := ta*m + ba*inv
	tw := ta * m
	bw := ba * inv

	r := divRound(uint64(top[0])*tw+uint64(bottom[0])*bw, den)
	g := divRound(uint64(top[1])*tw+uint64(bottom[1])*bw, den)
	b := divRound(uint64(top[2])*tw+uint64(bottom[2])*bw, den)
	a := divRound(den, m)

	dst[0] = clampMax(r, m)
	dst[1] = clampMax(g, m)
	dst[2] = clampMax(b, m)
	dst[3] = clampMax(a, m)
}

package painter

import (
	"fmt"
	"image/color"

	"github.com/gogpu/painter/internal/blend"
)

// RGBA is a straight-alpha color in channel units of a Depth: each component
// is in [0, depth.Max()].
type RGBA struct {
	R, G, B, A uint16
}

// Opaque returns the fully opaque color (r, g, b) at depth d.
func Opaque(d Depth, r, g, b uint16) RGBA {
	return RGBA{R: r, G: g, B: b, A: d.Max()}
}

// White returns opaque white at depth d, the default layer content.
func White(d Depth) RGBA {
	m := d.Max()
	return RGBA{R: m, G: m, B: m, A: m}
}

// Black returns opaque black at depth d.
func Black(d Depth) RGBA {
	return RGBA{A: d.Max()}
}

// Transparent is transparent black at any depth.
var Transparent = RGBA{}

// Clamp limits every component to the channel maximum of d.
func (c RGBA) Clamp(d Depth) RGBA {
	m := d.Max()
	return RGBA{R: min(c.R, m), G: min(c.G, m), B: min(c.B, m), A: min(c.A, m)}
}

// Convert rescales c from depth from to depth to.
func (c RGBA) Convert(from, to Depth) RGBA {
	f, t := uint32(from.Max()), uint32(to.Max())
	return RGBA{
		R: blend.Rescale(c.R, f, t),
		G: blend.Rescale(c.G, f, t),
		B: blend.Rescale(c.B, f, t),
		A: blend.Rescale(c.A, f, t),
	}
}

// NRGBA64 converts c, expressed at depth d, to a standard 16-bit
// straight-alpha color.
func (c RGBA) NRGBA64(d Depth) color.NRGBA64 {
	s := c.Convert(d, Depth16)
	return color.NRGBA64{R: s.R, G: s.G, B: s.B, A: s.A}
}

// FromColor converts a standard color to depth d.
func FromColor(c color.Color, d Depth) RGBA {
	switch v := c.(type) {
	case color.NRGBA:
		return RGBA{R: d.FromByte(v.R), G: d.FromByte(v.G), B: d.FromByte(v.B), A: d.FromByte(v.A)}
	case color.NRGBA64:
		return RGBA{R: v.R, G: v.G, B: v.B, A: v.A}.Convert(Depth16, d)
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBA{R: n.R, G: n.G, B: n.B, A: n.A}.Convert(Depth16, d)
}

// Hex parses "RGB", "RGBA", "RRGGBB" or "RRGGBBAA" (with optional leading
// '#') as an 8-bit color and rescales it to depth d. Missing alpha means
// opaque.
func Hex(hex string, d Depth) (RGBA, error) {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var v [4]uint32
	v[3] = 255

	switch len(hex) {
	case 3, 4:
		for i := range hex {
			n, ok := parseHex(hex[i : i+1])
			if !ok {
				return RGBA{}, fmt.Errorf("painter: invalid hex color %q", hex)
			}
			v[i] = n * 17
		}
	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			n, ok := parseHex(hex[i : i+2])
			if !ok {
				return RGBA{}, fmt.Errorf("painter: invalid hex color %q", hex)
			}
			v[i/2] = n
		}
	default:
		return RGBA{}, fmt.Errorf("painter: invalid hex color %q", hex)
	}

	return RGBA{
		R: d.FromByte(uint8(v[0])),
		G: d.FromByte(uint8(v[1])),
		B: d.FromByte(uint8(v[2])),
		A: d.FromByte(uint8(v[3])),
	}, nil
}

func parseHex(s string) (uint32, bool) {
	var val uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		val *= 16
		switch {
		case '0' <= c && c <= '9':
			val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			val += uint32(c - 'A' + 10)
		default:
			return 0, false
		}
	}
	return val, true
}

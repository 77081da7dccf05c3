package painter

import "fmt"

// Depth is the bit depth of a channel. It determines the channel maximum all
// color math is scaled by.
type Depth uint8

const (
	// Depth8 stores channels in [0, 255], one byte each on disk.
	Depth8 Depth = iota + 1

	// Depth16 stores channels in [0, 65535], two bytes each on disk.
	Depth16
)

// depthInfo describes a bit depth.
type depthInfo struct {
	max             uint16
	bytesPerChannel int
	bits            int
}

var depthTable = [...]depthInfo{
	Depth8:  {max: 0xff, bytesPerChannel: 1, bits: 8},
	Depth16: {max: 0xffff, bytesPerChannel: 2, bits: 16},
}

// IsValid reports whether d is a known depth.
func (d Depth) IsValid() bool {
	return d == Depth8 || d == Depth16
}

// Max returns the channel maximum: 255 or 65535. It returns 0 for an
// invalid depth.
func (d Depth) Max() uint16 {
	if !d.IsValid() {
		return 0
	}
	return depthTable[d].max
}

// BytesPerChannel returns 1 or 2.
func (d Depth) BytesPerChannel() int {
	if !d.IsValid() {
		return 0
	}
	return depthTable[d].bytesPerChannel
}

// Bits returns 8 or 16.
func (d Depth) Bits() int {
	if !d.IsValid() {
		return 0
	}
	return depthTable[d].bits
}

// FromByte rescales an 8-bit value into this depth: round(v/255 * Max).
func (d Depth) FromByte(v uint8) uint16 {
	m := uint32(d.Max())
	return uint16((uint32(v)*m + 127) / 255)
}

// ToByte rescales a value of this depth to 8 bits: round(v/Max * 255).
func (d Depth) ToByte(v uint16) uint8 {
	m := uint32(d.Max())
	if m == 0 {
		return 0
	}
	if uint32(v) >= m {
		return 0xff
	}
	return uint8((uint32(v)*255 + m/2) / m)
}

func (d Depth) String() string {
	switch d {
	case Depth8:
		return "8-bit"
	case Depth16:
		return "16-bit"
	}
	return fmt.Sprintf("Depth(%d)", uint8(d))
}

// DepthForBytes returns the depth stored with n bytes per channel.
func DepthForBytes(n int) (Depth, error) {
	switch n {
	case 1:
		return Depth8, nil
	case 2:
		return Depth16, nil
	}
	return 0, fmt.Errorf("%d bytes per channel: %w", n, ErrFormat)
}

// DepthForBits returns the depth with the given number of bits per channel.
func DepthForBits(n int) (Depth, error) {
	switch n {
	case 8:
		return Depth8, nil
	case 16:
		return Depth16, nil
	}
	return 0, fmt.Errorf("%d bits per channel: %w", n, ErrFormat)
}

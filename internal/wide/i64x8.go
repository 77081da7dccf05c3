package wide

import "math/bits"

// Lanes is the number of elements in an I64x8.
const Lanes = 8

// I64x8 represents 8 int64 values for SIMD-style operations.
type I64x8 [Lanes]int64

// Iota returns the lanes base, base+1, ..., base+7.
func Iota(base int64) I64x8 {
	var result I64x8
	for i := range result {
		result[i] = base + int64(i)
	}
	return result
}

// Mul performs element-wise multiplication.
func (v I64x8) Mul(other I64x8) I64x8 {
	var result I64x8
	for i := range v {
		result[i] = v[i] * other[i]
	}
	return result
}

// AddScalar adds n to every element.
func (v I64x8) AddScalar(n int64) I64x8 {
	var result I64x8
	for i := range v {
		result[i] = v[i] + n
	}
	return result
}

// SubScalar subtracts n from every element.
func (v I64x8) SubScalar(n int64) I64x8 {
	var result I64x8
	for i := range v {
		result[i] = v[i] - n
	}
	return result
}

// MulScalar multiplies every element by n.
func (v I64x8) MulScalar(n int64) I64x8 {
	var result I64x8
	for i := range v {
		result[i] = v[i] * n
	}
	return result
}

// Abs returns the absolute value of every element.
func (v I64x8) Abs() I64x8 {
	var result I64x8
	for i := range v {
		x := v[i]
		if x < 0 {
			x = -x
		}
		result[i] = x
	}
	return result
}

// LEScalar reports, per lane, whether v[i] <= n.
func (v I64x8) LEScalar(n int64) [Lanes]bool {
	var result [Lanes]bool
	for i := range v {
		result[i] = v[i] <= n
	}
	return result
}

// MulLE reports whether a*b <= c*d for non-negative operands without
// overflowing: the products are compared as 128-bit values.
func MulLE(a, b, c, d uint64) bool {
	hi1, lo1 := bits.Mul64(a, b)
	hi2, lo2 := bits.Mul64(c, d)
	if hi1 != hi2 {
		return hi1 < hi2
	}
	return lo1 <= lo2
}

// Package wide provides SIMD-friendly wide types for batch pixel processing.
//
// The types are fixed-size arrays operated on by simple loops so the Go
// compiler can auto-vectorize them on supported architectures (SSE, AVX,
// NEON). No unsafe or assembly is used.
//
// # Wide Types
//
// I64x8: 8 int64 lanes used by the brush mask kernel to evaluate eight
// horizontally adjacent pixels at once. All arithmetic is exact integer math,
// so a lane kernel and a scalar loop built on the same formulas produce
// identical results.
//
// # Usage Example
//
//	xs := wide.Iota(x0)              // x0, x0+1, ..., x0+7
//	qx := xs.SubScalar(ax)
//	d2 := qx.Mul(qx).AddScalar(qy*qy)
//	inside := d2.LEScalar(r2)
package wide

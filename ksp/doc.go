// Package ksp reads and writes KSP files, the lossless container for a
// painter.Stack.
//
// A KSP file is a 17-byte little-endian header followed by the payload: the
// layer buffers concatenated bottom to top, each row-major RGBA with one byte
// per channel (8-bit) or one little-endian uint16 per channel (16-bit). The
// payload as a whole is stored raw, zlib-compressed or zstd-compressed.
//
//	offset size field
//	0      4    magic "KSP1"
//	4      4    width
//	8      4    height
//	12     1    channels (always 4)
//	13     1    bytes per channel (1 or 2)
//	14     1    compression (0 none, 1 zlib, 2 zstd)
//	15     2    layer count
//
// Decoding is all or nothing: Decode builds a new stack and DecodeInto only
// touches its destination after the whole file has been read and validated.
package ksp

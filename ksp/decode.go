package ksp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/gogpu/painter"
	"github.com/gogpu/painter/internal/blend"
)

// Decode reads a KSP file from r and returns a new stack holding its layers,
// bottom to top, with the top layer active.
//
// Header problems (bad magic, channel count, depth, compression or size)
// wrap painter.ErrFormat. A payload that fails to decompress, is truncated
// or carries trailing bytes wraps painter.ErrDecode.
func Decode(r io.Reader, opts ...Option) (*painter.Stack, error) {
	o := newOptions(opts)
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	return decodePayload(r, h, o)
}

// DecodeInto decodes a KSP file and swaps its layers into dst. The file's
// channels are rescaled to dst's depth. dst is changed only when the whole
// file decoded successfully; a file of a different size fails with
// painter.ErrShapeMismatch.
func DecodeInto(r io.Reader, dst *painter.Stack, opts ...Option) error {
	opts = append([]Option{WithDepth(dst.Depth())}, opts...)
	s, err := Decode(r, opts...)
	if err != nil {
		return err
	}
	return dst.Replace(s)
}

func decodePayload(r io.Reader, h Header, o options) (*painter.Stack, error) {
	src, err := h.Depth()
	if err != nil {
		return nil, err
	}
	dst := src
	if o.depth != 0 {
		dst = o.depth
	}

	zr, err := newDecompressor(r, h.Compression)
	if err != nil {
		return nil, fmt.Errorf("ksp: open %v payload: %v: %w", h.Compression, err, painter.ErrDecode)
	}
	defer zr.Close()

	// Read row by row. The stack and each layer are allocated once their
	// first row has arrived.
	width, height := int(h.Width), int(h.Height)
	row := make([]byte, width*Channels*int(h.BytesPerChannel))
	vals := make([]uint16, width*Channels)

	var s *painter.Stack
	for i := 0; i < int(h.Layers); i++ {
		var l *painter.Layer
		for y := 0; y < height; y++ {
			if _, err := io.ReadFull(zr, row); err != nil {
				return nil, fmt.Errorf("ksp: layer %d of %d row %d: %v: %w", i, h.Layers, y, err, painter.ErrDecode)
			}
			if s == nil {
				if s, err = painter.NewStack(width, height, dst, o.layerOpts...); err != nil {
					return nil, err
				}
			}
			if l == nil {
				l = s.NewLayer()
			}
			readRow(vals, row, src, dst)
			err := l.Unlocked(func(l *painter.Layer) error {
				return l.WriteRegion(image.Rect(0, y, width, y+1), vals)
			})
			if err != nil {
				return nil, err
			}
		}
		if _, err := s.AddLayer(l); err != nil {
			return nil, err
		}
	}

	var extra [1]byte
	switch n, err := io.ReadFull(zr, extra[:]); {
	case n > 0:
		return nil, fmt.Errorf("ksp: trailing bytes after %d layers: %w", h.Layers, painter.ErrDecode)
	case err != nil && !errors.Is(err, io.EOF):
		return nil, fmt.Errorf("ksp: payload end: %v: %w", err, painter.ErrDecode)
	}

	if s == nil {
		if s, err = painter.NewStack(width, height, dst, o.layerOpts...); err != nil {
			return nil, err
		}
	}

	painter.Logger().Debug("ksp: decoded",
		"width", h.Width, "height", h.Height, "layers", h.Layers,
		"depth", src, "compression", h.Compression)
	return s, nil
}

// readRow unpacks buf, stored at src depth, into vals at dst depth. buf
// may hold any whole number of pixels.
func readRow(vals []uint16, buf []byte, src, dst painter.Depth) {
	from, to := uint32(src.Max()), uint32(dst.Max())
	if src.BytesPerChannel() == 1 {
		for i, b := range buf {
			vals[i] = blend.Rescale(uint16(b), from, to)
		}
		return
	}
	for i := range vals {
		vals[i] = blend.Rescale(binary.LittleEndian.Uint16(buf[2*i:]), from, to)
	}
}

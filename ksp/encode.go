package ksp

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/painter"
	"github.com/gogpu/painter/internal/blend"
)

// Encode writes s to w as a KSP file: the header, then every layer bottom to
// top, compressed as a single stream.
//
// Layer names, visibility, opacity and lock state are not stored.
func Encode(w io.Writer, s *painter.Stack, opts ...Option) error {
	o := newOptions(opts)
	if !o.compression.IsValid() {
		return fmt.Errorf("ksp: encode with %v: %w", o.compression, painter.ErrFormat)
	}
	src := s.Depth()
	dst := src
	if o.depth != 0 {
		dst = o.depth
	}
	if !dst.IsValid() {
		return fmt.Errorf("ksp: encode at %v: %w", dst, painter.ErrFormat)
	}
	if s.Len() > math.MaxUint16 {
		return fmt.Errorf("ksp: %d layers exceed %d: %w", s.Len(), math.MaxUint16, painter.ErrFormat)
	}

	h := Header{
		Width:           uint32(s.Width()),
		Height:          uint32(s.Height()),
		Channels:        Channels,
		BytesPerChannel: uint8(dst.BytesPerChannel()),
		Compression:     o.compression,
		Layers:          uint16(s.Len()),
	}
	if err := WriteHeader(w, h); err != nil {
		return fmt.Errorf("ksp: write header: %w", err)
	}

	zw, err := newCompressor(w, o.compression)
	if err != nil {
		return err
	}
	scratch := painter.NewPixmap(s.Width(), s.Height(), src)
	row := make([]byte, s.Width()*Channels*dst.BytesPerChannel())
	for i, l := range s.Layers() {
		if err := l.Pixels().CopyTo(scratch); err != nil {
			_ = zw.Close()
			return err
		}
		if err := writeLayer(zw, scratch.Data(), row, src, dst); err != nil {
			_ = zw.Close()
			return fmt.Errorf("ksp: write layer %d: %w", i, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("ksp: finish payload: %w", err)
	}

	painter.Logger().Debug("ksp: encoded",
		"width", h.Width, "height", h.Height, "layers", h.Layers,
		"depth", dst, "compression", h.Compression, "payload", h.PayloadSize())
	return nil
}

// writeLayer writes data row by row through the row buffer, rescaling from
// src to dst depth.
func writeLayer(w io.Writer, data []uint16, row []byte, src, dst painter.Depth) error {
	bpc := dst.BytesPerChannel()
	n := len(row) / bpc
	from, to := uint32(src.Max()), uint32(dst.Max())
	for off := 0; off < len(data); off += n {
		for i, v := range data[off : off+n] {
			v = blend.Rescale(v, from, to)
			if bpc == 1 {
				row[i] = uint8(v)
			} else {
				binary.LittleEndian.PutUint16(row[2*i:], v)
			}
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

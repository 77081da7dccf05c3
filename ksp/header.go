package ksp

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gogpu/painter"
)

// Magic identifies a KSP file, version 1.
const Magic = "KSP1"

// HeaderSize is the encoded size of Header in bytes.
const HeaderSize = 17

// Channels is the only supported channel count.
const Channels = 4

// MaxPixels bounds width × height × layers accepted by the decoder.
const MaxPixels = 1 << 28

// Compression selects how the payload is stored.
type Compression uint8

const (
	// None stores the payload as is.
	None Compression = iota
	// Zlib stores the payload as one zlib stream.
	Zlib
	// Zstd stores the payload as one zstd frame.
	Zstd
)

// IsValid reports whether c is a known compression.
func (c Compression) IsValid() bool {
	return c <= Zstd
}

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zlib:
		return "zlib"
	case Zstd:
		return "zstd"
	}
	return fmt.Sprintf("Compression(%d)", uint8(c))
}

// ParseCompression returns the compression named s: "none", "zlib" or
// "zstd".
func ParseCompression(s string) (Compression, error) {
	for c := None; c <= Zstd; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("ksp: unknown compression %q: %w", s, painter.ErrFormat)
}

// Header describes a KSP file.
type Header struct {
	Width           uint32
	Height          uint32
	Channels        uint8
	BytesPerChannel uint8
	Compression     Compression
	Layers          uint16
}

// wireHeader is the on-disk layout; binary.Read and binary.Write pack it
// without padding.
type wireHeader struct {
	Magic           [4]byte
	Width           uint32
	Height          uint32
	Channels        uint8
	BytesPerChannel uint8
	Compression     uint8
	Layers          uint16
}

// Depth returns the bit depth of the stored channels.
func (h Header) Depth() (painter.Depth, error) {
	return painter.DepthForBytes(int(h.BytesPerChannel))
}

// LayerSize returns the size in bytes of one stored layer.
func (h Header) LayerSize() int {
	return int(h.Width) * int(h.Height) * Channels * int(h.BytesPerChannel)
}

// PayloadSize returns the size in bytes of the uncompressed payload.
func (h Header) PayloadSize() int {
	return h.LayerSize() * int(h.Layers)
}

// Validate checks the header fields. All failures wrap painter.ErrFormat.
func (h Header) Validate() error {
	if h.Channels != Channels {
		return fmt.Errorf("ksp: %d channels: %w", h.Channels, painter.ErrFormat)
	}
	if h.BytesPerChannel != 1 && h.BytesPerChannel != 2 {
		return fmt.Errorf("ksp: %d bytes per channel: %w", h.BytesPerChannel, painter.ErrFormat)
	}
	if !h.Compression.IsValid() {
		return fmt.Errorf("ksp: %v: %w", h.Compression, painter.ErrFormat)
	}
	if h.Width == 0 || h.Height == 0 {
		return fmt.Errorf("ksp: size %dx%d: %w", h.Width, h.Height, painter.ErrFormat)
	}
	if uint64(h.Width)*uint64(h.Height)*uint64(max(h.Layers, 1)) > MaxPixels {
		return fmt.Errorf("ksp: %dx%d with %d layers exceeds %d pixels: %w",
			h.Width, h.Height, h.Layers, MaxPixels, painter.ErrFormat)
	}
	return nil
}

// ReadHeader reads and validates a header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var w wireHeader
	if err := binary.Read(r, binary.LittleEndian, &w); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, fmt.Errorf("ksp: short header: %w", painter.ErrFormat)
		}
		return Header{}, fmt.Errorf("ksp: read header: %w", err)
	}
	if string(w.Magic[:]) != Magic {
		return Header{}, fmt.Errorf("ksp: bad magic %q: %w", w.Magic[:], painter.ErrFormat)
	}
	h := Header{
		Width:           w.Width,
		Height:          w.Height,
		Channels:        w.Channels,
		BytesPerChannel: w.BytesPerChannel,
		Compression:     Compression(w.Compression),
		Layers:          w.Layers,
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// WriteHeader writes h to w. It does not validate h.
func WriteHeader(w io.Writer, h Header) error {
	wh := wireHeader{
		Width:           h.Width,
		Height:          h.Height,
		Channels:        h.Channels,
		BytesPerChannel: h.BytesPerChannel,
		Compression:     uint8(h.Compression),
		Layers:          h.Layers,
	}
	copy(wh.Magic[:], Magic)
	return binary.Write(w, binary.LittleEndian, &wh)
}

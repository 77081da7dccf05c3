package ksp

import "github.com/gogpu/painter"

// Option configures Encode, Decode and DecodeInto.
type Option func(*options)

type options struct {
	compression Compression
	depth       painter.Depth // zero: keep the source depth
	layerOpts   []painter.LayerOption
}

func defaultOptions() options {
	return options{compression: Zlib}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCompression sets the payload compression used by Encode. The default
// is Zlib.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithDepth sets the stored channel depth for Encode and the depth of the
// decoded stack for Decode. Channels are rescaled with rounding when it
// differs from the source. By default the source depth is kept.
func WithDepth(d painter.Depth) Option {
	return func(o *options) {
		o.depth = d
	}
}

// WithLayerOptions sets options applied to every layer Decode creates, such
// as the mask kernel.
func WithLayerOptions(opts ...painter.LayerOption) Option {
	return func(o *options) {
		o.layerOpts = append(o.layerOpts, opts...)
	}
}

package painter

// LayerOption configures a Layer during creation.
//
// Example:
//
//	// Build-default kernel, no smoothing
//	l := painter.NewLayer(800, 600, painter.Depth16)
//
//	// Injected kernel and 50% spline smoothing
//	l := painter.NewLayer(800, 600, painter.Depth16,
//	    painter.WithKernel(painter.ReferenceKernel{}),
//	    painter.WithSmoothing(0.5))
type LayerOption func(*layerOptions)

// layerOptions holds optional configuration for Layer creation.
type layerOptions struct {
	kernel    MaskKernel
	name      string
	smoothing float64
}

// defaultLayerOptions returns the default layer options.
func defaultLayerOptions() layerOptions {
	return layerOptions{
		kernel:    nil, // DefaultKernel() if nil
		smoothing: 1,   // no pull toward the previous point
	}
}

// WithKernel sets the mask kernel used by the brush rasterizer. Use this to
// inject an accelerated kernel; nil keeps the build default.
func WithKernel(k MaskKernel) LayerOption {
	return func(o *layerOptions) {
		o.kernel = k
	}
}

// WithName sets the display name of the layer.
func WithName(name string) LayerOption {
	return func(o *layerOptions) {
		o.name = name
	}
}

// WithSmoothing sets the spline smoothing factor as a fraction in [0, 1] of
// the channel maximum. 1 records points as given; smaller values pull each
// new point toward the previous one.
func WithSmoothing(f float64) LayerOption {
	return func(o *layerOptions) {
		o.smoothing = f
	}
}

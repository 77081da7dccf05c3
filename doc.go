// Package painter provides the core of a layered raster image editor.
//
// # Overview
//
// painter keeps a stack of fixed-size RGBA layers that can be drawn on with a
// round brush, reordered, hidden, locked and composited into one image with
// the straight-alpha over operator. All pixel math is integer arithmetic
// scaled by the channel maximum of the stack's Depth, so 8-bit and 16-bit
// documents share one code path.
//
// # Quick Start
//
//	import "github.com/gogpu/painter"
//
//	s, _ := painter.NewStack(512, 512, painter.Depth8)
//	s.AddLayer(nil)
//
//	red := painter.Opaque(painter.Depth8, 255, 0, 0)
//	s.DrawBrush(image.Pt(100, 100), 12, red)
//	s.DrawBrush(image.Pt(400, 300), 12, red) // connected capsule
//	s.EndStroke()
//
//	frame, _ := s.Render() // borrowed until the next Render
//	png.Encode(w, frame)
//
// # Layers
//
// A Layer is visible, unlocked, fully opaque and white when created. While
// locked, every mutating method returns ErrLocked and leaves the buffer
// untouched. Pixels() returns a read-only View; the only mutable access is
// Mutate or WriteRegion. Trusted writers such as decoders and merges use
// Unlocked, which restores the lock on return.
//
// # Strokes
//
// DrawBrush stamps a disk for the first point of a stroke and fills the
// capsule from the previous point for every later one, so strokes have no
// gaps. DrawSplineBrush smooths input through a Catmull-Rom spline over the
// last four points. Masks are computed by a MaskKernel: the scalar
// ReferenceKernel or the 8-lane WideKernel, which produce identical output.
// Building with the purego tag makes ReferenceKernel the default.
//
// # Rendering
//
// Stack.Render composites the visible layers bottom to top into a buffer
// owned by the stack and returns a RenderView of it. The view is overwritten
// by the next Render; use Snapshot or Composite to keep a frame.
//
// # Coordinate System
//
// Origin (0,0) at top-left, X increases right, Y increases down. Layer index
// 0 is the bottom of the stack.
//
// # Logging
//
// The package logs through log/slog and is silent by default. See SetLogger.
package painter

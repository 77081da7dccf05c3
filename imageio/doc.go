// Package imageio bridges painter stacks and ordinary 8-bit images.
//
// Import decodes PNG, JPEG, GIF, BMP, TIFF or WebP data into a single layer
// fitted to a canvas. Export writes the composite of the visible layers as
// an 8-bit RGBA PNG. Thumbnail produces a downscaled composite for previews.
package imageio

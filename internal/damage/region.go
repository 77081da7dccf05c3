// Package damage tracks which parts of a canvas changed since the front-end
// last redrew it.
//
// The canvas is divided into 64x64 pixel tiles. Touched pixel rectangles mark
// the tiles they intersect in a bitmap (one bit per tile, 64 tiles per word).
// Collect returns the dirty tiles as pixel rectangles clipped to the canvas
// and clears the bitmap.
//
// Region is not safe for concurrent use.
package damage

import (
	"image"
	"math/bits"
)

// Tile size in pixels.
const (
	TileWidth  = 64
	TileHeight = 64
)

// Region is a dirty-tile bitmap for a canvas of fixed size.
type Region struct {
	words  []uint64
	width  int
	height int
	tilesX int
	tilesY int
}

// NewRegion creates a tracker for a width x height canvas. All tiles start
// clean. Non-positive dimensions produce an empty tracker that ignores marks.
func NewRegion(width, height int) *Region {
	if width <= 0 || height <= 0 {
		return &Region{}
	}
	tilesX := (width + TileWidth - 1) / TileWidth
	tilesY := (height + TileHeight - 1) / TileHeight
	total := tilesX * tilesY
	return &Region{
		words:  make([]uint64, (total+63)/64),
		width:  width,
		height: height,
		tilesX: tilesX,
		tilesY: tilesY,
	}
}

func (d *Region) mark(tx, ty int) {
	idx := ty*d.tilesX + tx
	d.words[idx/64] |= 1 << (idx & 63)
}

// Mark marks every tile intersecting r (in pixel coordinates) as dirty.
// Rectangles outside the canvas are ignored.
func (d *Region) Mark(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, d.width, d.height))
	if r.Empty() {
		return
	}

	tx1 := r.Min.X / TileWidth
	ty1 := r.Min.Y / TileHeight
	tx2 := (r.Max.X - 1) / TileWidth
	ty2 := (r.Max.Y - 1) / TileHeight

	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			d.mark(tx, ty)
		}
	}
}

// MarkAll marks all tiles as dirty.
func (d *Region) MarkAll() {
	total := d.tilesX * d.tilesY
	full := total / 64
	for i := 0; i < full; i++ {
		d.words[i] = ^uint64(0)
	}
	if rem := total % 64; rem > 0 {
		d.words[full] = (uint64(1) << rem) - 1
	}
}

// IsEmpty reports whether no tile is dirty.
func (d *Region) IsEmpty() bool {
	for _, w := range d.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of dirty tiles.
func (d *Region) Count() int {
	n := 0
	for _, w := range d.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Collect returns the dirty tiles as pixel rectangles in row-major order,
// clipped to the canvas, and marks every tile clean.
func (d *Region) Collect() []image.Rectangle {
	var rects []image.Rectangle
	canvas := image.Rect(0, 0, d.width, d.height)

	for wi, word := range d.words {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			word &^= 1 << bit

			idx := wi*64 + bit
			tx := idx % d.tilesX
			ty := idx / d.tilesX
			tile := image.Rect(tx*TileWidth, ty*TileHeight, (tx+1)*TileWidth, (ty+1)*TileHeight)
			rects = append(rects, tile.Intersect(canvas))
		}
		d.words[wi] = 0
	}
	return rects
}

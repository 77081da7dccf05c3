package painter

import "image"

// recentCapacity is the number of smoothed stroke points a layer remembers.
const recentCapacity = 10

// pointRing is a fixed-capacity history of stroke points. Pushing onto a full
// ring overwrites the oldest point.
type pointRing struct {
	buf  [recentCapacity]image.Point
	next int // write cursor
	n    int
}

func (r *pointRing) push(p image.Point) {
	r.buf[r.next] = p
	r.next = (r.next + 1) % recentCapacity
	if r.n < recentCapacity {
		r.n++
	}
}

func (r *pointRing) len() int { return r.n }

// at returns the i-th most recent point; at(0) is the newest.
func (r *pointRing) at(i int) image.Point {
	return r.buf[(r.next-1-i+2*recentCapacity)%recentCapacity]
}

func (r *pointRing) reset() {
	r.next, r.n = 0, 0
}

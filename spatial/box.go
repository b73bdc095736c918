package spatial

import "math"

// Point is a position in 3-space.
type Point [3]float32

// Box is an axis-aligned bounding box. All faces are inclusive: a point
// lying exactly on a face is contained.
type Box struct {
	Min Point
	Max Point
}

// EmptyBox returns a box that contains nothing. Merging the first point
// into it collapses the box onto that point.
func EmptyBox() Box {
	inf := float32(math.Inf(1))
	return Box{
		Min: Point{inf, inf, inf},
		Max: Point{-inf, -inf, -inf},
	}
}

// NewBox returns the box spanning min and max.
func NewBox(min, max Point) Box {
	return Box{Min: min, Max: max}
}

// Empty reports whether the box contains no points.
func (b Box) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Merge grows the box to contain p.
func (b *Box) Merge(p Point) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Union grows the box to contain o.
func (b *Box) Union(o Box) {
	if o.Empty() {
		return
	}
	b.Merge(o.Min)
	b.Merge(o.Max)
}

// Contains reports whether p lies within the box, boundary included.
func (b Box) Contains(p Point) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Intersects reports whether the two boxes overlap, boundaries included.
func (b Box) Intersects(o Box) bool {
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1] &&
		b.Min[2] <= o.Max[2] && b.Max[2] >= o.Min[2]
}

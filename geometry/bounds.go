package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds represents an axis-aligned bounding box
type Bounds struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// NewBounds creates bounds fitted to the given vertices
func NewBounds(vertices []Vertex) Bounds {
	var b Bounds
	b.Update(vertices, nil)
	return b
}

// InfiniteBounds returns bounds covering the whole plane
func InfiniteBounds() Bounds {
	return Bounds{
		Min: mgl64.Vec2{math.Inf(-1), math.Inf(-1)},
		Max: mgl64.Vec2{math.Inf(1), math.Inf(1)},
	}
}

// Update fits the bounds to the vertices. If a velocity is given, the
// box is expanded on the outbound side only, producing a swept AABB.
func (b *Bounds) Update(vertices []Vertex, velocity *mgl64.Vec2) {
	b.Min = mgl64.Vec2{math.Inf(1), math.Inf(1)}
	b.Max = mgl64.Vec2{math.Inf(-1), math.Inf(-1)}

	for i := range vertices {
		v := vertices[i].Point
		if v.X() > b.Max.X() {
			b.Max[0] = v.X()
		}
		if v.X() < b.Min.X() {
			b.Min[0] = v.X()
		}
		if v.Y() > b.Max.Y() {
			b.Max[1] = v.Y()
		}
		if v.Y() < b.Min.Y() {
			b.Min[1] = v.Y()
		}
	}

	if velocity != nil {
		if velocity.X() > 0 {
			b.Max[0] += velocity.X()
		} else {
			b.Min[0] += velocity.X()
		}
		if velocity.Y() > 0 {
			b.Max[1] += velocity.Y()
		} else {
			b.Min[1] += velocity.Y()
		}
	}
}

// ContainsPoint checks if a point is inside the bounds
func (b Bounds) ContainsPoint(point mgl64.Vec2) bool {
	return point.X() >= b.Min.X() && point.X() <= b.Max.X() &&
		point.Y() >= b.Min.Y() && point.Y() <= b.Max.Y()
}

// Overlaps checks if two bounds overlap
func (b Bounds) Overlaps(other Bounds) bool {
	return b.Min.X() <= other.Max.X() && b.Max.X() >= other.Min.X() &&
		b.Max.Y() >= other.Min.Y() && b.Min.Y() <= other.Max.Y()
}

// Translate moves the bounds by the given vector
func (b *Bounds) Translate(delta mgl64.Vec2) {
	b.Min = b.Min.Add(delta)
	b.Max = b.Max.Add(delta)
}

// Shift moves the bounds so its minimum sits at the given position
func (b *Bounds) Shift(position mgl64.Vec2) {
	size := b.Max.Sub(b.Min)
	b.Min = position
	b.Max = position.Add(size)
}

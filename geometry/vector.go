package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

// Cross returns the z component of the 3D cross product of two 2D vectors.
func Cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// Cross3 returns the cross product term for three points, (b-a) x (c-a).
func Cross3(a, b, c mgl64.Vec2) float64 {
	return (b.X()-a.X())*(c.Y()-a.Y()) - (c.X()-a.X())*(b.Y()-a.Y())
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func Perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}

// PerpNeg returns the vector rotated 90 degrees clockwise.
func PerpNeg(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{v.Y(), -v.X()}
}

// RotateVec rotates the vector about the origin.
func RotateVec(v mgl64.Vec2, angle float64) mgl64.Vec2 {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return mgl64.Vec2{
		v.X()*cos - v.Y()*sin,
		v.X()*sin + v.Y()*cos,
	}
}

// RotateAbout rotates the vector about the given point.
func RotateAbout(v mgl64.Vec2, angle float64, point mgl64.Vec2) mgl64.Vec2 {
	cos, sin := math.Cos(angle), math.Sin(angle)
	dx, dy := v.X()-point.X(), v.Y()-point.Y()
	return mgl64.Vec2{
		point.X() + (dx*cos - dy*sin),
		point.Y() + (dx*sin + dy*cos),
	}
}

// Normalise returns the unit vector, or the zero vector for zero input.
func Normalise(v mgl64.Vec2) mgl64.Vec2 {
	length := v.Len()
	if length == 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{v.X() / length, v.Y() / length}
}

// Angle returns the angle of the line from a to b.
func Angle(a, b mgl64.Vec2) float64 {
	return math.Atan2(b.Y()-a.Y(), b.X()-a.X())
}

// Clamp limits a value to the inclusive range [min, max].
func Clamp[T constraints.Ordered](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Sign returns -1 for negative values, otherwise 1.
func Sign(value float64) float64 {
	if value < 0 {
		return -1
	}
	return 1
}

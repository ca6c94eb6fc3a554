package geometry

import (
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// AxesFromVertices computes the unique unit edge normals of a polygon.
// Normals of parallel edges are coalesced by their gradient, quantised
// to three decimal places; the first edge encountered keeps its slot so
// axis indices are stable.
func AxesFromVertices(vertices []Vertex) []mgl64.Vec2 {
	axes := make([]mgl64.Vec2, 0, len(vertices))
	seen := make(map[string]struct{}, len(vertices))

	for i := range vertices {
		j := (i + 1) % len(vertices)
		normal := Normalise(mgl64.Vec2{
			vertices[j].Point.Y() - vertices[i].Point.Y(),
			vertices[i].Point.X() - vertices[j].Point.X(),
		})

		gradient := math.Inf(1)
		if normal.Y() != 0 {
			gradient = normal.X() / normal.Y()
		}
		if gradient == 0 {
			// fold negative zero so opposite edges share a key
			gradient = 0
		}
		key := strconv.FormatFloat(gradient, 'f', 3, 64)

		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		axes = append(axes, normal)
	}

	return axes
}

// RotateAxes rotates every axis by the given angle, in place.
func RotateAxes(axes []mgl64.Vec2, angle float64) {
	if angle == 0 {
		return
	}
	cos, sin := math.Cos(angle), math.Sin(angle)
	for i, axis := range axes {
		axes[i] = mgl64.Vec2{
			axis.X()*cos - axis.Y()*sin,
			axis.X()*sin + axis.Y()*cos,
		}
	}
}

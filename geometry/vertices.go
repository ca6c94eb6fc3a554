package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidPath is returned when a vertex path string cannot be parsed.
var ErrInvalidPath = errors.New("geometry: invalid vertex path")

// Vertex is one point of a polygon ring. Index is the 1-based position
// within the ring of its owning body; IsInternal flags edges shared by
// the parts of a compound body. The narrowphase does not read the flag:
// internal vertices still serve as collision supports.
type Vertex struct {
	Point      mgl64.Vec2
	Index      int
	BodyID     int
	IsInternal bool
}

// Create builds a vertex ring from points, tagging each vertex with the
// owning body id and its 1-based ring index.
func Create(points []mgl64.Vec2, bodyID int) []Vertex {
	vertices := make([]Vertex, len(points))
	for i, point := range points {
		vertices[i] = Vertex{
			Point:  point,
			Index:  i + 1,
			BodyID: bodyID,
		}
	}
	return vertices
}

// Points returns the bare points of a vertex ring.
func Points(vertices []Vertex) []mgl64.Vec2 {
	points := make([]mgl64.Vec2, len(vertices))
	for i := range vertices {
		points[i] = vertices[i].Point
	}
	return points
}

// FromPath parses a whitespace or comma separated list of "x y" pairs,
// each optionally preceded by an "L" marker.
func FromPath(path string) ([]mgl64.Vec2, error) {
	fields := strings.FieldsFunc(path, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ','
	})

	coords := make([]float64, 0, len(fields))
	for _, field := range fields {
		if field == "L" || field == "l" {
			continue
		}
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, field)
		}
		coords = append(coords, value)
	}

	if len(coords) == 0 || len(coords)%2 != 0 {
		return nil, fmt.Errorf("%w: odd coordinate count %d", ErrInvalidPath, len(coords))
	}

	points := make([]mgl64.Vec2, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		points = append(points, mgl64.Vec2{coords[i], coords[i+1]})
	}
	return points, nil
}

// ToPath serialises points back into the form accepted by FromPath.
func ToPath(points []mgl64.Vec2) string {
	var sb strings.Builder
	for i, point := range points {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("L ")
		sb.WriteString(strconv.FormatFloat(point.X(), 'g', -1, 64))
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(point.Y(), 'g', -1, 64))
	}
	return sb.String()
}

// Area returns the area of the polygon. When signed is true the sign
// encodes winding order.
func Area(vertices []Vertex, signed bool) float64 {
	area := 0.0
	j := len(vertices) - 1
	for i := range vertices {
		area += (vertices[j].Point.X() - vertices[i].Point.X()) *
			(vertices[j].Point.Y() + vertices[i].Point.Y())
		j = i
	}
	if signed {
		return area / 2
	}
	return math.Abs(area) / 2
}

// Mean returns the arithmetic mean of the vertex positions.
func Mean(vertices []Vertex) mgl64.Vec2 {
	var mean mgl64.Vec2
	for i := range vertices {
		mean = mean.Add(vertices[i].Point)
	}
	return mean.Mul(1 / float64(len(vertices)))
}

// Centre returns the area-weighted centroid of the polygon.
func Centre(vertices []Vertex) mgl64.Vec2 {
	area := Area(vertices, true)
	var centre mgl64.Vec2

	for i := range vertices {
		j := (i + 1) % len(vertices)
		cross := Cross(vertices[i].Point, vertices[j].Point)
		temp := vertices[i].Point.Add(vertices[j].Point).Mul(cross)
		centre = centre.Add(temp)
	}

	return centre.Mul(1 / (6 * area))
}

// Inertia returns the second moment of area of the polygon for the given
// mass, for vertices expressed relative to the rotation origin.
func Inertia(vertices []Vertex, mass float64) float64 {
	numerator, denominator := 0.0, 0.0
	for n := range vertices {
		j := (n + 1) % len(vertices)
		a, b := vertices[n].Point, vertices[j].Point
		cross := math.Abs(Cross(b, a))
		numerator += cross * (b.Dot(b) + b.Dot(a) + a.Dot(a))
		denominator += cross
	}
	return (mass / 6) * (numerator / denominator)
}

// Translate moves all vertices by delta, in place.
func Translate(vertices []Vertex, delta mgl64.Vec2) {
	for i := range vertices {
		vertices[i].Point = vertices[i].Point.Add(delta)
	}
}

// Rotate rotates all vertices about a point, in place.
func Rotate(vertices []Vertex, angle float64, point mgl64.Vec2) {
	if angle == 0 {
		return
	}
	cos, sin := math.Cos(angle), math.Sin(angle)
	for i := range vertices {
		dx := vertices[i].Point.X() - point.X()
		dy := vertices[i].Point.Y() - point.Y()
		vertices[i].Point = mgl64.Vec2{
			point.X() + (dx*cos - dy*sin),
			point.Y() + (dx*sin + dy*cos),
		}
	}
}

// Scale scales the vertices from a point, in place.
func Scale(vertices []Vertex, scaleX, scaleY float64, point mgl64.Vec2) {
	if scaleX == 1 && scaleY == 1 {
		return
	}
	for i := range vertices {
		delta := vertices[i].Point.Sub(point)
		vertices[i].Point = mgl64.Vec2{
			point.X() + delta.X()*scaleX,
			point.Y() + delta.Y()*scaleY,
		}
	}
}

// Contains reports whether the point lies inside the clockwise polygon.
func Contains(vertices []Vertex, point mgl64.Vec2) bool {
	for i := range vertices {
		vertex := vertices[i].Point
		next := vertices[(i+1)%len(vertices)].Point
		if (point.X()-vertex.X())*(next.Y()-vertex.Y())+
			(point.Y()-vertex.Y())*(vertex.X()-next.X()) > 0 {
			return false
		}
	}
	return true
}

// ClockwiseSort sorts the vertices around their mean point, in place,
// and returns the slice.
func ClockwiseSort(vertices []Vertex) []Vertex {
	mean := Mean(vertices)
	sort.SliceStable(vertices, func(i, j int) bool {
		return Angle(mean, vertices[i].Point) < Angle(mean, vertices[j].Point)
	})
	return vertices
}

// IsConvex reports whether the polygon is convex, assuming a consistent
// winding. ok is false for degenerate input (fewer than three vertices,
// or all points collinear).
func IsConvex(vertices []Vertex) (convex, ok bool) {
	n := len(vertices)
	if n < 3 {
		return false, false
	}

	flag := 0
	for i := range vertices {
		j := (i + 1) % n
		k := (i + 2) % n
		z := (vertices[j].Point.X() - vertices[i].Point.X()) *
			(vertices[k].Point.Y() - vertices[j].Point.Y())
		z -= (vertices[j].Point.Y() - vertices[i].Point.Y()) *
			(vertices[k].Point.X() - vertices[j].Point.X())

		if z < 0 {
			flag |= 1
		} else if z > 0 {
			flag |= 2
		}
		if flag == 3 {
			return false, true
		}
	}

	if flag != 0 {
		return true, true
	}
	return false, false
}

// Hull returns the convex hull of the vertices as a new ring, using the
// monotone chain algorithm.
func Hull(vertices []Vertex) []Vertex {
	sorted := make([]Vertex, len(vertices))
	copy(sorted, vertices)
	sort.SliceStable(sorted, func(i, j int) bool {
		delta := sorted[i].Point.X() - sorted[j].Point.X()
		if delta != 0 {
			return delta < 0
		}
		return sorted[i].Point.Y() < sorted[j].Point.Y()
	})

	var lower, upper []Vertex
	for i := range sorted {
		vertex := sorted[i]
		for len(lower) >= 2 &&
			Cross3(lower[len(lower)-2].Point, lower[len(lower)-1].Point, vertex.Point) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, vertex)
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		vertex := sorted[i]
		for len(upper) >= 2 &&
			Cross3(upper[len(upper)-2].Point, upper[len(upper)-1].Point, vertex.Point) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, vertex)
	}

	upper = upper[:len(upper)-1]
	lower = lower[:len(lower)-1]
	return append(upper, lower...)
}

// Chamfer rounds the polygon's corners, replacing each vertex with an
// arc of the given radius. radius entries apply per-vertex, the last
// entry repeating. quality -1 picks an arc precision from the radius.
func Chamfer(vertices []Vertex, radius []float64, quality, qualityMin, qualityMax float64) []Vertex {
	if len(radius) == 0 {
		radius = []float64{8}
	}
	if qualityMin <= 0 {
		qualityMin = 2
	}
	if qualityMax <= 0 {
		qualityMax = 14
	}

	var newVertices []Vertex
	for i := range vertices {
		prevVertex := vertices[(i-1+len(vertices))%len(vertices)].Point
		vertex := vertices[i].Point
		nextVertex := vertices[(i+1)%len(vertices)].Point

		currentRadius := radius[min(i, len(radius)-1)]
		if currentRadius == 0 {
			newVertices = append(newVertices, vertices[i])
			continue
		}

		prevNormal := Normalise(mgl64.Vec2{
			vertex.Y() - prevVertex.Y(),
			prevVertex.X() - vertex.X(),
		})
		nextNormal := Normalise(mgl64.Vec2{
			nextVertex.Y() - vertex.Y(),
			vertex.X() - nextVertex.X(),
		})

		diagonalRadius := math.Sqrt(2 * currentRadius * currentRadius)
		radiusVector := prevNormal.Mul(currentRadius)
		midNormal := Normalise(prevNormal.Add(nextNormal).Mul(0.5))
		scaledVertex := vertex.Sub(midNormal.Mul(diagonalRadius))

		precision := quality
		if quality == -1 {
			precision = math.Pow(currentRadius, 0.32) * 1.75
		}
		precision = Clamp(precision, qualityMin, qualityMax)
		if math.Mod(precision, 2) == 1 {
			precision += 1
		}

		alpha := math.Acos(prevNormal.Dot(nextNormal))
		theta := alpha / precision

		for j := 0.0; j < precision; j++ {
			newVertices = append(newVertices, Vertex{
				Point: RotateVec(radiusVector, theta*j).Add(scaledVertex),
			})
		}
	}

	for i := range newVertices {
		newVertices[i].Index = i + 1
	}
	return newVertices
}

// Package decomp splits simple polygons into convex pieces. Polygons
// are rings of points in counter-clockwise order; MakeCCW corrects the
// winding of arbitrary simple input.
package decomp

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrMaxLevel is reported when QuickDecomp abandons a subtree after
// exceeding the recursion cap; the returned pieces cover only part of
// the input.
var ErrMaxLevel = errors.New("decomp: max recursion level reached")

const maxLevel = 100

func at(polygon []mgl64.Vec2, i int) mgl64.Vec2 {
	n := len(polygon)
	return polygon[((i%n)+n)%n]
}

func triangleArea(a, b, c mgl64.Vec2) float64 {
	return (b.X()-a.X())*(c.Y()-a.Y()) - (c.X()-a.X())*(b.Y()-a.Y())
}

func isLeft(a, b, c mgl64.Vec2) bool    { return triangleArea(a, b, c) > 0 }
func isLeftOn(a, b, c mgl64.Vec2) bool  { return triangleArea(a, b, c) >= 0 }
func isRight(a, b, c mgl64.Vec2) bool   { return triangleArea(a, b, c) < 0 }
func isRightOn(a, b, c mgl64.Vec2) bool { return triangleArea(a, b, c) <= 0 }

func sqdist(a, b mgl64.Vec2) float64 {
	dx := b.X() - a.X()
	dy := b.Y() - a.Y()
	return dx*dx + dy*dy
}

// isReflex reports whether vertex i of a CCW polygon is reflex.
func isReflex(polygon []mgl64.Vec2, i int) bool {
	return isRight(at(polygon, i-1), at(polygon, i), at(polygon, i+1))
}

// getIntersectionPoint intersects the infinite lines p1p2 and q1q2,
// returning the zero point for parallel lines.
func getIntersectionPoint(p1, p2, q1, q2 mgl64.Vec2) mgl64.Vec2 {
	a1 := p2.Y() - p1.Y()
	b1 := p1.X() - p2.X()
	c1 := a1*p1.X() + b1*p1.Y()
	a2 := q2.Y() - q1.Y()
	b2 := q1.X() - q2.X()
	c2 := a2*q1.X() + b2*q1.Y()
	det := a1*b2 - a2*b1

	if det == 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{(b2*c1 - b1*c2) / det, (a1*c2 - a2*c1) / det}
}

// lineSegmentsIntersect reports whether segments p1p2 and q1q2 cross.
func lineSegmentsIntersect(p1, p2, q1, q2 mgl64.Vec2) bool {
	dx := p2.X() - p1.X()
	dy := p2.Y() - p1.Y()
	da := q2.X() - q1.X()
	db := q2.Y() - q1.Y()

	// parallel segments
	if da*dy-db*dx == 0 {
		return false
	}

	s := (dx*(q1.Y()-p1.Y()) + dy*(p1.X()-q1.X())) / (da*dy - db*dx)
	t := (da*(p1.Y()-q1.Y()) + db*(q1.X()-p1.X())) / (db*dx - da*dy)

	return s >= 0 && s <= 1 && t >= 0 && t <= 1
}

// MakeCCW reverses the polygon in place if it is clockwise, pivoting on
// the bottom-right vertex. Reports whether a reversal happened.
func MakeCCW(polygon []mgl64.Vec2) bool {
	br := 0
	for i := 1; i < len(polygon); i++ {
		if polygon[i].Y() < polygon[br].Y() ||
			(polygon[i].Y() == polygon[br].Y() && polygon[i].X() > polygon[br].X()) {
			br = i
		}
	}

	if !isLeft(at(polygon, br-1), at(polygon, br), at(polygon, br+1)) {
		for i, j := 0, len(polygon)-1; i < j; i, j = i+1, j-1 {
			polygon[i], polygon[j] = polygon[j], polygon[i]
		}
		return true
	}
	return false
}

// IsSimple reports whether the polygon has no self-intersections.
func IsSimple(polygon []mgl64.Vec2) bool {
	path := polygon

	for i := 0; i < len(path)-1; i++ {
		for j := 0; j < i-1; j++ {
			if lineSegmentsIntersect(path[i], path[i+1], path[j], path[j+1]) {
				return false
			}
		}
	}

	// closing segment against all non-adjacent edges
	for i := 1; i < len(path)-2; i++ {
		if lineSegmentsIntersect(path[0], path[len(path)-1], path[i], path[i+1]) {
			return false
		}
	}

	return true
}

func collinear(a, b, c mgl64.Vec2, thresholdAngle float64) bool {
	if thresholdAngle == 0 {
		return triangleArea(a, b, c) == 0
	}

	ab := b.Sub(a)
	bc := c.Sub(b)
	dot := ab.Dot(bc)
	magA := ab.Len()
	magB := bc.Len()
	angle := math.Acos(dot / (magA * magB))
	return angle < thresholdAngle
}

// RemoveCollinearPoints removes vertices whose edges turn by less than
// the threshold angle (radians), in place, never shrinking the polygon
// below a triangle. Returns the reduced polygon.
func RemoveCollinearPoints(polygon []mgl64.Vec2, thresholdAngle float64) []mgl64.Vec2 {
	for i := len(polygon) - 1; len(polygon) > 3 && i >= 0; i-- {
		if collinear(at(polygon, i-1), at(polygon, i), at(polygon, i+1), thresholdAngle) {
			k := i % len(polygon)
			polygon = append(polygon[:k], polygon[k+1:]...)
		}
	}
	return polygon
}

func pointsEq(a, b mgl64.Vec2, precision float64) bool {
	return math.Abs(a.X()-b.X()) <= precision && math.Abs(a.Y()-b.Y()) <= precision
}

// RemoveDuplicatePoints removes points that coincide within precision,
// keeping the earlier occurrence. Returns the reduced polygon.
func RemoveDuplicatePoints(polygon []mgl64.Vec2, precision float64) []mgl64.Vec2 {
	for i := len(polygon) - 1; i >= 1; i-- {
		for j := i - 1; j >= 0; j-- {
			if pointsEq(polygon[i], polygon[j], precision) {
				polygon = append(polygon[:i], polygon[i+1:]...)
				break
			}
		}
	}
	return polygon
}

// canSee2 reports whether the diagonal a-b crosses no polygon edge.
func canSee2(polygon []mgl64.Vec2, a, b int) bool {
	n := len(polygon)
	for i := 0; i < n; i++ {
		if (i+1)%n == a || i == a || (i+1)%n == b || i == b {
			continue
		}
		if lineSegmentsIntersect(at(polygon, a), at(polygon, b), at(polygon, i), at(polygon, i+1)) {
			return false
		}
	}
	return true
}

// QuickDecomp splits a simple CCW polygon into convex pieces using the
// Bayazit algorithm: each reflex vertex shoots rays along its incident
// edges, connecting either to the closest visible vertex inside the
// resulting triangle or to a Steiner point at the midpoint of the
// intersected edge. Smaller halves recurse first. A recursion cap
// bounds pathological input; when it trips the partial result is
// returned together with ErrMaxLevel.
func QuickDecomp(polygon []mgl64.Vec2) ([][]mgl64.Vec2, error) {
	var result [][]mgl64.Vec2
	truncated := false
	result = quickDecomp(polygon, result, 0, &truncated)
	if truncated {
		return result, ErrMaxLevel
	}
	return result, nil
}

func quickDecomp(polygon []mgl64.Vec2, result [][]mgl64.Vec2, level int, truncated *bool) [][]mgl64.Vec2 {
	if len(polygon) < 3 {
		return result
	}

	level++
	if level > maxLevel {
		*truncated = true
		return result
	}

	poly := polygon
	n := len(polygon)

	for i := 0; i < n; i++ {
		if !isReflex(poly, i) {
			continue
		}

		upperDist := math.MaxFloat64
		lowerDist := math.MaxFloat64
		var upperInt, lowerInt mgl64.Vec2
		upperIndex, lowerIndex := 0, 0

		for j := 0; j < n; j++ {
			if isLeft(at(poly, i-1), at(poly, i), at(poly, j)) &&
				isRightOn(at(poly, i-1), at(poly, i), at(poly, j-1)) {
				p := getIntersectionPoint(at(poly, i-1), at(poly, i), at(poly, j), at(poly, j-1))
				if isRight(at(poly, i+1), at(poly, i), p) {
					d := sqdist(poly[i], p)
					if d < lowerDist {
						lowerDist = d
						lowerInt = p
						lowerIndex = j
					}
				}
			}
			if isLeft(at(poly, i+1), at(poly, i), at(poly, j+1)) &&
				isRightOn(at(poly, i+1), at(poly, i), at(poly, j)) {
				p := getIntersectionPoint(at(poly, i+1), at(poly, i), at(poly, j), at(poly, j+1))
				if isLeft(at(poly, i-1), at(poly, i), p) {
					d := sqdist(poly[i], p)
					if d < upperDist {
						upperDist = d
						upperInt = p
						upperIndex = j
					}
				}
			}
		}

		var lowerPoly, upperPoly []mgl64.Vec2

		if lowerIndex == (upperIndex+1)%n {
			// no visible vertices; place a Steiner point on the shared edge
			p := lowerInt.Add(upperInt).Mul(0.5)

			if i < upperIndex {
				lowerPoly = append(lowerPoly, polygon[i:upperIndex+1]...)
				lowerPoly = append(lowerPoly, p)
				upperPoly = append(upperPoly, p)
				if lowerIndex != 0 {
					upperPoly = append(upperPoly, polygon[lowerIndex:]...)
				}
				upperPoly = append(upperPoly, polygon[:i+1]...)
			} else {
				if i != 0 {
					lowerPoly = append(lowerPoly, polygon[i:]...)
				}
				lowerPoly = append(lowerPoly, polygon[:upperIndex+1]...)
				lowerPoly = append(lowerPoly, p)
				upperPoly = append(upperPoly, p)
				upperPoly = append(upperPoly, polygon[lowerIndex:i+1]...)
			}
		} else {
			// connect to the closest visible vertex inside the triangle
			if lowerIndex > upperIndex {
				upperIndex += n
			}
			if upperIndex < lowerIndex {
				return result
			}

			closestDist := math.MaxFloat64
			closestIndex := 0
			for j := lowerIndex; j <= upperIndex; j++ {
				if isLeftOn(at(poly, i-1), at(poly, i), at(poly, j)) &&
					isRightOn(at(poly, i+1), at(poly, i), at(poly, j)) {
					d := sqdist(at(poly, i), at(poly, j))
					if d < closestDist && canSee2(poly, i, j%n) {
						closestDist = d
						closestIndex = j % n
					}
				}
			}

			if i < closestIndex {
				lowerPoly = append(lowerPoly, polygon[i:closestIndex+1]...)
				if closestIndex != 0 {
					upperPoly = append(upperPoly, polygon[closestIndex:]...)
				}
				upperPoly = append(upperPoly, polygon[:i+1]...)
			} else {
				if i != 0 {
					lowerPoly = append(lowerPoly, polygon[i:]...)
				}
				lowerPoly = append(lowerPoly, polygon[:closestIndex+1]...)
				upperPoly = append(upperPoly, polygon[closestIndex:i+1]...)
			}
		}

		// solve the smaller half first
		if len(lowerPoly) < len(upperPoly) {
			result = quickDecomp(lowerPoly, result, level, truncated)
			result = quickDecomp(upperPoly, result, level, truncated)
		} else {
			result = quickDecomp(upperPoly, result, level, truncated)
			result = quickDecomp(lowerPoly, result, level, truncated)
		}

		return result
	}

	result = append(result, polygon)
	return result
}

// canSee reports visibility between vertices a and b for the exhaustive
// decomposition, rejecting diagonals that leave the polygon or cross an
// edge closer than b.
func canSee(polygon []mgl64.Vec2, a, b int) bool {
	if isLeftOn(at(polygon, a+1), at(polygon, a), at(polygon, b)) &&
		isRightOn(at(polygon, a-1), at(polygon, a), at(polygon, b)) {
		return false
	}

	dist := sqdist(at(polygon, a), at(polygon, b))
	for i := range polygon {
		if (i+1)%len(polygon) == a || i == a {
			continue
		}
		if isLeftOn(at(polygon, a), at(polygon, b), at(polygon, i+1)) &&
			isRightOn(at(polygon, a), at(polygon, b), at(polygon, i)) {
			p := getIntersectionPoint(at(polygon, a), at(polygon, b), at(polygon, i), at(polygon, i+1))
			if sqdist(at(polygon, a), p) < dist {
				return false
			}
		}
	}

	return true
}

// copyPoly copies the ring from index i to j inclusive, wrapping.
func copyPoly(polygon []mgl64.Vec2, i, j int) []mgl64.Vec2 {
	var out []mgl64.Vec2
	if i < j {
		out = append(out, polygon[i:j+1]...)
	} else {
		out = append(out, polygon[i:]...)
		out = append(out, polygon[:j+1]...)
	}
	return out
}

// getCutEdges searches every reflex-vertex diagonal for the split that
// minimises the total number of cut edges.
func getCutEdges(polygon []mgl64.Vec2) [][2]mgl64.Vec2 {
	var best [][2]mgl64.Vec2
	nDiags := math.MaxInt

	for i := range polygon {
		if !isReflex(polygon, i) {
			continue
		}
		for j := range polygon {
			if !canSee(polygon, i, j) {
				continue
			}
			tmp1 := getCutEdges(copyPoly(polygon, i, j))
			tmp2 := getCutEdges(copyPoly(polygon, j, i))
			tmp1 = append(tmp1, tmp2...)

			if len(tmp1) < nDiags {
				nDiags = len(tmp1)
				best = tmp1
				best = append(best, [2]mgl64.Vec2{at(polygon, i), at(polygon, j)})
			}
		}
	}

	return best
}

// slicePoly cuts the polygon along one diagonal, matching endpoints by
// value, or returns nil when the diagonal's endpoints are absent.
func slicePoly(polygon []mgl64.Vec2, cutEdge [2]mgl64.Vec2) [][]mgl64.Vec2 {
	i, j := -1, -1
	for k, p := range polygon {
		if p == cutEdge[0] && i == -1 {
			i = k
		}
		if p == cutEdge[1] && j == -1 {
			j = k
		}
	}
	if i == -1 || j == -1 {
		return nil
	}
	return [][]mgl64.Vec2{copyPoly(polygon, i, j), copyPoly(polygon, j, i)}
}

// Decomp performs the exhaustive O(n^4) decomposition: the diagonal set
// with the fewest cuts is found first, then applied one cut at a time.
func Decomp(polygon []mgl64.Vec2) [][]mgl64.Vec2 {
	edges := getCutEdges(polygon)
	if len(edges) == 0 {
		return [][]mgl64.Vec2{polygon}
	}

	polys := [][]mgl64.Vec2{polygon}
	for _, cutEdge := range edges {
		for j, poly := range polys {
			result := slicePoly(poly, cutEdge)
			if result != nil {
				polys = append(polys[:j], polys[j+1:]...)
				polys = append(polys, result[0], result[1])
				break
			}
		}
	}
	return polys
}

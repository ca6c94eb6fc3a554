package rebound

import (
	"math"

	"github.com/akmonengine/rebound/actor"
	"github.com/akmonengine/rebound/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// satReuseMotionThresh bounds the combined parent motion below which a
// previous separating axis is retested alone instead of running the
// full axis sweep.
const satReuseMotionThresh = 3.0

// Collision is the narrowphase result for one part pair, canonically
// ordered so BodyA.ID < BodyB.ID. Normal is unit length and points
// from A toward B.
type Collision struct {
	Collided bool

	BodyA   *actor.Body
	BodyB   *actor.Body
	ParentA *actor.Body
	ParentB *actor.Body

	Depth       float64
	Normal      mgl64.Vec2
	Tangent     mgl64.Vec2
	Penetration mgl64.Vec2

	AxisBody   *actor.Body
	AxisNumber int
	Reused     bool

	Supports []*geometry.Vertex
}

type overlapResult struct {
	overlap    float64
	axis       mgl64.Vec2
	axisNumber int
}

// projectToAxis returns the min and max projection of the vertices onto
// the axis in one linear scan.
func projectToAxis(vertices []geometry.Vertex, axis mgl64.Vec2) (float64, float64) {
	minProj := axis.Dot(vertices[0].Point)
	maxProj := minProj

	for i := 1; i < len(vertices); i++ {
		dot := axis.Dot(vertices[i].Point)
		if dot > maxProj {
			maxProj = dot
		} else if dot < minProj {
			minProj = dot
		}
	}

	return minProj, maxProj
}

// overlapAxes finds the axis of least overlap between two vertex sets,
// early-exiting on the first separating axis.
func overlapAxes(verticesA, verticesB []geometry.Vertex, axes []mgl64.Vec2) overlapResult {
	result := overlapResult{overlap: math.Inf(1)}

	for i, axis := range axes {
		minA, maxA := projectToAxis(verticesA, axis)
		minB, maxB := projectToAxis(verticesB, axis)

		overlap := math.Min(maxA-minB, maxB-minA)
		if overlap <= 0 {
			result.overlap = overlap
			return result
		}
		if overlap < result.overlap {
			result.overlap = overlap
			result.axis = axis
			result.axisNumber = i
		}
	}

	return result
}

// findSupports scans every vertex for the one deepest along -normal,
// then pairs it with the deeper of its two ring neighbours.
func findSupports(vertices []geometry.Vertex, normal mgl64.Vec2) [2]*geometry.Vertex {
	n := len(vertices)

	nearestDistance := math.Inf(1)
	index := 0
	for i := range vertices {
		distance := normal.Dot(vertices[i].Point)
		if distance < nearestDistance {
			nearestDistance = distance
			index = i
		}
	}

	prev := &vertices[(index-1+n)%n]
	next := &vertices[(index+1)%n]

	neighbour := prev
	if normal.Dot(next.Point) < normal.Dot(prev.Point) {
		neighbour = next
	}

	return [2]*geometry.Vertex{&vertices[index], neighbour}
}

// satCollides runs the separating-axis test on a part pair. With a
// previous collision and little combined motion, only the last
// separating axis is retested; on failure the full sweep runs. The
// manifold holds up to two support vertices contained by the opposing
// polygon.
func satCollides(bodyA, bodyB *actor.Body, previousCollision *Collision) *Collision {
	var collision *Collision
	canReuse := false

	if previousCollision != nil {
		parentA, parentB := bodyA.Parent, bodyB.Parent
		motion := parentA.Speed*parentA.Speed + parentA.AngularSpeed*parentA.AngularSpeed +
			parentB.Speed*parentB.Speed + parentB.AngularSpeed*parentB.AngularSpeed

		canReuse = previousCollision.Collided && motion < satReuseMotionThresh
		collision = previousCollision
	} else {
		collision = &Collision{}
	}

	var minOverlap overlapResult

	if canReuse {
		// retest only the previously separating axis
		axisBody := collision.AxisBody
		axisVertices := axisBody.Vertices
		otherVertices := bodyB.Vertices
		if axisBody != bodyA {
			otherVertices = bodyA.Vertices
		}
		axes := []mgl64.Vec2{axisBody.Axes[collision.AxisNumber]}

		minOverlap = overlapAxes(axisVertices, otherVertices, axes)
		collision.Reused = true

		if minOverlap.overlap <= 0 {
			// the old axis no longer overlaps: fall through to the full sweep
			canReuse = false
		} else {
			minOverlap.axisNumber = collision.AxisNumber
		}
	}
	if !canReuse {
		collision.Reused = false

		overlapAB := overlapAxes(bodyA.Vertices, bodyB.Vertices, bodyA.Axes)
		if overlapAB.overlap <= 0 {
			collision.Collided = false
			return collision
		}
		overlapBA := overlapAxes(bodyB.Vertices, bodyA.Vertices, bodyB.Axes)
		if overlapBA.overlap <= 0 {
			collision.Collided = false
			return collision
		}

		// equal overlaps keep body A's axis
		if overlapAB.overlap <= overlapBA.overlap {
			minOverlap = overlapAB
			collision.AxisBody = bodyA
		} else {
			minOverlap = overlapBA
			collision.AxisBody = bodyB
		}
		collision.AxisNumber = minOverlap.axisNumber
	}

	if bodyA.ID < bodyB.ID {
		collision.BodyA, collision.BodyB = bodyA, bodyB
	} else {
		collision.BodyA, collision.BodyB = bodyB, bodyA
	}
	bodyA, bodyB = collision.BodyA, collision.BodyB

	collision.Collided = true
	collision.ParentA = bodyA.Parent
	collision.ParentB = bodyB.Parent
	collision.Depth = minOverlap.overlap

	// orient the normal from A toward B
	axis := minOverlap.axis
	if axis.Dot(bodyB.Position.Sub(bodyA.Position)) >= 0 {
		collision.Normal = axis
	} else {
		collision.Normal = axis.Mul(-1)
	}
	collision.Tangent = geometry.Perp(collision.Normal)
	collision.Penetration = collision.Normal.Mul(collision.Depth)

	// support vertices of B deepest into A
	verticesB := findSupports(bodyB.Vertices, collision.Normal)
	supports := make([]*geometry.Vertex, 0, 2)

	if geometry.Contains(bodyA.Vertices, verticesB[0].Point) {
		supports = append(supports, verticesB[0])
	}
	if geometry.Contains(bodyA.Vertices, verticesB[1].Point) {
		supports = append(supports, verticesB[1])
	}

	// too few: look for supports of A inside B
	if len(supports) < 2 {
		verticesA := findSupports(bodyA.Vertices, collision.Normal.Mul(-1))
		if geometry.Contains(bodyB.Vertices, verticesA[0].Point) {
			supports = append(supports, verticesA[0])
		}
		if len(supports) < 2 && geometry.Contains(bodyB.Vertices, verticesA[1].Point) {
			supports = append(supports, verticesA[1])
		}
	}

	// still none: fall back to the single deepest vertex
	if len(supports) == 0 {
		supports = append(supports, verticesB[0])
	}

	collision.Supports = supports
	return collision
}

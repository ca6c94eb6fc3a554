package rebound

import (
	"math"

	"github.com/akmonengine/rebound/actor"
	"github.com/akmonengine/rebound/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	restingThresh            = 4.0
	restingThreshTangent     = 6.0
	positionDampen           = 0.9
	positionWarming          = 0.8
	frictionNormalMultiplier = 5.0
)

// preSolvePosition counts the active contacts per parent body; the
// per-body share of positional correction divides by this count.
func preSolvePosition(pairs []*Pair) {
	for _, pair := range pairs {
		if !pair.IsActive {
			continue
		}
		activeCount := len(pair.ActiveContacts)
		pair.Collision.ParentA.TotalContacts += activeCount
		pair.Collision.ParentB.TotalContacts += activeCount
	}
}

// solvePosition runs one iteration of penetration correction: current
// separations first, then the corrective impulses. Corrections
// accumulate into each body's position impulse and only move geometry
// in postSolvePosition.
func solvePosition(pairs []*Pair, timeScale float64) {
	// find the current separations
	for _, pair := range pairs {
		if !pair.IsActive || pair.IsSensor {
			continue
		}
		collision := pair.Collision
		bodyA, bodyB := collision.ParentA, collision.ParentB

		// contact on A approximated from B's position minus the penetration
		bodyBtoA := bodyA.PositionImpulse.Add(collision.Penetration).Sub(bodyB.PositionImpulse)
		pair.Separation = collision.Normal.Dot(bodyBtoA)
	}

	for _, pair := range pairs {
		if !pair.IsActive || pair.IsSensor {
			continue
		}
		collision := pair.Collision
		bodyA, bodyB := collision.ParentA, collision.ParentB

		positionImpulse := (pair.Separation - pair.Slop) * timeScale
		if bodyA.IsStatic || bodyB.IsStatic {
			positionImpulse *= 2
		}

		if !(bodyA.IsStatic || bodyA.IsSleeping) {
			contactShare := positionDampen / float64(bodyA.TotalContacts)
			bodyA.PositionImpulse = bodyA.PositionImpulse.Sub(
				collision.Normal.Mul(positionImpulse * contactShare))
		}
		if !(bodyB.IsStatic || bodyB.IsSleeping) {
			contactShare := positionDampen / float64(bodyB.TotalContacts)
			bodyB.PositionImpulse = bodyB.PositionImpulse.Add(
				collision.Normal.Mul(positionImpulse * contactShare))
		}
	}
}

// postSolvePosition moves each body by its accumulated position
// impulse, shifting the Verlet history too so velocity is unchanged,
// then warms or clears the impulse for the next step.
func postSolvePosition(bodies []*actor.Body) {
	for _, body := range bodies {
		body.TotalContacts = 0

		impulse := body.PositionImpulse
		if impulse.X() == 0 && impulse.Y() == 0 {
			continue
		}

		for _, part := range body.Parts {
			geometry.Translate(part.Vertices, impulse)
			part.Bounds.Update(part.Vertices, &body.Velocity)
			part.Position = part.Position.Add(impulse)
		}

		// move the body without changing velocity
		body.PositionPrev = body.PositionPrev.Add(impulse)

		if impulse.Dot(body.Velocity) < 0 {
			body.PositionImpulse = mgl64.Vec2{}
		} else {
			// warm the impulse for smoother resting stacks
			body.PositionImpulse = impulse.Mul(positionWarming)
		}
	}
}

// preSolveVelocity warm starts the impulse solver by replaying each
// contact's accumulated impulses into the Verlet history.
func preSolveVelocity(pairs []*Pair) {
	for _, pair := range pairs {
		if !pair.IsActive || pair.IsSensor {
			continue
		}
		collision := pair.Collision
		bodyA, bodyB := collision.ParentA, collision.ParentB
		normal, tangent := collision.Normal, collision.Tangent

		for _, contact := range pair.ActiveContacts {
			if contact.NormalImpulse == 0 && contact.TangentImpulse == 0 {
				continue
			}
			impulse := normal.Mul(contact.NormalImpulse).Add(tangent.Mul(contact.TangentImpulse))
			vertex := contact.Vertex.Point

			if !(bodyA.IsStatic || bodyA.IsSleeping) {
				offset := vertex.Sub(bodyA.Position)
				bodyA.PositionPrev = bodyA.PositionPrev.Sub(impulse.Mul(bodyA.InverseMass))
				bodyA.AnglePrev -= geometry.Cross(offset, impulse) * bodyA.InverseInertia
			}
			if !(bodyB.IsStatic || bodyB.IsSleeping) {
				offset := vertex.Sub(bodyB.Position)
				bodyB.PositionPrev = bodyB.PositionPrev.Add(impulse.Mul(bodyB.InverseMass))
				bodyB.AnglePrev += geometry.Cross(offset, impulse) * bodyB.InverseInertia
			}
		}
	}
}

// solveVelocity runs one sequential-impulse iteration over every
// contact: a restitution-scaled normal impulse with monotone
// accumulation, and a tangent impulse capped by Coulomb friction.
// Impulses apply to the Verlet history rather than a velocity field.
func solveVelocity(pairs []*Pair, timeScale float64) {
	timeScaleSquared := timeScale * timeScale

	for _, pair := range pairs {
		if !pair.IsActive || pair.IsSensor {
			continue
		}

		collision := pair.Collision
		bodyA, bodyB := collision.ParentA, collision.ParentB
		normal, tangent := collision.Normal, collision.Tangent
		contacts := pair.ActiveContacts
		if len(contacts) == 0 {
			continue
		}
		contactShare := 1 / float64(len(contacts))

		// refresh the derived velocities
		bodyA.Velocity = bodyA.Position.Sub(bodyA.PositionPrev)
		bodyB.Velocity = bodyB.Position.Sub(bodyB.PositionPrev)
		bodyA.AngularVelocity = bodyA.Angle - bodyA.AnglePrev
		bodyB.AngularVelocity = bodyB.Angle - bodyB.AnglePrev

		for _, contact := range contacts {
			vertex := contact.Vertex.Point
			offsetA := vertex.Sub(bodyA.Position)
			offsetB := vertex.Sub(bodyB.Position)

			velocityPointA := bodyA.Velocity.Add(geometry.Perp(offsetA).Mul(bodyA.AngularVelocity))
			velocityPointB := bodyB.Velocity.Add(geometry.Perp(offsetB).Mul(bodyB.AngularVelocity))

			relativeVelocity := velocityPointB.Sub(velocityPointA)
			normalVelocity := normal.Dot(relativeVelocity)
			tangentVelocity := tangent.Dot(relativeVelocity)
			tangentSpeed := math.Abs(tangentVelocity)
			tangentVelocityDirection := geometry.Sign(tangentVelocity)

			normalImpulse := (1 + pair.Restitution) * normalVelocity
			normalForce := geometry.Clamp(pair.Separation+normalVelocity, 0, 1) * frictionNormalMultiplier

			// Coulomb cap on the friction impulse
			tangentImpulse := tangentVelocity
			maxFriction := math.Inf(1)
			if tangentSpeed > pair.Friction*pair.FrictionStatic*normalForce*timeScaleSquared {
				maxFriction = tangentSpeed
				tangentImpulse = geometry.Clamp(
					pair.Friction*tangentVelocityDirection*timeScaleSquared,
					-maxFriction, maxFriction)
			}

			oAcN := geometry.Cross(offsetA, normal)
			oBcN := geometry.Cross(offsetB, normal)
			share := contactShare / (bodyA.InverseMass + bodyB.InverseMass +
				bodyA.InverseInertia*oAcN*oAcN + bodyB.InverseInertia*oBcN*oBcN)

			normalImpulse *= share
			tangentImpulse *= share

			if normalVelocity < 0 && normalVelocity*normalVelocity > restingThresh*timeScaleSquared {
				// high-velocity impact: drop the cached impulse
				contact.NormalImpulse = 0
			} else {
				// resting contact: accumulate and clamp non-positive
				contactNormalImpulse := contact.NormalImpulse
				contact.NormalImpulse = math.Min(contact.NormalImpulse+normalImpulse, 0)
				normalImpulse = contact.NormalImpulse - contactNormalImpulse
			}

			if tangentVelocity*tangentVelocity > restingThreshTangent*timeScaleSquared {
				contact.TangentImpulse = 0
			} else {
				contactTangentImpulse := contact.TangentImpulse
				contact.TangentImpulse = geometry.Clamp(
					contact.TangentImpulse+tangentImpulse, -maxFriction, maxFriction)
				tangentImpulse = contact.TangentImpulse - contactTangentImpulse
			}

			impulse := normal.Mul(normalImpulse).Add(tangent.Mul(tangentImpulse))

			if !(bodyA.IsStatic || bodyA.IsSleeping) {
				bodyA.PositionPrev = bodyA.PositionPrev.Sub(impulse.Mul(bodyA.InverseMass))
				bodyA.AnglePrev -= geometry.Cross(offsetA, impulse) * bodyA.InverseInertia
			}
			if !(bodyB.IsStatic || bodyB.IsSleeping) {
				bodyB.PositionPrev = bodyB.PositionPrev.Add(impulse.Mul(bodyB.InverseMass))
				bodyB.AnglePrev += geometry.Cross(offsetB, impulse) * bodyB.InverseInertia
			}
		}
	}
}

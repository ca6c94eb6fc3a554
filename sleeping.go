package rebound

import (
	"math"

	"github.com/akmonengine/rebound/actor"
)

const (
	motionWakeThreshold  = 0.18
	motionSleepThreshold = 0.08
	// minBias weighs the motion average toward its historical minimum,
	// so brief spikes do not reset the countdown.
	minBias = 0.9
)

// sleepingUpdate advances each body's sleep countdown from its biased
// motion average. Bodies with pending forces wake immediately.
func (e *Engine) sleepingUpdate(bodies []*actor.Body, timeScale float64) {
	timeFactor := timeScale * timeScale * timeScale

	for _, body := range bodies {
		if body.Force.X() != 0 || body.Force.Y() != 0 {
			e.setSleeping(body, false)
			continue
		}

		motion := body.Speed*body.Speed + body.AngularSpeed*body.AngularSpeed
		minMotion := math.Min(body.Motion, motion)
		maxMotion := math.Max(body.Motion, motion)
		body.Motion = minBias*minMotion + (1-minBias)*maxMotion

		if body.SleepThreshold > 0 && body.Motion < motionSleepThreshold*timeFactor {
			body.SleepCounter++
			if body.SleepCounter >= body.SleepThreshold {
				e.setSleeping(body, true)
			}
		} else if body.SleepCounter > 0 {
			body.SleepCounter--
		}
	}
}

// sleepingAfterCollisions wakes a sleeping body when its partner in an
// active pair is moving hard enough.
func (e *Engine) sleepingAfterCollisions(pairs []*Pair, timeScale float64) {
	timeFactor := timeScale * timeScale * timeScale

	for _, pair := range pairs {
		if !pair.IsActive {
			continue
		}

		collision := pair.Collision
		bodyA, bodyB := collision.ParentA, collision.ParentB

		if !bodyA.IsSleeping && !bodyB.IsSleeping {
			continue
		}

		sleepingBody, movingBody := bodyA, bodyB
		if !bodyA.IsSleeping {
			sleepingBody, movingBody = bodyB, bodyA
		}

		if !sleepingBody.IsStatic && movingBody.Motion > motionWakeThreshold*timeFactor {
			e.setSleeping(sleepingBody, false)
		}
	}
}

// setSleeping transitions a body's sleep state, emitting sleepStart or
// sleepEnd when the state actually changed.
func (e *Engine) setSleeping(body *actor.Body, isSleeping bool) {
	if !body.SetSleeping(isSleeping) {
		return
	}

	name := SLEEP_END
	if isSleeping {
		name = SLEEP_START
	}
	e.Events.emit(SleepEvent{
		Name:      name,
		Source:    e,
		Timestamp: e.Timestamp,
		Body:      body,
	})
}

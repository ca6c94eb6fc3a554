package rebound

// collisions runs the mid and narrow phases over the broadphase
// candidates: filter and compound-bounds rejection first, then SAT per
// part pair, reusing the previous collision of a still-active pair for
// axis coherence.
func (e *Engine) collisions(candidates []*gridPair) []*Collision {
	var found []*Collision

	for _, candidate := range candidates {
		bodyA, bodyB := candidate.bodyA, candidate.bodyB

		if (bodyA.IsStatic || bodyA.IsSleeping) && (bodyB.IsStatic || bodyB.IsSleeping) {
			continue
		}
		if !bodyA.Filter.CanCollide(bodyB.Filter) {
			continue
		}

		// mid phase
		if !bodyA.Bounds.Overlaps(bodyB.Bounds) {
			continue
		}

		startA := 0
		if len(bodyA.Parts) > 1 {
			// skip the aggregate hull of a compound, test per part
			startA = 1
		}
		for i := startA; i < len(bodyA.Parts); i++ {
			partA := bodyA.Parts[i]

			startB := 0
			if len(bodyB.Parts) > 1 {
				startB = 1
			}
			for j := startB; j < len(bodyB.Parts); j++ {
				partB := bodyB.Parts[j]

				if (partA != bodyA || partB != bodyB) && !partA.Bounds.Overlaps(partB.Bounds) {
					continue
				}

				var previous *Collision
				if pair, ok := e.Pairs.table[pairKey(partA, partB)]; ok && pair.IsActive {
					previous = pair.Collision
				}

				collision := satCollides(partA, partB, previous)
				if collision.Collided {
					found = append(found, collision)
				}
			}
		}
	}

	return found
}

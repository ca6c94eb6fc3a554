package rebound

import (
	"strconv"

	"github.com/akmonengine/rebound/actor"
	"github.com/akmonengine/rebound/geometry"
)

// pairMaxIdleLife is how long an inactive pair survives before being
// garbage collected, in engine-time milliseconds.
const pairMaxIdleLife = 1000.0

// Contact is one persistent contact point of a pair, keyed by the
// support vertex. The accumulated impulses warm start the next step's
// velocity solver.
type Contact struct {
	ID             string
	Vertex         *geometry.Vertex
	NormalImpulse  float64
	TangentImpulse float64
}

func contactID(vertex *geometry.Vertex) string {
	return strconv.Itoa(vertex.BodyID) + "_" + strconv.Itoa(vertex.Index)
}

// pairKey fingerprints an unordered body pair.
func pairKey(bodyA, bodyB *actor.Body) string {
	if bodyA.ID < bodyB.ID {
		return "A" + strconv.Itoa(bodyA.ID) + "B" + strconv.Itoa(bodyB.ID)
	}
	return "A" + strconv.Itoa(bodyB.ID) + "B" + strconv.Itoa(bodyA.ID)
}

// Pair is the temporal cache entry for two colliding parts: the current
// collision, the persisted contacts, and the combined material
// coefficients the resolver works with.
type Pair struct {
	ID    string
	BodyA *actor.Body
	BodyB *actor.Body

	Collision      *Collision
	Contacts       map[string]*Contact
	ActiveContacts []*Contact

	Separation float64

	IsActive        bool
	ConfirmedActive bool
	IsSensor        bool

	TimeCreated float64
	TimeUpdated float64

	InverseMass    float64
	Friction       float64
	FrictionStatic float64
	Restitution    float64
	Slop           float64
}

func newPair(collision *Collision, timestamp float64) *Pair {
	bodyA, bodyB := collision.BodyA, collision.BodyB

	pair := &Pair{
		ID:          pairKey(bodyA, bodyB),
		BodyA:       bodyA,
		BodyB:       bodyB,
		Contacts:    make(map[string]*Contact),
		IsActive:    true,
		IsSensor:    bodyA.IsSensor || bodyB.IsSensor,
		TimeCreated: timestamp,
		TimeUpdated: timestamp,
	}

	pair.update(collision, timestamp)
	return pair
}

// update refreshes the pair from a new collision result, rebuilding the
// active contact list while reusing persisted contacts by vertex id so
// their impulses survive.
func (p *Pair) update(collision *Collision, timestamp float64) {
	p.Collision = collision

	if !collision.Collided {
		if p.IsActive {
			p.setActive(false, timestamp)
		}
		return
	}

	parentA, parentB := collision.ParentA, collision.ParentB
	p.InverseMass = parentA.InverseMass + parentB.InverseMass
	p.Friction = min(parentA.Friction, parentB.Friction)
	p.FrictionStatic = max(parentA.FrictionStatic, parentB.FrictionStatic)
	p.Restitution = max(parentA.Restitution, parentB.Restitution)
	p.Slop = max(parentA.Slop, parentB.Slop)

	activeContacts := p.ActiveContacts[:0]
	for _, support := range collision.Supports {
		id := contactID(support)
		if contact, ok := p.Contacts[id]; ok {
			contact.Vertex = support
			activeContacts = append(activeContacts, contact)
		} else {
			contact := &Contact{ID: id, Vertex: support}
			p.Contacts[id] = contact
			activeContacts = append(activeContacts, contact)
		}
	}
	p.ActiveContacts = activeContacts

	p.Separation = collision.Depth
	p.setActive(true, timestamp)
}

func (p *Pair) setActive(isActive bool, timestamp float64) {
	if isActive {
		p.IsActive = true
		p.TimeUpdated = timestamp
	} else {
		p.IsActive = false
		p.ActiveContacts = p.ActiveContacts[:0]
	}
}

// Pairs manages the set of pairs seen recently, tracking the lifecycle
// transitions the engine reports as collision events.
type Pairs struct {
	table map[string]*Pair
	// List holds every live pair, active or idle.
	List []*Pair

	collisionStart  []*Pair
	collisionActive []*Pair
	collisionEnd    []*Pair
}

// NewPairs creates an empty pair cache.
func NewPairs() *Pairs {
	return &Pairs{
		table: make(map[string]*Pair),
	}
}

// Update folds this step's collisions into the cache. Pairs seen again
// continue (collisionActive), pairs seen anew or reactivated start
// (collisionStart), and pairs no longer confirmed end (collisionEnd).
func (ps *Pairs) Update(collisions []*Collision, timestamp float64) {
	ps.collisionStart = ps.collisionStart[:0]
	ps.collisionActive = ps.collisionActive[:0]
	ps.collisionEnd = ps.collisionEnd[:0]

	for _, pair := range ps.List {
		pair.ConfirmedActive = false
	}

	for _, collision := range collisions {
		if !collision.Collided {
			continue
		}

		key := pairKey(collision.BodyA, collision.BodyB)
		if pair, ok := ps.table[key]; ok {
			if pair.IsActive {
				ps.collisionActive = append(ps.collisionActive, pair)
			} else {
				ps.collisionStart = append(ps.collisionStart, pair)
			}
			pair.update(collision, timestamp)
			pair.ConfirmedActive = true
		} else {
			pair := newPair(collision, timestamp)
			ps.table[key] = pair
			ps.List = append(ps.List, pair)
			ps.collisionStart = append(ps.collisionStart, pair)
			pair.ConfirmedActive = true
		}
	}

	for _, pair := range ps.List {
		if pair.IsActive && !pair.ConfirmedActive {
			pair.setActive(false, timestamp)
			ps.collisionEnd = append(ps.collisionEnd, pair)
		}
	}
}

// RemoveOld drops pairs idle for longer than pairMaxIdleLife. Pairs
// touching a sleeping body are refreshed instead, so waking resumes
// them seamlessly.
func (ps *Pairs) RemoveOld(timestamp float64) {
	kept := ps.List[:0]

	for _, pair := range ps.List {
		collision := pair.Collision

		if collision.BodyA.IsSleeping || collision.BodyB.IsSleeping {
			pair.TimeUpdated = timestamp
			kept = append(kept, pair)
			continue
		}

		if timestamp-pair.TimeUpdated > pairMaxIdleLife {
			delete(ps.table, pair.ID)
			continue
		}
		kept = append(kept, pair)
	}

	ps.List = kept
}

// Clear empties the cache.
func (ps *Pairs) Clear() {
	ps.table = make(map[string]*Pair)
	ps.List = ps.List[:0]
	ps.collisionStart = ps.collisionStart[:0]
	ps.collisionActive = ps.collisionActive[:0]
	ps.collisionEnd = ps.collisionEnd[:0]
}

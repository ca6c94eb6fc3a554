package rebound

import (
	"math"
	"sort"

	"github.com/akmonengine/rebound/actor"
	"github.com/akmonengine/rebound/geometry"
)

const (
	bucketWidth  = 40.0
	bucketHeight = 40.0
)

type bucketKey struct {
	Col, Row int
}

// region is the rectangle of grid cells covered by a body's bounds.
type region struct {
	startCol, endCol int
	startRow, endRow int
}

func (r region) contains(col, row int) bool {
	return col >= r.startCol && col <= r.endCol &&
		row >= r.startRow && row <= r.endRow
}

func unionRegion(a, b region) region {
	return region{
		startCol: min(a.startCol, b.startCol),
		endCol:   max(a.endCol, b.endCol),
		startRow: min(a.startRow, b.startRow),
		endRow:   max(a.endRow, b.endRow),
	}
}

type gridPair struct {
	bodyA *actor.Body
	bodyB *actor.Body
	count int
}

// Grid is a uniform spatial hash over fixed-size buckets. Bodies span
// a rectangular region of cells; when a body's region changes only the
// difference of the two regions is touched. Shared-cell occupancy is
// refcounted per body pair to build the candidate pair list.
type Grid struct {
	buckets   map[bucketKey][]*actor.Body
	pairs     map[string]*gridPair
	pairsList []*gridPair
	regions   map[int]region
}

// NewGrid creates an empty broadphase grid.
func NewGrid() *Grid {
	return &Grid{
		buckets: make(map[bucketKey][]*actor.Body),
		pairs:   make(map[string]*gridPair),
		regions: make(map[int]region),
	}
}

// Clear drops all buckets, pairs and cached regions.
func (g *Grid) Clear() {
	g.buckets = make(map[bucketKey][]*actor.Body)
	g.pairs = make(map[string]*gridPair)
	g.pairsList = g.pairsList[:0]
	g.regions = make(map[int]region)
}

func getRegion(bounds geometry.Bounds) region {
	return region{
		startCol: int(math.Floor(bounds.Min.X() / bucketWidth)),
		endCol:   int(math.Floor(bounds.Max.X() / bucketWidth)),
		startRow: int(math.Floor(bounds.Min.Y() / bucketHeight)),
		endRow:   int(math.Floor(bounds.Max.Y() / bucketHeight)),
	}
}

// Update re-buckets the bodies whose region changed, walking the union
// of the old and new regions: cells left behind are vacated, cells
// newly covered are populated. Sleeping bodies keep their buckets.
func (g *Grid) Update(bodies []*actor.Body, worldBounds geometry.Bounds, forceUpdate bool) {
	gridChanged := false

	for _, body := range bodies {
		if body.IsSleeping && !forceUpdate {
			continue
		}

		// skip bodies entirely outside the world bounds
		if body.Bounds.Max.X() < worldBounds.Min.X() || body.Bounds.Min.X() > worldBounds.Max.X() ||
			body.Bounds.Max.Y() < worldBounds.Min.Y() || body.Bounds.Min.Y() > worldBounds.Max.Y() {
			continue
		}

		newRegion := getRegion(body.Bounds)
		oldRegion, tracked := g.regions[body.ID]

		if !tracked || newRegion != oldRegion || forceUpdate {
			if !tracked || forceUpdate {
				oldRegion = newRegion
			}

			u := unionRegion(newRegion, oldRegion)
			for col := u.startCol; col <= u.endCol; col++ {
				for row := u.startRow; row <= u.endRow; row++ {
					key := bucketKey{col, row}
					insideNew := newRegion.contains(col, row)
					insideOld := oldRegion.contains(col, row)

					if !insideNew && insideOld {
						g.bucketRemoveBody(key, body)
					}
					if oldRegion == newRegion || (insideNew && !insideOld) || forceUpdate {
						g.bucketAddBody(key, body)
					}
				}
			}

			g.regions[body.ID] = newRegion
			gridChanged = true
		}
	}

	if gridChanged {
		g.pairsList = g.activePairs()
	}
}

func (g *Grid) bucketAddBody(key bucketKey, body *actor.Body) {
	bucket := g.buckets[key]

	// refcount a candidate pair per shared cell
	for _, bodyB := range bucket {
		if bodyB.ID == body.ID || (body.IsStatic && bodyB.IsStatic) {
			continue
		}
		id := pairKey(body, bodyB)
		if pair, ok := g.pairs[id]; ok {
			pair.count++
		} else {
			g.pairs[id] = &gridPair{bodyA: body, bodyB: bodyB, count: 1}
		}
	}

	g.buckets[key] = append(bucket, body)
}

func (g *Grid) bucketRemoveBody(key bucketKey, body *actor.Body) {
	bucket := g.buckets[key]
	for i, b := range bucket {
		if b == body {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	g.buckets[key] = bucket

	for _, bodyB := range bucket {
		if pair, ok := g.pairs[pairKey(body, bodyB)]; ok {
			pair.count--
		}
	}
}

// activePairs regenerates the candidate list, dropping exhausted pairs.
// The list is ordered by body ids so downstream passes are
// deterministic.
func (g *Grid) activePairs() []*gridPair {
	pairs := make([]*gridPair, 0, len(g.pairs))
	for id, pair := range g.pairs {
		if pair.count > 0 {
			pairs = append(pairs, pair)
		} else {
			delete(g.pairs, id)
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		a := min(pairs[i].bodyA.ID, pairs[i].bodyB.ID)
		b := min(pairs[j].bodyA.ID, pairs[j].bodyB.ID)
		if a != b {
			return a < b
		}
		return max(pairs[i].bodyA.ID, pairs[i].bodyB.ID) < max(pairs[j].bodyA.ID, pairs[j].bodyB.ID)
	})
	return pairs
}

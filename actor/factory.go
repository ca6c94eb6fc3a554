package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/rebound/decomp"
	"github.com/akmonengine/rebound/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidGeometry is returned for degenerate shape input.
var ErrInvalidGeometry = errors.New("actor: invalid geometry")

func chamfered(cfg Config, points []mgl64.Vec2) []mgl64.Vec2 {
	if len(cfg.Chamfer) == 0 {
		return points
	}
	quality := cfg.ChamferQuality
	if quality == 0 {
		quality = -1
	}
	ring := geometry.Chamfer(geometry.Create(points, 0), cfg.Chamfer, quality, 2, 14)
	return geometry.Points(ring)
}

// Rectangle creates an axis-aligned box body centred at (x, y).
func Rectangle(x, y, width, height float64, cfg *Config) *Body {
	c := cfg.orDefault()
	if c.Label == "" {
		c.Label = "Rectangle Body"
	}
	c.Position = mgl64.Vec2{x, y}
	c.Vertices = chamfered(c, []mgl64.Vec2{
		{0, 0},
		{width, 0},
		{width, height},
		{0, height},
	})
	return NewBody(&c)
}

// Trapezoid creates an isosceles trapezoid (or triangle at slope 1)
// centred at (x, y). slope in [0, 1] controls how far the top edge is
// pinched in.
func Trapezoid(x, y, width, height, slope float64, cfg *Config) *Body {
	c := cfg.orDefault()
	if c.Label == "" {
		c.Label = "Trapezoid Body"
	}

	slope *= 0.5
	roof := (1 - slope*2) * width
	x1 := width * slope
	x2 := x1 + roof
	x3 := x2 + x1

	var points []mgl64.Vec2
	if slope < 0.5 {
		points = []mgl64.Vec2{{0, 0}, {x1, -height}, {x2, -height}, {x3, 0}}
	} else {
		points = []mgl64.Vec2{{0, 0}, {x2, -height}, {x3, 0}}
	}

	c.Position = mgl64.Vec2{x, y}
	c.Vertices = chamfered(c, points)
	return NewBody(&c)
}

// Polygon creates a regular polygon body centred at (x, y). Fewer than
// three sides degenerates to a circle.
func Polygon(x, y float64, sides int, radius float64, cfg *Config) *Body {
	if sides < 3 {
		return Circle(x, y, radius, cfg, 0)
	}

	c := cfg.orDefault()
	if c.Label == "" {
		c.Label = "Polygon Body"
	}
	return polygonFromConfig(x, y, sides, radius, c)
}

// Circle approximates a circle as a regular polygon. The side count is
// the radius capped at maxSides (25 when zero) and raised to at least
// 10, then rounded up to an even number, so an odd cap gives cap+1 sides.
func Circle(x, y, radius float64, cfg *Config, maxSides int) *Body {
	c := cfg.orDefault()
	if c.Label == "" {
		c.Label = "Circle Body"
	}
	c.CircleRadius = radius

	if maxSides <= 0 {
		maxSides = 25
	}
	sides := int(math.Ceil(math.Max(10, math.Min(float64(maxSides), radius))))
	// an even number of sides gives symmetric axes
	if sides%2 == 1 {
		sides++
	}

	return polygonFromConfig(x, y, sides, radius, c)
}

func polygonFromConfig(x, y float64, sides int, radius float64, c Config) *Body {
	theta := 2 * math.Pi / float64(sides)
	offset := theta * 0.5

	points := make([]mgl64.Vec2, sides)
	for i := 0; i < sides; i++ {
		angle := offset + float64(i)*theta
		points[i] = mgl64.Vec2{
			math.Cos(angle) * radius,
			math.Sin(angle) * radius,
		}
	}

	c.Position = mgl64.Vec2{x, y}
	c.Vertices = chamfered(c, points)
	return NewBody(&c)
}

// FromVertices builds a body from one or more vertex sets, decomposing
// concave rings into convex parts. flagInternal marks coincident edges
// between parts as internal (Vertex.IsInternal); collision does not skip
// them. removeCollinear and
// minimumArea filter decomposition noise. On decomposition failure the
// convex hull of the ring is used instead.
func FromVertices(x, y float64, vertexSets [][]mgl64.Vec2, cfg *Config, flagInternal bool, removeCollinear, minimumArea float64) (*Body, error) {
	if len(vertexSets) == 0 {
		return nil, fmt.Errorf("%w: no vertex sets", ErrInvalidGeometry)
	}

	c := cfg.orDefault()
	if c.Label == "" {
		c.Label = "Body"
	}

	type partShape struct {
		position mgl64.Vec2
		points   []mgl64.Vec2
	}
	var shapes []partShape

	addShape := func(ring []geometry.Vertex) {
		shapes = append(shapes, partShape{
			position: geometry.Centre(ring),
			points:   geometry.Points(ring),
		})
	}

	for _, points := range vertexSets {
		for _, p := range points {
			if math.IsNaN(p.X()) || math.IsNaN(p.Y()) {
				return nil, fmt.Errorf("%w: NaN coordinate", ErrInvalidGeometry)
			}
		}
		ring := geometry.Create(points, 0)
		if len(ring) < 3 || geometry.Area(ring, false) == 0 {
			return nil, fmt.Errorf("%w: degenerate vertex set", ErrInvalidGeometry)
		}

		convex, ok := geometry.IsConvex(ring)
		if !ok {
			return nil, fmt.Errorf("%w: degenerate vertex set", ErrInvalidGeometry)
		}

		if convex {
			addShape(geometry.ClockwiseSort(ring))
			continue
		}

		concave := make([]mgl64.Vec2, len(points))
		copy(concave, points)
		decomp.MakeCCW(concave)
		if removeCollinear != 0 {
			concave = decomp.RemoveCollinearPoints(concave, removeCollinear)
		}

		decomposed, err := decomp.QuickDecomp(concave)
		if err != nil || len(decomposed) == 0 {
			// decomposition failed; conservative hull fallback
			addShape(geometry.Hull(ring))
			continue
		}

		for _, chunk := range decomposed {
			chunkRing := geometry.Create(chunk, 0)
			if minimumArea > 0 && geometry.Area(chunkRing, false) < minimumArea {
				continue
			}
			addShape(chunkRing)
		}
	}

	if len(shapes) == 0 {
		return nil, fmt.Errorf("%w: all parts below minimum area", ErrInvalidGeometry)
	}

	parts := make([]*Body, len(shapes))
	for i, shape := range shapes {
		partCfg := c
		partCfg.Parts = nil
		partCfg.Position = shape.position
		partCfg.Vertices = shape.points
		parts[i] = NewBody(&partCfg)
	}

	if flagInternal {
		flagCoincidentEdges(parts)
	}

	if len(parts) > 1 {
		compoundCfg := c
		compoundCfg.Parts = parts
		body := NewBody(&compoundCfg)
		body.SetPosition(mgl64.Vec2{x, y})
		return body, nil
	}

	parts[0].SetPosition(mgl64.Vec2{x, y})
	return parts[0], nil
}

// coincidentMaxDist is a squared distance in world units; vertex pairs
// of neighbouring parts closer than this mark a shared internal edge.
const coincidentMaxDist = 5.0

func flagCoincidentEdges(parts []*Body) {
	for i := 0; i < len(parts); i++ {
		partA := parts[i]
		for j := i + 1; j < len(parts); j++ {
			partB := parts[j]
			if !partA.Bounds.Overlaps(partB.Bounds) {
				continue
			}

			pav, pbv := partA.Vertices, partB.Vertices
			for k := range pav {
				for z := range pbv {
					nextA := pav[(k+1)%len(pav)].Point
					nextB := pbv[(z+1)%len(pbv)].Point
					da := nextA.Sub(pbv[z].Point)
					db := pav[k].Point.Sub(nextB)

					if da.Dot(da) < coincidentMaxDist && db.Dot(db) < coincidentMaxDist {
						pav[k].IsInternal = true
						pbv[z].IsInternal = true
					}
				}
			}
		}
	}
}

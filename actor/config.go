package actor

import "github.com/go-gl/mathgl/mgl64"

// Filter controls which bodies may collide. Category is a single-bit
// mask naming the body's group; Mask selects the categories it collides
// with. A shared non-zero Group overrides both: positive always
// collides, negative never.
type Filter struct {
	Category uint32
	Mask     uint32
	Group    int
}

// CanCollide reports whether two filters permit a collision.
func (f Filter) CanCollide(other Filter) bool {
	if f.Group == other.Group && f.Group != 0 {
		return f.Group > 0
	}
	return f.Mask&other.Category != 0 && other.Mask&f.Category != 0
}

// Config holds the construction parameters of a body. Start from
// DefaultConfig and override fields; factories accept nil for defaults.
type Config struct {
	Label    string
	Position mgl64.Vec2
	Angle    float64

	// Vertices is the polygon outline; when empty a 40x40 box is used.
	Vertices []mgl64.Vec2

	// Parts assembles a compound body; the new body becomes the root.
	Parts []*Body

	IsStatic   bool
	IsSensor   bool
	IsSleeping bool

	Density float64
	// Mass and Inertia, when positive, override the density-derived values.
	Mass    float64
	Inertia float64

	Restitution    float64
	Friction       float64
	FrictionStatic float64
	FrictionAir    float64
	Slop           float64

	Velocity        mgl64.Vec2
	AngularVelocity float64

	Filter         Filter
	SleepThreshold int
	TimeScale      float64
	CircleRadius   float64

	// Chamfer rounds the factory shape's corners with the given radii;
	// ChamferQuality of -1 derives arc precision from the radius.
	Chamfer        []float64
	ChamferQuality float64
}

// DefaultConfig returns the normative body defaults.
func DefaultConfig() Config {
	return Config{
		Density:        0.001,
		Restitution:    0,
		Friction:       0.1,
		FrictionStatic: 0.5,
		FrictionAir:    0.01,
		Slop:           0.05,
		SleepThreshold: 60,
		TimeScale:      1,
		ChamferQuality: -1,
		Filter: Filter{
			Category: 0x0001,
			Mask:     0xFFFFFFFF,
			Group:    0,
		},
	}
}

func (cfg *Config) orDefault() Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return *cfg
}

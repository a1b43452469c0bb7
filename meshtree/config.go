package meshtree

import (
	"math/rand"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	DefaultEpsilon           = 1e-10
	DefaultOctreeMaxDepth    = 20
	DefaultOctreeMaxPolygons = 50
	DefaultKDMaxDepth        = 60
	DefaultSSKDMaxDepth      = 90
	DefaultSSKDMinPolygons   = 25
	DefaultBSPMaxDepth       = 60
)

// Config holds the tunable parameters of the kernel.
//
// A Config can be decoded from TOML, e.g.
//
//	epsilon = 1e-9
//	octree_max_depth = 12
//	seed = 42
type Config struct {
	// Epsilon is the tolerance used wherever a predicate compares against
	// zero (coplanarity, colinearity, on-plane classification). Mesh
	// operations scale it by the extent of the meshes involved, see
	// ScaledIntersector. Zero makes every such comparison exact.
	Epsilon float64 `toml:"epsilon"`

	OctreeMaxDepth    int `toml:"octree_max_depth"`
	OctreeMaxPolygons int `toml:"octree_max_polygons"`
	KDMaxDepth        int `toml:"kd_max_depth"`
	SSKDMaxDepth      int `toml:"sskd_max_depth"`
	SSKDMinPolygons   int `toml:"sskd_min_polygons"`
	BSPMaxDepth       int `toml:"bsp_max_depth"`

	// Seed drives BSP plane selection and the ray directions used for
	// inside/outside classification.
	Seed int64 `toml:"seed"`

	// Concurrency is the maximum number of Goroutines used by the boolean
	// broad phase. If 0, GOMAXPROCS is used.
	Concurrency int `toml:"concurrency"`
}

// DefaultConfig creates a Config with the default parameters.
func DefaultConfig() *Config {
	return &Config{
		Epsilon:           DefaultEpsilon,
		OctreeMaxDepth:    DefaultOctreeMaxDepth,
		OctreeMaxPolygons: DefaultOctreeMaxPolygons,
		KDMaxDepth:        DefaultKDMaxDepth,
		SSKDMaxDepth:      DefaultSSKDMaxDepth,
		SSKDMinPolygons:   DefaultSSKDMinPolygons,
		BSPMaxDepth:       DefaultBSPMaxDepth,
		Seed:              1,
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig(), so that missing
// keys keep their default values.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return c, nil
}

// Validate checks that every parameter is in range.
func (c *Config) Validate() error {
	if c.Epsilon < 0 {
		return errors.Errorf("epsilon must be non-negative, got %v", c.Epsilon)
	}
	for _, p := range []struct {
		name  string
		value int
	}{
		{"octree_max_depth", c.OctreeMaxDepth},
		{"octree_max_polygons", c.OctreeMaxPolygons},
		{"kd_max_depth", c.KDMaxDepth},
		{"sskd_max_depth", c.SSKDMaxDepth},
		{"sskd_min_polygons", c.SSKDMinPolygons},
		{"bsp_max_depth", c.BSPMaxDepth},
		{"concurrency", c.Concurrency},
	} {
		if p.value < 0 {
			return errors.Errorf("%s must be non-negative, got %d", p.name, p.value)
		}
	}
	return nil
}

// Intersector creates an Intersector using the configured tolerance as an
// absolute tolerance.
func (c *Config) Intersector() *Intersector {
	return &Intersector{Epsilon: c.Epsilon}
}

// ScaledIntersector creates an Intersector whose tolerances are relative to
// the extent of b.
//
// An empty box, or one containing a single point, gives absolute
// tolerances.
func (c *Config) ScaledIntersector(b BoundingBox) *Intersector {
	return &Intersector{Epsilon: c.Epsilon, Scale: b.Extent()}
}

// Rand creates a random source seeded with c.Seed.
func (c *Config) Rand() *rand.Rand {
	return rand.New(rand.NewSource(c.Seed))
}

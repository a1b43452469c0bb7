package meshtree

import (
	"math/rand"
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/unixpickle/essentials"
	"golang.org/x/exp/slices"
)

// A BoolOp is a constructive solid geometry operation.
type BoolOp int

const (
	BoolUnion BoolOp = iota
	BoolIntersection
	BoolDifference
)

func (b BoolOp) String() string {
	switch b {
	case BoolUnion:
		return "union"
	case BoolIntersection:
		return "intersection"
	case BoolDifference:
		return "difference"
	default:
		return "BoolOp(?)"
	}
}

// ParseBoolOp parses the names produced by BoolOp.String().
func ParseBoolOp(s string) (BoolOp, error) {
	for _, op := range []BoolOp{BoolUnion, BoolIntersection, BoolDifference} {
		if op.String() == s {
			return op, nil
		}
	}
	return 0, errors.Errorf("unknown boolean operation: %s", s)
}

// fragmentClass is the position of a fragment relative to the other mesh.
type fragmentClass int

const (
	classOutside fragmentClass = iota
	classInside
	classOnSame
	classOnOpposite
)

// PerformBool combines two meshes with the default configuration.
//
// If depth is non-zero, it overrides the octree depth used for the broad
// phase.
func PerformBool(lhs, rhs *Mesh, op BoolOp, depth int) (*Mesh, error) {
	c := DefaultConfig()
	if depth != 0 {
		c.OctreeMaxDepth = depth
	}
	return NewBoolEngine(c, nil).Perform(lhs, rhs, op)
}

// A BoolEngine performs boolean operations on closed meshes.
type BoolEngine struct {
	Config *Config
	Log    logrus.FieldLogger
}

// NewBoolEngine creates an engine. If c is nil, DefaultConfig() is used,
// and if log is nil, logrus.StandardLogger() is used.
func NewBoolEngine(c *Config, log logrus.FieldLogger) *BoolEngine {
	if c == nil {
		c = DefaultConfig()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BoolEngine{Config: c, Log: log}
}

// Perform computes lhs op rhs.
//
// Polygons of each mesh which cross the other mesh are split by the planes
// of the polygons they cross. Every fragment is then classified as inside,
// outside, or on the surface of the other mesh, and the fragments selected
// by op are assembled into the result:
//
//   - Union keeps lhs outside rhs, rhs outside lhs, and surfaces shared
//     with the same orientation.
//   - Intersection keeps lhs inside rhs, rhs inside lhs, and surfaces
//     shared with the same orientation.
//   - Difference keeps lhs outside rhs, rhs inside lhs with reversed
//     winding, and surfaces shared with opposite orientations.
//
// Both meshes should be closed with outward-facing winding. Any malformed
// face aborts the operation.
func (b *BoolEngine) Perform(lhs, rhs *Mesh, op BoolOp) (*Mesh, error) {
	if err := b.Config.Validate(); err != nil {
		return nil, errors.Wrap(err, "perform bool")
	}
	in := b.Config.ScaledIntersector(lhs.Bounds().Merge(rhs.Bounds()))
	polysA, err := b.triangles(in, lhs)
	if err != nil {
		return nil, errors.Wrap(err, "perform bool: lhs")
	}
	polysB, err := b.triangles(in, rhs)
	if err != nil {
		return nil, errors.Wrap(err, "perform bool: rhs")
	}
	log := b.Log.WithFields(logrus.Fields{
		"op":    op.String(),
		"lhs":   len(polysA),
		"rhs":   len(polysB),
		"depth": b.Config.OctreeMaxDepth,
		"scale": in.Scale,
	})

	if len(polysA) == 0 || len(polysB) == 0 {
		log.Debug("empty operand")
		return b.emptyOperand(lhs, polysA, polysB, op), nil
	}

	treeA, err := NewOctree(polysA, b.Config.OctreeMaxDepth, b.Config.OctreeMaxPolygons)
	if err != nil {
		return nil, errors.Wrap(err, "perform bool: lhs")
	}
	treeB, err := NewOctree(polysB, b.Config.OctreeMaxDepth, b.Config.OctreeMaxPolygons)
	if err != nil {
		return nil, errors.Wrap(err, "perform bool: rhs")
	}

	pairs, err := b.crossingPairs(in, polysA, polysB, treeA, treeB)
	if err != nil {
		return nil, errors.Wrap(err, "perform bool")
	}
	log.WithField("pairs", len(pairs)).Debug("found crossing polygons")

	partnersA := map[int][]int{}
	partnersB := map[int][]int{}
	for _, p := range pairs {
		partnersA[p[0]] = append(partnersA[p[0]], p[1])
		partnersB[p[1]] = append(partnersB[p[1]], p[0])
	}
	fragsA := b.splitFragments(in, polysA, polysB, partnersA)
	fragsB := b.splitFragments(in, polysB, polysA, partnersB)
	log.WithFields(logrus.Fields{
		"lhsFragments": len(fragsA),
		"rhsFragments": len(fragsB),
	}).Debug("split crossing polygons")

	classA := b.classify(fragsA, newSurfaceIndex(polysB, treeB, in), 0)
	classB := b.classify(fragsB, newSurfaceIndex(polysA, treeA, in), len(fragsA))

	var result []Polygon
	for i, f := range fragsA {
		if keepLHS(op, classA[i]) {
			result = append(result, f)
		}
	}
	for i, f := range fragsB {
		keep, flip := keepRHS(op, classB[i])
		if !keep {
			continue
		}
		if flip {
			f = f.Flip()
		}
		result = append(result, f)
	}
	log.WithField("polygons", len(result)).Debug("assembled result")

	return NewMeshPolygons(result, lhs.Attributes), nil
}

func (b *BoolEngine) triangles(in *Intersector, m *Mesh) ([]Polygon, error) {
	polys, err := m.TrianglePolygons()
	if err != nil {
		return nil, err
	}
	res := make([]Polygon, 0, len(polys))
	for _, p := range polys {
		if !in.Colinear3D(p[0], p[1], p[2]) {
			res = append(res, p)
		}
	}
	return res, nil
}

func (b *BoolEngine) emptyOperand(lhs *Mesh, polysA, polysB []Polygon, op BoolOp) *Mesh {
	var result []Polygon
	switch op {
	case BoolUnion:
		result = append(append(result, polysA...), polysB...)
	case BoolDifference:
		result = polysA
	}
	return NewMeshPolygons(result, lhs.Attributes)
}

// crossingPairs finds every (lhs, rhs) index pair of triangles which
// intersect or overlap, sorted by lhs index and then rhs index.
func (b *BoolEngine) crossingPairs(in *Intersector, polysA, polysB []Polygon, treeA,
	treeB *Octree) ([][2]int, error) {
	seen := map[[2]int]bool{}
	var candidates [][2]int
	leavesB := treeB.Leaves()
	for _, leafA := range treeA.Leaves() {
		for _, leafB := range leavesB {
			if !leafA.Bounds.Intersects(leafB.Bounds) {
				continue
			}
			for _, i := range leafA.Indices {
				for _, j := range leafB.Indices {
					key := [2]int{i, j}
					if !seen[key] {
						seen[key] = true
						candidates = append(candidates, key)
					}
				}
			}
		}
	}
	slices.SortFunc(candidates, func(x, y [2]int) bool {
		return x[0] < y[0] || (x[0] == y[0] && x[1] < y[1])
	})

	results := make([]Intersection, len(candidates))
	errs := make([]error, len(candidates))
	essentials.ConcurrentMap(b.concurrency(), len(candidates), func(k int) {
		pair := candidates[k]
		t1, err := polysA[pair[0]].Triangle()
		if err != nil {
			errs[k] = err
			return
		}
		t2, err := polysB[pair[1]].Triangle()
		if err != nil {
			errs[k] = err
			return
		}
		results[k], errs[k] = in.TriangleIntersectsTriangle(t1, t2)
	})

	var res [][2]int
	for k, pair := range candidates {
		if errs[k] != nil {
			return nil, errors.Wrapf(errs[k], "test lhs %d against rhs %d", pair[0], pair[1])
		}
		if results[k].Crosses() {
			res = append(res, pair)
		}
	}
	return res, nil
}

// splitFragments cuts each polygon by the planes of the polygons it
// crosses, dropping slivers with no area.
func (b *BoolEngine) splitFragments(in *Intersector, polys, others []Polygon,
	partners map[int][]int) []Polygon {
	eps := in.tolerance(tolLength)
	minArea := in.tolerance(tolArea)
	var res []Polygon
	for i, p := range polys {
		frags := []Polygon{p}
		for _, j := range partners[i] {
			plane, ok := NewPlanePolygon(others[j])
			if !ok {
				continue
			}
			front, back, coplanar := plane.SplitPolygons(frags, eps)
			frags = append(append(front, back...), coplanar...)
		}
		for _, f := range frags {
			if f.Area() > minArea {
				res = append(res, f)
			}
		}
	}
	return res
}

func (b *BoolEngine) classify(frags []Polygon, surface *surfaceIndex,
	seedOffset int) []fragmentClass {
	res := make([]fragmentClass, len(frags))
	essentials.ConcurrentMap(b.concurrency(), len(frags), func(i int) {
		f := frags[i]
		c := f.Centroid()
		switch surface.OnSurface(c, f.Normal().Normalize()) {
		case 1:
			res[i] = classOnSame
			return
		case -1:
			res[i] = classOnOpposite
			return
		}
		r := rand.New(rand.NewSource(b.Config.Seed + int64(seedOffset+i)))
		if surface.Winding(c, r) > 0 {
			res[i] = classInside
		} else {
			res[i] = classOutside
		}
	})
	return res
}

func (b *BoolEngine) concurrency() int {
	if b.Config.Concurrency == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return b.Config.Concurrency
}

func keepLHS(op BoolOp, class fragmentClass) bool {
	switch op {
	case BoolUnion:
		return class == classOutside || class == classOnSame
	case BoolIntersection:
		return class == classInside || class == classOnSame
	case BoolDifference:
		return class == classOutside || class == classOnOpposite
	}
	return false
}

// keepRHS decides if an rhs fragment is kept, and whether its winding is
// reversed. Shared surfaces are only taken from lhs.
func keepRHS(op BoolOp, class fragmentClass) (keep, flip bool) {
	switch op {
	case BoolUnion:
		return class == classOutside, false
	case BoolIntersection:
		return class == classInside, false
	case BoolDifference:
		return class == classInside, true
	}
	return false, false
}

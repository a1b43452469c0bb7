package meshtree

import (
	"runtime"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"golang.org/x/exp/slices"
)

// HasSelfIntersections tests every pair of distinct faces, after splitting
// quads, for an Intersect or Overlap classification.
//
// This is quadratic in the number of faces. SelfIntersections finds the
// same pairs using an octree.
func (m *Mesh) HasSelfIntersections() (bool, error) {
	polys, faceIDs, err := m.selfIntersectionTriangles()
	if err != nil {
		return false, errors.Wrap(err, "check self-intersections")
	}
	in := DefaultConfig().ScaledIntersector(m.Bounds())
	for i := range polys {
		for j := i + 1; j < len(polys); j++ {
			if faceIDs[i] == faceIDs[j] {
				continue
			}
			res, err := triangleClassification(in, polys[i], polys[j])
			if err != nil {
				return false, errors.Wrap(err, "check self-intersections")
			}
			if res.Crosses() {
				return true, nil
			}
		}
	}
	return false, nil
}

// SelfIntersections lists the sorted pairs of face indices (i < j) whose
// triangles intersect or overlap, using an octree to find candidates and
// up to concurrency Goroutines for the pair tests.
//
// If concurrency is 0, GOMAXPROCS is used.
func (m *Mesh) SelfIntersections(c *Config, concurrency int) ([][2]int, error) {
	if c == nil {
		c = DefaultConfig()
	}
	if concurrency == 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	polys, faceIDs, err := m.selfIntersectionTriangles()
	if err != nil {
		return nil, errors.Wrap(err, "find self-intersections")
	}
	if len(polys) == 0 {
		return nil, nil
	}
	tree, err := NewOctree(polys, c.OctreeMaxDepth, c.OctreeMaxPolygons)
	if err != nil {
		return nil, errors.Wrap(err, "find self-intersections")
	}

	seen := map[[2]int]bool{}
	var candidates [][2]int
	for _, leaf := range tree.Leaves() {
		for a, i := range leaf.Indices {
			for _, j := range leaf.Indices[a+1:] {
				key := [2]int{essentials.MinInt(i, j), essentials.MaxInt(i, j)}
				if faceIDs[key[0]] != faceIDs[key[1]] && !seen[key] {
					seen[key] = true
					candidates = append(candidates, key)
				}
			}
		}
	}

	in := c.ScaledIntersector(m.Bounds())
	results := make([]Intersection, len(candidates))
	errs := make([]error, len(candidates))
	essentials.ConcurrentMap(concurrency, len(candidates), func(k int) {
		pair := candidates[k]
		results[k], errs[k] = triangleClassification(in, polys[pair[0]], polys[pair[1]])
	})

	faceSeen := map[[2]int]bool{}
	var res [][2]int
	for k, pair := range candidates {
		if errs[k] != nil {
			return nil, errors.Wrap(errs[k], "find self-intersections")
		}
		if !results[k].Crosses() {
			continue
		}
		f1, f2 := faceIDs[pair[0]], faceIDs[pair[1]]
		key := [2]int{essentials.MinInt(f1, f2), essentials.MaxInt(f1, f2)}
		if !faceSeen[key] {
			faceSeen[key] = true
			res = append(res, key)
		}
	}
	slices.SortFunc(res, func(x, y [2]int) bool {
		return x[0] < y[0] || (x[0] == y[0] && x[1] < y[1])
	})
	return res, nil
}

// selfIntersectionTriangles splits every face into triangles, recording
// which face each triangle came from.
func (m *Mesh) selfIntersectionTriangles() ([]Polygon, []int, error) {
	var polys []Polygon
	var faceIDs []int
	for i, f := range m.Faces {
		for _, t := range f.Triangles() {
			p, err := m.facePolygon(t)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "face %d", i)
			}
			polys = append(polys, p)
			faceIDs = append(faceIDs, i)
		}
	}
	return polys, faceIDs, nil
}

func triangleClassification(in *Intersector, p1, p2 Polygon) (Intersection, error) {
	t1, err := p1.Triangle()
	if err != nil {
		return 0, err
	}
	t2, err := p2.Triangle()
	if err != nil {
		return 0, err
	}
	return in.TriangleIntersectsTriangle(t1, t2)
}

package meshtree

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// An SSKDTree is a k-d tree tuned for surface polygons.
//
// Every node carries the bounding box of its polygons. Branches split at
// the median of the centroid values along Axis, sending polygons whose
// centroid is <= Split to Left and the others to Right, so splits may be
// unbalanced when many centroids share a value.
type SSKDTree struct {
	Bounds BoundingBox
	Depth  int

	Axis  int
	Split float64
	Left  *SSKDTree
	Right *SSKDTree

	// Polygons is only set for leaves.
	Polygons []Polygon
}

// NewSSKDTree builds a tree over polys.
//
// A node becomes a leaf if it has fewer than minPolys polygons, if its
// depth reaches maxDepth, or if the median split leaves one side empty.
func NewSSKDTree(polys []Polygon, maxDepth, minPolys int) (*SSKDTree, error) {
	if len(polys) == 0 {
		return nil, errors.Wrap(ErrEmptyTree, "build surface k-d tree")
	}
	return buildSSKDTree(polys, 0, maxDepth, minPolys), nil
}

func buildSSKDTree(polys []Polygon, depth, maxDepth, minPolys int) *SSKDTree {
	axis := depth % 3
	res := &SSKDTree{
		Bounds: PolygonsBounds(polys),
		Depth:  depth,
		Axis:   axis,
	}
	if len(polys) < minPolys || depth >= maxDepth {
		res.Polygons = polys
		return res
	}

	values := make([]float64, len(polys))
	for i, p := range polys {
		values[i] = axisValue(p.Centroid(), axis)
	}
	split := median(values)

	var left, right []Polygon
	for i, p := range polys {
		if values[i] <= split {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		res.Polygons = polys
		return res
	}
	res.Split = split
	res.Left = buildSSKDTree(left, depth+1, maxDepth, minPolys)
	res.Right = buildSSKDTree(right, depth+1, maxDepth, minPolys)
	return res
}

// SSKDTree builds a surface k-d tree over the mesh's faces.
//
// If maxDepth is 0, DefaultSSKDMaxDepth is used.
func (m *Mesh) SSKDTree(maxDepth int) (*SSKDTree, error) {
	if maxDepth == 0 {
		maxDepth = DefaultSSKDMaxDepth
	}
	polys, err := m.Polygons()
	if err != nil {
		return nil, errors.Wrap(err, "build surface k-d tree")
	}
	return NewSSKDTree(polys, maxDepth, DefaultSSKDMinPolygons)
}

// IsLeaf checks if the node has no children.
func (s *SSKDTree) IsLeaf() bool {
	return s.Left == nil
}

// Leaves lists the leaves from left to right.
func (s *SSKDTree) Leaves() []*SSKDTree {
	var res []*SSKDTree
	stack := []*SSKDTree{s}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.IsLeaf() {
			res = append(res, node)
		} else {
			stack = append(stack, node.Right, node.Left)
		}
	}
	return res
}

// MaxDepth computes the depth of the deepest leaf.
func (s *SSKDTree) MaxDepth() int {
	var res int
	for _, leaf := range s.Leaves() {
		if leaf.Depth > res {
			res = leaf.Depth
		}
	}
	return res
}

// A SSKDNeighbor is a polygon vertex found by a neighbor query.
type SSKDNeighbor struct {
	Point   model3d.Coord3D
	Polygon Polygon
	Dist    float64
}

// NearestNeighbors finds every polygon vertex within maxDist of c, sorted
// by ascending distance.
//
// Vertices shared by several polygons are reported once per polygon. If
// maxDist is negative or infinite, every vertex is returned.
func (s *SSKDTree) NearestNeighbors(c model3d.Coord3D, maxDist float64) []SSKDNeighbor {
	if maxDist < 0 {
		maxDist = math.Inf(1)
	}
	var res []SSKDNeighbor
	for _, leaf := range s.Leaves() {
		if leaf.Bounds.Dist(c) > maxDist {
			continue
		}
		for _, p := range leaf.Polygons {
			for _, v := range p {
				if d := v.Dist(c); d <= maxDist {
					res = append(res, SSKDNeighbor{Point: v, Polygon: p, Dist: d})
				}
			}
		}
	}
	slices.SortStableFunc(res, func(x, y SSKDNeighbor) bool {
		return x.Dist < y.Dist
	})
	return res
}

func median[F constraints.Float](values []F) F {
	sorted := append([]F{}, values...)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

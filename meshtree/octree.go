package meshtree

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// An Octree recursively splits the bounding box of a polygon set into eight
// equal octants.
//
// A polygon is stored in every octant its bounding box touches, so polygons
// near a split may appear in more than one leaf. Indices records the
// position of each leaf polygon in the list the tree was built from.
type Octree struct {
	Bounds BoundingBox
	Depth  int

	// Children is nil for leaves. An entry is nil if no polygon touched
	// the corresponding octant.
	Children *[8]*Octree

	Polygons []Polygon
	Indices  []int
}

// NewOctree builds an octree over polys.
//
// A node becomes a leaf once its depth reaches maxDepth or it holds at most
// maxPolys polygons. A node also becomes a leaf if splitting it would put
// every polygon into every octant, since further splits could not make
// progress.
func NewOctree(polys []Polygon, maxDepth, maxPolys int) (*Octree, error) {
	if len(polys) == 0 {
		return nil, errors.Wrap(ErrEmptyTree, "build octree")
	}
	indices := make([]int, len(polys))
	for i := range indices {
		indices[i] = i
	}
	return buildOctree(PolygonsBounds(polys), polys, indices, 0, maxDepth, maxPolys), nil
}

func buildOctree(bounds BoundingBox, polys []Polygon, indices []int, depth, maxDepth,
	maxPolys int) *Octree {
	res := &Octree{Bounds: bounds, Depth: depth}
	if depth >= maxDepth || len(polys) <= maxPolys {
		res.Polygons = polys
		res.Indices = indices
		return res
	}

	polyBounds := make([]BoundingBox, len(polys))
	for i, p := range polys {
		polyBounds[i] = p.Bounds()
	}

	var childPolys [8][]Polygon
	var childIndices [8][]int
	stuck := true
	for i, octant := range bounds.Octants() {
		for j, b := range polyBounds {
			if octant.Intersects(b) {
				childPolys[i] = append(childPolys[i], polys[j])
				childIndices[i] = append(childIndices[i], indices[j])
			}
		}
		if len(childPolys[i]) < len(polys) {
			stuck = false
		}
	}
	if stuck {
		res.Polygons = polys
		res.Indices = indices
		return res
	}

	res.Children = &[8]*Octree{}
	for i, octant := range bounds.Octants() {
		if len(childPolys[i]) > 0 {
			res.Children[i] = buildOctree(octant, childPolys[i], childIndices[i], depth+1,
				maxDepth, maxPolys)
		}
	}
	return res
}

// Octree builds an octree over the mesh's faces.
//
// If maxDepth is 0, DefaultOctreeMaxDepth is used.
func (m *Mesh) Octree(maxDepth int) (*Octree, error) {
	if maxDepth == 0 {
		maxDepth = DefaultOctreeMaxDepth
	}
	polys, err := m.Polygons()
	if err != nil {
		return nil, errors.Wrap(err, "build octree")
	}
	return NewOctree(polys, maxDepth, DefaultOctreeMaxPolygons)
}

// IsLeaf checks if the node stores polygons rather than children.
func (o *Octree) IsLeaf() bool {
	return o.Children == nil
}

// Leaves lists the leaves in depth-first order.
func (o *Octree) Leaves() []*Octree {
	var res []*Octree
	stack := []*Octree{o}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.IsLeaf() {
			res = append(res, node)
			continue
		}
		for i := 7; i >= 0; i-- {
			if child := node.Children[i]; child != nil {
				stack = append(stack, child)
			}
		}
	}
	return res
}

// FindPolygons collects the polygons of every leaf whose box intersects b.
//
// Polygons stored in several matching leaves are returned once per leaf.
func (o *Octree) FindPolygons(b BoundingBox) []Polygon {
	var res []Polygon
	o.findLeaves(b, func(leaf *Octree) {
		res = append(res, leaf.Polygons...)
	})
	return res
}

// FindIndices is like FindPolygons, but returns the sorted, unique source
// indices of the matching polygons.
func (o *Octree) FindIndices(b BoundingBox) []int {
	seen := map[int]bool{}
	var res []int
	o.findLeaves(b, func(leaf *Octree) {
		for _, idx := range leaf.Indices {
			if !seen[idx] {
				seen[idx] = true
				res = append(res, idx)
			}
		}
	})
	slices.Sort(res)
	return res
}

func (o *Octree) findLeaves(b BoundingBox, f func(leaf *Octree)) {
	stack := []*Octree{o}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !node.Bounds.Intersects(b) {
			continue
		}
		if node.IsLeaf() {
			f(node)
			continue
		}
		for _, child := range node.Children {
			if child != nil {
				stack = append(stack, child)
			}
		}
	}
}

// MaxDepth computes the depth of the deepest leaf.
func (o *Octree) MaxDepth() int {
	var res int
	for _, leaf := range o.Leaves() {
		if leaf.Depth > res {
			res = leaf.Depth
		}
	}
	return res
}

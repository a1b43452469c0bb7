package meshtree

import (
	"math/rand"

	"github.com/pkg/errors"
)

// A BSPTree partitions polygons with planes taken from the polygons
// themselves.
//
// Each node stores the polygons lying in its plane. Polygons crossing the
// plane are split, and the fragments go to the Front or Back subtree. Front
// and Back are nil when no polygon lies on that side.
//
// If a node was created by the depth limit, or if none of its polygons
// defines a plane, Polygons holds everything that reached it and Plane is
// the zero value.
type BSPTree struct {
	Plane    Plane
	Polygons []Polygon
	Front    *BSPTree
	Back     *BSPTree
}

// NewBSPTree builds a BSP tree over polys.
//
// The splitting plane of each node comes from a polygon chosen uniformly at
// random with r, so the same seed always produces the same tree. Vertices
// within eps of a plane are treated as lying on it. Nodes at maxDepth
// become leaves.
func NewBSPTree(polys []Polygon, maxDepth int, eps float64, r *rand.Rand) (*BSPTree, error) {
	if len(polys) == 0 {
		return nil, errors.Wrap(ErrEmptyTree, "build BSP tree")
	}
	return buildBSPTree(polys, 0, maxDepth, eps, r), nil
}

func buildBSPTree(polys []Polygon, depth, maxDepth int, eps float64, r *rand.Rand) *BSPTree {
	if depth >= maxDepth {
		return &BSPTree{Polygons: polys}
	}
	plane, ok := samplePlane(polys, r)
	if !ok {
		return &BSPTree{Polygons: polys}
	}
	front, back, coplanar := plane.SplitPolygons(polys, eps)
	res := &BSPTree{Plane: plane, Polygons: coplanar}
	if len(front) > 0 {
		res.Front = buildBSPTree(front, depth+1, maxDepth, eps, r)
	}
	if len(back) > 0 {
		res.Back = buildBSPTree(back, depth+1, maxDepth, eps, r)
	}
	return res
}

// samplePlane picks the plane of a random non-degenerate polygon.
func samplePlane(polys []Polygon, r *rand.Rand) (Plane, bool) {
	candidates := make([]Plane, 0, len(polys))
	for _, p := range polys {
		if plane, ok := NewPlanePolygon(p); ok {
			candidates = append(candidates, plane)
		}
	}
	if len(candidates) == 0 {
		return Plane{}, false
	}
	return candidates[r.Intn(len(candidates))], true
}

// BSPTree builds a BSP tree over the mesh's faces, seeding plane selection
// with DefaultConfig().Seed.
//
// If maxDepth is 0, DefaultBSPMaxDepth is used.
func (m *Mesh) BSPTree(maxDepth int) (*BSPTree, error) {
	if maxDepth == 0 {
		maxDepth = DefaultBSPMaxDepth
	}
	polys, err := m.Polygons()
	if err != nil {
		return nil, errors.Wrap(err, "build BSP tree")
	}
	c := DefaultConfig()
	eps := c.ScaledIntersector(m.Bounds()).tolerance(tolLength)
	return NewBSPTree(polys, maxDepth, eps, c.Rand())
}

// IsLeaf checks if the node has no children.
func (b *BSPTree) IsLeaf() bool {
	return b.Front == nil && b.Back == nil
}

// PreOrder lists every node before its Back and Front subtrees.
func (b *BSPTree) PreOrder() []*BSPTree {
	var res []*BSPTree
	stack := []*BSPTree{b}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res = append(res, node)
		if node.Front != nil {
			stack = append(stack, node.Front)
		}
		if node.Back != nil {
			stack = append(stack, node.Back)
		}
	}
	return res
}

// InOrder lists the Back subtree of every node, then the node, then its
// Front subtree.
func (b *BSPTree) InOrder() []*BSPTree {
	type entry struct {
		node    *BSPTree
		visited bool
	}
	var res []*BSPTree
	stack := []entry{{node: b}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.visited {
			res = append(res, e.node)
			continue
		}
		if e.node.Front != nil {
			stack = append(stack, entry{node: e.node.Front})
		}
		stack = append(stack, entry{node: e.node, visited: true})
		if e.node.Back != nil {
			stack = append(stack, entry{node: e.node.Back})
		}
	}
	return res
}

// PostOrder lists every node after its Back and Front subtrees.
func (b *BSPTree) PostOrder() []*BSPTree {
	var res []*BSPTree
	stack := []*BSPTree{b}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res = append(res, node)
		if node.Back != nil {
			stack = append(stack, node.Back)
		}
		if node.Front != nil {
			stack = append(stack, node.Front)
		}
	}
	for i := 0; i < len(res)/2; i++ {
		res[i], res[len(res)-1-i] = res[len(res)-1-i], res[i]
	}
	return res
}

// AllPolygons lists the polygons of every node in pre-order.
func (b *BSPTree) AllPolygons() []Polygon {
	var res []Polygon
	for _, node := range b.PreOrder() {
		res = append(res, node.Polygons...)
	}
	return res
}

// MaxDepth computes the number of edges on the longest root-to-leaf path.
func (b *BSPTree) MaxDepth() int {
	type entry struct {
		node  *BSPTree
		depth int
	}
	var res int
	stack := []entry{{node: b}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.depth > res {
			res = e.depth
		}
		for _, child := range []*BSPTree{e.node.Back, e.node.Front} {
			if child != nil {
				stack = append(stack, entry{node: child, depth: e.depth + 1})
			}
		}
	}
	return res
}

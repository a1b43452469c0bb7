package meshtree

import (
	"container/heap"
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/slices"
)

// A KDTree is a binary tree over polygon centroids.
//
// Each branch splits its polygons at the median centroid along Axis, which
// cycles through X, Y, Z with depth. The median polygon is stored in the
// branch itself, polygons sorted before it go Left and the rest go Right.
type KDTree struct {
	Axis  int
	Depth int

	// Polygon is the median polygon of a branch and Point is its centroid.
	// Polygon is nil for leaves.
	Polygon Polygon
	Point   model3d.Coord3D
	Left    *KDTree
	Right   *KDTree

	// Polygons holds the remaining polygons of a leaf created by the depth
	// limit.
	Polygons []Polygon
}

// NewKDTree builds a k-d tree over polys. Nodes at maxDepth become leaves.
func NewKDTree(polys []Polygon, maxDepth int) (*KDTree, error) {
	if len(polys) == 0 {
		return nil, errors.Wrap(ErrEmptyTree, "build k-d tree")
	}
	nodes := make([]kdEntry, len(polys))
	for i, p := range polys {
		nodes[i] = kdEntry{Polygon: p, Centroid: p.Centroid()}
	}
	return buildKDTree(nodes, 0, maxDepth), nil
}

type kdEntry struct {
	Polygon  Polygon
	Centroid model3d.Coord3D
}

func buildKDTree(entries []kdEntry, depth, maxDepth int) *KDTree {
	if len(entries) == 0 {
		return nil
	}
	axis := depth % 3
	res := &KDTree{Axis: axis, Depth: depth}
	if depth >= maxDepth {
		res.Polygons = make([]Polygon, len(entries))
		for i, e := range entries {
			res.Polygons[i] = e.Polygon
		}
		return res
	}
	sorted := append([]kdEntry{}, entries...)
	slices.SortStableFunc(sorted, func(x, y kdEntry) bool {
		return axisValue(x.Centroid, axis) < axisValue(y.Centroid, axis)
	})
	mid := len(sorted) / 2
	res.Polygon = sorted[mid].Polygon
	res.Point = sorted[mid].Centroid
	res.Left = buildKDTree(sorted[:mid], depth+1, maxDepth)
	res.Right = buildKDTree(sorted[mid+1:], depth+1, maxDepth)
	return res
}

// KDTree builds a k-d tree over the mesh's faces.
//
// If maxDepth is 0, DefaultKDMaxDepth is used.
func (m *Mesh) KDTree(maxDepth int) (*KDTree, error) {
	if maxDepth == 0 {
		maxDepth = DefaultKDMaxDepth
	}
	polys, err := m.Polygons()
	if err != nil {
		return nil, errors.Wrap(err, "build k-d tree")
	}
	return NewKDTree(polys, maxDepth)
}

// IsLeaf checks if the node is a depth-limited leaf.
func (k *KDTree) IsLeaf() bool {
	return k.Polygon == nil
}

// AllPolygons lists every polygon in the tree in pre-order.
func (k *KDTree) AllPolygons() []Polygon {
	var res []Polygon
	stack := []*KDTree{k}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.IsLeaf() {
			res = append(res, node.Polygons...)
			continue
		}
		res = append(res, node.Polygon)
		if node.Right != nil {
			stack = append(stack, node.Right)
		}
		if node.Left != nil {
			stack = append(stack, node.Left)
		}
	}
	return res
}

// MaxDepth computes the depth of the deepest node.
func (k *KDTree) MaxDepth() int {
	var res int
	stack := []*KDTree{k}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.Depth > res {
			res = node.Depth
		}
		for _, child := range []*KDTree{node.Left, node.Right} {
			if child != nil {
				stack = append(stack, child)
			}
		}
	}
	return res
}

// A KDNeighbor is a result of a nearest neighbor query.
type KDNeighbor struct {
	Polygon  Polygon
	Centroid model3d.Coord3D
	Dist     float64
}

// Nearest finds the polygon whose centroid is closest to c.
func (k *KDTree) Nearest(c model3d.Coord3D) KDNeighbor {
	return k.KNearest(c, 1)[0]
}

// KNearest finds the n polygons whose centroids are closest to c, sorted
// by ascending distance.
//
// Fewer than n results are returned if the tree is smaller than n.
func (k *KDTree) KNearest(c model3d.Coord3D, n int) []KDNeighbor {
	if n <= 0 {
		return nil
	}
	h := &kdNeighborHeap{}
	k.kNearest(c, n, h)
	res := make([]KDNeighbor, h.Len())
	for i := len(res) - 1; i >= 0; i-- {
		res[i] = heap.Pop(h).(KDNeighbor)
	}
	return res
}

func (k *KDTree) kNearest(c model3d.Coord3D, n int, h *kdNeighborHeap) {
	if k == nil {
		return
	}
	if k.IsLeaf() {
		for _, p := range k.Polygons {
			h.Add(KDNeighbor{Polygon: p, Centroid: p.Centroid()}, c, n)
		}
		return
	}
	h.Add(KDNeighbor{Polygon: k.Polygon, Centroid: k.Point}, c, n)

	diff := axisValue(c, k.Axis) - axisValue(k.Point, k.Axis)
	near, far := k.Left, k.Right
	if diff > 0 {
		near, far = far, near
	}
	near.kNearest(c, n, h)
	if h.Len() < n || math.Abs(diff) <= (*h)[0].Dist {
		far.kNearest(c, n, h)
	}
}

// kdNeighborHeap is a max-heap on distance.
type kdNeighborHeap []KDNeighbor

func (k kdNeighborHeap) Len() int {
	return len(k)
}

func (k kdNeighborHeap) Less(i, j int) bool {
	return k[i].Dist > k[j].Dist
}

func (k kdNeighborHeap) Swap(i, j int) {
	k[i], k[j] = k[j], k[i]
}

func (k *kdNeighborHeap) Push(x any) {
	*k = append(*k, x.(KDNeighbor))
}

func (k *kdNeighborHeap) Pop() any {
	old := *k
	x := old[len(old)-1]
	*k = old[:len(old)-1]
	return x
}

// Add inserts a candidate, dropping the furthest entry if the heap holds
// more than n entries.
func (k *kdNeighborHeap) Add(neighbor KDNeighbor, c model3d.Coord3D, n int) {
	neighbor.Dist = neighbor.Centroid.Dist(c)
	if k.Len() < n {
		heap.Push(k, neighbor)
	} else if neighbor.Dist < (*k)[0].Dist {
		(*k)[0] = neighbor
		heap.Fix(k, 0)
	}
}

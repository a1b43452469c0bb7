package meshtree

// A UnionFind partitions the integers [0, n) into disjoint sets.
//
// It is not safe to call Union concurrently.
type UnionFind struct {
	parent []int
	rank   []int
}

// NewUnionFind creates n singleton sets.
func NewUnionFind(n int) *UnionFind {
	res := &UnionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range res.parent {
		res.parent[i] = i
	}
	return res
}

// Len returns the number of elements.
func (u *UnionFind) Len() int {
	return len(u.parent)
}

// Find returns the representative of x's set, compressing the path to it.
func (u *UnionFind) Find(x int) int {
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		u.parent[x], x = root, u.parent[x]
	}
	return root
}

// Union merges the sets containing x and y, returning false if they were
// already the same set.
func (u *UnionFind) Union(x, y int) bool {
	rx, ry := u.Find(x), u.Find(y)
	if rx == ry {
		return false
	}
	if u.rank[rx] < u.rank[ry] {
		rx, ry = ry, rx
	}
	u.parent[ry] = rx
	if u.rank[rx] == u.rank[ry] {
		u.rank[rx]++
	}
	return true
}

// Labels assigns each element the index of its set, numbering sets in
// order of their smallest element.
func (u *UnionFind) Labels() (labels []int, count int) {
	labels = make([]int, len(u.parent))
	rootLabels := map[int]int{}
	for i := range labels {
		root := u.Find(i)
		label, ok := rootLabels[root]
		if !ok {
			label = count
			rootLabels[root] = label
			count++
		}
		labels[i] = label
	}
	return
}

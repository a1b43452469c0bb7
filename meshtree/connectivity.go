package meshtree

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// edgeCounts counts how many faces use each edge.
func (m *Mesh) edgeCounts() (map[Edge]int, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	res := map[Edge]int{}
	for _, f := range m.Faces {
		for _, e := range f.Edges() {
			res[e]++
		}
	}
	return res, nil
}

// IsManifold checks that every edge is shared by exactly two faces.
//
// A mesh without faces is not manifold.
func (m *Mesh) IsManifold() (bool, error) {
	counts, err := m.edgeCounts()
	if err != nil {
		return false, errors.Wrap(err, "check manifold")
	}
	if len(counts) == 0 {
		return false, nil
	}
	for _, count := range counts {
		if count != 2 {
			return false, nil
		}
	}
	return true, nil
}

// BoundaryEdges lists the edges used by exactly one face, sorted.
func (m *Mesh) BoundaryEdges() ([]Edge, error) {
	counts, err := m.edgeCounts()
	if err != nil {
		return nil, errors.Wrap(err, "boundary edges")
	}
	var res []Edge
	for e, count := range counts {
		if count == 1 {
			res = append(res, e)
		}
	}
	sortEdges(res)
	return res, nil
}

// BoundaryLoops chains boundary edges into loops.
//
// Each loop starts at the smallest unvisited boundary edge and repeatedly
// follows an unvisited boundary edge sharing a vertex with the last one,
// until none is left. If the boundary is not a set of simple cycles, the
// result may contain open chains.
func (m *Mesh) BoundaryLoops() ([][]Edge, error) {
	edges, err := m.BoundaryEdges()
	if err != nil {
		return nil, errors.Wrap(err, "boundary loops")
	}
	vertexEdges := map[int][]int{}
	for i, e := range edges {
		vertexEdges[e[0]] = append(vertexEdges[e[0]], i)
		vertexEdges[e[1]] = append(vertexEdges[e[1]], i)
	}

	visited := make([]bool, len(edges))
	var loops [][]Edge
	for start := range edges {
		if visited[start] {
			continue
		}
		visited[start] = true
		loop := []Edge{edges[start]}
		tip := edges[start][1]
		for {
			next := -1
			for _, idx := range vertexEdges[tip] {
				if !visited[idx] {
					next = idx
					break
				}
			}
			if next == -1 {
				break
			}
			visited[next] = true
			loop = append(loop, edges[next])
			tip = edges[next].Other(tip)
		}
		loops = append(loops, loop)
	}
	return loops, nil
}

// IsolatedVertices lists the vertices which no face or edge references.
func (m *Mesh) IsolatedVertices() ([]int, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "isolated vertices")
	}
	used := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		for _, idx := range f.indices[:f.Len()] {
			used[idx] = true
		}
	}
	for _, e := range m.Edges {
		used[e[0]] = true
		used[e[1]] = true
	}
	var res []int
	for i, u := range used {
		if !u {
			res = append(res, i)
		}
	}
	return res, nil
}

// IsWatertight checks that the mesh is manifold, with no boundary loops
// and no isolated vertices.
func (m *Mesh) IsWatertight() (bool, error) {
	manifold, err := m.IsManifold()
	if err != nil || !manifold {
		return false, errors.Wrap(err, "check watertight")
	}
	loops, err := m.BoundaryLoops()
	if err != nil || len(loops) > 0 {
		return false, errors.Wrap(err, "check watertight")
	}
	isolated, err := m.IsolatedVertices()
	if err != nil {
		return false, errors.Wrap(err, "check watertight")
	}
	return len(isolated) == 0, nil
}

// IsVolume checks that the mesh is watertight and does not intersect
// itself.
func (m *Mesh) IsVolume() (bool, error) {
	watertight, err := m.IsWatertight()
	if err != nil || !watertight {
		return false, errors.Wrap(err, "check volume")
	}
	selfIntersects, err := m.HasSelfIntersections()
	if err != nil {
		return false, errors.Wrap(err, "check volume")
	}
	return !selfIntersects, nil
}

// vertexNeighbors maps each vertex to its sorted neighbors along face
// edges.
func (m *Mesh) vertexNeighbors() map[int][]int {
	sets := map[int]map[int]bool{}
	for _, f := range m.Faces {
		for _, e := range f.Edges() {
			for _, pair := range [2][2]int{{e[0], e[1]}, {e[1], e[0]}} {
				if sets[pair[0]] == nil {
					sets[pair[0]] = map[int]bool{}
				}
				sets[pair[0]][pair[1]] = true
			}
		}
	}
	res := make(map[int][]int, len(sets))
	for v, set := range sets {
		neighbors := maps.Keys(set)
		slices.Sort(neighbors)
		res[v] = neighbors
	}
	return res
}

func sortEdges(edges []Edge) {
	slices.SortFunc(edges, func(x, y Edge) bool {
		return x[0] < y[0] || (x[0] == y[0] && x[1] < y[1])
	})
}

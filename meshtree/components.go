package meshtree

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ComponentLabels labels every vertex with the index of its connected
// component, where vertices are connected by face edges and explicit
// edges. Components are numbered in order of their smallest vertex.
func (m *Mesh) ComponentLabels() (labels []int, count int, err error) {
	if err := m.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "component labels")
	}
	uf := NewUnionFind(len(m.Vertices))
	for _, e := range m.allEdges() {
		uf.Union(e[0], e[1])
	}
	labels, count = uf.Labels()
	return labels, count, nil
}

// ConnectedRegions splits the mesh into one mesh per connected set of
// faces, ordered by smallest vertex index.
//
// Vertices are reindexed in each region, preserving their relative order.
// Vertices not referenced by any face do not produce a region.
func (m *Mesh) ConnectedRegions() ([]*Mesh, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "connected regions")
	}

	g := simple.NewUndirectedGraph()
	for i := range m.Vertices {
		g.AddNode(simple.Node(i))
	}
	for _, e := range m.allEdges() {
		if e[0] != e[1] && !g.HasEdgeBetween(int64(e[0]), int64(e[1])) {
			g.SetEdge(g.NewEdge(simple.Node(e[0]), simple.Node(e[1])))
		}
	}

	components := topo.ConnectedComponents(g)
	vertexSets := make([][]int, len(components))
	for i, c := range components {
		vertexSets[i] = nodeIDs(c)
	}
	slices.SortFunc(vertexSets, func(x, y []int) bool {
		return x[0] < y[0]
	})

	component := make([]int, len(m.Vertices))
	for i, vs := range vertexSets {
		for _, v := range vs {
			component[v] = i
		}
	}
	faces := make([][]Face, len(vertexSets))
	for _, f := range m.Faces {
		c := component[f.indices[0]]
		faces[c] = append(faces[c], f)
	}

	var res []*Mesh
	for i, vs := range vertexSets {
		if len(faces[i]) == 0 {
			continue
		}
		res = append(res, m.subMesh(vs, faces[i]))
	}
	return res, nil
}

func (m *Mesh) subMesh(vertices []int, faces []Face) *Mesh {
	mapping := make(map[int]int, len(vertices))
	res := &Mesh{
		Vertices:   make([]model3d.Coord3D, len(vertices)),
		Faces:      make([]Face, len(faces)),
		Attributes: m.Attributes,
	}
	for i, v := range vertices {
		mapping[v] = i
		res.Vertices[i] = m.Vertices[v]
	}
	for i, f := range faces {
		g := f
		for j := 0; j < f.Len(); j++ {
			g.indices[j] = mapping[f.indices[j]]
		}
		res.Faces[i] = g
	}
	for _, e := range m.Edges {
		a, okA := mapping[e[0]]
		b, okB := mapping[e[1]]
		if okA && okB {
			res.Edges = append(res.Edges, NewEdge(a, b))
		}
	}
	return res
}

func nodeIDs(nodes []graph.Node) []int {
	res := make([]int, len(nodes))
	for i, n := range nodes {
		res[i] = int(n.ID())
	}
	slices.Sort(res)
	return res
}

package meshtree

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// SubdivideLoop applies depth passes of Loop subdivision, returning a new
// triangle mesh. Every pass replaces each triangle with four and moves the
// original vertices towards their neighbors.
//
// The mesh must be watertight; otherwise ErrNotWatertight is returned and
// nothing is computed.
func (m *Mesh) SubdivideLoop(depth int) (*Mesh, error) {
	res, err := m.subdivide(depth, loopScheme{})
	if err != nil {
		return nil, errors.Wrap(err, "loop subdivision")
	}
	return res, nil
}

// SubdivideButterfly applies depth passes of butterfly subdivision,
// returning a new triangle mesh. Original vertices keep their positions, so
// the result interpolates the input.
//
// The mesh must be watertight; otherwise ErrNotWatertight is returned and
// nothing is computed.
func (m *Mesh) SubdivideButterfly(depth int) (*Mesh, error) {
	res, err := m.subdivide(depth, butterflyScheme{})
	if err != nil {
		return nil, errors.Wrap(err, "butterfly subdivision")
	}
	return res, nil
}

type subdivisionScheme interface {
	EdgePoint(s *subdivisionState, e Edge) model3d.Coord3D
	VertexPoint(s *subdivisionState, v int) model3d.Coord3D
}

func (m *Mesh) subdivide(depth int, scheme subdivisionScheme) (*Mesh, error) {
	if depth < 0 {
		return nil, errors.Errorf("negative depth: %d", depth)
	}
	watertight, err := m.IsWatertight()
	if err != nil {
		return nil, err
	}
	if !watertight {
		return nil, ErrNotWatertight
	}
	cur := m.Triangulate()
	cur.Edges = nil
	for i := 0; i < depth; i++ {
		cur = newSubdivisionState(cur).Subdivide(scheme)
	}
	return cur, nil
}

type subdivisionState struct {
	Mesh      *Mesh
	Opposite  map[Edge][]int
	Neighbors map[int][]int
}

func newSubdivisionState(m *Mesh) *subdivisionState {
	opposite := map[Edge][]int{}
	for _, f := range m.Faces {
		idx := f.indices
		for j := 0; j < 3; j++ {
			e := NewEdge(idx[j], idx[(j+1)%3])
			opposite[e] = append(opposite[e], idx[(j+2)%3])
		}
	}
	return &subdivisionState{
		Mesh:      m,
		Opposite:  opposite,
		Neighbors: m.vertexNeighbors(),
	}
}

// Subdivide splits every triangle into a center triangle and three corner
// triangles, creating one vertex per edge.
func (s *subdivisionState) Subdivide(scheme subdivisionScheme) *Mesh {
	m := s.Mesh
	res := &Mesh{
		Vertices:   make([]model3d.Coord3D, len(m.Vertices), len(m.Vertices)*4),
		Faces:      make([]Face, 0, len(m.Faces)*4),
		Attributes: m.Attributes,
	}
	for i := range m.Vertices {
		res.Vertices[i] = scheme.VertexPoint(s, i)
	}
	edgeVertices := map[Edge]int{}
	edgeVertex := func(a, b int) int {
		e := NewEdge(a, b)
		if idx, ok := edgeVertices[e]; ok {
			return idx
		}
		idx := len(res.Vertices)
		res.Vertices = append(res.Vertices, scheme.EdgePoint(s, e))
		edgeVertices[e] = idx
		return idx
	}
	for _, f := range m.Faces {
		a, b, c := f.indices[0], f.indices[1], f.indices[2]
		ab, bc, ca := edgeVertex(a, b), edgeVertex(b, c), edgeVertex(c, a)
		res.Faces = append(
			res.Faces,
			TriangleFace(a, ab, ca),
			TriangleFace(ab, b, bc),
			TriangleFace(ca, bc, c),
			TriangleFace(ab, bc, ca),
		)
	}
	return res
}

func (s *subdivisionState) midpoint(e Edge) model3d.Coord3D {
	return s.Mesh.Vertices[e[0]].Add(s.Mesh.Vertices[e[1]]).Scale(0.5)
}

// wing finds the vertex across edge (a, b) from the triangle whose third
// vertex is notV.
func (s *subdivisionState) wing(a, b, notV int) (int, bool) {
	opp := s.Opposite[NewEdge(a, b)]
	if len(opp) != 2 {
		return 0, false
	}
	if opp[0] == notV {
		return opp[1], true
	}
	return opp[0], true
}

type loopScheme struct{}

func (loopScheme) EdgePoint(s *subdivisionState, e Edge) model3d.Coord3D {
	opp := s.Opposite[e]
	if len(opp) != 2 {
		return s.midpoint(e)
	}
	v := s.Mesh.Vertices
	return v[e[0]].Add(v[e[1]]).Scale(3.0 / 8).Add(v[opp[0]].Add(v[opp[1]]).Scale(1.0 / 8))
}

func (loopScheme) VertexPoint(s *subdivisionState, i int) model3d.Coord3D {
	v := s.Mesh.Vertices
	neighbors := s.Neighbors[i]
	n := len(neighbors)
	if n == 0 {
		return v[i]
	}
	beta := 3.0 / 16
	if n > 3 {
		beta = 3.0 / (8 * float64(n))
	}
	var sum model3d.Coord3D
	for _, j := range neighbors {
		sum = sum.Add(v[j])
	}
	return v[i].Scale(1 - float64(n)*beta).Add(sum.Scale(beta))
}

type butterflyScheme struct{}

const butterflyWeight = 1.0 / 16

func (butterflyScheme) EdgePoint(s *subdivisionState, e Edge) model3d.Coord3D {
	opp := s.Opposite[e]
	if len(opp) != 2 {
		return s.midpoint(e)
	}
	a, b := e[0], e[1]
	c, d := opp[0], opp[1]
	var wings [4]int
	for i, w := range [4][3]int{{a, c, b}, {b, c, a}, {a, d, b}, {b, d, a}} {
		idx, ok := s.wing(w[0], w[1], w[2])
		if !ok {
			return s.midpoint(e)
		}
		wings[i] = idx
	}
	v := s.Mesh.Vertices
	res := v[a].Add(v[b]).Scale(0.5)
	res = res.Add(v[c].Add(v[d]).Scale(2 * butterflyWeight))
	for _, w := range wings {
		res = res.Sub(v[w].Scale(butterflyWeight))
	}
	return res
}

func (butterflyScheme) VertexPoint(s *subdivisionState, i int) model3d.Coord3D {
	return s.Mesh.Vertices[i]
}

package meshtree

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// A Face references the vertices of a triangle or a quad by index.
type Face struct {
	indices [4]int
	quad    bool
}

// TriangleFace creates a triangle face.
func TriangleFace(i, j, k int) Face {
	return Face{indices: [4]int{i, j, k, -1}}
}

// QuadFace creates a quad face.
func QuadFace(i, j, k, l int) Face {
	return Face{indices: [4]int{i, j, k, l}, quad: true}
}

// IsQuad checks if the face has four vertices.
func (f Face) IsQuad() bool {
	return f.quad
}

// Len returns 3 for triangles and 4 for quads.
func (f Face) Len() int {
	if f.quad {
		return 4
	}
	return 3
}

// Indices returns the vertex indices in winding order.
func (f Face) Indices() []int {
	return append([]int{}, f.indices[:f.Len()]...)
}

// Edges returns the face's edges in winding order.
func (f Face) Edges() []Edge {
	n := f.Len()
	res := make([]Edge, n)
	for i := 0; i < n; i++ {
		res[i] = NewEdge(f.indices[i], f.indices[(i+1)%n])
	}
	return res
}

// Triangles splits a quad along its 0-2 diagonal. Triangles are returned
// unchanged.
func (f Face) Triangles() []Face {
	if !f.quad {
		return []Face{f}
	}
	i := f.indices
	return []Face{TriangleFace(i[0], i[1], i[2]), TriangleFace(i[0], i[2], i[3])}
}

// An Edge is an unordered pair of vertex indices.
//
// Edges are stored with the smaller index first, so (a, b) == (b, a).
type Edge [2]int

// NewEdge creates the canonical edge between two vertices.
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// Other returns the endpoint which is not v.
func (e Edge) Other(v int) int {
	if e[0] == v {
		return e[1]
	}
	return e[0]
}

// SharesVertex checks if two edges have a common endpoint.
func (e Edge) SharesVertex(other Edge) bool {
	return e[0] == other[0] || e[0] == other[1] || e[1] == other[0] || e[1] == other[1]
}

// Attributes holds display information which the kernel carries along
// without interpreting.
type Attributes struct {
	Name   string
	Color  [3]float64
	Smooth bool
}

// A Mesh is an indexed collection of vertices and faces.
//
// Adjacency information is derived on demand and never cached, so a Mesh may
// be modified freely between queries.
type Mesh struct {
	Vertices   []model3d.Coord3D
	Faces      []Face
	Edges      []Edge
	Attributes Attributes
}

// NewMesh creates a mesh from vertices and faces.
//
// Face indices are not checked here; out-of-range indices produce an
// *IndexError when the faces are resolved to polygons.
func NewMesh(vertices []model3d.Coord3D, faces []Face, attrs Attributes) *Mesh {
	return &Mesh{
		Vertices:   vertices,
		Faces:      faces,
		Attributes: attrs,
	}
}

// NewMeshPolygons creates a mesh from polygons, merging vertices with
// bit-identical coordinates.
//
// Triangles and quads become faces directly, and larger polygons are
// fanned into triangles. Polygons with fewer than three vertices are
// dropped.
func NewMeshPolygons(polys []Polygon, attrs Attributes) *Mesh {
	m := &Mesh{Attributes: attrs}
	indices := map[model3d.Coord3D]int{}
	index := func(c model3d.Coord3D) int {
		if idx, ok := indices[c]; ok {
			return idx
		}
		idx := len(m.Vertices)
		indices[c] = idx
		m.Vertices = append(m.Vertices, c)
		return idx
	}
	for _, p := range polys {
		switch len(p) {
		case 0, 1, 2:
		case 3:
			m.Faces = append(m.Faces, TriangleFace(index(p[0]), index(p[1]), index(p[2])))
		case 4:
			m.Faces = append(m.Faces, QuadFace(index(p[0]), index(p[1]), index(p[2]), index(p[3])))
		default:
			tris, _ := p.Triangulate()
			for _, t := range tris {
				m.Faces = append(m.Faces, TriangleFace(index(t[0]), index(t[1]), index(t[2])))
			}
		}
	}
	return m
}

// MeshFromModel3D converts a triangle mesh into an indexed mesh.
func MeshFromModel3D(mesh *model3d.Mesh) *Mesh {
	tris := mesh.TriangleSlice()
	polys := make([]Polygon, len(tris))
	for i, t := range tris {
		polys[i] = Polygon{t[0], t[1], t[2]}
	}
	return NewMeshPolygons(polys, Attributes{})
}

// Model3D converts the mesh into a model3d triangle mesh, splitting quads.
func (m *Mesh) Model3D() (*model3d.Mesh, error) {
	polys, err := m.TrianglePolygons()
	if err != nil {
		return nil, err
	}
	tris, err := polygonTriangles(polys)
	if err != nil {
		return nil, err
	}
	return model3d.NewMeshTriangles(tris), nil
}

// Copy creates a deep copy of the mesh.
func (m *Mesh) Copy() *Mesh {
	return &Mesh{
		Vertices:   append([]model3d.Coord3D{}, m.Vertices...),
		Faces:      append([]Face{}, m.Faces...),
		Edges:      append([]Edge{}, m.Edges...),
		Attributes: m.Attributes,
	}
}

// Vertex looks up a vertex position.
func (m *Mesh) Vertex(i int) (model3d.Coord3D, error) {
	if i < 0 || i >= len(m.Vertices) {
		return model3d.Coord3D{}, &IndexError{Kind: "vertex", Index: i, Len: len(m.Vertices)}
	}
	return m.Vertices[i], nil
}

// Polygon resolves the face at index i to vertex positions.
func (m *Mesh) Polygon(i int) (Polygon, error) {
	if i < 0 || i >= len(m.Faces) {
		return nil, &IndexError{Kind: "face", Index: i, Len: len(m.Faces)}
	}
	return m.facePolygon(m.Faces[i])
}

func (m *Mesh) facePolygon(f Face) (Polygon, error) {
	res := make(Polygon, f.Len())
	for j, idx := range f.indices[:f.Len()] {
		c, err := m.Vertex(idx)
		if err != nil {
			return nil, err
		}
		res[j] = c
	}
	return res, nil
}

// Polygons resolves every face to vertex positions.
func (m *Mesh) Polygons() ([]Polygon, error) {
	res := make([]Polygon, len(m.Faces))
	for i, f := range m.Faces {
		p, err := m.facePolygon(f)
		if err != nil {
			return nil, errors.Wrapf(err, "face %d", i)
		}
		res[i] = p
	}
	return res, nil
}

// TrianglePolygons is like Polygons(), but quads are split into triangles.
func (m *Mesh) TrianglePolygons() ([]Polygon, error) {
	res := make([]Polygon, 0, len(m.Faces))
	for i, f := range m.Faces {
		for _, t := range f.Triangles() {
			p, err := m.facePolygon(t)
			if err != nil {
				return nil, errors.Wrapf(err, "face %d", i)
			}
			res = append(res, p)
		}
	}
	return res, nil
}

// Triangulate creates a mesh with every quad split into two triangles.
func (m *Mesh) Triangulate() *Mesh {
	res := &Mesh{
		Vertices:   append([]model3d.Coord3D{}, m.Vertices...),
		Faces:      make([]Face, 0, len(m.Faces)),
		Attributes: m.Attributes,
	}
	for _, f := range m.Faces {
		res.Faces = append(res.Faces, f.Triangles()...)
	}
	return res
}

// IsTriangulated checks that the mesh has no quads.
func (m *Mesh) IsTriangulated() bool {
	for _, f := range m.Faces {
		if f.IsQuad() {
			return false
		}
	}
	return true
}

// Validate checks every face and edge index against the vertex count.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for _, idx := range f.indices[:f.Len()] {
			if _, err := m.Vertex(idx); err != nil {
				return errors.Wrapf(err, "face %d", i)
			}
		}
	}
	for i, e := range m.Edges {
		for _, idx := range e {
			if _, err := m.Vertex(idx); err != nil {
				return errors.Wrapf(err, "edge %d", i)
			}
		}
	}
	return nil
}

// Bounds computes the bounding box of the vertices.
func (m *Mesh) Bounds() BoundingBox {
	res := EmptyBoundingBox()
	for _, c := range m.Vertices {
		res = res.Add(c)
	}
	return res
}

// ComputeEdges derives the unique edges of all faces, in order of first
// appearance.
func (m *Mesh) ComputeEdges() []Edge {
	seen := map[Edge]bool{}
	var res []Edge
	for _, f := range m.Faces {
		for _, e := range f.Edges() {
			if !seen[e] {
				seen[e] = true
				res = append(res, e)
			}
		}
	}
	return res
}

// allEdges combines face edges with the explicit edge list.
func (m *Mesh) allEdges() []Edge {
	res := m.ComputeEdges()
	seen := make(map[Edge]bool, len(res))
	for _, e := range res {
		seen[e] = true
	}
	for _, e := range m.Edges {
		e = NewEdge(e[0], e[1])
		if !seen[e] {
			seen[e] = true
			res = append(res, e)
		}
	}
	return res
}

// VertexEdges maps every vertex to its incident face edges.
func (m *Mesh) VertexEdges() (map[int][]Edge, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "vertex edges")
	}
	res := map[int][]Edge{}
	for _, e := range m.ComputeEdges() {
		res[e[0]] = append(res[e[0]], e)
		res[e[1]] = append(res[e[1]], e)
	}
	return res, nil
}

// EdgeFaces maps every edge to the indices of its incident faces.
func (m *Mesh) EdgeFaces() (map[Edge][]int, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "edge faces")
	}
	res := map[Edge][]int{}
	for i, f := range m.Faces {
		for _, e := range f.Edges() {
			res[e] = append(res[e], i)
		}
	}
	return res, nil
}

// SignedVolume computes the volume enclosed by the mesh, which is positive
// for closed meshes with outward-facing winding.
func (m *Mesh) SignedVolume() (float64, error) {
	polys, err := m.TrianglePolygons()
	if err != nil {
		return 0, errors.Wrap(err, "signed volume")
	}
	var vol float64
	for _, p := range polys {
		vol += p[0].Dot(p[1].Cross(p[2])) / 6
	}
	return vol, nil
}

package meshtree

import (
	"math"

	"github.com/unixpickle/model3d/model3d"
)

// boxQuadMesh creates an axis-aligned box with outward-facing quads.
func boxQuadMesh(min, max model3d.Coord3D) *Mesh {
	vertices := make([]model3d.Coord3D, 8)
	for i := range vertices {
		c := min
		if i&1 != 0 {
			c.X = max.X
		}
		if i&2 != 0 {
			c.Y = max.Y
		}
		if i&4 != 0 {
			c.Z = max.Z
		}
		vertices[i] = c
	}
	faces := []Face{
		QuadFace(0, 2, 3, 1),
		QuadFace(4, 5, 7, 6),
		QuadFace(0, 1, 5, 4),
		QuadFace(2, 6, 7, 3),
		QuadFace(0, 4, 6, 2),
		QuadFace(1, 3, 7, 5),
	}
	return NewMesh(vertices, faces, Attributes{Name: "box"})
}

// boxMesh creates an axis-aligned box with 12 outward-facing triangles.
func boxMesh(min, max model3d.Coord3D) *Mesh {
	return boxQuadMesh(min, max).Triangulate()
}

func unitCube() *Mesh {
	return boxMesh(model3d.Origin, model3d.XYZ(1, 1, 1))
}

func tetrahedronMesh() *Mesh {
	return NewMesh(
		[]model3d.Coord3D{
			model3d.XYZ(0, 0, 0),
			model3d.XYZ(1, 0, 0),
			model3d.XYZ(0, 1, 0),
			model3d.XYZ(0, 0, 1),
		},
		[]Face{
			TriangleFace(0, 2, 1),
			TriangleFace(0, 1, 3),
			TriangleFace(0, 3, 2),
			TriangleFace(1, 2, 3),
		},
		Attributes{},
	)
}

func icosahedronMesh() *Mesh {
	phi := (1 + math.Sqrt(5)) / 2
	vertices := []model3d.Coord3D{
		model3d.XYZ(-1, phi, 0),
		model3d.XYZ(1, phi, 0),
		model3d.XYZ(-1, -phi, 0),
		model3d.XYZ(1, -phi, 0),
		model3d.XYZ(0, -1, phi),
		model3d.XYZ(0, 1, phi),
		model3d.XYZ(0, -1, -phi),
		model3d.XYZ(0, 1, -phi),
		model3d.XYZ(phi, 0, -1),
		model3d.XYZ(phi, 0, 1),
		model3d.XYZ(-phi, 0, -1),
		model3d.XYZ(-phi, 0, 1),
	}
	indices := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	faces := make([]Face, len(indices))
	for i, idx := range indices {
		faces[i] = TriangleFace(idx[0], idx[1], idx[2])
	}
	return NewMesh(vertices, faces, Attributes{Name: "icosahedron"})
}

func singleTriangleMesh() *Mesh {
	return NewMesh(
		[]model3d.Coord3D{model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0)},
		[]Face{TriangleFace(0, 1, 2)},
		Attributes{},
	)
}

func disjointTrianglesMesh() *Mesh {
	return NewMesh(
		[]model3d.Coord3D{
			model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0),
			model3d.XYZ(5, 5, 5), model3d.XYZ(6, 5, 5), model3d.XYZ(5, 6, 5),
		},
		[]Face{TriangleFace(0, 1, 2), TriangleFace(3, 4, 5)},
		Attributes{},
	)
}

// coneMesh creates a closed cone with its base centered at the origin on
// the XY plane and its apex at (0, 0, height).
func coneMesh(segments int, radius, height float64) *Mesh {
	vertices := []model3d.Coord3D{model3d.XYZ(0, 0, height), model3d.Origin}
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		vertices = append(vertices, model3d.XYZ(radius*math.Cos(theta), radius*math.Sin(theta), 0))
	}
	var faces []Face
	for i := 0; i < segments; i++ {
		a := 2 + i
		b := 2 + (i+1)%segments
		faces = append(faces, TriangleFace(a, b, 0), TriangleFace(b, a, 1))
	}
	return NewMesh(vertices, faces, Attributes{Name: "cone"})
}

// gridPolygons creates an n x n grid of unit triangles on the XY plane.
func gridPolygons(n int) []Polygon {
	var res []Polygon
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x, y := float64(i), float64(j)
			res = append(res,
				Polygon{model3d.XYZ(x, y, 0), model3d.XYZ(x+1, y, 0), model3d.XYZ(x+1, y+1, 0)},
				Polygon{model3d.XYZ(x, y, 0), model3d.XYZ(x+1, y+1, 0), model3d.XYZ(x, y+1, 0)},
			)
		}
	}
	return res
}

func totalArea(polys []Polygon) float64 {
	var res float64
	for _, p := range polys {
		res += p.Area()
	}
	return res
}

func mustPolygons(m *Mesh) []Polygon {
	polys, err := m.Polygons()
	if err != nil {
		panic(err)
	}
	return polys
}

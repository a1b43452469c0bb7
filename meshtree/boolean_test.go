package meshtree

import (
	"math"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestPerformBoolOverlappingBoxes(t *testing.T) {
	lhs := boxMesh(model3d.Origin, model3d.XYZ(2, 2, 2))
	rhs := boxMesh(model3d.XYZ(1, 1, 1), model3d.XYZ(3, 3, 3))

	expected := map[BoolOp]struct {
		volume float64
		bounds BoundingBox
	}{
		BoolUnion: {15, BoundingBox{Min: model3d.Origin, Max: model3d.XYZ(3, 3, 3)}},
		BoolIntersection: {1, BoundingBox{Min: model3d.XYZ(1, 1, 1),
			Max: model3d.XYZ(2, 2, 2)}},
		BoolDifference: {7, BoundingBox{Min: model3d.Origin, Max: model3d.XYZ(2, 2, 2)}},
	}
	for op, exp := range expected {
		t.Run(op.String(), func(t *testing.T) {
			result, err := PerformBool(lhs, rhs, op, 0)
			if err != nil {
				t.Fatal(err)
			}
			if err := result.Validate(); err != nil {
				t.Fatal(err)
			}
			volume, err := result.SignedVolume()
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(volume-exp.volume) > 1e-6 {
				t.Errorf("expected volume %f but got %f", exp.volume, volume)
			}
			bounds := result.Bounds()
			if bounds.Min.Dist(exp.bounds.Min) > 1e-8 || bounds.Max.Dist(exp.bounds.Max) > 1e-8 {
				t.Errorf("expected bounds %v but got %v", exp.bounds, bounds)
			}
			if result.Attributes != lhs.Attributes {
				t.Error("result should carry the lhs attributes")
			}
		})
	}
}

func TestPerformBoolIdentical(t *testing.T) {
	lhs := unitCube()
	rhs := unitCube()
	for _, op := range []BoolOp{BoolUnion, BoolIntersection} {
		result, err := PerformBool(lhs, rhs, op, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Faces) != len(lhs.Faces) {
			t.Errorf("%s: expected %d faces but got %d", op, len(lhs.Faces), len(result.Faces))
		}
		if result.Bounds() != lhs.Bounds() {
			t.Errorf("%s: expected bounds %v but got %v", op, lhs.Bounds(), result.Bounds())
		}
		volume, err := result.SignedVolume()
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(volume-1) > 1e-8 {
			t.Errorf("%s: expected unit volume, got %f", op, volume)
		}
	}

	result, err := PerformBool(lhs, rhs, BoolDifference, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Faces) != 0 {
		t.Errorf("difference with itself should be empty, got %d faces", len(result.Faces))
	}
}

func TestPerformBoolDisjoint(t *testing.T) {
	lhs := unitCube()
	rhs := boxMesh(model3d.XYZ(5, 5, 5), model3d.XYZ(6, 6, 6))

	result, err := PerformBool(lhs, rhs, BoolIntersection, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Faces) != 0 {
		t.Errorf("expected empty intersection, got %d faces", len(result.Faces))
	}

	result, err = PerformBool(lhs, rhs, BoolUnion, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Faces) != 24 {
		t.Errorf("expected both boxes in union, got %d faces", len(result.Faces))
	}

	result, err = PerformBool(lhs, rhs, BoolDifference, 0)
	if err != nil {
		t.Fatal(err)
	}
	if volume, _ := result.SignedVolume(); math.Abs(volume-1) > 1e-8 {
		t.Errorf("difference should keep lhs, got volume %f", volume)
	}
}

func TestPerformBoolEmptyOperand(t *testing.T) {
	empty := NewMesh(nil, nil, Attributes{})
	cube := unitCube()
	cases := []struct {
		lhs, rhs *Mesh
		op       BoolOp
		faces    int
	}{
		{cube, empty, BoolUnion, 12},
		{empty, cube, BoolUnion, 12},
		{cube, empty, BoolIntersection, 0},
		{cube, empty, BoolDifference, 12},
		{empty, cube, BoolDifference, 0},
	}
	for i, c := range cases {
		result, err := PerformBool(c.lhs, c.rhs, c.op, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Faces) != c.faces {
			t.Errorf("case %d: expected %d faces but got %d", i, c.faces, len(result.Faces))
		}
	}
}

func TestPerformBoolConfig(t *testing.T) {
	lhs := boxMesh(model3d.Origin, model3d.XYZ(2, 2, 2))
	rhs := boxMesh(model3d.XYZ(1, 1, 1), model3d.XYZ(3, 3, 3))

	c := DefaultConfig()
	c.OctreeMaxDepth = 2
	c.OctreeMaxPolygons = 1
	c.Concurrency = 1
	result, err := NewBoolEngine(c, nil).Perform(lhs, rhs, BoolDifference)
	if err != nil {
		t.Fatal(err)
	}
	if volume, _ := result.SignedVolume(); math.Abs(volume-7) > 1e-6 {
		t.Errorf("expected volume 7, got %f", volume)
	}

	c.Epsilon = -1
	if _, err := NewBoolEngine(c, nil).Perform(lhs, rhs, BoolUnion); err == nil {
		t.Error("expected error for invalid config")
	}

	bad := NewMesh(lhs.Vertices, []Face{TriangleFace(0, 1, 100)}, Attributes{})
	if _, err := PerformBool(bad, rhs, BoolUnion, 0); !IsIndexError(err) {
		t.Errorf("expected index error, got %v", err)
	}
}

func TestPerformBoolScaleInvariant(t *testing.T) {
	axis := model3d.XYZ(1, 2, 3).Normalize()
	transform := func(m *Mesh, scale float64) *Mesh {
		vertices := make([]model3d.Coord3D, len(m.Vertices))
		for i, v := range m.Vertices {
			vertices[i] = rotateAround(v, axis, 0.7).Scale(scale)
		}
		return NewMesh(vertices, m.Faces, m.Attributes)
	}
	expected := map[BoolOp]float64{
		BoolUnion:        12,
		BoolIntersection: 4,
		BoolDifference:   4,
	}
	for _, scale := range []float64{1, 100, 1000} {
		// The boxes share parts of four faces, which are only coplanar up to
		// rounding error after the rotation.
		lhs := transform(boxMesh(model3d.Origin, model3d.XYZ(2, 2, 2)), scale)
		rhs := transform(boxMesh(model3d.X(1), model3d.XYZ(3, 2, 2)), scale)
		for op, volume := range expected {
			result, err := PerformBool(lhs, rhs, op, 0)
			if err != nil {
				t.Fatal(err)
			}
			actual, err := result.SignedVolume()
			if err != nil {
				t.Fatal(err)
			}
			actual /= scale * scale * scale
			if math.Abs(actual-volume) > 1e-6 {
				t.Errorf("scale %v, %s: expected volume %f but got %f", scale, op, volume,
					actual)
			}
		}
	}
}

// rotateAround rotates c by theta radians around a unit axis.
func rotateAround(c, axis model3d.Coord3D, theta float64) model3d.Coord3D {
	cos, sin := math.Cos(theta), math.Sin(theta)
	return c.Scale(cos).Add(axis.Cross(c).Scale(sin)).Add(axis.Scale(axis.Dot(c) * (1 - cos)))
}

func TestParseBoolOp(t *testing.T) {
	for _, op := range []BoolOp{BoolUnion, BoolIntersection, BoolDifference} {
		parsed, err := ParseBoolOp(op.String())
		if err != nil {
			t.Fatal(err)
		}
		if parsed != op {
			t.Errorf("expected %s but got %s", op, parsed)
		}
	}
	if _, err := ParseBoolOp("xor"); err == nil {
		t.Error("expected error for unknown operation")
	}
}

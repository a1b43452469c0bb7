package meshtree

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

func TestTriangleIntersectsTriangle(t *testing.T) {
	base := &model3d.Triangle{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(1, 0, 0),
		model3d.XYZ(0, 1, 0),
	}
	cases := []struct {
		name     string
		other    *model3d.Triangle
		expected Intersection
	}{
		{
			name:     "Identical",
			other:    &model3d.Triangle{base[1], base[2], base[0]},
			expected: SimplicialComplex,
		},
		{
			name: "SharedEdgeCoplanar",
			other: &model3d.Triangle{
				model3d.XYZ(1, 0, 0),
				model3d.XYZ(1, 1, 0),
				model3d.XYZ(0, 1, 0),
			},
			expected: SimplicialComplex,
		},
		{
			name: "SharedEdgeFolded",
			other: &model3d.Triangle{
				model3d.XYZ(1, 0, 0),
				model3d.XYZ(0, 1, 0),
				model3d.XYZ(0, 0, 1),
			},
			expected: SimplicialComplex,
		},
		{
			name: "SharedEdgeOverlapping",
			other: &model3d.Triangle{
				model3d.XYZ(1, 0, 0),
				model3d.XYZ(0, 1, 0),
				model3d.XYZ(0.1, 0.1, 0),
			},
			expected: Intersect,
		},
		{
			name: "SharedVertexApart",
			other: &model3d.Triangle{
				model3d.XYZ(0, 0, 0),
				model3d.XYZ(-1, 0, 0),
				model3d.XYZ(0, -1, 0),
			},
			expected: SimplicialComplex,
		},
		{
			name: "SharedVertexLeavingPlane",
			other: &model3d.Triangle{
				model3d.XYZ(0, 0, 0),
				model3d.XYZ(1, 0, 1),
				model3d.XYZ(0, 1, 1),
			},
			expected: SimplicialComplex,
		},
		{
			name: "SharedVertexPiercing",
			other: &model3d.Triangle{
				model3d.XYZ(0, 0, 0),
				model3d.XYZ(0.5, 0.5, 1),
				model3d.XYZ(0.5, 0.5, -1),
			},
			expected: Intersect,
		},
		{
			name: "Crossing",
			other: &model3d.Triangle{
				model3d.XYZ(0.2, 0.2, -1),
				model3d.XYZ(0.2, 0.2, 1),
				model3d.XYZ(0.6, 0.1, 1),
			},
			expected: Intersect,
		},
		{
			name: "AbovePlane",
			other: &model3d.Triangle{
				model3d.XYZ(0, 0, 0.5),
				model3d.XYZ(1, 0, 0.5),
				model3d.XYZ(0, 1, 1),
			},
			expected: DoNotIntersect,
		},
		{
			name: "CrossingPlaneOutside",
			other: &model3d.Triangle{
				model3d.XYZ(2, 2, -1),
				model3d.XYZ(0.9, 0.9, 1),
				model3d.XYZ(2, 0.9, 1),
			},
			expected: DoNotIntersect,
		},
		{
			name: "DisjointBounds",
			other: &model3d.Triangle{
				model3d.XYZ(5, 5, 5),
				model3d.XYZ(6, 5, 5),
				model3d.XYZ(5, 6, 5),
			},
			expected: DoNotIntersect,
		},
		{
			name: "CoplanarOverlapping",
			other: &model3d.Triangle{
				model3d.XYZ(0.25, 0.25, 0),
				model3d.XYZ(2, 0.25, 0),
				model3d.XYZ(0.25, 2, 0),
			},
			expected: Intersect,
		},
		{
			name: "CoplanarApart",
			other: &model3d.Triangle{
				model3d.XYZ(0.6, 0.6, 0),
				model3d.XYZ(2, 0.6, 0),
				model3d.XYZ(0.6, 2, 0),
			},
			expected: DoNotIntersect,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for i, pair := range [2][2]*model3d.Triangle{{base, c.other}, {c.other, base}} {
				actual, err := TriangleIntersectsTriangle(pair[0], pair[1])
				if err != nil {
					t.Fatal(err)
				}
				if actual != c.expected {
					t.Errorf("order %d: expected %s but got %s", i, c.expected, actual)
				}
			}
		})
	}
}

func TestTriangleIntersectsTriangleDegenerate(t *testing.T) {
	good := &model3d.Triangle{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(1, 0, 0),
		model3d.XYZ(0, 1, 0),
	}
	colinear := &model3d.Triangle{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(1, 1, 1),
		model3d.XYZ(2, 2, 2),
	}
	if _, err := TriangleIntersectsTriangle(good, colinear); errors.Cause(err) != ErrDegenerate {
		t.Errorf("expected degenerate error, got %v", err)
	}
	_, err := SegmentTriangleIntersect3D(model3d.Origin, model3d.Origin, good)
	if errors.Cause(err) != ErrDegenerate {
		t.Errorf("expected degenerate error, got %v", err)
	}
	_, err = SegmentSegmentIntersect3D(model3d.Origin, model3d.X(1), model3d.Y(1), model3d.Y(1))
	if errors.Cause(err) != ErrDegenerate {
		t.Errorf("expected degenerate error, got %v", err)
	}
}

func TestSegmentTriangleIntersect3D(t *testing.T) {
	tri := &model3d.Triangle{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(2, 0, 0),
		model3d.XYZ(0, 2, 0),
	}
	cases := []struct {
		name     string
		a, b     model3d.Coord3D
		expected Intersection
	}{
		{"Edge", tri[1], tri[0], SimplicialComplex},
		{"LeavingFromVertex", tri[0], model3d.XYZ(1, 1, 1), SimplicialComplex},
		{"IntoInteriorFromVertex", tri[0], model3d.XYZ(0.5, 0.5, 0), Overlap},
		{"AcrossFromVertex", tri[0], model3d.XYZ(3, 3, 0), Overlap},
		{"AlongEdgeFromVertex", tri[0], model3d.XYZ(3, 0, 0), Overlap},
		{"AwayFromVertex", tri[0], model3d.XYZ(-1, -1, 0), SimplicialComplex},
		{"Piercing", model3d.XYZ(0.5, 0.5, -1), model3d.XYZ(0.5, 0.5, 1), Intersect},
		{"TouchingInterior", model3d.XYZ(0.5, 0.5, 0), model3d.XYZ(0.5, 0.5, 1), Intersect},
		{"MissingPlane", model3d.XYZ(0.5, 0.5, 1), model3d.XYZ(0.5, 0.5, 2), DoNotIntersect},
		{"PiercingOutside", model3d.XYZ(3, 3, -1), model3d.XYZ(3, 3, 1), DoNotIntersect},
		{"CoplanarInside", model3d.XYZ(0.2, 0.2, 0), model3d.XYZ(0.5, 0.2, 0), Overlap},
		{"CoplanarCrossing", model3d.XYZ(-1, 0.5, 0), model3d.XYZ(3, 0.5, 0), Overlap},
		{"CoplanarOutside", model3d.XYZ(3, 3, 0), model3d.XYZ(4, 3, 0), DoNotIntersect},
	}
	for _, c := range cases {
		actual, err := SegmentTriangleIntersect3D(c.a, c.b, tri)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if actual != c.expected {
			t.Errorf("%s: expected %s but got %s", c.name, c.expected, actual)
		}
		actual, err = SegmentTriangleIntersect3D(c.b, c.a, tri)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if actual != c.expected {
			t.Errorf("%s (reversed): expected %s but got %s", c.name, c.expected, actual)
		}
	}
}

func TestSegmentSegmentIntersect3D(t *testing.T) {
	cases := []struct {
		name           string
		a0, a1, b0, b1 model3d.Coord3D
		expected       Intersection
	}{
		{"Same", model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(1, 0, 0),
			model3d.XYZ(0, 0, 0), SimplicialComplex},
		{"SharedEndpoint", model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 0, 0),
			model3d.XYZ(0, 1, 0), SimplicialComplex},
		{"SharedEndpointOpposite", model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0),
			model3d.XYZ(0, 0, 0), model3d.XYZ(-1, 0, 0), SimplicialComplex},
		{"SharedEndpointOverlap", model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0),
			model3d.XYZ(0, 0, 0), model3d.XYZ(2, 0, 0), Overlap},
		{"Crossing", model3d.XYZ(-1, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, -1, 0),
			model3d.XYZ(0, 1, 0), Intersect},
		{"CrossingTilted", model3d.XYZ(-1, 0, -1), model3d.XYZ(1, 0, 1), model3d.XYZ(0, -1, 0),
			model3d.XYZ(0, 1, 0), Intersect},
		{"Skew", model3d.XYZ(-1, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, -1, 1),
			model3d.XYZ(0, 1, 1), DoNotIntersect},
		{"CoplanarApart", model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(2, -1, 0),
			model3d.XYZ(2, 1, 0), DoNotIntersect},
		{"Parallel", model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0),
			model3d.XYZ(1, 1, 0), DoNotIntersect},
		{"ColinearOverlap", model3d.XYZ(0, 0, 0), model3d.XYZ(2, 0, 0), model3d.XYZ(1, 0, 0),
			model3d.XYZ(3, 0, 0), Overlap},
		{"ColinearTouching", model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(3, 0, 0),
			model3d.XYZ(1+1e-12, 0, 0), Intersect},
		{"ColinearApart", model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(2, 0, 0),
			model3d.XYZ(3, 0, 0), DoNotIntersect},
		{"TShape", model3d.XYZ(-1, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 0, 0),
			model3d.XYZ(0, 1, 0), Intersect},
	}
	for _, c := range cases {
		for i, args := range [][4]model3d.Coord3D{
			{c.a0, c.a1, c.b0, c.b1},
			{c.b0, c.b1, c.a0, c.a1},
			{c.a1, c.a0, c.b1, c.b0},
		} {
			actual, err := SegmentSegmentIntersect3D(args[0], args[1], args[2], args[3])
			if err != nil {
				t.Fatalf("%s: %v", c.name, err)
			}
			if actual != c.expected {
				t.Errorf("%s (order %d): expected %s but got %s", c.name, i, c.expected, actual)
			}
		}
	}
}

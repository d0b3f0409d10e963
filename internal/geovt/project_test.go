package geovt

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestProjectPositionOrigin(t *testing.T) {
	p := projectPosition(Position{0, 0})
	if !almostEqual(p.X, 0.5, 1e-9) || !almostEqual(p.Y, 0.5, 1e-9) {
		t.Fatalf("got (%v, %v), want (0.5, 0.5)", p.X, p.Y)
	}
}

func TestProjectPositionLongitudeWraps(t *testing.T) {
	p180 := projectPosition(Position{180, 0})
	if !almostEqual(p180.X, 1.0, 1e-9) {
		t.Fatalf("lon=180: got x=%v, want 1.0", p180.X)
	}
	pNeg180 := projectPosition(Position{-180, 0})
	if !almostEqual(pNeg180.X, 0.0, 1e-9) {
		t.Fatalf("lon=-180: got x=%v, want 0.0", pNeg180.X)
	}
	p540 := projectPosition(Position{540, 0})
	if !almostEqual(p540.X, 2.0, 1e-9) {
		t.Fatalf("lon=540: got x=%v, want 2.0 (outside [0,1], folded later by Wrap)", p540.X)
	}
}

func TestProjectPositionLatitudeClampedAtPoles(t *testing.T) {
	p := projectPosition(Position{0, 90})
	if p.Y != 0 {
		t.Fatalf("lat=90: got y=%v, want 0 (clamped)", p.Y)
	}
	p = projectPosition(Position{0, -90})
	if p.Y != 1 {
		t.Fatalf("lat=-90: got y=%v, want 1 (clamped)", p.Y)
	}
}

// TestGeneratedIDsCountEveryGeometryBearingFeature exercises the rule that
// a sequential generated ID is consumed by every raw feature carrying a
// non-nil Geometry, including one whose coordinates are empty and which
// therefore never makes it into the projected output.
func TestGeneratedIDsCountEveryGeometryBearingFeature(t *testing.T) {
	emptyLine := RawGeometry{Kind: GeomLineString, LineString: nil}
	point := RawGeometry{Kind: GeomPoint, Point: Position{1, 1}}

	raw := []RawFeature{
		{Geometry: &point},      // id 0
		{Geometry: nil},         // no geometry at all: consumes no id
		{Geometry: &emptyLine},  // id 1, but projects to nothing
		{Geometry: &point},      // id 2
	}

	got := projectFeatures(raw, true, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 surviving features, got %d", len(got))
	}
	if got[0].ID != 0 {
		t.Fatalf("first surviving feature: got id %v, want 0", got[0].ID)
	}
	if got[1].ID != 2 {
		t.Fatalf("second surviving feature: got id %v, want 2 (slot 1 consumed by the empty line)", got[1].ID)
	}
}

func TestProjectLineAccumulatesDistAndScoresEndpoints(t *testing.T) {
	raw := RawGeometry{
		Kind: GeomLineString,
		LineString: []Position{
			{0, 0}, {0.000898316, 0}, {0.001796632, 0},
		},
	}
	f, ok := projectGeometry(raw, 0)
	if !ok {
		t.Fatal("expected geometry to survive projection")
	}
	if f.Kind != GeomLineString {
		t.Fatalf("got kind %v, want GeomLineString", f.Kind)
	}
	pts := f.Line.Points
	if len(pts) != 3 {
		t.Fatalf("got %d points, want 3", len(pts))
	}
	if pts[0].Z != 1 || pts[2].Z != 1 {
		t.Fatalf("endpoints must be scored 1: got z0=%v z2=%v", pts[0].Z, pts[2].Z)
	}
	if f.Line.Dist <= 0 {
		t.Fatalf("expected positive dist, got %v", f.Line.Dist)
	}
}

func TestProjectPolygonComputesUnsimplifiedArea(t *testing.T) {
	square := []Position{{0, 0}, {0, 0.1}, {0.1, 0.1}, {0.1, 0}, {0, 0}}
	raw := RawGeometry{Kind: GeomPolygon, Polygon: [][]Position{square}}
	g, ok := projectGeometry(raw, 0)
	if !ok {
		t.Fatal("expected polygon to project")
	}
	ring := g.Polygon[0]
	// x = lon/360+0.5 is linear, but y uses the Mercator log formula, so the
	// projected ring is not a perfect square; just check the area is
	// positive and roughly the scale of a 0.1x0.1 degree cell near the
	// equator (projected side length 0.1/360 ~ 2.78e-4).
	side := 0.1 / 360
	approxArea := side * side
	if ring.Area <= 0 || ring.Area > approxArea*4 {
		t.Fatalf("got area %v, expected roughly on the order of %v", ring.Area, approxArea)
	}
}

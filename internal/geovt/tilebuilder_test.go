package geovt

import "testing"

func TestTileLineDropsShortLines(t *testing.T) {
	ls := &LineString{Points: []Point{{X: 0, Y: 0, Z: 1}, {X: 0.5, Y: 0, Z: 1}}, Dist: 0.5}
	_, _, ok := tileLine(ls, 1, 0, 0, 4096, 1.0)
	if ok {
		t.Fatal("expected the line to be dropped: dist (0.5) < tolerance (1.0)")
	}
}

func TestTileLineKeepsEndpointsAlwaysAndFiltersInteriorByScore(t *testing.T) {
	ls := &LineString{
		Points: []Point{
			{X: 0, Y: 0, Z: 1},
			{X: 0.3, Y: 0, Z: 0.0001}, // below tolerance: dropped
			{X: 0.6, Y: 0, Z: 0.5},    // above tolerance: kept
			{X: 1, Y: 0, Z: 1},
		},
		Dist: 10,
	}
	out, n, ok := tileLine(ls, 1, 0, 0, 4096, 0.01)
	if !ok {
		t.Fatal("expected line to survive")
	}
	if n != 3 {
		t.Fatalf("expected 3 surviving points, got %d", n)
	}
	if len(out.Points) != 3 {
		t.Fatalf("expected 3 points in output, got %d", len(out.Points))
	}
}

func TestTilePolygonDropsPolygonWhenOuterRingFails(t *testing.T) {
	outer := LinearRing{Points: []Point{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 0, Z: 1}}, Area: 0.001}
	hole := LinearRing{Points: []Point{{X: 0.4, Y: 0.4, Z: 1}, {X: 0.6, Y: 0.4, Z: 1}, {X: 0.5, Y: 0.6, Z: 1}, {X: 0.4, Y: 0.4, Z: 1}}, Area: 1}
	_, _, ok := tilePolygon([]LinearRing{outer, hole}, 1, 0, 0, 4096, 0.01)
	if ok {
		t.Fatal("expected the whole polygon to be dropped when the outer ring's area doesn't clear tolerance")
	}
}

func TestTilePolygonKeepsOuterRingAndDropsFailingHole(t *testing.T) {
	outer := LinearRing{Points: []Point{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 0, Z: 1}}, Area: 1}
	badHole := LinearRing{Points: []Point{{X: 0.4, Y: 0.4, Z: 1}, {X: 0.41, Y: 0.4, Z: 1}, {X: 0.405, Y: 0.41, Z: 1}, {X: 0.4, Y: 0.4, Z: 1}}, Area: 0.0001}
	rings, n, ok := tilePolygon([]LinearRing{outer, badHole}, 1, 0, 0, 4096, 0.01)
	if !ok {
		t.Fatal("expected the polygon (outer ring only) to survive")
	}
	if len(rings) != 1 {
		t.Fatalf("expected only the outer ring to survive, got %d rings", len(rings))
	}
	if n != 4 {
		t.Fatalf("expected 4 emitted points, got %d", n)
	}
}

func TestMultiPointCollapsesToPointWhenOneSurvives(t *testing.T) {
	g := Geometry{Kind: GeomMultiPoint, MultiPoint: []Point{{X: 0.1, Y: 0.1}}}
	out, n, ok := tileGeometry(g, 1, 0, 0, 4096, 0, 0)
	if !ok || out.Kind != GeomPoint || n != 1 {
		t.Fatalf("expected collapse to GeomPoint, got kind=%v ok=%v n=%d", out.Kind, ok, n)
	}
}

func TestClipNumberEmitsIntegerWhenWhole(t *testing.T) {
	if v, ok := clipNumber(0.5).(float64); !ok || v != 0.5 {
		t.Fatalf("expected float64(0.5), got %#v", clipNumber(0.5))
	}
	if v, ok := clipNumber(2.0).(int64); !ok || v != 2 {
		t.Fatalf("expected int64(2), got %#v", clipNumber(2.0))
	}
}

func TestBuildTileAggregatesPointCountAcrossFeatures(t *testing.T) {
	f1 := &Feature{Geometry: Geometry{Kind: GeomPoint, Point: Point{X: 0.1, Y: 0.1}}, PointCount: 1}
	f2 := &Feature{Geometry: Geometry{Kind: GeomPoint, Point: Point{X: 0.2, Y: 0.2}}, PointCount: 1}
	tile := buildTile([]*Feature{f1, f2}, 0, 0, 0, 4096, 0, false)
	if tile.PointCount != 2 {
		t.Fatalf("expected aggregated point count 2, got %d", tile.PointCount)
	}
	if len(tile.Features) != 2 {
		t.Fatalf("expected 2 output features, got %d", len(tile.Features))
	}
}

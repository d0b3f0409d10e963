package geovt

import (
	"errors"
	"testing"
)

func TestTileIDRoundTrips(t *testing.T) {
	cases := []struct{ z uint8; x, y uint32 }{
		{0, 0, 0},
		{5, 19, 9},
		{18, 131071, 90000},
		{24, 1<<24 - 1, 1<<24 - 1},
	}
	for _, c := range cases {
		key := tileID(c.z, c.x, c.y)
		z, x, y := DecodeTileKey(key)
		if z != c.z || x != c.x || y != c.y {
			t.Fatalf("roundtrip failed for (%d,%d,%d): got (%d,%d,%d)", c.z, c.x, c.y, z, x, y)
		}
	}
}

func TestNewRejectsInvalidMaxZoom(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxZoom = 0
	if _, err := New(nil, opts); !errors.Is(err, ErrInvalidMaxZoom) {
		t.Fatalf("expected ErrInvalidMaxZoom, got %v", err)
	}
	opts.MaxZoom = 25
	if _, err := New(nil, opts); !errors.Is(err, ErrInvalidMaxZoom) {
		t.Fatalf("expected ErrInvalidMaxZoom, got %v", err)
	}
}

func TestNewWithEmptyInputHasOnlyAnEmptyRootTile(t *testing.T) {
	idx, err := New(nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	tile, err := idx.GetTile(0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(tile.Features) != 0 {
		t.Fatalf("expected no features, got %d", len(tile.Features))
	}
}

func TestGetTileRejectsZoomAboveMax(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxZoom = 10
	idx, err := New(nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := idx.GetTile(11, 0, 0); !errors.Is(err, ErrZoomTooHigh) {
		t.Fatalf("expected ErrZoomTooHigh, got %v", err)
	}
}

func simplePointDataset(n int) []RawFeature {
	raw := make([]RawFeature, 0, n)
	for i := 0; i < n; i++ {
		lon := -170.0 + float64(i)*2.0
		raw = append(raw, RawFeature{
			Geometry: &RawGeometry{Kind: GeomPoint, Point: Position{lon, 10}},
		})
	}
	return raw
}

func TestGetTileIsIdempotent(t *testing.T) {
	idx, err := New(simplePointDataset(20), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	a, err := idx.GetTile(6, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	b, err := idx.GetTile(6, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Features) != len(b.Features) {
		t.Fatalf("idempotence violated: %d vs %d features", len(a.Features), len(b.Features))
	}
}

func TestGetTileWrapInvariance(t *testing.T) {
	idx, err := New(simplePointDataset(20), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	z := 4
	z2 := 1 << uint(z)
	a, err := idx.GetTile(z, 3, 5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := idx.GetTile(z, 3+z2, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Features) != len(b.Features) {
		t.Fatalf("wrap invariance violated: %d vs %d features", len(a.Features), len(b.Features))
	}
}

func TestSimplifiedCountNeverExceedsPointCount(t *testing.T) {
	idx, err := New(simplePointDataset(30), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range idx.TileCoords() {
		tile, err := idx.GetTile(int(tc.Z), int(tc.X), int(tc.Y))
		if err != nil {
			t.Fatal(err)
		}
		if tile.SimplifiedCount > tile.PointCount {
			t.Fatalf("tile (%d,%d,%d): simplifiedCount %d > pointCount %d", tc.Z, tc.X, tc.Y, tile.SimplifiedCount, tile.PointCount)
		}
	}
}

func TestStatsAndTotalTrackMaterializedTiles(t *testing.T) {
	idx, err := New(simplePointDataset(10), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	stats := idx.Stats()
	var sum uint32
	for _, n := range stats {
		sum += n
	}
	if int(sum) != idx.Total() {
		t.Fatalf("sum of per-zoom stats (%d) != Total() (%d)", sum, idx.Total())
	}
	if idx.Total() == 0 {
		t.Fatal("expected at least the root tile to be materialized")
	}
}

// TestPolygonCoveringWorldClipsToExpectedRing mirrors the spirit of the
// "polygon clip bug" scenario: a polygon covering nearly the whole world,
// queried at a deep zoom with a large buffer, must still produce a single,
// closed, non-degenerate ring rather than losing vertices to the ring
// off-by-one this package deliberately does not reproduce. The tile lies
// wholly inside the polygon, so the ring is the tile's buffered clip box,
// [-1024, 4096+1024] on both axes.
func TestPolygonCoveringWorldClipsToExpectedRing(t *testing.T) {
	worldSquare := []Position{
		{-179, -85}, {-179, 85}, {179, 85}, {179, -85}, {-179, -85},
	}
	raw := []RawFeature{
		{Geometry: &RawGeometry{Kind: GeomPolygon, Polygon: [][]Position{worldSquare}}},
	}
	opts := DefaultOptions()
	opts.Buffer = 1024
	opts.MaxZoom = 10
	opts.IndexMaxZoom = 10

	idx, err := New(raw, opts)
	if err != nil {
		t.Fatal(err)
	}
	tile, err := idx.GetTile(5, 19, 9)
	if err != nil {
		t.Fatal(err)
	}
	if len(tile.Features) != 1 {
		t.Fatalf("expected exactly 1 feature, got %d", len(tile.Features))
	}
	f := tile.Features[0]
	if f.Geometry.Kind != GeomPolygon {
		t.Fatalf("expected Polygon, got %v", f.Geometry.Kind)
	}
	ring := f.Geometry.Polygon[0]
	if len(ring.Points) < 4 {
		t.Fatalf("expected a closed ring with >= 4 points, got %d", len(ring.Points))
	}
	first, last := ring.Points[0], ring.Points[len(ring.Points)-1]
	if first.X != last.X || first.Y != last.Y {
		t.Fatal("ring must be closed")
	}
	want := [][2]float64{{-1024, 5120}, {-1024, -1024}, {5120, -1024}, {5120, 5120}, {-1024, 5120}}
	if len(ring.Points) != len(want) {
		t.Fatalf("expected %d ring points, got %d: %v", len(want), len(ring.Points), ring.Points)
	}
	for i, w := range want {
		if ring.Points[i].X != w[0] || ring.Points[i].Y != w[1] {
			t.Fatalf("ring point %d: got (%v,%v), want (%v,%v)", i, ring.Points[i].X, ring.Points[i].Y, w[0], w[1])
		}
	}
}

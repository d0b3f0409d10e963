package mvtencode

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/joeblew999/geovt/internal/geovt"
)

func sampleTile() geovt.Tile {
	return geovt.Tile{
		Features: []geovt.TileFeature{
			{
				ID:         int64(1),
				Geometry:   geovt.Geometry{Kind: geovt.GeomPoint, Point: geovt.Point{X: 100, Y: 200}},
				Properties: map[string]any{"name": "a"},
			},
			{
				ID: int64(2),
				Geometry: geovt.Geometry{
					Kind: geovt.GeomLineString,
					Line: &geovt.LineString{Points: []geovt.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}},
				},
			},
		},
		PointCount:      2,
		SimplifiedCount: 2,
	}
}

func TestEncodeProducesNonEmptyProtobuf(t *testing.T) {
	data, err := Encode(sampleTile(), "layer", 4096)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty MVT bytes")
	}
}

func TestEncodeGzippedProducesValidGzip(t *testing.T) {
	data, err := EncodeGzipped(sampleTile(), "layer", 4096)
	if err != nil {
		t.Fatal(err)
	}
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("expected valid gzip stream: %v", err)
	}
	defer gr.Close()
	plain, err := io.ReadAll(gr)
	if err != nil {
		t.Fatal(err)
	}
	if len(plain) == 0 {
		t.Fatal("expected non-empty decompressed MVT bytes")
	}
}

func TestToOrbGeometryHandlesEveryKind(t *testing.T) {
	cases := []geovt.Geometry{
		{Kind: geovt.GeomPoint, Point: geovt.Point{X: 1, Y: 2}},
		{Kind: geovt.GeomMultiPoint, MultiPoint: []geovt.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}},
		{Kind: geovt.GeomLineString, Line: &geovt.LineString{Points: []geovt.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}},
		{Kind: geovt.GeomPolygon, Polygon: []geovt.LinearRing{{Points: []geovt.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}}}},
	}
	for i, g := range cases {
		if og := toOrbGeometry(g); og == nil {
			t.Fatalf("case %d: expected a non-nil orb.Geometry for kind %v", i, g.Kind)
		}
	}
}

func TestEncodeSkipsEmptyTileWithoutError(t *testing.T) {
	data, err := Encode(geovt.Tile{}, "layer", 4096)
	if err != nil {
		t.Fatal(err)
	}
	if data == nil {
		t.Fatal("expected a (possibly empty-layer) protobuf payload, not nil")
	}
}

// Package convert is the parsing boundary between orb/geojson's parsed
// feature trees and geovt's own input types. geovt never imports orb: it
// only knows about plain [lon, lat] positions, so any parser could sit
// behind this package without touching the core pipeline.
package convert

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/geovt/internal/geovt"
)

// FeatureCollection converts a parsed GeoJSON feature collection into the
// raw features geovt.New accepts.
func FeatureCollection(fc *geojson.FeatureCollection) []geovt.RawFeature {
	out := make([]geovt.RawFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, Feature(f))
	}
	return out
}

// Feature converts a single parsed GeoJSON feature.
func Feature(f *geojson.Feature) geovt.RawFeature {
	if f.Geometry == nil {
		return geovt.RawFeature{ID: f.ID, Properties: map[string]any(f.Properties)}
	}
	g := Geometry(f.Geometry)
	return geovt.RawFeature{
		ID:         f.ID,
		Geometry:   &g,
		Properties: map[string]any(f.Properties),
	}
}

// Geometry converts a bare orb geometry tree.
func Geometry(g orb.Geometry) geovt.RawGeometry {
	switch geom := g.(type) {
	case orb.Point:
		return geovt.RawGeometry{Kind: geovt.GeomPoint, Point: position(geom)}

	case orb.MultiPoint:
		return geovt.RawGeometry{Kind: geovt.GeomMultiPoint, MultiPoint: positions(geom)}

	case orb.LineString:
		return geovt.RawGeometry{Kind: geovt.GeomLineString, LineString: positions(geom)}

	case orb.MultiLineString:
		lines := make([][]geovt.Position, len(geom))
		for i, l := range geom {
			lines[i] = positions(l)
		}
		return geovt.RawGeometry{Kind: geovt.GeomMultiLineString, MultiLine: lines}

	case orb.Ring:
		return geovt.RawGeometry{Kind: geovt.GeomLineString, LineString: positions(orb.LineString(geom))}

	case orb.Polygon:
		return geovt.RawGeometry{Kind: geovt.GeomPolygon, Polygon: polygonRings(geom)}

	case orb.MultiPolygon:
		polys := make([][][]geovt.Position, len(geom))
		for i, p := range geom {
			polys[i] = polygonRings(p)
		}
		return geovt.RawGeometry{Kind: geovt.GeomMultiPolygon, MultiPolygon: polys}

	case orb.Collection:
		members := make([]geovt.RawGeometry, len(geom))
		for i, m := range geom {
			members[i] = Geometry(m)
		}
		return geovt.RawGeometry{Kind: geovt.GeomCollection, Collection: members}
	}
	return geovt.RawGeometry{}
}

func position(p orb.Point) geovt.Position {
	return geovt.Position{p[0], p[1]}
}

func positions(ps []orb.Point) []geovt.Position {
	out := make([]geovt.Position, len(ps))
	for i, p := range ps {
		out[i] = position(p)
	}
	return out
}

func polygonRings(p orb.Polygon) [][]geovt.Position {
	out := make([][]geovt.Position, len(p))
	for i, r := range p {
		out[i] = positions(r)
	}
	return out
}

// Normalize accepts whatever a GeoJSON document's top level unmarshals to —
// a FeatureCollection, a single Feature, or a bare Geometry — and always
// returns a flat slice of raw features, applying the wrapping rule from the
// parsing boundary: a bare Geometry becomes a single property-less Feature,
// and a bare Feature becomes a single-element collection.
func Normalize(doc any) []geovt.RawFeature {
	switch v := doc.(type) {
	case *geojson.FeatureCollection:
		return FeatureCollection(v)
	case *geojson.Feature:
		return []geovt.RawFeature{Feature(v)}
	case orb.Geometry:
		g := Geometry(v)
		return []geovt.RawFeature{{Geometry: &g}}
	default:
		return nil
	}
}

// BuildIndex parses raw GeoJSON bytes and constructs a geovt.Index in one
// call, for the common case where a caller has a file on disk and no
// intermediate use for the parsed tree.
func BuildIndex(data []byte, opts geovt.Options) (*geovt.Index, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err == nil {
		return geovt.New(FeatureCollection(fc), opts)
	}

	if f, ferr := geojson.UnmarshalFeature(data); ferr == nil {
		return geovt.New([]geovt.RawFeature{Feature(f)}, opts)
	}

	g, gerr := geojson.UnmarshalGeometry(data)
	if gerr != nil {
		return nil, err
	}
	raw := Geometry(g.Geometry())
	return geovt.New([]geovt.RawFeature{{Geometry: &raw}}, opts)
}

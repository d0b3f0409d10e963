// Package mvtencode is the downstream encoding boundary: it turns an
// already-clipped, already-simplified, already tile-local geovt.Tile into
// Mapbox Vector Tile protobuf bytes. It performs no geometric work of its
// own — Clip/Simplify/ProjectToTile, the orb mvt.Layer convenience methods
// that do that work from world coordinates, are deliberately never called
// here, since the tile handed in has already been through geovt's own
// clipper, simplifier and tile builder.
package mvtencode

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/geovt/internal/geovt"
)

// Encode serializes tile as a single-layer MVT protobuf payload.
func Encode(tile geovt.Tile, layerName string, extent int) ([]byte, error) {
	layer := toLayer(tile, layerName, extent)
	return mvt.Marshal(mvt.Layers{layer})
}

// EncodeGzipped is Encode followed by gzip compression, the form MVT tiles
// are conventionally served and archived in.
func EncodeGzipped(tile geovt.Tile, layerName string, extent int) ([]byte, error) {
	layer := toLayer(tile, layerName, extent)
	return mvt.MarshalGzipped(mvt.Layers{layer})
}

func toLayer(tile geovt.Tile, layerName string, extent int) *mvt.Layer {
	fc := geojson.NewFeatureCollection()
	for _, tf := range tile.Features {
		g := toOrbGeometry(tf.Geometry)
		if g == nil {
			continue
		}
		f := geojson.NewFeature(g)
		f.ID = tf.ID
		for k, v := range tf.Properties {
			f.Properties[k] = v
		}
		fc.Append(f)
	}

	layer := mvt.NewLayer(layerName, fc)
	layer.Extent = uint32(extent)
	return layer
}

func toOrbPoint(p geovt.Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

func toOrbGeometry(g geovt.Geometry) orb.Geometry {
	switch g.Kind {
	case geovt.GeomPoint:
		return toOrbPoint(g.Point)

	case geovt.GeomMultiPoint:
		mp := make(orb.MultiPoint, len(g.MultiPoint))
		for i, p := range g.MultiPoint {
			mp[i] = toOrbPoint(p)
		}
		return mp

	case geovt.GeomLineString:
		return toOrbLineString(g.Line)

	case geovt.GeomMultiLineString:
		mls := make(orb.MultiLineString, len(g.MultiLine))
		for i := range g.MultiLine {
			mls[i] = toOrbLineString(&g.MultiLine[i])
		}
		return mls

	case geovt.GeomPolygon:
		return toOrbPolygon(g.Polygon)

	case geovt.GeomMultiPolygon:
		mp := make(orb.MultiPolygon, len(g.MultiPolygon))
		for i, p := range g.MultiPolygon {
			mp[i] = toOrbPolygon(p)
		}
		return mp

	case geovt.GeomCollection:
		coll := make(orb.Collection, 0, len(g.Collection))
		for _, m := range g.Collection {
			if og := toOrbGeometry(m); og != nil {
				coll = append(coll, og)
			}
		}
		return coll
	}
	return nil
}

func toOrbLineString(l *geovt.LineString) orb.LineString {
	ls := make(orb.LineString, len(l.Points))
	for i, p := range l.Points {
		ls[i] = toOrbPoint(p)
	}
	return ls
}

func toOrbPolygon(rings []geovt.LinearRing) orb.Polygon {
	poly := make(orb.Polygon, len(rings))
	for i, r := range rings {
		ring := make(orb.Ring, len(r.Points))
		for j, p := range r.Points {
			ring[j] = toOrbPoint(p)
		}
		poly[i] = ring
	}
	return poly
}

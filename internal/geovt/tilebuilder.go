package geovt

import "math"

// Tile is the materialized, tile-local output of one quadtree cell:
// features in integer (stored as float64) coordinates, plus the aggregate
// point counts used to judge how aggressively this tile was simplified.
type Tile struct {
	Features        []TileFeature
	PointCount      int
	SimplifiedCount int
}

// TileFeature is one feature re-expressed in a Tile's local grid. Geometry
// reuses the same variant type the core pipeline uses throughout — only the
// point coordinates' meaning changes, from normalized Mercator to tile-local
// integers; Dist/Area/SegStart/SegEnd on nested Line/Ring values are carried
// through unchanged from the source feature and are no longer meaningful
// once transformed, except for SegStart/SegEnd which back the clip-start/end
// properties below.
type TileFeature struct {
	ID         any
	Geometry   Geometry
	Properties map[string]any
}

// emptyTile is the single shared value returned for any tile coordinate that
// materializes to nothing — a degenerate request is not an error (§7).
var emptyTile = Tile{}

// buildTile runs the Tile Builder: transform to tile-local coordinates,
// tolerance-based vertex dropping per §4.4, and Multi*-to-singular
// collapsing. tolerance is expressed in projected (pre-transform) world
// units, already computed by the caller for this tile's zoom; sqTolerance,
// its square, is derived here for the ring filters.
func buildTile(features []*Feature, z, x, y uint32, extent int, tolerance float64, lineMetrics bool) Tile {
	z2 := float64(uint64(1) << z)
	sqTolerance := tolerance * tolerance
	fx, fy := float64(x), float64(y)

	tile := Tile{}
	for _, f := range features {
		tile.PointCount += f.PointCount

		g, n, ok := tileGeometry(f.Geometry, z2, fx, fy, extent, tolerance, sqTolerance)
		if !ok {
			continue
		}
		tile.SimplifiedCount += n

		props := f.Properties
		if lineMetrics && g.Kind == GeomLineString && g.Line.Dist > 0 {
			props = withClipProps(props, g.Line.SegStart/g.Line.Dist, g.Line.SegEnd/g.Line.Dist)
		}

		tile.Features = append(tile.Features, TileFeature{
			ID:         f.ID,
			Geometry:   g,
			Properties: props,
		})
	}
	return tile
}

// withClipProps returns a copy of props (never mutating the shared source
// map) with mapbox_clip_start/end added, each emitted as an integer when the
// quotient happens to be a whole number and as a float otherwise.
func withClipProps(props map[string]any, start, end float64) map[string]any {
	out := make(map[string]any, len(props)+2)
	for k, v := range props {
		out[k] = v
	}
	out["mapbox_clip_start"] = clipNumber(start)
	out["mapbox_clip_end"] = clipNumber(end)
	return out
}

func clipNumber(v float64) any {
	if v == math.Trunc(v) {
		return int64(v)
	}
	return v
}

func transformPoint(p Point, z2, x, y float64, extent int) Point {
	return Point{
		X: math.Round((p.X*z2 - x) * float64(extent)),
		Y: math.Round((p.Y*z2 - y) * float64(extent)),
	}
}

// tileGeometry transforms and tolerance-filters one geometry tree, returning
// the number of vertices actually emitted and whether anything survived.
func tileGeometry(g Geometry, z2, x, y float64, extent int, tolerance, sqTolerance float64) (Geometry, int, bool) {
	switch g.Kind {
	case GeomPoint:
		return Geometry{Kind: GeomPoint, Point: transformPoint(g.Point, z2, x, y, extent)}, 1, true

	case GeomMultiPoint:
		pts := make([]Point, len(g.MultiPoint))
		for i, p := range g.MultiPoint {
			pts[i] = transformPoint(p, z2, x, y, extent)
		}
		if len(pts) == 1 {
			return Geometry{Kind: GeomPoint, Point: pts[0]}, 1, true
		}
		return Geometry{Kind: GeomMultiPoint, MultiPoint: pts}, len(pts), true

	case GeomLineString:
		ls, n, ok := tileLine(g.Line, z2, x, y, extent, tolerance)
		if !ok {
			return Geometry{}, 0, false
		}
		return Geometry{Kind: GeomLineString, Line: ls}, n, true

	case GeomMultiLineString:
		var lines []LineString
		total := 0
		for i := range g.MultiLine {
			if ls, n, ok := tileLine(&g.MultiLine[i], z2, x, y, extent, tolerance); ok {
				lines = append(lines, *ls)
				total += n
			}
		}
		switch len(lines) {
		case 0:
			return Geometry{}, 0, false
		case 1:
			return Geometry{Kind: GeomLineString, Line: &lines[0]}, total, true
		default:
			return Geometry{Kind: GeomMultiLineString, MultiLine: lines}, total, true
		}

	case GeomPolygon:
		rings, n, ok := tilePolygon(g.Polygon, z2, x, y, extent, sqTolerance)
		if !ok {
			return Geometry{}, 0, false
		}
		return Geometry{Kind: GeomPolygon, Polygon: rings}, n, true

	case GeomMultiPolygon:
		var polys [][]LinearRing
		total := 0
		for _, p := range g.MultiPolygon {
			if rings, n, ok := tilePolygon(p, z2, x, y, extent, sqTolerance); ok {
				polys = append(polys, rings)
				total += n
			}
		}
		switch len(polys) {
		case 0:
			return Geometry{}, 0, false
		case 1:
			return Geometry{Kind: GeomPolygon, Polygon: polys[0]}, total, true
		default:
			return Geometry{Kind: GeomMultiPolygon, MultiPolygon: polys}, total, true
		}

	case GeomCollection:
		var members []Geometry
		total := 0
		for _, m := range g.Collection {
			if cg, n, ok := tileGeometry(m, z2, x, y, extent, tolerance, sqTolerance); ok {
				members = append(members, cg)
				total += n
			}
		}
		if len(members) == 0 {
			return Geometry{}, 0, false
		}
		return Geometry{Kind: GeomCollection, Collection: members}, total, true
	}
	return Geometry{}, 0, false
}

// tileLine drops the whole line if its projected length never cleared
// tolerance, then keeps only endpoints (z == 1, always) and interior
// vertices whose Douglas-Peucker score clears tolerance. The comparison is
// against tolerance, not its square, matching §4.4 literally even though z
// itself is a squared distance — the same asymmetry does not apply to
// rings, see tilePolygon.
func tileLine(l *LineString, z2, x, y float64, extent int, tolerance float64) (*LineString, int, bool) {
	if l.Dist < tolerance {
		return nil, 0, false
	}
	pts := make([]Point, 0, len(l.Points))
	for _, p := range l.Points {
		if p.Z > tolerance {
			pts = append(pts, transformPoint(p, z2, x, y, extent))
		}
	}
	if len(pts) < 2 {
		return nil, 0, false
	}
	return &LineString{Points: pts, Dist: l.Dist, SegStart: l.SegStart, SegEnd: l.SegEnd}, len(pts), true
}

// tilePolygon drops rings whose unsimplified area doesn't clear
// sq_tolerance; losing the outer ring (index 0, rings are outer-first) drops
// the whole polygon since holes without an outer boundary are meaningless.
func tilePolygon(rings []LinearRing, z2, x, y float64, extent int, sqTolerance float64) ([]LinearRing, int, bool) {
	out := make([]LinearRing, 0, len(rings))
	total := 0
	for i, r := range rings {
		if r.Area <= sqTolerance {
			if i == 0 {
				return nil, 0, false
			}
			continue
		}
		pts := make([]Point, 0, len(r.Points))
		for _, p := range r.Points {
			if p.Z > sqTolerance {
				pts = append(pts, transformPoint(p, z2, x, y, extent))
			}
		}
		if len(pts) < 4 {
			if i == 0 {
				return nil, 0, false
			}
			continue
		}
		out = append(out, LinearRing{Points: pts, Area: r.Area})
		total += len(pts)
	}
	if len(out) == 0 {
		return nil, 0, false
	}
	return out, total, true
}

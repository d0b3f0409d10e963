package geovt

import "math"

// projectPosition converts a [lon, lat] position to normalized Web-Mercator
// coordinates. Longitudes outside [-180, 180] project outside [0, 1]; the
// Wrapper is responsible for folding those back into view. Latitude is
// clamped to the valid Mercator range by the y formula itself approaching
// +/-infinity at the poles, so callers passing |lat| >= 90 get y saturated
// to [0, 1] by the final clamp below.
func projectPosition(p Position) Point {
	lon, lat := p[0], p[1]
	x := lon/360 + 0.5
	sinPhi := math.Sin(lat * math.Pi / 180)
	y := 0.5 - (1/(4*math.Pi))*math.Log((1+sinPhi)/(1-sinPhi))
	if y < 0 {
		y = 0
	} else if y > 1 {
		y = 1
	}
	return Point{X: x, Y: y}
}

// projectFeatures converts a batch of raw, parser-supplied features into
// projected, simplified Features. ID generation (when genID is true) counts
// every raw feature that carries a non-nil Geometry, independent of whether
// that geometry survives projection with any points — a feature with an
// empty coordinate array still consumes a slot in the sequence.
func projectFeatures(raw []RawFeature, genID bool, sqTolerance float64) []*Feature {
	out := make([]*Feature, 0, len(raw))
	var nextID int
	for _, rf := range raw {
		if rf.Geometry == nil {
			continue
		}
		id := nextID
		nextID++

		geom, ok := projectGeometry(*rf.Geometry, sqTolerance)
		if !ok {
			continue
		}

		f := &Feature{
			ID:         rf.ID,
			Geometry:   geom,
			Properties: rf.Properties,
			BBox:       EmptyBBox(),
		}
		if genID {
			f.ID = id
		}
		computeBBoxAndCount(f)
		out = append(out, f)
	}
	return out
}

// projectGeometry projects a single raw geometry tree, dropping empty
// components. ok is false when the geometry (or every member of a multi/
// collection geometry) turns out to be empty after projection.
func projectGeometry(raw RawGeometry, sqTolerance float64) (Geometry, bool) {
	switch raw.Kind {
	case GeomPoint:
		if len(raw.Point) < 2 {
			return Geometry{}, false
		}
		return Geometry{Kind: GeomPoint, Point: projectPosition(raw.Point)}, true

	case GeomMultiPoint:
		pts := make([]Point, 0, len(raw.MultiPoint))
		for _, p := range raw.MultiPoint {
			if len(p) < 2 {
				continue
			}
			pts = append(pts, projectPosition(p))
		}
		if len(pts) == 0 {
			return Geometry{}, false
		}
		return Geometry{Kind: GeomMultiPoint, MultiPoint: pts}, true

	case GeomLineString:
		ls, ok := projectLine(raw.LineString, sqTolerance)
		if !ok {
			return Geometry{}, false
		}
		return Geometry{Kind: GeomLineString, Line: ls}, true

	case GeomMultiLineString:
		lines := make([]LineString, 0, len(raw.MultiLine))
		for _, coords := range raw.MultiLine {
			if ls, ok := projectLine(coords, sqTolerance); ok {
				lines = append(lines, *ls)
			}
		}
		if len(lines) == 0 {
			return Geometry{}, false
		}
		return Geometry{Kind: GeomMultiLineString, MultiLine: lines}, true

	case GeomPolygon:
		rings := projectPolygon(raw.Polygon, sqTolerance)
		if len(rings) == 0 {
			return Geometry{}, false
		}
		return Geometry{Kind: GeomPolygon, Polygon: rings}, true

	case GeomMultiPolygon:
		polys := make([][]LinearRing, 0, len(raw.MultiPolygon))
		for _, p := range raw.MultiPolygon {
			if rings := projectPolygon(p, sqTolerance); len(rings) > 0 {
				polys = append(polys, rings)
			}
		}
		if len(polys) == 0 {
			return Geometry{}, false
		}
		return Geometry{Kind: GeomMultiPolygon, MultiPolygon: polys}, true

	case GeomCollection:
		members := make([]Geometry, 0, len(raw.Collection))
		for _, m := range raw.Collection {
			if g, ok := projectGeometry(m, sqTolerance); ok {
				members = append(members, g)
			}
		}
		if len(members) == 0 {
			return Geometry{}, false
		}
		return Geometry{Kind: GeomCollection, Collection: members}, true
	}
	return Geometry{}, false
}

// projectLine projects and simplifies one line string, accumulating its
// planar length as it goes.
func projectLine(coords []Position, sqTolerance float64) (*LineString, bool) {
	if len(coords) == 0 {
		return nil, false
	}
	pts := make([]Point, 0, len(coords))
	var dist float64
	var prev Point
	for i, c := range coords {
		if len(c) < 2 {
			continue
		}
		p := projectPosition(c)
		if i > 0 && len(pts) > 0 {
			dist += planarDist(prev, p)
		}
		prev = p
		pts = append(pts, p)
	}
	if len(pts) == 0 {
		return nil, false
	}
	simplifyDP(pts, sqTolerance)
	return &LineString{Points: pts, Dist: dist}, true
}

// projectPolygon projects every ring of a polygon, accumulating shoelace
// area per ring before simplification. A polygon whose outer ring fails to
// project is dropped entirely, since a hole-only polygon is meaningless;
// a polygon whose hole fails to project simply proceeds without that hole.
func projectPolygon(rawRings [][]Position, sqTolerance float64) []LinearRing {
	rings := make([]LinearRing, 0, len(rawRings))
	for i, coords := range rawRings {
		ring, ok := projectRing(coords, sqTolerance)
		if !ok {
			if i == 0 {
				return nil
			}
			continue
		}
		rings = append(rings, *ring)
	}
	return rings
}

func projectRing(coords []Position, sqTolerance float64) (*LinearRing, bool) {
	if len(coords) == 0 {
		return nil, false
	}
	pts := make([]Point, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		pts = append(pts, projectPosition(c))
	}
	if len(pts) == 0 {
		return nil, false
	}

	var sum float64
	for i := 0; i < len(pts); i++ {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	area := math.Abs(sum) / 2

	simplifyDP(pts, sqTolerance)
	return &LinearRing{Points: pts, Area: area}, true
}

func planarDist(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// computeBBoxAndCount performs the single post-projection traversal that
// fills in a Feature's bbox and pre-simplification point count.
func computeBBoxAndCount(f *Feature) {
	bbox := EmptyBBox()
	count := 0
	var walk func(g Geometry)
	extend := func(p Point) {
		count++
		if p.X < bbox.MinX {
			bbox.MinX = p.X
		}
		if p.Y < bbox.MinY {
			bbox.MinY = p.Y
		}
		if p.X > bbox.MaxX {
			bbox.MaxX = p.X
		}
		if p.Y > bbox.MaxY {
			bbox.MaxY = p.Y
		}
	}
	walk = func(g Geometry) {
		switch g.Kind {
		case GeomPoint:
			extend(g.Point)
		case GeomMultiPoint:
			for _, p := range g.MultiPoint {
				extend(p)
			}
		case GeomLineString:
			for _, p := range g.Line.Points {
				extend(p)
			}
		case GeomMultiLineString:
			for _, l := range g.MultiLine {
				for _, p := range l.Points {
					extend(p)
				}
			}
		case GeomPolygon:
			for _, r := range g.Polygon {
				for _, p := range r.Points {
					extend(p)
				}
			}
		case GeomMultiPolygon:
			for _, poly := range g.MultiPolygon {
				for _, r := range poly {
					for _, p := range r.Points {
						extend(p)
					}
				}
			}
		case GeomCollection:
			for _, m := range g.Collection {
				walk(m)
			}
		}
	}
	walk(f.Geometry)
	f.BBox = bbox
	f.PointCount = count
}

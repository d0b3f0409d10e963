package geovt

// Clip intersects features against the strip [k1, k2] (both bounds
// inclusive) along axis A, returning the clipped features; when the whole
// batch already lies inside the strip the input slice itself is returned.
// minAll/maxAll are the axis-wide bounds
// of the whole input batch, letting the two fast paths below skip per-
// feature work entirely when the batch is wholly inside or wholly outside
// the strip. The returned features are new values except where a feature's
// own bbox is already wholly inside the strip, in which case the original
// pointer is passed through unchanged — geometry is logically immutable, so
// sharing is safe and avoids a clone on the (common) pass-through case.
func Clip[A Axis](axis A, features []*Feature, k1, k2, minAll, maxAll float64, lineMetrics bool) []*Feature {
	if minAll >= k1 && maxAll <= k2 {
		return features
	}
	if maxAll < k1 || minAll > k2 {
		return nil
	}

	out := make([]*Feature, 0, len(features))
	for _, f := range features {
		if f.BBox.IsEmpty() {
			continue
		}
		if axis.bboxMin(f.BBox) >= k1 && axis.bboxMax(f.BBox) <= k2 {
			out = append(out, f)
			continue
		}
		if axis.bboxMax(f.BBox) < k1 || axis.bboxMin(f.BBox) > k2 {
			continue
		}

		if lineMetrics && (f.Geometry.Kind == GeomLineString || f.Geometry.Kind == GeomMultiLineString) {
			out = append(out, clipLineFeatureMetrics(axis, f, k1, k2)...)
			continue
		}

		g, ok := clipGeometryAxis(axis, f.Geometry, k1, k2, lineMetrics)
		if !ok {
			continue
		}
		out = append(out, &Feature{
			ID:         f.ID,
			Properties: f.Properties,
			Geometry:   g,
			PointCount: f.PointCount,
			BBox:       bboxOfGeometry(g),
		})
	}
	return out
}

// clipLineFeatureMetrics clips a line-metrics feature into one output
// Feature per retained sub-run, each carrying its own (SegStart, SegEnd)
// pair. This is the split spec.4.2 requires so downstream consumers see a
// single metrics pair per feature rather than per MultiLineString member.
func clipLineFeatureMetrics[A Axis](axis A, f *Feature, k1, k2 float64) []*Feature {
	var slices []*LineString
	switch f.Geometry.Kind {
	case GeomLineString:
		slices = clipLineAxis(axis, f.Geometry.Line, k1, k2, true)
	case GeomMultiLineString:
		for i := range f.Geometry.MultiLine {
			slices = append(slices, clipLineAxis(axis, &f.Geometry.MultiLine[i], k1, k2, true)...)
		}
	}
	out := make([]*Feature, 0, len(slices))
	for _, ls := range slices {
		g := Geometry{Kind: GeomLineString, Line: ls}
		out = append(out, &Feature{
			ID:         f.ID,
			Properties: f.Properties,
			Geometry:   g,
			PointCount: f.PointCount,
			BBox:       bboxOfGeometry(g),
		})
	}
	return out
}

// clipGeometryAxis clips one geometry tree against the strip, collapsing
// every LineString/Polygon slice count back into a single geometry value
// (MultiLineString/MultiPolygon members, never additional features) — the
// per-feature split only happens for the line-metrics path above.
func clipGeometryAxis[A Axis](axis A, g Geometry, k1, k2 float64, lineMetrics bool) (Geometry, bool) {
	switch g.Kind {
	case GeomPoint:
		if c := axis.coord(g.Point); c >= k1 && c <= k2 {
			return g, true
		}
		return Geometry{}, false

	case GeomMultiPoint:
		pts := make([]Point, 0, len(g.MultiPoint))
		for _, p := range g.MultiPoint {
			if c := axis.coord(p); c >= k1 && c <= k2 {
				pts = append(pts, p)
			}
		}
		if len(pts) == 0 {
			return Geometry{}, false
		}
		return Geometry{Kind: GeomMultiPoint, MultiPoint: pts}, true

	case GeomLineString:
		return collapseLines(clipLineAxis(axis, g.Line, k1, k2, false))

	case GeomMultiLineString:
		var slices []*LineString
		for i := range g.MultiLine {
			slices = append(slices, clipLineAxis(axis, &g.MultiLine[i], k1, k2, false)...)
		}
		return collapseLines(slices)

	case GeomPolygon:
		rings := clipPolygonAxis(axis, g.Polygon, k1, k2)
		if len(rings) == 0 {
			return Geometry{}, false
		}
		return Geometry{Kind: GeomPolygon, Polygon: rings}, true

	case GeomMultiPolygon:
		polys := make([][]LinearRing, 0, len(g.MultiPolygon))
		for _, p := range g.MultiPolygon {
			if rings := clipPolygonAxis(axis, p, k1, k2); len(rings) > 0 {
				polys = append(polys, rings)
			}
		}
		if len(polys) == 0 {
			return Geometry{}, false
		}
		return Geometry{Kind: GeomMultiPolygon, MultiPolygon: polys}, true

	case GeomCollection:
		members := make([]Geometry, 0, len(g.Collection))
		for _, m := range g.Collection {
			if cm, ok := clipGeometryAxis(axis, m, k1, k2, lineMetrics); ok {
				members = append(members, cm)
			}
		}
		if len(members) == 0 {
			return Geometry{}, false
		}
		return Geometry{Kind: GeomCollection, Collection: members}, true
	}
	return Geometry{}, false
}

func collapseLines(slices []*LineString) (Geometry, bool) {
	switch len(slices) {
	case 0:
		return Geometry{}, false
	case 1:
		return Geometry{Kind: GeomLineString, Line: slices[0]}, true
	default:
		lines := make([]LineString, len(slices))
		for i, s := range slices {
			lines[i] = *s
		}
		return Geometry{Kind: GeomMultiLineString, MultiLine: lines}, true
	}
}

func clipPolygonAxis[A Axis](axis A, rings []LinearRing, k1, k2 float64) []LinearRing {
	out := make([]LinearRing, 0, len(rings))
	for i, r := range rings {
		clipped := clipRingAxis(axis, r, k1, k2)
		if len(clipped) == 0 {
			if i == 0 {
				return nil
			}
			continue
		}
		out = append(out, clipped...)
	}
	return out
}

// clipRingAxis clips a closed ring with Sutherland-Hodgman restricted to one
// axis, accumulating a single vertex list rather than splitting into
// multiple sub-runs the way line clipping does: a ring's clipped result is
// always at most one polygon boundary, never several disjoint pieces. The
// walk covers the ring's n-1 real edges (point n-1 repeats point 0), also
// emits the closing edge's second endpoint when it lies inside the strip
// (i == n-2, the fix for an off-by-one that silences that case in some
// published ports), and
// re-closes the result by repeating its first point if the walk didn't
// already end on it. A result under 4 points (3 distinct vertices plus the
// closing repeat) can't bound an area and is dropped.
func clipRingAxis[A Axis](axis A, ring LinearRing, k1, k2 float64) []LinearRing {
	pts := ring.Points
	n := len(pts)
	if n < 2 {
		return nil
	}

	lerp := func(a, b Point, t float64) Point {
		return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t, Z: 1}
	}

	var out []Point
	for i := 0; i < n-1; i++ {
		a, b := pts[i], pts[i+1]
		ak, bk := axis.coord(a), axis.coord(b)
		isLastSeg := i == n-2

		switch {
		case ak >= k1 && ak <= k2:
			out = append(out, a)
			switch {
			case bk < k1:
				out = append(out, lerp(a, b, (k1-ak)/(bk-ak)))
			case bk > k2:
				out = append(out, lerp(a, b, (k2-ak)/(bk-ak)))
			}
		case ak < k1:
			switch {
			case bk > k2:
				out = append(out, lerp(a, b, (k1-ak)/(bk-ak)))
				out = append(out, lerp(a, b, (k2-ak)/(bk-ak)))
			case bk >= k1:
				out = append(out, lerp(a, b, (k1-ak)/(bk-ak)))
			}
		default: // ak > k2
			switch {
			case bk < k1:
				out = append(out, lerp(a, b, (k2-ak)/(bk-ak)))
				out = append(out, lerp(a, b, (k1-ak)/(bk-ak)))
			case bk <= k2:
				out = append(out, lerp(a, b, (k2-ak)/(bk-ak)))
			}
		}

		if isLastSeg && bk >= k1 && bk <= k2 {
			out = append(out, b)
		}
	}

	if len(out) == 0 {
		return nil
	}
	first, last := out[0], out[len(out)-1]
	if first.X != last.X || first.Y != last.Y {
		out = append(out, Point{X: first.X, Y: first.Y, Z: first.Z})
	}
	if len(out) < 4 {
		return nil
	}
	return []LinearRing{{Points: out, Area: ring.Area}}
}

// clipLineAxis walks consecutive segments of pts and emits the sub-runs that
// lie within [k1, k2], splitting at every boundary crossing. This is the
// mapbox/geojson-vt clipLine algorithm: each segment's endpoints are
// classified against the strip and handled by one of five cases — both
// outside the same side (skip), enter-from-left/right possibly straight
// through to the opposite side (split into an entry+exit crossing, closing
// the current slice), enter-from-left/right stopping inside (single entry
// crossing), or starting inside (append then possibly exit). The final
// point is appended separately once the loop ends, since it has no "next"
// segment to classify it against.
func clipLineAxis[A Axis](axis A, line *LineString, k1, k2 float64, lineMetrics bool) []*LineString {
	pts := line.Points
	n := len(pts)
	if n == 0 {
		return nil
	}

	var out []*LineString
	var cur []Point
	var segStart float64
	var trackLen float64

	lerp := func(a, b Point, t float64) Point {
		return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t, Z: 1}
	}

	flush := func(segEnd float64) {
		if len(cur) == 0 {
			return
		}
		ls := &LineString{Points: cur, Dist: line.Dist}
		if lineMetrics {
			ls.SegStart = segStart
			ls.SegEnd = segEnd
		}
		out = append(out, ls)
		cur = nil
	}

	for i := 0; i < n-1; i++ {
		a, b := pts[i], pts[i+1]
		ak, bk := axis.coord(a), axis.coord(b)

		var segLen float64
		if lineMetrics {
			segLen = planarDist(a, b)
		}

		switch {
		case ak < k1:
			switch {
			case bk > k2:
				t1 := (k1 - ak) / (bk - ak)
				if lineMetrics {
					segStart = trackLen + segLen*t1
				}
				cur = append(cur, lerp(a, b, t1))
				t2 := (k2 - ak) / (bk - ak)
				cur = append(cur, lerp(a, b, t2))
				end := 0.0
				if lineMetrics {
					end = trackLen + segLen*t2
				}
				flush(end)
			case bk >= k1:
				t := (k1 - ak) / (bk - ak)
				if lineMetrics {
					segStart = trackLen + segLen*t
				}
				cur = append(cur, lerp(a, b, t))
			}

		case ak > k2:
			switch {
			case bk < k1:
				t1 := (k2 - ak) / (bk - ak)
				if lineMetrics {
					segStart = trackLen + segLen*t1
				}
				cur = append(cur, lerp(a, b, t1))
				t2 := (k1 - ak) / (bk - ak)
				cur = append(cur, lerp(a, b, t2))
				end := 0.0
				if lineMetrics {
					end = trackLen + segLen*t2
				}
				flush(end)
			case bk <= k2:
				t := (k2 - ak) / (bk - ak)
				if lineMetrics {
					segStart = trackLen + segLen*t
				}
				cur = append(cur, lerp(a, b, t))
			}

		default:
			cur = append(cur, a)
			switch {
			case bk < k1:
				t := (k1 - ak) / (bk - ak)
				cur = append(cur, lerp(a, b, t))
				end := 0.0
				if lineMetrics {
					end = trackLen + segLen*t
				}
				flush(end)
			case bk > k2:
				t := (k2 - ak) / (bk - ak)
				cur = append(cur, lerp(a, b, t))
				end := 0.0
				if lineMetrics {
					end = trackLen + segLen*t
				}
				flush(end)
			}
		}

		if lineMetrics {
			trackLen += segLen
		}
	}

	last := pts[n-1]
	if lk := axis.coord(last); lk >= k1 && lk <= k2 {
		cur = append(cur, last)
	}
	flush(trackLen)

	return out
}

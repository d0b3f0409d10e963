package geovt

// Wrap produces features spanning the buffered world tile [-buffer, 1+buffer]
// by clipping out the left and right antimeridian-crossing copies and
// shifting them back into the main [0,1] range, rather than special-casing
// date-line crossing during projection. buffer is expressed in world-
// normalized units (already divided by extent by the caller).
func Wrap(features []*Feature, buffer float64, lineMetrics bool) []*Feature {
	minAll, maxAll := xBounds(features)

	left := Clip[AxisX](AxisX{}, features, -1-buffer, buffer, minAll, maxAll, lineMetrics)
	right := Clip[AxisX](AxisX{}, features, 1-buffer, 2+buffer, minAll, maxAll, lineMetrics)

	if len(left) == 0 && len(right) == 0 {
		return features
	}

	// The merged clip is deliberately called with literal bounds (1, 2)
	// rather than the batch's real x extent. This disables Clip's
	// whole-batch fast path for this call: after left/right have already
	// peeled off the wrapped copies, the remaining merged range must always
	// be walked feature-by-feature, not short-circuited.
	merged := Clip[AxisX](AxisX{}, features, -buffer, 1+buffer, 1, 2, lineMetrics)

	out := make([]*Feature, 0, len(left)+len(merged)+len(right))
	for _, f := range left {
		out = append(out, shiftX(f, 1))
	}
	out = append(out, merged...)
	for _, f := range right {
		out = append(out, shiftX(f, -1))
	}
	return out
}

func xBounds(features []*Feature) (minAll, maxAll float64) {
	bbox := EmptyBBox()
	for _, f := range features {
		bbox.Merge(f.BBox)
	}
	if bbox.IsEmpty() {
		return 0, 0
	}
	return bbox.MinX, bbox.MaxX
}

// shiftX returns a deep clone of f with every x coordinate (points and bbox)
// shifted by dx. Shifting works on a clone, never the original, because the
// same physical Feature may simultaneously appear un-shifted elsewhere (e.g.
// the merged copy) — Features are logically immutable everywhere else in
// the pipeline, and Wrap must preserve that.
func shiftX(f *Feature, dx float64) *Feature {
	g := shiftGeometryX(f.Geometry, dx)
	return &Feature{
		ID:         f.ID,
		Properties: f.Properties,
		Geometry:   g,
		PointCount: f.PointCount,
		BBox: BBox{
			MinX: f.BBox.MinX + dx,
			MinY: f.BBox.MinY,
			MaxX: f.BBox.MaxX + dx,
			MaxY: f.BBox.MaxY,
		},
	}
}

func shiftPointX(p Point, dx float64) Point {
	p.X += dx
	return p
}

func shiftGeometryX(g Geometry, dx float64) Geometry {
	switch g.Kind {
	case GeomPoint:
		return Geometry{Kind: GeomPoint, Point: shiftPointX(g.Point, dx)}

	case GeomMultiPoint:
		pts := make([]Point, len(g.MultiPoint))
		for i, p := range g.MultiPoint {
			pts[i] = shiftPointX(p, dx)
		}
		return Geometry{Kind: GeomMultiPoint, MultiPoint: pts}

	case GeomLineString:
		return Geometry{Kind: GeomLineString, Line: shiftLineX(g.Line, dx)}

	case GeomMultiLineString:
		lines := make([]LineString, len(g.MultiLine))
		for i := range g.MultiLine {
			lines[i] = *shiftLineX(&g.MultiLine[i], dx)
		}
		return Geometry{Kind: GeomMultiLineString, MultiLine: lines}

	case GeomPolygon:
		return Geometry{Kind: GeomPolygon, Polygon: shiftRingsX(g.Polygon, dx)}

	case GeomMultiPolygon:
		polys := make([][]LinearRing, len(g.MultiPolygon))
		for i, p := range g.MultiPolygon {
			polys[i] = shiftRingsX(p, dx)
		}
		return Geometry{Kind: GeomMultiPolygon, MultiPolygon: polys}

	case GeomCollection:
		members := make([]Geometry, len(g.Collection))
		for i, m := range g.Collection {
			members[i] = shiftGeometryX(m, dx)
		}
		return Geometry{Kind: GeomCollection, Collection: members}
	}
	return g
}

func shiftLineX(l *LineString, dx float64) *LineString {
	pts := make([]Point, len(l.Points))
	for i, p := range l.Points {
		pts[i] = shiftPointX(p, dx)
	}
	return &LineString{Points: pts, Dist: l.Dist, SegStart: l.SegStart, SegEnd: l.SegEnd}
}

func shiftRingsX(rings []LinearRing, dx float64) []LinearRing {
	out := make([]LinearRing, len(rings))
	for i, r := range rings {
		pts := make([]Point, len(r.Points))
		for j, p := range r.Points {
			pts[j] = shiftPointX(p, dx)
		}
		out[i] = LinearRing{Points: pts, Area: r.Area}
	}
	return out
}

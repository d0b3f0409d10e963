package geovt

// bboxOfGeometry recomputes a bounding box from a geometry's own points.
// Used after clipping and wrapping, where the point count (and therefore
// Feature.PointCount, which tracks pre-simplification vertex count) must be
// left untouched but the bbox has genuinely changed.
func bboxOfGeometry(g Geometry) BBox {
	bbox := EmptyBBox()
	extend := func(p Point) {
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
	var walk func(g Geometry)
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
	walk(g)
	return bbox
}

package geovt

// simplifyDP runs Douglas-Peucker over pts in place, writing each retained
// interior vertex's squared importance score into its Z field. Endpoints are
// always scored 1. Vertices that never clear the base squared tolerance are
// left at Z == 0.
//
// This only scores vertices; it never removes them. Removal is deferred to
// the Tile Builder, which drops vertices whose score doesn't clear the
// current zoom's tolerance. Keeping every vertex around means a single
// projected LineString/LinearRing can be reused, unmodified, across every
// zoom level that shares it. sqTolerance is the base tolerance — the
// squared distance below which even the deepest zoom (where the Tile
// Builder's own per-zoom tolerance drops to 0) still discards a vertex.
func simplifyDP(pts []Point, sqTolerance float64) {
	if len(pts) < 3 {
		for i := range pts {
			pts[i].Z = 1
		}
		return
	}
	first := 0
	last := len(pts) - 1
	pts[first].Z = 1
	pts[last].Z = 1
	simplifyDPRange(pts, first, last, sqTolerance)
}

// simplifyDPRange scores the interior of pts[first:last+1], recursing on the
// two halves split at the vertex of maximum perpendicular distance whenever
// that distance clears sqTolerance. The running max starts at sqTolerance,
// not zero, so a range whose farthest interior point still falls within the
// base tolerance is left entirely unscored (and, since the Tile Builder
// keeps only vertices scored above its per-zoom tolerance, which is 0 at
// MaxZoom, dropped even there) — without this floor, the deepest zoom would
// retain vertices the original discards.
func simplifyDPRange(pts []Point, first, last int, sqTolerance float64) {
	if last-first < 2 {
		return
	}
	maxSqDist := sqTolerance
	maxIndex := -1
	mid := float64(first+last) / 2

	for i := first + 1; i < last; i++ {
		d := sqSegDist(pts[i], pts[first], pts[last])
		if d > maxSqDist || (d == maxSqDist && closerToMid(i, maxIndex, mid)) {
			maxSqDist = d
			maxIndex = i
		}
	}

	if maxIndex < 0 {
		return
	}
	pts[maxIndex].Z = maxSqDist
	simplifyDPRange(pts, first, maxIndex, sqTolerance)
	simplifyDPRange(pts, maxIndex, last, sqTolerance)
}

// closerToMid breaks a max-distance tie by preferring the candidate closest
// to the midpoint of the current subrange, so repeated ties don't always
// resolve to the earliest index.
func closerToMid(candidate, current int, mid float64) bool {
	if current < 0 {
		return true
	}
	dc := candidate - int(mid)
	if dc < 0 {
		dc = -dc
	}
	dcur := current - int(mid)
	if dcur < 0 {
		dcur = -dcur
	}
	return dc < dcur
}

// sqSegDist returns the squared perpendicular distance from p to the segment
// (a, b), or the squared distance to a if a == b.
func sqSegDist(p, a, b Point) float64 {
	x, y := a.X, a.Y
	dx, dy := b.X-x, b.Y-y

	if dx != 0 || dy != 0 {
		t := ((p.X-x)*dx + (p.Y-y)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x, y = b.X, b.Y
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}

	dx = p.X - x
	dy = p.Y - y
	return dx*dx + dy*dy
}

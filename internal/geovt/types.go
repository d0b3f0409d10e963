// Package geovt pre-indexes a GeoJSON-shaped feature collection into a
// quadtree of vector tiles. It owns the geometric pipeline — projection,
// Douglas-Peucker simplification, axis-aligned clipping, antimeridian
// wrapping, and the lazy split/cache tile tree — but not GeoJSON parsing or
// MVT encoding, which are boundary concerns handled by internal/convert and
// internal/mvtencode respectively.
package geovt

import "math"

// Point is a single vertex. X and Y are normalized Web-Mercator coordinates
// in [0,1] during indexing (they may stray slightly outside that range while
// wrapping or clipping) and tile-local integer-ish coordinates once emitted
// in a Tile. Z is overloaded: for line/ring vertices it is the squared
// Douglas-Peucker importance score (0 = unevaluated, 1 = endpoint or a vertex
// introduced by clipping); for Point geometries it is unused and left at 0.
type Point struct {
	X, Y, Z float64
}

// LineString is a simplified polyline plus the metrics the Clipper and Tile
// Builder need: Dist is the total planar length in projected space; SegStart
// and SegEnd bound the retained sub-run along the original line, populated
// only when line metrics are requested.
type LineString struct {
	Points             []Point
	Dist               float64
	SegStart, SegEnd   float64
}

// LinearRing is a closed ring (Points[0] == Points[last]). Area is the
// absolute shoelace area of the *unsimplified* ring; the Tile Builder uses it
// as a drop threshold and never recomputes it after simplification.
type LinearRing struct {
	Points []Point
	Area   float64
}

// GeomKind tags the seven-case closed geometry variant. Dispatch is by
// switch on Kind rather than through an interface: the set is closed and the
// pipeline is hot enough that a vtable indirection isn't worth it.
type GeomKind uint8

const (
	GeomPoint GeomKind = iota
	GeomMultiPoint
	GeomLineString
	GeomMultiLineString
	GeomPolygon
	GeomMultiPolygon
	GeomCollection
)

// Geometry is the closed sum type the Projector produces and the Clipper and
// Tile Builder consume. Exactly the field matching Kind is populated.
type Geometry struct {
	Kind GeomKind

	Point       Point
	MultiPoint  []Point
	Line        *LineString
	MultiLine   []LineString
	Polygon     []LinearRing
	MultiPolygon [][]LinearRing
	Collection  []Geometry
}

// Feature is an immutable (after projection) geometry plus its shared
// property bag, bounding box and pre-simplification point count. Features
// are held by pointer and handed through many tile feature-lists and split
// levels without copying; nothing in this package mutates a Feature's
// geometry once projection has produced it, except Wrap,
// which works on deep clones before shifting coordinates.
type Feature struct {
	ID         any
	Geometry   Geometry
	Properties map[string]any
	BBox       BBox
	PointCount int
}

// BBox is an axis-aligned bounding box. The zero value is NOT empty; use
// EmptyBBox for the identity element of Merge.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBBox returns the empty box: infinities of matching sign so that
// Merge on an empty box yields exactly the other operand.
func EmptyBBox() BBox {
	return BBox{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// Merge grows b to also cover other.
func (b *BBox) Merge(other BBox) {
	b.MinX = math.Min(b.MinX, other.MinX)
	b.MinY = math.Min(b.MinY, other.MinY)
	b.MaxX = math.Max(b.MaxX, other.MaxX)
	b.MaxY = math.Max(b.MaxY, other.MaxY)
}

// IsEmpty reports whether every field is infinite, i.e. this is the
// untouched result of EmptyBBox.
func (b BBox) IsEmpty() bool {
	return math.IsInf(b.MinX, 0) && math.IsInf(b.MinY, 0) &&
		math.IsInf(b.MaxX, 0) && math.IsInf(b.MaxY, 0)
}

// RawGeometry is the boundary representation a caller hands in: a geometry
// tree with longitude/latitude positions, as already parsed from GeoJSON.
// Exactly the field matching Kind is populated, mirroring Geometry.
type RawGeometry struct {
	Kind GeomKind

	Point        Position
	MultiPoint   []Position
	LineString   []Position
	MultiLine    [][]Position
	Polygon      [][]Position
	MultiPolygon [][][]Position
	Collection   []RawGeometry
}

// Position is a [lon, lat, ...] coordinate; only the first two components
// are read.
type Position []float64

// RawFeature is a single boundary-level input feature. Geometry is a
// pointer so a feature with no geometry at all (nil) can be distinguished
// from one whose geometry is present but empty (e.g. an empty coordinate
// array), which matters for sequential ID generation: every feature that
// carries a Geometry — even one that projects to nothing — consumes a slot
// in the generated-ID sequence.
type RawFeature struct {
	ID         any
	Geometry   *RawGeometry
	Properties map[string]any
}

package geovt

import "fmt"

// Options configures an Index. Use DefaultOptions and override only the
// fields that need to change — the zero value of Options is not meaningful
// on its own (a zero MaxZoom would be rejected by New).
type Options struct {
	MaxZoom        int
	IndexMaxZoom   int
	IndexMaxPoints int
	Tolerance      float64
	Extent         int
	Buffer         int
	LineMetrics    bool
	GenerateID     bool
}

// DefaultOptions returns the option table from the build-options spec: a
// reasonable default for ahead-of-time indexing of a moderately sized
// dataset down to zoom 18.
func DefaultOptions() Options {
	return Options{
		MaxZoom:        18,
		IndexMaxZoom:   5,
		IndexMaxPoints: 100000,
		Tolerance:      3.0,
		Extent:         4096,
		Buffer:         64,
	}
}

// TileCoord identifies a materialized tile.
type TileCoord struct {
	Z    uint8
	X, Y uint32
}

// internalTile is one quadtree node: its materialized output, the bbox of
// the features it was built from (used as the parent bbox for its
// children's clip fast-paths), and, while it hasn't split yet, the retained
// source feature set a later on-demand request can resume splitting from.
type internalTile struct {
	z        uint8
	x, y     uint32
	tile     Tile
	bbox     BBox
	source   []*Feature
	retained bool
}

// Index owns the quadtree's lazy map from tile coordinate to materialized
// tile. It is mutable — GetTile may create tiles on demand — and, per the
// concurrency model, requires exclusive access during any call; nothing in
// this package synchronizes concurrent use itself.
type Index struct {
	opts  Options
	tiles map[uint64]*internalTile
	stats map[uint8]uint32
	total int
	order []TileCoord
}

// New projects, simplifies and wraps raw into the root of the tile tree and
// performs the initial index-build descent (down to IndexMaxZoom or
// IndexMaxPoints). It fails only if opts.MaxZoom is out of range.
func New(raw []RawFeature, opts Options) (*Index, error) {
	if opts.MaxZoom <= 0 || opts.MaxZoom > 24 {
		return nil, ErrInvalidMaxZoom
	}

	maxZ2 := float64(uint64(1) << uint(opts.MaxZoom))
	baseTolerance := (opts.Tolerance / float64(opts.Extent)) / maxZ2
	sqTolerance := baseTolerance * baseTolerance

	features := projectFeatures(raw, opts.GenerateID, sqTolerance)
	wrapped := Wrap(features, float64(opts.Buffer)/float64(opts.Extent), opts.LineMetrics)

	idx := &Index{
		opts:  opts,
		tiles: make(map[uint64]*internalTile),
		stats: make(map[uint8]uint32),
	}
	idx.split(wrapped, 0, 0, 0, 0, 0, 0)
	return idx, nil
}

// Stats returns the number of tiles materialized per zoom level.
func (idx *Index) Stats() map[uint8]uint32 {
	out := make(map[uint8]uint32, len(idx.stats))
	for z, n := range idx.stats {
		out[z] = n
	}
	return out
}

// Total returns the total number of tiles materialized so far.
func (idx *Index) Total() int { return idx.total }

// TileCoords returns every tile coordinate materialized so far, in the
// order each was first built.
func (idx *Index) TileCoords() []TileCoord {
	out := make([]TileCoord, len(idx.order))
	copy(out, idx.order)
	return out
}

// GetTile returns the Feature collection for (z, x, y), splitting whatever
// ancestor still retains source geometry to materialize it and any
// necessary intermediate tiles along the way. x is canonicalized modulo 2^z
// before lookup so any world-wrap of a tile resolves to the same node.
func (idx *Index) GetTile(z, x, y int) (Tile, error) {
	if z < 0 || z > idx.opts.MaxZoom {
		return Tile{}, fmt.Errorf("geovt: zoom %d: %w", z, ErrZoomTooHigh)
	}

	z2 := int64(1) << uint(z)
	xn := uint32(((int64(x) % z2) + z2) % z2)
	yn := uint32(y)
	zz := uint8(z)

	key := tileID(zz, xn, yn)
	if it, ok := idx.tiles[key]; ok {
		return it.tile, nil
	}

	pz, px, py := zz, xn, yn
	for {
		if pz == 0 {
			break
		}
		pz--
		px /= 2
		py /= 2
		pt, ok := idx.tiles[tileID(pz, px, py)]
		if ok && pt.retained {
			idx.split(pt.source, pz, px, py, zz, xn, yn)
			break
		}
	}

	if it, ok := idx.tiles[key]; ok {
		return it.tile, nil
	}
	return emptyTile, nil
}

// split implements the recursive descent of §4.5: materialize the node at
// (z, x, y) if it doesn't exist yet, decide whether this is a stopping
// point (retaining features for a later on-demand descent if so), and
// otherwise clip into four children and recurse. (cz, cx, cy) is the
// on-demand target tile GetTile is resolving; it is all-zero during the
// initial index build, which is treated as a distinct mode below.
func (idx *Index) split(features []*Feature, z uint8, x, y uint32, cz uint8, cx, cy uint32) {
	key := tileID(z, x, y)
	it, exists := idx.tiles[key]
	if !exists {
		tolerance := 0.0
		if int(z) != idx.opts.MaxZoom {
			z2 := float64(uint64(1) << z)
			tolerance = idx.opts.Tolerance / (z2 * float64(idx.opts.Extent))
		}

		bbox := EmptyBBox()
		for _, f := range features {
			bbox.Merge(f.BBox)
		}

		tile := buildTile(features, uint32(z), x, y, idx.opts.Extent, tolerance, idx.opts.LineMetrics)

		it = &internalTile{z: z, x: x, y: y, tile: tile, bbox: bbox}
		idx.tiles[key] = it
		idx.stats[z]++
		idx.total++
		idx.order = append(idx.order, TileCoord{Z: z, X: x, Y: y})
	}

	if cz == 0 {
		if int(z) == idx.opts.IndexMaxZoom || it.tile.PointCount <= idx.opts.IndexMaxPoints {
			it.source, it.retained = features, true
			return
		}
	} else {
		if int(z) == idx.opts.MaxZoom {
			return
		}
		if z == cz {
			it.source, it.retained = features, true
			return
		}
		m := uint32(1) << (cz - z)
		if x != cx/m || y != cy/m {
			it.source, it.retained = features, true
			return
		}
	}

	it.source, it.retained = nil, false
	if len(features) == 0 {
		return
	}

	z2 := float64(uint64(1) << z)
	p := 0.5 * float64(idx.opts.Buffer) / float64(idx.opts.Extent)
	fx, fy := float64(x), float64(y)
	minX, maxX := it.bbox.MinX, it.bbox.MaxX
	minY, maxY := it.bbox.MinY, it.bbox.MaxY

	left := Clip[AxisX](AxisX{}, features, (fx-p)/z2, (fx+0.5+p)/z2, minX, maxX, idx.opts.LineMetrics)
	leftTop := Clip[AxisY](AxisY{}, left, (fy-p)/z2, (fy+0.5+p)/z2, minY, maxY, idx.opts.LineMetrics)
	idx.split(leftTop, z+1, 2*x, 2*y, cz, cx, cy)
	leftBottom := Clip[AxisY](AxisY{}, left, (fy+0.5-p)/z2, (fy+1+p)/z2, minY, maxY, idx.opts.LineMetrics)
	idx.split(leftBottom, z+1, 2*x, 2*y+1, cz, cx, cy)

	right := Clip[AxisX](AxisX{}, features, (fx+0.5-p)/z2, (fx+1+p)/z2, minX, maxX, idx.opts.LineMetrics)
	rightTop := Clip[AxisY](AxisY{}, right, (fy-p)/z2, (fy+0.5+p)/z2, minY, maxY, idx.opts.LineMetrics)
	idx.split(rightTop, z+1, 2*x+1, 2*y, cz, cx, cy)
	rightBottom := Clip[AxisY](AxisY{}, right, (fy+0.5-p)/z2, (fy+1+p)/z2, minY, maxY, idx.opts.LineMetrics)
	idx.split(rightBottom, z+1, 2*x+1, 2*y+1, cz, cx, cy)
}

// tileID computes the injective (for z <= 24) key (2^z * y + x) * 32 + z.
func tileID(z uint8, x, y uint32) uint64 {
	z2 := uint64(1) << z
	return (z2*uint64(y)+uint64(x))*32 + uint64(z)
}

// DecodeTileKey recovers (z, x, y) from a key produced by tileID.
func DecodeTileKey(key uint64) (z uint8, x, y uint32) {
	z = uint8(key % 32)
	rem := key / 32
	z2 := uint64(1) << z
	y = uint32(rem / z2)
	x = uint32(rem % z2)
	return
}

package pmtiles

import (
	"bytes"
	"fmt"
	"os"
	"sort"
)

// TileEntry is one materialized tile's encoded bytes, ready to be written
// into a PMTiles archive.
type TileEntry struct {
	Z    uint8
	X, Y uint32
	Data []byte
}

// ArchiveOptions controls the metadata recorded in a written archive.
type ArchiveOptions struct {
	LayerName string
	MinZoom   uint8
	MaxZoom   uint8
}

// WriteArchive serializes a batch of gzip-encoded MVT tiles to a PMTiles v3
// file at path. Tiles are clustered by ascending Hilbert tile ID, matching
// the teacher's single-root-directory layout: no leaf directories, since a
// pre-indexed batch from one geovt.Index run is never large enough to need
// them.
func WriteArchive(path string, tiles []TileEntry, opts ArchiveOptions) error {
	if len(tiles) == 0 {
		return fmt.Errorf("pmtiles: no tiles to write")
	}

	sort.Slice(tiles, func(i, j int) bool {
		return ZxyToID(tiles[i].Z, tiles[i].X, tiles[i].Y) < ZxyToID(tiles[j].Z, tiles[j].X, tiles[j].Y)
	})

	var entries []EntryV3
	var tileData bytes.Buffer
	offset := uint64(0)
	for _, t := range tiles {
		entries = append(entries, EntryV3{
			TileID:    ZxyToID(t.Z, t.X, t.Y),
			Offset:    offset,
			Length:    uint32(len(t.Data)),
			RunLength: 1,
		})
		tileData.Write(t.Data)
		offset += uint64(len(t.Data))
	}

	metadata := map[string]any{
		"name":        opts.LayerName,
		"format":      "pbf",
		"compression": "gzip",
		"minzoom":     opts.MinZoom,
		"maxzoom":     opts.MaxZoom,
	}
	metadataBytes, err := SerializeMetadata(metadata, Gzip)
	if err != nil {
		return fmt.Errorf("pmtiles: serializing metadata: %w", err)
	}

	rootDirBytes := SerializeEntries(entries, Gzip)

	headerSize := uint64(HeaderV3LenBytes)
	rootDirOffset := headerSize
	rootDirLen := uint64(len(rootDirBytes))
	metadataOffset := rootDirOffset + rootDirLen
	metadataLen := uint64(len(metadataBytes))
	tileDataOffset := metadataOffset + metadataLen
	tileDataLen := uint64(tileData.Len())

	header := HeaderV3{
		SpecVersion:         3,
		RootOffset:          rootDirOffset,
		RootLength:          rootDirLen,
		MetadataOffset:      metadataOffset,
		MetadataLength:      metadataLen,
		LeafDirectoryOffset: 0,
		LeafDirectoryLength: 0,
		TileDataOffset:      tileDataOffset,
		TileDataLength:      tileDataLen,
		AddressedTilesCount: uint64(len(entries)),
		TileEntriesCount:    uint64(len(entries)),
		TileContentsCount:   uint64(len(entries)),
		Clustered:           true,
		InternalCompression: Gzip,
		TileCompression:     Gzip,
		TileType:            Mvt,
		MinZoom:             opts.MinZoom,
		MaxZoom:             opts.MaxZoom,
	}
	headerBytes := SerializeHeader(header)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pmtiles: creating archive: %w", err)
	}
	defer f.Close()

	for _, chunk := range [][]byte{headerBytes, rootDirBytes, metadataBytes, tileData.Bytes()} {
		if _, err := f.Write(chunk); err != nil {
			return fmt.Errorf("pmtiles: writing archive: %w", err)
		}
	}
	return nil
}

package pmtiles

import (
	"os"
	"testing"
)

func TestWriteArchiveRejectsEmptyBatch(t *testing.T) {
	if err := WriteArchive(os.DevNull, nil, ArchiveOptions{}); err == nil {
		t.Fatal("expected an error for an empty tile batch")
	}
}

func TestWriteArchiveRoundTripsHeader(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/out.pmtiles"

	tiles := []TileEntry{
		{Z: 0, X: 0, Y: 0, Data: []byte{0x1, 0x2, 0x3}},
		{Z: 1, X: 1, Y: 0, Data: []byte{0x4, 0x5}},
	}
	if err := WriteArchive(path, tiles, ArchiveOptions{LayerName: "test", MinZoom: 0, MaxZoom: 1}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	header, err := DeserializeHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if header.AddressedTilesCount != 2 {
		t.Fatalf("expected 2 addressed tiles, got %d", header.AddressedTilesCount)
	}
	if header.MinZoom != 0 || header.MaxZoom != 1 {
		t.Fatalf("expected zoom range [0,1], got [%d,%d]", header.MinZoom, header.MaxZoom)
	}
	if header.TileType != Mvt || header.TileCompression != Gzip {
		t.Fatal("expected MVT tile type with gzip compression")
	}
	wantLen := uint64(len(data)) - header.TileDataOffset
	if header.TileDataLength != wantLen {
		t.Fatalf("tile data length %d doesn't match file tail %d", header.TileDataLength, wantLen)
	}
}

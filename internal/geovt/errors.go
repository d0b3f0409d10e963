package geovt

import "errors"

// ErrInvalidMaxZoom is returned by New when Options.MaxZoom is outside
// (0, 24].
var ErrInvalidMaxZoom = errors.New("geovt: max zoom must satisfy 0 < maxZoom <= 24")

// ErrZoomTooHigh is returned by Index.GetTile when the requested zoom
// exceeds the index's configured MaxZoom.
var ErrZoomTooHigh = errors.New("geovt: requested zoom exceeds max zoom")

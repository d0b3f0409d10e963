package geovt

// Axis lets the Clipper be written once and specialized at compile time for
// either coordinate, instead of branching on an axis flag inside the hot
// per-segment loop.
type Axis interface {
	coord(p Point) float64
	bboxMin(b BBox) float64
	bboxMax(b BBox) float64
}

// AxisX clips against the x coordinate (longitude axis after projection).
type AxisX struct{}

func (AxisX) coord(p Point) float64  { return p.X }
func (AxisX) bboxMin(b BBox) float64 { return b.MinX }
func (AxisX) bboxMax(b BBox) float64 { return b.MaxX }

// AxisY clips against the y coordinate (latitude axis after projection).
type AxisY struct{}

func (AxisY) coord(p Point) float64  { return p.Y }
func (AxisY) bboxMin(b BBox) float64 { return b.MinY }
func (AxisY) bboxMax(b BBox) float64 { return b.MaxY }

package geom

import "math"

// Point is a single x/y coordinate pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both coordinates are real numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// BBox is an axis-aligned bounding box. A box built from at least one point
// always has MinX <= MaxX and MinY <= MaxY.
type BBox struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// NewBBox returns the degenerate box holding only p.
func NewBBox(p Point) BBox {
	return BBox{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
}

// Expand returns the union of b and the point (x, y).
func (b BBox) Expand(x, y float64) BBox {
	if x < b.MinX {
		b.MinX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y > b.MaxY {
		b.MaxY = y
	}
	return b
}

// Union returns the smallest box holding both b and o.
func (b BBox) Union(o BBox) BBox {
	return b.Expand(o.MinX, o.MinY).Expand(o.MaxX, o.MaxY)
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether p lies inside b or on its edge.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// fold expands existing by p, seeding a new box when existing is nil.
func fold(existing *BBox, p Point) *BBox {
	var b BBox
	if existing == nil {
		b = NewBBox(p)
	} else {
		b = existing.Expand(p.X, p.Y)
	}
	return &b
}

package design

// ShapeKind enumerates the supported part outlines.
type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapeTrapezoid
	ShapeLShape
	ShapePolygon
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRect:
		return "rect"
	case ShapeTrapezoid:
		return "trapezoid"
	case ShapeLShape:
		return "l-shape"
	case ShapePolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// ShapeParams is the interface for kind-specific shape payloads.
// The part's bounding width/height are always derivable from it.
type ShapeParams interface {
	Kind() ShapeKind
	// Bounding returns the axis-aligned bounding width and height of the
	// outline in the part plane, in mm.
	Bounding() (w, h float64)
}

// RectParams describes a rectangular part.
type RectParams struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (p RectParams) Kind() ShapeKind { return ShapeRect }

func (p RectParams) Bounding() (float64, float64) { return p.Width, p.Height }

// TrapezoidParams describes a trapezoid with horizontal parallel edges.
type TrapezoidParams struct {
	BottomWidth float64 `json:"bottom_width"`
	TopWidth    float64 `json:"top_width"`
	Height      float64 `json:"height"`
}

func (p TrapezoidParams) Kind() ShapeKind { return ShapeTrapezoid }

func (p TrapezoidParams) Bounding() (float64, float64) {
	w := p.BottomWidth
	if p.TopWidth > w {
		w = p.TopWidth
	}
	return w, p.Height
}

// LShapeParams describes a rectangle with one corner cut out.
type LShapeParams struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	CutWidth  float64 `json:"cut_width"`
	CutHeight float64 `json:"cut_height"`
}

func (p LShapeParams) Kind() ShapeKind { return ShapeLShape }

func (p LShapeParams) Bounding() (float64, float64) { return p.Width, p.Height }

// PolygonParams describes an arbitrary closed outline.
type PolygonParams struct {
	Points []Vec2 `json:"points"`
}

func (p PolygonParams) Kind() ShapeKind { return ShapePolygon }

func (p PolygonParams) Bounding() (float64, float64) {
	if len(p.Points) == 0 {
		return 0, 0
	}
	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points[1:] {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	return maxX - minX, maxY - minY
}

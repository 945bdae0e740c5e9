package design

import "time"

// PartRole identifies a generated part's structural function inside a
// cabinet. It drives reference-part selection for the aggregate transform
// and role+index matching when a cabinet is regenerated.
type PartRole int

const (
	RoleNone PartRole = iota
	RoleBottom
	RoleTop
	RoleLeftSide
	RoleRightSide
	RoleShelf
	RoleBack
	RoleDoor
	RoleDrawerFront
)

func (r PartRole) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleBottom:
		return "bottom"
	case RoleTop:
		return "top"
	case RoleLeftSide:
		return "left-side"
	case RoleRightSide:
		return "right-side"
	case RoleShelf:
		return "shelf"
	case RoleBack:
		return "back"
	case RoleDoor:
		return "door"
	case RoleDrawerFront:
		return "drawer-front"
	default:
		return "unknown"
	}
}

// IsBody reports whether the role belongs to the cabinet carcass.
// Doors and drawer fronts protrude and are excluded from body centroids.
func (r PartRole) IsBody() bool {
	switch r {
	case RoleBottom, RoleTop, RoleLeftSide, RoleRightSide, RoleShelf, RoleBack:
		return true
	}
	return false
}

// CabinetMetadata ties a part to its owning cabinet and structural role.
// Index disambiguates repeated roles (shelf 0, shelf 1, door 0, ...).
type CabinetMetadata struct {
	CabinetID CabinetID `json:"cabinet_id"`
	Role      PartRole  `json:"role"`
	Index     int       `json:"index"`
}

// Part is a single physical cut piece.
//
// Width and Height are denormalized from Shape for display and must be
// kept consistent with it; SyncBounds restores the invariant after any
// shape change. Depth is the material thickness.
type Part struct {
	ID          PartID      `json:"id"`
	Name        string      `json:"name"`
	FurnitureID FurnitureID `json:"furniture_id,omitempty"`
	GroupID     GroupID     `json:"group_id,omitempty"`

	Shape  ShapeParams `json:"shape"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Depth  float64     `json:"depth"`

	Position Vec3 `json:"position"` // mm, scene space
	Rotation Vec3 `json:"rotation"` // Euler radians

	MaterialID  MaterialID       `json:"material_id,omitempty"`
	EdgeBanding EdgeBanding      `json:"edge_banding"`
	CabinetMeta *CabinetMetadata `json:"cabinet_metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncBounds recomputes the denormalized Width/Height from Shape.
func (p *Part) SyncBounds() {
	if p.Shape == nil {
		p.Width, p.Height = 0, 0
		return
	}
	p.Width, p.Height = p.Shape.Bounding()
}

// SetMaterial assigns a material and updates the part thickness to the
// material's.
func (p *Part) SetMaterial(m *Material) {
	if m == nil {
		return
	}
	p.MaterialID = m.ID
	p.Depth = m.Thickness
}

// Clone returns a deep copy of the part.
func (p *Part) Clone() *Part {
	c := *p
	if p.CabinetMeta != nil {
		meta := *p.CabinetMeta
		c.CabinetMeta = &meta
	}
	if poly, ok := p.Shape.(PolygonParams); ok {
		pts := make([]Vec2, len(poly.Points))
		copy(pts, poly.Points)
		c.Shape = PolygonParams{Points: pts}
	}
	if len(p.EdgeBanding.Segments) > 0 {
		segs := make([]bool, len(p.EdgeBanding.Segments))
		copy(segs, p.EdgeBanding.Segments)
		c.EdgeBanding.Segments = segs
	}
	return &c
}

// CloneParts deep-copies a slice of parts.
func CloneParts(parts []*Part) []*Part {
	out := make([]*Part, len(parts))
	for i, p := range parts {
		out[i] = p.Clone()
	}
	return out
}

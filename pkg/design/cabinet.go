package design

import "time"

// CabinetType enumerates the supported cabinet generators.
type CabinetType int

const (
	CabinetKitchen CabinetType = iota
	CabinetWardrobe
	CabinetBookshelf
	CabinetDrawer
)

func (t CabinetType) String() string {
	switch t {
	case CabinetKitchen:
		return "kitchen"
	case CabinetWardrobe:
		return "wardrobe"
	case CabinetBookshelf:
		return "bookshelf"
	case CabinetDrawer:
		return "drawer"
	default:
		return "unknown"
	}
}

// TopBottomPlacement selects how the top/bottom panels meet the sides.
type TopBottomPlacement int

const (
	// PlacementInset puts top/bottom between full-height sides.
	PlacementInset TopBottomPlacement = iota
	// PlacementOverlay spans top/bottom across the full width and
	// shortens the sides to fit between them.
	PlacementOverlay
)

func (p TopBottomPlacement) String() string {
	switch p {
	case PlacementInset:
		return "inset"
	case PlacementOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// DefaultBackOverlapRatio is the fraction of the body thickness the back
// panel overlaps onto the rear edges of the carcass.
const DefaultBackOverlapRatio = 2.0 / 3.0

// BackPanelConfig tunes the shared back-panel generator.
type BackPanelConfig struct {
	// OverlapRatio defaults to DefaultBackOverlapRatio when zero.
	OverlapRatio float64 `json:"overlap_ratio,omitempty"`
}

// CabinetParams are the generation parameters for a cabinet.
// All dimensions are outer dimensions in mm.
type CabinetParams struct {
	Type   CabinetType `json:"type"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Depth  float64     `json:"depth"`

	ShelfCount  int  `json:"shelf_count"`
	DoorCount   int  `json:"door_count"`   // wardrobe: clamped 1..4
	DrawerCount int  `json:"drawer_count"` // drawer unit: clamped 2..8
	HasDoors    bool `json:"has_doors"`    // kitchen: fixed 2-door layout
	HasBack     bool `json:"has_back"`

	TopBottomPlacement TopBottomPlacement `json:"top_bottom_placement"`
	Back               BackPanelConfig    `json:"back"`
}

// MaterialAssignments maps cabinet material roles to catalog ids.
type MaterialAssignments struct {
	Body  MaterialID `json:"body"`
	Front MaterialID `json:"front,omitempty"`
	Back  MaterialID `json:"back,omitempty"`
}

// Placement is a cabinet-level world transform: the aggregate center and
// the rotation applied on top of the canonical construction orientation.
type Placement struct {
	Center   Vec3 `json:"center"`
	Rotation Vec3 `json:"rotation"`
}

// Cabinet is a named, typed aggregate of parts.
//
// Every id in PartIDs must reference a live Part whose CabinetMeta points
// back at this cabinet; lifecycle operations restore that invariant
// atomically.
type Cabinet struct {
	ID          CabinetID   `json:"id"`
	Name        string      `json:"name"`
	FurnitureID FurnitureID `json:"furniture_id,omitempty"`

	Params    CabinetParams       `json:"params"`
	Materials MaterialAssignments `json:"materials"`
	PartIDs   []PartID            `json:"part_ids"`

	// World is the last explicitly applied rigid transform, if any.
	// The authoritative aggregate transform is always derived from parts.
	World *Placement `json:"world,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the cabinet.
func (c *Cabinet) Clone() *Cabinet {
	out := *c
	out.PartIDs = append([]PartID(nil), c.PartIDs...)
	if c.World != nil {
		w := *c.World
		out.World = &w
	}
	return &out
}

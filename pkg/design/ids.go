package design

import "github.com/google/uuid"

// PartID identifies a single cut part.
type PartID string

// CabinetID identifies a cabinet aggregate.
type CabinetID string

// FurnitureID identifies the furniture/project a part belongs to.
type FurnitureID string

// GroupID identifies a logical part group.
type GroupID string

// MaterialID references a material in the catalog.
type MaterialID string

// NewPartID returns a fresh random part id.
func NewPartID() PartID {
	return PartID(uuid.NewString())
}

// NewCabinetID returns a fresh random cabinet id.
func NewCabinetID() CabinetID {
	return CabinetID(uuid.NewString())
}

// NewFurnitureID returns a fresh random furniture id.
func NewFurnitureID() FurnitureID {
	return FurnitureID(uuid.NewString())
}

// IsZero reports whether the id is empty.
func (id PartID) IsZero() bool { return id == "" }

// IsZero reports whether the id is empty.
func (id FurnitureID) IsZero() bool { return id == "" }

// IsZero reports whether the id is empty.
func (id CabinetID) IsZero() bool { return id == "" }

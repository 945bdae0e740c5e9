// Package generate turns high-level cabinet parameters into blueprint
// part lists: full geometry, material and role data but no identities or
// timestamps. Those are assigned by the lifecycle operations. Generators
// are pure functions; regeneration never reuses live state.
package generate

import (
	"errors"
	"fmt"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
)

// Layout constants, in mm.
const (
	// FrontMargin is the clearance subtracted from each edge of a door
	// or drawer front.
	FrontMargin = 2.0
	// DoorGap is the fixed gap between adjacent doors or stacked fronts.
	DoorGap = 3.0
	// MinBackOverlap is the minimum overlap of the back panel onto the
	// rear edges of the carcass.
	MinBackOverlap = 4.0
	// MinBackPanel is the minimum back panel width/height.
	MinBackPanel = 50.0
)

// ErrTypeMismatch reports a params/generator type mismatch. This is a
// caller bug, never a user-input condition.
var ErrTypeMismatch = errors.New("generate: cabinet type mismatch")

// ErrNoBodyMaterial reports a missing body material.
var ErrNoBodyMaterial = errors.New("generate: body material is required")

// Context carries everything a generator needs. Materials arrive
// pre-resolved: Front defaults to Body when nil; Back may be nil when
// the cabinet has no back panel.
type Context struct {
	CabinetID   design.CabinetID
	FurnitureID design.FurnitureID
	Params      design.CabinetParams
	Body        *design.Material
	Front       *design.Material
	Back        *design.Material
}

// Func is a cabinet generator. The returned parts are in the canonical
// frame: X/Z centered on the cabinet, Y = 0 at the underside, unrotated.
type Func func(ctx Context) ([]*design.Part, error)

// registry maps cabinet types to their generators.
var registry = map[design.CabinetType]Func{
	design.CabinetKitchen:   Kitchen,
	design.CabinetWardrobe:  Wardrobe,
	design.CabinetBookshelf: Bookshelf,
	design.CabinetDrawer:    Drawer,
}

// For returns the generator for the given cabinet type.
func For(t design.CabinetType) (Func, error) {
	g, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("generate: no generator for cabinet type %s", t)
	}
	return g, nil
}

// Generate dispatches to the registered generator for ctx.Params.Type.
func Generate(ctx Context) ([]*design.Part, error) {
	g, err := For(ctx.Params.Type)
	if err != nil {
		return nil, err
	}
	return g(ctx)
}

// checkType guards the generator contract: the params type must match.
func checkType(ctx Context, want design.CabinetType) error {
	if ctx.Params.Type != want {
		return fmt.Errorf("%w: generator %s got params type %s",
			ErrTypeMismatch, want, ctx.Params.Type)
	}
	if ctx.Body == nil {
		return ErrNoBodyMaterial
	}
	return nil
}

// frontMaterial resolves the material used for doors and drawer fronts.
func frontMaterial(ctx Context) *design.Material {
	if ctx.Front != nil {
		return ctx.Front
	}
	return ctx.Body
}

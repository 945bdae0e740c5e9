package generate

import (
	"fmt"
	"math"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/transform"
)

// clamp0 floors degenerate dimensions at zero so that bad user input
// (e.g. height smaller than two panel thicknesses) produces empty
// geometry instead of an error.
func clamp0(v float64) float64 {
	return math.Max(v, 0)
}

// clampInt limits n to [lo, hi].
func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// newPanel builds one blueprint part with the canonical rotation for its
// role. Positions are relative to the cabinet's canonical frame.
func newPanel(ctx Context, role design.PartRole, index int, name string,
	shape design.ShapeParams, mat *design.Material, pos design.Vec3,
	banding design.EdgeBanding) *design.Part {

	p := &design.Part{
		Name:        name,
		FurnitureID: ctx.FurnitureID,
		Shape:       shape,
		Position:    pos,
		Rotation:    transform.DefaultRotation(role),
		EdgeBanding: banding,
		CabinetMeta: &design.CabinetMetadata{
			CabinetID: ctx.CabinetID,
			Role:      role,
			Index:     index,
		},
	}
	p.SetMaterial(mat)
	p.SyncBounds()
	return p
}

// frontEdge bands the edge of a carcass panel that faces the room.
var frontEdge = design.EdgeBanding{Top: true}

// allEdges bands every edge of a visible front.
var allEdges = design.EdgeBanding{Top: true, Bottom: true, Left: true, Right: true}

// carcass generates the four body panels and the interior shelves shared
// by every cabinet type. Layout follows the placement mode:
//
//	inset:   top/bottom width W-2t between full-height sides
//	overlay: top/bottom span W, side height shrinks to H-2t
//
// Shelves are always inset (width W-2t) and evenly spaced inside the
// interior height.
func carcass(ctx Context, shelfCount int) []*design.Part {
	p := ctx.Params
	t := ctx.Body.Thickness
	W, H, D := clamp0(p.Width), clamp0(p.Height), clamp0(p.Depth)

	panelW := clamp0(W - 2*t)
	sideH := H
	if p.TopBottomPlacement == design.PlacementOverlay {
		panelW = W
		sideH = clamp0(H - 2*t)
	}

	parts := []*design.Part{
		newPanel(ctx, design.RoleBottom, 0, "bottom",
			design.RectParams{Width: panelW, Height: D}, ctx.Body,
			design.Vec3{Y: t / 2}, frontEdge),
		newPanel(ctx, design.RoleTop, 0, "top",
			design.RectParams{Width: panelW, Height: D}, ctx.Body,
			design.Vec3{Y: H - t/2}, frontEdge),
		newPanel(ctx, design.RoleLeftSide, 0, "left side",
			design.RectParams{Width: D, Height: sideH}, ctx.Body,
			design.Vec3{X: -(W/2 - t/2), Y: H / 2}, frontEdge),
		newPanel(ctx, design.RoleRightSide, 0, "right side",
			design.RectParams{Width: D, Height: sideH}, ctx.Body,
			design.Vec3{X: W/2 - t/2, Y: H / 2}, frontEdge),
	}

	interior := clamp0(H - 2*t)
	spacing := interior / float64(shelfCount+1)
	for i := 0; i < shelfCount; i++ {
		parts = append(parts, newPanel(ctx, design.RoleShelf, i,
			fmt.Sprintf("shelf %d", i+1),
			design.RectParams{Width: clamp0(W - 2*t), Height: D}, ctx.Body,
			design.Vec3{Y: t + spacing*float64(i+1)}, frontEdge))
	}

	return parts
}

// doors generates count door fronts across the cabinet face. Each door
// keeps FrontMargin clearance at the outer edges and DoorGap between
// neighbors; door height spans the face minus the margins.
func doors(ctx Context, count int) []*design.Part {
	p := ctx.Params
	W, H, D := clamp0(p.Width), clamp0(p.Height), clamp0(p.Depth)
	mat := frontMaterial(ctx)

	doorW := clamp0((W - 2*FrontMargin - float64(count-1)*DoorGap) / float64(count))
	doorH := clamp0(H - 2*FrontMargin)
	z := D/2 + mat.Thickness/2

	var parts []*design.Part
	for i := 0; i < count; i++ {
		x := -W/2 + FrontMargin + doorW/2 + float64(i)*(doorW+DoorGap)
		parts = append(parts, newPanel(ctx, design.RoleDoor, i,
			fmt.Sprintf("door %d", i+1),
			design.RectParams{Width: doorW, Height: doorH}, mat,
			design.Vec3{X: x, Y: H / 2, Z: z}, allEdges))
	}
	return parts
}

// drawerFronts stacks count fronts vertically inside the interior height
// with the shared gap convention.
func drawerFronts(ctx Context, count int) []*design.Part {
	p := ctx.Params
	t := ctx.Body.Thickness
	W, H, D := clamp0(p.Width), clamp0(p.Height), clamp0(p.Depth)
	mat := frontMaterial(ctx)

	interior := clamp0(H - 2*t)
	frontH := clamp0((interior - float64(count-1)*DoorGap) / float64(count))
	frontW := clamp0(W - 2*FrontMargin)
	z := D/2 + mat.Thickness/2

	var parts []*design.Part
	for i := 0; i < count; i++ {
		y := t + frontH/2 + float64(i)*(frontH+DoorGap)
		parts = append(parts, newPanel(ctx, design.RoleDrawerFront, i,
			fmt.Sprintf("drawer front %d", i+1),
			design.RectParams{Width: frontW, Height: frontH}, mat,
			design.Vec3{Y: y, Z: z}, allEdges))
	}
	return parts
}

package generate

import (
	"errors"
	"math"
	"testing"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
)

var (
	body  = &design.Material{ID: "board-18", Thickness: 18, Category: design.CategoryBoard}
	back  = &design.Material{ID: "hdf-3", Thickness: 3, Category: design.CategoryHDF}
	front = &design.Material{ID: "front-19", Thickness: 19, Category: design.CategoryFront}
)

func kitchenCtx() Context {
	return Context{
		CabinetID:   "cab",
		FurnitureID: "furn",
		Params: design.CabinetParams{
			Type:   design.CabinetKitchen,
			Width:  600,
			Height: 720,
			Depth:  510,

			ShelfCount: 1,
			HasDoors:   true,
			HasBack:    true,
		},
		Body: body,
		Back: back,
	}
}

func findRole(t *testing.T, parts []*design.Part, role design.PartRole, index int) *design.Part {
	t.Helper()
	for _, p := range parts {
		if p.CabinetMeta != nil && p.CabinetMeta.Role == role && p.CabinetMeta.Index == index {
			return p
		}
	}
	t.Fatalf("no part with role %s index %d", role, index)
	return nil
}

func TestKitchenPartCount(t *testing.T) {
	parts, err := Kitchen(kitchenCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 4 carcass panels + 1 shelf + 2 doors + back.
	if len(parts) != 8 {
		t.Fatalf("expected 8 parts, got %d", len(parts))
	}
	for _, p := range parts {
		if p.ID != "" {
			t.Errorf("blueprint part %q carries an id", p.Name)
		}
		if !p.CreatedAt.IsZero() {
			t.Errorf("blueprint part %q carries a timestamp", p.Name)
		}
		if p.CabinetMeta == nil || p.CabinetMeta.CabinetID != "cab" {
			t.Errorf("part %q not linked to cabinet", p.Name)
		}
	}
}

func TestKitchenCarcassInsetLayout(t *testing.T) {
	parts, err := Kitchen(kitchenCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bottom := findRole(t, parts, design.RoleBottom, 0)
	if bottom.Width != 564 { // 600 - 2*18
		t.Errorf("bottom width = %v, want 564", bottom.Width)
	}
	if bottom.Position.Y != 9 { // t/2
		t.Errorf("bottom Y = %v, want 9", bottom.Position.Y)
	}
	if bottom.Depth != 18 {
		t.Errorf("bottom depth = %v, want material thickness 18", bottom.Depth)
	}

	top := findRole(t, parts, design.RoleTop, 0)
	if top.Position.Y != 711 { // H - t/2
		t.Errorf("top Y = %v, want 711", top.Position.Y)
	}

	left := findRole(t, parts, design.RoleLeftSide, 0)
	if left.Height != 720 { // full height in inset mode
		t.Errorf("left side height = %v, want 720", left.Height)
	}
	if left.Position.X != -291 { // -(W/2 - t/2)
		t.Errorf("left side X = %v, want -291", left.Position.X)
	}
	right := findRole(t, parts, design.RoleRightSide, 0)
	if right.Position.X != 291 {
		t.Errorf("right side X = %v, want 291", right.Position.X)
	}
}

func TestOverlayPlacement(t *testing.T) {
	ctx := kitchenCtx()
	ctx.Params.TopBottomPlacement = design.PlacementOverlay

	parts, err := Kitchen(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bottom := findRole(t, parts, design.RoleBottom, 0)
	if bottom.Width != 600 { // spans the full cabinet width
		t.Errorf("overlay bottom width = %v, want 600", bottom.Width)
	}
	side := findRole(t, parts, design.RoleLeftSide, 0)
	if side.Height != 684 { // H - 2t
		t.Errorf("overlay side height = %v, want 684", side.Height)
	}
}

func TestShelfSpacing(t *testing.T) {
	ctx := kitchenCtx()
	ctx.Params.ShelfCount = 2
	ctx.Params.HasDoors = false
	ctx.Params.HasBack = false

	parts, err := Kitchen(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) != 6 {
		t.Fatalf("expected 6 parts, got %d", len(parts))
	}

	// interior = 720 - 36 = 684, spacing = 684/3 = 228
	s1 := findRole(t, parts, design.RoleShelf, 0)
	s2 := findRole(t, parts, design.RoleShelf, 1)
	if s1.Position.Y != 246 { // 18 + 228
		t.Errorf("shelf 1 Y = %v, want 246", s1.Position.Y)
	}
	if s2.Position.Y != 474 { // 18 + 456
		t.Errorf("shelf 2 Y = %v, want 474", s2.Position.Y)
	}
	if s1.Width != 564 { // shelves stay inset in any placement mode
		t.Errorf("shelf width = %v, want 564", s1.Width)
	}
}

func TestKitchenDoorLayout(t *testing.T) {
	parts, err := Kitchen(kitchenCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d1 := findRole(t, parts, design.RoleDoor, 0)
	d2 := findRole(t, parts, design.RoleDoor, 1)

	// doorW = (600 - 4 - 3) / 2 = 296.5
	if d1.Width != 296.5 {
		t.Errorf("door width = %v, want 296.5", d1.Width)
	}
	if d1.Height != 716 { // H - 2*FrontMargin
		t.Errorf("door height = %v, want 716", d1.Height)
	}

	// x1 = -300 + 2 + 148.25, x2 = x1 + 296.5 + 3
	if math.Abs(d1.Position.X - -149.75) > 1e-9 {
		t.Errorf("door 1 X = %v, want -149.75", d1.Position.X)
	}
	if math.Abs(d2.Position.X-149.75) > 1e-9 {
		t.Errorf("door 2 X = %v, want 149.75", d2.Position.X)
	}

	// Door sits in front of the body; front falls back to body material.
	if d1.Position.Z != 264 { // 510/2 + 18/2
		t.Errorf("door Z = %v, want 264", d1.Position.Z)
	}
	if !d1.EdgeBanding.HasAny() || d1.EdgeBanding.EdgeCount() != 4 {
		t.Errorf("door banding = %v, want all four edges", d1.EdgeBanding)
	}
}

func TestDoorsUseFrontMaterial(t *testing.T) {
	ctx := kitchenCtx()
	ctx.Front = front

	parts, err := Kitchen(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := findRole(t, parts, design.RoleDoor, 0)
	if d.MaterialID != "front-19" {
		t.Errorf("door material = %s, want front-19", d.MaterialID)
	}
	if d.Position.Z != 264.5 { // 510/2 + 19/2
		t.Errorf("door Z = %v, want 264.5", d.Position.Z)
	}
}

func TestBackPanelOverlap(t *testing.T) {
	parts, err := Kitchen(kitchenCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := findRole(t, parts, design.RoleBack, 0)

	// overlap = max(18 * 2/3, 4) = 12, inset = 6, width = 600-12 = 588
	if b.Width != 588 {
		t.Errorf("back width = %v, want 588", b.Width)
	}
	if b.Height != 708 {
		t.Errorf("back height = %v, want 708", b.Height)
	}
	if b.Position.Z != -256.5 { // -510/2 - 3/2
		t.Errorf("back Z = %v, want -256.5", b.Position.Z)
	}
	if b.MaterialID != "hdf-3" || b.Depth != 3 {
		t.Errorf("back material = %s/%v, want hdf-3/3", b.MaterialID, b.Depth)
	}
}

func TestBackPanelMinimumSize(t *testing.T) {
	ctx := kitchenCtx()
	ctx.Params.Width = 40
	ctx.Params.Height = 30

	parts, err := Kitchen(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := findRole(t, parts, design.RoleBack, 0)
	if b.Width != MinBackPanel || b.Height != MinBackPanel {
		t.Errorf("tiny back = %vx%v, want clamped to %v", b.Width, b.Height, MinBackPanel)
	}
}

func TestNoBackWithoutMaterial(t *testing.T) {
	ctx := kitchenCtx()
	ctx.Back = nil

	parts, err := Kitchen(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range parts {
		if p.CabinetMeta.Role == design.RoleBack {
			t.Error("back panel generated without a back material")
		}
	}
}

func TestWardrobeDoorClamp(t *testing.T) {
	tests := []struct {
		doors int
		want  int
	}{
		{0, 1},
		{1, 1},
		{3, 3},
		{9, 4},
	}

	for _, tt := range tests {
		ctx := kitchenCtx()
		ctx.Params.Type = design.CabinetWardrobe
		ctx.Params.DoorCount = tt.doors

		parts, err := Wardrobe(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := 0
		for _, p := range parts {
			if p.CabinetMeta.Role == design.RoleDoor {
				got++
			}
		}
		if got != tt.want {
			t.Errorf("DoorCount %d: generated %d doors, want %d", tt.doors, got, tt.want)
		}
	}
}

func TestDrawerFrontClampAndStack(t *testing.T) {
	ctx := kitchenCtx()
	ctx.Params.Type = design.CabinetDrawer
	ctx.Params.ShelfCount = 0
	ctx.Params.HasDoors = false
	ctx.Params.DrawerCount = 1 // clamps up to 2

	parts, err := Drawer(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fronts []*design.Part
	for _, p := range parts {
		if p.CabinetMeta.Role == design.RoleDrawerFront {
			fronts = append(fronts, p)
		}
	}
	if len(fronts) != 2 {
		t.Fatalf("expected 2 drawer fronts, got %d", len(fronts))
	}

	// interior = 684, frontH = (684-3)/2 = 340.5
	if fronts[0].Height != 340.5 {
		t.Errorf("front height = %v, want 340.5", fronts[0].Height)
	}
	if fronts[0].Position.Y != 188.25 { // 18 + 340.5/2
		t.Errorf("front 1 Y = %v, want 188.25", fronts[0].Position.Y)
	}
	if fronts[1].Position.Y != 531.75 { // + 340.5 + 3
		t.Errorf("front 2 Y = %v, want 531.75", fronts[1].Position.Y)
	}
}

func TestBookshelfHasNoFronts(t *testing.T) {
	ctx := kitchenCtx()
	ctx.Params.Type = design.CabinetBookshelf
	ctx.Params.ShelfCount = 3

	parts, err := Bookshelf(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range parts {
		switch p.CabinetMeta.Role {
		case design.RoleDoor, design.RoleDrawerFront:
			t.Errorf("bookshelf generated front part %q", p.Name)
		}
	}
}

func TestDegenerateDimensionsClampToZero(t *testing.T) {
	ctx := kitchenCtx()
	ctx.Params.Height = 20 // smaller than two panel thicknesses
	ctx.Params.HasBack = false

	parts, err := Kitchen(ctx)
	if err != nil {
		t.Fatalf("degenerate params must not error: %v", err)
	}
	side := findRole(t, parts, design.RoleLeftSide, 0)
	if side.Height < 0 {
		t.Errorf("side height = %v, want >= 0", side.Height)
	}
	s := findRole(t, parts, design.RoleShelf, 0)
	if s.Position.Y < 0 {
		t.Errorf("shelf Y = %v, want >= 0", s.Position.Y)
	}
}

func TestTypeMismatch(t *testing.T) {
	ctx := kitchenCtx()
	ctx.Params.Type = design.CabinetWardrobe

	if _, err := Kitchen(ctx); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestMissingBodyMaterial(t *testing.T) {
	ctx := kitchenCtx()
	ctx.Body = nil

	if _, err := Kitchen(ctx); !errors.Is(err, ErrNoBodyMaterial) {
		t.Errorf("expected ErrNoBodyMaterial, got %v", err)
	}
}

func TestGenerateDispatch(t *testing.T) {
	parts, err := Generate(kitchenCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) == 0 {
		t.Fatal("dispatch produced no parts")
	}

	if _, err := For(design.CabinetType(99)); err == nil {
		t.Error("expected error for unknown cabinet type")
	}
}

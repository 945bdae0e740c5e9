package lifecycle

import (
	"math"
	"testing"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/history"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/transform"
)

var testCatalog = design.Catalog{
	{ID: "board-18", Name: "Chipboard 18", Thickness: 18, Category: design.CategoryBoard, IsDefault: true},
	{ID: "front-19", Name: "Front 19", Thickness: 19, Category: design.CategoryFront},
	{ID: "hdf-3", Name: "HDF 3", Thickness: 3, Category: design.CategoryHDF},
}

func newTestService() *Service {
	return NewService(testCatalog, Options{FurnitureID: "furn"})
}

func kitchenParams() design.CabinetParams {
	return design.CabinetParams{
		Type:   design.CabinetKitchen,
		Width:  600,
		Height: 720,
		Depth:  510,

		ShelfCount: 1,
		HasDoors:   true,
		HasBack:    true,
	}
}

func bodyOnly() design.MaterialAssignments {
	return design.MaterialAssignments{Body: "board-18"}
}

func addKitchen(t *testing.T, s *Service) *design.Cabinet {
	t.Helper()
	cab, err := s.AddCabinet("Base 600", kitchenParams(), bodyOnly(), nil, false)
	if err != nil {
		t.Fatalf("AddCabinet: %v", err)
	}
	return cab
}

func TestAddCabinet(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)

	// 4 carcass + 1 shelf + 2 doors + back.
	if len(s.Store.Parts()) != 8 {
		t.Fatalf("expected 8 parts, got %d", len(s.Store.Parts()))
	}
	if len(cab.PartIDs) != 8 {
		t.Errorf("cabinet lists %d part ids, want 8", len(cab.PartIDs))
	}
	for _, id := range cab.PartIDs {
		p := s.Store.Part(id)
		if p == nil {
			t.Fatalf("cabinet references missing part %s", id)
		}
		if p.CabinetMeta == nil || p.CabinetMeta.CabinetID != cab.ID {
			t.Errorf("part %s does not point back at cabinet", id)
		}
		if p.ID == "" || p.CreatedAt.IsZero() {
			t.Errorf("part %s missing identity", id)
		}
	}

	// Back material fell back to the catalog HDF default.
	var backFound bool
	for _, p := range s.Store.Parts() {
		if p.CabinetMeta.Role == design.RoleBack {
			backFound = true
			if p.MaterialID != "hdf-3" {
				t.Errorf("back material = %s, want hdf-3 default", p.MaterialID)
			}
		}
	}
	if !backFound {
		t.Error("no back panel generated")
	}

	if got := s.Store.SelectedCabinet(); got != cab.ID {
		t.Errorf("new cabinet not selected: %s", got)
	}

	// One milestone entry on the stack.
	if s.History.Len() != 1 {
		t.Fatalf("history length = %d, want 1", s.History.Len())
	}
	e := s.History.Entries()[0]
	if e.Type != history.EntryAddCabinet || !e.Meta.IsMilestone {
		t.Errorf("entry = %s milestone=%v, want add-cabinet milestone", e.Type, e.Meta.IsMilestone)
	}
}

func TestAddCabinetAtPlacement(t *testing.T) {
	s := newTestService()
	at := &design.Placement{Center: design.Vec3{X: 1200, Y: 360, Z: 255}}
	cab, err := s.AddCabinet("Base", kitchenParams(), bodyOnly(), at, false)
	if err != nil {
		t.Fatalf("AddCabinet: %v", err)
	}

	got := transform.CabinetTransform(s.Store.PartsOf(cab.ID))
	if !got.Center.ApproxEqual(at.Center, 1e-6) {
		t.Errorf("placed center = %+v, want %+v", got.Center, at.Center)
	}
}

func TestAddCabinetUnknownBodyMaterial(t *testing.T) {
	s := newTestService()
	_, err := s.AddCabinet("Base", kitchenParams(), design.MaterialAssignments{Body: "nope"}, nil, false)
	if err == nil {
		t.Fatal("expected error for unknown body material")
	}
	if len(s.Store.Parts()) != 0 || s.History.Len() != 0 {
		t.Error("failed add left state behind")
	}
}

func TestAddCabinetUndoRedo(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)

	s.History.Undo()
	if len(s.Store.Parts()) != 0 || len(s.Store.Cabinets()) != 0 {
		t.Fatalf("undo left %d parts, %d cabinets", len(s.Store.Parts()), len(s.Store.Cabinets()))
	}

	s.History.Redo()
	if len(s.Store.Parts()) != 8 || s.Store.Cabinet(cab.ID) == nil {
		t.Fatal("redo did not restore the cabinet")
	}
	// Same ids come back; nothing is regenerated.
	for _, id := range cab.PartIDs {
		if s.Store.Part(id) == nil {
			t.Errorf("part %s not restored with its original id", id)
		}
	}
}

func TestSkipHistory(t *testing.T) {
	s := newTestService()
	if _, err := s.AddCabinet("Base", kitchenParams(), bodyOnly(), nil, true); err != nil {
		t.Fatalf("AddCabinet: %v", err)
	}
	if s.History.Len() != 0 {
		t.Errorf("skipHistory add recorded %d entries", s.History.Len())
	}
}

func TestUpdateCabinetParamsPreservesCenter(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)
	before := transform.CabinetTransform(s.Store.PartsOf(cab.ID))

	wide := kitchenParams()
	wide.Width = 800
	remap, err := s.UpdateCabinetParams(cab.ID, wide, design.Vec3{}, false)
	if err != nil {
		t.Fatalf("UpdateCabinetParams: %v", err)
	}

	after := transform.CabinetTransform(s.Store.PartsOf(cab.ID))
	if !after.Center.ApproxEqual(before.Center, 1e-6) {
		t.Errorf("center moved: %+v -> %+v", before.Center, after.Center)
	}

	// Same structure, every old id maps to a new one.
	if len(remap.Map) != 8 || len(remap.Dropped) != 0 {
		t.Errorf("remap = %d mapped / %d dropped, want 8/0", len(remap.Map), len(remap.Dropped))
	}
	for old, new_ := range remap.Map {
		if s.Store.Part(old) != nil {
			t.Errorf("old part %s still live", old)
		}
		if s.Store.Part(new_) == nil {
			t.Errorf("new part %s missing", new_)
		}
	}

	got := s.Store.Cabinet(cab.ID)
	if got.Params.Width != 800 {
		t.Errorf("cabinet record width = %v, want 800", got.Params.Width)
	}
	if len(got.PartIDs) != 8 {
		t.Errorf("cabinet lists %d parts, want 8", len(got.PartIDs))
	}
}

func TestUpdateCabinetParamsCenterOffset(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)
	before := transform.CabinetTransform(s.Store.PartsOf(cab.ID))

	wide := kitchenParams()
	wide.Width = 800
	// Keep the left edge fixed: the center shifts by half the growth.
	if _, err := s.UpdateCabinetParams(cab.ID, wide, design.Vec3{X: 100}, false); err != nil {
		t.Fatalf("UpdateCabinetParams: %v", err)
	}

	after := transform.CabinetTransform(s.Store.PartsOf(cab.ID))
	want := before.Center.Add(design.Vec3{X: 100})
	if !after.Center.ApproxEqual(want, 1e-6) {
		t.Errorf("center = %+v, want %+v", after.Center, want)
	}
}

func TestUpdateCabinetParamsDropsUnmatchedRoles(t *testing.T) {
	s := newTestService()
	params := design.CabinetParams{
		Type: design.CabinetDrawer, Width: 600, Height: 720, Depth: 510,
		DrawerCount: 4, HasBack: true,
	}
	cab, err := s.AddCabinet("Drawers", params, bodyOnly(), nil, false)
	if err != nil {
		t.Fatalf("AddCabinet: %v", err)
	}

	fewer := params
	fewer.DrawerCount = 2
	remap, err := s.UpdateCabinetParams(cab.ID, fewer, design.Vec3{}, false)
	if err != nil {
		t.Fatalf("UpdateCabinetParams: %v", err)
	}
	if len(remap.Dropped) != 2 {
		t.Errorf("dropped = %d, want 2 (drawer fronts 3 and 4)", len(remap.Dropped))
	}
}

func TestRegenerateUndoRestoresOldGeneration(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)
	oldIDs := append([]design.PartID(nil), cab.PartIDs...)

	wide := kitchenParams()
	wide.Width = 800
	if _, err := s.UpdateCabinetParams(cab.ID, wide, design.Vec3{}, false); err != nil {
		t.Fatalf("UpdateCabinetParams: %v", err)
	}

	s.History.Undo()
	got := s.Store.Cabinet(cab.ID)
	if got.Params.Width != 600 {
		t.Errorf("width after undo = %v, want 600", got.Params.Width)
	}
	for _, id := range oldIDs {
		if s.Store.Part(id) == nil {
			t.Errorf("old part %s not restored by undo", id)
		}
	}
	if len(s.Store.Parts()) != 8 {
		t.Errorf("part count after undo = %d, want 8", len(s.Store.Parts()))
	}

	s.History.Redo()
	if got := s.Store.Cabinet(cab.ID); got.Params.Width != 800 {
		t.Errorf("width after redo = %v, want 800", got.Params.Width)
	}
}

func TestUpdateCabinetMaterialsRegenerates(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)

	mats := bodyOnly()
	mats.Front = "front-19"
	if err := s.UpdateCabinet(cab.ID, CabinetPatch{Materials: &mats}, false); err != nil {
		t.Fatalf("UpdateCabinet: %v", err)
	}

	for _, p := range s.Store.PartsOf(cab.ID) {
		if p.CabinetMeta.Role == design.RoleDoor && p.MaterialID != "front-19" {
			t.Errorf("door material = %s, want front-19", p.MaterialID)
		}
	}
	e := s.History.Entries()[s.History.Len()-1]
	if e.Type != history.EntryUpdateCabinet || !e.Meta.IsMilestone {
		t.Errorf("entry = %s milestone=%v, want update-cabinet milestone", e.Type, e.Meta.IsMilestone)
	}
}

func TestRenameCabinet(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)
	partCount := len(s.Store.Parts())

	if err := s.RenameCabinet(cab.ID, "Sink base", false); err != nil {
		t.Fatalf("RenameCabinet: %v", err)
	}
	if got := s.Store.Cabinet(cab.ID).Name; got != "Sink base" {
		t.Errorf("name = %q", got)
	}
	if len(s.Store.Parts()) != partCount {
		t.Error("rename touched part geometry")
	}

	s.History.Undo()
	if got := s.Store.Cabinet(cab.ID).Name; got != "Base 600" {
		t.Errorf("name after undo = %q, want Base 600", got)
	}
}

func TestUpdateCabinetTransform(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)
	oldIDs := append([]design.PartID(nil), cab.PartIDs...)

	target := design.Placement{
		Center:   design.Vec3{X: 900, Y: 360, Z: 255},
		Rotation: design.Vec3{Y: math.Pi / 4},
	}
	if err := s.UpdateCabinetTransform(cab.ID, target, false); err != nil {
		t.Fatalf("UpdateCabinetTransform: %v", err)
	}

	got := transform.BodyTransform(s.Store.PartsOf(cab.ID))
	if !got.Center.ApproxEqual(target.Center, 1e-6) {
		t.Errorf("center = %+v, want %+v", got.Center, target.Center)
	}
	if !got.Rotation.ApproxEqual(target.Rotation, 1e-6) {
		t.Errorf("rotation = %+v, want %+v", got.Rotation, target.Rotation)
	}

	// Rigid move: every part id survives.
	for _, id := range oldIDs {
		if s.Store.Part(id) == nil {
			t.Errorf("transform dropped part %s", id)
		}
	}
	if w := s.Store.Cabinet(cab.ID).World; w == nil || !w.Center.ApproxEqual(target.Center, 1e-9) {
		t.Error("cabinet World placement not recorded")
	}

	// Non-milestone entry.
	e := s.History.Entries()[s.History.Len()-1]
	if e.Type != history.EntryTransformCabinet || e.Meta.IsMilestone {
		t.Errorf("entry = %s milestone=%v", e.Type, e.Meta.IsMilestone)
	}
}

func TestTransformUndoRestoresPositions(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)
	before := transform.BodyTransform(s.Store.PartsOf(cab.ID))

	target := design.Placement{Center: design.Vec3{X: 500, Y: 360}}
	if err := s.UpdateCabinetTransform(cab.ID, target, false); err != nil {
		t.Fatalf("UpdateCabinetTransform: %v", err)
	}

	s.History.Undo()
	got := transform.BodyTransform(s.Store.PartsOf(cab.ID))
	if !got.Center.ApproxEqual(before.Center, 1e-6) {
		t.Errorf("center after undo = %+v, want %+v", got.Center, before.Center)
	}
}

func TestCabinetDragBatch(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)
	baseline := s.History.Len()
	before := transform.BodyTransform(s.Store.PartsOf(cab.ID))

	if err := s.BeginCabinetDrag(cab.ID); err != nil {
		t.Fatalf("BeginCabinetDrag: %v", err)
	}
	// Live drag updates record nothing themselves.
	for i := 1; i <= 5; i++ {
		target := design.Placement{Center: design.Vec3{X: float64(i) * 100, Y: 360, Z: 255}}
		if err := s.UpdateCabinetTransform(cab.ID, target, true); err != nil {
			t.Fatalf("drag step %d: %v", i, err)
		}
	}
	entry := s.EndCabinetDrag(cab.ID)

	if entry == nil {
		t.Fatal("drag with movement produced no entry")
	}
	if s.History.Len() != baseline+1 {
		t.Errorf("history grew by %d, want 1", s.History.Len()-baseline)
	}

	// Undo jumps straight back to the pre-drag placement.
	s.History.Undo()
	got := transform.BodyTransform(s.Store.PartsOf(cab.ID))
	if !got.Center.ApproxEqual(before.Center, 1e-6) {
		t.Errorf("center after undo = %+v, want %+v", got.Center, before.Center)
	}
}

func TestCabinetDragNoMovementDiscarded(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)
	baseline := s.History.Len()

	if err := s.BeginCabinetDrag(cab.ID); err != nil {
		t.Fatalf("BeginCabinetDrag: %v", err)
	}
	if entry := s.EndCabinetDrag(cab.ID); entry != nil {
		t.Errorf("no-op drag produced entry %+v", entry)
	}
	if s.History.Len() != baseline {
		t.Error("no-op drag polluted history")
	}
}

func TestCabinetDragReturnToStartDiscarded(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)
	baseline := s.History.Len()
	start := transform.BodyTransform(s.Store.PartsOf(cab.ID))

	if err := s.BeginCabinetDrag(cab.ID); err != nil {
		t.Fatalf("BeginCabinetDrag: %v", err)
	}
	away := design.Placement{Center: start.Center.Add(design.Vec3{X: 500}), Rotation: start.Rotation}
	if err := s.UpdateCabinetTransform(cab.ID, away, true); err != nil {
		t.Fatalf("drag out: %v", err)
	}
	if err := s.UpdateCabinetTransform(cab.ID, start, true); err != nil {
		t.Fatalf("drag back: %v", err)
	}

	if entry := s.EndCabinetDrag(cab.ID); entry != nil {
		t.Errorf("round-trip drag produced entry %+v", entry)
	}
	if s.History.Len() != baseline {
		t.Errorf("history length = %d, want %d", s.History.Len(), baseline)
	}
	got := transform.BodyTransform(s.Store.PartsOf(cab.ID))
	if got.Center != start.Center {
		t.Errorf("center after round trip = %+v, want %+v", got.Center, start.Center)
	}
}

func TestRemoveCabinet(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)

	if err := s.RemoveCabinet(cab.ID, false); err != nil {
		t.Fatalf("RemoveCabinet: %v", err)
	}
	if len(s.Store.Parts()) != 0 || len(s.Store.Cabinets()) != 0 {
		t.Fatal("remove left parts or record behind")
	}

	s.History.Undo()
	if s.Store.Cabinet(cab.ID) == nil {
		t.Fatal("undo did not restore the cabinet")
	}
	if len(s.Store.Parts()) != 8 {
		t.Errorf("undo restored %d parts, want 8", len(s.Store.Parts()))
	}
	for _, id := range cab.PartIDs {
		if s.Store.Part(id) == nil {
			t.Errorf("part %s not restored", id)
		}
	}
}

func TestRemoveMissingCabinet(t *testing.T) {
	s := newTestService()
	if err := s.RemoveCabinet("ghost", false); err == nil {
		t.Error("expected error for missing cabinet")
	}
}

func TestDuplicateCabinet(t *testing.T) {
	s := newTestService()
	cab := addKitchen(t, s)

	dup, err := s.DuplicateCabinet(cab.ID, false)
	if err != nil {
		t.Fatalf("DuplicateCabinet: %v", err)
	}

	if dup.ID == cab.ID {
		t.Fatal("duplicate shares the source id")
	}
	if dup.Name != "Base 600 (copy)" {
		t.Errorf("duplicate name = %q", dup.Name)
	}
	if len(s.Store.Parts()) != 16 {
		t.Fatalf("expected 16 parts after duplicate, got %d", len(s.Store.Parts()))
	}

	srcCenter := transform.CabinetTransform(s.Store.PartsOf(cab.ID)).Center
	dupCenter := transform.CabinetTransform(s.Store.PartsOf(dup.ID)).Center
	want := srcCenter.Add(design.Vec3{X: DuplicateOffset})
	if !dupCenter.ApproxEqual(want, 1e-9) {
		t.Errorf("duplicate center = %+v, want %+v", dupCenter, want)
	}

	for _, p := range s.Store.PartsOf(dup.ID) {
		if p.CabinetMeta.CabinetID != dup.ID {
			t.Errorf("duplicated part %s still points at source cabinet", p.ID)
		}
	}

	// Non-milestone; undo removes only the copy.
	e := s.History.Entries()[s.History.Len()-1]
	if e.Type != history.EntryDuplicateCabinet || e.Meta.IsMilestone {
		t.Errorf("entry = %s milestone=%v", e.Type, e.Meta.IsMilestone)
	}
	s.History.Undo()
	if s.Store.Cabinet(dup.ID) != nil || len(s.Store.Parts()) != 8 {
		t.Error("undo did not remove the duplicate cleanly")
	}
}

func TestApplyUnknownEntryIsNoop(t *testing.T) {
	s := newTestService()
	addKitchen(t, s)
	parts := len(s.Store.Parts())

	s.Apply(history.NewEntry(history.EntryUnknown, "x", nil, nil), history.DirUndo)
	if len(s.Store.Parts()) != parts {
		t.Error("unknown entry mutated state")
	}
}

func TestApplyOnMissingTargetIsNoop(t *testing.T) {
	s := newTestService()
	ghost := &design.Part{ID: "ghost", Shape: design.RectParams{Width: 100, Height: 100}}
	e := history.NewEntry(history.EntryTransformPart, "ghost",
		history.PartState{Part: ghost}, history.PartState{Part: ghost})

	s.Apply(e, history.DirRedo) // must not panic or insert
	if len(s.Store.Parts()) != 0 {
		t.Error("apply on missing part inserted state")
	}
}

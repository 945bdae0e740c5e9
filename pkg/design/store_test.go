package design

import "testing"

func testPart(id PartID, cabinetID CabinetID) *Part {
	p := &Part{
		ID:    id,
		Name:  string(id),
		Shape: RectParams{Width: 600, Height: 400},
	}
	if cabinetID != "" {
		p.CabinetMeta = &CabinetMetadata{CabinetID: cabinetID, Role: RoleShelf}
	}
	p.SyncBounds()
	return p
}

func TestStorePartOrdering(t *testing.T) {
	s := NewStore()
	s.AddPart(testPart("a", ""))
	s.AddPart(testPart("c", ""))
	s.InsertPartAt(1, testPart("b", ""))

	want := []PartID{"a", "b", "c"}
	parts := s.Parts()
	if len(parts) != len(want) {
		t.Fatalf("expected %d parts, got %d", len(want), len(parts))
	}
	for i, id := range want {
		if parts[i].ID != id {
			t.Errorf("parts[%d] = %s, want %s", i, parts[i].ID, id)
		}
	}

	if got := s.PartIndex("b"); got != 1 {
		t.Errorf("PartIndex(b) = %d, want 1", got)
	}
	if got := s.PartIndex("missing"); got != -1 {
		t.Errorf("PartIndex(missing) = %d, want -1", got)
	}
}

func TestStoreRemovePartReturnsIndex(t *testing.T) {
	s := NewStore()
	s.AddPart(testPart("a", ""))
	s.AddPart(testPart("b", ""))

	p, idx := s.RemovePart("a")
	if p == nil || p.ID != "a" {
		t.Fatalf("expected removed part a, got %v", p)
	}
	if idx != 0 {
		t.Errorf("expected former index 0, got %d", idx)
	}
	if s.Part("a") != nil {
		t.Error("part a still present after removal")
	}

	if p, idx := s.RemovePart("missing"); p != nil || idx != -1 {
		t.Errorf("RemovePart(missing) = (%v, %d), want (nil, -1)", p, idx)
	}
}

func TestStoreRemovePartPrunesSelection(t *testing.T) {
	s := NewStore()
	s.AddPart(testPart("a", ""))
	s.AddPart(testPart("b", ""))
	s.SelectParts([]PartID{"a", "b"})

	s.RemovePart("a")

	sel := s.SelectedParts()
	if len(sel) != 1 || sel[0] != "b" {
		t.Errorf("expected selection [b], got %v", sel)
	}
}

func TestStoreSelectCabinetClearsPartSelection(t *testing.T) {
	s := NewStore()
	s.AddPart(testPart("a", ""))
	s.SelectParts([]PartID{"a"})

	s.SelectCabinet("cab-1")

	if got := s.SelectedCabinet(); got != "cab-1" {
		t.Errorf("SelectedCabinet = %s, want cab-1", got)
	}
	if len(s.SelectedParts()) != 0 {
		t.Errorf("part selection not cleared: %v", s.SelectedParts())
	}
}

func TestStoreRemoveCabinetClearsItsSelection(t *testing.T) {
	s := NewStore()
	s.AddCabinet(&Cabinet{ID: "cab-1"})
	s.SelectCabinet("cab-1")

	s.RemoveCabinet("cab-1")

	if got := s.SelectedCabinet(); got != "" {
		t.Errorf("expected empty cabinet selection, got %s", got)
	}
}

func TestStorePartsOf(t *testing.T) {
	s := NewStore()
	s.AddPart(testPart("a", "cab-1"))
	s.AddPart(testPart("b", "cab-2"))
	s.AddPart(testPart("c", "cab-1"))
	s.AddPart(testPart("free", ""))

	got := s.PartsOf("cab-1")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("PartsOf(cab-1) = %v, want [a c]", got)
	}
}

func TestPartCloneIsDeep(t *testing.T) {
	p := testPart("a", "cab-1")
	p.EdgeBanding = EdgeBanding{Segments: []bool{true, false, true}}

	c := p.Clone()
	c.CabinetMeta.CabinetID = "other"
	c.EdgeBanding.Segments[0] = false

	if p.CabinetMeta.CabinetID != "cab-1" {
		t.Error("clone shares cabinet metadata with original")
	}
	if !p.EdgeBanding.Segments[0] {
		t.Error("clone shares edge banding segments with original")
	}
}

func TestPartSetMaterialUpdatesThickness(t *testing.T) {
	p := testPart("a", "")
	m := &Material{ID: "board-18", Thickness: 18}

	p.SetMaterial(m)

	if p.MaterialID != "board-18" {
		t.Errorf("MaterialID = %s, want board-18", p.MaterialID)
	}
	if p.Depth != 18 {
		t.Errorf("Depth = %v, want 18", p.Depth)
	}

	p.SetMaterial(nil) // no-op
	if p.Depth != 18 {
		t.Errorf("Depth after nil SetMaterial = %v, want 18", p.Depth)
	}
}

func TestCatalogDefaults(t *testing.T) {
	catalog := Catalog{
		{ID: "front-19", Thickness: 19, Category: CategoryFront},
		{ID: "board-18", Thickness: 18, Category: CategoryBoard, IsDefault: true},
		{ID: "hdf-3", Thickness: 3, Category: CategoryHDF},
	}

	if m := catalog.DefaultBack(); m == nil || m.ID != "hdf-3" {
		t.Errorf("DefaultBack = %v, want hdf-3", m)
	}
	if m := catalog.DefaultBody(); m == nil || m.ID != "board-18" {
		t.Errorf("DefaultBody = %v, want board-18", m)
	}

	// No HDF: thinnest material wins as back.
	noHDF := Catalog{
		{ID: "board-18", Thickness: 18},
		{ID: "board-8", Thickness: 8},
	}
	if m := noHDF.DefaultBack(); m == nil || m.ID != "board-8" {
		t.Errorf("DefaultBack without HDF = %v, want board-8", m)
	}

	if m := (Catalog{}).DefaultBack(); m != nil {
		t.Errorf("empty catalog DefaultBack = %v, want nil", m)
	}
}

func TestEdgeBanding(t *testing.T) {
	e := EdgeBanding{Top: true, Bottom: true, Left: true}

	if !e.HasAny() {
		t.Error("HasAny = false for banded part")
	}
	if got := e.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount = %d, want 3", got)
	}
	if got := e.LinearLength(600, 400); got != 1600 {
		t.Errorf("LinearLength = %v, want 1600", got)
	}
	if got := e.String(); got != "T+B+L" {
		t.Errorf("String = %q, want T+B+L", got)
	}
	if got := (EdgeBanding{}).String(); got != "-" {
		t.Errorf("empty String = %q, want -", got)
	}

	// Segments take precedence over the rectangle flags.
	seg := EdgeBanding{Segments: []bool{true, false, true, true}}
	if got := seg.EdgeCount(); got != 3 {
		t.Errorf("segment EdgeCount = %d, want 3", got)
	}
}

func TestShapeBounding(t *testing.T) {
	tests := []struct {
		name  string
		shape ShapeParams
		w, h  float64
	}{
		{"rect", RectParams{Width: 600, Height: 400}, 600, 400},
		{"trapezoid", TrapezoidParams{BottomWidth: 600, TopWidth: 450, Height: 300}, 600, 300},
		{"l-shape", LShapeParams{Width: 800, Height: 600, CutWidth: 300, CutHeight: 200}, 800, 600},
		{"polygon", PolygonParams{Points: []Vec2{{0, 0}, {500, 0}, {500, 250}, {0, 400}}}, 500, 400},
		{"empty polygon", PolygonParams{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.shape.Bounding()
			if w != tt.w || h != tt.h {
				t.Errorf("Bounding() = (%v, %v), want (%v, %v)", w, h, tt.w, tt.h)
			}
		})
	}
}

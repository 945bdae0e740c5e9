package lifecycle

import (
	"fmt"
	"time"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/history"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/transform"
)

// CabinetPatch is a partial cabinet update. Materials and
// TopBottomPlacement changes are structural and trigger regeneration
// with placement preserved; Name is a plain field patch.
type CabinetPatch struct {
	Name               *string
	Materials          *design.MaterialAssignments
	TopBottomPlacement *design.TopBottomPlacement
}

// AddCabinet generates a cabinet at the given placement (canonical frame
// at the origin when nil), inserts its parts and record, selects it and
// records a milestone entry.
func (s *Service) AddCabinet(name string, params design.CabinetParams, mats design.MaterialAssignments, at *design.Placement, skipHistory bool) (*design.Cabinet, error) {
	id := design.NewCabinetID()

	parts, err := s.generateParts(id, params, mats)
	if err != nil {
		return nil, err
	}
	if at != nil {
		transform.ApplyCabinetTransform(parts, at.Center, at.Rotation)
	}

	ts := time.Now()
	assignIdentity(parts, ts)

	cab := &design.Cabinet{
		ID:          id,
		Name:        name,
		FurnitureID: s.furnitureID,
		Params:      params,
		Materials:   mats,
		PartIDs:     partIDs(parts),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	for _, p := range parts {
		s.Store.AddPart(p)
	}
	s.Store.AddCabinet(cab)
	s.Store.SelectCabinet(id)

	if !skipHistory {
		after := history.CabinetSnapshot{
			Cabinet:     cab.Clone(),
			Parts:       design.CloneParts(parts),
			Index:       s.Store.CabinetIndex(id),
			PartIndices: s.partIndices(parts),
		}
		entry := history.NewEntry(history.EntryAddCabinet, string(id), nil, after).
			WithLabel(fmt.Sprintf("Add %s cabinet %q", params.Type, name), "cabinet").
			AsMilestone()
		s.History.Push(entry)
	}

	s.Collisions.Schedule()
	return cab, nil
}

// RenameCabinet patches the display name only.
func (s *Service) RenameCabinet(id design.CabinetID, name string, skipHistory bool) error {
	cab := s.Store.Cabinet(id)
	if cab == nil {
		return fmt.Errorf("lifecycle: cabinet %s not found", id)
	}

	before := history.CabinetState{Cabinet: cab.Clone()}

	updated := cab.Clone()
	updated.Name = name
	updated.UpdatedAt = time.Now()
	s.Store.ReplaceCabinet(updated)

	if !skipHistory {
		after := history.CabinetState{Cabinet: updated.Clone()}
		s.History.Push(history.NewEntry(history.EntryUpdateCabinet, string(id), before, after).
			WithLabel(fmt.Sprintf("Rename cabinet to %q", name), "cabinet"))
	}
	return nil
}

// UpdateCabinet applies a partial update. Structural fields (materials,
// top/bottom placement) regenerate the cabinet in place, preserving the
// aggregate world transform derived from the current parts.
func (s *Service) UpdateCabinet(id design.CabinetID, patch CabinetPatch, skipHistory bool) error {
	cab := s.Store.Cabinet(id)
	if cab == nil {
		return fmt.Errorf("lifecycle: cabinet %s not found", id)
	}

	if patch.Materials == nil && patch.TopBottomPlacement == nil {
		if patch.Name == nil {
			return nil
		}
		return s.RenameCabinet(id, *patch.Name, skipHistory)
	}

	params := cab.Params
	mats := cab.Materials
	name := cab.Name
	if patch.TopBottomPlacement != nil {
		params.TopBottomPlacement = *patch.TopBottomPlacement
	}
	if patch.Materials != nil {
		mats = *patch.Materials
	}
	if patch.Name != nil {
		name = *patch.Name
	}

	_, err := s.regenerate(cab, name, params, mats, design.Vec3{},
		history.EntryUpdateCabinet, "Update cabinet", skipHistory)
	return err
}

// UpdateCabinetParams regenerates a cabinet with new generation
// parameters. The new geometry keeps the cabinet's current aggregate
// transform, optionally shifted by centerOffset (e.g. to keep a wall-side
// edge fixed while the width changes). The returned remap gives the
// old→new part id correspondence.
func (s *Service) UpdateCabinetParams(id design.CabinetID, params design.CabinetParams, centerOffset design.Vec3, skipHistory bool) (*history.PartRemap, error) {
	cab := s.Store.Cabinet(id)
	if cab == nil {
		return nil, fmt.Errorf("lifecycle: cabinet %s not found", id)
	}
	return s.regenerate(cab, cab.Name, params, cab.Materials, centerOffset,
		history.EntryRegenerateCabinet, "Resize cabinet", skipHistory)
}

// regenerate is the shared structural-update path: generate a fresh part
// list, re-project it onto the cabinet's current placement, swap parts
// and record atomically, re-target countertop anchors and record one
// history entry carrying full before/after snapshots plus the remap.
func (s *Service) regenerate(cab *design.Cabinet, name string, params design.CabinetParams, mats design.MaterialAssignments, centerOffset design.Vec3, entryType history.EntryType, label string, skipHistory bool) (*history.PartRemap, error) {
	oldParts := s.Store.PartsOf(cab.ID)
	// Full-list centroid, matching ApplyCabinetTransform's convention, so
	// the re-projected generation lands exactly where the old one stood.
	placement := transform.CabinetTransform(oldParts)
	placement.Center = placement.Center.Add(centerOffset)

	newParts, err := s.generateParts(cab.ID, params, mats)
	if err != nil {
		return nil, err
	}
	transform.ApplyCabinetTransform(newParts, placement.Center, placement.Rotation)

	ts := time.Now()
	assignIdentity(newParts, ts)
	remap := remapParts(oldParts, newParts)

	before := history.CabinetSnapshot{
		Cabinet:     cab.Clone(),
		Parts:       design.CloneParts(oldParts),
		Index:       s.Store.CabinetIndex(cab.ID),
		PartIndices: s.partIndices(oldParts),
	}

	for _, p := range oldParts {
		s.Store.RemovePart(p.ID)
	}
	for _, p := range newParts {
		s.Store.AddPart(p)
	}

	updated := cab.Clone()
	updated.Name = name
	updated.Params = params
	updated.Materials = mats
	updated.PartIDs = partIDs(newParts)
	updated.UpdatedAt = ts
	s.Store.ReplaceCabinet(updated)

	if dangling := s.Countertops.Retarget(cab.ID, remap.Map); len(dangling) > 0 {
		s.logger.Printf("lifecycle: %d countertop anchor(s) dangling after regenerating cabinet %s", len(dangling), cab.ID)
	}

	if !skipHistory {
		after := history.CabinetSnapshot{
			Cabinet:     updated.Clone(),
			Parts:       design.CloneParts(newParts),
			Index:       s.Store.CabinetIndex(cab.ID),
			PartIndices: s.partIndices(newParts),
		}
		entry := history.NewEntry(entryType, string(cab.ID), before, after).
			WithLabel(fmt.Sprintf("%s %q", label, name), "cabinet").
			AsMilestone()
		entry.Remap = remap
		s.History.Push(entry)
	}

	s.Collisions.Schedule()
	return remap, nil
}

// UpdateCabinetTransform moves the cabinet rigidly onto the target
// placement: existing parts orbit into place, no geometry is
// regenerated and all part ids survive.
func (s *Service) UpdateCabinetTransform(id design.CabinetID, target design.Placement, skipHistory bool) error {
	cab := s.Store.Cabinet(id)
	if cab == nil {
		return fmt.Errorf("lifecycle: cabinet %s not found", id)
	}
	parts := s.Store.PartsOf(id)

	var before history.Snapshot
	if !skipHistory {
		before = history.CabinetSnapshot{
			Cabinet: cab.Clone(),
			Parts:   design.CloneParts(parts),
			Index:   -1,
		}
	}

	current := transform.BodyTransform(parts)
	transform.ApplyRigidDelta(parts, current, target)

	ts := time.Now()
	for _, p := range parts {
		p.UpdatedAt = ts
	}
	world := target
	cab.World = &world
	cab.UpdatedAt = ts

	if !skipHistory {
		after := history.CabinetSnapshot{
			Cabinet: cab.Clone(),
			Parts:   design.CloneParts(parts),
			Index:   -1,
		}
		s.History.Push(history.NewEntry(history.EntryTransformCabinet, string(id), before, after).
			WithLabel(fmt.Sprintf("Move cabinet %q", cab.Name), "cabinet"))
	}

	s.Collisions.Schedule()
	return nil
}

// BeginCabinetDrag opens a history batch around a continuous transform
// interaction. Live updates during the drag go through
// UpdateCabinetTransform with skipHistory=true; EndCabinetDrag collapses
// the whole gesture into one entry.
func (s *Service) BeginCabinetDrag(id design.CabinetID) error {
	cab := s.Store.Cabinet(id)
	if cab == nil {
		return fmt.Errorf("lifecycle: cabinet %s not found", id)
	}
	return s.History.BeginBatch(history.EntryTransformCabinet, string(id),
		s.dragSnapshot(cab),
		history.BatchLabel(fmt.Sprintf("Move cabinet %q", cab.Name), "cabinet"))
}

// EndCabinetDrag commits the open drag batch. A drag that ended where it
// started records nothing.
func (s *Service) EndCabinetDrag(id design.CabinetID) *history.Entry {
	cab := s.Store.Cabinet(id)
	if cab == nil {
		s.History.CancelBatch()
		return nil
	}
	return s.History.CommitBatch(s.dragSnapshot(cab))
}

// dragSnapshot captures a cabinet and its parts for the drag batch.
// Every drag update sets World, but a never-moved cabinet carries none;
// pinning the derived placement on both endpoint snapshots lets a
// gesture that went nowhere compare equal and be discarded.
func (s *Service) dragSnapshot(cab *design.Cabinet) history.CabinetSnapshot {
	parts := s.Store.PartsOf(cab.ID)
	snap := history.CabinetSnapshot{
		Cabinet: cab.Clone(),
		Parts:   design.CloneParts(parts),
		Index:   -1,
	}
	if snap.Cabinet.World == nil {
		w := transform.BodyTransform(parts)
		snap.Cabinet.World = &w
	}
	return snap
}

// RemoveCabinet deletes the cabinet and all its parts atomically and
// records a milestone entry carrying everything needed to restore them.
func (s *Service) RemoveCabinet(id design.CabinetID, skipHistory bool) error {
	cab := s.Store.Cabinet(id)
	if cab == nil {
		return fmt.Errorf("lifecycle: cabinet %s not found", id)
	}
	parts := s.Store.PartsOf(id)

	before := history.CabinetSnapshot{
		Cabinet:     cab.Clone(),
		Parts:       design.CloneParts(parts),
		Index:       s.Store.CabinetIndex(id),
		PartIndices: s.partIndices(parts),
	}

	for _, p := range parts {
		s.Store.RemovePart(p.ID)
	}
	s.Store.RemoveCabinet(id)

	if !skipHistory {
		s.History.Push(history.NewEntry(history.EntryRemoveCabinet, string(id), before, nil).
			WithLabel(fmt.Sprintf("Remove cabinet %q", cab.Name), "cabinet").
			AsMilestone())
	}

	s.Collisions.Schedule()
	return nil
}

// DuplicateCabinet deep-copies a cabinet with fresh ids for the record
// and every part, offset along X so the copy is immediately visible.
func (s *Service) DuplicateCabinet(id design.CabinetID, skipHistory bool) (*design.Cabinet, error) {
	src := s.Store.Cabinet(id)
	if src == nil {
		return nil, fmt.Errorf("lifecycle: cabinet %s not found", id)
	}

	ts := time.Now()
	newID := design.NewCabinetID()

	parts := design.CloneParts(s.Store.PartsOf(id))
	for _, p := range parts {
		p.ID = design.NewPartID()
		p.Position.X += DuplicateOffset
		p.CreatedAt = ts
		p.UpdatedAt = ts
		if p.CabinetMeta != nil {
			p.CabinetMeta.CabinetID = newID
		}
	}

	cab := src.Clone()
	cab.ID = newID
	cab.Name = src.Name + " (copy)"
	cab.PartIDs = partIDs(parts)
	cab.CreatedAt = ts
	cab.UpdatedAt = ts
	if cab.World != nil {
		cab.World.Center.X += DuplicateOffset
	}

	for _, p := range parts {
		s.Store.AddPart(p)
	}
	s.Store.AddCabinet(cab)

	if !skipHistory {
		after := history.CabinetSnapshot{
			Cabinet:     cab.Clone(),
			Parts:       design.CloneParts(parts),
			Index:       s.Store.CabinetIndex(newID),
			PartIndices: s.partIndices(parts),
		}
		s.History.Push(history.NewEntry(history.EntryDuplicateCabinet, string(newID), nil, after).
			WithLabel(fmt.Sprintf("Duplicate cabinet %q", src.Name), "cabinet"))
	}

	s.Collisions.Schedule()
	return cab, nil
}

package lifecycle

import (
	"fmt"
	"time"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/history"
)

// PartPatch is a partial part update. Shape changes re-derive the
// denormalized bounds; material changes pull the thickness from the
// catalog.
type PartPatch struct {
	Name        *string
	Shape       design.ShapeParams
	MaterialID  *design.MaterialID
	EdgeBanding *design.EdgeBanding
	GroupID     *design.GroupID
}

// AddPart inserts a free-standing part. A zero id gets a fresh one.
func (s *Service) AddPart(p *design.Part, skipHistory bool) (*design.Part, error) {
	if p == nil || p.Shape == nil {
		return nil, fmt.Errorf("lifecycle: part needs a shape")
	}

	ts := time.Now()
	if p.ID.IsZero() {
		p.ID = design.NewPartID()
	}
	if p.FurnitureID.IsZero() {
		p.FurnitureID = s.furnitureID
	}
	p.CreatedAt = ts
	p.UpdatedAt = ts
	p.SyncBounds()

	s.Store.AddPart(p)

	if !skipHistory {
		after := history.PartSnapshot{
			Part:       p.Clone(),
			Index:      s.Store.PartIndex(p.ID),
			OwnerIndex: s.ownerIndex(p),
		}
		s.History.Push(history.NewEntry(history.EntryAddPart, string(p.ID), nil, after).
			WithLabel(fmt.Sprintf("Add part %q", p.Name), "part"))
	}

	s.Collisions.Schedule()
	return p, nil
}

// RemovePart deletes one part. When the part belongs to a cabinet, the
// cabinet's id list is pruned so the ownership invariant holds.
func (s *Service) RemovePart(id design.PartID, skipHistory bool) error {
	p := s.Store.Part(id)
	if p == nil {
		return fmt.Errorf("lifecycle: part %s not found", id)
	}

	before := history.PartSnapshot{
		Part:       p.Clone(),
		Index:      s.Store.PartIndex(id),
		OwnerIndex: s.ownerIndex(p),
	}

	s.Store.RemovePart(id)
	s.pruneCabinetPartID(p)

	if !skipHistory {
		s.History.Push(history.NewEntry(history.EntryRemovePart, string(id), before, nil).
			WithLabel(fmt.Sprintf("Remove part %q", p.Name), "part"))
	}

	s.Collisions.Schedule()
	return nil
}

// UpdatePart applies a partial update to one part.
func (s *Service) UpdatePart(id design.PartID, patch PartPatch, skipHistory bool) error {
	p := s.Store.Part(id)
	if p == nil {
		return fmt.Errorf("lifecycle: part %s not found", id)
	}

	before := history.PartState{Part: p.Clone()}

	updated := p.Clone()
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Shape != nil {
		updated.Shape = patch.Shape
		updated.SyncBounds()
	}
	if patch.MaterialID != nil {
		m := s.Catalog.ByID(*patch.MaterialID)
		if m == nil {
			return fmt.Errorf("lifecycle: material %q not in catalog", *patch.MaterialID)
		}
		updated.SetMaterial(m)
	}
	if patch.EdgeBanding != nil {
		updated.EdgeBanding = *patch.EdgeBanding
	}
	if patch.GroupID != nil {
		updated.GroupID = *patch.GroupID
	}
	updated.UpdatedAt = time.Now()
	s.Store.ReplacePart(updated)

	if !skipHistory {
		after := history.PartState{Part: updated.Clone()}
		s.History.Push(history.NewEntry(history.EntryUpdatePart, string(id), before, after).
			WithLabel(fmt.Sprintf("Update part %q", updated.Name), "part"))
	}

	s.Collisions.Schedule()
	return nil
}

// TransformPart sets a part's position and rotation directly.
func (s *Service) TransformPart(id design.PartID, pos, rot design.Vec3, skipHistory bool) error {
	p := s.Store.Part(id)
	if p == nil {
		return fmt.Errorf("lifecycle: part %s not found", id)
	}

	before := history.PartState{Part: p.Clone()}

	p.Position = pos
	p.Rotation = rot
	p.UpdatedAt = time.Now()

	if !skipHistory {
		after := history.PartState{Part: p.Clone()}
		s.History.Push(history.NewEntry(history.EntryTransformPart, string(id), before, after).
			WithLabel(fmt.Sprintf("Move part %q", p.Name), "part"))
	}

	s.Collisions.Schedule()
	return nil
}

// DuplicatePart copies one part with a fresh id, offset along X. The
// copy is free-standing: cabinet membership does not transfer.
func (s *Service) DuplicatePart(id design.PartID, skipHistory bool) (*design.Part, error) {
	src := s.Store.Part(id)
	if src == nil {
		return nil, fmt.Errorf("lifecycle: part %s not found", id)
	}

	ts := time.Now()
	dup := src.Clone()
	dup.ID = design.NewPartID()
	dup.Name = src.Name + " (copy)"
	dup.Position.X += DuplicateOffset
	dup.CabinetMeta = nil
	dup.CreatedAt = ts
	dup.UpdatedAt = ts

	s.Store.AddPart(dup)

	if !skipHistory {
		after := history.PartSnapshot{
			Part:       dup.Clone(),
			Index:      s.Store.PartIndex(dup.ID),
			OwnerIndex: -1, // copies are free-standing
		}
		s.History.Push(history.NewEntry(history.EntryDuplicatePart, string(dup.ID), nil, after).
			WithLabel(fmt.Sprintf("Duplicate part %q", src.Name), "part"))
	}

	s.Collisions.Schedule()
	return dup, nil
}

// ---------------------------------------------------------------------------
// Multiselect
// ---------------------------------------------------------------------------

// TransformMultiselect translates every listed part by the same delta as
// one undoable step. Unknown ids are skipped.
func (s *Service) TransformMultiselect(ids []design.PartID, delta design.Vec3, skipHistory bool) error {
	parts := s.resolveParts(ids)
	if len(parts) == 0 {
		return fmt.Errorf("lifecycle: no parts to transform")
	}

	before := history.MultiSnapshot{Parts: design.CloneParts(parts)}

	ts := time.Now()
	for _, p := range parts {
		p.Position = p.Position.Add(delta)
		p.UpdatedAt = ts
	}

	if !skipHistory {
		after := history.MultiSnapshot{Parts: design.CloneParts(parts)}
		entry := history.NewEntry(history.EntryTransformMultiselect, "", before, after).
			WithLabel(fmt.Sprintf("Move %d parts", len(parts)), "part")
		entry.TargetIDs = idStrings(parts)
		s.History.Push(entry)
	}

	s.Collisions.Schedule()
	return nil
}

// DeleteMultiselect removes every listed part as one undoable step.
func (s *Service) DeleteMultiselect(ids []design.PartID, skipHistory bool) error {
	parts := s.resolveParts(ids)
	if len(parts) == 0 {
		return fmt.Errorf("lifecycle: no parts to delete")
	}

	snap := history.MultiSnapshot{
		Parts:        design.CloneParts(parts),
		Indices:      s.partIndices(parts),
		OwnerIndices: s.ownerIndices(parts),
	}

	for _, p := range parts {
		s.Store.RemovePart(p.ID)
		s.pruneCabinetPartID(p)
	}

	if !skipHistory {
		entry := history.NewEntry(history.EntryDeleteMultiselect, "", snap, nil).
			WithLabel(fmt.Sprintf("Delete %d parts", len(parts)), "part")
		entry.TargetIDs = idStrings(parts)
		s.History.Push(entry)
	}

	s.Collisions.Schedule()
	return nil
}

// DuplicateMultiselect copies every listed part, preserving the relative
// arrangement, offset along X as one block.
func (s *Service) DuplicateMultiselect(ids []design.PartID, skipHistory bool) ([]*design.Part, error) {
	parts := s.resolveParts(ids)
	if len(parts) == 0 {
		return nil, fmt.Errorf("lifecycle: no parts to duplicate")
	}

	ts := time.Now()
	dups := design.CloneParts(parts)
	for _, p := range dups {
		p.ID = design.NewPartID()
		p.Position.X += DuplicateOffset
		p.CabinetMeta = nil
		p.CreatedAt = ts
		p.UpdatedAt = ts
	}
	for _, p := range dups {
		s.Store.AddPart(p)
	}

	if !skipHistory {
		after := history.MultiSnapshot{
			Parts:   design.CloneParts(dups),
			Indices: s.partIndices(dups),
		}
		entry := history.NewEntry(history.EntryDuplicateMultiselect, "", nil, after).
			WithLabel(fmt.Sprintf("Duplicate %d parts", len(dups)), "part")
		entry.TargetIDs = idStrings(dups)
		s.History.Push(entry)
	}

	s.Collisions.Schedule()
	return dups, nil
}

// UpdateGroup applies one patch to every part of a group as one
// undoable step.
func (s *Service) UpdateGroup(groupID design.GroupID, patch PartPatch, skipHistory bool) error {
	var parts []*design.Part
	for _, p := range s.Store.Parts() {
		if p.GroupID == groupID {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return fmt.Errorf("lifecycle: group %s has no parts", groupID)
	}

	before := history.GroupSnapshot{GroupID: groupID, Parts: design.CloneParts(parts)}

	ts := time.Now()
	for _, p := range parts {
		updated := p.Clone()
		if patch.Name != nil {
			updated.Name = *patch.Name
		}
		if patch.Shape != nil {
			updated.Shape = patch.Shape
			updated.SyncBounds()
		}
		if patch.MaterialID != nil {
			m := s.Catalog.ByID(*patch.MaterialID)
			if m == nil {
				return fmt.Errorf("lifecycle: material %q not in catalog", *patch.MaterialID)
			}
			updated.SetMaterial(m)
		}
		if patch.EdgeBanding != nil {
			updated.EdgeBanding = *patch.EdgeBanding
		}
		updated.UpdatedAt = ts
		s.Store.ReplacePart(updated)
	}

	if !skipHistory {
		after := history.GroupSnapshot{GroupID: groupID, Parts: design.CloneParts(s.groupParts(groupID))}
		s.History.Push(history.NewEntry(history.EntryUpdateGroup, string(groupID), before, after).
			WithLabel(fmt.Sprintf("Update group (%d parts)", len(parts)), "group"))
	}

	s.Collisions.Schedule()
	return nil
}

// resolveParts maps ids to live parts, dropping unknown ids.
func (s *Service) resolveParts(ids []design.PartID) []*design.Part {
	var out []*design.Part
	for _, id := range ids {
		if p := s.Store.Part(id); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) groupParts(groupID design.GroupID) []*design.Part {
	var out []*design.Part
	for _, p := range s.Store.Parts() {
		if p.GroupID == groupID {
			out = append(out, p)
		}
	}
	return out
}

// pruneCabinetPartID drops a removed part's id from its owning cabinet.
func (s *Service) pruneCabinetPartID(p *design.Part) {
	if p.CabinetMeta == nil {
		return
	}
	cab := s.Store.Cabinet(p.CabinetMeta.CabinetID)
	if cab == nil {
		return
	}
	for i, id := range cab.PartIDs {
		if id == p.ID {
			cab.PartIDs = append(cab.PartIDs[:i], cab.PartIDs[i+1:]...)
			cab.UpdatedAt = time.Now()
			return
		}
	}
}

package lifecycle

import (
	"time"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/history"
)

// Apply is the history dispatcher: it replays an entry's stored
// snapshots onto the live store, in either direction, without ever
// re-running a generator. It follows the defensive contract — a missing
// target is a silent no-op, a malformed snapshot a logged one — and
// never records history itself.
func (s *Service) Apply(e *history.Entry, dir history.Direction) {
	switch e.Type {

	// Creation entries carry only After; undo deletes, redo restores.
	case history.EntryAddPart, history.EntryDuplicatePart:
		snap, ok := e.After.(history.PartSnapshot)
		if !ok || snap.Part == nil {
			s.warnSnapshot(e, dir)
			return
		}
		if dir == history.DirUndo {
			s.deletePart(snap.Part)
		} else {
			s.restorePart(snap)
		}

	case history.EntryRemovePart:
		snap, ok := e.Before.(history.PartSnapshot)
		if !ok || snap.Part == nil {
			s.warnSnapshot(e, dir)
			return
		}
		if dir == history.DirUndo {
			s.restorePart(snap)
		} else {
			s.deletePart(snap.Part)
		}

	case history.EntryUpdatePart, history.EntryTransformPart:
		state, ok := s.pick(e, dir).(history.PartState)
		if !ok || state.Part == nil {
			s.warnSnapshot(e, dir)
			return
		}
		if s.Store.Part(state.Part.ID) == nil {
			return // target gone in the interim
		}
		restored := state.Part.Clone()
		restored.UpdatedAt = time.Now()
		s.Store.ReplacePart(restored)

	case history.EntryAddCabinet, history.EntryDuplicateCabinet:
		snap, ok := e.After.(history.CabinetSnapshot)
		if !ok || snap.Cabinet == nil {
			s.warnSnapshot(e, dir)
			return
		}
		if dir == history.DirUndo {
			s.deleteCabinet(snap)
		} else {
			s.restoreCabinet(snap)
		}

	case history.EntryRemoveCabinet:
		snap, ok := e.Before.(history.CabinetSnapshot)
		if !ok || snap.Cabinet == nil {
			s.warnSnapshot(e, dir)
			return
		}
		if dir == history.DirUndo {
			s.restoreCabinet(snap)
		} else {
			s.deleteCabinet(snap)
		}

	case history.EntryUpdateCabinet:
		// Plain field patch when both sides are CabinetState; structural
		// regeneration snapshots otherwise.
		if state, ok := s.pick(e, dir).(history.CabinetState); ok {
			if state.Cabinet == nil || s.Store.Cabinet(state.Cabinet.ID) == nil {
				return
			}
			restored := state.Cabinet.Clone()
			restored.UpdatedAt = time.Now()
			s.Store.ReplaceCabinet(restored)
			return
		}
		s.applyStructural(e, dir)

	case history.EntryRegenerateCabinet:
		s.applyStructural(e, dir)

	case history.EntryTransformCabinet:
		snap, ok := s.pick(e, dir).(history.CabinetSnapshot)
		if !ok || snap.Cabinet == nil {
			s.warnSnapshot(e, dir)
			return
		}
		if s.Store.Cabinet(snap.Cabinet.ID) == nil {
			return
		}
		ts := time.Now()
		restored := snap.Cabinet.Clone()
		restored.UpdatedAt = ts
		s.Store.ReplaceCabinet(restored)
		for _, p := range snap.Parts {
			if s.Store.Part(p.ID) == nil {
				continue
			}
			rp := p.Clone()
			rp.UpdatedAt = ts
			s.Store.ReplacePart(rp)
		}

	case history.EntryTransformMultiselect:
		snap, ok := s.pick(e, dir).(history.MultiSnapshot)
		if !ok || len(snap.Parts) == 0 {
			s.warnSnapshot(e, dir)
			return
		}
		ts := time.Now()
		for _, p := range snap.Parts {
			if s.Store.Part(p.ID) == nil {
				continue
			}
			rp := p.Clone()
			rp.UpdatedAt = ts
			s.Store.ReplacePart(rp)
		}

	case history.EntryDeleteMultiselect:
		snap, ok := e.Before.(history.MultiSnapshot)
		if !ok || len(snap.Parts) == 0 {
			s.warnSnapshot(e, dir)
			return
		}
		if dir == history.DirUndo {
			for i, p := range snap.Parts {
				idx, owner := -1, -1
				if i < len(snap.Indices) {
					idx = snap.Indices[i]
				}
				if i < len(snap.OwnerIndices) {
					owner = snap.OwnerIndices[i]
				}
				s.restorePart(history.PartSnapshot{Part: p, Index: idx, OwnerIndex: owner})
			}
		} else {
			for _, p := range snap.Parts {
				s.deletePart(p)
			}
		}

	case history.EntryDuplicateMultiselect:
		snap, ok := e.After.(history.MultiSnapshot)
		if !ok || len(snap.Parts) == 0 {
			s.warnSnapshot(e, dir)
			return
		}
		if dir == history.DirUndo {
			for _, p := range snap.Parts {
				s.deletePart(p)
			}
		} else {
			for i, p := range snap.Parts {
				idx := -1
				if i < len(snap.Indices) {
					idx = snap.Indices[i]
				}
				s.restorePart(history.PartSnapshot{Part: p, Index: idx, OwnerIndex: -1})
			}
		}

	case history.EntryUpdateGroup:
		snap, ok := s.pick(e, dir).(history.GroupSnapshot)
		if !ok || len(snap.Parts) == 0 {
			s.warnSnapshot(e, dir)
			return
		}
		ts := time.Now()
		for _, p := range snap.Parts {
			if s.Store.Part(p.ID) == nil {
				continue
			}
			rp := p.Clone()
			rp.UpdatedAt = ts
			s.Store.ReplacePart(rp)
		}

	case history.EntryAddCountertop,
		history.EntryRemoveCountertop,
		history.EntryUpdateCountertopConfig,
		history.EntryBatchUpdateCountertopConfig:
		s.Countertops.Apply(e, dir, s.logger)
		return // countertops don't collide

	default:
		s.logger.Printf("lifecycle: unhandled history entry type %s (%s), ignoring", e.Type, dir)
		return
	}

	s.Collisions.Schedule()
}

// pick selects the snapshot an apply consumes for the direction.
func (s *Service) pick(e *history.Entry, dir history.Direction) history.Snapshot {
	if dir == history.DirUndo {
		return e.Before
	}
	return e.After
}

func (s *Service) warnSnapshot(e *history.Entry, dir history.Direction) {
	s.logger.Printf("lifecycle: malformed %s snapshot (%s), ignoring", e.Type, dir)
}

// restorePart re-inserts a snapshotted part at its recorded index and
// re-registers it with its owning cabinet, at its recorded position in
// the cabinet's ordered id list, when that cabinet still exists.
func (s *Service) restorePart(snap history.PartSnapshot) {
	if s.Store.Part(snap.Part.ID) != nil {
		return // already present
	}
	p := snap.Part.Clone()
	s.Store.InsertPartAt(snap.Index, p)

	if p.CabinetMeta != nil {
		if cab := s.Store.Cabinet(p.CabinetMeta.CabinetID); cab != nil && !containsPartID(cab.PartIDs, p.ID) {
			cab.PartIDs = insertPartIDAt(cab.PartIDs, snap.OwnerIndex, p.ID)
		}
	}
}

// insertPartIDAt splices an id into the list at idx, appending when the
// index is unknown or stale.
func insertPartIDAt(ids []design.PartID, idx int, id design.PartID) []design.PartID {
	if idx < 0 || idx > len(ids) {
		return append(ids, id)
	}
	ids = append(ids, "")
	copy(ids[idx+1:], ids[idx:])
	ids[idx] = id
	return ids
}

// deletePart removes a part and prunes its cabinet registration.
func (s *Service) deletePart(p *design.Part) {
	removed, _ := s.Store.RemovePart(p.ID)
	if removed != nil {
		s.pruneCabinetPartID(removed)
	}
}

// restoreCabinet re-inserts a cabinet record and all its snapshotted
// parts at their recorded indices.
func (s *Service) restoreCabinet(snap history.CabinetSnapshot) {
	if s.Store.Cabinet(snap.Cabinet.ID) == nil {
		s.Store.InsertCabinetAt(snap.Index, snap.Cabinet.Clone())
	}
	for i, p := range snap.Parts {
		if s.Store.Part(p.ID) != nil {
			continue
		}
		idx := -1
		if i < len(snap.PartIndices) {
			idx = snap.PartIndices[i]
		}
		s.Store.InsertPartAt(idx, p.Clone())
	}
}

// deleteCabinet removes the snapshotted parts and the cabinet record.
func (s *Service) deleteCabinet(snap history.CabinetSnapshot) {
	for _, p := range snap.Parts {
		s.Store.RemovePart(p.ID)
	}
	s.Store.RemoveCabinet(snap.Cabinet.ID)
}

// applyStructural replays a regeneration snapshot: the cabinet's current
// parts are swapped wholesale for the snapshotted generation and the
// record is restored, exactly mirroring the forward operation.
func (s *Service) applyStructural(e *history.Entry, dir history.Direction) {
	snap, ok := s.pick(e, dir).(history.CabinetSnapshot)
	if !ok || snap.Cabinet == nil {
		s.warnSnapshot(e, dir)
		return
	}
	cab := s.Store.Cabinet(snap.Cabinet.ID)
	if cab == nil {
		return
	}

	for _, p := range s.Store.PartsOf(cab.ID) {
		s.Store.RemovePart(p.ID)
	}
	for i, p := range snap.Parts {
		idx := -1
		if i < len(snap.PartIndices) {
			idx = snap.PartIndices[i]
		}
		s.Store.InsertPartAt(idx, p.Clone())
	}

	restored := snap.Cabinet.Clone()
	restored.UpdatedAt = time.Now()
	s.Store.ReplaceCabinet(restored)

	// Anchors moved with the ids; walk the remap in the apply direction.
	if e.Remap != nil {
		idMap := e.Remap.Map
		if dir == history.DirUndo {
			idMap = invertRemap(e.Remap.Map)
		}
		s.Countertops.Retarget(cab.ID, idMap)
	}
}

func invertRemap(m map[design.PartID]design.PartID) map[design.PartID]design.PartID {
	out := make(map[design.PartID]design.PartID, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func containsPartID(ids []design.PartID, id design.PartID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

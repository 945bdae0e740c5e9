// Package lifecycle orchestrates the cabinet and part operations: it
// calls the generators, preserves world placement through the rigid
// transform utility, assigns identities, mutates the scene store, and
// records history entries. It also implements the history engine's
// apply dispatcher, so undo/redo mutates the same collections without
// ever re-running a generator.
package lifecycle

import (
	"fmt"
	"log"
	"time"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/collision"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/countertop"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/generate"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/history"
)

// DuplicateOffset is the positional offset applied to duplicated parts
// so clones never sit exactly on their source.
const DuplicateOffset = 100.0 // mm, along X

// Options configures a Service.
type Options struct {
	FurnitureID    design.FurnitureID
	HistoryLimit   int
	MilestoneLimit int
	Debounce       time.Duration
	Detector       collision.Detector
	MarkDirty      func()
	Logger         *log.Logger
}

// Service owns the scene state and the operation surface consumed by
// the UI layer. Single-threaded: every method runs on the caller's
// event loop.
type Service struct {
	Store       *design.Store
	Countertops *countertop.Store
	Catalog     design.Catalog
	History     *history.Engine
	Collisions  *collision.Scheduler

	furnitureID design.FurnitureID
	logger      *log.Logger
}

// NewService wires a store, a countertop peer store, a collision
// scheduler and a history engine dispatching back into this service.
func NewService(catalog design.Catalog, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Service{
		Store:       design.NewStore(),
		Countertops: countertop.NewStore(),
		Catalog:     catalog,
		furnitureID: opts.FurnitureID,
		logger:      opts.Logger,
	}
	s.Collisions = collision.NewScheduler(s.Store, collision.Options{
		Debounce: opts.Debounce,
		Detector: opts.Detector,
	})
	s.History = history.NewEngine(s, history.Options{
		Limit:          opts.HistoryLimit,
		MilestoneLimit: opts.MilestoneLimit,
		MarkDirty:      opts.MarkDirty,
		Logger:         opts.Logger,
	})
	return s
}

// resolveMaterials maps role assignments to catalog materials. The body
// material is required; the back material falls back to the catalog
// default (HDF, else thinnest) when the cabinet has a back but no
// explicit assignment.
func (s *Service) resolveMaterials(params design.CabinetParams, mats design.MaterialAssignments) (body, front, back *design.Material, err error) {
	body = s.Catalog.ByID(mats.Body)
	if body == nil {
		return nil, nil, nil, fmt.Errorf("lifecycle: body material %q not in catalog", mats.Body)
	}
	front = s.Catalog.ByID(mats.Front)
	if params.HasBack {
		if mats.Back != "" {
			back = s.Catalog.ByID(mats.Back)
		}
		if back == nil {
			back = s.Catalog.DefaultBack()
		}
	}
	return body, front, back, nil
}

// generateParts produces a fresh blueprint list for the cabinet.
func (s *Service) generateParts(cabinetID design.CabinetID, params design.CabinetParams, mats design.MaterialAssignments) ([]*design.Part, error) {
	body, front, back, err := s.resolveMaterials(params, mats)
	if err != nil {
		return nil, err
	}
	return generate.Generate(generate.Context{
		CabinetID:   cabinetID,
		FurnitureID: s.furnitureID,
		Params:      params,
		Body:        body,
		Front:       front,
		Back:        back,
	})
}

// assignIdentity stamps fresh ids and a shared timestamp onto blueprint
// parts, turning them into live parts.
func assignIdentity(parts []*design.Part, ts time.Time) {
	for _, p := range parts {
		p.ID = design.NewPartID()
		p.CreatedAt = ts
		p.UpdatedAt = ts
	}
}

// partIDs extracts the id list in order.
func partIDs(parts []*design.Part) []design.PartID {
	ids := make([]design.PartID, len(parts))
	for i, p := range parts {
		ids[i] = p.ID
	}
	return ids
}

// idStrings extracts part ids as the history entry's target list.
func idStrings(parts []*design.Part) []string {
	ids := make([]string, len(parts))
	for i, p := range parts {
		ids[i] = string(p.ID)
	}
	return ids
}

// partIndices records each part's current collection index for restores.
func (s *Service) partIndices(parts []*design.Part) []int {
	idx := make([]int, len(parts))
	for i, p := range parts {
		idx[i] = s.Store.PartIndex(p.ID)
	}
	return idx
}

// ownerIndex is the part's position within its owning cabinet's ordered
// id list, -1 for free parts. Restores re-insert at this position so the
// list survives a remove/undo round trip.
func (s *Service) ownerIndex(p *design.Part) int {
	if p.CabinetMeta == nil {
		return -1
	}
	cab := s.Store.Cabinet(p.CabinetMeta.CabinetID)
	if cab == nil {
		return -1
	}
	for i, id := range cab.PartIDs {
		if id == p.ID {
			return i
		}
	}
	return -1
}

func (s *Service) ownerIndices(parts []*design.Part) []int {
	idx := make([]int, len(parts))
	for i, p := range parts {
		idx[i] = s.ownerIndex(p)
	}
	return idx
}

// remapParts builds the old→new part id correspondence after a
// regeneration, matched by structural role + index. Old ids without a
// structural match are reported in Dropped, never silently omitted.
func remapParts(oldParts, newParts []*design.Part) *history.PartRemap {
	type key struct {
		role  design.PartRole
		index int
	}
	byRole := make(map[key]design.PartID, len(newParts))
	for _, p := range newParts {
		if p.CabinetMeta == nil {
			continue
		}
		byRole[key{p.CabinetMeta.Role, p.CabinetMeta.Index}] = p.ID
	}

	remap := &history.PartRemap{Map: make(map[design.PartID]design.PartID)}
	for _, p := range oldParts {
		if p.CabinetMeta == nil {
			continue
		}
		if newID, ok := byRole[key{p.CabinetMeta.Role, p.CabinetMeta.Index}]; ok {
			remap.Map[p.ID] = newID
		} else {
			remap.Dropped = append(remap.Dropped, p.ID)
		}
	}
	return remap
}

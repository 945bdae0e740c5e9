package main

import (
	"log"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/history"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/lifecycle"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/script"
)

// App is the application facade: it owns the lifecycle service and the
// scripting engine and exposes JSON-serializable state to a frontend
// binding layer.
type App struct {
	service *lifecycle.Service
	script  *script.Engine
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// HistoryEntryData summarizes one history entry for timeline display.
type HistoryEntryData struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Kind        string `json:"kind"`
	Type        string `json:"type"`
	IsMilestone bool   `json:"is_milestone"`
}

// StateData is the full scene state returned to the frontend after every
// operation.
type StateData struct {
	Parts      []*design.Part     `json:"parts"`
	Cabinets   []*design.Cabinet  `json:"cabinets"`
	Collisions []design.Collision `json:"collisions"`

	SelectedCabinet design.CabinetID `json:"selected_cabinet,omitempty"`
	SelectedParts   []design.PartID  `json:"selected_parts,omitempty"`

	History      []HistoryEntryData `json:"history"`
	CanUndo      bool               `json:"can_undo"`
	CanRedo      bool               `json:"can_redo"`
	HistoryBytes int                `json:"history_bytes"`
}

// EvalResult bundles a script run's errors with the resulting state.
type EvalResult struct {
	Errors []EvalErrorData `json:"errors"`
	State  StateData       `json:"state"`
}

// NewApp creates an app with the given material catalog.
func NewApp(catalog design.Catalog) *App {
	svc := lifecycle.NewService(catalog, lifecycle.Options{
		FurnitureID: design.NewFurnitureID(),
	})
	return &App{
		service: svc,
		script:  script.NewEngine(svc),
	}
}

// Service exposes the underlying lifecycle service for direct callers.
func (a *App) Service() *lifecycle.Service { return a.service }

// State snapshots the current scene for the frontend.
func (a *App) State() StateData {
	st := a.service.Store
	eng := a.service.History

	entries := eng.Entries()
	hist := make([]HistoryEntryData, 0, len(entries))
	for _, e := range entries {
		hist = append(hist, HistoryEntryData{
			ID:          e.ID,
			Label:       e.Meta.Label,
			Kind:        e.Meta.Kind,
			Type:        e.Type.String(),
			IsMilestone: e.Meta.IsMilestone,
		})
	}

	return StateData{
		Parts:           st.Parts(),
		Cabinets:        st.Cabinets(),
		Collisions:      st.Collisions(),
		SelectedCabinet: st.SelectedCabinet(),
		SelectedParts:   st.SelectedParts(),
		History:         hist,
		CanUndo:         eng.CanUndo(),
		CanRedo:         eng.CanRedo(),
		HistoryBytes:    eng.ApproxBytes(),
	}
}

// RunScript evaluates script source against the scene. Fatal failures
// (timeout, panic) surface as a single error entry.
func (a *App) RunScript(source string) EvalResult {
	result := EvalResult{Errors: []EvalErrorData{}}

	evalErrs, err := a.script.Evaluate(source)
	if err != nil {
		log.Printf("RunScript fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		result.State = a.State()
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}

	result.State = a.State()
	return result
}

// AddCabinet is the direct (non-script) binding for cabinet creation.
func (a *App) AddCabinet(name string, params design.CabinetParams, mats design.MaterialAssignments) (StateData, error) {
	if _, err := a.service.AddCabinet(name, params, mats, nil, false); err != nil {
		return a.State(), err
	}
	return a.State(), nil
}

// Undo reverses the most recent operation.
func (a *App) Undo() StateData {
	a.service.History.Undo()
	return a.State()
}

// Redo re-applies the most recently undone operation.
func (a *App) Redo() StateData {
	a.service.History.Redo()
	return a.State()
}

// JumpTo walks the history timeline to the given entry.
func (a *App) JumpTo(entryID string) StateData {
	a.service.History.JumpTo(entryID)
	return a.State()
}

// Milestones returns the retained milestone entries for timeline display.
func (a *App) Milestones() []HistoryEntryData {
	ms := a.service.History.Milestones()
	out := make([]HistoryEntryData, 0, len(ms))
	for _, e := range ms {
		out = append(out, HistoryEntryData{
			ID:          e.ID,
			Label:       e.Meta.Label,
			Kind:        e.Meta.Kind,
			Type:        e.Type.String(),
			IsMilestone: true,
		})
	}
	return out
}

var _ history.Applier = (*lifecycle.Service)(nil)

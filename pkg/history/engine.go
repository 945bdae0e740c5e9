package history

import (
	"encoding/json"
	"log"
	"sort"
)

// Direction selects which snapshot an apply handler consumes.
type Direction int

const (
	DirUndo Direction = iota // apply the Before snapshot
	DirRedo                  // apply the After snapshot
)

func (d Direction) String() string {
	if d == DirUndo {
		return "undo"
	}
	return "redo"
}

// Applier applies an entry onto the live scene. Implementations must be
// defensive: a missing target or malformed snapshot is a no-op, never a
// panic — a corrupt entry degrades to "nothing happens".
type Applier interface {
	Apply(e *Entry, dir Direction)
}

// Default stack bounds.
const (
	DefaultLimit          = 100
	DefaultMilestoneLimit = 20
)

// fallbackEntryBytes is the flat per-entry size estimate used when an
// entry does not serialize.
const fallbackEntryBytes = 500

// Options configures an Engine.
type Options struct {
	Limit          int         // max undo stack length, DefaultLimit when 0
	MilestoneLimit int         // max milestone stack length, DefaultMilestoneLimit when 0
	MarkDirty      func()      // persistence dirty signal, called on every push
	Logger         *log.Logger // warning sink, log.Default() when nil
}

// Engine maintains the undo/redo stacks. All stacks run oldest→newest.
// Single-threaded by design; the caller's event loop is the only writer.
type Engine struct {
	undo       []*Entry
	redo       []*Entry
	milestones []*Entry

	batch *openBatch

	applier Applier
	opts    Options

	approxBytes int
}

// NewEngine creates an engine that dispatches applies to the given
// applier.
func NewEngine(applier Applier, opts Options) *Engine {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.MilestoneLimit <= 0 {
		opts.MilestoneLimit = DefaultMilestoneLimit
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Engine{applier: applier, opts: opts}
}

// Push records a completed entry: appends to the undo stack, tracks
// milestones, trims to the length limit, clears the redo stack (no
// branching timelines), recomputes the size estimate and signals the
// persistence layer.
func (e *Engine) Push(entry *Entry) {
	if entry == nil {
		return
	}

	e.undo = append(e.undo, entry)

	if entry.Meta.IsMilestone {
		e.milestones = append(e.milestones, entry)
		if over := len(e.milestones) - e.opts.MilestoneLimit; over > 0 {
			e.milestones = append([]*Entry(nil), e.milestones[over:]...)
		}
	}

	e.trim()
	e.redo = nil
	e.approxBytes = e.computeSize()

	if e.opts.MarkDirty != nil {
		e.opts.MarkDirty()
	}
}

// trim enforces the undo stack length limit: the oldest non-milestone
// entries go first; if milestones alone still exceed the limit, the
// oldest entries are dropped regardless. The survivors are re-sorted by
// timestamp since milestone-preserving removal can disturb order.
func (e *Engine) trim() {
	over := len(e.undo) - e.opts.Limit
	if over <= 0 {
		return
	}

	kept := make([]*Entry, 0, e.opts.Limit)
	for _, entry := range e.undo {
		if over > 0 && !entry.Meta.IsMilestone {
			over--
			continue
		}
		kept = append(kept, entry)
	}

	// Milestones alone exceed the limit: drop oldest of any kind.
	if len(kept) > e.opts.Limit {
		kept = append([]*Entry(nil), kept[len(kept)-e.opts.Limit:]...)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Meta.Timestamp.Before(kept[j].Meta.Timestamp)
	})
	e.undo = kept
}

// computeSize returns the approximate serialized byte size of the undo
// and milestone stacks combined.
func (e *Engine) computeSize() int {
	total := 0
	for _, stack := range [][]*Entry{e.undo, e.milestones} {
		for _, entry := range stack {
			b, err := json.Marshal(entry)
			if err != nil {
				total += fallbackEntryBytes
				continue
			}
			total += len(b)
		}
	}
	return total
}

// CanUndo reports whether an undo step is available.
func (e *Engine) CanUndo() bool { return len(e.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (e *Engine) CanRedo() bool { return len(e.redo) > 0 }

// Len returns the undo stack length.
func (e *Engine) Len() int { return len(e.undo) }

// ApproxBytes returns the last computed size estimate.
func (e *Engine) ApproxBytes() int { return e.approxBytes }

// Milestones returns the retained milestone entries, oldest first.
func (e *Engine) Milestones() []*Entry { return e.milestones }

// Entries returns the undo stack, oldest first. Read-only.
func (e *Engine) Entries() []*Entry { return e.undo }

// Undo reverses the most recent entry. No-op on an empty stack.
func (e *Engine) Undo() bool {
	if len(e.undo) == 0 {
		return false
	}
	entry := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]

	e.applier.Apply(entry, DirUndo)

	e.redo = append(e.redo, entry)
	return true
}

// Redo re-applies the most recently undone entry. No-op on an empty
// redo stack.
func (e *Engine) Redo() bool {
	if len(e.redo) == 0 {
		return false
	}
	entry := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]

	e.applier.Apply(entry, DirRedo)

	e.undo = append(e.undo, entry)
	return true
}

// JumpTo walks the timeline to the given entry by repeated single undo
// or redo steps, so every intermediate apply handler runs. The target
// entry ends up as the newest applied entry. Returns false when the id
// is not on the timeline.
func (e *Engine) JumpTo(entryID string) bool {
	target := -1
	for i, entry := range e.undo {
		if entry.ID == entryID {
			target = i
		}
	}
	if target < 0 {
		// The redo stack holds undone entries newest-undone-last; the
		// timeline continues through it in reverse.
		for i := len(e.redo) - 1; i >= 0; i-- {
			if e.redo[i].ID == entryID {
				target = len(e.undo) + (len(e.redo) - 1 - i)
				break
			}
		}
	}
	if target < 0 {
		return false
	}

	want := target + 1 // number of applied entries once we arrive
	for len(e.undo) > want {
		e.Undo()
	}
	for len(e.undo) < want {
		e.Redo()
	}
	return true
}

// Clear drops all history, including any open batch.
func (e *Engine) Clear() {
	e.undo = nil
	e.redo = nil
	e.milestones = nil
	e.batch = nil
	e.approxBytes = 0
}

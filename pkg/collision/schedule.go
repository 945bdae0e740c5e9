package collision

import (
	"time"

	"github.com/bep/debounce"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
)

// DefaultDebounce is the coalescing window for detection requests.
const DefaultDebounce = 100 * time.Millisecond

// Options configures a Scheduler.
type Options struct {
	Debounce time.Duration // DefaultDebounce when 0
	Detector Detector      // NewDetector() when nil
}

// Scheduler owns the shared detection timer. Every geometry-mutating
// operation calls Schedule once; a new call resets the pending timer
// instead of queueing a second run, so only the last call in a rapid
// burst (e.g. a drag) actually detects. The run reads whatever state is
// live at fire time, not a snapshot from the scheduling call.
//
// The timer is a field of the scheduler, never package state, so
// independent instances (tests, multiple projects) cannot interfere.
type Scheduler struct {
	store     *design.Store
	detector  Detector
	debounced func(func())
}

// NewScheduler creates a scheduler bound to a store.
func NewScheduler(store *design.Store, opts Options) *Scheduler {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Detector == nil {
		opts.Detector = NewDetector()
	}
	return &Scheduler{
		store:     store,
		detector:  opts.Detector,
		debounced: debounce.New(opts.Debounce),
	}
}

// Schedule requests a detection pass after the debounce window.
func (s *Scheduler) Schedule() {
	s.debounced(s.DetectNow)
}

// DetectNow runs detection synchronously against the live store state
// and replaces the store's collision list.
func (s *Scheduler) DetectNow() {
	s.store.SetCollisions(s.detector.Detect(s.store.Parts()))
}

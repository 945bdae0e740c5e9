package design

import "strings"

// EdgeBanding holds per-edge banding flags for a rectangular outline.
// Non-rectangular shapes band their bounding edges; per-segment banding
// of polygon outlines is carried in Segments when present.
type EdgeBanding struct {
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`

	// Segments optionally flags individual polygon outline segments.
	// When set it takes precedence over the four rectangle flags.
	Segments []bool `json:"segments,omitempty"`
}

// HasAny reports whether any edge is banded.
func (e EdgeBanding) HasAny() bool {
	for _, s := range e.Segments {
		if s {
			return true
		}
	}
	return e.Top || e.Bottom || e.Left || e.Right
}

// EdgeCount returns the number of banded edges.
func (e EdgeBanding) EdgeCount() int {
	if len(e.Segments) > 0 {
		n := 0
		for _, s := range e.Segments {
			if s {
				n++
			}
		}
		return n
	}
	n := 0
	for _, b := range []bool{e.Top, e.Bottom, e.Left, e.Right} {
		if b {
			n++
		}
	}
	return n
}

// LinearLength returns the total banding length in mm for a part with the
// given bounding width and height.
func (e EdgeBanding) LinearLength(width, height float64) float64 {
	var total float64
	if e.Top {
		total += width
	}
	if e.Bottom {
		total += width
	}
	if e.Left {
		total += height
	}
	if e.Right {
		total += height
	}
	return total
}

// String renders the banded edges as e.g. "T+B+L+R".
func (e EdgeBanding) String() string {
	var parts []string
	if e.Top {
		parts = append(parts, "T")
	}
	if e.Bottom {
		parts = append(parts, "B")
	}
	if e.Left {
		parts = append(parts, "L")
	}
	if e.Right {
		parts = append(parts, "R")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "+")
}

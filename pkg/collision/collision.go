// Package collision provides the part-overlap detection boundary: an
// AABB broad-phase detector over an R-tree, and the debounced scheduler
// that coalesces detection requests from rapid geometry edits.
// Detection only — resolution is out of scope.
package collision

import (
	"github.com/dhconnelly/rtreego"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/transform"
)

// Detector finds overlapping part pairs.
type Detector interface {
	Detect(parts []*design.Part) []design.Collision
}

// contactEpsilon shrinks each box so that panels in exact face contact
// (carcass joints, doors on the front plane) are not reported.
const contactEpsilon = 0.01

// boxedPart is an rtreego spatial wrapping one part's world AABB.
type boxedPart struct {
	part *design.Part
	rect rtreego.Rect
}

func (b *boxedPart) Bounds() rtreego.Rect { return b.rect }

// worldRect computes the part's axis-aligned world bounding box by
// rotating the eight local box corners, then shrinks it by the contact
// epsilon. Returns false for degenerate (empty) parts.
func worldRect(p *design.Part) (rtreego.Rect, bool) {
	hw, hh, hd := p.Width/2, p.Height/2, p.Depth/2
	if hw <= contactEpsilon || hh <= contactEpsilon || hd <= contactEpsilon {
		return rtreego.Rect{}, false
	}

	m := transform.EulerToMatrix(p.Rotation)
	var min, max design.Vec3
	first := true
	for _, sx := range []float64{-hw, hw} {
		for _, sy := range []float64{-hh, hh} {
			for _, sz := range []float64{-hd, hd} {
				c := transform.RotateVec(m, design.Vec3{X: sx, Y: sy, Z: sz}).Add(p.Position)
				if first {
					min, max = c, c
					first = false
					continue
				}
				if c.X < min.X {
					min.X = c.X
				}
				if c.Y < min.Y {
					min.Y = c.Y
				}
				if c.Z < min.Z {
					min.Z = c.Z
				}
				if c.X > max.X {
					max.X = c.X
				}
				if c.Y > max.Y {
					max.Y = c.Y
				}
				if c.Z > max.Z {
					max.Z = c.Z
				}
			}
		}
	}

	lengths := []float64{
		max.X - min.X - 2*contactEpsilon,
		max.Y - min.Y - 2*contactEpsilon,
		max.Z - min.Z - 2*contactEpsilon,
	}
	for _, l := range lengths {
		if l <= 0 {
			return rtreego.Rect{}, false
		}
	}

	rect, err := rtreego.NewRect(rtreego.Point{
		min.X + contactEpsilon,
		min.Y + contactEpsilon,
		min.Z + contactEpsilon,
	}, lengths)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}

// AABBDetector is the default broad-phase detector.
type AABBDetector struct{}

// NewDetector returns the default detector.
func NewDetector() *AABBDetector {
	return &AABBDetector{}
}

// Detect indexes every part's world AABB in an R-tree and reports each
// intersecting pair once. Parts of the same cabinet never collide with
// each other; their contacts are construction joints.
func (d *AABBDetector) Detect(parts []*design.Part) []design.Collision {
	if len(parts) < 2 {
		return nil
	}

	tree := rtreego.NewTree(3, 2, 8)
	boxed := make([]*boxedPart, 0, len(parts))
	for _, p := range parts {
		rect, ok := worldRect(p)
		if !ok {
			continue
		}
		b := &boxedPart{part: p, rect: rect}
		boxed = append(boxed, b)
		tree.Insert(b)
	}

	seen := make(map[[2]design.PartID]bool)
	var out []design.Collision
	for _, b := range boxed {
		for _, hit := range tree.SearchIntersect(b.rect) {
			other := hit.(*boxedPart)
			if other.part.ID == b.part.ID {
				continue
			}
			if sameCabinet(b.part, other.part) {
				continue
			}
			key := pairKey(b.part.ID, other.part.ID)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, design.Collision{A: key[0], B: key[1]})
		}
	}
	return out
}

func sameCabinet(a, b *design.Part) bool {
	return a.CabinetMeta != nil && b.CabinetMeta != nil &&
		a.CabinetMeta.CabinetID == b.CabinetMeta.CabinetID
}

func pairKey(a, b design.PartID) [2]design.PartID {
	if b < a {
		a, b = b, a
	}
	return [2]design.PartID{a, b}
}

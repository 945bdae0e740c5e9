package generate

import (
	"math"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
)

// backPanel generates the shared back panel used by every cabinet type.
//
// The panel sits behind the body, overlapping onto the rear edges of the
// carcass for structural mounting: overlap = max(t·ratio, MinBackOverlap),
// and the panel is inset from the cabinet outline by t − overlap on each
// edge. Width/height never drop below MinBackPanel. Returns nil when the
// cabinet has no back or no back material is available.
func backPanel(ctx Context) *design.Part {
	if !ctx.Params.HasBack || ctx.Back == nil {
		return nil
	}

	p := ctx.Params
	t := ctx.Body.Thickness
	W, H, D := clamp0(p.Width), clamp0(p.Height), clamp0(p.Depth)

	ratio := p.Back.OverlapRatio
	if ratio <= 0 {
		ratio = design.DefaultBackOverlapRatio
	}

	overlap := math.Max(t*ratio, MinBackOverlap)
	inset := t - overlap

	bw := math.Max(W-2*inset, MinBackPanel)
	bh := math.Max(H-2*inset, MinBackPanel)

	// Flush against the body's rear plane, extending further back.
	z := -D/2 - ctx.Back.Thickness/2

	return newPanel(ctx, design.RoleBack, 0, "back",
		design.RectParams{Width: bw, Height: bh}, ctx.Back,
		design.Vec3{Y: H / 2, Z: z}, design.EdgeBanding{})
}

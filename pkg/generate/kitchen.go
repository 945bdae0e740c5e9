package generate

import "github.com/RoberttBukowiecki/meble-sub001/pkg/design"

// Kitchen generates a kitchen base unit: carcass, evenly spaced shelves,
// a fixed two-door layout when HasDoors, and the shared back panel.
func Kitchen(ctx Context) ([]*design.Part, error) {
	if err := checkType(ctx, design.CabinetKitchen); err != nil {
		return nil, err
	}

	parts := carcass(ctx, ctx.Params.ShelfCount)
	if ctx.Params.HasDoors {
		parts = append(parts, doors(ctx, 2)...)
	}
	if back := backPanel(ctx); back != nil {
		parts = append(parts, back)
	}
	return parts, nil
}

package generate

import "github.com/RoberttBukowiecki/meble-sub001/pkg/design"

// Wardrobe generates a wardrobe: carcass, shelves, 1-4 doors from
// DoorCount (clamped), and the shared back panel.
func Wardrobe(ctx Context) ([]*design.Part, error) {
	if err := checkType(ctx, design.CabinetWardrobe); err != nil {
		return nil, err
	}

	parts := carcass(ctx, ctx.Params.ShelfCount)
	parts = append(parts, doors(ctx, clampInt(ctx.Params.DoorCount, 1, 4))...)
	if back := backPanel(ctx); back != nil {
		parts = append(parts, back)
	}
	return parts, nil
}

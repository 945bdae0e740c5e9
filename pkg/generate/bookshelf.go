package generate

import "github.com/RoberttBukowiecki/meble-sub001/pkg/design"

// Bookshelf generates an open shelf unit: carcass, shelves and the
// shared back panel. No fronts.
func Bookshelf(ctx Context) ([]*design.Part, error) {
	if err := checkType(ctx, design.CabinetBookshelf); err != nil {
		return nil, err
	}

	parts := carcass(ctx, ctx.Params.ShelfCount)
	if back := backPanel(ctx); back != nil {
		parts = append(parts, back)
	}
	return parts, nil
}

package generate

import "github.com/RoberttBukowiecki/meble-sub001/pkg/design"

// Drawer generates a drawer unit: carcass, 2-8 stacked drawer fronts
// from DrawerCount (clamped), and the shared back panel. Drawer boxes
// themselves are hardware and produce no cut parts.
func Drawer(ctx Context) ([]*design.Part, error) {
	if err := checkType(ctx, design.CabinetDrawer); err != nil {
		return nil, err
	}

	parts := carcass(ctx, ctx.Params.ShelfCount)
	parts = append(parts, drawerFronts(ctx, clampInt(ctx.Params.DrawerCount, 2, 8))...)
	if back := backPanel(ctx); back != nil {
		parts = append(parts, back)
	}
	return parts, nil
}

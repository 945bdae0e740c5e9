package design

// Material categories used by default-material selection.
const (
	CategoryBoard = "board" // chipboard / plywood body stock
	CategoryHDF   = "hdf"   // thin back-panel stock
	CategoryFront = "front" // door/front stock
)

// Material describes a sheet material. Thickness is in mm.
type Material struct {
	ID        MaterialID `json:"id"`
	Name      string     `json:"name,omitempty"`
	Thickness float64    `json:"thickness"`
	Category  string     `json:"category,omitempty"`
	IsDefault bool       `json:"is_default,omitempty"`
}

// Catalog is the material lookup consumed by generators and lifecycle
// operations. The catalog itself is owned by the (external) project state.
type Catalog []Material

// ByID returns the material with the given id, or nil.
func (c Catalog) ByID(id MaterialID) *Material {
	for i := range c {
		if c[i].ID == id {
			return &c[i]
		}
	}
	return nil
}

// DefaultBody picks the carcass material: an explicit default wins, then
// the first board-categorized material, then the first material at all.
func (c Catalog) DefaultBody() *Material {
	for i := range c {
		if c[i].IsDefault {
			return &c[i]
		}
	}
	for i := range c {
		if c[i].Category == CategoryBoard {
			return &c[i]
		}
	}
	if len(c) > 0 {
		return &c[0]
	}
	return nil
}

// DefaultBack picks the back-panel material: an explicitly HDF-categorized
// material wins, otherwise the thinnest material in the catalog.
func (c Catalog) DefaultBack() *Material {
	for i := range c {
		if c[i].Category == CategoryHDF {
			return &c[i]
		}
	}
	var thinnest *Material
	for i := range c {
		if thinnest == nil || c[i].Thickness < thinnest.Thickness {
			thinnest = &c[i]
		}
	}
	return thinnest
}

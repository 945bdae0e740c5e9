package design

// Collision pairs two overlapping parts. Detection only; resolution is
// out of scope.
type Collision struct {
	A PartID `json:"a"`
	B PartID `json:"b"`
}

// Store is the in-memory scene state: the ordered part list, the ordered
// cabinet list and the current selection. It is single-writer; callers
// replace entities wholesale rather than mutating shared pointers.
type Store struct {
	parts    []*Part
	cabinets []*Cabinet

	selectedCabinet CabinetID
	selectedParts   []PartID

	collisions []Collision
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// ---------------------------------------------------------------------------
// Parts
// ---------------------------------------------------------------------------

// Part returns the part with the given id, or nil.
func (s *Store) Part(id PartID) *Part {
	for _, p := range s.parts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PartIndex returns the collection index of the part, or -1.
func (s *Store) PartIndex(id PartID) int {
	for i, p := range s.parts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Parts returns the live ordered part list. Callers must not retain it
// across mutations.
func (s *Store) Parts() []*Part {
	return s.parts
}

// PartsOf returns the parts owned by the given cabinet, in collection order.
func (s *Store) PartsOf(id CabinetID) []*Part {
	var out []*Part
	for _, p := range s.parts {
		if p.CabinetMeta != nil && p.CabinetMeta.CabinetID == id {
			out = append(out, p)
		}
	}
	return out
}

// AddPart appends a part.
func (s *Store) AddPart(p *Part) {
	s.parts = append(s.parts, p)
}

// InsertPartAt inserts a part at the given index, appending when the
// index is out of range.
func (s *Store) InsertPartAt(i int, p *Part) {
	if i < 0 || i > len(s.parts) {
		s.parts = append(s.parts, p)
		return
	}
	s.parts = append(s.parts, nil)
	copy(s.parts[i+1:], s.parts[i:])
	s.parts[i] = p
}

// RemovePart deletes a part by id and returns the removed part and its
// former index, or (nil, -1) when absent. The selection is pruned.
func (s *Store) RemovePart(id PartID) (*Part, int) {
	i := s.PartIndex(id)
	if i < 0 {
		return nil, -1
	}
	p := s.parts[i]
	s.parts = append(s.parts[:i], s.parts[i+1:]...)
	s.deselectPart(id)
	return p, i
}

// ReplacePart swaps the stored part with the same id for p.
// It is a no-op when the id is not present.
func (s *Store) ReplacePart(p *Part) {
	if i := s.PartIndex(p.ID); i >= 0 {
		s.parts[i] = p
	}
}

// ---------------------------------------------------------------------------
// Cabinets
// ---------------------------------------------------------------------------

// Cabinet returns the cabinet with the given id, or nil.
func (s *Store) Cabinet(id CabinetID) *Cabinet {
	for _, c := range s.cabinets {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CabinetIndex returns the collection index of the cabinet, or -1.
func (s *Store) CabinetIndex(id CabinetID) int {
	for i, c := range s.cabinets {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Cabinets returns the live ordered cabinet list.
func (s *Store) Cabinets() []*Cabinet {
	return s.cabinets
}

// AddCabinet appends a cabinet.
func (s *Store) AddCabinet(c *Cabinet) {
	s.cabinets = append(s.cabinets, c)
}

// InsertCabinetAt inserts a cabinet at the given index, appending when the
// index is out of range.
func (s *Store) InsertCabinetAt(i int, c *Cabinet) {
	if i < 0 || i > len(s.cabinets) {
		s.cabinets = append(s.cabinets, c)
		return
	}
	s.cabinets = append(s.cabinets, nil)
	copy(s.cabinets[i+1:], s.cabinets[i:])
	s.cabinets[i] = c
}

// RemoveCabinet deletes a cabinet by id and returns it with its former
// index, or (nil, -1). Owned parts are not touched; that is the lifecycle
// operation's job. The cabinet selection is cleared when it pointed here.
func (s *Store) RemoveCabinet(id CabinetID) (*Cabinet, int) {
	i := s.CabinetIndex(id)
	if i < 0 {
		return nil, -1
	}
	c := s.cabinets[i]
	s.cabinets = append(s.cabinets[:i], s.cabinets[i+1:]...)
	if s.selectedCabinet == id {
		s.selectedCabinet = ""
	}
	return c, i
}

// ReplaceCabinet swaps the stored cabinet with the same id for c.
func (s *Store) ReplaceCabinet(c *Cabinet) {
	if i := s.CabinetIndex(c.ID); i >= 0 {
		s.cabinets[i] = c
	}
}

// ---------------------------------------------------------------------------
// Selection and collisions
// ---------------------------------------------------------------------------

// SelectCabinet makes the given cabinet the current selection and clears
// any part selection.
func (s *Store) SelectCabinet(id CabinetID) {
	s.selectedCabinet = id
	s.selectedParts = nil
}

// SelectedCabinet returns the selected cabinet id, empty when none.
func (s *Store) SelectedCabinet() CabinetID {
	return s.selectedCabinet
}

// SelectParts replaces the part selection.
func (s *Store) SelectParts(ids []PartID) {
	s.selectedParts = append([]PartID(nil), ids...)
}

// SelectedParts returns the selected part ids.
func (s *Store) SelectedParts() []PartID {
	return s.selectedParts
}

// ClearSelection clears both cabinet and part selection.
func (s *Store) ClearSelection() {
	s.selectedCabinet = ""
	s.selectedParts = nil
}

func (s *Store) deselectPart(id PartID) {
	for i, sel := range s.selectedParts {
		if sel == id {
			s.selectedParts = append(s.selectedParts[:i], s.selectedParts[i+1:]...)
			return
		}
	}
}

// SetCollisions replaces the current collision list.
func (s *Store) SetCollisions(cs []Collision) {
	s.collisions = cs
}

// Collisions returns the current collision list.
func (s *Store) Collisions() []Collision {
	return s.collisions
}

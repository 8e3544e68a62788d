package delve

import "sort"

// SpatialIndex maps grid coordinates to their occupants. A cell holds at
// most one blocking entity (actors) plus any number of non-blocking ones
// (items, corpses). The scheduler validates moves against it and the
// pathfinder treats blockers as temporarily impassable.
//
// The index registers with the registry so destroying an entity vacates its
// cell automatically, before the slot can be recycled.
type SpatialIndex struct {
	blockers map[Coord]Entity
	passers  map[Coord]map[Entity]struct{}
	placed   map[Entity]placement
}

type placement struct {
	at       Coord
	blocking bool
}

func newSpatialIndex(reg *Registry) *SpatialIndex {
	s := &SpatialIndex{
		blockers: make(map[Coord]Entity),
		passers:  make(map[Coord]map[Entity]struct{}),
		placed:   make(map[Entity]placement),
	}
	reg.registerDropper(s)
	return s
}

// Place puts an entity on a cell. A blocking entity entering a cell with a
// blocking occupant fails with CellOccupiedError; non-blocking entities
// stack freely.
func (s *SpatialIndex) Place(e Entity, at Coord, blocking bool) error {
	if _, exists := s.placed[e]; exists {
		return CellOccupiedError{Coord: s.placed[e].at, Occupant: e}
	}
	if blocking {
		if occ, taken := s.blockers[at]; taken {
			return CellOccupiedError{Coord: at, Occupant: occ}
		}
		s.blockers[at] = e
	} else {
		cell := s.passers[at]
		if cell == nil {
			cell = make(map[Entity]struct{})
			s.passers[at] = cell
		}
		cell[e] = struct{}{}
	}
	s.placed[e] = placement{at: at, blocking: blocking}
	return nil
}

// MoveEntity relocates an entity atomically: either the vacate and the
// occupy both happen or neither does, so the index never holds a half-moved
// entity.
func (s *SpatialIndex) MoveEntity(e Entity, from, to Coord) error {
	p, exists := s.placed[e]
	if !exists || p.at != from {
		return UnknownEntityError{Entity: e}
	}
	if p.blocking {
		if occ, taken := s.blockers[to]; taken && occ != e {
			return CellOccupiedError{Coord: to, Occupant: occ}
		}
		delete(s.blockers, from)
		s.blockers[to] = e
	} else {
		s.removePasser(e, from)
		cell := s.passers[to]
		if cell == nil {
			cell = make(map[Entity]struct{})
			s.passers[to] = cell
		}
		cell[e] = struct{}{}
	}
	p.at = to
	s.placed[e] = p
	return nil
}

// Remove vacates the entity's cell. Removing an unplaced entity is a no-op.
func (s *SpatialIndex) Remove(e Entity) {
	p, exists := s.placed[e]
	if !exists {
		return
	}
	if p.blocking {
		delete(s.blockers, p.at)
	} else {
		s.removePasser(e, p.at)
	}
	delete(s.placed, e)
}

// At returns every occupant of a cell: the blocker first, then non-blocking
// occupants in ascending id order.
func (s *SpatialIndex) At(c Coord) []Entity {
	var out []Entity
	if occ, ok := s.blockers[c]; ok {
		out = append(out, occ)
	}
	if cell := s.passers[c]; len(cell) > 0 {
		start := len(out)
		for e := range cell {
			out = append(out, e)
		}
		rest := out[start:]
		sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	}
	return out
}

// BlockerAt reports the blocking occupant of a cell, if any.
func (s *SpatialIndex) BlockerAt(c Coord) (Entity, bool) {
	occ, ok := s.blockers[c]
	return occ, ok
}

// PositionOf reports where an entity currently stands.
func (s *SpatialIndex) PositionOf(e Entity) (Coord, bool) {
	p, ok := s.placed[e]
	return p.at, ok
}

// BlockerSnapshot copies the blocking occupancy, taken at turn start so the
// decision phase plans against a consistent view.
func (s *SpatialIndex) BlockerSnapshot() map[Coord]Entity {
	snap := make(map[Coord]Entity, len(s.blockers))
	for c, e := range s.blockers {
		snap[c] = e
	}
	return snap
}

func (s *SpatialIndex) removePasser(e Entity, at Coord) {
	cell := s.passers[at]
	if cell == nil {
		return
	}
	delete(cell, e)
	if len(cell) == 0 {
		delete(s.passers, at)
	}
}

func (s *SpatialIndex) drop(e Entity) { s.Remove(e) }

func (s *SpatialIndex) flushPending() {}

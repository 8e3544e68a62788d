package delve

import "iter"

// ComponentStore is dense, typed storage for one component kind. Values live
// in a packed slice for cache-friendly scans; a sparse table maps entity
// slots to dense positions for O(1) lookup. An entity holds at most one value
// per kind; absence means the entity lacks that capability.
//
// Removal swaps the last element into the hole and pops, so iteration order
// is insertion order of the currently-present entities but is not stable
// across removals. While the world is locked (a scan is in flight) removals
// are deferred to the unlock flush, which is why a pass never revisits or
// skips an unrelated live entity.
type ComponentStore[T any] struct {
	reg      *Registry
	kind     Kind
	name     string
	dense    []T
	entities []Entity
	sparse   map[uint32]int
	pending  []Entity
}

// FactoryNewStore creates a typed store, assigns it the next capability bit,
// and wires it into the registry's destroy cascade.
func FactoryNewStore[T any](reg *Registry, name string) *ComponentStore[T] {
	s := &ComponentStore[T]{
		reg:    reg,
		name:   name,
		sparse: make(map[uint32]int, 256),
	}
	s.kind = reg.registerStore(s)
	return s
}

// Kind returns the capability bit queries match this store's component by.
func (s *ComponentStore[T]) Kind() Kind { return s.kind }

// Name returns the component kind's registered name.
func (s *ComponentStore[T]) Name() string { return s.name }

// Insert sets the entity's value for this kind, overwriting any previous
// value. Inserting on a dead or stale handle is a caller bug and is surfaced
// as UnknownEntityError rather than ignored.
func (s *ComponentStore[T]) Insert(e Entity, v T) error {
	if !s.reg.Alive(e) {
		return UnknownEntityError{Entity: e}
	}
	slot := e.Index()
	if i, ok := s.sparse[slot]; ok && s.entities[i] == e {
		s.dense[i] = v
		return nil
	}
	s.sparse[slot] = len(s.dense)
	s.dense = append(s.dense, v)
	s.entities = append(s.entities, e)
	s.reg.mark(e, s.kind)
	return nil
}

// Get returns a pointer into the dense slice, valid until the next
// structural mutation of this store.
func (s *ComponentStore[T]) Get(e Entity) (*T, bool) {
	i, ok := s.sparse[e.Index()]
	if !ok || s.entities[i] != e {
		return nil, false
	}
	return &s.dense[i], true
}

func (s *ComponentStore[T]) Has(e Entity) bool {
	i, ok := s.sparse[e.Index()]
	return ok && s.entities[i] == e
}

// Remove deletes the entity's value and returns it. While the world is
// locked the removal is deferred: the returned value is a copy of the current
// one and the store still reports the entity until the unlock flush.
func (s *ComponentStore[T]) Remove(e Entity) (T, bool) {
	var zero T
	i, ok := s.sparse[e.Index()]
	if !ok || s.entities[i] != e {
		return zero, false
	}
	v := s.dense[i]
	if s.reg.Locked() {
		s.pending = append(s.pending, e)
		return v, true
	}
	s.removeAt(i, e)
	return v, true
}

func (s *ComponentStore[T]) Len() int {
	return len(s.dense)
}

// All iterates (entity, value) pairs in insertion order. The world stays
// locked for the duration of the loop; removals requested inside the loop
// apply after it finishes.
func (s *ComponentStore[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		s.reg.Lock()
		defer s.reg.Unlock()
		for i := 0; i < len(s.entities); i++ {
			if !yield(s.entities[i], &s.dense[i]) {
				return
			}
		}
	}
}

// swap-with-last-and-pop
func (s *ComponentStore[T]) removeAt(i int, e Entity) {
	last := len(s.dense) - 1
	if i != last {
		s.dense[i] = s.dense[last]
		s.entities[i] = s.entities[last]
		s.sparse[s.entities[i].Index()] = i
	}
	s.dense = s.dense[:last]
	s.entities = s.entities[:last]
	delete(s.sparse, e.Index())
	if s.reg.Alive(e) {
		s.reg.unmark(e, s.kind)
	}
}

// drop implements the registry destroy cascade.
func (s *ComponentStore[T]) drop(e Entity) {
	if i, ok := s.sparse[e.Index()]; ok && s.entities[i] == e {
		s.removeAt(i, e)
	}
}

// flushPending applies removals deferred while the world was locked.
func (s *ComponentStore[T]) flushPending() {
	if len(s.pending) == 0 {
		return
	}
	for _, e := range s.pending {
		if i, ok := s.sparse[e.Index()]; ok && s.entities[i] == e {
			s.removeAt(i, e)
		}
	}
	s.pending = s.pending[:0]
}

package delve

import (
	"fmt"

	"github.com/TheBitDrifter/mask"
	"go.uber.org/zap"
)

// Entity is an opaque handle: a 32-bit slot index plus a 32-bit generation.
// The generation increments every time a slot is recycled, so a handle kept
// past destruction is detectably stale instead of silently pointing at the
// slot's next occupant. The zero value is never a valid entity.
type Entity uint64

func newEntity(slot, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(slot+1))
}

// Index is the slot index inside registry and store tables.
func (e Entity) Index() uint32 { return uint32(e) - 1 }

func (e Entity) Generation() uint32 { return uint32(e >> 32) }

func (e Entity) IsZero() bool { return e == 0 }

func (e Entity) String() string {
	if e.IsZero() {
		return "entity(none)"
	}
	return fmt.Sprintf("entity(%d:%d)", e.Index(), e.Generation())
}

// EntityMask is the capability set of one entity: one bit per registered
// component kind.
type EntityMask = mask.Mask

// Kind identifies a component kind; it is the bit a store marks in an
// entity's capability mask.
type Kind uint32

// Registry owns entity identity: slot allocation, generations, capability
// masks, and the destroy cascade across every registered store. All other
// per-entity state lives in ComponentStores and the SpatialIndex, which
// register themselves here so a destroy can reach them.
type Registry struct {
	generations []uint32
	alive       []bool
	masks       []EntityMask
	free        []uint32
	stores      []dropper
	nextKind    Kind
	opQueue     opQueue
	locks       int
	log         *zap.Logger
}

func newRegistry(log *zap.Logger) *Registry {
	return &Registry{
		generations: make([]uint32, 0, 1024),
		free:        make([]uint32, 0, 256),
		opQueue:     newOpQueue(),
		log:         log,
	}
}

// Create allocates a fresh entity, recycling a freed slot when one exists.
// A recycled slot keeps its bumped generation so old handles stay invalid.
// Unlike Destroy, Create works under a world lock; a scan in flight may
// observe the new entity.
func (r *Registry) Create() Entity {
	if n := len(r.free); n > 0 {
		slot := r.free[n-1]
		r.free = r.free[:n-1]
		r.alive[slot] = true
		return newEntity(slot, r.generations[slot])
	}
	slot := uint32(len(r.generations))
	r.generations = append(r.generations, 0)
	r.alive = append(r.alive, true)
	r.masks = append(r.masks, EntityMask{})
	return newEntity(slot, 0)
}

// Alive reports whether the handle refers to a live entity. A stale
// generation is indistinguishable from a destroyed entity, which is the
// point.
func (r *Registry) Alive(e Entity) bool {
	if e.IsZero() {
		return false
	}
	slot := e.Index()
	if slot >= uint32(len(r.generations)) {
		return false
	}
	return r.alive[slot] && r.generations[slot] == e.Generation()
}

// Destroy removes the entity and cascades a drop to every registered store,
// then frees the slot. The slot is only recycled after all stores have
// dropped their data, so no store can hand out a dead entity's component.
// Returns UnknownEntityError for stale handles and LockedWorldError while
// iteration is in flight (use EnqueueDestroy there).
func (r *Registry) Destroy(e Entity) error {
	if r.Locked() {
		return LockedWorldError{}
	}
	if !r.Alive(e) {
		return UnknownEntityError{Entity: e}
	}
	for _, s := range r.stores {
		s.drop(e)
	}
	slot := e.Index()
	r.masks[slot] = EntityMask{}
	r.alive[slot] = false
	r.generations[slot]++
	r.free = append(r.free, slot)
	if r.log != nil {
		r.log.Debug("entity destroyed", zap.Stringer("entity", e))
	}
	return nil
}

// EnqueueDestroy destroys immediately when the world is unlocked, otherwise
// queues the destroy for the unlock flush. Queued duplicates collapse.
func (r *Registry) EnqueueDestroy(e Entity) error {
	if !r.Locked() {
		return r.Destroy(e)
	}
	if !r.Alive(e) {
		return UnknownEntityError{Entity: e}
	}
	r.opQueue.enqueueDestroy(e)
	return nil
}

// Count returns the number of live entities.
func (r *Registry) Count() int {
	return len(r.generations) - len(r.free)
}

// Capabilities returns the entity's current component-kind mask.
func (r *Registry) Capabilities(e Entity) EntityMask {
	if !r.Alive(e) {
		return EntityMask{}
	}
	return r.masks[e.Index()]
}

// registerStore assigns the next capability bit and wires the store into the
// destroy cascade.
func (r *Registry) registerStore(d dropper) Kind {
	r.stores = append(r.stores, d)
	k := r.nextKind
	r.nextKind++
	return k
}

// registerDropper wires per-entity state that is not a component store (the
// spatial index) into the destroy cascade without consuming a capability bit.
func (r *Registry) registerDropper(d dropper) {
	r.stores = append(r.stores, d)
}

func (r *Registry) mark(e Entity, k Kind) {
	r.masks[e.Index()].Mark(uint32(k))
}

func (r *Registry) unmark(e Entity, k Kind) {
	r.masks[e.Index()].Unmark(uint32(k))
}

func (r *Registry) slotCount() int {
	return len(r.generations)
}

func (r *Registry) entityAt(slot int) (Entity, bool) {
	if slot < 0 || slot >= len(r.alive) || !r.alive[slot] {
		return 0, false
	}
	return newEntity(uint32(slot), r.generations[slot]), true
}

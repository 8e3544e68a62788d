package delve

// Destructive mutations are deferred while the world is locked: component
// removals queue inside their store, entity destroys queue here. Lock is
// re-entrant (nested iterations stack); the flush happens when the last lock
// releases. Creates are not deferred: a scan in flight may visit entities
// created after it started, it just never loses or revisits existing ones.

type opQueue struct {
	destroys       []Entity
	pendingDestroy map[Entity]struct{}
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[Entity]struct{}),
	}
}

func (q *opQueue) enqueueDestroy(e Entity) {
	if _, exists := q.pendingDestroy[e]; exists {
		return
	}
	q.pendingDestroy[e] = struct{}{}
	q.destroys = append(q.destroys, e)
}

// Lock defers structural mutations until the matching Unlock.
func (r *Registry) Lock() {
	r.locks++
}

func (r *Registry) Locked() bool {
	return r.locks > 0
}

// Unlock releases one lock; releasing the last one applies every deferred
// removal, then every deferred destroy, in the order they were requested.
func (r *Registry) Unlock() {
	if r.locks == 0 {
		return
	}
	r.locks--
	if r.locks > 0 {
		return
	}
	for _, s := range r.stores {
		s.flushPending()
	}
	if len(r.opQueue.destroys) == 0 {
		return
	}
	for _, e := range r.opQueue.destroys {
		if !r.Alive(e) {
			continue // destroyed twice within the same lock window
		}
		if err := r.Destroy(e); err != nil {
			// Destroy cannot fail here: the world is unlocked and
			// liveness was just checked.
			panic(err)
		}
	}
	r.opQueue.destroys = r.opQueue.destroys[:0]
	clear(r.opQueue.pendingDestroy)
}

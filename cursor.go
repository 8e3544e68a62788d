package delve

import "iter"

// Cursor iterates live entities whose capability mask matches a query, in
// ascending entity-id order. That ordering is what makes scheduler passes
// reproducible, so anything feeding the resolution phase scans through a
// Cursor rather than a store join.
//
// The cursor locks the world for the duration of iteration; Reset (or
// exhaustion) unlocks it and deferred mutations apply.
type Cursor struct {
	query QueryNode
	reg   *Registry

	slot        int
	current     Entity
	initialized bool
}

func newCursor(query QueryNode, reg *Registry) *Cursor {
	return &Cursor{
		query: query,
		reg:   reg,
		slot:  -1,
	}
}

func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialized = true
		c.slot = -1
		c.reg.Lock()
	}
	for c.slot+1 < c.reg.slotCount() {
		c.slot++
		e, ok := c.reg.entityAt(c.slot)
		if !ok {
			continue
		}
		if c.query.Evaluate(c.reg.masks[c.slot]) {
			c.current = e
			return true
		}
	}
	c.Reset()
	return false
}

// Entity returns the entity at the cursor position.
func (c *Cursor) Entity() Entity {
	return c.current
}

// Entities is the range-over form of Next/Entity.
func (c *Cursor) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for c.Next() {
			if !yield(c.current) {
				c.Reset()
				return
			}
		}
	}
}

// Reset rewinds the cursor and releases its world lock.
func (c *Cursor) Reset() {
	if !c.initialized {
		return
	}
	c.initialized = false
	c.slot = -1
	c.current = 0
	c.reg.Unlock()
}

// TotalMatched counts matching entities without disturbing iteration state.
func (c *Cursor) TotalMatched() int {
	total := 0
	for slot := 0; slot < c.reg.slotCount(); slot++ {
		if _, ok := c.reg.entityAt(slot); !ok {
			continue
		}
		if c.query.Evaluate(c.reg.masks[slot]) {
			total++
		}
	}
	return total
}

package delve

// Joins iterate the smallest store and probe the others by entity, skipping
// entities missing any required kind. Iteration order follows the smallest
// store's insertion order; systems needing id-ascending order should use a
// Cursor instead.

// Join2 visits every entity holding both A and B.
func Join2[A, B any](sa *ComponentStore[A], sb *ComponentStore[B], fn func(Entity, *A, *B)) {
	sa.reg.Lock()
	defer sa.reg.Unlock()
	if sb.Len() < sa.Len() {
		for i := 0; i < len(sb.entities); i++ {
			e := sb.entities[i]
			if a, ok := sa.Get(e); ok {
				fn(e, a, &sb.dense[i])
			}
		}
		return
	}
	for i := 0; i < len(sa.entities); i++ {
		e := sa.entities[i]
		if b, ok := sb.Get(e); ok {
			fn(e, &sa.dense[i], b)
		}
	}
}

// Join3 visits every entity holding A, B, and C.
func Join3[A, B, C any](sa *ComponentStore[A], sb *ComponentStore[B], sc *ComponentStore[C], fn func(Entity, *A, *B, *C)) {
	sa.reg.Lock()
	defer sa.reg.Unlock()

	smallest := sa.Len()
	which := 0
	if sb.Len() < smallest {
		smallest = sb.Len()
		which = 1
	}
	if sc.Len() < smallest {
		which = 2
	}

	switch which {
	case 0:
		for i := 0; i < len(sa.entities); i++ {
			e := sa.entities[i]
			if b, ok := sb.Get(e); ok {
				if c, ok := sc.Get(e); ok {
					fn(e, &sa.dense[i], b, c)
				}
			}
		}
	case 1:
		for i := 0; i < len(sb.entities); i++ {
			e := sb.entities[i]
			if a, ok := sa.Get(e); ok {
				if c, ok := sc.Get(e); ok {
					fn(e, a, &sb.dense[i], c)
				}
			}
		}
	case 2:
		for i := 0; i < len(sc.entities); i++ {
			e := sc.entities[i]
			if a, ok := sa.Get(e); ok {
				if b, ok := sb.Get(e); ok {
					fn(e, a, b, &sc.dense[i])
				}
			}
		}
	}
}

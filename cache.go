package delve

import "fmt"

var _ Cache[any] = &SimpleCache[any]{}

// SimpleCache is a bounded, append-only registry. The world uses one as its
// item catalog: definitions register once at setup, inventories reference
// them by index.
type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

// FactoryNewCache creates a cache holding at most cap items.
func FactoryNewCache[T any](cap int) Cache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[T]) GetItem(index int) *T {
	if index < 0 || index >= len(c.items) {
		return nil
	}
	return &c.items[index]
}

func (c *SimpleCache[T]) GetItem32(index uint32) *T {
	return c.GetItem(int(index))
}

func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if _, exists := c.itemIndices[key]; exists {
		return -1, fmt.Errorf("cache key already registered: %s", key)
	}
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, fmt.Errorf("cache at maximum capacity (%d)", c.maxCapacity)
	}

	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)

	return idx, nil
}

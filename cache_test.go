package delve

import "testing"

func TestSimpleCacheRegisterLookup(t *testing.T) {
	cache := FactoryNewCache[Item](4)

	idx, err := cache.Register("potion", Item{Name: "potion", Heal: 6})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if got, ok := cache.GetIndex("potion"); !ok || got != idx {
		t.Errorf("GetIndex = %d/%v, want %d", got, ok, idx)
	}
	if item := cache.GetItem(idx); item == nil || item.Heal != 6 {
		t.Errorf("GetItem = %v", item)
	}
	if item := cache.GetItem32(uint32(idx)); item == nil || item.Name != "potion" {
		t.Errorf("GetItem32 = %v", item)
	}
}

func TestSimpleCacheRejectsDuplicates(t *testing.T) {
	cache := FactoryNewCache[Item](4)
	if _, err := cache.Register("potion", Item{}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := cache.Register("potion", Item{}); err == nil {
		t.Error("duplicate key accepted")
	}
}

func TestSimpleCacheCapacity(t *testing.T) {
	cache := FactoryNewCache[Item](2)
	cache.Register("a", Item{})
	cache.Register("b", Item{})
	if _, err := cache.Register("c", Item{}); err == nil {
		t.Error("registration past capacity accepted")
	}
}

func TestSimpleCacheOutOfRange(t *testing.T) {
	cache := FactoryNewCache[Item](2)
	if item := cache.GetItem(-1); item != nil {
		t.Error("negative index returned an item")
	}
	if item := cache.GetItem(5); item != nil {
		t.Error("out-of-range index returned an item")
	}
}

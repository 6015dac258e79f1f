package ecs

import "testing"

func TestGenerationalIDs(t *testing.T) {
	pool := NewEntityPool()
	first := pool.Create()
	if !pool.Alive(first) {
		t.Fatal("fresh entity should be alive")
	}
	pool.Destroy(first)
	if pool.Alive(first) {
		t.Fatal("destroyed entity still alive")
	}

	// The index is reused with a bumped generation.
	second := pool.Create()
	if second.Index() != first.Index() {
		t.Fatalf("expected index reuse, got %d vs %d", second.Index(), first.Index())
	}
	if second.Generation() == first.Generation() {
		t.Fatal("generation must change on reuse")
	}
	if pool.Alive(first) {
		t.Fatal("stale handle resurrected")
	}
}

func TestWorldDeferredDestruction(t *testing.T) {
	w := NewWorld()
	store := NewPtrComponentStore[int]()
	w.Registry().Register(store)

	entity := w.CreateEntity()
	value := 42
	store.Set(entity, &value)

	w.MarkForDestruction(entity)
	if !w.Alive(entity) {
		t.Fatal("entity must stay alive until the sweep")
	}
	if len(w.PendingDestruction()) != 1 {
		t.Fatal("destruction not queued")
	}

	w.FlushDestroyQueue()
	if w.Alive(entity) {
		t.Fatal("entity survived the sweep")
	}
	if store.Has(entity) {
		t.Fatal("components must be cleared on destroy")
	}
}

func TestEach2IteratesIntersection(t *testing.T) {
	a := NewPtrComponentStore[int]()
	b := NewPtrComponentStore[string]()
	pool := NewEntityPool()

	both := pool.Create()
	onlyA := pool.Create()
	x, y := 1, 2
	s := "s"
	a.Set(both, &x)
	a.Set(onlyA, &y)
	b.Set(both, &s)

	count := 0
	Each2(a, b, func(id EntityID, _ *int, _ *string) {
		if id != both {
			t.Fatalf("unexpected entity %v", id)
		}
		count++
	})
	if count != 1 {
		t.Fatalf("visited %d entities, want 1", count)
	}
}

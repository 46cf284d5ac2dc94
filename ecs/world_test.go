package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/twentytwenty/ecs/component"
)

func TestSparseWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("second DestroyEntity should be a no-op")
				}
				if len(Entities(w)) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
				}
			}
		})
	}
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot reuse, got %v and %v", old, fresh)
	}
	if fresh == old {
		t.Fatalf("recycled entity must not equal the stale handle")
	}
	if Has(w, fresh, h.Kind()) {
		t.Fatalf("recycled entity inherited a component from the destroyed one")
	}
	if _, ok := Get(w, old, h.Kind()); ok {
		t.Fatalf("stale handle should not resolve components")
	}
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}

func TestSparseWorldComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()
	h3 := component.NewComponent[float64]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2.Kind()) || !Has(w, e2, h2.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
			},
			teardown: func() bool { return Remove(w, e1, h2.Kind()) },
		},
		{
			name:  "add_float_and_remove",
			setup: func() error { return Add(w, e1, h3.Kind(), float64Ptr(1.23)) },
			check: func(t *testing.T) {
				if _, ok := Get(w, e1, h3.Kind()); !ok {
					t.Fatalf("expected float present")
				}
			},
			teardown: func() bool { return Remove(w, e1, h3.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := CreateEntity(w)

	if err := Add(w, e, h.Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	var zero component.ComponentKind[int]
	if err := Add(w, e, zero, intPtr(1)); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
	DestroyEntity(w, e)
	if err := Add(w, e, h.Kind(), intPtr(1)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestGetReturnsSharedPointer(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := CreateEntity(w)
	if err := Add(w, e, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	v, _ := Get(w, e, h.Kind())
	*v = 5
	again, _ := Get(w, e, h.Kind())
	if *again != 5 {
		t.Fatalf("expected in-place mutation to persist, got %d", *again)
	}
}

func TestForEach(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		w := NewWorld()
		h := component.NewComponent[int]()

		e1 := CreateEntity(w)
		_ = CreateEntity(w)
		e3 := CreateEntity(w)

		if err := Add(w, e1, h.Kind(), intPtr(1)); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := Add(w, e3, h.Kind(), intPtr(3)); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		seen := map[Entity]int{}
		ForEach(w, h.Kind(), func(e Entity, v *int) { seen[e] = *v })
		if len(seen) != 2 || seen[e1] != 1 || seen[e3] != 3 {
			t.Fatalf("unexpected visit set: %v", seen)
		}
	})

	t.Run("destroy_during_iteration", func(t *testing.T) {
		w := NewWorld()
		h := component.NewComponent[int]()
		ents := []Entity{CreateEntity(w), CreateEntity(w), CreateEntity(w)}
		for i, e := range ents {
			if err := Add(w, e, h.Kind(), intPtr(i)); err != nil {
				t.Fatalf("add failed: %v", err)
			}
		}

		visits := 0
		ForEach(w, h.Kind(), func(e Entity, _ *int) {
			visits++
			for _, other := range ents {
				if other != e {
					DestroyEntity(w, other)
				}
			}
		})
		if visits != 1 {
			t.Fatalf("expected destroyed entities to be skipped, got %d visits", visits)
		}
	})

	t.Run("create_during_iteration", func(t *testing.T) {
		w := NewWorld()
		h := component.NewComponent[int]()
		e := CreateEntity(w)
		_ = Add(w, e, h.Kind(), intPtr(0))

		visits := 0
		ForEach(w, h.Kind(), func(Entity, *int) {
			visits++
			n := CreateEntity(w)
			_ = Add(w, n, h.Kind(), intPtr(1))
		})
		if visits != 1 {
			t.Fatalf("entities created mid-iteration should wait for the next pass, got %d visits", visits)
		}
		if Count(w, h.Kind()) != 2 {
			t.Fatalf("expected 2 components, got %d", Count(w, h.Kind()))
		}
	})
}

func TestForEach2AndFirst(t *testing.T) {
	w := NewWorld()
	ha := component.NewComponent[int]()
	hb := component.NewComponent[string]()

	both := CreateEntity(w)
	onlyA := CreateEntity(w)
	_ = Add(w, both, ha.Kind(), intPtr(1))
	_ = Add(w, both, hb.Kind(), stringPtr("x"))
	_ = Add(w, onlyA, ha.Kind(), intPtr(2))

	var got []Entity
	ForEach2(w, ha.Kind(), hb.Kind(), func(e Entity, _ *int, _ *string) { got = append(got, e) })
	if len(got) != 1 || got[0] != both {
		t.Fatalf("expected only %v, got %v", both, got)
	}

	first, ok := First(w, hb.Kind())
	if !ok || first != both {
		t.Fatalf("First returned %v ok=%v", first, ok)
	}
	DestroyEntity(w, both)
	if _, ok := First(w, hb.Kind()); ok {
		t.Fatalf("First should fail once the only carrier is gone")
	}
}

func TestEventQueueDrain(t *testing.T) {
	w := NewWorld()
	w.Events().Push(Event{Type: EventCheckpoint, Data: 3})
	w.Events().Push(Event{Type: EventGameOver})
	evts := w.Events().Drain()
	if len(evts) != 2 || evts[0].Type != EventCheckpoint || evts[1].Type != EventGameOver {
		t.Fatalf("unexpected events: %v", evts)
	}
	if w.Events().Len() != 0 {
		t.Fatalf("queue should be empty after drain")
	}
}

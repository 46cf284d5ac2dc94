package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
)

func TestTouchingFromNormal(t *testing.T) {
	tests := []struct {
		name   string
		normal cp.Vector
		want   Touching
	}{
		{"below", cp.Vector{X: 0, Y: 1}, Touching{Down: true}},
		{"above", cp.Vector{X: 0, Y: -1}, Touching{Up: true}},
		{"left", cp.Vector{X: -1, Y: 0}, Touching{Left: true}},
		{"right", cp.Vector{X: 1, Y: 0}, Touching{Right: true}},
		{"shallow", cp.Vector{X: 0.3, Y: 0.3}, Touching{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := touchingFromNormal(tc.normal); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestDispatchOrientsAndMerges(t *testing.T) {
	w := ecs.NewWorld()
	stock := ecs.CreateEntity(w)
	player := ecs.CreateEntity(w)

	var r ColliderRegistry
	var got []Contact
	r.AddCollider("player", Is(player), Is(stock), func(c Contact) { got = append(got, c) })

	// The arbiter lists the stock first; its normal points from the stock
	// down into the player.
	r.dispatch(w, []rawContact{
		{a: stock, b: player, normal: cp.Vector{X: 0, Y: 1}},
		{a: stock, b: player, normal: cp.Vector{X: 1, Y: 0}},
	})

	if len(got) != 1 {
		t.Fatalf("expected one merged delivery, got %d", len(got))
	}
	c := got[0]
	if c.A != player || c.B != stock {
		t.Fatalf("expected contact oriented player->stock, got %v->%v", c.A, c.B)
	}
	if !c.Touching.Up || !c.Touching.Left || c.Touching.Down {
		t.Fatalf("unexpected touching %+v", c.Touching)
	}
}

func TestDispatchSkipsRetiredColliders(t *testing.T) {
	w := ecs.NewWorld()
	a := ecs.CreateEntity(w)
	ground := ecs.CreateEntity(w)
	_ = ecs.Add(w, ground, component.GroundTagComponent.Kind(), &component.GroundTag{})

	var r ColliderRegistry
	var second *Collider
	calls := 0
	r.AddCollider("first", Is(a), Tagged(component.GroundTagComponent.Kind()), func(Contact) {
		second.Destroy()
	})
	second = r.AddCollider("second", Is(a), Tagged(component.GroundTagComponent.Kind()), func(Contact) { calls++ })

	r.dispatch(w, []rawContact{{a: a, b: ground, normal: cp.Vector{Y: 1}}})
	if calls != 0 {
		t.Fatalf("collider retired mid-dispatch must not fire")
	}
	if r.Len() != 1 {
		t.Fatalf("expected retired collider pruned, %d left", r.Len())
	}
}

func TestDispatchSkipsDeadEntities(t *testing.T) {
	w := ecs.NewWorld()
	a := ecs.CreateEntity(w)
	b := ecs.CreateEntity(w)
	c := ecs.CreateEntity(w)

	var r ColliderRegistry
	calls := 0
	r.AddCollider("", Is(a), func(*ecs.World, ecs.Entity) bool { return true }, func(ct Contact) {
		calls++
		ecs.DestroyEntity(w, c)
	})
	r.dispatch(w, []rawContact{
		{a: a, b: b, normal: cp.Vector{Y: 1}},
		{a: a, b: c, normal: cp.Vector{Y: 1}},
	})
	if calls != 1 {
		t.Fatalf("expected the destroyed entity's contact to be dropped, got %d calls", calls)
	}
}

func TestInvokeAfterDestroyPanics(t *testing.T) {
	var r ColliderRegistry
	c := r.AddCollider("ground", nil, nil, nil)
	c.Destroy()
	c.Destroy()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	c.Invoke(Contact{})
}

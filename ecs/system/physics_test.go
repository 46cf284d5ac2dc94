package system

import (
	"testing"

	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
)

func addGround(t *testing.T, w *ecs.World, x, y, width, height float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	addTransform(t, w, e, x, y)
	_ = ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: width, Height: height, Static: true, Friction: 0.8, Elasticity: 1})
	_ = ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: component.LayerGround, Mask: component.LayerPlayer | component.LayerHazard | component.LayerCritter})
	_ = ecs.Add(w, e, component.GroundTagComponent.Kind(), &component.GroundTag{})
	return e
}

func TestPhysicsBoxLandsOnGround(t *testing.T) {
	w := ecs.NewWorld()
	addGround(t, w, 500, 620, 1000, 40)

	box := ecs.CreateEntity(w)
	bt := addTransform(t, w, box, 500, 500)
	_ = ecs.Add(w, box, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 40, Height: 40, Friction: 0.8})
	_ = ecs.Add(w, box, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: component.LayerHazard, Mask: component.LayerGround})

	ps := NewPhysicsSystem(0)
	var touches []Touching
	ps.AddCollider(Is(box), Tagged(component.GroundTagComponent.Kind()), func(c Contact) {
		touches = append(touches, c.Touching)
	})

	for i := 0; i < 120 && len(touches) == 0; i++ {
		ps.Update(w)
	}
	if len(touches) == 0 {
		t.Fatalf("expected the box to reach the ground")
	}
	if !touches[0].Down {
		t.Fatalf("box should touch ground below it, got %+v", touches[0])
	}
	// Ground top is at 600; the box center rests 20 above it.
	if bt.Y < 560 || bt.Y > 590 {
		t.Fatalf("box transform not synced near the ground, y=%v", bt.Y)
	}
}

func TestPhysicsMaskFiltersContacts(t *testing.T) {
	w := ecs.NewWorld()
	addGround(t, w, 500, 620, 1000, 40)

	ghost := ecs.CreateEntity(w)
	addTransform(t, w, ghost, 500, 500)
	_ = ecs.Add(w, ghost, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 40, Height: 40})
	_ = ecs.Add(w, ghost, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: component.LayerCritter, Mask: component.LayerPlayer})

	ps := NewPhysicsSystem(0)
	calls := 0
	ps.AddCollider(Is(ghost), Tagged(component.GroundTagComponent.Kind()), func(Contact) { calls++ })
	for i := 0; i < 60; i++ {
		ps.Update(w)
	}
	if calls != 0 {
		t.Fatalf("masked-out body should pass through the ground, got %d contacts", calls)
	}
}

func TestPhysicsDisabledAndDestroyedBodiesLeaveSpace(t *testing.T) {
	w := ecs.NewWorld()
	wall := addGround(t, w, 100, 100, 16, 240)
	box := ecs.CreateEntity(w)
	addTransform(t, w, box, 0, 0)
	_ = ecs.Add(w, box, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 10, Height: 10})

	ps := NewPhysicsSystem(0)
	ps.Update(w)
	if ps.BodyCount() != 2 {
		t.Fatalf("expected 2 bodies, got %d", ps.BodyCount())
	}

	body, _ := ecs.Get(w, wall, component.PhysicsBodyComponent.Kind())
	body.Disabled = true
	ecs.DestroyEntity(w, box)
	ps.Update(w)
	if ps.BodyCount() != 0 {
		t.Fatalf("expected an empty space, got %d", ps.BodyCount())
	}

	body.Disabled = false
	ps.Update(w)
	if ps.BodyCount() != 1 || body.Shape == nil {
		t.Fatalf("re-enabled wall should be rebuilt")
	}
}

func TestPlayerGroundedFromContacts(t *testing.T) {
	w := ecs.NewWorld()
	addGround(t, w, 500, 620, 1000, 40)
	player := addPlayer(t, w, 500)
	pt, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	pt.Y = 560
	_ = ecs.Add(w, player, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 40, Height: 60, Friction: 0.8})
	_ = ecs.Add(w, player, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: component.LayerPlayer, Mask: component.LayerGround | component.LayerHazard})
	pc := &component.PlayerCollision{}
	_ = ecs.Add(w, player, component.PlayerCollisionComponent.Kind(), pc)

	ps := NewPhysicsSystem(0)
	for i := 0; i < 30; i++ {
		ps.Update(w)
	}
	if !pc.Grounded || pc.GroundGrace == 0 {
		t.Fatalf("player resting on the ground should be grounded, got %+v", pc)
	}
}

package scene

import (
	"testing"

	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/ecs/system"
)

func TestSpawnStockBuildsAirborneStock(t *testing.T) {
	h := newHarness(t)

	st, err := h.session.SpawnStock(KindStockGoogle, "-33%", 800)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if st.Stage() != StockAirborne || st.Fallen() {
		t.Fatalf("expected airborne stock, got %v", st.Stage())
	}

	root := transformOf(t, h.world, st.Root)
	if root.X != 900 || root.Y != DefaultStockSpec.SpawnY {
		t.Fatalf("expected root at (900,%v), got (%v,%v)", DefaultStockSpec.SpawnY, root.X, root.Y)
	}
	body, ok := ecs.Get(h.world, st.Root, component.PhysicsBodyComponent.Kind())
	if !ok {
		t.Fatalf("expected root physics body")
	}
	if !body.Immovable || !body.NoGravity || body.AccelY != DefaultStockSpec.Acceleration || body.Elasticity != DefaultStockSpec.Bounce {
		t.Fatalf("unexpected stock body %+v", body)
	}
	if text, ok := ecs.Get(h.world, st.Text, component.TextComponent.Kind()); !ok || text.Value != "-33%" {
		t.Fatalf("expected label -33%%, got %+v", text)
	}
	if sparks, ok := ecs.Get(h.world, st.Sparks, component.SpriteComponent.Kind()); !ok || !sparks.Hidden {
		t.Fatalf("expected hidden sparks")
	}
	if anim, ok := system.CurrentAnimation(h.world, st.Fire); !ok || anim != DefaultStockSpec.Fire {
		t.Fatalf("expected fire animation, got %q", anim)
	}
	if !st.PlayerCollider().Active() || !st.GroundCollider().Active() {
		t.Fatalf("expected both colliders active")
	}
}

func TestSpawnStockRejectsNonStockKind(t *testing.T) {
	h := newHarness(t)
	if _, err := h.session.SpawnStock(KindCat, "x", 0); err == nil {
		t.Fatalf("expected error for non-stock kind")
	}
}

func TestStockGroundContactStages(t *testing.T) {
	h := newHarness(t)
	st, err := h.session.SpawnStock(KindStockApple, "-38%", 800)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	root := transformOf(t, h.world, st.Root)
	root.Y = 500
	h.attach.Update(h.world)

	st.GroundCollider().Invoke(system.Contact{A: st.Root})
	if st.Stage() != StockGrounded {
		t.Fatalf("expected grounded after first contact, got %v", st.Stage())
	}
	if ecs.IsAlive(h.world, st.Fire) || ecs.IsAlive(h.world, st.Text) {
		t.Fatalf("expected fire and label destroyed on landing")
	}
	if sparks, ok := ecs.Get(h.world, st.Sparks, component.SpriteComponent.Kind()); !ok || sparks.Hidden {
		t.Fatalf("expected visible sparks after landing")
	}

	st.GroundCollider().Invoke(system.Contact{A: st.Root})
	if st.Stage() != StockInert {
		t.Fatalf("expected inert after second contact, got %v", st.Stage())
	}
	if st.GroundCollider().Active() || st.PlayerCollider().Active() {
		t.Fatalf("expected colliders retired")
	}
	if ecs.IsAlive(h.world, st.Root) || ecs.IsAlive(h.world, st.Sparks) {
		t.Fatalf("expected root and sparks destroyed")
	}
	if !ecs.Has(h.world, st.Body, component.GroundTagComponent.Kind()) {
		t.Fatalf("expected settled body to join the ground")
	}
	if ecs.Has(h.world, st.Body, component.AttachmentComponent.Kind()) {
		t.Fatalf("expected settled body detached")
	}
	body, ok := ecs.Get(h.world, st.Body, component.PhysicsBodyComponent.Kind())
	if !ok || !body.Static {
		t.Fatalf("expected static body, got %+v", body)
	}
	if tr := transformOf(t, h.world, st.Body); tr.X != 900 || tr.Y != 500 {
		t.Fatalf("expected body at root position (900,500), got (%v,%v)", tr.X, tr.Y)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on a third ground contact")
		}
	}()
	st.GroundCollider().Invoke(system.Contact{A: st.Root})
}

func TestStockPlayerContactKillsOnlyFromAbove(t *testing.T) {
	h := newHarness(t)
	st, err := h.session.SpawnStock(KindStockMicrosoft, "-45%", 400)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	h.world.Events().Drain()

	tests := []struct {
		name     string
		touching system.Touching
		gameOver bool
	}{
		{name: "side", touching: system.Touching{Left: true}},
		{name: "below", touching: system.Touching{Down: true}},
		{name: "above", touching: system.Touching{Up: true}, gameOver: true},
		{name: "corner", touching: system.Touching{Up: true, Right: true}, gameOver: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st.PlayerCollider().Invoke(system.Contact{A: h.stage.Player, B: st.Root, Touching: tt.touching})
			got := len(h.events(ecs.EventGameOver)) > 0
			if got != tt.gameOver {
				t.Fatalf("expected game over %v, got %v", tt.gameOver, got)
			}
			if st.Stage() != StockAirborne {
				t.Fatalf("player contact must not change stage, got %v", st.Stage())
			}
		})
	}
}

func TestStockFallsAndSettlesUnderPhysics(t *testing.T) {
	h := newHarness(t)
	st, err := h.session.SpawnStock(KindStockFacebook, "-21%", 700)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	for i := 0; i < 1200 && st.Stage() != StockInert; i++ {
		h.step()
	}
	if st.Stage() != StockInert {
		t.Fatalf("expected stock to settle, got %v", st.Stage())
	}
	tr := transformOf(t, h.world, st.Body)
	if tr.Y < 560 || tr.Y > 600 {
		t.Fatalf("expected stock resting on the ground near y=592, got %v", tr.Y)
	}
	if len(h.events(ecs.EventGameOver)) != 0 {
		t.Fatalf("stock away from the player must not end the game")
	}
}

func TestCloseReleasesStockColliders(t *testing.T) {
	h := newHarness(t)
	st, err := h.session.SpawnStock(KindStockAmazon, "-28%", 1000)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	h.session.Close()
	if st.PlayerCollider().Active() || st.GroundCollider().Active() {
		t.Fatalf("expected colliders retired on close")
	}
	if _, err := h.session.SpawnStock(KindStockAmazon, "-28%", 1000); err != ErrSessionClosed {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

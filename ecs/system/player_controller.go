package system

import (
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/ecs/render"
)

// Player clip keys, defined by DefinePlayerAnimations.
const (
	PlayerIdleAnim  = "idle"
	PlayerRunAnim   = "run"
	PlayerJumpAnim  = "jump"
	PlayerFallAnim  = "fall"
	PlayerThrowAnim = "throw"
)

// PlayerControllerSystem turns input into player velocity. While the player
// is locked by a cutscene it stands still and ignores input.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, player *component.Player, body *component.PhysicsBody) {
		input, ok := ecs.Get(w, e, component.InputComponent.Kind())
		if !ok || player.Locked {
			input = &component.Input{}
		}

		vy := 0.0
		if body.Body != nil {
			vy = body.Body.Velocity().Y
		}
		if input.JumpPressed {
			if pc, ok := ecs.Get(w, e, component.PlayerCollisionComponent.Kind()); ok && pc.GroundGrace > 0 {
				vy = -player.JumpSpeed
				pc.GroundGrace = 0
			}
		}
		SetVelocity(w, e, input.MoveX*player.MoveSpeed, vy)

		if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
			if input.MoveX < 0 {
				sprite.FlipX = true
			} else if input.MoveX > 0 {
				sprite.FlipX = false
			}
		}

		want := playerClip(w, e, input.MoveX, vy)
		if player.ThrowFrames > 0 {
			player.ThrowFrames--
			want = PlayerThrowAnim
		}
		if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); !ok || anim.Current != want {
			_ = PlayAnimation(w, e, want)
		}
	})
}

func playerClip(w *ecs.World, e ecs.Entity, moveX, vy float64) string {
	if pc, ok := ecs.Get(w, e, component.PlayerCollisionComponent.Kind()); ok && !pc.Grounded {
		if vy < 0 {
			return PlayerJumpAnim
		}
		return PlayerFallAnim
	}
	if moveX != 0 {
		return PlayerRunAnim
	}
	return PlayerIdleAnim
}

// DefinePlayerAnimations registers the player clips.
func DefinePlayerAnimations(lib *render.AnimationLibrary) {
	lib.Define(render.AnimationDef{Key: PlayerIdleAnim, Sheet: "player-idle", FrameRate: 10, Repeat: render.RepeatForever})
	lib.Define(render.AnimationDef{Key: PlayerRunAnim, Sheet: "player-run", FrameRate: 10, Repeat: render.RepeatForever})
	lib.Define(render.AnimationDef{Key: PlayerJumpAnim, Sheet: "player-jump", FrameRate: 5})
	lib.Define(render.AnimationDef{Key: PlayerFallAnim, Sheet: "player-jump", Start: 1, End: 2, FrameRate: 10, Repeat: render.RepeatForever})
	lib.Define(render.AnimationDef{Key: PlayerThrowAnim, Sheet: "player-throw", FrameRate: 10})
}

// PlayerThrow shows the throw pose for the given number of frames.
func PlayerThrow(w *ecs.World, frames int) {
	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	if player, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		player.ThrowFrames = frames
	}
}

// PlayerPosition returns the player's transform position.
func PlayerPosition(w *ecs.World) (x, y float64, ok bool) {
	e, found := ecs.First(w, component.PlayerTagComponent.Kind())
	if !found {
		return 0, 0, false
	}
	t, found := ecs.Get(w, e, component.TransformComponent.Kind())
	if !found {
		return 0, 0, false
	}
	return t.X, t.Y, true
}

// SetPlayerLocked takes control away from, or gives it back to, the player.
func SetPlayerLocked(w *ecs.World, locked bool) {
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(_ ecs.Entity, p *component.Player) {
		p.Locked = locked
	})
}

package system

import (
	"testing"
	"time"

	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/ecs/render"
)

func newAnimated(t *testing.T, w *ecs.World, key string) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Width: 10, Height: 10}); err != nil {
		t.Fatalf("add sprite: %v", err)
	}
	if err := PlayAnimation(w, e, key); err != nil {
		t.Fatalf("play: %v", err)
	}
	return e
}

func TestAnimationPlayback(t *testing.T) {
	tests := []struct {
		name       string
		def        render.AnimationDef
		ticks      int
		wantFrames []int
		wantDone   bool
		wantHidden bool
	}{
		{
			name:       "loop",
			def:        render.AnimationDef{Key: "loop", End: 2, FrameRate: 10, Repeat: render.RepeatForever},
			ticks:      4,
			wantFrames: []int{1, 2, 0, 1},
		},
		{
			name:       "yoyo",
			def:        render.AnimationDef{Key: "yoyo", End: 2, FrameRate: 10, Repeat: render.RepeatForever, Yoyo: true},
			ticks:      5,
			wantFrames: []int{1, 2, 1, 0, 1},
		},
		{
			name:       "once_hides",
			def:        render.AnimationDef{Key: "sparks", End: 1, FrameRate: 10, HideOnComplete: true},
			ticks:      3,
			wantFrames: []int{1, 1, 1},
			wantDone:   true,
			wantHidden: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			lib := render.NewAnimationLibrary(nil)
			lib.Define(tc.def)
			// One tick per frame.
			sys := NewAnimationSystem(lib, nil, 100*time.Millisecond)
			e := newAnimated(t, w, tc.def.Key)

			for i := 0; i < tc.ticks; i++ {
				sys.Update(w)
				anim, _ := ecs.Get(w, e, component.AnimationComponent.Kind())
				if anim.Frame != tc.wantFrames[i] {
					t.Fatalf("tick %d: expected frame %d, got %d", i, tc.wantFrames[i], anim.Frame)
				}
			}
			anim, _ := ecs.Get(w, e, component.AnimationComponent.Kind())
			if anim.Playing == tc.wantDone {
				t.Fatalf("expected playing=%v", !tc.wantDone)
			}
			sprite, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
			if sprite.Hidden != tc.wantHidden {
				t.Fatalf("expected hidden=%v", tc.wantHidden)
			}
			if !sprite.UseSource || sprite.Source.Dx() != 10 {
				t.Fatalf("expected a 10px frame source, got %v", sprite.Source)
			}
		})
	}
}

func TestAnimationRepeatDelay(t *testing.T) {
	w := ecs.NewWorld()
	lib := render.NewAnimationLibrary(nil)
	lib.Define(render.AnimationDef{Key: "blink", End: 1, FrameRate: 10, Repeat: 1, RepeatDelay: 200 * time.Millisecond})
	sys := NewAnimationSystem(lib, nil, 100*time.Millisecond)
	e := newAnimated(t, w, "blink")

	want := []int{1, 0, 0, 0, 1}
	for i, f := range want {
		sys.Update(w)
		anim, _ := ecs.Get(w, e, component.AnimationComponent.Kind())
		if anim.Frame != f {
			t.Fatalf("tick %d: expected frame %d, got %d", i, f, anim.Frame)
		}
	}
	sys.Update(w)
	if _, playing := CurrentAnimation(w, e); playing {
		t.Fatalf("finite repeat should stop after its last pass")
	}
}

func TestPlayAnimationUnhides(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Hidden: true})
	if err := PlayAnimation(w, e, "3-stock-sparks"); err != nil {
		t.Fatalf("play: %v", err)
	}
	sprite, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
	if sprite.Hidden {
		t.Fatalf("playing should make the sprite visible")
	}
	if key, ok := CurrentAnimation(w, e); !ok || key != "3-stock-sparks" {
		t.Fatalf("unexpected current animation %q", key)
	}
}

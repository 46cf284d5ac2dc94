package system

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/ecs/render"
)

// SheetSource resolves a sheet name to its image and frame size. The image
// may be nil when nothing is drawn, as in tests.
type SheetSource func(sheet string) (img *ebiten.Image, frameW, frameH int, ok bool)

// AnimationSystem advances clips from the library and points each sprite at
// the current frame of its sheet.
type AnimationSystem struct {
	lib    *render.AnimationLibrary
	sheets SheetSource
	step   time.Duration
}

func NewAnimationSystem(lib *render.AnimationLibrary, sheets SheetSource, step time.Duration) *AnimationSystem {
	if step <= 0 {
		step = common.Step
	}
	return &AnimationSystem{lib: lib, sheets: sheets, step: step}
}

func (a *AnimationSystem) Library() *render.AnimationLibrary {
	return a.lib
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if w == nil || a.lib == nil {
		return
	}
	ecs.ForEach2(w, component.AnimationComponent.Kind(), component.SpriteComponent.Kind(), func(_ ecs.Entity, anim *component.Animation, sprite *component.Sprite) {
		def, ok := a.lib.Get(anim.Current)
		if !ok {
			return
		}
		if anim.Playing {
			advance(anim, def, a.step)
			if !anim.Playing && def.HideOnComplete {
				sprite.Hidden = true
			}
		}
		a.applyFrame(sprite, def, anim)
	})
}

// advance moves playback forward by dt. One pass runs Start..End, and back
// again for yoyo clips; Repeat further passes follow, each after
// RepeatDelay.
func advance(anim *component.Animation, def render.AnimationDef, dt time.Duration) {
	frameDur := def.FrameDuration()
	count := def.FrameCount()

	for dt > 0 && anim.Playing {
		if anim.Waiting > 0 {
			if dt < anim.Waiting {
				anim.Waiting -= dt
				return
			}
			dt -= anim.Waiting
			anim.Waiting = 0
			continue
		}

		need := frameDur - anim.Elapsed
		if dt < need {
			anim.Elapsed += dt
			return
		}
		dt -= need
		anim.Elapsed = 0

		if stepFrame(anim, def, count) {
			continue
		}

		anim.Loops++
		if def.Repeat != render.RepeatForever && anim.Loops > def.Repeat {
			anim.Playing = false
			return
		}
		anim.Frame = 0
		anim.Reverse = false
		anim.Waiting = def.RepeatDelay
	}
}

// stepFrame moves to the next frame of the pass. It returns false when the
// pass is over.
func stepFrame(anim *component.Animation, def render.AnimationDef, count int) bool {
	if anim.Reverse {
		// Landing back on the first frame closes a yoyo pass.
		anim.Frame--
		return anim.Frame > 0
	}
	if anim.Frame < count-1 {
		anim.Frame++
		return true
	}
	if def.Yoyo && count > 1 {
		anim.Reverse = true
		anim.Frame--
		return anim.Frame > 0
	}
	return false
}

func (a *AnimationSystem) applyFrame(sprite *component.Sprite, def render.AnimationDef, anim *component.Animation) {
	fw, fh := int(sprite.Width), int(sprite.Height)
	if a.sheets != nil {
		img, w, h, ok := a.sheets(def.Sheet)
		if ok {
			if img != nil {
				sprite.Image = img
			}
			fw, fh = w, h
			sprite.Width, sprite.Height = float64(w), float64(h)
		}
	}
	sprite.Key = def.Sheet
	if fw <= 0 || fh <= 0 {
		return
	}
	x := (def.Start + anim.Frame) * fw
	sprite.Source = image.Rect(x, 0, x+fw, fh)
	sprite.UseSource = true
}

// PlayAnimation starts key on e from its first frame, adding the animation
// component when missing. Replaying the running clip restarts it.
func PlayAnimation(w *ecs.World, e ecs.Entity, key string) error {
	if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
		sprite.Hidden = false
	}
	anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind())
	if !ok {
		return ecs.Add(w, e, component.AnimationComponent.Kind(), &component.Animation{Current: key, Playing: true})
	}
	*anim = component.Animation{Current: key, Playing: true}
	return nil
}

// CurrentAnimation returns the clip playing on e, if any.
func CurrentAnimation(w *ecs.World, e ecs.Entity) (string, bool) {
	anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind())
	if !ok || !anim.Playing {
		return "", false
	}
	return anim.Current, true
}

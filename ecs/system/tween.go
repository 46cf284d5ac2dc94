package system

import (
	"time"

	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
)

// TweenSystem moves transforms toward their tween targets. A finished tween
// is removed before its OnComplete runs, so the callback may destroy the
// entity.
type TweenSystem struct {
	step time.Duration
}

func NewTweenSystem(step time.Duration) *TweenSystem {
	if step <= 0 {
		step = common.Step
	}
	return &TweenSystem{step: step}
}

func (s *TweenSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.TweenComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tw *component.Tween, t *component.Transform) {
		if !tw.Started {
			tw.FromX, tw.FromY = t.X, t.Y
			tw.Started = true
		}
		tw.Elapsed += s.step

		p := 1.0
		if tw.Duration > 0 {
			p = common.Clamp(float64(tw.Elapsed)/float64(tw.Duration), 0, 1)
		}
		t.X = common.Lerp(tw.FromX, tw.ToX, ease(tw.EaseX, p))
		t.Y = common.Lerp(tw.FromY, tw.ToY, ease(tw.EaseY, p))

		if p < 1 {
			return
		}
		done := tw.OnComplete
		ecs.Remove(w, e, component.TweenComponent.Kind())
		if done != nil {
			done()
		}
	})
}

func ease(fn component.Ease, p float64) float64 {
	if fn == nil {
		fn = common.EaseLinear
	}
	return fn(p)
}

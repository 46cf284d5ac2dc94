package system

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
)

const titleSize = 48

// TitleSystem runs caption fades and draws them over the scene.
type TitleSystem struct {
	step time.Duration
}

func NewTitleSystem(step time.Duration) *TitleSystem {
	if step <= 0 {
		step = common.Step
	}
	return &TitleSystem{step: step}
}

func (s *TitleSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.TitleComponent.Kind(), func(e ecs.Entity, t *component.Title) {
		t.Elapsed += s.step
		if t.Elapsed >= 2*t.Fade+t.Hold {
			ecs.DestroyEntity(w, e)
		}
	})
}

func (s *TitleSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	ecs.ForEach(w, component.TitleComponent.Kind(), func(_ ecs.Entity, t *component.Title) {
		drawLabel(screen, t.Text, titleSize, 0.5, 0.5, common.BaseWidth/2, common.BaseHeight*0.3, TitleAlpha(t))
	})
}

// TitleAlpha is the caption opacity: ramping up over Fade, fully opaque for
// Hold, ramping down over the final Fade.
func TitleAlpha(t *component.Title) float64 {
	switch {
	case t.Fade <= 0:
		return 1
	case t.Elapsed < t.Fade:
		return float64(t.Elapsed) / float64(t.Fade)
	case t.Elapsed < t.Fade+t.Hold:
		return 1
	default:
		out := t.Elapsed - t.Fade - t.Hold
		return common.Clamp(1-float64(out)/float64(t.Fade), 0, 1)
	}
}

// ShowTitle replaces any caption on screen with a new one.
func ShowTitle(w *ecs.World, value string, fade, hold time.Duration) (ecs.Entity, error) {
	ecs.ForEach(w, component.TitleComponent.Kind(), func(e ecs.Entity, _ *component.Title) {
		ecs.DestroyEntity(w, e)
	})
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TitleComponent.Kind(), &component.Title{Text: value, Fade: fade, Hold: hold}); err != nil {
		return 0, err
	}
	return e, nil
}
